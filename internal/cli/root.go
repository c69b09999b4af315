// Package cli implements the diem command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/NarmalaSk/diem/internal/profile"
	"github.com/NarmalaSk/diem/store"
	"github.com/NarmalaSk/diem/store/db"
)

// NewRootCmd builds the diem command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "diem",
		Short:         "Manage vector embeddings in a relational database",
		Long:          "DIEM stores, searches and manages vector embeddings in a relational database with native vector support (MariaDB vector or PostgreSQL pgvector).",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newConnectCmd(),
		newCloseCmd(),
		newCreateTableCmd(),
		newDeleteTableCmd(),
		newInsertVectorCmd(),
		newInsertBatchCmd(),
		newSearchCmd(),
		newUpdateVectorCmd(),
		newDeleteVectorsCmd(),
		newListDatabasesCmd(),
		newListTablesCmd(),
		newGetAllCmd(),
		newSyncCmd(),
		newEmbedCmd(),
	)
	return rootCmd
}

// openStore loads the saved profile and opens a session-owned store. The
// caller closes it.
func openStore() (*store.Store, *profile.Profile, error) {
	p, err := profile.Load()
	if err != nil {
		return nil, nil, err
	}
	driver, err := db.NewDriver(p)
	if err != nil {
		return nil, nil, err
	}
	return store.New(driver), p, nil
}
