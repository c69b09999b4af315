package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/NarmalaSk/diem/internal/runner/analytics"
	"github.com/NarmalaSk/diem/store"
)

func newSyncCmd() *cobra.Command {
	var (
		source   string
		dest     string
		key      string
		interval time.Duration
		page     int
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy rows into an analytics table on a fixed interval",
		Long:  "Copies pages of rows from the source table into the destination table until interrupted. The runner owns its own connection and never holds a transaction across sleep intervals.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			r := analytics.NewRunner(s, store.CopyRequest{
				Source:    source,
				Dest:      dest,
				KeyColumn: key,
				PageSize:  page,
			}, interval)

			if once {
				r.RunOnce(cmd.Context())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Syncing %q -> %q every %s. Press Ctrl+C to stop.\n", source, dest, interval)
			r.Run(cmd.Context())
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "source table")
	cmd.Flags().StringVar(&dest, "dest", "", "destination table")
	cmd.Flags().StringVar(&key, "key", "id", "key column identifying already-copied rows")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "sync interval")
	cmd.Flags().IntVar(&page, "page", 1000, "maximum rows copied per cycle")
	cmd.Flags().BoolVar(&once, "once", false, "copy a single page and exit")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("dest")
	return cmd
}
