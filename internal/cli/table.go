package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/NarmalaSk/diem/internal/vecsql"
)

func newCreateTableCmd() *cobra.Command {
	var (
		table        string
		dim          int
		otherColumns string
		primaryKey   string
		distance     string
		m            int
		indexName    string
	)

	cmd := &cobra.Command{
		Use:   "create-table",
		Short: "Create a vector table with a vector index",
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, err := vecsql.ParseMetric(distance)
			if err != nil {
				return err
			}

			var extra map[string]string
			if otherColumns != "" {
				if err := json.Unmarshal([]byte(otherColumns), &extra); err != nil {
					return errors.Wrap(err, "invalid JSON in --other-columns")
				}
			}

			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			desc := &vecsql.TableDescriptor{
				Name:         table,
				Dim:          dim,
				OtherColumns: extra,
				PrimaryKey:   primaryKey,
				Metric:       metric,
				M:            m,
				IndexName:    indexName,
			}
			if err := s.CreateTable(cmd.Context(), desc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Table %q is ready.\n", table)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name")
	cmd.Flags().IntVar(&dim, "dim", 0, "vector dimension (e.g. 1536)")
	cmd.Flags().StringVar(&otherColumns, "other-columns", "", `JSON of extra columns, e.g. '{"name": "VARCHAR(128)"}'`)
	cmd.Flags().StringVar(&primaryKey, "primary-key", "", "primary key column (must be one of the extra columns)")
	cmd.Flags().StringVar(&distance, "distance", "cosine", "distance metric: cosine or euclidean")
	cmd.Flags().IntVar(&m, "m", 8, "vector index tuning parameter M")
	cmd.Flags().StringVar(&indexName, "index-name", "", "vector index name (default <table>_vec_idx)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("dim")
	return cmd
}

func newDeleteTableCmd() *cobra.Command {
	var (
		table string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "delete-table",
		Short: "Drop a vector table permanently",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := vecsql.ValidateIdentifier(table); err != nil {
				return err
			}

			confirmed := yes
			if !confirmed {
				fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to permanently delete the table %q? (yes/no): ", table)
				reader := bufio.NewReader(cmd.InOrStdin())
				answer, _ := reader.ReadString('\n')
				confirmed = strings.TrimSpace(strings.ToLower(answer)) == "yes"
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted. Table was not deleted.")
				return nil
			}

			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DropTable(cmd.Context(), table, confirmed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Table %q deleted.\n", table)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the interactive confirmation")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func newListDatabasesCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "list-databases",
		Short: "List databases on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			names, err := s.ListDatabases(cmd.Context(), pattern)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d databases:\n", len(names))
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "LIKE pattern, e.g. 'test_%'")
	return cmd
}

func newListTablesCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "list-tables",
		Short: "List tables in the connected database",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			names, err := s.ListTables(cmd.Context(), pattern)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d tables:\n", len(names))
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "LIKE pattern, e.g. 'test_%'")
	return cmd
}

func newGetAllCmd() *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "get-all",
		Short: "Fetch every row of a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.GetAll(cmd.Context(), table)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d rows in %q:\n", len(rows), table)
			return printJSON(cmd, rows)
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to render output")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return nil
}
