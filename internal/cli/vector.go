package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/NarmalaSk/diem/internal/vecsql"
	"github.com/NarmalaSk/diem/plugin/ai"
	"github.com/NarmalaSk/diem/store"
)

func newInsertVectorCmd() *cobra.Command {
	var (
		table string
		data  string
		text  string
		dim   int
	)

	cmd := &cobra.Command{
		Use:   "insert-vector",
		Short: "Insert a single row with its embedding",
		RunE: func(cmd *cobra.Command, args []string) error {
			row := vecsql.Row{}
			if data != "" {
				if err := json.Unmarshal([]byte(data), &row); err != nil {
					return errors.Wrap(err, "invalid JSON in --data")
				}
			}
			if value, ok := row[vecsql.EmbeddingColumn]; ok && dim > 0 {
				vec, err := vecsql.ParseEmbedding(value)
				if err != nil {
					return err
				}
				if err := vecsql.CheckDimension(vec, dim); err != nil {
					return err
				}
			}

			s, p, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if text != "" {
				if _, ok := row[vecsql.EmbeddingColumn]; ok {
					return errors.New("--text and an embedding key in --data are mutually exclusive")
				}
				svc, err := ai.NewEmbeddingService(&p.Embedding)
				if err != nil {
					return err
				}
				vec, err := svc.Embed(cmd.Context(), text)
				if err != nil {
					return err
				}
				if err := vecsql.CheckDimension(vec, dim); err != nil {
					return err
				}
				row[vecsql.EmbeddingColumn] = vec
			}

			if err := s.InsertVector(cmd.Context(), table, row); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted 1 row into %q.\n", table)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name")
	cmd.Flags().StringVar(&data, "data", "", `JSON row, e.g. '{"name": "Item", "embedding": [0.1, 0.2]}'`)
	cmd.Flags().StringVar(&text, "text", "", "text to embed into the embedding column")
	cmd.Flags().IntVar(&dim, "dim", 0, "expected embedding dimension, checked before insert")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func newInsertBatchCmd() *cobra.Command {
	var (
		table string
		file  string
	)

	cmd := &cobra.Command{
		Use:   "insert-batch",
		Short: "Insert rows from a CSV file in one transaction",
		Long:  "Reads a CSV file whose header includes an 'embedding' column and applies all rows in a single transaction. Rows with malformed embeddings are skipped and counted; an engine failure rolls the whole batch back.",
		RunE: func(cmd *cobra.Command, args []string) error {
			columns, rows, err := readCSVRows(file)
			if err != nil {
				return err
			}

			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := s.BatchInsert(cmd.Context(), table, columns, rows)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d rows into %q (%d skipped).\n",
				result.Inserted, table, len(result.Skipped))
			for _, skipped := range result.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "- skipped row %d: %s\n", skipped.Row, skipped.Reason)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name")
	cmd.Flags().StringVar(&file, "file", "", "path to the CSV file")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		table       string
		queryVector string
		metric      string
		k           int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find the nearest rows to a query vector",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedMetric, err := vecsql.ParseMetric(metric)
			if err != nil {
				return err
			}
			query, err := vecsql.ParseEmbedding(queryVector)
			if err != nil {
				return err
			}

			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.Search(cmd.Context(), &store.SearchOptions{
				Table:  table,
				Query:  query,
				Metric: parsedMetric,
				Limit:  k,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d results:\n", len(rows))
			return printJSON(cmd, rows)
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name")
	cmd.Flags().StringVar(&queryVector, "query-vector", "", `JSON query vector, e.g. '[0.1, 0.2, 0.3]'`)
	cmd.Flags().StringVar(&metric, "metric", "cosine", "distance metric: cosine or euclidean")
	cmd.Flags().IntVar(&k, "k", 5, "number of results")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("query-vector")
	return cmd
}

func newUpdateVectorCmd() *cobra.Command {
	var (
		table      string
		data       string
		where      string
		paramsJSON string
	)

	cmd := &cobra.Command{
		Use:   "update-vector",
		Short: "Update rows matched by a required WHERE clause",
		RunE: func(cmd *cobra.Command, args []string) error {
			set := vecsql.Row{}
			if err := json.Unmarshal([]byte(data), &set); err != nil {
				return errors.Wrap(err, "invalid JSON in --data")
			}
			params, err := parseParams(paramsJSON)
			if err != nil {
				return err
			}

			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			affected, err := s.UpdateVectors(cmd.Context(), table, set, where, params)
			if err != nil {
				return err
			}
			if affected == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Update ran but 0 rows matched the WHERE clause in %q.\n", table)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d row(s) in %q.\n", affected, table)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name")
	cmd.Flags().StringVar(&data, "data", "", `JSON of columns to set, e.g. '{"embedding": [0.1, 0.2]}'`)
	cmd.Flags().StringVar(&where, "where", "", `WHERE clause, e.g. "name = :key"`)
	cmd.Flags().StringVar(&paramsJSON, "params", "", `JSON of WHERE parameters, e.g. '{"key": "value"}'`)
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("where")
	return cmd
}

func newDeleteVectorsCmd() *cobra.Command {
	var (
		table      string
		where      string
		paramsJSON string
	)

	cmd := &cobra.Command{
		Use:   "delete-vectors",
		Short: "Delete rows matched by a required WHERE clause",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(paramsJSON)
			if err != nil {
				return err
			}

			s, _, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			affected, err := s.DeleteVectors(cmd.Context(), table, where, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d row(s) from %q.\n", affected, table)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table name")
	cmd.Flags().StringVar(&where, "where", "", `WHERE clause, e.g. "name = :key"`)
	cmd.Flags().StringVar(&paramsJSON, "params", "", `JSON of WHERE parameters, e.g. '{"key": "value"}'`)
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("where")
	return cmd
}

func parseParams(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	params := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, errors.Wrap(err, "invalid JSON in --params")
	}
	return params, nil
}

// readCSVRows loads a delimited file into generic rows. The header must
// include the embedding column; every header name must be a valid
// identifier. Embedding cells stay textual and are parsed per row by the
// batch executor, so one bad cell skips one row instead of failing the file.
func readCSVRows(path string) ([]string, []vecsql.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "file %s is empty or not valid CSV", path)
	}

	hasEmbedding := false
	for _, col := range header {
		if err := vecsql.ValidateIdentifier(col); err != nil {
			return nil, nil, err
		}
		if col == vecsql.EmbeddingColumn {
			hasEmbedding = true
		}
	}
	if !hasEmbedding {
		return nil, nil, errors.Errorf("file %s has no %q column", path, vecsql.EmbeddingColumn)
	}

	rows := []vecsql.Row{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to read %s", path)
		}
		row := vecsql.Row{}
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}
