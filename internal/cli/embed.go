package cli

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/NarmalaSk/diem/internal/profile"
	"github.com/NarmalaSk/diem/plugin/ai"
)

func newEmbedCmd() *cobra.Command {
	var (
		text  string
		file  string
		model string
	)

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Compute embeddings for text via an OpenAI-compatible API",
		Long:  "Computes an embedding for --text, or one per line of --file, and prints the vectors as JSON. Configure the provider with DIEM_EMBEDDING_API_KEY, DIEM_EMBEDDING_BASE_URL and DIEM_EMBEDDING_MODEL.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (text == "") == (file == "") {
				return errors.New("provide exactly one of --text or --file")
			}

			cfg, err := profile.LoadEmbedding()
			if err != nil {
				return err
			}
			if model != "" {
				cfg.Model = model
			}
			svc, err := ai.NewEmbeddingService(cfg)
			if err != nil {
				return err
			}

			if text != "" {
				vec, err := svc.Embed(cmd.Context(), text)
				if err != nil {
					return err
				}
				return printJSON(cmd, vec)
			}

			texts, err := readLines(file)
			if err != nil {
				return err
			}
			vecs, err := svc.EmbedBatch(cmd.Context(), texts)
			if err != nil {
				return err
			}
			return printJSON(cmd, vecs)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "text to embed")
	cmd.Flags().StringVar(&file, "file", "", "file with one text per line")
	cmd.Flags().StringVar(&model, "model", "", "embedding model, overrides the configured one")
	return cmd
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	lines := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return lines, nil
}
