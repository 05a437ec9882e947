package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"weeder/internal/logging"
	"weeder/internal/runner"
)

func newVocabCommand(ctx *commandContext) *cobra.Command {
	var overrides weedingFlags
	var top int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Count word frequencies without writing any output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.configCopy()
			if err != nil {
				return err
			}
			if err := overrides.apply(cmd, cfg); err != nil {
				return err
			}
			logger := logging.NewNop()
			if level := ctx.logLevel(); level != "" {
				logger, _, err = logging.New(logging.Options{
					Level:       level,
					Format:      "console",
					OutputPaths: []string{"stderr"},
				})
				if err != nil {
					return err
				}
			}

			vocab, err := runner.CountVocabulary(cmd.Context(), cfg, top, logger)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, vocab)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s documents, %s tokens, %s distinct words (%s below min_count %d)\n",
				humanize.Comma(int64(vocab.Documents)),
				humanize.Comma(vocab.Tokens),
				humanize.Comma(int64(vocab.Distinct)),
				humanize.Comma(int64(vocab.Rare)),
				cfg.Weeding.MinCount,
			)
			if len(vocab.Top) == 0 {
				return nil
			}
			fmt.Fprint(out, renderTable(
				[]string{"#", "Word", "Count", "Keep"},
				buildVocabRows(vocab),
				[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
			))
			fmt.Fprintln(out)
			return nil
		},
	}

	overrides.register(cmd)
	cmd.Flags().IntVarP(&top, "top", "n", 20, "Number of most frequent words to list (0 lists all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}

func buildVocabRows(vocab *runner.Vocabulary) [][]string {
	rows := make([][]string, 0, len(vocab.Top))
	for i, entry := range vocab.Top {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			entry.Word,
			humanize.Comma(entry.Count),
			humanize.FormatFloat("#.##", 100*entry.KeepProbability) + "%",
		})
	}
	return rows
}
