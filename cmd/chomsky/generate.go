package main

import (
	"strings"

	"github.com/aretw0/chomsky/internal/cli"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/enumerate"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "List the words of a grammar's language",
	Long: `Enumerates the words derivable from the start symbol with at most
--max-length terminals, shortest first. The empty word prints as ε.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup(cmd)
		output, _ := cmd.Flags().GetString("output")
		start, _ := cmd.Flags().GetString("start")

		maxLength := cfg.MaxLength
		if cmd.Flags().Changed("max-length") {
			maxLength, _ = cmd.Flags().GetInt("max-length")
		}
		maxWords := cfg.MaxWords
		if cmd.Flags().Changed("max-words") {
			maxWords, _ = cmd.Flags().GetInt("max-words")
		}

		source, libStart := readGrammar(cmd, cfg, args)
		if start == "" {
			start = string(libStart)
		}

		engine, closer, err := newEngine(engineOptions(cmd, cfg, logger))
		if err != nil {
			return err
		}
		defer closer.Close()

		opts := []enumerate.Option{enumerate.WithMaxWords(maxWords)}
		if start != "" {
			opts = append(opts, enumerate.WithStart(domain.Symbol(start)))
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		words, err := engine.Generate(ctx, source, maxLength, opts...)
		if err != nil {
			return err
		}

		lines := make([]string, len(words))
		for i, w := range words {
			if w == "" {
				w = string(domain.Epsilon)
			}
			lines[i] = w
		}
		result := struct {
			Words []string `json:"words" yaml:"words"`
			Count int      `json:"count" yaml:"count"`
		}{Words: words, Count: len(words)}

		return cli.Write(cmd.OutOrStdout(), output, result, strings.Join(lines, "\n"))
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntP("max-length", "n", 4, "Maximum word length in terminals (default from config)")
	generateCmd.Flags().IntP("max-words", "m", 10, "Maximum number of words (default from config)")
	generateCmd.Flags().String("start", "", "Start symbol (default: first rule)")
	generateCmd.Flags().StringP("output", "o", cli.FormatText, "Output format: text, json or yaml")
	generateCmd.Flags().String("from-library", "", "Name of a grammar in the library (grammars_dir)")
}
