package main

import (
	"github.com/aretw0/chomsky/internal/cli"
	"github.com/aretw0/chomsky/internal/config"
	"github.com/aretw0/chomsky/internal/presentation/text"
	"github.com/aretw0/chomsky/internal/presentation/tui"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/aretw0/chomsky/pkg/ports"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a grammar to strict Chomsky Normal Form",
	Long: `Reads a grammar from a file, stdin or the grammar library and prints its
strict Chomsky Normal Form, rooted at --start when given. With --steps, every intermediate grammar is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup(cmd)
		output, _ := cmd.Flags().GetString("output")
		steps, _ := cmd.Flags().GetBool("steps")
		start, _ := cmd.Flags().GetString("start")
		out := cmd.OutOrStdout()

		source, libStart := readGrammar(cmd, cfg, args)
		if start == "" {
			start = string(libStart)
		}

		engine, closer, err := newEngine(engineOptions(cmd, cfg, logger))
		if err != nil {
			return err
		}
		defer closer.Close()

		conv, err := engine.Convert(cmd.Context(), source, domain.Symbol(start))
		if err != nil {
			return err
		}

		plain := conv.CNF
		if steps {
			plain = text.Markdown("CNF conversion", conv.Steps)
			if output == cli.FormatText && cli.IsTerminal(out) {
				render := tui.NewRenderer()
				if rich, err := render(plain); err == nil {
					plain = rich
				}
			}
		}
		if err := cli.Write(out, output, conv, plain); err != nil {
			return err
		}
		logger.Info("Conversion complete", "id", conv.ID, "start", conv.Start)
		return nil
	},
}

// readGrammar resolves the grammar text from the positional file argument,
// stdin or --from-library, along with the library entry's start symbol.
func readGrammar(cmd *cobra.Command, cfg config.Config, args []string) (string, domain.Symbol) {
	name, _ := cmd.Flags().GetString("from-library")
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	var lib ports.GrammarLibrary
	if name != "" {
		var err error
		if lib, err = cli.OpenLibrary(cfg.GrammarsDir); err != nil {
			fail(err)
		}
	}
	source, start, err := cli.ResolveSource(cmd.Context(), lib, name, path, cmd.InOrStdin())
	if err != nil {
		fail(err)
	}
	return source, start
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("output", "o", cli.FormatText, "Output format: text, json or yaml")
	convertCmd.Flags().String("start", "", "Start symbol (default: the library entry's start, else the first rule)")
	convertCmd.Flags().Bool("steps", false, "Show the grammar after every normalization stage")
	convertCmd.Flags().String("from-library", "", "Name of a grammar in the library (grammars_dir)")
}
