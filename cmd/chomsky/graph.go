package main

import (
	"fmt"

	"github.com/aretw0/chomsky/internal/presentation/graph"
	"github.com/aretw0/chomsky/internal/sanitize"
	"github.com/aretw0/chomsky/pkg/cnf"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the grammar dependency graph",
	Long: `Outputs a Mermaid diagram (graph TD) of the dependencies between nonterminals.
With --cnf, the graph of the converted grammar is drawn and the nonterminals
introduced by the conversion are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup(cmd)
		toCNF, _ := cmd.Flags().GetBool("cnf")
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

		g, err := engine.Parse(source)
		if err != nil {
			return err
		}
		root := g.Start()
		if start != "" {
			root = domain.Symbol(start)
		}

		if !toCNF {
			fmt.Fprint(out, graph.GenerateMermaid(g, root, nil))
			return nil
		}

		if err := sanitize.Grammar(g); err != nil {
			return err
		}
		res, err := cnf.Convert(cmd.Context(), g, cnf.WithLogger(logger), cnf.WithStart(root))
		if err != nil {
			return err
		}
		overlay := &graph.GraphOverlay{Introduced: graph.Introduced(g, res.Grammar)}
		fmt.Fprint(out, graph.GenerateMermaid(res.Grammar, res.Start, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("start", "", "Start symbol (default: the library entry's start, else the first rule)")
	graphCmd.Flags().Bool("cnf", false, "Draw the CNF grammar and highlight introduced nonterminals")
	graphCmd.Flags().String("from-library", "", "Name of a grammar in the library (grammars_dir)")
}
