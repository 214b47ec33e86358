package main

import (
	"fmt"

	"github.com/aretw0/chomsky/internal/cli"
	"github.com/aretw0/chomsky/internal/presentation/tui"
	"github.com/aretw0/chomsky/pkg/domain"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check whether a grammar is already in strict CNF",
	Long: `Lists every production that breaks strict Chomsky Normal Form.
Exits with status 1 when the grammar is not in strict CNF.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup(cmd)
		output, _ := cmd.Flags().GetString("output")
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

		violations, err := engine.Check(source, domain.Symbol(start))
		if err != nil {
			return err
		}
		if violations == nil {
			violations = []domain.Violation{}
		}

		strict := len(violations) == 0
		if output != cli.FormatText {
			result := struct {
				Strict     bool               `json:"strict" yaml:"strict"`
				Violations []domain.Violation `json:"violations" yaml:"violations"`
			}{Strict: strict, Violations: violations}
			if err := cli.Write(out, output, result, ""); err != nil {
				return err
			}
		} else if strict {
			fmt.Fprintln(out, tui.Status(out, true, "Grammar is in strict CNF"))
		} else {
			fmt.Fprintln(out, tui.Status(out, false, fmt.Sprintf("%d production(s) break strict CNF", len(violations))))
			for _, v := range violations {
				fmt.Fprintf(out, "  %s\n", v)
			}
		}

		if !strict {
			return errNotStrict
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().String("start", "", "Start symbol (default: first rule)")
	checkCmd.Flags().StringP("output", "o", cli.FormatText, "Output format: text, json or yaml")
	checkCmd.Flags().String("from-library", "", "Name of a grammar in the library (grammars_dir)")
}
