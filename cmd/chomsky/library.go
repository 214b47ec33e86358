package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/chomsky/internal/cli"
	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse the grammar library",
	Long:  `Lists and shows the grammars stored as Markdown files under grammars_dir.`,
}

var libraryListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List the grammars in the library",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := setup(cmd)
		lib, err := cli.OpenLibrary(cfg.GrammarsDir)
		if err != nil {
			fail(err)
		}

		names, err := lib.List(cmd.Context())
		if err != nil {
			fail(err)
		}
		if len(names) == 0 {
			fmt.Fprintf(os.Stderr, "No grammars found in %s\n", cfg.GrammarsDir)
			return
		}
		for _, name := range names {
			entry, err := lib.Get(cmd.Context(), name)
			if err != nil {
				fail(err)
			}
			if entry.Description != "" {
				fmt.Printf("%-20s %s\n", name, entry.Description)
			} else {
				fmt.Println(name)
			}
		}
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a grammar from the library",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := setup(cmd)
		output, _ := cmd.Flags().GetString("output")

		lib, err := cli.OpenLibrary(cfg.GrammarsDir)
		if err != nil {
			fail(err)
		}
		entry, err := lib.Get(cmd.Context(), args[0])
		if err != nil {
			fail(err)
		}
		if err := cli.Write(os.Stdout, output, entry, strings.TrimSpace(entry.Source)); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryShowCmd.Flags().StringP("output", "o", cli.FormatText, "Output format: text, json or yaml")
}
