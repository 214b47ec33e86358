package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/chomsky/internal/cli"
	"github.com/aretw0/chomsky/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chomsky",
	Short: "Chomsky converts context-free grammars to Chomsky Normal Form",
	Long: `Chomsky reads context-free grammars written as 'A -> B c | ε' rules,
converts them to strict Chomsky Normal Form step by step, and lists the words
of their languages up to a length bound.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errNotStrict makes check exit with status 1 after it has reported the
// violations itself.
var errNotStrict = errors.New("grammar is not in strict CNF")

// newEngine is replaced in tests.
var newEngine = cli.NewEngine

// Execute adds all child commands to the root command and sets flags appropriately.
// Commands return their errors so that deferred cleanup runs before exiting.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotStrict) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML or JSON configuration file")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("skip-malformed", false, "Skip malformed grammar lines instead of failing")
}

// setup loads the configuration and logger shared by every command.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger) {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	logger, err := cli.NewLogger(level)
	if err != nil {
		fail(err)
	}
	slog.SetDefault(logger)

	cfg, err := config.Load(path)
	if err != nil {
		fail(err)
	}
	logger.Debug("Configuration loaded", "path", path, "max_length", cfg.MaxLength, "max_words", cfg.MaxWords)
	return cfg, logger
}

// engineOptions builds the engine settings for cmd.
func engineOptions(cmd *cobra.Command, cfg config.Config, logger *slog.Logger) cli.EngineOptions {
	skip, _ := cmd.Flags().GetBool("skip-malformed")
	return cli.EngineOptions{Config: cfg, Logger: logger, SkipMalformed: skip}
}

// fail exits at once. Use it only before anything needs releasing.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
