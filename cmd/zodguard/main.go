// Package main implements the zodguard CLI: a thin driver over the
// zodguard library that resolves an input source (file argument,
// --stdin, or --clipboard), runs ValidateSchema, and prints the result
// in one of several shapes.
//
// File Index:
//   - main.go       - entry point, rootCmd, global flags, PersistentPreRunE
//   - input.go      - resolveSource(): file arg / --stdin / --clipboard
//   - render.go     - lipgloss-styled diagnostic output
//   - run.go        - runValidate(): the core command body
//   - watch.go      - --watch, backed by fsnotify
//   - history_cmd.go - --history, reading from internal/history
//   - interactive.go - --interactive, a small bubbletea result browser
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"zodguard/internal/history"
	"zodguard/internal/logging"
)

var (
	flagStdin             bool
	flagClipboard         bool
	flagConfig            string
	flagConfigFile        string
	flagCleanOnly         bool
	flagJSON              bool
	flagGetUnifiedLargest bool
	flagUnwrapArrays      bool
	flagWatch             bool
	flagHistory           bool
	flagHistoryLimit      int
	flagInteractive       bool
	flagHistoryPath       string

	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "zodguard [file]",
	Short: "Validate, sanitize, and restructure LLM-generated Zod schemas",
	Long: `zodguard parses Zod schema-construction source produced by an untrusted
generator, rejects or strips anything that falls outside a configured
safety policy, and prints the sanitized result.

Reads from a positional file argument, standard input (--stdin), or the
system clipboard (--clipboard). Exactly one of these must be selected.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runRoot,
}

func init() {
	rootCmd.Flags().BoolVar(&flagStdin, "stdin", false, "Read source from standard input")
	rootCmd.Flags().BoolVar(&flagClipboard, "clipboard", false, "Read source from the system clipboard")
	rootCmd.Flags().StringVar(&flagConfig, "config", "relaxed", "Preset: extremelySafe, medium, or relaxed")
	rootCmd.Flags().StringVar(&flagConfigFile, "config-file", "", "YAML overlay merged onto --config")
	rootCmd.Flags().BoolVar(&flagCleanOnly, "clean-only", false, "Print only the cleaned source")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the full ValidationResult as JSON")
	rootCmd.Flags().BoolVar(&flagGetUnifiedLargest, "getUnifiedLargest", false, "Print only the largest dependency-inlined schema group")
	rootCmd.Flags().BoolVar(&flagUnwrapArrays, "unwrapArrays", false, "Unwrap a top-level z.array(X) to X when rendering schema groups")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "Re-validate the input file whenever it changes")
	rootCmd.Flags().BoolVar(&flagHistory, "history", false, "Print recent runs from the local audit store instead of validating")
	rootCmd.Flags().IntVar(&flagHistoryLimit, "history-limit", 20, "Number of runs --history prints")
	rootCmd.Flags().StringVar(&flagHistoryPath, "history-db", defaultHistoryPath(), "Path to the local audit store database")
	rootCmd.Flags().BoolVar(&flagInteractive, "interactive", false, "Browse the result in an interactive terminal UI")
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "zodguard-history.db"
	}
	return filepath.Join(home, ".zodguard", "history.db")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if flagHistory {
		return runHistory(cmd)
	}
	if flagWatch {
		return runWatch(cmd, args)
	}
	return runOnce(cmd, args)
}

func openHistoryStore() (*history.Store, error) {
	_ = os.MkdirAll(filepath.Dir(flagHistoryPath), 0o755)
	return history.Open(flagHistoryPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
