package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"zodguard/internal/logging"
)

// runWatch re-validates args[0] every time it changes on disk, per
// spec.md §6's --watch flag. --stdin and --clipboard make no sense
// alongside a file watch, so only a positional file argument is
// accepted here.
func runWatch(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("--watch requires a file argument")
	}
	path := args[0]

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %s for changes (ctrl-c to stop)\n", path)
	if err := validateWatchedFile(cmd, path); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s changed, re-validating ---\n", path)
			if err := validateWatchedFile(cmd, path); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if logger != nil {
				logger.For(logging.CategoryCLI).Warnw("watch error", "error", err)
			}
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	}
}

func validateWatchedFile(cmd *cobra.Command, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	result, elapsed := validate(cmd.Context(), source, cfg)
	recordHistory(cmd.Context(), source, result, elapsed)
	return printResult(cmd, result)
}
