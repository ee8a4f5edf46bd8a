package main

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// resolveSource picks exactly one of the three input channels spec.md
// §6 lists as mutually exclusive: a positional file argument, --stdin,
// or --clipboard.
func resolveSource(cmd *cobra.Command, args []string) ([]byte, string, error) {
	selected := 0
	if len(args) == 1 {
		selected++
	}
	if flagStdin {
		selected++
	}
	if flagClipboard {
		selected++
	}
	if selected == 0 {
		return nil, "", fmt.Errorf("no input given: pass a file argument, --stdin, or --clipboard")
	}
	if selected > 1 {
		return nil, "", fmt.Errorf("input sources are mutually exclusive: pass only one of file argument, --stdin, --clipboard")
	}

	switch {
	case flagStdin:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "<stdin>", nil
	case flagClipboard:
		text, err := clipboard.ReadAll()
		if err != nil {
			return nil, "", fmt.Errorf("read clipboard: %w", err)
		}
		return []byte(text), "<clipboard>", nil
	default:
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", path, err)
		}
		return data, path, nil
	}
}
