package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// runHistory prints the most recent audited runs instead of validating
// anything; it is mutually exclusive with the other run modes.
func runHistory(cmd *cobra.Command) error {
	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no recorded runs")
		return nil
	}

	for _, run := range runs {
		ts := time.UnixMilli(run.TimestampMs).Format(time.RFC3339)
		status := "valid"
		if !run.IsValid {
			status = "invalid"
		}
		fmt.Fprintf(out, "%s  %-7s  errors=%-3d warnings=%-3d groups=%-3d elapsed=%dms  source=%s\n",
			ts, status, run.ErrorCount, run.WarningCount, run.SchemaGroupCount, run.ElapsedMs, run.SourceHash[:12])
	}
	return nil
}
