package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"zodguard"
	"zodguard/internal/config"
	"zodguard/internal/history"
	"zodguard/internal/issue"
	"zodguard/internal/logging"
)

func resolveConfig() (config.Config, error) {
	var cfg config.Config
	switch flagConfig {
	case "extremelySafe":
		cfg = zodguard.ExtremelySafe()
	case "medium":
		cfg = zodguard.Medium()
	case "relaxed", "":
		cfg = zodguard.Relaxed()
	default:
		return config.Config{}, fmt.Errorf("unknown --config preset %q (want extremelySafe, medium, or relaxed)", flagConfig)
	}

	if flagUnwrapArrays {
		cfg.Features.UnwrapArrayRoot = true
		cfg.SchemaUnification.UnwrapArrayRoot = true
	}
	if flagGetUnifiedLargest {
		cfg.SchemaUnification.Enabled = true
	}

	if flagConfigFile != "" {
		override, err := config.LoadOverride(flagConfigFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = config.Overlay(cfg, override)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("resolved config is invalid: %w", err)
	}
	return cfg, nil
}

func runOnce(cmd *cobra.Command, args []string) error {
	source, label, err := resolveSource(cmd, args)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	result, elapsed := validate(cmd.Context(), source, cfg)
	recordHistory(cmd.Context(), source, result, elapsed)

	if flagInteractive {
		return runInteractive(label, result)
	}
	if err := printResult(cmd, result); err != nil {
		return err
	}
	if !result.IsValid {
		os.Exit(1)
	}
	return nil
}

func validate(ctx context.Context, source []byte, cfg config.Config) (zodguard.ValidationResult, time.Duration) {
	start := time.Now()
	result := zodguard.ValidateSchema(ctx, source, cfg)
	return result, time.Since(start)
}

func recordHistory(ctx context.Context, source []byte, result zodguard.ValidationResult, elapsed time.Duration) {
	store, err := openHistoryStore()
	if err != nil {
		if logger != nil {
			logger.For(logging.CategoryCLI).Warnw("failed to open audit store", "error", err)
		}
		return
	}
	defer store.Close()

	errs, warns := countBySeverity(result.Issues)
	run := history.Run{
		TimestampMs:      time.Now().UnixMilli(),
		SourceHash:       history.HashSource(source),
		IsValid:          result.IsValid,
		ErrorCount:       errs,
		WarningCount:     warns,
		SchemaGroupCount: len(result.SchemaGroups),
		ElapsedMs:        elapsed.Milliseconds(),
	}
	if err := store.Record(ctx, run); err != nil && logger != nil {
		logger.For(logging.CategoryCLI).Warnw("failed to record run", "error", err)
	}
}

func countBySeverity(issues []zodguard.Issue) (errorCount, warningCount int) {
	for _, iss := range issues {
		switch iss.Severity {
		case issue.Error:
			errorCount++
		case issue.Warning:
			warningCount++
		}
	}
	return
}

func printResult(cmd *cobra.Command, result zodguard.ValidationResult) error {
	out := cmd.OutOrStdout()

	switch {
	case flagJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case flagGetUnifiedLargest:
		groups := append([]zodguard.SchemaGroup(nil), result.SchemaGroups...)
		sort.SliceStable(groups, func(i, j int) bool {
			a, b := groups[i].Metrics, groups[j].Metrics
			if a.SchemaCount != b.SchemaCount {
				return a.SchemaCount > b.SchemaCount
			}
			if a.Complexity != b.Complexity {
				return a.Complexity > b.Complexity
			}
			return a.TotalLines > b.TotalLines
		})
		if len(groups) == 0 {
			return fmt.Errorf("no schema groups to print (enable schema_unification and ensure at least one schema survives cleaning)")
		}
		fmt.Fprintln(out, groups[0].Code)
		return nil
	case flagCleanOnly:
		fmt.Fprintln(out, result.CleanedCode)
		return nil
	default:
		renderIssues(out, result.Issues)
		errs, warns := countBySeverity(result.Issues)
		renderSummary(out, result.IsValid, errs, warns)
		if result.CleanedCode != "" {
			fmt.Fprintln(out, "---")
			fmt.Fprintln(out, result.CleanedCode)
		}
		return nil
	}
}
