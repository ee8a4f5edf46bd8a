// Package zodguard is the library entry point: it validates, sanitizes,
// and restructures Zod schema-construction source code produced by an
// untrusted generator, per spec.md §6.
package zodguard

import (
	"context"

	"zodguard/internal/config"
	"zodguard/internal/depgraph"
	"zodguard/internal/issue"
	"zodguard/internal/orchestrator"
)

// Config re-exports the run configuration so callers never need to
// import internal/config directly.
type Config = config.Config

// Issue re-exports one reported diagnostic.
type Issue = issue.Issue

// SchemaGroup re-exports one dependency-inlined connected component.
type SchemaGroup = depgraph.SchemaGroup

// ValidationResult is the value ValidateSchema returns.
type ValidationResult = orchestrator.ValidationResult

// ExtremelySafe, Medium, and Relaxed are the three named presets spec.md
// §6 requires.
func ExtremelySafe() Config { return config.ExtremelySafe() }
func Medium() Config        { return config.Medium() }
func Relaxed() Config       { return config.Relaxed() }

// ValidateSchema parses source, validates it against cfg, removes
// non-conforming top-level statements, auto-exports the survivors, and
// (if cfg.SchemaUnification.Enabled) computes dependency-inlined schema
// groups. It never executes schemas and never performs network or disk
// I/O of its own.
func ValidateSchema(ctx context.Context, source []byte, cfg Config) ValidationResult {
	return orchestrator.ValidateSchema(ctx, source, cfg)
}
