package orchestrator

import (
	"zodguard/internal/depgraph"
	"zodguard/internal/issue"
)

// ValidationResult is the value a validate_schema call returns (spec.md
// §3's ValidationResult entity).
type ValidationResult struct {
	IsValid         bool
	CleanedCode     string
	Issues          []issue.Issue
	RootSchemaNames []string
	SchemaGroups    []depgraph.SchemaGroup
}
