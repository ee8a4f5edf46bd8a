// Package orchestrator implements the Schema Orchestrator from spec.md
// §4.6: the top-level validate_schema entry point that parses, classifies
// and removes disallowed top-level statements, validates the survivors
// via the Chain Validator, auto-exports bare declarations, prints the
// cleaned source, and optionally runs the Dependency Analyzer.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"zodguard/internal/argval"
	"zodguard/internal/chainval"
	"zodguard/internal/config"
	"zodguard/internal/depgraph"
	"zodguard/internal/governor"
	"zodguard/internal/issue"
	"zodguard/internal/objectval"
	"zodguard/internal/saferegex"
	"zodguard/internal/synx"
)

// ValidateSchema is the orchestrator's top-level entry point (spec.md
// §4.6). It runs the validation closure in an errgroup under a context
// bounded by cfg.Limits.TimeoutMs, realizing §5's "task-based interface
// for timeout wrapping". The parser and the Dependency Analyzer observe
// that context; the call waits for the closure to return, and if the
// deadline has passed by then the result is replaced with a single
// file-level timeout error. The governor's own cooperative checks are the
// primary defense.
func ValidateSchema(ctx context.Context, source []byte, cfg config.Config) ValidationResult {
	ctx, cancel := context.WithTimeout(ctx, cfg.Limits.Timeout())
	defer cancel()

	var result ValidationResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result = validate(gctx, source, cfg)
		return nil
	})
	if err := g.Wait(); err != nil || ctx.Err() != nil {
		return ValidationResult{
			IsValid: false,
			Issues: []issue.Issue{{
				Severity: issue.Error,
				Line:     1,
				Message:  "Failed to parse schema: validation timed out",
				NodeKind: "program",
			}},
		}
	}
	return result
}

func validate(ctx context.Context, source []byte, cfg config.Config) ValidationResult {
	gov := governor.New(cfg.Limits)
	reporter := issue.New()

	tree, err := synx.Parse(ctx, source)
	if err != nil {
		reporter.ReportAt(1, 0, fmt.Sprintf("Failed to parse schema: %s", err.Error()), "program")
		return ValidationResult{IsValid: false, Issues: reporter.Issues()}
	}
	defer tree.Close()
	if tree.HasError() {
		reporter.ReportAt(1, 0, "Failed to parse schema: syntax error", "program")
		return ValidationResult{IsValid: false, Issues: reporter.Issues()}
	}

	root := tree.Root()
	statements := root.NamedChildren()

	if !hasZodImport(statements) {
		reporter.ReportAt(1, 0, "Missing 'z' import from 'zod'", "program")
	}

	objects := objectval.New(cfg, reporter, gov)
	oracle := saferegex.Default
	args := argval.New(cfg, reporter, gov, objects, oracle)
	chains := chainval.New(cfg, reporter, gov, args)

	edits := make(map[[2]uint32]edit, len(statements))
	var rootSchemaNames []string
	survivingSchemas := 0

	for _, stmt := range statements {
		if stmt.Kind() == "comment" {
			continue
		}
		if err := gov.IncrementNode(); err != nil {
			reporter.ReportAt(1, 0, "Failed to parse schema: "+err.Error(), "program")
			return ValidationResult{IsValid: false, Issues: reporter.Issues()}
		}
		classifyStatement(stmt, chains, reporter, edits, &rootSchemaNames, &survivingSchemas)
	}

	cleanedCode := ""
	if survivingSchemas > 0 {
		cleanedCode = splice(source, statements, edits)
	}

	result := ValidationResult{
		IsValid:         !reporter.HasErrors(),
		CleanedCode:     cleanedCode,
		Issues:          reporter.Issues(),
		RootSchemaNames: rootSchemaNames,
	}

	if cfg.SchemaUnification.Enabled && cleanedCode != "" {
		groups, groupIssues, err := depgraph.Analyze(ctx, []byte(cleanedCode), cfg)
		if err != nil {
			reporter.ReportAt(1, 0, "Schema grouping failed: "+err.Error(), "program", issue.AsWarning())
			result.Issues = reporter.Issues()
		} else {
			result.SchemaGroups = groups
			if len(groupIssues) > 0 {
				result.Issues = append(result.Issues, groupIssues...)
			}
		}
	}

	return result
}

// classifyStatement implements §4.6 steps 4-6 for one top-level
// statement, recording removal/export-prefix decisions into edits.
func classifyStatement(stmt *synx.Node, chains *chainval.Validator, reporter *issue.Reporter, edits map[[2]uint32]edit, rootSchemaNames *[]string, survivingSchemas *int) {
	switch stmt.Kind() {
	case "import_statement":
		source := importSource(stmt)
		if source != "zod" {
			reporter.Report(stmt, fmt.Sprintf("Invalid import from '%s'. Only 'zod' imports are allowed", source), stmt.Kind())
			edits[stmt.Identity()] = edit{node: stmt, remove: true}
		}

	case "lexical_declaration":
		valid := classifyDeclaration(stmt, chains, reporter, rootSchemaNames)
		if !valid {
			edits[stmt.Identity()] = edit{node: stmt, remove: true}
		} else {
			*survivingSchemas++
			edits[stmt.Identity()] = edit{node: stmt, exportPrefix: true}
		}

	case "export_statement":
		if isExportDefault(stmt) {
			// Accepted, unexamined: never validated, never contributes a
			// root schema name (spec.md §9 decision).
			return
		}
		inner := stmt.Field("declaration")
		if inner == nil || inner.Kind() != "lexical_declaration" {
			reporter.Report(stmt, fmt.Sprintf("Invalid statement type: %s", stmt.Kind()), stmt.Kind())
			edits[stmt.Identity()] = edit{node: stmt, remove: true}
			return
		}
		valid := classifyDeclaration(inner, chains, reporter, rootSchemaNames)
		if !valid {
			edits[stmt.Identity()] = edit{node: stmt, remove: true}
		} else {
			*survivingSchemas++
		}

	default:
		reporter.Report(stmt, fmt.Sprintf("Invalid statement type: %s", stmt.Kind()), stmt.Kind())
		edits[stmt.Identity()] = edit{node: stmt, remove: true}
	}
}

// classifyDeclaration implements §4.6.1. It returns false if the whole
// declaration must be removed (either because a declarator errored, or
// because a non-schema-looking declarator silently disqualifies it).
func classifyDeclaration(decl *synx.Node, chains *chainval.Validator, reporter *issue.Reporter, rootSchemaNames *[]string) bool {
	if bindingKeyword(decl) != "const" {
		reporter.Report(decl, "Schema declarations must use 'const'", decl.Kind())
		return false
	}

	anyInvalid := false
	for _, declarator := range decl.NamedChildren() {
		if declarator.Kind() != "variable_declarator" {
			continue
		}
		name := declarator.Field("name")
		value := declarator.Field("value")

		if value == nil || (value.Kind() == "identifier" && value.Text() == "undefined") {
			reporter.Report(declarator, "Schema declaration must have an initializer", declarator.Kind())
			anyInvalid = true
			continue
		}

		if !looksLikeSchema(name, value) {
			// Non-schema declarator: silently disqualifies the whole
			// declaration, no issue reported.
			anyInvalid = true
			continue
		}

		if !chains.Validate(value) {
			anyInvalid = true
			continue
		}
		if name != nil {
			*rootSchemaNames = append(*rootSchemaNames, name.Text())
		}
	}
	return !anyInvalid
}

func bindingKeyword(decl *synx.Node) string {
	for i := 0; i < decl.ChildCount(); i++ {
		switch decl.Child(i).Kind() {
		case "const", "let", "var":
			return decl.Child(i).Kind()
		}
	}
	return ""
}

// looksLikeSchema implements §4.6.1's declarator heuristic: the bound
// name contains "schema", or the initializer's leftmost object is the
// identifier z.
func looksLikeSchema(name, value *synx.Node) bool {
	if name != nil && strings.Contains(strings.ToLower(name.Text()), "schema") {
		return true
	}
	if value == nil {
		return false
	}
	switch value.Kind() {
	case "call_expression", "member_expression":
		return rootIdentifierIsZ(value)
	default:
		return false
	}
}

func rootIdentifierIsZ(node *synx.Node) bool {
	switch node.Kind() {
	case "call_expression":
		fn := node.Field("function")
		return fn != nil && rootIdentifierIsZ(fn)
	case "member_expression", "subscript_expression":
		obj := node.Field("object")
		return obj != nil && rootIdentifierIsZ(obj)
	case "identifier":
		return node.Text() == "z"
	default:
		return false
	}
}

func isExportDefault(stmt *synx.Node) bool {
	for i := 0; i < stmt.ChildCount(); i++ {
		if stmt.Child(i).Kind() == "default" {
			return true
		}
	}
	return false
}

func importSource(stmt *synx.Node) string {
	src := stmt.Field("source")
	if src == nil {
		return ""
	}
	return unquote(src.Text())
}

// hasZodImport scans top-level import statements for one whose source is
// "zod" and whose specifiers include a binding named z.
func hasZodImport(statements []*synx.Node) bool {
	for _, stmt := range statements {
		if stmt.Kind() != "import_statement" {
			continue
		}
		if importSource(stmt) != "zod" {
			continue
		}
		if importBindsZ(stmt) {
			return true
		}
	}
	return false
}

func importBindsZ(stmt *synx.Node) bool {
	for _, child := range stmt.NamedChildren() {
		switch child.Kind() {
		case "import_clause":
			if importBindsZ(child) {
				return true
			}
		case "identifier":
			if child.Text() == "z" {
				return true
			}
		case "namespace_import":
			for _, c := range child.NamedChildren() {
				if c.Kind() == "identifier" && c.Text() == "z" {
					return true
				}
			}
		case "named_imports":
			for _, spec := range child.NamedChildren() {
				if spec.Kind() != "import_specifier" {
					continue
				}
				binding := spec.Field("alias")
				if binding == nil {
					binding = spec.Field("name")
				}
				if binding != nil && binding.Text() == "z" {
					return true
				}
			}
		}
	}
	return false
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
