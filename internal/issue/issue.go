// Package issue collects diagnostics the validation pipeline reports
// against a parsed source tree: an append-only list of {severity,
// location, node-kind, message} records, per spec.md §4.2.
package issue

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"zodguard/internal/synx"
)

// Severity is one of error, warning, or info (spec.md §2 step 2).
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "ERROR"
	case Warning:
		return "WARNING"
	case Info:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Issue is one reported diagnostic.
type Issue struct {
	ID         string
	Severity   Severity
	Line       int
	Column     int
	HasColumn  bool
	Message    string
	NodeKind   string
	Suggestion string
}

// String renders "<SEV>: <msg> (<kind>) at <line>:<col>" plus an optional
// suggestion line, the plain non-TTY form spec.md §4.2 requires.
func (i Issue) String() string {
	var b strings.Builder
	if i.HasColumn {
		fmt.Fprintf(&b, "%s: %s (%s) at %d:%d", i.Severity, i.Message, i.NodeKind, i.Line, i.Column)
	} else {
		fmt.Fprintf(&b, "%s: %s (%s) at line %d", i.Severity, i.Message, i.NodeKind, i.Line)
	}
	if i.Suggestion != "" {
		fmt.Fprintf(&b, "\n  suggestion: %s", i.Suggestion)
	}
	return b.String()
}

// Reporter accumulates issues for a single validate_schema run. It is not
// safe for concurrent use — one Reporter belongs to one run, matching
// spec.md §5's single-owner Governor/IssueReporter policy.
type Reporter struct {
	issues []Issue
}

// New returns an empty Reporter.
func New() *Reporter {
	return &Reporter{}
}

// Option configures a single Report call.
type Option func(*Issue)

// WithSuggestion attaches a human-facing fix suggestion to the issue.
func WithSuggestion(s string) Option {
	return func(i *Issue) { i.Suggestion = s }
}

// AsWarning downgrades the default error severity to warning.
func AsWarning() Option {
	return func(i *Issue) { i.Severity = Warning }
}

// AsInfo downgrades the default error severity to info.
func AsInfo() Option {
	return func(i *Issue) { i.Severity = Info }
}

// Report records a diagnostic anchored to node's source position. severity
// defaults to Error; pass AsWarning/AsInfo to override.
func (r *Reporter) Report(node *synx.Node, message, nodeKind string, opts ...Option) {
	i := Issue{
		ID:       uuid.NewString(),
		Severity: Error,
		Message:  message,
		NodeKind: nodeKind,
	}
	if node != nil {
		pos := node.Position()
		i.Line, i.Column, i.HasColumn = pos.Line, pos.Column, true
	} else {
		i.Line = 1
	}
	for _, opt := range opts {
		opt(&i)
	}
	r.issues = append(r.issues, i)
}

// ReportAt records a diagnostic at an explicit position, used for the
// single file-level "(1,0)" fallback spec.md §3 allows when no node is
// available (e.g. a parse failure).
func (r *Reporter) ReportAt(line, column int, message, nodeKind string, opts ...Option) {
	i := Issue{
		ID:        uuid.NewString(),
		Severity:  Error,
		Line:      line,
		Column:    column,
		HasColumn: true,
		Message:   message,
		NodeKind:  nodeKind,
	}
	for _, opt := range opts {
		opt(&i)
	}
	r.issues = append(r.issues, i)
}

// Issues returns all reported issues in report order.
func (r *Reporter) Issues() []Issue {
	return append([]Issue(nil), r.issues...)
}

// BySeverity filters issues down to one severity.
func (r *Reporter) BySeverity(s Severity) []Issue {
	var out []Issue
	for _, i := range r.issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// HasErrors reports whether any error-severity issue was recorded.
func (r *Reporter) HasErrors() bool {
	for _, i := range r.issues {
		if i.Severity == Error {
			return true
		}
	}
	return false
}

// Clear empties the reporter for reuse on a fresh run.
func (r *Reporter) Clear() {
	r.issues = r.issues[:0]
}

// FormattedReport renders every issue as one line (plus optional
// suggestion line), in report order.
func (r *Reporter) FormattedReport() string {
	var b strings.Builder
	for idx, i := range r.issues {
		if idx > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(i.String())
	}
	return b.String()
}
