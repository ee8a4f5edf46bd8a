package issue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterHasErrors(t *testing.T) {
	r := New()
	assert.False(t, r.HasErrors(), "fresh reporter should have no errors")
	r.ReportAt(1, 0, "something is wrong", "program")
	assert.True(t, r.HasErrors(), "expected HasErrors after reporting a default-severity issue")
}

func TestReporterWarningDoesNotInvalidate(t *testing.T) {
	r := New()
	r.ReportAt(3, 2, "property name 'constructor' is not allowed", "pair", AsWarning())
	assert.False(t, r.HasErrors(), "a warning-only run must not report HasErrors")
	assert.Len(t, r.BySeverity(Warning), 1)
}

func TestClearResetsIssues(t *testing.T) {
	r := New()
	r.ReportAt(1, 0, "x", "program")
	r.Clear()
	assert.Empty(t, r.Issues())
	assert.False(t, r.HasErrors())
}

func TestFormattedReportIncludesSuggestion(t *testing.T) {
	r := New()
	r.ReportAt(5, 1, "Method not allowed in chain: foo", "call_expression",
		WithSuggestion("Use only allowed Zod methods"))
	report := r.FormattedReport()
	assert.Contains(t, report, "ERROR:")
	assert.Contains(t, report, "suggestion:")
}

func TestOrderIsReportOrder(t *testing.T) {
	r := New()
	r.ReportAt(1, 0, "first", "a")
	r.ReportAt(2, 0, "second", "b")
	issues := r.Issues()
	require.Len(t, issues, 2)
	assert.Equal(t, "first", issues[0].Message)
	assert.Equal(t, "second", issues[1].Message)
}
