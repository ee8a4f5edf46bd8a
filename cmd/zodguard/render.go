package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"zodguard/internal/issue"
)

var (
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)
	styleWarning  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	styleInfo     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3"))
	styleLocation = lipgloss.NewStyle().Faint(true)
	styleOK       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
)

// renderIssues writes one styled line per issue to w, falling back to
// Issue.String()'s plain form when w isn't a terminal (piped output,
// redirected to a file, or under test).
func renderIssues(w io.Writer, issues []issue.Issue) {
	if !isTerminal(w) {
		for _, iss := range issues {
			fmt.Fprintln(w, iss.String())
		}
		return
	}
	for _, iss := range issues {
		fmt.Fprintln(w, styledIssue(iss))
	}
}

func styledIssue(iss issue.Issue) string {
	sev := styleInfo
	switch iss.Severity {
	case issue.Error:
		sev = styleError
	case issue.Warning:
		sev = styleWarning
	}

	loc := fmt.Sprintf("at %d:%d", iss.Line, iss.Column)
	if !iss.HasColumn {
		loc = fmt.Sprintf("at line %d", iss.Line)
	}

	line := fmt.Sprintf("%s %s (%s) %s", sev.Render(iss.Severity.String()+":"), iss.Message, iss.NodeKind, styleLocation.Render(loc))
	if iss.Suggestion != "" {
		line += "\n  " + styleLocation.Render("suggestion: "+iss.Suggestion)
	}
	return line
}

func renderSummary(w io.Writer, isValid bool, issueCount, warningCount int) {
	if !isTerminal(w) {
		if isValid {
			fmt.Fprintf(w, "valid (%d warnings)\n", warningCount)
		} else {
			fmt.Fprintf(w, "invalid (%d issues)\n", issueCount)
		}
		return
	}
	if isValid {
		fmt.Fprintln(w, styleOK.Render(fmt.Sprintf("valid (%d warnings)", warningCount)))
	} else {
		fmt.Fprintln(w, styleError.Render(fmt.Sprintf("invalid (%d issues)", issueCount)))
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}
