package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"zodguard"
)

// issueItem adapts zodguard.Issue to list.Item for the interactive browser.
type issueItem struct {
	issue zodguard.Issue
}

func (i issueItem) Title() string { return i.issue.Severity.String() + ": " + i.issue.Message }
func (i issueItem) Description() string {
	return fmt.Sprintf("%s at line %d", i.issue.NodeKind, i.issue.Line)
}
func (i issueItem) FilterValue() string { return i.issue.Message }

type resultModel struct {
	label    string
	result   zodguard.ValidationResult
	list     list.Model
	viewport viewport.Model
	width    int
	height   int
}

func newResultModel(label string, result zodguard.ValidationResult) resultModel {
	items := make([]list.Item, len(result.Issues))
	for i, iss := range result.Issues {
		items[i] = issueItem{issue: iss}
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("zodguard: %s", label)
	l.SetShowHelp(true)

	vp := viewport.New(0, 0)
	vp.SetContent(renderCleanedCode(result))

	return resultModel{label: label, result: result, list: l, viewport: vp}
}

func renderCleanedCode(result zodguard.ValidationResult) string {
	status := "INVALID"
	if result.IsValid {
		status = "VALID"
	}
	md := fmt.Sprintf("# %s\n\n```typescript\n%s\n```\n", status, result.CleanedCode)
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m resultModel) Init() tea.Cmd {
	return nil
}

func (m resultModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listWidth := m.width / 2
		m.list.SetSize(listWidth, m.height-2)
		m.viewport.Width = m.width - listWidth
		m.viewport.Height = m.height - 2
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m resultModel) View() string {
	left := m.list.View()
	right := m.viewport.View()
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// runInteractive hands the already-computed ValidationResult off to a
// small bubbletea program: a list of issues on the left, the cleaned
// code rendered through glamour on the right.
func runInteractive(label string, result zodguard.ValidationResult) error {
	p := tea.NewProgram(newResultModel(label, result), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
