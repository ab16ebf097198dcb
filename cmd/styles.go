package cmd

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/armory/pkg/render"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(8)

	copyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	markStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("214"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			PaddingLeft(14)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("32")).
			Italic(true)

	toggleOnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	toggleOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// markTerminal styles the first literal occurrence of query in text.
func markTerminal(text, query string) string {
	loc := render.MatchSpan(text, query)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + markStyle.Render(text[loc[0]:loc[1]]) + text[loc[1]:]
}

// formatPage renders page for the terminal. Rows are numbered from 1 so
// the REPL can copy by number.
func formatPage(page render.Page) string {
	if page.Failed {
		return errorStyle.Render(page.Message)
	}
	if page.Empty || len(page.Rows) == 0 {
		return noDataStyle.Render(page.Message)
	}

	var b strings.Builder
	for i, row := range page.Rows {
		b.WriteString(formatRow(i+1, row, page.Query))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRow(n int, row render.Row, query string) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(4).Render(strconv.Itoa(n) + "."))
	b.WriteString(labelStyle.Render(row.Label))
	b.WriteString(markTerminal(row.Text, query))
	if row.Copy != "" {
		b.WriteString("  ")
		b.WriteString(copyStyle.Render(row.Copy))
	}
	for _, f := range row.Secondary {
		b.WriteString("\n")
		b.WriteString(secondaryStyle.Render(f.Label + ": " + f.Text))
	}
	return b.String()
}
