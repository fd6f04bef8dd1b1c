package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/1broseidon/deskrain/internal/config"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
)

// OK renders a success line.
func OK(msg string) string { return okStyle.Render("✓") + " " + msg }

// Failed renders an error line.
func Failed(msg string) string { return errStyle.Render("✗") + " " + msg }

// Warning renders a warning line.
func Warning(msg string) string { return warnStyle.Render("!") + " " + msg }

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

// previewColumns is a fixed trail per column: dim glyphs, the near tier and
// the leading glyph last.
var previewColumns = []string{"0aZ#k", "r7}Lm", "Q:d2w", "x!Hp9"}

// Preview renders a few rain columns in colors, on the key color.
func Preview(colors config.Colors) string {
	bg := lipgloss.Color(colors.Key)
	styles := []lipgloss.Style{
		lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(colors.Dim)),
		lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(colors.Near)),
		lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(colors.Leading)),
	}

	var rows []string
	for j := 0; j < len(previewColumns[0]); j++ {
		style := styles[0]
		switch {
		case j == len(previewColumns[0])-1:
			style = styles[2]
		case j >= len(previewColumns[0])-3:
			style = styles[1]
		}
		var line strings.Builder
		for _, col := range previewColumns {
			line.WriteString(style.Render(" " + string(col[j]) + " "))
		}
		rows = append(rows, line.String())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
