package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bjulian5/bbpr/internal/pullrequest"
)

// NewTable creates a new table with the default styling
// This is a thin wrapper around lipgloss/table with opinionated defaults
func NewTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorderStyle).
		BorderRow(false).
		BorderColumn(true).
		StyleFunc(defaultTableStyleFunc)
}

// RenderPullRequestTable renders rows with one column per field. Long titles,
// branches and descriptions are truncated; the table is sized to the terminal.
func RenderPullRequestTable(rows []pullrequest.Row, fields []string) string {
	headers := make([]string, len(fields))
	for i, field := range fields {
		headers[i] = pullrequest.FieldLabels[field]
	}

	t := NewTable().Headers(headers...).Width(GetTerminalWidth())
	for _, row := range rows {
		cells := make([]string, len(fields))
		for i, field := range fields {
			cells[i] = formatCell(field, row.Value(field))
		}
		t.Row(cells...)
	}
	return t.Render()
}

func formatCell(field string, value string) string {
	switch field {
	case "title":
		return Truncate(value, Display.MaxTitleLength)
	case "description":
		return Truncate(firstLine(value), Display.MaxDescriptionLength)
	case "source", "destination":
		return Truncate(value, Display.MaxBranchLength)
	case "merge_commit":
		if len(value) > Display.CommitHashDisplayLength {
			return value[:Display.CommitHashDisplayLength]
		}
		return value
	case "state":
		return GetStatus(value).Render()
	default:
		return value
	}
}

// defaultTableStyleFunc provides default styling for table cells
func defaultTableStyleFunc(row, col int) lipgloss.Style {
	switch {
	case row == table.HeaderRow:
		return TableHeaderStyle
	case row%2 == 0:
		return TableCellStyle
	default:
		return TableRowAltStyle
	}
}
