package schedule

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatText renders the grid as a display-width-aligned plain-text table.
// This is the payload for copy-to-clipboard and printing, and the layout
// the history subcommand reuses.
func FormatText(grid Grid) string {
	rows := make([][]string, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, row.Slot)
		for _, cell := range row.Cells {
			cells = append(cells, CellText(cell))
		}
		rows = append(rows, cells)
	}
	return strings.Join(FormatTable(grid.Header, rows), "\n")
}

// CellText is the unstyled single-line form of a cell.
func CellText(cell Cell) string {
	if cell.Kind == CellClass {
		return cell.Subject + " / " + cell.Teacher
	}
	return cell.Label
}

// FormatTable lays out rows under headers, padding columns to the widest
// cell by display width.
func FormatTable(headers []string, rows [][]string) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths))
	}
	return lines
}

func formatRow(row []string, widths []int) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(cell, widths[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int) string {
	valueWidth := runewidth.StringWidth(value)
	if valueWidth >= width {
		return value
	}
	return value + strings.Repeat(" ", width-valueWidth)
}
