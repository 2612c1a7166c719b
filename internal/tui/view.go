package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/avoronov/schedtui/internal/schedule"
	"github.com/avoronov/schedtui/internal/theme"
	"github.com/avoronov/schedtui/internal/toast"
)

// Vertical space reserved around the viewport: the form block and the
// title, error line, toast stack, and footer.
const (
	formHeight   = 5
	chromeHeight = 5
)

// View implements tea.Model.
func (m Model) View() string {
	pal := m.palette()
	var b strings.Builder

	b.WriteString(pal.Title.Render(m.translate("app_title")))
	b.WriteString("  ")
	b.WriteString(pal.Badge.Render(strings.ToUpper(m.localeCode())))
	b.WriteString("\n\n")

	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.submitting {
		b.WriteString(m.spin.View())
		b.WriteString(pal.Muted.Render(m.translate("generating")))
		b.WriteString("\n")
	} else if m.errMsg != "" {
		b.WriteString(pal.ErrorText.Render(m.errMsg))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
	}

	switch {
	case m.historyOpen:
		b.WriteString(m.renderHistory(pal))
	case m.gridVisible:
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	for _, t := range m.toasts.Toasts() {
		b.WriteString(m.renderToast(pal, t))
		b.WriteString("\n")
	}

	b.WriteString(pal.Footer.Render(m.footerHelp()))
	return b.String()
}

// renderResult styles the grid, the constraint warnings, and the teacher
// summary into the viewport content.
func (m Model) renderResult() string {
	pal := m.palette()
	var b strings.Builder

	if len(m.grid.Violations) > 0 && !m.warningDismissed {
		lines := make([]string, 0, len(m.grid.Violations)+1)
		lines = append(lines, pal.Warning.Render(m.translate("violations_title")))
		for _, v := range m.grid.Violations {
			lines = append(lines, pal.Warning.Render("• "+v))
		}
		b.WriteString(pal.WarningBox.Render(strings.Join(lines, "\n")))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderGrid(pal))
	b.WriteString("\n\n")
	b.WriteString(m.renderSummary(pal))
	return b.String()
}

// renderGrid aligns columns on unstyled widths, then styles each cell.
// Styling after padding keeps ANSI sequences out of the width math.
func (m Model) renderGrid(pal theme.Palette) string {
	widths := make([]int, len(m.grid.Header))
	for i, h := range m.grid.Header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range m.grid.Rows {
		if w := runewidth.StringWidth(row.Slot); w > widths[0] {
			widths[0] = w
		}
		for i, cell := range row.Cells {
			if w := runewidth.StringWidth(schedule.CellText(cell)); w > widths[i+1] {
				widths[i+1] = w
			}
		}
	}

	var b strings.Builder
	for i, h := range m.grid.Header {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(pal.Header.Render(padDisplay(h, widths[i])))
	}
	for _, row := range m.grid.Rows {
		b.WriteString("\n")
		b.WriteString(pal.Slot.Render(padDisplay(row.Slot, widths[0])))
		for i, cell := range row.Cells {
			b.WriteString("  ")
			b.WriteString(m.renderCell(pal, cell, widths[i+1]))
		}
	}
	return b.String()
}

func (m Model) renderCell(pal theme.Palette, cell schedule.Cell, width int) string {
	text := padDisplay(schedule.CellText(cell), width)
	switch cell.Kind {
	case schedule.CellBreak:
		return pal.BreakCell.Render(text)
	case schedule.CellEmpty:
		return pal.Placeholder.Render(text)
	default:
		split := len(cell.Subject)
		return pal.Subject.Render(text[:split]) + pal.Teacher.Render(text[split:])
	}
}

func (m Model) renderSummary(pal theme.Palette) string {
	if len(m.grid.Summary) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(pal.Label.Render(m.translate("teacher_summary")))
	for _, entry := range m.grid.Summary {
		b.WriteString("\n")
		b.WriteString(pal.Subject.Render(entry.Subject))
		b.WriteString(pal.Muted.Render(" → "))
		b.WriteString(pal.Teacher.Render(entry.Teacher))
		b.WriteString(pal.Muted.Render(fmt.Sprintf("  (%d %s)", entry.Load, m.translate("classes"))))
	}
	return b.String()
}

func (m Model) renderHistory(pal theme.Palette) string {
	if len(m.history) == 0 {
		return pal.Muted.Render(m.translate("history_empty"))
	}
	var b strings.Builder
	b.WriteString(pal.Label.Render(m.translate("history_title")))
	for _, entry := range m.history {
		b.WriteString("\n")
		status := pal.ErrorText
		if entry.Status == schedule.StatusSuccess {
			status = pal.Success
		}
		b.WriteString(pal.Slot.Render(entry.Timestamp.Format("2006-01-02 15:04")))
		b.WriteString(pal.Muted.Render(fmt.Sprintf("  %d/%d  ", entry.Subjects, entry.Teachers)))
		b.WriteString(status.Render(entry.Status))
	}
	return b.String()
}

func (m Model) renderToast(pal theme.Palette, t toast.Toast) string {
	style := pal.Info
	switch t.Kind {
	case toast.Success:
		style = pal.Success
	case toast.Error:
		style = pal.ErrorText
	}
	if t.Leaving {
		style = pal.Muted
	}
	return style.Render("▌ " + t.Message)
}

func (m Model) footerHelp() string {
	return "enter generate · tab next · ctrl+r history · ctrl+t theme · ctrl+l lang · ctrl+e csv · ctrl+p print · ctrl+y copy · ctrl+c quit"
}

func (m Model) palette() theme.Palette {
	if m.opts.Themes == nil {
		return theme.NewController(nil).Palette()
	}
	return m.opts.Themes.Palette()
}

func (m Model) localeCode() string {
	if m.opts.Locales == nil {
		return "en"
	}
	return m.opts.Locales.Code()
}

func padDisplay(value string, width int) string {
	w := runewidth.StringWidth(value)
	if w >= width {
		return value
	}
	return value + strings.Repeat(" ", width-w)
}
