package schedule

import "fmt"

// Translator resolves a translation key to a display string.
type Translator func(key string) string

// Translation keys the grid builder consumes.
const (
	KeyColTime    = "col_time"
	KeyBreakLabel = "break_label"
)

// Placeholder fills cells with no session scheduled.
const Placeholder = "-"

// CellKind classifies a grid cell.
type CellKind int

const (
	// CellEmpty means no session is scheduled for the slot.
	CellEmpty CellKind = iota
	// CellBreak marks a break slot.
	CellBreak
	// CellClass holds a scheduled class.
	CellClass
)

// Cell is one day/period slot of the grid view model.
type Cell struct {
	Kind    CellKind
	Subject string
	Teacher string
	Label   string
}

// Row is one time slot across all days.
type Row struct {
	Slot  string
	Cells []Cell
}

// SummaryEntry annotates a subject→teacher assignment with the teacher's load.
type SummaryEntry struct {
	Subject string
	Teacher string
	Load    int
}

// Grid is the render-ready view of a generation result. Building it is a
// pure function of the result and the active locale, so the rendering step
// stays swappable and testable without a terminal.
type Grid struct {
	Header     []string
	Rows       []Row
	Summary    []SummaryEntry
	Violations []string
}

// BuildGrid maps a generation result and locale to a grid view model.
// A result missing days, time slots, or the timetable fails fast; it is a
// contract violation by the gateway, never rendered partially.
func BuildGrid(result *Result, translate Translator) (Grid, error) {
	if result == nil {
		return Grid{}, fmt.Errorf("%w: nil result", ErrMalformed)
	}
	if err := result.Validate(); err != nil {
		return Grid{}, err
	}
	if translate == nil {
		translate = func(key string) string { return key }
	}

	header := make([]string, 0, len(result.Days)+1)
	header = append(header, translate(KeyColTime))
	header = append(header, result.Days...)

	rows := make([]Row, 0, len(result.TimeSlots))
	for i, slot := range result.TimeSlots {
		row := Row{Slot: slot, Cells: make([]Cell, 0, len(result.Days))}
		for _, day := range result.Days {
			row.Cells = append(row.Cells, buildCell(result.Timetable[day], i+1, translate))
		}
		rows = append(rows, row)
	}

	summary := make([]SummaryEntry, 0, result.SubjectTeacherMap.Len())
	for _, pair := range result.SubjectTeacherMap.Pairs() {
		load := 0
		if result.Meta != nil {
			load = result.Meta.TeacherLoad[pair.Teacher]
		}
		summary = append(summary, SummaryEntry{Subject: pair.Subject, Teacher: pair.Teacher, Load: load})
	}

	var violations []string
	if result.Meta != nil && len(result.Meta.Violations) > 0 {
		violations = append(violations, result.Meta.Violations...)
	}

	return Grid{Header: header, Rows: rows, Summary: summary, Violations: violations}, nil
}

// buildCell resolves the session for a 1-based period. Day lists are small
// (bounded by periods per day), so a linear scan is fine; they are neither
// sorted nor complete, and a missing period is a placeholder, not an error.
func buildCell(sessions []Session, period int, translate Translator) Cell {
	for _, s := range sessions {
		if s.Period != period {
			continue
		}
		if s.IsBreak() {
			return Cell{Kind: CellBreak, Label: translate(KeyBreakLabel)}
		}
		return Cell{Kind: CellClass, Subject: s.Subject, Teacher: s.Teacher}
	}
	return Cell{Kind: CellEmpty, Label: Placeholder}
}
