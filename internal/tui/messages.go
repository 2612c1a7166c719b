package tui

import "github.com/avoronov/schedtui/internal/schedule"

// generatedMsg carries a successful generation result.
type generatedMsg struct {
	result *schedule.Result
}

// generateFailedMsg carries the user-visible generation failure.
type generateFailedMsg struct {
	err error
}

// revealMsg fires after a short deferral so the freshly rendered grid can
// be revealed and scrolled into view once the layout has settled.
type revealMsg struct{}

// historyMsg carries a fresh history fetch; the list is replaced wholesale.
type historyMsg struct {
	entries []schedule.HistoryEntry
}

// historyFailedMsg leaves the previously rendered list untouched.
type historyFailedMsg struct {
	err error
}

// localeMsg carries a fetched dictionary with its sequence token.
type localeMsg struct {
	token int
	code  string
	dict  map[string]string
}

// localeFailedMsg keeps the previous locale in effect.
type localeFailedMsg struct {
	code string
	err  error
}

// exportedMsg reports the CSV file written from the export response.
type exportedMsg struct {
	path string
}

// exportFailedMsg carries an export failure.
type exportFailedMsg struct {
	err error
}

// printedMsg reports the schedule was handed to the print spooler.
type printedMsg struct{}

// printFailedMsg carries a spooler failure.
type printFailedMsg struct {
	err error
}
