package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avoronov/schedtui/internal/i18n"
	"github.com/avoronov/schedtui/internal/schedule"
	"github.com/avoronov/schedtui/internal/toast"
)

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func validResult() *schedule.Result {
	return &schedule.Result{
		Timetable: map[string][]schedule.Session{
			"Monday": {{Period: 1, Subject: "Math", Teacher: "Smith"}},
		},
		TimeSlots: []string{"09:00-10:00"},
		Days:      []string{"Monday"},
	}
}

func TestSubmitStartsGeneration(t *testing.T) {
	m := NewModel(Options{})
	m.inputs[inputSubjects].SetValue("Math")
	m.inputs[inputTeachers].SetValue("Smith")

	m, cmd := press(t, m, "enter")
	if !m.submitting {
		t.Fatalf("expected submitting state")
	}
	if cmd == nil {
		t.Fatalf("expected generation command")
	}
}

func TestSubmitHidesPriorResult(t *testing.T) {
	m := NewModel(Options{})
	m.result = validResult()
	m.gridVisible = true
	m.historyOpen = true

	m, _ = press(t, m, "enter")
	if !m.submitting {
		t.Fatalf("expected submitting state")
	}
	if m.gridVisible {
		t.Fatalf("submit must hide the previous result view")
	}
	if m.historyOpen {
		t.Fatalf("submit must close the history panel")
	}
}

func TestSubmitRejectedWhileInFlight(t *testing.T) {
	m := NewModel(Options{})
	m.submitting = true

	m, cmd := press(t, m, "enter")
	if cmd != nil {
		t.Fatalf("second submit must be rejected while one is in flight")
	}
	if !m.submitting {
		t.Fatalf("in-flight state must survive the rejected submit")
	}
}

func TestSubmitRejectsBadPeriods(t *testing.T) {
	m := NewModel(Options{})
	m.inputs[inputPeriods].SetValue("x")

	m, cmd := press(t, m, "enter")
	if m.submitting {
		t.Fatalf("bad periods must not start a generation")
	}
	if cmd != nil {
		t.Fatalf("expected no command")
	}
	if m.errMsg == "" {
		t.Fatalf("expected a validation error message")
	}
}

func TestGeneratedRestoresIdleAndDefersReveal(t *testing.T) {
	m := NewModel(Options{})
	m.submitting = true
	m.errMsg = "old error"

	updated, cmd := m.Update(generatedMsg{result: validResult()})
	m = updated.(Model)
	if m.submitting {
		t.Fatalf("success must restore the idle state")
	}
	if m.errMsg != "" {
		t.Fatalf("success must clear the inline error")
	}
	if m.gridVisible {
		t.Fatalf("grid must stay hidden until the reveal tick")
	}
	if cmd == nil {
		t.Fatalf("expected the deferred reveal command")
	}

	updated, _ = m.Update(revealMsg{})
	m = updated.(Model)
	if !m.gridVisible {
		t.Fatalf("reveal tick must show the grid")
	}
	if len(m.grid.Rows) != 1 {
		t.Fatalf("expected 1 grid row, got %d", len(m.grid.Rows))
	}
}

func TestGenerateFailureRestoresIdle(t *testing.T) {
	m := NewModel(Options{})
	m.submitting = true

	updated, cmd := m.Update(generateFailedMsg{err: errors.New("not enough teachers")})
	m = updated.(Model)
	if m.submitting {
		t.Fatalf("failure must restore the idle state")
	}
	if m.errMsg != "not enough teachers" {
		t.Fatalf("unexpected inline error: %q", m.errMsg)
	}
	if cmd == nil {
		t.Fatalf("expected a toast expiry command")
	}
	toasts := m.toasts.Toasts()
	if len(toasts) != 1 || toasts[0].Kind != toast.Error {
		t.Fatalf("expected one error toast, got %+v", toasts)
	}
}

func TestHistoryFailureKeepsPreviousListAndStaysSilent(t *testing.T) {
	m := NewModel(Options{})
	m.history = []schedule.HistoryEntry{{Subjects: 3, Teachers: 2, Status: schedule.StatusSuccess}}

	updated, cmd := m.Update(historyFailedMsg{err: errors.New("boom")})
	m = updated.(Model)
	if len(m.history) != 1 {
		t.Fatalf("a failed refresh must keep the previous list")
	}
	if cmd != nil {
		t.Fatalf("a failed refresh must not schedule anything")
	}
	if got := len(m.toasts.Toasts()); got != 0 {
		t.Fatalf("a failed refresh is log-only; got %d toast(s)", got)
	}
}

func TestLocaleFailureKeepsPriorLanguageAndStaysSilent(t *testing.T) {
	locales := i18n.New(nil)
	m := NewModel(Options{Locales: locales})

	updated, cmd := m.Update(localeFailedMsg{code: "es", err: errors.New("boom")})
	m = updated.(Model)
	if locales.Code() != i18n.DefaultLang {
		t.Fatalf("a failed fetch must keep the prior language, got %q", locales.Code())
	}
	if cmd != nil {
		t.Fatalf("a failed fetch must not schedule anything")
	}
	if got := len(m.toasts.Toasts()); got != 0 {
		t.Fatalf("a failed fetch is log-only; got %d toast(s)", got)
	}
}

func TestStaleLocaleResponseDropped(t *testing.T) {
	locales := i18n.New(nil)
	m := NewModel(Options{Locales: locales})

	stale := locales.Begin()
	latest := locales.Begin()

	updated, _ := m.Update(localeMsg{token: stale, code: "es", dict: map[string]string{"form_subjects": "Materias"}})
	m = updated.(Model)
	if locales.Code() == "es" {
		t.Fatalf("stale response must not switch the language")
	}

	updated, _ = m.Update(localeMsg{token: latest, code: "fr", dict: map[string]string{"form_subjects": "Matières"}})
	m = updated.(Model)
	if locales.Code() != "fr" {
		t.Fatalf("latest response must switch the language")
	}
	if got := m.inputs[inputSubjects].Prompt; got != "Matières: " {
		t.Fatalf("prompts not relabeled: %q", got)
	}
}

func TestLocaleSwitchRebuildsGrid(t *testing.T) {
	locales := i18n.New(nil)
	m := NewModel(Options{Locales: locales})
	m.result = validResult()

	token := locales.Begin()
	updated, _ := m.Update(localeMsg{token: token, code: "es", dict: map[string]string{"col_time": "Hora"}})
	m = updated.(Model)
	if m.grid.Header[0] != "Hora" {
		t.Fatalf("grid header not rebuilt for the new locale: %q", m.grid.Header[0])
	}
}

func TestEscDismissesWarnings(t *testing.T) {
	m := NewModel(Options{})
	m.grid = schedule.Grid{Violations: []string{"Smith is overloaded"}}

	m, _ = press(t, m, "esc")
	if !m.warningDismissed {
		t.Fatalf("esc must dismiss the warning box")
	}
}

func TestEscClosesHistoryFirst(t *testing.T) {
	m := NewModel(Options{})
	m.historyOpen = true
	m.grid = schedule.Grid{Violations: []string{"x"}}

	m, _ = press(t, m, "esc")
	if m.historyOpen {
		t.Fatalf("esc must close the history panel")
	}
	if m.warningDismissed {
		t.Fatalf("esc must not also dismiss warnings in the same press")
	}
}

func TestToastLifecycleThroughUpdate(t *testing.T) {
	m := NewModel(Options{})
	updated, _ := m.Update(generateFailedMsg{err: errors.New("x")})
	m = updated.(Model)
	id := m.toasts.Toasts()[0].ID

	updated, cmd := m.Update(toast.ExpireMsg{ID: id})
	m = updated.(Model)
	if cmd == nil {
		t.Fatalf("expected removal command")
	}
	if !m.toasts.Toasts()[0].Leaving {
		t.Fatalf("toast not marked leaving")
	}

	updated, _ = m.Update(toast.RemoveMsg{ID: id})
	m = updated.(Model)
	if len(m.toasts.Toasts()) != 0 {
		t.Fatalf("toast not removed")
	}
}

func TestMalformedResultShowsError(t *testing.T) {
	m := NewModel(Options{})
	m.submitting = true

	updated, _ := m.Update(generatedMsg{result: &schedule.Result{}})
	m = updated.(Model)
	if m.submitting {
		t.Fatalf("expected idle state")
	}
	if !strings.Contains(m.errMsg, schedule.ErrMalformed.Error()) {
		t.Fatalf("expected malformed-result error, got %q", m.errMsg)
	}
	if m.gridVisible {
		t.Fatalf("a malformed result must not reveal a grid")
	}
}
