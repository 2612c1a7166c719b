// Package tui implements the interactive timetable client.
package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avoronov/schedtui/internal/api"
	"github.com/avoronov/schedtui/internal/i18n"
	"github.com/avoronov/schedtui/internal/schedule"
	"github.com/avoronov/schedtui/internal/theme"
	"github.com/avoronov/schedtui/internal/toast"
)

// Options wires the model's collaborators. Preference persistence lives
// inside the locale and theme stores.
type Options struct {
	Client         *api.Client
	Locales        *i18n.Store
	Themes         *theme.Controller
	DefaultPeriods int
	Timeout        time.Duration
}

// Form input slots, in focus order.
const (
	inputSubjects = iota
	inputTeachers
	inputPeriods
	inputCount
)

// revealDelay defers the scroll to the fresh grid until the layout settled.
const revealDelay = 100 * time.Millisecond

// exportFileName is where the exported CSV lands.
const exportFileName = "timetable.csv"

// Model is the top-level program state.
type Model struct {
	opts Options

	inputs     []textinput.Model
	focusIndex int
	spin       spinner.Model

	submitting bool
	errMsg     string

	result           *schedule.Result
	grid             schedule.Grid
	gridVisible      bool
	warningDismissed bool
	viewport         viewport.Model

	historyOpen bool
	history     []schedule.HistoryEntry

	toasts toast.Queue

	initialLang string

	width  int
	height int
}

// NewModel builds the initial program state. The persisted language is
// resolved here so Init can fetch its dictionary straight away.
func NewModel(opts Options) Model {
	if opts.Timeout <= 0 {
		opts.Timeout = api.DefaultTimeout
	}
	if opts.DefaultPeriods <= 0 {
		opts.DefaultPeriods = 6
	}

	inputs := make([]textinput.Model, inputCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		inputs[i] = ti
	}
	inputs[inputSubjects].Focus()
	inputs[inputPeriods].SetValue(strconv.Itoa(opts.DefaultPeriods))
	inputs[inputPeriods].CharLimit = 2

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		opts:        opts,
		inputs:      inputs,
		spin:        sp,
		viewport:    viewport.New(80, 20),
		initialLang: i18n.DefaultLang,
	}
	if opts.Locales != nil {
		m.initialLang = opts.Locales.InitialCode(context.Background())
	}
	m.relabel()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.changeLanguage(m.initialLang))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case generatedMsg:
		m.submitting = false
		m.errMsg = ""
		m.result = msg.result
		grid, err := schedule.BuildGrid(msg.result, m.translate)
		if err != nil {
			m.result = nil
			m.gridVisible = false
			m.errMsg = err.Error()
			return m, nil
		}
		m.grid = grid
		m.gridVisible = false
		m.warningDismissed = false
		return m, tea.Tick(revealDelay, func(time.Time) tea.Msg { return revealMsg{} })

	case generateFailedMsg:
		m.submitting = false
		m.errMsg = msg.err.Error()
		cmd := m.toasts.Push(msg.err.Error(), toast.Error)
		return m, cmd

	case revealMsg:
		m.gridVisible = true
		m.refreshViewport()
		m.viewport.GotoTop()
		return m, nil

	case historyMsg:
		m.history = msg.entries
		m.historyOpen = true
		return m, nil

	case historyFailedMsg:
		// Degraded path: keep whatever list was last shown.
		logErrf("failed to fetch history: %v\n", msg.err)
		return m, nil

	case localeMsg:
		if m.opts.Locales == nil {
			return m, nil
		}
		if !m.opts.Locales.Apply(context.Background(), msg.token, msg.code, msg.dict) {
			return m, nil
		}
		m.relabel()
		if m.result != nil {
			if grid, err := schedule.BuildGrid(m.result, m.translate); err == nil {
				m.grid = grid
				m.refreshViewport()
			}
		}
		return m, nil

	case localeFailedMsg:
		// Degraded path: the previous language stays in effect.
		logErrf("failed to load language %q: %v\n", msg.code, msg.err)
		return m, nil

	case exportedMsg:
		cmd := m.toasts.Push(m.translate("export_done")+": "+msg.path, toast.Success)
		return m, cmd

	case exportFailedMsg:
		cmd := m.toasts.Push(m.translate("export_failed")+": "+msg.err.Error(), toast.Error)
		return m, cmd

	case printedMsg:
		cmd := m.toasts.Push(m.translate("print_done"), toast.Success)
		return m, cmd

	case printFailedMsg:
		cmd := m.toasts.Push(m.translate("print_failed")+": "+msg.err.Error(), toast.Error)
		return m, cmd

	case toast.ExpireMsg:
		return m, m.toasts.Expire(msg.ID)

	case toast.RemoveMsg:
		m.toasts.Remove(msg.ID)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.historyOpen {
			m.historyOpen = false
			return m, nil
		}
		if len(m.grid.Violations) > 0 && !m.warningDismissed {
			m.warningDismissed = true
			m.refreshViewport()
		}
		return m, nil

	case "tab":
		m.cycleFocus(1)
		return m, nil

	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil

	case "enter":
		return m.submit()

	case "ctrl+r":
		if m.historyOpen {
			m.historyOpen = false
			return m, nil
		}
		return m, m.fetchHistory()

	case "ctrl+t":
		if m.opts.Themes != nil {
			m.opts.Themes.Toggle(context.Background())
			m.refreshViewport()
		}
		return m, nil

	case "ctrl+l":
		return m, m.nextLanguage()

	case "ctrl+e":
		if m.result == nil {
			return m, nil
		}
		return m, m.exportCSV()

	case "ctrl+p":
		if m.result == nil {
			return m, nil
		}
		return m, m.printCmd()

	case "ctrl+y":
		if m.result == nil {
			return m, nil
		}
		if err := clipboard.WriteAll(schedule.FormatText(m.grid)); err != nil {
			return m, m.toasts.Push(m.translate("copy_failed")+": "+err.Error(), toast.Error)
		}
		return m, m.toasts.Push(m.translate("copy_done"), toast.Success)

	case "up", "down", "pgup", "pgdown":
		if m.gridVisible {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

// submit validates the form and kicks off a generation call. A second
// submit while one is in flight is rejected. The previous result view and
// the history panel are hidden for the whole in-flight window.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	periods, err := strconv.Atoi(strings.TrimSpace(m.inputs[inputPeriods].Value()))
	if err != nil || periods <= 0 {
		m.errMsg = m.translate("invalid_periods")
		return m, nil
	}
	req := schedule.Request{
		Subjects:      strings.TrimSpace(m.inputs[inputSubjects].Value()),
		Teachers:      strings.TrimSpace(m.inputs[inputTeachers].Value()),
		PeriodsPerDay: periods,
	}
	m.submitting = true
	m.errMsg = ""
	m.gridVisible = false
	m.historyOpen = false
	return m, tea.Batch(m.spin.Tick, m.generate(req))
}

func (m Model) generate(req schedule.Request) tea.Cmd {
	client, timeout := m.opts.Client, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		result, err := client.Generate(ctx, req)
		if err != nil {
			return generateFailedMsg{err: err}
		}
		return generatedMsg{result: result}
	}
}

func (m Model) fetchHistory() tea.Cmd {
	client, timeout := m.opts.Client, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := client.History(ctx)
		if err != nil {
			return historyFailedMsg{err: err}
		}
		return historyMsg{entries: entries}
	}
}

// changeLanguage fetches a dictionary carrying the current sequence token,
// so a response overtaken by a newer switch is dropped on arrival.
func (m Model) changeLanguage(code string) tea.Cmd {
	if m.opts.Locales == nil || m.opts.Client == nil {
		return nil
	}
	token := m.opts.Locales.Begin()
	client, timeout := m.opts.Client, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		dict, err := client.Locale(ctx, code)
		if err != nil {
			return localeFailedMsg{code: code, err: err}
		}
		return localeMsg{token: token, code: code, dict: dict}
	}
}

func (m Model) nextLanguage() tea.Cmd {
	if m.opts.Locales == nil {
		return nil
	}
	current := m.opts.Locales.Code()
	next := i18n.Supported[0].Code
	for i, lang := range i18n.Supported {
		if lang.Code == current {
			next = i18n.Supported[(i+1)%len(i18n.Supported)].Code
			break
		}
	}
	return m.changeLanguage(next)
}

func (m Model) exportCSV() tea.Cmd {
	client, timeout := m.opts.Client, m.opts.Timeout
	timetable := m.result.Timetable
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		data, err := client.ExportCSV(ctx, timetable)
		if err != nil {
			return exportFailedMsg{err: err}
		}
		if err := os.WriteFile(exportFileName, data, 0o644); err != nil {
			return exportFailedMsg{err: err}
		}
		return exportedMsg{path: exportFileName}
	}
}

// printCmd pipes the plain-text rendering to the system print spooler.
func (m Model) printCmd() tea.Cmd {
	text := schedule.FormatText(m.grid)
	return func() tea.Msg {
		cmd := exec.Command("lp")
		cmd.Stdin = strings.NewReader(text)
		if out, err := cmd.CombinedOutput(); err != nil {
			return printFailedMsg{err: fmt.Errorf("%v: %s", err, strings.TrimSpace(string(out)))}
		}
		return printedMsg{}
	}
}

func (m *Model) cycleFocus(delta int) {
	m.inputs[m.focusIndex].Blur()
	m.focusIndex = (m.focusIndex + delta + inputCount) % inputCount
	m.inputs[m.focusIndex].Focus()
}

// relabel applies the active dictionary to the form prompts.
func (m *Model) relabel() {
	m.inputs[inputSubjects].Prompt = m.translate("form_subjects") + ": "
	m.inputs[inputSubjects].Placeholder = "Math, Physics, Art"
	m.inputs[inputTeachers].Prompt = m.translate("form_teachers") + ": "
	m.inputs[inputTeachers].Placeholder = "Smith, Jones, Lee"
	m.inputs[inputPeriods].Prompt = m.translate("form_periods") + ": "
}

func (m Model) translate(key string) string {
	if m.opts.Locales == nil {
		return key
	}
	return m.opts.Locales.Translate(key)
}

func (m *Model) updateLayout() {
	m.viewport.Width = m.width
	m.viewport.Height = maxInt(m.height-formHeight-chromeHeight, 3)
	m.refreshViewport()
}

// refreshViewport re-renders the result area after anything that changes
// its content or styling.
func (m *Model) refreshViewport() {
	if m.result == nil {
		return
	}
	m.viewport.SetContent(m.renderResult())
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
