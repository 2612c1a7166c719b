// Package theme controls the light/dark display mode and its style sets.
package theme

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/avoronov/schedtui/internal/prefs"
)

// Mode is the binary display mode.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Palette groups the lipgloss styles one mode renders with.
type Palette struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Muted       lipgloss.Style
	Header      lipgloss.Style
	Slot        lipgloss.Style
	Subject     lipgloss.Style
	Teacher     lipgloss.Style
	BreakCell   lipgloss.Style
	Placeholder lipgloss.Style
	Warning     lipgloss.Style
	WarningBox  lipgloss.Style
	ErrorText   lipgloss.Style
	Success     lipgloss.Style
	Info        lipgloss.Style
	Action      lipgloss.Style
	Badge       lipgloss.Style
	Footer      lipgloss.Style
}

var darkPalette = Palette{
	Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true),
	Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")),
	Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
	Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true),
	Slot:        lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8")),
	Subject:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")),
	Teacher:     lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
	BreakCell:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFAF")).Italic(true),
	Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A")),
	Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(lipgloss.Color("#E5C07B")).
		Padding(0, 1),
	ErrorText: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#73D893")),
	Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("#61AFEF")),
	Action:    lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
	Badge:     lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#C89A3A")).Padding(0, 1),
	Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
}

var lightPalette = Palette{
	Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Bold(true),
	Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")),
	Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")),
	Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("#8A6D1F")).Bold(true),
	Slot:        lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")),
	Subject:     lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")),
	Teacher:     lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	BreakCell:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00766C")).Italic(true),
	Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")),
	Warning:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9A6700")),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(lipgloss.Color("#9A6700")).
		Padding(0, 1),
	ErrorText: lipgloss.NewStyle().Foreground(lipgloss.Color("#C42B1C")),
	Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1A7F37")),
	Info:      lipgloss.NewStyle().Foreground(lipgloss.Color("#0969DA")),
	Action:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8A6D1F")),
	Badge:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#8A6D1F")).Padding(0, 1),
	Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")),
}

// Controller applies and persists the display mode.
type Controller struct {
	prefsStore *prefs.Store
	mode       Mode
}

// NewController builds a controller; prefsStore may be nil.
func NewController(prefsStore *prefs.Store) *Controller {
	return &Controller{prefsStore: prefsStore, mode: Light}
}

// Load applies the persisted mode, defaulting to light.
func (c *Controller) Load(ctx context.Context) Mode {
	c.mode = Light
	if c.prefsStore == nil {
		return c.mode
	}
	value, ok, err := c.prefsStore.Get(ctx, prefs.KeyTheme)
	if err != nil {
		logErrf("failed to read theme preference: %v\n", err)
		return c.mode
	}
	if ok && Mode(value) == Dark {
		c.mode = Dark
	}
	return c.mode
}

// Set applies and persists the mode. Unknown values fall back to light.
// Idempotent: setting the active mode again is a no-op apart from the write.
func (c *Controller) Set(ctx context.Context, mode Mode) {
	if mode != Light && mode != Dark {
		mode = Light
	}
	c.mode = mode
	if c.prefsStore != nil {
		if err := c.prefsStore.Set(ctx, prefs.KeyTheme, string(mode)); err != nil {
			logErrf("failed to persist theme preference: %v\n", err)
		}
	}
}

// Toggle flips between light and dark and returns the new mode.
func (c *Controller) Toggle(ctx context.Context) Mode {
	if c.mode == Dark {
		c.Set(ctx, Light)
	} else {
		c.Set(ctx, Dark)
	}
	return c.mode
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Palette returns the style set for the active mode.
func (c *Controller) Palette() Palette {
	if c.mode == Dark {
		return darkPalette
	}
	return lightPalette
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
