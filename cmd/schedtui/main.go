// Package main provides the CLI entrypoint for schedtui.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avoronov/schedtui/internal/api"
	"github.com/avoronov/schedtui/internal/config"
	"github.com/avoronov/schedtui/internal/i18n"
	"github.com/avoronov/schedtui/internal/prefs"
	"github.com/avoronov/schedtui/internal/schedule"
	"github.com/avoronov/schedtui/internal/theme"
	"github.com/avoronov/schedtui/internal/tui"
)

const (
	defaultServerURL = "http://localhost:5000"
	defaultTimeout   = 15
	defaultPeriods   = 6
)

var (
	rootServerURL string
	rootTimeout   int
	rootLang      string
	rootPeriods   int

	historyServerURL string
	historyTimeout   int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "schedtui",
		Short:         "TUI client for the timetable generation service",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRootCmd,
	}

	rootCmd.Flags().StringVar(&rootServerURL, "server", defaultServerURL, "generation service base URL")
	rootCmd.Flags().IntVar(&rootTimeout, "timeout", defaultTimeout, "request timeout in seconds")
	rootCmd.Flags().StringVar(&rootLang, "lang", "", "language code (default: persisted preference)")
	rootCmd.Flags().IntVar(&rootPeriods, "periods", defaultPeriods, "default periods per day")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runRootCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "server", &rootServerURL, fileCfg.Server.URL)
	applyIntConfig(cmd, "timeout", &rootTimeout, fileCfg.Server.TimeoutSeconds)
	applyStringConfig(cmd, "lang", &rootLang, fileCfg.UI.Lang)
	applyIntConfig(cmd, "periods", &rootPeriods, fileCfg.UI.Periods)

	if rootTimeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if rootPeriods <= 0 {
		return fmt.Errorf("--periods must be > 0")
	}

	storePath := config.DefaultDBPath()
	st, err := prefs.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	timeout := time.Duration(rootTimeout) * time.Second
	client := api.New(rootServerURL, timeout)
	locales := i18n.New(st)
	themes := theme.NewController(st)
	themes.Load(context.Background())

	if rootLang != "" {
		if err := st.Set(context.Background(), prefs.KeyLang, rootLang); err != nil {
			logErrf("failed to persist language preference: %v\n", err)
		}
	}

	model := tui.NewModel(tui.Options{
		Client:         client,
		Locales:        locales,
		Themes:         themes,
		DefaultPeriods: rootPeriods,
		Timeout:        timeout,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List supported interface languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	for _, lang := range i18n.Supported {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", lang.Code, lang.Name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past generation attempts",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyServerURL, "server", defaultServerURL, "generation service base URL")
	cmd.Flags().IntVar(&historyTimeout, "timeout", defaultTimeout, "request timeout in seconds")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "server", &historyServerURL, fileCfg.Server.URL)
	applyIntConfig(cmd, "timeout", &historyTimeout, fileCfg.Server.TimeoutSeconds)
	if historyTimeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}

	client := api.New(historyServerURL, time.Duration(historyTimeout)*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(historyTimeout)*time.Second)
	defer cancel()
	entries, err := client.History(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch history: %w", err)
	}
	if len(entries) == 0 {
		logErrln("No generation attempts recorded yet.")
		return nil
	}

	headers := []string{"When", "Subjects", "Teachers", "Status"}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Timestamp.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", entry.Subjects),
			fmt.Sprintf("%d", entry.Teachers),
			entry.Status,
		})
	}
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	for _, line := range schedule.FormatTable(headers, rows) {
		line = runewidth.Truncate(line, width, "")
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# schedtui configuration
# Uncomment a value to enable it. CLI flags override config values.

[server]
# url = %q   # Generation service base URL
# timeout-seconds = %d          # Request timeout in seconds

[ui]
# lang = "en"                   # Interface language code
# periods = %d                  # Default periods per day
`,
		defaultServerURL,
		defaultTimeout,
		defaultPeriods,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
