// Package i18n holds the active language and translation dictionary.
package i18n

import (
	"context"
	"fmt"
	"os"

	"github.com/avoronov/schedtui/internal/prefs"
)

// DefaultLang is used when no preference was ever persisted.
const DefaultLang = "en"

// Supported lists the language codes the service ships dictionaries for.
var Supported = []struct {
	Code string
	Name string
}{
	{"en", "English"},
	{"es", "Español"},
	{"fr", "Français"},
}

// Store resolves translation keys against the most recently successfully
// loaded dictionary. Switches are two-phase: Begin hands out a sequence
// token, Apply installs a fetched dictionary only if no newer switch was
// requested in the meantime, so a slow response never clobbers a newer one.
type Store struct {
	prefsStore *prefs.Store
	code       string
	dict       map[string]string
	seq        int
}

// New builds a store; prefsStore may be nil (no persistence).
func New(prefsStore *prefs.Store) *Store {
	return &Store{prefsStore: prefsStore, code: DefaultLang}
}

// InitialCode returns the persisted language preference, defaulting to "en".
func (s *Store) InitialCode(ctx context.Context) string {
	if s.prefsStore == nil {
		return DefaultLang
	}
	code, ok, err := s.prefsStore.Get(ctx, prefs.KeyLang)
	if err != nil {
		logErrf("failed to read language preference: %v\n", err)
		return DefaultLang
	}
	if !ok || code == "" {
		return DefaultLang
	}
	return code
}

// Code returns the active language code.
func (s *Store) Code() string {
	return s.code
}

// Translate returns the dictionary value for key, or key itself when the
// key is missing. It never fails.
func (s *Store) Translate(key string) string {
	if value, ok := s.dict[key]; ok {
		return value
	}
	return key
}

// Begin registers a switch intent and returns the token the fetched
// dictionary must present to Apply.
func (s *Store) Begin() int {
	s.seq++
	return s.seq
}

// Apply atomically replaces the code and dictionary and persists the code.
// A stale token (a newer switch was requested after this fetch started) is
// dropped and the current state kept. Reports whether the switch took.
func (s *Store) Apply(ctx context.Context, token int, code string, dict map[string]string) bool {
	if token != s.seq {
		return false
	}
	s.code = code
	s.dict = dict
	if s.prefsStore != nil {
		if err := s.prefsStore.Set(ctx, prefs.KeyLang, code); err != nil {
			logErrf("failed to persist language preference: %v\n", err)
		}
	}
	return true
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
