package theme

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/avoronov/schedtui/internal/prefs"
)

func TestDefaultIsLight(t *testing.T) {
	c := NewController(nil)
	if mode := c.Load(context.Background()); mode != Light {
		t.Fatalf("want light by default, got %q", mode)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	store, err := prefs.Open(path)
	if err != nil {
		t.Fatalf("open prefs: %v", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			t.Fatalf("close prefs: %v", cerr)
		}
	}()

	ctx := context.Background()
	c := NewController(store)
	c.Load(ctx)
	c.Set(ctx, Dark)

	// Fresh controller simulates a restart.
	restarted := NewController(store)
	if mode := restarted.Load(ctx); mode != Dark {
		t.Fatalf("want dark after reload, got %q", mode)
	}
}

func TestToggleAndIdempotentSet(t *testing.T) {
	ctx := context.Background()
	c := NewController(nil)
	c.Load(ctx)

	if mode := c.Toggle(ctx); mode != Dark {
		t.Fatalf("want dark after toggle, got %q", mode)
	}
	c.Set(ctx, Dark)
	if c.Mode() != Dark {
		t.Fatalf("repeated set changed mode: %q", c.Mode())
	}
	if mode := c.Toggle(ctx); mode != Light {
		t.Fatalf("want light after second toggle, got %q", mode)
	}
}

func TestUnknownModeFallsBackToLight(t *testing.T) {
	ctx := context.Background()
	c := NewController(nil)
	c.Set(ctx, Mode("solarized"))
	if c.Mode() != Light {
		t.Fatalf("want light for unknown mode, got %q", c.Mode())
	}
}
