package i18n

import (
	"context"
	"testing"
)

func TestTranslateFallsBackToKey(t *testing.T) {
	store := New(nil)
	if got := store.Translate("col_time"); got != "col_time" {
		t.Fatalf("empty dictionary: want key back, got %q", got)
	}

	token := store.Begin()
	if !store.Apply(context.Background(), token, "en", map[string]string{"col_time": "Time"}) {
		t.Fatalf("expected apply to take")
	}
	if got := store.Translate("col_time"); got != "Time" {
		t.Fatalf("want Time, got %q", got)
	}
	if got := store.Translate("missing_key"); got != "missing_key" {
		t.Fatalf("want key back for missing entry, got %q", got)
	}
}

func TestFailedSwitchKeepsPriorDictionary(t *testing.T) {
	store := New(nil)
	ctx := context.Background()
	store.Apply(ctx, store.Begin(), "en", map[string]string{"col_time": "Time"})

	// A failed fetch never calls Apply; the previous state must hold.
	_ = store.Begin()
	if store.Code() != "en" {
		t.Fatalf("code changed without a successful load: %q", store.Code())
	}
	if got := store.Translate("col_time"); got != "Time" {
		t.Fatalf("dictionary changed without a successful load: %q", got)
	}
}

func TestStaleResponseDropped(t *testing.T) {
	store := New(nil)
	ctx := context.Background()

	first := store.Begin()
	second := store.Begin()

	if store.Apply(ctx, first, "es", map[string]string{"col_time": "Hora"}) {
		t.Fatalf("stale token must not apply")
	}
	if !store.Apply(ctx, second, "fr", map[string]string{"col_time": "Heure"}) {
		t.Fatalf("latest token must apply")
	}
	if store.Code() != "fr" {
		t.Fatalf("want fr, got %q", store.Code())
	}
	if got := store.Translate("col_time"); got != "Heure" {
		t.Fatalf("want Heure, got %q", got)
	}
}
