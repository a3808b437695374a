package queue_test

import (
	"context"
	"testing"

	"cutout/internal/settings"
	"cutout/internal/testsupport"
)

func TestSettingsRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	defaults := settings.FromConfig(cfg)

	loaded, err := store.LoadSettings(ctx, defaults)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if loaded != defaults {
		t.Fatalf("empty store must return defaults, got %#v", loaded)
	}

	loaded.Shape = settings.ShapeRounded
	loaded.Batch.Scale = 1.8
	loaded.Background.Color = "#102030"
	if err := store.SaveSettings(ctx, loaded); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	reloaded, err := store.LoadSettings(ctx, defaults)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if reloaded != loaded {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", reloaded, loaded)
	}

	// Saving again overwrites the single document.
	reloaded.Batch.Rotation = -45
	if err := store.SaveSettings(ctx, reloaded); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	final, err := store.LoadSettings(ctx, defaults)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if final.Batch.Rotation != -45 {
		t.Fatalf("overwrite not applied: %#v", final)
	}
}
