package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cutout/internal/testsupport"
)

func TestAddCommandQueuesImages(t *testing.T) {
	env := setupCLITestEnv(t)
	src := t.TempDir()

	first := testsupport.WritePNG(t, src, "studio_shot.png", 64, 48)
	second := testsupport.WritePNG(t, src, "mug.png", 32, 32)
	unsupported := filepath.Join(src, "notes.txt")
	if err := os.WriteFile(unsupported, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write unsupported file: %v", err)
	}

	out, _, err := runCLI(t, env, "add", first, second, unsupported)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "Added Studio Shot")
	requireContains(t, out, "Added Mug")
	requireContains(t, out, "Skipped 1 unsupported")

	count, err := env.store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("queue count = %d, want 2", count)
	}
}

func TestAddCommandWithNoValidFiles(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "add", filepath.Join(t.TempDir(), "missing.png"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out, "No items added")
}
