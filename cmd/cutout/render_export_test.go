package main

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"cutout/internal/queue"
	"cutout/internal/testsupport"
)

func readyItem(t *testing.T, env *cliTestEnv, name string) *queue.Item {
	t.Helper()

	dir := t.TempDir()
	source := testsupport.WritePNG(t, dir, name+"-source.png", 80, 60)
	cutout := testsupport.WritePNG(t, dir, name+"-cutout.png", 80, 60)

	item := testsupport.NewItem(t, env.store, source, name)
	item.SetReady(cutout)
	if err := env.store.Update(context.Background(), item); err != nil {
		t.Fatalf("update item: %v", err)
	}
	return item
}

func TestRenderCommandWritesPNG(t *testing.T) {
	env := setupCLITestEnv(t)
	item := readyItem(t, env, "Mug")

	target := filepath.Join(t.TempDir(), "render.png")
	out, _, err := runCLI(t, env, "render", itoa(item.ID), "--output", target)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	requireContains(t, out, target)

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("rendered file missing: %v", err)
	}
}

func TestRenderCommandRejectsUnprocessedItem(t *testing.T) {
	env := setupCLITestEnv(t)
	item := testsupport.NewItem(t, env.store, "/tmp/raw.png", "Raw")

	if _, _, err := runCLI(t, env, "render", itoa(item.ID)); err == nil {
		t.Fatal("expected error rendering an item without a cutout")
	}
	if _, _, err := runCLI(t, env, "render", "9999"); err == nil {
		t.Fatal("expected error rendering a missing item")
	}
}

func TestExportCommandWritesArchive(t *testing.T) {
	env := setupCLITestEnv(t)
	readyItem(t, env, "Portrait")
	readyItem(t, env, "Landscape")

	target := filepath.Join(t.TempDir(), "batch.zip")
	out, _, err := runCLI(t, env, "export", "--output", target)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, target)

	reader, err := zip.OpenReader(target)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer reader.Close()
	if len(reader.File) != 2 {
		t.Fatalf("archive entries = %d, want 2", len(reader.File))
	}
}

func TestExportCommandFailsWithoutReadyItems(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, env, "export"); err == nil {
		t.Fatal("expected error exporting an empty queue")
	}
}
