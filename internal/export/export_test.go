package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cutout/internal/queue"
	"cutout/internal/services"
	"cutout/internal/settings"
	"cutout/internal/testsupport"
)

func exportSettings() settings.Settings {
	return settings.Settings{
		Shape:     settings.ShapeCircle,
		FrameSize: 64,
		Background: settings.Background{
			Kind:  settings.BackgroundSolid,
			Color: "#ffffff",
		},
		Batch: settings.Transform{Scale: 1.0},
		Export: settings.Export{
			Format:        settings.FormatPNG,
			Scale:         1.0,
			NamingPattern: "{name}-{index}",
		},
	}
}

func readyItem(t *testing.T, store *queue.Store, dir, name string) *queue.Item {
	t.Helper()
	cutoutPath := testsupport.WritePNG(t, dir, name+".png", 32, 32)
	item := testsupport.NewItem(t, store, cutoutPath, name)
	item.SetReady(cutoutPath)
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	return item
}

func TestExportWritesArchive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := t.TempDir()
	readyItem(t, store, dir, "portrait")
	readyItem(t, store, dir, "landscape")

	exporter := New(cfg, store, nil)
	path, err := exporter.Export(context.Background(), exportSettings(), "")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Dir(path) != cfg.Paths.OutputDir {
		t.Fatalf("archive written outside output dir: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("archive entries = %d, want 2", len(reader.File))
	}
	names := map[string]bool{}
	for _, file := range reader.File {
		names[file.Name] = true
	}
	if !names["portrait-01.png"] || !names["landscape-02.png"] {
		t.Fatalf("unexpected entry names: %v", names)
	}
}

func TestArchiveFailsWithoutReadyItems(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.NewItem(t, store, "/tmp/a.png", "still queued")

	exporter := New(cfg, store, nil)
	_, err := exporter.Archive(context.Background(), exportSettings())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestArchiveFailsWhollyOnBrokenItem(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := t.TempDir()
	readyItem(t, store, dir, "good")

	// Ready item whose cutout artifact has gone missing.
	broken := testsupport.NewItem(t, store, "/tmp/missing.png", "broken")
	broken.SetReady(filepath.Join(dir, "missing-cutout.png"))
	if err := store.Update(context.Background(), broken); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	exporter := New(cfg, store, nil)
	if _, err := exporter.Archive(context.Background(), exportSettings()); err == nil {
		t.Fatal("expected export to fail when any item is broken")
	}
}

func TestArchiveEncodesWebP(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	dir := t.TempDir()
	readyItem(t, store, dir, "subject")

	s := exportSettings()
	s.Export.Format = settings.FormatWebP
	exporter := New(cfg, store, nil)

	data, err := exporter.Archive(context.Background(), s)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(reader.File) != 1 || filepath.Ext(reader.File[0].Name) != ".webp" {
		t.Fatalf("unexpected entries: %v", reader.File)
	}
	entry, err := reader.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer entry.Close()
	header := make([]byte, 4)
	if _, err := entry.Read(header); err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if string(header) != "RIFF" {
		t.Fatalf("entry header = %q, want RIFF", header)
	}
}

func TestNamerSubstitutesAndDedupes(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	n := newNamer("{name}-{index}", settings.FormatPNG, now)

	if got := n.next(1, "Red Mug"); got != "red_mug-01.png" {
		t.Errorf("first = %q", got)
	}
	if got := n.next(2, "Blue Mug"); got != "blue_mug-02.png" {
		t.Errorf("second = %q", got)
	}

	// Identical names within a batch gain numeric suffixes.
	collide := newNamer("{name}", settings.FormatPNG, now)
	first := collide.next(1, "mug")
	second := collide.next(2, "mug")
	third := collide.next(3, "mug")
	if first != "mug.png" || second != "mug-2.png" || third != "mug-3.png" {
		t.Errorf("dedupe = %q, %q, %q", first, second, third)
	}

	stamped := newNamer("{timestamp}-{name}", settings.FormatWebP, now)
	if got := stamped.next(1, "mug"); got != "20260314-093000-mug.webp" {
		t.Errorf("timestamp name = %q", got)
	}
}
