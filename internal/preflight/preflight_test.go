package preflight

import (
	"context"
	"path/filepath"
	"testing"

	"cutout/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("dir", dir)
	if !result.Passed {
		t.Fatalf("existing dir failed: %s", result.Detail)
	}

	result = CheckDirectoryAccess("dir", filepath.Join(dir, "missing"))
	if result.Passed {
		t.Fatal("missing dir must fail")
	}

	file := testsupport.WritePNG(t, dir, "file.png", 4, 4)
	result = CheckDirectoryAccess("dir", file)
	if result.Passed {
		t.Fatal("regular file must fail the directory check")
	}
}

func TestCheckDiskSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckDiskSpace("space", dir, 1); !result.Passed {
		t.Fatalf("one byte of headroom should pass: %s", result.Detail)
	}
	if result := CheckDiskSpace("space", dir, ^uint64(0)); result.Passed {
		t.Fatal("impossible requirement must fail")
	}
	if result := CheckDiskSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("missing path must fail")
	}
}

func TestCheckRemovalConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := CheckRemovalConfig(cfg); result.Passed {
		t.Fatal("unconfigured removal API must fail")
	}

	cfg = testsupport.NewConfig(t, testsupport.WithRemovalAPI("https://api.example.com/remove", "key"))
	if result := CheckRemovalConfig(cfg); !result.Passed {
		t.Fatalf("configured removal API failed: %s", result.Detail)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithRemovalAPI("not a url", "key"))
	if result := CheckRemovalConfig(cfg); result.Passed {
		t.Fatal("malformed url must fail")
	}
}

func TestRunAllCoversEnvironment(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithRemovalAPI("https://api.example.com/remove", "key"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("result count = %d, want 4", len(results))
	}
	if !Passed(results) {
		for _, result := range results {
			t.Logf("%s: passed=%v detail=%s", result.Name, result.Passed, result.Detail)
		}
		t.Fatal("all checks should pass in a prepared environment")
	}
}
