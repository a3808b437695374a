package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func runConfigCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestConfigInitCreatesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runConfigCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, target)

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	requireContains(t, string(data), "[removal]")

	if _, err := runConfigCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := runConfigCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runConfigCLI(t, "config", "show", "--file", env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.cfg.Paths.WorkspaceDir)
	requireContains(t, out, "[limits]")
}
