package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewRootCommand_HasExpectedSubcommands(t *testing.T) {
	root := newRootCommand()

	want := []string{
		"version", "llvm-print-targets", "llvm-print-supported-cpus",
		"llvm-print-host-target-triple", "llvm-print-opt-passes",
	}
	for _, name := range want {
		if _, _, err := root.Find([]string{name}); err != nil {
			t.Errorf("expected subcommand %q to be registered: %v", name, err)
		}
	}
}

func TestHostTargetTriple_IsNonEmpty(t *testing.T) {
	if hostTargetTriple() == "" {
		t.Error("expected a non-empty host target triple")
	}
}

func TestRun_CompilesSimpleUnit(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.th")
	if err := os.WriteFile(src, []byte("fn add(a: s32, b: s32) -> s32 { return a + b; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	code := run([]string{"--build-dir", filepath.Join(dir, "build"), src})
	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}

	objPath := filepath.Join(dir, "build", "obj", "main.o")
	if _, err := os.Stat(objPath); err != nil {
		t.Errorf("expected object file at %s: %v", objPath, err)
	}
}

func TestRun_MissingFileReturnsNonZero(t *testing.T) {
	code := run([]string{"/no/such/file.th"})
	if code == 0 {
		t.Error("expected a non-zero exit code for an unresolvable source file")
	}
}

func TestRun_VersionSubcommand(t *testing.T) {
	code := run([]string{"version"})
	if code != 0 {
		t.Errorf("expected exit code 0 from version, got %d", code)
	}
}
