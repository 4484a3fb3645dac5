package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("fn main() -> void {}\n"), 0o644))
	return path
}

func TestBuildBackendOptionsFromFlags_Defaults(t *testing.T) {
	dir := t.TempDir()
	file := writeTempSource(t, dir, "main.th")

	req, err := BuildBackendOptionsFromFlags([]string{file})
	require.NoError(t, err)

	assert.Equal(t, []string{file}, req.Files)
	assert.Equal(t, OptO0, req.Options.Opt)
	assert.Equal(t, RelocDefault, req.Options.Reloc)
	assert.Equal(t, CodeModelDefault, req.Options.CodeModel)
	assert.Equal(t, "build", req.Options.BuildDir)
}

func TestBuildBackendOptionsFromFlags_ExplicitOptions(t *testing.T) {
	dir := t.TempDir()
	file := writeTempSource(t, dir, "main.th")

	req, err := BuildBackendOptionsFromFlags([]string{
		"--target", "x86_64-unknown-linux-gnu",
		"--cpu", "x86-64-v3",
		"--opt", "O2",
		"--reloc", "pic",
		"--codemodel", "small",
		"--emit-llvm-ir",
		"--build-dir", "out",
		file,
	})
	require.NoError(t, err)

	assert.Equal(t, "x86_64-unknown-linux-gnu", req.Options.Target)
	assert.Equal(t, "x86-64-v3", req.Options.CPU)
	assert.Equal(t, OptO2, req.Options.Opt)
	assert.Equal(t, RelocPIC, req.Options.Reloc)
	assert.Equal(t, CodeModelSmall, req.Options.CodeModel)
	assert.True(t, req.Options.EmitLLVMIR)
	assert.Equal(t, "out", req.Options.BuildDir)
}

func TestBuildBackendOptionsFromFlags_GlobExpansion(t *testing.T) {
	dir := t.TempDir()
	writeTempSource(t, dir, "a.th")
	writeTempSource(t, dir, "b.th")

	req, err := BuildBackendOptionsFromFlags([]string{filepath.Join(dir, "*.th")})
	require.NoError(t, err)
	assert.Len(t, req.Files, 2)
}

func TestBuildBackendOptionsFromFlags_NoFiles(t *testing.T) {
	_, err := BuildBackendOptionsFromFlags([]string{})
	assert.Error(t, err)
}

func TestBuildBackendOptionsFromFlags_MissingFile(t *testing.T) {
	// A missing literal path is reported and skipped, not a hard error by
	// itself; with nothing left to compile the request still fails.
	_, err := BuildBackendOptionsFromFlags([]string{"/no/such/file.th"})
	assert.Error(t, err)
}

func TestBuildBackendOptionsFromFlags_MissingFileAmongValidOnesIsSkipped(t *testing.T) {
	dir := t.TempDir()
	file := writeTempSource(t, dir, "main.th")

	req, err := BuildBackendOptionsFromFlags([]string{"/no/such/file.th", file})
	require.NoError(t, err)
	assert.Equal(t, []string{file}, req.Files)
}
