package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/config"
	"github.com/thrushlang/thrushc/internal/source"
)

func TestStubBackend_Compile_WritesObjectFile(t *testing.T) {
	dir := t.TempDir()
	backend := NewStubBackend()
	unit := &source.Unit{Name: "main", Path: "main.th", Text: "fn main() {}"}
	program := &ast.Program{Declarations: []ast.Node{&ast.Function{}}}
	opts := config.Default()
	opts.BuildDir = dir

	result, err := backend.Compile(unit, program, opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "obj", "main.o"), result.ObjectPath)
	assert.Empty(t, result.LLVMIRPath)

	contents, err := os.ReadFile(result.ObjectPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "main")
	assert.Equal(t, []string{"main"}, backend.Compiled)
}

func TestStubBackend_Compile_EmitsRequestedArtifacts(t *testing.T) {
	dir := t.TempDir()
	backend := NewStubBackend()
	unit := &source.Unit{Name: "mod", Path: "mod.th", Text: ""}
	program := &ast.Program{}
	opts := config.Default()
	opts.BuildDir = dir
	opts.EmitLLVMIR = true
	opts.EmitBitcode = true
	opts.EmitAssembly = true

	result, err := backend.Compile(unit, program, opts)
	require.NoError(t, err)
	assert.FileExists(t, result.LLVMIRPath)
	assert.FileExists(t, result.BitcodePath)
	assert.FileExists(t, result.AssemblyPath)
}

func TestStubBackend_Compile_NilProgramIsAnError(t *testing.T) {
	backend := NewStubBackend()
	unit := &source.Unit{Name: "broken"}
	_, err := backend.Compile(unit, nil, config.Default())
	assert.Error(t, err)
}
