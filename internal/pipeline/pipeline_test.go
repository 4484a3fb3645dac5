package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/artifacts"
	"github.com/thrushlang/thrushc/internal/codegen"
	"github.com/thrushlang/thrushc/internal/config"
	"github.com/thrushlang/thrushc/internal/diagnostics"
)

func writeUnit(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.th")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func newTestPipeline(t *testing.T) (*Pipeline, *bytes.Buffer) {
	t.Helper()
	store, err := artifacts.Open(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	var out bytes.Buffer
	diag := diagnostics.NewDiagnostician(&out, false)

	opts := config.Default()
	opts.BuildDir = t.TempDir()

	p, err := New(codegen.NewStubBackend(), store, diag, opts)
	require.NoError(t, err)
	return p, &out
}

func TestCompileUnit_SimpleFunction(t *testing.T) {
	p, out := newTestPipeline(t)
	path := writeUnit(t, "fn add(a: s32, b: s32) -> s32 { return a + b; }")

	result := p.CompileUnit(path)
	require.NoError(t, result.Err)
	assert.NotEmpty(t, result.ObjectPath)
	assert.FileExists(t, result.ObjectPath)
	assert.Empty(t, out.String())
}

func TestCompileUnit_SyntaxErrorStopsBeforeCodegen(t *testing.T) {
	p, out := newTestPipeline(t)
	path := writeUnit(t, "fn add(a: s32, b: s32 -> s32 { return a + b; }")

	result := p.CompileUnit(path)
	assert.Error(t, result.Err)
	assert.Empty(t, result.ObjectPath)
	assert.NotEmpty(t, out.String())
}

func TestCompileUnit_MutationOfImmutableIsATypeError(t *testing.T) {
	p, _ := newTestPipeline(t)
	path := writeUnit(t, "fn f() { let x: s32 = 1; write x, 2; }")

	result := p.CompileUnit(path)
	assert.Error(t, result.Err)
}

func TestCompileUnit_MissingFileIsReportedNotPanicked(t *testing.T) {
	p, _ := newTestPipeline(t)
	result := p.CompileUnit("/no/such/file.th")
	assert.Error(t, result.Err)
}

func TestCompileAll_ContinuesPastFailingUnit(t *testing.T) {
	p, _ := newTestPipeline(t)
	good := writeUnit(t, "fn f() -> s32 { return 1; }")
	bad := writeUnit(t, "fn (broken")

	results := p.CompileAll([]string{bad, good})
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
}
