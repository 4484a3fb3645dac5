package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/lexer"
	"github.com/thrushlang/thrushc/internal/source"
)

// parseSource lexes and parses text, failing the test on any diagnostic.
func parseSource(t *testing.T, text string) *ast.Program {
	t.Helper()
	unit := &source.Unit{Name: "roundtrip", Text: text}
	tokens, lexBag := lexer.Lex(unit)
	require.False(t, lexBag.HasErrors())

	ctx, hadErrors := Parse(tokens, unit)
	require.False(t, hadErrors)
	return ctx.Program
}

// TestParsePrintParse_IsStructurallyStable is the parse ∘ pretty-print ∘
// parse round-trip property from spec.md §8: printing a parsed program and
// reparsing it must print identically the second time.
func TestParsePrintParse_IsStructurallyStable(t *testing.T) {
	sources := []string{
		"fn add(a: s32, b: s32) -> s32 { return a + b; }",
		"const X: s32 = 5;",
		"fn f() -> void { let x: s32 = 1; write x, 2; }",
		"fn f() -> void { if (1) { return; } elif (2) { return; } else { return; } }",
		"struct Point { x: s32, y: s32 }",
	}

	for _, src := range sources {
		first := ast.Print(parseSource(t, src))
		second := ast.Print(parseSource(t, first))
		assert.Equal(t, first, second, "round-trip mismatch for %q:\n%s", src, ast.UnifiedDiff(first, second))
	}
}
