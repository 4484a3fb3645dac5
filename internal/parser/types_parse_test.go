package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/lexer"
	"github.com/thrushlang/thrushc/internal/source"
	"github.com/thrushlang/thrushc/internal/types"
)

func TestParseType_FixedArrayCarriesSize(t *testing.T) {
	program := parseSource(t, "const X: array[s32; 4] = [1, 2, 3, 4];")
	require.Len(t, program.Declarations, 1)

	constDecl, ok := program.Declarations[0].(*ast.Const)
	require.True(t, ok)
	assert.Equal(t, types.TagFixedArray, constDecl.Type.Tag)
	assert.Equal(t, uint32(4), constDecl.Type.Size)
	require.NotNil(t, constDecl.Type.Inner)
	assert.Equal(t, types.TagS32, constDecl.Type.Inner.Tag)
}

func TestParseType_PtrElementType(t *testing.T) {
	unit := &source.Unit{Name: "ptr-type", Text: "const X: ptr[s32] = nullptr;"}
	tokens, lexBag := lexer.Lex(unit)
	require.False(t, lexBag.HasErrors())

	_, hadErrors := Parse(tokens, unit)
	assert.False(t, hadErrors)
}

func TestParseType_VoidRejectedInValuePosition(t *testing.T) {
	unit := &source.Unit{Name: "void-value", Text: "const X: void = 0;"}
	tokens, lexBag := lexer.Lex(unit)
	require.False(t, lexBag.HasErrors())

	_, hadErrors := Parse(tokens, unit)
	assert.True(t, hadErrors, "void must not be legal in a value position")
}

func TestParseType_VoidLegalAsFunctionReturn(t *testing.T) {
	unit := &source.Unit{Name: "void-return", Text: "fn f() -> void {}"}
	tokens, lexBag := lexer.Lex(unit)
	require.False(t, lexBag.HasErrors())

	_, hadErrors := Parse(tokens, unit)
	assert.False(t, hadErrors)
}
