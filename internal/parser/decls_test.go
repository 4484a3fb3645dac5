package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/lexer"
	"github.com/thrushlang/thrushc/internal/source"
)

func TestParseStruct_FieldsInOrder(t *testing.T) {
	program := parseSource(t, "struct Point { x: s32, y: s32 }")
	require.Len(t, program.Declarations, 1)

	st, ok := program.Declarations[0].(*ast.Struct)
	require.True(t, ok)
	assert.Equal(t, "Point", st.Name)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, "x", st.Fields[0].Name)
	assert.Equal(t, "y", st.Fields[1].Name)
}

func TestParseEnum_WithInitializers(t *testing.T) {
	program := parseSource(t, "enum Color { Red: s32 = 0, Green: s32 = 1 }")
	require.Len(t, program.Declarations, 1)

	en, ok := program.Declarations[0].(*ast.Enum)
	require.True(t, ok)
	require.Len(t, en.Data, 2)
	assert.NotNil(t, en.Data[0].Initializer)
	assert.NotNil(t, en.Data[1].Initializer)
}

func TestParseConst_RequiresTypeAnnotation(t *testing.T) {
	unit := &source.Unit{Name: "missing-type", Text: "const X = 5;"}
	tokens, lexBag := lexer.Lex(unit)
	require.False(t, lexBag.HasErrors())

	_, hadErrors := Parse(tokens, unit)
	assert.True(t, hadErrors, "const without ': type' must be a syntax error")
}

func TestParseImport_CapturesPath(t *testing.T) {
	program := parseSource(t, `import "core/io";`)
	require.Len(t, program.Declarations, 1)

	imp, ok := program.Declarations[0].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "core/io", imp.Path)
}

func TestParseDeclaration_UnexpectedTokenRecordsSyntaxError(t *testing.T) {
	unit := &source.Unit{Name: "bad-decl", Text: "42;"}
	tokens, lexBag := lexer.Lex(unit)
	require.False(t, lexBag.HasErrors())

	ctx, hadErrors := Parse(tokens, unit)
	require.True(t, hadErrors)
	require.NotNil(t, ctx.Bag)

	found := false
	for _, d := range ctx.Bag.Items() {
		if d.Code == diagnostics.ESynUnexpectedToken {
			found = true
		}
	}
	assert.True(t, found, "expected an unexpected-token diagnostic")
}
