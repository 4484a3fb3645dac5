package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/token"
)

func firstReturnExpr(t *testing.T, src string) ast.Node {
	t.Helper()
	program := parseSource(t, src)
	require.Len(t, program.Declarations, 1)
	fn, ok := program.Declarations[0].(*ast.Function)
	require.True(t, ok)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Nodes, 1)
	ret, ok := fn.Body.Nodes[0].(*ast.Return)
	require.True(t, ok)
	return ret.Expression
}

func TestParseExpression_MultiplicationBindsTighterThanAddition(t *testing.T) {
	expr := firstReturnExpr(t, "fn f() -> s32 { return 1 + 2 * 3; }")

	top, ok := expr.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, token.Plus, top.Operator)

	right, ok := top.Right.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, token.Star, right.Operator)
}

func TestParseExpression_CallArguments(t *testing.T) {
	expr := firstReturnExpr(t, "fn add(a: s32, b: s32) -> s32 { return add(1, 2); }")

	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "add", call.Name)
	require.Len(t, call.Args, 2)
}

func TestParseExpression_GroupingOverridesPrecedence(t *testing.T) {
	expr := firstReturnExpr(t, "fn f() -> s32 { return (1 + 2) * 3; }")

	top, ok := expr.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, token.Star, top.Operator)

	left, ok := top.Left.(*ast.Group)
	require.True(t, ok)
	inner, ok := left.Expression.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, token.Plus, inner.Operator)
}
