package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

func TestPrint_EmptyProgram(t *testing.T) {
	assert.Equal(t, "", Print(&Program{}))
}

func TestPrint_ConstDeclaration(t *testing.T) {
	span := token.Span{}
	program := &Program{Declarations: []Node{
		&Const{Base: NewBase(span), Name: "X", Type: types.Signed(types.TagS32), Value: NewInteger(span, 5, false, Placeholder)},
	}}
	assert.Equal(t, "const X: s32 = 5;\n", Print(program))
}
