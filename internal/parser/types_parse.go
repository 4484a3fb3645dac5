package parser

import (
	"strconv"

	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

// parseType parses a type expression. valuePosition controls whether `void`
// is rejected (it is not a value: illegal inside Ptr/Array/FixedArray/Fn
// params/Const/struct fields, legal only as a function's return type).
func (p *Parser) parseType(valuePosition bool) types.Type {
	start := p.peek()

	switch {
	case p.check(token.TypeVoid):
		p.advance()
		if valuePosition {
			p.bag.Error(diagnostics.ESynVoidValue, start.Span, "void is not a value type here")
		}
		t := types.Void()
		t.Span = start.Span
		return t

	case p.check(token.TypePtr):
		p.advance()
		t := types.Ptr(nil)
		if p.check(token.LeftBracket) {
			p.advance()
			inner := p.parseType(true)
			p.expect(token.RightBracket, "expected ']' after pointer element type")
			t = types.Ptr(&inner)
		}
		t.Span = p.spanFrom(start)
		return t

	case p.check(token.TypeArray):
		p.advance()
		p.expect(token.LeftBracket, "expected '[' after 'array'")
		inner := p.parseType(true)
		var t types.Type
		if p.matchAny(token.Semicolon) {
			sizeTok, ok := p.expect(token.IntegerLiteral, "expected array size literal")
			size := uint32(0)
			if ok {
				if v, err := strconv.ParseUint(sizeTok.Lexeme, 0, 32); err == nil {
					size = uint32(v)
				}
			}
			t = types.FixedArray(inner, size)
		} else {
			t = types.Array(inner)
		}
		p.expect(token.RightBracket, "expected ']' after array type")
		t.Span = p.spanFrom(start)
		return t

	case p.check(token.TypeConst):
		p.advance()
		inner := p.parseType(true)
		t := types.Const(inner)
		t.Span = p.spanFrom(start)
		return t

	case p.check(token.TypeMut):
		p.advance()
		inner := p.parseType(true)
		t := types.Mut(inner)
		t.Span = p.spanFrom(start)
		return t

	case p.check(token.TypeFnRef):
		p.advance()
		p.expect(token.LeftBracket, "expected '[' after 'Fn'")
		var params []types.Type
		ignore := false
		for !p.check(token.RightBracket) && !p.check(token.Eof) {
			if p.check(token.AttrIgnore) {
				p.advance()
				ignore = true
			} else {
				params = append(params, p.parseType(true))
			}
			if !p.matchAny(token.Comma) {
				break
			}
		}
		p.expect(token.RightBracket, "expected ']' after Fn parameter list")
		p.expect(token.Arrow, "expected '->' after Fn parameter list")
		ret := p.parseType(false)
		t := types.Fn(params, ret, types.Modificator{Ignore: ignore})
		t.Span = p.spanFrom(start)
		return t

	case p.check(token.Identifier):
		name := p.advance().Lexeme
		if ty, ok := p.table.LookupCustomType(name); ok {
			ty.Span = p.spanFrom(start)
			return ty
		}
		if st, ok := p.table.LookupStruct(name); ok {
			t := types.Struct(name, st.FieldTypes, types.Modificator{})
			t.Span = p.spanFrom(start)
			return t
		}
		p.bag.Error(diagnostics.ESynUndeclared, start.Span, "undeclared type '"+name+"'")
		t := types.Void()
		t.Span = start.Span
		return t

	default:
		if p.peek().Kind.IsType() {
			p.advance()
			t := builtinScalar(start.Kind)
			t.Span = start.Span
			return t
		}
		p.bag.Error(diagnostics.ESynMalformedType, start.Span, "expected a type")
		return types.Void()
	}
}

func builtinScalar(k token.Kind) types.Type {
	switch k {
	case token.TypeS8:
		return types.Signed(types.TagS8)
	case token.TypeS16:
		return types.Signed(types.TagS16)
	case token.TypeS32:
		return types.Signed(types.TagS32)
	case token.TypeS64:
		return types.Signed(types.TagS64)
	case token.TypeSSize:
		return types.Signed(types.TagSSize)
	case token.TypeU8:
		return types.Unsigned(types.TagU8)
	case token.TypeU16:
		return types.Unsigned(types.TagU16)
	case token.TypeU32:
		return types.Unsigned(types.TagU32)
	case token.TypeU64:
		return types.Unsigned(types.TagU64)
	case token.TypeUSize:
		return types.Unsigned(types.TagUSize)
	case token.TypeF32:
		return types.Type{Tag: types.TagF32}
	case token.TypeF64:
		return types.Type{Tag: types.TagF64}
	case token.TypeF128:
		return types.Type{Tag: types.TagF128}
	case token.TypeFx8680:
		return types.Type{Tag: types.TagFx8680}
	case token.TypeFppc128:
		return types.Type{Tag: types.TagFppc128}
	case token.TypeBool:
		return types.Bool()
	case token.TypeChar:
		return types.Char()
	case token.TypeAddr:
		return types.Addr()
	default:
		return types.Void()
	}
}
