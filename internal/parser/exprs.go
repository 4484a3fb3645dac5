package parser

import (
	"strconv"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

// parseExpression is the entry point into the precedence-climbing grammar,
// lowest-to-highest: ||, &&, equality, comparison, bitor, bitxor, bitand,
// shift, additive, multiplicative, unary, postfix, primary.
func (p *Parser) parseExpression() ast.Node {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() ast.Node {
	left := p.parseLogicalAnd()
	for p.check(token.PipePipe) {
		op := p.advance()
		right := p.parseLogicalAnd()
		left = p.binary(left, op.Kind, right)
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Node {
	left := p.parseEquality()
	for p.check(token.AmpersandAmpersand) {
		op := p.advance()
		right := p.parseEquality()
		left = p.binary(left, op.Kind, right)
	}
	return left
}

func (p *Parser) parseEquality() ast.Node {
	left := p.parseComparison()
	for p.check(token.EqualEqual) || p.check(token.BangEqual) {
		op := p.advance()
		right := p.parseComparison()
		left = p.binary(left, op.Kind, right)
	}
	return left
}

func (p *Parser) parseComparison() ast.Node {
	left := p.parseBitOr()
	for p.check(token.Less) || p.check(token.LessEqual) || p.check(token.Greater) || p.check(token.GreaterEqual) {
		op := p.advance()
		right := p.parseBitOr()
		left = p.binary(left, op.Kind, right)
	}
	return left
}

func (p *Parser) parseBitOr() ast.Node {
	left := p.parseBitXor()
	for p.check(token.Pipe) {
		op := p.advance()
		right := p.parseBitXor()
		left = p.binary(left, op.Kind, right)
	}
	return left
}

func (p *Parser) parseBitXor() ast.Node {
	left := p.parseBitAnd()
	for p.check(token.Caret) {
		op := p.advance()
		right := p.parseBitAnd()
		left = p.binary(left, op.Kind, right)
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Node {
	left := p.parseShift()
	for p.check(token.Ampersand) {
		op := p.advance()
		right := p.parseShift()
		left = p.binary(left, op.Kind, right)
	}
	return left
}

func (p *Parser) parseShift() ast.Node {
	left := p.parseAdditive()
	for p.check(token.LessLess) || p.check(token.GreaterGreater) {
		op := p.advance()
		right := p.parseAdditive()
		left = p.binary(left, op.Kind, right)
	}
	return left
}

func (p *Parser) parseAdditive() ast.Node {
	left := p.parseMultiplicative()
	for p.check(token.Plus) || p.check(token.Minus) {
		op := p.advance()
		right := p.parseMultiplicative()
		left = p.binary(left, op.Kind, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Node {
	left := p.parseUnary()
	for p.check(token.Star) || p.check(token.Slash) || p.check(token.Percent) {
		op := p.advance()
		right := p.parseUnary()
		left = p.binary(left, op.Kind, right)
	}
	return left
}

func (p *Parser) binary(left ast.Node, op token.Kind, right ast.Node) ast.Node {
	n := &ast.BinaryOp{Base: ast.NewBase(left.Span().Merge(right.Span())), Left: left, Operator: op, Right: right}
	n.SetKind(left.Kind())
	return n
}

func (p *Parser) parseUnary() ast.Node {
	switch {
	case p.check(token.Bang), p.check(token.Minus), p.check(token.Tilde), p.check(token.Ampersand), p.check(token.Star):
		op := p.advance()
		operand := p.parseUnary()
		n := &ast.UnaryOp{Base: ast.NewBase(op.Span.Merge(operand.Span())), Operator: op.Kind, Expression: operand, IsPre: true}
		n.SetKind(operand.Kind())
		return n
	case p.check(token.PlusPlus), p.check(token.MinusMinus):
		op := p.advance()
		operand := p.parseUnary()
		n := &ast.UnaryOp{Base: ast.NewBase(op.Span.Merge(operand.Span())), Operator: op.Kind, Expression: operand, IsPre: true}
		n.SetKind(operand.Kind())
		return n
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Node {
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(token.PlusPlus), p.check(token.MinusMinus):
			op := p.advance()
			n := &ast.UnaryOp{Base: ast.NewBase(expr.Span().Merge(op.Span)), Operator: op.Kind, Expression: expr, IsPre: false}
			n.SetKind(expr.Kind())
			expr = n
		case p.check(token.Dot):
			start := expr.Span()
			var idxs []string
			for p.matchAny(token.Dot) {
				name, _ := p.expect(token.Identifier, "expected field name after '.'")
				idxs = append(idxs, name.Lexeme)
			}
			n := &ast.Property{Base: ast.NewBase(start.Merge(p.previous().Span)), Source: expr, Indexes: idxs}
			expr = n
		case p.check(token.LeftBracket):
			start := expr.Span()
			var idxs []ast.Node
			for p.matchAny(token.LeftBracket) {
				idxs = append(idxs, p.parseExpression())
				p.expect(token.RightBracket, "expected ']' after index expression")
			}
			expr = &ast.Index{Base: ast.NewBase(start.Merge(p.previous().Span)), Source: expr, Indexes: idxs}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Node {
	start := p.peek()

	switch {
	case p.check(token.IntegerLiteral):
		p.advance()
		v, unsigned := parseIntLiteral(start.Lexeme)
		kind := types.Signed(types.TagS32)
		if unsigned {
			kind = types.Unsigned(types.TagU32)
		}
		kind.Span = start.Span
		return ast.NewInteger(start.Span, v, unsigned, kind)

	case p.check(token.FloatLiteral):
		p.advance()
		v, _ := strconv.ParseFloat(start.Lexeme, 64)
		kind := types.Type{Tag: types.TagF32, Span: start.Span}
		return ast.NewFloat(start.Span, v, kind)

	case p.check(token.BoolLiteral):
		p.advance()
		return ast.NewBoolean(start.Span, start.Lexeme == "true")

	case p.check(token.CharLiteral):
		p.advance()
		var b byte
		if len(start.Lexeme) > 0 {
			b = start.Lexeme[0]
		}
		return ast.NewChar(start.Span, b)

	case p.check(token.StringLiteral):
		p.advance()
		return ast.NewStr(start.Span, []byte(start.Lexeme))

	case p.check(token.NullPtrLiteral):
		p.advance()
		return ast.NewNullPtr(start.Span)

	case p.check(token.LeftParen):
		p.advance()
		inner := p.parseExpression()
		p.expect(token.RightParen, "expected ')' after grouped expression")
		n := &ast.Group{Base: ast.NewBase(p.spanFrom(start)), Expression: inner}
		n.SetKind(inner.Kind())
		return n

	case p.check(token.LeftBracket):
		return p.parseArrayLiteral(start)

	case p.check(token.KwAs):
		return p.parseCast(start)

	case p.check(token.KwNew):
		return p.parseAlloc(start)

	case p.check(token.KwAddr) || p.check(token.TypeAddr):
		p.advance()
		p.expect(token.LeftParen, "expected '(' after 'addr'")
		v := p.parseExpression()
		p.expect(token.RightParen, "expected ')' after addr argument")
		n := &ast.Address{Base: ast.NewBase(p.spanFrom(start)), Value: v}
		n.SetKind(types.Addr())
		return n

	case p.check(token.KwLoad):
		p.advance()
		p.expect(token.LeftParen, "expected '(' after 'load'")
		v := p.parseExpression()
		p.expect(token.RightParen, "expected ')' after load argument")
		n := &ast.Load{Base: ast.NewBase(p.spanFrom(start)), Value: v}
		n.SetKind(v.Kind())
		return n

	case p.peek().Kind.IsBuiltin():
		return p.parseBuiltin(start)

	case p.check(token.Identifier):
		return p.parseIdentifierExpr(start)

	case p.check(token.KwUnreachable):
		p.advance()
		return &ast.Unreachable{Base: ast.NewBase(start.Span)}

	case p.check(token.KwPass):
		p.advance()
		return &ast.Pass{Base: ast.NewBase(start.Span)}

	default:
		p.bag.Error(diagnostics.ESynUnexpectedToken, start.Span, "expected an expression")
		p.advance()
		return &ast.Pass{Base: ast.NewBase(start.Span)}
	}
}

func (p *Parser) parseArrayLiteral(start token.Token) ast.Node {
	p.advance() // '['
	var items []ast.Node
	for !p.check(token.RightBracket) && !p.check(token.Eof) {
		items = append(items, p.parseExpression())
		if !p.matchAny(token.Comma) {
			break
		}
	}
	p.expect(token.RightBracket, "expected ']' after array literal")
	span := p.spanFrom(start)
	if len(items) > 0 {
		return &ast.FixedArray{Base: ast.NewBase(span), Items: items}
	}
	return &ast.Array{Base: ast.NewBase(span), Items: items}
}

func (p *Parser) parseCast(start token.Token) ast.Node {
	p.advance() // 'as'
	p.expect(token.LeftParen, "expected '(' after 'as'")
	from := p.parseExpression()
	p.expect(token.Comma, "expected ',' between cast expression and target type")
	target := p.parseType(true)
	p.expect(token.RightParen, "expected ')' after cast")
	n := &ast.As{Base: ast.NewBase(p.spanFrom(start)), From: from, Cast: target}
	n.SetKind(target)
	return n
}

func (p *Parser) parseAlloc(start token.Token) ast.Node {
	p.advance() // 'new'
	p.expect(token.LeftParen, "expected '(' after 'new'")
	ty := p.parseType(true)
	p.expect(token.RightParen, "expected ')' after new's type argument")
	n := &ast.Alloc{Base: ast.NewBase(p.spanFrom(start)), Alloc: ty}
	n.SetKind(types.Ptr(&ty))
	return n
}

var builtinOpKinds = map[token.Kind]ast.BuiltinOp{
	token.KwSizeOf: ast.BuiltinSizeOf, token.KwAlignOf: ast.BuiltinAlignOf,
	token.KwBitSizeOf: ast.BuiltinBitSizeOf, token.KwAbiSizeOf: ast.BuiltinAbiSizeOf,
	token.KwAbiAlignOf: ast.BuiltinAbiAlignOf, token.KwMemCpy: ast.BuiltinMemCpy,
	token.KwMemMove: ast.BuiltinMemMove, token.KwMemSet: ast.BuiltinMemSet,
	token.KwHalloc: ast.BuiltinHalloc,
}

func (p *Parser) parseBuiltin(start token.Token) ast.Node {
	kind := start.Kind
	p.advance()
	p.expect(token.LeftParen, "expected '(' after builtin")
	var args []ast.Node
	var operandType types.Type
	switch kind {
	case token.KwSizeOf, token.KwAlignOf, token.KwBitSizeOf, token.KwAbiSizeOf, token.KwAbiAlignOf:
		operandType = p.parseType(true)
	default:
		for !p.check(token.RightParen) && !p.check(token.Eof) {
			args = append(args, p.parseExpression())
			if !p.matchAny(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RightParen, "expected ')' after builtin arguments")
	n := &ast.Builtin{Base: ast.NewBase(p.spanFrom(start)), Op: builtinOpKinds[kind], Args: args, Type: operandType}
	n.SetKind(types.Unsigned(types.TagU64))
	return n
}

// parseIdentifierExpr disambiguates a bare identifier into a reference, a
// call, an enum value (`Name::Value`), or a constructor
// (`Name { a, b }` is not used here; constructors use `Name(args)` in this
// grammar to stay call-shaped and unambiguous with blocks).
func (p *Parser) parseIdentifierExpr(start token.Token) ast.Node {
	name := p.advance().Lexeme

	if p.check(token.ColonColon) {
		p.advance()
		value, _ := p.expect(token.Identifier, "expected enum value name after '::'")
		n := &ast.EnumValue{Base: ast.NewBase(p.spanFrom(start)), Name: name, Value: value.Lexeme}
		if er, ok := p.table.LookupEnum(name); ok {
			for i, fn := range er.FieldNames {
				if fn == value.Lexeme {
					n.SetKind(er.FieldTypes[i])
				}
			}
		}
		return n
	}

	if p.check(token.LeftParen) {
		p.advance()
		var args []ast.Node
		for !p.check(token.RightParen) && !p.check(token.Eof) {
			args = append(args, p.parseExpression())
			if !p.matchAny(token.Comma) {
				break
			}
		}
		p.expect(token.RightParen, "expected ')' after call arguments")
		span := p.spanFrom(start)
		if st, ok := p.table.LookupStruct(name); ok {
			n := &ast.Constructor{Base: ast.NewBase(span), Name: name, Args: args}
			n.SetKind(types.Struct(name, st.FieldTypes, types.Modificator{}))
			return n
		}
		n := &ast.Call{Base: ast.NewBase(span), Name: name, Args: args}
		if fn, ok := p.table.LookupFunction(name); ok {
			n.SetKind(fn.ReturnType)
		} else {
			p.bag.Error(diagnostics.ESynUndeclared, start.Span, "call to undeclared function '"+name+"'")
		}
		return n
	}

	n := &ast.Reference{Base: ast.NewBase(start.Span), Name: name}
	if local, ok := p.table.LookupLocal(name); ok {
		n.Meta = ast.RefMeta{Mutable: local.Mutable, Allocated: local.Allocated}
		n.SetKind(local.Type)
		return n
	}
	if c, ok := p.table.LookupConst(name); ok {
		n.Meta = ast.RefMeta{Constant: true}
		n.SetKind(c.Type)
		return n
	}
	if s, ok := p.table.LookupStatic(name); ok {
		n.SetKind(s.Type)
		return n
	}
	p.bag.Error(diagnostics.ESynUndeclared, start.Span, "undeclared reference '"+name+"'")
	return n
}

func parseIntLiteral(lexeme string) (int64, bool) {
	if v, err := strconv.ParseInt(lexeme, 0, 64); err == nil {
		return v, false
	}
	if v, err := strconv.ParseUint(lexeme, 0, 64); err == nil {
		return int64(v), true
	}
	return 0, false
}
