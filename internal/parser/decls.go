package parser

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/symbols"
	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

// parseDeclaration dispatches on the current token to a per-declaration
// builder. forwardOnly is true during the prepass: the builder registers
// the symbol's shape in the table and returns without parsing bodies, so
// forward references resolve correctly in the main pass.
func (p *Parser) parseDeclaration(forwardOnly bool) ast.Node {
	attrs := p.parseAttributes()

	switch p.peek().Kind {
	case token.KwFn:
		return p.parseFunction(forwardOnly, attrs)
	case token.KwAsmFn:
		return p.parseAssemblerFunction(forwardOnly, attrs)
	case token.KwIntrinsic:
		return p.parseIntrinsic(forwardOnly, attrs)
	case token.KwStruct:
		return p.parseStruct(forwardOnly, attrs)
	case token.KwEnum:
		return p.parseEnum(forwardOnly, attrs)
	case token.KwConst:
		return p.parseConst(forwardOnly, attrs)
	case token.KwStatic:
		return p.parseStatic(forwardOnly, attrs)
	case token.KwType:
		return p.parseCustomType(forwardOnly)
	case token.KwGlobalAsm:
		return p.parseGlobalAssembler(forwardOnly)
	case token.KwImport:
		return p.parseImport(forwardOnly)
	default:
		p.bag.Error(diagnostics.ESynUnexpectedToken, p.peek().Span, "expected a declaration")
		p.synchronize(SyncDeclaration)
		return nil
	}
}

// parseAttributes consumes zero or more `@name(...)` / `@name` decorators
// preceding a declaration.
func (p *Parser) parseAttributes() []ast.Attribute {
	var attrs []ast.Attribute
	for p.peek().Kind.IsAttribute() {
		start := p.peek()
		kind := p.advance().Kind
		var arg string
		if p.matchAny(token.LeftParen) {
			if p.check(token.StringLiteral) {
				arg = p.advance().Lexeme
			}
			p.expect(token.RightParen, "expected ')' after attribute argument")
		}
		attrs = append(attrs, ast.Attribute{Kind: kind, Convention: arg, Span: p.spanFrom(start)})
	}
	return attrs
}

func hasAttr(attrs []ast.Attribute, kind token.Kind) bool {
	for _, a := range attrs {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// parseParameterList parses `(name: type, ...)`, accepting a trailing
// `@ignore` marker as the last entry to mark a variadic-style signature.
func (p *Parser) parseParameterList() ([]*ast.FunctionParameter, []types.Type, bool) {
	p.expect(token.LeftParen, "expected '(' to begin parameter list")
	var params []*ast.FunctionParameter
	var paramTypes []types.Type
	ignore := false
	for !p.check(token.RightParen) && !p.check(token.Eof) {
		if p.check(token.AttrIgnore) {
			p.advance()
			ignore = true
			break
		}
		start := p.peek()
		name, _ := p.expect(token.Identifier, "expected parameter name")
		p.expect(token.Colon, "expected ':' after parameter name")
		mutable := p.matchAny(token.TypeMut)
		ty := p.parseType(true)
		if mutable {
			ty = types.Mut(ty)
		}
		param := &ast.FunctionParameter{Base: ast.NewBase(p.spanFrom(start)), Name: name.Lexeme, Meta: ast.RefMeta{Mutable: mutable}}
		param.SetKind(ty)
		params = append(params, param)
		paramTypes = append(paramTypes, ty)
		if !p.matchAny(token.Comma) {
			break
		}
	}
	p.expect(token.RightParen, "expected ')' after parameter list")
	return params, paramTypes, ignore
}

func (p *Parser) parseFunction(forwardOnly bool, attrs []ast.Attribute) ast.Node {
	start := p.peek()
	p.advance() // 'fn'
	name, _ := p.expect(token.Identifier, "expected function name")
	params, paramTypes, ignore := p.parseParameterList()
	ret := types.Void()
	if p.matchAny(token.Arrow) {
		ret = p.parseType(false)
	}

	if forwardOnly {
		p.table.DeclareFunction(name.Lexeme, symbols.FunctionRef{
			ParameterTypes: paramTypes, ReturnType: ret, IsIgnoredArgs: ignore, DefinedSpan: start.Span,
		})
		if hasAttr(attrs, token.AttrExtern) || !p.check(token.LeftBrace) {
			p.matchAny(token.Semicolon)
			return nil
		}
		p.skipBalancedBraces()
		return nil
	}

	fn := &ast.Function{Base: ast.NewBase(start.Span), Name: name.Lexeme, Parameters: params,
		ParameterTypes: paramTypes, ReturnType: ret, Attributes: attrs, IsIgnoredArgs: ignore}
	fn.SetKind(ret)

	if hasAttr(attrs, token.AttrExtern) || !p.check(token.LeftBrace) {
		p.matchAny(token.Semicolon)
		fn.Base = ast.NewBase(p.spanFrom(start))
		fn.SetKind(ret)
		return fn
	}

	p.table.BeginScope()
	for _, param := range params {
		p.table.DeclareParameter(param.Name, symbols.Local{Type: param.Kind(), Mutable: param.Meta.Mutable})
	}
	fn.Body = p.parseBlock()
	p.table.EndScope()
	fn.Base = ast.NewBase(p.spanFrom(start))
	fn.SetKind(ret)
	return fn
}

func (p *Parser) parseAssemblerFunction(forwardOnly bool, attrs []ast.Attribute) ast.Node {
	start := p.peek()
	p.advance() // 'asmfn'
	name, _ := p.expect(token.Identifier, "expected assembler function name")
	params, paramTypes, ignore := p.parseParameterList()
	p.expect(token.Arrow, "expected '->' after parameter list")
	ret := p.parseType(false)

	var assembly, constraints string
	if p.matchAny(token.LeftBrace) {
		if p.check(token.StringLiteral) {
			assembly = p.advance().Lexeme
		}
		if p.matchAny(token.Comma) && p.check(token.StringLiteral) {
			constraints = p.advance().Lexeme
		}
		p.expect(token.RightBrace, "expected '}' after assembler function body")
	}
	p.matchAny(token.Semicolon)

	if forwardOnly {
		p.table.DeclareFunction(name.Lexeme, symbols.FunctionRef{
			ParameterTypes: paramTypes, ReturnType: ret, IsIgnoredArgs: ignore, DefinedSpan: start.Span,
		})
		return nil
	}

	n := &ast.AssemblerFunction{Base: ast.NewBase(p.spanFrom(start)), Name: name.Lexeme, Parameters: params,
		ParameterTypes: paramTypes, ReturnType: ret, Assembly: assembly, Constraints: constraints, Attributes: attrs,
		IsIgnoredArgs: ignore}
	n.SetKind(ret)
	return n
}

func (p *Parser) parseIntrinsic(forwardOnly bool, attrs []ast.Attribute) ast.Node {
	start := p.peek()
	p.advance() // 'intrinsic'
	name, _ := p.expect(token.Identifier, "expected intrinsic name")
	_, paramTypes, ignore := p.parseParameterList()
	p.expect(token.Arrow, "expected '->' after parameter list")
	ret := p.parseType(false)
	p.matchAny(token.Semicolon)

	if forwardOnly {
		p.table.DeclareFunction(name.Lexeme, symbols.FunctionRef{
			ParameterTypes: paramTypes, ReturnType: ret, IsIgnoredArgs: ignore, DefinedSpan: start.Span,
		})
		return nil
	}

	n := &ast.Intrinsic{Base: ast.NewBase(p.spanFrom(start)), Name: name.Lexeme,
		ParameterTypes: paramTypes, ReturnType: ret, Attributes: attrs, IsIgnoredArgs: ignore}
	n.SetKind(ret)
	return n
}

func (p *Parser) parseStruct(forwardOnly bool, attrs []ast.Attribute) ast.Node {
	start := p.peek()
	p.advance() // 'struct'
	name, _ := p.expect(token.Identifier, "expected struct name")
	p.expect(token.LeftBrace, "expected '{' after struct name")

	var fields []ast.StructField
	for !p.check(token.RightBrace) && !p.check(token.Eof) {
		fieldName, _ := p.expect(token.Identifier, "expected field name")
		p.expect(token.Colon, "expected ':' after field name")
		ty := p.parseType(true)
		fields = append(fields, ast.StructField{Name: fieldName.Lexeme, Type: ty})
		if !p.matchAny(token.Comma) {
			break
		}
	}
	p.expect(token.RightBrace, "expected '}' after struct fields")

	if forwardOnly {
		names := make([]string, len(fields))
		fieldTypes := make([]types.Type, len(fields))
		for i, f := range fields {
			names[i] = f.Name
			fieldTypes[i] = f.Type
		}
		p.table.DeclareStruct(name.Lexeme, symbols.StructRef{FieldNames: names, FieldTypes: fieldTypes, DefinedSpan: start.Span})
		return nil
	}

	n := &ast.Struct{Base: ast.NewBase(p.spanFrom(start)), Name: name.Lexeme, Fields: fields, Attributes: attrs}
	return n
}

func (p *Parser) parseEnum(forwardOnly bool, attrs []ast.Attribute) ast.Node {
	start := p.peek()
	p.advance() // 'enum'
	name, _ := p.expect(token.Identifier, "expected enum name")
	p.expect(token.LeftBrace, "expected '{' after enum name")

	var data []ast.EnumField
	for !p.check(token.RightBrace) && !p.check(token.Eof) {
		fieldName, _ := p.expect(token.Identifier, "expected enum field name")
		p.expect(token.Colon, "expected ':' after enum field name")
		ty := p.parseType(true)
		var init ast.Node
		if p.matchAny(token.Equal) {
			if forwardOnly {
				p.skipExpression(token.Comma, token.RightBrace)
			} else {
				init = p.parseExpression()
			}
		}
		data = append(data, ast.EnumField{Name: fieldName.Lexeme, Type: ty, Initializer: init})
		if !p.matchAny(token.Comma) {
			break
		}
	}
	p.expect(token.RightBrace, "expected '}' after enum fields")

	if forwardOnly {
		names := make([]string, len(data))
		tys := make([]types.Type, len(data))
		for i, f := range data {
			names[i] = f.Name
			tys[i] = f.Type
		}
		p.table.DeclareEnum(name.Lexeme, symbols.EnumRef{FieldNames: names, FieldTypes: tys, DefinedSpan: start.Span})
		return nil
	}

	return &ast.Enum{Base: ast.NewBase(p.spanFrom(start)), Name: name.Lexeme, Data: data, Attributes: attrs}
}

func (p *Parser) parseConst(forwardOnly bool, attrs []ast.Attribute) ast.Node {
	start := p.peek()
	p.advance() // 'const'
	name, _ := p.expect(token.Identifier, "expected constant name")
	p.expect(token.Colon, "expected ':' after constant name")
	ty := p.parseType(true)

	var value ast.Node
	if p.matchAny(token.Equal) {
		if forwardOnly {
			// Don't resolve the initializer yet: it may forward-reference a
			// declaration later in the file that the prepass hasn't reached.
			p.skipExpression(token.Semicolon)
		} else {
			value = p.parseExpression()
		}
	}
	p.matchAny(token.Semicolon)

	if forwardOnly {
		p.table.DeclareConst(name.Lexeme, symbols.ConstRef{Type: ty, DefinedSpan: start.Span})
		return nil
	}

	n := &ast.Const{Base: ast.NewBase(p.spanFrom(start)), Name: name.Lexeme, Type: ty, Value: value,
		IsGlobal: true, Attributes: attrs}
	n.SetKind(ty)
	return n
}

func (p *Parser) parseStatic(forwardOnly bool, attrs []ast.Attribute) ast.Node {
	start := p.peek()
	p.advance() // 'static'
	name, _ := p.expect(token.Identifier, "expected static name")
	p.expect(token.Colon, "expected ':' after static name")
	ty := p.parseType(true)

	var value ast.Node
	if p.matchAny(token.Equal) {
		if forwardOnly {
			p.skipExpression(token.Semicolon)
		} else {
			value = p.parseExpression()
		}
	}
	p.matchAny(token.Semicolon)

	if forwardOnly {
		p.table.DeclareStatic(name.Lexeme, symbols.StaticRef{Type: ty, DefinedSpan: start.Span})
		return nil
	}

	n := &ast.Static{Base: ast.NewBase(p.spanFrom(start)), Name: name.Lexeme, Type: ty, Value: value,
		IsGlobal: true, Attributes: attrs}
	n.SetKind(ty)
	return n
}

func (p *Parser) parseCustomType(forwardOnly bool) ast.Node {
	start := p.peek()
	p.advance() // 'type'
	name, _ := p.expect(token.Identifier, "expected type alias name")
	p.expect(token.Equal, "expected '=' after type alias name")
	ty := p.parseType(true)
	p.matchAny(token.Semicolon)

	if forwardOnly {
		p.table.DeclareCustomType(name.Lexeme, ty)
		return nil
	}

	return &ast.CustomType{Base: ast.NewBase(p.spanFrom(start)), Name: name.Lexeme, Type: ty}
}

func (p *Parser) parseGlobalAssembler(forwardOnly bool) ast.Node {
	start := p.peek()
	p.advance() // 'global_asm'
	var assembly string
	if p.matchAny(token.LeftBrace) {
		if p.check(token.StringLiteral) {
			assembly = p.advance().Lexeme
		}
		p.expect(token.RightBrace, "expected '}' after global_asm body")
	}
	p.matchAny(token.Semicolon)

	if forwardOnly {
		return nil
	}
	return &ast.GlobalAssembler{Base: ast.NewBase(p.spanFrom(start)), Assembly: assembly}
}

func (p *Parser) parseImport(forwardOnly bool) ast.Node {
	start := p.peek()
	p.advance() // 'import'
	var path string
	if p.check(token.StringLiteral) {
		path = p.advance().Lexeme
	}
	p.matchAny(token.Semicolon)

	if forwardOnly {
		return nil
	}
	return &ast.Import{Base: ast.NewBase(p.spanFrom(start)), Path: path}
}

// skipBalancedBraces consumes a `{ ... }` body without building statements,
// used by the prepass to skip function bodies while still registering
// their signatures.
func (p *Parser) skipBalancedBraces() {
	if !p.matchAny(token.LeftBrace) {
		p.matchAny(token.Semicolon)
		return
	}
	depth := 1
	for depth > 0 && !p.check(token.Eof) {
		switch p.peek().Kind {
		case token.LeftBrace:
			depth++
		case token.RightBrace:
			depth--
		}
		p.advance()
	}
}
