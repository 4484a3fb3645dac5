package parser

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/symbols"
	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

// parseBlock parses a `{ ... }` sequence of statements, opening and
// closing its own lexical scope.
func (p *Parser) parseBlock() *ast.Block {
	start := p.peek()
	p.expect(token.LeftBrace, "expected '{' to begin a block")
	p.table.BeginScope()
	block := &ast.Block{Base: ast.NewBase(start.Span)}
	for !p.check(token.RightBrace) && !p.check(token.Eof) {
		before := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			block.Nodes = append(block.Nodes, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(token.RightBrace, "expected '}' to close a block")
	p.table.EndScope()
	block.Base = ast.NewBase(p.spanFrom(start))
	return block
}

func (p *Parser) parseStatement() ast.Node {
	switch p.peek().Kind {
	case token.LeftBrace:
		return p.parseBlock()
	case token.KwLet:
		return p.parseLocal()
	case token.KwLli:
		return p.parseLLI()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwLoop:
		return p.parseLoop()
	case token.KwBreak:
		start := p.advance()
		p.matchAny(token.Semicolon)
		return &ast.Break{Base: ast.NewBase(start.Span)}
	case token.KwContinue:
		start := p.advance()
		p.matchAny(token.Semicolon)
		return &ast.Continue{Base: ast.NewBase(start.Span)}
	case token.KwReturn:
		return p.parseReturn()
	case token.KwPass:
		start := p.advance()
		p.matchAny(token.Semicolon)
		return &ast.Pass{Base: ast.NewBase(start.Span)}
	case token.KwUnreachable:
		start := p.advance()
		p.matchAny(token.Semicolon)
		return &ast.Unreachable{Base: ast.NewBase(start.Span)}
	case token.KwWrite:
		return p.parseMut()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLocal() ast.Node {
	start := p.advance() // 'let'
	mutable := p.matchAny(token.TypeMut)
	name, _ := p.expect(token.Identifier, "expected local name")

	var ty types.Type
	declared := false
	if p.matchAny(token.Colon) {
		ty = p.parseType(true)
		declared = true
	}

	var value ast.Node
	if p.matchAny(token.Equal) {
		value = p.parseExpression()
		if !declared {
			ty = value.Kind()
		}
	}
	p.matchAny(token.Semicolon)

	_, allocated := value.(*ast.Alloc)

	n := &ast.Local{Base: ast.NewBase(p.spanFrom(start)), Name: name.Lexeme, Type: ty, Value: value,
		Meta: ast.RefMeta{Mutable: mutable, Allocated: allocated}}
	n.SetKind(ty)

	if p.table.DeclaredInCurrentScope(name.Lexeme) {
		p.bag.Error(diagnostics.ESynRedeclaration, start.Span, "'"+name.Lexeme+"' is already declared in this scope")
	}
	p.table.DeclareLocal(name.Lexeme, symbols.Local{Type: ty, Mutable: mutable, Allocated: allocated, DefinedSpan: start.Span})
	return n
}

func (p *Parser) parseLLI() ast.Node {
	start := p.advance() // 'lli'
	name, _ := p.expect(token.Identifier, "expected lli name")
	p.expect(token.Colon, "expected ':' after lli name")
	ty := p.parseType(true)
	var value ast.Node
	if p.matchAny(token.Equal) {
		value = p.parseExpression()
	}
	p.matchAny(token.Semicolon)

	n := &ast.LLI{Base: ast.NewBase(p.spanFrom(start)), Name: name.Lexeme, Type: ty, Value: value}
	n.SetKind(ty)
	p.table.DeclareLLI(name.Lexeme, symbols.Local{Type: ty, DefinedSpan: start.Span})
	return n
}

func (p *Parser) parseIf() ast.Node {
	start := p.advance() // 'if'
	cond := p.parseExpression()
	block := p.parseBlock()

	n := &ast.If{Base: ast.NewBase(p.spanFrom(start)), Condition: cond, Block: block}

	for p.check(token.KwElif) {
		elifStart := p.advance()
		elifCond := p.parseExpression()
		elifBlock := p.parseBlock()
		n.Elseif = append(n.Elseif, &ast.Elif{Base: ast.NewBase(p.spanFrom(elifStart)), Condition: elifCond, Block: elifBlock})
	}

	if p.matchAny(token.KwElse) {
		n.Anyway = p.parseBlock()
	}

	n.Base = ast.NewBase(p.spanFrom(start))
	return n
}

func (p *Parser) parseWhile() ast.Node {
	start := p.advance() // 'while'
	cond := p.parseExpression()
	block := p.parseBlock()
	return &ast.While{Base: ast.NewBase(p.spanFrom(start)), Condition: cond, Block: block}
}

func (p *Parser) parseFor() ast.Node {
	start := p.advance() // 'for'
	p.table.BeginScope()
	var init ast.Node
	if p.check(token.KwLet) {
		init = p.parseLocal()
	} else {
		p.matchAny(token.Semicolon)
	}
	cond := p.parseExpression()
	p.expect(token.Semicolon, "expected ';' after for-loop condition")
	post := p.parseExpressionStatementNoSemicolon()
	block := p.parseBlockNoOwnScope()
	p.table.EndScope()
	return &ast.For{Base: ast.NewBase(p.spanFrom(start)), Init: init, Condition: cond, Post: post, Block: block}
}

// parseBlockNoOwnScope parses a block body without opening a fresh scope,
// used by for-loops whose init/post bindings must stay visible in the body.
func (p *Parser) parseBlockNoOwnScope() *ast.Block {
	start := p.peek()
	p.expect(token.LeftBrace, "expected '{' to begin a block")
	block := &ast.Block{Base: ast.NewBase(start.Span)}
	for !p.check(token.RightBrace) && !p.check(token.Eof) {
		before := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			block.Nodes = append(block.Nodes, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(token.RightBrace, "expected '}' to close a block")
	block.Base = ast.NewBase(p.spanFrom(start))
	return block
}

func (p *Parser) parseExpressionStatementNoSemicolon() ast.Node {
	if p.check(token.LeftBrace) {
		return nil
	}
	expr := p.parseExpression()
	return expr
}

func (p *Parser) parseLoop() ast.Node {
	start := p.advance() // 'loop'
	block := p.parseBlock()
	return &ast.Loop{Base: ast.NewBase(p.spanFrom(start)), Block: block}
}

func (p *Parser) parseReturn() ast.Node {
	start := p.advance() // 'return'
	var expr ast.Node
	if !p.check(token.Semicolon) {
		expr = p.parseExpression()
	}
	p.matchAny(token.Semicolon)
	return &ast.Return{Base: ast.NewBase(p.spanFrom(start)), Expression: expr}
}

// parseMut parses `write target, value;`, spec.md §4.4's mutation
// construct. An assignment statement `target = value` (see
// parseExpressionStatement) builds the same ast.Mut node.
func (p *Parser) parseMut() ast.Node {
	start := p.advance() // 'write'
	target := p.parseExpression()
	p.expect(token.Comma, "expected ',' between mutation target and value")
	value := p.parseExpression()
	p.matchAny(token.Semicolon)
	return &ast.Mut{Base: ast.NewBase(p.spanFrom(start)), Source: target, Value: value}
}

func (p *Parser) parseExpressionStatement() ast.Node {
	start := p.peek()
	expr := p.parseExpression()

	if p.matchAny(token.Equal) {
		value := p.parseExpression()
		p.matchAny(token.Semicolon)
		return &ast.Mut{Base: ast.NewBase(p.spanFrom(start)), Source: expr, Value: value}
	}

	p.matchAny(token.Semicolon)
	return expr
}
