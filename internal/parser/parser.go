// Package parser implements the recursive-descent parser: a forward-
// declaration prepass followed by a main pass that builds the AST and
// resolves references against the prepass's symbol table (spec.md §4.2).
package parser

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/source"
	"github.com/thrushlang/thrushc/internal/symbols"
	"github.com/thrushlang/thrushc/internal/token"
)

// SyncPosition controls how aggressively error recovery resynchronizes
// after a failing production.
type SyncPosition int

const (
	SyncDeclaration SyncPosition = iota
	SyncStatement
	SyncExpression
	SyncNoRelevant
)

// Context is what Parse hands back: the produced AST plus the symbol table
// built alongside it. It is owned exclusively by the caller; nothing else
// shares it.
type Context struct {
	Program *ast.Program
	Table   *symbols.Table
	Bag     *diagnostics.Bag
}

// Parser holds the token cursor and accumulates diagnostics while building
// one Context.
type Parser struct {
	unit   *source.Unit
	tokens []token.Token
	pos    int
	bag    *diagnostics.Bag
	table  *symbols.Table
	braceDepth int
}

// Parse runs the prepass then the main pass over tokens and returns the
// resulting Context plus whether any stage reported errors.
func Parse(tokens []token.Token, unit *source.Unit) (*Context, bool) {
	p := &Parser{unit: unit, tokens: tokens, table: symbols.New(), bag: diagnostics.NewBag()}

	p.runPrepass()

	// The prepass parses the same token stream as the main pass purely to
	// register forward-declarable shapes; any diagnostic it recorded (e.g.
	// a malformed type in a signature) gets recorded again, for real, when
	// the main pass reaches the same token. Discard the prepass's bag so
	// the caller only ever sees each error once.
	p.bag = diagnostics.NewBag()
	p.pos = 0
	program := &ast.Program{}
	for !p.check(token.Eof) {
		before := p.pos
		decl := p.parseDeclaration(false)
		if decl != nil {
			program.Declarations = append(program.Declarations, decl)
		}
		if p.pos == before {
			// safety valve: a production that consumed nothing would spin
			// forever; force progress and let the sync above report it.
			p.advance()
		}
	}

	return &Context{Program: program, Table: p.table, Bag: p.bag}, p.bag.HasErrors()
}

// Bag exposes the parser's accumulated diagnostics, e.g. for a caller that
// wants to fold them into a larger pipeline bag.
func (p *Parser) Bag() *diagnostics.Bag { return p.bag }

// runPrepass scans top-to-bottom; each declaration keyword invokes its
// builder in forward-declare mode, which registers the symbol (name,
// arity/field-shape, type) without parsing a body. The cursor is reset to
// the start once the whole scan completes, so the main pass starts clean.
func (p *Parser) runPrepass() {
	p.pos = 0
	for !p.check(token.Eof) {
		before := p.pos
		p.parseDeclaration(true)
		if p.pos == before {
			p.advance()
		}
	}
}

// ---- Cursor primitives ----

func (p *Parser) peek() token.Token { return p.tokens[p.pos] }

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) check(kind token.Kind) bool { return p.peek().Kind == kind }

func (p *Parser) advance() token.Token {
	if !p.check(token.Eof) {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) matchAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes kind, or records a syntax error at the current token
// without consuming it; recovery is left to the caller.
func (p *Parser) expect(kind token.Kind, message string) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.bag.Error(diagnostics.ESynUnexpectedToken, p.peek().Span, message)
	return token.Token{}, false
}

// synchronize advances past tokens until it reaches one matching pos's
// granularity, balancing `{`/`}` by popping a scope for each unmatched `{`
// it skips over, so the symbol table never ends up with dangling frames.
func (p *Parser) synchronize(pos SyncPosition) {
	for !p.check(token.Eof) {
		switch p.peek().Kind {
		case token.LeftBrace:
			p.table.BeginScope()
			p.advance()
			continue
		case token.RightBrace:
			p.table.EndScope()
			p.advance()
			if pos == SyncStatement || pos == SyncExpression {
				return
			}
			continue
		case token.Semicolon:
			p.advance()
			if pos == SyncStatement || pos == SyncExpression {
				return
			}
			continue
		}
		switch pos {
		case SyncDeclaration:
			if p.peek().Kind.IsSyncDeclaration() {
				return
			}
		case SyncStatement:
			if p.peek().Kind.IsSyncStatement() || p.peek().Kind.IsSyncDeclaration() {
				return
			}
		case SyncExpression:
			if p.peek().Kind.IsSyncExpression() || p.peek().Kind.IsSyncStatement() {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) spanFrom(start token.Token) token.Span {
	return start.Span.Merge(p.previous().Span)
}

// skipExpression advances past an expression without parsing it, tracking
// nested ()/[]/{} depth so a stop token inside a nested construct doesn't
// end the skip early. The prepass uses this for initializer expressions:
// parsing them for real would resolve references against a symbol table
// that doesn't have later top-level declarations registered yet (spec.md
// §4.2 forward references), so the prepass only needs to scan past them.
func (p *Parser) skipExpression(stop ...token.Kind) {
	depth := 0
	for !p.check(token.Eof) {
		k := p.peek().Kind
		if depth == 0 {
			for _, s := range stop {
				if k == s {
					return
				}
			}
		}
		switch k {
		case token.LeftParen, token.LeftBracket, token.LeftBrace:
			depth++
		case token.RightParen, token.RightBracket, token.RightBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}
