// Package resolver implements the type resolver: a single pass over the
// AST that propagates a target-type context downward into numeric
// literals, array literals, and call arguments, widening a literal's kind
// to the target's when compatible (spec.md §4.3).
package resolver

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/symbols"
	"github.com/thrushlang/thrushc/internal/types"
)

// Resolver threads target-type contexts into the AST.
type Resolver struct {
	table *symbols.Table
}

// New returns a Resolver consulting table for function/struct signatures
// when resolving call-argument and constructor-argument contexts.
func New(table *symbols.Table) *Resolver { return &Resolver{table: table} }

// Resolve walks program once, widening literal kinds under every target
// context the spec lists: local/LLI type annotations, mutation LHS types,
// call argument slots, and array element types.
func (r *Resolver) Resolve(program *ast.Program) {
	for _, decl := range program.Declarations {
		r.resolveDecl(decl)
	}
}

func (r *Resolver) resolveDecl(decl ast.Node) {
	switch d := decl.(type) {
	case *ast.Function:
		r.resolveBlock(d.Body)
		r.ResolveFunctionReturns(d)
	case *ast.Const:
		r.resolveWithContext(d.Value, d.Type)
	case *ast.Static:
		if d.Value != nil {
			r.resolveWithContext(d.Value, d.Type)
		}
	case *ast.Enum:
		for _, f := range d.Data {
			if f.Initializer != nil {
				r.resolveWithContext(f.Initializer, f.Type)
			}
		}
	}
}

func (r *Resolver) resolveBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, n := range b.Nodes {
		r.resolveStmt(n)
	}
}

func (r *Resolver) resolveStmt(n ast.Node) {
	switch s := n.(type) {
	case *ast.Local:
		if s.Value != nil {
			r.resolveWithContext(s.Value, s.Type)
		}
	case *ast.LLI:
		if s.Value != nil {
			r.resolveWithContext(s.Value, s.Type)
		}
	case *ast.Mut:
		target := s.Source.Kind()
		r.resolveWithContext(s.Value, target)
	case *ast.If:
		r.resolveBlock(s.Block)
		for _, e := range s.Elseif {
			r.resolveBlock(e.Block)
		}
		r.resolveBlock(s.Anyway)
	case *ast.While:
		r.resolveBlock(s.Block)
	case *ast.For:
		r.resolveBlock(s.Block)
	case *ast.Loop:
		r.resolveBlock(s.Block)
	case *ast.Block:
		r.resolveBlock(s)
	case *ast.Return:
		// no single declared context is threaded here; the enclosing
		// function's return type is applied by ResolveFunctionReturns,
		// which resolveDecl calls for every Function.
	case *ast.Call:
		r.resolveCallArgs(s)
	}
}

// resolveWithContext widens a numeric/array literal expr toward target,
// recursing into FixedArray element slots.
func (r *Resolver) resolveWithContext(expr ast.Node, target types.Type) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *ast.Integer:
		if types.CanWidenLiteral(e.Kind(), target) {
			e.SetKind(target)
		}
	case *ast.Float:
		if types.CanWiden(e.Kind(), target) {
			e.SetKind(target)
		}
	case *ast.FixedArray:
		if target.Tag == types.TagFixedArray && target.Inner != nil {
			for _, item := range e.Items {
				r.resolveWithContext(item, *target.Inner)
			}
		}
	case *ast.Call:
		r.resolveCallArgs(e)
	}
}

// resolveCallArgs pushes each parameter's declared type as the context for
// the corresponding call argument.
func (r *Resolver) resolveCallArgs(c *ast.Call) {
	fn, ok := r.table.LookupFunction(c.Name)
	if !ok {
		return
	}
	for i, arg := range c.Args {
		if i >= len(fn.ParameterTypes) {
			break
		}
		r.resolveWithContext(arg, fn.ParameterTypes[i])
	}
}

// ResolveFunctionReturns widens every `return expr;` inside fn's body
// toward fn's declared return type. Exposed separately from resolveStmt
// since Return needs the enclosing function's context, not a statement-
// local one.
func (r *Resolver) ResolveFunctionReturns(fn *ast.Function) {
	if fn.Body == nil {
		return
	}
	ast.WalkBlock(fn.Body, func(n ast.Node) {
		if ret, ok := n.(*ast.Return); ok && ret.Expression != nil {
			r.resolveWithContext(ret.Expression, fn.ReturnType)
		}
	})
}
