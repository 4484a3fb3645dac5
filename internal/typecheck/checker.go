package typecheck

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/symbols"
	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

// Checker walks a validated, resolved AST and type-checks every
// subexpression and assignment.
type Checker struct {
	bag   *diagnostics.Bag
	table *symbols.Table
}

// New returns a Checker recording violations into bag, consulting table for
// struct/function shapes.
func New(bag *diagnostics.Bag, table *symbols.Table) *Checker {
	return &Checker{bag: bag, table: table}
}

// CheckProgram is the `check(ast) → bool` entry point: true iff it recorded
// at least one error.
func (c *Checker) CheckProgram(program *ast.Program) bool {
	before := len(c.bag.Items())
	for _, decl := range program.Declarations {
		c.checkDecl(decl)
	}
	for _, d := range c.bag.Items()[before:] {
		if d.Severity == diagnostics.SeverityError || d.Severity == diagnostics.SeverityBug {
			return true
		}
	}
	return false
}

func (c *Checker) checkDecl(decl ast.Node) {
	switch d := decl.(type) {
	case *ast.Function:
		c.checkBlock(d.Body, d.ReturnType)
	case *ast.Const:
		if d.Value != nil {
			c.checkExpr(d.Value)
			if !CheckLiteral(d.Type, d.Value.Kind(), token.Illegal, PositionOther) {
				c.mismatch(d.Value.Span(), d.Type, d.Value.Kind())
			}
		}
	case *ast.Static:
		if d.Value != nil {
			c.checkExpr(d.Value)
			if !CheckLiteral(d.Type, d.Value.Kind(), token.Illegal, PositionOther) {
				c.mismatch(d.Value.Span(), d.Type, d.Value.Kind())
			}
		}
	}
}

func (c *Checker) checkBlock(b *ast.Block, returnType types.Type) {
	if b == nil {
		return
	}
	for _, n := range b.Nodes {
		c.checkStmt(n, returnType)
	}
}

func (c *Checker) checkStmt(n ast.Node, returnType types.Type) {
	switch s := n.(type) {
	case *ast.Local:
		if s.Value != nil {
			c.checkExpr(s.Value)
			if !CheckLiteral(s.Type, s.Value.Kind(), token.Illegal, PositionLocal) {
				c.mismatch(s.Value.Span(), s.Type, s.Value.Kind())
			}
		}
	case *ast.LLI:
		if s.Value != nil {
			c.checkExpr(s.Value)
			if !CheckLiteral(s.Type, s.Value.Kind(), token.Illegal, PositionOther) {
				c.mismatch(s.Value.Span(), s.Type, s.Value.Kind())
			}
		}
	case *ast.If:
		c.checkExpr(s.Condition)
		c.checkBlock(s.Block, returnType)
		for _, e := range s.Elseif {
			c.checkExpr(e.Condition)
			c.checkBlock(e.Block, returnType)
		}
		c.checkBlock(s.Anyway, returnType)
	case *ast.While:
		c.checkExpr(s.Condition)
		c.checkBlock(s.Block, returnType)
	case *ast.For:
		c.checkStmt(s.Init, returnType)
		c.checkExpr(s.Condition)
		c.checkStmt(s.Post, returnType)
		c.checkBlock(s.Block, returnType)
	case *ast.Loop:
		c.checkBlock(s.Block, returnType)
	case *ast.Block:
		c.checkBlock(s, returnType)
	case *ast.Return:
		if s.Expression != nil {
			c.checkExpr(s.Expression)
			if !CheckLiteral(returnType, s.Expression.Kind(), token.Illegal, PositionOther) {
				c.mismatch(s.Expression.Span(), returnType, s.Expression.Kind())
			}
		}
	case *ast.Mut:
		c.checkMutation(s)
	}
}

// checkMutation validates §4.4's mutation-target rule: the target must be
// ptr, mut, or an allocated reference; the value must be cast-free
// compatible with the target's pointee.
func (c *Checker) checkMutation(m *ast.Mut) {
	c.checkExpr(m.Source)
	c.checkExpr(m.Value)

	target := m.Source.Kind()
	pointee := target
	switch target.Tag {
	case types.TagPtr, types.TagMut:
		if target.Inner != nil {
			pointee = *target.Inner
		}
	default:
		if meta, ok := ast.IsReferenceShaped(m.Source); !ok || !meta.Allocated {
			c.bag.Error(diagnostics.ETypeNotMutable, m.Source.Span(), "expected mutable reference")
			return
		}
	}
	if !CheckLiteral(pointee, m.Value.Kind(), token.Illegal, PositionOther) {
		c.mismatch(m.Value.Span(), pointee, m.Value.Kind())
	}
}

func (c *Checker) checkExpr(n ast.Node) {
	if n == nil {
		return
	}
	switch e := n.(type) {
	case *ast.BinaryOp:
		c.checkExpr(e.Left)
		c.checkExpr(e.Right)
		pos := PositionOther
		if !CheckLiteral(e.Left.Kind(), e.Right.Kind(), e.Operator, pos) {
			c.bag.Error(diagnostics.ETypeMismatch, e.Span(),
				"operator "+e.Operator.String()+" is not defined between "+e.Left.Kind().String()+" and "+e.Right.Kind().String())
		}
	case *ast.UnaryOp:
		c.checkExpr(e.Expression)
		if e.Operator == token.PlusPlus || e.Operator == token.MinusMinus {
			if meta, ok := ast.IsReferenceShaped(e.Expression); !ok || !meta.Mutable {
				c.bag.Error(diagnostics.ETypeNotMutable, e.Expression.Span(), "increment/decrement target must be a mutable reference")
			}
		}
	case *ast.Group:
		c.checkExpr(e.Expression)
	case *ast.Call:
		for _, arg := range e.Args {
			c.checkExpr(arg)
		}
		c.checkCallArgs(e)
	case *ast.Property:
		c.checkExpr(e.Source)
		c.checkProperty(e)
	case *ast.Index:
		c.checkExpr(e.Source)
		for _, idx := range e.Indexes {
			c.checkExpr(idx)
			c.checkIndexType(idx)
		}
		c.checkIndexTarget(e)
	case *ast.Array:
		for _, item := range e.Items {
			c.checkExpr(item)
		}
	case *ast.FixedArray:
		c.checkFixedArray(e)
	case *ast.Constructor:
		c.checkConstructor(e)
	case *ast.As:
		c.checkExpr(e.From)
		if !CanCast(e.From.Kind(), e.Cast, e.Meta.Allocated) {
			c.bag.Error(diagnostics.ETypeInvalidCast, e.Span(),
				"cannot cast "+e.From.Kind().String()+" to "+e.Cast.String())
		}
	case *ast.Deref:
		c.checkExpr(e.Value)
	case *ast.DirectRef:
		c.checkExpr(e.Expression)
	case *ast.Load:
		c.checkExpr(e.Value)
	case *ast.Write:
		c.checkExpr(e.Target)
		c.checkExpr(e.Value)
	case *ast.Address:
		c.checkExpr(e.Value)
	case *ast.Builtin:
		for _, arg := range e.Args {
			c.checkExpr(arg)
		}
	}
}

func (c *Checker) checkCallArgs(call *ast.Call) {
	fn, ok := c.table.LookupFunction(call.Name)
	if !ok {
		return
	}
	if fn.IsIgnoredArgs {
		return // @ignore: extern variadic-style signature, arity not enforced
	}
	if len(call.Args) != len(fn.ParameterTypes) {
		c.bag.Error(diagnostics.ETypeMismatch, call.Span(), "wrong number of arguments in call to "+call.Name)
		return
	}
	for i, arg := range call.Args {
		if !CheckLiteral(fn.ParameterTypes[i], arg.Kind(), token.Illegal, PositionOther) {
			c.mismatch(arg.Span(), fn.ParameterTypes[i], arg.Kind())
		}
	}
}

// checkProperty requires the access target to be a struct, mut struct, or
// ptr struct, and that every dotted path segment names a real field.
func (c *Checker) checkProperty(p *ast.Property) {
	base := p.Source.Kind()
	for base.Tag == types.TagMut || base.Tag == types.TagPtr || base.Tag == types.TagConst {
		if base.Inner == nil {
			c.bag.Error(diagnostics.ETypeBadProperty, p.Span(), "property access target must be a struct")
			return
		}
		base = *base.Inner
	}
	if base.Tag != types.TagStruct {
		c.bag.Error(diagnostics.ETypeBadProperty, p.Span(), "property access target must be a struct, mut struct, or ptr struct")
	}
}

// checkIndexType requires every index expression to be an unsigned integer
// of width >= 32.
func (c *Checker) checkIndexType(idx ast.Node) {
	k := idx.Kind()
	if !k.IsUnsigned() || k.BitWidth() < 32 {
		c.bag.Error(diagnostics.ETypeBadIndex, idx.Span(), "index must be an unsigned integer of width >= 32")
	}
}

// checkIndexTarget requires the indexed base's type to be a typed ptr[T].
func (c *Checker) checkIndexTarget(idx *ast.Index) {
	base := idx.Source.Kind()
	if base.Tag != types.TagPtr || base.Inner == nil {
		c.bag.Error(diagnostics.ETypeBadIndex, idx.Source.Span(), "index target must be a typed ptr[T]")
	}
}

// checkFixedArray requires every element to match the array's declared
// base (element) type, taken from the first element when the array
// literal's own Kind has not yet been fixed by the resolver.
func (c *Checker) checkFixedArray(arr *ast.FixedArray) {
	if len(arr.Items) == 0 {
		return
	}
	for _, item := range arr.Items {
		c.checkExpr(item)
	}
	base := arr.Items[0].Kind()
	if declared := arr.Kind(); declared.Tag == types.TagFixedArray && declared.Inner != nil {
		base = *declared.Inner
	}
	if ast.IsPlaceholder(base) {
		return
	}
	for _, item := range arr.Items {
		if !CheckLiteral(base, item.Kind(), token.Illegal, PositionOther) {
			c.mismatch(item.Span(), base, item.Kind())
		}
	}
}

// checkConstructor requires arguments to match the declared struct's field
// types positionally.
func (c *Checker) checkConstructor(ctor *ast.Constructor) {
	for _, arg := range ctor.Args {
		c.checkExpr(arg)
	}
	st, ok := c.table.LookupStruct(ctor.Name)
	if !ok {
		return
	}
	if len(ctor.Args) != len(st.FieldTypes) {
		c.bag.Error(diagnostics.ETypeBadConstructor, ctor.Span(), "wrong number of constructor arguments for "+ctor.Name)
		return
	}
	for i, arg := range ctor.Args {
		if !CheckLiteral(st.FieldTypes[i], arg.Kind(), token.Illegal, PositionOther) {
			c.mismatch(arg.Span(), st.FieldTypes[i], arg.Kind())
		}
	}
}

func (c *Checker) mismatch(span token.Span, want, got types.Type) {
	c.bag.Error(diagnostics.ETypeMismatch, span, "expected "+want.String()+", found "+got.String())
}
