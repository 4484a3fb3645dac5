// Package semantic implements the semantic analyzer: constant-value and
// memory-address validity, parameter-count limits, the single-global-
// assembler check, and enum/const/static body validation (spec.md §4.5).
package semantic

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/token"
)

// MaxParameters is the parameter-count ceiling for both regular and
// assembler functions; above it the analyzer suggests packing arguments
// into a struct or pointer instead.
const MaxParameters = 12

// Analyzer runs the semantic analysis pass over one program.
type Analyzer struct {
	bag             *diagnostics.Bag
	globalAsmSeen   bool
}

// New returns an Analyzer recording diagnostics into bag.
func New(bag *diagnostics.Bag) *Analyzer { return &Analyzer{bag: bag} }

// Start walks program's declarations. It returns true iff it recorded at
// least one error (spec.md: `start(ast) → bool`, true = errors).
func (a *Analyzer) Start(program *ast.Program) bool {
	before := len(a.bag.Items())
	for _, decl := range program.Declarations {
		a.checkDecl(decl)
	}
	a.checkIgnoredVariadicCalls(program)
	return hasNewErrors(a.bag, before)
}

func hasNewErrors(bag *diagnostics.Bag, before int) bool {
	for _, d := range bag.Items()[before:] {
		if d.Severity == diagnostics.SeverityError || d.Severity == diagnostics.SeverityBug {
			return true
		}
	}
	return false
}

func (a *Analyzer) checkDecl(decl ast.Node) {
	switch d := decl.(type) {
	case *ast.Function:
		a.checkParamCount(len(d.ParameterTypes), d.Span())
		a.checkBlock(d.Body)
		a.checkUnusedLocals(d.Body)
	case *ast.AssemblerFunction:
		a.checkParamCount(len(d.ParameterTypes), d.Span())
	case *ast.GlobalAssembler:
		if a.globalAsmSeen {
			a.bag.Error(diagnostics.ESemDuplicateGlobalAsm, d.Span(), "only one global_asm block is allowed per file")
		}
		a.globalAsmSeen = true
	case *ast.Enum:
		for _, field := range d.Data {
			if field.Initializer != nil && !IsConstantValue(field.Initializer) {
				a.bag.Error(diagnostics.ESemNonConstant, field.Initializer.Span(), "enum field initializer must be a constant value")
			}
		}
	case *ast.Const:
		if d.Value != nil && !IsConstantValue(d.Value) {
			a.bag.Error(diagnostics.ESemNonConstant, d.Value.Span(), "const initializer must be a constant value")
		}
	case *ast.Static:
		if d.Value != nil && !IsConstantValue(d.Value) {
			a.bag.Error(diagnostics.ESemNonConstant, d.Value.Span(), "static initializer must be a constant value")
		}
	}
}

func (a *Analyzer) checkParamCount(n int, span token.Span) {
	if n > MaxParameters {
		a.bag.ErrorHint(diagnostics.ESemTooManyParams, span,
			"function has too many parameters",
			"package them in structures or pointers")
	}
}

// checkBlock walks the body of a function, validating statements that need
// whole-block context (mutation sources, reachability after return/break/
// continue/unreachable).
func (a *Analyzer) checkBlock(b *ast.Block) {
	if b == nil {
		return
	}
	unreachableFrom := -1
	for i, n := range b.Nodes {
		if unreachableFrom >= 0 {
			a.bag.Warning(diagnostics.WUnreachableAfter, n.Span(), "unreachable code")
			unreachableFrom = -2 // only warn once per block
		}
		a.checkStmt(n)
		switch n.(type) {
		case *ast.Return, *ast.Break, *ast.Continue, *ast.Unreachable:
			if unreachableFrom == -1 {
				unreachableFrom = i
			}
		}
	}
}

func (a *Analyzer) checkStmt(n ast.Node) {
	switch s := n.(type) {
	case *ast.If:
		a.checkBlock(s.Block)
		for _, e := range s.Elseif {
			a.checkBlock(e.Block)
		}
		a.checkBlock(s.Anyway)
	case *ast.While:
		a.checkBlock(s.Block)
	case *ast.For:
		a.checkBlock(s.Block)
	case *ast.Loop:
		a.checkBlock(s.Block)
	case *ast.Block:
		a.checkBlock(s)
	case *ast.Mut:
		a.checkMutationSource(s)
	}
}

// checkMutationSource rejects non-allocated references and non-allocated
// value-kind values as a mutation's source, per spec.md §4.5.
func (a *Analyzer) checkMutationSource(m *ast.Mut) {
	if meta, ok := ast.IsReferenceShaped(m.Source); ok {
		if !meta.Allocated {
			a.bag.Error(diagnostics.ESemUnallocatedSource, m.Source.Span(),
				"mutation source must be an allocated reference")
		}
		return
	}
	// Not reference-shaped: only a Deref/Address/Alloc-produced value may
	// stand as a mutation source without being "allocated" in the symbol
	// table sense.
	switch m.Source.(type) {
	case *ast.Deref, *ast.Address, *ast.Alloc:
		return
	default:
		a.bag.Error(diagnostics.ESemValueKindSource, m.Source.Span(),
			"mutation source must be a pointer, mutable reference, or allocated value")
	}
}

// IsConstantValue reports whether n is valid in a constant context: a
// literal; a constant reference; a direct-ref of a constant; a grouped
// constant expression; a binary/unary op over constants; a constant cast;
// a fixed-array literal of constants; a constructor of constants; an enum
// value; or a sizeof/alignof/bitsizeof builtin.
func IsConstantValue(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Integer, *ast.Float, *ast.Boolean, *ast.Char, *ast.Str, *ast.NullPtr:
		return true
	case *ast.Reference:
		return v.Meta.Constant
	case *ast.DirectRef:
		return IsConstantValue(v.Expression)
	case *ast.Group:
		return IsConstantValue(v.Expression)
	case *ast.BinaryOp:
		return IsConstantValue(v.Left) && IsConstantValue(v.Right)
	case *ast.UnaryOp:
		return IsConstantValue(v.Expression)
	case *ast.As:
		return IsConstantValue(v.From)
	case *ast.FixedArray:
		for _, item := range v.Items {
			if !IsConstantValue(item) {
				return false
			}
		}
		return true
	case *ast.Constructor:
		for _, arg := range v.Args {
			if !IsConstantValue(arg) {
				return false
			}
		}
		return true
	case *ast.EnumValue:
		return true
	case *ast.Builtin:
		switch v.Op {
		case ast.BuiltinSizeOf, ast.BuiltinAlignOf, ast.BuiltinBitSizeOf, ast.BuiltinAbiSizeOf, ast.BuiltinAbiAlignOf:
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// checkUnusedLocals warns about every `let` binding in body that is never
// read, matching the original warner's "Local not used" diagnostic. Usage
// is tracked by name across the whole function body rather than per scope:
// the analyzer runs before the resolver (spec.md §5), so it has no symbol
// table to disambiguate shadowed locals precisely, and a flat name set is
// enough to catch the common case this warning exists for.
func (a *Analyzer) checkUnusedLocals(body *ast.Block) {
	if body == nil {
		return
	}
	var locals []*ast.Local
	used := map[string]bool{}
	walkAll(body, func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Local:
			locals = append(locals, v)
		case *ast.Reference:
			used[v.Name] = true
		}
	})
	for _, l := range locals {
		if !used[l.Name] {
			a.bag.Warning(diagnostics.WUnusedLocal, l.Span(), "local '"+l.Name+"' is never used")
		}
	}
}

// checkIgnoredVariadicCalls warns about an `@extern` function (or an
// assembler function or intrinsic) declared with a trailing `@ignore` (accepts variadic args) that no call site in the
// program actually exercises variadically — i.e. every call passes no more
// arguments than the fixed parameter list declares, so the `@ignore` marker
// is dead weight.
func (a *Analyzer) checkIgnoredVariadicCalls(program *ast.Program) {
	type candidate struct {
		fixedParams int
		span        token.Span
		maxArgsSeen int
	}
	candidates := map[string]*candidate{}

	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.Function:
			if d.IsIgnoredArgs && hasAttr(d.Attributes, token.AttrExtern) {
				candidates[d.Name] = &candidate{fixedParams: len(d.ParameterTypes), span: d.Span()}
			}
		case *ast.AssemblerFunction:
			if d.IsIgnoredArgs {
				candidates[d.Name] = &candidate{fixedParams: len(d.ParameterTypes), span: d.Span()}
			}
		case *ast.Intrinsic:
			if d.IsIgnoredArgs {
				candidates[d.Name] = &candidate{fixedParams: len(d.ParameterTypes), span: d.Span()}
			}
		}
	}
	if len(candidates) == 0 {
		return
	}

	for _, decl := range program.Declarations {
		fn, ok := decl.(*ast.Function)
		if !ok {
			continue
		}
		walkAll(fn.Body, func(n ast.Node) {
			call, ok := n.(*ast.Call)
			if !ok {
				return
			}
			c, tracked := candidates[call.Name]
			if !tracked {
				return
			}
			if len(call.Args) > c.maxArgsSeen {
				c.maxArgsSeen = len(call.Args)
			}
		})
	}

	for name, c := range candidates {
		if c.maxArgsSeen <= c.fixedParams {
			a.bag.Warning(diagnostics.WIgnoredParamsUnused, c.span,
				"'"+name+"' is declared with @ignore but is never called with variadic arguments")
		}
	}
}

func hasAttr(attrs []ast.Attribute, kind token.Kind) bool {
	for _, at := range attrs {
		if at.Kind == kind {
			return true
		}
	}
	return false
}

// walkAll visits n and every node reachable from it, recursing through
// nested blocks and expressions. ast.WalkBlock only recurses into
// statement-level control-flow blocks; the usage checks above need to see
// references buried inside arbitrarily nested expressions too (call
// arguments, binary operands, mutation sources), so this walks the full
// tree instead.
func walkAll(n ast.Node, visit func(ast.Node)) {
	if n == nil {
		return
	}
	visit(n)
	switch v := n.(type) {
	case *ast.Block:
		for _, s := range v.Nodes {
			walkAll(s, visit)
		}
	case *ast.Local:
		walkAll(v.Value, visit)
	case *ast.LLI:
		walkAll(v.Value, visit)
	case *ast.If:
		walkAll(v.Condition, visit)
		walkBlock(v.Block, visit)
		for _, e := range v.Elseif {
			walkAll(e.Condition, visit)
			walkBlock(e.Block, visit)
		}
		walkBlock(v.Anyway, visit)
	case *ast.While:
		walkAll(v.Condition, visit)
		walkBlock(v.Block, visit)
	case *ast.For:
		walkAll(v.Init, visit)
		walkAll(v.Condition, visit)
		walkAll(v.Post, visit)
		walkBlock(v.Block, visit)
	case *ast.Loop:
		walkBlock(v.Block, visit)
	case *ast.Return:
		walkAll(v.Expression, visit)
	case *ast.Mut:
		walkAll(v.Source, visit)
		walkAll(v.Value, visit)
	case *ast.BinaryOp:
		walkAll(v.Left, visit)
		walkAll(v.Right, visit)
	case *ast.UnaryOp:
		walkAll(v.Expression, visit)
	case *ast.Group:
		walkAll(v.Expression, visit)
	case *ast.Call:
		for _, a := range v.Args {
			walkAll(a, visit)
		}
	case *ast.DirectRef:
		walkAll(v.Expression, visit)
	case *ast.Deref:
		walkAll(v.Value, visit)
	case *ast.Property:
		walkAll(v.Source, visit)
	case *ast.Index:
		walkAll(v.Source, visit)
		for _, idx := range v.Indexes {
			walkAll(idx, visit)
		}
	case *ast.Array:
		for _, item := range v.Items {
			walkAll(item, visit)
		}
	case *ast.FixedArray:
		for _, item := range v.Items {
			walkAll(item, visit)
		}
	case *ast.Constructor:
		for _, a := range v.Args {
			walkAll(a, visit)
		}
	case *ast.As:
		walkAll(v.From, visit)
	case *ast.Load:
		walkAll(v.Value, visit)
	case *ast.Write:
		walkAll(v.Target, visit)
		walkAll(v.Value, visit)
	case *ast.Address:
		walkAll(v.Value, visit)
	case *ast.Builtin:
		for _, a := range v.Args {
			walkAll(a, visit)
		}
	}
}

// walkBlock guards walkAll against a nil *ast.Block: passed directly as a
// Node interface, a nil *ast.Block is a non-nil interface value (it still
// carries type information), so the nil check inside walkAll would not
// catch it.
func walkBlock(b *ast.Block, visit func(ast.Node)) {
	if b == nil {
		return
	}
	walkAll(b, visit)
}
