// Package symbols implements the scoped symbol table: a stack of scope
// frames for locals/parameters/LLIs/custom-types, plus a single top-level
// frame for functions/structs/enums/constants/statics/assembler-functions/
// intrinsics.
package symbols

import (
	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

// Local describes a local-scope binding: its type, mutability, whether it
// was heap-allocated (via `new`), and the span it was declared at
// (used for "already declared here" diagnostics).
type Local struct {
	Type        types.Type
	Mutable     bool
	Allocated   bool
	DefinedSpan token.Span
}

// FunctionRef describes a callable top-level symbol: a function, assembler
// function, or intrinsic.
type FunctionRef struct {
	ParameterTypes []types.Type
	ReturnType     types.Type
	IsIgnoredArgs  bool
	DefinedSpan    token.Span
}

// StructRef describes a struct declaration's shape.
type StructRef struct {
	FieldNames []string
	FieldTypes []types.Type
	DefinedSpan token.Span
}

// EnumRef describes an enum declaration's shape.
type EnumRef struct {
	FieldNames []string
	FieldTypes []types.Type
	DefinedSpan token.Span
}

// ConstRef / StaticRef describe a top-level constant/static binding's type.
type ConstRef struct {
	Type        types.Type
	DefinedSpan token.Span
}

type StaticRef struct {
	Type        types.Type
	DefinedSpan token.Span
}

// scope is one lexical frame: locals, parameters, LLIs, and custom types
// declared directly inside it.
type scope struct {
	locals      map[string]Local
	parameters  map[string]Local
	llis        map[string]Local
	customTypes map[string]types.Type
}

func newScope() *scope {
	return &scope{
		locals:      map[string]Local{},
		parameters:  map[string]Local{},
		llis:        map[string]Local{},
		customTypes: map[string]types.Type{},
	}
}

// Table is the symbol table for one compilation unit: a single top-level
// frame plus a stack of lexical scope frames.
type Table struct {
	functions  map[string]FunctionRef
	structs    map[string]StructRef
	enums      map[string]EnumRef
	consts     map[string]ConstRef
	statics    map[string]StaticRef

	scopes []*scope
}

// New returns an empty table with no scope frames open.
func New() *Table {
	return &Table{
		functions: map[string]FunctionRef{},
		structs:   map[string]StructRef{},
		enums:     map[string]EnumRef{},
		consts:    map[string]ConstRef{},
		statics:   map[string]StaticRef{},
	}
}

// BeginScope pushes a new lexical frame. Every BeginScope must be paired
// with an EndScope (spec.md §8 invariant 3: scope balance).
func (t *Table) BeginScope() { t.scopes = append(t.scopes, newScope()) }

// EndScope pops the innermost lexical frame. A no-op if no frame is open,
// so error-recovery code that over-pops never panics.
func (t *Table) EndScope() {
	if len(t.scopes) == 0 {
		return
	}
	t.scopes = t.scopes[:len(t.scopes)-1]
}

// Depth returns the number of open lexical frames.
func (t *Table) Depth() int { return len(t.scopes) }

func (t *Table) top() *scope {
	if len(t.scopes) == 0 {
		return nil
	}
	return t.scopes[len(t.scopes)-1]
}

// DeclaredInCurrentScope reports whether name is already bound as a local,
// parameter, LLI, or custom type in the innermost open scope (or, with no
// scope open, at top level) — the redeclaration-in-same-scope check.
func (t *Table) DeclaredInCurrentScope(name string) bool {
	if s := t.top(); s != nil {
		_, a := s.locals[name]
		_, b := s.parameters[name]
		_, c := s.llis[name]
		_, d := s.customTypes[name]
		return a || b || c || d
	}
	return t.declaredTopLevel(name)
}

func (t *Table) declaredTopLevel(name string) bool {
	_, a := t.functions[name]
	_, b := t.structs[name]
	_, c := t.enums[name]
	_, d := t.consts[name]
	_, e := t.statics[name]
	return a || b || c || d || e
}

// DeclareLocal binds name in the innermost open scope.
func (t *Table) DeclareLocal(name string, l Local) {
	if s := t.top(); s != nil {
		s.locals[name] = l
	}
}

// DeclareParameter binds name as a function parameter in the innermost scope.
func (t *Table) DeclareParameter(name string, l Local) {
	if s := t.top(); s != nil {
		s.parameters[name] = l
	}
}

// DeclareLLI binds name as a low-level instruction in the innermost scope.
func (t *Table) DeclareLLI(name string, l Local) {
	if s := t.top(); s != nil {
		s.llis[name] = l
	}
}

// DeclareCustomType binds name as a local type alias.
func (t *Table) DeclareCustomType(name string, ty types.Type) {
	if s := t.top(); s != nil {
		s.customTypes[name] = ty
	}
}

// LookupLocal searches local scopes innermost-to-outermost for name,
// matching any of locals/parameters/LLIs.
func (t *Table) LookupLocal(name string) (Local, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		s := t.scopes[i]
		if l, ok := s.locals[name]; ok {
			return l, true
		}
		if l, ok := s.parameters[name]; ok {
			return l, true
		}
		if l, ok := s.llis[name]; ok {
			return l, true
		}
	}
	return Local{}, false
}

// LookupCustomType searches local scopes innermost-to-outermost for a type
// alias named name.
func (t *Table) LookupCustomType(name string) (types.Type, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if ty, ok := t.scopes[i].customTypes[name]; ok {
			return ty, true
		}
	}
	return types.Type{}, false
}

// ---- Top-level frame ----

func (t *Table) DeclareFunction(name string, f FunctionRef)  { t.functions[name] = f }
func (t *Table) DeclareStruct(name string, s StructRef)       { t.structs[name] = s }
func (t *Table) DeclareEnum(name string, e EnumRef)           { t.enums[name] = e }
func (t *Table) DeclareConst(name string, c ConstRef)         { t.consts[name] = c }
func (t *Table) DeclareStatic(name string, s StaticRef)       { t.statics[name] = s }

func (t *Table) LookupFunction(name string) (FunctionRef, bool) { f, ok := t.functions[name]; return f, ok }
func (t *Table) LookupStruct(name string) (StructRef, bool)     { s, ok := t.structs[name]; return s, ok }
func (t *Table) LookupEnum(name string) (EnumRef, bool)         { e, ok := t.enums[name]; return e, ok }
func (t *Table) LookupConst(name string) (ConstRef, bool)       { c, ok := t.consts[name]; return c, ok }
func (t *Table) LookupStatic(name string) (StaticRef, bool)     { s, ok := t.statics[name]; return s, ok }

// Lookup searches local scopes first (innermost to outermost), then the
// top-level frame, matching the invariant in spec.md §3.5.
func (t *Table) Lookup(name string) (types.Type, bool) {
	if l, ok := t.LookupLocal(name); ok {
		return l.Type, true
	}
	if f, ok := t.functions[name]; ok {
		return types.Fn(f.ParameterTypes, f.ReturnType, types.Modificator{Ignore: f.IsIgnoredArgs}), true
	}
	if c, ok := t.consts[name]; ok {
		return c.Type, true
	}
	if s, ok := t.statics[name]; ok {
		return s.Type, true
	}
	return types.Type{}, false
}
