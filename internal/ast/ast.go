// Package ast defines the tagged tree of parsed source constructs. Each
// node type is a plain struct carrying its own Span and Kind (Type);
// operations pattern-match over the Node interface with a type switch
// rather than emulating an OO node hierarchy.
package ast

import (
	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

// Node is satisfied by every AST variant. Kind is the node's carried Type
// (possibly a placeholder until the type resolver runs); Span is its byte
// range for diagnostics.
type Node interface {
	Span() token.Span
	Kind() types.Type
	SetKind(types.Type)
}

// Base is embedded by every concrete node to provide Span/Kind storage.
// It is exported so the parser package can construct nodes directly via
// keyed composite literals (Base: ast.NewBase(span)).
type Base struct {
	span token.Span
	kind types.Type
}

func (b *Base) Span() token.Span     { return b.span }
func (b *Base) Kind() types.Type     { return b.kind }
func (b *Base) SetKind(t types.Type) { b.kind = t }

// Placeholder is the sentinel Kind assigned at parse time to nodes the
// parser cannot fully type yet. The type resolver only rewrites the kinds
// of the literals it widens; it does not replace Placeholder elsewhere, so
// nodes the parser never typed (fixed-array literals, for example) still
// carry it after resolution.
var Placeholder = types.Type{Tag: types.Tag(-1)}

func IsPlaceholder(t types.Type) bool { return t.Tag == types.Tag(-1) }

// NewBase returns a Base carrying span and the Placeholder kind, ready to
// be embedded in a keyed composite literal for any concrete node type.
func NewBase(span token.Span) Base { return Base{span: span, kind: Placeholder} }

// Attribute is a parsed `@name(...)` decorator attached to a declaration.
// Convention/AsmSyntax carry the single string argument those two
// attributes take; other attributes are argument-less.
type Attribute struct {
	Kind       token.Kind // one of token.AttrXxx
	Convention string     // @convention("...") / @asmSyntax("...") argument
	Span       token.Span
}

// ---- Metadata shared by reference-shaped nodes ----

// RefMeta carries the mutability/allocation/constantness bits the spec
// attaches to reference-shaped nodes (Local, Reference, Property, As,
// FunctionParameter) instead of modeling them as separate node kinds.
type RefMeta struct {
	Mutable    bool
	Allocated  bool
	Constant   bool
}

// ---- Literals ----

type Integer struct {
	Base
	Value int64
	IsUnsigned bool
}

func NewInteger(span token.Span, value int64, unsigned bool, kind types.Type) *Integer {
	n := &Integer{Base: NewBase(span), Value: value, IsUnsigned: unsigned}
	n.SetKind(kind)
	return n
}

type Float struct {
	Base
	Value float64
}

func NewFloat(span token.Span, value float64, kind types.Type) *Float {
	n := &Float{Base: NewBase(span), Value: value}
	n.SetKind(kind)
	return n
}

type Boolean struct {
	Base
	Value bool
}

func NewBoolean(span token.Span, value bool) *Boolean {
	n := &Boolean{Base: NewBase(span), Value: value}
	n.SetKind(types.Bool())
	return n
}

type Char struct {
	Base
	Value byte
}

func NewChar(span token.Span, value byte) *Char {
	n := &Char{Base: NewBase(span), Value: value}
	n.SetKind(types.Char())
	return n
}

type Str struct {
	Base
	Bytes []byte
}

func NewStr(span token.Span, bytes []byte) *Str {
	n := &Str{Base: NewBase(span), Bytes: bytes}
	n.SetKind(types.Str())
	return n
}

type NullPtr struct{ Base }

func NewNullPtr(span token.Span) *NullPtr {
	n := &NullPtr{Base: NewBase(span)}
	n.SetKind(types.Ptr(nil))
	return n
}

// ---- Declarations ----

type FunctionParameter struct {
	Base
	Name string
	Meta RefMeta
}

type Function struct {
	Base
	Name           string
	AsciiName      string
	Parameters     []*FunctionParameter
	ParameterTypes []types.Type
	Body           *Block // nil for declarations without a body (prepass, @extern)
	ReturnType     types.Type
	Attributes     []Attribute
	IsIgnoredArgs  bool // trailing `@ignore` in the parameter list: accepts variadic args
}

type AssemblerFunction struct {
	Base
	Name           string
	Parameters     []*FunctionParameter
	ParameterTypes []types.Type
	ReturnType     types.Type
	Assembly       string
	Constraints    string
	Attributes     []Attribute
	IsIgnoredArgs  bool
}

type Intrinsic struct {
	Base
	Name           string
	ParameterTypes []types.Type
	ReturnType     types.Type
	Attributes     []Attribute
	IsIgnoredArgs  bool
}

type StructField struct {
	Name string
	Type types.Type
}

type Struct struct {
	Base
	Name       string
	Fields     []StructField
	Attributes []Attribute
}

type EnumField struct {
	Name        string
	Type        types.Type
	Initializer Node
}

type Enum struct {
	Base
	Name       string
	Data       []EnumField
	Attributes []Attribute
}

type Const struct {
	Base
	Name       string
	Type       types.Type
	Value      Node
	IsGlobal   bool
	Attributes []Attribute
}

type Static struct {
	Base
	Name       string
	Type       types.Type
	Value      Node // nil for an extern static
	IsGlobal   bool
	Attributes []Attribute
}

type CustomType struct {
	Base
	Name string
	Type types.Type
}

type GlobalAssembler struct {
	Base
	Assembly string
}

type Import struct {
	Base
	Path string
}

// ---- Statements ----

type Block struct {
	Base
	Nodes []Node
}

type Local struct {
	Base
	Name  string
	Type  types.Type
	Value Node // nil if uninitialized
	Meta  RefMeta
}

type LLI struct {
	Base
	Name  string
	Type  types.Type
	Value Node
}

type Elif struct {
	Base
	Condition Node
	Block     *Block
}

type If struct {
	Base
	Condition Node
	Block     *Block
	Elseif    []*Elif
	Anyway    *Block // else branch, nil if absent
}

type While struct {
	Base
	Condition Node
	Block     *Block
}

type For struct {
	Base
	Init      Node
	Condition Node
	Post      Node
	Block     *Block
}

type Loop struct {
	Base
	Block *Block
}

type Break struct{ Base }
type Continue struct{ Base }

type Return struct {
	Base
	Expression Node // nil for `return;` in a void function
}

type Mut struct {
	Base
	Source Node
	Value  Node
}

// ---- Expressions ----

type BinaryOp struct {
	Base
	Left     Node
	Operator token.Kind
	Right    Node
}

type UnaryOp struct {
	Base
	Operator   token.Kind
	Expression Node
	IsPre      bool
}

type Group struct {
	Base
	Expression Node
}

type Call struct {
	Base
	Name string
	Args []Node
}

type Reference struct {
	Base
	Name string
	Meta RefMeta
}

type DirectRef struct {
	Base
	Expression Node
}

type Deref struct {
	Base
	Value Node
}

type Property struct {
	Base
	Source  Node
	Indexes []string
	Meta    RefMeta
}

type Index struct {
	Base
	Source  Node
	Indexes []Node
}

type Array struct {
	Base
	Items []Node
}

type FixedArray struct {
	Base
	Items []Node
}

type Constructor struct {
	Base
	Name string
	Args []Node
}

type EnumValue struct {
	Base
	Name  string
	Value string
}

type As struct {
	Base
	From Node
	Cast types.Type
	Meta RefMeta
}

type Load struct {
	Base
	Value Node
}

type Write struct {
	Base
	Target Node
	Value  Node
}

type Address struct {
	Base
	Value Node
}

type Alloc struct {
	Base
	Alloc types.Type
}

// ---- Builtins ----

type BuiltinOp int

const (
	BuiltinSizeOf BuiltinOp = iota
	BuiltinAlignOf
	BuiltinBitSizeOf
	BuiltinAbiSizeOf
	BuiltinAbiAlignOf
	BuiltinMemCpy
	BuiltinMemMove
	BuiltinMemSet
	BuiltinHalloc
)

type Builtin struct {
	Base
	Op   BuiltinOp
	Args []Node
	Type types.Type // operand type for sizeof/alignof family
}

// ---- Markers ----

type Unreachable struct{ Base }
type Pass struct{ Base }

// NewSpan builds a Span from its parts, used by the parser when a node's
// span is synthesized from a token rather than copied from one.
func NewSpan(line, colStart, colEnd, byteStart, byteEnd uint32) token.Span {
	return token.Span{Line: line, ColumnStart: colStart, ColumnEnd: colEnd, ByteStart: byteStart, ByteEnd: byteEnd}
}
