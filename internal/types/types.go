// Package types implements the Type tagged sum: every variant spec.md §3.3
// describes, plus structural equality that ignores Span.
package types

import "github.com/thrushlang/thrushc/internal/token"

// Tag discriminates a Type's variant.
type Tag int

const (
	TagS8 Tag = iota
	TagS16
	TagS32
	TagS64
	TagSSize
	TagU8
	TagU16
	TagU32
	TagU64
	TagUSize
	TagF32
	TagF64
	TagF128
	TagFx8680
	TagFppc128
	TagBool
	TagChar
	TagStr
	TagVoid
	TagAddr
	TagPtr
	TagMut
	TagConst
	TagArray
	TagFixedArray
	TagStruct
	TagFn
)

// Modificator carries attribute-derived qualifiers on a struct/fn type that
// do not affect identity but do affect codegen handoff (e.g. packed).
type Modificator struct {
	Packed   bool
	Ignore   bool // fn: variadic/`@ignore`d trailing args
}

// Type is the tagged sum over every Thrush type. Every variant carries a
// Span for diagnostics only: Equal and structural comparisons never look
// at Span.
type Type struct {
	Tag  Tag
	Span token.Span

	Inner *Type // Ptr, Mut, Const, Array, FixedArray element type
	Size  uint32 // FixedArray length

	Name   string // Struct name
	Fields []Type // Struct field types

	Params []Type // Fn parameter types
	Return *Type  // Fn return type

	Mod Modificator
}

// Convenience constructors. Each returns a Type with a zero Span; callers
// fill Span in when the type is parsed from source.

func Signed(tag Tag) Type   { return Type{Tag: tag} }
func Unsigned(tag Tag) Type { return Type{Tag: tag} }

func Bool() Type { return Type{Tag: TagBool} }
func Char() Type { return Type{Tag: TagChar} }
func Str() Type  { return Type{Tag: TagStr} }
func Void() Type { return Type{Tag: TagVoid} }
func Addr() Type { return Type{Tag: TagAddr} }

// Ptr returns an opaque (inner == nil) or typed pointer type.
func Ptr(inner *Type) Type { return Type{Tag: TagPtr, Inner: inner} }

func Mut(inner Type) Type   { return Type{Tag: TagMut, Inner: &inner} }
func Const(inner Type) Type { return Type{Tag: TagConst, Inner: &inner} }
func Array(inner Type) Type { return Type{Tag: TagArray, Inner: &inner} }

func FixedArray(inner Type, size uint32) Type {
	return Type{Tag: TagFixedArray, Inner: &inner, Size: size}
}

func Struct(name string, fields []Type, mod Modificator) Type {
	return Type{Tag: TagStruct, Name: name, Fields: fields, Mod: mod}
}

func Fn(params []Type, ret Type, mod Modificator) Type {
	return Type{Tag: TagFn, Params: params, Return: &ret, Mod: mod}
}

// IsVoid reports whether t is exactly Void — the one variant that is never
// a legal value type.
func (t Type) IsVoid() bool { return t.Tag == TagVoid }

// IsInteger reports whether t is any signed or unsigned integer width.
func (t Type) IsInteger() bool {
	switch t.Tag {
	case TagS8, TagS16, TagS32, TagS64, TagSSize,
		TagU8, TagU16, TagU32, TagU64, TagUSize:
		return true
	default:
		return false
	}
}

// IsSigned reports whether t is a signed integer width.
func (t Type) IsSigned() bool {
	switch t.Tag {
	case TagS8, TagS16, TagS32, TagS64, TagSSize:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether t is an unsigned integer width.
func (t Type) IsUnsigned() bool {
	switch t.Tag {
	case TagU8, TagU16, TagU32, TagU64, TagUSize:
		return true
	default:
		return false
	}
}

// IsFloat reports whether t is any float width.
func (t Type) IsFloat() bool {
	switch t.Tag {
	case TagF32, TagF64, TagF128, TagFx8680, TagFppc128:
		return true
	default:
		return false
	}
}

// BitWidth returns the integer/float bit width of t, or 0 if not applicable.
func (t Type) BitWidth() int {
	switch t.Tag {
	case TagS8, TagU8:
		return 8
	case TagS16, TagU16:
		return 16
	case TagS32, TagU32, TagF32:
		return 32
	case TagS64, TagU64, TagF64, TagSSize, TagUSize:
		return 64
	case TagF128, TagFppc128:
		return 128
	case TagFx8680:
		return 80
	default:
		return 0
	}
}

// Equal implements full recursive structural equality, ignoring Span.
// spec.md §9 flags the original's equality as omitting FixedArray from its
// comparator; this implementation treats that as a bug and compares every
// variant's payload.
func Equal(a, b Type) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case TagPtr:
		if a.Inner == nil || b.Inner == nil {
			return a.Inner == nil && b.Inner == nil
		}
		return Equal(*a.Inner, *b.Inner)
	case TagMut, TagConst, TagArray:
		if a.Inner == nil || b.Inner == nil {
			return a.Inner == b.Inner
		}
		return Equal(*a.Inner, *b.Inner)
	case TagFixedArray:
		if a.Size != b.Size {
			return false
		}
		if a.Inner == nil || b.Inner == nil {
			return a.Inner == b.Inner
		}
		return Equal(*a.Inner, *b.Inner)
	case TagStruct:
		if a.Name != b.Name || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !Equal(a.Fields[i], b.Fields[i]) {
				return false
			}
		}
		return true
	case TagFn:
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		if a.Return == nil || b.Return == nil {
			return a.Return == b.Return
		}
		return Equal(*a.Return, *b.Return)
	default:
		return true // scalar tags: Tag equality is sufficient
	}
}

// String renders t for diagnostics.
func (t Type) String() string {
	switch t.Tag {
	case TagPtr:
		if t.Inner == nil {
			return "ptr"
		}
		return "ptr[" + t.Inner.String() + "]"
	case TagMut:
		return "mut " + t.Inner.String()
	case TagConst:
		return "const " + t.Inner.String()
	case TagArray:
		return "array[" + t.Inner.String() + "]"
	case TagFixedArray:
		return "array[" + t.Inner.String() + "; " + uitoa(t.Size) + "]"
	case TagStruct:
		return t.Name
	case TagFn:
		s := "Fn["
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + "] -> " + t.Return.String()
	default:
		return tagNames[t.Tag]
	}
}

var tagNames = map[Tag]string{
	TagS8: "s8", TagS16: "s16", TagS32: "s32", TagS64: "s64", TagSSize: "ssize",
	TagU8: "u8", TagU16: "u16", TagU32: "u32", TagU64: "u64", TagUSize: "usize",
	TagF32: "f32", TagF64: "f64", TagF128: "f128", TagFx8680: "fx86_80", TagFppc128: "fppc_128",
	TagBool: "bool", TagChar: "char", TagStr: "str", TagVoid: "void", TagAddr: "addr",
}

func uitoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
