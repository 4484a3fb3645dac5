// Package typecheck verifies compatibility of every subexpression and
// assignment under the operator-typed compatibility matrix of spec.md §4.4.
package typecheck

import (
	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

// arithmeticOps is the operator set legal between two widening-compatible
// numeric operands, minus bitwise ops (those are integer-only).
var arithmeticOps = map[token.Kind]bool{
	token.Plus: true, token.Minus: true, token.Star: true, token.Slash: true,
	token.PlusPlus: true, token.MinusMinus: true,
}

var bitwiseOps = map[token.Kind]bool{
	token.Caret: true, token.Pipe: true, token.Tilde: true, token.Ampersand: true,
	token.LessLess: true, token.GreaterGreater: true, token.Percent: true,
}

var equalityOps = map[token.Kind]bool{
	token.EqualEqual: true, token.BangEqual: true,
	token.Less: true, token.LessEqual: true, token.Greater: true, token.GreaterEqual: true,
}

var logicalOps = map[token.Kind]bool{
	token.AmpersandAmpersand: true, token.PipePipe: true,
}

// opaquePtrOps is the operator set legal between two opaque (untyped)
// pointers: equality, identity bitwise ops, and "no operator" (plain
// compatibility check, e.g. passing as an argument).
var opaquePtrOps = map[token.Kind]bool{
	token.EqualEqual: true, token.BangEqual: true,
	token.Caret: true, token.Pipe: true, token.Tilde: true,
}

// Position distinguishes a local-assignment compatibility check (where
// Mut~Mut aliasing is forbidden) from every other position.
type Position int

const (
	PositionOther Position = iota
	PositionLocal
)

// Check reports whether rhs may appear where lhs is expected under
// operator (token.Illegal if the check is a plain compatibility check with
// no operator, e.g. an assignment or argument pass), per the full legal set
// enumerated in spec.md §4.4.
func Check(lhs, rhs types.Type, operator token.Kind, pos Position) bool {
	// Const is transparent on the right: Const(a) ~ b iff a ~ b.
	if rhs.Tag == types.TagConst {
		return Check(lhs, *rhs.Inner, operator, pos)
	}
	if lhs.Tag == types.TagConst {
		if rhs.Tag == types.TagConst {
			return Check(*lhs.Inner, *rhs.Inner, operator, pos)
		}
		return Check(*lhs.Inner, rhs, operator, pos)
	}

	switch lhs.Tag {
	case types.TagMut:
		return checkMut(lhs, rhs, operator, pos)
	case types.TagStruct:
		return rhs.Tag == types.TagStruct && checkStruct(lhs, rhs)
	case types.TagFixedArray:
		return rhs.Tag == types.TagFixedArray && lhs.Size == rhs.Size &&
			Check(*lhs.Inner, *rhs.Inner, operator, PositionOther)
	case types.TagArray:
		return rhs.Tag == types.TagArray && Check(*lhs.Inner, *rhs.Inner, operator, PositionOther)
	case types.TagPtr:
		return checkPtr(lhs, rhs, operator)
	case types.TagBool:
		return rhs.Tag == types.TagBool && (logicalOps[operator] || equalityOps[operator] || operator == token.Illegal)
	case types.TagAddr, types.TagVoid, types.TagChar, types.TagStr:
		return lhs.Tag == rhs.Tag
	default:
		if lhs.IsInteger() {
			return checkInteger(lhs, rhs, operator)
		}
		if lhs.IsFloat() {
			return checkFloat(lhs, rhs, operator)
		}
		return false
	}
}

func checkStruct(lhs, rhs types.Type) bool {
	if len(lhs.Fields) != len(rhs.Fields) {
		return false
	}
	for i := range lhs.Fields {
		if !Check(lhs.Fields[i], rhs.Fields[i], token.Illegal, PositionOther) {
			return false
		}
	}
	return true
}

func checkPtr(lhs, rhs types.Type, operator token.Kind) bool {
	if rhs.Tag != types.TagPtr {
		return false
	}
	if lhs.Inner == nil && rhs.Inner == nil {
		return operator == token.Illegal || opaquePtrOps[operator]
	}
	if lhs.Inner == nil || rhs.Inner == nil {
		return false
	}
	return Check(*lhs.Inner, *rhs.Inner, operator, PositionOther)
}

// checkMut implements the two Mut rules: at local position, Mut(a) ~ rhs
// iff rhs is neither Mut nor Ptr and a ~ rhs (aliasing is forbidden);
// elsewhere, Mut(a) ~ Mut(b) iff a ~ b.
func checkMut(lhs, rhs types.Type, operator token.Kind, pos Position) bool {
	if pos == PositionLocal {
		if rhs.Tag == types.TagMut || rhs.Tag == types.TagPtr {
			return false
		}
		return Check(*lhs.Inner, rhs, operator, PositionOther)
	}
	if rhs.Tag != types.TagMut {
		return false
	}
	return Check(*lhs.Inner, *rhs.Inner, operator, PositionOther)
}

func checkInteger(lhs, rhs types.Type, operator token.Kind) bool {
	if !rhs.IsInteger() {
		return false
	}
	if lhs.IsSigned() != rhs.IsSigned() {
		return false
	}
	if rhs.BitWidth() > lhs.BitWidth() {
		return false
	}
	return operator == token.Illegal || arithmeticOps[operator] || bitwiseOps[operator] || equalityOps[operator]
}

func checkFloat(lhs, rhs types.Type, operator token.Kind) bool {
	if !rhs.IsFloat() || rhs.BitWidth() > lhs.BitWidth() {
		return false
	}
	return operator == token.Illegal || arithmeticOps[operator] || equalityOps[operator]
}

// CheckLiteral is Check with the literal-only unsigned-to-signed relaxation
// applied first: an unsigned integer literal may satisfy a same-or-wider
// signed target.
func CheckLiteral(lhs, rhs types.Type, operator token.Kind, pos Position) bool {
	if lhs.IsSigned() && rhs.IsUnsigned() && rhs.BitWidth() <= lhs.BitWidth() {
		return operator == token.Illegal || arithmeticOps[operator] || bitwiseOps[operator] || equalityOps[operator]
	}
	return Check(lhs, rhs, operator, pos)
}

// CanCast reports whether an `as` expression may convert from `from` to
// `to`, under the separate cast matrix (spec.md §4.4 "Cast checking"):
// integer<->integer, float<->float, str->ptr, allocated-value->ptr,
// ptr<->ptr (recursively on pointee), mut<->mut, mut->ptr, const->ptr.
func CanCast(from, to types.Type, fromAllocated bool) bool {
	if from.Tag == types.TagConst && to.Tag == types.TagPtr {
		return true
	}
	switch {
	case from.IsInteger() && to.IsInteger():
		return true
	case from.IsFloat() && to.IsFloat():
		return true
	case from.Tag == types.TagStr && to.Tag == types.TagPtr:
		return true
	case to.Tag == types.TagPtr && fromAllocated:
		return true
	case from.Tag == types.TagPtr && to.Tag == types.TagPtr:
		if from.Inner == nil || to.Inner == nil {
			return true
		}
		return CanCast(*from.Inner, *to.Inner, false)
	case from.Tag == types.TagMut && to.Tag == types.TagMut:
		return CanCast(*from.Inner, *to.Inner, fromAllocated)
	case from.Tag == types.TagMut && to.Tag == types.TagPtr:
		return true
	default:
		return false
	}
}
