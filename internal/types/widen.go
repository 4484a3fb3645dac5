package types

// CanWiden reports whether a literal/expression of type from may be
// implicitly widened to a target context of type to, per spec.md §4.3:
// widening only, no narrowing, no cross-signedness except literal-to-signed
// (handled by the caller, which already knows "from" is a literal).
func CanWiden(from, to Type) bool {
	if from.IsInteger() && to.IsInteger() {
		if from.IsSigned() != to.IsSigned() {
			return false
		}
		return from.BitWidth() <= to.BitWidth()
	}
	if from.IsFloat() && to.IsFloat() {
		return from.BitWidth() <= to.BitWidth()
	}
	if from.Tag == TagFixedArray && to.Tag == TagFixedArray && from.Size == to.Size {
		if from.Inner == nil || to.Inner == nil {
			return false
		}
		return CanWiden(*from.Inner, *to.Inner)
	}
	return false
}

// CanWidenLiteral is CanWiden plus the literal-only unsigned-to-signed
// relaxation: an unsigned literal may widen into a same-or-wider signed
// target.
func CanWidenLiteral(from, to Type) bool {
	if CanWiden(from, to) {
		return true
	}
	if from.IsUnsigned() && to.IsSigned() {
		return from.BitWidth() <= to.BitWidth()
	}
	return false
}
