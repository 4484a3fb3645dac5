package ast

import "github.com/pmezard/go-difflib/difflib"

// UnifiedDiff renders a unified diff between two rendered programs, used by
// the round-trip property tests to report exactly where parse ∘ print ∘
// parse ∘ print diverged.
func UnifiedDiff(from, to string) string {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: "first print",
		ToFile:   "second print",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return "(diff error: " + err.Error() + ")"
	}
	return text
}
