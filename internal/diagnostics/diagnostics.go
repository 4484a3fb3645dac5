// Package diagnostics implements the error/warning/bug queues and the
// source-snippet renderer shared by every front-end phase.
package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/thrushlang/thrushc/internal/source"
	"github.com/thrushlang/thrushc/internal/token"
)

// Severity classifies a Diagnostic. Errors and Bugs make the pipeline abort
// before the next stage and the process exit non-zero; Warnings never do.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityBug
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityBug:
		return "bug"
	default:
		return "warning"
	}
}

// Code is a machine-readable diagnostic identifier, e.g. "E0024". A single
// registry (this file) is the one place codes are assigned, per the open
// question in spec.md §9 about inconsistent numeric codes upstream.
type Code string

const (
	// Lexical
	ELexUnterminatedString Code = "E0001"
	ELexUnterminatedChar   Code = "E0002"
	ELexUnknownEscape      Code = "E0003"
	ELexInvalidDigit       Code = "E0004"

	// Semantic
	ESemDuplicateGlobalAsm Code = "E0005"
	ESemNonConstant        Code = "E0006"
	ESemUnallocatedSource  Code = "E0007"
	ESemValueKindSource    Code = "E0008"

	// Syntax
	ESynUnexpectedToken  Code = "E0010"
	ESynMissingDelimiter Code = "E0011"
	ESynMalformedType    Code = "E0012"
	ESynVoidValue        Code = "E0013"
	ESynRedeclaration    Code = "E0014"
	ESynUndeclared       Code = "E0015"

	// Type
	ETypeMismatch      Code = "E0020"
	ETypeInvalidCast   Code = "E0021"
	ETypeNotMutable    Code = "E0022"
	ETypeBadIndex      Code = "E0023"
	ETypeAliasing      Code = "E0025"
	ETypeBadProperty   Code = "E0026"
	ETypeBadConstructor Code = "E0027"

	// Calling convention
	ECallConvMismatch Code = "E0024"

	// Attribute
	EAttrRepeated    Code = "E0030"
	EAttrWrongTarget Code = "E0031"
	EAttrConflict    Code = "E0032"
	EAttrExternBody  Code = "E0033"

	// Semantic (continued)
	ESemTooManyParams Code = "E0036"

	// Warnings
	WUnusedLocal        Code = "W0001"
	WUnreachableAfter   Code = "W0002"
	WIgnoredParamsUnused Code = "W0003"

	// Internal
	BugInvariant Code = "B0001"
)

// Diagnostic is one reported issue: a severity, a registry code, a message,
// an optional hint, and the span it anchors to.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Hint     string
	Span     token.Span
}

// Bag accumulates diagnostics for one phase over one unit. Each phase owns
// its own Bag; on phase exit, if it holds any Error or Bug, the pipeline
// flushes it and skips to the next unit without running the next phase.
type Bag struct {
	items []Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// Error records an error-severity diagnostic.
func (b *Bag) Error(code Code, span token.Span, message string) {
	b.items = append(b.items, Diagnostic{Severity: SeverityError, Code: code, Message: message, Span: span})
}

// ErrorHint records an error-severity diagnostic with a remediation hint.
func (b *Bag) ErrorHint(code Code, span token.Span, message, hint string) {
	b.items = append(b.items, Diagnostic{Severity: SeverityError, Code: code, Message: message, Hint: hint, Span: span})
}

// Warning records a warning-severity diagnostic.
func (b *Bag) Warning(code Code, span token.Span, message string) {
	b.items = append(b.items, Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Span: span})
}

// Bug records an internal-invariant-violation diagnostic. Bugs are always
// printed, even alongside ordinary errors, and always force a non-zero exit.
func (b *Bag) Bug(span token.Span, message string) {
	b.items = append(b.items, Diagnostic{Severity: SeverityBug, Code: BugInvariant, Message: message, Span: span})
}

// HasErrors reports whether the bag holds any Error or Bug severity entry.
// This is the signal a phase uses to decide whether the pipeline should
// abort before the next phase.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SeverityError || d.Severity == SeverityBug {
			return true
		}
	}
	return false
}

// Items returns every accumulated diagnostic, in report order.
func (b *Bag) Items() []Diagnostic { return b.items }

// Extend appends every diagnostic from other into b, preserving order.
// Used to fold a sub-phase's bag into its parent without losing
// provenance.
func (b *Bag) Extend(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Diagnostician renders a Bag's contents against a source unit.
type Diagnostician struct {
	Out   io.Writer
	Color bool
}

// NewDiagnostician returns a Diagnostician writing to out.
func NewDiagnostician(out io.Writer, color bool) *Diagnostician {
	return &Diagnostician{Out: out, Color: color}
}

// Flush renders every diagnostic in bag against unit. Errors and bugs are
// never swallowed, and bugs are always printed even alongside ordinary
// errors.
func (d *Diagnostician) Flush(unit *source.Unit, bag *Bag) {
	for _, diag := range bag.Items() {
		d.render(unit, diag)
	}
}

func (d *Diagnostician) render(unit *source.Unit, diag Diagnostic) {
	banner := fmt.Sprintf("%s[%s]: %s", diag.Severity, diag.Code, diag.Message)
	if d.Color {
		banner = colorize(diag.Severity, banner)
	}
	fmt.Fprintln(d.Out, banner)

	if unit != nil && !diag.Span.Zero() {
		line := unit.Line(diag.Span.Line)
		fmt.Fprintf(d.Out, "  --> %s:%d:%d\n", unit.Path, diag.Span.Line, diag.Span.ColumnStart)
		fmt.Fprintf(d.Out, "  %s\n", line)
		width := diag.Span.ColumnEnd - diag.Span.ColumnStart
		if width == 0 {
			width = 1
		}
		caretPad := strings.Repeat(" ", int(diag.Span.ColumnStart)+2)
		carets := strings.Repeat("^", int(width))
		fmt.Fprintf(d.Out, "%s%s\n", caretPad, carets)
	}

	if diag.Hint != "" {
		fmt.Fprintf(d.Out, "  hint: %s\n", diag.Hint)
	}
}

func colorize(sev Severity, s string) string {
	const (
		red    = "\x1b[31m"
		yellow = "\x1b[33m"
		magenta = "\x1b[35m"
		reset  = "\x1b[0m"
	)
	switch sev {
	case SeverityError:
		return red + s + reset
	case SeverityBug:
		return magenta + s + reset
	default:
		return yellow + s + reset
	}
}
