// Package attrs validates the attribute lists parsed onto declarations:
// per-applicant legality and non-repetition, run independently of type
// checking so attribute errors never chain into misleading type errors.
package attrs

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/token"
)

// Applicant classifies which kind of declaration a list of attributes is
// attached to, since the legal attribute set and combination rules differ
// per applicant.
type Applicant int

const (
	ApplicantFunction Applicant = iota
	ApplicantAssemblerFunction
	ApplicantIntrinsic
	ApplicantConst
	ApplicantStatic
	ApplicantStruct
	ApplicantEnum
)

// Checker runs the attribute checker over a whole program.
type Checker struct {
	bag *diagnostics.Bag
}

// New returns a Checker that records violations into bag.
func New(bag *diagnostics.Bag) *Checker { return &Checker{bag: bag} }

// Check walks every declaration in program and validates its attribute list.
func (c *Checker) Check(program *ast.Program) {
	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.Function:
			c.checkFunction(d)
		case *ast.AssemblerFunction:
			c.checkRepetition(d.Attributes, ApplicantAssemblerFunction)
		case *ast.Intrinsic:
			c.checkRepetition(d.Attributes, ApplicantIntrinsic)
		case *ast.Const:
			c.checkGlobalOnlyPublic(d.Attributes, d.IsGlobal, ApplicantConst)
		case *ast.Static:
			c.checkGlobalOnlyPublic(d.Attributes, d.IsGlobal, ApplicantStatic)
		case *ast.Struct:
			c.checkRepetition(d.Attributes, ApplicantStruct)
		case *ast.Enum:
			c.checkRepetition(d.Attributes, ApplicantEnum)
		}
	}
}

// checkRepetition hashes each attribute's comparator tag (its Kind, since
// two `@convention(...)` attributes conflict regardless of argument) into a
// seen-set and reports the second-and-later occurrence of any tag.
func (c *Checker) checkRepetition(list []ast.Attribute, applicant Applicant) bool {
	seen := map[token.Kind]bool{}
	ok := true
	for _, a := range list {
		if seen[a.Kind] {
			c.bag.Error(diagnostics.EAttrRepeated, a.Span, "attribute "+a.Kind.String()+" is repeated")
			ok = false
			continue
		}
		seen[a.Kind] = true
	}
	return ok
}

func has(list []ast.Attribute, kind token.Kind) (ast.Attribute, bool) {
	for _, a := range list {
		if a.Kind == kind {
			return a, true
		}
	}
	return ast.Attribute{}, false
}

func (c *Checker) checkFunction(f *ast.Function) {
	if !c.checkRepetition(f.Attributes, ApplicantFunction) {
		// still continue: repetition doesn't block the combination checks
	}

	extern, hasExtern := has(f.Attributes, token.AttrExtern)
	_, hasPublic := has(f.Attributes, token.AttrPublic)
	ignore, hasIgnore := has(f.Attributes, token.AttrIgnore)
	alwaysInline, hasAlwaysInline := has(f.Attributes, token.AttrAlwaysInline)
	inline, hasInline := has(f.Attributes, token.AttrInline)
	noInline, hasNoInline := has(f.Attributes, token.AttrNoInline)

	if hasExtern && !hasPublic {
		c.bag.Error(diagnostics.EAttrConflict, extern.Span, "@extern implies @public; add @public explicitly")
	}
	if hasIgnore && !hasExtern {
		c.bag.Error(diagnostics.EAttrConflict, ignore.Span, "@ignore requires @extern")
	}
	if hasAlwaysInline && hasInline {
		c.bag.Error(diagnostics.EAttrConflict, alwaysInline.Span, "@alwaysinline and @inline are mutually exclusive")
	}
	if hasNoInline && (hasAlwaysInline || hasInline) {
		c.bag.Error(diagnostics.EAttrConflict, noInline.Span, "@noinline cannot combine with @alwaysinline or @inline")
	}
	if hasExtern && f.Body != nil {
		c.bag.Error(diagnostics.EAttrExternBody, extern.Span, "external functions cannot have a body")
	}
}

func (c *Checker) checkGlobalOnlyPublic(list []ast.Attribute, isGlobal bool, applicant Applicant) {
	c.checkRepetition(list, applicant)
	if isGlobal {
		return
	}
	if pub, ok := has(list, token.AttrPublic); ok {
		c.bag.Error(diagnostics.EAttrWrongTarget, pub.Span, "@public is not allowed on a local const/static")
	}
}
