// Package callconv validates @convention(name) attributes on functions and
// intrinsics against the target architecture, per spec.md §4.7. Grounded on
// _examples/original_source/middle_end/llvm/callconventions_checker.rs,
// which enumerates convention validity per architecture family.
package callconv

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/token"
)

// Arch identifies the target architecture family the conventions are
// validated against.
type Arch int

const (
	ArchX86 Arch = iota
	ArchX86_64
	ArchARM
	ArchAArch64
	ArchRISCV
	ArchAMDGPU
	ArchWasm
)

// conventions lists every convention name valid for each architecture
// family. A convention not listed for the current arch is a mismatch.
var conventions = map[Arch]map[string]bool{
	ArchX86: {
		"C": true, "Stdcall": true, "Fastcall": true, "Cdecl": true, "Thiscall": true, "Vectorcall": true,
	},
	ArchX86_64: {
		"C": true, "SysV64": true, "Win64": true, "Vectorcall": true, "Cdecl": true,
	},
	ArchARM: {
		"C": true, "ARMAAPCS": true, "ARMAAPCSVFP": true,
	},
	ArchAArch64: {
		"C": true, "AArch64VectorCall": true, "AArch64SVEVectorCall": true,
	},
	ArchRISCV: {
		"C": true, "RISCVVectorCall": true,
	},
	ArchAMDGPU: {
		"AMDGPUKernel": true, "AMDGPUCS": true, "AMDGPUVS": true, "AMDGPUGS": true,
		"AMDGPUPS": true, "AMDGPUHS": true,
	},
	ArchWasm: {
		"C": true, "Wasm": true,
	},
}

// Checker validates @convention attributes against Target.
type Checker struct {
	Target Arch
	bag    *diagnostics.Bag
}

// New returns a Checker targeting arch, recording violations into bag.
func New(bag *diagnostics.Bag, arch Arch) *Checker { return &Checker{Target: arch, bag: bag} }

// Check walks every function/intrinsic/assembler-function declaration in
// program and validates its @convention attribute, if any.
func (c *Checker) Check(program *ast.Program) {
	for _, decl := range program.Declarations {
		switch d := decl.(type) {
		case *ast.Function:
			c.checkAttrs(d.Attributes)
		case *ast.Intrinsic:
			c.checkAttrs(d.Attributes)
		case *ast.AssemblerFunction:
			c.checkAttrs(d.Attributes)
		}
	}
}

func (c *Checker) checkAttrs(list []ast.Attribute) {
	for _, a := range list {
		if a.Kind != token.AttrConvention {
			continue
		}
		allowed := conventions[c.Target]
		if allowed == nil || !allowed[a.Convention] {
			c.bag.Error(diagnostics.ECallConvMismatch, a.Span,
				"calling convention '"+a.Convention+"' is not valid for the current architecture")
		}
	}
}
