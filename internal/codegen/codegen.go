// Package codegen defines the boundary the front end exposes to a code
// generator: a fully type-checked AST and a read-only view of the backend
// options go in, a path to a native object file (or a structured error)
// comes out. The front end never interprets optimization levels, target
// triples, or relocation models; it only carries them across this boundary.
package codegen

import (
	"fmt"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/config"
	"github.com/thrushlang/thrushc/internal/source"
)

// Backend compiles one fully validated unit into a native object file.
// validated is the AST after every front-end check has passed: attribute,
// calling-convention, semantic, and type checking all reported zero errors.
type Backend interface {
	Compile(unit *source.Unit, validated *ast.Program, opts config.BackendOptions) (Result, error)
}

// Result is what a Backend produces for one unit.
type Result struct {
	// ObjectPath is where the native object file was written.
	ObjectPath string
	// LLVMIRPath is non-empty when opts.EmitLLVMIR was set.
	LLVMIRPath string
	// BitcodePath is non-empty when opts.EmitBitcode was set.
	BitcodePath string
	// AssemblyPath is non-empty when opts.EmitAssembly was set.
	AssemblyPath string
}

// ErrNoBackend is returned by a Backend that was never configured with a
// real code generator (the front end ships with a stub only).
var ErrNoBackend = fmt.Errorf("codegen: no backend configured")
