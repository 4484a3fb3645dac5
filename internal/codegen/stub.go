package codegen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/config"
	"github.com/thrushlang/thrushc/internal/source"
)

// StubBackend satisfies Backend without lowering to real machine code: it
// writes placeholder files under opts.BuildDir so the rest of the pipeline
// (artifact bookkeeping, --clean-*, exit codes) can be exercised end to end
// before a real LLVM-backed Backend is wired in. The repository's
// original_source tree carries several parallel code generators; this
// front end talks to exactly one, through this interface.
type StubBackend struct {
	// Compiled lists the names of the units this backend has processed,
	// in order, for tests and diagnostics.
	Compiled []string
}

// NewStubBackend returns a ready-to-use StubBackend.
func NewStubBackend() *StubBackend {
	return &StubBackend{}
}

// Compile writes a placeholder object file (and any other emissions opts
// requests) under opts.BuildDir, named after unit.Name, and records it.
func (b *StubBackend) Compile(unit *source.Unit, validated *ast.Program, opts config.BackendOptions) (Result, error) {
	if validated == nil {
		return Result{}, fmt.Errorf("codegen: %s: nil validated AST", unit.Name)
	}

	buildDir := opts.BuildDir
	if buildDir == "" {
		buildDir = "build"
	}

	var result Result
	var err error

	if result.ObjectPath, err = b.emit(buildDir, "obj", unit.Name, "o", len(validated.Declarations)); err != nil {
		return Result{}, err
	}
	if opts.EmitLLVMIR {
		if result.LLVMIRPath, err = b.emit(buildDir, "ir", unit.Name, "ll", len(validated.Declarations)); err != nil {
			return Result{}, err
		}
	}
	if opts.EmitBitcode {
		if result.BitcodePath, err = b.emit(buildDir, "bc", unit.Name, "bc", len(validated.Declarations)); err != nil {
			return Result{}, err
		}
	}
	if opts.EmitAssembly {
		if result.AssemblyPath, err = b.emit(buildDir, "asm", unit.Name, "s", len(validated.Declarations)); err != nil {
			return Result{}, err
		}
	}

	b.Compiled = append(b.Compiled, unit.Name)
	return result, nil
}

func (b *StubBackend) emit(buildDir, subdir, unitName, ext string, declCount int) (string, error) {
	dir := filepath.Join(buildDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("codegen: creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.%s", unitName, ext))
	placeholder := fmt.Sprintf("; thrushc stub codegen output for %q (%d declarations)\n", unitName, declCount)
	if err := os.WriteFile(path, []byte(placeholder), 0o644); err != nil {
		return "", fmt.Errorf("codegen: writing %s: %w", path, err)
	}
	return path, nil
}
