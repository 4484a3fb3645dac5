// Package pipeline orchestrates one source unit through every front-end
// stage in the strict order spec.md §5 requires: lex, parse, attribute
// check, calling-convention check, semantic analysis, type resolution,
// type check, codegen handoff. Each stage observes the complete output of
// the previous one; a stage that reports errors stops the unit and lets
// the caller move on to the next one. There is no worker pool: units are
// compiled one at a time, synchronously, on the calling goroutine.
package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/thrushlang/thrushc/internal/artifacts"
	"github.com/thrushlang/thrushc/internal/attrs"
	"github.com/thrushlang/thrushc/internal/callconv"
	"github.com/thrushlang/thrushc/internal/codegen"
	"github.com/thrushlang/thrushc/internal/config"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/lexer"
	"github.com/thrushlang/thrushc/internal/parser"
	"github.com/thrushlang/thrushc/internal/resolver"
	"github.com/thrushlang/thrushc/internal/semantic"
	"github.com/thrushlang/thrushc/internal/source"
	"github.com/thrushlang/thrushc/internal/typecheck"
)

// Pipeline holds everything a unit compile needs beyond the unit itself:
// the target backend, the artifact manifest, and the diagnostician used to
// render whatever a stage reports.
type Pipeline struct {
	Backend      codegen.Backend
	Store        *artifacts.Store
	Diagnostician *diagnostics.Diagnostician
	Options      config.BackendOptions
	RunID        string
}

// New returns a Pipeline ready to compile units, stamping a fresh run ID
// into store when store is non-nil.
func New(backend codegen.Backend, store *artifacts.Store, diag *diagnostics.Diagnostician, opts config.BackendOptions) (*Pipeline, error) {
	p := &Pipeline{Backend: backend, Store: store, Diagnostician: diag, Options: opts}
	if store != nil {
		runID, err := store.BeginRun(opts)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		p.RunID = runID
	}
	return p, nil
}

// CompileUnit runs one unit through the full front end and, if every stage
// passes, hands the validated AST to the backend. It always returns a
// config.UnitResult; Err is nil only on a full, clean compile.
func (p *Pipeline) CompileUnit(path string) config.UnitResult {
	result := config.UnitResult{Path: path}

	unit, err := source.Load(path)
	if err != nil {
		result.Err = err
		return result
	}

	tokens, bag := lexer.Lex(unit)
	if bag.HasErrors() {
		p.flush(unit, bag)
		result.Err = fmt.Errorf("%s: lexical errors", unit.Name)
		return result
	}

	ctx, hadErrors := parser.Parse(tokens, unit)
	if hadErrors {
		p.flush(unit, ctx.Bag)
		result.Err = fmt.Errorf("%s: syntax errors", unit.Name)
		return result
	}

	attrBag := diagnostics.NewBag()
	attrs.New(attrBag).Check(ctx.Program)
	if attrBag.HasErrors() {
		p.flush(unit, attrBag)
		result.Err = fmt.Errorf("%s: attribute errors", unit.Name)
		return result
	}

	convBag := diagnostics.NewBag()
	callconv.New(convBag, archFromTarget(p.Options.Target)).Check(ctx.Program)
	if convBag.HasErrors() {
		p.flush(unit, convBag)
		result.Err = fmt.Errorf("%s: calling-convention errors", unit.Name)
		return result
	}

	semBag := diagnostics.NewBag()
	hadSemErrors := semantic.New(semBag).Start(ctx.Program)
	// Warnings never block a compile; still surface whatever the analyzer
	// recorded, errors or not.
	if len(semBag.Items()) > 0 {
		p.flush(unit, semBag)
	}
	if hadSemErrors {
		result.Err = fmt.Errorf("%s: semantic errors", unit.Name)
		return result
	}

	resolver.New(ctx.Table).Resolve(ctx.Program)

	typeBag := diagnostics.NewBag()
	hadTypeErrors := typecheck.New(typeBag, ctx.Table).CheckProgram(ctx.Program)
	if hadTypeErrors {
		p.flush(unit, typeBag)
		result.Err = fmt.Errorf("%s: type errors", unit.Name)
		return result
	}

	if p.Backend == nil {
		result.Err = codegen.ErrNoBackend
		return result
	}

	genResult, err := p.Backend.Compile(unit, ctx.Program, p.Options)
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", unit.Name, err)
		return result
	}
	result.ObjectPath = genResult.ObjectPath

	if p.Store != nil {
		emitted := map[artifacts.Kind]string{
			artifacts.KindObject:      genResult.ObjectPath,
			artifacts.KindLLVMIR:      genResult.LLVMIRPath,
			artifacts.KindLLVMBitcode: genResult.BitcodePath,
			artifacts.KindAssembler:   genResult.AssemblyPath,
		}
		for kind, path := range emitted {
			if path == "" {
				continue
			}
			var size int64
			if info, statErr := os.Stat(path); statErr == nil {
				size = info.Size()
			}
			if err := p.Store.RecordArtifact(p.RunID, unit.Name, kind, path, size); err != nil {
				result.Err = err
				return result
			}
		}
	}

	return result
}

// CompileAll compiles every path in order, continuing past a failing unit
// so that one bad file does not hide errors in the rest.
func (p *Pipeline) CompileAll(paths []string) []config.UnitResult {
	results := make([]config.UnitResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, p.CompileUnit(path))
	}
	return results
}

func (p *Pipeline) flush(unit *source.Unit, bag *diagnostics.Bag) {
	if p.Diagnostician != nil {
		p.Diagnostician.Flush(unit, bag)
	}
}

// archFromTarget maps a target triple (or bare arch name) to the
// calling-convention checker's architecture family. An empty target means
// the host; this front end assumes an x86_64 host, matching the CLI's
// documented default.
func archFromTarget(target string) callconv.Arch {
	t := strings.ToLower(target)
	switch {
	case t == "":
		return callconv.ArchX86_64
	case strings.Contains(t, "aarch64") || strings.Contains(t, "arm64"):
		return callconv.ArchAArch64
	case strings.Contains(t, "arm"):
		return callconv.ArchARM
	case strings.Contains(t, "x86_64") || strings.Contains(t, "amd64"):
		return callconv.ArchX86_64
	case strings.Contains(t, "i386") || strings.Contains(t, "i686") || strings.Contains(t, "x86"):
		return callconv.ArchX86
	case strings.Contains(t, "riscv"):
		return callconv.ArchRISCV
	case strings.Contains(t, "amdgcn") || strings.Contains(t, "amdgpu"):
		return callconv.ArchAMDGPU
	case strings.Contains(t, "wasm"):
		return callconv.ArchWasm
	default:
		return callconv.ArchX86_64
	}
}
