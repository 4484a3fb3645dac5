package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/pflag"
)

// CompileRequest is what BuildBackendOptionsFromFlags hands back: the
// resolved source files plus the BackendOptions they should be compiled
// with.
type CompileRequest struct {
	Files   []string
	Options BackendOptions
	// Clean lists the artifact kinds (e.g. "tokens", "objects") the
	// invocation's --clean-* flags requested be removed before compiling.
	Clean []string
}

// BuildBackendOptionsFromFlags parses command-line flags and resolves the
// source-file arguments (expanding any glob patterns with doublestar) into
// a CompileRequest.
func BuildBackendOptionsFromFlags(args []string) (*CompileRequest, error) {
	fs := pflag.NewFlagSet("thrushc", pflag.ContinueOnError)
	fs.Usage = func() { PrintUsage(fs) }

	target := fs.String("target", "", "target triple (default: host)")
	cpu := fs.String("cpu", "", "target CPU")
	cpuFeatures := fs.StringSlice("cpu-features", nil, "target CPU feature list")
	opt := fs.String("opt", string(OptO0), "optimization level: O0, O1, O2, mcqueen")
	optPasses := fs.StringSlice("opt-passes", nil, "explicit LLVM optimization pass pipeline")
	modPasses := fs.StringSlice("modificator-passes", nil, "explicit LLVM modificator pass pipeline")
	reloc := fs.String("reloc", string(RelocDefault), "relocation model: default, static, pic, dynamic-no-pic")
	codeModel := fs.String("codemodel", string(CodeModelDefault), "code model: default, small, kernel, medium, large")
	emitIR := fs.Bool("emit-llvm-ir", false, "emit LLVM IR alongside the object file")
	emitBitcode := fs.Bool("emit-llvm-bitcode", false, "emit LLVM bitcode alongside the object file")
	emitAsm := fs.Bool("emit-assembler", false, "emit target assembly alongside the object file")
	buildDir := fs.String("build-dir", "build", "output directory for emitted artifacts")

	cleanTokens := fs.Bool("clean-tokens", false, "remove previously emitted token dumps for these units")
	cleanAssembler := fs.Bool("clean-assembler", false, "remove previously emitted assembly files for these units")
	cleanLLVMIR := fs.Bool("clean-llvm-ir", false, "remove previously emitted LLVM IR files for these units")
	cleanLLVMBitcode := fs.Bool("clean-llvm-bitcode", false, "remove previously emitted LLVM bitcode files for these units")
	cleanObjects := fs.Bool("clean-objects", false, "remove previously emitted object files for these units")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return nil, flag.ErrHelp
	}

	files, err := expandTargets(fs.Args())
	if err != nil {
		return nil, fmt.Errorf("resolving source files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files found to compile")
	}

	req := &CompileRequest{
		Files: files,
		Options: BackendOptions{
			Target:            *target,
			CPU:               *cpu,
			CPUFeatures:       *cpuFeatures,
			Opt:               OptLevel(*opt),
			OptPasses:         *optPasses,
			ModificatorPasses: *modPasses,
			Reloc:             RelocModel(*reloc),
			CodeModel:         CodeModel(*codeModel),
			EmitLLVMIR:        *emitIR,
			EmitBitcode:       *emitBitcode,
			EmitAssembly:      *emitAsm,
			BuildDir:          *buildDir,
		},
	}

	if *cleanTokens {
		req.Clean = append(req.Clean, "tokens")
	}
	if *cleanAssembler {
		req.Clean = append(req.Clean, "assembler")
	}
	if *cleanLLVMIR {
		req.Clean = append(req.Clean, "llvm-ir")
	}
	if *cleanLLVMBitcode {
		req.Clean = append(req.Clean, "llvm-bitcode")
	}
	if *cleanObjects {
		req.Clean = append(req.Clean, "objects")
	}

	return req, nil
}

// expandTargets resolves each positional argument, which may be a literal
// file path or a doublestar glob pattern (`src/**/*.th`), into a flat,
// de-duplicated list of file paths.
func expandTargets(args []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			// A file that does not exist or cannot be read is reported and
			// skipped, not a fatal error for the whole invocation.
			if _, err := os.Stat(arg); err != nil {
				fmt.Fprintf(os.Stderr, "skipping %q: %v\n", arg, err)
				continue
			}
			if !seen[arg] {
				seen[arg] = true
				files = append(files, arg)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("expanding glob %q: %w", arg, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}
