// Package config loads environment-driven defaults and represents the
// backend options threaded unmodified through to the codegen handoff
// interface: the front end never interprets optimization pass names or
// target details, only carries them.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds process-wide defaults loaded from the environment, the same
// way the rest of the corpus loads its own prefixed env vars.
type Config struct {
	BuildDir            string
	ClangPath           string
	DefaultTargetTriple string
	MaxParallelUnits    int
}

// Load reads a .env file if present (ignoring its absence) and then
// THRUSHC_* environment variables, filling in hardcoded fallbacks for
// anything left unset.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		BuildDir:         "build",
		ClangPath:        "clang",
		MaxParallelUnits: 1,
	}

	if v := os.Getenv("THRUSHC_BUILD_DIR"); v != "" {
		cfg.BuildDir = v
	}
	if v := os.Getenv("THRUSHC_CLANG_PATH"); v != "" {
		cfg.ClangPath = v
	}
	if v := os.Getenv("THRUSHC_TARGET_TRIPLE"); v != "" {
		cfg.DefaultTargetTriple = v
	}
	if v := os.Getenv("THRUSHC_MAX_PARALLEL_UNITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxParallelUnits = n
		}
	}

	return cfg
}

// OptLevel enumerates the optimization levels accepted by `--opt`, carried
// verbatim to the codegen interface.
type OptLevel string

const (
	OptO0      OptLevel = "O0"
	OptO1      OptLevel = "O1"
	OptO2      OptLevel = "O2"
	OptMcQueen OptLevel = "mcqueen"
)

// RelocModel and CodeModel mirror the LLVM reloc/code-model flags the
// original CLI exposes (`--reloc`, `--codemodel`).
type RelocModel string
type CodeModel string

const (
	RelocDefault      RelocModel = "default"
	RelocStatic       RelocModel = "static"
	RelocPIC          RelocModel = "pic"
	RelocDynamicNoPIC RelocModel = "dynamic-no-pic"

	CodeModelDefault CodeModel = "default"
	CodeModelSmall   CodeModel = "small"
	CodeModelKernel  CodeModel = "kernel"
	CodeModelMedium  CodeModel = "medium"
	CodeModelLarge   CodeModel = "large"
)

// BackendOptions is the full set of codegen-affecting flags the CLI
// accepts and the pipeline forwards unmodified to internal/codegen.
type BackendOptions struct {
	Target            string // target triple, "" means host
	CPU               string
	CPUFeatures       []string
	Opt               OptLevel
	OptPasses         []string
	ModificatorPasses []string
	Reloc             RelocModel
	CodeModel         CodeModel
	EmitLLVMIR        bool
	EmitBitcode       bool
	EmitAssembly      bool
	BuildDir          string
}

// Default returns the BackendOptions matching the CLI's documented
// defaults: host target, O0, default reloc/codemodel.
func Default() BackendOptions {
	return BackendOptions{
		Opt:       OptO0,
		Reloc:     RelocDefault,
		CodeModel: CodeModelDefault,
		BuildDir:  "build",
	}
}
