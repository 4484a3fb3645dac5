package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearConfigEnvVars() {
	os.Unsetenv("THRUSHC_BUILD_DIR")
	os.Unsetenv("THRUSHC_CLANG_PATH")
	os.Unsetenv("THRUSHC_TARGET_TRIPLE")
	os.Unsetenv("THRUSHC_MAX_PARALLEL_UNITS")
}

func TestLoad_DefaultValues(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	cfg := Load()

	assert.Equal(t, "build", cfg.BuildDir)
	assert.Equal(t, "clang", cfg.ClangPath)
	assert.Equal(t, "", cfg.DefaultTargetTriple)
	assert.Equal(t, 1, cfg.MaxParallelUnits)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("THRUSHC_BUILD_DIR", "out")
	os.Setenv("THRUSHC_CLANG_PATH", "/usr/bin/clang-18")
	os.Setenv("THRUSHC_TARGET_TRIPLE", "x86_64-unknown-linux-gnu")
	os.Setenv("THRUSHC_MAX_PARALLEL_UNITS", "4")

	cfg := Load()

	assert.Equal(t, "out", cfg.BuildDir)
	assert.Equal(t, "/usr/bin/clang-18", cfg.ClangPath)
	assert.Equal(t, "x86_64-unknown-linux-gnu", cfg.DefaultTargetTriple)
	assert.Equal(t, 4, cfg.MaxParallelUnits)
}

func TestLoad_IgnoresInvalidMaxParallelUnits(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("THRUSHC_MAX_PARALLEL_UNITS", "not-a-number")
	cfg := Load()
	assert.Equal(t, 1, cfg.MaxParallelUnits)

	os.Setenv("THRUSHC_MAX_PARALLEL_UNITS", "-3")
	cfg = Load()
	assert.Equal(t, 1, cfg.MaxParallelUnits)
}

func TestDefaultBackendOptions(t *testing.T) {
	opts := Default()
	assert.Equal(t, OptO0, opts.Opt)
	assert.Equal(t, RelocDefault, opts.Reloc)
	assert.Equal(t, CodeModelDefault, opts.CodeModel)
	assert.Equal(t, "build", opts.BuildDir)
}
