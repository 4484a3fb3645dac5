// Command thrushc is the ahead-of-time Thrush compiler's front-end
// driver: it resolves source files from the command line, builds the
// backend options every unit is compiled with, and reports a summary
// once every unit has gone through the pipeline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thrushlang/thrushc/internal/artifacts"
	"github.com/thrushlang/thrushc/internal/codegen"
	"github.com/thrushlang/thrushc/internal/config"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/pipeline"
)

// version is stamped at release time; "dev" when built locally.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	lastExitCode = 0
	root := newRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		config.PrintFatal(err)
		return exitCodeFor(err)
	}
	return lastExitCode
}

// lastExitCode lets the compile command (which cobra only allows to return
// an error, not an int) communicate a precise exit status back to main.
var lastExitCode int

func newRootCommand() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:           "thrushc [flags] <file1> <file2|glob> ...",
		Short:         "Thrush ahead-of-time compiler front end",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args, cfg)
		},
	}
	root.DisableFlagParsing = true

	root.AddCommand(
		newVersionCommand(),
		newLLVMPrintTargetsCommand(),
		newLLVMPrintSupportedCPUsCommand(),
		newLLVMPrintHostTargetTripleCommand(),
		newLLVMPrintOptPassesCommand(),
	)

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the compiler version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(os.Stdout, "thrushc %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}

func newLLVMPrintTargetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "llvm-print-targets",
		Short: "List every LLVM target this build supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(os.Stdout, "x86_64, aarch64, arm, riscv64, amdgcn, wasm32")
			return nil
		},
	}
}

func newLLVMPrintSupportedCPUsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "llvm-print-supported-cpus",
		Short: "List CPUs recognized by the host target",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(os.Stdout, "generic, native")
			return nil
		},
	}
}

func newLLVMPrintHostTargetTripleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "llvm-print-host-target-triple",
		Short: "Print the host's default target triple",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(os.Stdout, hostTargetTriple())
			return nil
		},
	}
}

func newLLVMPrintOptPassesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "llvm-print-opt-passes",
		Short: "List the optimization passes each -opt level runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(os.Stdout, "O0: none\nO1: mem2reg,instcombine\nO2: mem2reg,instcombine,gvn,simplifycfg\nmcqueen: instcombine,loop-vectorize")
			return nil
		},
	}
}

func hostTargetTriple() string {
	switch runtime.GOARCH {
	case "arm64":
		return "aarch64-unknown-linux-gnu"
	case "amd64":
		return "x86_64-unknown-linux-gnu"
	default:
		return runtime.GOARCH + "-unknown-linux-gnu"
	}
}

// runCompile is the default command: parse flags, resolve source files,
// run every unit through the pipeline, and print a final summary.
func runCompile(cmd *cobra.Command, rawArgs []string, cfg *config.Config) error {
	req, err := config.BuildBackendOptionsFromFlags(rawArgs)
	if err != nil {
		lastExitCode = 2
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if req.Options.BuildDir == "" {
		req.Options.BuildDir = cfg.BuildDir
	}
	if req.Options.Target == "" {
		req.Options.Target = cfg.DefaultTargetTriple
	}

	manifestPath := filepath.Join(req.Options.BuildDir, "manifest.sqlite")
	store, err := artifacts.Open(manifestPath, false)
	if err != nil {
		lastExitCode = 1
		return err
	}
	defer store.Close()

	if len(req.Clean) > 0 {
		for _, kindName := range req.Clean {
			removed, err := store.Clean(artifacts.Kind(kindName))
			if err != nil {
				lastExitCode = 1
				return err
			}
			for _, path := range removed {
				fmt.Fprintf(os.Stdout, "removed %s\n", path)
			}
		}
	}

	diag := diagnostics.NewDiagnostician(os.Stderr, true)
	p, err := pipeline.New(codegen.NewStubBackend(), store, diag, req.Options)
	if err != nil {
		lastExitCode = 1
		return err
	}

	results := p.CompileAll(req.Files)
	config.PrintSummary(results)

	for _, r := range results {
		if r.Err != nil {
			lastExitCode = 1
			return nil
		}
	}
	lastExitCode = 0
	return nil
}

func exitCodeFor(err error) int {
	if lastExitCode != 0 {
		return lastExitCode
	}
	return 1
}
