// Package cmd wires the scriptlang CLI: a single cobra command taking
// `[-m MEMORY_LIMIT_MB] FILE [ARG...]`, following the same cobra
// package-per-command layout as cmd/dwscript/cmd even though this
// interpreter's external interface is a single invocation form rather than
// a run/lex/parse/fmt subcommand set.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/cwbudde/scriptlang/internal/eval"
	"github.com/cwbudde/scriptlang/internal/parser"
	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/sysapi"
)

var (
	memoryLimitMB int
	verbose       bool
	cpuProfile    string
)

var rootCmd = &cobra.Command{
	Use:           "scriptlang [-m MEMORY_LIMIT_MB] FILE [ARG...]",
	Short:         "Runs a script file",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScript,
}

func init() {
	rootCmd.Flags().IntVarP(&memoryLimitMB, "memory-limit-mb", "m", 0, "soft memory limit in MiB (1..2048)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic output to stderr")
	rootCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to the given path")
}

// Execute runs the root command and returns a non-nil error for any
// compilation/runtime failure, out-of-memory, or usage error — the
// caller maps that to exit code 1.
func Execute() error {
	return rootCmd.Execute()
}

func usageErrorf(format string, args ...any) error {
	err := fmt.Errorf("usage error: "+format, args...)
	fmt.Fprintln(os.Stderr, err)
	return err
}

func runScript(c *cobra.Command, args []string) error {
	if c.Flags().Changed("memory-limit-mb") && (memoryLimitMB < 1 || memoryLimitMB > 2048) {
		return usageErrorf("-m must be 1..2048, got %d", memoryLimitMB)
	}
	if memoryLimitMB != 0 {
		debug.SetMemoryLimit(int64(memoryLimitMB) * 1024 * 1024)
	}

	file := args[0]
	scriptArgs := args[1:]

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return usageErrorf("%v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return usageErrorf("%v", err)
		}
		defer pprof.StopCPUProfile()
	}

	source, err := os.ReadFile(file)
	if err != nil {
		return usageErrorf("%v", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "compiling %s\n", file)
	}

	prog, perrs := parser.ParseProgram(file, string(source))
	if len(perrs) > 0 {
		for _, pe := range perrs {
			fmt.Fprintln(os.Stderr, pe.Error())
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(perrs))
	}

	binder := eval.NewBinder(nil)
	bound, bindErr := binder.BindWithGlobals(prog, sysapi.Globals(scriptArgs))
	if bindErr != nil {
		fmt.Fprintln(os.Stderr, bindErr.Error())
		return bindErr
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "running %s\n", file)
	}

	evaluator := eval.NewEvaluator(bound, 0)
	_, exc, runErr := evaluator.Run(prog)
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr.Error())
		return runErr
	}
	if exc != nil {
		fmt.Fprintln(os.Stderr, renderException(exc))
		return fmt.Errorf("unhandled exception")
	}
	return nil
}

func renderException(exc *runtime.ExceptionValue) string {
	msg, err := exc.Payload.ToString()
	if err != nil {
		msg = "<unprintable exception payload>"
	}
	return msg + "\n" + exc.Trace.String()
}
