package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"ipprun/parser"
	"ipprun/trace"
	"ipprun/types"
	"ipprun/vm"
)

type config struct {
	sourcePath  string
	inputPath   string
	help        bool
	traceOn     bool
	traceFilter string
}

func main() {
	os.Exit(run())
}

func run() int {
	flags := pflag.NewFlagSet("ipprun", pflag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	var cfg config
	flags.StringVar(&cfg.sourcePath, "source", "", "Path to the XML program (stdin if omitted)")
	flags.StringVar(&cfg.inputPath, "input", "", "Path to the runtime input (stdin if omitted)")
	flags.BoolVar(&cfg.help, "help", false, "Print usage and exit")
	flags.BoolVar(&cfg.traceOn, "trace", false, "Enable execution tracing to stderr")
	flags.StringVar(&cfg.traceFilter, "trace-filter", "", "Trace filter patterns (glob over opcodes, comma-separated)")

	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", types.E_PARAM.Message(), err)
		return int(types.E_PARAM)
	}

	if cfg.help {
		if flags.NFlag() > 1 || flags.NArg() > 0 {
			fmt.Fprintln(os.Stderr, "--help cannot be combined with other parameters")
			return int(types.E_PARAM)
		}
		fmt.Println("Usage: ipprun [--source=FILE] [--input=FILE] [--trace] [--trace-filter=GLOB]")
		fmt.Println()
		fmt.Println("Interprets an IPPcode23 program serialized as XML. At least one of")
		fmt.Println("--source and --input must be given; the other defaults to stdin.")
		fmt.Println()
		flags.PrintDefaults()
		return 0
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument %q\n", flags.Arg(0))
		return int(types.E_PARAM)
	}
	if cfg.sourcePath == "" && cfg.inputPath == "" {
		fmt.Fprintln(os.Stderr, "at least one of --source and --input is required")
		return int(types.E_PARAM)
	}

	var filters []string
	if cfg.traceFilter != "" {
		filters = strings.Split(cfg.traceFilter, ",")
		for i := range filters {
			filters[i] = strings.TrimSpace(filters[i])
		}
	}
	trace.Init(cfg.traceOn, filters, os.Stderr)

	source, err := openStream(cfg.sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open source file: %v\n", err)
		return int(types.E_INPUT)
	}
	defer source.Close()

	input, err := openStream(cfg.inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open input file: %v\n", err)
		return int(types.E_INPUT)
	}
	defer input.Close()

	prog, err := parser.Parse(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return int(types.CodeOf(err))
	}

	out := bufio.NewWriter(os.Stdout)
	machine := vm.NewVM(prog, input, out, os.Stderr)
	code, err := machine.Run()
	out.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return code
}

// openStream opens a file, or hands back stdin for an empty path.
func openStream(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
