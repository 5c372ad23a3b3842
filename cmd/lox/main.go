// Command lox is the CLI front end of spec.md §6: a REPL with zero
// arguments, file execution with one, and a strict 64 exit status for
// anything else.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/loxscript/lox/internal/config"
	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/logging"
	"github.com/loxscript/lox/internal/natives"
	"github.com/loxscript/lox/internal/vm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("lox", flag.ContinueOnError)
	disassemble := fs.Bool("disassemble", false, "print each chunk's disassembly before running it")
	trace := fs.Bool("trace", false, "trace every executed instruction to stderr")
	gcStress := fs.Bool("gc-stress", false, "collect garbage before every allocation")
	configPath := fs.String("config", ".loxrc.toml", "path to the TOML config file")
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 64
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: %s\n", err)
		return 64
	}
	if *gcStress {
		cfg.GCStress = true
	}

	logging.Configure(logVerbosity(cfg.LogLevel))
	gcLog := logging.New("gc")
	vmLog := logging.New("vm")

	colorize := cfg.Color && isatty.IsTerminal(os.Stdout.Fd())
	out := termenv.NewOutput(os.Stdout)

	heap := gc.NewHeap(cfg.HeapGrowFactor, cfg.InitialHeapBytes)
	heap.SetStress(cfg.GCStress)
	heap.OnCollect(func(before, after, next int64) {
		gcLog.Debugf("gc: %s -> %s, next at %s",
			natives.FormatBytes(before), natives.FormatBytes(after), natives.FormatBytes(next))
	})

	machine := vm.New(heap,
		vm.WithStackSlots(cfg.StackSlots),
		vm.WithMaxFrames(cfg.MaxFrames),
		vm.WithTrace(*trace),
		vm.WithLogger(vmLog),
		vm.WithStdout(func(s string) { fmt.Fprint(os.Stdout, s) }),
		vm.WithStderr(func(s string) { writeErr(out, colorize, s) }),
	)
	natives.Install(machine)

	rest := fs.Args()
	switch len(rest) {
	case 0:
		return runREPL(machine, out, colorize)
	case 1:
		return runFile(machine, rest[0], *disassemble)
	default:
		fmt.Fprintln(os.Stderr, "Usage: lox [script]")
		return 64
	}
}

// writeErr renders one error write to stderr, colorizing per
// SPEC_FULL.md §4.3: red for the error message itself, yellow for a
// `[line N] ...` stack-trace annotation. vm.stderr is called once per
// line (see internal/vm/errors.go, internal/vm/vm.go), but split on "\n"
// anyway so a multi-line write still colors each line correctly.
func writeErr(out *termenv.Output, colorize bool, s string) {
	if !colorize {
		fmt.Fprint(os.Stderr, s)
		return
	}
	lines := strings.SplitAfter(s, "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		color := out.Color("9")
		if strings.HasPrefix(line, "[line ") {
			color = out.Color("11")
		}
		fmt.Fprint(os.Stderr, out.String(line).Foreground(color).String())
	}
}

func logVerbosity(level string) int {
	switch level {
	case "debug":
		return 2
	case "notice":
		return 1
	default:
		return 0
	}
}

// runREPL implements spec.md §6's "line-delimited, one compile+run per
// line, shared VM state across lines" REPL, exiting cleanly on EOF.
func runREPL(machine *vm.VM, out *termenv.Output, colorize bool) int {
	prompt := "> "
	if colorize {
		prompt = out.String(prompt).Faint().String()
	}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		machine.Interpret(scanner.Text())
	}
}

// runFile implements spec.md §6's "one argument executes that file and
// exits", mapping the interpret outcome to exit codes 0/65/70, and I/O
// failures opening or reading the file to 74.
func runFile(machine *vm.VM, path string, disassemble bool) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: can't read file '%s': %s\n", path, err)
		return 74
	}

	if disassemble {
		machine.SetDisassemble(true)
	}

	switch machine.Interpret(string(source)) {
	case vm.StatusOK:
		return 0
	case vm.StatusCompileError:
		return 65
	default:
		return 70
	}
}
