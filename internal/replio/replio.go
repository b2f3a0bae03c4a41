// Package replio is the line-stepper glue for the `tc debug` subcommand (spec
// §4.10). It attaches to a vm.VM's StepHook — one call per compiled
// statement, carrying its entry in the chunk's debug-span table — and drives a breakpoint/step
// command loop over it, in the teacher's internal/vm/debugger.go and
// debugger_cli.go style: a Debugger holding breakpoint state plus a mode,
// and a blocking onStep callback that reads commands until told to resume.
//
// Unlike the teacher's stack-machine debugger, this VM has no explicit call
// frames or locals array to inspect mid-step (spec §4.2's memory manager owns
// that state keyed by frame ID), so this is deliberately a source-level line
// stepper rather than a full register/stack inspector: it stops, prints
// location, and resumes on command.
package replio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/technetium-lang/technetium/internal/object"
	"github.com/technetium-lang/technetium/internal/vm"
)

// mode is the debugger's current run mode between stops.
type mode int

const (
	modeRun mode = iota
	modeStep
	modeContinue
)

// Breakpoint is a source location that should stop execution.
type Breakpoint struct {
	File string
	Line int
}

// Debugger is a line-stepper attached to a VM via its StepHook.
type Debugger struct {
	v    *vm.VM
	mode mode

	breakpoints map[string]map[int]*Breakpoint

	lastFile string
	lastLine int

	sources map[string][]string // file -> lines, loaded lazily for display

	scanner *bufio.Scanner
	input   io.Reader
	output  io.Writer

	// ansi controls cursor-highlighted location output; set from go-isatty's
	// IsTerminal check on output so redirected output gets a plain transcript
	// instead of escape codes, matching the teacher's terminal-capability gate.
	ansi bool
}

// New creates a Debugger over v. Output defaults to os.Stdout, Input to
// os.Stdin; use SetInput/SetOutput to redirect (tests, pipes).
func New(v *vm.VM) *Debugger {
	d := &Debugger{
		v:           v,
		mode:        modeStep,
		breakpoints: make(map[string]map[int]*Breakpoint),
		sources:     make(map[string][]string),
		input:       os.Stdin,
		output:      os.Stdout,
	}
	d.detectANSI()
	return d
}

func (d *Debugger) SetInput(r io.Reader) {
	d.input = r
	d.scanner = bufio.NewScanner(r)
}

func (d *Debugger) SetOutput(w io.Writer) {
	d.output = w
	d.detectANSI()
}

func (d *Debugger) detectANSI() {
	f, ok := d.output.(*os.File)
	d.ansi = ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Attach installs this Debugger as v's StepHook. Detaching is done by setting
// v.StepHook back to nil directly; Debugger keeps no other VM-side state.
func (d *Debugger) Attach() {
	if d.scanner == nil {
		d.scanner = bufio.NewScanner(d.input)
	}
	d.v.StepHook = d.onStep
}

// SetBreakpoint records a breakpoint at file:line.
func (d *Debugger) SetBreakpoint(file string, line int) *Breakpoint {
	if d.breakpoints[file] == nil {
		d.breakpoints[file] = make(map[int]*Breakpoint)
	}
	bp := &Breakpoint{File: file, Line: line}
	d.breakpoints[file][line] = bp
	return bp
}

func (d *Debugger) RemoveBreakpoint(file string, line int) {
	if d.breakpoints[file] != nil {
		delete(d.breakpoints[file], line)
		if len(d.breakpoints[file]) == 0 {
			delete(d.breakpoints, file)
		}
	}
}

func (d *Debugger) hasBreakpoint(file string, line int) bool {
	m := d.breakpoints[file]
	return m != nil && m[line] != nil
}

// onStep is the vm.VM.StepHook: called synchronously, once per statement,
// from inside vm.execute. Blocking here blocks the running program, which is
// exactly a debugger stop.
func (d *Debugger) onStep(frame object.FrameId, span object.Span) {
	line := d.lineOf(span)
	d.lastFile, d.lastLine = span.File, line

	stop := d.mode == modeStep || (d.mode == modeContinue && d.hasBreakpoint(span.File, line))
	if !stop {
		return
	}

	d.printLocation(span.File, line)
	d.commandLoop()
}

// lineOf converts a span's byte offset into a 1-based line number by loading
// and caching the file's contents. Files that can't be read (e.g. "<repl>")
// fall back to line 0.
func (d *Debugger) lineOf(span object.Span) int {
	lines, ok := d.sources[span.File]
	if !ok {
		data, err := os.ReadFile(span.File)
		if err == nil {
			lines = strings.Split(string(data), "\n")
		}
		d.sources[span.File] = lines
	}
	if lines == nil {
		return 0
	}
	offset := 0
	for i, l := range lines {
		next := offset + len(l) + 1
		if span.Start < next {
			return i + 1
		}
		offset = next
	}
	return len(lines)
}

func (d *Debugger) printLocation(file string, line int) {
	text := ""
	if lines := d.sources[file]; line > 0 && line <= len(lines) {
		text = strings.TrimRight(lines[line-1], "\r")
	}
	if d.ansi {
		fmt.Fprintf(d.output, "\x1b[36m%s:%d\x1b[0m  %s\n", file, line, text)
	} else {
		fmt.Fprintf(d.output, "%s:%d  %s\n", file, line, text)
	}
}

// commandLoop reads debugger commands until one resumes execution
// (continue/step), returning control to onStep and, through it, to execute.
func (d *Debugger) commandLoop() {
	for {
		fmt.Fprint(d.output, "(tc) ")
		if !d.scanner.Scan() {
			fmt.Fprintln(d.output, "\nexiting (EOF)")
			os.Exit(0)
		}
		fields := strings.Fields(strings.TrimSpace(d.scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "continue", "c":
			d.mode = modeContinue
			return
		case "step", "s":
			d.mode = modeStep
			return
		case "break", "b":
			d.handleBreak(fields[1:])
		case "delete", "d":
			d.handleDelete(fields[1:])
		case "list", "l":
			d.handleList()
		case "where", "bt":
			d.printLocation(d.lastFile, d.lastLine)
		case "quit", "q":
			os.Exit(0)
		case "help", "h":
			d.printHelp()
		default:
			fmt.Fprintf(d.output, "unknown command: %s (try 'help')\n", fields[0])
		}
	}
}

func (d *Debugger) handleBreak(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.output, "usage: break <file>:<line>")
		return
	}
	file, line, ok := splitLoc(args[0])
	if !ok {
		fmt.Fprintln(d.output, "usage: break <file>:<line>")
		return
	}
	bp := d.SetBreakpoint(file, line)
	fmt.Fprintf(d.output, "breakpoint set at %s:%d\n", bp.File, bp.Line)
}

func (d *Debugger) handleDelete(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(d.output, "usage: delete <file>:<line>")
		return
	}
	file, line, ok := splitLoc(args[0])
	if !ok {
		fmt.Fprintln(d.output, "usage: delete <file>:<line>")
		return
	}
	d.RemoveBreakpoint(file, line)
	fmt.Fprintf(d.output, "breakpoint removed at %s:%d\n", file, line)
}

func (d *Debugger) handleList() {
	any := false
	for file, lines := range d.breakpoints {
		for line := range lines {
			fmt.Fprintf(d.output, "  %s:%d\n", file, line)
			any = true
		}
	}
	if !any {
		fmt.Fprintln(d.output, "no breakpoints set")
	}
}

func (d *Debugger) printHelp() {
	fmt.Fprint(d.output, `commands:
  continue, c             resume until next breakpoint
  step, s                 run the next statement, then stop again
  break, b <file>:<line>  set a breakpoint
  delete, d <file>:<line> remove a breakpoint
  list, l                 list breakpoints
  where, bt               show the current location
  quit, q                 exit
`)
}

// ParseLocation splits a "file:line" argument, as accepted by the break and
// delete commands and the `tc debug --break` flag.
func ParseLocation(s string) (file string, line int, ok bool) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return "", 0, false
	}
	return s[:i], n, true
}

func splitLoc(s string) (file string, line int, ok bool) { return ParseLocation(s) }
