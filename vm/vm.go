package vm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"ipprun/trace"
	"ipprun/types"
)

// VM executes one parsed program against a single Memory instance.
// Execution is strictly sequential: every instruction runs to completion
// and the Memory is mutated only between fetches.
type VM struct {
	mem   *Memory
	prog  *Program
	out   io.Writer
	errw  io.Writer
	in    *bufio.Reader
	steps int64 // executed instruction count, reported by BREAK
}

// NewVM creates a VM over a program and its three streams. Tests inject
// byte buffers; the CLI passes the configured input file and the standard
// streams.
func NewVM(prog *Program, in io.Reader, out, errw io.Writer) *VM {
	return &VM{
		mem:  NewMemory(),
		prog: prog,
		out:  out,
		errw: errw,
		in:   bufio.NewReader(in),
	}
}

// Memory exposes the run's memory, for tests and the BREAK dump
func (vm *VM) Memory() *Memory {
	return vm.mem
}

// exitStop signals successful termination via EXIT. It travels as an error
// so instruction bodies stay uniform, and Run unwraps it into an exit code.
type exitStop struct {
	code int
}

func (e exitStop) Error() string {
	return fmt.Sprintf("exit with code %d", e.code)
}

// Run indexes labels, then drives the fetch/execute loop until the PC runs
// past the last instruction, EXIT executes, or an error aborts the run.
// The returned code is the process exit code; err is nil unless the run
// failed.
func (vm *VM) Run() (int, error) {
	if err := vm.indexLabels(); err != nil {
		return int(types.CodeOf(err)), err
	}
	for vm.mem.PC() < vm.prog.Len() {
		if err := vm.Step(); err != nil {
			var stop exitStop
			if errors.As(err, &stop) {
				return stop.code, nil
			}
			return int(types.CodeOf(err)), err
		}
	}
	return 0, nil
}

// Step fetches the instruction at the PC, advances the PC, and dispatches.
// Control-flow instructions overwrite the PC during exec; that write is
// final for the step.
func (vm *VM) Step() error {
	ins := &vm.prog.Instructions[vm.mem.PC()]
	vm.mem.SetPC(vm.mem.PC() + 1)
	vm.steps++

	info, ok := opcodes[ins.Opcode]
	if !ok {
		// The loader rejects unknown opcodes; reaching this is a bug.
		return types.NewError(types.E_INTERNAL, "no handler for opcode %s", ins.Opcode).At(ins.Opcode, ins.Order)
	}

	if trace.IsEnabled() {
		rendered := make([]string, len(ins.Args))
		for i := range ins.Args {
			rendered[i] = ins.Args[i].String()
		}
		trace.Instruction(ins.Order, ins.Opcode, rendered)
	}

	if err := info.exec(vm, ins); err != nil {
		var ie *types.Error
		if errors.As(err, &ie) {
			ie.At(ins.Opcode, ins.Order)
		}
		return err
	}
	return nil
}

// indexLabels walks the program in execution order and registers every
// LABEL definition before the first fetch. Duplicates abort the run here,
// before any instruction executes.
func (vm *VM) indexLabels() error {
	for i := range vm.prog.Instructions {
		ins := &vm.prog.Instructions[i]
		if ins.Opcode != OpLabel {
			continue
		}
		if err := vm.mem.DefineLabel(ins.Args[0].Name, i); err != nil {
			var ie *types.Error
			if errors.As(err, &ie) {
				ie.At(ins.Opcode, ins.Order)
			}
			return err
		}
	}
	return nil
}

// dumpState writes the engine state to the error stream for BREAK.
func (vm *VM) dumpState() {
	var b strings.Builder
	fmt.Fprintf(&b, "BREAK: pc=%d steps=%d\n", vm.mem.PC(), vm.steps)
	fmt.Fprintf(&b, "  data stack depth:  %d\n", vm.mem.DataDepth())
	fmt.Fprintf(&b, "  call stack depth:  %d\n", vm.mem.CallDepth())
	fmt.Fprintf(&b, "  frame stack depth: %d\n", vm.mem.FrameDepth())
	vm.dumpFrame(&b, FrameGlobal)
	vm.dumpFrame(&b, FrameLocal)
	vm.dumpFrame(&b, FrameTemp)
	fmt.Fprint(vm.errw, b.String())
}

func (vm *VM) dumpFrame(b *strings.Builder, tag FrameTag) {
	frame, err := vm.mem.Frame(tag)
	if err != nil {
		fmt.Fprintf(b, "  %s: absent\n", tag)
		return
	}
	fmt.Fprintf(b, "  %s (%d):\n", tag, frame.Len())
	for _, name := range frame.Names() {
		v, _ := frame.Read(name)
		if types.IsUninit(v) {
			fmt.Fprintf(b, "    %s = <uninitialized>\n", name)
			continue
		}
		fmt.Fprintf(b, "    %s = %s@%s\n", name, v.Type(), v)
	}
}
