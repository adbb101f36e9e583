package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"ipprun/parser"
	"ipprun/types"
	"ipprun/vm"
)

// runSource loads a program from XML and runs it over the given input,
// returning the captured streams and the exit code.
func runSource(t *testing.T, source, input string) (stdout, stderr string, exit int, err error) {
	t.Helper()
	prog, perr := parser.Parse(strings.NewReader(source))
	if perr != nil {
		t.Fatalf("Parse: %v", perr)
	}
	var out, errw bytes.Buffer
	machine := vm.NewVM(prog, strings.NewReader(input), &out, &errw)
	exit, err = machine.Run()
	return out.String(), errw.String(), exit, err
}

func TestHello(t *testing.T) {
	stdout, _, exit, err := runSource(t, `<program language="IPPcode23">
  <instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@x</arg1></instruction>
  <instruction order="2" opcode="MOVE"><arg1 type="var">GF@x</arg1><arg2 type="string">Hello</arg2></instruction>
  <instruction order="3" opcode="WRITE"><arg1 type="var">GF@x</arg1></instruction>
</program>`, "")
	if err != nil || exit != 0 {
		t.Fatalf("run: exit %d, %v", exit, err)
	}
	if stdout != "Hello" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestCallReturnOrder(t *testing.T) {
	stdout, _, exit, err := runSource(t, `<program language="IPPcode23">
  <instruction order="1" opcode="CALL"><arg1 type="label">l1</arg1></instruction>
  <instruction order="2" opcode="WRITE"><arg1 type="string">A</arg1></instruction>
  <instruction order="3" opcode="EXIT"><arg1 type="int">0</arg1></instruction>
  <instruction order="4" opcode="LABEL"><arg1 type="label">l1</arg1></instruction>
  <instruction order="5" opcode="WRITE"><arg1 type="string">B</arg1></instruction>
  <instruction order="6" opcode="RETURN"/>
</program>`, "")
	if err != nil || exit != 0 {
		t.Fatalf("run: exit %d, %v", exit, err)
	}
	if stdout != "BA" {
		t.Errorf("stdout = %q, expected BA", stdout)
	}
}

func TestLoopCountsDown(t *testing.T) {
	stdout, _, exit, err := runSource(t, `<program language="IPPcode23">
  <instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@i</arg1></instruction>
  <instruction order="2" opcode="MOVE"><arg1 type="var">GF@i</arg1><arg2 type="int">3</arg2></instruction>
  <instruction order="3" opcode="LABEL"><arg1 type="label">loop</arg1></instruction>
  <instruction order="4" opcode="JUMPIFEQ"><arg1 type="label">end</arg1><arg2 type="var">GF@i</arg2><arg3 type="int">0</arg3></instruction>
  <instruction order="5" opcode="WRITE"><arg1 type="var">GF@i</arg1></instruction>
  <instruction order="6" opcode="SUB"><arg1 type="var">GF@i</arg1><arg2 type="var">GF@i</arg2><arg3 type="int">1</arg3></instruction>
  <instruction order="7" opcode="JUMP"><arg1 type="label">loop</arg1></instruction>
  <instruction order="8" opcode="LABEL"><arg1 type="label">end</arg1></instruction>
</program>`, "")
	if err != nil || exit != 0 {
		t.Fatalf("run: exit %d, %v", exit, err)
	}
	if stdout != "321" {
		t.Errorf("stdout = %q, expected 321", stdout)
	}
}

func TestMoveRejectsUninitialized(t *testing.T) {
	_, _, exit, err := runSource(t, `<program language="IPPcode23">
  <instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@a</arg1></instruction>
  <instruction order="2" opcode="DEFVAR"><arg1 type="var">GF@b</arg1></instruction>
  <instruction order="3" opcode="MOVE"><arg1 type="var">GF@b</arg1><arg2 type="var">GF@a</arg2></instruction>
</program>`, "")
	if exit != int(types.E_MISSING_VALUE) {
		t.Errorf("exit = %d, %v", exit, err)
	}
}

func TestJumpIfChecksOperandsBeforeBranch(t *testing.T) {
	// The uninitialized operand is reported even though both operands
	// would compare unequal anyway.
	_, _, exit, _ := runSource(t, `<program language="IPPcode23">
  <instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@u</arg1></instruction>
  <instruction order="2" opcode="LABEL"><arg1 type="label">l</arg1></instruction>
  <instruction order="3" opcode="JUMPIFEQ"><arg1 type="label">l</arg1><arg2 type="var">GF@u</arg2><arg3 type="int">1</arg3></instruction>
</program>`, "")
	if exit != int(types.E_MISSING_VALUE) {
		t.Errorf("exit = %d, expected %d", exit, int(types.E_MISSING_VALUE))
	}
}

func TestTypeIsTotal(t *testing.T) {
	stdout, _, exit, err := runSource(t, `<program language="IPPcode23">
  <instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@u</arg1></instruction>
  <instruction order="2" opcode="DEFVAR"><arg1 type="var">GF@t</arg1></instruction>
  <instruction order="3" opcode="TYPE"><arg1 type="var">GF@t</arg1><arg2 type="var">GF@u</arg2></instruction>
  <instruction order="4" opcode="WRITE"><arg1 type="string">[</arg1></instruction>
  <instruction order="5" opcode="WRITE"><arg1 type="var">GF@t</arg1></instruction>
  <instruction order="6" opcode="WRITE"><arg1 type="string">]</arg1></instruction>
</program>`, "")
	if err != nil || exit != 0 {
		t.Fatalf("run: exit %d, %v", exit, err)
	}
	if stdout != "[]" {
		t.Errorf("stdout = %q, expected []", stdout)
	}
}

func TestErrorNamesOpcodeAndOrder(t *testing.T) {
	_, _, _, err := runSource(t, `<program language="IPPcode23">
  <instruction order="5" opcode="DEFVAR"><arg1 type="var">GF@r</arg1></instruction>
  <instruction order="6" opcode="IDIV"><arg1 type="var">GF@r</arg1><arg2 type="int">1</arg2><arg3 type="int">0</arg3></instruction>
</program>`, "")
	if err == nil {
		t.Fatal("run unexpectedly succeeded")
	}
	msg := err.Error()
	if !strings.Contains(msg, "IDIV") || !strings.Contains(msg, "order 6") {
		t.Errorf("diagnostic %q does not name the failing instruction", msg)
	}
}

func TestDuplicateLabelAbortsBeforeExecution(t *testing.T) {
	stdout, _, exit, _ := runSource(t, `<program language="IPPcode23">
  <instruction order="1" opcode="WRITE"><arg1 type="string">ran</arg1></instruction>
  <instruction order="2" opcode="LABEL"><arg1 type="label">l</arg1></instruction>
  <instruction order="3" opcode="LABEL"><arg1 type="label">l</arg1></instruction>
</program>`, "")
	if exit != int(types.E_SEMANTIC) {
		t.Errorf("exit = %d", exit)
	}
	if stdout != "" {
		t.Errorf("instructions ran before label preprocessing failed: %q", stdout)
	}
}

func TestLabelTableAfterPreprocessing(t *testing.T) {
	prog, err := parser.Parse(strings.NewReader(`<program language="IPPcode23">
  <instruction order="1" opcode="LABEL"><arg1 type="label">first</arg1></instruction>
  <instruction order="2" opcode="CREATEFRAME"/>
  <instruction order="3" opcode="LABEL"><arg1 type="label">second</arg1></instruction>
</program>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var out, errw bytes.Buffer
	machine := vm.NewVM(prog, strings.NewReader(""), &out, &errw)
	if _, err := machine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	labels := machine.Memory().Labels()
	if len(labels) != 2 {
		t.Fatalf("label table has %d entries", len(labels))
	}
	for name, index := range labels {
		if index < 0 || index >= prog.Len() {
			t.Errorf("label %s maps outside the program: %d", name, index)
		}
		if prog.Instructions[index].Opcode != vm.OpLabel {
			t.Errorf("label %s does not map to a LABEL instruction", name)
		}
	}
}

func TestPCIsTerminalAfterRun(t *testing.T) {
	prog, err := parser.Parse(strings.NewReader(`<program language="IPPcode23">
  <instruction order="1" opcode="CREATEFRAME"/>
  <instruction order="2" opcode="CREATEFRAME"/>
</program>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var out, errw bytes.Buffer
	machine := vm.NewVM(prog, strings.NewReader(""), &out, &errw)

	// Drive the loop by hand to observe the PC after each step
	for machine.Memory().PC() < prog.Len() {
		before := machine.Memory().PC()
		if err := machine.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
		after := machine.Memory().PC()
		if after < 0 || after > prog.Len() {
			t.Fatalf("PC %d outside [0, %d] after step at %d", after, prog.Len(), before)
		}
	}
	if machine.Memory().PC() != prog.Len() {
		t.Errorf("PC = %d, expected terminal %d", machine.Memory().PC(), prog.Len())
	}
}

func TestExitStopsExecution(t *testing.T) {
	stdout, _, exit, err := runSource(t, `<program language="IPPcode23">
  <instruction order="1" opcode="EXIT"><arg1 type="int">3</arg1></instruction>
  <instruction order="2" opcode="WRITE"><arg1 type="string">after</arg1></instruction>
</program>`, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exit != 3 {
		t.Errorf("exit = %d", exit)
	}
	if stdout != "" {
		t.Errorf("instructions after EXIT ran: %q", stdout)
	}
}

func TestDebugInstructions(t *testing.T) {
	stdout, stderr, exit, err := runSource(t, `<program language="IPPcode23">
  <instruction order="1" opcode="DPRINT"><arg1 type="int">42</arg1></instruction>
  <instruction order="2" opcode="BREAK"/>
  <instruction order="3" opcode="WRITE"><arg1 type="string">done</arg1></instruction>
</program>`, "")
	if err != nil || exit != 0 {
		t.Fatalf("run: exit %d, %v", exit, err)
	}
	if stdout != "done" {
		t.Errorf("debug output leaked to stdout: %q", stdout)
	}
	if !strings.Contains(stderr, "42") {
		t.Errorf("DPRINT output missing from stderr: %q", stderr)
	}
	if !strings.Contains(stderr, "BREAK") {
		t.Errorf("BREAK dump missing from stderr: %q", stderr)
	}
}

func TestPushsPopsRoundTrip(t *testing.T) {
	// Round-trip each value kind through the data stack
	stdout, _, exit, err := runSource(t, `<program language="IPPcode23">
  <instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@v</arg1></instruction>
  <instruction order="2" opcode="PUSHS"><arg1 type="int">-5</arg1></instruction>
  <instruction order="3" opcode="POPS"><arg1 type="var">GF@v</arg1></instruction>
  <instruction order="4" opcode="WRITE"><arg1 type="var">GF@v</arg1></instruction>
  <instruction order="5" opcode="PUSHS"><arg1 type="bool">false</arg1></instruction>
  <instruction order="6" opcode="POPS"><arg1 type="var">GF@v</arg1></instruction>
  <instruction order="7" opcode="WRITE"><arg1 type="var">GF@v</arg1></instruction>
  <instruction order="8" opcode="PUSHS"><arg1 type="string">s</arg1></instruction>
  <instruction order="9" opcode="POPS"><arg1 type="var">GF@v</arg1></instruction>
  <instruction order="10" opcode="WRITE"><arg1 type="var">GF@v</arg1></instruction>
  <instruction order="11" opcode="PUSHS"><arg1 type="nil">nil</arg1></instruction>
  <instruction order="12" opcode="POPS"><arg1 type="var">GF@v</arg1></instruction>
  <instruction order="13" opcode="DEFVAR"><arg1 type="var">GF@t</arg1></instruction>
  <instruction order="14" opcode="TYPE"><arg1 type="var">GF@t</arg1><arg2 type="var">GF@v</arg2></instruction>
  <instruction order="15" opcode="WRITE"><arg1 type="var">GF@t</arg1></instruction>
</program>`, "")
	if err != nil || exit != 0 {
		t.Fatalf("run: exit %d, %v", exit, err)
	}
	if stdout != "-5falsesnil" {
		t.Errorf("stdout = %q", stdout)
	}
}
