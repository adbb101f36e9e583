package vm

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"ipprun/types"
)

// I/O and debug instructions.

// execRead reads one line from the input stream and parses it according to
// the type operand. Parse failure or end of input stores nil.
func execRead(vm *VM, ins *Instruction) error {
	line, err := vm.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return types.NewError(types.E_INTERNAL, "reading input: %v", err)
	}
	if line == "" && err == io.EOF {
		return vm.store(&ins.Args[0], types.NewNil())
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	var v types.Value
	switch ins.Args[1].Name {
	case "int":
		n, perr := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if perr != nil {
			v = types.NewNil()
		} else {
			v = types.NewInt(n)
		}
	case "bool":
		v = types.NewBool(strings.EqualFold(line, "true"))
	case "string":
		v = types.NewStr(line)
	default:
		// The loader admits only int, bool and string here.
		return types.NewError(types.E_INTERNAL, "READ with type %q", ins.Args[1].Name)
	}
	return vm.store(&ins.Args[0], v)
}

// execWrite prints the operand's WRITE form: decimal integers, true/false,
// strings verbatim, nil as the empty string.
func execWrite(vm *VM, ins *Instruction) error {
	v, err := vm.resolve(&ins.Args[0])
	if err != nil {
		return err
	}
	_, werr := io.WriteString(vm.out, v.String())
	return werr
}

// execDprint writes the operand's textual form to the error stream.
// It never affects the program outcome.
func execDprint(vm *VM, ins *Instruction) error {
	v, err := vm.resolve(&ins.Args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(vm.errw, v.String())
	return nil
}

// execBreak dumps the engine state to the error stream.
func execBreak(vm *VM, ins *Instruction) error {
	vm.dumpState()
	return nil
}
