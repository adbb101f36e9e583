package vm

import (
	"ipprun/types"
)

// Control-flow instructions. Label definitions are registered before the
// loop starts; at execute time LABEL is a no-op.

func execLabel(vm *VM, ins *Instruction) error {
	return nil
}

func execJump(vm *VM, ins *Instruction) error {
	index, err := vm.mem.Label(ins.Args[0].Name)
	if err != nil {
		return err
	}
	vm.mem.SetPC(index)
	return nil
}

// execJumpIf implements JUMPIFEQ and JUMPIFNEQ. Operands follow the EQ
// typing rules and are resolved before the label, so a missing value or a
// type mismatch is reported even when the jump would not be taken.
func execJumpIf(vm *VM, ins *Instruction) error {
	a, err := vm.resolve(&ins.Args[1])
	if err != nil {
		return err
	}
	b, err := vm.resolve(&ins.Args[2])
	if err != nil {
		return err
	}
	equal, err := valuesEqual(a, b)
	if err != nil {
		return err
	}
	index, err := vm.mem.Label(ins.Args[0].Name)
	if err != nil {
		return err
	}
	if equal == (ins.Opcode == OpJumpIfEq) {
		vm.mem.SetPC(index)
	}
	return nil
}

// execCall pushes the post-increment PC and jumps to the label.
func execCall(vm *VM, ins *Instruction) error {
	index, err := vm.mem.Label(ins.Args[0].Name)
	if err != nil {
		return err
	}
	vm.mem.PushCall(vm.mem.PC())
	vm.mem.SetPC(index)
	return nil
}

func execReturn(vm *VM, ins *Instruction) error {
	pc, err := vm.mem.PopCall()
	if err != nil {
		return err
	}
	vm.mem.SetPC(pc)
	return nil
}

// execExit terminates the run with the operand as exit code. The operand
// must be an integer in [0, 49].
func execExit(vm *VM, ins *Instruction) error {
	code, err := vm.intOperand(&ins.Args[0])
	if err != nil {
		return err
	}
	if code < 0 || code > 49 {
		return types.NewError(types.E_OPERAND_VALUE, "exit code %d outside [0, 49]", code)
	}
	return exitStop{code: int(code)}
}
