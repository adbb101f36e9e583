package vm

import (
	"ipprun/types"
)

// Frame, variable and data-stack instructions.

func execMove(vm *VM, ins *Instruction) error {
	v, err := vm.resolve(&ins.Args[1])
	if err != nil {
		return err
	}
	return vm.store(&ins.Args[0], v)
}

func execCreateFrame(vm *VM, ins *Instruction) error {
	vm.mem.CreateFrame()
	return nil
}

func execPushFrame(vm *VM, ins *Instruction) error {
	return vm.mem.PushFrame()
}

func execPopFrame(vm *VM, ins *Instruction) error {
	return vm.mem.PopFrame()
}

func execDefvar(vm *VM, ins *Instruction) error {
	arg := &ins.Args[0]
	return vm.mem.Define(arg.Frame, arg.Name)
}

func execPushs(vm *VM, ins *Instruction) error {
	v, err := vm.resolve(&ins.Args[0])
	if err != nil {
		return err
	}
	vm.mem.PushData(v)
	return nil
}

func execPops(vm *VM, ins *Instruction) error {
	v, err := vm.mem.PopData()
	if err != nil {
		return err
	}
	return vm.store(&ins.Args[0], v)
}

// execType stores the type name of the operand, or the empty string when
// the operand resolves to an uninitialized variable. TYPE never reports
// E_MISSING_VALUE.
func execType(vm *VM, ins *Instruction) error {
	v, err := vm.resolveRaw(&ins.Args[1])
	if err != nil {
		return err
	}
	name := ""
	if !types.IsUninit(v) {
		name = v.Type().String()
	}
	return vm.store(&ins.Args[0], types.NewStr(name))
}
