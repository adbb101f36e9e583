package vm

import (
	"unicode/utf8"

	"ipprun/types"
)

// Arithmetic, comparison, logic and conversion instructions.

func execArith(vm *VM, ins *Instruction) error {
	a, err := vm.intOperand(&ins.Args[1])
	if err != nil {
		return err
	}
	b, err := vm.intOperand(&ins.Args[2])
	if err != nil {
		return err
	}
	result, err := arith(ins.Opcode, a, b)
	if err != nil {
		return err
	}
	return vm.store(&ins.Args[0], types.NewInt(result))
}

func execCompare(vm *VM, ins *Instruction) error {
	a, err := vm.resolve(&ins.Args[1])
	if err != nil {
		return err
	}
	b, err := vm.resolve(&ins.Args[2])
	if err != nil {
		return err
	}
	var result bool
	if ins.Opcode == OpEq {
		result, err = valuesEqual(a, b)
	} else {
		result, err = valuesOrdered(ins.Opcode, a, b)
	}
	if err != nil {
		return err
	}
	return vm.store(&ins.Args[0], types.NewBool(result))
}

func execLogic(vm *VM, ins *Instruction) error {
	a, err := vm.boolOperand(&ins.Args[1])
	if err != nil {
		return err
	}
	b, err := vm.boolOperand(&ins.Args[2])
	if err != nil {
		return err
	}
	if ins.Opcode == OpAnd {
		return vm.store(&ins.Args[0], types.NewBool(a && b))
	}
	return vm.store(&ins.Args[0], types.NewBool(a || b))
}

func execNot(vm *VM, ins *Instruction) error {
	a, err := vm.boolOperand(&ins.Args[1])
	if err != nil {
		return err
	}
	return vm.store(&ins.Args[0], types.NewBool(!a))
}

// execInt2Char converts a code point to a one-character string. The valid
// range is what utf8.ValidRune accepts: surrogates and values outside
// [0, U+10FFFF] report E_STRING.
func execInt2Char(vm *VM, ins *Instruction) error {
	code, err := vm.intOperand(&ins.Args[1])
	if err != nil {
		return err
	}
	if code < 0 || code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
		return types.NewError(types.E_STRING, "%d is not a valid code point", code)
	}
	return vm.store(&ins.Args[0], types.NewStr(string(rune(code))))
}

// execStri2Int returns the code point at a 0-based index of a string.
func execStri2Int(vm *VM, ins *Instruction) error {
	s, err := vm.strOperand(&ins.Args[1])
	if err != nil {
		return err
	}
	index, err := vm.intOperand(&ins.Args[2])
	if err != nil {
		return err
	}
	runes := []rune(s)
	if index < 0 || index >= int64(len(runes)) {
		return types.NewError(types.E_STRING, "index %d out of range for string of length %d", index, len(runes))
	}
	return vm.store(&ins.Args[0], types.NewInt(int64(runes[index])))
}
