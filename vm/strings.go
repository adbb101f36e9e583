package vm

import (
	"ipprun/types"
)

// String instructions. All indexing is by code point, 0-based; the loader
// expanded escape sequences, so payloads are plain Unicode throughout.

func execConcat(vm *VM, ins *Instruction) error {
	a, err := vm.strOperand(&ins.Args[1])
	if err != nil {
		return err
	}
	b, err := vm.strOperand(&ins.Args[2])
	if err != nil {
		return err
	}
	return vm.store(&ins.Args[0], types.NewStr(a+b))
}

func execStrlen(vm *VM, ins *Instruction) error {
	s, err := vm.strOperand(&ins.Args[1])
	if err != nil {
		return err
	}
	return vm.store(&ins.Args[0], types.NewInt(int64(len([]rune(s)))))
}

func execGetchar(vm *VM, ins *Instruction) error {
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
	return vm.store(&ins.Args[0], types.NewStr(string(runes[index])))
}

// execSetchar replaces the character at the given index of the target
// variable's string with the first character of the replacement string.
// The target must already hold a string.
func execSetchar(vm *VM, ins *Instruction) error {
	target := &ins.Args[0]
	cur, err := vm.resolve(target)
	if err != nil {
		return err
	}
	sv, ok := cur.(types.StrValue)
	if !ok {
		return types.NewError(types.E_OPERAND_TYPE, "SETCHAR target holds %s, expected string", cur.Type())
	}
	index, err := vm.intOperand(&ins.Args[1])
	if err != nil {
		return err
	}
	repl, err := vm.strOperand(&ins.Args[2])
	if err != nil {
		return err
	}
	runes := sv.Runes()
	if index < 0 || index >= int64(len(runes)) {
		return types.NewError(types.E_STRING, "index %d out of range for string of length %d", index, len(runes))
	}
	replRunes := []rune(repl)
	if len(replRunes) == 0 {
		return types.NewError(types.E_STRING, "SETCHAR replacement string is empty")
	}
	runes[index] = replRunes[0]
	return vm.store(target, types.NewStr(string(runes)))
}
