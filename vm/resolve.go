package vm

import (
	"ipprun/types"
)

// resolve returns the runtime value of a symb operand. Variable operands
// are looked up in their frame; literal operands were parsed at load time.
// Uninitialized slots are rejected with E_MISSING_VALUE; TYPE is the one
// consumer that observes them and goes through resolveRaw instead.
func (vm *VM) resolve(a *Arg) (types.Value, error) {
	v, err := vm.resolveRaw(a)
	if err != nil {
		return nil, err
	}
	if types.IsUninit(v) {
		return nil, types.NewError(types.E_MISSING_VALUE, "variable %s@%s has no value", a.Frame, a.Name)
	}
	return v, nil
}

// resolveRaw resolves a symb operand without rejecting the uninitialized
// marker.
func (vm *VM) resolveRaw(a *Arg) (types.Value, error) {
	if a.Kind == ArgVar {
		return vm.mem.Read(a.Frame, a.Name)
	}
	return a.Lit, nil
}

// store writes a value into the variable named by a var operand
func (vm *VM) store(a *Arg, v types.Value) error {
	return vm.mem.Write(a.Frame, a.Name, v)
}

// intOperand resolves a symb operand and requires an integer
func (vm *VM) intOperand(a *Arg) (int64, error) {
	v, err := vm.resolve(a)
	if err != nil {
		return 0, err
	}
	iv, ok := v.(types.IntValue)
	if !ok {
		return 0, types.NewError(types.E_OPERAND_TYPE, "expected int, got %s", v.Type())
	}
	return iv.Val, nil
}

// boolOperand resolves a symb operand and requires a boolean
func (vm *VM) boolOperand(a *Arg) (bool, error) {
	v, err := vm.resolve(a)
	if err != nil {
		return false, err
	}
	bv, ok := v.(types.BoolValue)
	if !ok {
		return false, types.NewError(types.E_OPERAND_TYPE, "expected bool, got %s", v.Type())
	}
	return bv.Val, nil
}

// strOperand resolves a symb operand and requires a string
func (vm *VM) strOperand(a *Arg) (string, error) {
	v, err := vm.resolve(a)
	if err != nil {
		return "", err
	}
	sv, ok := v.(types.StrValue)
	if !ok {
		return "", types.NewError(types.E_OPERAND_TYPE, "expected string, got %s", v.Type())
	}
	return sv.Value(), nil
}
