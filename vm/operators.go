package vm

import (
	"ipprun/types"
)

// arith computes one of the four integer operations. IDIV rejects a zero
// divisor with E_OPERAND_VALUE; everything else uses the host's wrapping
// int64 semantics.
func arith(opcode string, a, b int64) (int64, error) {
	switch opcode {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpIdiv:
		if b == 0 {
			return 0, types.NewError(types.E_OPERAND_VALUE, "division by zero")
		}
		return a / b, nil
	default:
		return 0, types.NewError(types.E_INTERNAL, "arith called for %s", opcode)
	}
}

// valuesEqual implements the EQ typing rules shared by EQ, JUMPIFEQ and
// JUMPIFNEQ: operands of the same kind compare by payload, nil compares
// equal only to nil and unequal to everything else, and two different
// non-nil kinds are a type error.
func valuesEqual(a, b types.Value) (bool, error) {
	if a.Type() == types.TYPE_NIL || b.Type() == types.TYPE_NIL {
		return a.Equal(b), nil
	}
	if a.Type() != b.Type() {
		return false, types.NewError(types.E_OPERAND_TYPE, "cannot compare %s with %s", a.Type(), b.Type())
	}
	return a.Equal(b), nil
}

// valuesOrdered implements LT and GT. Operands must share one kind from
// {int, bool, string}; nil never orders. Bool ordering is false < true,
// string ordering is code-point lexicographic.
func valuesOrdered(opcode string, a, b types.Value) (bool, error) {
	if a.Type() != b.Type() {
		return false, types.NewError(types.E_OPERAND_TYPE, "cannot compare %s with %s", a.Type(), b.Type())
	}
	var less bool
	switch av := a.(type) {
	case types.IntValue:
		bv := b.(types.IntValue)
		less = av.Val < bv.Val
	case types.BoolValue:
		bv := b.(types.BoolValue)
		less = !av.Val && bv.Val
	case types.StrValue:
		bv := b.(types.StrValue)
		less = av.Value() < bv.Value()
	default:
		return false, types.NewError(types.E_OPERAND_TYPE, "cannot order %s values", a.Type())
	}
	if opcode == OpGt {
		return !less && !a.Equal(b), nil
	}
	return less, nil
}
