package types

// NilValue is the unique nil value
type NilValue struct{}

// Type returns the type code for nil
func (n NilValue) Type() TypeCode {
	return TYPE_NIL
}

// String returns the empty string; WRITE prints nothing for nil
func (n NilValue) String() string {
	return ""
}

// Equal checks deep equality; nil equals only nil
func (n NilValue) Equal(other Value) bool {
	_, ok := other.(NilValue)
	return ok
}

// NewNil creates the nil value
func NewNil() NilValue {
	return NilValue{}
}
