package types

import "testing"

func TestWriteRepresentation(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"positive int", NewInt(42), "42"},
		{"negative int", NewInt(-7), "-7"},
		{"true", NewBool(true), "true"},
		{"false", NewBool(false), "false"},
		{"string", NewStr("hello"), "hello"},
		{"empty string", NewStr(""), ""},
		{"nil prints nothing", NewNil(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal ints", NewInt(1), NewInt(1), true},
		{"unequal ints", NewInt(1), NewInt(2), false},
		{"equal strings", NewStr("a"), NewStr("a"), true},
		{"equal bools", NewBool(true), NewBool(true), true},
		{"nil equals nil", NewNil(), NewNil(), true},
		{"nil vs int", NewNil(), NewInt(0), false},
		{"int vs string", NewInt(1), NewStr("1"), false},
		{"bool vs int", NewBool(false), NewInt(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, expected %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal (flipped) = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestUninitMarker(t *testing.T) {
	if !IsUninit(UninitValue{}) {
		t.Error("IsUninit(UninitValue{}) = false")
	}
	for _, v := range []Value{NewInt(0), NewBool(false), NewStr(""), NewNil()} {
		if IsUninit(v) {
			t.Errorf("IsUninit(%T) = true", v)
		}
	}
}

func TestStrRunes(t *testing.T) {
	runes := NewStr("řeka").Runes()
	if len(runes) != 4 {
		t.Fatalf("expected 4 code points, got %d", len(runes))
	}
	if runes[0] != 'ř' {
		t.Errorf("runes[0] = %q", runes[0])
	}
}
