package interpreter

import (
	"fmt"
	"math"
	"strconv"
)

type ValueType uint

const (
	ValueNilType ValueType = iota
	ValueBoolType
	ValueFloatType
	ValueStringType
)

func (t ValueType) String() string {
	switch t {
	case ValueNilType:
		return "nil"
	case ValueBoolType:
		return "boolean"
	case ValueFloatType:
		return "number"
	case ValueStringType:
		return "string"
	}
	return "ValueType(" + strconv.Itoa(int(t)) + ")"
}

// Value is a runtime value. Values of different types are never equal,
// and values of the same type compare with ==.
type Value interface {
	Type() ValueType
	fmt.Stringer
	value()
}

type (
	ValueNil    struct{}
	ValueBool   bool
	ValueFloat  float64
	ValueString string
)

var (
	NilValue   = ValueNil{}
	TrueValue  = ValueBool(true)
	FalseValue = ValueBool(false)
)

// Type implements Value.
func (v ValueNil) Type() ValueType {
	return ValueNilType
}

// Type implements Value.
func (v ValueBool) Type() ValueType {
	return ValueBoolType
}

// Type implements Value.
func (v ValueFloat) Type() ValueType {
	return ValueFloatType
}

// Type implements Value.
func (v ValueString) Type() ValueType {
	return ValueStringType
}

// String implements fmt.Stringer.
func (v ValueNil) String() string {
	return "nil"
}

// String implements fmt.Stringer.
func (v ValueBool) String() string {
	return strconv.FormatBool(bool(v))
}

// String rounds to 8 decimal places to hide floating point noise,
// so 0.1 + 0.2 prints as 0.3.
func (v ValueFloat) String() string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	// beyond 2^53 the scaled value has no fractional digits left to round
	if scaled := f * 1e8; math.Abs(scaled) < 1<<53 {
		f = math.Round(scaled) / 1e8
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// String implements fmt.Stringer.
func (v ValueString) String() string {
	return string(v)
}

// Repr is the debug form of v: like String, but strings are quoted.
func Repr(v Value) string {
	if v == nil {
		return "<nil>"
	}
	if s, ok := v.(ValueString); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

func (ValueNil) value()    {}
func (ValueBool) value()   {}
func (ValueFloat) value()  {}
func (ValueString) value() {}

// FromLiteral converts a literal produced by the scanner or parser into a Value.
func FromLiteral(literal any) (Value, error) {
	switch v := literal.(type) {
	case nil:
		return NilValue, nil
	case bool:
		return ValueBool(v), nil
	case float64:
		return ValueFloat(v), nil
	case string:
		return ValueString(v), nil
	}
	return nil, fmt.Errorf("unsupported literal %#v", literal)
}

// IsTruthy reports whether v counts as true: everything but nil and false.
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case nil, ValueNil:
		return false
	case ValueBool:
		return bool(v)
	}
	return true
}

// IsEqual compares values structurally.
func IsEqual(left, right Value) bool {
	return left == right
}

var (
	_ Value = ValueNil{}
	_ Value = ValueBool(false)
	_ Value = ValueFloat(0)
	_ Value = ValueString("")
)
