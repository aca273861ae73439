package flag

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the primitive type carried by a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a tagged attribute value: string, number, or bool.
// Coercion between kinds is explicit and comparator-specific; there is
// no implicit cross-kind conversion anywhere in the package.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// StringValue creates a string-kind value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue creates a number-kind value.
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

// BoolValue creates a bool-kind value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the kind tag of the value.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the payload when the value is a string.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the payload when the value is a number.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the payload when the value is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// Float coerces the value to a float64 for ordered comparisons.
// Numbers convert directly and numeric strings are parsed; bools and
// non-numeric strings fail the coercion.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(v.str, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Equal reports exact equality: kinds must match first, then payloads.
// A string "5" never equals the number 5.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	default:
		return false
	}
}

// String renders the value for use as a bucketing key. Whole numbers
// render without a fractional part so integer attributes produce
// stable keys regardless of how the caller encoded them.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1e15 {
			return strconv.FormatInt(int64(v.num), 10)
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// MarshalJSON encodes the value as its native JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON string, number, or bool. Objects and
// arrays are rejected so malformed payloads fail at the boundary
// instead of degrading silently during evaluation.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = StringValue(t)
	case float64:
		*v = NumberValue(t)
	case bool:
		*v = BoolValue(t)
	case nil:
		*v = Value{}
	default:
		return fmt.Errorf("%w: must be a string, number, or bool", ErrInvalidValue)
	}
	return nil
}
