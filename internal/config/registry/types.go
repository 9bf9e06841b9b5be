package registry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type is the declared primitive type of an entry.
type Type uint8

const (
	// TypeUnset means the type is inferred from the first value seen.
	TypeUnset Type = iota
	// TypeString represents a string value.
	TypeString
	// TypeInt represents an integer value.
	TypeInt
	// TypeFloat represents a floating-point value.
	TypeFloat
	// TypeBool represents a boolean value.
	TypeBool
)

// String returns the string representation of the type.
func (t Type) String() string {
	switch t {
	case TypeUnset:
		return "unset"
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Zero returns the zero value stored for an entry of type t.
func (t Type) Zero() any {
	switch t {
	case TypeString:
		return ""
	case TypeInt:
		return int64(0)
	case TypeFloat:
		return float64(0)
	case TypeBool:
		return false
	default:
		return nil
	}
}

// ParseType converts a type name into a Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str":
		return TypeString, nil
	case "int", "integer":
		return TypeInt, nil
	case "float", "number":
		return TypeFloat, nil
	case "bool", "boolean":
		return TypeBool, nil
	default:
		return TypeUnset, fmt.Errorf("%w: unknown type %q", ErrTypeMismatch, name)
	}
}

// InferType returns the Type matching a Go scalar.
func InferType(v any) (Type, bool) {
	switch v.(type) {
	case string:
		return TypeString, true
	case bool:
		return TypeBool, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInt, true
	case float32, float64:
		return TypeFloat, true
	default:
		return TypeUnset, false
	}
}

// FormatValue renders a stored value as text.
// Floats always carry a decimal point so the type stays visible in files.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatFloat(val)
	default:
		return fmt.Sprint(val)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
