package registry

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// coercer converts raw input into the stored representation of one Type,
// applying the entry's validation rules. ok is false when the input is rejected.
type coercer interface {
	coerce(m *Meta, input any) (value any, ok bool)
}

func coercerFor(t Type) coercer {
	switch t {
	case TypeString:
		return stringCoercer{}
	case TypeInt:
		return intCoercer{}
	case TypeFloat:
		return floatCoercer{}
	case TypeBool:
		return boolCoercer{}
	default:
		return rejectCoercer{}
	}
}

type rejectCoercer struct{}

func (rejectCoercer) coerce(*Meta, any) (any, bool) { return nil, false }

type stringCoercer struct{}

func (stringCoercer) coerce(m *Meta, input any) (any, bool) {
	if input == nil {
		return nil, false
	}
	s, err := cast.ToStringE(input)
	if err != nil {
		return nil, false
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return s, m.AllowEmpty
	}
	if len(m.Allowed) == 0 {
		return s, true
	}

	if m.CaseSensitive {
		if slices.Contains(m.Allowed, s) {
			return s, true
		}
		return nil, false
	}

	folded := fold(s)
	for _, a := range m.Allowed {
		if fold(a) == folded {
			return folded, true
		}
	}
	return nil, false
}

type intCoercer struct{}

func (intCoercer) coerce(m *Meta, input any) (any, bool) {
	var n int64
	switch v := input.(type) {
	case nil:
		return nil, false
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, false
		}
		n = parsed
	case float32, float64:
		f := cast.ToFloat64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		n = saturate(f)
	default:
		parsed, err := cast.ToInt64E(v)
		if err != nil {
			return nil, false
		}
		n = parsed
	}
	return clampInt(n, m.Min, m.Max), true
}

type floatCoercer struct{}

func (floatCoercer) coerce(m *Meta, input any) (any, bool) {
	var f float64
	switch v := input.(type) {
	case nil:
		return nil, false
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, false
		}
		f = parsed
	default:
		parsed, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, false
		}
		f = parsed
	}
	if math.IsNaN(f) && (m.Min != nil || m.Max != nil) {
		return nil, false
	}
	return clampFloat(f, m.Min, m.Max), true
}

// falsyTokens are the textual inputs a boolean entry reads as false.
// Any other text is true.
var falsyTokens = map[string]struct{}{
	"0":     {},
	"f":     {},
	"false": {},
	"no":    {},
	"null":  {},
	"n":     {},
}

type boolCoercer struct{}

func (boolCoercer) coerce(_ *Meta, input any) (any, bool) {
	switch v := input.(type) {
	case string:
		_, falsy := falsyTokens[strings.ToLower(strings.TrimSpace(v))]
		return !falsy, true
	case bool:
		return v, true
	case nil:
		return false, true
	}

	f, err := cast.ToFloat64E(input)
	if err != nil {
		return true, true
	}
	return f != 0, true
}

func clampInt(n int64, lo, hi *float64) int64 {
	if lo != nil {
		if bound := math.Ceil(*lo); float64(n) < bound {
			n = saturate(bound)
		}
	}
	if hi != nil {
		if bound := math.Floor(*hi); float64(n) > bound {
			n = saturate(bound)
		}
	}
	return n
}

// saturate truncates f toward zero, limited to the int64 range.
func saturate(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func clampFloat(f float64, lo, hi *float64) float64 {
	if lo != nil && f < *lo {
		f = *lo
	}
	if hi != nil && f > *hi {
		f = *hi
	}
	return f
}

func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}
