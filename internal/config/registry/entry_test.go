package registry

import (
	"errors"
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func mustEntry(t *testing.T, name string, value any, meta Meta) *Entry {
	t.Helper()
	e, err := NewEntry(name, value, meta)
	if err != nil {
		t.Fatalf("NewEntry(%q) error = %v", name, err)
	}
	return e
}

func TestType_String(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeUnset, "unset"},
		{TypeString, "string"},
		{TypeInt, "int"},
		{TypeFloat, "float"},
		{TypeBool, "bool"},
		{Type(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestType_Zero(t *testing.T) {
	tests := []struct {
		typ  Type
		want any
	}{
		{TypeString, ""},
		{TypeInt, int64(0)},
		{TypeFloat, float64(0)},
		{TypeBool, false},
		{TypeUnset, nil},
	}

	for _, tt := range tests {
		if got := tt.typ.Zero(); got != tt.want {
			t.Errorf("%s.Zero() = %#v, want %#v", tt.typ, got, tt.want)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"string", TypeString, false},
		{"str", TypeString, false},
		{" Int ", TypeInt, false},
		{"integer", TypeInt, false},
		{"number", TypeFloat, false},
		{"float", TypeFloat, false},
		{"BOOL", TypeBool, false},
		{"boolean", TypeBool, false},
		{"list", TypeUnset, true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("ParseType(%q) error = %v, want ErrTypeMismatch", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		in     any
		want   Type
		wantOK bool
	}{
		{"x", TypeString, true},
		{true, TypeBool, true},
		{7, TypeInt, true},
		{int64(7), TypeInt, true},
		{uint8(7), TypeInt, true},
		{1.5, TypeFloat, true},
		{float32(1.5), TypeFloat, true},
		{[]string{"a"}, TypeUnset, false},
		{nil, TypeUnset, false},
	}

	for _, tt := range tests {
		got, ok := InferType(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("InferType(%#v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"hello", "hello"},
		{int64(-12), "-12"},
		{true, "true"},
		{false, "false"},
		{2.0, "2.0"},
		{0.25, "0.25"},
		{1e22, "1e+22"},
		{math.Inf(1), "+Inf"},
		{math.NaN(), "NaN"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewEntry(t *testing.T) {
	t.Run("infers type", func(t *testing.T) {
		e := mustEntry(t, "port", 8080, Meta{})
		if e.Type() != TypeInt {
			t.Errorf("Type() = %v, want int", e.Type())
		}
		if e.Read() != int64(8080) {
			t.Errorf("Read() = %#v, want int64(8080)", e.Read())
		}
		if e.Default() != int64(8080) {
			t.Errorf("Default() = %#v, want int64(8080)", e.Default())
		}
	})

	t.Run("nil value takes zero", func(t *testing.T) {
		e := mustEntry(t, "ratio", nil, Meta{Type: TypeFloat})
		if e.Read() != float64(0) {
			t.Errorf("Read() = %#v, want 0.0", e.Read())
		}
	})

	t.Run("converts declared type", func(t *testing.T) {
		e := mustEntry(t, "count", "12", Meta{Type: TypeInt})
		if e.Read() != int64(12) {
			t.Errorf("Read() = %#v, want int64(12)", e.Read())
		}
	})

	t.Run("empty string default allowed", func(t *testing.T) {
		e := mustEntry(t, "file", "", Meta{Type: TypeString})
		if e.Read() != "" {
			t.Errorf("Read() = %#v, want empty", e.Read())
		}
	})

	t.Run("unconvertible value", func(t *testing.T) {
		_, err := NewEntry("count", "many", Meta{Type: TypeInt})
		if !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("NewEntry() error = %v, want ErrTypeMismatch", err)
		}
	})

	t.Run("non-scalar without type", func(t *testing.T) {
		_, err := NewEntry("list", []int{1}, Meta{})
		if !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("NewEntry() error = %v, want ErrTypeMismatch", err)
		}
	})

	t.Run("meta is copied", func(t *testing.T) {
		allowed := []string{"a", "b"}
		e := mustEntry(t, "mode", "a", Meta{Allowed: allowed})
		allowed[0] = "z"
		if e.Allowed()[0] != "a" {
			t.Errorf("Allowed() shares caller slice")
		}
	})
}

func TestEntry_WriteNumericClamp(t *testing.T) {
	e := mustEntry(t, "volume", 5, Meta{Min: floatPtr(0), Max: floatPtr(10)})

	tests := []struct {
		input    any
		want     int64
		accepted bool
	}{
		{15, 10, true},
		{-3, 0, true},
		{"7", 7, true},
		{" 8 ", 8, true},
		{"abc", 8, false},
		{"5.5", 8, false},
		{4.9, 4, true},
		{math.NaN(), 4, false},
		{nil, 4, false},
		{true, 1, true},
	}

	for _, tt := range tests {
		accepted := e.Write(tt.input)
		if accepted != tt.accepted {
			t.Errorf("Write(%#v) = %v, want %v", tt.input, accepted, tt.accepted)
		}
		if got := e.Int(); got != tt.want {
			t.Errorf("after Write(%#v) value = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestEntry_WriteFloat(t *testing.T) {
	e := mustEntry(t, "ratio", 0.5, Meta{Min: floatPtr(0), Max: floatPtr(1)})

	tests := []struct {
		input    any
		want     float64
		accepted bool
	}{
		{"0.75", 0.75, true},
		{2, 1, true},
		{-0.1, 0, true},
		{"1e-1", 0.1, true},
		{"nope", 0.1, false},
		{"NaN", 0.1, false},
		{math.NaN(), 0.1, false},
	}

	for _, tt := range tests {
		accepted := e.Write(tt.input)
		if accepted != tt.accepted {
			t.Errorf("Write(%#v) = %v, want %v", tt.input, accepted, tt.accepted)
		}
		if got := e.Float(); got != tt.want {
			t.Errorf("after Write(%#v) value = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestEntry_WriteFloatUnbounded(t *testing.T) {
	e := mustEntry(t, "ratio", 0.5, Meta{})

	if !e.Write("NaN") {
		t.Fatal("unbounded entry rejected NaN")
	}
	if got := e.Float(); !math.IsNaN(got) {
		t.Errorf("value = %v, want NaN", got)
	}
}

func TestEntry_WriteIntSaturates(t *testing.T) {
	e := mustEntry(t, "n", 0, Meta{})

	tests := []struct {
		input any
		want  int64
	}{
		{1e19, math.MaxInt64},
		{-1e19, math.MinInt64},
		{float64(math.MaxInt64), math.MaxInt64},
		{-9.7, -9},
	}

	for _, tt := range tests {
		if !e.Write(tt.input) {
			t.Errorf("Write(%v) rejected", tt.input)
		}
		if got := e.Int(); got != tt.want {
			t.Errorf("after Write(%v) value = %d, want %d", tt.input, got, tt.want)
		}
	}

	bounded := mustEntry(t, "m", 0, Meta{Max: floatPtr(1e30)})
	bounded.Write(5e29)
	if got := bounded.Int(); got != math.MaxInt64 {
		t.Errorf("bounded value = %d, want MaxInt64", got)
	}
}

func TestEntry_IntBoundsRoundInward(t *testing.T) {
	e := mustEntry(t, "n", 1, Meta{Min: floatPtr(0.5), Max: floatPtr(9.5)})

	e.Write(-4)
	if got := e.Int(); got != 1 {
		t.Errorf("clamp to min 0.5 = %d, want 1", got)
	}
	e.Write(40)
	if got := e.Int(); got != 9 {
		t.Errorf("clamp to max 9.5 = %d, want 9", got)
	}
}

func TestEntry_WriteBool(t *testing.T) {
	tests := []struct {
		input any
		want  bool
	}{
		{"No", false},
		{"Null", false},
		{"yes", true},
		{"0", false},
		{"F", false},
		{"false", false},
		{"n", false},
		{"anything", true},
		{"", true},
		{0, false},
		{1, true},
		{2.5, true},
		{0.0, false},
		{true, true},
		{false, false},
		{nil, false},
	}

	for _, tt := range tests {
		e := mustEntry(t, "flag", !tt.want, Meta{})
		if !e.Write(tt.input) {
			t.Errorf("Write(%#v) rejected", tt.input)
		}
		if got := e.Bool(); got != tt.want {
			t.Errorf("Write(%#v) stored %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestEntry_WriteString(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		e := mustEntry(t, "name", "a", Meta{})
		e.Write("  padded  ")
		if got := e.String(); got != "padded" {
			t.Errorf("value = %q, want %q", got, "padded")
		}
	})

	t.Run("empty rejected", func(t *testing.T) {
		e := mustEntry(t, "name", "a", Meta{})
		if e.Write("   ") {
			t.Error("Write(blank) accepted, want rejected")
		}
		if got := e.String(); got != "a" {
			t.Errorf("value = %q, want %q", got, "a")
		}
	})

	t.Run("empty allowed", func(t *testing.T) {
		e := mustEntry(t, "name", "a", Meta{AllowEmpty: true})
		if !e.Write("") {
			t.Error("Write(\"\") rejected, want accepted")
		}
		if got := e.String(); got != "" {
			t.Errorf("value = %q, want empty", got)
		}
	})

	t.Run("non-text input", func(t *testing.T) {
		e := mustEntry(t, "name", "a", Meta{})
		e.Write(42)
		if got := e.String(); got != "42" {
			t.Errorf("value = %q, want %q", got, "42")
		}
	})

	t.Run("free text keeps case", func(t *testing.T) {
		e := mustEntry(t, "path", "a", Meta{})
		e.Write("C:/Users/Me")
		if got := e.String(); got != "C:/Users/Me" {
			t.Errorf("value = %q, want unchanged case", got)
		}
	})
}

func TestEntry_WriteAllowed(t *testing.T) {
	t.Run("case insensitive", func(t *testing.T) {
		e := mustEntry(t, "level", "High", Meta{Allowed: []string{"Low", "High"}})
		if got := e.Default(); got != "high" {
			t.Errorf("Default() = %q, want folded %q", got, "high")
		}

		if !e.Write("low") {
			t.Error("Write(low) rejected")
		}
		if got := e.String(); got != "low" {
			t.Errorf("value = %q, want %q", got, "low")
		}
		if !e.Write("HIGH") {
			t.Error("Write(HIGH) rejected")
		}
		if got := e.String(); got != "high" {
			t.Errorf("value = %q, want %q", got, "high")
		}
		if e.Write("Medium") {
			t.Error("Write(Medium) accepted")
		}
		if got := e.String(); got != "high" {
			t.Errorf("value after rejection = %q, want %q", got, "high")
		}
	})

	t.Run("case sensitive", func(t *testing.T) {
		e := mustEntry(t, "level", "High", Meta{Allowed: []string{"Low", "High"}, CaseSensitive: true})

		if e.Write("low") {
			t.Error("Write(low) accepted, want rejected")
		}
		if !e.Write("Low") {
			t.Error("Write(Low) rejected")
		}
		if got := e.String(); got != "Low" {
			t.Errorf("value = %q, want %q", got, "Low")
		}
	})
}

func TestEntry_LockInvariance(t *testing.T) {
	tests := []struct {
		name  string
		value any
		meta  Meta
		input []any
	}{
		{"string", "fixed", Meta{}, []any{"other", "", 5, true, nil}},
		{"int", 3, Meta{}, []any{4, "9", 2.5, false, nil}},
		{"float", 1.5, Meta{}, []any{2.5, "3", 0, nil}},
		{"bool", true, Meta{}, []any{false, "no", 0, nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustEntry(t, tt.name, tt.value, tt.meta)
			before := e.Read()
			e.SetLock(true)
			for _, in := range tt.input {
				if e.Write(in) {
					t.Errorf("locked Write(%#v) accepted", in)
				}
				if e.Read() != before {
					t.Errorf("locked Write(%#v) changed value to %#v", in, e.Read())
				}
			}
			e.SetLock(false)
			if !e.Write(tt.input[0]) {
				t.Errorf("unlocked Write(%#v) rejected", tt.input[0])
			}
		})
	}
}

func TestEntry_Restore(t *testing.T) {
	e := mustEntry(t, "n", 3, Meta{Max: floatPtr(5)})
	e.Write(4)
	e.SetLock(true)

	if err := e.Restore(int64(3)); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if e.Int() != 3 {
		t.Errorf("value = %d, want 3", e.Int())
	}
	if err := e.Restore("x"); err == nil {
		t.Error("Restore(\"x\") error = nil, want type error")
	}
}

func TestEntry_Accessors(t *testing.T) {
	e := mustEntry(t, "n", 3, Meta{
		Min:      floatPtr(1),
		Max:      floatPtr(9),
		Priority: func() *int { p := 2; return &p }(),
		Info:     "a number",
		Hidden:   true,
	})

	if v, ok := e.Min(); !ok || v != 1 {
		t.Errorf("Min() = %v, %v", v, ok)
	}
	if v, ok := e.Max(); !ok || v != 9 {
		t.Errorf("Max() = %v, %v", v, ok)
	}
	if p, ok := e.Priority(); !ok || p != 2 {
		t.Errorf("Priority() = %v, %v", p, ok)
	}
	if e.Info() != "a number" {
		t.Errorf("Info() = %q", e.Info())
	}
	if !e.Hidden() {
		t.Error("Hidden() = false")
	}
	if e.Allowed() != nil {
		t.Errorf("Allowed() = %v, want nil", e.Allowed())
	}
	if e.Format() != "3" {
		t.Errorf("Format() = %q", e.Format())
	}
}

func TestEntry_FormatCustom(t *testing.T) {
	e := mustEntry(t, "greeting", "Hello [USER-NAME], [COUNT] new [MISSING]", Meta{})

	got := e.FormatCustom(map[string]any{
		"USER_NAME": "Ada",
		"COUNT":     3,
	})
	want := "Hello Ada, 3 new [MISSING]"
	if got != want {
		t.Errorf("FormatCustom() = %q, want %q", got, want)
	}
}
