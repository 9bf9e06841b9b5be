package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/dshills/confstore/internal/config/registry"
)

// Validate checks the schema definition and returns every problem found as
// a *ValidationErrors, or nil when the schema is usable.
//
// Names must survive the text format: a heading may not contain "]", "//"
// or a newline, and an entry name may not contain "=", "//" or a newline
// or start with "[". Each entry needs a declared type or a scalar default
// convertible to it; bounds apply to numeric entries only and allowed values
// to string entries only; the default must satisfy both.
func (s *Schema) Validate() error {
	errs := &ValidationErrors{}
	for _, name := range s.Names() {
		h := s.headings[name]
		validateHeadingName(name, errs)

		for _, entryName := range sortedEntries(h) {
			validateEntry(name+"."+entryName, h.Entries[entryName], errs)
		}
	}
	return errs.AsError()
}

func validateHeadingName(name string, errs *ValidationErrors) {
	switch {
	case strings.TrimSpace(name) == "":
		errs.Add(name, "heading name is empty")
	case strings.TrimSpace(name) != name:
		errs.Add(name, "heading name has surrounding whitespace")
	case strings.ContainsAny(name, "]\n\r"):
		errs.Add(name, "heading name contains ']' or a newline")
	case strings.Contains(name, "//"):
		errs.Add(name, "heading name contains '//'")
	}
}

func validateEntryName(path, name string, errs *ValidationErrors) {
	switch {
	case strings.TrimSpace(name) == "":
		errs.Add(path, "entry name is empty")
	case strings.TrimSpace(name) != name:
		errs.Add(path, "entry name has surrounding whitespace")
	case strings.ContainsAny(name, "=\n\r"):
		errs.Add(path, "entry name contains '=' or a newline")
	case strings.Contains(name, "//"):
		errs.Add(path, "entry name contains '//'")
	case strings.HasPrefix(name, "["):
		errs.Add(path, "entry name starts with '['")
	}
}

func validateEntry(path string, d *EntryDef, errs *ValidationErrors) {
	validateEntryName(path, d.Name, errs)

	t := d.Type
	if t == registry.TypeUnset {
		if d.Value == nil {
			errs.Add(path, "entry needs a type or a default value")
			return
		}
		inferred, ok := registry.InferType(d.Value)
		if !ok {
			errs.AddError(newTypeError(path, "scalar", d.Value))
			return
		}
		t = inferred
	}

	value := t.Zero()
	if d.Value != nil {
		v, err := registry.Convert(t, d.Value)
		if err != nil {
			errs.AddError(newTypeError(path, t.String(), d.Value))
			return
		}
		value = v
	}

	numeric := t == registry.TypeInt || t == registry.TypeFloat
	if (d.Min != nil || d.Max != nil) && !numeric {
		errs.Add(path, fmt.Sprintf("bounds set on %s entry", t))
	}
	if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
		errs.Add(path, fmt.Sprintf("min %v is greater than max %v", *d.Min, *d.Max))
	}
	if d.Allowed != nil && t != registry.TypeString {
		errs.Add(path, fmt.Sprintf("allowed values set on %s entry", t))
	}

	if numeric {
		f := cast.ToFloat64(value)
		if (d.Min != nil && f < *d.Min) || (d.Max != nil && f > *d.Max) {
			errs.AddError(newRangeError(path, value, d.Min, d.Max))
		}
	}
	if t == registry.TypeString && d.Allowed != nil {
		str := value.(string)
		if str != "" && !containsValue(d.Allowed, str, d.CaseSensitive) {
			errs.AddError(newAllowedError(path, str, d.Allowed))
		}
	}
}

func containsValue(allowed []string, v string, caseSensitive bool) bool {
	for _, a := range allowed {
		if a == v || (!caseSensitive && strings.EqualFold(a, v)) {
			return true
		}
	}
	return false
}

func sortedEntries(h *Heading) []string {
	names := make([]string, 0, len(h.Entries))
	for name := range h.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
