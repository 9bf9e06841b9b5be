package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/confstore/internal/config/registry"
)

// ErrUnsupportedFormat is returned by LoadFile for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported schema format")

// Heading and entry fields recognized in schema documents.
const (
	fieldEntries       = "entries"
	fieldInfo          = "info"
	fieldPriority      = "priority"
	fieldValue         = "value"
	fieldType          = "type"
	fieldMin           = "min"
	fieldMax           = "max"
	fieldAllowed       = "allowed"
	fieldCaseSensitive = "case_sensitive"
	fieldAllowEmpty    = "allow_empty"
	fieldLock          = "lock"
	fieldHidden        = "hidden"
)

// LoadFile reads a schema document, choosing the decoder by extension:
// .toml, .yaml/.yml, or .json/.jsonc/.hujson.
func LoadFile(fsys afero.Fs, path string) (*Schema, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var s *Schema
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		s, err = DecodeTOML(data)
	case ".yaml", ".yml":
		s, err = DecodeYAML(data)
	case ".json", ".jsonc", ".hujson":
		s, err = DecodeJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

// DecodeTOML decodes a schema from TOML.
//
//	[Audio]
//	info = "Sound settings"
//	priority = 1
//
//	[Audio.entries]
//	Muted = false
//	Volume = { value = 5, min = 0, max = 10, info = "Output volume" }
func DecodeTOML(data []byte) (*Schema, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	return FromMap(raw)
}

// DecodeYAML decodes a schema from YAML using the same layout as DecodeTOML.
func DecodeYAML(data []byte) (*Schema, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return FromMap(raw)
}

// DecodeJSON decodes a schema from JSON. Comments and trailing commas are
// accepted.
func DecodeJSON(data []byte) (*Schema, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return FromMap(raw)
}

// FromMap builds a schema from a decoded document. Each top-level key is a
// heading holding optional info and priority fields and an entries table.
// An entry is either a bare scalar default or a table of value, type, min,
// max, allowed, case_sensitive, allow_empty, lock, priority, info and hidden.
//
// The result is validated; all problems are returned together.
func FromMap(raw map[string]any) (*Schema, error) {
	s := New()
	errs := &ValidationErrors{}

	for _, name := range sortedKeys(raw) {
		fields, ok := raw[name].(map[string]any)
		if !ok {
			errs.AddError(newTypeError(name, "table", raw[name]))
			continue
		}
		if h := decodeHeading(name, fields, errs); h != nil {
			s.Add(h)
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// DecodeEntry builds one entry definition from a bare scalar default or a
// table of entry fields; path names the entry in errors.
func DecodeEntry(path, name string, raw any) (*EntryDef, error) {
	errs := &ValidationErrors{}
	d := decodeEntry(path, name, raw, errs)
	if errs.HasErrors() {
		return nil, errs
	}
	errs = &ValidationErrors{}
	validateEntry(path, d, errs)
	if errs.HasErrors() {
		return nil, errs
	}
	return d, nil
}

func decodeHeading(name string, fields map[string]any, errs *ValidationErrors) *Heading {
	h := &Heading{Name: name, Entries: make(map[string]*EntryDef)}

	for _, key := range sortedKeys(fields) {
		v := fields[key]
		switch key {
		case fieldInfo:
			h.Info = decodeString(name, v, errs)
		case fieldPriority:
			h.Priority = decodeInt(name, v, errs)
		case fieldEntries:
			entries, ok := v.(map[string]any)
			if !ok {
				errs.AddError(newTypeError(name+"."+fieldEntries, "table", v))
				continue
			}
			for _, entryName := range sortedKeys(entries) {
				if d := decodeEntry(name+"."+entryName, entryName, entries[entryName], errs); d != nil {
					h.Entries[entryName] = d
				}
			}
		default:
			errs.AddError(newUnknownFieldError(name + "." + key))
		}
	}
	return h
}

func decodeEntry(path, name string, raw any, errs *ValidationErrors) *EntryDef {
	d := &EntryDef{Name: name}

	fields, ok := raw.(map[string]any)
	if !ok {
		d.Value = normalize(raw)
		return d
	}

	for _, key := range sortedKeys(fields) {
		v := fields[key]
		switch key {
		case fieldValue:
			d.Value = normalize(v)
		case fieldType:
			t, err := registry.ParseType(cast.ToString(v))
			if err != nil {
				errs.Add(path, err.Error())
				continue
			}
			d.Type = t
		case fieldMin:
			d.Min = decodeFloat(path, v, errs)
		case fieldMax:
			d.Max = decodeFloat(path, v, errs)
		case fieldAllowed:
			d.Allowed = decodeStrings(path, v, errs)
		case fieldCaseSensitive:
			d.CaseSensitive = decodeBool(path, v, errs)
		case fieldAllowEmpty:
			d.AllowEmpty = decodeBool(path, v, errs)
		case fieldLock:
			d.Lock = decodeBool(path, v, errs)
		case fieldHidden:
			d.Hidden = decodeBool(path, v, errs)
		case fieldPriority:
			d.Priority = decodeInt(path, v, errs)
		case fieldInfo:
			d.Info = decodeString(path, v, errs)
		default:
			errs.AddError(newUnknownFieldError(path + "." + key))
		}
	}
	return d
}

// normalize maps decoder-specific scalars onto the types the registry infers.
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case int:
		return int64(val)
	case uint64:
		return cast.ToInt64(val)
	default:
		return v
	}
}

func decodeString(path string, v any, errs *ValidationErrors) string {
	s, ok := v.(string)
	if !ok {
		errs.AddError(newTypeError(path, "string", v))
	}
	return s
}

func decodeBool(path string, v any, errs *ValidationErrors) bool {
	b, ok := v.(bool)
	if !ok {
		errs.AddError(newTypeError(path, "boolean", v))
	}
	return b
}

func decodeInt(path string, v any, errs *ValidationErrors) *int {
	v = normalize(v)
	if _, ok := v.(int64); !ok {
		errs.AddError(newTypeError(path, "integer", v))
		return nil
	}
	i := cast.ToInt(v)
	return &i
}

func decodeFloat(path string, v any, errs *ValidationErrors) *float64 {
	if _, isString := v.(string); isString {
		errs.AddError(newTypeError(path, "number", v))
		return nil
	}
	f, err := cast.ToFloat64E(normalize(v))
	if err != nil {
		errs.AddError(newTypeError(path, "number", v))
		return nil
	}
	return &f
}

func decodeStrings(path string, v any, errs *ValidationErrors) []string {
	items, ok := v.([]any)
	if !ok {
		errs.AddError(newTypeError(path, "list of strings", v))
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			errs.AddError(newTypeError(path, "string", item))
			continue
		}
		out = append(out, s)
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
