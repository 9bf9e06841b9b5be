package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/sjson"
)

// Values returns a snapshot of every heading's current values. Hidden
// entries are included only on stores created WithShowHidden.
func (s *Store) Values() map[string]map[string]any {
	out := make(map[string]map[string]any, len(s.sections))
	for name, sec := range s.sections {
		out[name] = sec.Values(s.showHidden)
	}
	return out
}

// ExportJSON returns the current values as a JSON object of headings, each
// an object of entries in priority order. Non-finite floats are exported as
// strings.
func (s *Store) ExportJSON() ([]byte, error) {
	doc := []byte("{}")

	var err error
	for _, heading := range s.Headings() {
		hp := jsonPathPart(heading)
		if doc, err = sjson.SetRawBytes(doc, hp, []byte("{}")); err != nil {
			return nil, fmt.Errorf("export [%s]: %w", heading, err)
		}

		for name, v := range s.sections[heading].Iterate(s.showHidden) {
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				v = fmt.Sprint(f)
			}
			if doc, err = sjson.SetBytes(doc, hp+"."+jsonPathPart(name), v); err != nil {
				return nil, fmt.Errorf("export [%s] %s: %w", heading, name, err)
			}
		}
	}
	return doc, nil
}

// jsonPathPart escapes a key for use as one component of an sjson path.
// All-digit keys are forced to object keys.
func jsonPathPart(key string) string {
	escaped := escapePathPart(key)
	if strings.Trim(key, "0123456789") == "" {
		return ":" + escaped
	}
	return escaped
}

func escapePathPart(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '\\', '.', '*', '?', '|', '#', '@', '!', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// JSONPath returns the gjson path addressing an entry in ExportJSON output.
func JSONPath(heading, name string) string {
	return escapePathPart(heading) + "." + escapePathPart(name)
}
