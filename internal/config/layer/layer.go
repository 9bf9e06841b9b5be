// Package layer plans the order in which configuration files are applied.
//
// A load reads one primary file and any number of fallback files. Fallbacks
// are listed from most to least important, so they are applied in reverse;
// the primary file is applied last and wins every tie.
package layer

import "fmt"

// Layer represents a single configuration file in a load plan.
type Layer struct {
	// Name identifies the layer (e.g., "primary", "fallback-1").
	Name string

	// Source indicates the role of the layer.
	Source Source

	// Path is the file path.
	Path string
}

// Source indicates where a value came from.
type Source uint8

const (
	// SourceDefaults represents the schema defaults.
	SourceDefaults Source = iota
	// SourceFallback represents a fallback file.
	SourceFallback
	// SourcePrimary represents the primary file.
	SourcePrimary
	// SourceRuntime represents writes made by the program.
	SourceRuntime
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceFallback:
		return "fallback"
	case SourcePrimary:
		return "primary"
	case SourceRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Required reports whether a missing file matters to the caller.
// A missing fallback is ignored; a missing primary marks the store new.
func (l Layer) Required() bool {
	return l.Source == SourcePrimary
}

// Plan returns the layers of a load in application order.
//
// Fallbacks are applied lowest precedence first, i.e. in reverse of the
// listed order, followed by the primary file. Empty paths and fallbacks equal
// to the primary path are dropped.
func Plan(primary string, fallbacks ...string) []Layer {
	layers := make([]Layer, 0, len(fallbacks)+1)

	for i := len(fallbacks) - 1; i >= 0; i-- {
		path := fallbacks[i]
		if path == "" || path == primary {
			continue
		}
		layers = append(layers, Layer{
			Name:   fmt.Sprintf("fallback-%d", i+1),
			Source: SourceFallback,
			Path:   path,
		})
	}

	if primary != "" {
		layers = append(layers, Layer{
			Name:   SourcePrimary.String(),
			Source: SourcePrimary,
			Path:   primary,
		})
	}
	return layers
}
