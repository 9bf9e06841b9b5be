package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/confstore/internal/config/registry"
)

func testSchema() *Schema {
	return NewBuilder().
		Heading("Audio", HeadingInfo("Sound settings"), HeadingPriority(1)).
		Entry("Audio", "Volume", 5, Range(0, 10), Info("Output volume"), Priority(0)).
		Entry("Audio", "Muted", false).
		Entry("Audio", "Device", "", Hidden()).
		Heading("General", HeadingPriority(0)).
		Entry("General", "Language", "en", Allowed("en", "de")).
		Build()
}

func TestBuilder(t *testing.T) {
	s := testSchema()

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if !s.HasEntry("Audio", "Volume") {
		t.Error("HasEntry(Audio, Volume) = false")
	}
	if s.HasEntry("Audio", "Missing") || s.HasEntry("Missing", "Volume") {
		t.Error("HasEntry reported a missing entry")
	}

	h, ok := s.Heading("Audio")
	if !ok {
		t.Fatal("Heading(Audio) not found")
	}
	if h.Info != "Sound settings" {
		t.Errorf("Info = %q, want %q", h.Info, "Sound settings")
	}

	d, _ := h.Entry("Volume")
	if *d.Min != 0 || *d.Max != 10 || d.Info != "Output volume" {
		t.Errorf("Volume def = %+v", d)
	}
}

func TestSchema_Order(t *testing.T) {
	s := testSchema()

	if diff := cmp.Diff([]string{"General", "Audio"}, s.Order()); diff != "" {
		t.Errorf("Order() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Audio", "General"}, s.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	h, _ := s.Heading("Audio")
	if diff := cmp.Diff([]string{"Volume", "Muted"}, h.Order()); diff != "" {
		t.Errorf("Heading.Order() mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_Clone(t *testing.T) {
	s := testSchema()
	c := s.Clone()

	h, _ := c.Heading("Audio")
	d, _ := h.Entry("Volume")
	*d.Max = 99
	*h.Priority = 7
	d.Info = "changed"

	orig, _ := s.Heading("Audio")
	origDef, _ := orig.Entry("Volume")
	if *origDef.Max != 10 || *orig.Priority != 1 || origDef.Info != "Output volume" {
		t.Error("Clone shares state with the original")
	}
}

func TestEntryDef_Resolve(t *testing.T) {
	lo, hi := 1.0, 3.0
	template := registry.Meta{Type: registry.TypeInt, Min: &lo, Max: &hi, Info: "tmpl", AllowEmpty: true}

	tests := []struct {
		name     string
		def      EntryDef
		wantType registry.Type
		wantMax  float64
		wantInfo string
	}{
		{
			name:     "template fills unset fields",
			def:      EntryDef{Name: "a", Value: 2},
			wantType: registry.TypeInt,
			wantMax:  3,
			wantInfo: "tmpl",
		},
		{
			name:     "definition wins",
			def:      EntryDef{Name: "b", Value: 2.5, Meta: registry.Meta{Type: registry.TypeFloat, Max: &lo, Info: "own"}},
			wantType: registry.TypeFloat,
			wantMax:  1,
			wantInfo: "own",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.def.Resolve(template)
			if m.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", m.Type, tt.wantType)
			}
			if *m.Max != tt.wantMax {
				t.Errorf("Max = %v, want %v", *m.Max, tt.wantMax)
			}
			if m.Info != tt.wantInfo {
				t.Errorf("Info = %q, want %q", m.Info, tt.wantInfo)
			}
			if !m.AllowEmpty {
				t.Error("AllowEmpty from template not applied")
			}
		})
	}
}

func TestEntryDef_NewEntry(t *testing.T) {
	d := &EntryDef{Name: "Volume", Value: 5, Meta: registry.Meta{Min: floatPtr(0), Max: floatPtr(10)}}

	e, err := d.NewEntry(registry.Meta{})
	if err != nil {
		t.Fatalf("NewEntry() error = %v", err)
	}
	if e.Type() != registry.TypeInt || e.Int() != 5 {
		t.Errorf("entry type=%v value=%v", e.Type(), e.Read())
	}
	e.Write(50)
	if e.Int() != 10 {
		t.Errorf("bounds not applied, value = %d", e.Int())
	}
}

func floatPtr(f float64) *float64 { return &f }
