package registry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/confstore/internal/config/priority"
)

func newTestSection(t *testing.T, opts ...SectionOption) *Section {
	t.Helper()
	return NewSection("Main", []*Entry{
		mustEntry(t, "Language", "en", Meta{Priority: priority.Int(0)}),
		mustEntry(t, "Volume", 5, Meta{Min: floatPtr(0), Max: floatPtr(10), Priority: priority.Int(1)}),
		mustEntry(t, "Debug", false, Meta{}),
		mustEntry(t, "Internal", "x", Meta{Hidden: true}),
	}, opts...)
}

func TestSection_GetIsLiveHandle(t *testing.T) {
	s := newTestSection(t)

	e, err := s.Get("Volume")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	e.Write(7)

	again, _ := s.Get("Volume")
	if again.Int() != 7 {
		t.Errorf("second lookup value = %d, want 7", again.Int())
	}

	if _, err := s.Get("Missing"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Get(Missing) error = %v, want ErrEntryNotFound", err)
	}
}

func TestSection_SetExisting(t *testing.T) {
	var events []Event
	s := newTestSection(t, WithObserver(func(ev Event) { events = append(events, ev) }))

	ok, err := s.Set("Volume", "15")
	if err != nil || !ok {
		t.Fatalf("Set() = %v, %v; want true, nil", ok, err)
	}
	e, _ := s.Get("Volume")
	if e.Int() != 10 {
		t.Errorf("Volume = %d, want clamped 10", e.Int())
	}

	ok, err = s.Set("Volume", "loud")
	if err != nil || ok {
		t.Errorf("Set(invalid) = %v, %v; want false, nil", ok, err)
	}

	// Accepted but unchanged values don't emit.
	s.Set("Volume", 10)

	want := []Event{{Section: "Main", Entry: "Volume", Old: int64(5), New: int64(10)}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSection_SetCreate(t *testing.T) {
	t.Run("not editable", func(t *testing.T) {
		s := newTestSection(t)
		_, err := s.Set("New", 1)
		if !errors.Is(err, ErrNotEditable) {
			t.Errorf("Set(New) error = %v, want ErrNotEditable", err)
		}
		if s.Has("New") {
			t.Error("entry created in non-editable section")
		}
	})

	t.Run("editable infers type", func(t *testing.T) {
		s := newTestSection(t, WithEditable(true))
		ok, err := s.Set("Ratio", 0.5)
		if err != nil || !ok {
			t.Fatalf("Set(Ratio) = %v, %v", ok, err)
		}
		e, _ := s.Get("Ratio")
		if e.Type() != TypeFloat || e.Default() != 0.5 {
			t.Errorf("created entry type=%v default=%v", e.Type(), e.Default())
		}
	})

	t.Run("template type and bounds", func(t *testing.T) {
		s := newTestSection(t, WithEditable(true), WithTemplate(Meta{Type: TypeInt, Min: floatPtr(0)}))
		if _, err := s.Set("Count", "-4"); err != nil {
			t.Fatalf("Set(Count) error = %v", err)
		}
		e, _ := s.Get("Count")
		if e.Type() != TypeInt {
			t.Errorf("Type() = %v, want int", e.Type())
		}
		if e.Default() != int64(-4) {
			t.Errorf("Default() = %#v, want the raw seed -4", e.Default())
		}
		e.Write(-9)
		if e.Int() != 0 {
			t.Errorf("template min not applied, value = %d", e.Int())
		}

		if _, err := s.Set("Bad", "many"); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("Set(Bad) error = %v, want ErrTypeMismatch", err)
		}
	})
}

func TestSection_Delete(t *testing.T) {
	s := newTestSection(t)
	if err := s.Delete("Debug"); !errors.Is(err, ErrNotEditable) {
		t.Errorf("Delete() on non-editable error = %v, want ErrNotEditable", err)
	}

	s = newTestSection(t, WithEditable(true))
	if err := s.Delete("Debug"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if s.Has("Debug") {
		t.Error("Debug still present")
	}
	if err := s.Delete("Debug"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("second Delete() error = %v, want ErrEntryNotFound", err)
	}

	e, _ := s.Get("Language")
	e.SetLock(true)
	if err := s.Delete("Language"); !errors.Is(err, ErrEntryLocked) {
		t.Errorf("Delete(locked) error = %v, want ErrEntryLocked", err)
	}
}

func TestSection_Insert(t *testing.T) {
	s := newTestSection(t)
	if err := s.Insert(mustEntry(t, "X", 1, Meta{})); !errors.Is(err, ErrNotEditable) {
		t.Errorf("Insert() error = %v, want ErrNotEditable", err)
	}

	s = newTestSection(t, WithEditable(true))
	if err := s.Insert(mustEntry(t, "Volume", 2.5, Meta{})); err != nil {
		t.Fatalf("Insert(replace) error = %v", err)
	}
	e, _ := s.Get("Volume")
	if e.Type() != TypeFloat {
		t.Errorf("replaced entry type = %v, want float", e.Type())
	}
}

func TestSection_Iterate(t *testing.T) {
	s := newTestSection(t)

	var names []string
	for name := range s.Iterate(false) {
		names = append(names, name)
	}
	if diff := cmp.Diff([]string{"Language", "Volume", "Debug"}, names); diff != "" {
		t.Errorf("Iterate(false) mismatch (-want +got):\n%s", diff)
	}

	got := s.Values(true)
	want := map[string]any{
		"Language": "en",
		"Volume":   int64(5),
		"Debug":    false,
		"Internal": "x",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Values(true) mismatch (-want +got):\n%s", diff)
	}
}

func TestSection_IterateEmptyLast(t *testing.T) {
	s := NewSection("S", []*Entry{
		mustEntry(t, "b", 1, Meta{Priority: priority.Int(2)}),
		mustEntry(t, "a", 1, Meta{}),
	}, WithOrder(priority.EmptyLast(true)))

	if diff := cmp.Diff([]string{"b", "a"}, s.Names(false)); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}
