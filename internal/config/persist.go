package config

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/dshills/confstore/internal/config/codec"
	"github.com/dshills/confstore/internal/config/layer"
	"github.com/dshills/confstore/internal/config/registry"
)

// Load applies configuration files on top of the current values.
//
// Fallback files are applied in reverse of the listed order, then primary,
// so primary wins every tie and an earlier fallback beats a later one. A
// fallback that cannot be read is ignored. A primary that cannot be read,
// or an empty primary path, marks the store new instead of failing.
//
// Syntax is strict and the schema is lenient: a line that is not a header
// and has no '=' aborts the call with a *codec.ParseError, leaving files
// applied before it in place, while headings and variables the schema does
// not define are skipped.
func (s *Store) Load(primary string, fallbacks ...string) error {
	s.isNew = primary == ""

	for _, l := range layer.Plan(primary, fallbacks...) {
		data, err := s.fs.ReadFile(l.Path)
		if err != nil {
			if l.Required() {
				s.isNew = true
				s.logger.Debug("config file not readable, starting new", "path", l.Path, "error", err)
			} else {
				s.logger.Debug("skipping fallback", "layer", l.Name, "path", l.Path, "error", err)
			}
			continue
		}
		if err := s.apply(l, data); err != nil {
			return err
		}
	}
	return nil
}

// apply parses one file completely before writing any value.
func (s *Store) apply(l layer.Layer, data []byte) error {
	assignments, err := codec.Parse(bytes.NewReader(data), l.Path)
	if err != nil {
		return fmt.Errorf("load %s: %w", l.Name, err)
	}

	batch := s.notifier.NewBatch()
	s.batch, s.source = batch, l.Path

	for _, a := range assignments {
		if !a.HasHeading {
			s.logger.Debug("skipping variable outside a heading", "path", l.Path, "line", a.Line, "key", a.Key)
			continue
		}
		sec, ok := s.sections[a.Heading]
		if !ok || !s.schema.HasEntry(a.Heading, a.Key) || !sec.Has(a.Key) {
			s.logger.Debug("skipping unknown variable", "path", l.Path, "line", a.Line, "heading", a.Heading, "key", a.Key)
			continue
		}
		if accepted, _ := sec.Set(a.Key, a.Value); !accepted {
			s.logger.Debug("value rejected", "path", l.Path, "line", a.Line, "heading", a.Heading, "key", a.Key, "value", a.Value)
		}
	}

	s.batch, s.source = nil, layer.SourceRuntime.String()
	s.logger.Debug("applied config file", "layer", l.Name, "path", l.Path, "changes", batch.Len())
	batch.Commit()
	return nil
}

// Save writes the store to path, creating missing parent directories.
// The file is truncated and rewritten; the write is not atomic.
func (s *Store) Save(path string, opts ...codec.Option) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf, opts...); err != nil {
		return err
	}
	if err := s.fs.EnsureDir(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := s.fs.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	s.logger.Debug("saved config", "path", path, "bytes", buf.Len())
	return nil
}

// Encode writes the text form of the store to w.
func (s *Store) Encode(w io.Writer, opts ...codec.Option) error {
	return codec.NewEncoder(w, opts...).Encode(s.Document())
}

// Document returns the store in serialization order.
//
// Headings and entries come from the schema, so entries created at runtime
// are not included. Deleted headings and entries are omitted.
func (s *Store) Document() *codec.Document {
	doc := &codec.Document{}

	for _, heading := range s.schema.Order(s.order()...) {
		sec, ok := s.sections[heading]
		if !ok {
			continue
		}
		h, _ := s.schema.Heading(heading)

		out := codec.Section{Name: heading, Comment: h.Info}
		for _, name := range h.Order(s.order()...) {
			e, err := sec.Get(name)
			if err != nil {
				continue
			}
			out.Lines = append(out.Lines, codec.Line{
				Key:     name,
				Value:   e.Format(),
				Default: registry.FormatValue(e.Default()),
				Comment: e.Info(),
			})
		}
		doc.Sections = append(doc.Sections, out)
	}
	return doc
}

// Reload restores every unlocked schema entry to its initial value. Locked
// entries keep their current value. Files are not read and deleted headings
// or entries stay deleted. Observers receive a single reload event.
func (s *Store) Reload() {
	headings := make([]string, 0, len(s.backup))
	for h := range s.backup {
		headings = append(headings, h)
	}
	sort.Strings(headings)

	for _, heading := range headings {
		sec, ok := s.sections[heading]
		if !ok {
			continue
		}
		for name, v := range s.backup[heading] {
			e, err := sec.Get(name)
			if err != nil || e.Locked() {
				continue
			}
			if err := e.Restore(v); err != nil {
				s.logger.Debug("cannot restore entry", "heading", heading, "entry", name, "error", err)
			}
		}
	}
	s.notifier.NotifyReload(layer.SourceDefaults.String())
}
