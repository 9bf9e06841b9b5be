package config

import (
	"log/slog"

	"github.com/dshills/confstore/internal/config/loader"
	"github.com/dshills/confstore/internal/config/notify"
	"github.com/dshills/confstore/internal/config/registry"
)

// Option configures a Store.
type Option func(*Store)

// WithEditable allows creating and deleting headings and entries.
func WithEditable(enable bool) Option {
	return func(s *Store) {
		s.editable = enable
	}
}

// WithShowHidden includes hidden entries in Values, ExportJSON and section
// iteration.
func WithShowHidden(enable bool) Option {
	return func(s *Store) {
		s.showHidden = enable
	}
}

// WithEntryTemplate sets metadata applied to every entry: fields a schema
// entry leaves unset are taken from it, and entries created at runtime start
// from it.
func WithEntryTemplate(m registry.Meta) Option {
	return func(s *Store) {
		s.template = m.Clone()
	}
}

// WithFileSystem sets the file system used by Load and Save.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(s *Store) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNotifier sets the notifier receiving change events.
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithEmptyLast places entries and headings without a priority after all
// prioritized ones instead of in the first free slot.
func WithEmptyLast(enable bool) Option {
	return func(s *Store) {
		s.emptyLast = enable
	}
}
