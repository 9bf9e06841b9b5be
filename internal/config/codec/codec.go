// Package codec reads and writes the store's text format.
//
// A file is a sequence of sections:
//
//	[Audio]
//	// Sound settings
//	Volume = 5        // Output volume
//	Muted = false
//
// A "[Name]" line opens a section and the "// " lines right after it carry
// the heading comment. Every other non-blank line is "key = value", split on
// the first '='. Text from the first unescaped "//" to the end of a line is a
// comment. Values escape backslashes, newlines, carriage returns and "//" so
// they survive a round trip.
package codec

// Document is the serialized form of a store.
type Document struct {
	Sections []Section
}

// Section is one heading and its lines, in output order.
type Section struct {
	// Name is written as [Name].
	Name string

	// Comment is the heading comment; each line becomes "// line".
	Comment string

	// Lines are the section's variables.
	Lines []Line
}

// Line is one variable.
type Line struct {
	// Key is the variable name.
	Key string

	// Value is the current value in text form.
	Value string

	// Default is the schema default in text form, written instead of
	// Value when changes are excluded.
	Default string

	// Comment is the inline comment; newlines are written as spaces.
	Comment string
}

// DefaultMinCommentSpacing is the minimum gap between a value and its comment.
const DefaultMinCommentSpacing = 8

// Options controls how a Document is written.
type Options struct {
	// Changes writes current values; otherwise schema defaults are written.
	Changes bool

	// KeysOnly writes "key = " with no value.
	KeysOnly bool

	// CommentColumn aligns inline comments to this column when the line is
	// short enough.
	CommentColumn int

	// MinCommentSpacing is the minimum number of spaces before "//".
	MinCommentSpacing int

	// IgnoreComments drops every inline comment.
	IgnoreComments bool

	// IgnoreCommentPrefixes drops inline comments starting with any prefix.
	IgnoreCommentPrefixes []string
}

// Option configures an encoding.
type Option func(*Options)

// NewOptions returns the options after applying opts to the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{
		Changes:           true,
		MinCommentSpacing: DefaultMinCommentSpacing,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithChanges selects current values (true) or schema defaults (false).
func WithChanges(enable bool) Option {
	return func(o *Options) {
		o.Changes = enable
	}
}

// WithKeysOnly writes placeholders with empty values.
func WithKeysOnly() Option {
	return func(o *Options) {
		o.KeysOnly = true
	}
}

// WithCommentColumn aligns inline comments to column n.
func WithCommentColumn(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.CommentColumn = n
		}
	}
}

// WithMinCommentSpacing sets the minimum gap before an inline comment.
func WithMinCommentSpacing(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.MinCommentSpacing = n
		}
	}
}

// WithoutComments drops every inline comment. Heading comments are kept.
func WithoutComments() Option {
	return func(o *Options) {
		o.IgnoreComments = true
	}
}

// WithIgnoreCommentPrefixes drops inline comments starting with any prefix.
func WithIgnoreCommentPrefixes(prefixes ...string) Option {
	return func(o *Options) {
		o.IgnoreCommentPrefixes = append(o.IgnoreCommentPrefixes, prefixes...)
	}
}
