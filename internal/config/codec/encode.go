package codec

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/rivo/uniseg"
)

// Encoder writes documents to an output stream.
type Encoder struct {
	w    io.Writer
	opts Options
}

// NewEncoder returns an encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: NewOptions(opts...)}
}

// Options returns the encoder's resolved options.
func (e *Encoder) Options() Options {
	return e.opts
}

// Encode writes doc. Sections are separated by a blank line and the output
// ends with a newline.
func (e *Encoder) Encode(doc *Document) error {
	bw := bufio.NewWriter(e.w)

	for i, sec := range doc.Sections {
		if i > 0 {
			bw.WriteByte('\n')
		}
		bw.WriteString("[" + sec.Name + "]\n")

		if sec.Comment != "" {
			for _, line := range strings.Split(sec.Comment, "\n") {
				bw.WriteString(strings.TrimRight("// "+line, " ") + "\n")
			}
		}

		for _, line := range sec.Lines {
			bw.WriteString(e.formatLine(line))
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// Marshal returns the text form of doc.
func Marshal(doc *Document, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) formatLine(line Line) string {
	var text string
	switch {
	case e.opts.KeysOnly:
		text = line.Key + " = "
	case e.opts.Changes:
		text = line.Key + " = " + Escape(line.Value)
	default:
		text = line.Key + " = " + Escape(line.Default)
	}

	comment := e.comment(line.Comment)
	if comment == "" {
		return text
	}

	pad := max(e.opts.MinCommentSpacing, e.opts.CommentColumn-uniseg.StringWidth(text))
	if pad == 0 && strings.HasSuffix(text, "/") {
		// A trailing slash would join the comment marker.
		pad = 1
	}
	return text + strings.Repeat(" ", pad) + "// " + comment
}

func (e *Encoder) comment(c string) string {
	if c == "" || e.opts.IgnoreComments {
		return ""
	}
	for _, prefix := range e.opts.IgnoreCommentPrefixes {
		if strings.HasPrefix(c, prefix) {
			return ""
		}
	}
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(c)
}
