package plain

import (
	"bufio"
	"io"
	"strings"

	"github.com/aretw0/lawnstrings/pkg/core"
)

// sectionWriter emits sections in the plain-text layout.
type sectionWriter struct {
	bw      *bufio.Writer
	closer  io.Closer
	newline string
}

func newSectionWriter(w io.Writer, enc core.Encoding, newline string) *sectionWriter {
	sink, closer := encodingWriter(w, enc)
	sw := &sectionWriter{
		bw:      bufio.NewWriter(sink),
		closer:  closer,
		newline: newline,
	}
	if enc == core.EncodingUTF8BOM {
		sw.bw.WriteString(utf8BOM)
	}
	return sw
}

// write emits "[key]" and the cleaned value, then a line terminator that
// leaves a blank line between sections.
func (sw *sectionWriter) write(e core.Entry) {
	sw.bw.WriteByte('[')
	sw.bw.WriteString(e.Key)
	sw.bw.WriteByte(']')
	sw.bw.WriteString(sw.newline)

	sw.bw.WriteString(cleanValue(e.Value))
	sw.bw.WriteString(sw.newline)
}

func (sw *sectionWriter) Close() error {
	if err := sw.bw.Flush(); err != nil {
		return err
	}
	if sw.closer != nil {
		return sw.closer.Close()
	}
	return nil
}

// cleanValue drops carriage returns, turns the two-character escape `\n`
// into a newline and makes sure the result ends with a newline.
func cleanValue(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 1)

	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c == '\\' && i+1 < len(v) && v[i+1] == 'n':
			b.WriteByte('\n')
			i++
		case c == '\r':
		default:
			b.WriteByte(c)
		}
	}

	out := b.String()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// WriteList encodes l. A key that was already written is skipped along with its value.
func (c *Codec) WriteList(w io.Writer, l core.List, enc core.Encoding) error {
	sw := newSectionWriter(w, enc, c.newline)
	seen := make(map[string]struct{}, len(l))
	for _, e := range l {
		if _, ok := seen[e.Key]; ok {
			continue
		}
		seen[e.Key] = struct{}{}
		sw.write(e)
	}
	return sw.Close()
}

// WriteMap encodes every entry of m in map order.
func (c *Codec) WriteMap(w io.Writer, m *core.Map, enc core.Encoding) error {
	sw := newSectionWriter(w, enc, c.newline)
	for _, e := range m.Entries() {
		sw.write(e)
	}
	return sw.Close()
}

// WriteEntries encodes entries as given, duplicates included.
func (c *Codec) WriteEntries(w io.Writer, entries []core.Entry, enc core.Encoding) error {
	sw := newSectionWriter(w, enc, c.newline)
	for _, e := range entries {
		sw.write(e)
	}
	return sw.Close()
}
