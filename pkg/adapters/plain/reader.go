package plain

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/lawnstrings/pkg/core"
)

// SyntaxError reports the physical line where decoding failed.
type SyntaxError struct {
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// sectionName reports whether line is a section header and returns its name.
func sectionName(line string) (string, bool) {
	t := strings.TrimSpace(line)
	if len(t) >= 2 && t[0] == '[' && t[len(t)-1] == ']' {
		return t[1 : len(t)-1], true
	}
	return "", false
}

// lineReader yields physical lines without their terminators.
type lineReader struct {
	br         *bufio.Reader
	validate   bool
	bomPending bool
	line       int
}

func newLineReader(r io.Reader, enc core.Encoding) *lineReader {
	return &lineReader{
		br:         bufio.NewReader(decodingReader(r, enc)),
		validate:   enc == core.EncodingUTF8BOM,
		bomPending: true,
	}
}

// next returns the next line; ok is false at end of input.
func (lr *lineReader) next() (line string, ok bool, err error) {
	s, err := lr.br.ReadString('\n')
	if errors.Is(err, errInvalidUTF16) {
		return "", false, &SyntaxError{Line: lr.line + 1, Err: core.ErrMalformedInput}
	}
	if err != nil && err != io.EOF {
		return "", false, err
	}
	if s == "" && err == io.EOF {
		return "", false, nil
	}
	lr.line++

	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")

	if lr.bomPending {
		lr.bomPending = false
		s = strings.TrimPrefix(s, string(byteOrderMark))
	}

	if lr.validate && !utf8.ValidString(s) {
		return "", false, &SyntaxError{Line: lr.line, Err: core.ErrMalformedInput}
	}
	return s, true, nil
}

// decoder segments a plain-text stream into sections.
//
// Both decode modes share the segmentation; they differ in what a repeated
// header does. In list mode the first occurrence wins: the repeated section
// is skipped, along with the one line following it. In map mode the last
// occurrence wins: the line following the repeated header starts its new
// content. In both modes a header found right after a repeated header is
// handled as the next section.
type decoder struct {
	lines    *lineReader
	block    *blockBuffer
	lastWins bool
	seen     func(key string) bool
	emit     func(key, value string)
}

func (d *decoder) run() error {
	var (
		key        string
		hasKey     bool
		hasContent bool
	)

	flush := func() {
		if hasKey {
			d.emit(key, d.block.Block())
		}
		d.block.Reset()
		hasContent = false
	}

	line, ok, err := d.lines.next()
	for ok {
		if name, isHeader := sectionName(line); isHeader {
			flush()
			hasKey = false

			if !d.seen(name) {
				key, hasKey = name, true
			} else {
				next, more, err := d.lines.next()
				if err != nil {
					return err
				}
				if !more {
					break
				}
				if _, nextIsHeader := sectionName(next); nextIsHeader {
					line = next
					continue
				}
				if d.lastWins {
					key, hasKey = name, true
					d.block.appendLine(next, false)
					hasContent = true
				}
			}
		} else if hasKey {
			d.block.appendLine(line, hasContent)
			hasContent = true
		}

		if line, ok, err = d.lines.next(); err != nil {
			return err
		}
	}

	flush()
	return nil
}

// ReadList decodes the sections of r in file order. Repeated keys keep their first occurrence.
func (c *Codec) ReadList(r io.Reader, enc core.Encoding) (core.List, error) {
	var list core.List
	seen := make(map[string]struct{})

	d := &decoder{
		lines: newLineReader(r, enc),
		block: newBlockBuffer(blockSizeOf(r, c.blockSize)),
		seen: func(key string) bool {
			if _, ok := seen[key]; ok {
				return true
			}
			seen[key] = struct{}{}
			return false
		},
		emit: func(key, value string) {
			list = append(list, core.Entry{Key: key, Value: value})
		},
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return list, nil
}

// ReadMap decodes the sections of r into a Map. Repeated keys keep their last value.
func (c *Codec) ReadMap(r io.Reader, enc core.Encoding) (*core.Map, error) {
	m := core.NewMap(0)

	d := &decoder{
		lines:    newLineReader(r, enc),
		block:    newBlockBuffer(blockSizeOf(r, c.blockSize)),
		lastWins: true,
		seen:     m.Has,
		emit:     m.Set,
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return m, nil
}
