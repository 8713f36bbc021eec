package plain

import (
	"io"
	"io/fs"
	"strings"
	"unicode"
)

// DefaultBlockSize is the initial capacity of a section buffer when the
// source does not report a smaller size.
const DefaultBlockSize = 4096

// blockBuffer accumulates the content lines of one section.
// Capacity doubles, or grows to exactly the required size when doubling is
// not enough, so long multi-line blocks are not reallocated per line.
type blockBuffer struct {
	buf []byte
}

func newBlockBuffer(size int) *blockBuffer {
	if size <= 0 {
		size = DefaultBlockSize
	}
	return &blockBuffer{buf: make([]byte, 0, size)}
}

func (b *blockBuffer) ensure(required int) {
	if required <= cap(b.buf) {
		return
	}
	grown := make([]byte, len(b.buf), max(required, cap(b.buf)*2))
	copy(grown, b.buf)
	b.buf = grown
}

// appendLine adds a content line, preceded by '\n' when sep is set.
func (b *blockBuffer) appendLine(line string, sep bool) {
	if sep {
		b.ensure(len(b.buf) + 1)
		b.buf = append(b.buf, '\n')
	}
	b.ensure(len(b.buf) + len(line))
	b.buf = append(b.buf, line...)
}

func (b *blockBuffer) Len() int {
	return len(b.buf)
}

func (b *blockBuffer) Cap() int {
	return cap(b.buf)
}

func (b *blockBuffer) Reset() {
	b.buf = b.buf[:0]
}

// Block returns the joined section content without its trailing newline
// and trailing whitespace.
func (b *blockBuffer) Block() string {
	block := b.buf
	if n := len(block); n > 0 && block[n-1] == '\n' {
		block = block[:n-1]
	}
	return strings.TrimRightFunc(string(block), unicode.IsSpace)
}

// blockSizeOf picks the initial section buffer size for a source.
func blockSizeOf(r io.Reader, fallback int) int {
	if fallback <= 0 {
		fallback = DefaultBlockSize
	}

	var size int64
	switch src := r.(type) {
	case interface{ Stat() (fs.FileInfo, error) }:
		info, err := src.Stat()
		if err != nil || !info.Mode().IsRegular() {
			return fallback
		}
		size = info.Size()
	case interface{ Len() int }:
		size = int64(src.Len())
	default:
		return fallback
	}

	if size > 0 && size < int64(fallback) {
		return int(size)
	}
	return fallback
}
