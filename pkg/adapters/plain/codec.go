// Package plain implements the bracketed plain-text string table format:
//
//	[KEY_ONE]
//	First value
//
//	[KEY_TWO]
//	A value spanning
//	two lines
//
// Files are UTF-8 with a byte order mark or UTF-16 little endian.
package plain

import "github.com/aretw0/lawnstrings/pkg/core"

// Codec reads and writes plain-text string tables. It holds no per-call state.
type Codec struct {
	newline   string
	blockSize int
}

// Option configures a Codec.
type Option func(*Codec)

// WithLineTerminator overrides the platform line terminator used when writing.
func WithLineTerminator(s string) Option {
	return func(c *Codec) {
		c.newline = s
	}
}

// WithBlockSize sets the initial section buffer capacity.
func WithBlockSize(n int) Option {
	return func(c *Codec) {
		c.blockSize = n
	}
}

// NewCodec creates a Codec.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		newline:   platformLineTerminator(),
		blockSize: DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComponentType implements introspection.Component.
func (c *Codec) ComponentType() string {
	return "plain-text"
}

var _ core.PlainCodec = (*Codec)(nil)
