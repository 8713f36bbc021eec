package rton

import (
	"io"

	"github.com/aretw0/lawnstrings/pkg/core"
)

// Codec implements core.BinaryCodec on top of Encode and Decode.
type Codec struct{}

// NewCodec creates a Codec.
func NewCodec() *Codec {
	return &Codec{}
}

func (Codec) Encode(jsonIn io.Reader, out io.Writer) error {
	return Encode(jsonIn, out)
}

func (Codec) Decode(in io.Reader, jsonOut io.Writer) error {
	return Decode(in, jsonOut)
}

// ComponentType implements introspection.Component.
func (Codec) ComponentType() string {
	return "rton"
}

var _ core.BinaryCodec = (*Codec)(nil)
