package core

import "io"

// PlainCodec reads and writes the bracketed plain-text format.
type PlainCodec interface {
	// ReadList decodes sections in file order; duplicate keys keep their first occurrence.
	ReadList(r io.Reader, enc Encoding) (List, error)
	// ReadMap decodes sections into a Map; duplicate keys keep their last value.
	ReadMap(r io.Reader, enc Encoding) (*Map, error)
	// WriteList encodes the list, skipping keys that were already written.
	WriteList(w io.Writer, l List, enc Encoding) error
	// WriteMap encodes every entry of the map in map order.
	WriteMap(w io.Writer, m *Map, enc Encoding) error
	// WriteEntries encodes entries in the given order without skipping duplicates.
	WriteEntries(w io.Writer, entries []Entry, enc Encoding) error
}

// DocumentCodec reads and writes the JSON string documents.
type DocumentCodec interface {
	DecodeList(r io.Reader) (List, error)
	DecodeMap(r io.Reader) (*Map, error)
	EncodeList(w io.Writer, l List) error
	EncodeMap(w io.Writer, m *Map) error
}

// BinaryCodec transcodes between JSON documents and their binary (RTON) form.
type BinaryCodec interface {
	// Encode reads a JSON document from jsonIn and writes its binary form to out.
	Encode(jsonIn io.Reader, out io.Writer) error
	// Decode reads a binary document from in and writes it as JSON to jsonOut.
	Decode(in io.Reader, jsonOut io.Writer) error
}

// Codecs groups the adapters the Service dispatches to.
type Codecs struct {
	Plain    PlainCodec
	Document DocumentCodec
	Binary   BinaryCodec
}
