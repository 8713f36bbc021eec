// Package jsonfmt reads and writes string tables as the game's JSON object
// documents. Both shapes wrap the strings in a single "LawnStringsData"
// object; they differ in LocStringValues, which is either a flat
// [key, value, ...] array or a {key: value} object.
package jsonfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/lawnstrings/pkg/core"
)

const (
	// ObjClass is the object class of the string table entry.
	ObjClass = "LawnStringsData"
	// Version is the document version written to the "version" field.
	Version = 1
)

type document[T any] struct {
	Version int         `json:"version"`
	Objects []object[T] `json:"objects"`
}

type object[T any] struct {
	Aliases  []string `json:"aliases,omitempty"`
	ObjClass string   `json:"objclass"`
	ObjData  *T       `json:"objdata"`
}

type listData struct {
	LocStringValues []string `json:"LocStringValues"`
}

type mapData struct {
	LocStringValues locMap `json:"LocStringValues"`
}

// Codec implements core.DocumentCodec.
type Codec struct {
	indent string
}

// NewCodec creates a Codec writing documents indented by two spaces.
func NewCodec() *Codec {
	return &Codec{indent: "  "}
}

// DecodeList reads a list-shaped document. A trailing key without value is ignored.
func (c *Codec) DecodeList(r io.Reader) (core.List, error) {
	var doc document[listData]
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	data := firstData(doc)
	if data == nil {
		return core.List{}, nil
	}

	values := data.LocStringValues
	list := make(core.List, 0, len(values)/2)
	for i := 0; i+1 < len(values); i += 2 {
		list = append(list, core.Entry{Key: values[i], Value: values[i+1]})
	}
	return list, nil
}

// DecodeMap reads a map-shaped document, keeping the order of its keys.
func (c *Codec) DecodeMap(r io.Reader) (*core.Map, error) {
	var doc document[mapData]
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	data := firstData(doc)
	if data == nil || data.LocStringValues.m == nil {
		return core.NewMap(0), nil
	}
	return data.LocStringValues.m, nil
}

// EncodeList writes l as a list-shaped document.
func (c *Codec) EncodeList(w io.Writer, l core.List) error {
	values := make([]string, 0, len(l)*2)
	for _, e := range l {
		values = append(values, e.Key, e.Value)
	}
	return c.encode(w, newDocument(&listData{LocStringValues: values}))
}

// EncodeMap writes m as a map-shaped document.
func (c *Codec) EncodeMap(w io.Writer, m *core.Map) error {
	return c.encode(w, newDocument(&mapData{LocStringValues: locMap{m: m}}))
}

// ComponentType implements introspection.Component.
func (c *Codec) ComponentType() string {
	return "json"
}

func (c *Codec) encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", c.indent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func newDocument[T any](data *T) document[T] {
	return document[T]{
		Version: Version,
		Objects: []object[T]{{
			Aliases:  []string{ObjClass},
			ObjClass: ObjClass,
			ObjData:  data,
		}},
	}
}

// firstData returns the payload of the first object, or nil when the document has none.
func firstData[T any](doc document[T]) *T {
	if len(doc.Objects) == 0 {
		return nil
	}
	return doc.Objects[0].ObjData
}

var _ core.DocumentCodec = (*Codec)(nil)
