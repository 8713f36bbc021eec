package jsonfmt

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/lawnstrings/pkg/core"
)

// locMap is a JSON object of strings whose key order survives a round trip.
type locMap struct {
	m *core.Map
}

func (l locMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l.m.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, e.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, e.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object token by token. A repeated key keeps the
// position of its first occurrence and the value of its last.
func (l *locMap) UnmarshalJSON(data []byte) error {
	l.m = core.NewMap(0)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("LocStringValues: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("LocStringValues: expected key, got %v", tok)
		}

		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("LocStringValues[%q]: %w", key, err)
		}
		if value == nil {
			l.m.Set(key, "")
			continue
		}
		l.m.Set(key, *value)
	}

	_, err = dec.Token()
	return err
}

// writeString appends s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}
