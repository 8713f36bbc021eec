package rton

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"
)

// encoder writes RTON values while tracking interned strings.
type encoder struct {
	ascii map[string]uint64
	utf8  map[string]uint64
}

func newEncoder() *encoder {
	return &encoder{
		ascii: make(map[string]uint64),
		utf8:  make(map[string]uint64),
	}
}

// Encode reads a JSON object from jsonIn and writes its RTON form to out.
func Encode(jsonIn io.Reader, out io.Writer) error {
	dec := json.NewDecoder(jsonIn)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}

	bw := bufio.NewWriter(out)
	bw.WriteString(magic)
	binary.Write(bw, binary.LittleEndian, uint32(version))

	e := newEncoder()
	if err := e.objectBody(dec, bw); err != nil {
		return err
	}
	bw.WriteString(trailer)
	return bw.Flush()
}

// objectBody writes the entries up to and including the closing '}'.
func (e *encoder) objectBody(dec *json.Decoder, w *bufio.Writer) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid json: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("invalid json: expected key, got %v", tok)
		}
		e.writeString(w, key)

		if tok, err = dec.Token(); err != nil {
			return fmt.Errorf("invalid json: %w", err)
		}
		if err := e.value(dec, w, tok); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	w.WriteByte(typeObjectEnd)
	return nil
}

func (e *encoder) value(dec *json.Decoder, w *bufio.Writer, tok json.Token) error {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			w.WriteByte(typeObject)
			return e.objectBody(dec, w)
		case '[':
			return e.array(dec, w)
		}
		return fmt.Errorf("invalid json: unexpected %v", v)
	case string:
		if v == nullRTID {
			w.WriteByte(typeRTIDNull)
			return nil
		}
		e.writeString(w, v)
	case json.Number:
		return e.writeNumber(w, v)
	case bool:
		if v {
			w.WriteByte(typeTrue)
		} else {
			w.WriteByte(typeFalse)
		}
	case nil:
		w.WriteByte(typeRTIDNull)
	default:
		return fmt.Errorf("invalid json: unexpected token %v", tok)
	}
	return nil
}

// array buffers the elements because the element count precedes them.
// Interned strings stay consistent since the buffer is emitted right away,
// in the order it was filled.
func (e *encoder) array(dec *json.Decoder, w *bufio.Writer) error {
	var body bytes.Buffer
	bw := bufio.NewWriter(&body)

	var count uint64
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("invalid json: %w", err)
		}
		if err := e.value(dec, bw, tok); err != nil {
			return err
		}
		count++
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	w.WriteByte(typeArray)
	w.WriteByte(typeArrayCount)
	writeUvarint(w, count)
	w.Write(body.Bytes())
	w.WriteByte(typeArrayEnd)
	return nil
}

func (e *encoder) writeString(w *bufio.Writer, s string) {
	if isASCII(s) {
		if idx, ok := e.ascii[s]; ok {
			w.WriteByte(typeCachedRef)
			writeUvarint(w, idx)
			return
		}
		e.ascii[s] = uint64(len(e.ascii))
		w.WriteByte(typeCachedString)
		writeUvarint(w, uint64(len(s)))
		w.WriteString(s)
		return
	}

	if idx, ok := e.utf8[s]; ok {
		w.WriteByte(typeCachedUTF8Ref)
		writeUvarint(w, idx)
		return
	}
	e.utf8[s] = uint64(len(e.utf8))
	w.WriteByte(typeCachedUTF8)
	writeUTF8(w, s)
}

func (e *encoder) writeNumber(w *bufio.Writer, n json.Number) error {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		writeInt(w, i)
		return nil
	}
	if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
		w.WriteByte(typeUint64)
		binary.Write(w, binary.LittleEndian, u)
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", n, err)
	}
	if f == 0 {
		w.WriteByte(typeFloat64Zero)
		return nil
	}
	w.WriteByte(typeFloat64)
	binary.Write(w, binary.LittleEndian, math.Float64bits(f))
	return nil
}

func writeInt(w *bufio.Writer, i int64) {
	switch {
	case i == 0:
		w.WriteByte(typeInt32Zero)
	case i > 0 && i <= math.MaxInt32:
		w.WriteByte(typeUvarint32)
		writeUvarint(w, uint64(i))
	case i < 0 && i >= math.MinInt32:
		w.WriteByte(typeVarint32)
		writeUvarint(w, zigzag(i))
	case i > 0:
		w.WriteByte(typeUvarint64)
		writeUvarint(w, uint64(i))
	default:
		w.WriteByte(typeVarint64)
		writeUvarint(w, zigzag(i))
	}
}

func writeUTF8(w *bufio.Writer, s string) {
	writeUvarint(w, uint64(utf8.RuneCountInString(s)))
	writeUvarint(w, uint64(len(s)))
	w.WriteString(s)
}

func writeUvarint(w *bufio.Writer, v uint64) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	w.Write(buf[:n])
}

func zigzag(i int64) uint64 {
	return uint64(i<<1) ^ uint64(i>>63)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
