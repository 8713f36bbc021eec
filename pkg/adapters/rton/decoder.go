package rton

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"
)

// decoder reads RTON values and writes them as compact JSON.
type decoder struct {
	r     *bufio.Reader
	ascii []string
	utf8  []string
}

// Decode reads an RTON document from in and writes it to jsonOut as
// two-space indented JSON.
func Decode(in io.Reader, jsonOut io.Writer) error {
	d := &decoder{r: bufio.NewReader(in)}

	var head [8]byte
	if _, err := io.ReadFull(d.r, head[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	if string(head[:4]) != magic {
		return ErrInvalidHeader
	}
	if v := binary.LittleEndian.Uint32(head[4:]); v != version {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidHeader, v)
	}

	var compact bytes.Buffer
	if err := d.objectBody(&compact); err != nil {
		return err
	}

	var tail [4]byte
	if _, err := io.ReadFull(d.r, tail[:]); err != nil || string(tail[:]) != trailer {
		return ErrInvalidTrailer
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, compact.Bytes(), "", "  "); err != nil {
		return err
	}
	pretty.WriteByte('\n')
	_, err := pretty.WriteTo(jsonOut)
	return err
}

// objectBody reads entries until the end-of-object marker.
func (d *decoder) objectBody(w *bytes.Buffer) error {
	w.WriteByte('{')
	for i := 0; ; i++ {
		typ, err := d.readByte()
		if err != nil {
			return err
		}
		if typ == typeObjectEnd {
			break
		}
		if i > 0 {
			w.WriteByte(',')
		}

		key, err := d.string(typ)
		if err != nil {
			return err
		}
		writeJSONString(w, key)
		w.WriteByte(':')

		if typ, err = d.readByte(); err != nil {
			return err
		}
		if err := d.value(w, typ); err != nil {
			return err
		}
	}
	w.WriteByte('}')
	return nil
}

func (d *decoder) array(w *bytes.Buffer) error {
	typ, err := d.readByte()
	if err != nil {
		return err
	}
	if typ != typeArrayCount {
		return fmt.Errorf("%w: expected array count, got 0x%02X", ErrUnknownType, typ)
	}
	count, err := d.uvarint()
	if err != nil {
		return err
	}

	w.WriteByte('[')
	for i := uint64(0); i < count; i++ {
		if i > 0 {
			w.WriteByte(',')
		}
		if typ, err = d.readByte(); err != nil {
			return err
		}
		if err := d.value(w, typ); err != nil {
			return err
		}
	}
	w.WriteByte(']')

	if typ, err = d.readByte(); err != nil {
		return err
	}
	if typ != typeArrayEnd {
		return fmt.Errorf("%w: expected array end, got 0x%02X", ErrUnknownType, typ)
	}
	return nil
}

func (d *decoder) value(w *bytes.Buffer, typ byte) error {
	switch typ {
	case typeFalse:
		w.WriteString("false")
	case typeTrue:
		w.WriteString("true")
	case typeObject:
		return d.objectBody(w)
	case typeArray:
		return d.array(w)
	case typeInt8Zero, typeUint8Zero, typeInt16Zero, typeUint16Zero, typeInt32Zero,
		typeUint32Zero, typeInt64Zero, typeUint64Zero:
		w.WriteByte('0')
	case typeFloat32Zero, typeFloat64Zero:
		w.WriteString("0.0")
	case typeInt8, typeUint8, typeInt16, typeUint16, typeInt32, typeUint32, typeInt64, typeUint64,
		typeUvarint32, typeUvarint32Alt, typeUvarint64, typeUvarint64Alt,
		typeVarint32, typeVarint32Alt, typeVarint64, typeVarint64Alt:
		return d.integer(w, typ)
	case typeFloat32:
		var bits uint32
		if err := d.fixed(&bits); err != nil {
			return err
		}
		return writeFloat(w, float64(math.Float32frombits(bits)), 32)
	case typeFloat64:
		var bits uint64
		if err := d.fixed(&bits); err != nil {
			return err
		}
		return writeFloat(w, math.Float64frombits(bits), 64)
	default:
		s, err := d.string(typ)
		if err != nil {
			return err
		}
		writeJSONString(w, s)
	}
	return nil
}

func (d *decoder) integer(w *bytes.Buffer, typ byte) error {
	var (
		signed   int64
		unsigned uint64
		isSigned = true
		err      error
	)

	switch typ {
	case typeInt8:
		var v int8
		err = d.fixed(&v)
		signed = int64(v)
	case typeUint8:
		var v uint8
		err = d.fixed(&v)
		signed = int64(v)
	case typeInt16:
		var v int16
		err = d.fixed(&v)
		signed = int64(v)
	case typeUint16:
		var v uint16
		err = d.fixed(&v)
		signed = int64(v)
	case typeInt32:
		var v int32
		err = d.fixed(&v)
		signed = int64(v)
	case typeUint32:
		var v uint32
		err = d.fixed(&v)
		signed = int64(v)
	case typeInt64:
		err = d.fixed(&signed)
	case typeUint64:
		err = d.fixed(&unsigned)
		isSigned = false
	case typeUvarint32, typeUvarint32Alt, typeUvarint64, typeUvarint64Alt:
		unsigned, err = d.uvarint()
		isSigned = false
	case typeVarint32, typeVarint32Alt, typeVarint64, typeVarint64Alt:
		unsigned, err = d.uvarint()
		signed = unzigzag(unsigned)
	}
	if err != nil {
		return err
	}

	if isSigned {
		w.WriteString(strconv.FormatInt(signed, 10))
	} else {
		w.WriteString(strconv.FormatUint(unsigned, 10))
	}
	return nil
}

// string reads a string-typed value, including interned strings and RTIDs.
func (d *decoder) string(typ byte) (string, error) {
	switch typ {
	case typeString:
		return d.rawString()
	case typeUTF8String:
		return d.utf8String()
	case typeCachedString:
		s, err := d.rawString()
		if err != nil {
			return "", err
		}
		d.ascii = append(d.ascii, s)
		return s, nil
	case typeCachedUTF8:
		s, err := d.utf8String()
		if err != nil {
			return "", err
		}
		d.utf8 = append(d.utf8, s)
		return s, nil
	case typeCachedRef:
		return d.reference(d.ascii)
	case typeCachedUTF8Ref:
		return d.reference(d.utf8)
	case typeRTID:
		return d.rtid()
	case typeRTIDNull:
		return nullRTID, nil
	}
	return "", fmt.Errorf("%w: 0x%02X", ErrUnknownType, typ)
}

func (d *decoder) rtid() (string, error) {
	sub, err := d.readByte()
	if err != nil {
		return "", err
	}

	switch sub {
	case rtidZero:
		return nullRTID, nil
	case rtidUID:
		sheet, err := d.utf8String()
		if err != nil {
			return "", err
		}
		second, err := d.uvarint()
		if err != nil {
			return "", err
		}
		first, err := d.uvarint()
		if err != nil {
			return "", err
		}
		var third uint32
		if err := d.fixed(&third); err != nil {
			return "", err
		}
		return fmt.Sprintf("RTID(%d.%d.%08x@%s)", first, second, third, sheet), nil
	case rtidName:
		sheet, err := d.utf8String()
		if err != nil {
			return "", err
		}
		uid, err := d.utf8String()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("RTID(%s@%s)", uid, sheet), nil
	}
	return "", fmt.Errorf("%w: RTID sub-type 0x%02X", ErrUnknownType, sub)
}

func (d *decoder) reference(table []string) (string, error) {
	idx, err := d.uvarint()
	if err != nil {
		return "", err
	}
	if idx >= uint64(len(table)) {
		return "", fmt.Errorf("%w: %d", ErrBadReference, idx)
	}
	return table[idx], nil
}

func (d *decoder) rawString() (string, error) {
	n, err := d.uvarint()
	if err != nil {
		return "", err
	}
	return d.bytes(n)
}

// utf8String reads a character count (unused), a byte length and the bytes.
func (d *decoder) utf8String() (string, error) {
	if _, err := d.uvarint(); err != nil {
		return "", err
	}
	return d.rawString()
}

func (d *decoder) bytes(n uint64) (string, error) {
	if n > math.MaxInt32 {
		return "", fmt.Errorf("rton: string length %d too large", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", truncated(err)
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidString
	}
	return string(buf), nil
}

func (d *decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, truncated(err)
	}
	return b, nil
}

func (d *decoder) uvarint() (uint64, error) {
	v, err := binary.ReadUvarint(d.r)
	if err != nil {
		return 0, truncated(err)
	}
	return v, nil
}

func (d *decoder) fixed(v any) error {
	if err := binary.Read(d.r, binary.LittleEndian, v); err != nil {
		return truncated(err)
	}
	return nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("rton: truncated input: %w", io.ErrUnexpectedEOF)
	}
	return err
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

func writeFloat(w *bytes.Buffer, f float64, bits int) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("rton: %v cannot be represented in json", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	w.WriteString(s)
	if !bytes.ContainsAny([]byte(s), ".eE") {
		w.WriteString(".0")
	}
	return nil
}

func writeJSONString(w *bytes.Buffer, s string) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(s)
	w.Truncate(w.Len() - 1)
}
