// Package rton transcodes between JSON documents and RTON, the binary
// object notation the game ships its string tables in.
//
// A file is the magic "RTON", a little-endian uint32 version, the entries of
// the root object, an end-of-object marker and the trailer "DONE". Every
// value is prefixed with a type byte. Strings may be interned: the first
// occurrence is written in full and later ones refer to it by index.
package rton

import "errors"

const (
	magic   = "RTON"
	trailer = "DONE"
	version = 1
)

// Type bytes.
const (
	typeFalse byte = 0x00
	typeTrue  byte = 0x01

	typeInt8      byte = 0x08
	typeInt8Zero  byte = 0x09
	typeUint8     byte = 0x0A
	typeUint8Zero byte = 0x0B

	typeInt16      byte = 0x10
	typeInt16Zero  byte = 0x11
	typeUint16     byte = 0x12
	typeUint16Zero byte = 0x13

	typeInt32         byte = 0x20
	typeInt32Zero     byte = 0x21
	typeFloat32       byte = 0x22
	typeFloat32Zero   byte = 0x23
	typeUvarint32     byte = 0x24
	typeVarint32      byte = 0x25
	typeUint32        byte = 0x26
	typeUint32Zero    byte = 0x27
	typeUvarint32Alt  byte = 0x28
	typeVarint32Alt   byte = 0x29
	typeInt64         byte = 0x40
	typeInt64Zero     byte = 0x41
	typeFloat64       byte = 0x42
	typeFloat64Zero   byte = 0x43
	typeUvarint64     byte = 0x44
	typeVarint64      byte = 0x45
	typeUint64        byte = 0x46
	typeUint64Zero    byte = 0x47
	typeUvarint64Alt  byte = 0x48
	typeVarint64Alt   byte = 0x49
	typeString        byte = 0x81
	typeUTF8String    byte = 0x82
	typeRTID          byte = 0x83
	typeRTIDNull      byte = 0x84
	typeObject        byte = 0x85
	typeArray         byte = 0x86
	typeCachedString  byte = 0x90
	typeCachedRef     byte = 0x91
	typeCachedUTF8    byte = 0x92
	typeCachedUTF8Ref byte = 0x93
	typeArrayCount    byte = 0xFD
	typeArrayEnd      byte = 0xFE
	typeObjectEnd     byte = 0xFF
)

// RTID sub-types.
const (
	rtidZero byte = 0x00
	rtidUID  byte = 0x02
	rtidName byte = 0x03
)

// nullRTID is the text form of an empty reference. JSON null and this string
// both encode to typeRTIDNull.
const nullRTID = "RTID(0)"

var (
	ErrInvalidHeader  = errors.New("rton: invalid header")
	ErrInvalidTrailer = errors.New("rton: missing DONE trailer")
	ErrUnknownType    = errors.New("rton: unknown type")
	ErrBadReference   = errors.New("rton: string reference out of range")
	ErrNotObject      = errors.New("rton: document root must be a JSON object")
	ErrInvalidString  = errors.New("rton: string is not valid UTF-8")
)
