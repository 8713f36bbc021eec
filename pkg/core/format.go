package core

import (
	"fmt"
	"strings"
)

// Format selects the codec chain a string table is read from or written to.
type Format int

const (
	FormatPlainText Format = iota
	FormatJSONList
	FormatJSONMap
	FormatRTONList
	FormatRTONMap
)

// Formats lists every supported format, in declaration order.
var Formats = []Format{FormatPlainText, FormatJSONList, FormatJSONMap, FormatRTONList, FormatRTONMap}

func (f Format) String() string {
	switch f {
	case FormatPlainText:
		return "plain"
	case FormatJSONList:
		return "json-list"
	case FormatJSONMap:
		return "json-map"
	case FormatRTONList:
		return "rton-list"
	case FormatRTONMap:
		return "rton-map"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	return f >= FormatPlainText && f <= FormatRTONMap
}

// IsList reports whether the format stores the list-shaped document.
func (f Format) IsList() bool {
	return f == FormatJSONList || f == FormatRTONList
}

// Extension returns the default file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatJSONList, FormatJSONMap:
		return ".json"
	case FormatRTONList, FormatRTONMap:
		return ".rton"
	default:
		return ".txt"
	}
}

// ParseFormat converts a user supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "txt", "text", "plaintext":
		return FormatPlainText, nil
	case "json-list", "jsonlist", "json":
		return FormatJSONList, nil
	case "json-map", "jsonmap":
		return FormatJSONMap, nil
	case "rton-list", "rtonlist", "rton":
		return FormatRTONList, nil
	case "rton-map", "rtonmap":
		return FormatRTONMap, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Encoding selects the text encoding of the plain-text format.
type Encoding int

const (
	// EncodingUTF8BOM is UTF-8 with a leading byte order mark.
	EncodingUTF8BOM Encoding = iota
	// EncodingUTF16LE is UTF-16 little endian, written without a byte order mark.
	EncodingUTF16LE
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8BOM:
		return "utf8-bom"
	case EncodingUTF16LE:
		return "utf16le"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// ParseEncoding converts a user supplied name into an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf8", "utf-8", "utf8-bom", "utf8bom":
		return EncodingUTF8BOM, nil
	case "utf16", "utf-16", "utf16le", "utf-16le":
		return EncodingUTF16LE, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

// CompareMode selects which diff set Compare produces.
type CompareMode int

const (
	CompareAdded CompareMode = iota
	CompareChanged
	CompareFullDiff
)

func (m CompareMode) String() string {
	switch m {
	case CompareAdded:
		return "added"
	case CompareChanged:
		return "changed"
	case CompareFullDiff:
		return "full"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseCompareMode converts a user supplied name into a CompareMode.
func ParseCompareMode(s string) (CompareMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "added", "new":
		return CompareAdded, nil
	case "changed":
		return CompareChanged, nil
	case "full", "fulldiff", "full-diff":
		return CompareFullDiff, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCompareMode, s)
}
