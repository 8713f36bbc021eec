package plain

import (
	"errors"
	"io"
	"runtime"

	"github.com/aretw0/lawnstrings/pkg/core"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	byteOrderMark = '\uFEFF'
	utf8BOM       = "\xEF\xBB\xBF"
)

// utf16le never interprets or emits a byte order mark; a leading U+FEFF is
// stripped by the line reader like in UTF-8 sources.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// platformLineTerminator is the line terminator written after each section header.
func platformLineTerminator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// errInvalidUTF16 is reported by utf16Validator; the line reader turns it
// into a SyntaxError.
var errInvalidUTF16 = errors.New("plain: invalid UTF-16LE sequence")

// utf16Validator passes UTF-16LE code units through unchanged and fails on
// an unpaired surrogate or an odd trailing byte. The x/text decoder would
// replace both with U+FFFD.
type utf16Validator struct{ transform.NopResetter }

func (utf16Validator) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc+2 <= len(src) {
		u := uint16(src[nSrc]) | uint16(src[nSrc+1])<<8
		size := 2
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if nSrc+4 > len(src) {
				if atEOF {
					return nDst, nSrc, errInvalidUTF16
				}
				return nDst, nSrc, transform.ErrShortSrc
			}
			if lo := uint16(src[nSrc+2]) | uint16(src[nSrc+3])<<8; lo < 0xDC00 || lo > 0xDFFF {
				return nDst, nSrc, errInvalidUTF16
			}
			size = 4
		case u >= 0xDC00 && u <= 0xDFFF:
			return nDst, nSrc, errInvalidUTF16
		}
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}
	if nSrc < len(src) {
		if atEOF {
			return nDst, nSrc, errInvalidUTF16
		}
		return nDst, nSrc, transform.ErrShortSrc
	}
	return nDst, nSrc, nil
}

// decodingReader returns a reader yielding UTF-8 for the given encoding.
// Validation runs as its own reader so every code unit before a bad
// sequence is decoded before the error surfaces.
func decodingReader(r io.Reader, enc core.Encoding) io.Reader {
	if enc == core.EncodingUTF16LE {
		return transform.NewReader(transform.NewReader(r, utf16Validator{}), utf16le.NewDecoder())
	}
	return r
}

// encodingWriter returns a writer accepting UTF-8 and producing the given encoding.
// The returned closer flushes pending transformed bytes; it does not close w.
func encodingWriter(w io.Writer, enc core.Encoding) (io.Writer, io.Closer) {
	if enc == core.EncodingUTF16LE {
		tw := transform.NewWriter(w, utf16le.NewEncoder())
		return tw, tw
	}
	return w, nil
}
