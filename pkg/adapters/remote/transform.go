package remote

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Transform undoes the compiled-text layer the server wraps resources in.
type Transform string

const (
	// TransformPlain passes the body through unchanged.
	TransformPlain Transform = "plain"
	// TransformZlib inflates a zlib stream.
	TransformZlib Transform = "zlib"
	// TransformBase64Zlib decodes standard base64 and inflates the result.
	TransformBase64Zlib Transform = "base64-zlib"
)

// ParseTransform accepts the names used in configuration files. An empty
// name selects TransformPlain.
func ParseTransform(s string) (Transform, error) {
	switch t := Transform(strings.ToLower(strings.TrimSpace(s))); t {
	case "", TransformPlain:
		return TransformPlain, nil
	case TransformZlib, TransformBase64Zlib:
		return t, nil
	}
	return "", fmt.Errorf("unknown transform %q", s)
}

// Decode wraps r so that reading it yields the decoded resource.
func (t Transform) Decode(r io.Reader) (io.ReadCloser, error) {
	switch t {
	case "", TransformPlain:
		return io.NopCloser(r), nil
	case TransformZlib:
		return inflate(r)
	case TransformBase64Zlib:
		return inflate(base64.NewDecoder(base64.StdEncoding, skipSpace{r}))
	}
	return nil, fmt.Errorf("unknown transform %q", string(t))
}

func inflate(r io.Reader) (io.ReadCloser, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open zlib stream: %w", err)
	}
	return zr, nil
}

// skipSpace drops ASCII whitespace so wrapped base64 bodies decode.
type skipSpace struct {
	r io.Reader
}

func (s skipSpace) Read(p []byte) (int, error) {
	for {
		n, err := s.r.Read(p)
		kept := 0
		for _, b := range p[:n] {
			switch b {
			case ' ', '\t', '\r', '\n':
			default:
				p[kept] = b
				kept++
			}
		}
		if kept > 0 || err != nil {
			return kept, err
		}
	}
}
