package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrRedundantConversion   = errors.New("input and output formats are the same")
	ErrUnsupportedConversion = errors.New("unsupported conversion")
	ErrNumericOverflow       = errors.New("numeric run exceeds 63-bit range")
	ErrMalformedInput        = errors.New("malformed input")
	ErrUnknownFormat         = errors.New("unknown format")
	ErrUnknownEncoding       = errors.New("unknown encoding")
	ErrUnknownCompareMode    = errors.New("unknown compare mode")
)

// OpError records the operation and formats involved in a failure.
type OpError struct {
	Op   string
	From Format
	To   Format
	Err  error
}

func (e *OpError) Error() string {
	if e.From == e.To {
		return fmt.Sprintf("%s %s: %v", e.Op, e.From, e.Err)
	}
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.From, e.To, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
