package number

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEncoding is returned when the bytes are long enough but do not
	// represent a value of the type, e.g. a bool flag byte other than 0 or 1.
	ErrInvalidEncoding = errors.New("invalid encoding")
	// ErrMalformedInput is returned when fewer bytes than the type width are given.
	ErrMalformedInput = errors.New("malformed input")
)

// DecodeError describes a failed decode.
//
// The fault kind (ErrInvalidEncoding or ErrMalformedInput) can be matched with errors.Is.
type DecodeError struct {
	Type  string
	Width int
	// Bytes is a copy of the offending input.
	Bytes []byte
	Err   error
}

func (e *DecodeError) Error() string {
	if errors.Is(e.Err, ErrMalformedInput) {
		return fmt.Sprintf("%s: %s needs %d bytes, got %d", e.Err, e.Type, e.Width, len(e.Bytes))
	}
	return fmt.Sprintf("%s: cannot decode %#x as %s", e.Err, e.Bytes, e.Type)
}

func (e *DecodeError) Unwrap() error { return e.Err }
