package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSignatureFound means the source has no recognizable class or
	// interface declaration header.
	ErrNoSignatureFound = errors.New("no class or interface declaration found")

	// ErrMalformedParameter means a parameter list segment did not resolve
	// to exactly a (type, name) pair.
	ErrMalformedParameter = errors.New("malformed parameter")

	// ErrUnrecognizedAccessToken means the scanner captured a modifier
	// outside public, private and protected.
	ErrUnrecognizedAccessToken = errors.New("unrecognized access token")
)

// ParamError reports the offending segment of a parameter list.
type ParamError struct {
	Decl    string // declaration name the list belongs to
	Segment string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %q in %s", ErrMalformedParameter, e.Segment, e.Decl)
}

func (e *ParamError) Unwrap() error {
	return ErrMalformedParameter
}
