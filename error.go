// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package ecsig

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongTag is returned when a DER element does not start with the INTEGER tag.
	ErrWrongTag = errors.New("unexpected tag")

	// ErrUnexpectedEnd is returned when the input ends before a declared element does.
	ErrUnexpectedEnd = errors.New("unexpected end of input")

	// ErrLengthUnsupported is returned for DER lengths which need more than one
	// length byte or which do not fit into the component width.
	ErrLengthUnsupported = errors.New("unsupported length")

	// ErrBufferTooSmall is returned when the destination cannot hold the result.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrEmptyInput is returned for zero-length components.
	ErrEmptyInput = errors.New("empty input")

	// ErrTrailingData is returned when bytes remain after the S component.
	ErrTrailingData = errors.New("trailing data")

	// ErrNonCanonical is returned by strict decoding for INTEGERs which are
	// not minimally encoded or which would be read as negative.
	ErrNonCanonical = errors.New("non-canonical integer encoding")

	// ErrWidthMismatch is returned when R and S differ in length.
	ErrWidthMismatch = errors.New("component width mismatch")

	// ErrWidthUnsupported is returned for component widths the codec can not represent.
	ErrWidthUnsupported = errors.New("unsupported component width")
)

// Component identifies one half of an ECDSA signature.
type Component byte

const (
	ComponentR Component = 'R'
	ComponentS Component = 'S'
)

func (c Component) String() string {
	return string(c)
}

// ComponentError is returned when encoding or decoding of a single
// signature component fails.
type ComponentError struct {
	Component Component
	Err       error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component %s: %v", e.Component, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}

func componentError(c Component, err error) error {
	return &ComponentError{
		Component: c,
		Err:       err,
	}
}
