// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package card

import (
	"errors"
	"fmt"

	iso "cunicu.li/go-iso7816"
)

var (
	// ErrNotFound is returned when the selected applet or key is not present on the card.
	ErrNotFound = errors.New("data object or application not found")

	// ErrSecurityStatus is returned when the card requires a PIN or touch before signing.
	ErrSecurityStatus = errors.New("security status not satisfied")

	// ErrWrongData is returned when the card rejects the command data.
	ErrWrongData = errors.New("incorrect command data")

	// ErrInvalidSignature is returned when the card returns a signature
	// which can not be converted.
	ErrInvalidSignature = errors.New("invalid signature from card")
)

func wrapCode(err error) error {
	c, ok := err.(iso.Code) //nolint:errorlint
	if !ok {
		return err
	}

	switch {
	case c == iso.ErrFileOrAppNotFound:
		return ErrNotFound

	case c[0] == 0x6a && c[1] == 0x88:
		// Referenced data or key not found
		return ErrNotFound

	case c[0] == 0x69 && c[1] == 0x82:
		return ErrSecurityStatus

	case c[0] == 0x6a && c[1] == 0x80:
		return ErrWrongData

	case c == iso.ErrAuthenticationMethodBlocked:
		return AuthError{0}

	case c[0] == 0x63 && c[1]&0xf0 == 0xc0:
		return AuthError{int(c[1] & 0xf)}

	default:
		return err
	}
}

// AuthError is returned when the card rejects a PIN.
type AuthError struct {
	// Retries is the number of attempts left before the PIN is blocked.
	Retries int
}

func (e AuthError) Error() string {
	r := "retries"
	if e.Retries == 1 {
		r = "retry"
	}

	return fmt.Sprintf("verification failed (%d %s remaining)", e.Retries, r)
}

func invalidSignature(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
}
