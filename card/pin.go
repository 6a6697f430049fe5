// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package card

import (
	"errors"
	"fmt"

	iso "cunicu.li/go-iso7816"
)

const (
	// Key references for VERIFY
	refPIVPIN         = 0x80
	refOpenPGPSignPIN = 0x81

	pivPINLen        = 8
	openPGPMinPINLen = 6
	openPGPMaxPINLen = 127
)

var errInvalidPINLength = errors.New("invalid PIN length")

// VerifyPIVPIN authenticates against the selected PIV applet.
//
// https://nvlpubs.nist.gov/nistpubs/SpecialPublications/NIST.SP.800-73-4.pdf#page=86
func VerifyPIVPIN(tx Transmitter, pin string) error {
	data := []byte(pin)
	if len(data) == 0 {
		return fmt.Errorf("%w: cannot be empty", errInvalidPINLength)
	}

	if len(data) > pivPINLen {
		return fmt.Errorf("%w: longer than %d bytes", errInvalidPINLength, pivPINLen)
	}

	for i := len(data); i < pivPINLen; i++ {
		data = append(data, 0xff)
	}

	if _, err := send(tx, iso.InsVerify, 0, refPIVPIN, data); err != nil {
		return fmt.Errorf("failed to verify PIN: %w", err)
	}

	return nil
}

// VerifyOpenPGPPIN authenticates the signing PIN (PW1) against the selected
// OpenPGP applet. Depending on the card configuration it is valid for a
// single signature only.
func VerifyOpenPGPPIN(tx Transmitter, pin string) error {
	if n := len(pin); n < openPGPMinPINLen || n > openPGPMaxPINLen {
		return fmt.Errorf("%w: must be %d to %d bytes", errInvalidPINLength, openPGPMinPINLen, openPGPMaxPINLen)
	}

	if _, err := send(tx, iso.InsVerify, 0, refOpenPGPSignPIN, []byte(pin)); err != nil {
		return fmt.Errorf("failed to verify PIN: %w", err)
	}

	return nil
}
