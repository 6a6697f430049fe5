// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package ecsig

import (
	"errors"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

var errNotSequence = errors.New("not a DER SEQUENCE")

// WrapSequence adds the outer SEQUENCE tag and length around a two-INTEGER
// payload as produced by EncodeSignature. The result is an ECDSA signature
// as used by X.509, TLS and crypto/ecdsa.VerifyASN1.
//
// Unlike the INTEGER codec, the SEQUENCE length may use the long form.
func WrapSequence(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyInput
	}

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddBytes(payload)
	})

	return b.Bytes()
}

// UnwrapSequence strips the outer SEQUENCE tag and length from an ASN.1
// ECDSA signature and returns the two-INTEGER payload.
//
// The payload aliases sig. Bytes after the SEQUENCE cause ErrTrailingData.
func UnwrapSequence(sig []byte) ([]byte, error) {
	if len(sig) == 0 {
		return nil, ErrEmptyInput
	}

	var payload cryptobyte.String

	s := cryptobyte.String(sig)
	if !s.ReadASN1(&payload, asn1.SEQUENCE) {
		return nil, errNotSequence
	}

	if !s.Empty() {
		return nil, ErrTrailingData
	}

	return payload, nil
}
