// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package card

import (
	"crypto"
	"crypto/ecdsa"
	"fmt"
	"io"

	"cunicu.li/go-ecsig"
)

// https://gnupg.org/ftp/specs/OpenPGP-smart-card-application-3.4.1.pdf#page=73
const (
	insPerformSecurityOperation = 0x2a
	p1DigitalSignature          = 0x9e
	p2DataToBeSigned            = 0x9a
)

// OpenPGPKey is a crypto.Signer for ECDSA keys in the signature slot of an
// OpenPGP card applet.
//
// The applet returns signatures as raw R || S. Sign converts them to the
// ASN.1 form expected by crypto/x509 and crypto/tls, SignRaw returns them
// unchanged.
type OpenPGPKey struct {
	tx    Transmitter
	pub   *ecdsa.PublicKey
	codec *ecsig.Codec
}

var _ crypto.Signer = (*OpenPGPKey)(nil)

// NewOpenPGPKey returns a signer using the signature key of the OpenPGP
// applet selected on tx. pub must be the public key of that slot.
func NewOpenPGPKey(tx Transmitter, pub *ecdsa.PublicKey) (*OpenPGPKey, error) {
	codec, err := codecForKey(pub)
	if err != nil {
		return nil, err
	}

	return &OpenPGPKey{
		tx:    tx,
		pub:   pub,
		codec: codec,
	}, nil
}

// Public returns the public key associated with this private key.
func (k *OpenPGPKey) Public() crypto.PublicKey {
	return k.pub
}

// Sign implements crypto.Signer.
func (k *OpenPGPKey) Sign(_ io.Reader, digest []byte, _ crypto.SignerOpts) ([]byte, error) {
	rs, err := k.SignRaw(digest)
	if err != nil {
		return nil, err
	}

	sig, err := k.codec.MarshalASN1(rs)
	if err != nil {
		return nil, invalidSignature(err)
	}

	return sig, nil
}

// SignRaw signs digest and returns the signature as R || S.
func (k *OpenPGPKey) SignRaw(digest []byte) ([]byte, error) {
	digest = truncateDigest(digest, k.codec.Width)

	rs, err := send(k.tx, insPerformSecurityOperation, p1DigitalSignature, p2DataToBeSigned, digest)
	if err != nil {
		return nil, fmt.Errorf("failed to execute command: %w", err)
	}

	if n := len(rs); n != k.codec.RawLen() {
		return nil, fmt.Errorf("%w for signature: got=%dB, want=%dB", errUnexpectedLength, n, k.codec.RawLen())
	}

	return rs, nil
}
