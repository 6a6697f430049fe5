// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package card

import (
	"crypto"
	"crypto/ecdsa"
	"fmt"
	"io"

	iso "cunicu.li/go-iso7816"
	"cunicu.li/go-iso7816/encoding/tlv"

	"cunicu.li/go-ecsig"
)

// https://nvlpubs.nist.gov/nistpubs/SpecialPublications/NIST.SP.800-78-4.pdf#page=21
const (
	algECCP256 = 0x11
	algECCP384 = 0x14
)

// PIV key references.
//
// https://nvlpubs.nist.gov/nistpubs/SpecialPublications/NIST.SP.800-78-4.pdf#page=16
const (
	SlotAuthentication     byte = 0x9a
	SlotSignature          byte = 0x9c
	SlotKeyManagement      byte = 0x9d
	SlotCardAuthentication byte = 0x9e
)

// UnsupportedCurveError is used when a key has an unsupported curve
type UnsupportedCurveError struct {
	curve int
}

func (e UnsupportedCurveError) Error() string {
	return fmt.Sprintf("unsupported curve: %d", e.curve)
}

// PIVKey is a crypto.Signer for ECDSA keys in a slot of a PIV applet.
//
// The applet returns DER encoded signatures. Sign returns them in canonical
// form, SignRaw converts them to R || S as needed by JOSE, COSE or
// secure elements.
type PIVKey struct {
	tx    Transmitter
	slot  byte
	alg   byte
	pub   *ecdsa.PublicKey
	codec *ecsig.Codec
}

var _ crypto.Signer = (*PIVKey)(nil)

// NewPIVKey returns a signer using the key in slot of the PIV applet
// selected on tx. pub must be the public key of that slot.
func NewPIVKey(tx Transmitter, slot byte, pub *ecdsa.PublicKey) (*PIVKey, error) {
	codec, err := codecForKey(pub)
	if err != nil {
		return nil, err
	}

	var alg byte
	switch size := pub.Params().BitSize; size {
	case 256:
		alg = algECCP256
	case 384:
		alg = algECCP384
	default:
		return nil, UnsupportedCurveError{curve: size}
	}

	return &PIVKey{
		tx:    tx,
		slot:  slot,
		alg:   alg,
		pub:   pub,
		codec: codec,
	}, nil
}

// Public returns the public key associated with this private key.
func (k *PIVKey) Public() crypto.PublicKey {
	return k.pub
}

// Sign implements crypto.Signer.
func (k *PIVKey) Sign(_ io.Reader, digest []byte, _ crypto.SignerOpts) ([]byte, error) {
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
func (k *PIVKey) SignRaw(digest []byte) ([]byte, error) {
	sig, err := k.sign(digest)
	if err != nil {
		return nil, err
	}

	rs, err := k.codec.UnmarshalASN1(sig)
	if err != nil {
		return nil, invalidSignature(err)
	}

	return rs, nil
}

func (k *PIVKey) sign(digest []byte) ([]byte, error) {
	digest = truncateDigest(digest, k.codec.Width)

	// https://nvlpubs.nist.gov/nistpubs/SpecialPublications/NIST.SP.800-73-4.pdf#page=118
	resp, err := sendTLV(k.tx, iso.InsGeneralAuthenticate, k.alg, k.slot,
		tlv.New(0x7c,
			tlv.New(0x82),
			tlv.New(0x81, digest)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute command: %w", err)
	}

	sig, _, ok := resp.GetChild(0x7c, 0x82)
	if !ok {
		return nil, fmt.Errorf("%w: missing tag", errUnmarshal)
	}

	return sig, nil
}
