// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

// Package ecsig converts ECDSA signatures between the fixed-width raw
// representation used by secure elements and smart cards (R and S as
// unsigned big-endian integers of equal width) and the DER encoding
// of the two INTEGERs used by X.509, TLS and PKCS.
//
// The codec works on the bare payload INTEGER r, INTEGER s. The
// enclosing SEQUENCE is handled separately by WrapSequence and
// UnwrapSequence, or by the Codec.MarshalASN1 and Codec.UnmarshalASN1
// helpers.
//
// All functions are stateless and safe for concurrent use.
package ecsig

import (
	"crypto/elliptic"
	"fmt"
	"math/big"
)

// maxWidth is the widest component for which every value has a DER
// encoding with a single length byte.
const maxWidth = maxLength - 1

// Codec converts signatures of a fixed component width.
type Codec struct {
	// Width is the length of a single raw component in bytes.
	Width int

	// AllowTrailingData accepts payloads which are followed by zero
	// bytes, as found in fixed-size buffers returned by some devices.
	// Non-zero trailing bytes are always rejected.
	AllowTrailingData bool

	// Strict rejects INTEGERs which are not canonically encoded.
	Strict bool
}

// NewCodec returns a codec for components of width bytes.
func NewCodec(width int) (*Codec, error) {
	if width < 1 || width > maxWidth {
		return nil, fmt.Errorf("%w: %d", ErrWidthUnsupported, width)
	}

	return &Codec{
		Width: width,
	}, nil
}

// CodecForCurve returns a codec for signatures over the given curve.
func CodecForCurve(curve elliptic.Curve) (*Codec, error) {
	return NewCodec(CurveWidth(curve))
}

// CurveWidth returns the component width for signatures over curve,
// which is the byte length of the curve order.
func CurveWidth(curve elliptic.Curve) int {
	return (curve.Params().N.BitLen() + 7) / 8
}

// RawLen returns the length of a raw R || S signature.
func (c *Codec) RawLen() int {
	return 2 * c.Width
}

// MaxEncodedLen returns the worst-case length of an encoded payload.
func (c *Codec) MaxEncodedLen() int {
	return MaxEncodedLen(c.Width)
}

// Encode encodes the raw signature rs (R || S) into dst and returns the
// number of bytes written.
func (c *Codec) Encode(dst, rs []byte) (int, error) {
	if len(rs) != c.RawLen() {
		return 0, fmt.Errorf("%w: got=%dB, want=%dB", ErrWidthMismatch, len(rs), c.RawLen())
	}

	return EncodeSignature(dst, rs[:c.Width], rs[c.Width:])
}

// Decode decodes the payload der into dst as R || S and returns the number
// of bytes written.
func (c *Codec) Decode(dst, der []byte) (int, error) {
	return decodeSignature(dst, der, c.Width, decodeOptions{
		allowTrailingZeros: c.AllowTrailingData,
		strict:             c.Strict,
	})
}

// checkWidth validates Width for methods which allocate.
func (c *Codec) checkWidth() error {
	if err := checkDecodeWidth(c.Width); err != nil {
		return fmt.Errorf("%w: %d", err, c.Width)
	}

	return nil
}

// Marshal returns the DER payload for the raw signature rs.
func (c *Codec) Marshal(rs []byte) ([]byte, error) {
	if err := c.checkWidth(); err != nil {
		return nil, err
	}

	buf := make([]byte, c.MaxEncodedLen())

	n, err := c.Encode(buf, rs)
	if err != nil {
		return nil, err
	}

	return buf[:n], nil
}

// Unmarshal returns the raw signature R || S for the DER payload der.
func (c *Codec) Unmarshal(der []byte) ([]byte, error) {
	if err := c.checkWidth(); err != nil {
		return nil, err
	}

	rs := make([]byte, c.RawLen())

	if _, err := c.Decode(rs, der); err != nil {
		return nil, err
	}

	return rs, nil
}

// MarshalASN1 returns the raw signature rs as complete ASN.1 SEQUENCE.
func (c *Codec) MarshalASN1(rs []byte) ([]byte, error) {
	payload, err := c.Marshal(rs)
	if err != nil {
		return nil, err
	}

	return WrapSequence(payload)
}

// UnmarshalASN1 returns the raw signature R || S for a complete ASN.1
// SEQUENCE.
func (c *Codec) UnmarshalASN1(sig []byte) ([]byte, error) {
	payload, err := UnwrapSequence(sig)
	if err != nil {
		return nil, err
	}

	return c.Unmarshal(payload)
}

// FromBig returns the raw signature R || S for the given values.
func (c *Codec) FromBig(r, s *big.Int) ([]byte, error) {
	if err := c.checkWidth(); err != nil {
		return nil, err
	}

	if r.Sign() < 0 || s.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative component", ErrNonCanonical)
	}

	if r.BitLen() > 8*c.Width || s.BitLen() > 8*c.Width {
		return nil, fmt.Errorf("%w: component exceeds %dB", ErrLengthUnsupported, c.Width)
	}

	rs := make([]byte, c.RawLen())
	r.FillBytes(rs[:c.Width])
	s.FillBytes(rs[c.Width:])

	return rs, nil
}

// ToBig splits the raw signature rs into its components.
func (c *Codec) ToBig(rs []byte) (r, s *big.Int, err error) {
	if len(rs) != c.RawLen() {
		return nil, nil, fmt.Errorf("%w: got=%dB, want=%dB", ErrWidthMismatch, len(rs), c.RawLen())
	}

	r = new(big.Int).SetBytes(rs[:c.Width])
	s = new(big.Int).SetBytes(rs[c.Width:])

	return r, s, nil
}
