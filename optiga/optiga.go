// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

// Package optiga adapts ECDSA operations of a secure element coprocessor
// to raw and ASN.1 signatures.
//
// The coprocessor itself (bus transfers, power sequencing, command framing)
// is provided by the caller through the Coprocessor interface. It produces
// and consumes signatures as bare DER payload (INTEGER r, INTEGER s),
// while most host crypto stacks expect either R || S or a complete ASN.1
// SEQUENCE.
package optiga

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"cunicu.li/go-ecsig"
)

var (
	// ErrInvalidSignature is returned when a signature can not be converted.
	// It wraps the codec error.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrVerificationFailed is returned when a signature does not match.
	ErrVerificationFailed = errors.New("signature verification failed")

	errUnexpectedLength = errors.New("unexpected length")
	errMissingKey       = errors.New("missing public key")
)

// Coprocessor is a secure element performing ECDSA with keys it holds.
type Coprocessor interface {
	// Sign signs digest with the private key in slot key and returns the
	// signature as DER payload.
	Sign(ctx context.Context, key KeyID, digest []byte) ([]byte, error)

	// Verify verifies the DER payload sig over digest with pub.
	// It returns ErrVerificationFailed if the signature does not match.
	Verify(ctx context.Context, digest, sig []byte, pub PublicKeyRef) error
}

// Backend converts signatures between a Coprocessor and the host.
type Backend struct {
	cop    Coprocessor
	codec  *ecsig.Codec
	logger zerolog.Logger
}

// Option configures a Backend.
type Option func(b *Backend)

// WithLogger sets the logger for debug events. The default discards all events.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

// WithLenientDecoding accepts signatures from the coprocessor which are
// followed by zero padding.
func WithLenientDecoding() Option {
	return func(b *Backend) {
		b.codec.AllowTrailingData = true
	}
}

// New returns a backend for keys on the given curve.
func New(cop Coprocessor, curve elliptic.Curve, opts ...Option) (*Backend, error) {
	codec, err := ecsig.CodecForCurve(curve)
	if err != nil {
		return nil, err
	}

	b := &Backend{
		cop:    cop,
		codec:  codec,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Width returns the length of a single raw signature component.
func (b *Backend) Width() int {
	return b.codec.Width
}

// SignRaw signs digest with the private key in slot key and returns the
// signature as R || S.
func (b *Backend) SignRaw(ctx context.Context, key KeyID, digest []byte) ([]byte, error) {
	der, err := b.cop.Sign(ctx, key, digest)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	rs, err := b.codec.Unmarshal(der)
	if err != nil {
		b.logger.Debug().
			Err(err).
			Stringer("key", key).
			Int("der_len", len(der)).
			Msg("Rejected signature from coprocessor")

		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	b.logger.Debug().
		Stringer("key", key).
		Int("digest_len", len(digest)).
		Int("der_len", len(der)).
		Msg("Signed digest")

	return rs, nil
}

// VerifyRaw verifies the signature rs (R || S) over digest on the
// coprocessor.
func (b *Backend) VerifyRaw(ctx context.Context, pub PublicKeyRef, digest, rs []byte) error {
	der, err := b.codec.Marshal(rs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if err := b.cop.Verify(ctx, digest, der, pub); err != nil {
		b.logger.Debug().
			Err(err).
			Stringer("pub", pub).
			Msg("Verification failed")

		return fmt.Errorf("failed to verify: %w", err)
	}

	b.logger.Debug().
		Stringer("pub", pub).
		Int("digest_len", len(digest)).
		Msg("Verified signature")

	return nil
}

// VerifyHost verifies the signature rs (R || S) over digest with pub
// without involving the coprocessor.
func (b *Backend) VerifyHost(pub *ecdsa.PublicKey, digest, rs []byte) error {
	if pub == nil {
		return errMissingKey
	}

	r, s, err := b.codec.ToBig(rs)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if !ecdsa.Verify(pub, digest, r, s) {
		return ErrVerificationFailed
	}

	return nil
}
