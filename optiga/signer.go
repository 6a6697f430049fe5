// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package optiga

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"fmt"
	"io"

	"cunicu.li/go-ecsig"
)

// PrivateKey is a crypto.Signer for a key held by the coprocessor.
//
// Signatures are returned as ASN.1 SEQUENCE as expected by crypto/x509
// and crypto/tls.
type PrivateKey struct {
	b   *Backend
	id  KeyID
	pub *ecdsa.PublicKey
}

var _ crypto.Signer = (*PrivateKey)(nil)

// PrivateKey returns a signer for the key in slot id. pub must be the
// public key of that slot.
func (b *Backend) PrivateKey(id KeyID, pub *ecdsa.PublicKey) (*PrivateKey, error) {
	if pub == nil {
		return nil, errMissingKey
	}

	if w := ecsig.CurveWidth(pub.Curve); w != b.codec.Width {
		return nil, fmt.Errorf("%w: key for %dB components, backend for %dB", errUnexpectedLength, w, b.codec.Width)
	}

	return &PrivateKey{
		b:   b,
		id:  id,
		pub: pub,
	}, nil
}

// ID returns the key slot.
func (k *PrivateKey) ID() KeyID {
	return k.id
}

// Public returns the public key associated with this private key.
func (k *PrivateKey) Public() crypto.PublicKey {
	return k.pub
}

// Sign implements crypto.Signer.
func (k *PrivateKey) Sign(_ io.Reader, digest []byte, _ crypto.SignerOpts) ([]byte, error) {
	return k.SignContext(context.Background(), digest)
}

// SignContext signs digest and returns an ASN.1 signature.
func (k *PrivateKey) SignContext(ctx context.Context, digest []byte) ([]byte, error) {
	rs, err := k.b.SignRaw(ctx, k.id, digest)
	if err != nil {
		return nil, err
	}

	sig, err := k.b.codec.MarshalASN1(rs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return sig, nil
}
