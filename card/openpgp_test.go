// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package card

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"math/big"
	"testing"

	iso "cunicu.li/go-iso7816"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPGPSign(t *testing.T) {
	for _, curve := range []elliptic.Curve{elliptic.P256(), elliptic.P384(), elliptic.P521()} {
		t.Run(curve.Params().Name, func(t *testing.T) {
			c := newSoftCard(t, curve)

			k, err := NewOpenPGPKey(c, &c.key.PublicKey)
			require.NoError(t, err)

			var s crypto.Signer = k

			data := sha256.Sum256([]byte("hello"))

			for i := 0; i < 8; i++ {
				sig, err := s.Sign(rand.Reader, data[:], crypto.SHA256)
				require.NoError(t, err, "Failed to sign")

				ok := ecdsa.VerifyASN1(&c.key.PublicKey, data[:], sig)
				require.True(t, ok, "Signature didn't match")
			}

			capdu := c.sent[0]
			assert.Equal(t, iso.Instruction(insPerformSecurityOperation), capdu.Ins)
			assert.Equal(t, byte(p1DigitalSignature), capdu.P1)
			assert.Equal(t, byte(p2DataToBeSigned), capdu.P2)
		})
	}
}

func TestOpenPGPSignRaw(t *testing.T) {
	c := newSoftCard(t, elliptic.P256())

	k, err := NewOpenPGPKey(c, &c.key.PublicKey)
	require.NoError(t, err)

	data := sha256.Sum256([]byte("hello"))

	rs, err := k.SignRaw(data[:])
	require.NoError(t, err)
	require.Len(t, rs, 64)

	r := new(big.Int).SetBytes(rs[:32])
	s := new(big.Int).SetBytes(rs[32:])
	assert.True(t, ecdsa.Verify(&c.key.PublicKey, data[:], r, s), "Signature didn't match")
}

func TestOpenPGPTruncateDigest(t *testing.T) {
	c := newSoftCard(t, elliptic.P256())

	k, err := NewOpenPGPKey(c, &c.key.PublicKey)
	require.NoError(t, err)

	data := sha512.Sum512([]byte("hello"))

	sig, err := k.Sign(rand.Reader, data[:], crypto.SHA512)
	require.NoError(t, err)

	assert.Len(t, c.sent[0].Data, 32)
	assert.True(t, ecdsa.VerifyASN1(&c.key.PublicKey, data[:], sig))
}

func TestOpenPGPErrors(t *testing.T) {
	t.Run("missing public key", func(t *testing.T) {
		_, err := NewOpenPGPKey(&softCard{}, nil)
		require.ErrorIs(t, err, errMissingPublicKey)
	})

	t.Run("short response", func(t *testing.T) {
		c := newSoftCard(t, elliptic.P256())
		c.resp = make([]byte, 63)

		k, err := NewOpenPGPKey(c, &c.key.PublicKey)
		require.NoError(t, err)

		_, err = k.Sign(rand.Reader, make([]byte, 32), crypto.SHA256)
		require.ErrorIs(t, err, errUnexpectedLength)
	})

	t.Run("security status", func(t *testing.T) {
		c := newSoftCard(t, elliptic.P256())
		c.err = iso.Code{0x69, 0x82}

		k, err := NewOpenPGPKey(c, &c.key.PublicKey)
		require.NoError(t, err)

		_, err = k.Sign(rand.Reader, make([]byte, 32), crypto.SHA256)
		require.ErrorIs(t, err, ErrSecurityStatus)
	})
}
