// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package card

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"

	iso "cunicu.li/go-iso7816"
	"cunicu.li/go-iso7816/encoding/tlv"
	"github.com/stretchr/testify/require"

	"cunicu.li/go-ecsig"
)

var errUnexpectedCommand = errors.New("unexpected command")

// softCard emulates the signing commands of the OpenPGP and PIV applets
// with a software key.
type softCard struct {
	key *ecdsa.PrivateKey

	// applets which can be selected
	applets  [][]byte
	selected []byte

	// pin is checked by VERIFY in the applet specific format
	pin     []byte
	retries int

	// resp overrides the response data if set
	resp []byte

	// err is returned instead of a response if set
	err error

	sent []*iso.CAPDU
}

func newSoftCard(t *testing.T, curve elliptic.Curve) *softCard {
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err, "Failed to generate key")

	return &softCard{
		key:     key,
		retries: 3,
	}
}

func (c *softCard) Send(capdu *iso.CAPDU) ([]byte, error) {
	c.sent = append(c.sent, capdu)

	if c.err != nil {
		return nil, c.err
	}

	switch {
	case capdu.Ins == iso.InsVerify:
		if !bytes.Equal(capdu.Data, c.pin) {
			c.retries--
			return nil, iso.Code{0x63, 0xc0 | byte(c.retries)}
		}

		return nil, nil

	case capdu.Ins == insPerformSecurityOperation:
		if c.resp != nil {
			return c.resp, nil
		}

		return c.signRaw(capdu.Data)

	case capdu.Ins == iso.InsGeneralAuthenticate:
		tvs, err := tlv.DecodeBER(capdu.Data)
		if err != nil {
			return nil, err
		}

		digest, _, ok := tvs.GetChild(0x7c, 0x81)
		if !ok {
			return nil, iso.Code{0x6a, 0x80}
		}

		sig := c.resp
		if sig == nil {
			if sig, err = ecdsa.SignASN1(rand.Reader, c.key, digest); err != nil {
				return nil, err
			}
		}

		return tlv.EncodeBER(
			tlv.New(0x7c,
				tlv.New(0x82, sig)),
		)

	default:
		return nil, errUnexpectedCommand
	}
}

func (c *softCard) Select(aid []byte) ([]byte, error) {
	for _, applet := range c.applets {
		if bytes.Equal(applet, aid) {
			c.selected = aid
			return nil, nil
		}
	}

	return nil, iso.ErrFileOrAppNotFound
}

func (c *softCard) signRaw(digest []byte) ([]byte, error) {
	r, s, err := ecdsa.Sign(rand.Reader, c.key, digest)
	if err != nil {
		return nil, err
	}

	width := ecsig.CurveWidth(c.key.Curve)

	rs := make([]byte, 2*width)
	r.FillBytes(rs[:width])
	s.FillBytes(rs[width:])

	return rs, nil
}
