// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

// Package card implements ECDSA signing with keys stored on ISO 7816 smart
// cards. Depending on the applet, cards either return the raw signature
// R || S (OpenPGP) or a DER encoded signature (PIV). Both are converted
// with the ecsig codec so that callers can choose the representation they
// need.
package card

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	iso "cunicu.li/go-iso7816"
	"cunicu.li/go-iso7816/encoding/tlv"

	"cunicu.li/go-ecsig"
)

var (
	errUnexpectedLength = errors.New("unexpected response length")
	errUnmarshal        = errors.New("failed to unmarshal")
	errMissingPublicKey = errors.New("missing public key")
)

// Transmitter sends a command APDU to a card and returns the response data.
//
// It is implemented by *iso.Transaction and *Session.
type Transmitter interface {
	Send(capdu *iso.CAPDU) ([]byte, error)
}

func send(tx Transmitter, ins iso.Instruction, p1, p2 byte, data []byte) ([]byte, error) {
	resp, err := tx.Send(&iso.CAPDU{
		Ins:  ins,
		P1:   p1,
		P2:   p2,
		Data: data,
	})
	if err != nil {
		return nil, wrapCode(err)
	}

	return resp, nil
}

func sendTLV(tx Transmitter, ins iso.Instruction, p1, p2 byte, vs ...tlv.TagValue) (tlv.TagValues, error) {
	data, err := tlv.EncodeBER(vs...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode data: %w", err)
	}

	resp, err := send(tx, ins, p1, p2, data)
	if err != nil {
		return nil, err
	}

	tvs, err := tlv.DecodeBER(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return tvs, nil
}

func codecForKey(pub *ecdsa.PublicKey) (*ecsig.Codec, error) {
	if pub == nil {
		return nil, errMissingPublicKey
	}

	return ecsig.CodecForCurve(pub.Curve)
}

// truncateDigest shortens the digest to the length of the curve order.
//
// Same as the standard library
// https://github.com/golang/go/blob/go1.13.5/src/crypto/ecdsa/ecdsa.go#L125-L128
func truncateDigest(digest []byte, width int) []byte {
	if len(digest) > width {
		return digest[:width]
	}

	return digest
}
