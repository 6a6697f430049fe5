// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package optiga

import (
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"
)

// KeyID is the object identifier of a key slot on the secure element.
type KeyID uint16

// Key slots for ECC private keys.
const (
	KeyDevice   KeyID = 0xe0f0
	KeySession1 KeyID = 0xe0f1
	KeySession2 KeyID = 0xe0f2
	KeySession3 KeyID = 0xe0f3
)

// Data objects which can hold a public key or certificate for verification.
const (
	ObjectDeviceCertificate KeyID = 0xe0e0
	ObjectTrustAnchor       KeyID = 0xe0e8
)

// keyIDLen is the length of a serialized KeyID.
const keyIDLen = 2

// KeyIDFromRaw parses a key handle serialized by KeyID.Raw.
func KeyIDFromRaw(b []byte) (KeyID, error) {
	if len(b) != keyIDLen {
		return 0, fmt.Errorf("%w for key id: got=%dB, want=%dB", errUnexpectedLength, len(b), keyIDLen)
	}

	return KeyID(binary.LittleEndian.Uint16(b)), nil
}

// Raw returns the key handle as stored by the host: two bytes, least
// significant byte first.
func (k KeyID) Raw() []byte {
	return binary.LittleEndian.AppendUint16(nil, uint16(k))
}

func (k KeyID) String() string {
	return fmt.Sprintf("0x%04X", uint16(k))
}

// PublicKeyRef selects the public key for a verification. Either the key is
// read by the secure element from the data object ID, or Key is passed to it.
type PublicKeyRef struct {
	ID  KeyID
	Key *ecdsa.PublicKey
}

// OnDevice returns a reference to a public key stored in a data object.
func OnDevice(id KeyID) PublicKeyRef {
	return PublicKeyRef{
		ID: id,
	}
}

// OnHost returns a reference to a public key passed with the command.
func OnHost(pub *ecdsa.PublicKey) PublicKeyRef {
	return PublicKeyRef{
		Key: pub,
	}
}

func (r PublicKeyRef) String() string {
	if r.Key != nil {
		return "host"
	}

	return r.ID.String()
}
