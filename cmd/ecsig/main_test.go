// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cunicu.li/go-ecsig"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr

	err := app.Run(context.Background(), append([]string{"ecsig"}, args...))

	return strings.TrimSpace(stdout.String()), stderr.String(), err
}

func TestNewApp(t *testing.T) {
	app := newApp()

	require.Equal(t, "ecsig", app.Name)
	require.Len(t, app.Commands, 4)
	require.Len(t, app.Flags, 6)
}

func TestEncodeDecode(t *testing.T) {
	raw := strings.Repeat("00", 31) + "01" + strings.Repeat("00", 31) + "7f"

	out, _, err := run(t, "encode", "--hex", raw)
	require.NoError(t, err)
	assert.Equal(t, "02010102017f", out)

	out, _, err = run(t, "decode", "--hex", "02010102017f")
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestEncodeSequenceBase64(t *testing.T) {
	raw := make([]byte, 64)
	raw[0] = 0x80
	raw[63] = 0x01

	out, _, err := run(t,
		"encode",
		"--base64", base64.StdEncoding.EncodeToString(raw),
		"--sequence",
		"--output", "base64")
	require.NoError(t, err)

	der, err := base64.StdEncoding.DecodeString(out)
	require.NoError(t, err)

	// SEQUENCE { INTEGER 0x00 0x80 ..., INTEGER 0x01 }
	require.Len(t, der, 2+2+33+3)
	assert.Equal(t, []byte{0x30, 0x26, 0x02, 0x21, 0x00, 0x80}, der[:6])
	assert.Equal(t, []byte{0x02, 0x01, 0x01}, der[len(der)-3:])
}

func TestDecodeSequenceRoundTrip(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)

	digest := sha256.Sum256([]byte("hello"))

	sig, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	require.NoError(t, err)

	rs, _, err := run(t, "--curve", "P-384", "decode", "--sequence", "--hex", hex.EncodeToString(sig))
	require.NoError(t, err)
	require.Len(t, rs, 2*2*48)

	out, _, err := run(t, "--curve", "P-384", "encode", "--sequence", "--hex", rs)
	require.NoError(t, err)

	sig2, err := hex.DecodeString(out)
	require.NoError(t, err)
	assert.True(t, ecdsa.VerifyASN1(&key.PublicKey, digest[:], sig2), "Signature didn't match")
}

func TestDecodeTrailingData(t *testing.T) {
	der := "020101" + "020101" + "0000"

	_, _, err := run(t, "decode", "--hex", der)
	require.ErrorIs(t, err, ecsig.ErrTrailingData)

	out, _, err := run(t, "--lenient", "decode", "--hex", der)
	require.NoError(t, err)
	assert.Len(t, out, 2*64)
}

func TestDecodeStrict(t *testing.T) {
	der := "02020001" + "020101"

	_, _, err := run(t, "decode", "--hex", der)
	require.NoError(t, err)

	_, _, err = run(t, "--strict", "decode", "--hex", der)
	require.ErrorIs(t, err, ecsig.ErrNonCanonical)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no input", []string{"decode"}, errNoInput},
		{"ambiguous input", []string{"decode", "--hex", "00", "--base64", "AA=="}, errAmbiguousInput},
		{"unknown output", []string{"decode", "--hex", "020101020101", "--output", "pem"}, errUnknownFormat},
		{"unknown curve", []string{"--curve", "curve25519", "decode", "--hex", "020101020101"}, errUnknownCurve},
		{"wrong tag", []string{"decode", "--hex", "030101020101"}, ecsig.ErrWrongTag},
		{"width", []string{"--width", "200", "decode", "--hex", "020101020101"}, ecsig.ErrWidthUnsupported},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := run(t, test.args...)
			require.ErrorIs(t, err, test.wantErr)
		})
	}
}

func TestDebugLogging(t *testing.T) {
	_, logs, err := run(t, "--debug", "decode", "--hex", "020101020101")
	require.NoError(t, err)
	assert.Contains(t, logs, "Decoded signature")

	_, logs, err = run(t, "decode", "--hex", "020101020101")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestConfigPrecedence(t *testing.T) {
	der := "020101" + "020101"

	t.Setenv("ECSIG_WIDTH", "48")

	out, _, err := run(t, "decode", "--hex", der)
	require.NoError(t, err)
	assert.Len(t, out, 2*2*48)

	out, _, err = run(t, "--width", "20", "decode", "--hex", der)
	require.NoError(t, err)
	assert.Len(t, out, 2*2*20)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecsig.yaml")
	err := os.WriteFile(path, []byte("curve: P-521\nlenient: true\n"), 0o600)
	require.NoError(t, err)

	out, _, err := run(t, "--config", path, "decode", "--hex", "020101"+"020101"+"00")
	require.NoError(t, err)
	assert.Len(t, out, 2*2*66)

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "decode", "--hex", "020101020101")
	require.Error(t, err)
}
