// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package card

import (
	"errors"
	"testing"

	iso "cunicu.li/go-iso7816"
	"github.com/stretchr/testify/assert"
)

func TestWrapCode(t *testing.T) {
	errOther := errors.New("other")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", iso.ErrFileOrAppNotFound, ErrNotFound},
		{"reference not found", iso.Code{0x6a, 0x88}, ErrNotFound},
		{"security status", iso.Code{0x69, 0x82}, ErrSecurityStatus},
		{"wrong data", iso.Code{0x6a, 0x80}, ErrWrongData},
		{"wrong pin", iso.Code{0x63, 0xc2}, AuthError{2}},
		{"blocked", iso.ErrAuthenticationMethodBlocked, AuthError{0}},
		{"unknown code", iso.Code{0x6f, 0x00}, iso.Code{0x6f, 0x00}},
		{"other", errOther, errOther},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapCode(test.err), test.want)
		})
	}
}

func TestAuthError(t *testing.T) {
	assert.EqualError(t, AuthError{1}, "verification failed (1 retry remaining)")
	assert.EqualError(t, AuthError{3}, "verification failed (3 retries remaining)")
}
