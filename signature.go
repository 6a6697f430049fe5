// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package ecsig

// MaxEncodedLen returns the largest payload EncodeSignature can produce for
// components of the given width: two INTEGERs, each with tag, length and a
// sign-stuffing byte.
func MaxEncodedLen(width int) int {
	return 2 * (width + headerLength + 1)
}

// EncodeSignature encodes the raw signature components r and s as two
// consecutive DER INTEGERs into dst and returns the total number of bytes
// written.
//
// No outer SEQUENCE is added, see WrapSequence. dst must hold at least
// MaxEncodedLen(len(r)) bytes, even if the actual encoding is shorter.
// On error, any bytes written to dst are zeroed again.
func EncodeSignature(dst, r, s []byte) (int, error) {
	if len(r) != len(s) {
		return 0, ErrWidthMismatch
	}

	if len(r) == 0 {
		return 0, ErrEmptyInput
	}

	if len(dst) < MaxEncodedLen(len(r)) {
		return 0, ErrBufferTooSmall
	}

	nr, err := EncodeInteger(dst, r)
	if err != nil {
		return 0, componentError(ComponentR, err)
	}

	ns, err := EncodeInteger(dst[nr:], s)
	if err != nil {
		clear(dst[:nr])
		return 0, componentError(ComponentS, err)
	}

	return nr + ns, nil
}

// DecodeSignature decodes two consecutive DER INTEGERs (R, then S) from der
// and writes them as fixed-width components of width bytes each into dst.
//
// It returns the number of bytes written, which is always 2*width on
// success. Any bytes following S cause ErrTrailingData.
//
// If width or the size of dst is invalid, dst is left untouched. On any
// other error dst[:2*width] is zeroed.
func DecodeSignature(dst, der []byte, width int) (int, error) {
	return decodeSignature(dst, der, width, decodeOptions{})
}

type decodeOptions struct {
	allowTrailingZeros bool
	strict             bool
}

func decodeSignature(dst, der []byte, width int, opts decodeOptions) (int, error) {
	if err := checkDecodeWidth(width); err != nil {
		return 0, err
	}

	n := 2 * width
	if len(dst) < n {
		return 0, ErrBufferTooSmall
	}

	if len(der) == 0 {
		clear(dst[:n])
		return 0, ErrEmptyInput
	}

	c := cursor{buf: der}

	if err := decodeInteger(&c, width, dst[:width], opts.strict); err != nil {
		clear(dst[:n])
		return 0, componentError(ComponentR, err)
	}

	if err := decodeInteger(&c, width, dst[width:n], opts.strict); err != nil {
		clear(dst[:n])
		return 0, componentError(ComponentS, err)
	}

	if rest := c.remaining(); len(rest) > 0 && (!opts.allowTrailingZeros || !allZero(rest)) {
		clear(dst[:n])
		return 0, ErrTrailingData
	}

	return n, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0x00 {
			return false
		}
	}

	return true
}
