// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package ecsig

const (
	tagInteger = 0x02

	// maxLength is the largest content length expressible in the short
	// (single byte) DER length form.
	maxLength = 0x7f

	// headerLength is the size of tag and length bytes of an INTEGER.
	headerLength = 2

	signBit = 0x80
)

// EncodeInteger encodes the fixed-width unsigned big-endian integer raw as
// DER INTEGER (tag, length, content) into dst and returns the number of bytes
// written.
//
// Leading zero bytes are stripped and a single zero byte is prepended if the
// most significant remaining bit is set. Nothing is written to dst on error.
func EncodeInteger(dst, raw []byte) (int, error) {
	if len(raw) == 0 {
		return 0, ErrEmptyInput
	}

	content, stuffed := minimalContent(raw)

	n := len(content)
	if stuffed {
		n++
	}

	if n > maxLength {
		return 0, ErrLengthUnsupported
	}

	if len(dst) < headerLength+n {
		return 0, ErrBufferTooSmall
	}

	dst[0] = tagInteger
	dst[1] = byte(n)

	off := headerLength
	if stuffed {
		dst[off] = 0x00
		off++
	}

	copy(dst[off:], content)

	return headerLength + n, nil
}

// minimalContent strips all leading zero bytes but the last one and reports
// whether a sign-stuffing byte must precede the result.
func minimalContent(raw []byte) (content []byte, stuffed bool) {
	i := 0
	for i < len(raw)-1 && raw[i] == 0x00 {
		i++
	}

	content = raw[i:]

	return content, content[0]&signBit != 0
}

// DecodeInteger decodes the DER INTEGER at the start of src into dst as
// unsigned big-endian integer of exactly width bytes, left-padded with zeros.
//
// It returns the number of bytes consumed from src. Bytes following the
// INTEGER are ignored. Nothing is written to dst on error.
func DecodeInteger(src []byte, width int, dst []byte) (int, error) {
	if err := checkDecodeWidth(width); err != nil {
		return 0, err
	}

	c := cursor{buf: src}
	if err := decodeInteger(&c, width, dst, false); err != nil {
		return 0, err
	}

	return c.off, nil
}

func decodeInteger(c *cursor, width int, dst []byte, strict bool) error {
	if len(dst) < width {
		return ErrBufferTooSmall
	}

	tag, err := c.readByte()
	if err != nil {
		return err
	}

	if tag != tagInteger {
		return ErrWrongTag
	}

	l, err := c.readByte()
	if err != nil {
		return err
	}

	// Long form lengths
	if l > maxLength {
		return ErrLengthUnsupported
	}

	content, err := c.next(int(l))
	if err != nil {
		return err
	}

	switch {
	case len(content) == 0:
		return ErrEmptyInput

	case len(content) > width+1:
		return ErrLengthUnsupported
	}

	if strict {
		if err := checkCanonical(content); err != nil {
			return err
		}
	}

	if len(content) == width+1 {
		if content[0] != 0x00 {
			return ErrLengthUnsupported
		}

		content = content[1:]
	}

	pad := width - len(content)
	clear(dst[:pad])
	copy(dst[pad:width], content)

	return nil
}

// checkCanonical rejects negative values and redundant leading zeros.
func checkCanonical(content []byte) error {
	if content[0]&signBit != 0 {
		return ErrNonCanonical
	}

	if len(content) > 1 && content[0] == 0x00 && content[1]&signBit == 0 {
		return ErrNonCanonical
	}

	return nil
}

func checkDecodeWidth(width int) error {
	if width < 1 || width > maxLength {
		return ErrWidthUnsupported
	}

	return nil
}
