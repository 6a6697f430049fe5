// SPDX-FileCopyrightText: 2025 The go-ecsig Authors
// SPDX-License-Identifier: Apache-2.0

package ecsig

// cursor reads from a byte slice without ever indexing past its end.
//
// All reads go through next, which checks the remaining length before
// advancing.
type cursor struct {
	buf []byte
	off int
}

// next returns the following n bytes and advances past them.
func (c *cursor) next(n int) ([]byte, error) {
	if n < 0 || n > len(c.buf)-c.off {
		return nil, ErrUnexpectedEnd
	}

	b := c.buf[c.off : c.off+n : c.off+n]
	c.off += n

	return b, nil
}

func (c *cursor) readByte() (byte, error) {
	b, err := c.next(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (c *cursor) remaining() []byte {
	return c.buf[c.off:]
}
