package worldfile

import "io"

// Cursor reads sequentially from an in-memory buffer.
// Reads past the end return io.ErrUnexpectedEOF and leave the cursor where it was.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor creates a cursor at the start of buf
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// ReadU8 returns the next byte
func (c *Cursor) ReadU8() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadExact returns the next n bytes. The slice aliases the cursor's buffer.
func (c *Cursor) ReadExact(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, nil
}

// Remaining reports how many bytes are left
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Offset reports the position of the next read
func (c *Cursor) Offset() int {
	return c.pos
}
