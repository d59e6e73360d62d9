package worldfile

import "bytes"

const (
	headerSize  = 6
	paddingSize = 6
	recordSize  = 6
)

var (
	magic     = []byte{0xfa, 0xde, 0x00, 0xff}
	recordSig = []byte{0xfe, 0xed}
	zeroPad   = make([]byte, paddingSize)
)

// header is the fixed prefix of a world file
type header struct {
	width  uint8
	height uint8
}

// readHeader checks the magic bytes and reads the map dimensions
func readHeader(c *Cursor) (header, error) {
	start := c.Offset()
	m, err := c.ReadExact(len(magic))
	if err != nil || !bytes.Equal(m, magic) {
		return header{}, malformed(ErrBadMagic, start)
	}

	w, err := c.ReadU8()
	if err != nil {
		return header{}, malformed(ErrTruncatedHeader, c.Offset())
	}
	h, err := c.ReadU8()
	if err != nil {
		return header{}, malformed(ErrTruncatedHeader, c.Offset())
	}

	return header{width: w, height: h}, nil
}

// checkPadding consumes the six zero bytes that follow the tile block
func checkPadding(c *Cursor) error {
	start := c.Offset()
	p, err := c.ReadExact(paddingSize)
	if err != nil || !bytes.Equal(p, zeroPad) {
		return malformed(ErrBadPadding, start)
	}
	return nil
}
