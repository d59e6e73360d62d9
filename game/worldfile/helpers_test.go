package worldfile

// fileBuilder assembles world file bytes for tests
type fileBuilder struct {
	buf []byte
}

func newFile(width, height uint8, tiles ...byte) *fileBuilder {
	b := &fileBuilder{}
	b.buf = append(b.buf, magic...)
	b.buf = append(b.buf, width, height)
	b.buf = append(b.buf, tiles...)
	return b
}

func (b *fileBuilder) pad() *fileBuilder {
	b.buf = append(b.buf, 0, 0, 0, 0, 0, 0)
	return b
}

func (b *fileBuilder) object(kind, param, x, y byte) *fileBuilder {
	b.buf = append(b.buf, 0xfe, 0xed, kind, param, x, y)
	return b
}

func (b *fileBuilder) raw(bs ...byte) *fileBuilder {
	b.buf = append(b.buf, bs...)
	return b
}

func (b *fileBuilder) bytes() []byte {
	out := make([]byte, len(b.buf))
	copy(out, b.buf)
	return out
}

// concreteFile is a 2x1 map with tiles [5 9] and one static
func concreteFile() []byte {
	return newFile(2, 1, 5, 9).pad().object(0, 7, 1, 0).bytes()
}
