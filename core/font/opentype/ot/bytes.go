package ot

// Reading bytes from a font's binary representation

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// --- Byte segments ---------------------------------------------------------

// binarySegm is a segment of byte data, usually a view into a font's binary.
// We use it throughout this package to navigate the font's data.
// All accessors check bounds and return an OutOfRange error if an access would
// leave the segment.
type binarySegm []byte

// Size returns the length of the segment in bytes.
func (b binarySegm) Size() int {
	return len(b)
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return nil, errRange("view", offset, n)
	}
	return b[offset : offset+n], nil
}

// rest returns the bytes from offset to the end of b.
func (b binarySegm) rest(offset int) (binarySegm, error) {
	if offset < 0 || offset > len(b) {
		return nil, errRange("sub-table", offset, 0)
	}
	return b[offset:], nil
}

// u8 returns the byte in b at the relative offset i.
func (b binarySegm) u8(i int) (uint8, error) {
	if i < 0 || i >= len(b) {
		return 0, errRange("u8", i, 1)
	}
	return b[i], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// i16 returns the int16 in b at the relative offset i.
func (b binarySegm) i16(i int) (int16, error) {
	n, err := b.u16(i)
	return int16(n), err
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// u64 returns the uint64 in b at the relative offset i.
func (b binarySegm) u64(i int) (uint64, error) {
	buf, err := b.view(i, 8)
	if err != nil {
		return 0, err
	}
	return uint64(u32(buf))<<32 | uint64(u32(buf[4:])), nil
}

// --- Reader ----------------------------------------------------------------

// Reader is a cursor over an immutable byte segment. It reads big-endian
// values and advances. A Reader is a value type and cheap to create; it is not
// safe for concurrent use, but any number of readers may share the same bytes.
//
// Every read or seek beyond the end of the data fails with core.ErrOutOfRange.
// After a failed read the cursor position is unchanged.
type Reader struct {
	data binarySegm
	pos  int
}

// NewReader creates a reader positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{data: binarySegm(b)}
}

// Len returns the size of the underlying data.
func (r *Reader) Len() int {
	return len(r.data)
}

// Pos returns the current cursor position.
func (r *Reader) Pos() int {
	return r.pos
}

// Seek positions the cursor at an absolute offset. Offsets at or beyond the
// end of the data are out of range.
func (r *Reader) Seek(offset int) error {
	if offset < 0 || offset >= len(r.data) {
		return errRange("seek", offset, len(r.data))
	}
	r.pos = offset
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return errRange("skip", r.pos+n, len(r.data))
	}
	r.pos += n
	return nil
}

// U8 reads a byte.
func (r *Reader) U8() (uint8, error) {
	n, err := r.data.u8(r.pos)
	if err == nil {
		r.pos++
	}
	return n, err
}

// U16 reads a big-endian uint16.
func (r *Reader) U16() (uint16, error) {
	n, err := r.data.u16(r.pos)
	if err == nil {
		r.pos += 2
	}
	return n, err
}

// I16 reads a big-endian int16.
func (r *Reader) I16() (int16, error) {
	n, err := r.U16()
	return int16(n), err
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() (uint32, error) {
	n, err := r.data.u32(r.pos)
	if err == nil {
		r.pos += 4
	}
	return n, err
}

// U64 reads a big-endian uint64.
func (r *Reader) U64() (uint64, error) {
	n, err := r.data.u64(r.pos)
	if err == nil {
		r.pos += 8
	}
	return n, err
}

// F2Dot14 reads a signed fixed-point number with 14 bits of fraction.
func (r *Reader) F2Dot14() (float64, error) {
	n, err := r.I16()
	return float64(n) / 16384.0, err
}
