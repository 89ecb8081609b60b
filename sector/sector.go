package sector

import (
	"strconv"

	"github.com/infinivision/cdvdcache/constant"
	"github.com/infinivision/cdvdcache/errmsg"
	"github.com/pkg/errors"
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "2048":
		return Mode2048, nil
	case "2328":
		return Mode2328, nil
	case "2340":
		return Mode2340, nil
	case "2352", "raw":
		return Mode2352, nil
	}
	return None, errors.Wrapf(errmsg.InvalidMode, "'%s'", s)
}

func (m Mode) Valid() bool {
	return m >= Mode2352 && m <= Mode2048
}

// Raw reports whether blocks of this mode are read as full 2352-byte sectors.
func (m Mode) Raw() bool {
	return m != Mode2048
}

// Size is the number of bytes a View of this mode exposes.
func (m Mode) Size() int {
	if !m.Valid() {
		return 0
	}
	return layouts[m].length
}

// Offset is where the exposed bytes start inside one sector.
func (m Mode) Offset() int {
	if !m.Valid() {
		return 0
	}
	return layouts[m].offset
}

// Stride is the distance between consecutive sectors in a block buffer.
func (m Mode) Stride() int {
	if !m.Valid() {
		return 0
	}
	return layouts[m].stride
}

func (m Mode) String() string {
	if !m.Valid() {
		return "none"
	}
	return strconv.Itoa(m.Size())
}

// Align rounds lsn down to the first sector of its block.
func Align(lsn int32) int32 {
	return lsn &^ constant.BlockMask
}

func NewBlock() *Block {
	return &Block{LSN: -1, Mode: None, Data: make([]byte, constant.BlockBytes)}
}

func (b *Block) Reset() {
	b.LSN, b.Mode = -1, None
}

// Contains reports whether lsn falls inside the block.
func (b *Block) Contains(lsn int32) bool {
	return b.LSN >= 0 && lsn >= b.LSN && lsn < b.LSN+constant.BlockSectors
}

// View returns the bytes of sector lsn laid out as mode. Raw layouts may view
// each other; the 2048 layout is only valid on a block read as 2048.
func (b *Block) View(lsn int32, mode Mode) (View, error) {
	if !mode.Valid() {
		return View{}, errors.Wrapf(errmsg.InvalidMode, "mode %d", mode)
	}
	if !b.Contains(lsn) {
		return View{}, errors.Wrapf(errmsg.OutOfRange, "sector %d not in block %d", lsn, b.LSN)
	}
	if mode.Raw() != b.Mode.Raw() {
		return View{}, errors.Wrapf(errmsg.ModeMismatch, "view %s of block read as %s", mode, b.Mode)
	}
	o := int(lsn-b.LSN)*mode.Stride() + mode.Offset()
	if o+mode.Size() > len(b.Data) {
		return View{}, errors.Wrapf(errmsg.OutOfRange, "sector %d exceeds block buffer", lsn)
	}
	return View{lsn: lsn, mode: mode, b: b.Data[o : o+mode.Size() : o+mode.Size()]}, nil
}

func (v View) LSN() int32 {
	return v.lsn
}

func (v View) Mode() Mode {
	return v.mode
}

func (v View) Len() int {
	return len(v.b)
}

// Bytes aliases the underlying block buffer; it is only valid until the
// buffer is reused.
func (v View) Bytes() []byte {
	return v.b
}

func (v View) At(i int) (byte, error) {
	if i < 0 || i >= len(v.b) {
		return 0, errors.Wrapf(errmsg.OutOfRange, "byte %d of %d", i, len(v.b))
	}
	return v.b[i], nil
}

func (v View) Slice(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(v.b) {
		return nil, errors.Wrapf(errmsg.OutOfRange, "bytes [%d:%d] of %d", off, off+n, len(v.b))
	}
	return v.b[off : off+n], nil
}

// CopyTo copies the whole view into dst.
func (v View) CopyTo(dst []byte) (int, error) {
	if len(dst) < len(v.b) {
		return 0, errors.Wrapf(errmsg.ShortBuffer, "need %d bytes, have %d", len(v.b), len(dst))
	}
	return copy(dst, v.b), nil
}
