package sector

import "github.com/infinivision/cdvdcache/constant"

// Mode selects which byte layout of a sector is exposed to the caller.
type Mode int32

const (
	Mode2352 Mode = iota // full raw sector
	Mode2340             // raw sector without sync pattern
	Mode2328             // raw sector without sync, header and subheader
	Mode2048             // user data only
)

// None marks an empty slot; it never equals a real mode.
const None Mode = -1

// Block holds 16 consecutive sectors starting at an aligned LSN.
type Block struct {
	LSN  int32
	Mode Mode
	Data []byte
}

// View is a bounds-checked window onto one sector of a Block.
type View struct {
	lsn  int32
	mode Mode
	b    []byte
}

type layout struct {
	stride int // bytes per sector inside a block buffer
	offset int // first exposed byte inside a sector
	length int
}

var layouts = [...]layout{
	Mode2352: {constant.RawSectorSize, 0, constant.RawSectorSize},
	Mode2340: {constant.RawSectorSize, constant.SyncSize, 2340},
	Mode2328: {constant.RawSectorSize, constant.SyncSize + constant.HeaderSize + constant.SubHeaderSize, 2328},
	Mode2048: {constant.DataSectorSize, 0, constant.DataSectorSize},
}
