package cache

import (
	"sync"

	"github.com/infinivision/cdvdcache/sector"
)

// Cache is a direct-mapped table of 16-sector blocks keyed by (lsn, mode).
// A slot is overwritten by whichever block hashes to it last.
type Cache interface {
	Reset()
	Stats() Stats
	Contains(int32, sector.Mode) bool
	Update(int32, sector.Mode, []byte)
	Fetch(int32, sector.Mode, []byte) bool
}

type Stats struct {
	Hits    uint64
	Misses  uint64
	Updates uint64
}

type slot struct {
	lsn  int32
	mode sector.Mode
	data []byte // allocated on first update
}

type cache struct {
	sync.Mutex
	bits  uint
	mask  uint32
	slots []slot
	st    Stats
}
