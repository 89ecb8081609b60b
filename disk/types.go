package disk

import (
	"sync"
)

const (
	CD       = -1
	DVD      = 0
	DVDDual  = 1
	DVDLimit = 2295104 // sectors on a single-layer DVD-5
	CDLimit  = 360000  // 80 minute CD
)

const (
	ISO = iota // 2048 bytes per sector
	BIN        // 2352 bytes per sector
)

// TOC is the track range of the inserted medium.
type TOC struct {
	First int32
	Last  int32
}

// Disk is the media backend: a disc image or a physical drive.
type Disk interface {
	Close() error
	Ready() bool
	Sectors() int64
	MediaType() int
	ReadTOC() (TOC, error)
	ReadRaw(int64, int, []byte) error
	ReadLogical(int64, int, []byte) error
}

type image struct {
	sync.RWMutex
	path   string
	format int
	cnt    int64 // sector count
	buf    []byte
}

// Memory is a removable medium held in memory.
type Memory struct {
	sync.RWMutex
	ready bool
	media int
	toc   TOC
	data  []byte // raw sectors
}
