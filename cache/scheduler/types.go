package scheduler

import (
	"github.com/infinivision/cdvdcache/disk"
	"github.com/infinivision/cdvdcache/sector"
	"github.com/nnsgmsone/damrey/logger"
)

// Scheduler issues block reads against the disk.
type Scheduler interface {
	Sectors() int64
	Read(*sector.Block) Result
}

// Result is the outcome of one block read. Err is nil when the block holds
// valid data; otherwise it wraps errmsg.ReadFailed or errmsg.OutOfRange.
type Result struct {
	Sectors  int // sectors actually read, short on the last block of a medium
	Attempts int
	Err      error
}

type scheduler struct {
	tries int
	d     disk.Disk
	log   logger.Log
}
