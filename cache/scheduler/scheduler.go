package scheduler

import (
	"github.com/infinivision/cdvdcache/constant"
	"github.com/infinivision/cdvdcache/disk"
	"github.com/infinivision/cdvdcache/errmsg"
	"github.com/infinivision/cdvdcache/sector"
	"github.com/nnsgmsone/damrey/logger"
	"github.com/pkg/errors"
)

func New(tries int, d disk.Disk, log logger.Log) *scheduler {
	if tries < 1 {
		tries = constant.ReadTries
	}
	return &scheduler{tries, d, log}
}

func (s *scheduler) Sectors() int64 {
	return s.d.Sectors()
}

// Read fills b.Data with the block at b.LSN. The count is clamped to the end
// of the medium and the bytes past it are zeroed. A block that failed every
// attempt is zeroed as well so that no stale bytes are ever served.
func (s *scheduler) Read(b *sector.Block) Result {
	var err error

	if !b.Mode.Valid() {
		return Result{Err: errors.Wrapf(errmsg.InvalidMode, "mode %d", b.Mode)}
	}
	left := s.d.Sectors() - int64(b.LSN)
	if b.LSN < 0 || left <= 0 {
		return Result{Err: errors.Wrapf(errmsg.OutOfRange, "block %d", b.LSN)}
	}
	n := constant.BlockSectors
	if left < int64(n) {
		n = int(left)
	}
	for i := 1; i <= s.tries; i++ {
		if err = s.read(b, n); err == nil {
			clear(b.Data[n*b.Mode.Stride():])
			return Result{Sectors: n, Attempts: i}
		}
	}
	clear(b.Data)
	s.log.Errorf("read of block %d (mode %s) failed after %d attempts: %v\n", b.LSN, b.Mode, s.tries, err)
	return Result{
		Attempts: s.tries,
		Err:      errors.Wrapf(errmsg.ReadFailed, "block %d after %d attempts: %v", b.LSN, s.tries, err),
	}
}

func (s *scheduler) read(b *sector.Block, n int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("backend panic: %v", r)
		}
	}()
	if b.Mode == sector.Mode2048 {
		return s.d.ReadLogical(int64(b.LSN), n, b.Data)
	}
	return s.d.ReadRaw(int64(b.LSN), n, b.Data)
}
