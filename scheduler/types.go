package scheduler

import (
	"sync"
	"time"

	"github.com/infinivision/cdvdcache/cache"
	"github.com/infinivision/cdvdcache/scheduler/manager"
	"github.com/infinivision/cdvdcache/sector"
	"github.com/infinivision/cdvdcache/status"
	"github.com/rs/xid"

	reader "github.com/infinivision/cdvdcache/cache/scheduler"
)

// Scheduler is the background worker that serves requests and prefetches
// the blocks following the last one requested.
type Scheduler interface {
	Run()
	Stop()
	Quit()
	Notify()
	Done() <-chan struct{}
}

type Config struct {
	PrefetchBlocks int
	IdleWait       time.Duration // wait between cycles with nothing to prefetch
	PrefetchWait   time.Duration
	NotReadyPoll   time.Duration
}

type work struct {
	request bool
	id      xid.ID
	lsn     int32
	mode    sector.Mode
}

// prefetch is owned by the worker goroutine. lba is the next block to cover.
type prefetch struct {
	lba  int32
	mode sector.Mode
	left int
}

type scheduler struct {
	cfg  Config
	pf   prefetch
	blk  *sector.Block
	once sync.Once
	quit chan struct{} // closed to ask the loop to exit
	done chan struct{} // closed by Run on exit
	wake chan struct{}
	c    cache.Cache
	st   status.Status
	rd   reader.Scheduler
	mgr  manager.Manager
}
