package cdvd

import (
	"io"
	"time"

	"github.com/infinivision/cdvdcache/cache"
	"github.com/infinivision/cdvdcache/disk"
	"github.com/infinivision/cdvdcache/scheduler"
	"github.com/infinivision/cdvdcache/scheduler/manager"
	"github.com/infinivision/cdvdcache/sector"
	"github.com/infinivision/cdvdcache/status"
	"github.com/nnsgmsone/damrey/logger"

	reader "github.com/infinivision/cdvdcache/cache/scheduler"
)

/*
CDVD gives a latency-sensitive consumer cached access to the sectors of a
disc. One request may be outstanding at a time; a background worker serves
it and prefetches the blocks that follow. CDVD is safe for one consumer
goroutine.
*/
type CDVD interface {
	Close() error

	RequestSector(uint32, sector.Mode) error
	IsRequestComplete() bool
	GetSector(uint32, sector.Mode) (sector.View, error)
	DirectReadSector(uint32, sector.Mode, []byte) error

	MediaType() int
	RefreshDiscData() error
	DiscType() status.DiscType
	TrayStatus() status.TrayStatus
	Stats() cache.Stats
}

type Config struct {
	CacheBits      int // log2 of the number of cached blocks
	PrefetchBlocks int
	ReadTries      int
	IdleWait       time.Duration
	PrefetchWait   time.Duration
	NotReadyPoll   time.Duration
	CompletionPoll time.Duration
	LogWriter      io.Writer
	OnDiscChanged  func() // called from the worker goroutine
}

type cdvd struct {
	open int32
	cfg  Config
	d    disk.Disk
	c    cache.Cache
	log  logger.Log
	st   status.Status
	rd   reader.Scheduler
	mgr  manager.Manager
	schd scheduler.Scheduler
}
