package cdvd

import (
	"os"
	"sync/atomic"

	"github.com/infinivision/cdvdcache/cache"
	"github.com/infinivision/cdvdcache/disk"
	"github.com/infinivision/cdvdcache/errmsg"
	"github.com/infinivision/cdvdcache/scheduler"
	"github.com/infinivision/cdvdcache/scheduler/manager"
	"github.com/infinivision/cdvdcache/sector"
	"github.com/infinivision/cdvdcache/status"
	"github.com/nnsgmsone/damrey/logger"
	"github.com/pkg/errors"

	reader "github.com/infinivision/cdvdcache/cache/scheduler"
)

// Open starts the subsystem on d. The cache starts empty and the disc is
// classified before the worker is spawned.
func Open(d disk.Disk, cfg Config) (*cdvd, error) {
	if d == nil {
		return nil, errors.Wrap(errmsg.OpenFailed, "no disk")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.LogWriter == nil {
		cfg.LogWriter = os.Stderr
	}
	log := logger.New(cfg.LogWriter, "cdvd")
	c := cache.New(cfg.CacheBits)
	rd := reader.New(cfg.ReadTries, d, log)
	st := status.New(d, c, cfg.OnDiscChanged, log)
	mgr := manager.New()
	schd := scheduler.New(scheduler.Config{
		PrefetchBlocks: cfg.PrefetchBlocks,
		IdleWait:       cfg.IdleWait,
		PrefetchWait:   cfg.PrefetchWait,
		NotReadyPoll:   cfg.NotReadyPoll,
	}, c, st, rd, mgr)
	if d.Ready() {
		if err := st.Refresh(); err != nil {
			log.Errorf("initial disc refresh failed: %v\n", err)
		}
	}
	go schd.Run()
	return &cdvd{
		open: 1,
		cfg:  cfg,
		d:    d,
		c:    c,
		log:  log,
		st:   st,
		rd:   rd,
		mgr:  mgr,
		schd: schd,
	}, nil
}

// Close stops the worker after its current cycle. The disk is left open.
// Called from OnDiscChanged it only signals the worker, which exits once the
// callback returns.
func (cd *cdvd) Close() error {
	if !atomic.CompareAndSwapInt32(&cd.open, 1, 0) {
		return errmsg.NotOpen
	}
	if cd.st.Dispatching() {
		cd.schd.Quit()
		return nil
	}
	cd.schd.Stop()
	return nil
}

// RequestSector asks for the block holding lsn. A cached block completes the
// request immediately; otherwise the worker is woken. A request that has not
// been served yet is replaced.
func (cd *cdvd) RequestSector(lsn uint32, mode sector.Mode) error {
	if err := cd.check(lsn, mode); err != nil {
		return err
	}
	blk := sector.Align(int32(lsn))
	if _, pending := cd.mgr.Submit(blk, mode, func(b []byte) bool {
		return cd.c.Fetch(blk, mode, b)
	}); pending {
		cd.schd.Notify()
	}
	return nil
}

func (cd *cdvd) IsRequestComplete() bool {
	return !cd.mgr.Pending()
}

// GetSector waits for the outstanding request and returns sector lsn of it.
// The view is only valid until the next RequestSector.
func (cd *cdvd) GetSector(lsn uint32, mode sector.Mode) (sector.View, error) {
	if err := cd.mgr.Wait(cd.cfg.CompletionPoll, cd.alive); err != nil {
		return sector.View{}, err
	}
	if lsn > 1<<31-1 {
		return sector.View{}, errors.Wrapf(errmsg.OutOfRange, "sector %d", lsn)
	}
	return cd.mgr.View(int32(lsn), mode)
}

func (cd *cdvd) MediaType() int {
	return cd.d.MediaType()
}

// RefreshDiscData re-reads the TOC, reclassifies the disc and empties the cache.
func (cd *cdvd) RefreshDiscData() error {
	return cd.st.Refresh()
}

func (cd *cdvd) DiscType() status.DiscType {
	return cd.st.DiscType()
}

func (cd *cdvd) TrayStatus() status.TrayStatus {
	return cd.st.Tray()
}

func (cd *cdvd) Stats() cache.Stats {
	return cd.c.Stats()
}

func (cd *cdvd) alive() bool {
	return atomic.LoadInt32(&cd.open) == 1
}

func (cd *cdvd) check(lsn uint32, mode sector.Mode) error {
	switch {
	case !cd.alive():
		return errmsg.NotOpen
	case !mode.Valid():
		return errors.Wrapf(errmsg.InvalidMode, "mode %d", mode)
	case int64(lsn) >= cd.d.Sectors():
		return errors.Wrapf(errmsg.OutOfRange, "sector %d", lsn)
	}
	return nil
}
