package scheduler

import (
	"time"

	"github.com/infinivision/cdvdcache/cache"
	"github.com/infinivision/cdvdcache/constant"
	"github.com/infinivision/cdvdcache/scheduler/manager"
	"github.com/infinivision/cdvdcache/sector"
	"github.com/infinivision/cdvdcache/status"

	reader "github.com/infinivision/cdvdcache/cache/scheduler"
)

func New(cfg Config, c cache.Cache, st status.Status, rd reader.Scheduler, mgr manager.Manager) *scheduler {
	if cfg.PrefetchBlocks < 0 {
		cfg.PrefetchBlocks = 0
	}
	return &scheduler{
		cfg:  cfg,
		c:    c,
		st:   st,
		rd:   rd,
		mgr:  mgr,
		blk:  sector.NewBlock(),
		quit: make(chan struct{}),
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
	}
}

func (s *scheduler) Run() {
	defer close(s.done)
	for {
		if s.st.Update() {
			if s.sleep(s.cfg.NotReadyPoll) {
				return
			}
			continue
		}
		wait := s.cfg.IdleWait
		if s.pf.left > 0 {
			wait = s.cfg.PrefetchWait
		}
		if s.wait(wait) {
			return
		}
		s.step()
	}
}

// Stop returns once the loop has finished its current cycle. It must not be
// called from the worker goroutine; use Quit there.
func (s *scheduler) Stop() {
	s.Quit()
	<-s.done
}

// Quit asks the loop to exit after its current cycle and returns at once.
func (s *scheduler) Quit() {
	s.once.Do(func() { close(s.quit) })
}

func (s *scheduler) Done() <-chan struct{} {
	return s.done
}

// Notify wakes the worker without blocking.
func (s *scheduler) Notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// wait blocks until Notify, Quit or the timeout and reports whether the loop
// has to exit.
func (s *scheduler) wait(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.quit:
		return true
	case <-s.wake:
	case <-t.C:
	}
	select {
	case <-s.quit:
		return true
	default:
	}
	return false
}

// sleep is the disc-not-ready poll; requests do not shorten it.
func (s *scheduler) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-s.quit:
		return true
	case <-t.C:
	}
	return false
}

func (s *scheduler) step() bool {
	w, ok := s.next()
	if !ok {
		return false
	}
	s.serve(w)
	return true
}

// next picks the unit of work for this cycle. A pending request always wins
// over prefetching.
func (s *scheduler) next() (work, bool) {
	if r, ok := s.mgr.Take(); ok {
		return work{request: true, id: r.ID, lsn: r.LSN, mode: r.Mode}, true
	}
	if s.pf.left > 0 {
		return work{lsn: s.pf.lba, mode: s.pf.mode}, true
	}
	return work{}, false
}

func (s *scheduler) serve(w work) {
	if w.request {
		err := s.read(w.lsn, w.mode)
		s.mgr.Complete(w.id, s.blk, err)
		s.pf = prefetch{lba: w.lsn, mode: w.mode, left: s.cfg.PrefetchBlocks}
		return
	}
	if int64(w.lsn) >= s.rd.Sectors() {
		s.pf.left = 0
		return
	}
	if !s.c.Contains(w.lsn, w.mode) {
		s.read(w.lsn, w.mode)
	}
	s.pf.lba = w.lsn + constant.BlockSectors
	s.pf.left--
}

func (s *scheduler) read(lsn int32, mode sector.Mode) error {
	s.blk.LSN, s.blk.Mode = lsn, mode
	r := s.rd.Read(s.blk)
	if r.Err == nil {
		s.c.Update(lsn, mode, s.blk.Data)
	}
	return r.Err
}
