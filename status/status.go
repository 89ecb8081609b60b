package status

import (
	"sync/atomic"

	"github.com/infinivision/cdvdcache/cache"
	"github.com/infinivision/cdvdcache/disk"
	"github.com/nnsgmsone/damrey/logger"
	"github.com/pkg/errors"
)

func New(d disk.Disk, c cache.Cache, cb func(), log logger.Log) *status {
	return &status{d: d, c: c, cb: cb, log: log, typ: NoDisc, tray: TrayClosed}
}

// Update polls the disk and reports whether it is not ready. A transition in
// either direction fires the callback once; calls made from inside the
// callback only report readiness.
func (s *status) Update() bool {
	ready := s.d.Ready()
	if atomic.LoadInt32(&s.dispatching) == 1 {
		return !ready
	}

	s.Lock()
	fire := false
	switch {
	case !ready && !s.changed:
		s.changed = true
		s.typ = NoDisc
		s.tray = TrayOpen
		fire = true
	case ready && s.changed:
		s.changed = false
		s.typ = NoDisc
		s.tray = TrayClosed
		if err := s.refresh(); err != nil {
			s.log.Errorf("disc inserted but refresh failed: %v\n", err)
		}
		fire = true
	}
	s.Unlock()

	if fire {
		s.dispatch()
	}
	return !ready
}

// Refresh re-reads the TOC, reclassifies the disc and drops every cached block.
func (s *status) Refresh() error {
	s.Lock()
	defer s.Unlock()
	return s.refresh()
}

func (s *status) refresh() error {
	defer s.c.Reset()
	s.tray = TrayClosed
	toc, err := s.d.ReadTOC()
	if err != nil {
		s.typ = NoDisc
		return errors.Wrap(err, "read toc")
	}
	if toc.Last == 0 || toc.First > toc.Last {
		s.typ = NoDisc
		return nil
	}
	switch mt := s.d.MediaType(); {
	case mt < 0:
		s.typ = CD
	case mt == 0:
		s.typ = DVD
	default:
		s.typ = DVDDual
	}
	return nil
}

func (s *status) dispatch() {
	if s.cb == nil || !atomic.CompareAndSwapInt32(&s.dispatching, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&s.dispatching, 0)
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("disc changed callback panicked: %v\n", r)
		}
	}()
	s.cb()
}

func (s *status) Changed() bool {
	s.Lock()
	defer s.Unlock()
	return s.changed
}

// Dispatching reports whether the callback is running. Only the worker
// dispatches, so a true result seen from inside the callback means the caller
// is on the worker goroutine.
func (s *status) Dispatching() bool {
	return atomic.LoadInt32(&s.dispatching) == 1
}

func (s *status) DiscType() DiscType {
	s.Lock()
	defer s.Unlock()
	return s.typ
}

func (s *status) Tray() TrayStatus {
	s.Lock()
	defer s.Unlock()
	return s.tray
}

func (t DiscType) String() string {
	switch t {
	case Detecting:
		return "Detecting"
	case CD:
		return "CD-ROM"
	case DVD:
		return "Single-Layer DVD"
	case DVDDual:
		return "Double-Layer DVD"
	}
	return "No Disc"
}

func (t TrayStatus) String() string {
	if t == TrayOpen {
		return "open"
	}
	return "closed"
}
