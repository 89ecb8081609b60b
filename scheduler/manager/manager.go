package manager

import (
	"time"

	"github.com/infinivision/cdvdcache/errmsg"
	"github.com/infinivision/cdvdcache/sector"
	"github.com/rs/xid"
)

func New() *manager {
	done := make(chan struct{})
	close(done)
	return &manager{blk: sector.NewBlock(), done: done}
}

// Submit replaces the current request with the block at lsn. hit is given
// the response buffer first; when it fills it the request completes at once.
// It returns the request ID and whether the request is left pending.
func (m *manager) Submit(lsn int32, mode sector.Mode, hit func([]byte) bool) (xid.ID, bool) {
	m.Lock()
	defer m.Unlock()
	m.id = xid.New()
	m.err = nil
	m.blk.LSN, m.blk.Mode = lsn, mode
	if !m.pending {
		m.done = make(chan struct{})
	}
	if hit != nil && hit(m.blk.Data) {
		m.pending = false
		close(m.done)
		return m.id, false
	}
	m.pending = true
	return m.id, true
}

func (m *manager) Pending() bool {
	m.Lock()
	defer m.Unlock()
	return m.pending
}

// Take returns the pending request without clearing it.
func (m *manager) Take() (Request, bool) {
	m.Lock()
	defer m.Unlock()
	if !m.pending {
		return Request{}, false
	}
	return Request{ID: m.id, LSN: m.blk.LSN, Mode: m.blk.Mode}, true
}

// Complete stores the result of request id. Results for a request that has
// since been replaced are dropped.
func (m *manager) Complete(id xid.ID, b *sector.Block, err error) bool {
	m.Lock()
	defer m.Unlock()
	if !m.pending || m.id != id {
		return false
	}
	copy(m.blk.Data, b.Data)
	m.err = err
	m.pending = false
	close(m.done)
	return true
}

// Wait blocks until no request is pending. Every poll interval it asks alive
// whether to keep waiting.
func (m *manager) Wait(poll time.Duration, alive func() bool) error {
	for {
		m.Lock()
		pending, done := m.pending, m.done
		m.Unlock()
		if !pending {
			return nil
		}
		t := time.NewTimer(poll)
		select {
		case <-done:
		case <-t.C:
			if alive != nil && !alive() {
				return errmsg.NotOpen
			}
		}
		t.Stop()
	}
}

// View returns sector lsn of the last served request. It stays valid until
// the next Submit.
func (m *manager) View(lsn int32, mode sector.Mode) (sector.View, error) {
	m.Lock()
	defer m.Unlock()
	switch {
	case m.pending:
		return sector.View{}, errmsg.NotReady
	case m.err != nil:
		return sector.View{}, m.err
	}
	return m.blk.View(lsn, mode)
}
