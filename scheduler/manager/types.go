package manager

import (
	"sync"
	"time"

	"github.com/infinivision/cdvdcache/sector"
	"github.com/rs/xid"
)

// Manager is the single request slot shared by the consumer and the worker.
// The pending flag, the descriptor and the response buffer change together
// under one lock.
type Manager interface {
	Pending() bool
	Take() (Request, bool)
	Wait(time.Duration, func() bool) error
	View(int32, sector.Mode) (sector.View, error)
	Complete(xid.ID, *sector.Block, error) bool
	Submit(int32, sector.Mode, func([]byte) bool) (xid.ID, bool)
}

// Request describes the block a consumer is waiting for.
type Request struct {
	ID   xid.ID
	LSN  int32
	Mode sector.Mode
}

type manager struct {
	sync.Mutex
	pending bool
	id      xid.ID
	err     error
	blk     *sector.Block
	done    chan struct{} // closed when the current request is served
}
