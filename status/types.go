package status

import (
	"sync"

	"github.com/infinivision/cdvdcache/cache"
	"github.com/infinivision/cdvdcache/disk"
	"github.com/nnsgmsone/damrey/logger"
)

type DiscType int

const (
	NoDisc    DiscType = 0x00
	Detecting DiscType = 0x01
	CD        DiscType = 0x02
	DVD       DiscType = 0x03 // single layer
	DVDDual   DiscType = 0x04
)

type TrayStatus int

const (
	TrayClosed TrayStatus = iota
	TrayOpen
)

// Status tracks disc presence and reacts to insertion and removal.
type Status interface {
	Update() bool
	Refresh() error
	Changed() bool
	Dispatching() bool
	DiscType() DiscType
	Tray() TrayStatus
}

type status struct {
	sync.Mutex
	changed     bool
	dispatching int32 // set while the callback runs
	typ         DiscType
	tray        TrayStatus
	d           disk.Disk
	c           cache.Cache
	cb          func()
	log         logger.Log
}
