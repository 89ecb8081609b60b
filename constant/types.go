package constant

import "time"

var (
	IdleWait       = 250 * time.Millisecond
	PrefetchWait   = 1 * time.Millisecond
	NotReadyPoll   = 10 * time.Millisecond
	CompletionPoll = 10 * time.Millisecond
)

const (
	RawSectorSize  = 2352
	DataSectorSize = 2048
)

const (
	BlockSectors = 16 // sectors per cached block
	BlockMask    = BlockSectors - 1
	BlockBytes   = RawSectorSize * BlockSectors
)

const (
	CacheBits      = 12 // 1<<12 blocks * 16 sectors, ~150MB fully populated
	MinCacheBits   = 1
	MaxCacheBits   = 16
	PrefetchBlocks = 16
	ReadTries      = 4
)

const (
	SyncSize      = 12
	HeaderSize    = 4
	SubHeaderSize = 8
	EDCSize       = 4
	PregapSectors = 150 // MSF addresses start at 00:02:00
)
