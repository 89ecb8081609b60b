package cache

import (
	"github.com/infinivision/cdvdcache/constant"
	"github.com/infinivision/cdvdcache/sector"
)

func New(bits int) *cache {
	if bits < constant.MinCacheBits || bits > constant.MaxCacheBits {
		bits = constant.CacheBits
	}
	c := &cache{
		bits:  uint(bits),
		mask:  uint32(1)<<uint(bits) - 1,
		slots: make([]slot, 1<<uint(bits)),
	}
	c.Reset()
	return c
}

// Hash folds every bits-sized chunk of lsn together so that high sectors do
// not all land in the low slots, then mixes in the mode.
func Hash(lsn int32, mode sector.Mode, bits uint) uint32 {
	var t uint32

	m := uint32(1)<<bits - 1
	n := uint32(lsn)
	for i := 32; i >= 0; i -= int(bits) {
		t ^= n & m
		n >>= bits
	}
	return (t ^ uint32(mode)) & m
}

func (c *cache) Reset() {
	c.Lock()
	defer c.Unlock()
	for i := range c.slots {
		c.slots[i].lsn = -1
		c.slots[i].mode = sector.None
	}
}

func (c *cache) Update(lsn int32, mode sector.Mode, data []byte) {
	c.Lock()
	defer c.Unlock()
	s := &c.slots[Hash(lsn, mode, c.bits)]
	if s.data == nil {
		s.data = make([]byte, constant.BlockBytes)
	}
	copy(s.data, data)
	s.lsn, s.mode = lsn, mode
	c.st.Updates++
}

func (c *cache) Fetch(lsn int32, mode sector.Mode, data []byte) bool {
	c.Lock()
	defer c.Unlock()
	s := &c.slots[Hash(lsn, mode, c.bits)]
	if s.lsn == lsn && s.mode == mode {
		copy(data, s.data)
		c.st.Hits++
		return true
	}
	c.st.Misses++
	return false
}

func (c *cache) Contains(lsn int32, mode sector.Mode) bool {
	c.Lock()
	defer c.Unlock()
	s := &c.slots[Hash(lsn, mode, c.bits)]
	return s.lsn == lsn && s.mode == mode
}

func (c *cache) Stats() Stats {
	c.Lock()
	defer c.Unlock()
	return c.st
}
