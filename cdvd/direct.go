package cdvd

import (
	"github.com/infinivision/cdvdcache/sector"
)

// DirectReadSector copies one sector into buf without touching the request
// slot or the prefetch window. The block still goes through the cache.
func (cd *cdvd) DirectReadSector(lsn uint32, mode sector.Mode, buf []byte) error {
	if err := cd.check(lsn, mode); err != nil {
		return err
	}
	b := sector.NewBlock()
	b.LSN, b.Mode = sector.Align(int32(lsn)), mode
	if !cd.c.Fetch(b.LSN, b.Mode, b.Data) {
		if r := cd.rd.Read(b); r.Err != nil {
			return r.Err
		}
		cd.c.Update(b.LSN, b.Mode, b.Data)
	}
	v, err := b.View(int32(lsn), mode)
	if err != nil {
		return err
	}
	_, err = v.CopyTo(buf)
	return err
}
