package disk

import (
	"github.com/infinivision/cdvdcache/constant"
	"github.com/infinivision/cdvdcache/sum"
)

var syncPattern = [constant.SyncSize]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

func bcd(v int64) byte {
	return byte(v/10<<4 | v%10)
}

// encodeRaw builds a mode 2 form 1 sector around 2048 bytes of user data. The
// EDC is filled in; the ECC bytes stay zero.
func encodeRaw(lsn int64, data, raw []byte) {
	copy(raw, syncPattern[:])
	a := lsn + constant.PregapSectors
	raw[12] = bcd(a / 75 / 60)
	raw[13] = bcd(a / 75 % 60)
	raw[14] = bcd(a % 75)
	raw[15] = 2
	for i := 16; i < 24; i++ {
		raw[i] = 0
	}
	n := copy(raw[24:], data[:constant.DataSectorSize])
	for i := 24 + n; i < constant.RawSectorSize; i++ {
		raw[i] = 0
	}
	edc := 24 + constant.DataSectorSize
	sum.PutEDC(raw[edc:edc+constant.EDCSize], raw[constant.SyncSize+constant.HeaderSize:edc])
}

// userData returns the 2048 data bytes of a raw sector, located by its mode byte.
func userData(raw []byte) []byte {
	o := constant.SyncSize + constant.HeaderSize
	if raw[15] == 2 {
		o += constant.SubHeaderSize
	}
	return raw[o : o+constant.DataSectorSize]
}

func classify(cnt int64, format int) int {
	switch {
	case format == BIN || cnt <= CDLimit:
		return CD
	case cnt > DVDLimit:
		return DVDDual
	}
	return DVD
}
