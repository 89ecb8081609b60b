package sum

import (
	"encoding/binary"
	"hash/crc32"
)

// x^32 + x^31 + x^16 + x^15 + x^4 + x^3 + x + 1, bit reversed.
const edcPoly = 0xD8018001

var edcTable = crc32.MakeTable(edcPoly)

// EDC returns the error detection code of a CD-ROM sector: a CRC over data
// with no initial value and no final inversion.
func EDC(data []byte) uint32 {
	return ^crc32.Update(^uint32(0), edcTable, data)
}

// PutEDC stores the EDC of data little-endian at the start of dst.
func PutEDC(dst, data []byte) {
	binary.LittleEndian.PutUint32(dst, EDC(data))
}
