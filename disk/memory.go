package disk

import (
	"github.com/infinivision/cdvdcache/constant"
	"github.com/infinivision/cdvdcache/errmsg"
	"github.com/pkg/errors"
)

// NewMemory returns a ready in-memory medium of cnt zeroed mode 2 sectors.
func NewMemory(cnt int64, media int) *Memory {
	m := &Memory{
		ready: true,
		media: media,
		toc:   TOC{First: 1, Last: 1},
		data:  make([]byte, cnt*constant.RawSectorSize),
	}
	zero := make([]byte, constant.DataSectorSize)
	for i := int64(0); i < cnt; i++ {
		encodeRaw(i, zero, m.data[i*constant.RawSectorSize:])
	}
	return m
}

// WriteLogical stores 2048-byte sectors starting at lsn, framed as mode 2 form 1.
func (m *Memory) WriteLogical(lsn int64, data []byte) {
	m.Lock()
	defer m.Unlock()
	for i := 0; i+constant.DataSectorSize <= len(data); i += constant.DataSectorSize {
		o := (lsn + int64(i/constant.DataSectorSize)) * constant.RawSectorSize
		encodeRaw(lsn+int64(i/constant.DataSectorSize), data[i:], m.data[o:])
	}
}

// WriteRaw stores raw sectors starting at lsn.
func (m *Memory) WriteRaw(lsn int64, data []byte) {
	m.Lock()
	defer m.Unlock()
	copy(m.data[lsn*constant.RawSectorSize:], data)
}

func (m *Memory) SetReady(ready bool) {
	m.Lock()
	defer m.Unlock()
	m.ready = ready
}

func (m *Memory) SetTOC(toc TOC) {
	m.Lock()
	defer m.Unlock()
	m.toc = toc
}

func (m *Memory) Close() error {
	m.SetReady(false)
	return nil
}

func (m *Memory) Ready() bool {
	m.RLock()
	defer m.RUnlock()
	return m.ready
}

func (m *Memory) Sectors() int64 {
	m.RLock()
	defer m.RUnlock()
	if !m.ready {
		return 0
	}
	return int64(len(m.data) / constant.RawSectorSize)
}

func (m *Memory) MediaType() int {
	m.RLock()
	defer m.RUnlock()
	return m.media
}

func (m *Memory) ReadTOC() (TOC, error) {
	m.RLock()
	defer m.RUnlock()
	if !m.ready {
		return TOC{}, errmsg.NoDisc
	}
	return m.toc, nil
}

func (m *Memory) ReadLogical(lsn int64, n int, buf []byte) error {
	m.RLock()
	defer m.RUnlock()
	if err := m.check(lsn, n, len(buf), constant.DataSectorSize); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		o := (lsn + int64(i)) * constant.RawSectorSize
		copy(buf[i*constant.DataSectorSize:], userData(m.data[o:o+constant.RawSectorSize]))
	}
	return nil
}

func (m *Memory) ReadRaw(lsn int64, n int, buf []byte) error {
	m.RLock()
	defer m.RUnlock()
	if err := m.check(lsn, n, len(buf), constant.RawSectorSize); err != nil {
		return err
	}
	copy(buf, m.data[lsn*constant.RawSectorSize:(lsn+int64(n))*constant.RawSectorSize])
	return nil
}

func (m *Memory) check(lsn int64, n, size, stride int) error {
	cnt := int64(len(m.data) / constant.RawSectorSize)
	switch {
	case !m.ready:
		return errmsg.NoDisc
	case lsn < 0 || n < 0 || lsn+int64(n) > cnt:
		return errors.Wrapf(errmsg.OutOfRange, "sectors [%d, %d) of %d", lsn, lsn+int64(n), cnt)
	case size < n*stride:
		return errors.Wrapf(errmsg.ShortBuffer, "%d sectors need %d bytes", n, n*stride)
	}
	return nil
}
