package disk

import (
	"path/filepath"
	"strings"

	"github.com/infinivision/cdvdcache/constant"
	"github.com/infinivision/cdvdcache/errmsg"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// New maps the image at path read-only. The format is taken from the
// extension and the file size.
func New(path string) (*image, error) {
	d := &image{}
	if err := d.Load(path); err != nil {
		return nil, err
	}
	return d, nil
}

// Load swaps in another image, as if the tray was opened and a new disc
// inserted.
func (d *image) Load(path string) error {
	buf, format, err := mapFile(path)
	if err != nil {
		return err
	}
	d.Lock()
	old := d.buf
	d.buf, d.path, d.format = buf, path, format
	d.cnt = int64(len(buf) / sectorSize(format))
	d.Unlock()
	if old != nil {
		return unix.Munmap(old)
	}
	return nil
}

// Eject unmaps the image; the disk reports not ready until the next Load.
func (d *image) Eject() error {
	d.Lock()
	defer d.Unlock()
	if d.buf == nil {
		return nil
	}
	err := unix.Munmap(d.buf)
	d.buf, d.cnt = nil, 0
	return err
}

func (d *image) Close() error {
	return d.Eject()
}

func (d *image) Path() string {
	d.RLock()
	defer d.RUnlock()
	return d.path
}

func (d *image) Ready() bool {
	d.RLock()
	defer d.RUnlock()
	return d.buf != nil
}

func (d *image) Sectors() int64 {
	d.RLock()
	defer d.RUnlock()
	return d.cnt
}

func (d *image) MediaType() int {
	d.RLock()
	defer d.RUnlock()
	return classify(d.cnt, d.format)
}

func (d *image) ReadTOC() (TOC, error) {
	d.RLock()
	defer d.RUnlock()
	if d.buf == nil {
		return TOC{}, errmsg.NoDisc
	}
	return TOC{First: 1, Last: 1}, nil
}

func (d *image) ReadLogical(lsn int64, n int, buf []byte) error {
	d.RLock()
	defer d.RUnlock()
	if err := d.check(lsn, n, len(buf), constant.DataSectorSize); err != nil {
		return err
	}
	switch d.format {
	case ISO:
		copy(buf, d.buf[lsn*constant.DataSectorSize:(lsn+int64(n))*constant.DataSectorSize])
	default:
		for i := 0; i < n; i++ {
			o := (lsn + int64(i)) * constant.RawSectorSize
			copy(buf[i*constant.DataSectorSize:], userData(d.buf[o:o+constant.RawSectorSize]))
		}
	}
	return nil
}

func (d *image) ReadRaw(lsn int64, n int, buf []byte) error {
	d.RLock()
	defer d.RUnlock()
	if err := d.check(lsn, n, len(buf), constant.RawSectorSize); err != nil {
		return err
	}
	switch d.format {
	case BIN:
		copy(buf, d.buf[lsn*constant.RawSectorSize:(lsn+int64(n))*constant.RawSectorSize])
	default:
		for i := 0; i < n; i++ {
			o := (lsn + int64(i)) * constant.DataSectorSize
			encodeRaw(lsn+int64(i), d.buf[o:o+constant.DataSectorSize], buf[i*constant.RawSectorSize:])
		}
	}
	return nil
}

func (d *image) check(lsn int64, n, size, stride int) error {
	switch {
	case d.buf == nil:
		return errmsg.NoDisc
	case lsn < 0 || n < 0 || lsn+int64(n) > d.cnt:
		return errors.Wrapf(errmsg.OutOfRange, "sectors [%d, %d) of %d", lsn, lsn+int64(n), d.cnt)
	case size < n*stride:
		return errors.Wrapf(errmsg.ShortBuffer, "%d sectors need %d bytes", n, n*stride)
	}
	return nil
}

func mapFile(path string) ([]byte, int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "open '%s'", path)
	}
	defer unix.Close(fd)
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, 0, errors.Wrapf(err, "stat '%s'", path)
	}
	format, err := detect(path, st.Size)
	if err != nil {
		return nil, 0, err
	}
	buf, err := unix.Mmap(fd, 0, int(st.Size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "mmap '%s'", path)
	}
	return buf, format, nil
}

func detect(path string, size int64) (int, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case size <= 0:
	case size%constant.RawSectorSize == 0 && (ext == ".bin" || ext == ".img" || ext == ".raw"):
		return BIN, nil
	case size%constant.DataSectorSize == 0:
		return ISO, nil
	case size%constant.RawSectorSize == 0:
		return BIN, nil
	}
	return 0, errors.Wrapf(errmsg.UnknownFormat, "'%s' (%d bytes)", path, size)
}

func sectorSize(format int) int {
	if format == BIN {
		return constant.RawSectorSize
	}
	return constant.DataSectorSize
}
