package errmsg

import "errors"

var (
	NotOpen       = errors.New("not open")
	NoDisc        = errors.New("no disc")
	NotReady      = errors.New("request not complete")
	OutOfRange    = errors.New("sector out of range")
	ReadFailed    = errors.New("read failed")
	OpenFailed    = errors.New("open failed")
	ShortBuffer   = errors.New("short buffer")
	InvalidMode   = errors.New("invalid sector mode")
	ModeMismatch  = errors.New("sector mode does not match request")
	UnknownFormat = errors.New("unknown image format")
	InvalidConfig = errors.New("invalid config")
)
