package hardware

import (
	"io"
	"time"
)

// Device is an open serial line owned by a single caller.
type Device interface {
	io.ReadWriteCloser

	// Configure applies line to the open device, flushing pending input and
	// output first.
	Configure(line LineConfig) error
}

// Opener acquires a Device for a path.
type Opener interface {
	Open(path string, line LineConfig) (Device, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string, line LineConfig) (Device, error)

func (f OpenerFunc) Open(path string, line LineConfig) (Device, error) {
	return f(path, line)
}

// LineConfig describes a raw serial line: no canonical processing, echo,
// signals or translation, no parity, receiver enabled, modem control lines
// ignored.
type LineConfig struct {
	BaudRate    int
	DataBits    int
	ReadTimeout time.Duration // rounded down to deciseconds, minimum 1
	MinRead     int           // bytes a read waits for; 0 returns at the timeout
}

// DefaultLine is 9600 8N1 with a 1 decisecond read timeout and no minimum.
var DefaultLine = LineConfig{
	BaudRate:    9600,
	DataBits:    8,
	ReadTimeout: 100 * time.Millisecond,
	MinRead:     0,
}

// deciseconds converts a timeout to a VTIME value.
func deciseconds(d time.Duration) uint8 {
	if d <= 0 {
		return 0
	}
	ds := d / (100 * time.Millisecond)
	if ds < 1 {
		return 1
	}
	if ds > 255 {
		return 255
	}
	return uint8(ds)
}
