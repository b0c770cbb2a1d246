//go:build linux || darwin

package hardware

import (
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

// termiosDevice drives the line discipline directly through ioctls.
type termiosDevice struct {
	fd int
}

var _ Device = (*termiosDevice)(nil)

func openTermios(path string, _ LineConfig) (Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &termiosDevice{fd: fd}, nil
}

// Configure puts the line in raw mode: get attributes, modify, flush, set.
// Every step after the get is attempted even if an earlier one failed.
func (d *termiosDevice) Configure(line LineConfig) error {
	t, err := unix.IoctlGetTermios(d.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("get attributes: %w", err)
	}

	makeRaw(t, line)

	var errs error
	if err := setSpeed(t, line.BaudRate); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := flush(d.fd); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("flush: %w", err))
	}
	if err := unix.IoctlSetTermios(d.fd, ioctlSetTermios, t); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("set attributes: %w", err))
	}
	return errs
}

func makeRaw(t *unix.Termios, line LineConfig) {
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN

	t.Cflag &^= unix.CSIZE | unix.PARENB
	switch line.DataBits {
	case 5:
		t.Cflag |= unix.CS5
	case 6:
		t.Cflag |= unix.CS6
	case 7:
		t.Cflag |= unix.CS7
	default:
		t.Cflag |= unix.CS8
	}
	t.Cflag |= unix.CREAD | unix.CLOCAL

	minRead := line.MinRead
	if minRead > 255 {
		minRead = 255
	}
	t.Cc[unix.VTIME] = deciseconds(line.ReadTimeout)
	t.Cc[unix.VMIN] = uint8(minRead)
}

func (d *termiosDevice) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(d.fd, p)
		if err == unix.EINTR {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

func (d *termiosDevice) Write(p []byte) (int, error) {
	for {
		n, err := unix.Write(d.fd, p)
		if err == unix.EINTR {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

func (d *termiosDevice) Close() error {
	return unix.Close(d.fd)
}
