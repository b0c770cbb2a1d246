package hardware

import (
	"fmt"

	"go.bug.st/serial"
	"go.uber.org/multierr"
)

// bugstDevice wraps go.bug.st/serial. The mode is applied at open; the read
// timeout and buffer resets happen in Configure.
type bugstDevice struct {
	serial.Port
}

var _ Device = (*bugstDevice)(nil)

func openBugst(path string, line LineConfig) (Device, error) {
	mode := &serial.Mode{
		BaudRate: line.BaudRate,
		DataBits: line.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port: %w", err)
	}
	return &bugstDevice{Port: port}, nil
}

func (d *bugstDevice) Configure(line LineConfig) error {
	var err error
	err = multierr.Append(err, d.ResetInputBuffer())
	err = multierr.Append(err, d.ResetOutputBuffer())
	if line.ReadTimeout > 0 {
		err = multierr.Append(err, d.SetReadTimeout(line.ReadTimeout))
	}
	return err
}
