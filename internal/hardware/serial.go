package hardware

import (
	"fmt"

	"github.com/tarm/serial"
)

// tarmDevice wraps github.com/tarm/serial. tarm applies the line settings
// (raw 8N1, VMIN/VTIME) when the port is opened, so Configure only flushes.
type tarmDevice struct {
	port *serial.Port
}

var _ Device = (*tarmDevice)(nil)

func openTarm(path string, line LineConfig) (Device, error) {
	config := &serial.Config{
		Name:        path,
		Baud:        line.BaudRate,
		Size:        byte(line.DataBits),
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
		ReadTimeout: line.ReadTimeout,
	}

	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, fmt.Errorf("open serial port: %w", err)
	}
	return &tarmDevice{port: port}, nil
}

func (d *tarmDevice) Configure(LineConfig) error {
	return d.port.Flush()
}

func (d *tarmDevice) Read(p []byte) (int, error) {
	return d.port.Read(p)
}

func (d *tarmDevice) Write(p []byte) (int, error) {
	return d.port.Write(p)
}

func (d *tarmDevice) Close() error {
	return d.port.Close()
}
