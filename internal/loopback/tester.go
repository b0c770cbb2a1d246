// Package loopback checks a serial line wired back on itself: it writes a
// fixed frame and expects to read the same bytes back.
package loopback

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/wfunc/uart-loopback/internal/errors"
	"github.com/wfunc/uart-loopback/internal/hardware"
	"go.uber.org/zap"
)

// FrameSize is the length of the test frame.
const FrameSize = 5

var frame = [FrameSize]byte{0x01, 0x02, 0x03, 0x04, 0x05}

// Frame returns the test pattern.
func Frame() [FrameSize]byte {
	return frame
}

// Report describes one run.
type Report struct {
	RunID      string
	Device     string
	Written    int
	Read       int
	Response   [FrameSize]byte
	Compared   int // positions compared, including a mismatching one
	MismatchAt int // -1 when no mismatch was found
	CloseErr   error
}

// Tester runs loopback checks. Progress and diagnostics go to out as plain
// text.
type Tester struct {
	opener hardware.Opener
	line   hardware.LineConfig
	out    io.Writer
	logger *zap.Logger
}

// New creates a Tester using the fixed 9600 8N1 line settings.
func New(opener hardware.Opener, out io.Writer, logger *zap.Logger) *Tester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tester{
		opener: opener,
		line:   hardware.DefaultLine,
		out:    out,
		logger: logger,
	}
}

// Run performs open, configure, write, read, compare and close against
// device. The returned error is an *errors.AppError whose code is the exit
// status; nil means every byte matched.
//
// Once the device is open it is closed on every return path. A close failure
// is reported on out and in Report.CloseErr but never replaces the result.
func (t *Tester) Run(device string) (*Report, error) {
	report := &Report{
		RunID:      uuid.NewString(),
		Device:     device,
		MismatchAt: -1,
	}
	log := t.logger.With(zap.String("run_id", report.RunID), zap.String("device", device))

	dev, openErr := t.opener.Open(device, t.line)
	if openErr != nil {
		t.errorf("io failed to open %s", device)
		log.Error("open device failed", zap.Error(openErr))
		return report, errors.Wrapf(openErr, errors.ErrOpenFailed, "open %s", device)
	}
	log.Debug("device opened")

	defer func() {
		if closeErr := dev.Close(); closeErr != nil {
			report.CloseErr = errors.Wrapf(closeErr, errors.ErrCloseFailed, "close %s", device)
			t.errorf("io failed to close device")
			log.Warn("close device failed", zap.Error(closeErr))
			return
		}
		log.Debug("device closed")
	}()

	// configuration failures are logged only; the run carries on
	if cfgErr := dev.Configure(t.line); cfgErr != nil {
		log.Warn("configure line failed", zap.Error(cfgErr))
	}

	if err := t.write(dev, report); err != nil {
		log.Error("write frame failed", zap.Int("written", report.Written), zap.Error(err))
		return report, err
	}

	if err := t.read(dev, report); err != nil {
		log.Error("read response failed", zap.Int("read", report.Read), zap.Error(err))
		return report, err
	}

	if err := t.compare(report); err != nil {
		log.Error("loopback data mismatch",
			zap.Int("index", report.MismatchAt),
			zap.Binary("response", report.Response[:]))
		return report, err
	}

	log.Info("loopback passed")
	return report, nil
}

func (t *Tester) write(dev hardware.Device, report *Report) error {
	n, err := dev.Write(frame[:])
	report.Written = n
	if err != nil || n != FrameSize {
		t.errorf("io failed to write at %s. Bytes Written:%d", report.Device, n)
		return errors.Newf(errors.ErrWriteFailed, "wrote %d of %d bytes to %s", n, FrameSize, report.Device).
			WithCause(err)
	}
	t.printf("Loopback Test (%s): Bytes Written: %d, Write Success\n", report.Device, n)
	return nil
}

// read issues a single read; the line's timeout bounds how long it blocks.
func (t *Tester) read(dev hardware.Device, report *Report) error {
	n, err := dev.Read(report.Response[:])
	if n < 0 {
		n = 0
	}
	report.Read = n
	if n < FrameSize {
		t.errorf("io failed to read from %s, bytes read: %d", report.Device, n)
		return errors.Newf(errors.ErrReadFailed, "read %d of %d bytes from %s", n, FrameSize, report.Device).
			WithCause(err)
	}
	t.printf("Loopback Test (%s): Bytes Read: %d, Read Success\n", report.Device, n)
	return nil
}

// compare prints each received byte and stops at the first mismatch.
func (t *Tester) compare(report *Report) error {
	t.printf("Loopback Test: Bytes Received: ")
	for i := 0; i < FrameSize; i++ {
		t.printf("%d ", report.Response[i])
		report.Compared = i + 1
		if frame[i] != report.Response[i] {
			report.MismatchAt = i
			t.errorf("Data Mismatch")
			return errors.Newf(errors.ErrDataMismatch, "index %d: want %d, got %d", i, frame[i], report.Response[i])
		}
	}
	t.printf("\n")
	return nil
}

func (t *Tester) printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *Tester) errorf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, "ERROR: "+format+"\n", args...)
}
