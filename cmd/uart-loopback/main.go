package main

import (
	"fmt"
	"io"
	"os"

	"github.com/wfunc/uart-loopback/internal/config"
	"github.com/wfunc/uart-loopback/internal/errors"
	"github.com/wfunc/uart-loopback/internal/hardware"
	"github.com/wfunc/uart-loopback/internal/logger"
	"github.com/wfunc/uart-loopback/internal/loopback"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, hardware.NewOpener))
}

func run(args []string, stdout io.Writer, newOpener func(backend string) (hardware.Opener, error)) int {
	if len(args) != 1 {
		usage(stdout)
		return errors.New(errors.ErrArgument).ExitCode()
	}
	device := args[0]

	if err := config.Init(); err != nil {
		fmt.Fprintf(stdout, "ERROR: load configuration: %v\n", err)
		return errors.Wrap(err, errors.ErrArgument).ExitCode()
	}
	cfg := config.Get()

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(stdout, "ERROR: init logger: %v\n", err)
		return errors.Wrap(err, errors.ErrArgument).ExitCode()
	}
	defer logger.Cleanup()

	opener, err := newOpener(cfg.Device.Backend)
	if err != nil {
		fmt.Fprintf(stdout, "ERROR: %v\n", err)
		return errors.Wrap(err, errors.ErrArgument).ExitCode()
	}

	log := logger.WithModule("loopback")
	log.Debug("starting loopback test",
		zap.String("version", Version),
		zap.String("backend", cfg.Device.Backend),
		zap.String("device", device))

	_, err = loopback.New(opener, stdout, log).Run(device)
	return errors.ExitCode(err)
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "\nUsage:\n\n")
	fmt.Fprintf(w, "uart-loopback <device>\n")
	fmt.Fprintf(w, "\nExample:\n")
	fmt.Fprintf(w, "uart-loopback /dev/ttyO2\n")
	fmt.Fprintf(w, "\n")
}
