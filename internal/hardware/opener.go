package hardware

import "fmt"

// Backend names accepted by NewOpener.
const (
	BackendTermios = "termios" // golang.org/x/sys/unix ioctls
	BackendTarm    = "tarm"    // github.com/tarm/serial
	BackendBugst   = "bugst"   // go.bug.st/serial
)

// NewOpener returns the Opener for backend. An empty name selects termios.
func NewOpener(backend string) (Opener, error) {
	switch backend {
	case BackendTermios, "":
		return OpenerFunc(openTermios), nil
	case BackendTarm:
		return OpenerFunc(openTarm), nil
	case BackendBugst:
		return OpenerFunc(openBugst), nil
	default:
		return nil, fmt.Errorf("unknown device backend %q", backend)
	}
}
