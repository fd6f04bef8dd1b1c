package platform

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Backend names accepted by Open.
const (
	BackendAuto     = "auto"
	BackendX11      = "x11"
	BackendWin32    = "win32"
	BackendTerminal = "terminal"
)

// Open connects to the named backend. "auto" picks the native window system
// when one is reachable and falls back to the terminal when stdout is a TTY.
func Open(name string, opts Options) (Backend, error) {
	opts = opts.withDefaults()

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendAuto:
		return openAuto(opts)
	case BackendTerminal:
		return NewTerminalBackend(opts)
	case BackendX11, BackendWin32:
		return openNative(strings.ToLower(name), opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
	}
}

func openAuto(opts Options) (Backend, error) {
	native := nativeBackendName()
	if native != "" {
		b, err := openNative(native, opts)
		if err == nil {
			return b, nil
		}
		if !stdoutIsTerminal() {
			return nil, err
		}
		opts.Logger.Warn("native backend unavailable, using terminal", "backend", native, "error", err)
	}
	if stdoutIsTerminal() {
		return NewTerminalBackend(opts)
	}
	return nil, fmt.Errorf("%w: no window system and stdout is not a terminal", ErrUnsupportedBackend)
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
