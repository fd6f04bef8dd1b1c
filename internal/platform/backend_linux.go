//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/1broseidon/deskrain/internal/x11"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
	opts Options
	log  *slog.Logger
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend wraps an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, opts Options) *LinuxBackend {
	opts = opts.withDefaults()
	return &LinuxBackend{conn: conn, opts: opts, log: opts.Logger.With("backend", BackendX11)}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection to $DISPLAY.
func NewLinuxBackendFromDisplay(opts Options) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, opts), nil
}

func nativeBackendName() string {
	if os.Getenv("DISPLAY") == "" {
		return ""
	}
	return BackendX11
}

func openNative(name string, opts Options) (Backend, error) {
	if name != BackendX11 {
		return nil, fmt.Errorf("%w: %q is not available on linux", ErrUnsupportedBackend, name)
	}
	return NewLinuxBackendFromDisplay(opts)
}

// Name implements Backend.
func (b *LinuxBackend) Name() string { return BackendX11 }

// Displays returns all active monitors reported by RandR.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// OpenSurface creates the background window covering bounds.
func (b *LinuxBackend) OpenSurface(bounds Rect) (Surface, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	return newX11Surface(conn, bounds, b.opts, b.log)
}

// Close disconnects from the X server.
func (b *LinuxBackend) Close() error {
	if b != nil && b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	return nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
		Primary: m.Primary,
	}
}
