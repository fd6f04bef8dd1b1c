package platform

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
)

var (
	// ErrUnsupportedBackend is returned when a backend is not compiled in
	// for the current OS or its name is unknown.
	ErrUnsupportedBackend = errors.New("unsupported backend")

	// ErrNoDisplays is returned when the window system reports no active
	// display.
	ErrNoDisplays = errors.New("no displays found")
)

// Rect describes a rectangular region in virtual desktop coordinates.
// X and Y may be negative for displays left of or above the primary.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Display describes a physical display.
type Display struct {
	ID      int
	Name    string
	Bounds  Rect
	Primary bool
}

// EventKind classifies a Surface event.
type EventKind int

const (
	// EventExitKey means the termination key was pressed.
	EventExitKey EventKind = iota + 1
	// EventClosed means the surface went away underneath us (window
	// destroyed, display connection lost, terminal closed).
	EventClosed
)

func (k EventKind) String() string {
	switch k {
	case EventExitKey:
		return "exit-key"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is an input or window event relevant to the rain.
type Event struct {
	Kind EventKind
	// Detail is a backend-specific description for logging.
	Detail string
}

// Surface is a borderless window covering a fixed rectangle.
//
// Every method except Events must be called from the goroutine that opened
// the surface.
type Surface interface {
	Bounds() Rect

	// EnableTransparency makes pixels exactly matching key fully
	// transparent and everything else opaque.
	EnableTransparency(key color.RGBA) error
	// EnableClickThrough lets mouse and keyboard input pass through to
	// whatever is beneath the surface.
	EnableClickThrough() error
	// PinToBottom asks for the lowest stacking position above the desktop.
	// The window system may move the surface again at any time.
	PinToBottom() error

	Clear(c color.RGBA)
	// DrawGlyph draws g with the top-left corner of its cell at surface
	// pixel (x, y).
	DrawGlyph(x, y int, g rune, c color.RGBA)
	Present() error

	// Events drains pending events without blocking. Safe for concurrent
	// use with the other methods.
	Events() []Event

	Close() error
}

// Backend abstracts the window system.
type Backend interface {
	Name() string
	Displays() ([]Display, error)
	OpenSurface(bounds Rect) (Surface, error)
	Close() error
}

// Options carries settings a backend needs when it connects.
type Options struct {
	Title string
	// CellSize is the glyph cell in pixels; the terminal backend maps one
	// cell to one character.
	CellSize int
	// ExitKey names the termination key in xgbutil keybind syntax
	// ("Escape", "Mod4-q").
	ExitKey string
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "deskrain"
	}
	if o.CellSize <= 0 {
		o.CellSize = 16
	}
	if o.ExitKey == "" {
		o.ExitKey = "Escape"
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}
