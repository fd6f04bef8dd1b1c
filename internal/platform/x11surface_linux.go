//go:build linux

package platform

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"

	"github.com/1broseidon/deskrain/internal/hotkeys"
	"github.com/1broseidon/deskrain/internal/raster"
	"github.com/1broseidon/deskrain/internal/x11"
)

const (
	x11EventBuffer     = 16
	x11EventLoopExitIn = 500 * time.Millisecond
)

type x11Surface struct {
	conn   *x11.Connection
	win    *x11.BackgroundWindow
	keys   *hotkeys.Handler
	canvas *raster.Canvas
	ximg   *xgraphics.Image
	log    *slog.Logger
	bounds Rect

	keyed bool
	key   color.RGBA
	runs  []image.Rectangle
	rects []xproto.Rectangle

	events chan Event
	done   chan struct{}
}

var _ Surface = (*x11Surface)(nil)

func newX11Surface(conn *x11.Connection, bounds Rect, opts Options, log *slog.Logger) (*x11Surface, error) {
	win, err := conn.NewBackgroundWindow(bounds.X, bounds.Y, bounds.Width, bounds.Height)
	if err != nil {
		return nil, err
	}
	bounds.Width, bounds.Height = win.Width, win.Height

	if err := win.SetHints(opts.Title); err != nil {
		log.Warn("some window hints were rejected", "error", err)
	}
	if err := win.Map(); err != nil {
		win.Destroy()
		return nil, err
	}
	if err := conn.SetWindowDesktop(win.ID, x11.AllDesktops); err != nil {
		log.Debug("failed to make window sticky", "error", err)
	}

	ximg := xgraphics.New(conn.XUtil, image.Rect(0, 0, bounds.Width, bounds.Height))
	if err := ximg.XSurfaceSet(win.ID); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("failed to create window pixmap: %w", err)
	}

	s := &x11Surface{
		conn:   conn,
		win:    win,
		keys:   hotkeys.NewHandler(conn.XUtil, conn.Root),
		canvas: raster.NewCanvas(bounds.Width, bounds.Height),
		ximg:   ximg,
		log:    log,
		bounds: bounds,
		events: make(chan Event, x11EventBuffer),
		done:   make(chan struct{}),
	}

	if err := s.keys.RegisterPassive(opts.ExitKey, func() {
		s.post(Event{Kind: EventExitKey, Detail: opts.ExitKey})
	}); err != nil {
		log.Warn("exit key unavailable, use Ctrl-C to stop", "key", opts.ExitKey, "error", err)
	}

	xevent.DestroyNotifyFun(func(_ *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		s.post(Event{Kind: EventClosed, Detail: fmt.Sprintf("window 0x%x destroyed", ev.Window)})
	}).Connect(conn.XUtil, win.ID)

	go func() {
		defer close(s.done)
		conn.EventLoop()
	}()

	log.Debug("surface opened", "window", fmt.Sprintf("0x%x", win.ID), "bounds", bounds)
	return s, nil
}

// post never blocks the X event goroutine; a full buffer already holds an
// event that will stop the rain.
func (s *x11Surface) post(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}

func (s *x11Surface) Bounds() Rect { return s.bounds }

func (s *x11Surface) EnableTransparency(key color.RGBA) error {
	s.key = key
	s.keyed = true
	// Nothing has been drawn yet, so nothing is visible.
	if err := s.win.SetVisibleRects(nil); err != nil {
		s.keyed = false
		return fmt.Errorf("color key unavailable: %w", err)
	}
	return nil
}

func (s *x11Surface) EnableClickThrough() error {
	return s.win.PassInput()
}

func (s *x11Surface) PinToBottom() error {
	return s.win.Lower()
}

func (s *x11Surface) Clear(c color.RGBA) {
	s.canvas.Clear(c)
}

func (s *x11Surface) DrawGlyph(x, y int, g rune, c color.RGBA) {
	s.canvas.DrawGlyph(x, y, g, c)
}

func (s *x11Surface) Present() error {
	s.canvas.CopyBGRA(s.ximg.Pix)
	s.ximg.XDraw()
	s.ximg.XPaint(s.win.ID)

	if !s.keyed {
		return nil
	}
	s.runs = raster.AppendKeyRuns(s.runs[:0], s.canvas.Image(), s.key)
	s.rects = toXRects(s.rects[:0], s.runs)
	return s.win.SetVisibleRects(s.rects)
}

func (s *x11Surface) Events() []Event {
	var out []Event
	for {
		select {
		case ev := <-s.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func (s *x11Surface) Close() error {
	s.keys.Close()
	s.conn.Quit()
	// Destroying the window delivers a DestroyNotify, which wakes the event
	// loop so it can see the quit flag.
	s.win.Destroy()
	s.ximg.Destroy()

	select {
	case <-s.done:
	case <-time.After(x11EventLoopExitIn):
		s.log.Debug("x11 event loop did not stop in time")
	}
	return nil
}

func toXRects(dst []xproto.Rectangle, runs []image.Rectangle) []xproto.Rectangle {
	for _, r := range runs {
		dst = append(dst, xproto.Rectangle{
			X:      int16(r.Min.X),
			Y:      int16(r.Min.Y),
			Width:  uint16(r.Dx()),
			Height: uint16(r.Dy()),
		})
	}
	return dst
}
