package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// netWmStateAdd is the _NET_WM_STATE client message action that sets a state.
const netWmStateAdd = 1

// maxShapeRects bounds a single SHAPE request well below the core protocol
// request size limit (8 bytes per rectangle).
const maxShapeRects = 8192

// BackgroundWindow is an undecorated, unfocusable window meant to sit at the
// bottom of the stacking order.
type BackgroundWindow struct {
	conn *Connection
	ID   xproto.Window

	X      int
	Y      int
	Width  int
	Height int

	shapeReady bool
}

// NewBackgroundWindow creates an unmapped window exactly covering the given
// geometry.
func (c *Connection) NewBackgroundWindow(x, y, width, height int) (*BackgroundWindow, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		c.Root,
		int16(x), int16(y),
		uint16(width), uint16(height),
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		// Value list order follows the bit positions of the mask (low -> high).
		[]uint32{
			0, // back_pixel=black
			xproto.EventMaskStructureNotify,
		},
	).Check()
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	return &BackgroundWindow{
		conn:   c,
		ID:     wid,
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}, nil
}

// Map shows the window and moves it back to its requested geometry, since
// window managers are free to place a newly mapped window.
func (w *BackgroundWindow) Map() error {
	if err := xproto.MapWindowChecked(w.conn.XUtil.Conn(), w.ID).Check(); err != nil {
		return fmt.Errorf("failed to map window: %w", err)
	}

	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(w.conn.XUtil, w.ID, w.X, w.Y, w.Width, w.Height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(w.conn.XUtil, w.ID).MoveResize(w.X, w.Y, w.Width, w.Height)
	}
	return nil
}

// SetHints asks the window manager to leave the window undecorated and
// unfocused, keep it below other windows on every desktop, and out of
// taskbars and pagers. Must be called before Map to take effect everywhere.
func (w *BackgroundWindow) SetHints(title string) error {
	xu := w.conn.XUtil
	var errs []error

	errs = append(errs,
		ewmh.WmNameSet(xu, w.ID, title),
		icccm.WmNameSet(xu, w.ID, title),
		icccm.WmClassSet(xu, w.ID, &icccm.WmClass{Instance: title, Class: title}),
		icccm.WmHintsSet(xu, w.ID, &icccm.Hints{Flags: icccm.HintInput, Input: 0}),
		icccm.WmNormalHintsSet(xu, w.ID, &icccm.NormalHints{
			Flags:  icccm.SizeHintUSPosition | icccm.SizeHintUSSize,
			X:      w.X,
			Y:      w.Y,
			Width:  uint(w.Width),
			Height: uint(w.Height),
		}),
		motif.WmHintsSet(xu, w.ID, &motif.Hints{
			Flags:      motif.HintDecorations,
			Decoration: motif.DecorationNone,
		}),
		ewmh.WmWindowTypeSet(xu, w.ID, []string{"_NET_WM_WINDOW_TYPE_UTILITY"}),
		ewmh.WmStateSet(xu, w.ID, []string{
			"_NET_WM_STATE_BELOW",
			"_NET_WM_STATE_STICKY",
			"_NET_WM_STATE_SKIP_TASKBAR",
			"_NET_WM_STATE_SKIP_PAGER",
		}),
		ewmh.WmDesktopSet(xu, w.ID, AllDesktops),
	)

	return errors.Join(errs...)
}

// Lower asks the window manager to keep the window in the below layer and
// restacks it under its siblings.
func (w *BackgroundWindow) Lower() error {
	conn := w.conn.XUtil.Conn()

	stateErr := ewmh.WmStateReq(w.conn.XUtil, w.ID, netWmStateAdd, "_NET_WM_STATE_BELOW")
	if stateErr != nil {
		stateErr = fmt.Errorf("_NET_WM_STATE_BELOW request failed: %w", stateErr)
	}

	stackErr := xproto.ConfigureWindowChecked(
		conn,
		w.ID,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeBelow},
	).Check()
	if stackErr != nil {
		stackErr = fmt.Errorf("restack failed: %w", stackErr)
	}

	return errors.Join(stateErr, stackErr)
}

func (w *BackgroundWindow) ensureShape() error {
	if w.shapeReady {
		return nil
	}
	if err := shape.Init(w.conn.XUtil.Conn()); err != nil {
		return fmt.Errorf("SHAPE extension unavailable: %w", err)
	}
	w.shapeReady = true
	return nil
}

// PassInput empties the window's input region so pointer events fall
// through to whatever is underneath.
func (w *BackgroundWindow) PassInput() error {
	if err := w.ensureShape(); err != nil {
		return err
	}
	err := shape.RectanglesChecked(
		w.conn.XUtil.Conn(),
		shape.SoSet,
		shape.SkInput,
		xproto.ClipOrderingUnsorted,
		w.ID,
		0, 0,
		nil,
	).Check()
	if err != nil {
		return fmt.Errorf("failed to clear input region: %w", err)
	}
	return nil
}

// SetVisibleRects restricts the visible part of the window to rects, given
// in window coordinates and sorted top to bottom, left to right. An empty
// slice makes the window fully transparent. Requests are not checked; the
// server reports failures asynchronously.
func (w *BackgroundWindow) SetVisibleRects(rects []xproto.Rectangle) error {
	if err := w.ensureShape(); err != nil {
		return err
	}
	conn := w.conn.XUtil.Conn()

	for i, chunk := range chunkRects(rects, maxShapeRects) {
		op := shape.Op(shape.SoUnion)
		if i == 0 {
			op = shape.SoSet
		}
		shape.Rectangles(conn, op, shape.SkBounding, xproto.ClipOrderingYXSorted, w.ID, 0, 0, chunk)
	}
	return nil
}

// chunkRects splits rects into slices of at most size elements. An empty
// input yields one empty chunk so the caller still issues a set request.
func chunkRects(rects []xproto.Rectangle, size int) [][]xproto.Rectangle {
	if len(rects) == 0 {
		return [][]xproto.Rectangle{nil}
	}
	if size <= 0 {
		size = len(rects)
	}
	chunks := make([][]xproto.Rectangle, 0, (len(rects)+size-1)/size)
	for start := 0; start < len(rects); start += size {
		end := start + size
		if end > len(rects) {
			end = len(rects)
		}
		chunks = append(chunks, rects[start:end])
	}
	return chunks
}

// Destroy unmaps and destroys the window.
func (w *BackgroundWindow) Destroy() {
	if w.ID == 0 {
		return
	}
	conn := w.conn.XUtil.Conn()
	xproto.UnmapWindow(conn, w.ID)
	xproto.DestroyWindow(conn, w.ID)
	w.ID = 0
}
