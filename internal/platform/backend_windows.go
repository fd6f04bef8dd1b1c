//go:build windows

package platform

import (
	"fmt"
	"image/color"
	"log/slog"
	"sort"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/1broseidon/deskrain/internal/raster"
)

const win32ClassName = "deskrain"

var (
	registerOnce sync.Once
	registerErr  error

	// surfaces maps window handles to their surface for the window procedure.
	surfaces sync.Map
)

// WindowsBackend drives Win32 windows through user32 and gdi32.
type WindowsBackend struct {
	opts Options
	log  *slog.Logger
}

var _ Backend = (*WindowsBackend)(nil)

// NewWindowsBackend makes the process per-monitor DPI aware so that monitor
// and window coordinates are in physical pixels.
func NewWindowsBackend(opts Options) (*WindowsBackend, error) {
	opts = opts.withDefaults()
	b := &WindowsBackend{opts: opts, log: opts.Logger.With("backend", BackendWin32)}

	if procSetProcessDpiAwarenessCtx.Find() == nil {
		if r, _, err := procSetProcessDpiAwarenessCtx.Call(dpiAwarenessPerMonitorV2); r == 0 {
			b.log.Debug("SetProcessDpiAwarenessContext failed", "error", err)
		}
	}
	return b, nil
}

func nativeBackendName() string { return BackendWin32 }

func openNative(name string, opts Options) (Backend, error) {
	if name != BackendWin32 {
		return nil, fmt.Errorf("%w: %q is not available on windows", ErrUnsupportedBackend, name)
	}
	return NewWindowsBackend(opts)
}

func (b *WindowsBackend) Name() string { return BackendWin32 }

// Displays enumerates monitors with EnumDisplayMonitors.
func (b *WindowsBackend) Displays() ([]Display, error) {
	var displays []Display

	cb := windows.NewCallback(func(hMonitor, hdc, lprc, data uintptr) uintptr {
		var mi monitorInfoEx
		mi.Size = uint32(unsafe.Sizeof(mi))
		if r, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi))); r == 0 {
			return 1
		}
		displays = append(displays, Display{
			ID:   len(displays),
			Name: windows.UTF16ToString(mi.Device[:]),
			Bounds: Rect{
				X:      int(mi.Monitor.Left),
				Y:      int(mi.Monitor.Top),
				Width:  int(mi.Monitor.Right - mi.Monitor.Left),
				Height: int(mi.Monitor.Bottom - mi.Monitor.Top),
			},
			Primary: mi.Flags&monitorInfoPrimary != 0,
		})
		return 1
	})

	if r, _, err := procEnumDisplayMonitors.Call(0, 0, cb, 0); r == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", err)
	}

	sort.Slice(displays, func(i, j int) bool { return displays[i].ID < displays[j].ID })

	b.log.Debug("virtual screen metrics", "bounds", virtualScreenMetrics(), "monitors", len(displays))
	return displays, nil
}

func virtualScreenMetrics() Rect {
	x, _, _ := procGetSystemMetrics.Call(smXVirtualScreen)
	y, _, _ := procGetSystemMetrics.Call(smYVirtualScreen)
	w, _, _ := procGetSystemMetrics.Call(smCXVirtualScreen)
	h, _, _ := procGetSystemMetrics.Call(smCYVirtualScreen)
	return Rect{X: int(int32(x)), Y: int(int32(y)), Width: int(int32(w)), Height: int(int32(h))}
}

// OpenSurface must be called from the goroutine that will drive the
// surface, with its OS thread locked.
func (b *WindowsBackend) OpenSurface(bounds Rect) (Surface, error) {
	return newWin32Surface(bounds, b.opts, b.log)
}

func (b *WindowsBackend) Close() error { return nil }

type win32Surface struct {
	hwnd   uintptr
	memDC  uintptr
	bitmap uintptr
	oldObj uintptr
	bits   []byte

	canvas *raster.Canvas
	log    *slog.Logger
	bounds Rect
	vk     uint16

	events chan Event
}

var _ Surface = (*win32Surface)(nil)

func registerClass() error {
	registerOnce.Do(func() {
		inst, _, _ := procGetModuleHandleW.Call(0)
		brush, _, _ := procGetStockObject.Call(blackBrush)
		name, err := windows.UTF16PtrFromString(win32ClassName)
		if err != nil {
			registerErr = err
			return
		}
		wc := wndClassEx{
			WndProc:    windows.NewCallback(wndProc),
			Instance:   inst,
			Background: brush,
			ClassName:  name,
		}
		wc.Size = uint32(unsafe.Sizeof(wc))
		if r, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); r == 0 {
			registerErr = fmt.Errorf("RegisterClassExW failed: %w", err)
		}
	})
	return registerErr
}

func wndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	switch message {
	case wmClose, wmDestroy:
		if v, ok := surfaces.Load(hwnd); ok {
			v.(*win32Surface).post(Event{Kind: EventClosed, Detail: "window closed"})
		}
	}
	r, _, _ := procDefWindowProcW.Call(hwnd, message, wParam, lParam)
	return r
}

func newWin32Surface(bounds Rect, opts Options, log *slog.Logger) (*win32Surface, error) {
	if bounds.Width < 1 {
		bounds.Width = 1
	}
	if bounds.Height < 1 {
		bounds.Height = 1
	}
	if err := registerClass(); err != nil {
		return nil, err
	}

	className, _ := windows.UTF16PtrFromString(win32ClassName)
	title, err := windows.UTF16PtrFromString(opts.Title)
	if err != nil {
		return nil, fmt.Errorf("invalid window title: %w", err)
	}
	inst, _, _ := procGetModuleHandleW.Call(0)

	hwnd, _, err := procCreateWindowExW.Call(
		wsExLayered|wsExToolWindow|wsExNoActivate,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		wsPopup,
		uintptr(bounds.X), uintptr(bounds.Y),
		uintptr(bounds.Width), uintptr(bounds.Height),
		0, 0, inst, 0,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("CreateWindowExW failed: %w", err)
	}

	vk, ok := virtualKey(opts.ExitKey)
	if !ok {
		log.Warn("exit key has no Win32 equivalent, using Escape", "key", opts.ExitKey)
		vk = vkEscape
	}

	s := &win32Surface{
		hwnd:   hwnd,
		canvas: raster.NewCanvas(bounds.Width, bounds.Height),
		log:    log,
		bounds: bounds,
		vk:     vk,
		events: make(chan Event, 4),
	}
	surfaces.Store(hwnd, s)

	if err := s.createBackBuffer(); err != nil {
		s.Close()
		return nil, err
	}

	// A layered window stays invisible until its attributes are set.
	procSetLayeredWindowAttributes.Call(hwnd, 0, 255, lwaAlpha)
	procShowWindow.Call(hwnd, swShowNoActivate)

	log.Debug("surface opened", "hwnd", fmt.Sprintf("0x%x", hwnd), "bounds", bounds)
	return s, nil
}

func (s *win32Surface) createBackBuffer() error {
	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return fmt.Errorf("GetDC failed")
	}
	defer procReleaseDC.Call(0, screenDC)

	s.memDC, _, _ = procCreateCompatibleDC.Call(screenDC)
	if s.memDC == 0 {
		return fmt.Errorf("CreateCompatibleDC failed")
	}

	bmi := bitmapInfo{Header: bitmapInfoHeader{
		Width:       int32(s.bounds.Width),
		Height:      -int32(s.bounds.Height), // top-down
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}}
	bmi.Header.Size = uint32(unsafe.Sizeof(bmi.Header))

	var bits uintptr
	s.bitmap, _, _ = procCreateDIBSection.Call(
		s.memDC,
		uintptr(unsafe.Pointer(&bmi)),
		dibRGBColors,
		uintptr(unsafe.Pointer(&bits)),
		0, 0,
	)
	if s.bitmap == 0 || bits == 0 {
		return fmt.Errorf("CreateDIBSection failed")
	}
	s.bits = unsafe.Slice((*byte)(unsafe.Pointer(bits)), s.bounds.Width*s.bounds.Height*4)

	s.oldObj, _, _ = procSelectObject.Call(s.memDC, s.bitmap)
	return nil
}

func (s *win32Surface) post(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}

func (s *win32Surface) Bounds() Rect { return s.bounds }

func (s *win32Surface) EnableTransparency(key color.RGBA) error {
	r, _, err := procSetLayeredWindowAttributes.Call(s.hwnd, colorRef(key.R, key.G, key.B), 0, lwaColorKey)
	if r == 0 {
		return fmt.Errorf("SetLayeredWindowAttributes failed: %w", err)
	}
	return nil
}

func (s *win32Surface) EnableClickThrough() error {
	style, _, _ := procGetWindowLongW.Call(s.hwnd, gwlExStyle)
	style |= wsExLayered | wsExTransparent
	if r, _, err := procSetWindowLongW.Call(s.hwnd, gwlExStyle, style); r == 0 && err != windows.ERROR_SUCCESS {
		return fmt.Errorf("SetWindowLongW failed: %w", err)
	}
	return nil
}

func (s *win32Surface) PinToBottom() error {
	r, _, err := procSetWindowPos.Call(s.hwnd, hwndBottom, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
	if r == 0 {
		return fmt.Errorf("SetWindowPos(HWND_BOTTOM) failed: %w", err)
	}
	return nil
}

func (s *win32Surface) Clear(c color.RGBA) {
	s.canvas.Clear(c)
}

func (s *win32Surface) DrawGlyph(x, y int, g rune, c color.RGBA) {
	s.canvas.DrawGlyph(x, y, g, c)
}

func (s *win32Surface) Present() error {
	s.canvas.CopyBGRA(s.bits)

	hdc, _, _ := procGetDC.Call(s.hwnd)
	if hdc == 0 {
		return fmt.Errorf("GetDC failed for window 0x%x", s.hwnd)
	}
	r, _, err := procBitBlt.Call(hdc, 0, 0, uintptr(s.bounds.Width), uintptr(s.bounds.Height), s.memDC, 0, 0, srcCopy)
	procReleaseDC.Call(s.hwnd, hdc)
	if r == 0 {
		return fmt.Errorf("BitBlt failed: %w", err)
	}

	s.pump()
	return nil
}

// pump dispatches every queued message for the calling thread.
func (s *win32Surface) pump() {
	var m msg
	for {
		r, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
		if r == 0 {
			return
		}
		if m.Message == wmQuit {
			s.post(Event{Kind: EventClosed, Detail: "WM_QUIT"})
			return
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (s *win32Surface) Events() []Event {
	var out []Event
	// Bit 15: down now. Bit 0: pressed since the previous call.
	if state, _, _ := procGetAsyncKeyState.Call(uintptr(s.vk)); state&0x8001 != 0 {
		out = append(out, Event{Kind: EventExitKey, Detail: "GetAsyncKeyState"})
	}
	for {
		select {
		case ev := <-s.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func (s *win32Surface) Close() error {
	if s.memDC != 0 {
		if s.oldObj != 0 {
			procSelectObject.Call(s.memDC, s.oldObj)
		}
		procDeleteDC.Call(s.memDC)
		s.memDC = 0
	}
	if s.bitmap != 0 {
		procDeleteObject.Call(s.bitmap)
		s.bitmap = 0
	}
	s.bits = nil
	if s.hwnd != 0 {
		procDestroyWindow.Call(s.hwnd)
		surfaces.Delete(s.hwnd)
		s.hwnd = 0
	}
	return nil
}
