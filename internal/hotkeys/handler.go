// Package hotkeys watches for a global key press on X11 without taking the
// key away from other applications.
package hotkeys

import (
	"errors"
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Handler manages passive key grabs on the root window.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	ignore []uint16
	grabs  []grab
}

type grab struct {
	mods     uint16
	keycodes []xproto.Keycode
}

// NewHandler creates a hotkey handler for the root window of xu.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window) *Handler {
	return &Handler{
		xu:     xu,
		root:   root,
		ignore: ignoreMods(xu),
	}
}

// RegisterPassive grabs keySequence (e.g. "Escape", "Mod4-q") on the root
// window and calls callback on every press. The keyboard is grabbed in
// synchronous mode and each press is replayed to the focused client, so the
// key keeps working everywhere else.
func (h *Handler) RegisterPassive(keySequence string, callback func()) error {
	mods, keycodes, err := keybind.ParseString(h.xu, keySequence)
	if err != nil {
		return fmt.Errorf("invalid key sequence %q: %w", keySequence, err)
	}
	if len(keycodes) == 0 {
		return fmt.Errorf("key sequence %q maps to no keycode", keySequence)
	}

	conn := h.xu.Conn()
	var errs []error
	for _, kc := range keycodes {
		for _, extra := range h.ignore {
			err := xproto.GrabKeyChecked(
				conn,
				false, // owner_events
				h.root,
				mods|extra,
				kc,
				xproto.GrabModeAsync, // pointer_mode
				xproto.GrabModeSync,  // keyboard_mode
			).Check()
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) == len(keycodes)*len(h.ignore) {
		return fmt.Errorf("failed to grab %q (already bound by another client?): %w", keySequence, errors.Join(errs...))
	}

	g := grab{mods: mods, keycodes: keycodes}
	h.grabs = append(h.grabs, g)

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		// Release the frozen keyboard first, whatever the key was.
		xproto.AllowEvents(xu.Conn(), xproto.AllowReplayKeyboard, ev.Time)
		if g.matches(ev.Detail, ev.State, h.ignore) {
			callback()
		}
	}).Connect(h.xu, h.root)

	return nil
}

// Close releases every grab made by the handler and detaches its callbacks.
func (h *Handler) Close() {
	conn := h.xu.Conn()
	for _, g := range h.grabs {
		for _, kc := range g.keycodes {
			for _, extra := range h.ignore {
				xproto.UngrabKey(conn, kc, h.root, g.mods|extra)
			}
		}
	}
	h.grabs = nil
	xevent.Detach(h.xu, h.root)
}

func (g grab) matches(keycode xproto.Keycode, state uint16, ignore []uint16) bool {
	found := false
	for _, kc := range g.keycodes {
		if kc == keycode {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	var ignoreAll uint16
	for _, m := range ignore {
		ignoreAll |= m
	}
	// Only the eight modifier bits count; pointer button state is dropped.
	return state&0xff&^ignoreAll == g.mods
}

func ignoreMods(xu *xgbutil.XUtil) []uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	return maskCombinations(base)
}

// maskCombinations returns 0 and every OR of a non-empty subset of base,
// deduplicated and sorted.
func maskCombinations(base []uint16) []uint16 {
	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	out := make([]uint16, 0, len(unique))
	for mask := range unique {
		out = append(out, mask)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
