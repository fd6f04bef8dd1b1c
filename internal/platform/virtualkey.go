package platform

import "strings"

const vkEscape = 0x1B

var namedVirtualKeys = map[string]uint16{
	"escape":      vkEscape,
	"pause":       0x13,
	"scroll_lock": 0x91,
	"space":       0x20,
	"return":      0x0D,
	"backspace":   0x08,
	"tab":         0x09,
	"delete":      0x2E,
	"insert":      0x2D,
	"home":        0x24,
	"end":         0x23,
}

// virtualKey maps a single X keysym name ("Escape", "F12", "q") to a Win32
// virtual-key code. Modifier combinations are not supported.
func virtualKey(name string) (uint16, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if strings.Contains(name, "-") {
		return 0, false
	}
	if vk, ok := namedVirtualKeys[name]; ok {
		return vk, true
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return uint16(c - 'a' + 'A'), true
		case c >= '0' && c <= '9':
			return uint16(c), true
		}
	}
	if len(name) >= 2 && name[0] == 'f' {
		n := 0
		for _, c := range name[1:] {
			if c < '0' || c > '9' {
				return 0, false
			}
			n = n*10 + int(c-'0')
		}
		if n >= 1 && n <= 24 {
			return uint16(0x70 + n - 1), true
		}
	}
	return 0, false
}
