package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVirtualKey(t *testing.T) {
	tests := []struct {
		name string
		want uint16
		ok   bool
	}{
		{"Escape", vkEscape, true},
		{" escape ", vkEscape, true},
		{"Pause", 0x13, true},
		{"q", 'Q', true},
		{"7", '7', true},
		{"F1", 0x70, true},
		{"F12", 0x7B, true},
		{"F25", 0, false},
		{"Fx", 0, false},
		{"Mod4-q", 0, false},
		{"", 0, false},
		{"Hyper_L", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := virtualKey(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
