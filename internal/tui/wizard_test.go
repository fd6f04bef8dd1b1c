package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/deskrain/internal/config"
)

func TestWizard_ConfigKeepsValuesByDefault(t *testing.T) {
	orig := config.DefaultConfig()
	orig.WatchdogInterval *= 2

	got, err := NewWizard(orig).Config()
	require.NoError(t, err)
	assert.Equal(t, *orig, *got)
}

func TestWizard_ConfigConvertsFields(t *testing.T) {
	w := NewWizard(nil)
	w.fBackend = "terminal"
	w.fCellSize = " 24 "
	w.fFrameRate = "30"
	w.fLeading = "#00ff00"

	got, err := w.Config()
	require.NoError(t, err)
	assert.Equal(t, "terminal", got.Backend)
	assert.Equal(t, 24, got.CellSize)
	assert.Equal(t, 30, got.FrameRate)
	assert.Equal(t, "#00ff00", got.Colors.Leading)
}

func TestWizard_ConfigRejectsBadInput(t *testing.T) {
	w := NewWizard(nil)
	w.fCellSize = "big"

	_, err := w.Config()
	var verr *config.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "cell_size", verr.Path)

	w = NewWizard(nil)
	w.fNear = "nope"
	_, err = w.Config()
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "colors.near", verr.Path)
}

func TestWizard_EscapeAborts(t *testing.T) {
	w := NewWizard(nil)
	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, w.Aborted())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestValidators(t *testing.T) {
	v := validateInt(1, 10)
	assert.NoError(t, v("5"))
	assert.Error(t, v("0"))
	assert.Error(t, v("x"))

	assert.NoError(t, validateNotEmpty("Escape"))
	assert.Error(t, validateNotEmpty("  "))

	assert.NoError(t, validateColor("#123456"))
	assert.Error(t, validateColor("red"))
}

func TestPreview_HasOneRowPerGlyph(t *testing.T) {
	out := Preview(config.DefaultConfig().Colors)
	assert.Len(t, strings.Split(out, "\n"), len(previewColumns[0]))
	for _, col := range previewColumns {
		assert.Contains(t, out, string(col[len(col)-1]))
	}
}

func TestTable_RendersHeadersAndRows(t *testing.T) {
	out := Table([]string{"ID", "NAME"}, [][]string{{"0", "DP-1"}, {"1", "HDMI-1"}})
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "HDMI-1")
}
