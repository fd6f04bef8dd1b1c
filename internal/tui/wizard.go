// Package tui holds the interactive config editor and the styled output of
// the CLI.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskrain/internal/config"
)

// ErrAborted is returned by RunWizard when the user leaves without saving.
var ErrAborted = errors.New("config editor aborted")

// Wizard is a bubbletea model that edits the commonly changed settings of
// a config with a huh form and previews the palette as it changes.
type Wizard struct {
	cfg     *config.Config
	form    *huh.Form
	width   int
	aborted bool

	// Form-bound values (strings for huh, converted on submit)
	fBackend   string
	fCellSize  string
	fFrameRate string
	fExitKey   string
	fKey       string
	fLeading   string
	fNear      string
	fDim       string
}

// NewWizard creates a wizard editing a copy of cfg.
func NewWizard(cfg *config.Config) *Wizard {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	copied := *cfg
	w := &Wizard{
		cfg:        &copied,
		fBackend:   cfg.Backend,
		fCellSize:  strconv.Itoa(cfg.CellSize),
		fFrameRate: strconv.Itoa(cfg.FrameRate),
		fExitKey:   cfg.ExitKey,
		fKey:       cfg.Colors.Key,
		fLeading:   cfg.Colors.Leading,
		fNear:      cfg.Colors.Near,
		fDim:       cfg.Colors.Dim,
	}
	w.form = w.buildForm()
	return w
}

func (w *Wizard) buildForm() *huh.Form {
	backendOpts := []huh.Option[string]{
		huh.NewOption("auto", "auto"),
		huh.NewOption("x11", "x11"),
		huh.NewOption("win32", "win32"),
		huh.NewOption("terminal", "terminal"),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("backend").
				Title("Backend").
				Description("Window system to draw on").
				Options(backendOpts...).
				Value(&w.fBackend),

			huh.NewInput().
				Key("cell_size").
				Title("Cell Size").
				Description("Glyph cell in pixels").
				Validate(validateInt(4, 256)).
				Value(&w.fCellSize),

			huh.NewInput().
				Key("frame_rate").
				Title("Frame Rate").
				Description("Frames per second").
				Validate(validateInt(1, 120)).
				Value(&w.fFrameRate),

			huh.NewInput().
				Key("exit_key").
				Title("Exit Key").
				Description("Key that stops the rain, e.g. Escape or Mod4-q").
				Validate(validateNotEmpty).
				Value(&w.fExitKey),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("colors.key").
				Title("Key Color").
				Description("Pixels of this color are see-through").
				Validate(validateColor).
				Value(&w.fKey),
			huh.NewInput().
				Key("colors.leading").
				Title("Leading Color").
				Validate(validateColor).
				Value(&w.fLeading),
			huh.NewInput().
				Key("colors.near").
				Title("Near Color").
				Validate(validateColor).
				Value(&w.fNear),
			huh.NewInput().
				Key("colors.dim").
				Title("Dim Color").
				Validate(validateColor).
				Value(&w.fDim),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			w.aborted = true
			return w, tea.Quit
		}
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form := w.form.WithWidth(max(msg.Width-4, 40))
		w.form = form
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	switch w.form.State {
	case huh.StateCompleted:
		return w, tea.Quit
	case huh.StateAborted:
		w.aborted = true
		return w, tea.Quit
	}
	return w, cmd
}

// View implements tea.Model.
func (w *Wizard) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("deskrain config")
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("esc to cancel")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		w.form.View(),
		"",
		Preview(config.Colors{Key: w.fKey, Leading: w.fLeading, Near: w.fNear, Dim: w.fDim}),
		footer,
	)
}

// Aborted reports whether the user left the form without completing it.
func (w *Wizard) Aborted() bool { return w.aborted }

// Config converts the form values into a validated config.
func (w *Wizard) Config() (*config.Config, error) {
	cfg := *w.cfg
	cfg.Backend = w.fBackend
	cfg.ExitKey = strings.TrimSpace(w.fExitKey)
	cfg.Colors = config.Colors{
		Key:     strings.TrimSpace(w.fKey),
		Leading: strings.TrimSpace(w.fLeading),
		Near:    strings.TrimSpace(w.fNear),
		Dim:     strings.TrimSpace(w.fDim),
	}

	var err error
	if cfg.CellSize, err = strconv.Atoi(strings.TrimSpace(w.fCellSize)); err != nil {
		return nil, &config.ValidationError{Path: "cell_size", Err: fmt.Errorf("not a number: %q", w.fCellSize)}
	}
	if cfg.FrameRate, err = strconv.Atoi(strings.TrimSpace(w.fFrameRate)); err != nil {
		return nil, &config.ValidationError{Path: "frame_rate", Err: fmt.Errorf("not a number: %q", w.fFrameRate)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RunWizard runs the editor on the terminal and returns the edited config.
func RunWizard(cfg *config.Config) (*config.Config, error) {
	model, err := tea.NewProgram(NewWizard(cfg)).Run()
	if err != nil {
		return nil, fmt.Errorf("config editor failed: %w", err)
	}
	w, ok := model.(*Wizard)
	if !ok || w.Aborted() {
		return nil, ErrAborted
	}
	return w.Config()
}

func validateInt(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func validateNotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validateColor(s string) error {
	_, err := config.ParseColor(s)
	return err
}
