package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskrain/internal/platform"
	"github.com/1broseidon/deskrain/internal/tui"
)

var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List displays and the virtual desktop they span",
	Args:  cobra.NoArgs,
	RunE:  runDisplays,
}

func init() {
	rootCmd.AddCommand(displaysCmd)
}

func runDisplays(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	backend, err := platform.Open(cfg.Backend, platformOptions(cfg))
	if err != nil {
		return err
	}
	displays, err := backend.Displays()
	// Restore the terminal before printing.
	backend.Close()
	if err != nil {
		return fmt.Errorf("failed to query displays: %w", err)
	}

	rects := make([]platform.Rect, 0, len(displays))
	rows := make([][]string, 0, len(displays))
	for _, d := range displays {
		primary := ""
		if d.Primary {
			primary = "yes"
		}
		rows = append(rows, []string{strconv.Itoa(d.ID), d.Name, formatRect(d.Bounds), primary})
		rects = append(rects, d.Bounds)
	}
	fmt.Println(tui.Table([]string{"ID", "NAME", "GEOMETRY", "PRIMARY"}, rows))

	union, ok := platform.Union(rects)
	if !ok {
		return platform.ErrNoDisplays
	}
	fmt.Printf("\nVirtual desktop (%s): %s\n", backend.Name(), formatRect(union))
	return nil
}

func formatRect(r platform.Rect) string {
	return fmt.Sprintf("%dx%d%+d%+d", r.Width, r.Height, r.X, r.Y)
}
