package platform

import (
	"fmt"
)

// Union returns the smallest rectangle containing every non-empty rect.
// ok is false when there is nothing to cover.
func Union(rects []Rect) (Rect, bool) {
	var (
		minX, minY, maxX, maxY int
		found                  bool
	)

	for _, rect := range rects {
		if rect.Empty() {
			continue
		}
		if !found {
			minX, minY = rect.X, rect.Y
			maxX, maxY = rect.X+rect.Width, rect.Y+rect.Height
			found = true
			continue
		}
		if rect.X < minX {
			minX = rect.X
		}
		if rect.Y < minY {
			minY = rect.Y
		}
		if rect.X+rect.Width > maxX {
			maxX = rect.X + rect.Width
		}
		if rect.Y+rect.Height > maxY {
			maxY = rect.Y + rect.Height
		}
	}

	if !found {
		return Rect{}, false
	}
	return Rect{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}, true
}

// ResolveVirtualDesktop returns the bounding box of all displays the backend
// reports. Desktops that are not rectangular are covered by their bounding
// rectangle; the uncovered corners are simply off-screen.
func ResolveVirtualDesktop(b Backend) (Rect, error) {
	displays, err := b.Displays()
	if err != nil {
		return Rect{}, fmt.Errorf("failed to query displays: %w", err)
	}

	rects := make([]Rect, 0, len(displays))
	for _, d := range displays {
		rects = append(rects, d.Bounds)
	}

	bounds, ok := Union(rects)
	if !ok {
		return Rect{}, ErrNoDisplays
	}
	return bounds, nil
}
