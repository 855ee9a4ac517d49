// Package geometry provides the rectangle math shared by the window manager,
// the renderer and the damage tracker.
package geometry

import (
	"fmt"

	uv "github.com/charmbracelet/ultraviolet"
)

// Box is an axis-aligned rectangle in output-local logical units.
type Box struct {
	X      int `json:"x" yaml:"x" toml:"x"`
	Y      int `json:"y" yaml:"y" toml:"y"`
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// NewBox returns a box at x,y with the given size.
func NewBox(x, y, width, height int) Box {
	return Box{X: x, Y: y, Width: width, Height: height}
}

// FromRect converts an ultraviolet rectangle into a box.
func FromRect(r uv.Rectangle) Box {
	return Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect converts the box into an ultraviolet rectangle.
func (b Box) Rect() uv.Rectangle {
	return uv.Rect(b.X, b.Y, b.Width, b.Height)
}

// Empty reports whether the box covers no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Right returns the first column past the box.
func (b Box) Right() int { return b.X + b.Width }

// Bottom returns the first row past the box.
func (b Box) Bottom() int { return b.Y + b.Height }

// Contains reports whether the point lies inside the box.
func (b Box) Contains(x, y int) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
}

// Center returns the center point of the box.
func (b Box) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Translate returns the box moved by dx,dy.
func (b Box) Translate(dx, dy int) Box {
	b.X += dx
	b.Y += dy
	return b
}

// Inset shrinks the box by n on every side. The size never goes negative.
func (b Box) Inset(n int) Box {
	return Box{
		X:      b.X + n,
		Y:      b.Y + n,
		Width:  max(b.Width-2*n, 0),
		Height: max(b.Height-2*n, 0),
	}
}

// Outset grows the box by n on every side.
func (b Box) Outset(n int) Box {
	return Box{X: b.X - n, Y: b.Y - n, Width: b.Width + 2*n, Height: b.Height + 2*n}
}

// Intersect returns the overlap of two boxes, or the zero box.
func (b Box) Intersect(o Box) Box {
	r := b.Rect().Intersect(o.Rect())
	if r.Empty() {
		return Box{}
	}
	return FromRect(r)
}

// Overlaps reports whether the boxes share any area.
func (b Box) Overlaps(o Box) bool {
	return !b.Intersect(o).Empty()
}

// WithSize returns b resized, keeping its origin.
func (b Box) WithSize(width, height int) Box {
	b.Width, b.Height = width, height
	return b
}

// SameSize reports whether both boxes have identical dimensions.
func (b Box) SameSize(o Box) bool {
	return b.Width == o.Width && b.Height == o.Height
}

func (b Box) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", b.Width, b.Height, b.X, b.Y)
}
