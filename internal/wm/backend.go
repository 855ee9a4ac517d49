package wm

import (
	"time"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	uv "github.com/charmbracelet/ultraviolet"
)

// Surface is the client side of a view as seen by the placement engine.
type Surface interface {
	// Resize asks the client for new buffer dimensions. A zero serial means
	// the change was applied synchronously.
	Resize(width, height int) uint32
	// Constraints reports the client's size bounds. A zero maximum is unbounded.
	Constraints() (minWidth, minHeight, maxWidth, maxHeight int)
	Show()
	Hide()
	Activate(active bool)
	// ForEachSurface visits the drawable surfaces of the view, main surface first.
	ForEachSurface(fn func(SurfaceNode))
	// ClientDecorated reports whether the client draws its own decorations.
	ClientDecorated() bool
}

// MoveResizer is implemented by surfaces that apply position and size
// atomically. When present it replaces Resize and always completes
// synchronously.
type MoveResizer interface {
	MoveResize(x, y, width, height int)
}

// Mover is implemented by surfaces that need to learn their position.
type Mover interface {
	Move(x, y int)
}

// FrameNotifier is implemented by surfaces that want frame-done callbacks.
type FrameNotifier interface {
	FrameDone(now time.Time)
}

// SurfaceNode describes one drawable surface of a view. X and Y are relative
// to the view's content origin.
type SurfaceNode struct {
	X, Y          int
	Width, Height int
	Main          bool
	// Damage is the client-reported damage in surface-local coordinates.
	Damage geometry.Region
	// Content is opaque to the core and handed to the render backend.
	Content any
}

// Box returns the node's box in output space for a view whose content box is origin.
func (n SurfaceNode) Box(origin geometry.Box) geometry.Box {
	return geometry.Box{X: origin.X + n.X, Y: origin.Y + n.Y, Width: n.Width, Height: n.Height}
}

// Cursor is the pointer primitive. Coordinates are global layout units.
type Cursor interface {
	Warp(x, y int)
	Position() (x, y int)
}

// DamageListener receives damage as it is added to an output.
type DamageListener interface {
	AddDamage(o *Output, rect uv.Rectangle)
	DamageWhole(o *Output)
}

// PointerCursor is an in-memory Cursor.
type PointerCursor struct {
	X, Y int
}

// Warp moves the pointer.
func (c *PointerCursor) Warp(x, y int) {
	c.X, c.Y = x, y
}

// Position returns the pointer location.
func (c *PointerCursor) Position() (int, int) {
	return c.X, c.Y
}
