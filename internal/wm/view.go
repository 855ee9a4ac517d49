package wm

import (
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/google/uuid"
)

// ViewID is the stable arena index of a view. Zero is never a valid view.
type ViewID uint32

// Flags is the bit set describing a view's state.
type Flags uint8

const (
	FlagHidden Flags = 1 << iota
	FlagDirty
	FlagFloating
	FlagIconified
	FlagPublic
)

// Maximization selects which axes a maximized state covers.
type Maximization int

const (
	MaximizedFull Maximization = iota + 1
	MaximizedVertical
	MaximizedHorizontal
)

func (m Maximization) String() string {
	switch m {
	case MaximizedFull:
		return "full"
	case MaximizedVertical:
		return "vertical"
	case MaximizedHorizontal:
		return "horizontal"
	}
	return "none"
}

// MaximizedState overrides a view's geometry while it is maximized.
type MaximizedState struct {
	Maximization Maximization
	Geometry     geometry.Box
}

// View is a managed client window.
type View struct {
	ID     ViewID
	Handle uuid.UUID
	AppID  string

	surface  Surface
	geometry geometry.Box
	border   geometry.Border
	flags    Flags
	title    string
	mark     rune

	maximized *MaximizedState
	tile      *Tile
	pending   Operation

	sheet  *Sheet
	group  *Group
	output *Output
}

func (v *View) has(f Flags) bool { return v.flags&f != 0 }
func (v *View) set(f Flags)      { v.flags |= f }
func (v *View) unset(f Flags)    { v.flags &^= f }

// IsHidden reports whether the view is off screen.
func (v *View) IsHidden() bool { return v.has(FlagHidden) }

// IsDirty reports whether an operation is in flight.
func (v *View) IsDirty() bool { return v.has(FlagDirty) }

// IsFloating reports whether the view is exempt from tiling.
func (v *View) IsFloating() bool { return v.has(FlagFloating) }

// IsIconified reports whether the view was iconified by the user.
func (v *View) IsIconified() bool { return v.has(FlagIconified) }

// IsPublic reports whether the view was marked public by a rule.
func (v *View) IsPublic() bool { return v.has(FlagPublic) }

// IsTiled reports whether the view owns a tile.
func (v *View) IsTiled() bool { return v.tile != nil }

// IsMaximized reports whether any maximized state is present.
func (v *View) IsMaximized() bool { return v.maximized != nil }

// Maximized returns the maximized state or nil.
func (v *View) Maximized() *MaximizedState { return v.maximized }

// Tile returns the committed tile or nil.
func (v *View) Tile() *Tile { return v.tile }

// Pending returns the queued operation and whether one is in flight.
func (v *View) Pending() (Operation, bool) { return v.pending, v.IsDirty() }

// Managed reports whether the view has been attached to a sheet and group.
func (v *View) Managed() bool { return v.sheet != nil }

// Title returns the client title.
func (v *View) Title() string { return v.title }

// Mark returns the assigned mark or zero.
func (v *View) Mark() rune { return v.mark }

// Sheet returns the owning sheet.
func (v *View) Sheet() *Sheet { return v.sheet }

// Group returns the owning group.
func (v *View) Group() *Group { return v.group }

// Output returns the owning output.
func (v *View) Output() *Output { return v.output }

// Surface returns the client surface.
func (v *View) Surface() Surface { return v.surface }

// BorderState returns the visual border state.
func (v *View) BorderState() geometry.BorderState { return v.border.State }

// Border returns the border boxes.
func (v *View) Border() geometry.Border { return v.border }

// BaseGeometry returns the floating geometry, ignoring tiles and maximization.
func (v *View) BaseGeometry() geometry.Box { return v.geometry }

// CurrentGeometry returns the geometry in effect: the maximized geometry,
// else the tile's view geometry, else the floating geometry.
func (v *View) CurrentGeometry() geometry.Box { return *v.currentGeometry() }

// BorderGeometry returns the bounding box including the border.
func (v *View) BorderGeometry() geometry.Box { return v.border.Geometry }

func (v *View) currentGeometry() *geometry.Box {
	if v.maximized != nil {
		return &v.maximized.Geometry
	}
	return v.unmaximizedGeometry()
}

func (v *View) unmaximizedGeometry() *geometry.Box {
	if v.tile != nil {
		return &v.tile.ViewGeometry
	}
	return &v.geometry
}

// ForEachSurface visits the view's drawable surfaces.
func (v *View) ForEachSurface(fn func(SurfaceNode)) {
	v.surface.ForEachSurface(fn)
}
