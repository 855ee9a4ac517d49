package geometry

// BorderState is the visual state of a view's border.
type BorderState int

const (
	// BorderNone hides the border; the border geometry equals the content box.
	BorderNone BorderState = iota
	// BorderInactive draws the border in the inactive color.
	BorderInactive
	// BorderActive draws the border in the active color.
	BorderActive
)

func (s BorderState) String() string {
	switch s {
	case BorderNone:
		return "none"
	case BorderInactive:
		return "inactive"
	case BorderActive:
		return "active"
	}
	return "unknown"
}

// Border holds the bounding box of a view including its frame and the four
// edge boxes that make up the frame.
type Border struct {
	State    BorderState
	Geometry Box
	Top      Box
	Bottom   Box
	Left     Box
	Right    Box
}

// Refresh recomputes the border boxes around content using the given thickness.
func (b *Border) Refresh(content Box, thickness int) {
	if b.State == BorderNone || thickness <= 0 {
		b.Geometry = content
		b.Top, b.Bottom, b.Left, b.Right = Box{}, Box{}, Box{}, Box{}
		return
	}

	g := content.Outset(thickness)
	b.Geometry = g
	b.Top = Box{X: g.X, Y: g.Y, Width: g.Width, Height: thickness}
	b.Bottom = Box{X: g.X, Y: g.Bottom() - thickness, Width: g.Width, Height: thickness}
	b.Left = Box{X: g.X, Y: g.Y + thickness, Width: thickness, Height: g.Height - 2*thickness}
	b.Right = Box{X: g.Right() - thickness, Y: g.Y + thickness, Width: thickness, Height: g.Height - 2*thickness}
}

// Edges returns the four edge boxes in draw order.
func (b *Border) Edges() [4]Box {
	return [4]Box{b.Top, b.Bottom, b.Left, b.Right}
}
