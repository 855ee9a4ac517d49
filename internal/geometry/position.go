package geometry

import (
	"fmt"
	"strings"
)

// Anchor names a placement relative to an area.
type Anchor int

// Placement anchors inside an output's usable area.
const (
	AnchorTopLeft Anchor = iota
	AnchorTopMiddle
	AnchorTopRight
	AnchorCenterLeft
	AnchorCenter
	AnchorCenterRight
	AnchorBottomLeft
	AnchorBottomMiddle
	AnchorBottomRight
)

var anchorNames = map[string]Anchor{
	"top-left":      AnchorTopLeft,
	"top-middle":    AnchorTopMiddle,
	"top-right":     AnchorTopRight,
	"center-left":   AnchorCenterLeft,
	"center":        AnchorCenter,
	"center-right":  AnchorCenterRight,
	"bottom-left":   AnchorBottomLeft,
	"bottom-middle": AnchorBottomMiddle,
	"bottom-right":  AnchorBottomRight,
}

// ParseAnchor resolves an anchor name like "bottom-right".
func ParseAnchor(name string) (Anchor, error) {
	a, ok := anchorNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown anchor %q", name)
	}
	return a, nil
}

func (a Anchor) String() string {
	for name, v := range anchorNames {
		if v == a {
			return name
		}
	}
	return "unknown"
}

// Place returns the top-left corner for a box of size w,h anchored in area.
func (a Anchor) Place(w, h int, area Box) (int, int) {
	left := area.X
	middle := area.X + area.Width/2 - w/2
	right := area.Right() - w
	top := area.Y
	center := area.Y + area.Height/2 - h/2
	bottom := area.Bottom() - h

	switch a {
	case AnchorTopLeft:
		return left, top
	case AnchorTopMiddle:
		return middle, top
	case AnchorTopRight:
		return right, top
	case AnchorCenterLeft:
		return left, center
	case AnchorCenterRight:
		return right, center
	case AnchorBottomLeft:
		return left, bottom
	case AnchorBottomMiddle:
		return middle, bottom
	case AnchorBottomRight:
		return right, bottom
	default:
		return middle, center
	}
}
