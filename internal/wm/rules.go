package wm

import "github.com/Gaurav-Gosain/sheetwm/internal/geometry"

// PositionKind selects how a rule places a new view.
type PositionKind int

const (
	// PositionAuto places the view at the cursor, kept inside the output.
	PositionAuto PositionKind = iota
	PositionAbsolute
	PositionRelative
)

// Position is a rule's placement request.
type Position struct {
	Kind   PositionKind
	X, Y   int
	Anchor geometry.Anchor
}

// Rule configures views of one application at manage time.
type Rule struct {
	// Group names the user group; empty means the application id.
	Group string
	// Sheet is the target sheet number, or -1 for the current sheet.
	Sheet     int
	Mark      rune
	Position  Position
	Focus     bool
	Invisible bool
	Floating  bool
	Public    bool
}

// DefaultRule is applied to applications without a rule.
func DefaultRule() Rule {
	return Rule{Sheet: -1, Focus: true}
}

func (s *Server) resolveSheet(r Rule) *Sheet {
	if sh := s.workspace.Sheet(r.Sheet); sh != nil {
		return sh
	}
	return s.workspace.sheet
}

func (s *Server) resolveGroup(r Rule, appID string, sheet *Sheet) (*Group, error) {
	if r.Group != "" {
		return s.findOrCreateGroup(r.Group)
	}
	if !validGroupName(appID) {
		return sheet.group, nil
	}
	return s.findOrCreateGroup(appID)
}

// resolvePosition returns the content origin for v under rule r.
func (s *Server) resolvePosition(r Rule, v *View) (int, int) {
	b := s.settings.Border
	w := v.geometry.Width + 2*b
	h := v.geometry.Height + 2*b
	area := v.output.UsableArea()

	switch r.Position.Kind {
	case PositionAbsolute:
		return r.Position.X, r.Position.Y
	case PositionRelative:
		x, y := r.Position.Anchor.Place(w, h, area)
		return x + b, y + b
	}

	cx, cy := s.cursor.Position()
	x := cx - v.output.Geometry.X
	y := cy - v.output.Geometry.Y
	if x+w > area.Right() {
		x = area.Right() - w
	}
	if y+h > area.Bottom() {
		y = area.Bottom() - h
	}
	return max(x, area.X) + b, max(y, area.Y) + b
}
