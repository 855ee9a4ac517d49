package wm

import (
	"fmt"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
)

// OpKind tags a pending geometry change.
type OpKind int

const (
	OpNone OpKind = iota
	OpResize
	OpReset
	OpUnmaximize
	OpFullMaximize
	OpVerticalMaximize
	OpHorizontalMaximize
	OpTile
)

var opNames = [...]string{
	OpNone:               "none",
	OpResize:             "resize",
	OpReset:              "reset",
	OpUnmaximize:         "unmaximize",
	OpFullMaximize:       "full-maximize",
	OpVerticalMaximize:   "vertical-maximize",
	OpHorizontalMaximize: "horizontal-maximize",
	OpTile:               "tile",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("op(%d)", int(k))
}

// Operation is a geometry change issued to a client and committed when the
// client acknowledges it.
type Operation struct {
	Kind     OpKind
	Geometry geometry.Box
	// Serial is the completion token; zero commits immediately.
	Serial uint32
	Tile   *Tile
	// Center warps the cursor to the view after a resize commit.
	Center bool
}

// Completion identifies an in-flight operation awaiting acknowledgement.
type Completion struct {
	View   ViewID
	Serial uint32
}

// queue issues op for v. The view must be clean.
func (s *Server) queue(v *View, op Operation) {
	invariant(!v.IsDirty(), "view %d already has a pending operation", v.ID)

	v.pending = op
	v.set(FlagDirty)

	g := op.Geometry
	if mr, ok := v.surface.(MoveResizer); ok {
		mr.MoveResize(g.X, g.Y, g.Width, g.Height)
		v.pending.Serial = 0
	} else {
		v.pending.Serial = v.surface.Resize(g.Width, g.Height)
	}

	s.logger.Debug("queued operation", "view", v.ID, "op", op.Kind, "serial", v.pending.Serial, "geometry", g)

	if v.pending.Serial == 0 {
		s.commitPendingOperation(v)
		return
	}
	s.completions[Completion{View: v.ID, Serial: v.pending.Serial}] = struct{}{}
}

// queueResize issues a resize through the plain resize primitive.
func (s *Server) queueResize(v *View, op Operation) {
	invariant(!v.IsDirty(), "view %d already has a pending operation", v.ID)

	v.pending = op
	v.set(FlagDirty)
	v.pending.Serial = v.surface.Resize(op.Geometry.Width, op.Geometry.Height)

	s.logger.Debug("queued resize", "view", v.ID, "serial", v.pending.Serial, "geometry", op.Geometry)

	if v.pending.Serial == 0 {
		s.commitPendingOperation(v)
		return
	}
	s.completions[Completion{View: v.ID, Serial: v.pending.Serial}] = struct{}{}
}

// Acknowledge delivers a client's acknowledgement of serial for view id and
// commits the matching pending operation.
func (s *Server) Acknowledge(id ViewID, serial uint32) error {
	key := Completion{View: id, Serial: serial}
	if _, ok := s.completions[key]; !ok {
		return fmt.Errorf("%w: view %d serial %d", ErrUnknownSerial, id, serial)
	}
	delete(s.completions, key)

	v := s.mustView(id)
	if !v.IsDirty() || v.pending.Serial != serial {
		return fmt.Errorf("%w: view %d serial %d superseded", ErrUnknownSerial, id, serial)
	}
	s.commitPendingOperation(v)
	return nil
}

// PendingCompletions lists in-flight operations.
func (s *Server) PendingCompletions() []Completion {
	out := make([]Completion, 0, len(s.completions))
	for c := range s.completions {
		out = append(out, c)
	}
	return out
}

func (s *Server) commitPendingOperation(v *View) {
	invariant(v.IsDirty(), "commit on clean view %d", v.ID)

	op := v.pending
	s.commitOperation(v, &op)
	v.pending = Operation{}
	v.unset(FlagDirty)
}

func (s *Server) commitOperation(v *View, op *Operation) {
	before := v.border.Geometry
	s.logger.Debug("commit operation", "view", v.ID, "op", op.Kind, "geometry", op.Geometry)

	switch op.Kind {
	case OpResize:
		s.commitResize(v, op)
	case OpReset:
		s.commitReset(v, op)
	case OpUnmaximize:
		s.commitUnmaximize(v, op)
	case OpFullMaximize:
		s.commitFullMaximize(v, op)
	case OpVerticalMaximize:
		s.commitVerticalMaximize(v, op)
	case OpHorizontalMaximize:
		s.commitHorizontalMaximize(v, op)
	case OpTile:
		s.commitTile(v, op)
	default:
		invariant(false, "unknown operation %v", op.Kind)
	}

	if !v.IsHidden() {
		v.output.AddDamageBox(before)
		s.damageWhole(v)
	}
}

func (s *Server) commitGeometry(v *View, box geometry.Box) {
	*v.currentGeometry() = box
	v.border.Refresh(box, s.settings.Border)
	if m, ok := v.surface.(Mover); ok {
		m.Move(box.X, box.Y)
	}
}

func (s *Server) raiseIfVisible(v *View) {
	if !v.IsHidden() {
		s.raise(v)
	}
}

func (s *Server) commitResize(v *View, op *Operation) {
	s.raiseIfVisible(v)
	s.commitGeometry(v, op.Geometry)
	if op.Center {
		s.centerCursor(v)
	}
}

func (s *Server) commitReset(v *View, op *Operation) {
	s.freeTile(v)
	v.maximized = nil
	s.restoreBorder(v)
	s.raiseIfVisible(v)
	s.commitGeometry(v, op.Geometry)
	s.centerCursor(v)
}

func (s *Server) commitUnmaximize(v *View, op *Operation) {
	v.maximized = nil
	s.restoreBorder(v)
	s.raiseIfVisible(v)
	s.commitGeometry(v, op.Geometry)
	s.centerCursor(v)
}

func (s *Server) commitFullMaximize(v *View, op *Operation) {
	if v.maximized == nil {
		v.maximized = &MaximizedState{}
	}
	v.maximized.Maximization = MaximizedFull
	v.maximized.Geometry = op.Geometry
	v.border.State = geometry.BorderNone
	s.raiseIfVisible(v)
	s.commitGeometry(v, op.Geometry)
	s.centerCursor(v)
}

func (s *Server) commitVerticalMaximize(v *View, op *Operation) {
	if v.maximized != nil && v.maximized.Maximization == MaximizedHorizontal {
		op.Geometry = v.output.Bounds()
		s.commitFullMaximize(v, op)
		return
	}
	if v.maximized != nil && v.maximized.Maximization == MaximizedFull {
		s.restoreBorder(v)
	}
	if v.maximized == nil {
		v.maximized = &MaximizedState{}
	}
	v.maximized.Maximization = MaximizedVertical
	v.maximized.Geometry = op.Geometry
	s.raiseIfVisible(v)
	s.commitGeometry(v, op.Geometry)
	s.centerCursor(v)
}

func (s *Server) commitHorizontalMaximize(v *View, op *Operation) {
	if v.maximized != nil && v.maximized.Maximization == MaximizedVertical {
		op.Geometry = v.output.Bounds()
		s.commitFullMaximize(v, op)
		return
	}
	if v.maximized != nil && v.maximized.Maximization == MaximizedFull {
		s.restoreBorder(v)
	}
	if v.maximized == nil {
		v.maximized = &MaximizedState{}
	}
	v.maximized.Maximization = MaximizedHorizontal
	v.maximized.Geometry = op.Geometry
	s.raiseIfVisible(v)
	s.commitGeometry(v, op.Geometry)
	s.centerCursor(v)
}

func (s *Server) commitTile(v *View, op *Operation) {
	invariant(op.Tile != nil, "tile operation without tile on view %d", v.ID)

	if v.maximized != nil {
		v.maximized = nil
		s.restoreBorder(v)
	}
	old := v.tile
	v.tile = op.Tile
	if old != nil && old != op.Tile {
		s.releaseTile(old)
	}
	s.commitGeometry(v, op.Geometry)
}

// restoreBorder picks the framed border state for a view leaving a
// borderless state.
func (s *Server) restoreBorder(v *View) {
	switch {
	case v.surface.ClientDecorated():
		v.border.State = geometry.BorderNone
	case s.isFocused(v):
		v.border.State = geometry.BorderActive
	default:
		v.border.State = geometry.BorderInactive
	}
}
