package wm

import (
	"fmt"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
)

func (s *Server) show(v *View) {
	invariant(v.IsHidden(), "showing visible view %d", v.ID)

	v.sheet.workspace.views.pushFront(v.ID)
	v.surface.Show()
	v.unset(FlagHidden)
	s.increaseGroupVisibility(v)
	s.damageWhole(v)
}

func (s *Server) hide(v *View) {
	invariant(!v.IsHidden(), "hiding hidden view %d", v.ID)

	if s.isFocused(v) {
		s.damageIndicator(v)
		s.focusWorkspace(v.sheet.workspace, nil)
	}
	v.sheet.workspace.views.remove(v.ID)
	v.surface.Hide()
	s.decreaseGroupVisibility(v)
	v.set(FlagHidden)
}

// raise reports whether the stacking order changed.
func (s *Server) raise(v *View) bool {
	invariant(!v.IsHidden(), "raising hidden view %d", v.ID)

	if first, ok := v.sheet.workspace.views.first(); ok && first == v.ID {
		return false
	}
	s.moveToTop(v)
	s.placeVisiblyAbove(v)
	return true
}

func (s *Server) lower(v *View) {
	if last, ok := v.sheet.workspace.views.last(); ok && last == v.ID {
		return
	}
	v.sheet.views.toBack(v.ID)
	v.group.views.toBack(v.ID)
	v.output.views.toBack(v.ID)
	v.group.visible.toBack(v.ID)
	s.visibleGroups.toBack(v.group)
	v.sheet.workspace.views.toBack(v.ID)
	s.damageWhole(v)
}

// Show makes a hidden view visible on its workspace.
func (s *Server) Show(id ViewID) error {
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	if !v.IsHidden() {
		return fmt.Errorf("%w: %d", ErrViewNotHidden, id)
	}
	s.show(v)
	return nil
}

// Hide removes a visible view from its workspace.
func (s *Server) Hide(id ViewID) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	s.hide(v)
	s.damageWhole(v)
	return nil
}

// Raise brings a visible view to the top of every list it belongs to.
func (s *Server) Raise(id ViewID) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	if s.raise(v) {
		s.damageWhole(v)
	}
	return nil
}

// RaiseHidden moves a hidden view to the front of its sheet, group and
// output lists so it comes back on top.
func (s *Server) RaiseHidden(id ViewID) error {
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	if !v.IsHidden() {
		return fmt.Errorf("%w: %d", ErrViewNotHidden, id)
	}
	s.moveToTop(v)
	return nil
}

// Lower sends a visible view to the back of every list it belongs to.
func (s *Server) Lower(id ViewID) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	s.lower(v)
	return nil
}

func (s *Server) visibleView(id ViewID) (*View, error) {
	v, err := s.managedView(id)
	if err != nil {
		return nil, err
	}
	if v.IsHidden() {
		return nil, fmt.Errorf("%w: %d", ErrViewHidden, id)
	}
	return v, nil
}

// ===== Focus =====

func (s *Server) isFocused(v *View) bool {
	return v.Managed() && v.sheet.workspace.focus == v.ID
}

// Focused returns the focused view of the current workspace.
func (s *Server) Focused() (*View, bool) {
	if s.workspace == nil || s.workspace.focus == 0 {
		return nil, false
	}
	return s.mustView(s.workspace.focus), true
}

func (s *Server) focus(v *View) {
	invariant(!v.IsHidden(), "focusing hidden view %d", v.ID)
	s.workspace = v.sheet.workspace
	s.focusWorkspace(v.sheet.workspace, v)
}

// focusWorkspace moves ws's focus to v, or clears it when v is nil.
func (s *Server) focusWorkspace(ws *Workspace, v *View) {
	if ws.focus != 0 {
		if v != nil && ws.focus == v.ID {
			return
		}
		old := s.mustView(ws.focus)
		ws.focus = 0
		old.surface.Activate(false)
		if old.border.State != geometry.BorderNone {
			old.border.State = geometry.BorderInactive
		}
		s.damageIndicator(old)
		if !old.IsHidden() {
			s.damageWhole(old)
		}
	}
	if v == nil {
		return
	}
	ws.focus = v.ID
	v.surface.Activate(true)
	if v.border.State != geometry.BorderNone {
		v.border.State = geometry.BorderActive
	}
	s.damageWhole(v)
	s.damageIndicator(v)
}

// Focus gives keyboard focus to a visible view.
func (s *Server) Focus(id ViewID) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	s.focus(v)
	return nil
}

// Unfocus clears focus on the current workspace.
func (s *Server) Unfocus() {
	if s.workspace != nil {
		s.focusWorkspace(s.workspace, nil)
	}
}

// ViewAt returns the front-most visible view whose border box contains the
// global point (x, y).
func (s *Server) ViewAt(x, y int) (*View, bool) {
	o, ok := s.OutputAt(x, y)
	if !ok {
		return nil, false
	}
	lx, ly := x-o.Geometry.X, y-o.Geometry.Y
	for _, id := range o.workspace.views {
		v := s.mustView(id)
		if v.border.Geometry.Contains(lx, ly) {
			return v, true
		}
	}
	return nil, false
}

// OutputAt returns the output containing the global point (x, y).
func (s *Server) OutputAt(x, y int) (*Output, bool) {
	for _, o := range s.outputs {
		if o.Geometry.Contains(x, y) {
			return o, true
		}
	}
	return nil, false
}

// CursorFocus focuses whatever lies under the pointer, switching the current
// workspace to the output under it.
func (s *Server) CursorFocus() {
	x, y := s.cursor.Position()
	if o, ok := s.OutputAt(x, y); ok {
		s.workspace = o.workspace
	}
	if v, ok := s.ViewAt(x, y); ok {
		s.focus(v)
		return
	}
	s.Unfocus()
}

// ===== Cursor =====

func (s *Server) warpToView(v *View, fx, fy func(g int, size int) int) {
	g := v.CurrentGeometry()
	o := v.output.Geometry
	s.cursor.Warp(o.X+fx(g.X, g.Width), o.Y+fy(g.Y, g.Height))
}

func (s *Server) centerCursor(v *View) {
	mid := func(p, size int) int { return p + size/2 }
	s.warpToView(v, mid, mid)
}

// CenterCursor warps the pointer to the center of a view.
func (s *Server) CenterCursor(id ViewID) error {
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	s.centerCursor(v)
	return nil
}

// TopLeftCursor warps the pointer to a view's top-left corner.
func (s *Server) TopLeftCursor(id ViewID) error {
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	start := func(p, _ int) int { return p }
	s.warpToView(v, start, start)
	return nil
}

// BottomRightCursor warps the pointer to a view's bottom-right corner.
func (s *Server) BottomRightCursor(id ViewID) error {
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	end := func(p, size int) int { return p + size }
	s.warpToView(v, end, end)
	return nil
}

// ===== Sheets =====

// SwitchSheet makes sheet nr current on the current workspace. Views of the
// old sheet are hidden unless it is sheet 0; non-iconified views of the new
// sheet are shown.
func (s *Server) SwitchSheet(nr int) error {
	if s.workspace == nil {
		return ErrNoOutput
	}
	ws := s.workspace
	target := ws.Sheet(nr)
	if target == nil {
		return fmt.Errorf("%w: %d", ErrInvalidSheet, nr)
	}
	if target == ws.sheet {
		return nil
	}

	old := ws.sheet
	if !old.Pinned() {
		for _, id := range old.views.clone() {
			v := s.mustView(id)
			if !v.IsHidden() {
				s.hide(v)
				s.damageWhole(v)
			}
		}
	}

	ws.alternate = old
	ws.sheet = target

	if !target.Pinned() {
		// back to front so the sheet's stacking order is kept
		for i := len(target.views) - 1; i >= 0; i-- {
			v := s.mustView(target.views[i])
			if v.IsHidden() && !v.IsIconified() {
				s.show(v)
			}
		}
	}
	ws.output.DamageWhole()

	s.logger.Debug("switched sheet", "output", ws.output.Name, "sheet", nr, "alternate", old.Nr)

	if first, ok := ws.views.first(); ok {
		s.focus(s.mustView(first))
	} else {
		s.focusWorkspace(ws, nil)
	}
	return nil
}

// SwitchToAlternateSheet swaps the current and alternate sheets.
func (s *Server) SwitchToAlternateSheet() error {
	if s.workspace == nil {
		return ErrNoOutput
	}
	return s.SwitchSheet(s.workspace.alternate.Nr)
}

// SwitchToNextInhabitedSheet moves to the next sheet holding views.
func (s *Server) SwitchToNextInhabitedSheet() error {
	if s.workspace == nil {
		return ErrNoOutput
	}
	return s.SwitchSheet(s.workspace.sheet.NextInhabited().Nr)
}

// SwitchToPrevInhabitedSheet moves to the previous sheet holding views.
func (s *Server) SwitchToPrevInhabitedSheet() error {
	if s.workspace == nil {
		return ErrNoOutput
	}
	return s.SwitchSheet(s.workspace.sheet.PrevInhabited().Nr)
}

// ===== Cycling =====

// CycleNextView raises and focuses the back-most visible view.
func (s *Server) CycleNextView() {
	if s.workspace == nil {
		return
	}
	id, ok := s.workspace.views.last()
	if !ok {
		return
	}
	v := s.mustView(id)
	s.raise(v)
	s.damageWhole(v)
	s.focus(v)
	s.centerCursor(v)
}

// CyclePrevView lowers the front-most view and focuses the one below it.
func (s *Server) CyclePrevView() {
	if s.workspace == nil || len(s.workspace.views) < 2 {
		return
	}
	s.lower(s.mustView(s.workspace.views[0]))
	v := s.mustView(s.workspace.views[0])
	s.focus(v)
	s.centerCursor(v)
}

// CycleNextGroup brings the back-most visible group to the front.
func (s *Server) CycleNextGroup() {
	g, ok := s.visibleGroups.last()
	if !ok {
		return
	}
	s.raiseGroup(g)
}

// CyclePrevGroup sends the front-most visible group to the back.
func (s *Server) CyclePrevGroup() {
	if len(s.visibleGroups) < 2 {
		return
	}
	s.lowerGroup(s.visibleGroups[0])
	next := s.visibleGroups[0]
	if id, ok := next.visible.first(); ok {
		v := s.mustView(id)
		s.focus(v)
		s.centerCursor(v)
	}
}

func (s *Server) raiseGroup(g *Group) {
	visible := g.visible.clone()
	for i := len(visible) - 1; i >= 0; i-- {
		v := s.mustView(visible[i])
		s.raise(v)
		s.damageWhole(v)
	}
	if id, ok := g.visible.first(); ok {
		v := s.mustView(id)
		s.focus(v)
		s.centerCursor(v)
	}
}

func (s *Server) lowerGroup(g *Group) {
	for _, id := range g.visible.clone() {
		s.lower(s.mustView(id))
	}
}

func (s *Server) groupOf(id ViewID) (*Group, error) {
	v, err := s.managedView(id)
	if err != nil {
		return nil, err
	}
	return v.group, nil
}

// RaiseGroup raises every visible member of the view's group, keeping their order.
func (s *Server) RaiseGroup(id ViewID) error {
	g, err := s.groupOf(id)
	if err != nil {
		return err
	}
	s.raiseGroup(g)
	return nil
}

// LowerGroup lowers every visible member of the view's group.
func (s *Server) LowerGroup(id ViewID) error {
	g, err := s.groupOf(id)
	if err != nil {
		return err
	}
	s.lowerGroup(g)
	return nil
}

// HideGroup hides every visible member of the view's group.
func (s *Server) HideGroup(id ViewID) error {
	g, err := s.groupOf(id)
	if err != nil {
		return err
	}
	for _, vid := range g.visible.clone() {
		v := s.mustView(vid)
		s.hide(v)
		s.damageWhole(v)
	}
	return nil
}

// ShowGroup shows every hidden member of the view's group that lives on a
// sheet currently on screen.
func (s *Server) ShowGroup(id ViewID) error {
	g, err := s.groupOf(id)
	if err != nil {
		return err
	}
	members := g.views.clone()
	for i := len(members) - 1; i >= 0; i-- {
		v := s.mustView(members[i])
		if v.IsHidden() && !v.sheet.Background() {
			s.show(v)
		}
	}
	return nil
}
