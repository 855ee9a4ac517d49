package wm

// The group visibility cache (Group.visible and Server.visibleGroups) is
// only ever touched through increaseGroupVisibility, decreaseGroupVisibility
// and detachFromGroup. A group is in visibleGroups iff its visible list is
// non-empty.

func (s *Server) increaseGroupVisibility(v *View) {
	invariant(!v.IsHidden(), "increasing visibility of hidden view %d", v.ID)
	invariant(!v.group.visible.contains(v.ID), "view %d already visible in group %s", v.ID, v.group.Name)

	g := v.group
	if len(g.visible) == 0 {
		s.visibleGroups.pushFront(g)
	}
	g.visible.pushFront(v.ID)
}

func (s *Server) decreaseGroupVisibility(v *View) {
	g := v.group
	g.visible.remove(v.ID)
	if len(g.visible) == 0 {
		s.visibleGroups.remove(g)
	}
}

// detachFromGroup drops v from its group's member list, destroying a user
// group that became empty.
func (s *Server) detachFromGroup(v *View) {
	g := v.group
	g.views.remove(v.ID)
	if len(g.views) == 0 && !g.IsSheetGroup() {
		s.destroyGroup(g)
	}
}

func (s *Server) removeFromGroup(v *View) {
	invariant(!v.IsHidden(), "removing hidden view %d from group", v.ID)
	invariant(!v.group.IsSheetGroup(), "view %d is in a sheet group", v.ID)

	s.decreaseGroupVisibility(v)
	s.detachFromGroup(v)
}

func (s *Server) removeFromSheetGroup(v *View) {
	invariant(v.group.IsSheetGroup(), "view %d is not in a sheet group", v.ID)

	s.decreaseGroupVisibility(v)
	v.group.views.remove(v.ID)
	v.sheet.views.remove(v.ID)
}

// moveToTop brings v to the front of its sheet, group and output lists.
func (s *Server) moveToTop(v *View) {
	v.sheet.views.toFront(v.ID)
	v.group.views.toFront(v.ID)
	v.output.views.toFront(v.ID)
}

// setSheet moves v's sheet membership to the front of sh.
func (s *Server) setSheet(v *View, sh *Sheet) {
	v.sheet.views.remove(v.ID)
	v.sheet = sh
	sh.views.pushFront(v.ID)
}

// setOutput moves v's output membership to the front of o.
func (s *Server) setOutput(v *View, o *Output) {
	if v.output == o {
		return
	}
	v.output.views.remove(v.ID)
	v.output = o
	o.views.pushFront(v.ID)
}

// placeVisiblyAbove brings v to the front of the visible lists.
func (s *Server) placeVisiblyAbove(v *View) {
	v.group.visible.toFront(v.ID)
	s.visibleGroups.toFront(v.group)
	v.sheet.workspace.views.toFront(v.ID)
}
