package wm

import "fmt"

// MarkCount is the number of marks, a through z.
const MarkCount = 26

// ValidMark reports whether r names a mark.
func ValidMark(r rune) bool { return r >= 'a' && r <= 'z' }

func markIndex(r rune) int { return int(r - 'a') }

// MarkedView returns the view bound to mark r.
func (s *Server) MarkedView(r rune) (ViewID, bool) {
	if !ValidMark(r) {
		return 0, false
	}
	id := s.marks[markIndex(r)]
	return id, id != 0
}

// SetMark binds mark r to a view. A previous owner of r loses it, and the
// view gives up any other mark it held.
func (s *Server) SetMark(id ViewID, r rune) error {
	if !ValidMark(r) {
		return fmt.Errorf("%w: %q", ErrInvalidMark, r)
	}
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	idx := markIndex(r)
	if owner := s.marks[idx]; owner != 0 && owner != id {
		prev := s.mustView(owner)
		prev.mark = 0
		if !prev.IsHidden() {
			s.damageIndicator(prev)
		}
	}
	if v.mark != 0 && v.mark != r {
		s.marks[markIndex(v.mark)] = 0
	}
	s.marks[idx] = id
	v.mark = r
	s.logger.Debug("mark set", "view", id, "mark", string(r))
	if s.isFocused(v) {
		s.damageIndicator(v)
	}
	return nil
}

// ClearMark releases the view's mark.
func (s *Server) ClearMark(id ViewID) error {
	v, err := s.View(id)
	if err != nil {
		return err
	}
	if v.mark != 0 {
		s.marks[markIndex(v.mark)] = 0
		v.mark = 0
	}
	return nil
}

func (s *Server) markTarget(r rune) (*View, error) {
	id, ok := s.MarkedView(r)
	if !ok {
		return nil, fmt.Errorf("%w: %q unbound", ErrInvalidMark, r)
	}
	return s.mustView(id), nil
}

// relocateHidden moves a hidden view onto sheet without showing it.
func (s *Server) relocateHidden(v *View, sheet *Sheet) {
	invariant(v.IsHidden(), "relocating visible view %d", v.ID)
	if v.group.IsSheetGroup() {
		v.group.views.remove(v.ID)
		v.group = sheet.group
		v.group.views.pushFront(v.ID)
	}
	s.setSheet(v, sheet)
	s.setOutput(v, sheet.workspace.output)
}

func (s *Server) present(v *View) {
	if v.IsHidden() {
		if v.sheet.Background() {
			s.relocateHidden(v, v.sheet.workspace.sheet)
		}
		v.unset(FlagIconified)
		s.show(v)
	}
	s.raise(v)
	s.damageWhole(v)
	s.focus(v)
	s.centerCursor(v)
}

// ShowMark brings the marked view forward on the current sheet, showing it
// first when hidden.
func (s *Server) ShowMark(r rune) error {
	v, err := s.markTarget(r)
	if err != nil {
		return err
	}
	s.present(v)
	return nil
}

// SwitchToMark switches to the marked view's sheet and focuses it.
func (s *Server) SwitchToMark(r rune) error {
	v, err := s.markTarget(r)
	if err != nil {
		return err
	}
	ws := v.sheet.workspace
	s.workspace = ws
	if v.sheet.Background() {
		if err := s.SwitchSheet(v.sheet.Nr); err != nil {
			return err
		}
	}
	s.present(v)
	return nil
}
