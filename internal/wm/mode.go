package wm

import (
	"fmt"
	"strconv"
)

// Mode is the active interaction mode. Key decoding lives in the shell; the
// core only tracks mode state and answers what the overlay should show.
type Mode int

const (
	ModeNormal Mode = iota
	ModeGroupAssign
	ModeInputGrab
	ModeLock
	ModeMarkAssign
	ModeMarkSelect
	ModeMove
	ModeResize
	ModeSheetAssign
	ModeDnd
)

var modeNames = [...]string{
	ModeNormal:      "normal",
	ModeGroupAssign: "group-assign",
	ModeInputGrab:   "input-grab",
	ModeLock:        "lock",
	ModeMarkAssign:  "mark-assign",
	ModeMarkSelect:  "mark-select",
	ModeMove:        "move",
	ModeResize:      "resize",
	ModeSheetAssign: "sheet-assign",
	ModeDnd:         "dnd",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode resolves a mode by its name.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", name)
}

// needsTarget reports whether the mode acts on the focused view.
func (m Mode) needsTarget() bool {
	switch m {
	case ModeGroupAssign, ModeMarkAssign, ModeMove, ModeResize, ModeSheetAssign:
		return true
	}
	return false
}

// ModeState is the state shared by the interaction modes.
type ModeState struct {
	Mode   Mode
	Target ViewID
	Input  InputBuffer
	// Sheet is the sheet chosen in sheet-assign mode.
	Sheet *Sheet
	// Mark is the mark chosen in mark-assign mode.
	Mark rune
	// SwitchOnSelect makes mark-select switch sheets.
	SwitchOnSelect bool
}

// Mode returns the current mode state.
func (s *Server) Mode() ModeState { return s.mode }

// EnterMode switches to m. Modes acting on a view take the focused one and
// fail with ErrViewNotFound when nothing is focused.
func (s *Server) EnterMode(m Mode) error {
	st := ModeState{Mode: m}
	if m.needsTarget() {
		v, ok := s.Focused()
		if !ok {
			return fmt.Errorf("%w: %v needs a focused view", ErrViewNotFound, m)
		}
		st.Target = v.ID
		st.Sheet = v.sheet
		switch m {
		case ModeGroupAssign:
			if !v.group.IsSheetGroup() {
				st.Input.Replace(v.group.Name)
			}
		case ModeMove:
			s.TopLeftCursor(v.ID)
		case ModeResize:
			s.BottomRightCursor(v.ID)
		}
	}
	s.mode = st
	s.damageOutputs()
	s.logger.Debug("mode entered", "mode", m, "target", st.Target)
	return nil
}

// ExitMode returns to normal mode, re-centering the cursor on the view a
// pointer mode was acting on.
func (s *Server) ExitMode() {
	prev := s.mode
	s.mode = ModeState{}
	if prev.Mode == ModeMove || prev.Mode == ModeResize {
		if v, err := s.visibleView(prev.Target); err == nil {
			s.centerCursor(v)
		}
	}
	s.damageOutputs()
}

func (s *Server) damageOutputs() {
	for _, o := range s.outputs {
		o.DamageWhole()
	}
}

func (s *Server) inMode(m Mode) bool { return s.mode.Mode == m }

// ===== Move and resize =====

// PointerMotion warps the cursor and lets move and resize modes follow it.
func (s *Server) PointerMotion(x, y int) {
	s.cursor.Warp(x, y)
	switch s.mode.Mode {
	case ModeMove:
		v, err := s.visibleView(s.mode.Target)
		if err != nil {
			return
		}
		o := v.output.Geometry
		s.moveView(v, x-o.X, y-o.Y)
	case ModeResize:
		v, err := s.visibleView(s.mode.Target)
		if err != nil || v.maximized != nil || v.IsDirty() {
			return
		}
		o := v.output.Geometry
		g := v.CurrentGeometry()
		s.resize(v, x-o.X-g.X, y-o.Y-g.Y, false)
	}
}

// ===== Group assign =====

// GroupAssignInput types r into the group name.
func (s *Server) GroupAssignInput(r rune) {
	if s.inMode(ModeGroupAssign) && s.mode.Input.Add(r) {
		s.damageModeTarget()
	}
}

// GroupAssignErase deletes the last typed rune.
func (s *Server) GroupAssignErase() {
	if s.inMode(ModeGroupAssign) {
		s.mode.Input.Remove()
		s.damageModeTarget()
	}
}

// GroupAssignConflict reports whether the typed name collides with a sheet
// number.
func (s *Server) GroupAssignConflict() bool {
	if !s.inMode(ModeGroupAssign) {
		return false
	}
	_, err := strconv.Atoi(s.mode.Input.String())
	return err == nil
}

// GroupAssignConfirm groups the target under the typed name. An empty name
// moves it back to its sheet group.
func (s *Server) GroupAssignConfirm() error {
	if !s.inMode(ModeGroupAssign) {
		return nil
	}
	target, name := s.mode.Target, s.mode.Input.String()
	if s.GroupAssignConflict() {
		return fmt.Errorf("%w: %q names a sheet", ErrInvalidGroup, name)
	}
	s.ExitMode()
	if name == "" {
		return s.Ungroup(target)
	}
	return s.Group(target, name)
}

// ===== Mark assign and select =====

// MarkAssignSelect chooses the mark to assign.
func (s *Server) MarkAssignSelect(r rune) error {
	if !s.inMode(ModeMarkAssign) {
		return nil
	}
	if !ValidMark(r) {
		return fmt.Errorf("%w: %q", ErrInvalidMark, r)
	}
	s.mode.Mark = r
	s.damageModeTarget()
	return nil
}

// MarkAssignConflict reports whether the chosen mark belongs to another view.
func (s *Server) MarkAssignConflict() bool {
	if !s.inMode(ModeMarkAssign) || s.mode.Mark == 0 {
		return false
	}
	owner, ok := s.MarkedView(s.mode.Mark)
	return ok && owner != s.mode.Target
}

// MarkAssignConfirm binds the chosen mark to the target view.
func (s *Server) MarkAssignConfirm() error {
	if !s.inMode(ModeMarkAssign) {
		return nil
	}
	target, mark := s.mode.Target, s.mode.Mark
	s.ExitMode()
	if mark == 0 {
		return nil
	}
	return s.SetMark(target, mark)
}

// MarkSelect shows (or switches to) the view bound to r and leaves
// mark-select mode.
func (s *Server) MarkSelect(r rune) error {
	if !s.inMode(ModeMarkSelect) {
		return nil
	}
	switchSheet := s.mode.SwitchOnSelect
	s.ExitMode()
	if switchSheet {
		return s.SwitchToMark(r)
	}
	return s.ShowMark(r)
}

// SetSwitchOnSelect makes the current mark-select switch sheets.
func (s *Server) SetSwitchOnSelect(on bool) {
	if s.inMode(ModeMarkSelect) {
		s.mode.SwitchOnSelect = on
	}
}

// ===== Sheet assign =====

// SheetAssignSelect picks sheet nr on the workspace currently chosen.
func (s *Server) SheetAssignSelect(nr int) error {
	if !s.inMode(ModeSheetAssign) {
		return nil
	}
	sheet := s.mode.Sheet.workspace.Sheet(nr)
	if sheet == nil {
		return fmt.Errorf("%w: %d", ErrInvalidSheet, nr)
	}
	s.mode.Sheet = sheet
	s.damageModeTarget()
	return nil
}

// SheetAssignCycle moves the choice to the same-numbered sheet of the next
// (or previous) output.
func (s *Server) SheetAssignCycle(forward bool) {
	if !s.inMode(ModeSheetAssign) || len(s.outputs) == 0 {
		return
	}
	cur := s.mode.Sheet
	i := 0
	for j, o := range s.outputs {
		if o == cur.workspace.output {
			i = j
		}
	}
	n := len(s.outputs)
	if forward {
		i = (i + 1) % n
	} else {
		i = (i - 1 + n) % n
	}
	s.mode.Sheet = s.outputs[i].workspace.sheets[cur.Nr]
	s.damageModeTarget()
}

// SheetAssignConfirm pins the target to the chosen sheet.
func (s *Server) SheetAssignConfirm() error {
	if !s.inMode(ModeSheetAssign) {
		return nil
	}
	target, sheet := s.mode.Target, s.mode.Sheet
	s.ExitMode()
	v, err := s.visibleView(target)
	if err != nil {
		return err
	}
	s.pinToSheet(v, sheet)
	return nil
}

func (s *Server) damageModeTarget() {
	if v, err := s.View(s.mode.Target); err == nil && v.Managed() {
		s.damageIndicator(v)
	}
}
