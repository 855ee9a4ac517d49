package wm

import "fmt"

// groupKind distinguishes a sheet's implicit group from a user group.
type groupKind int

const (
	kindSheet groupKind = iota
	kindUser
)

func (k groupKind) String() string {
	if k == kindSheet {
		return "sheet"
	}
	return "user"
}

func kindOf(g *Group) groupKind {
	if g.IsSheetGroup() {
		return kindSheet
	}
	return kindUser
}

// editOp is one list mutation of a regroup plan.
type editOp int

const (
	// editMigrate damages the view, drops focus and moves it to the target output.
	editMigrate editOp = iota
	editRemoveFromSheetGroup
	editRemoveFromGroup
	editDetachFromGroup
	editHide
	// editInsertSheet puts the view at the front of the target sheet. The
	// view must not be in any sheet list.
	editInsertSheet
	// editMoveSheet moves the view from its sheet list to the target sheet.
	editMoveSheet
	editInsertGroup
	editMoveGroup
	editIncreaseVisibility
	editRaiseWorkspace
	editSetOutput
	editCenterFocus
)

var editNames = [...]string{
	editMigrate:              "migrate",
	editRemoveFromSheetGroup: "remove-from-sheet-group",
	editRemoveFromGroup:      "remove-from-group",
	editDetachFromGroup:      "detach-from-group",
	editHide:                 "hide",
	editInsertSheet:          "insert-sheet",
	editMoveSheet:            "move-sheet",
	editInsertGroup:          "insert-group",
	editMoveGroup:            "move-group",
	editIncreaseVisibility:   "increase-visibility",
	editRaiseWorkspace:       "raise-workspace",
	editSetOutput:            "set-output",
	editCenterFocus:          "center-focus",
}

func (e editOp) String() string { return editNames[e] }

type transition struct {
	src, dst groupKind
}

// regroupPlan is the pure part of a regroup: given the source and target
// group kinds, whether the target sheet is on screen and whether the view
// crosses outputs, it returns the ordered list edits.
type regroupPlan func(onScreen, migrate bool) []editOp

var regroupTable = map[transition]regroupPlan{
	{kindSheet, kindSheet}: func(onScreen, migrate bool) []editOp {
		if onScreen {
			return visibleSheetTarget(migrate, editRemoveFromSheetGroup, editInsertSheet)
		}
		plan := []editOp{editHide, editMoveSheet, editMoveGroup}
		if migrate {
			plan = append(plan, editSetOutput)
		}
		return plan
	},
	{kindSheet, kindUser}: func(bool, bool) []editOp {
		return []editOp{
			editRemoveFromSheetGroup,
			editInsertSheet,
			editInsertGroup,
			editIncreaseVisibility,
			editRaiseWorkspace,
		}
	},
	{kindUser, kindSheet}: func(onScreen, migrate bool) []editOp {
		if onScreen {
			return visibleSheetTarget(migrate, editRemoveFromGroup, editMoveSheet)
		}
		plan := []editOp{editHide, editDetachFromGroup, editMoveSheet, editInsertGroup}
		if migrate {
			plan = append(plan, editSetOutput)
		}
		return plan
	},
	{kindUser, kindUser}: func(bool, bool) []editOp {
		return []editOp{
			editRemoveFromGroup,
			editMoveSheet,
			editInsertGroup,
			editIncreaseVisibility,
			editRaiseWorkspace,
		}
	},
}

func visibleSheetTarget(migrate bool, remove, sheet editOp) []editOp {
	var plan []editOp
	if migrate {
		plan = append(plan, editMigrate)
	}
	plan = append(plan, remove, sheet, editInsertGroup, editIncreaseVisibility, editRaiseWorkspace)
	if migrate {
		plan = append(plan, editCenterFocus)
	}
	return plan
}

// planRegroup looks up the edits for moving a view between group kinds.
func planRegroup(src, dst groupKind, onScreen, migrate bool) []editOp {
	plan, ok := regroupTable[transition{src, dst}]
	invariant(ok, "no regroup transition %v -> %v", src, dst)
	return plan(onScreen, migrate)
}

// regroup moves a visible view into group g, which may be a sheet group.
func (s *Server) regroup(v *View, g *Group) {
	invariant(g != nil, "regroup into nil group")
	invariant(!v.IsHidden(), "regrouping hidden view %d", v.ID)

	targetSheet := v.sheet
	onScreen, migrate := true, false
	if g.IsSheetGroup() {
		targetSheet = g.sheet
		onScreen = !targetSheet.Background()
		migrate = targetSheet.workspace.output != v.output
	}

	plan := planRegroup(kindOf(v.group), kindOf(g), onScreen, migrate)
	s.logger.Debug("regroup", "view", v.ID, "from", v.group.Name, "to", g.Name, "plan", plan)
	s.applyEdits(v, g, targetSheet, plan)
}

func (s *Server) applyEdits(v *View, g *Group, sheet *Sheet, plan []editOp) {
	from := v.sheet.workspace
	to := sheet.workspace

	for _, op := range plan {
		switch op {
		case editMigrate:
			s.damageWhole(v)
			if s.isFocused(v) {
				s.damageIndicator(v)
				s.focusWorkspace(from, nil)
			}
			s.setOutput(v, to.output)
		case editRemoveFromSheetGroup:
			s.removeFromSheetGroup(v)
		case editRemoveFromGroup:
			s.removeFromGroup(v)
		case editDetachFromGroup:
			s.detachFromGroup(v)
		case editHide:
			s.damageWhole(v)
			s.hide(v)
		case editInsertSheet:
			v.sheet = sheet
			sheet.views.pushFront(v.ID)
		case editMoveSheet:
			s.setSheet(v, sheet)
		case editInsertGroup:
			v.group = g
			g.views.pushFront(v.ID)
		case editMoveGroup:
			v.group.views.remove(v.ID)
			v.group = g
			g.views.pushFront(v.ID)
		case editIncreaseVisibility:
			s.increaseGroupVisibility(v)
		case editRaiseWorkspace:
			from.views.remove(v.ID)
			to.views.pushFront(v.ID)
		case editSetOutput:
			s.setOutput(v, to.output)
		case editCenterFocus:
			s.centerCursor(v)
			s.CursorFocus()
		default:
			invariant(false, "unknown regroup edit %d", op)
		}
	}
}

// pinToSheet moves a visible view onto sheet.
func (s *Server) pinToSheet(v *View, sheet *Sheet) {
	invariant(!v.IsHidden(), "pinning hidden view %d", v.ID)

	switch {
	case v.sheet == sheet:
		if sheet.Background() {
			s.hide(v)
			s.moveToTop(v)
		} else {
			s.raise(v)
		}
	case v.group == v.sheet.group:
		s.regroup(v, sheet.group)
	default:
		from := v.sheet.workspace
		migrated := !sheet.Background() && from != sheet.workspace
		if sheet.Background() {
			s.damageWhole(v)
			s.hide(v)
		} else {
			if migrated {
				s.damageWhole(v)
				if s.isFocused(v) {
					s.damageIndicator(v)
					s.focusWorkspace(from, nil)
				}
				from.views.remove(v.ID)
				sheet.workspace.views.pushFront(v.ID)
			}
			s.placeVisiblyAbove(v)
		}
		s.setSheet(v, sheet)
		s.setOutput(v, sheet.workspace.output)
		s.moveToTop(v)
		if migrated {
			s.centerCursor(v)
			s.CursorFocus()
		}
	}

	s.damageWhole(v)
}

// PinToSheet moves a visible view onto sheet nr of its own workspace.
func (s *Server) PinToSheet(id ViewID, nr int) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	sheet := v.sheet.workspace.Sheet(nr)
	if sheet == nil {
		return fmt.Errorf("%w: %d", ErrInvalidSheet, nr)
	}
	s.pinToSheet(v, sheet)
	return nil
}

// PinToOutputSheet moves a visible view onto sheet nr of another output.
func (s *Server) PinToOutputSheet(id ViewID, output string, nr int) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	o, ok := s.OutputByName(output)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoOutput, output)
	}
	sheet := o.workspace.Sheet(nr)
	if sheet == nil {
		return fmt.Errorf("%w: %d", ErrInvalidSheet, nr)
	}
	s.pinToSheet(v, sheet)
	return nil
}

// Group moves a visible view into the user group called name, creating it
// when needed.
func (s *Server) Group(id ViewID, name string) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	g, err := s.findOrCreateGroup(name)
	if err != nil {
		return err
	}
	if v.group == g {
		return nil
	}
	s.regroup(v, g)
	s.damageWhole(v)
	return nil
}

// Ungroup moves a visible view back into its sheet's group.
func (s *Server) Ungroup(id ViewID) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	if v.group == v.sheet.group {
		return nil
	}
	s.regroup(v, v.sheet.group)
	s.damageWhole(v)
	return nil
}
