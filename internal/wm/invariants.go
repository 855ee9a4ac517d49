package wm

import (
	"errors"
	"fmt"
)

// CheckInvariants walks every membership list and reports each broken
// bookkeeping rule. It is meant for tests and script assertions.
func (s *Server) CheckInvariants() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	sheetCount := map[ViewID]int{}
	outputCount := map[ViewID]int{}
	workspaceCount := map[ViewID]int{}
	for _, o := range s.outputs {
		for _, id := range o.views {
			outputCount[id]++
		}
		for _, sh := range o.workspace.sheets {
			for _, id := range sh.views {
				sheetCount[id]++
			}
		}
		for _, id := range o.workspace.views {
			workspaceCount[id]++
		}
	}

	groupCount := map[ViewID]int{}
	countGroup := func(g *Group) {
		for _, id := range g.views {
			groupCount[id]++
		}
		if (len(g.visible) > 0) != s.visibleGroups.contains(g) {
			fail("group %s: visible list has %d views but cache membership is %v",
				g.Name, len(g.visible), s.visibleGroups.contains(g))
		}
		for _, id := range g.visible {
			v, err := s.View(id)
			if err != nil || v.IsHidden() || v.group != g {
				fail("group %s: visible list holds view %d that is not a visible member", g.Name, id)
			}
		}
	}
	for _, g := range s.groups {
		if len(g.views) == 0 {
			fail("user group %s is empty but alive", g.Name)
		}
		countGroup(g)
	}
	for _, o := range s.outputs {
		for _, sh := range o.workspace.sheets {
			countGroup(sh.group)
		}
	}
	for _, g := range s.visibleGroups {
		if len(g.visible) == 0 {
			fail("group %s cached as visible without visible views", g.Name)
		}
	}

	for _, v := range s.views {
		if v == nil || !v.Managed() {
			continue
		}
		id := v.ID
		if sheetCount[id] != 1 || !v.sheet.views.contains(id) {
			fail("view %d: in %d sheet lists", id, sheetCount[id])
		}
		if groupCount[id] != 1 || !v.group.views.contains(id) {
			fail("view %d: in %d group lists", id, groupCount[id])
		}
		if outputCount[id] != 1 || !v.output.views.contains(id) {
			fail("view %d: in %d output lists", id, outputCount[id])
		}
		if v.output != v.sheet.workspace.output {
			fail("view %d: output %s differs from sheet output %s", id, v.output.Name, v.sheet.workspace.output.Name)
		}
		if v.group.IsSheetGroup() && v.group.sheet != v.sheet {
			fail("view %d: sheet group %s does not belong to sheet %d", id, v.group.Name, v.sheet.Nr)
		}
		visible := v.group.visible.contains(id)
		inWorkspace := workspaceCount[id] == 1 && v.sheet.workspace.views.contains(id)
		if v.IsHidden() && (visible || workspaceCount[id] != 0) {
			fail("view %d: hidden but listed as visible", id)
		}
		if !v.IsHidden() && (!visible || !inWorkspace) {
			fail("view %d: visible but missing from visible lists", id)
		}
		if v.IsDirty() {
			if _, ok := s.completions[Completion{View: id, Serial: v.pending.Serial}]; !ok {
				fail("view %d: dirty without a queued completion", id)
			}
		}
	}
	return errors.Join(errs...)
}
