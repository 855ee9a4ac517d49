package wm

import "strconv"

// SheetCount is the number of sheets per workspace.
const SheetCount = 10

// Sheet is one numbered desktop slot of a workspace. Sheet 0 is always visible.
type Sheet struct {
	Nr int

	views     seq[ViewID]
	layout    *Layout
	group     *Group
	workspace *Workspace
}

func newSheet(nr int, ws *Workspace) *Sheet {
	sh := &Sheet{Nr: nr, workspace: ws}
	sh.group = &Group{Name: strconv.Itoa(nr), sheet: sh}
	return sh
}

// Views returns the sheet's views, front first.
func (sh *Sheet) Views() []ViewID { return sh.views.clone() }

// Len returns the number of views on the sheet.
func (sh *Sheet) Len() int { return len(sh.views) }

// Group returns the sheet's implicit group.
func (sh *Sheet) Group() *Group { return sh.group }

// Workspace returns the owning workspace.
func (sh *Sheet) Workspace() *Workspace { return sh.workspace }

// Layout returns the active layout or nil.
func (sh *Sheet) Layout() *Layout { return sh.layout }

// Pinned reports whether this is sheet 0.
func (sh *Sheet) Pinned() bool { return sh.Nr == 0 }

// Current reports whether the sheet is its workspace's current sheet.
func (sh *Sheet) Current() bool { return sh.workspace.sheet == sh }

// Background reports whether views pinned here are hidden when not current.
func (sh *Sheet) Background() bool { return !sh.Current() && !sh.Pinned() }

// FirstView returns the front-most view.
func (sh *Sheet) FirstView() (ViewID, bool) { return sh.views.first() }

// LastView returns the back-most view.
func (sh *Sheet) LastView() (ViewID, bool) { return sh.views.last() }

// NextView returns the view after id, wrapping.
func (sh *Sheet) NextView(id ViewID) (ViewID, bool) { return sh.views.after(id) }

// PrevView returns the view before id, wrapping.
func (sh *Sheet) PrevView(id ViewID) (ViewID, bool) { return sh.views.before(id) }

// Next returns the following sheet, wrapping from 9 to 0.
func (sh *Sheet) Next() *Sheet {
	return sh.workspace.sheets[(sh.Nr+1)%SheetCount]
}

// Prev returns the preceding sheet, wrapping from 0 to 9.
func (sh *Sheet) Prev() *Sheet {
	return sh.workspace.sheets[(sh.Nr-1+SheetCount)%SheetCount]
}

// NextInhabited returns the next sheet holding views, or sh itself.
func (sh *Sheet) NextInhabited() *Sheet {
	for next := sh.Next(); next != sh; next = next.Next() {
		if next.Len() > 0 {
			return next
		}
	}
	return sh
}

// PrevInhabited returns the previous sheet holding views, or sh itself.
func (sh *Sheet) PrevInhabited() *Sheet {
	for prev := sh.Prev(); prev != sh; prev = prev.Prev() {
		if prev.Len() > 0 {
			return prev
		}
	}
	return sh
}
