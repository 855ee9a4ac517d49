package wm

// Group is a cluster of views keyed by name or application identity. Every
// sheet owns one implicit group used for views that were never grouped.
type Group struct {
	Name string

	sheet   *Sheet
	views   seq[ViewID]
	visible seq[ViewID]
}

// IsSheetGroup reports whether the group is a sheet's implicit group.
func (g *Group) IsSheetGroup() bool { return g.sheet != nil }

// Sheet returns the owning sheet of a sheet group, or nil.
func (g *Group) Sheet() *Sheet { return g.sheet }

// Views returns member views, front first.
func (g *Group) Views() []ViewID { return g.views.clone() }

// VisibleViews returns the visible members, front first.
func (g *Group) VisibleViews() []ViewID { return g.visible.clone() }

// FirstView returns the front-most member.
func (g *Group) FirstView() (ViewID, bool) { return g.views.first() }

// FirstVisible returns the front-most visible member.
func (g *Group) FirstVisible() (ViewID, bool) { return g.visible.first() }

// Len returns the number of members.
func (g *Group) Len() int { return len(g.views) }
