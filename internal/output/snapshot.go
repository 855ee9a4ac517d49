package output

import (
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
)

// Snapshot is a serializable picture of the window manager state.
type Snapshot struct {
	Mode    string        `yaml:"mode"              json:"mode"`
	Focused uint32        `yaml:"focused,omitempty" json:"focused,omitempty"`
	Pending int           `yaml:"pending"           json:"pending"`
	Outputs []OutputState `yaml:"outputs"           json:"outputs"`
	Groups  []GroupState  `yaml:"groups"            json:"groups"`
	Views   []ViewState   `yaml:"views"             json:"views"`
}

// OutputState describes one output and its workspace.
type OutputState struct {
	Name      string   `yaml:"name"                json:"name"`
	Geometry  [4]int   `yaml:"geometry,flow"       json:"geometry"`
	Sheet     int      `yaml:"sheet"               json:"sheet"`
	Alternate int      `yaml:"alternate"           json:"alternate"`
	Stack     []uint32 `yaml:"stack,flow"          json:"stack"`
	Layout    string   `yaml:"layout,omitempty"    json:"layout,omitempty"`
	Inhabited []int    `yaml:"inhabited,flow"      json:"inhabited"`
}

// GroupState describes a user group in visible-groups order.
type GroupState struct {
	Name    string   `yaml:"name"       json:"name"`
	Views   []uint32 `yaml:"views,flow" json:"views"`
	Visible int      `yaml:"visible"    json:"visible"`
}

// ViewState describes one managed view.
type ViewState struct {
	ID        uint32 `yaml:"id"                  json:"id"`
	Handle    string `yaml:"handle"              json:"handle"`
	AppID     string `yaml:"app_id"              json:"app_id"`
	Title     string `yaml:"title,omitempty"     json:"title,omitempty"`
	Output    string `yaml:"output"              json:"output"`
	Sheet     int    `yaml:"sheet"               json:"sheet"`
	Group     string `yaml:"group"               json:"group"`
	Geometry  [4]int `yaml:"geometry,flow"       json:"geometry"`
	Hidden    bool   `yaml:"hidden"              json:"hidden"`
	Dirty     bool   `yaml:"dirty,omitempty"     json:"dirty,omitempty"`
	Floating  bool   `yaml:"floating,omitempty"  json:"floating,omitempty"`
	Iconified bool   `yaml:"iconified,omitempty" json:"iconified,omitempty"`
	Public    bool   `yaml:"public,omitempty"    json:"public,omitempty"`
	Tiled     bool   `yaml:"tiled,omitempty"     json:"tiled,omitempty"`
	Maximized string `yaml:"maximized,omitempty" json:"maximized,omitempty"`
	Mark      string `yaml:"mark,omitempty"      json:"mark,omitempty"`
}

func box(b geometry.Box) [4]int {
	return [4]int{b.X, b.Y, b.Width, b.Height}
}

func ids(in []wm.ViewID) []uint32 {
	out := make([]uint32, len(in))
	for i, id := range in {
		out[i] = uint32(id)
	}
	return out
}

// Capture takes a snapshot of s.
func Capture(s *wm.Server) Snapshot {
	snap := Snapshot{
		Mode:    s.Mode().Mode.String(),
		Pending: len(s.PendingCompletions()),
	}
	if v, ok := s.Focused(); ok {
		snap.Focused = uint32(v.ID)
	}

	for _, o := range s.Outputs() {
		ws := o.Workspace()
		st := OutputState{
			Name:     o.Name,
			Geometry: box(o.Geometry),
			Sheet:    ws.CurrentSheet().Nr,
			Stack:    ids(ws.Views()),
		}
		st.Alternate = -1
		if alt := ws.AlternateSheet(); alt != nil {
			st.Alternate = alt.Nr
		}
		if l := ws.CurrentSheet().Layout(); l != nil {
			st.Layout = string(l.Register)
		}
		for _, sh := range ws.Sheets() {
			if sh.Len() > 0 {
				st.Inhabited = append(st.Inhabited, sh.Nr)
			}
		}
		snap.Outputs = append(snap.Outputs, st)
	}

	for _, g := range s.VisibleGroups() {
		snap.Groups = append(snap.Groups, GroupState{
			Name:    g.Name,
			Views:   ids(g.Views()),
			Visible: len(g.VisibleViews()),
		})
	}

	for _, v := range s.Views() {
		if !v.Managed() {
			continue
		}
		vs := ViewState{
			ID:        uint32(v.ID),
			Handle:    v.Handle.String(),
			AppID:     v.AppID,
			Title:     v.Title(),
			Output:    v.Output().Name,
			Sheet:     v.Sheet().Nr,
			Group:     v.Group().Name,
			Geometry:  box(v.CurrentGeometry()),
			Hidden:    v.IsHidden(),
			Dirty:     v.IsDirty(),
			Floating:  v.IsFloating(),
			Iconified: v.IsIconified(),
			Public:    v.IsPublic(),
			Tiled:     v.IsTiled(),
		}
		if m := v.Maximized(); m != nil {
			vs.Maximized = m.Maximization.String()
		}
		if m := v.Mark(); m != 0 {
			vs.Mark = string(m)
		}
		snap.Views = append(snap.Views, vs)
	}
	return snap
}
