package render

import (
	"fmt"
	"strconv"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	uv "github.com/charmbracelet/ultraviolet"
)

// lockAlpha dims everything drawn before the lock screen.
const lockAlpha = 0.1

const lockText = "locked"

func (r *Renderer) renderMode(o *wm.Output, rects []uv.Rectangle) {
	st := r.server.Mode()

	switch st.Mode {
	case wm.ModeNormal:
		focus, ok := r.server.Focused()
		if !r.modifier || !ok {
			return
		}
		r.groupFrames(o, focus.Group(), focus, rects)
		r.targetFrame(o, focus, RoleIndicatorSelected, st, rects, true)

	case wm.ModeGroupAssign:
		target := r.target(st)
		if target == nil {
			return
		}
		if g, ok := r.server.FindGroup(st.Input.String()); ok {
			r.groupFrames(o, g, target, rects)
		}
		r.targetFrame(o, target, RoleIndicatorSelected, st, rects, true)

	case wm.ModeInputGrab:
		if focus, ok := r.server.Focused(); ok {
			r.targetFrame(o, focus, RoleIndicatorInsert, st, rects, false)
		}

	case wm.ModeLock:
		for _, clip := range rects {
			r.backend.Background(o, lockAlpha, clip)
		}
		r.renderWorkspace(o, rects, true)
		r.lockIndicator(o, rects)

	case wm.ModeMarkAssign:
		target := r.target(st)
		if target == nil {
			return
		}
		if r.server.MarkAssignConflict() {
			if id, ok := r.server.MarkedView(st.Mark); ok {
				if owner, err := r.server.View(id); err == nil && owner.Output() == o && !owner.IsHidden() {
					r.frame(o, owner.BorderGeometry(), RoleIndicatorConflict, rects)
					r.indicator(o, Indicator{
						Box:   r.server.IndicatorBox(owner),
						Lines: []Line{{Text: string(st.Mark), Role: RoleIndicatorConflict}},
					}, rects)
				}
			}
		}
		r.targetFrame(o, target, RoleIndicatorSelected, st, rects, true)

	case wm.ModeMove, wm.ModeResize:
		if target := r.target(st); target != nil {
			r.targetFrame(o, target, RoleIndicatorInsert, st, rects, true)
		}

	case wm.ModeSheetAssign:
		if target := r.target(st); target != nil {
			r.targetFrame(o, target, RoleIndicatorSelected, st, rects, true)
		}
	}
}

func (r *Renderer) target(st wm.ModeState) *wm.View {
	v, err := r.server.View(st.Target)
	if err != nil || !v.Managed() {
		return nil
	}
	return v
}

// groupFrames outlines the visible members of g on o other than focus. The
// group's first view gets its own color.
func (r *Renderer) groupFrames(o *wm.Output, g *wm.Group, focus *wm.View, rects []uv.Rectangle) {
	first, _ := g.FirstView()
	ids := g.VisibleViews()
	for i := len(ids) - 1; i >= 0; i-- {
		v, err := r.server.View(ids[i])
		if err != nil || v == focus || v.Output() != o {
			continue
		}
		role := RoleIndicatorGrouped
		if v.ID == first {
			role = RoleIndicatorFirst
		}
		r.frame(o, v.BorderGeometry(), role, rects)
	}
}

func (r *Renderer) targetFrame(o *wm.Output, v *wm.View, role Role, st wm.ModeState, rects []uv.Rectangle, withIndicator bool) {
	if v.Output() != o || v.IsHidden() {
		return
	}
	r.frame(o, v.BorderGeometry(), role, rects)
	if withIndicator {
		r.indicator(o, r.IndicatorFor(v, st), rects)
	}
}

func (r *Renderer) frame(o *wm.Output, box geometry.Box, role Role, rects []uv.Rectangle) {
	clipped(rects, box, func(clip uv.Rectangle) {
		r.backend.Frame(o, box, role, clip)
	})
}

func (r *Renderer) indicator(o *wm.Output, ind Indicator, rects []uv.Rectangle) {
	clipped(rects, ind.Box, func(clip uv.Rectangle) {
		r.backend.Indicator(o, ind, clip)
	})
}

func (r *Renderer) lockIndicator(o *wm.Output, rects []uv.Rectangle) {
	w, h := len(lockText)+2, 1
	x, y := geometry.AnchorCenter.Place(w, h, o.Bounds())
	r.indicator(o, Indicator{
		Box:   geometry.NewBox(x, y, w, h),
		Lines: []Line{{Text: lockText, Role: RoleIndicatorSelected}},
	}, rects)
}

// IndicatorFor builds the indicator shown for v: title, sheet, group and
// mark. The line being edited by the active mode uses the insert color, or
// the conflict color when the choice collides.
func (r *Renderer) IndicatorFor(v *wm.View, st wm.ModeState) Indicator {
	title := Line{Text: v.Title(), Role: RoleIndicatorSelected}
	if title.Text == "" {
		title.Text = v.AppID
	}
	sheet := Line{Text: sheetLabel(v.Sheet(), v.Output()), Role: RoleIndicatorSelected}
	group := Line{Text: v.Group().Name, Role: RoleIndicatorSelected}
	mark := Line{Role: RoleIndicatorSelected}
	if m := v.Mark(); m != 0 {
		mark.Text = string(m)
	}

	if st.Target == v.ID {
		switch st.Mode {
		case wm.ModeMove, wm.ModeResize:
			title = Line{Text: v.CurrentGeometry().String(), Role: RoleIndicatorInsert}
		case wm.ModeSheetAssign:
			if st.Sheet != nil {
				sheet = Line{Text: sheetLabel(st.Sheet, v.Output()), Role: RoleIndicatorInsert}
			}
		case wm.ModeGroupAssign:
			group = Line{Text: st.Input.String(), Role: RoleIndicatorInsert}
			if r.server.GroupAssignConflict() {
				group.Role = RoleIndicatorConflict
			}
		case wm.ModeMarkAssign:
			if st.Mark != 0 {
				mark = Line{Text: string(st.Mark), Role: RoleIndicatorInsert}
				if r.server.MarkAssignConflict() {
					mark.Role = RoleIndicatorConflict
				}
			}
		}
	}

	return Indicator{
		Box:   r.server.IndicatorBox(v),
		Lines: []Line{title, sheet, group, mark},
	}
}

// sheetLabel names sheet, prefixed with its output when that is not from.
func sheetLabel(sheet *wm.Sheet, from *wm.Output) string {
	label := strconv.Itoa(sheet.Nr)
	if o := sheet.Workspace().Output(); o != from {
		return fmt.Sprintf("%s:%s", o.Name, label)
	}
	return label
}
