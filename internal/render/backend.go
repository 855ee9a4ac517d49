package render

import (
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	uv "github.com/charmbracelet/ultraviolet"
)

// Role names a configurable color. Backends map roles to concrete colors.
type Role int

const (
	RoleClear Role = iota
	RoleForeground
	RoleBorderActive
	RoleBorderInactive
	RoleIndicatorSelected
	RoleIndicatorGrouped
	RoleIndicatorFirst
	RoleIndicatorConflict
	RoleIndicatorInsert
)

var roleNames = [...]string{
	RoleClear:             "clear",
	RoleForeground:        "foreground",
	RoleBorderActive:      "border_active",
	RoleBorderInactive:    "border_inactive",
	RoleIndicatorSelected: "indicator_selected",
	RoleIndicatorGrouped:  "indicator_grouped",
	RoleIndicatorFirst:    "indicator_first",
	RoleIndicatorConflict: "indicator_conflict",
	RoleIndicatorInsert:   "indicator_insert",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "unknown"
}

// Roles lists every role in declaration order.
func Roles() []Role {
	out := make([]Role, len(roleNames))
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// Line is one row of an indicator.
type Line struct {
	Text string
	Role Role
}

// Indicator is a labelled panel drawn over the workspace.
type Indicator struct {
	Box   geometry.Box
	Lines []Line
}

// Backend draws into an output. Every call is clipped to clip, a damaged
// rectangle in output-local coordinates.
type Backend interface {
	Clear(o *wm.Output, clip uv.Rectangle)
	// Background paints the wallpaper. Alpha below one dims what is already
	// drawn instead of covering it.
	Background(o *wm.Output, alpha float64, clip uv.Rectangle)
	Border(o *wm.Output, b geometry.Border, role Role, clip uv.Rectangle)
	Surface(o *wm.Output, v *wm.View, node wm.SurfaceNode, box geometry.Box, clip uv.Rectangle)
	// Frame outlines box, used for group and mode indicators.
	Frame(o *wm.Output, box geometry.Box, role Role, clip uv.Rectangle)
	Indicator(o *wm.Output, ind Indicator, clip uv.Rectangle)
}
