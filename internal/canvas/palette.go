package canvas

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/sheetwm/internal/render"
)

// Palette maps render roles to colors.
type Palette map[render.Role]color.Color

// DefaultPalette returns the stock colors.
func DefaultPalette() Palette {
	return Palette{
		render.RoleClear:             lipgloss.Color("#282C34"),
		render.RoleForeground:        lipgloss.Color("#000000"),
		render.RoleBorderActive:      lipgloss.Color("#FFFFFF"),
		render.RoleBorderInactive:    lipgloss.Color("#465457"),
		render.RoleIndicatorSelected: lipgloss.Color("#E6DB74"),
		render.RoleIndicatorGrouped:  lipgloss.Color("#FD971F"),
		render.RoleIndicatorFirst:    lipgloss.Color("#B8E673"),
		render.RoleIndicatorConflict: lipgloss.Color("#ED6B32"),
		render.RoleIndicatorInsert:   lipgloss.Color("#E3C3FA"),
	}
}

// ParsePalette builds a palette from role names to hex colors, falling back
// to the defaults for roles not listed.
func ParsePalette(colors map[string]string) (Palette, error) {
	p := DefaultPalette()
	byName := make(map[string]render.Role)
	for _, r := range render.Roles() {
		byName[r.String()] = r
	}
	for name, hex := range colors {
		role, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown color %q", name)
		}
		if hex == "" {
			continue
		}
		p[role] = lipgloss.Color(hex)
	}
	return p, nil
}

// Color returns the color for role, or nil when unset.
func (p Palette) Color(role render.Role) color.Color {
	return p[role]
}
