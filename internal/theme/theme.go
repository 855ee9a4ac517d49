// Package theme maps bubbletint color schemes onto the window manager's
// color roles and the terminal chrome around it.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize selects the named tint. An empty name disables theming and the
// stock colors are used. Unknown names fall back to the registry default.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		return fmt.Errorf("unknown theme %q", themeName)
	}
	return nil
}

// IsEnabled reports whether a theme is active.
func IsEnabled() bool {
	return enabled
}

// Current returns the active tint, or nil when theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// Colors returns hex colors keyed by role name for the active tint. It is
// empty when theming is disabled.
func Colors() map[string]string {
	t := Current()
	if t == nil {
		return map[string]string{}
	}
	return map[string]string{
		"clear":              ColorToString(t.Bg),
		"foreground":         ColorToString(t.Fg),
		"border_active":      ColorToString(t.BrightWhite),
		"border_inactive":    ColorToString(t.BrightBlack),
		"indicator_selected": ColorToString(t.Yellow),
		"indicator_grouped":  ColorToString(t.BrightYellow),
		"indicator_first":    ColorToString(t.Green),
		"indicator_conflict": ColorToString(t.Red),
		"indicator_insert":   ColorToString(t.Purple),
	}
}

// Status bar colors
func StatusBg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#1c1c28")
	}
	return t.Black
}

func StatusFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#c0c0d0")
	}
	return t.White
}

func StatusAccent() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#E6DB74")
	}
	return t.Yellow
}

func StatusMode() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#E3C3FA")
	}
	return t.Purple
}

func StatusError() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#ED6B32")
	}
	return t.Red
}

// Help overlay colors
func HelpKeyBadge() color.Color {
	return lipgloss.Color("5")
}

func HelpGray() color.Color {
	return lipgloss.Color("8")
}

func HelpBorder() color.Color {
	return lipgloss.Color("14")
}

// CLI table colors
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

func CLITableBorder() color.Color {
	return lipgloss.Color("14")
}

func CLITableKey() color.Color {
	return lipgloss.Color("11")
}

func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

// ColorToString converts a color to a #rrggbb string.
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
