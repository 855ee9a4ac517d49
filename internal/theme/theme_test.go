package theme_test

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/sheetwm/internal/theme"
)

func TestDisabledThemeHasNoColors(t *testing.T) {
	if err := theme.Initialize(""); err != nil {
		t.Fatal(err)
	}
	if theme.IsEnabled() {
		t.Error("Expected theming disabled for an empty name")
	}
	if got := theme.Colors(); len(got) != 0 {
		t.Errorf("Expected no colors, got %v", got)
	}
	if theme.StatusBg() == nil {
		t.Error("Expected fallback status color")
	}
}

func TestUnknownThemeFallsBack(t *testing.T) {
	defer theme.Initialize("")

	if err := theme.Initialize("no-such-theme"); err == nil {
		t.Error("Expected an error for an unknown theme")
	}
	if !theme.IsEnabled() {
		t.Fatal("Expected theming enabled after fallback")
	}
	colors := theme.Colors()
	for _, role := range []string{"clear", "border_active", "indicator_insert"} {
		if colors[role] == "" {
			t.Errorf("Expected a color for %s", role)
		}
	}
}

func TestColorToString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#FF0000", "#ff0000"},
		{"#282C34", "#282c34"},
	}
	for _, tt := range tests {
		if got := theme.ColorToString(lipgloss.Color(tt.in)); got != tt.want {
			t.Errorf("Expected %s, got %s", tt.want, got)
		}
	}
	if got := theme.ColorToString(nil); got != "#000000" {
		t.Errorf("Expected #000000 for nil, got %s", got)
	}
}
