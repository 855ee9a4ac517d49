package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/sheetwm/internal/config"
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	"github.com/adrg/xdg"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to validate, got %v", err)
	}
	if len(cfg.Outputs) == 0 {
		t.Error("Expected a default output")
	}
	if cfg.Settings() != wm.DefaultSettings() {
		t.Errorf("Expected default settings %+v, got %+v", wm.DefaultSettings(), cfg.Settings())
	}
}

func TestDefaultKeybindings(t *testing.T) {
	kb := config.DefaultKeybindings()

	requiredActions := []string{
		"map_view",
		"close_view",
		"cycle_next_view",
		"switch_sheet_0",
		"pin_to_sheet_9",
		"mode_sheet_assign",
		"quit",
	}
	for _, action := range requiredActions {
		if len(kb[action]) == 0 {
			t.Errorf("Expected %s to have at least one key bound", action)
		}
	}
}

func TestActionDescriptions(t *testing.T) {
	for _, action := range config.Actions() {
		if config.ActionDescriptions[action] == "" {
			t.Errorf("Expected description for action %q", action)
		}
	}
}

// =============================================================================
// Load and Save Tests
// =============================================================================

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := config.DefaultConfig()
	cfg.Gap = 3
	cfg.Views["clock"] = config.ViewRule{Position: "top-right", Public: true}
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Gap != 3 {
		t.Errorf("Expected gap 3, got %d", loaded.Gap)
	}
	if !loaded.Views["clock"].Public {
		t.Error("Expected clock rule to survive the round trip")
	}
	regs, err := loaded.LayoutRegisters()
	if err != nil {
		t.Fatal(err)
	}
	if regs['s'] == nil || regs['s'].Split == nil {
		t.Error("Expected split register s to survive the round trip")
	}
}

func TestLoadUserConfigCreatesDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	defer xdg.Reload()

	cfg, err := config.LoadUserConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Border != 1 {
		t.Errorf("Expected default border, got %d", cfg.Border)
	}
	path, err := config.GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config written to %s: %v", path, err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
border = 2
theme = ""

[colors]
border_active = "#FF00FF"

[views.term]
group = "shells"
sheet = 3
mark = "t"
position = "bottom-right"
focus = false

[views.clock]
position = "5,6"
floating = true

[layouts]
a = { split = "horizontal", scale = 0.3, left = { layout = "grid", max = 4 }, right = "full" }

[[outputs]]
name = "left"
width = 80
height = 24

[[outputs]]
name = "right"
x = 80
width = 80
height = 24
`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Border != 2 || cfg.Gap != 1 {
		t.Errorf("Expected border 2 and default gap, got %d %d", cfg.Border, cfg.Gap)
	}

	rules, err := cfg.Rules()
	if err != nil {
		t.Fatal(err)
	}
	term := rules["term"]
	if term.Group != "shells" || term.Sheet != 3 || term.Mark != 't' || term.Focus {
		t.Errorf("Unexpected term rule %+v", term)
	}
	if term.Position.Kind != wm.PositionRelative || term.Position.Anchor != geometry.AnchorBottomRight {
		t.Errorf("Expected bottom-right anchor, got %+v", term.Position)
	}
	clock := rules["clock"]
	if clock.Position.Kind != wm.PositionAbsolute || clock.Position.X != 5 || clock.Position.Y != 6 {
		t.Errorf("Expected absolute 5,6, got %+v", clock.Position)
	}
	if clock.Sheet != -1 || !clock.Focus {
		t.Errorf("Expected default sheet and focus, got %+v", clock)
	}

	regs, err := cfg.LayoutRegisters()
	if err != nil {
		t.Fatal(err)
	}
	if len(regs) != 1 {
		t.Errorf("Expected layouts table to replace defaults, got %d registers", len(regs))
	}
	a := regs['a']
	if a == nil || a.Split == nil || a.Split.Orientation != wm.SplitHorizontal {
		t.Fatalf("Expected horizontal split, got %+v", a)
	}
	if a.Split.Left.Container.Algorithm != wm.AlgorithmGrid || a.Split.Left.Container.Max != 4 {
		t.Errorf("Unexpected left container %+v", a.Split.Left.Container)
	}

	if len(cfg.Outputs) != 2 || cfg.Outputs[1].X != 80 {
		t.Errorf("Unexpected outputs %+v", cfg.Outputs)
	}
	if _, ok := cfg.Keybindings["quit"]; !ok {
		t.Error("Expected default keybindings kept")
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"negative gap", "gap = -1"},
		{"zero step", "step = 0"},
		{"mark too long", "[views.a]\nmark = \"ab\""},
		{"mark not a letter", "[views.a]\nmark = \"1\""},
		{"sheet out of range", "[views.a]\nsheet = 10"},
		{"bad position", "[views.a]\nposition = \"middle-earth\""},
		{"bad absolute position", "[views.a]\nposition = \"1,x\""},
		{"long register", "[layouts]\nab = \"grid\""},
		{"unknown algorithm", "[layouts]\na = \"spiral\""},
		{"split without child", "[layouts]\na = { split = \"vertical\", left = \"full\" }"},
		{"unknown color", "[colors]\nsparkle = \"#FFFFFF\""},
		{"duplicate output", "[[outputs]]\nname = \"a\"\nwidth = 1\nheight = 1\n[[outputs]]\nname = \"a\"\nwidth = 1\nheight = 1"},
		{"bad key", "[keybindings]\nquit = [\"hyperspace+q\"]"},
		{"not toml", "border = ="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.toml))
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

// =============================================================================
// Server Wiring Tests
// =============================================================================

func TestServerOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Border = 2
	cfg.Views["term"] = config.ViewRule{Position: "0,0"}

	opts, err := cfg.ServerOptions()
	if err != nil {
		t.Fatal(err)
	}
	s := wm.NewServer(opts...)
	outputs := cfg.AddOutputs(s)
	if len(outputs) != 1 || outputs[0].Name != "main" {
		t.Fatalf("Unexpected outputs %v", outputs)
	}
	if s.Settings().Border != 2 {
		t.Errorf("Expected border 2, got %d", s.Settings().Border)
	}
	if err := s.ApplyLayout('g'); err != nil {
		t.Errorf("Expected register g to exist: %v", err)
	}
}

func TestApply(t *testing.T) {
	s := wm.NewServer()
	s.AddOutput("main", geometry.NewBox(0, 0, 80, 24))

	cfg := config.DefaultConfig()
	cfg.Gap = 5
	if err := cfg.Apply(s); err != nil {
		t.Fatal(err)
	}
	if s.Settings().Gap != 5 {
		t.Errorf("Expected gap 5, got %d", s.Settings().Gap)
	}
	o, _ := s.OutputByName("main")
	if o.Damage().Empty() {
		t.Error("Expected outputs damaged after applying config")
	}
}

// =============================================================================
// Watch Tests
// =============================================================================

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("gap = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *config.Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- config.Watch(ctx, path, func(cfg *config.Config, err error) {
			if err == nil {
				got <- cfg
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-got:
			if cfg.Gap != 7 {
				t.Errorf("Expected reloaded gap 7, got %d", cfg.Gap)
			}
			cancel()
			if err := <-done; err != nil {
				t.Errorf("Expected clean shutdown, got %v", err)
			}
			return
		case <-tick.C:
			// the watcher may not be registered before the first write
			if err := os.WriteFile(path, []byte("gap = 7\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("Timed out waiting for reload")
		}
	}
}

func TestWatchSkipsTruncatedSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("gap = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *config.Config, 8)
	go func() {
		_ = config.Watch(ctx, path, func(cfg *config.Config, err error) {
			if err == nil {
				got <- cfg
			}
		})
	}()

	// editors truncate first and write the new content a moment later
	save := func() {
		if err := os.Truncate(path, 0); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
		if err := os.WriteFile(path, []byte("gap = 7\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-got:
			if cfg.Gap != 7 {
				t.Errorf("Expected gap 7 after the save, got %d", cfg.Gap)
			}
			return
		case <-tick.C:
			save()
		case <-deadline:
			t.Fatal("Timed out waiting for reload")
		}
	}
}

func TestWatchIgnoresEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("gap = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *config.Config, 8)
	go func() {
		_ = config.Watch(ctx, path, func(cfg *config.Config, err error) {
			got <- cfg
		})
	}()

	stop := time.After(600 * time.Millisecond)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-got:
			t.Fatalf("Expected no reload of an empty file, got %+v", cfg)
		case <-tick.C:
			if err := os.WriteFile(path, nil, 0o644); err != nil {
				t.Fatal(err)
			}
		case <-stop:
			return
		}
	}
}

// =============================================================================
// KeybindRegistry Tests
// =============================================================================

func TestKeybindRegistry_GetKeys(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	if keys := registry.GetKeys("map_view"); len(keys) == 0 {
		t.Error("Expected map_view to have keys")
	}
}

func TestKeybindRegistry_GetAction(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	keys := registry.GetKeys("close_view")
	if len(keys) == 0 {
		t.Skip("No keys bound to close_view")
	}
	if action := registry.GetAction(keys[0]); action != "close_view" {
		t.Errorf("Expected action 'close_view', got %q", action)
	}
}

func TestKeybindRegistry_ShiftedDigits(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	for _, key := range []string{"alt+shift+3", "alt+#"} {
		if action := registry.GetAction(key); action != "pin_to_sheet_3" {
			t.Errorf("Expected %s to pin to sheet 3, got %q", key, action)
		}
	}
}

func TestKeybindRegistry_UserOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings = map[string][]string{"quit": {"ctrl+q"}}
	registry := config.NewKeybindRegistry(cfg)

	if action := registry.GetAction("ctrl+q"); action != "quit" {
		t.Errorf("Expected ctrl+q to quit, got %q", action)
	}
	if action := registry.GetAction("ctrl+c"); action != "" {
		t.Errorf("Expected ctrl+c unbound, got %q", action)
	}
	if action := registry.GetAction("alt+enter"); action != "map_view" {
		t.Errorf("Expected defaults for untouched actions, got %q", action)
	}
}

func TestKeybindRegistry_GetKeysForDisplay(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings["toggle_help"] = []string{"alt+?", "f1"}
	registry := config.NewKeybindRegistry(cfg)

	if got := registry.GetKeysForDisplay("toggle_help"); got != "alt+?, f1" {
		t.Errorf("Expected %q, got %q", "alt+?, f1", got)
	}
}

func TestKeybindRegistry_UnknownKey(t *testing.T) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	if action := registry.GetAction("ctrl+shift+alt+super+hyper+x"); action != "" {
		t.Errorf("Expected empty action for unbound key, got %q", action)
	}
	if keys := registry.GetKeys("nonexistent_action"); len(keys) != 0 {
		t.Errorf("Expected empty keys for nonexistent action, got %v", keys)
	}
}

func TestGetKeybindings(t *testing.T) {
	sections := config.GetKeybindings(nil)
	if len(sections) == 0 || sections[0].Title != "VIEWS" {
		t.Fatalf("Expected VIEWS first, got %+v", sections)
	}
	if len(config.GetModeKeybindings("sheet-assign")) == 0 {
		t.Error("Expected sheet-assign mode keys")
	}
	if config.GetModeKeybindings("normal") != nil {
		t.Error("Expected no mode keys for normal")
	}
}

// =============================================================================
// Key Normalizer Tests
// =============================================================================

func TestKeyNormalizer(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input    string
		expected string
	}{
		{"ctrl+a", "ctrl+a"},
		{"Ctrl+A", "ctrl+a"},
		{"CTRL+A", "ctrl+a"},
		{"shift+alt+x", "alt+shift+x"},
		{"return", "return"},
		{"return", "enter"},
		{"escape", "esc"},
		{"alt+shift+1", "alt+!"},
		{"alt++", "alt++"},
		{"G", "shift+g"},
	}

	for _, tc := range tests {
		t.Run(tc.input+"->"+tc.expected, func(t *testing.T) {
			got := normalizer.NormalizeKey(tc.input)
			if len(got) == 0 {
				t.Fatalf("NormalizeKey(%q) returned empty slice", tc.input)
			}
			found := false
			for _, k := range got {
				if k == tc.expected {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("NormalizeKey(%q) = %v, want to contain %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestKeyNormalizer_ValidateKey(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input   string
		isValid bool
	}{
		{"ctrl+a", true},
		{"n", true},
		{"enter", true},
		{"alt+f12", true},
		{"alt+", false},
		{"hyperspace+q", false},
		{"alt+banana", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			valid, _ := normalizer.ValidateKey(tc.input)
			if valid != tc.isValid {
				t.Errorf("ValidateKey(%q) = %v, want %v", tc.input, valid, tc.isValid)
			}
		})
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkKeybindRegistry_GetAction(b *testing.B) {
	registry := config.NewKeybindRegistry(config.DefaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = registry.GetAction("alt+shift+5")
	}
}

func BenchmarkNormalizeKey(b *testing.B) {
	normalizer := config.NewKeyNormalizer()
	keys := []string{"ctrl+a", "Ctrl+Shift+B", "alt+1", "return"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = normalizer.NormalizeKey(keys[i%len(keys)])
	}
}
