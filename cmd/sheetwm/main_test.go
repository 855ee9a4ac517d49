package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/sheetwm/internal/config"
	"github.com/Gaurav-Gosain/sheetwm/internal/output"
)

const demoScript = `Map term 30 8 as t
Map web 20 6 sync as w
Maximize t
Ack
Group w "www"
`

// execute runs the root command against a temporary configuration file.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := config.DefaultConfig().Save(cfgPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--config", cfgPath))
	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.tape")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// =============================================================================
// Script Command Tests
// =============================================================================

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		wantErr bool
	}{
		{"valid", demoScript, false},
		{"unknown command", "Map term\nBogus 1 2\n", true},
		{"missing argument", "Move t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", "validate", writeScript(t, tt.script))
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected an error, got output %q", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !strings.Contains(out, "5 commands OK") {
				t.Errorf("Expected command count, got %q", out)
			}
		})
	}
}

func TestSnapshotCommand(t *testing.T) {
	out, err := execute(t, "", "snapshot", writeScript(t, demoScript), "--format", "json")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	var snap output.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("Expected JSON output, got %v:\n%s", err, out)
	}
	if len(snap.Views) != 2 {
		t.Fatalf("Expected 2 views, got %d", len(snap.Views))
	}
	for _, v := range snap.Views {
		switch v.AppID {
		case "term":
			if v.Maximized != "full" {
				t.Errorf("Expected term maximized, got %q", v.Maximized)
			}
		case "web":
			if v.Group != "www" {
				t.Errorf("Expected web in group www, got %q", v.Group)
			}
		default:
			t.Errorf("Unexpected view %q", v.AppID)
		}
	}
}

func TestSnapshotRejectsUnknownFormat(t *testing.T) {
	if _, err := execute(t, "", "snapshot", writeScript(t, demoScript), "--format", "xml"); err == nil {
		t.Error("Expected an error for format xml")
	}
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "", "run", writeScript(t, demoScript+"Snapshot\n"), "--format", "json", "--render")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, `"app_id"`) {
		t.Errorf("Expected the snapshot on stdout, got:\n%s", out)
	}
	if !strings.Contains(out, "term") {
		t.Errorf("Expected the rendered frame to show term, got:\n%s", out)
	}
}

func TestRunCommandReportsFailure(t *testing.T) {
	_, err := execute(t, "", "run", writeScript(t, "Map term as t\nExpect views 3\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected failure on line 2, got %v", err)
	}
}

// =============================================================================
// Config Command Tests
// =============================================================================

func TestConfigPathCommand(t *testing.T) {
	out, err := execute(t, "", "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "config.toml") {
		t.Errorf("Expected config path, got %q", out)
	}
}

func TestConfigShowCommand(t *testing.T) {
	out, err := execute(t, "", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse([]byte(out))
	if err != nil {
		t.Fatalf("Expected show output to parse, got %v", err)
	}
	if len(cfg.Keybindings["map_view"]) == 0 {
		t.Error("Expected map_view keybinding in output")
	}
}

func TestConfigResetCommand(t *testing.T) {
	out, err := execute(t, "no\n", "config", "reset")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Reset cancelled.") {
		t.Errorf("Expected cancellation, got %q", out)
	}

	out, err = execute(t, "", "config", "reset", "--yes")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Configuration reset to defaults") {
		t.Errorf("Expected reset message, got %q", out)
	}
}

// =============================================================================
// Keybinds Command Tests
// =============================================================================

func TestKeybindsListCommand(t *testing.T) {
	out, err := execute(t, "", "keybinds", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Map a new client") {
		t.Errorf("Expected map_view in list, got:\n%s", out)
	}
}

func TestFindCustomizations(t *testing.T) {
	cfg := config.DefaultConfig()
	if got := findCustomizations(cfg); len(got) != 0 {
		t.Errorf("Expected no customizations, got %v", got)
	}

	cfg.Keybindings["map_view"] = []string{"ctrl+n"}
	got := findCustomizations(cfg)
	if len(got) != 1 {
		t.Fatalf("Expected 1 customization, got %d", len(got))
	}
	if got[0].CustomKeys != "ctrl+n" {
		t.Errorf("Expected custom keys ctrl+n, got %q", got[0].CustomKeys)
	}
}
