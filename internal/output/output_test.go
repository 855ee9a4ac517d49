package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/output"
	"github.com/Gaurav-Gosain/sheetwm/internal/sim"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	"gopkg.in/yaml.v3"
)

func scene(t *testing.T) (*wm.Server, *sim.Client, *sim.Client) {
	t.Helper()
	s := wm.NewServer()
	s.AddOutput("main", geometry.NewBox(0, 0, 80, 24))
	d := sim.NewDisplay(s)
	term, err := d.Map("term", sim.ClientOptions{Protocol: sim.Sync, Width: 20, Height: 6})
	if err != nil {
		t.Fatal(err)
	}
	web, err := d.Map("web", sim.ClientOptions{Protocol: sim.Sync, Width: 30, Height: 8, Title: "docs"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetMark(term.View(), 'a'); err != nil {
		t.Fatal(err)
	}
	if err := s.Group(web.View(), "www"); err != nil {
		t.Fatal(err)
	}
	return s, term, web
}

// =============================================================================
// Capture Tests
// =============================================================================

func TestCapture(t *testing.T) {
	s, term, web := scene(t)
	snap := output.Capture(s)

	if snap.Mode != wm.ModeNormal.String() {
		t.Errorf("Expected mode %q, got %q", wm.ModeNormal.String(), snap.Mode)
	}
	if snap.Focused != uint32(web.View()) {
		t.Errorf("Expected focus on %d, got %d", web.View(), snap.Focused)
	}
	if len(snap.Outputs) != 1 {
		t.Fatalf("Expected 1 output, got %d", len(snap.Outputs))
	}

	o := snap.Outputs[0]
	if o.Name != "main" || o.Sheet != 1 || o.Alternate != 0 {
		t.Errorf("Unexpected output state %+v", o)
	}
	if len(o.Inhabited) != 1 || o.Inhabited[0] != 1 {
		t.Errorf("Expected only sheet 1 inhabited, got %v", o.Inhabited)
	}
	if len(o.Stack) != 2 || o.Stack[0] != uint32(web.View()) {
		t.Errorf("Expected web on top of the stack, got %v", o.Stack)
	}

	if len(snap.Views) != 2 {
		t.Fatalf("Expected 2 views, got %d", len(snap.Views))
	}
	byID := map[uint32]output.ViewState{}
	for _, v := range snap.Views {
		byID[v.ID] = v
	}
	tv := byID[uint32(term.View())]
	if tv.Mark != "a" || tv.Group != "term" || tv.AppID != "term" {
		t.Errorf("Unexpected term state %+v", tv)
	}
	wv := byID[uint32(web.View())]
	if wv.Group != "www" || wv.Title != "docs" {
		t.Errorf("Unexpected web state %+v", wv)
	}
	if wv.Geometry[2] != 30 || wv.Geometry[3] != 8 {
		t.Errorf("Expected 30x8 geometry, got %v", wv.Geometry)
	}
	if wv.Handle == "" || wv.Handle == tv.Handle {
		t.Errorf("Expected distinct handles, got %q and %q", wv.Handle, tv.Handle)
	}
}

// =============================================================================
// Format Tests
// =============================================================================

func TestWriteJSON(t *testing.T) {
	s, _, _ := scene(t)
	snap := output.Capture(s)

	var buf bytes.Buffer
	if err := output.Write(&buf, snap, output.FormatJSON); err != nil {
		t.Fatal(err)
	}

	var decoded output.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Views) != len(snap.Views) || decoded.Focused != snap.Focused {
		t.Errorf("Expected round trip to keep views and focus, got %+v", decoded)
	}
}

func TestWriteYAML(t *testing.T) {
	s, _, _ := scene(t)
	snap := output.Capture(s)

	var buf bytes.Buffer
	if err := output.Write(&buf, snap, output.FormatYAML); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "app_id: term") {
		t.Errorf("Expected snake_case keys, got:\n%s", buf.String())
	}

	var decoded output.Snapshot
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Outputs[0].Name != "main" {
		t.Errorf("Expected output main, got %q", decoded.Outputs[0].Name)
	}
}

func TestWriteTable(t *testing.T) {
	s, _, _ := scene(t)

	var buf bytes.Buffer
	if err := output.Write(&buf, output.Capture(s), output.FormatTable); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"OUTPUTS", "VIEWS", "term", "www", "╭"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected table to contain %q", want)
		}
	}

	if err := output.Write(&buf, 42, output.FormatTable); err == nil {
		t.Error("Expected table output of a non-snapshot to fail")
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"json", "yaml", "table"} {
		if _, err := output.ParseFormat(name); err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", name, err)
		}
	}
	if _, err := output.ParseFormat("xml"); err == nil {
		t.Error("Expected xml to be rejected")
	}
}
