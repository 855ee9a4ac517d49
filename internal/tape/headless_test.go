package tape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/sheetwm/internal/config"
	"github.com/Gaurav-Gosain/sheetwm/internal/output"
)

func run(t *testing.T, script string, opts ...Option) (*HeadlessRunner, ScriptExecutionStats, error) {
	t.Helper()
	opts = append([]Option{WithInvariantChecks(true)}, opts...)
	hr, err := LoadScript(script, nil, opts...)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	stats, err := hr.Run(context.Background())
	return hr, stats, err
}

func mustRun(t *testing.T, script string, opts ...Option) *HeadlessRunner {
	t.Helper()
	hr, _, err := run(t, script, opts...)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return hr
}

// =============================================================================
// Scenario Tests
// =============================================================================

func TestRunViewLifecycle(t *testing.T) {
	_, stats, err := run(t, `
Output main 0 0 80 24
Map term 30 8 as t
Map web 20 6 sync as w
Expect views 2
Expect focused w
MoveTo t 10 5
Expect geometry t 10 5 30 8

# async clients stay dirty until they acknowledge
Maximize t
Expect dirty t
Expect pending 1
Ack t
Expect clean t
Expect geometry t 0 0 80 24
Expect maximized t full
Maximize t
Ack
Expect geometry t 10 5 30 8

Mark t a
Expect mark t a
Title w "docs"
Expect screen docs
Unmap w
Expect views 1
`)
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Success || stats.ExecutedCount != stats.TotalCommands {
		t.Errorf("Expected every command executed, got %d/%d", stats.ExecutedCount, stats.TotalCommands)
	}
}

func TestRunGroupsAndSheets(t *testing.T) {
	mustRun(t, `
Map term sync as t
Map web sync as w
Expect group t term
Group w "www"
Expect group w www
Expect visible-groups 2

Pin w 3
Expect hidden w
Expect sheet w 3
Expect visible-groups 1

SwitchSheet 3
Expect current-sheet 3 main
Expect visible w
Expect hidden t
AlternateSheet
Expect current-sheet 1
Expect visible t
`)
}

func TestRunModes(t *testing.T) {
	mustRun(t, `
Map term sync as t
Mode group-assign
# the buffer starts out holding the current group name
Erase
Erase
Erase
Erase
Input "work"
Erase
Input "k"
Confirm
Expect group t work
Expect mode normal

Mode mark-assign
Select b
Confirm
Expect mark t b

Mode sheet-assign
Select 4
Confirm
Expect sheet t 4
Expect hidden t
`)
}

func TestRunLayouts(t *testing.T) {
	mustRun(t, `
Map a 10 5 sync
Map b 10 5 sync
Layout g
Expect tiled a
Expect tiled b
Key alt+t
Expect tiled a
Exchange a b
ResetLayout
`)
}

func TestRunKeysAndActions(t *testing.T) {
	hr := mustRun(t, `
Key alt+enter
Key alt+enter
Expect views 2
Action switch_sheet_2
Expect current-sheet 2
Key alt+1
Expect current-sheet 1
Key "alt+f"
Ack
Expect maximized focused full
`)
	if hr.Executor().ViewName(1) != "client-1" {
		t.Errorf("Expected view 1 named client-1, got %s", hr.Executor().ViewName(1))
	}
}

// =============================================================================
// Failure Tests
// =============================================================================

func TestRunReportsFailingLine(t *testing.T) {
	tests := []struct {
		name   string
		script string
		line   int
		target error
	}{
		{"unknown view", "Map term\nFocus ghost", 2, ErrUnknownView},
		{"failed expectation", "Map term sync\n\nExpect hidden term", 3, ErrExpectation},
		{"unbound key", "Key alt+z", 1, ErrUnboundKey},
		{"shell action", "Action toggle_help", 1, ErrShellAction},
		{"unknown action", "Action fly", 1, ErrUnknownAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stats, err := run(t, tt.script)
			var se *ScriptError
			if !errors.As(err, &se) {
				t.Fatalf("Expected a ScriptError, got %v", err)
			}
			if se.Line != tt.line {
				t.Errorf("Expected line %d, got %d", tt.line, se.Line)
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
			if stats.Success || stats.ErrorMessage == "" {
				t.Errorf("Expected failed stats, got %+v", stats)
			}
		})
	}
}

func TestLoadScriptRejectsSyntaxErrors(t *testing.T) {
	_, err := LoadScript("Move t\nBogus", nil)
	var pe *ParseError
	if !errors.As(err, &pe) || len(pe.Errors) != 2 {
		t.Errorf("Expected two parse errors, got %v", err)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	hr, err := LoadScript("Sleep 10s\nFrame", nil, WithRealtime(true))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	stats, err := hr.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
	if stats.ExecutedCount != 1 {
		t.Errorf("Expected only Sleep executed, got %d", stats.ExecutedCount)
	}
}

// =============================================================================
// Output Tests
// =============================================================================

func TestSnapshotCommand(t *testing.T) {
	var buf bytes.Buffer
	mustRun(t, "Map term sync as t\nGroup t dev\nSnapshot json", WithOutput(&buf, output.FormatYAML))

	var snap output.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &snap); err != nil {
		t.Fatalf("Snapshot is not JSON: %v\n%s", err, buf.String())
	}
	if len(snap.Views) != 1 || snap.Views[0].Group != "dev" {
		t.Errorf("Expected one view in dev, got %+v", snap.Views)
	}
}

func TestScreenCommand(t *testing.T) {
	var buf bytes.Buffer
	mustRun(t, "Output tiny 0 0 20 6\nMap term 8 2 sync\nMoveTo term 2 2\nScreen tiny", WithOutput(&buf, output.FormatYAML))

	if !strings.Contains(buf.String(), "term") {
		t.Errorf("Expected the term surface on screen, got:\n%s", buf.String())
	}
}

func TestSetCommand(t *testing.T) {
	hr := mustRun(t, "Set gap 3\nSet border 0\nSet protocol sync\nMap term\nExpect clean term")
	st := hr.Executor().Server().Settings()
	if st.Gap != 3 || st.Border != 0 {
		t.Errorf("Expected gap 3 border 0, got %+v", st)
	}

	if _, _, err := run(t, "Set speed 11"); err == nil {
		t.Error("Expected unknown setting to fail")
	}
}

func TestReconfigure(t *testing.T) {
	e, err := NewExecutor(nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Step = 9
	cfg.Keybindings["hide_view"] = []string{"alt+h"}
	if err := e.Reconfigure(cfg); err != nil {
		t.Fatal(err)
	}
	if e.Server().Settings().Step != 9 {
		t.Errorf("Expected step 9, got %d", e.Server().Settings().Step)
	}
	if got := e.Registry().GetAction("alt+h"); got != "hide_view" {
		t.Errorf("Expected alt+h bound to hide_view, got %q", got)
	}
}

// =============================================================================
// Player and Recorder Tests
// =============================================================================

func TestPlayerSteps(t *testing.T) {
	cmds, errs := ParseFile("Map term sync\nHide term\nShow term")
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	e, err := NewExecutor(nil)
	if err != nil {
		t.Fatal(err)
	}

	p := NewPlayer(cmds)
	for !p.IsFinished() {
		if _, err := p.Step(e); err != nil {
			t.Fatal(err)
		}
	}
	if st := p.Status(); st.State != StateFinished || st.Progress != 100 {
		t.Errorf("Expected finished at 100%%, got %+v", st)
	}

	p = NewPlayer([]Command{NewCommand(CommandType_Focus, "ghost")})
	if _, err := p.Step(e); err == nil {
		t.Fatal("Expected unknown view to fail")
	}
	st := p.Status()
	if st.State != StateFailed {
		t.Errorf("Expected failed state, got %v", st.State)
	}
	if !strings.Contains(st.Next, "ghost") {
		t.Errorf("Expected the failure in the status, got %q", st.Next)
	}

	p.Rewind()
	if p.Err() != nil || p.IsFinished() {
		t.Error("Expected rewind to clear the failure")
	}
}

func TestPlayerPause(t *testing.T) {
	p := NewPlayer([]Command{NewCommand(CommandType_Frame)})
	p.SetPaused(true)
	e, err := NewExecutor(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Step(e); err != nil || p.CurrentIndex() != 0 {
		t.Errorf("Expected a paused player to stay put, index %d err %v", p.CurrentIndex(), err)
	}
	st := p.Status()
	if st.State != StatePaused {
		t.Errorf("Expected paused, got %v", st.State)
	}
	if st.Next != "Frame" {
		t.Errorf("Expected next command Frame, got %q", st.Next)
	}
}

func TestRecorderProducesRunnableScript(t *testing.T) {
	r := NewRecorder()
	r.RecordAction("map_view") // not recording yet
	r.Start()
	r.RecordAction("map_view")
	r.Record(NewCommand(CommandType_Hide, "focused"))
	r.RecordSleep(20 * time.Millisecond)
	r.Stop()

	if r.CommandCount() < 3 {
		t.Fatalf("Expected at least 3 commands, got %d", r.CommandCount())
	}
	script := r.String("demo")
	if !strings.HasPrefix(script, "# demo\n") {
		t.Errorf("Expected header, got:\n%s", script)
	}

	hr := mustRun(t, script+"Expect views 1\nExpect hidden client-1\n")
	if hr.Executor().ViewName(1) != "client-1" {
		t.Errorf("Expected the recorded client to be named client-1, got %s", hr.Executor().ViewName(1))
	}
}
