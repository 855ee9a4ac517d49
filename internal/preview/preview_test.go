package preview

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/sheetwm/internal/config"
	"github.com/Gaurav-Gosain/sheetwm/internal/tape"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
)

func newModel(t *testing.T, opts Options) *Model {
	t.Helper()
	m, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 25})
	return m
}

func alt(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModAlt}
}

func text(s string) []tea.KeyPressMsg {
	var keys []tea.KeyPressMsg
	for _, r := range s {
		keys = append(keys, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return keys
}

// erase returns a backspace for every rune of the group-assign buffer.
func erase(m *Model) []tea.KeyPressMsg {
	n := len([]rune(m.Executor().Server().Mode().Input.String()))
	keys := make([]tea.KeyPressMsg, n)
	for i := range keys {
		keys[i] = tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	return keys
}

func press(m *Model, keys ...tea.KeyPressMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

func focused(t *testing.T, m *Model) *wm.View {
	t.Helper()
	v, ok := m.Executor().Server().Focused()
	if !ok {
		t.Fatal("Expected a focused view")
	}
	return v
}

// =============================================================================
// Desktop Tests
// =============================================================================

func TestWindowSizeCreatesOutput(t *testing.T) {
	m := newModel(t, Options{})

	outs := m.Executor().Server().Outputs()
	if len(outs) != 1 {
		t.Fatalf("Expected 1 output, got %d", len(outs))
	}
	if g := outs[0].Geometry; g.Width != 80 || g.Height != 24 {
		t.Errorf("Expected 80x24 output, got %dx%d", g.Width, g.Height)
	}

	// later resizes keep the output
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if len(m.Executor().Server().Outputs()) != 1 {
		t.Error("Expected resize to keep a single output")
	}
}

func TestRenderDesktopCropsToTerminal(t *testing.T) {
	m := newModel(t, Options{})
	m.width, m.height = 20, 5

	lines := strings.Split(m.renderDesktop(), "\n")
	if len(lines) != 4 {
		t.Errorf("Expected 4 desktop rows, got %d", len(lines))
	}
}

// =============================================================================
// Key Dispatch Tests
// =============================================================================

func TestKeysRunActions(t *testing.T) {
	m := newModel(t, Options{AutoAck: true})

	press(m, tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt})
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt})
	if n := len(m.Executor().Server().Views()); n != 2 {
		t.Fatalf("Expected 2 views, got %d", n)
	}

	press(m, alt('f'))
	m.Update(TickerMsg{})
	if mx := focused(t, m).Maximized(); mx == nil || mx.Maximization != wm.MaximizedFull {
		t.Errorf("Expected focused view fully maximized after the tick acknowledged it, got %v", mx)
	}

	press(m, alt('2'))
	if nr := m.Executor().Server().Workspace().CurrentSheet().Nr; nr != 2 {
		t.Errorf("Expected sheet 2, got %d", nr)
	}
}

func TestUnboundKeysAreIgnored(t *testing.T) {
	m := newModel(t, Options{})
	press(m, alt('z'))
	if m.notice.text != "" {
		t.Errorf("Expected no notification, got %q", m.notice.text)
	}
}

func TestFailingActionNotifies(t *testing.T) {
	m := newModel(t, Options{})
	press(m, alt('g')) // group-assign needs a focused view
	if !m.notice.isError {
		t.Error("Expected an error notification")
	}
	if mode := m.Executor().Server().Mode().Mode; mode != wm.ModeNormal {
		t.Errorf("Expected normal mode, got %v", mode)
	}
}

// =============================================================================
// Mode Tests
// =============================================================================

func TestGroupAssignKeys(t *testing.T) {
	m := newModel(t, Options{})
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt})

	press(m, alt('g'))
	if got := m.Executor().Server().Mode().Input.String(); got != "client-1" {
		t.Errorf("Expected input prefilled with the group name, got %q", got)
	}
	press(m, erase(m)...)
	press(m, text("webx")...)
	press(m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	if got := m.Executor().Server().Mode().Input.String(); got != "web" {
		t.Errorf("Expected input web, got %q", got)
	}
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if g := focused(t, m).Group().Name; g != "web" {
		t.Errorf("Expected group web, got %q", g)
	}
	if mode := m.Executor().Server().Mode().Mode; mode != wm.ModeNormal {
		t.Errorf("Expected normal mode, got %v", mode)
	}
}

func TestSheetAssignKeys(t *testing.T) {
	m := newModel(t, Options{})
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt})
	v := focused(t, m)

	press(m, alt('s'))
	press(m, text("3")...)
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if v.Sheet().Nr != 3 || !v.IsHidden() {
		t.Errorf("Expected view hidden on sheet 3, got sheet %d hidden %v", v.Sheet().Nr, v.IsHidden())
	}
}

func TestMarkKeys(t *testing.T) {
	m := newModel(t, Options{})
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt})
	v := focused(t, m)

	press(m, alt('m'))
	press(m, text("q")...)
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if v.Mark() != 'q' {
		t.Fatalf("Expected mark q, got %q", v.Mark())
	}

	press(m, alt('m'))
	press(m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	if v.Mark() != 0 {
		t.Errorf("Expected mark cleared, got %q", v.Mark())
	}
}

func TestEscapeLeavesMode(t *testing.T) {
	m := newModel(t, Options{})
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt})

	for _, key := range []rune{'g', 'm', 's', '\''} {
		press(m, alt(key))
		press(m, tea.KeyPressMsg{Code: tea.KeyEscape})
		if mode := m.Executor().Server().Mode().Mode; mode != wm.ModeNormal {
			t.Errorf("alt+%c: Expected normal mode after esc, got %v", key, mode)
		}
	}
}

func TestMouseClickFocuses(t *testing.T) {
	m := newModel(t, Options{})
	e := m.Executor()
	for _, line := range []string{"Map left 10 4 sync", "Map right 10 4 sync", "MoveTo left 40 10", "MoveTo right 5 5"} {
		cmds, errs := tape.ParseFile(line)
		if len(errs) > 0 {
			t.Fatal(errs)
		}
		if err := e.Execute(cmds[0]); err != nil {
			t.Fatal(err)
		}
	}

	m.Update(tea.MouseClickMsg{X: 42, Y: 12, Button: tea.MouseLeft})
	if v := focused(t, m); v.AppID != "left" {
		t.Errorf("Expected left focused, got %s", v.AppID)
	}

	m.Update(tea.MouseClickMsg{X: 7, Y: 6, Button: tea.MouseLeft})
	if v := focused(t, m); v.AppID != "right" {
		t.Errorf("Expected right focused, got %s", v.AppID)
	}
}

// =============================================================================
// Shell Feature Tests
// =============================================================================

func TestHelpToggle(t *testing.T) {
	m := newModel(t, Options{})
	press(m, alt('?'))
	if !m.showHelp {
		t.Fatal("Expected help shown")
	}
	if help := m.renderHelp(); !strings.Contains(help, "Map a new client") {
		t.Errorf("Expected help to list map_view, got:\n%s", help)
	}
	press(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.showHelp {
		t.Error("Expected help hidden after esc")
	}
}

func TestHelpScrolls(t *testing.T) {
	m := newModel(t, Options{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	press(m, alt('?'))
	_ = m.renderHelp()

	press(m, tea.KeyPressMsg{Code: tea.KeyDown})
	if m.help.YOffset() == 0 {
		t.Error("Expected down to scroll the help")
	}
	if !m.showHelp {
		t.Error("Expected help to stay open while scrolling")
	}

	// reopening starts at the top
	press(m, tea.KeyPressMsg{Code: tea.KeyEscape}, alt('?'))
	if m.help.YOffset() != 0 {
		t.Errorf("Expected offset 0 after reopening, got %d", m.help.YOffset())
	}
}

func TestRecordingCapturesActions(t *testing.T) {
	m := newModel(t, Options{})
	m.Recorder().Start()
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt})
	press(m, alt('g'))
	press(m, erase(m)...)
	press(m, text("dev")...)
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m.stopRecording()

	script := m.Recorder().String("test")
	for _, want := range []string{"Action map_view", "Action mode_group_assign", "Erase", "Input d", "Confirm"} {
		if !strings.Contains(script, want) {
			t.Errorf("Expected recording to contain %q, got:\n%s", want, script)
		}
	}

	// the recording replays to the same state
	hr, err := tape.LoadScript(script+"Expect group client-1 dev\n", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := hr.Run(t.Context()); err != nil {
		t.Errorf("Expected recording to replay, got %v", err)
	}
}

func TestScriptPlayback(t *testing.T) {
	cmds, errs := tape.ParseFile("Map term sync as t\nPin t 4\nSwitchSheet 4")
	if len(errs) > 0 {
		t.Fatal(errs)
	}
	m := newModel(t, Options{Script: cmds})

	for range 10 {
		m.Update(ScriptStepMsg{})
	}
	if nr := m.Executor().Server().Workspace().CurrentSheet().Nr; nr != 4 {
		t.Errorf("Expected sheet 4 after playback, got %d", nr)
	}
	if m.notice.text != "Script finished" {
		t.Errorf("Expected finish notification, got %q", m.notice.text)
	}
}

func TestConfigReload(t *testing.T) {
	m := newModel(t, Options{})
	cfg := config.DefaultConfig()
	cfg.Gap = 7

	m.Update(ConfigReloadMsg{Config: cfg})
	if gap := m.Executor().Server().Settings().Gap; gap != 7 {
		t.Errorf("Expected gap 7, got %d", gap)
	}

	m.Update(ConfigReloadMsg{Err: config.ErrInvalidConfig})
	if !m.notice.isError {
		t.Error("Expected failed reload to notify")
	}
}

func TestStatusBar(t *testing.T) {
	m := newModel(t, Options{})
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt})

	bar := m.renderStatusBar()
	for _, want := range []string{"NORMAL", "sheet 1", "client-1"} {
		if !strings.Contains(bar, want) {
			t.Errorf("Expected status bar to contain %q, got %q", want, bar)
		}
	}
}
