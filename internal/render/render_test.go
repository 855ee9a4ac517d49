package render_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/render"
	"github.com/Gaurav-Gosain/sheetwm/internal/sim"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	uv "github.com/charmbracelet/ultraviolet"
)

// recorder is a Backend that logs every call.
type recorder struct {
	calls []string
}

func (b *recorder) add(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *recorder) Clear(o *wm.Output, clip uv.Rectangle) { b.add("clear") }

func (b *recorder) Background(o *wm.Output, alpha float64, clip uv.Rectangle) {
	b.add("background %.1f", alpha)
}

func (b *recorder) Border(o *wm.Output, br geometry.Border, role render.Role, clip uv.Rectangle) {
	b.add("border %v", role)
}

func (b *recorder) Surface(o *wm.Output, v *wm.View, n wm.SurfaceNode, box geometry.Box, clip uv.Rectangle) {
	b.add("surface %s", v.AppID)
}

func (b *recorder) Frame(o *wm.Output, box geometry.Box, role render.Role, clip uv.Rectangle) {
	b.add("frame %v", role)
}

func (b *recorder) Indicator(o *wm.Output, ind render.Indicator, clip uv.Rectangle) {
	var texts []string
	for _, l := range ind.Lines {
		texts = append(texts, l.Text)
	}
	b.add("indicator %s", strings.Join(texts, "|"))
}

func (b *recorder) index(call string) int {
	for i, c := range b.calls {
		if c == call {
			return i
		}
	}
	return -1
}

func (b *recorder) has(prefix string) bool {
	for _, c := range b.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

type fixture struct {
	server   *wm.Server
	display  *sim.Display
	backend  *recorder
	renderer *render.Renderer
	output   *wm.Output
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := wm.NewServer()
	o := s.AddOutput("main", geometry.NewBox(0, 0, 80, 24))
	b := &recorder{}
	return &fixture{
		server:   s,
		display:  sim.NewDisplay(s),
		backend:  b,
		renderer: render.New(s, b),
		output:   o,
	}
}

func (f *fixture) mapView(t *testing.T, app string, x, y int) *sim.Client {
	t.Helper()
	c, err := f.display.Map(app, sim.ClientOptions{Protocol: sim.Sync, Width: 10, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.server.MoveAbsolute(c.View(), x, y); err != nil {
		t.Fatal(err)
	}
	return c
}

// =============================================================================
// Frame Dispatch Tests
// =============================================================================

func TestRenderSkipsUndamagedOutput(t *testing.T) {
	f := newFixture(t)
	f.renderer.RenderOutput(f.output)
	f.backend.calls = nil

	if f.renderer.RenderOutput(f.output) {
		t.Error("Expected no draw without damage")
	}
	if len(f.backend.calls) != 0 {
		t.Errorf("Expected no backend calls, got %v", f.backend.calls)
	}
	if st := f.renderer.Stats(); st.Skipped != 1 || st.Rendered != 1 {
		t.Errorf("Unexpected stats %+v", st)
	}
}

func TestRenderOrder(t *testing.T) {
	f := newFixture(t)
	f.mapView(t, "back", 2, 2)
	f.mapView(t, "front", 4, 4)
	f.output.DamageWhole()

	if !f.renderer.RenderOutput(f.output) {
		t.Fatal("Expected output drawn")
	}
	calls := f.backend.calls
	if calls[0] != "clear" {
		t.Errorf("Expected clear first, got %v", calls)
	}
	bg := f.backend.index("background 1.0")
	back := f.backend.index("surface back")
	front := f.backend.index("surface front")
	if bg < 0 || back < bg || front < back {
		t.Errorf("Expected background, then back-to-front views, got %v", calls)
	}
	if border := f.backend.index("border border_inactive"); border < 0 || border > back {
		t.Errorf("Expected inactive border drawn before its surface, got %v", calls)
	}
	if !f.output.Damage().Empty() {
		t.Error("Expected damage cleared after rendering")
	}
}

func TestRenderEmptyOutputOnlyClears(t *testing.T) {
	f := newFixture(t)
	f.output.DamageWhole()
	f.renderer.RenderOutput(f.output)
	if f.backend.has("background") {
		t.Errorf("Expected no background on an empty output, got %v", f.backend.calls)
	}
}

func TestRenderSkipsHiddenViews(t *testing.T) {
	f := newFixture(t)
	c := f.mapView(t, "gone", 2, 2)
	f.mapView(t, "kept", 20, 2)
	if err := f.server.Hide(c.View()); err != nil {
		t.Fatal(err)
	}
	f.output.DamageWhole()
	f.renderer.RenderOutput(f.output)
	if f.backend.has("surface gone") {
		t.Error("Expected hidden view skipped")
	}
}

func TestRenderClipsToDamage(t *testing.T) {
	f := newFixture(t)
	f.mapView(t, "left", 0, 0)
	f.mapView(t, "right", 50, 10)
	f.renderer.RenderOutput(f.output)
	f.backend.calls = nil

	f.output.AddDamage(uv.Rect(0, 0, 5, 5))
	f.renderer.RenderOutput(f.output)
	if f.backend.has("surface right") {
		t.Error("Expected undamaged view not drawn")
	}
	if !f.backend.has("surface left") {
		t.Error("Expected damaged view drawn")
	}
}

func TestFrameDoneIncludesHiddenViews(t *testing.T) {
	f := newFixture(t)
	hidden := f.mapView(t, "hidden", 0, 0)
	shown := f.mapView(t, "shown", 20, 0)
	if err := f.server.Hide(hidden.View()); err != nil {
		t.Fatal(err)
	}

	if n := f.renderer.Frame(time.Now()); n != 1 {
		t.Errorf("Expected one output drawn, got %d", n)
	}
	if hidden.Frames() != 1 || shown.Frames() != 1 {
		t.Errorf("Expected frame callbacks for every view, got hidden=%d shown=%d", hidden.Frames(), shown.Frames())
	}
}

// =============================================================================
// Mode Overlay Tests
// =============================================================================

func TestNormalModeShowsGroupWithModifier(t *testing.T) {
	f := newFixture(t)
	f.mapView(t, "term", 0, 0)
	f.mapView(t, "term", 20, 0)
	f.mapView(t, "term", 40, 0)
	f.renderer.RenderOutput(f.output)
	f.backend.calls = nil

	f.renderer.SetModifier(true)
	f.renderer.RenderOutput(f.output)
	if !f.backend.has("frame indicator_selected") || !f.backend.has("frame indicator_grouped") {
		t.Errorf("Expected group frames, got %v", f.backend.calls)
	}
	if !f.backend.has("indicator term|1|term|") {
		t.Errorf("Expected focused indicator, got %v", f.backend.calls)
	}

	f.renderer.SetModifier(false)
	f.backend.calls = nil
	f.renderer.RenderOutput(f.output)
	if f.backend.has("frame") {
		t.Error("Expected no frames without modifier")
	}
}

func TestGroupAssignIndicator(t *testing.T) {
	f := newFixture(t)
	f.mapView(t, "term", 0, 0)
	if err := f.server.EnterMode(wm.ModeGroupAssign); err != nil {
		t.Fatal(err)
	}
	f.server.GroupAssignErase()
	f.server.GroupAssignErase()
	f.server.GroupAssignErase()
	f.server.GroupAssignErase()
	f.server.GroupAssignInput('4')

	v, _ := f.server.Focused()
	ind := f.renderer.IndicatorFor(v, f.server.Mode())
	if got := ind.Lines[2]; got.Text != "4" || got.Role != render.RoleIndicatorConflict {
		t.Errorf("Expected conflicting group line, got %+v", got)
	}
}

func TestLockModeDimsAndShowsPublicViews(t *testing.T) {
	s := wm.NewServer(wm.WithRules(map[string]wm.Rule{
		"clock": {Sheet: -1, Public: true},
	}))
	o := s.AddOutput("main", geometry.NewBox(0, 0, 80, 24))
	d := sim.NewDisplay(s)
	b := &recorder{}
	r := render.New(s, b)

	if _, err := d.Map("clock", sim.ClientOptions{Protocol: sim.Sync, Width: 5, Height: 2}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Map("secret", sim.ClientOptions{Protocol: sim.Sync, Width: 5, Height: 2}); err != nil {
		t.Fatal(err)
	}
	if err := s.EnterMode(wm.ModeLock); err != nil {
		t.Fatal(err)
	}
	r.RenderOutput(o)

	dim := b.index("background 0.1")
	if dim < 0 {
		t.Fatalf("Expected dimmed background, got %v", b.calls)
	}
	var after []string
	for _, c := range b.calls[dim:] {
		if strings.HasPrefix(c, "surface") {
			after = append(after, c)
		}
	}
	if len(after) != 1 || after[0] != "surface clock" {
		t.Errorf("Expected only the public view above the lock, got %v", after)
	}
	if !b.has("indicator locked") {
		t.Error("Expected lock indicator")
	}
}

func TestMoveModeShowsGeometry(t *testing.T) {
	f := newFixture(t)
	c := f.mapView(t, "term", 3, 2)
	if err := f.server.EnterMode(wm.ModeMove); err != nil {
		t.Fatal(err)
	}
	v, _ := f.server.View(c.View())
	ind := f.renderer.IndicatorFor(v, f.server.Mode())
	if ind.Lines[0].Text != "10x4+3+2" || ind.Lines[0].Role != render.RoleIndicatorInsert {
		t.Errorf("Expected geometry line, got %+v", ind.Lines[0])
	}
}

func TestRoleNames(t *testing.T) {
	for _, r := range render.Roles() {
		if r.String() == "unknown" {
			t.Errorf("Role %d has no name", r)
		}
	}
}
