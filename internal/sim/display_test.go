package sim_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/sim"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	uv "github.com/charmbracelet/ultraviolet"
)

func newDisplay(t *testing.T) (*wm.Server, *sim.Display) {
	t.Helper()
	s := wm.NewServer()
	s.AddOutput("main", geometry.NewBox(0, 0, 80, 24))
	return s, sim.NewDisplay(s)
}

func TestParseProtocol(t *testing.T) {
	for _, name := range []string{"async", "sync", "move-resize"} {
		p, err := sim.ParseProtocol(name)
		if err != nil {
			t.Fatalf("ParseProtocol(%q): %v", name, err)
		}
		if p.String() != name {
			t.Errorf("Expected %q, got %q", name, p.String())
		}
	}
	if _, err := sim.ParseProtocol("wayland"); err == nil {
		t.Error("Expected unknown protocol to fail")
	}
}

func TestAsyncClientAppliesSizeOnFlush(t *testing.T) {
	s, d := newDisplay(t)
	c, err := d.Map("term", sim.ClientOptions{Protocol: sim.Async, Width: 10, Height: 5})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ResizeAbsolute(c.View(), 20, 8); err != nil {
		t.Fatal(err)
	}
	if w, h := c.Size(); w != 10 || h != 5 {
		t.Errorf("Expected old size before flush, got %dx%d", w, h)
	}
	if d.Pending() != 1 {
		t.Fatalf("Expected one pending acknowledgement, got %d", d.Pending())
	}

	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	if w, h := c.Size(); w != 20 || h != 8 {
		t.Errorf("Expected new size after flush, got %dx%d", w, h)
	}
	if d.Pending() != 0 {
		t.Errorf("Expected queue drained, got %d", d.Pending())
	}
}

func TestFlushViewLeavesOthersQueued(t *testing.T) {
	s, d := newDisplay(t)
	a, _ := d.Map("a", sim.ClientOptions{Protocol: sim.Async, Width: 10, Height: 5})
	b, _ := d.Map("b", sim.ClientOptions{Protocol: sim.Async, Width: 10, Height: 5})

	if err := s.ResizeAbsolute(a.View(), 12, 6); err != nil {
		t.Fatal(err)
	}
	if err := s.ResizeAbsolute(b.View(), 12, 6); err != nil {
		t.Fatal(err)
	}
	if err := d.FlushView(b.View()); err != nil {
		t.Fatal(err)
	}
	if d.Pending() != 1 {
		t.Errorf("Expected a still queued, got %d pending", d.Pending())
	}
	if v, _ := s.View(a.View()); !v.IsDirty() {
		t.Error("Expected a to stay dirty")
	}
}

func TestUnmapUnknownClient(t *testing.T) {
	_, d := newDisplay(t)
	if err := d.Unmap(7); !errors.Is(err, wm.ErrViewNotFound) {
		t.Errorf("Expected ErrViewNotFound, got %v", err)
	}
}

func TestMapWithTitle(t *testing.T) {
	s, d := newDisplay(t)
	c, err := d.Map("term", sim.ClientOptions{Protocol: sim.Sync, Width: 10, Height: 5, Title: "shell"})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := s.View(c.View())
	if v.Title() != "shell" || c.Label() != "shell" {
		t.Errorf("Expected title shell, got %q / %q", v.Title(), c.Label())
	}
	if _, ok := d.Client(c.View()); !ok {
		t.Error("Expected client lookup by view")
	}
}

func TestSurfaceProtocols(t *testing.T) {
	_, d := newDisplay(t)
	plain := d.NewClient("a", sim.ClientOptions{Protocol: sim.Sync})
	if _, ok := plain.Surface().(wm.MoveResizer); ok {
		t.Error("Expected sync client without move-resize")
	}
	x := d.NewClient("b", sim.ClientOptions{Protocol: sim.MoveResize})
	if _, ok := x.Surface().(wm.MoveResizer); !ok {
		t.Error("Expected move-resize client to expose MoveResizer")
	}
	if _, ok := x.Surface().(wm.FrameNotifier); !ok {
		t.Error("Expected move-resize client to keep frame callbacks")
	}
}

func TestCommitOutOfRange(t *testing.T) {
	_, d := newDisplay(t)
	c, _ := d.Map("a", sim.ClientOptions{Protocol: sim.Sync, Width: 4, Height: 4})
	if err := c.Commit(3, uv.Rect(0, 0, 1, 1)); err == nil {
		t.Error("Expected error for missing subsurface")
	}
}

func TestFrameDoneCounts(t *testing.T) {
	_, d := newDisplay(t)
	c, _ := d.Map("a", sim.ClientOptions{Protocol: sim.Sync, Width: 4, Height: 4})
	d.FrameDone(time.Now())
	d.FrameDone(time.Now())
	if c.Frames() != 2 {
		t.Errorf("Expected 2 frames, got %d", c.Frames())
	}
}

func TestDamageRecorder(t *testing.T) {
	rec := sim.NewDamageRecorder()
	s := wm.NewServer(wm.WithDamageListener(rec))
	o := s.AddOutput("main", geometry.NewBox(0, 0, 10, 10))

	o.AddDamage(uv.Rect(1, 1, 2, 2))
	if len(rec.Rects("main")) != 1 {
		t.Errorf("Expected one rect, got %v", rec.Rects("main"))
	}
	rec.Reset()
	o.DamageWhole()
	if rec.Whole("main") != 1 || !rec.Region("main").Covers(uv.Rect(0, 0, 10, 10)) {
		t.Error("Expected whole-output damage recorded")
	}
}
