package sim

import (
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	uv "github.com/charmbracelet/ultraviolet"
)

// DamageRecorder is a wm.DamageListener that keeps every damage event so
// tests can assert on what was invalidated.
type DamageRecorder struct {
	regions map[string]*geometry.Region
	rects   map[string][]uv.Rectangle
	whole   map[string]int
}

// NewDamageRecorder returns an empty recorder.
func NewDamageRecorder() *DamageRecorder {
	r := &DamageRecorder{}
	r.Reset()
	return r
}

// AddDamage implements wm.DamageListener.
func (r *DamageRecorder) AddDamage(o *wm.Output, rect uv.Rectangle) {
	r.region(o.Name).Add(rect)
	r.rects[o.Name] = append(r.rects[o.Name], rect)
}

// DamageWhole implements wm.DamageListener.
func (r *DamageRecorder) DamageWhole(o *wm.Output) {
	r.whole[o.Name]++
	r.region(o.Name).AddBox(o.Bounds())
}

func (r *DamageRecorder) region(name string) *geometry.Region {
	reg, ok := r.regions[name]
	if !ok {
		reg = &geometry.Region{}
		r.regions[name] = reg
	}
	return reg
}

// Region returns everything damaged on the named output since the last reset.
func (r *DamageRecorder) Region(name string) geometry.Region {
	if reg, ok := r.regions[name]; ok {
		return *reg
	}
	return geometry.Region{}
}

// Rects returns the individual rectangles added on the named output.
func (r *DamageRecorder) Rects(name string) []uv.Rectangle {
	return append([]uv.Rectangle(nil), r.rects[name]...)
}

// Whole returns how often the named output was damaged whole.
func (r *DamageRecorder) Whole(name string) int { return r.whole[name] }

// Reset forgets all recorded damage.
func (r *DamageRecorder) Reset() {
	r.regions = map[string]*geometry.Region{}
	r.rects = map[string][]uv.Rectangle{}
	r.whole = map[string]int{}
}
