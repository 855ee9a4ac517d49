package wm

import (
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	uv "github.com/charmbracelet/ultraviolet"
)

// Output is a monitor. Geometry is its place in the global layout; view
// geometry is output-local.
type Output struct {
	Name     string
	Geometry geometry.Box

	views     seq[ViewID]
	workspace *Workspace
	damage    geometry.Region
	listener  DamageListener
}

// Views returns every view on the output, hidden ones included.
func (o *Output) Views() []ViewID { return o.views.clone() }

// Workspace returns the output's workspace.
func (o *Output) Workspace() *Workspace { return o.workspace }

// Bounds returns the output-local box covering the whole output.
func (o *Output) Bounds() geometry.Box {
	return geometry.Box{Width: o.Geometry.Width, Height: o.Geometry.Height}
}

// UsableArea returns the output-local area available to views.
func (o *Output) UsableArea() geometry.Box { return o.Bounds() }

// AddDamage accumulates damage clipped to the output.
func (o *Output) AddDamage(rect uv.Rectangle) {
	rect = rect.Intersect(o.Bounds().Rect())
	if rect.Empty() {
		return
	}
	o.damage.Add(rect)
	if o.listener != nil {
		o.listener.AddDamage(o, rect)
	}
}

// AddDamageBox accumulates damage for a box.
func (o *Output) AddDamageBox(b geometry.Box) {
	o.AddDamage(b.Rect())
}

// DamageWhole marks the entire output as damaged.
func (o *Output) DamageWhole() {
	o.damage.Clear()
	o.damage.AddBox(o.Bounds())
	if o.listener != nil {
		o.listener.DamageWhole(o)
	}
}

// Damage returns the accumulated damage.
func (o *Output) Damage() geometry.Region { return o.damage }

// ClearDamage drops the accumulated damage after a frame.
func (o *Output) ClearDamage() { o.damage.Clear() }
