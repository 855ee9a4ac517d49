// Package render walks the window manager state and issues draw calls for
// every damaged output.
package render

import (
	"io"
	"time"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/pool"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	uv "github.com/charmbracelet/ultraviolet"
)

// Stats counts frames per renderer.
type Stats struct {
	Rendered int
	Skipped  int
}

// Renderer turns accumulated output damage into backend draw calls.
type Renderer struct {
	server   *wm.Server
	backend  Backend
	logger   *log.Logger
	modifier bool
	stats    Stats
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for frame diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// New creates a renderer drawing server state through backend.
func New(server *wm.Server, backend Backend, opts ...Option) *Renderer {
	r := &Renderer{
		server:  server,
		backend: backend,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetModifier records whether the modifier key is held. Normal mode shows
// group indicators while it is.
func (r *Renderer) SetModifier(held bool) {
	if r.modifier == held {
		return
	}
	r.modifier = held
	for _, o := range r.server.Outputs() {
		o.DamageWhole()
	}
}

// Stats returns the frame counters.
func (r *Renderer) Stats() Stats { return r.stats }

// Frame renders every output with damage and delivers frame-done callbacks.
// It returns the number of outputs drawn.
func (r *Renderer) Frame(now time.Time) int {
	drawn := 0
	for _, o := range r.server.Outputs() {
		if r.RenderOutput(o) {
			drawn++
		}
		r.FrameDone(o, now)
	}
	return drawn
}

// RenderOutput draws o if it has accumulated damage and clears the damage.
// It reports whether anything was drawn.
func (r *Renderer) RenderOutput(o *wm.Output) bool {
	damage := o.Damage()
	if damage.Empty() {
		r.stats.Skipped++
		return false
	}

	rects := pool.GetRectSlice()
	defer pool.PutRectSlice(rects)
	*rects = append(*rects, damage.Rects()...)

	for _, clip := range *rects {
		r.backend.Clear(o, clip)
	}

	if len(o.Views()) > 0 {
		for _, clip := range *rects {
			r.backend.Background(o, 1, clip)
		}
		r.renderWorkspace(o, *rects, false)
	}
	r.renderMode(o, *rects)

	o.ClearDamage()
	r.stats.Rendered++
	r.logger.Debug("rendered output", "output", o.Name, "rects", len(*rects))
	return true
}

// renderWorkspace draws the output's visible views back to front. With
// publicOnly set only public views are drawn.
func (r *Renderer) renderWorkspace(o *wm.Output, rects []uv.Rectangle, publicOnly bool) {
	ids := o.Workspace().Views()
	for i := len(ids) - 1; i >= 0; i-- {
		v, err := r.server.View(ids[i])
		if err != nil || v.IsHidden() {
			continue
		}
		if publicOnly && !v.IsPublic() {
			continue
		}
		r.renderView(o, v, rects)
	}
}

func (r *Renderer) renderView(o *wm.Output, v *wm.View, rects []uv.Rectangle) {
	if role, ok := borderRole(v.BorderState()); ok {
		b := v.Border()
		clipped(rects, b.Geometry, func(clip uv.Rectangle) {
			r.backend.Border(o, b, role, clip)
		})
	}

	geo := v.CurrentGeometry()
	v.ForEachSurface(func(n wm.SurfaceNode) {
		box := n.Box(geo)
		clipped(rects, box, func(clip uv.Rectangle) {
			r.backend.Surface(o, v, n, box, clip)
		})
	})
}

func borderRole(s geometry.BorderState) (Role, bool) {
	switch s {
	case geometry.BorderActive:
		return RoleBorderActive, true
	case geometry.BorderInactive:
		return RoleBorderInactive, true
	}
	return 0, false
}

// clipped calls fn once for every damaged rectangle overlapping box.
func clipped(rects []uv.Rectangle, box geometry.Box, fn func(uv.Rectangle)) {
	target := box.Rect()
	for _, rect := range rects {
		if clip := rect.Intersect(target); !clip.Empty() {
			fn(clip)
		}
	}
}

// FrameDone notifies every surface on o, hidden views included, that a frame
// was presented.
func (r *Renderer) FrameDone(o *wm.Output, now time.Time) {
	ids := o.Views()
	for i := len(ids) - 1; i >= 0; i-- {
		v, err := r.server.View(ids[i])
		if err != nil {
			continue
		}
		if fn, ok := v.Surface().(wm.FrameNotifier); ok {
			fn.FrameDone(now)
		}
	}
}
