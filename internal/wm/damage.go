package wm

import "github.com/Gaurav-Gosain/sheetwm/internal/geometry"

func (s *Server) damageWholeSurface(v *View, geo geometry.Box, n SurfaceNode) {
	if n.Main {
		v.output.AddDamageBox(v.border.Geometry)
		return
	}
	v.output.AddDamageBox(n.Box(geo))
}

// damageWhole damages every surface of v. Client-decorated views damage the
// whole output.
func (s *Server) damageWhole(v *View) {
	if v.surface.ClientDecorated() {
		v.output.DamageWhole()
		return
	}
	geo := v.CurrentGeometry()
	v.ForEachSurface(func(n SurfaceNode) {
		s.damageWholeSurface(v, geo, n)
	})
}

// DamageWhole damages every surface of a view.
func (s *Server) DamageWhole(id ViewID) error {
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	s.damageWhole(v)
	return nil
}

// DamageSurface damages the index-th surface of a view after the client
// committed new content. The client's reported damage is used when present
// and whole is false; otherwise the whole surface is damaged.
func (s *Server) DamageSurface(id ViewID, index int, whole bool) error {
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	if v.IsHidden() {
		return nil
	}
	if v.surface.ClientDecorated() {
		v.output.DamageWhole()
		return nil
	}

	geo := v.CurrentGeometry()
	i := 0
	v.ForEachSurface(func(n SurfaceNode) {
		defer func() { i++ }()
		if i != index {
			return
		}
		if whole || n.Damage.Empty() {
			s.damageWholeSurface(v, geo, n)
			return
		}
		for _, r := range n.Damage.Translate(geo.X+n.X, geo.Y+n.Y).Rects() {
			v.output.AddDamage(r)
		}
	})
	return nil
}

// IndicatorBox returns the output-local box of the indicator drawn for v.
func (s *Server) IndicatorBox(v *View) geometry.Box {
	geo := v.CurrentGeometry()
	return geometry.Box{
		X:      geo.X,
		Y:      geo.Y,
		Width:  min(s.settings.IndicatorWidth, max(geo.Width, 0)),
		Height: min(s.settings.IndicatorHeight, max(geo.Height, 0)),
	}
}

func (s *Server) damageIndicator(v *View) {
	if v.output == nil {
		return
	}
	v.output.AddDamageBox(s.IndicatorBox(v))
}
