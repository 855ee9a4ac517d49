package wm

import "github.com/Gaurav-Gosain/sheetwm/internal/geometry"

func (s *Server) queueFullMaximize(v *View) {
	s.queue(v, Operation{Kind: OpFullMaximize, Geometry: v.output.Bounds()})
}

func (s *Server) queueUnmaximize(v *View) {
	target := v.geometry
	if v.tile != nil {
		target = v.tile.ViewGeometry
	}
	s.queue(v, Operation{Kind: OpUnmaximize, Geometry: target})
}

func (s *Server) queueHorizontalMaximize(v *View) {
	g := *v.unmaximizedGeometry()
	bounds := v.output.Bounds()
	s.queue(v, Operation{
		Kind:     OpHorizontalMaximize,
		Geometry: geometry.Box{X: 0, Y: g.Y, Width: bounds.Width, Height: g.Height},
	})
}

func (s *Server) queueVerticalMaximize(v *View) {
	g := *v.unmaximizedGeometry()
	bounds := v.output.Bounds()
	s.queue(v, Operation{
		Kind:     OpVerticalMaximize,
		Geometry: geometry.Box{X: g.X, Y: 0, Width: g.Width, Height: bounds.Height},
	})
}

func (s *Server) maximization(v *View) Maximization {
	if v.maximized == nil {
		return 0
	}
	return v.maximized.Maximization
}

// ToggleFullMaximize maximizes a visible view to its whole output, or
// restores it when already fully maximized.
func (s *Server) ToggleFullMaximize(id ViewID) error {
	v, err := s.visibleView(id)
	if err != nil || v.IsDirty() {
		return err
	}
	if s.maximization(v) == MaximizedFull {
		s.queueUnmaximize(v)
	} else {
		s.queueFullMaximize(v)
	}
	return nil
}

// ToggleVerticalMaximize cycles the vertical axis: a fully maximized view
// keeps only its horizontal extent and a horizontally maximized one grows to
// full.
func (s *Server) ToggleVerticalMaximize(id ViewID) error {
	v, err := s.visibleView(id)
	if err != nil || v.IsDirty() {
		return err
	}
	switch s.maximization(v) {
	case MaximizedFull:
		s.queueHorizontalMaximize(v)
	case MaximizedVertical:
		s.queueUnmaximize(v)
	case MaximizedHorizontal:
		s.queueFullMaximize(v)
	default:
		s.queueVerticalMaximize(v)
	}
	return nil
}

// ToggleHorizontalMaximize mirrors ToggleVerticalMaximize for the x axis.
func (s *Server) ToggleHorizontalMaximize(id ViewID) error {
	v, err := s.visibleView(id)
	if err != nil || v.IsDirty() {
		return err
	}
	switch s.maximization(v) {
	case MaximizedFull:
		s.queueVerticalMaximize(v)
	case MaximizedVertical:
		s.queueFullMaximize(v)
	case MaximizedHorizontal:
		s.queueUnmaximize(v)
	default:
		s.queueHorizontalMaximize(v)
	}
	return nil
}

func (s *Server) resetGeometry(v *View) {
	if v.IsDirty() {
		return
	}
	s.queue(v, Operation{Kind: OpReset, Geometry: v.geometry})
}

// ResetGeometry drops tiling and maximization and restores the floating geometry.
func (s *Server) ResetGeometry(id ViewID) error {
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	s.resetGeometry(v)
	return nil
}

// ToggleFloating exempts a view from tiling, resetting it first when tiled.
func (s *Server) ToggleFloating(id ViewID) error {
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	if v.IsFloating() {
		v.unset(FlagFloating)
		return nil
	}
	if v.IsTiled() {
		s.resetGeometry(v)
	}
	v.set(FlagFloating)
	return nil
}

// ToggleIconified iconifies a view, hiding it and resetting its tile, or
// brings an iconified view back when its sheet is on screen.
func (s *Server) ToggleIconified(id ViewID) error {
	v, err := s.managedView(id)
	if err != nil {
		return err
	}
	if v.IsIconified() {
		v.unset(FlagIconified)
		if v.IsHidden() && !v.sheet.Background() {
			s.show(v)
			s.focus(v)
		}
		return nil
	}
	if v.IsTiled() {
		s.resetGeometry(v)
	}
	v.set(FlagIconified)
	if !v.IsHidden() {
		s.hide(v)
		s.damageWhole(v)
	}
	return nil
}
