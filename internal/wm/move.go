package wm

// minVisible is how much of a view's border box must stay on its output
// along each axis after a move.
const minVisible = 10

// clampAxis keeps at least minVisible units of a span of length size on an
// axis of length limit. Outputs or spans shorter than the margin lower it to
// their own length, so a view that fits is never pushed off.
func clampAxis(p, size, border, limit int) int {
	span := size + 2*border
	keep := min(minVisible, limit, span)
	switch {
	case p > limit-keep:
		return limit - keep
	case p+span < keep:
		return keep - span
	}
	return p
}

func (s *Server) moveView(v *View, x, y int) {
	if v.IsTiled() {
		return
	}
	if m := v.maximized; m != nil {
		switch m.Maximization {
		case MaximizedFull:
			return
		case MaximizedVertical:
			if y != 0 {
				return
			}
		case MaximizedHorizontal:
			if x != 0 {
				return
			}
		}
	}

	geo := v.currentGeometry()
	bounds := v.output.Bounds()
	border := s.settings.Border

	cx := clampAxis(x, geo.Width, border, bounds.Width)
	cy := clampAxis(y, geo.Height, border, bounds.Height)

	if m, ok := v.surface.(Mover); ok {
		m.Move(cx, cy)
	}

	s.damageWhole(v)
	s.damageIndicator(v)

	geo.X, geo.Y = cx, cy
	v.border.Refresh(*geo, border)

	s.damageWhole(v)
	s.damageIndicator(v)

	s.logger.Debug("moved view", "view", v.ID, "x", cx, "y", cy)
}

// Move shifts a visible view by (dx, dy). Tiled and fully maximized views
// stay put.
func (s *Server) Move(id ViewID, dx, dy int) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	geo := v.CurrentGeometry()
	s.moveView(v, geo.X+dx, geo.Y+dy)
	return nil
}

// MoveAbsolute places a view at output-local (x, y).
func (s *Server) MoveAbsolute(id ViewID, x, y int) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	s.moveView(v, x, y)
	return nil
}

func clampSize(req, lo, hi int) int {
	if hi > 0 && req > hi {
		return hi
	}
	if req < lo {
		return lo
	}
	return req
}

func (s *Server) resize(v *View, width, height int, center bool) {
	invariant(v.maximized == nil, "resizing maximized view %d", v.ID)

	geo := v.CurrentGeometry()
	minW, minH, maxW, maxH := v.surface.Constraints()

	w := clampSize(width, minW, maxW)
	h := clampSize(height, minH, maxH)
	if w == geo.Width && h == geo.Height {
		return
	}

	s.queueResize(v, Operation{
		Kind:     OpResize,
		Geometry: geo.WithSize(w, h),
		Center:   center,
	})
}

// Resize grows a view by (dw, dh) and centers the cursor on commit. It is a
// no-op while the view is maximized or has an operation in flight.
func (s *Server) Resize(id ViewID, dw, dh int) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	if v.maximized != nil || v.IsDirty() {
		return nil
	}
	geo := v.CurrentGeometry()
	s.resize(v, geo.Width+dw, geo.Height+dh, true)
	return nil
}

// ResizeAbsolute sets a view's size. It is a no-op while the view is
// maximized or has an operation in flight.
func (s *Server) ResizeAbsolute(id ViewID, width, height int) error {
	v, err := s.visibleView(id)
	if err != nil {
		return err
	}
	if v.maximized != nil || v.IsDirty() {
		return nil
	}
	s.resize(v, width, height, false)
	return nil
}
