package wm

import (
	"fmt"
	"math"
	"strings"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
)

// Algorithm arranges views inside one container frame.
type Algorithm int

const (
	AlgorithmVertical Algorithm = iota
	AlgorithmHorizontal
	AlgorithmGrid
	AlgorithmFull
	AlgorithmSingle
	AlgorithmEmpty
)

var algorithmNames = map[string]Algorithm{
	"vertical":   AlgorithmVertical,
	"horizontal": AlgorithmHorizontal,
	"grid":       AlgorithmGrid,
	"full":       AlgorithmFull,
	"single":     AlgorithmSingle,
	"empty":      AlgorithmEmpty,
}

// ParseAlgorithm resolves a container algorithm by name.
func ParseAlgorithm(name string) (Algorithm, error) {
	a, ok := algorithmNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: algorithm %q", ErrUnknownLayout, name)
	}
	return a, nil
}

func (a Algorithm) String() string {
	for name, v := range algorithmNames {
		if v == a {
			return name
		}
	}
	return "unknown"
}

// capacity returns how many of n views the algorithm takes given max, where
// a max of zero means unbounded.
func (a Algorithm) capacity(n, limit int) int {
	switch a {
	case AlgorithmEmpty:
		return 0
	case AlgorithmSingle:
		limit = 1
	}
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

// Frames splits frame into n tile frames separated by gap.
func (a Algorithm) Frames(frame geometry.Box, n, gap int) []geometry.Box {
	if n <= 0 {
		return nil
	}
	switch a {
	case AlgorithmVertical:
		return columns(frame, n, gap)
	case AlgorithmHorizontal:
		return rows(frame, n, gap)
	case AlgorithmGrid:
		return grid(frame, n, gap)
	case AlgorithmFull, AlgorithmSingle:
		out := make([]geometry.Box, n)
		for i := range out {
			out[i] = frame
		}
		return out
	}
	return nil
}

// spans cuts length into n spans separated by gap. The last span absorbs the
// rounding remainder.
func spans(start, length, n, gap int) [][2]int {
	size := (length - gap*(n-1)) / n
	out := make([][2]int, n)
	pos := start
	for i := range out {
		w := size
		if i == n-1 {
			w = start + length - pos
		}
		out[i] = [2]int{pos, max(w, 0)}
		pos += size + gap
	}
	return out
}

func columns(frame geometry.Box, n, gap int) []geometry.Box {
	out := make([]geometry.Box, 0, n)
	for _, sp := range spans(frame.X, frame.Width, n, gap) {
		out = append(out, geometry.Box{X: sp[0], Y: frame.Y, Width: sp[1], Height: frame.Height})
	}
	return out
}

func rows(frame geometry.Box, n, gap int) []geometry.Box {
	out := make([]geometry.Box, 0, n)
	for _, sp := range spans(frame.Y, frame.Height, n, gap) {
		out = append(out, geometry.Box{X: frame.X, Y: sp[0], Width: frame.Width, Height: sp[1]})
	}
	return out
}

func grid(frame geometry.Box, n, gap int) []geometry.Box {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	nrows := (n + cols - 1) / cols

	out := make([]geometry.Box, 0, n)
	for r, row := range rows(frame, nrows, gap) {
		inRow := min(cols, n-r*cols)
		out = append(out, columns(row, inRow, gap)...)
	}
	return out
}

// Orientation of a split line.
type Orientation int

const (
	// SplitVertical divides a frame with a vertical line into left and right.
	SplitVertical Orientation = iota
	// SplitHorizontal divides a frame with a horizontal line into top and bottom.
	SplitHorizontal
)

func (o Orientation) String() string {
	if o == SplitHorizontal {
		return "horizontal"
	}
	return "vertical"
}

const (
	minScale = 0.1
	maxScale = 0.9
)

// LayoutSpec is a node of a layout split tree. A node is either a split
// with two children or a container leaf.
type LayoutSpec struct {
	Split     *Split
	Container *Container
}

// Split divides its frame between Left (or top) and Right (or bottom).
type Split struct {
	Orientation Orientation
	Scale       float64
	Left, Right *LayoutSpec
}

// Container tiles up to Max views (zero for unbounded) with one algorithm.
type Container struct {
	Algorithm Algorithm
	Max       int
}

// Leaf builds a container node.
func Leaf(a Algorithm, limit int) *LayoutSpec {
	return &LayoutSpec{Container: &Container{Algorithm: a, Max: limit}}
}

// NewSplit builds a split node. The scale is clamped into [0.1, 0.9].
func NewSplit(o Orientation, scale float64, left, right *LayoutSpec) *LayoutSpec {
	return &LayoutSpec{Split: &Split{
		Orientation: o,
		Scale:       min(max(scale, minScale), maxScale),
		Left:        left,
		Right:       right,
	}}
}

// Validate checks that every node is exactly one of split or container.
func (ls *LayoutSpec) Validate() error {
	switch {
	case ls == nil:
		return fmt.Errorf("%w: empty node", ErrUnknownLayout)
	case ls.Split != nil && ls.Container != nil:
		return fmt.Errorf("%w: node is both split and container", ErrUnknownLayout)
	case ls.Split != nil:
		if err := ls.Split.Left.Validate(); err != nil {
			return err
		}
		return ls.Split.Right.Validate()
	case ls.Container != nil:
		return nil
	}
	return fmt.Errorf("%w: node is neither split nor container", ErrUnknownLayout)
}

// Arrange assigns frames to the first views of n, returning one frame per
// view that gets a tile. Views beyond the tree's capacity stay untiled.
func (ls *LayoutSpec) Arrange(frame geometry.Box, n, gap int) []geometry.Box {
	if ls.Container != nil {
		c := ls.Container
		return c.Algorithm.Frames(frame, c.Algorithm.capacity(n, c.Max), gap)
	}

	left, right := ls.Split.frames(frame, gap)
	out := ls.Split.Left.Arrange(left, n, gap)
	return append(out, ls.Split.Right.Arrange(right, n-len(out), gap)...)
}

func (sp *Split) frames(frame geometry.Box, gap int) (geometry.Box, geometry.Box) {
	a, b := frame, frame
	switch sp.Orientation {
	case SplitVertical:
		a.Width = int(float64(frame.Width-gap) * sp.Scale)
		b.X = frame.X + a.Width + gap
		b.Width = frame.Right() - b.X
	case SplitHorizontal:
		a.Height = int(float64(frame.Height-gap) * sp.Scale)
		b.Y = frame.Y + a.Height + gap
		b.Height = frame.Bottom() - b.Y
	}
	return a, b
}

// Tile is a view's slot within a layout. ViewGeometry is the content box
// inside the border.
type Tile struct {
	View         ViewID
	Frame        geometry.Box
	ViewGeometry geometry.Box

	layout *Layout
}

// Layout returns the owning layout.
func (t *Tile) Layout() *Layout { return t.layout }

// Layout is a tiling arrangement applied to one sheet.
type Layout struct {
	Register rune

	spec  *LayoutSpec
	sheet *Sheet
	tiles seq[*Tile]
}

// Spec returns the split tree the layout was built from.
func (l *Layout) Spec() *LayoutSpec { return l.spec }

// Sheet returns the sheet the layout belongs to.
func (l *Layout) Sheet() *Sheet { return l.sheet }

// Tiles returns the tiles in layout order.
func (l *Layout) Tiles() []*Tile { return l.tiles.clone() }

func (s *Server) releaseTile(t *Tile) {
	l := t.layout
	if !l.tiles.remove(t) {
		return
	}
	if len(l.tiles) == 0 {
		if l.sheet.layout == l {
			l.sheet.layout = nil
		}
		s.logger.Debug("layout freed", "sheet", l.sheet.Nr, "register", string(l.Register))
	}
}

func (s *Server) freeTile(v *View) {
	if v.tile == nil {
		return
	}
	t := v.tile
	v.tile = nil
	s.releaseTile(t)
}

func (s *Server) tileable(v *View) bool {
	return !v.IsHidden() && !v.IsFloating() && !v.IsIconified() && !v.IsDirty()
}

// TileableViews returns the views of sheet a layout would tile, front first.
func (s *Server) TileableViews(sheet *Sheet) []ViewID {
	var out []ViewID
	for _, id := range sheet.views {
		if s.tileable(s.mustView(id)) {
			out = append(out, id)
		}
	}
	return out
}

// FirstTileableView returns the front-most tileable view of sheet.
func (s *Server) FirstTileableView(sheet *Sheet) (ViewID, bool) {
	for _, id := range sheet.views {
		if s.tileable(s.mustView(id)) {
			return id, true
		}
	}
	return 0, false
}

// tileView queues v into t. Tiles that keep the view's size commit at once.
func (s *Server) tileView(v *View, t *Tile) {
	invariant(!v.IsDirty(), "tiling dirty view %d", v.ID)

	op := Operation{Kind: OpTile, Geometry: t.ViewGeometry, Tile: t}
	if v.CurrentGeometry().SameSize(op.Geometry) {
		v.pending = op
		v.set(FlagDirty)
		s.commitPendingOperation(v)
		return
	}
	s.queue(v, op)
}

func (s *Server) newTile(l *Layout, v *View, frame geometry.Box) *Tile {
	return &Tile{
		View:         v.ID,
		Frame:        frame,
		ViewGeometry: frame.Inset(s.settings.Border),
		layout:       l,
	}
}

// ApplyLayout tiles the tileable views of the current sheet with the layout
// stored in register. Views the layout has no room for keep floating
// geometry; views that were tiled by the previous layout and get no tile are
// reset.
func (s *Server) ApplyLayout(register rune) error {
	if s.workspace == nil {
		return ErrNoOutput
	}
	spec, ok := s.layouts[register]
	if !ok {
		return fmt.Errorf("%w: register %q", ErrUnknownLayout, register)
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	sheet := s.workspace.sheet
	views := s.TileableViews(sheet)
	frames := spec.Arrange(s.workspace.output.UsableArea(), len(views), s.settings.Gap)

	l := &Layout{Register: register, spec: spec, sheet: sheet}
	old := sheet.layout
	sheet.layout = l

	for i, frame := range frames {
		v := s.mustView(views[i])
		t := s.newTile(l, v, frame)
		l.tiles.pushBack(t)
		s.tileView(v, t)
	}

	if old != nil {
		for _, t := range old.tiles.clone() {
			v := s.mustView(t.View)
			if v.tile == t && !v.IsDirty() {
				s.resetGeometry(v)
			}
		}
	}

	if len(l.tiles) == 0 && sheet.layout == l {
		sheet.layout = nil
	}

	s.logger.Debug("applied layout", "sheet", sheet.Nr, "register", string(register), "tiles", len(frames), "views", len(views))
	return nil
}

// Relayout re-applies the current sheet's layout, picking up views mapped
// since it was applied.
func (s *Server) Relayout() error {
	if s.workspace == nil {
		return ErrNoOutput
	}
	l := s.workspace.sheet.layout
	if l == nil {
		return nil
	}
	return s.ApplyLayout(l.Register)
}

// ResetLayout resets every tiled view of the current sheet. The layout is
// freed once its last tile is gone.
func (s *Server) ResetLayout() error {
	if s.workspace == nil {
		return ErrNoOutput
	}
	l := s.workspace.sheet.layout
	if l == nil {
		return nil
	}
	for _, t := range l.tiles.clone() {
		v := s.mustView(t.View)
		if v.tile == t {
			s.resetGeometry(v)
		}
	}
	return nil
}

// Exchange swaps the tiles of two clean views tiled on the same sheet.
func (s *Server) Exchange(a, b ViewID) error {
	from, err := s.managedView(a)
	if err != nil {
		return err
	}
	to, err := s.managedView(b)
	if err != nil {
		return err
	}
	if from.tile == nil {
		return fmt.Errorf("%w: %d", ErrNotTiled, a)
	}
	if to.tile == nil {
		return fmt.Errorf("%w: %d", ErrNotTiled, b)
	}
	invariant(from.sheet == to.sheet, "exchanging views %d and %d across sheets", a, b)
	if from.IsDirty() || to.IsDirty() || from == to {
		return nil
	}

	l := from.tile.layout
	fromTile := s.newTile(l, from, to.tile.Frame)
	toTile := s.newTile(l, to, from.tile.Frame)

	l.tiles.insertAfter(to.tile, fromTile)
	l.tiles.insertAfter(from.tile, toTile)

	s.tileView(from, fromTile)
	s.tileView(to, toTile)
	return nil
}

func (s *Server) tiledViews() []ViewID {
	if s.workspace == nil || s.workspace.sheet.layout == nil {
		return nil
	}
	var out []ViewID
	for _, t := range s.workspace.sheet.layout.tiles {
		if v := s.mustView(t.View); v.tile == t {
			out = append(out, t.View)
		}
	}
	return out
}

// FirstTiledView returns the view in the current layout's first tile.
func (s *Server) FirstTiledView() (ViewID, bool) {
	return seq[ViewID](s.tiledViews()).first()
}

// LastTiledView returns the view in the current layout's last tile.
func (s *Server) LastTiledView() (ViewID, bool) {
	return seq[ViewID](s.tiledViews()).last()
}

// NextTiledView returns the view in the tile after id's, wrapping.
func (s *Server) NextTiledView(id ViewID) (ViewID, bool) {
	return seq[ViewID](s.tiledViews()).after(id)
}

// PrevTiledView returns the view in the tile before id's, wrapping.
func (s *Server) PrevTiledView(id ViewID) (ViewID, bool) {
	return seq[ViewID](s.tiledViews()).before(id)
}
