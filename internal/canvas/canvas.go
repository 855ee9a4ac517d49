// Package canvas is a terminal render backend: it rasterizes outputs into
// ultraviolet screen buffers, one cell per logical unit.
package canvas

import (
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/pool"
	"github.com/Gaurav-Gosain/sheetwm/internal/render"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/ultraviolet/screen"
	"github.com/charmbracelet/x/ansi"
)

// Content is implemented by surface contents the canvas knows how to draw.
type Content interface {
	Glyph() rune
	Label() string
}

type glyphs struct {
	h, v, tl, tr, bl, br string
}

var (
	thinGlyphs  = glyphs{"─", "│", "┌", "┐", "└", "┘"}
	heavyGlyphs = glyphs{"━", "┃", "┏", "┓", "┗", "┛"}
	asciiGlyphs = glyphs{"-", "|", "+", "+", "+", "+"}
)

// Canvas implements render.Backend on per-output screen buffers.
type Canvas struct {
	palette Palette
	ascii   bool
	buffers map[string]uv.ScreenBuffer
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithPalette sets the colors.
func WithPalette(p Palette) Option {
	return func(c *Canvas) { c.palette = p }
}

// WithASCII draws borders with plain ASCII characters.
func WithASCII(on bool) Option {
	return func(c *Canvas) { c.ascii = on }
}

// New creates an empty canvas.
func New(opts ...Option) *Canvas {
	c := &Canvas{
		palette: DefaultPalette(),
		buffers: make(map[string]uv.ScreenBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetPalette replaces the colors. Outputs must be damaged to pick them up.
func (c *Canvas) SetPalette(p Palette) { c.palette = p }

func (c *Canvas) buffer(o *wm.Output) uv.ScreenBuffer {
	w, h := o.Geometry.Width, o.Geometry.Height
	buf, ok := c.buffers[o.Name]
	if !ok || buf.Bounds().Dx() != w || buf.Bounds().Dy() != h {
		buf = uv.NewScreenBuffer(w, h)
		c.buffers[o.Name] = buf
	}
	return buf
}

func (c *Canvas) cell(content string, fg, bg render.Role) uv.Cell {
	cell := uv.EmptyCell
	cell.Content = content
	cell.Width = 1
	cell.Style.Fg = c.palette.Color(fg)
	cell.Style.Bg = c.palette.Color(bg)
	return cell
}

// Clear implements render.Backend.
func (c *Canvas) Clear(o *wm.Output, clip uv.Rectangle) {
	cell := c.cell(" ", render.RoleForeground, render.RoleClear)
	screen.FillArea(c.buffer(o), &cell, clip)
}

// Background implements render.Backend.
func (c *Canvas) Background(o *wm.Output, alpha float64, clip uv.Rectangle) {
	buf := c.buffer(o)
	if alpha >= 1 {
		cell := c.cell(" ", render.RoleForeground, render.RoleClear)
		screen.FillArea(buf, &cell, clip)
		return
	}
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			cur := buf.CellAt(x, y)
			if cur == nil {
				continue
			}
			dimmed := cur.Clone()
			dimmed.Style = dimmed.Style.Faint(true)
			dimmed.Style.Bg = c.palette.Color(render.RoleClear)
			buf.SetCell(x, y, dimmed)
		}
	}
}

// Border implements render.Backend.
func (c *Canvas) Border(o *wm.Output, b geometry.Border, role render.Role, clip uv.Rectangle) {
	g := thinGlyphs
	if c.ascii {
		g = asciiGlyphs
	}
	c.outline(o, b.Geometry, g, role, clip)
}

// Frame implements render.Backend.
func (c *Canvas) Frame(o *wm.Output, box geometry.Box, role render.Role, clip uv.Rectangle) {
	g := heavyGlyphs
	if c.ascii {
		g = asciiGlyphs
	}
	c.outline(o, box, g, role, clip)
}

func (c *Canvas) outline(o *wm.Output, box geometry.Box, g glyphs, role render.Role, clip uv.Rectangle) {
	if box.Empty() {
		return
	}
	buf := c.buffer(o)
	right, bottom := box.Right()-1, box.Bottom()-1
	set := func(x, y int, s string) {
		if !uv.Pos(x, y).In(clip) {
			return
		}
		buf.SetCell(x, y, ptr(c.cell(s, role, render.RoleClear)))
	}
	for x := box.X + 1; x < right; x++ {
		set(x, box.Y, g.h)
		set(x, bottom, g.h)
	}
	for y := box.Y + 1; y < bottom; y++ {
		set(box.X, y, g.v)
		set(right, y, g.v)
	}
	set(box.X, box.Y, g.tl)
	set(right, box.Y, g.tr)
	set(box.X, bottom, g.bl)
	set(right, bottom, g.br)
}

// Surface implements render.Backend.
func (c *Canvas) Surface(o *wm.Output, v *wm.View, node wm.SurfaceNode, box geometry.Box, clip uv.Rectangle) {
	buf := c.buffer(o)
	glyph, label := "▒", v.AppID
	if content, ok := node.Content.(Content); ok {
		glyph, label = string(content.Glyph()), content.Label()
	}
	if !node.Main {
		label = ""
	}

	fill := c.cell(glyph, render.RoleBorderInactive, render.RoleClear)
	screen.FillArea(buf, &fill, clip)

	c.text(buf, box.X, box.Y, box.Width, label, render.RoleClear, render.RoleBorderActive, clip)
}

// Indicator implements render.Backend.
func (c *Canvas) Indicator(o *wm.Output, ind render.Indicator, clip uv.Rectangle) {
	buf := c.buffer(o)
	for i, line := range ind.Lines {
		if line.Text == "" || i >= ind.Box.Height {
			continue
		}
		c.text(buf, ind.Box.X, ind.Box.Y+i, ind.Box.Width, " "+line.Text+" ", render.RoleClear, line.Role, clip)
	}
}

// text writes s at (x, y), truncated to width cells and clipped.
func (c *Canvas) text(buf uv.ScreenBuffer, x, y, width int, s string, fg, bg render.Role, clip uv.Rectangle) {
	if s == "" || width <= 0 {
		return
	}
	s = ansi.Truncate(s, width, "…")
	for _, r := range s {
		w := ansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		if uv.Pos(x, y).In(clip) {
			cell := c.cell(string(r), fg, bg)
			cell.Width = w
			buf.SetCell(x, y, &cell)
		}
		x += w
	}
}

// Render returns the output's buffer with ANSI styling.
func (c *Canvas) Render(o *wm.Output) string {
	return c.buffer(o).Render()
}

// Text returns the output's buffer as plain text, one line per row.
func (c *Canvas) Text(o *wm.Output) string {
	buf := c.buffer(o)
	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)

	b := buf.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			cell := buf.CellAt(x, y)
			switch {
			case cell == nil:
				sb.WriteByte(' ')
			case cell.Width == 0:
				// continuation of a wide cell
			case cell.Content == "":
				sb.WriteByte(' ')
			default:
				sb.WriteString(cell.Content)
			}
		}
	}
	return sb.String()
}

// Composite draws every output's buffer into one buffer laid out by output
// geometry and returns it rendered.
func (c *Canvas) Composite(outputs []*wm.Output) string {
	var bounds geometry.Box
	for i, o := range outputs {
		if i == 0 {
			bounds = o.Geometry
			continue
		}
		bounds = geometry.FromRect(bounds.Rect().Union(o.Geometry.Rect()))
	}
	if bounds.Empty() {
		return ""
	}

	dst := uv.NewScreenBuffer(bounds.Width, bounds.Height)
	for _, o := range outputs {
		src := c.buffer(o)
		dx, dy := o.Geometry.X-bounds.X, o.Geometry.Y-bounds.Y
		b := src.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if cell := src.CellAt(x, y); cell != nil {
					dst.SetCell(x+dx, y+dy, cell)
				}
			}
		}
	}
	return dst.Render()
}

func ptr[T any](v T) *T { return &v }

var _ render.Backend = (*Canvas)(nil)
