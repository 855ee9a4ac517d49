package geometry

import (
	uv "github.com/charmbracelet/ultraviolet"
)

// Region is a set of rectangles accumulated as damage. Rectangles fully
// covered by an existing member are dropped on insert.
type Region struct {
	rects []uv.Rectangle
}

// NewRegion builds a region from rectangles.
func NewRegion(rects ...uv.Rectangle) Region {
	var r Region
	for _, rect := range rects {
		r.Add(rect)
	}
	return r
}

// Add inserts a rectangle into the region.
func (r *Region) Add(rect uv.Rectangle) {
	if rect.Empty() {
		return
	}
	kept := r.rects[:0]
	for _, existing := range r.rects {
		if rect.In(existing) {
			return
		}
		if !existing.In(rect) {
			kept = append(kept, existing)
		}
	}
	r.rects = append(kept, rect)
}

// AddBox inserts a box into the region.
func (r *Region) AddBox(b Box) {
	r.Add(b.Rect())
}

// Union merges another region into this one.
func (r *Region) Union(o Region) {
	for _, rect := range o.rects {
		r.Add(rect)
	}
}

// Clear empties the region and keeps its storage.
func (r *Region) Clear() {
	r.rects = r.rects[:0]
}

// Empty reports whether the region covers nothing.
func (r Region) Empty() bool {
	return len(r.rects) == 0
}

// Rects returns a copy of the member rectangles.
func (r Region) Rects() []uv.Rectangle {
	out := make([]uv.Rectangle, len(r.rects))
	copy(out, r.rects)
	return out
}

// Len returns the number of member rectangles.
func (r Region) Len() int {
	return len(r.rects)
}

// Bounds returns the smallest rectangle containing the region.
func (r Region) Bounds() uv.Rectangle {
	var b uv.Rectangle
	for _, rect := range r.rects {
		b = b.Union(rect)
	}
	return b
}

// Translate returns the region moved by dx,dy.
func (r Region) Translate(dx, dy int) Region {
	out := Region{rects: make([]uv.Rectangle, 0, len(r.rects))}
	for _, rect := range r.rects {
		out.rects = append(out.rects, rect.Add(uv.Pos(dx, dy)))
	}
	return out
}

// Clip returns the part of the region inside rect.
func (r Region) Clip(rect uv.Rectangle) Region {
	var out Region
	for _, member := range r.rects {
		out.Add(member.Intersect(rect))
	}
	return out
}

// Intersects reports whether any member overlaps rect.
func (r Region) Intersects(rect uv.Rectangle) bool {
	for _, member := range r.rects {
		if !member.Intersect(rect).Empty() {
			return true
		}
	}
	return false
}

// Covers reports whether the union of the region contains rect entirely.
func (r Region) Covers(rect uv.Rectangle) bool {
	if rect.Empty() {
		return true
	}
	pending := []uv.Rectangle{rect}
	for _, member := range r.rects {
		var next []uv.Rectangle
		for _, piece := range pending {
			next = append(next, subtract(piece, member)...)
		}
		pending = next
		if len(pending) == 0 {
			return true
		}
	}
	return len(pending) == 0
}

// Area returns the number of unit cells covered by the region.
func (r Region) Area() int {
	var pieces []uv.Rectangle
	for _, rect := range r.rects {
		fresh := []uv.Rectangle{rect}
		for _, seen := range pieces {
			var next []uv.Rectangle
			for _, f := range fresh {
				next = append(next, subtract(f, seen)...)
			}
			fresh = next
		}
		pieces = append(pieces, fresh...)
	}
	area := 0
	for _, p := range pieces {
		area += p.Dx() * p.Dy()
	}
	return area
}

// subtract returns a minus b as up to four disjoint rectangles.
func subtract(a, b uv.Rectangle) []uv.Rectangle {
	in := a.Intersect(b)
	if in.Empty() {
		return []uv.Rectangle{a}
	}
	var out []uv.Rectangle
	if in.Min.Y > a.Min.Y {
		out = append(out, uv.Rect(a.Min.X, a.Min.Y, a.Dx(), in.Min.Y-a.Min.Y))
	}
	if in.Max.Y < a.Max.Y {
		out = append(out, uv.Rect(a.Min.X, in.Max.Y, a.Dx(), a.Max.Y-in.Max.Y))
	}
	if in.Min.X > a.Min.X {
		out = append(out, uv.Rect(a.Min.X, in.Min.Y, in.Min.X-a.Min.X, in.Dy()))
	}
	if in.Max.X < a.Max.X {
		out = append(out, uv.Rect(in.Max.X, in.Min.Y, a.Max.X-in.Max.X, in.Dy()))
	}
	return out
}
