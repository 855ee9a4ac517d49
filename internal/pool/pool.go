// Package pool holds sync.Pool helpers for the allocations repeated on every
// frame: string builders, damage rectangle slices and lipgloss styles.
package pool

import (
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

const rectSliceCap = 16

var stringBuilderPool = sync.Pool{
	New: func() any { return &strings.Builder{} },
}

var rectSlicePool = sync.Pool{
	New: func() any {
		s := make([]uv.Rectangle, 0, rectSliceCap)
		return &s
	},
}

var stylePool = sync.Pool{
	New: func() any {
		s := lipgloss.NewStyle()
		return &s
	},
}

// GetStringBuilder returns an empty builder.
func GetStringBuilder() *strings.Builder {
	return stringBuilderPool.Get().(*strings.Builder)
}

// PutStringBuilder resets sb and returns it to the pool.
func PutStringBuilder(sb *strings.Builder) {
	sb.Reset()
	stringBuilderPool.Put(sb)
}

// GetRectSlice returns an empty rectangle slice.
func GetRectSlice() *[]uv.Rectangle {
	return rectSlicePool.Get().(*[]uv.Rectangle)
}

// PutRectSlice truncates s and returns it to the pool. Slices that grew far
// past the default capacity are dropped.
func PutRectSlice(s *[]uv.Rectangle) {
	if cap(*s) > rectSliceCap*64 {
		return
	}
	*s = (*s)[:0]
	rectSlicePool.Put(s)
}

// GetStyle returns a blank style.
func GetStyle() *lipgloss.Style {
	s := stylePool.Get().(*lipgloss.Style)
	*s = lipgloss.NewStyle()
	return s
}

// PutStyle returns a style to the pool.
func PutStyle(s *lipgloss.Style) {
	stylePool.Put(s)
}
