package pool

import (
	"sync"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

// =============================================================================
// Reuse Tests
// =============================================================================

func TestBuilderComesBackEmpty(t *testing.T) {
	sb := GetStringBuilder()
	sb.WriteString("│term│")
	PutStringBuilder(sb)

	again := GetStringBuilder()
	defer PutStringBuilder(again)
	if again.Len() != 0 {
		t.Errorf("Expected an empty builder, got %q", again.String())
	}
}

func TestRectSlices(t *testing.T) {
	tests := []struct {
		name  string
		rects []uv.Rectangle
	}{
		{"empty", nil},
		{"few damage rects", []uv.Rectangle{uv.Rect(0, 0, 1, 1), uv.Rect(4, 4, 2, 2)}},
		{"past capacity", make([]uv.Rectangle, rectSliceCap*2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := GetRectSlice()
			if cap(*s) < rectSliceCap {
				t.Errorf("Expected capacity >= %d, got %d", rectSliceCap, cap(*s))
			}
			if len(*s) != 0 {
				t.Fatalf("Expected an empty slice, got %d rects", len(*s))
			}
			*s = append(*s, tt.rects...)
			PutRectSlice(s)
			if len(*s) != 0 {
				t.Errorf("Expected the slice truncated, got %d rects", len(*s))
			}
		})
	}
}

func TestRectSlicesDropOversized(t *testing.T) {
	big := make([]uv.Rectangle, 1, rectSliceCap*128)
	PutRectSlice(&big)
	if len(big) != 1 {
		t.Error("Expected an oversized slice left alone")
	}
}

func TestStyleComesBackBlank(t *testing.T) {
	style := GetStyle()
	*style = style.Bold(true).Padding(0, 1)
	PutStyle(style)

	again := GetStyle()
	defer PutStyle(again)
	if again.GetBold() || again.GetPaddingLeft() != 0 {
		t.Error("Expected a blank style")
	}
}

func TestConcurrentFrames(t *testing.T) {
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				rects := GetRectSlice()
				*rects = append(*rects, uv.Rect(g, g, 1, 1))
				if len(*rects) != 1 {
					t.Errorf("Goroutine %d: expected 1 rect, got %d", g, len(*rects))
				}
				PutRectSlice(rects)

				sb := GetStringBuilder()
				sb.WriteByte(byte('a' + g))
				if sb.Len() != 1 {
					t.Errorf("Goroutine %d: expected 1 byte, got %d", g, sb.Len())
				}
				PutStringBuilder(sb)
			}
		}()
	}
	wg.Wait()
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkDamageRects(b *testing.B) {
	for b.Loop() {
		rects := GetRectSlice()
		for i := range 8 {
			*rects = append(*rects, uv.Rect(i, i, 4, 4))
		}
		PutRectSlice(rects)
	}
}

func BenchmarkStatusLine(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			sb := GetStringBuilder()
			sb.WriteString(" NORMAL  sheet 1 (2)  term [dev] 'a")
			_ = sb.String()
			PutStringBuilder(sb)
		}
	})
}
