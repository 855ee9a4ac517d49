package wm

import (
	"testing"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
)

func TestAlgorithmFrames(t *testing.T) {
	frame := geometry.NewBox(0, 0, 100, 40)

	t.Run("vertical splits columns", func(t *testing.T) {
		got := AlgorithmVertical.Frames(frame, 3, 2)
		if len(got) != 3 {
			t.Fatalf("got %d frames", len(got))
		}
		if got[0].X != 0 || got[1].X != got[0].Width+2 {
			t.Errorf("columns not separated by gap: %v", got)
		}
		if got[2].Right() != 100 {
			t.Errorf("last column should reach the edge, got %v", got[2])
		}
		for _, b := range got {
			if b.Height != 40 {
				t.Errorf("column height %d", b.Height)
			}
		}
	})

	t.Run("horizontal splits rows", func(t *testing.T) {
		got := AlgorithmHorizontal.Frames(frame, 2, 0)
		if got[0] != geometry.NewBox(0, 0, 100, 20) || got[1] != geometry.NewBox(0, 20, 100, 20) {
			t.Errorf("unexpected rows %v", got)
		}
	})

	t.Run("grid fills rows", func(t *testing.T) {
		got := AlgorithmGrid.Frames(frame, 5, 0)
		if len(got) != 5 {
			t.Fatalf("got %d frames", len(got))
		}
		// 3 columns, 2 rows: the second row holds two wider cells
		if got[3].Y == 0 || got[3].Width <= got[0].Width {
			t.Errorf("unexpected grid %v", got)
		}
	})

	t.Run("full stacks", func(t *testing.T) {
		for _, b := range AlgorithmFull.Frames(frame, 3, 4) {
			if b != frame {
				t.Errorf("full frame %v", b)
			}
		}
	})
}

func TestAlgorithmCapacity(t *testing.T) {
	if got := AlgorithmSingle.capacity(4, 0); got != 1 {
		t.Errorf("single takes %d", got)
	}
	if got := AlgorithmEmpty.capacity(4, 0); got != 0 {
		t.Errorf("empty takes %d", got)
	}
	if got := AlgorithmGrid.capacity(4, 3); got != 3 {
		t.Errorf("grid max 3 takes %d", got)
	}
	if got := AlgorithmGrid.capacity(4, 0); got != 4 {
		t.Errorf("unbounded grid takes %d", got)
	}
}

func TestSplitArrange(t *testing.T) {
	spec := NewSplit(SplitVertical, 0.5,
		Leaf(AlgorithmSingle, 0),
		Leaf(AlgorithmHorizontal, 0),
	)
	if err := spec.Validate(); err != nil {
		t.Fatal(err)
	}

	frames := spec.Arrange(geometry.NewBox(0, 0, 101, 30), 3, 1)
	if len(frames) != 3 {
		t.Fatalf("got %d frames", len(frames))
	}
	if frames[0] != geometry.NewBox(0, 0, 50, 30) {
		t.Errorf("main frame %v", frames[0])
	}
	if frames[1].X != 51 || frames[2].X != 51 || frames[1].Y >= frames[2].Y {
		t.Errorf("stack frames %v %v", frames[1], frames[2])
	}
}

func TestNewSplitClampsScale(t *testing.T) {
	if s := NewSplit(SplitHorizontal, 2, Leaf(AlgorithmFull, 0), Leaf(AlgorithmFull, 0)); s.Split.Scale != maxScale {
		t.Errorf("scale %v", s.Split.Scale)
	}
	if s := NewSplit(SplitHorizontal, 0, Leaf(AlgorithmFull, 0), Leaf(AlgorithmFull, 0)); s.Split.Scale != minScale {
		t.Errorf("scale %v", s.Split.Scale)
	}
}

func TestLayoutSpecValidate(t *testing.T) {
	bad := &LayoutSpec{Split: &Split{Left: Leaf(AlgorithmFull, 0)}}
	if err := bad.Validate(); err == nil {
		t.Error("expected missing right child to fail")
	}
	if err := (&LayoutSpec{}).Validate(); err == nil {
		t.Error("expected empty node to fail")
	}
}

func TestParseAlgorithm(t *testing.T) {
	for name, want := range algorithmNames {
		got, err := ParseAlgorithm(name)
		if err != nil || got != want {
			t.Errorf("ParseAlgorithm(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseAlgorithm("spiral"); err == nil {
		t.Error("expected unknown algorithm to fail")
	}
}

func TestInputBuffer(t *testing.T) {
	b := NewInputBuffer("ab")
	b.Add('ü')
	if b.String() != "abü" {
		t.Fatalf("got %q", b.String())
	}
	b.Remove()
	if b.String() != "ab" {
		t.Errorf("remove dropped a partial rune: %q", b.String())
	}

	for b.Add('x') {
	}
	if b.Len() != InputBufferSize-1 {
		t.Errorf("buffer holds %d bytes", b.Len())
	}
	if b.Add('é') {
		t.Error("multi-byte rune accepted past capacity")
	}

	b.Clear()
	b.Remove()
	if b.Len() != 0 {
		t.Error("clear left content")
	}
}
