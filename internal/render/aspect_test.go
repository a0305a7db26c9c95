package render

import (
	"math"
	"testing"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func TestComputeAspectScaleWiderFrameLetterboxesVertically(t *testing.T) {
	// 16:9 frame in a 4:3 surface: frame is relatively wider, so it should
	// fill the full width (sx=1) and shrink vertically.
	sx, sy := ComputeAspectScale(1920, 1080, 800, 600)
	if !approxEqual(sx, 1) {
		t.Fatalf("sx = %v, want 1", sx)
	}
	if sy >= 1 {
		t.Fatalf("sy = %v, want < 1", sy)
	}
}

func TestComputeAspectScaleTallerFrameLetterboxesHorizontally(t *testing.T) {
	// Portrait 9:16 frame in a 16:9 surface: frame is relatively taller,
	// so it should fill the full height (sy=1) and shrink horizontally.
	sx, sy := ComputeAspectScale(1080, 1920, 1920, 1080)
	if !approxEqual(sy, 1) {
		t.Fatalf("sy = %v, want 1", sy)
	}
	if sx >= 1 {
		t.Fatalf("sx = %v, want < 1", sx)
	}
}

func TestComputeAspectScaleMatchingAspectFillsBoth(t *testing.T) {
	sx, sy := ComputeAspectScale(1920, 1080, 1280, 720)
	if !approxEqual(sx, 1) || !approxEqual(sy, 1) {
		t.Fatalf("sx,sy = %v,%v, want 1,1 for matching aspect ratios", sx, sy)
	}
}
