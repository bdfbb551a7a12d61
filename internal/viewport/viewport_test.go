package viewport

import (
	"math"
	"testing"

	"ezlabel/pkg/geometry"
)

func TestRoundTrip(t *testing.T) {
	s := New()
	s.Reset(1000, 800)
	s.Scale = 2.5
	s.OffsetX = -120
	s.OffsetY = 40

	ix, iy := s.ToImage(300, 200)
	vx, vy := s.ToViewport(ix, iy)
	if math.Abs(vx-300) > 1e-9 || math.Abs(vy-200) > 1e-9 {
		t.Errorf("round trip = (%v, %v), want (300, 200)", vx, vy)
	}
}

func TestZoomAtPivotKeepsPivotFixed(t *testing.T) {
	s := New()
	s.Reset(1000, 800)
	s.Scale = 1.5
	s.OffsetX = 30
	s.OffsetY = -10

	const pivotX, pivotY = 417.0, 253.0
	ix, iy := s.ToImage(pivotX, pivotY)

	for _, factor := range []float64{1.1, 1 / 1.1, 2.0, 0.5} {
		s.ZoomAtPivot(pivotX, pivotY, factor)
		gx, gy := s.ToViewport(ix, iy)
		if math.Abs(gx-pivotX) > 1e-9 || math.Abs(gy-pivotY) > 1e-9 {
			t.Fatalf("factor %v: pivot moved to (%v, %v)", factor, gx, gy)
		}
	}
}

func TestZoomClamped(t *testing.T) {
	s := New()
	s.Reset(100, 100)

	s.SetScale(100)
	if s.Scale != MaxScale {
		t.Errorf("Scale = %v, want clamp to %v", s.Scale, MaxScale)
	}

	s.SetScale(0.001)
	if s.Scale != MinScale {
		t.Errorf("Scale = %v, want clamp to %v", s.Scale, MinScale)
	}

	s.Scale = MaxScale
	s.ZoomAtPivot(50, 50, 2)
	if s.Scale != MaxScale {
		t.Errorf("ZoomAtPivot exceeded MaxScale: %v", s.Scale)
	}
}

func TestFitToViewport(t *testing.T) {
	s := New()
	s.Reset(1000, 500)
	s.FitToViewport(500, 500)

	// Width is the limiting dimension: 500/1000 = 0.5
	if s.Scale != 0.5 {
		t.Errorf("Scale = %v, want 0.5", s.Scale)
	}
	// Centered vertically: (500 - 500*0.5)/2 = 125
	if s.OffsetX != 0 || s.OffsetY != 125 {
		t.Errorf("offset = (%v, %v), want (0, 125)", s.OffsetX, s.OffsetY)
	}
}

func TestImageRect(t *testing.T) {
	s := New()
	s.Reset(1000, 800)
	s.Scale = 2
	s.OffsetX = 100
	s.OffsetY = 100

	r := s.ImageRect(geometry.NewRect(100, 100, 200, 400))
	if r.X != 0 || r.Y != 0 || r.Width != 100 || r.Height != 200 {
		t.Errorf("ImageRect = %+v, want {0 0 100 200}", r)
	}
}

func TestClampToImage(t *testing.T) {
	s := New()
	s.Reset(640, 480)

	x, y := s.ClampToImage(-10, 500)
	if x != 0 || y != 480 {
		t.Errorf("ClampToImage = (%v, %v), want (0, 480)", x, y)
	}
	x, y = s.ClampToImage(320, 240)
	if x != 320 || y != 240 {
		t.Errorf("interior point moved: (%v, %v)", x, y)
	}
}

func TestZoomPercent(t *testing.T) {
	s := New()
	s.Scale = 1.1 * 1.1
	if got := s.ZoomPercent(); got != 121 {
		t.Errorf("ZoomPercent = %d, want 121", got)
	}
}
