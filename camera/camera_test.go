package camera

import (
	"math"
	"testing"
)

const domain = 100e-6

func TestNew(t *testing.T) {
	cam := New(800, 800, domain)

	if cam.X != domain/2 || cam.Y != domain/2 {
		t.Errorf("expected camera at domain center, got (%g, %g)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if got := cam.PixelsPerUnit(); math.Abs(got-8e6) > 1e-3 {
		t.Errorf("PixelsPerUnit = %g, want 8e6", got)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(800, 600, domain)

	sx, sy := cam.WorldToScreen(domain/2, domain/2)
	if math.Abs(float64(sx-400)) > 0.01 || math.Abs(float64(sy-300)) > 0.01 {
		t.Errorf("expected screen center (400, 300), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(800, 800, domain)
	cam.ZoomBy(2)

	testCases := []struct{ sx, sy float32 }{
		{400, 400},
		{100, 100},
		{700, 650},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		if wx < 0 || wx >= domain || wy < 0 || wy >= domain {
			t.Fatalf("ScreenToWorld(%v, %v) = (%g, %g) outside domain", tc.sx, tc.sy, wx, wy)
		}
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%g,%g) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestScreenToWorldCorners(t *testing.T) {
	cam := New(800, 800, domain)

	// The top-left pixel is the origin, up to rounding across the wrap
	wx, wy := cam.ScreenToWorld(0, 0)
	if math.Min(wx, domain-wx) > 1e-12 || math.Min(wy, domain-wy) > 1e-12 {
		t.Errorf("top-left = (%g, %g), want (0, 0)", wx, wy)
	}
	wx, _ = cam.ScreenToWorld(600, 0)
	if math.Abs(wx-75e-6) > 1e-12 {
		t.Errorf("x at 600px = %g, want 75e-6", wx)
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := New(800, 800, domain)
	cam.X = 5e-6

	// A point near the right edge is closer through the left boundary
	sx, _ := cam.WorldToScreen(95e-6, domain/2)
	if sx >= 400 {
		t.Errorf("expected point left of center, got x=%f", sx)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(800, 800, domain)
	cam.X = 1e-6

	// 80px at 8e6 px/m is 10e-6 m
	cam.Pan(-80, 0)

	if math.Abs(cam.X-91e-6) > 1e-12 {
		t.Errorf("expected X to wrap to 91e-6, got %g", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(800, 800, domain)

	cam.SetZoom(0.1)
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom clamped to 1.0, got %f", cam.Zoom)
	}
	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(800, 800, domain)
	cam.SetZoom(4) // 25e-6 m visible around the center

	if !cam.IsVisible(domain/2, domain/2, 2) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(10e-6, 10e-6, 2) {
		t.Error("far point should not be visible")
	}
	// 13e-6 from center is 16px past the right edge at zoom 4
	if !cam.IsVisible(domain/2+13e-6, domain/2, 20) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 800, domain)
	cam.X = 10e-6
	cam.Y = 20e-6
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != domain/2 || cam.Y != domain/2 {
		t.Errorf("expected domain center, got (%g, %g)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
