package input

import "testing"

func TestMapCoordinateCorners(t *testing.T) {
	vx, vy := MapCoordinate(0, 0, 800, 600, 1920, 1080)
	if vx != 0 || vy != 0 {
		t.Fatalf("origin mapped to (%v,%v), want (0,0)", vx, vy)
	}

	vx, vy = MapCoordinate(800, 600, 800, 600, 1920, 1080)
	if vx != 1920 || vy != 1080 {
		t.Fatalf("far corner mapped to (%v,%v), want (1920,1080)", vx, vy)
	}
}

func TestMapCoordinateMidpoint(t *testing.T) {
	vx, vy := MapCoordinate(400, 300, 800, 600, 1920, 1080)
	if vx != 960 || vy != 540 {
		t.Fatalf("midpoint mapped to (%v,%v), want (960,540)", vx, vy)
	}
}

func TestMapCoordinateZeroSurfaceIsSafe(t *testing.T) {
	vx, vy := MapCoordinate(10, 10, 0, 0, 1920, 1080)
	if vx != 0 || vy != 0 {
		t.Fatalf("zero-size surface mapped to (%v,%v), want (0,0)", vx, vy)
	}
}
