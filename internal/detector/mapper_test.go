package detector

import "testing"

func TestScreenMapper_Map(t *testing.T) {
	m := NewScreenMapper(640, 480, 1920, 1080)

	tests := []struct {
		name  string
		p     Point3D
		wantX int
		wantY int
	}{
		{"origin", Point3D{X: 0, Y: 0}, 0, 0},
		{"center", Point3D{X: 0.4, Y: 0.4}, 960, 540},
		{"active edge", Point3D{X: 0.8, Y: 0.8}, 1920, 1080},
		{"beyond active area", Point3D{X: 0.95, Y: 0.9}, 1920, 1080},
		{"outside frame", Point3D{X: 1.5, Y: -0.2}, 1920, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := m.Map(tt.p)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Map(%v) = (%d, %d), want (%d, %d)", tt.p, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestScreenMapper_ZeroSizes(t *testing.T) {
	m := &ScreenMapper{}
	if x, y := m.Map(Point3D{X: 0.5, Y: 0.5}); x != 0 || y != 0 {
		t.Errorf("Map() with zero sizes = (%d, %d), want (0, 0)", x, y)
	}
}

func TestHandLandmarks_Fingertip(t *testing.T) {
	h := PalmLandmarks()
	if h.Fingertip() != h.Points[IndexTip] {
		t.Errorf("Fingertip() = %v, want index tip %v", h.Fingertip(), h.Points[IndexTip])
	}
}
