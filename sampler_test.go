package drift

import (
	"reflect"
	"testing"
)

func organicLayout() Layout {
	return Layout{
		Mode:        PlacementOrganic,
		SectorSize:  900,
		TileWidth:   248,
		TileHeight:  331,
		MinDistance: 450,
	}
}

func TestSamplePointsAligned(t *testing.T) {
	l := Layout{Mode: PlacementAligned, TileWidth: 248, TileHeight: 331, GapX: 80, GapY: 80}

	tests := []struct {
		sx, sy int
		want   Vec2
	}{
		{0, 0, Vec2{164, 205.5}},
		{1, 0, Vec2{492, 205.5}},
		{-1, 2, Vec2{-164, 1027.5}},
	}
	for _, tt := range tests {
		pts := SamplePoints(tt.sx, tt.sy, l)
		if len(pts) != 1 {
			t.Fatalf("sector (%d,%d): %d points, want 1", tt.sx, tt.sy, len(pts))
		}
		if !approxEqual(pts[0].X, tt.want.X, epsilon) || !approxEqual(pts[0].Y, tt.want.Y, epsilon) {
			t.Errorf("sector (%d,%d) = %v, want %v", tt.sx, tt.sy, pts[0], tt.want)
		}
	}
}

func TestSamplePointsDeterministic(t *testing.T) {
	for _, mode := range []PlacementMode{PlacementAligned, PlacementOrganic} {
		l := organicLayout()
		l.Mode = mode
		l.GapX, l.GapY = 152, 69
		for sx := -4; sx <= 4; sx++ {
			for sy := -4; sy <= 4; sy++ {
				a := SamplePoints(sx, sy, l)
				b := SamplePoints(sx, sy, l)
				if !reflect.DeepEqual(a, b) {
					t.Fatalf("%v sector (%d,%d) not deterministic: %v vs %v", mode, sx, sy, a, b)
				}
			}
		}
	}
}

func TestSamplePointsOrganicInvariants(t *testing.T) {
	l := organicLayout()
	for sx := -6; sx <= 6; sx++ {
		for sy := -6; sy <= 6; sy++ {
			pts := SamplePoints(sx, sy, l)
			if len(pts) < 1 || len(pts) > 3 {
				t.Fatalf("sector (%d,%d): %d points, want 1..3", sx, sy, len(pts))
			}
			ox, oy := float64(sx)*l.SectorSize, float64(sy)*l.SectorSize
			for i, p := range pts {
				if p.X < ox || p.X >= ox+l.SectorSize || p.Y < oy || p.Y >= oy+l.SectorSize {
					t.Errorf("sector (%d,%d) point %d = %v outside sector", sx, sy, i, p)
				}
				for j := i + 1; j < len(pts); j++ {
					if d := p.Dist(pts[j]); d < l.MinDistance {
						t.Errorf("sector (%d,%d) points %d,%d only %.1f apart", sx, sy, i, j, d)
					}
				}
			}
		}
	}
}

func TestSamplePointsTargetBounds(t *testing.T) {
	l := organicLayout()
	l.MinDistance = 0
	l.MinPoints, l.MaxPoints = 2, 2
	for sx := -3; sx <= 3; sx++ {
		if n := len(SamplePoints(sx, 1, l)); n != 2 {
			t.Errorf("sector (%d,1): %d points, want 2", sx, n)
		}
	}

	// An impossible spacing still yields the first candidate.
	l.MinPoints, l.MaxPoints = 3, 3
	l.MinDistance = 1e6
	if n := len(SamplePoints(0, 0, l)); n != 1 {
		t.Errorf("impossible spacing: %d points, want 1", n)
	}
}

func TestSamplePointsDegenerate(t *testing.T) {
	l := organicLayout()
	l.SectorSize = 0
	if pts := SamplePoints(0, 0, l); len(pts) != 0 {
		t.Errorf("zero sector size: %v", pts)
	}
	a := Layout{Mode: PlacementAligned}
	if pts := SamplePoints(0, 0, a); len(pts) != 0 {
		t.Errorf("zero tile size: %v", pts)
	}
}

func TestSeededRandomRange(t *testing.T) {
	for s := -500; s <= 500; s++ {
		v := seededRandom(float64(s) * 1.37)
		if v < 0 || v >= 1 {
			t.Fatalf("seededRandom(%v) = %v, want [0,1)", float64(s)*1.37, v)
		}
	}
	if seededRandom(42) != seededRandom(42) {
		t.Error("seededRandom should be pure")
	}
}

func TestLayoutSectorDims(t *testing.T) {
	l := Layout{SectorSize: 900, TileWidth: 248, TileHeight: 331, GapX: 152, GapY: 69}
	l.Mode = PlacementAligned
	if w, h := l.SectorDims(); w != 400 || h != 400 {
		t.Errorf("aligned dims = %vx%v, want 400x400", w, h)
	}
	l.Mode = PlacementOrganic
	if w, h := l.SectorDims(); w != 900 || h != 900 {
		t.Errorf("organic dims = %vx%v, want 900x900", w, h)
	}
	if s := l.TileSize(); s.Width != 248 || s.Height != 331 {
		t.Errorf("TileSize = %v", s)
	}
}

func TestParsePlacementMode(t *testing.T) {
	tests := []struct {
		in   string
		want PlacementMode
		ok   bool
	}{
		{"aligned", PlacementAligned, true},
		{"grid", PlacementAligned, true},
		{"organic", PlacementOrganic, true},
		{"", PlacementAligned, false},
		{"poisson", PlacementAligned, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePlacementMode(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParsePlacementMode(%q) = %v,%v want %v,%v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
	if PlacementAligned.Toggle() != PlacementOrganic || PlacementOrganic.Toggle() != PlacementAligned {
		t.Error("Toggle should swap modes")
	}
}

func BenchmarkSamplePointsOrganic(b *testing.B) {
	l := organicLayout()
	var buf []Vec2
	for i := 0; i < b.N; i++ {
		buf = l.appendSector(buf[:0], i%64, i%37)
	}
}
