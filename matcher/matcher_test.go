package matcher

import (
	"math/rand"
	"testing"

	"github.com/voxelsplace/pixelart/palette"
)

func bruteNearest(points [][3]float64, r, g, b uint8) int {
	best, bestD := -1, 0.0
	q := [3]float64{float64(r), float64(g), float64(b)}
	for i, p := range points {
		var d float64
		for k := range p {
			d += (p[k] - q[k]) * (p[k] - q[k])
		}
		if best < 0 || d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func TestNearestMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, p := range []*palette.Palette{palette.Default().Compact(), palette.Default().Extended()} {
		pts := p.Points()
		m := New(pts)
		for i := 0; i < 20000; i++ {
			cr, cg, cb := uint8(r.Intn(256)), uint8(r.Intn(256)), uint8(r.Intn(256))
			got := m.Nearest(cr, cg, cb)
			want := bruteNearest(pts, cr, cg, cb)
			if got != want {
				t.Fatalf("%v: Nearest(%d,%d,%d) = %d, want %d", p.Kind(), cr, cg, cb, got, want)
			}
		}
	}
}

func TestNearestExactPaletteColors(t *testing.T) {
	p := palette.Default().Compact()
	m := New(p.Points())
	for i := 1; i < p.Len(); i++ {
		c, _ := p.Color(i)
		got := m.Nearest(c.R, c.G, c.B)
		gc, _ := p.Color(got)
		if gc != c {
			t.Errorf("color %v matched index %d (%v)", c, got, gc)
		}
	}
	if got := m.Nearest(255, 255, 255); got != 8 {
		t.Errorf("white matched %d, want 8", got)
	}
}

func TestNearestTieLowestIndex(t *testing.T) {
	testCases := []struct {
		name   string
		points [][3]float64
		q      [3]uint8
		want   int
	}{
		{"three way", [][3]float64{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}}, [3]uint8{1, 1, 0}, 0},
		{"pair ascending", [][3]float64{{9999, 9999, 9999}, {4, 0, 0}, {0, 0, 0}}, [3]uint8{2, 0, 0}, 1},
		{"pair descending", [][3]float64{{9999, 9999, 9999}, {0, 0, 0}, {4, 0, 0}}, [3]uint8{2, 0, 0}, 1},
		{"duplicates", [][3]float64{{0, 0, 0}, {1, 1, 1}, {50, 50, 50}, {7, 7, 7}, {90, 0, 0}, {7, 7, 7}}, [3]uint8{7, 7, 7}, 3},
		{"duplicates near", [][3]float64{{200, 0, 0}, {10, 10, 10}, {10, 10, 10}}, [3]uint8{12, 12, 12}, 1},
	}
	for _, tc := range testCases {
		m := New(tc.points)
		if got := m.Nearest(tc.q[0], tc.q[1], tc.q[2]); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestNearestNeverSentinel(t *testing.T) {
	for _, p := range []*palette.Palette{palette.Default().Compact(), palette.Default().Extended()} {
		m := New(p.Points())
		for _, c := range [][3]uint8{{255, 255, 255}, {0, 0, 0}, {255, 255, 254}, {255, 0, 255}} {
			if got := m.Nearest(c[0], c[1], c[2]); p.IsEmpty(got) {
				t.Errorf("%v: %v matched sentinel %d", p.Kind(), c, got)
			}
		}
	}
}

func TestEmptyMatcher(t *testing.T) {
	if got := New(nil).Nearest(1, 2, 3); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
}
