// Package matcher finds the nearest palette color for a pixel.
package matcher

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// tieBias is added per palette index to every squared distance. Points and
// queries have integer coordinates, so true squared distances are integers
// and a bias below 1 only orders equidistant points: the lowest index wins.
// Both terms stay exact in float64 for palettes up to 256 entries.
const tieBias = 1.0 / 512

// Matcher answers nearest-color queries over a fixed set of points. It is
// immutable after New and safe for any number of queries.
type Matcher struct {
	tree *kdtree.Tree
	n    int
}

// New builds a matcher over points; result indices refer to this order.
func New(points [][3]float64) *Matcher {
	pts := make(colorPoints, len(points))
	for i, p := range points {
		pts[i] = colorPoint{c: p, index: i}
	}
	return &Matcher{tree: kdtree.New(pts, false), n: len(points)}
}

// Len returns the number of points.
func (m *Matcher) Len() int { return m.n }

// Nearest returns the index of the point closest to (r, g, b) in Euclidean
// RGB distance. Ties go to the lowest index. It returns -1 for an empty
// matcher.
func (m *Matcher) Nearest(r, g, b uint8) int {
	if m.n == 0 {
		return -1
	}
	q := colorPoint{c: [3]float64{float64(r), float64(g), float64(b)}, index: -1}
	got, _ := m.tree.Nearest(q)
	return got.(colorPoint).index
}

type colorPoint struct {
	c     [3]float64
	index int
}

func (p colorPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.c[d] - c.(colorPoint).c[d]
}

func (p colorPoint) Dims() int { return 3 }

// Distance is the squared Euclidean distance plus the tie bias of whichever
// side is a palette point.
func (p colorPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(colorPoint)
	var sum float64
	for i := range p.c {
		d := p.c[i] - q.c[i]
		sum += d * d
	}
	idx := p.index
	if idx < 0 {
		idx = q.index
	}
	if idx > 0 {
		sum += float64(idx) * tieBias
	}
	return sum
}

type colorPoints []colorPoint

func (p colorPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p colorPoints) Len() int                       { return len(p) }
func (p colorPoints) Pivot(d kdtree.Dim) int {
	return plane{colorPoints: p, dim: d}.Pivot()
}
func (p colorPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type plane struct {
	colorPoints
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.colorPoints[i].c[p.dim] < p.colorPoints[j].c[p.dim]
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.colorPoints = p.colorPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.colorPoints[i], p.colorPoints[j] = p.colorPoints[j], p.colorPoints[i]
}
