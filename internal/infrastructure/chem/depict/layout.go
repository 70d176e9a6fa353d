// Package depict computes 2D coordinates for molecules and renders them
// into PNG grids.
//
// Layout is deterministic: the same molecule always gets the same
// coordinates.  Each connected component is embedded by classical scaling of
// its topological distances and then relaxed by stress majorization, and the
// components are placed side by side from left to right.
package depict

import (
	"math"

	"github.com/pkj0421/CIM/internal/domain/molecule"
)

// BondLength is the target length of every bond in layout units.
const BondLength = 1.5

const (
	// zigzag is the fraction of k bond lengths spanned by a path of k bonds
	// drawn at 120 degrees.
	zigzag           = 0.866
	stressIterations = 300
	componentGap     = 2 * BondLength
	powerIterations  = 200
)

// Layout returns one point per atom of m.
func Layout(m *molecule.Molecule) []molecule.Point {
	pts := make([]molecule.Point, len(m.Atoms))
	offset := 0.0
	for k, comp := range m.Components() {
		local := layoutComponent(m, comp)
		minX, maxX := math.Inf(1), math.Inf(-1)
		minY, maxY := math.Inf(1), math.Inf(-1)
		for _, p := range local {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		if k > 0 {
			offset += componentGap
		}
		midY := (minY + maxY) / 2
		for i, a := range comp {
			pts[a] = molecule.Point{X: local[i].X - minX + offset, Y: local[i].Y - midY}
		}
		offset += maxX - minX
	}
	return pts
}

// targetDistance maps a topological distance to a layout distance.
func targetDistance(hops int) float64 {
	if hops <= 1 {
		return BondLength * float64(hops)
	}
	return BondLength * zigzag * float64(hops)
}

// hopMatrix returns all-pairs shortest path lengths inside comp by BFS.
func hopMatrix(m *molecule.Molecule, comp []int) [][]int {
	local := make(map[int]int, len(comp))
	for i, a := range comp {
		local[a] = i
	}
	n := len(comp)
	d := make([][]int, n)
	for s := range comp {
		row := make([]int, n)
		for i := range row {
			row[i] = -1
		}
		row[s] = 0
		queue := []int{comp[s]}
		for len(queue) > 0 {
			a := queue[0]
			queue = queue[1:]
			for _, nb := range m.Neighbors(a) {
				j := local[nb]
				if row[j] < 0 {
					row[j] = row[local[a]] + 1
					queue = append(queue, nb)
				}
			}
		}
		d[s] = row
	}
	return d
}

func layoutComponent(m *molecule.Molecule, comp []int) []molecule.Point {
	n := len(comp)
	switch n {
	case 1:
		return []molecule.Point{{}}
	case 2:
		return []molecule.Point{{}, {X: BondLength}}
	}
	hops := hopMatrix(m, comp)
	target := make([][]float64, n)
	for i := range target {
		target[i] = make([]float64, n)
		for j := range target[i] {
			target[i][j] = targetDistance(hops[i][j])
		}
	}
	pts := classicalScaling(target)
	majorize(pts, target)
	return pts
}

// classicalScaling embeds the distance matrix in the plane using the two
// leading eigenvectors of the double-centred squared distances.
func classicalScaling(d [][]float64) []molecule.Point {
	n := len(d)
	b := make([][]float64, n)
	rowMean := make([]float64, n)
	total := 0.0
	for i := range d {
		b[i] = make([]float64, n)
		for j := range d[i] {
			sq := d[i][j] * d[i][j]
			b[i][j] = sq
			rowMean[i] += sq
			total += sq
		}
		rowMean[i] /= float64(n)
	}
	total /= float64(n * n)
	for i := range b {
		for j := range b[i] {
			b[i][j] = -0.5 * (b[i][j] - rowMean[i] - rowMean[j] + total)
		}
	}

	v1, l1 := leadingEigenvector(b, nil)
	v2, l2 := leadingEigenvector(b, v1)
	s1, s2 := math.Sqrt(math.Max(l1, 0)), math.Sqrt(math.Max(l2, 0))
	pts := make([]molecule.Point, n)
	for i := range pts {
		pts[i] = molecule.Point{X: v1[i] * s1, Y: v2[i] * s2}
	}
	// a collinear start never leaves the line
	if s2 < 1e-6 {
		for i := range pts {
			pts[i].Y = BondLength * 0.1 * math.Sin(float64(i+1))
		}
	}
	return pts
}

// leadingEigenvector runs power iteration on b, orthogonal to skip when set.
// The start vector is fixed so the result is deterministic.
func leadingEigenvector(b [][]float64, skip []float64) ([]float64, float64) {
	n := len(b)
	v := make([]float64, n)
	for i := range v {
		v[i] = 1 + math.Sin(float64(i+1)*1.7)
	}
	lambda := 0.0
	for it := 0; it < powerIterations; it++ {
		if skip != nil {
			orthogonalize(v, skip)
		}
		normalize(v)
		w := make([]float64, n)
		for i := range b {
			for j, x := range b[i] {
				w[i] += x * v[j]
			}
		}
		// shift keeps negative eigenvalues from dominating
		lambda = dot(v, w)
		for i := range w {
			w[i] += math.Abs(lambda) * v[i]
		}
		v = w
	}
	if skip != nil {
		orthogonalize(v, skip)
	}
	normalize(v)
	w := make([]float64, n)
	for i := range b {
		for j, x := range b[i] {
			w[i] += x * v[j]
		}
	}
	return v, dot(v, w)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func normalize(v []float64) {
	n := math.Sqrt(dot(v, v))
	if n == 0 {
		for i := range v {
			v[i] = 1
		}
		n = math.Sqrt(float64(len(v)))
	}
	for i := range v {
		v[i] /= n
	}
}

func orthogonalize(v, against []float64) {
	p := dot(v, against)
	for i := range v {
		v[i] -= p * against[i]
	}
}

// majorize relaxes pts towards the target distances with weights d^-2,
// updating one atom at a time.
func majorize(pts []molecule.Point, target [][]float64) {
	n := len(pts)
	for it := 0; it < stressIterations; it++ {
		for i := 0; i < n; i++ {
			var sx, sy, sw float64
			for j := 0; j < n; j++ {
				if i == j || target[i][j] == 0 {
					continue
				}
				w := 1 / (target[i][j] * target[i][j])
				dx, dy := pts[i].X-pts[j].X, pts[i].Y-pts[j].Y
				dist := math.Hypot(dx, dy)
				if dist < 1e-9 {
					dx, dy, dist = 1e-3*float64(i-j), 1e-3, math.Hypot(1e-3*float64(i-j), 1e-3)
				}
				sx += w * (pts[j].X + target[i][j]*dx/dist)
				sy += w * (pts[j].Y + target[i][j]*dy/dist)
				sw += w
			}
			if sw > 0 {
				pts[i].X, pts[i].Y = sx/sw, sy/sw
			}
		}
	}
}

//Personal.AI order the ending
