package molfile

import (
	"math"

	"github.com/pkj0421/CIM/internal/domain/molecule"
)

// V2000 bond stereo field values.
const (
	stereoNone           = 0
	stereoUp             = 1
	stereoCisTransEither = 3
	stereoEither         = 4
	stereoDown           = 6
)

const (
	volumeEpsilon = 1e-3
	sideEpsilon   = 0.05
)

// refVectors returns the direction from centre c to each reference.  In a
// flat layout the directions are normalized in the plane and lifted by
// lift[ref] (+1 towards the viewer); otherwise the real Z is used.  An
// ImplicitH reference points away from the other three.
func refVectors(c int, refs []int, coords []molecule.Point, flat bool, lift map[int]float64) []molecule.Point {
	vs := make([]molecule.Point, len(refs))
	var sum molecule.Point
	h := -1
	for k, r := range refs {
		if r == molecule.ImplicitH {
			h = k
			continue
		}
		d := coords[r].Sub(coords[c])
		var v molecule.Point
		if flat {
			v = molecule.Point{X: d.X, Y: d.Y}.Unit()
			v.Z = lift[r]
		} else {
			v = d.Unit()
		}
		vs[k] = v
		sum = sum.Add(v)
	}
	if h >= 0 {
		vs[h] = sum.Scale(-1)
	}
	return vs
}

// chiralityOf returns the tetrahedral parity of refs around c, or
// ChiralityNone for a degenerate arrangement.
func chiralityOf(c int, refs []int, coords []molecule.Point, flat bool, lift map[int]float64) molecule.Chirality {
	if len(refs) != 4 {
		return molecule.ChiralityNone
	}
	v := refVectors(c, refs, coords, flat, lift)
	a, b, d := v[1].Sub(v[0]), v[2].Sub(v[0]), v[3].Sub(v[0])
	vol := a.Dot(b.Cross(d))
	switch {
	case math.Abs(vol) < volumeEpsilon:
		return molecule.ChiralityNone
	case vol < 0:
		return molecule.ChiralityCCW
	}
	return molecule.ChiralityCW
}

// cisOf reports whether x (a neighbour of b) and y (a neighbour of e) lie on
// the same side of the b=e axis.  ok is false when either is on the axis.
func cisOf(b, e, x, y molecule.Point) (cis, ok bool) {
	axis := e.Sub(b).Unit()
	u := x.Sub(b)
	u = u.Sub(axis.Scale(u.Dot(axis)))
	w := y.Sub(e)
	w = w.Sub(axis.Scale(w.Dot(axis)))
	if u.Norm() < sideEpsilon || w.Norm() < sideEpsilon {
		return false, false
	}
	d := u.Unit().Dot(w.Unit())
	if math.Abs(d) < sideEpsilon {
		return false, false
	}
	return d > 0, true
}

//Personal.AI order the ending
