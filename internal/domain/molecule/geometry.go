package molecule

import "math"

// Point is an atom position.  Depictions leave Z at zero.
type Point struct {
	X, Y, Z float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

// Scale returns p * f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f, p.Z * f} }

// Dot returns the scalar product.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y + p.Z*q.Z }

// Cross returns the vector product.
func (p Point) Cross(q Point) Point {
	return Point{p.Y*q.Z - p.Z*q.Y, p.Z*q.X - p.X*q.Z, p.X*q.Y - p.Y*q.X}
}

// Norm returns the Euclidean length.
func (p Point) Norm() float64 { return math.Sqrt(p.Dot(p)) }

// Unit returns p scaled to length one, or the zero vector.
func (p Point) Unit() Point {
	n := p.Norm()
	if n == 0 {
		return Point{}
	}
	return p.Scale(1 / n)
}

// Reflect mirrors p across the line through a and b in the XY plane.
func (p Point) Reflect(a, b Point) Point {
	d := Point{b.X - a.X, b.Y - a.Y, 0}.Unit()
	v := Point{p.X - a.X, p.Y - a.Y, 0}
	proj := d.Scale(v.Dot(d))
	perp := v.Sub(proj)
	r := a.Add(proj).Sub(perp)
	r.Z = p.Z
	return r
}

//Personal.AI order the ending
