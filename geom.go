package reveal

import (
	"fmt"
	"math"
	"strings"
)

// Point is a 2D coordinate in image space: x grows to the right, y grows downwards.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns the vector p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Extent is the width × height rectangle anchored at the origin which bounds
// both sampling and tessellation.
type Extent struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (e Extent) Valid() bool {
	return e.Width > 0 && e.Height > 0
}

// Area returns the extent area.
func (e Extent) Area() float64 {
	return float64(e.Width) * float64(e.Height)
}

// Contains reports whether p lies in [0,width)×[0,height).
func (e Extent) Contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(e.Width) && p.Y < float64(e.Height)
}

// Polygon returns the extent outline.
func (e Extent) Polygon() Polygon {
	w, h := float64(e.Width), float64(e.Height)
	return Polygon{{0, 0}, {w, 0}, {w, h}, {0, h}}
}

// Polygon is a closed simple polygon given by its ordered boundary points.
// The closing edge from the last point back to the first is implicit.
type Polygon []Point

// SignedArea returns the shoelace area of the polygon. Its sign depends on the winding.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Area returns the non-negative polygon area.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

func (p Polygon) clone() Polygon {
	if p == nil {
		return nil
	}
	return append(Polygon{}, p...)
}

// String formats the polygon as an SVG points attribute: "x1,y1 x2,y2 ...".
func (p Polygon) String() string {
	pts := make([]string, len(p))
	for i, pt := range p {
		pts[i] = fmt.Sprintf("%g,%g", pt.X, pt.Y)
	}
	return strings.Join(pts, " ")
}

// clipHalfPlane returns the part of the convex polygon p where n·x <= c,
// following the Sutherland–Hodgman scheme for a single clip edge.
// The result is nil once fewer than three points remain.
func (p Polygon) clipHalfPlane(n Point, c float64) Polygon {
	if len(p) < 3 {
		return nil
	}
	out := make(Polygon, 0, len(p)+1)
	for i := range p {
		cur, next := p[i], p[(i+1)%len(p)]
		dc, dn := n.Dot(cur)-c, n.Dot(next)-c

		if dc <= 0 {
			out = append(out, cur)
		}
		if (dc < 0 && dn > 0) || (dc > 0 && dn < 0) {
			t := dc / (dc - dn)
			out = append(out, Point{
				X: cur.X + t*(next.X-cur.X),
				Y: cur.Y + t*(next.Y-cur.Y),
			})
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}
