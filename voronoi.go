package reveal

import (
	"math/rand"
	"strconv"

	"github.com/pkg/errors"
)

// cellPrefix is prepended to the cell index to form the cell identifier.
const cellPrefix = "area"

// Cell is one polygon of the tessellation, generated by exactly one site.
type Cell struct {
	ID      string  `json:"id"`
	Site    Point   `json:"site"`
	Polygon Polygon `json:"polygon"`
	// Color is the mask color sampled at Site during classification.
	Color RGB `json:"color"`
	// Area is the non-negative polygon area computed during classification.
	Area float64 `json:"area"`
	// Region is the identifier of the region the cell was filed into,
	// or empty when no region matched.
	Region string `json:"region,omitempty"`
}

// clone returns a copy of the cell that shares no memory with c.
func (c *Cell) clone() Cell {
	cp := *c
	cp.Polygon = c.Polygon.clone()
	return cp
}

// CellID returns the identifier of the cell generated by the i-th site.
func CellID(i int) string {
	return cellPrefix + strconv.Itoa(i)
}

// Tessellator partitions an extent into Voronoi cells around random sites.
type Tessellator struct {
	rnd *rand.Rand
}

// NewTessellator creates a tessellator whose site generator is seeded with seed.
// The same seed always yields the same layout.
func NewTessellator(seed int64) *Tessellator {
	return &Tessellator{rnd: rand.New(rand.NewSource(seed))}
}

// Sites draws n independent uniform random points inside ext.
func (t *Tessellator) Sites(ext Extent, n int) []Point {
	sites := make([]Point, n)
	for i := range sites {
		sites[i] = Point{
			X: t.rnd.Float64() * float64(ext.Width),
			Y: t.rnd.Float64() * float64(ext.Height),
		}
	}
	return sites
}

// Tessellate generates siteCount random sites inside ext and returns their
// Voronoi cells clipped to ext, in site order.
func (t *Tessellator) Tessellate(ext Extent, siteCount int) ([]*Cell, error) {
	if !ext.Valid() {
		return nil, errors.Errorf("invalid extent %dx%d", ext.Width, ext.Height)
	}
	if siteCount < 1 {
		return nil, errors.Errorf("site count must be positive, got %d", siteCount)
	}
	return Voronoi(ext, t.Sites(ext, siteCount)), nil
}

// Voronoi computes the Voronoi diagram of sites clipped to ext.
//
// Each cell starts as the extent rectangle and is cut by the perpendicular
// bisector between its site and every other site, keeping the half plane closer
// to its own site. Cells are convex, so the clipped result has the same topology
// as a sweep-line construction. When two sites coincide the later one receives an
// empty polygon, so the cell areas still add up to the extent area.
func Voronoi(ext Extent, sites []Point) []*Cell {
	cells := make([]*Cell, len(sites))
	bounds := ext.Polygon()

	for i, si := range sites {
		poly := append(Polygon(nil), bounds...)
		for j, sj := range sites {
			if i == j {
				continue
			}
			n := sj.Sub(si)
			if n.X == 0 && n.Y == 0 {
				if j < i {
					poly = nil
					break
				}
				continue
			}
			mid := Point{X: (si.X + sj.X) / 2, Y: (si.Y + sj.Y) / 2}
			poly = poly.clipHalfPlane(n, n.Dot(mid))
			if poly == nil {
				break
			}
		}
		cells[i] = &Cell{
			ID:      CellID(i),
			Site:    si,
			Polygon: poly,
		}
	}
	return cells
}
