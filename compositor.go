package reveal

import "github.com/pkg/errors"

// ClipSetter replaces the active clip boundary of a target identifier.
// A nil or empty polygon list removes the boundary.
type ClipSetter interface {
	SetClip(id string, polygons []Polygon) error
}

// Compositor resolves regions to the cell polygons that make up their reveal
// boundary and keeps track of the boundary currently exposed per region.
// It is not safe for concurrent use; Widget serializes the calls.
type Compositor struct {
	index   *RegionIndex
	cells   map[string]*Cell
	exposed map[string][]Polygon
	clip    ClipSetter
}

// NewCompositor creates a compositor over the classified cells. clip may be nil,
// in which case boundaries are only tracked.
func NewCompositor(index *RegionIndex, cells []*Cell, clip ClipSetter) *Compositor {
	store := make(map[string]*Cell, len(cells))
	for _, c := range cells {
		store[c.ID] = c
	}
	return &Compositor{
		index:   index,
		cells:   store,
		exposed: make(map[string][]Polygon),
		clip:    clip,
	}
}

// Reveal computes the polygon set of the region and installs it as the region's
// boundary, discarding whatever was exposed for that region before. Other
// regions are never touched. On failure the previous state is kept.
func (c *Compositor) Reveal(id string) ([]Polygon, error) {
	r, err := c.index.Lookup(id)
	if err != nil {
		return nil, err
	}

	polygons := make([]Polygon, 0, r.Len())
	for _, cid := range r.CellIDs() {
		cell, ok := c.cells[cid]
		if !ok || len(cell.Polygon) < 3 {
			continue
		}
		polygons = append(polygons, cell.Polygon)
	}

	if c.clip != nil {
		if err := c.clip.SetClip(id, polygons); err != nil {
			return nil, errors.Wrapf(err, "cannot set clip boundary of region %q", id)
		}
	}
	c.exposed[id] = polygons

	return clonePolygons(polygons), nil
}

// Conceal removes the exposed boundary of a region.
func (c *Compositor) Conceal(id string) error {
	if _, err := c.index.Lookup(id); err != nil {
		return err
	}
	if c.clip != nil {
		if err := c.clip.SetClip(id, nil); err != nil {
			return errors.Wrapf(err, "cannot clear clip boundary of region %q", id)
		}
	}
	delete(c.exposed, id)

	return nil
}

// Boundary returns the polygons currently exposed for a region. A configured
// region that was never revealed has an empty boundary.
func (c *Compositor) Boundary(id string) ([]Polygon, error) {
	if _, err := c.index.Lookup(id); err != nil {
		return nil, err
	}
	return clonePolygons(c.exposed[id]), nil
}

func clonePolygons(polygons []Polygon) []Polygon {
	if polygons == nil {
		return nil
	}
	out := make([]Polygon, len(polygons))
	for i, p := range polygons {
		out[i] = p.clone()
	}
	return out
}

// Exposed returns the identifiers of the regions with an installed boundary,
// in configuration order.
func (c *Compositor) Exposed() []string {
	var ids []string
	for _, r := range c.index.Regions() {
		if _, ok := c.exposed[r.ID()]; ok {
			ids = append(ids, r.ID())
		}
	}
	return ids
}
