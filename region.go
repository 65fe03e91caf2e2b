package reveal

// RegionConfig describes a caller defined region.
type RegionConfig struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	// Threshold overrides the shared color-distance threshold when set.
	Threshold *int `json:"threshold,omitempty"`
}

// Region is a named, color targeted bucket of cells.
//
// Its target color and threshold are resolved from the configuration the first
// time the region is touched and are never re-derived afterwards.
type Region struct {
	cfg    RegionConfig
	shared int

	resolved  bool
	rgb       RGB
	threshold int
	colorErr  error

	cells []*Cell
	area  float64
}

func newRegion(cfg RegionConfig, shared int) *Region {
	return &Region{cfg: cfg, shared: shared}
}

// resolve parses the target color and picks the threshold once.
func (r *Region) resolve() {
	if r.resolved {
		return
	}
	r.rgb, r.colorErr = parseHex(r.cfg.Color)
	r.threshold = r.shared
	if r.cfg.Threshold != nil {
		r.threshold = *r.cfg.Threshold
	}
	r.resolved = true
}

// matches reports whether c falls within the region threshold.
// The comparison is strict: a distance equal to the threshold is not a match.
func (r *Region) matches(c RGB) bool {
	r.resolve()
	return r.threshold > Distance(c, r.rgb)
}

func (r *Region) add(c *Cell) {
	c.Region = r.cfg.ID
	r.cells = append(r.cells, c)
	r.area += c.Area
}

// ID returns the region identifier.
func (r *Region) ID() string { return r.cfg.ID }

// Config returns the configuration the region was created from.
func (r *Region) Config() RegionConfig { return r.cfg }

// Color returns the target color. Malformed hex strings resolve to black.
func (r *Region) Color() RGB {
	r.resolve()
	return r.rgb
}

// ColorErr returns the parse error of the configured hex color, if any.
func (r *Region) ColorErr() error {
	r.resolve()
	return r.colorErr
}

// Threshold returns the effective color-distance threshold.
func (r *Region) Threshold() int {
	r.resolve()
	return r.threshold
}

// Cells returns copies of the member cells in classification order.
// Changing them has no effect on the region or on later reveals.
func (r *Region) Cells() []Cell {
	cells := make([]Cell, len(r.cells))
	for i, c := range r.cells {
		cells[i] = c.clone()
	}
	return cells
}

// CellIDs returns the identifiers of the member cells in classification order.
func (r *Region) CellIDs() []string {
	ids := make([]string, len(r.cells))
	for i, c := range r.cells {
		ids[i] = c.ID
	}
	return ids
}

// Len returns the number of member cells.
func (r *Region) Len() int { return len(r.cells) }

// Area returns the summed area of the member cells.
func (r *Region) Area() float64 { return r.area }

// RegionIndex maps region identifiers to regions, preserving configuration order.
type RegionIndex struct {
	regions []*Region
	byID    map[string]*Region
}

// NewRegionIndex creates one region per configuration entry. threshold is the
// shared color-distance threshold used by regions without an override.
func NewRegionIndex(configs []RegionConfig, threshold int) *RegionIndex {
	idx := &RegionIndex{
		regions: make([]*Region, 0, len(configs)),
		byID:    make(map[string]*Region, len(configs)),
	}
	for _, cfg := range configs {
		r := newRegion(cfg, threshold)
		idx.regions = append(idx.regions, r)
		if _, ok := idx.byID[cfg.ID]; !ok {
			idx.byID[cfg.ID] = r
		}
	}
	return idx
}

// Lookup returns the region with the given identifier.
func (idx *RegionIndex) Lookup(id string) (*Region, error) {
	r, ok := idx.byID[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return r, nil
}

// Regions returns the regions in configuration order.
func (idx *RegionIndex) Regions() []*Region {
	return append([]*Region(nil), idx.regions...)
}

// Len returns the number of configured regions.
func (idx *RegionIndex) Len() int { return len(idx.regions) }
