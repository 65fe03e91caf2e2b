package reveal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

// Default configuration values.
const (
	DefaultVertices  = 100
	DefaultThreshold = 10
)

// State is the lifecycle state of a widget.
type State int

// Widget lifecycle: Unbuilt → Loading → Ready, or Failed when the build aborts.
const (
	Unbuilt State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Unbuilt:
		return "unbuilt"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Config holds the widget options.
type Config struct {
	// Base, Reveal and Mask are image sources: file paths or http(s) URLs.
	Base   string `json:"base"`
	Reveal string `json:"reveal"`
	Mask   string `json:"mask"`
	// Regions are evaluated in order; the first match wins.
	Regions []RegionConfig `json:"regions"`
	// Vertices is the number of random sites of the tessellation.
	// Zero means DefaultVertices.
	Vertices int `json:"vertices"`
	// Threshold is the shared L1 color-distance threshold, DefaultThreshold when nil.
	// A cell matches a region only when the threshold strictly exceeds the
	// distance, so an explicit zero matches nothing.
	Threshold *int `json:"mask-threshold,omitempty"`
	// Seed drives the site generator. Zero picks a time based seed.
	Seed int64 `json:"seed,omitempty"`
	// Opacity is passed to the polygon renderer when the cells are drawn.
	Opacity float64 `json:"opacity,omitempty"`
}

// DefaultConfig returns a Config with the default vertex count and threshold.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

// withDefaults fills in the vertex count and threshold left unset.
func (c Config) withDefaults() Config {
	if c.Vertices == 0 {
		c.Vertices = DefaultVertices
	}
	// The copy keeps the widget from sharing the caller's threshold.
	t := c.threshold()
	c.Threshold = &t
	return c
}

// threshold returns the effective shared threshold.
func (c Config) threshold() int {
	if c.Threshold == nil {
		return DefaultThreshold
	}
	return *c.Threshold
}

// Validate checks that all required options are present. Unset vertex counts
// are valid; NewWidget replaces them with the default.
func (c Config) Validate() error {
	switch {
	case c.Base == "":
		return &ConfigError{Field: "base", Reason: "missing base image"}
	case c.Reveal == "":
		return &ConfigError{Field: "reveal", Reason: "missing reveal image"}
	case c.Mask == "":
		return &ConfigError{Field: "mask", Reason: "missing mask image"}
	case c.Regions == nil:
		return &ConfigError{Field: "regions", Reason: "missing region list"}
	case c.Vertices < 0:
		return &ConfigError{Field: "vertices", Reason: "vertex count cannot be negative"}
	}

	seen := make(map[string]struct{}, len(c.Regions))
	for i, r := range c.Regions {
		if r.ID == "" {
			return &ConfigError{Field: "regions", Reason: fmt.Sprintf("region #%d has no id", i)}
		}
		if _, ok := seen[r.ID]; ok {
			return &ConfigError{Field: "regions", Reason: fmt.Sprintf("duplicate region id %q", r.ID)}
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// Widget ties the reveal pipeline together: it loads the mask, tessellates its
// extent, classifies the cells into regions and reveals regions on request.
//
// A widget runs a single build pipeline. Calling Build while a build is in
// progress, or once the widget is ready, violates that precondition and is
// reported with ErrInvalidState.
//
// Reveal, conceal and boundary queries are serialized, so a widget may be
// shared between goroutines. The Clip target is called with the widget lock
// held and must not call back into the widget.
type Widget struct {
	// Logger receives the pipeline diagnostics. Logging is disabled when nil.
	Logger hclog.Logger
	// Loader obtains the mask image. A FileLoader is used when nil.
	Loader Loader
	// Renderer, when set, draws the cells once they are classified.
	Renderer PolygonRenderer
	// Clip receives the boundary of every revealed region.
	Clip ClipSetter

	cfg Config

	mu     sync.Mutex
	state  State
	extent Extent
	cells  []*Cell
	index  *RegionIndex
	comp   *Compositor
}

// NewWidget validates cfg and creates an unbuilt widget. Options left unset
// take their default values.
func NewWidget(cfg Config) (*Widget, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	cfg.Regions = append([]RegionConfig{}, cfg.Regions...)

	return &Widget{cfg: cfg}, nil
}

// Config returns the widget configuration.
func (w *Widget) Config() Config { return w.cfg }

// State returns the current lifecycle state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

func (w *Widget) logger() hclog.Logger {
	if w.Logger == nil {
		return hclog.NewNullLogger()
	}
	return w.Logger
}

func (w *Widget) loader() Loader {
	if w.Loader == nil {
		return &FileLoader{}
	}
	return w.Loader
}

// Build runs the whole pipeline: load the mask, tessellate and classify.
// Any failure aborts the build without leaving partial results behind and
// moves the widget to Failed, from where Build may be called again.
func (w *Widget) Build(ctx context.Context) error {
	w.mu.Lock()
	if w.state == Loading || w.state == Ready {
		state := w.state
		w.mu.Unlock()
		return errors.Wrapf(ErrInvalidState, "cannot build a widget in state %s", state)
	}
	w.state = Loading
	w.mu.Unlock()

	log := w.logger()
	log.Info("building widget", "mask", w.cfg.Mask, "vertices", w.cfg.Vertices, "regions", len(w.cfg.Regions))

	img, err := w.loader().Load(ctx, w.cfg.Mask)
	if err != nil {
		return w.fail(&LoadError{Src: w.cfg.Mask, Err: err})
	}
	surface := NewImageSurface(img)
	ext := surface.Extent()
	if !ext.Valid() {
		return w.fail(&LoadError{Src: w.cfg.Mask, Err: errors.Errorf("empty mask image %dx%d", ext.Width, ext.Height)})
	}
	log.Debug("mask loaded", "width", ext.Width, "height", ext.Height)

	seed := w.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cells, err := NewTessellator(seed).Tessellate(ext, w.cfg.Vertices)
	if err != nil {
		return w.fail(errors.Wrap(err, "tessellation failed"))
	}
	log.Debug("extent tessellated", "cells", len(cells), "seed", seed)

	index := NewRegionIndex(w.cfg.Regions, w.cfg.threshold())
	Classify(cells, index.Regions(), surface)

	for _, r := range index.Regions() {
		if r.resolved && r.colorErr != nil {
			log.Warn("malformed region color, using black", "region", r.ID(), "error", r.colorErr)
		}
		log.Debug("region classified", "region", r.ID(), "cells", r.Len(), "area", r.Area())
	}

	if w.Renderer != nil {
		if err := w.Renderer.DrawCells(cells, w.cfg.Opacity); err != nil {
			return w.fail(errors.Wrap(err, "cannot draw cells"))
		}
	}

	w.mu.Lock()
	w.extent = ext
	w.cells = cells
	w.index = index
	w.comp = NewCompositor(index, cells, clipForwarder{w})
	w.state = Ready
	w.mu.Unlock()

	log.Info("widget ready", "width", ext.Width, "height", ext.Height)

	return nil
}

func (w *Widget) fail(err error) error {
	w.mu.Lock()
	w.state = Failed
	w.mu.Unlock()

	w.logger().Error("build failed", "error", err)
	return err
}

// ready returns an error unless the widget finished building.
func (w *Widget) ready() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.readyLocked()
}

// readyLocked is ready for callers holding w.mu.
func (w *Widget) readyLocked() error {
	if w.state != Ready {
		return errors.Wrapf(ErrInvalidState, "widget is %s", w.state)
	}
	return nil
}

// RevealRegion exposes the cells of a region, replacing its previous boundary,
// and returns the polygons now exposed for it.
func (w *Widget) RevealRegion(id string) ([]Polygon, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.readyLocked(); err != nil {
		return nil, err
	}
	polygons, err := w.comp.Reveal(id)
	if err != nil {
		return nil, err
	}
	w.logger().Debug("region revealed", "region", id, "polygons", len(polygons))

	return polygons, nil
}

// ConcealRegion removes the boundary of a region.
func (w *Widget) ConcealRegion(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.readyLocked(); err != nil {
		return err
	}
	return w.comp.Conceal(id)
}

// Boundary returns the polygons currently exposed for a region.
func (w *Widget) Boundary(id string) ([]Polygon, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.readyLocked(); err != nil {
		return nil, err
	}
	return w.comp.Boundary(id)
}

// Lookup returns a classified region.
func (w *Widget) Lookup(id string) (*Region, error) {
	if err := w.ready(); err != nil {
		return nil, err
	}
	return w.index.Lookup(id)
}

// Regions returns the classified regions in configuration order.
func (w *Widget) Regions() []*Region {
	if w.ready() != nil {
		return nil
	}
	return w.index.Regions()
}

// Cells returns copies of the cells in tessellation order.
func (w *Widget) Cells() []*Cell {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.readyLocked() != nil {
		return nil
	}
	cells := make([]*Cell, len(w.cells))
	for i, c := range w.cells {
		cp := c.clone()
		cells[i] = &cp
	}
	return cells
}

// Extent returns the mask extent. It is zero until the widget is ready.
func (w *Widget) Extent() Extent {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.extent
}

// RegionReport summarizes one classified region.
type RegionReport struct {
	ID        string  `json:"id"`
	Color     string  `json:"color"`
	Threshold int     `json:"threshold"`
	Cells     int     `json:"cells"`
	Area      float64 `json:"area"`
}

// Report summarizes the classification of every region.
func (w *Widget) Report() []RegionReport {
	regions := w.Regions()
	report := make([]RegionReport, 0, len(regions))
	for _, r := range regions {
		report = append(report, RegionReport{
			ID:        r.ID(),
			Color:     r.Color().Hex(),
			Threshold: r.Threshold(),
			Cells:     r.Len(),
			Area:      r.Area(),
		})
	}
	return report
}

// clipForwarder hands boundaries to the widget's current ClipSetter,
// which may be installed after the build.
type clipForwarder struct {
	w *Widget
}

func (f clipForwarder) SetClip(id string, polygons []Polygon) error {
	if f.w.Clip == nil {
		return nil
	}
	return f.w.Clip.SetClip(id, polygons)
}
