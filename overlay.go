package reveal

import (
	"image"

	"github.com/gogpu/gg"
	"github.com/pkg/errors"
)

// PolygonRenderer draws one shape per cell, in cell order, at the given opacity.
type PolygonRenderer interface {
	DrawCells(cells []*Cell, opacity float64) error
}

// Overlay renders the tessellation on top of a backdrop image. Every cell is
// filled with its sampled mask color; outlines are optional.
type Overlay struct {
	dc *gg.Context

	// Outline strokes the cell borders when set.
	Outline bool
	// LineWidth is the outline width. Defaults to 1.
	LineWidth float64
}

var _ PolygonRenderer = (*Overlay)(nil)

// NewOverlay creates an overlay drawing on a copy of backdrop.
func NewOverlay(backdrop image.Image) *Overlay {
	return &Overlay{
		dc:        gg.NewContextForImage(backdrop),
		LineWidth: 1,
	}
}

// DrawCells fills every cell polygon with its sampled color at the given opacity.
func (o *Overlay) DrawCells(cells []*Cell, opacity float64) error {
	for _, c := range cells {
		if len(c.Polygon) < 3 {
			continue
		}
		o.path(c.Polygon)
		o.dc.SetRGBA(
			float64(c.Color.R)/255,
			float64(c.Color.G)/255,
			float64(c.Color.B)/255,
			opacity,
		)
		if err := o.dc.Fill(); err != nil {
			return errors.Wrapf(err, "cannot fill cell %s", c.ID)
		}

		if o.Outline {
			o.path(c.Polygon)
			o.dc.SetRGBA(0, 0, 0, 1)
			o.dc.SetLineWidth(o.LineWidth)
			if err := o.dc.Stroke(); err != nil {
				return errors.Wrapf(err, "cannot stroke cell %s", c.ID)
			}
		}
	}
	return nil
}

func (o *Overlay) path(p Polygon) {
	o.dc.MoveTo(p[0].X, p[0].Y)
	for _, pt := range p[1:] {
		o.dc.LineTo(pt.X, pt.Y)
	}
	o.dc.ClosePath()
}

// Image returns the rendered overlay.
func (o *Overlay) Image() image.Image {
	return o.dc.Image()
}

// Close releases the drawing context.
func (o *Overlay) Close() error {
	return o.dc.Close()
}
