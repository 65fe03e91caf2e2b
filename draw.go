package reveal

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/esimov/reveal/imop"
	"github.com/pkg/errors"
	"golang.org/x/image/vector"
)

// Canvas is the default layer adapter: it keeps the base and reveal layers
// fitted to the mask extent together with one rasterized clip mask per region,
// and composites the reveal layer, clipped to the union of all installed
// masks, over the base layer.
type Canvas struct {
	extent Extent
	base   *image.NRGBA
	reveal *image.NRGBA
	masks  map[string]*image.Alpha

	// Blend is the optional blend mode used when laying the reveal layer over the base.
	Blend *imop.Blend
	// Op is the composition operator of the reveal layer. Source over is used when nil.
	Op *imop.Composite
	// Feather softens the clip edges with a gaussian blur of the given sigma.
	Feather float64
}

var _ ClipSetter = (*Canvas)(nil)

// NewCanvas creates a canvas of the given extent. Layers whose size differs
// from the extent are resized to fit it.
func NewCanvas(ext Extent, base, reveal image.Image) (*Canvas, error) {
	if !ext.Valid() {
		return nil, errors.Errorf("invalid canvas extent %dx%d", ext.Width, ext.Height)
	}
	if base == nil || reveal == nil {
		return nil, errors.New("canvas requires both a base and a reveal layer")
	}
	return &Canvas{
		extent: ext,
		base:   fitLayer(base, ext),
		reveal: fitLayer(reveal, ext),
		masks:  make(map[string]*image.Alpha),
	}, nil
}

// fitLayer converts img to NRGBA and resizes it to the extent when needed.
func fitLayer(img image.Image, ext Extent) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == ext.Width && b.Dy() == ext.Height {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, ext.Width, ext.Height, imaging.Lanczos)
}

// SetClip rasterizes the polygons into the clip mask of id, replacing the
// previous mask. An empty polygon list removes the mask.
func (c *Canvas) SetClip(id string, polygons []Polygon) error {
	if len(polygons) == 0 {
		delete(c.masks, id)
		return nil
	}

	r := vector.NewRasterizer(c.extent.Width, c.extent.Height)
	for _, p := range polygons {
		if len(p) < 3 {
			continue
		}
		r.MoveTo(float32(p[0].X), float32(p[0].Y))
		for _, pt := range p[1:] {
			r.LineTo(float32(pt.X), float32(pt.Y))
		}
		r.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, c.extent.Width, c.extent.Height))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	c.masks[id] = mask

	return nil
}

// Mask returns the union of all installed clip masks.
func (c *Canvas) Mask() *image.Alpha {
	union := image.NewAlpha(image.Rect(0, 0, c.extent.Width, c.extent.Height))
	for _, m := range c.masks {
		draw.Draw(union, union.Bounds(), m, image.Point{}, draw.Over)
	}
	return union
}

// Composite renders the current state: the base layer with the reveal layer
// showing through the installed clip masks.
func (c *Canvas) Composite() *image.NRGBA {
	bounds := c.base.Bounds()

	// Reveal layer restricted to the clip area.
	mask := c.Mask()
	if c.Feather > 0 {
		mask = feather(mask, c.Feather)
	}
	clipped := image.NewNRGBA(bounds)
	draw.DrawMask(clipped, bounds, c.reveal, image.Point{}, mask, image.Point{}, draw.Src)

	op := c.Op
	if op == nil {
		op = imop.InitOp()
	}
	bmp := imop.NewBitmap(bounds)
	op.Draw(bmp, clipped, c.base, c.Blend)

	return bmp.Img
}

// feather blurs the coverage of mask.
func feather(mask *image.Alpha, sigma float64) *image.Alpha {
	blurred := imaging.Blur(mask, sigma)

	out := image.NewAlpha(mask.Bounds())
	for i := range out.Pix {
		out.Pix[i] = blurred.Pix[i*4+3]
	}
	return out
}

// Base returns the fitted base layer.
func (c *Canvas) Base() *image.NRGBA { return c.base }
