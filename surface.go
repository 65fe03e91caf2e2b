package reveal

import (
	"image"

	"github.com/esimov/reveal/utils"
)

// Surface is a color-bearing plane with a fixed extent.
type Surface interface {
	Extent() Extent
	// Sample returns the color at pt. Points outside the extent are a caller error;
	// see ImageSurface for the policy applied by the default implementation.
	Sample(pt Point) RGB
}

// ImageSurface samples colors from a decoded image.
//
// The coordinates passed to Sample are truncated toward zero and clamped to the
// nearest edge pixel, so out-of-range points never fail. The alpha channel is
// read with the pixel but discarded.
type ImageSurface struct {
	img *image.NRGBA
}

var _ Surface = (*ImageSurface)(nil)

// NewImageSurface wraps img, converting it to NRGBA with its origin at (0, 0).
func NewImageSurface(img image.Image) *ImageSurface {
	return &ImageSurface{img: imgToNRGBA(img)}
}

// Extent returns the image dimensions.
func (s *ImageSurface) Extent() Extent {
	b := s.img.Bounds()
	return Extent{Width: b.Dx(), Height: b.Dy()}
}

// Sample returns the color of the pixel containing pt.
func (s *ImageSurface) Sample(pt Point) RGB {
	ext := s.Extent()
	if !ext.Valid() {
		return RGB{}
	}
	x := utils.Clamp(int(pt.X), 0, ext.Width-1)
	y := utils.Clamp(int(pt.Y), 0, ext.Height-1)

	i := s.img.PixOffset(x, y)
	pix := s.img.Pix[i : i+4 : i+4]

	return RGB{R: pix[0], G: pix[1], B: pix[2]}
}

// Image returns the underlying NRGBA image.
func (s *ImageSurface) Image() *image.NRGBA {
	return s.img
}
