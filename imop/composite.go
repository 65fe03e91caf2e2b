package imop

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/esimov/reveal/utils"
)

// Porter-Duff composition operators.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Bitmap is the destination of a composition.
type Bitmap struct {
	Img *image.NRGBA
}

// NewBitmap allocates a transparent bitmap of the given size.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// Composite holds the currently active composition operator.
type Composite struct {
	current string
	ops     []string
}

// InitOp returns a Composite with SrcOver as the active operator.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Clear, Copy, Dst,
			SrcOver, DstOver,
			SrcIn, DstIn,
			SrcOut, DstOut,
			SrcAtop, DstAtop,
			Xor,
		},
	}
}

// Set activates one of the supported composition operators.
func (op *Composite) Set(cop string) error {
	if !slices.Contains(op.ops, cop) {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the active composition operator.
func (op *Composite) Get() string {
	return op.current
}

// factors returns the Porter-Duff source and destination coefficients
// for the given source and backdrop alpha.
func (op *Composite) factors(as, ab float64) (fa, fb float64) {
	switch op.current {
	case Clear:
		return 0, 0
	case Copy:
		return 1, 0
	case Dst:
		return 0, 1
	case SrcOver:
		return 1, 1 - as
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

// Draw composes src over the backdrop dst into bitmap using the active operator.
// When blend is not nil, the source color is first mixed with the backdrop color
// by the blend mode. Pixels outside src or dst count as transparent.
// A nil bitmap composes in place into dst.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA, blend *Blend) {
	if bitmap == nil {
		bitmap = &Bitmap{Img: dst}
	}
	bounds := bitmap.Img.Bounds()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cs := pixel(src, x, y)
			cb := pixel(dst, x, y)

			as, ab := cs[3], cb[3]
			if blend != nil {
				for i := 0; i < 3; i++ {
					cs[i] = (1-ab)*cs[i] + ab*blend.mix(cb[i], cs[i])
				}
			}

			fa, fb := op.factors(as, ab)
			ao := as*fa + ab*fb

			out := color.NRGBA{}
			if ao > 0 {
				ch := [3]uint8{}
				for i := 0; i < 3; i++ {
					ch[i] = toByte((as*fa*cs[i] + ab*fb*cb[i]) / ao)
				}
				out = color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: toByte(ao)}
			}
			bitmap.Img.SetNRGBA(x, y, out)
		}
	}
}

// pixel returns the normalized, non-premultiplied channels of img at (x, y).
func pixel(img *image.NRGBA, x, y int) [4]float64 {
	if img == nil || !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return [4]float64{}
	}
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]

	return [4]float64{
		float64(p[0]) / 255,
		float64(p[1]) / 255,
		float64(p[2]) / 255,
		float64(p[3]) / 255,
	}
}

func toByte(v float64) uint8 {
	return uint8(utils.Clamp(v*255+0.5, 0, 255))
}
