package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(SrcOver, op.Get())

	assert.NoError(op.Set(Clear))
	assert.Equal(Clear, op.Get())

	assert.Error(op.Set("unsupported_composite_operation"))
	assert.Equal(Clear, op.Get())

	assert.NoError(op.Set(Dst))
	assert.Equal(Dst, op.Get())
}

func TestComp_Ops(t *testing.T) {
	transparent := color.NRGBA{R: 0, G: 0, B: 0, A: 0}
	cyan := color.NRGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.NRGBA{R: 233, G: 30, B: 99, A: 255}

	rect := image.Rect(0, 0, 10, 10)
	source := image.NewNRGBA(rect)
	backdrop := image.NewNRGBA(rect)

	// The source covers the bottom left corner, the backdrop the top right one;
	// they overlap in the center.
	draw.Draw(source, image.Rect(0, 4, 6, 10), &image.Uniform{cyan}, image.Point{}, draw.Src)
	draw.Draw(backdrop, image.Rect(4, 0, 10, 6), &image.Uniform{magenta}, image.Point{}, draw.Src)

	// Depending on the applied composition operation the colors of the
	// selected pixels should be the source color, the destination color or transparent.
	testCases := []struct {
		op                           string
		topRight, bottomLeft, center color.NRGBA
	}{
		{Clear, transparent, transparent, transparent},
		{Copy, transparent, cyan, cyan},
		{Dst, magenta, transparent, magenta},
		{SrcOver, magenta, cyan, cyan},
		{DstOver, magenta, cyan, magenta},
		{SrcIn, transparent, transparent, cyan},
		{DstIn, transparent, transparent, magenta},
		{SrcOut, transparent, cyan, transparent},
		{DstOut, magenta, transparent, transparent},
		{SrcAtop, magenta, transparent, cyan},
		{DstAtop, transparent, cyan, magenta},
		{Xor, magenta, cyan, transparent},
	}

	op := InitOp()
	bmp := NewBitmap(rect)
	for _, tc := range testCases {
		t.Run(tc.op, func(t *testing.T) {
			assert := assert.New(t)

			assert.NoError(op.Set(tc.op))
			op.Draw(bmp, source, backdrop, nil)

			assert.Equal(tc.topRight, bmp.Img.NRGBAAt(9, 0))
			assert.Equal(tc.bottomLeft, bmp.Img.NRGBAAt(0, 9))
			assert.Equal(tc.center, bmp.Img.NRGBAAt(5, 5))
		})
	}
}

func TestComp_SemiTransparentSource(t *testing.T) {
	assert := assert.New(t)

	rect := image.Rect(0, 0, 1, 1)
	source := image.NewNRGBA(rect)
	backdrop := image.NewNRGBA(rect)
	source.SetNRGBA(0, 0, color.NRGBA{B: 255, A: 128})
	backdrop.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	// A nil bitmap composes in place.
	InitOp().Draw(nil, source, backdrop, nil)

	got := backdrop.NRGBAAt(0, 0)
	assert.Equal(uint8(255), got.A)
	assert.InDelta(127, int(got.R), 1)
	assert.InDelta(128, int(got.B), 1)
}
