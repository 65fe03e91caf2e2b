package reveal

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlay_DrawCells(t *testing.T) {
	assert := assert.New(t)

	ext := Extent{Width: 20, Height: 20}
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	overlay := NewOverlay(uniformImage(20, 20, white))
	defer overlay.Close()
	overlay.Outline = true

	cells := Voronoi(ext, []Point{{5, 10}, {15, 10}})
	cells[0].Color = RGB{R: 0xff}
	cells[1].Color = RGB{B: 0xff}
	cells = append(cells, &Cell{ID: "area2"})

	require.NoError(t, overlay.DrawCells(cells, 1))

	img := overlay.Image()
	assert.Equal(ext.Width, img.Bounds().Dx())

	left := ToRGB(img.At(4, 10))
	right := ToRGB(img.At(16, 10))
	assert.InDelta(0xff, int(left.R), 2)
	assert.InDelta(0, int(left.B), 2)
	assert.InDelta(0xff, int(right.B), 2)
	assert.InDelta(0, int(right.R), 2)
}

func TestOverlay_TransparentCells(t *testing.T) {
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	overlay := NewOverlay(uniformImage(10, 10, white))
	defer overlay.Close()

	cells := Voronoi(Extent{Width: 10, Height: 10}, []Point{{5, 5}})
	require.NoError(t, overlay.DrawCells(cells, 0))

	c := ToRGB(overlay.Image().At(5, 5))
	assert.Equal(t, RGB{R: 0xff, G: 0xff, B: 0xff}, c)
}
