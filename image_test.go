package reveal

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/reveal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_ImgToNRGBA(t *testing.T) {
	rect := image.Rect(-1, -1, 15, 15)
	colors := palette.Plan9
	testCases := []struct {
		name string
		img  image.Image
	}{
		{
			name: "NRGBA",
			img:  makeNRGBAImage(rect, colors),
		},
		{
			name: "YCbCr-444",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio444),
		},
		{
			name: "YCbCr-422",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio422),
		},
		{
			name: "YCbCr-420",
			img:  makeYCbCrImage(rect, colors, image.YCbCrSubsampleRatio420),
		},
		{
			name: "Gray",
			img:  makeGrayImage(rect),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.img.Bounds()
			dst := imgToNRGBA(tc.img)
			assert.Equal(t, image.Rect(0, 0, r.Dx(), r.Dy()), dst.Bounds())

			for y := r.Min.Y; y < r.Max.Y; y++ {
				i := dst.PixOffset(0, y-r.Min.Y)
				got := dst.Pix[i : i+r.Dx()*4]
				want := readRow(tc.img, y)
				if !compareBytes(got, want, 1) {
					t.Errorf("converted row (y=%d): got %v want %v", y, got, want)
				}
			}
		})
	}
}

func TestImage_ImgToNRGBAKeepsZeroBasedNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	assert.Same(t, img, imgToNRGBA(img))
}

func TestImage_FileLoaderLocal(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "mask.png")
	writePNG(t, path, uniformImage(12, 8, color.NRGBA{R: 0xff, A: 0xff}))

	img, err := new(FileLoader).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(12, img.Bounds().Dx())
	assert.Equal(8, img.Bounds().Dy())
	assert.Equal(RGB{R: 0xff}, ToRGB(img.At(3, 3)))
}

func TestImage_FileLoaderRemote(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, uniformImage(6, 6, color.NRGBA{G: 0xff, A: 0xff})))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	loader := &FileLoader{Client: srv.Client()}
	img, err := loader.Load(context.Background(), srv.URL+"/mask.png")
	require.NoError(t, err)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, RGB{G: 0xff}, ToRGB(img.At(0, 0)))
}

func TestImage_FileLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("not an image"), 0644))

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	sources := map[string]string{
		"empty":     "",
		"missing":   filepath.Join(dir, "missing.png"),
		"directory": dir,
		"not image": text,
		"http 404":  srv.URL + "/missing.png",
	}
	loader := &FileLoader{Client: srv.Client()}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			_, err := loader.Load(context.Background(), src)
			assert.Error(t, err)
		})
	}
}

func TestImage_EncodeByExtension(t *testing.T) {
	assert := assert.New(t)
	img := uniformImage(4, 4, color.NRGBA{B: 0xff, A: 0xff})

	for ext, format := range map[string]string{".jpg": "jpeg", ".png": "png", ".gif": "gif"} {
		path := filepath.Join(t.TempDir(), "out"+ext)
		f, err := os.Create(path)
		require.NoError(t, err)
		assert.NoError(encodeImg(f, img))
		f.Close()

		f, err = os.Open(path)
		require.NoError(t, err)
		_, got, err := image.DecodeConfig(f)
		f.Close()
		assert.NoError(err)
		assert.Equal(format, got)
	}

	var buf bytes.Buffer
	assert.NoError(encodeImg(&buf, img))
	_, got, err := image.DecodeConfig(&buf)
	assert.NoError(err)
	assert.Equal("png", got)
}

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
}

func makeYCbCrImage(rect image.Rectangle, colors []color.Color, sr image.YCbCrSubsampleRatio) *image.YCbCr {
	img := image.NewYCbCr(rect, sr)
	j := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			iy := img.YOffset(x, y)
			ic := img.COffset(x, y)
			c := color.NRGBAModel.Convert(colors[j]).(color.NRGBA)
			img.Y[iy], img.Cb[ic], img.Cr[ic] = color.RGBToYCbCr(c.R, c.G, c.B)
			j++
		}
	}
	return img
}

func makeNRGBAImage(rect image.Rectangle, colors []color.Color) *image.NRGBA {
	img := image.NewNRGBA(rect)
	fillDrawImage(img, colors)
	return img
}

func makeGrayImage(rect image.Rectangle) *image.Gray {
	img := image.NewGray(rect)
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	return img
}

func fillDrawImage(img draw.Image, colors []color.Color) {
	colorsNRGBA := make([]color.NRGBA, len(colors))
	for i, c := range colors {
		nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
		nrgba.A = uint8(i % 256)
		colorsNRGBA[i] = nrgba
	}
	rect := img.Bounds()
	i := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.Set(x, y, colorsNRGBA[i])
			i++
		}
	}
}

func readRow(img image.Image, y int) []uint8 {
	row := make([]byte, img.Bounds().Dx()*4)
	i := 0
	for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		row[i+0] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
		row[i+3] = c.A
		i += 4
	}
	return row
}

func compareBytes(a, b []uint8, delta int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if utils.Abs(int(a[i])-int(b[i])) > delta {
			return false
		}
	}
	return true
}
