package reveal

import (
	"context"
	"image"
	"image/color"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/esimov/reveal/utils"
	"github.com/pkg/errors"

	_ "golang.org/x/image/webp" // Register WebP format
)

// Loader obtains a decoded image from a source.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// FileLoader loads images from the local filesystem or, for http(s) sources,
// downloads them first. JPEG, PNG, GIF, BMP, TIFF and WebP are supported and
// EXIF orientation is honored.
type FileLoader struct {
	// Client is used for remote sources. http.DefaultClient when nil.
	Client *http.Client
}

var _ Loader = (*FileLoader)(nil)

// Load decodes the image found at src.
func (l *FileLoader) Load(ctx context.Context, src string) (image.Image, error) {
	if src == "" {
		return nil, errors.New("image source cannot be empty")
	}

	if utils.IsValidUrl(src) {
		f, err := utils.DownloadImage(ctx, l.Client, src)
		if err != nil {
			return nil, err
		}
		defer os.Remove(f.Name())
		defer f.Close()

		return decodeImg(f)
	}

	info, err := os.Stat(src)
	if err != nil {
		return nil, errors.Wrap(err, "could not access the image file")
	}
	if info.IsDir() {
		return nil, errors.Errorf("path is a directory, not a file: %s", src)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrap(err, "could not open the image file")
	}
	defer f.Close()

	return decodeImg(f)
}

// decodeImg decodes an image stream to type image.Image.
func decodeImg(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the image")
	}
	return img, nil
}

// encodeImg encodes an image to w. The format is picked from the file extension
// when w is a file and defaults to PNG otherwise.
func encodeImg(w io.Writer, img image.Image) error {
	format := imaging.PNG
	if f, ok := w.(*os.File); ok && filepath.Ext(f.Name()) != "" {
		var err error
		format, err = imaging.FormatFromFilename(f.Name())
		if err != nil {
			return errors.Wrapf(err, "unsupported output format %q", filepath.Ext(f.Name()))
		}
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(100))
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		rowSize := srcBounds.Dx() * 4
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+rowSize], src.Pix[si:si+rowSize])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
	}
	return dst
}
