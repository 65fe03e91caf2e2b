package reveal

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/esimov/reveal/utils"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// RGB is an 8-bit color triple. Alpha never takes part in color matching.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

var _ color.Color = RGB{}

// RGBA implements the color.Color interface. The color is always fully opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Hex returns the color as a lowercase hex string, e.g. "#1a2b3c".
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// String returns the color in the "rgb(r, g, b)" notation.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// ToRGB converts any color.Color to RGB, dropping the alpha channel.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Distance returns the L1 distance between two colors, the sum of the absolute
// per channel differences. The result lies in [0, 765].
func Distance(a, b RGB) int {
	return utils.Sum(
		utils.Abs(int(a.R)-int(b.R)),
		utils.Abs(int(a.G)-int(b.G)),
		utils.Abs(int(a.B)-int(b.B)),
	)
}

// ParseHex parses a "#rrggbb" (or "rrggbb") string. Malformed input yields black.
func ParseHex(s string) RGB {
	c, _ := parseHex(s)
	return c
}

// parseHex is the strict variant of ParseHex, reporting malformed input.
func parseHex(s string) (RGB, error) {
	digits := strings.TrimPrefix(s, "#")
	if len(digits) != 6 {
		return RGB{}, errors.Errorf("malformed hex color %q: expected 6 hex digits", s)
	}
	for _, r := range digits {
		if !isHexDigit(r) {
			return RGB{}, errors.Errorf("malformed hex color %q: invalid digit %q", s, r)
		}
	}
	c, err := colorful.Hex("#" + strings.ToLower(digits))
	if err != nil {
		return RGB{}, errors.Wrapf(err, "malformed hex color %q", s)
	}
	r, g, b := c.RGB255()

	return RGB{R: r, G: g, B: b}, nil
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
