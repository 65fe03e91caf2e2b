// Package imop implements the Porter-Duff composition operations
// used for mixing a graphic element with its backdrop.
// The image/draw core package implements only the source-over-destination
// and source operators, this package covers the remaining ones together with
// the separable blend modes.
//
// It is used to lay the clipped reveal layer over the base image.
package imop

import (
	"fmt"
	"slices"

	"github.com/esimov/reveal/utils"
)

// Separable blend modes.
const (
	Normal   = "normal"
	Darken   = "darken"
	Lighten  = "lighten"
	Multiply = "multiply"
	Screen   = "screen"
	Overlay  = "overlay"
)

var blendModes = []string{Normal, Darken, Lighten, Multiply, Screen, Overlay}

// Blend holds the currently active blend mode.
type Blend struct {
	OpType string
}

// NewBlend initializes a new Blend in normal mode.
func NewBlend() *Blend {
	return &Blend{OpType: Normal}
}

// Set activates one of the supported blend modes.
func (o *Blend) Set(opType string) error {
	if !slices.Contains(blendModes, opType) {
		return fmt.Errorf("unsupported blend mode: %q", opType)
	}
	o.OpType = opType
	return nil
}

// Get returns the currently active blend mode.
func (o *Blend) Get() string {
	return o.OpType
}

// mix applies the blend function to a backdrop channel cb and a source channel cs,
// both normalized to [0, 1].
func (o *Blend) mix(cb, cs float64) float64 {
	switch o.OpType {
	case Darken:
		return utils.Min(cb, cs)
	case Lighten:
		return utils.Max(cb, cs)
	case Multiply:
		return cb * cs
	case Screen:
		return cb + cs - cb*cs
	case Overlay:
		// Overlay is hard light with the layers swapped.
		if cb <= 0.5 {
			return cs * 2 * cb
		}
		d := 2*cb - 1
		return cs + d - cs*d
	}
	return cs
}
