package render

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Colormap maps a normalised value in [0, 1] onto a slow -> fast gradient.
type Colormap struct {
	slow, fast colorful.Color
}

// NewColormap builds a gradient from two hex colours such as "#2c7bb6".
func NewColormap(slowHex, fastHex string) (Colormap, error) {
	slow, err := colorful.Hex(slowHex)
	if err != nil {
		return Colormap{}, errors.Wrapf(err, "slow colour %q", slowHex)
	}
	fast, err := colorful.Hex(fastHex)
	if err != nil {
		return Colormap{}, errors.Wrapf(err, "fast colour %q", fastHex)
	}
	return Colormap{slow: slow, fast: fast}, nil
}

// At blends in Lab space so the midpoint does not go muddy.
func (c Colormap) At(t float64) colorful.Color {
	return c.slow.BlendLab(c.fast, clamp01(t)).Clamped()
}

// Normalize scales v from [min, max] to [0, 1]. A flat range maps to 0.
func Normalize(v, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return clamp01((v - min) / (max - min))
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}
