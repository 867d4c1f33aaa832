package verification

import (
	"context"
	"errors"
	"image"
	"math/rand/v2"
)

const (
	DefaultWidth       = 50
	DefaultHeight      = 24
	DefaultNoisePoints = 40
	DefaultMaxOffset   = 10
	// DefaultQuality matches libgd's default JPEG quality.
	DefaultQuality     = 75

	// TokenKey is the session key the expected answer is stored under.
	TokenKey    = "tntcon"
	tokenSuffix = "a4xn"

	maxCanvasPixels = 1 << 22
)

// ErrCanvasAlloc is returned when a canvas cannot be acquired. No image is
// produced and the session is left untouched.
var ErrCanvasAlloc = errors.New("cannot initialize verification image canvas")

// State is the session slot the generator writes the token into.
type State interface {
	Set(ctx context.Context, key, value string) error
}

// Rand is the random source used for noise and text placement.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Generator renders verification images. The zero value renders 50x24 images
// with 40 noise pixels using the global random source.
type Generator struct {
	Width       int
	Height      int
	NoisePoints int
	MaxOffset   int
	Quality     int
	Rand        Rand
}

// Layout records what was drawn onto a canvas.
type Layout struct {
	Noise  []image.Point
	Origin image.Point
	Text   string
}

func (g *Generator) width() int   { return orDefault(g.Width, DefaultWidth) }
func (g *Generator) height() int  { return orDefault(g.Height, DefaultHeight) }
func (g *Generator) quality() int { return orDefault(g.Quality, DefaultQuality) }

func (g *Generator) noisePoints() int {
	if g.NoisePoints < 0 {
		return DefaultNoisePoints
	}
	return orDefault(g.NoisePoints, DefaultNoisePoints)
}

func (g *Generator) maxOffset() int {
	if g.MaxOffset < 1 {
		return DefaultMaxOffset
	}
	return g.MaxOffset
}

func (g *Generator) rand() Rand {
	if g.Rand == nil {
		return globalRand{}
	}
	return g.Rand
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
