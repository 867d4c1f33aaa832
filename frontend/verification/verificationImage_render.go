package verification

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

var (
	background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	foreground = color.RGBA{A: 0xff}
	textFace   = inconsolata.Regular8x16
)

// Token derives the session value for a rendered string. External verifiers
// compare against this exact format.
func Token(candidate string) string {
	sum := md5.Sum([]byte(candidate))
	return hex.EncodeToString(sum[:]) + tokenSuffix
}

// Render composes the verification image for candidate on a fresh canvas.
// The caller owns the returned canvas and must Release it.
func (g *Generator) Render(candidate string) (*Canvas, Layout, error) {
	c, err := acquireCanvas(g.width(), g.height())
	if err != nil {
		return nil, Layout{}, err
	}
	layout := g.compose(c.Image(), candidate)
	return c, layout, nil
}

func (g *Generator) compose(img *image.RGBA, text string) Layout {
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	rnd := g.rand()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	layout := Layout{Noise: make([]image.Point, 0, g.noisePoints()), Text: text}
	for range g.noisePoints() {
		p := image.Pt(rnd.IntN(w), rnd.IntN(h))
		img.SetRGBA(p.X, p.Y, foreground)
		layout.Noise = append(layout.Noise, p)
	}

	layout.Origin = image.Pt(1+rnd.IntN(g.maxOffset()), 1+rnd.IntN(g.maxOffset()))
	drawText(img, layout.Origin, text)
	return layout
}

// drawText places text with origin as the top-left corner of the glyph box.
func drawText(img draw.Image, origin image.Point, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(foreground),
		Face: textFace,
		Dot: fixed.Point26_6{
			X: fixed.I(origin.X),
			Y: fixed.I(origin.Y) + textFace.Metrics().Ascent,
		},
	}
	d.DrawString(text)
}

// Generate renders candidate, stores its token in state and writes the JPEG
// to w. On a canvas failure nothing is written and state is not touched. The
// token is stored only once the image has been encoded, so it always matches
// an image the client can receive.
func (g *Generator) Generate(ctx context.Context, w io.Writer, candidate string, state State) (Layout, error) {
	c, layout, err := g.Render(candidate)
	if err != nil {
		return Layout{}, err
	}
	defer c.Release()

	var buf bytes.Buffer
	if err := c.EncodeJPEG(&buf, g.quality()); err != nil {
		return layout, fmt.Errorf("encode jpeg: %w", err)
	}
	if err := state.Set(ctx, TokenKey, Token(candidate)); err != nil {
		return layout, fmt.Errorf("store verification token: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return layout, fmt.Errorf("write image: %w", err)
	}
	return layout, nil
}
