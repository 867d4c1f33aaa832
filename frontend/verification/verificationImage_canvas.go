package verification

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"sync"
)

var defaultCanvasPool = sync.Pool{
	New: func() any {
		return image.NewRGBA(image.Rect(0, 0, DefaultWidth, DefaultHeight))
	},
}

// Canvas is a request-scoped bitmap. Callers must Release it.
type Canvas struct {
	img    *image.RGBA
	pooled bool
}

func acquireCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 || width*height > maxCanvasPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvasAlloc, width, height)
	}
	if width == DefaultWidth && height == DefaultHeight {
		return &Canvas{img: defaultCanvasPool.Get().(*image.RGBA), pooled: true}, nil
	}
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

// Image returns the underlying bitmap. It must not be used after Release.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// EncodeJPEG writes the canvas as a baseline JPEG.
func (c *Canvas) EncodeJPEG(w io.Writer, quality int) error {
	if c.img == nil {
		return fmt.Errorf("canvas already released")
	}
	return jpeg.Encode(w, c.img, &jpeg.Options{Quality: quality})
}

// Release returns the bitmap to the pool. Safe to call more than once.
func (c *Canvas) Release() {
	if c == nil || c.img == nil {
		return
	}
	if c.pooled {
		defaultCanvasPool.Put(c.img)
	}
	c.img = nil
}
