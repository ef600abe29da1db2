// Package display is the drawing surface: logical canvas flushed to framebuffer.
package display

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/tapui/hardware/display/framebuffer"
	"golang.org/x/image/draw"
)

type Display struct {
	mu      sync.Mutex
	fb      *framebuffer.Framebuffer
	canvas  *image.RGBA // logical resolution, what UI draws on
	device  *image.RGBA // framebuffer resolution, nil when same as canvas
	flushes int
	last    *image.RGBA // mock only, copy of canvas at last flush
}

// NewFb opens framebuffer device. Zero logical size means device size.
func NewFb(dev string, logical image.Point) (*Display, error) {
	fb, err := framebuffer.New(dev)
	if err != nil {
		return nil, errors.Annotatef(err, "framebuffer device=%s", dev)
	}
	size := fb.Size()
	if logical.X <= 0 || logical.Y <= 0 {
		logical = size
	}
	d := &Display{
		fb:     fb,
		canvas: image.NewRGBA(image.Rectangle{Max: logical}),
	}
	if logical != size {
		d.device = image.NewRGBA(image.Rectangle{Max: size})
	}
	return d, nil
}

func NewMock(size image.Point) *Display {
	return &Display{canvas: image.NewRGBA(image.Rectangle{Max: size})}
}

func (d *Display) Canvas() *image.RGBA { return d.canvas }

func (d *Display) Size() image.Point { return d.canvas.Rect.Size() }

func (d *Display) Clear() error {
	draw.Draw(d.canvas, d.canvas.Rect, image.NewUniform(color.Black), image.Point{}, draw.Src)
	return d.Flush()
}

// Flush writes canvas to hardware, scaled bilinear when resolutions differ.
// Safe to call from spinner goroutine.
func (d *Display) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushes++
	if d.fb == nil {
		if d.last == nil {
			d.last = image.NewRGBA(d.canvas.Rect)
		}
		copy(d.last.Pix, d.canvas.Pix)
		return nil
	}
	src := d.canvas
	if d.device != nil {
		draw.ApproxBiLinear.Scale(d.device, d.device.Rect, d.canvas, d.canvas.Rect, draw.Src, nil)
		src = d.device
	}
	if err := d.fb.Update(src); err != nil {
		return err
	}
	return d.fb.Flush()
}

func (d *Display) Flushes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flushes
}

// Snapshot is what was flushed last. For mock it is exact copy, otherwise current canvas.
func (d *Display) Snapshot() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	src := d.last
	if src == nil {
		src = d.canvas
	}
	img := image.NewRGBA(src.Rect)
	copy(img.Pix, src.Pix)
	return img
}

func (d *Display) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Annotate(err, "display png")
	}
	if err = png.Encode(f, d.Snapshot()); err != nil {
		f.Close()
		return errors.Annotate(err, "display png")
	}
	return errors.Annotate(f.Close(), "display png")
}

func (d *Display) Close() error {
	if d.fb != nil {
		return d.fb.Close()
	}
	return nil
}
