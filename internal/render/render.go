// Package render paints screen widgets back to front onto a canvas.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/widget"
	"github.com/temoto/tapui/log2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var StatusColor = color.RGBA{0, 0, 255, 255}

// ShiftLoader resolves shift variant icons, which are not bound upfront.
type ShiftLoader interface {
	Load(name string) (*assets.Asset, error)
}

type Renderer struct {
	Log        *log2.Log
	Background color.Color
	Shift      ShiftLoader

	cache map[*widget.Widget]*entry
}

// per widget scaled bitmaps
type entry struct {
	src    *assets.Asset
	size   image.Point
	static *image.RGBA

	shiftLoaded bool
	shiftSrc    *assets.Asset
	shift       *image.RGBA
}

func New(log *log2.Log) *Renderer {
	return &Renderer{
		Log:        log,
		Background: color.Black,
		cache:      make(map[*widget.Widget]*entry),
	}
}

// Invalidate drops scaled caches, call after icon set change.
func (self *Renderer) Invalidate() {
	self.cache = make(map[*widget.Widget]*entry)
}

func (self *Renderer) Clear(dst draw.Image) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(self.Background), image.Point{}, draw.Src)
}

// Render clears dst and draws widgets in descending index order,
// so index 0 ends up on top.
func (self *Renderer) Render(dst draw.Image, s *widget.Screen, shift bool) {
	self.Clear(dst)
	for i := len(s.Widgets) - 1; i >= 0; i-- {
		self.DrawWidget(dst, s.Widgets[i], shift)
	}
}

func (self *Renderer) DrawWidget(dst draw.Image, w *widget.Widget, shift bool) {
	size := w.Size
	if size.X <= 0 || size.Y <= 0 {
		size = w.BaseSize()
	}
	r := image.Rectangle{Min: w.Rect.Min, Max: w.Rect.Min.Add(size)}
	if r.Empty() {
		return
	}
	if w.Fill != nil {
		draw.Draw(dst, r, image.NewUniform(w.Fill), image.Point{}, draw.Src)
	}
	if w.Bg != nil {
		if img := self.shiftImage(w, size, shift); img != nil {
			draw.Draw(dst, r, img, image.Point{}, draw.Over)
		} else if w.Active || w.Animating {
			draw.NearestNeighbor.Scale(dst, r, w.Bg.Image, w.Bg.Image.Bounds(), draw.Over, nil)
		} else {
			draw.Draw(dst, r, self.static(w, size), image.Point{}, draw.Over)
		}
	}
	if w.Fg != nil {
		draw.ApproxBiLinear.Scale(dst, r, w.Fg.Image, w.Fg.Image.Bounds(), draw.Over, nil)
	}
}

func (self *Renderer) entry(w *widget.Widget) *entry {
	if self.cache == nil {
		self.cache = make(map[*widget.Widget]*entry)
	}
	e := self.cache[w]
	if e == nil {
		e = &entry{}
		self.cache[w] = e
	}
	return e
}

// smooth scaled background, rebuilt on icon or size change
func (self *Renderer) static(w *widget.Widget, size image.Point) *image.RGBA {
	e := self.entry(w)
	if e.static == nil || e.src != w.Bg || e.size != size {
		e.src, e.size = w.Bg, size
		e.static = assets.SmoothScale(w.Bg.Image, size)
	}
	return e.static
}

func (self *Renderer) shiftImage(w *widget.Widget, size image.Point, shift bool) *image.RGBA {
	if !shift || w.ShiftName == "" || self.Shift == nil {
		return nil
	}
	e := self.entry(w)
	if !e.shiftLoaded {
		e.shiftLoaded = true
		a, err := self.Shift.Load(w.ShiftName)
		if err != nil {
			self.Log.Errorf("render widget=%s shift icon err=%v", w.Name, err)
			return nil
		}
		e.shiftSrc = a
	}
	if e.shiftSrc == nil {
		return nil
	}
	if e.shift == nil || e.shift.Rect.Size() != size {
		e.shift = assets.FastScale(e.shiftSrc.Image, size)
	}
	return e.shift
}

func StatusLine(fps, playtime float64, frames uint64) string {
	return fmt.Sprintf("FPS: %6.3f     TIME: %6.3f SECONDS FRAMES:%6d", fps, playtime, frames)
}

// DrawStatus writes text at top-left corner.
func DrawStatus(dst draw.Image, text string) {
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(StatusColor),
		Face: face,
		Dot:  fixed.P(dst.Bounds().Min.X+2, dst.Bounds().Min.Y+face.Ascent+2),
	}
	d.DrawString(text)
}
