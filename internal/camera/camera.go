// Package camera abstracts the still camera behind the viewfinder shell.
package camera

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"sync"

	"github.com/juju/errors"
)

// Effects accepted by the sensor pipeline, in selection order.
var Effects = []string{
	"none", "sketch", "gpen", "pastel", "watercolor", "oilpaint", "hatch",
	"negative", "colorswap", "posterise", "denoise", "blur", "film",
	"washedout", "emboss", "cartoon", "solarize",
}

// ISO setting value and indicator arrow x position on ISO screen.
type ISO struct {
	Value int
	X     int
}

var ISOs = []ISO{
	{0, 27}, {100, 64}, {200, 97}, {320, 137},
	{400, 164}, {500, 197}, {640, 244}, {800, 297},
}

// Size is capture and viewfinder resolution pair.
type Size struct {
	Name    string
	Full    image.Point
	Preview image.Point
}

var Sizes = []Size{
	{"l", image.Pt(2592, 1944), image.Pt(320, 240)},
	{"m", image.Pt(1920, 1080), image.Pt(320, 180)},
	{"s", image.Pt(1440, 1080), image.Pt(320, 240)},
}

type Camera interface {
	SetEffect(name string) error
	SetISO(iso int) error
	SetResolution(size image.Point) error
	// Capture writes JPEG still.
	Capture(ctx context.Context, w io.Writer) error
}

// Mock produces flat gray frames, records settings.
type Mock struct {
	mu         sync.Mutex
	Effect     string
	ISO        int
	Resolution image.Point
	Captures   int
	Err        error
}

var _ Camera = new(Mock)

func NewMock() *Mock {
	return &Mock{Effect: Effects[0], Resolution: Sizes[0].Preview}
}

func (self *Mock) SetEffect(name string) error {
	for _, e := range Effects {
		if e == name {
			self.mu.Lock()
			self.Effect = name
			self.mu.Unlock()
			return nil
		}
	}
	return errors.NotValidf("effect=%s", name)
}

func (self *Mock) SetISO(iso int) error {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.ISO = iso
	return nil
}

func (self *Mock) SetResolution(size image.Point) error {
	if size.X <= 0 || size.Y <= 0 {
		return errors.NotValidf("resolution=%v", size)
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	self.Resolution = size
	return nil
}

func (self *Mock) Capture(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.Err != nil {
		return self.Err
	}
	self.Captures++
	img := image.NewGray(image.Rectangle{Max: self.Resolution})
	shade := color.Gray{uint8(self.Captures * 37)}
	for i := range img.Pix {
		img.Pix[i] = shade.Y
	}
	return errors.Annotate(jpeg.Encode(w, img, &jpeg.Options{Quality: 90}), "camera mock encode")
}

func (self *Mock) String() string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return fmt.Sprintf("camera.Mock(effect=%s iso=%d resolution=%v captures=%d)", self.Effect, self.ISO, self.Resolution, self.Captures)
}
