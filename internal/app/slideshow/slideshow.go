// Package slideshow shows every image of a directory full screen, one after another.
package slideshow

import (
	"context"
	"image"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/busy"
	"github.com/temoto/tapui/internal/ui"
	"github.com/temoto/tapui/internal/widget"
	"github.com/temoto/tapui/log2"
)

const ScreenName = "slideshow"
const DefaultInterval = 10 * time.Second

// Slides are redrawn at this rate, only so quit key is noticed quickly.
const FPS = 2

// DefaultRect overscans 1280x720 panel.
var DefaultRect = image.Rect(-85, -30, -85+1400, -30+830)

type Config struct {
	Log      *log2.Log
	Interval time.Duration
	Rect     image.Rectangle
}

type App struct {
	Config
	UI     *ui.UI
	Screen *widget.Screen
	Slides []*assets.Asset

	index   int
	shownAt time.Time
}

func New(c Config) *App {
	if c.Log == nil {
		panic("code error slideshow app Log=nil")
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Rect.Empty() {
		c.Rect = DefaultRect
	}
	self := &App{Config: c}
	self.Screen = widget.NewScreen(ScreenName, widget.Must("slide", c.Rect))
	return self
}

// Load takes every PNG from loader directory, in name order.
func (self *App) Load(loader *assets.Loader) error {
	set, err := loader.LoadDir()
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return errors.NotFoundf("slideshow images dir=%s", loader.Dir())
	}
	self.Slides = self.Slides[:0]
	for _, name := range set.Names() {
		self.Slides = append(self.Slides, set[name])
	}
	return nil
}

func (self *App) Init(surface busy.Surface) error {
	if len(self.Slides) == 0 {
		return errors.NotValidf("slideshow without images")
	}
	reg := widget.NewRegistry()
	reg.Add(self.Screen)
	self.UI = ui.New(self.Log, reg, nil, surface)
	self.UI.Clock.FPS = FPS
	self.UI.OnFrame = self.onFrame
	self.show(0)
	return nil
}

func (self *App) Run(ctx context.Context, a *alive.Alive) error {
	return self.UI.Run(self.UI.Context(ctx), a)
}

func (self *App) Index() int { return self.index }

func (self *App) show(i int) {
	self.index = i
	a := self.Slides[i]
	self.Screen.Widgets[0].SetBg(a.Name, a)
	self.Log.Debugf("slideshow show=%s", a.Name)
}

func (self *App) onFrame(ctx context.Context, now time.Time) error {
	if self.shownAt.IsZero() {
		self.shownAt = now
		return nil
	}
	if now.Sub(self.shownAt) >= self.Interval {
		self.shownAt = now
		self.show((self.index + 1) % len(self.Slides))
	}
	return nil
}
