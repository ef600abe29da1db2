// Package camera is the camera shell: viewfinder, playback, settings screens and launcher grid.
package camera

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/tapui/internal/anim"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/busy"
	driver "github.com/temoto/tapui/internal/camera"
	"github.com/temoto/tapui/internal/settings"
	"github.com/temoto/tapui/internal/ui"
	"github.com/temoto/tapui/internal/widget"
	"github.com/temoto/tapui/log2"
)

const ContextKey = "run/app-camera"

// SettingsTag names settings store of this shell.
const SettingsTag = "camera"

const (
	ScreenPlayback   = "playback"
	ScreenDelete     = "delete"
	ScreenEmpty      = "empty"
	ScreenViewfinder = "viewfinder"
	ScreenStorage    = "storage"
	ScreenSize       = "size"
	ScreenEffect     = "effect"
	ScreenISO        = "iso"
	ScreenQuit       = "quit"
	ScreenLauncher   = "launcher"
)

// SettingsScreens cycle with prev/next in this order.
var SettingsScreens = []string{ScreenStorage, ScreenSize, ScreenEffect, ScreenISO, ScreenQuit}

// DefaultStorageDirs per storage mode: photos folder, boot partition, upload folder.
var DefaultStorageDirs = []string{"/home/pi/Photos", "/boot/DCIM/CANON999", "/home/pi/Photos"}

// settings screens are designed for this canvas and scaled to actual size
var designSize = image.Pt(320, 240)

var settingKeys = []string{"fx", "iso", "size", "store"}

type Config struct {
	Log         *log2.Log
	Driver      driver.Camera
	Settings    *settings.Store
	StorageDirs []string
	// Size is canvas size.
	Size      image.Point
	Amplitude int
	Ease      anim.Ease
	FPS       int
	Status    bool
	// ShareURL prefixes photo file name in playback QR code, empty disables.
	ShareURL string
	// Assets resolves qr: names, see assets.QRPrefix.
	Assets Loader
}

type Loader interface {
	Load(name string) (*assets.Asset, error)
}

type App struct {
	Config
	UI      *ui.UI
	Screens *widget.Registry

	icons       assets.Set
	settingMode string
	storeMode   int
	sizeMode    int
	fxMode      int
	isoMode     int
	saveIdx     int // -1 = nothing captured yet
	loadIdx     int // -1 = nothing shown
	scaled      *assets.Asset
}

func New(c Config) *App {
	if c.Log == nil {
		panic("code error camera app Log=nil")
	}
	if len(c.StorageDirs) == 0 {
		c.StorageDirs = DefaultStorageDirs
	}
	if c.Size.X <= 0 || c.Size.Y <= 0 {
		c.Size = designSize
	}
	if c.Amplitude == 0 {
		c.Amplitude = anim.AmplitudeCoarse
	}
	if c.Driver == nil {
		c.Driver = driver.NewMock()
	}
	if c.Settings == nil {
		c.Settings = settings.New(SettingsTag, "", c.Log)
	}
	self := &App{
		Config:      c,
		settingMode: ScreenStorage,
		saveIdx:     -1,
		loadIdx:     -1,
	}
	self.Screens = self.buildScreens()
	return self
}

// IconNames lists every icon the shell may show, including runtime swaps.
func (self *App) IconNames() []string {
	names := self.Screens.IconNames()
	names = append(names, "radio3-0", "radio3-1", busy.LabelIcon)
	for i := 0; i < busy.SpinnerFrames; i++ {
		names = append(names, busy.SpinnerIcon(i))
	}
	for _, fx := range driver.Effects {
		names = append(names, fxIcon(fx))
	}
	for _, iso := range driver.ISOs {
		names = append(names, isoIcon(iso.Value))
	}
	return dedup(names)
}

// Init binds icons, creates frame loop on surface and restores settings.
func (self *App) Init(icons assets.Set, surface busy.Surface) error {
	if err := self.Screens.Bind(icons); err != nil {
		return errors.Annotate(err, "camera icons")
	}
	self.icons = icons
	self.UI = ui.New(self.Log, self.Screens, icons, surface)
	self.UI.State.Screen = ScreenLauncher
	self.UI.Status = self.Status
	if self.FPS > 0 {
		self.UI.Clock.FPS = self.FPS
	}
	self.loadSettings()
	return nil
}

func (self *App) Context(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, ContextKey, self)
	return self.UI.Context(ctx)
}

func (self *App) Run(ctx context.Context, a *alive.Alive) error {
	return self.UI.Run(self.Context(ctx), a)
}

func GetApp(ctx context.Context) *App {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if app, ok := v.(*App); ok {
		return app
	}
	panic(fmt.Sprintf("context['%s'] expected type *App actual=%#v", ContextKey, v))
}

// Dir is photo directory of current storage mode.
func (self *App) Dir() string { return self.StorageDirs[self.storeMode] }

func (self *App) Modes() (store, size, fx, iso int) {
	return self.storeMode, self.sizeMode, self.fxMode, self.isoMode
}

func (self *App) LoadIdx() int { return self.loadIdx }
func (self *App) SaveIdx() int { return self.saveIdx }

func (self *App) SettingMode() string { return self.settingMode }

// rect maps design coordinates to canvas.
func (self *App) rect(x, y, w, h int) image.Rectangle {
	sx := float64(self.Size.X) / float64(designSize.X)
	sy := float64(self.Size.Y) / float64(designSize.Y)
	r := func(f float64) int { return int(math.Round(f)) }
	return image.Rect(r(float64(x)*sx), r(float64(y)*sy), r(float64(x+w)*sx), r(float64(y+h)*sy))
}

func fxIcon(fx string) string { return "fx-" + fx }
func isoIcon(v int) string    { return fmt.Sprintf("iso-%d", v) }

func dedup(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
