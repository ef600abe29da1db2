package camera

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"

	"github.com/juju/errors"
	"github.com/temoto/tapui/internal/assets"
	driver "github.com/temoto/tapui/internal/camera"
	"github.com/temoto/tapui/internal/photos"
	"github.com/temoto/tapui/internal/settings"
	"github.com/temoto/tapui/internal/ui"
)

func mod(a, n int) int { return ((a % n) + n) % n }

func isSetting(screen string) (int, bool) {
	for i, s := range SettingsScreens {
		if s == screen {
			return i, true
		}
	}
	return -1, false
}

// settingAction steps through settings screens with wrap.
// From outside settings, -1 lands on last and +1 on first.
func settingAction(ctx context.Context, n int) {
	state := ui.GetState(ctx)
	i, ok := isSetting(state.Screen)
	if !ok {
		if n < 0 {
			i = 0
		} else {
			i = -1
		}
	}
	state.Go(SettingsScreens[mod(i+n, len(SettingsScreens))])
}

func doneAction(ctx context.Context) {
	app := GetApp(ctx)
	state := ui.GetState(ctx)
	if _, ok := isSetting(state.Screen); ok {
		app.settingMode = state.Screen
		app.saveSettings()
	}
	state.Go(ScreenViewfinder)
}

func quitAction(ctx context.Context) {
	app := GetApp(ctx)
	app.saveSettings()
	ui.GetState(ctx).Quit = true
}

func fxAction(ctx context.Context, n int) {
	app := GetApp(ctx)
	app.setFx(mod(app.fxMode+n, len(driver.Effects)))
}

func isoAction(ctx context.Context, n int) {
	app := GetApp(ctx)
	app.setISO(mod(app.isoMode+n, len(driver.ISOs)))
}

func storeAction(ctx context.Context, n int) { GetApp(ctx).setStore(n) }
func sizeAction(ctx context.Context, n int)  { GetApp(ctx).setSize(n) }

// viewAction: 0 gear, 1 play, 2 full screen shutter.
func viewAction(ctx context.Context, n int) {
	app := GetApp(ctx)
	state := ui.GetState(ctx)
	switch n {
	case 0:
		state.Go(app.settingMode)
	case 1:
		if app.scaled != nil {
			app.loadIdx = app.saveIdx
			app.showPhoto()
			state.Go(ScreenPlayback)
			return
		}
		if _, max, ok := photos.Range(app.Dir()); ok {
			app.showImage(ctx, max)
		} else {
			state.Go(ScreenEmpty)
		}
	case 2:
		if err := app.capture(ctx); err != nil {
			app.Log.Errorf("camera capture err=%v", errors.ErrorStack(err))
		}
	default:
		panic(fmt.Sprintf("code error camera view action=%d", n))
	}
}

// imageAction: 0 delete confirm, -1/1 previous/next photo.
func imageAction(ctx context.Context, n int) {
	app := GetApp(ctx)
	if n == 0 {
		ui.GetState(ctx).Go(ScreenDelete)
		return
	}
	app.showNext(ctx, n)
}

func deleteAction(ctx context.Context, yes int) {
	app := GetApp(ctx)
	state := ui.GetState(ctx)
	state.Go(ScreenPlayback)
	if yes == 0 {
		return
	}
	if err := photos.Delete(app.Dir(), app.loadIdx); err != nil {
		app.Log.Errorf("camera delete err=%v", err)
	}
	if _, _, ok := photos.Range(app.Dir()); ok {
		app.showNext(ctx, -1)
		return
	}
	state.Go(ScreenEmpty)
	app.scaled = nil
	app.loadIdx = -1
	app.showPhoto()
}

func (self *App) showNext(ctx context.Context, direction int) {
	var n int
	var ok bool
	err := self.UI.Busy(func() error {
		n, ok = photos.Next(self.Dir(), self.loadIdx, direction)
		if !ok {
			return nil
		}
		return self.loadImage(n)
	})
	if err != nil {
		self.Log.Errorf("camera show photo=%d err=%v", n, err)
		return
	}
	if ok {
		self.showPhoto()
		ui.GetState(ctx).Go(ScreenPlayback)
	}
}

func (self *App) showImage(ctx context.Context, n int) {
	if err := self.UI.Busy(func() error { return self.loadImage(n) }); err != nil {
		self.Log.Errorf("camera show photo=%d err=%v", n, err)
		return
	}
	self.showPhoto()
	ui.GetState(ctx).Go(ScreenPlayback)
}

// loadImage decodes photo and scales to preview size of current size mode.
func (self *App) loadImage(n int) error {
	img, err := photos.Load(self.Dir(), n)
	if err != nil {
		return err
	}
	preview := driver.Sizes[self.sizeMode].Preview
	size := self.rect(0, 0, preview.X, preview.Y).Size()
	self.scaled = &assets.Asset{Name: photos.Name(n), Image: assets.FastScale(img, size)}
	self.loadIdx = n
	return nil
}

// showPhoto puts scaled photo centered under playback widgets.
func (self *App) showPhoto() {
	w := self.Screens.MustGet(ScreenPlayback).ByName("photo")
	if self.scaled == nil {
		w.SetBg("", nil)
		w.Rect = image.Rectangle{}
		self.showShare()
		return
	}
	size := self.scaled.Size()
	min := self.Size.Sub(size).Div(2)
	w.SetBg(self.scaled.Name, self.scaled)
	w.Rect = image.Rectangle{Min: min, Max: min.Add(size)}
	self.showShare()
}

// ShareName is the QR asset name linking to photo n.
func (self *App) ShareName(n int) string {
	return assets.QRPrefix + self.ShareURL + photos.Name(n)
}

// showShare puts QR code of shown photo URL at the right edge of playback.
func (self *App) showShare() {
	w := self.Screens.MustGet(ScreenPlayback).ByName("share")
	w.SetBg("", nil)
	w.Rect = image.Rectangle{}
	if self.scaled == nil || self.ShareURL == "" || self.Assets == nil {
		return
	}
	name := self.ShareName(self.loadIdx)
	a, err := self.Assets.Load(name)
	if err != nil {
		self.Log.Errorf("camera share photo=%d err=%v", self.loadIdx, err)
		return
	}
	w.SetBg(name, a)
	w.Rect = self.rect(252, 120, 64, 64)
}

// capture shoots full resolution JPEG into next free IMG_####.JPG.
func (self *App) capture(ctx context.Context) error {
	dir := self.Dir()
	size := driver.Sizes[self.sizeMode]
	return self.UI.Busy(func() error {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Annotatef(err, "photo dir=%s", dir)
		}
		if err := self.Driver.SetResolution(size.Full); err != nil {
			return err
		}
		defer func() {
			if err := self.Driver.SetResolution(size.Preview); err != nil {
				self.Log.Errorf("camera restore preview resolution err=%v", err)
			}
		}()
		n, err := photos.Save(dir, func(w io.Writer) error { return self.Driver.Capture(ctx, w) })
		if err != nil {
			return err
		}
		self.saveIdx = n
		self.Log.Infof("camera saved %s", photos.Path(dir, n))
		return self.loadImage(n)
	})
}

func (self *App) setFx(n int) {
	self.fxMode = n
	fx := driver.Effects[n]
	if err := self.Driver.SetEffect(fx); err != nil {
		self.Log.Errorf("camera effect=%s err=%v", fx, err)
	}
	self.setIcon(ScreenEffect, "fx", fxIcon(fx))
}

func (self *App) setISO(n int) {
	self.isoMode = n
	iso := driver.ISOs[n]
	if err := self.Driver.SetISO(iso.Value); err != nil {
		self.Log.Errorf("camera iso=%d err=%v", iso.Value, err)
	}
	s := self.Screens.MustGet(ScreenISO)
	self.setIcon(ScreenISO, "iso", isoIcon(iso.Value))
	arrow := s.ByName("iso-arrow")
	r := self.rect(iso.X-10, 157, 21, 19)
	arrow.Move(r.Min.X, arrow.Rect.Min.Y)
}

func (self *App) setStore(n int) {
	self.radio(ScreenStorage, "store-", self.storeMode, n)
	self.storeMode = n
}

func (self *App) setSize(n int) {
	self.radio(ScreenSize, "size-", self.sizeMode, n)
	self.sizeMode = n
	if err := self.Driver.SetResolution(driver.Sizes[n].Preview); err != nil {
		self.Log.Errorf("camera size=%s err=%v", driver.Sizes[n].Name, err)
	}
}

func (self *App) radio(screen, prefix string, old, new int) {
	self.setIcon(screen, prefix+strconv.Itoa(old), "radio3-0")
	self.setIcon(screen, prefix+strconv.Itoa(new), "radio3-1")
}

func (self *App) setIcon(screen, widget, icon string) {
	if self.icons == nil {
		return
	}
	if err := self.Screens.MustGet(screen).SetBg(widget, self.icons, icon); err != nil {
		self.Log.Errorf("camera icon err=%v", err)
	}
}

func (self *App) saveSettings() {
	self.Settings.Save(settings.Values{
		"fx":    self.fxMode,
		"iso":   self.isoMode,
		"size":  self.sizeMode,
		"store": self.storeMode,
	})
}

// loadSettings ignores missing keys and out of range values.
func (self *App) loadSettings() {
	v := self.Settings.Load()
	v.Apply(settingKeys, func(key string, x int) {
		limit := map[string]int{
			"fx":    len(driver.Effects),
			"iso":   len(driver.ISOs),
			"size":  len(driver.Sizes),
			"store": len(self.StorageDirs),
		}[key]
		if x < 0 || x >= limit {
			self.Log.Errorf("camera settings %s=%d out of range", key, x)
			return
		}
		switch key {
		case "fx":
			self.setFx(x)
		case "iso":
			self.setISO(x)
		case "size":
			self.setSize(x)
		case "store":
			self.setStore(x)
		}
	})
}
