package camera

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/tapui/hardware/display"
	"github.com/temoto/tapui/internal/assets"
	driver "github.com/temoto/tapui/internal/camera"
	"github.com/temoto/tapui/internal/photos"
	"github.com/temoto/tapui/internal/router"
	"github.com/temoto/tapui/internal/settings"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/log2"
)

type tenv struct {
	t      testing.TB
	ctx    context.Context
	app    *App
	cam    *driver.Mock
	disp   *display.Display
	dirs   []string
	root   string
	events chan types.InputEvent
}

func solidIcons(names []string) assets.Set {
	set := make(assets.Set, len(names))
	for i, name := range names {
		set[name] = assets.Solid(name, image.Pt(8, 8), color.RGBA{uint8(i), 100, 50, 255})
	}
	return set
}

func newEnv(t testing.TB, root string) *tenv {
	log := log2.NewTest(t, log2.LDebug)
	env := &tenv{
		t:      t,
		ctx:    context.Background(),
		cam:    driver.NewMock(),
		disp:   display.NewMock(image.Pt(320, 240)),
		dirs:   []string{t.TempDir(), t.TempDir(), t.TempDir()},
		root:   root,
		events: make(chan types.InputEvent, 16),
	}
	env.app = New(Config{
		Log:         log,
		Driver:      env.cam,
		Settings:    settings.New(SettingsTag, root, log),
		StorageDirs: env.dirs,
		Size:        image.Pt(320, 240),
	})
	require.NoError(t, env.app.Init(solidIcons(env.app.IconNames()), env.disp))
	env.app.UI.Events = env.events
	env.app.UI.Clock.Sleep = func(time.Duration) {}
	env.app.UI.BusyInterval = time.Millisecond
	env.step()
	return env
}

func (self *tenv) step() {
	require.NoError(self.t, self.app.UI.Step(self.app.Context(self.ctx)))
}

func (self *tenv) tap(x, y int) {
	self.events <- types.InputEvent{Kind: types.InputKindPointer, X: x, Y: y}
	self.events <- types.InputEvent{Kind: types.InputKindPointer, X: x, Y: y, Up: true}
	self.step()
}

func (self *tenv) screen() string { return self.app.UI.State.Screen }

func (self *tenv) goTo(screen string) {
	self.app.UI.State.Go(screen)
	self.step()
}

func writeJPEG(t testing.TB, dir string, n int) {
	f, err := os.Create(photos.Path(dir, n))
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, image.NewGray(image.Rect(0, 0, 64, 48)), nil))
	require.NoError(t, f.Close())
}

func TestLauncher(t *testing.T) {
	t.Parallel()

	env := newEnv(t, "")
	assert.Equal(t, ScreenLauncher, env.screen())
	s := env.app.Screens.MustGet(ScreenLauncher)
	assert.Len(t, s.Widgets, 14+11+12+12+12+8)
	first := s.ByName("r1_0")
	assert.Equal(t, image.Rect(0, 0, 87, 87), first.Rect)
	assert.True(t, first.Animating)
	assert.True(t, first.Size.X >= 87 && first.Size.X <= 97, "size=%v", first.Size)
	assert.Equal(t, 1040, s.ByName("r2_10").Rect.Min.X)
	assert.Equal(t, 230, s.ByName("r2_10").Rect.Dx())
	assert.Equal(t, 862, s.ByName("r6_4").Rect.Min.X)

	env.tap(5, 5)
	assert.Equal(t, ScreenQuit, env.screen())
}

func TestSettingsCycle(t *testing.T) {
	t.Parallel()

	env := newEnv(t, "")
	env.goTo(ScreenStorage)
	for _, expect := range []string{ScreenSize, ScreenEffect, ScreenISO, ScreenQuit, ScreenStorage} {
		env.tap(300, 10) // next
		assert.Equal(t, expect, env.screen())
	}
	env.tap(10, 10) // prev
	assert.Equal(t, ScreenQuit, env.screen())
}

func TestEffectSavedOnDone(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	env := newEnv(t, root)
	env.goTo(ScreenEffect)
	env.tap(300, 90) // fx-next
	env.tap(300, 90)
	assert.Equal(t, "gpen", env.cam.Effect)
	assert.Equal(t, "fx-gpen", env.app.Screens.MustGet(ScreenEffect).ByName("fx").BgName)
	env.tap(10, 90) // fx-prev
	env.tap(10, 90)
	env.tap(10, 90)
	assert.Equal(t, "solarize", env.cam.Effect)

	env.tap(160, 200) // done
	assert.Equal(t, ScreenViewfinder, env.screen())
	assert.Equal(t, ScreenEffect, env.app.SettingMode())
	env.tap(20, 200) // gear
	assert.Equal(t, ScreenEffect, env.screen())

	env2 := newEnv(t, root)
	_, _, fx, _ := env2.app.Modes()
	assert.Equal(t, len(driver.Effects)-1, fx)
	assert.Equal(t, "solarize", env2.cam.Effect)
}

func TestISO(t *testing.T) {
	t.Parallel()

	env := newEnv(t, "")
	env.goTo(ScreenISO)
	s := env.app.Screens.MustGet(ScreenISO)
	env.tap(300, 90)
	assert.Equal(t, 100, env.cam.ISO)
	assert.Equal(t, "iso-100", s.ByName("iso").BgName)
	assert.Equal(t, 54, s.ByName("iso-arrow").Rect.Min.X)
	env.tap(10, 90)
	env.tap(10, 90)
	assert.Equal(t, 800, env.cam.ISO)
	assert.Equal(t, 287, s.ByName("iso-arrow").Rect.Min.X)
	assert.Equal(t, 157, s.ByName("iso-arrow").Rect.Min.Y)
}

func TestRadioGroups(t *testing.T) {
	t.Parallel()

	env := newEnv(t, "")
	env.goTo(ScreenStorage)
	s := env.app.Screens.MustGet(ScreenStorage)
	assert.Equal(t, "radio3-1", s.ByName("store-0").BgName)
	env.tap(150, 100)
	assert.Equal(t, "radio3-0", s.ByName("store-0").BgName)
	assert.Equal(t, "radio3-1", s.ByName("store-1").BgName)
	assert.Equal(t, env.dirs[1], env.app.Dir())

	env.goTo(ScreenSize)
	env.tap(150, 100)
	assert.Equal(t, driver.Sizes[1].Preview, env.cam.Resolution)
	assert.Equal(t, "radio3-1", env.app.Screens.MustGet(ScreenSize).ByName("size-1").BgName)
}

func TestCaptureDelete(t *testing.T) {
	t.Parallel()

	env := newEnv(t, "")
	env.goTo(ScreenViewfinder)
	env.tap(160, 100) // shutter
	assert.Equal(t, 1, env.cam.Captures)
	assert.Equal(t, driver.Sizes[0].Preview, env.cam.Resolution)
	assert.Equal(t, 0, env.app.SaveIdx())
	assert.True(t, photos.Exists(env.dirs[0], 0))
	assert.Equal(t, ScreenViewfinder, env.screen())

	env.tap(240, 200) // play
	assert.Equal(t, ScreenPlayback, env.screen())
	photo := env.app.Screens.MustGet(ScreenPlayback).ByName("photo")
	assert.Equal(t, image.Rect(0, 0, 320, 240), photo.Rect)
	assert.Equal(t, photos.Name(0), photo.BgName)
	assert.True(t, env.app.Screens.MustGet(ScreenPlayback).ByName("share").Rect.Empty())

	env.tap(160, 20) // trash
	assert.Equal(t, ScreenDelete, env.screen())
	env.tap(240, 120) // no
	assert.Equal(t, ScreenPlayback, env.screen())
	assert.True(t, photos.Exists(env.dirs[0], 0))

	env.tap(160, 20)
	env.tap(80, 120) // yes
	assert.Equal(t, ScreenEmpty, env.screen())
	assert.False(t, photos.Exists(env.dirs[0], 0))
	assert.Equal(t, -1, env.app.LoadIdx())
	env.tap(160, 100)
	assert.Equal(t, ScreenViewfinder, env.screen())
}

func TestPlaybackShare(t *testing.T) {
	t.Parallel()

	env := newEnv(t, "")
	env.app.ShareURL = "http://10.0.0.2/photos/"
	env.app.Assets = assets.NewLoader(t.TempDir(), log2.NewTest(t, log2.LDebug))
	writeJPEG(t, env.dirs[0], 5)
	env.goTo(ScreenViewfinder)
	env.tap(240, 200)
	assert.Equal(t, ScreenPlayback, env.screen())

	share := env.app.Screens.MustGet(ScreenPlayback).ByName("share")
	assert.Equal(t, "qr:http://10.0.0.2/photos/IMG_0005.JPG", share.BgName)
	assert.Equal(t, env.app.ShareName(5), share.BgName)
	require.NotNil(t, share.Bg)
	assert.Equal(t, image.Rect(252, 120, 316, 184), share.Rect)
	// quiet zone of QR code is white
	assertWhite(t, env.disp.Snapshot().RGBAAt(253, 121))

	env.tap(160, 20)
	env.tap(80, 120) // delete last photo
	assert.Equal(t, ScreenEmpty, env.screen())
	assert.Nil(t, share.Bg)
	assert.True(t, share.Rect.Empty())
}

func assertWhite(t testing.TB, c color.RGBA) {
	assert.True(t, c.R > 200 && c.G > 200 && c.B > 200, "color=%v", c)
}

func TestPlaybackWrap(t *testing.T) {
	t.Parallel()

	env := newEnv(t, "")
	writeJPEG(t, env.dirs[0], 3)
	writeJPEG(t, env.dirs[0], 7)
	env.goTo(ScreenViewfinder)
	env.tap(240, 200) // play shows last
	assert.Equal(t, ScreenPlayback, env.screen())
	assert.Equal(t, 7, env.app.LoadIdx())
	env.tap(300, 20) // next wraps
	assert.Equal(t, 3, env.app.LoadIdx())
	env.tap(20, 20) // prev wraps
	assert.Equal(t, 7, env.app.LoadIdx())
	env.tap(20, 20)
	assert.Equal(t, 3, env.app.LoadIdx())
}

func TestPlayEmpty(t *testing.T) {
	t.Parallel()

	env := newEnv(t, "")
	env.goTo(ScreenViewfinder)
	env.tap(240, 200)
	assert.Equal(t, ScreenEmpty, env.screen())
}

func TestQuitSaves(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	env := newEnv(t, root)
	env.goTo(ScreenSize)
	env.tap(150, 100)
	env.goTo(ScreenQuit)
	env.events <- types.InputEvent{Kind: types.InputKindPointer, X: 160, Y: 100}
	assert.Equal(t, router.ErrQuit, env.app.UI.Step(env.app.Context(env.ctx)))

	v := settings.New(SettingsTag, root, log2.NewTest(t, log2.LDebug)).Load()
	assert.Equal(t, settings.Values{"fx": 0, "iso": 0, "size": 1, "store": 0}, v)
}

func TestIconNames(t *testing.T) {
	t.Parallel()

	app := New(Config{Log: log2.NewTest(t, log2.LDebug)})
	names := app.IconNames()
	seen := make(map[string]bool)
	for _, n := range names {
		assert.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
	for _, n := range []string{"done", "radio3-0", "working", "work-4", "fx-solarize", "iso-800", "adobe_Ai", "yes"} {
		assert.True(t, seen[n], n)
	}
}
