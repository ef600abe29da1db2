// Package keyboard is the virtual keyboard shell: table driven key layouts that pulse while keys are held.
package keyboard

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/tapui/internal/anim"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/busy"
	"github.com/temoto/tapui/internal/layout"
	"github.com/temoto/tapui/internal/render"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/internal/ui"
	"github.com/temoto/tapui/internal/widget"
	"github.com/temoto/tapui/log2"
)

const ContextKey = "run/app-keyboard"
const ScreenName = "keyboard"
const DefaultFPS = 4

// RowCounts is number of keys per keyboard row, top to bottom.
var RowCounts = []int{15, 15, 15, 14, 15, 11}

type Def struct {
	Name    string
	Scale   float64
	YOffset float64
}

var DefaultKeysets = []Def{
	{"standard_lc", 0.35, 0},
	{"premiere", 0.344, -20},
	{"photoshop", 0.35, 0},
	{"standard", 0.35, 0},
}

// Keyset index selected while shift is held.
const shiftKeyset = 3

type Keyset struct {
	Def
	Icons assets.Set
	Table layout.Table
	Shift render.ShiftLoader
}

type Config struct {
	Log       *log2.Log
	Amplitude int
	Ease      anim.Ease
	FPS       int
}

type App struct {
	Config
	UI      *ui.UI
	Screen  *widget.Screen
	Keysets []*Keyset

	selected int
	layout   *layout.TableLayout
	lastMsg  string
}

func IconName(row, key int) string { return fmt.Sprintf("%d_%d", row, key) }
func ShiftName(name string) string { return name + "_shift" }

func New(c Config) *App {
	if c.Log == nil {
		panic("code error keyboard app Log=nil")
	}
	if c.Amplitude == 0 {
		c.Amplitude = anim.AmplitudeKeyboard
	}
	if c.FPS == 0 {
		c.FPS = DefaultFPS
	}
	self := &App{Config: c, selected: -1, layout: &layout.TableLayout{}}
	s := widget.NewScreen(ScreenName)
	for row, n := range RowCounts {
		for k := 0; k < n; k++ {
			name := IconName(row, k)
			s.Add(widget.Must(name, image.Rectangle{}, widget.Icon(name), widget.Shift(ShiftName(name))))
		}
	}
	s.Layout = self.layout
	s.Anim = anim.Animator{Amplitude: c.Amplitude, Ease: c.Ease}
	self.Screen = s
	return self
}

// IconNames are required in every keyset, shift variants are optional.
func (self *App) IconNames() []string { return self.Screen.IconNames() }

// LoadKeyset reads icons and out.txt table from dir/name.
func (self *App) LoadKeyset(dir string, def Def) (*Keyset, error) {
	path := filepath.Join(dir, def.Name)
	loader := assets.NewLoader(path, self.Log)
	icons, err := loader.LoadSet(self.IconNames()...)
	if err != nil {
		return nil, errors.Annotatef(err, "keyset=%s", def.Name)
	}
	table, err := layout.ReadTable(filepath.Join(path, layout.TableFile))
	if err != nil {
		return nil, errors.Annotatef(err, "keyset=%s", def.Name)
	}
	return &Keyset{Def: def, Icons: icons, Table: table, Shift: optional{loader}}, nil
}

// Init takes loaded keysets, selects first and creates frame loop on surface.
func (self *App) Init(keysets []*Keyset, surface busy.Surface) error {
	if len(keysets) == 0 {
		return errors.NotValidf("keyboard without keysets")
	}
	n := len(self.Screen.Widgets)
	for _, ks := range keysets {
		if len(ks.Table) < n {
			return errors.NotValidf("keyset=%s table rows=%d keys=%d", ks.Name, len(ks.Table), n)
		}
	}
	self.Keysets = keysets
	reg := widget.NewRegistry()
	reg.Add(self.Screen)
	self.UI = ui.New(self.Log, reg, nil, surface)
	self.UI.Status = true
	self.UI.Clock.FPS = self.FPS
	self.UI.OnEvent = self.onEvent
	return self.Select(0)
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

func (self *App) Selected() int { return self.selected }

// Select switches keyset: icons, layout table, scale and shift icons.
func (self *App) Select(i int) error {
	if i < 0 || i >= len(self.Keysets) {
		return errors.NotValidf("keyset index=%d", i)
	}
	if i == self.selected {
		return nil
	}
	ks := self.Keysets[i]
	if err := self.Screen.Bind(ks.Icons); err != nil {
		return errors.Annotatef(err, "keyset=%s", ks.Name)
	}
	self.layout.Table = ks.Table
	self.layout.Scale = ks.Scale
	self.layout.YOffset = ks.YOffset
	// held keys of new keyset must be active on this very frame
	if err := self.layout.Bind(self.Screen); err != nil {
		return errors.Annotatef(err, "keyset=%s", ks.Name)
	}
	self.UI.Renderer.Invalidate()
	self.UI.Renderer.Shift = ks.Shift
	self.Log.Debugf("keyboard keyset=%s", ks.Name)
	self.selected = i
	return nil
}

func (self *App) selectLogged(i int) {
	if i >= len(self.Keysets) {
		self.Log.Debugf("keyboard keyset=%d not loaded", i)
		return
	}
	if err := self.Select(i); err != nil {
		self.Log.Error(err)
	}
}

// onEvent handles keyset hot keys and IPC trigger, key events still reach router.
func (self *App) onEvent(ctx context.Context, e types.InputEvent) (bool, error) {
	state := ui.GetState(ctx)
	switch e.Kind {
	case types.InputKindTrigger:
		if e.Payload != self.lastMsg {
			if self.selected == 1 {
				self.selectLogged(0)
			} else {
				self.selectLogged(1)
			}
		}
		self.lastMsg = e.Payload
		return true, nil

	case types.InputKindKey:
		if e.Up {
			if e.Key == types.KeyLeftShift && state.Shift {
				state.Shift = false
				self.selectLogged(0)
			}
			return false, nil
		}
		switch e.Key {
		case types.KeyLeftShift:
			state.Shift = true
			self.selectLogged(shiftKeyset)
		case types.KeyZ:
			self.selectLogged(0)
		case types.KeyX:
			self.selectLogged(1)
		case types.KeyC:
			self.selectLogged(2)
		}
	}
	return false, nil
}

// optional treats missing shift icon as no shift variant.
type optional struct{ *assets.Loader }

func (self optional) Load(name string) (*assets.Asset, error) {
	a, err := self.Loader.Load(name)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	return a, err
}
