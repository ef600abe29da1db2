package state

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	gpio "github.com/temoto/gpio-cdev-go"
	"github.com/temoto/tapui/hardware/display"
	"github.com/temoto/tapui/hardware/input"
	"github.com/temoto/tapui/helpers"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/log2"
)

const ContextKey = "run/state-global"

type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Config       *Config
	Log          *log2.Log
	Input        *input.Dispatch
	Icons        *assets.Loader
	// GPIOOpen defaults to gpio.Open, tests substitute mock chip
	GPIOOpen     func(path, consumer string) (gpio.Chiper, error)

	mu      sync.Mutex
	display *display.Display
	sources []input.Source
	chips   map[string]gpio.Chiper
}

func NewContext(log *log2.Log) (context.Context, *Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}

	g := &Global{
		Alive: alive.NewAlive(),
		Log:   log,
	}
	g.Input = input.NewDispatch(log, g.Alive.StopChan())
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, ContextKey, g)

	return ctx, g
}

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg

	g.Log.Infof("build version=%s", g.BuildVersion)
	if cfg.Log.Level != "" {
		level, err := log2.ParseLevel(cfg.Log.Level)
		if err != nil {
			return errors.Annotate(err, "config: log.level")
		}
		g.Log.SetLevel(level)
	}

	if g.Config.Persist.Root == "" {
		g.Config.Persist.Root = DefaultPersistRoot
		g.Log.Errorf("config: persist.root=empty changed=%s", g.Config.Persist.Root)
	}
	g.Log.Debugf("config: persist.root=%s", g.Config.Persist.Root)
	if g.Config.Assets.IconDir == "" {
		g.Config.Assets.IconDir = "icons"
	}
	g.Icons = assets.NewLoader(g.Config.Assets.IconDir, g.Log)

	if _, err := g.Display(); err != nil {
		return errors.Annotate(err, "init display")
	}
	if err := g.initInput(); err != nil {
		return errors.Annotate(err, "init input")
	}
	return nil
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Fatal(err)
	}
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Error(err)
	}
}

func (g *Global) Fatal(err error, args ...interface{}) {
	if err != nil {
		g.Error(err, args...)
		g.StopWait(5 * time.Second)
		g.Log.Fatal(errors.ErrorStack(err))
		os.Exit(1)
	}
}

// Display is created on first use, offscreen when display.device is empty.
func (g *Global) Display() (*display.Display, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.display != nil {
		return g.display, nil
	}
	size := g.Config.DisplaySize()
	if g.Config.Display.Device == "" {
		g.Log.Debugf("display offscreen size=%v", size)
		g.display = display.NewMock(size)
		return g.display, nil
	}
	d, err := display.NewFb(g.Config.Display.Device, size)
	if err != nil {
		return nil, err
	}
	g.display = d
	return d, nil
}

func (g *Global) MustDisplay() *display.Display {
	d, err := g.Display()
	if err != nil {
		g.Fatal(err)
	}
	return d
}

func (g *Global) Background() color.Color {
	c, err := ParseColor(g.Config.Display.Background)
	if err != nil {
		g.Log.Errorf("config: display.background=%s err=%v", g.Config.Display.Background, err)
		return color.Black
	}
	return c
}

func (g *Global) QuitKey() types.InputKey {
	if g.Config.Input.QuitKey == 0 {
		return types.KeyEsc
	}
	return types.InputKey(g.Config.Input.QuitKey)
}

func (g *Global) Stop() {
	g.Alive.Stop()
}

func (g *Global) StopWait(timeout time.Duration) bool {
	g.Alive.Stop()
	select {
	case <-g.Alive.WaitChan():
		return true
	case <-time.After(timeout):
		return false
	}
}

// Close releases input sources and display after Stop.
func (g *Global) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	errs := make([]error, 0, len(g.sources)+len(g.chips)+1)
	for _, s := range g.sources {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, errors.Annotatef(err, "close input=%s", s.String()))
			}
		}
	}
	g.sources = nil
	for name, chip := range g.chips {
		if err := chip.Close(); err != nil {
			errs = append(errs, errors.Annotatef(err, "close gpio chip=%s", name))
		}
	}
	g.chips = nil
	if g.display != nil {
		if err := g.display.Close(); err != nil {
			errs = append(errs, errors.Annotate(err, "close display"))
		}
	}
	return helpers.FoldErrors(errs)
}

// ParseColor accepts "rrggbb" with optional '#', empty means black.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return color.RGBA{A: 0xff}, nil
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	var r, gr, b uint8
	if len(s) != 6 {
		return color.RGBA{}, errors.NotValidf("color=%s", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &gr, &b); err != nil {
		return color.RGBA{}, errors.NotValidf("color=%s", s)
	}
	return color.RGBA{r, gr, b, 0xff}, nil
}
