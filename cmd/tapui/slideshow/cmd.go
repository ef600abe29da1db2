// Full screen slideshow of every PNG in a directory.
package slideshow

import (
	"context"
	"image"

	"github.com/juju/errors"
	"github.com/temoto/tapui/cmd/tapui/subcmd"
	"github.com/temoto/tapui/helpers"
	appslideshow "github.com/temoto/tapui/internal/app/slideshow"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/state"
)

const modName = "slideshow"

var Mod = subcmd.Mod{Name: modName, Main: Main}

func Main(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)

	app, err := Build(g)
	if err != nil {
		return err
	}
	subcmd.Attach(g, app.UI, modName)
	return subcmd.Run(g, modName, func() error { return app.Run(ctx, g.Alive) })
}

func Build(g *state.Global) (*appslideshow.App, error) {
	c := &g.Config.Slideshow
	d, err := g.Display()
	if err != nil {
		return nil, err
	}
	rect, err := Rect(c.Rect)
	if err != nil {
		return nil, err
	}
	app := appslideshow.New(appslideshow.Config{
		Log:      g.Log,
		Interval: helpers.IntSecondDefault(c.IntervalSec, appslideshow.DefaultInterval),
		Rect:     rect,
	})
	loader := g.Icons
	if c.Dir != "" {
		loader = assets.NewLoader(c.Dir, g.Log)
	}
	if err = app.Load(loader); err != nil {
		return nil, err
	}
	if err = app.Init(d); err != nil {
		return nil, err
	}
	return app, nil
}

// Rect parses config x,y,w,h. Empty means default.
func Rect(xywh []int) (image.Rectangle, error) {
	switch len(xywh) {
	case 0:
		return image.Rectangle{}, nil
	case 4:
		r := image.Rect(xywh[0], xywh[1], xywh[0]+xywh[2], xywh[1]+xywh[3])
		if r.Empty() {
			return r, errors.NotValidf("config: slideshow.rect=%v empty", xywh)
		}
		return r, nil
	}
	return image.Rectangle{}, errors.NotValidf("config: slideshow.rect=%v expected x,y,w,h", xywh)
}
