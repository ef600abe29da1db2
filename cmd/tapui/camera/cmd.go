// Viewfinder shell: launcher, settings screens, capture and playback.
package camera

import (
	"context"

	"github.com/juju/errors"
	"github.com/temoto/tapui/cmd/tapui/subcmd"
	"github.com/temoto/tapui/helpers"
	appcamera "github.com/temoto/tapui/internal/app/camera"
	"github.com/temoto/tapui/internal/busy"
	"github.com/temoto/tapui/internal/settings"
	"github.com/temoto/tapui/internal/state"
)

const modName = "camera"

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

// Build creates camera shell on global display with mock sensor.
func Build(g *state.Global) (*appcamera.App, error) {
	c := &g.Config.Camera
	d, err := g.Display()
	if err != nil {
		return nil, err
	}
	app := appcamera.New(appcamera.Config{
		Log:         g.Log,
		Settings:    settings.New(appcamera.SettingsTag, g.Config.Persist.Root, g.Log),
		StorageDirs: c.StorageDirs,
		Size:        d.Size(),
		Amplitude:   c.Amplitude,
		Ease:        subcmd.Ease(g, "camera.ease", c.Ease),
		FPS:         g.Config.Display.FPS,
		Status:      g.Config.Display.Status,
		ShareURL:    c.ShareURL,
		Assets:      g.Icons,
	})
	icons, err := g.Icons.LoadSet(app.IconNames()...)
	if err != nil {
		return nil, errors.Annotate(err, "camera icons")
	}
	if err = app.Init(icons, d); err != nil {
		return nil, err
	}
	app.UI.BusyInterval = helpers.IntMillisecondDefault(c.SpinnerMs, busy.DefaultInterval)
	return app, nil
}
