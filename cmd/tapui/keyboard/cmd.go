// Shortcut keyboard shell: keysets of key icons laid out from out.txt tables.
package keyboard

import (
	"context"

	"github.com/temoto/tapui/cmd/tapui/subcmd"
	appkeyboard "github.com/temoto/tapui/internal/app/keyboard"
	"github.com/temoto/tapui/internal/state"
)

const modName = "keyboard"

var Mod = subcmd.Mod{Name: modName, Main: Main}

const DefaultDir = "keyboards"

func Main(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)

	app, err := Build(g)
	if err != nil {
		return err
	}
	subcmd.Attach(g, app.UI, modName)
	// keyboard shell always shows status line
	app.UI.Status = true
	return subcmd.Run(g, modName, func() error { return app.Run(ctx, g.Alive) })
}

func Build(g *state.Global) (*appkeyboard.App, error) {
	c := &g.Config.Keyboard
	d, err := g.Display()
	if err != nil {
		return nil, err
	}
	app := appkeyboard.New(appkeyboard.Config{
		Log:       g.Log,
		Amplitude: c.Amplitude,
		Ease:      subcmd.Ease(g, "keyboard.ease", c.Ease),
		FPS:       c.FPS,
	})
	dir := c.Dir
	if dir == "" {
		dir = DefaultDir
	}
	defs := Defs(c.Keysets)
	keysets := make([]*appkeyboard.Keyset, 0, len(defs))
	for _, def := range defs {
		ks, err := app.LoadKeyset(dir, def)
		if err != nil {
			return nil, err
		}
		keysets = append(keysets, ks)
	}
	if err = app.Init(keysets, d); err != nil {
		return nil, err
	}
	return app, nil
}

// Defs from config, known keyset names fill zero scale from defaults.
func Defs(kcs []state.KeysetConfig) []appkeyboard.Def {
	if len(kcs) == 0 {
		return appkeyboard.DefaultKeysets
	}
	defs := make([]appkeyboard.Def, 0, len(kcs))
	for _, kc := range kcs {
		def := appkeyboard.Def{Name: kc.Name, Scale: kc.Scale, YOffset: kc.YOffset}
		if def.Scale == 0 {
			def.Scale = appkeyboard.DefaultKeysets[0].Scale
			for _, known := range appkeyboard.DefaultKeysets {
				if known.Name == def.Name {
					def.Scale = known.Scale
					if def.YOffset == 0 {
						def.YOffset = known.YOffset
					}
				}
			}
		}
		defs = append(defs, def)
	}
	return defs
}
