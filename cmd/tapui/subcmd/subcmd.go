// Support sub-commands in tapui application.
package subcmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/tapui/helpers"
	"github.com/temoto/tapui/internal/anim"
	"github.com/temoto/tapui/internal/state"
	"github.com/temoto/tapui/internal/ui"
)

const (
	EventBuffer = 32
	StopTimeout = 3 * time.Second
)

type Mod struct {
	Name string
	Main func(ctx context.Context, config *state.Config, args []string) error
}

func Parse(command string, modules []Mod) (*Mod, error) {
	if command == "" {
		return nil, fmt.Errorf("empty command")
	}

	var found *Mod
	for i := range modules {
		m := &modules[i]
		if m.Name == "" {
			panic(fmt.Sprintf("code error Name='' module=%#v", m))
		}
		if command == m.Name {
			found = m
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("unknown command='%s'", command)
	}
	return found, nil
}

func SdNotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}

// Attach applies display and input config to frame loop and subscribes it to global input.
// Frame rate stays as the variant set it.
func Attach(g *state.Global, u *ui.UI, name string) {
	u.Router.QuitKey = g.QuitKey()
	u.Renderer.Background = g.Background()
	if g.Config.Display.Status {
		u.Status = true
	}
	u.Events = g.Input.SubscribeChan(name, EventBuffer, g.Alive.StopChan())
}

// Ease logs bad config value and falls back to linear.
func Ease(g *state.Global, key, name string) anim.Ease {
	e, err := anim.EaseByName(name)
	if err != nil {
		g.Log.Errorf("config: %s err=%v", key, err)
		return anim.Linear
	}
	return e
}

// Run notifies systemd, runs frames until quit, then stops and releases hardware.
func Run(g *state.Global, name string, run func() error) error {
	SdNotify(daemon.SdNotifyReady)
	g.Log.Infof("%s running", name)
	err := run()
	if err != nil {
		err = errors.Annotate(err, name)
	}
	if !g.StopWait(StopTimeout) {
		g.Log.Errorf("%s stop timeout=%v", name, StopTimeout)
	}
	st := g.Input.Stats()
	g.Log.Infof("%s input events=%d unhandled=%d closed=%d failed=%d", name, st.Events, st.Unhandled, st.Closed, st.Failed)
	return helpers.FoldErrors([]error{err, g.Close()})
}
