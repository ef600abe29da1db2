// Developer console: runs a shell on offscreen display and injects input from text commands.
package console

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/tapui/cmd/tapui/camera"
	"github.com/temoto/tapui/cmd/tapui/keyboard"
	"github.com/temoto/tapui/cmd/tapui/slideshow"
	"github.com/temoto/tapui/cmd/tapui/subcmd"
	"github.com/temoto/tapui/hardware/display"
	"github.com/temoto/tapui/helpers/cli"
	"github.com/temoto/tapui/internal/router"
	"github.com/temoto/tapui/internal/state"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/internal/ui"
	"github.com/temoto/tapui/log2"
)

const modName = "console"

var Mod = subcmd.Mod{Name: modName, Main: Main}

const usage = `commands:
  tap X Y            pointer press
  release            pointer release
  key CODE [up|hold] key press and release, only release or only press
  trigger MSG        IPC trigger message
  screen NAME        switch screen
  png PATH           save display snapshot
  stat               frame loop status
  quit`

func Main(ctx context.Context, config *state.Config, args []string) error {
	g := state.GetGlobal(ctx)
	flags := flag.NewFlagSet(modName, flag.ContinueOnError)
	flagApp := flags.String("app", "camera", "camera|keyboard|slideshow")
	if err := flags.Parse(args); err != nil {
		return errors.Annotate(err, "console flags")
	}

	// console feeds input itself and never touches real screen
	config.Display.Device = ""
	config.Input.DevInputEvent.Enable = false
	config.Input.Touch.Enable = false
	config.Input.GPIOButtons = nil
	config.Input.Fifo.Enable = false
	g.MustInit(ctx, config)

	var u *ui.UI
	switch *flagApp {
	case "camera":
		app, err := camera.Build(g)
		if err != nil {
			return err
		}
		u, ctx = app.UI, app.Context(ctx)
	case "keyboard":
		app, err := keyboard.Build(g)
		if err != nil {
			return err
		}
		u, ctx = app.UI, app.Context(ctx)
	case "slideshow":
		app, err := slideshow.Build(g)
		if err != nil {
			return err
		}
		u = app.UI
	default:
		return errors.NotValidf("console app=%s", *flagApp)
	}
	u.Router.QuitKey = g.QuitKey()
	u.Renderer.Background = g.Background()

	c := New(g.Log, u, g.MustDisplay(), os.Stdout)
	ctx = u.Context(ctx)
	if err := c.Step(ctx); err != nil {
		return err
	}
	cli.MainLoop(modName+"-"+*flagApp, func(line string) bool {
		more, err := c.Exec(ctx, line)
		if err != nil {
			g.Log.Error(errors.ErrorStack(err))
		}
		return more
	}, Complete, func(os.Signal) { g.Stop() })
	g.Stop()
	return g.Close()
}

// Console owns the frame loop: every input command runs exactly one frame.
type Console struct {
	Log     *log2.Log
	UI      *ui.UI
	Display *display.Display
	Out     io.Writer

	events chan types.InputEvent
	x, y   int
}

func New(log *log2.Log, u *ui.UI, d *display.Display, out io.Writer) *Console {
	c := &Console{
		Log:     log,
		UI:      u,
		Display: d,
		Out:     out,
		events:  make(chan types.InputEvent, subcmd.EventBuffer),
	}
	u.Events = c.events
	return c
}

func (self *Console) Step(ctx context.Context) error { return self.UI.Step(ctx) }

// Exec returns false after quit command or quit from frame loop.
func (self *Console) Exec(ctx context.Context, line string) (bool, error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return true, nil
	}
	cmd, args := words[0], words[1:]
	switch cmd {
	case "help", "/help":
		fmt.Fprintln(self.Out, usage)
		return true, nil

	case "quit", "exit":
		return false, nil

	case "stat":
		u := self.UI
		fmt.Fprintf(self.Out, "screen=%s shift=%t frames=%d fps=%.1f last_flip=%s\n",
			u.State.Screen, u.State.Shift, u.Clock.Frames(), u.Clock.Rate(), u.Clock.LastFlip().Format("15:04:05.000"))
		return true, nil

	case "png":
		if len(args) != 1 {
			return true, errors.Errorf("usage: png PATH")
		}
		return true, self.Display.SavePNG(args[0])

	case "screen":
		if len(args) != 1 {
			return true, errors.Errorf("usage: screen NAME")
		}
		if self.UI.Screens.Get(args[0]) == nil {
			return true, errors.NotFoundf("screen=%s", args[0])
		}
		self.UI.State.Go(args[0])

	case "tap":
		if len(args) != 2 {
			return true, errors.Errorf("usage: tap X Y")
		}
		x, err1 := strconv.Atoi(args[0])
		y, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return true, errors.NotValidf("tap x=%s y=%s", args[0], args[1])
		}
		self.x, self.y = x, y
		self.emit(types.InputEvent{Kind: types.InputKindPointer, X: x, Y: y})

	case "release":
		self.emit(types.InputEvent{Kind: types.InputKindPointer, X: self.x, Y: self.y, Up: true})

	case "key":
		if len(args) < 1 || len(args) > 2 {
			return true, errors.Errorf("usage: key CODE [up|hold]")
		}
		code, err := strconv.ParseUint(args[0], 0, 16)
		if err != nil {
			return true, errors.Annotatef(err, "key code=%s", args[0])
		}
		k := types.InputKey(code)
		mode := ""
		if len(args) == 2 {
			mode = args[1]
		}
		switch mode {
		case "":
			self.emit(types.InputEvent{Kind: types.InputKindKey, Key: k})
			self.emit(types.InputEvent{Kind: types.InputKindKey, Key: k, Up: true})
		case "hold":
			self.emit(types.InputEvent{Kind: types.InputKindKey, Key: k})
		case "up":
			self.emit(types.InputEvent{Kind: types.InputKindKey, Key: k, Up: true})
		default:
			return true, errors.NotValidf("key mode=%s", mode)
		}

	case "trigger":
		if len(args) == 0 {
			return true, errors.Errorf("usage: trigger MSG")
		}
		msg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))
		self.emit(types.InputEvent{Kind: types.InputKindTrigger, Payload: msg})

	default:
		return true, errors.NotFoundf("command=%s", cmd)
	}

	err := self.Step(ctx)
	if err == router.ErrQuit {
		return false, nil
	}
	return true, err
}

func (self *Console) emit(e types.InputEvent) {
	e.Source = modName
	self.events <- e
}

var commands = []string{"help", "key", "png", "quit", "release", "screen", "stat", "tap", "trigger"}

func Complete(d prompt.Document) []prompt.Suggest {
	if strings.Contains(d.TextBeforeCursor(), " ") {
		return nil
	}
	suggests := make([]prompt.Suggest, 0, len(commands))
	for _, s := range commands {
		suggests = append(suggests, prompt.Suggest{Text: s})
	}
	return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
}
