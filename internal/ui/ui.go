// Package ui is the frame loop: drain input, route, layout, animate, render, flip, throttle.
package ui

import (
	"context"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/busy"
	"github.com/temoto/tapui/internal/frame"
	"github.com/temoto/tapui/internal/render"
	"github.com/temoto/tapui/internal/router"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/internal/widget"
	"github.com/temoto/tapui/log2"
)

type UI struct { //nolint:maligned
	Log      *log2.Log
	Screens  *widget.Registry
	State    *State
	Icons    assets.Set
	Router   *router.Router
	Renderer *render.Renderer
	Clock    *frame.Clock
	Surface  busy.Surface
	Events   <-chan types.InputEvent
	// Status draws FPS line on top.
	Status bool
	// BusyInterval is spinner frame period, zero means default.
	BusyInterval time.Duration
	Now          func() time.Time

	// OnEvent sees every event before routing, true means consumed.
	OnEvent func(ctx context.Context, e types.InputEvent) (bool, error)
	// OnFrame runs once per frame after input, before layout.
	OnFrame func(ctx context.Context, now time.Time) error

	current string
}

// New UI starts on first registered screen.
func New(log *log2.Log, screens *widget.Registry, icons assets.Set, surface busy.Surface) *UI {
	self := &UI{
		Log:      log,
		Screens:  screens,
		State:    &State{},
		Icons:    icons,
		Router:   router.New(log, types.KeyEsc),
		Renderer: render.New(log),
		Clock:    frame.NewClock(frame.DefaultFPS),
		Surface:  surface,
		Now:      time.Now,
	}
	if ss := screens.Screens(); len(ss) != 0 {
		self.State.Screen = ss[0].Name
	}
	return self
}

func (self *UI) Context(ctx context.Context) context.Context {
	return WithState(ctx, self.State)
}

func (self *UI) Screen() *widget.Screen {
	return self.Screens.MustGet(self.State.Screen)
}

// Step runs one frame. Returns router.ErrQuit when user asked to quit.
func (self *UI) Step(ctx context.Context) error {
	ctx = self.Context(ctx)

	if err := self.drain(ctx); err != nil {
		return err
	}
	if self.State.Quit {
		return router.ErrQuit
	}

	s := self.enter()
	now := self.Now()
	if self.OnFrame != nil {
		if err := self.OnFrame(ctx, now); err != nil {
			return errors.Annotate(err, "ui frame")
		}
		if self.State.Quit {
			return router.ErrQuit
		}
		s = self.enter()
	}

	if s.Layout != nil {
		if err := s.Layout.Layout(s); err != nil {
			return errors.Annotatef(err, "layout screen=%s", s.Name)
		}
	}
	if err := self.Router.Sample(s); err != nil {
		return err
	}
	for _, w := range s.Widgets {
		w.Size = s.Anim.Size(w.BaseSize(), w.Active || w.Animating, now)
	}

	canvas := self.Surface.Canvas()
	self.Renderer.Render(canvas, s, self.State.Shift)
	if self.Status {
		render.DrawStatus(canvas, render.StatusLine(self.Clock.Rate(), self.Clock.Playtime().Seconds(), self.Clock.Frames()))
	}
	if err := self.Surface.Flush(); err != nil {
		return errors.Annotate(err, "ui flush")
	}
	self.Clock.Tick()
	return nil
}

// Run steps frames until quit or alive stop. Quit also stops alive.
func (self *UI) Run(ctx context.Context, a *alive.Alive) error {
	if !a.Add(1) {
		return nil
	}
	defer a.Done()
	stopch := a.StopChan()
	for {
		select {
		case <-stopch:
			self.Log.Debugf("ui loop stop")
			return nil
		default:
		}
		err := self.Step(ctx)
		if err == router.ErrQuit {
			self.Log.Infof("ui quit screen=%s frames=%d", self.State.Screen, self.Clock.Frames())
			a.Stop()
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Busy runs blocking f with spinner on current screen.
func (self *UI) Busy(f func() error) error {
	return busy.Run(busy.Config{
		Log:      self.Log,
		Screen:   self.Screen(),
		Icons:    self.Icons,
		Renderer: self.Renderer,
		Surface:  self.Surface,
		Interval: self.BusyInterval,
	}, f)
}

// drain routes everything pending without blocking.
func (self *UI) drain(ctx context.Context) error {
	if self.Events == nil {
		return nil
	}
	for {
		select {
		case e, ok := <-self.Events:
			if !ok {
				self.Events = nil
				return nil
			}
			if err := self.handle(ctx, e); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (self *UI) handle(ctx context.Context, e types.InputEvent) error {
	if self.OnEvent != nil {
		handled, err := self.OnEvent(ctx, e)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}
	_, err := self.Router.Route(ctx, self.Screen(), e)
	return err
}

// enter notices screen change made by actions.
func (self *UI) enter() *widget.Screen {
	s := self.Screen()
	if s.Name != self.current {
		self.Log.Debugf("ui screen %s -> %s", self.current, s.Name)
		self.current = s.Name
		self.Router.Release()
		if s.OnEnter != nil {
			s.OnEnter(s)
		}
	}
	return s
}
