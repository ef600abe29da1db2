// Package router resolves pointer and key events against active screen widgets.
package router

import (
	"context"

	"github.com/juju/errors"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/internal/widget"
	"github.com/temoto/tapui/log2"
)

var ErrQuit = errors.New("quit")

type Router struct {
	Log     *log2.Log
	QuitKey types.InputKey // 0 disables

	held    map[types.InputKey]bool
	pressed *widget.Widget
}

func New(log *log2.Log, quitKey types.InputKey) *Router {
	return &Router{
		Log:     log,
		QuitKey: quitKey,
		held:    make(map[types.InputKey]bool),
	}
}

// Route delivers one event, returns whether some widget took it.
// Pointer press: ascending scan, first containing widget wins, even without action.
// Key press or repeat: first widget bound to key fires, once per event.
func (self *Router) Route(ctx context.Context, s *widget.Screen, e types.InputEvent) (bool, error) {
	switch e.Kind {
	case types.InputKindKey:
		if e.Up {
			delete(self.held, e.Key)
			return false, nil
		}
		self.held[e.Key] = true
		if self.QuitKey != 0 && e.Key == self.QuitKey {
			return true, ErrQuit
		}
		if s == nil {
			return false, nil
		}
		w := s.ByKey(e.Key)
		if w == nil {
			return false, nil
		}
		self.Log.Debugf("router key=%d -> %s", e.Key, w.Name)
		w.Invoke(ctx)
		return true, nil

	case types.InputKindPointer:
		if e.Up {
			self.pressed = nil
			return false, nil
		}
		if s == nil {
			return false, nil
		}
		w := Hit(s, e.X, e.Y)
		if w == nil {
			return false, nil
		}
		self.Log.Debugf("router x=%d y=%d -> %s", e.X, e.Y, w.Name)
		self.pressed = w
		w.Invoke(ctx)
		return true, nil
	}
	return false, nil
}

// Hit returns first widget containing point, passive widgets occlude too.
func Hit(s *widget.Screen, x, y int) *widget.Widget {
	for _, w := range s.Widgets {
		if w.Rect.Empty() {
			continue
		}
		if x >= w.Rect.Min.X && x < w.Rect.Max.X && y >= w.Rect.Min.Y && y < w.Rect.Max.Y {
			return w
		}
	}
	return nil
}

// Sample marks widgets active iff their key is held or pointer holds them.
// Level triggered, called once per frame before animation.
func (self *Router) Sample(s *widget.Screen) error {
	if self.QuitKey != 0 && self.held[self.QuitKey] {
		return ErrQuit
	}
	if s == nil {
		return nil
	}
	for _, w := range s.Widgets {
		w.Active = (w.Key != 0 && self.held[w.Key]) || (w == self.pressed)
	}
	return nil
}

func (self *Router) Held(k types.InputKey) bool { return self.held[k] }

// Release forgets pressed widget, call on screen switch.
func (self *Router) Release() { self.pressed = nil }
