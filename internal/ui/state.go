package ui

import (
	"context"
	"fmt"
)

const ContextKey = "run/ui-state"

// State is the mutable application state widget actions work on.
type State struct {
	// Screen names active screen in registry.
	Screen string
	// Shift selects shift variant icons.
	Shift bool
	// Quit stops frame loop after current frame, exit code 0.
	Quit bool
}

func (self *State) Go(screen string) { self.Screen = screen }

func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, ContextKey, s)
}

func GetState(ctx context.Context) *State {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if s, ok := v.(*State); ok {
		return s
	}
	panic(fmt.Sprintf("context['%s'] expected type *State actual=%#v", ContextKey, v))
}
