// Package widget is the registry of tappable screen regions.
// Widget list order is z-order: index 0 is topmost for hit testing and drawn last.
package widget

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/juju/errors"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/types"
)

type Action func(ctx context.Context)
type ValueAction func(ctx context.Context, v int)

type Role uint8

const (
	RoleNone Role = iota
	RoleBusyLabel
	RoleBusySpinner
)

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleBusyLabel:
		return "busy-label"
	case RoleBusySpinner:
		return "busy-spinner"
	}
	return fmt.Sprintf("role(%d)", r)
}

type Widget struct {
	Name string
	Key  types.InputKey // 0 = no key binding
	Role Role

	// Rect is layout and hit area, Size is drawn size (base + animation).
	Rect image.Rectangle
	Size image.Point

	Fill      color.Color
	BgName    string
	FgName    string
	ShiftName string
	Bg        *assets.Asset
	Fg        *assets.Asset

	Active    bool
	Animating bool

	action      Action
	valueAction ValueAction
	value       int
}

type Option func(*Widget) error

func Fill(c color.Color) Option {
	return func(w *Widget) error { w.Fill = c; return nil }
}

// Icon sets background icon name.
func Icon(bg string) Option {
	return func(w *Widget) error { w.BgName = bg; return nil }
}

// Icons sets background and foreground icon names.
func Icons(bg, fg string) Option {
	return func(w *Widget) error { w.BgName, w.FgName = bg, fg; return nil }
}

// Shift sets alternate background icon used while shift state is on.
func Shift(name string) Option {
	return func(w *Widget) error { w.ShiftName = name; return nil }
}

func Tap(f Action) Option {
	return func(w *Widget) error {
		if w.action != nil || w.valueAction != nil {
			return errors.NotValidf("widget=%s second action", w.Name)
		}
		w.action = f
		return nil
	}
}

// TapValue binds action with captured integer argument.
func TapValue(f ValueAction, v int) Option {
	return func(w *Widget) error {
		if w.action != nil || w.valueAction != nil {
			return errors.NotValidf("widget=%s second action", w.Name)
		}
		w.valueAction, w.value = f, v
		return nil
	}
}

func Key(k types.InputKey) Option {
	return func(w *Widget) error { w.Key = k; return nil }
}

func WithRole(r Role) Option {
	return func(w *Widget) error { w.Role = r; return nil }
}

// Animate makes widget pulse every frame, not only while pressed.
func Animate() Option {
	return func(w *Widget) error { w.Animating = true; return nil }
}

func New(name string, rect image.Rectangle, opts ...Option) (*Widget, error) {
	w := &Widget{Name: name, Rect: rect.Canon(), Size: rect.Canon().Size()}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	if w.FgName != "" && w.BgName == "" && w.Rect.Empty() {
		return nil, errors.NotValidf("widget=%s foreground without background and size", name)
	}
	return w, nil
}

func Must(name string, rect image.Rectangle, opts ...Option) *Widget {
	w, err := New(name, rect, opts...)
	if err != nil {
		panic("code error " + err.Error())
	}
	return w
}

func (self *Widget) String() string {
	return fmt.Sprintf("widget(%s rect=%v key=%d)", self.Name, self.Rect, self.Key)
}

func (self *Widget) HasAction() bool { return self.action != nil || self.valueAction != nil }

// Invoke runs bound action, no-op for passive widgets.
func (self *Widget) Invoke(ctx context.Context) {
	switch {
	case self.action != nil:
		self.action(ctx)
	case self.valueAction != nil:
		self.valueAction(ctx, self.value)
	}
}

func (self *Widget) Contains(p image.Point) bool { return p.In(self.Rect) }

// BaseSize is what layout assigned, or background icon size when layout left it empty.
func (self *Widget) BaseSize() image.Point {
	if !self.Rect.Empty() {
		return self.Rect.Size()
	}
	if self.Bg != nil {
		return self.Bg.Size()
	}
	return image.Point{}
}

// SetBg swaps background icon at runtime. Caller must Bind or pass resolved asset.
func (self *Widget) SetBg(name string, a *assets.Asset) {
	self.BgName = name
	self.Bg = a
}

func (self *Widget) SetFg(name string, a *assets.Asset) {
	self.FgName = name
	self.Fg = a
}

// Move keeps size, relocates top-left corner.
func (self *Widget) Move(x, y int) {
	self.Rect = self.Rect.Sub(self.Rect.Min).Add(image.Pt(x, y))
}
