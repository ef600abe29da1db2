package widget

import (
	"github.com/juju/errors"
	"github.com/temoto/tapui/helpers"
	"github.com/temoto/tapui/internal/anim"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/types"
)

// Layouter assigns rectangles to screen widgets, called every frame.
type Layouter interface {
	Layout(s *Screen) error
}

// Screen is one UI mode: ordered widgets plus layout and animation rule.
type Screen struct {
	Name    string
	Widgets []*Widget
	Layout  Layouter // nil = keep rects as declared
	Anim    anim.Animator
	OnEnter func(s *Screen)
}

func NewScreen(name string, ws ...*Widget) *Screen {
	return &Screen{Name: name, Widgets: ws}
}

func (self *Screen) Add(ws ...*Widget) { self.Widgets = append(self.Widgets, ws...) }

// ByKey returns first (topmost) widget bound to key.
func (self *Screen) ByKey(k types.InputKey) *Widget {
	if k == 0 {
		return nil
	}
	for _, w := range self.Widgets {
		if w.Key == k {
			return w
		}
	}
	return nil
}

func (self *Screen) ByName(name string) *Widget {
	for _, w := range self.Widgets {
		if w.Name == name {
			return w
		}
	}
	return nil
}

func (self *Screen) ByRole(r Role) *Widget {
	for _, w := range self.Widgets {
		if w.Role == r {
			return w
		}
	}
	return nil
}

// IconNames lists every icon name referenced by widgets, without duplicates.
func (self *Screen) IconNames() []string {
	seen := make(map[string]struct{})
	names := make([]string, 0, len(self.Widgets)*2)
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	for _, w := range self.Widgets {
		add(w.BgName)
		add(w.FgName)
	}
	return names
}

// Bind resolves widget icon names through set, one map lookup per name.
// Shift names are resolved lazily by renderer.
func (self *Screen) Bind(set assets.Set) error {
	errs := make([]error, 0)
	for _, w := range self.Widgets {
		if w.BgName != "" {
			if w.Bg = set.Get(w.BgName); w.Bg == nil {
				errs = append(errs, errors.NotFoundf("screen=%s widget=%s icon=%s", self.Name, w.Name, w.BgName))
			}
		} else {
			w.Bg = nil
		}
		if w.FgName != "" {
			if w.Fg = set.Get(w.FgName); w.Fg == nil {
				errs = append(errs, errors.NotFoundf("screen=%s widget=%s icon=%s", self.Name, w.Name, w.FgName))
			}
		} else {
			w.Fg = nil
		}
	}
	return helpers.FoldErrors(errs)
}

// SetBg changes background icon of named widget, runtime icon swap.
func (self *Screen) SetBg(name string, set assets.Set, icon string) error {
	w := self.ByName(name)
	if w == nil {
		return errors.NotFoundf("screen=%s widget=%s", self.Name, name)
	}
	a := set.Get(icon)
	if a == nil {
		return errors.NotFoundf("icon=%s", icon)
	}
	w.SetBg(icon, a)
	return nil
}

// Registry is the set of named screens in declaration order.
type Registry struct {
	screens []*Screen
	index   map[string]*Screen
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]*Screen)}
}

func (self *Registry) Add(s *Screen) {
	if _, ok := self.index[s.Name]; ok {
		panic("code error duplicate screen=" + s.Name)
	}
	self.screens = append(self.screens, s)
	self.index[s.Name] = s
}

func (self *Registry) Get(name string) *Screen { return self.index[name] }

func (self *Registry) MustGet(name string) *Screen {
	s := self.index[name]
	if s == nil {
		panic("code error unknown screen=" + name)
	}
	return s
}

func (self *Registry) Screens() []*Screen { return self.screens }

func (self *Registry) IconNames() []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, s := range self.screens {
		for _, name := range s.IconNames() {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	return names
}

// Bind resolves icons of all screens, errors folded into one.
func (self *Registry) Bind(set assets.Set) error {
	errs := make([]error, 0)
	for _, s := range self.screens {
		if err := s.Bind(set); err != nil {
			errs = append(errs, err)
		}
	}
	return helpers.FoldErrors(errs)
}
