package widget

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/types"
)

func TestNew(t *testing.T) {
	t.Parallel()

	noop := func(context.Context) {}
	cases := []struct {
		name   string
		rect   image.Rectangle
		opts   []Option
		expect string
	}{
		{"plain", image.Rect(0, 0, 10, 10), nil, ""},
		{"tap", image.Rect(0, 0, 10, 10), []Option{Tap(noop)}, ""},
		{"two-actions", image.Rect(0, 0, 10, 10), []Option{Tap(noop), TapValue(func(context.Context, int) {}, 1)}, "second action"},
		{"fg-only-sized", image.Rect(0, 0, 10, 10), []Option{Icons("", "arrow")}, ""},
		{"fg-only-empty", image.Rectangle{}, []Option{Icons("", "arrow")}, "foreground without background"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			w, err := New(c.name, c.rect, c.opts...)
			if c.expect == "" {
				require.NoError(t, err)
				assert.Equal(t, c.rect.Size(), w.Size)
			} else {
				require.Error(t, err)
				assert.True(t, errors.IsNotValid(err))
				assert.Contains(t, err.Error(), c.expect)
			}
		})
	}
	assert.Panics(t, func() { Must("bad", image.Rectangle{}, Icons("", "x")) })
}

func TestInvokeValue(t *testing.T) {
	t.Parallel()

	got := -1
	w := Must("iso", image.Rect(0, 0, 5, 5), TapValue(func(_ context.Context, v int) { got = v }, 320))
	assert.True(t, w.HasAction())
	w.Invoke(context.Background())
	assert.Equal(t, 320, got)

	passive := Must("photo", image.Rect(0, 0, 5, 5))
	assert.False(t, passive.HasAction())
	passive.Invoke(context.Background()) // no panic
}

func TestScreenLookup(t *testing.T) {
	t.Parallel()

	a := Must("a", image.Rect(0, 0, 10, 10), Key(types.KeyZ))
	b := Must("b", image.Rect(0, 0, 10, 10), Key(types.KeyZ), WithRole(RoleBusySpinner))
	c := Must("c", image.Rect(0, 0, 10, 10), WithRole(RoleBusySpinner))
	s := NewScreen("test", a, b, c)
	assert.Equal(t, a, s.ByKey(types.KeyZ))
	assert.Nil(t, s.ByKey(0))
	assert.Nil(t, s.ByKey(types.KeyX))
	assert.Equal(t, b, s.ByRole(RoleBusySpinner))
	assert.Nil(t, s.ByRole(RoleBusyLabel))
	assert.Equal(t, c, s.ByName("c"))
	assert.Nil(t, s.ByName("nope"))
}

func TestBind(t *testing.T) {
	t.Parallel()

	set := assets.Set{
		"play":  assets.Solid("play", image.Pt(4, 4), color.White),
		"arrow": assets.Solid("arrow", image.Pt(2, 2), color.Black),
	}
	s := NewScreen("viewfinder",
		Must("play", image.Rect(0, 0, 4, 4), Icons("play", "arrow")),
		Must("gear", image.Rect(0, 0, 4, 4), Icon("gear")),
		Must("trash", image.Rect(0, 0, 4, 4), Icon("trash")),
	)
	assert.Equal(t, []string{"play", "arrow", "gear", "trash"}, s.IconNames())
	err := s.Bind(set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "icon=gear")
	assert.Contains(t, err.Error(), "icon=trash")
	assert.Equal(t, set["play"], s.Widgets[0].Bg)
	assert.Equal(t, set["arrow"], s.Widgets[0].Fg)

	require.NoError(t, s.SetBg("gear", set, "play"))
	assert.Equal(t, "play", s.ByName("gear").BgName)
	assert.True(t, errors.IsNotFound(s.SetBg("gear", set, "missing")))
	assert.True(t, errors.IsNotFound(s.SetBg("missing", set, "play")))
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Add(NewScreen("one"))
	r.Add(NewScreen("two"))
	assert.Equal(t, "two", r.Get("two").Name)
	assert.Nil(t, r.Get("three"))
	assert.Len(t, r.Screens(), 2)
	assert.Panics(t, func() { r.Add(NewScreen("one")) })
	assert.Panics(t, func() { r.MustGet("three") })
}

func TestMoveBaseSize(t *testing.T) {
	t.Parallel()

	w := Must("w", image.Rect(10, 10, 30, 20))
	w.Move(100, 200)
	assert.Equal(t, image.Rect(100, 200, 120, 210), w.Rect)
	assert.Equal(t, image.Pt(20, 10), w.BaseSize())

	icon := Must("icon", image.Rectangle{}, Icon("x"))
	icon.Bg = assets.Solid("x", image.Pt(7, 9), color.White)
	assert.Equal(t, image.Pt(7, 9), icon.BaseSize())
}
