package ui

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/alive/v2"
	"github.com/temoto/tapui/hardware/display"
	"github.com/temoto/tapui/internal/anim"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/router"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/internal/widget"
	"github.com/temoto/tapui/log2"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

type tenv struct {
	ui      *UI
	disp    *display.Display
	events  chan types.InputEvent
	entered []string
}

func newEnv(t testing.TB) *tenv {
	log := log2.NewTest(t, log2.LDebug)
	env := &tenv{
		disp:   display.NewMock(image.Pt(100, 80)),
		events: make(chan types.InputEvent, 16),
	}
	reg := widget.NewRegistry()
	main := widget.NewScreen("main",
		widget.Must("go", image.Rect(0, 0, 10, 10), widget.Fill(red), widget.Tap(func(ctx context.Context) {
			GetState(ctx).Go("second")
		})),
		widget.Must("quit", image.Rect(50, 50, 60, 60), widget.Fill(red), widget.Key(types.KeyEnter), widget.Tap(func(ctx context.Context) {
			GetState(ctx).Quit = true
		})),
	)
	second := widget.NewScreen("second",
		widget.Must("pulse", image.Rect(20, 20, 30, 30), widget.Fill(blue), widget.Key(types.KeyZ)),
	)
	second.Anim = anim.Animator{Amplitude: 10}
	second.OnEnter = func(s *widget.Screen) { env.entered = append(env.entered, s.Name) }
	reg.Add(main)
	reg.Add(second)

	env.ui = New(log, reg, assets.Set{}, env.disp)
	env.ui.Events = env.events
	env.ui.Clock.Sleep = func(time.Duration) {}
	// phase 250ms, linear delta = 3 (rounded 2.5)
	env.ui.Now = func() time.Time { return time.Unix(1000, int64(250*time.Millisecond)) }
	return env
}

func TestStepTapSwitchesScreen(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	ctx := context.Background()
	require.NoError(t, env.ui.Step(ctx))
	assert.Equal(t, "main", env.ui.State.Screen)
	assert.Equal(t, red, env.disp.Snapshot().RGBAAt(5, 5))

	env.events <- types.InputEvent{Kind: types.InputKindPointer, X: 5, Y: 5}
	env.events <- types.InputEvent{Kind: types.InputKindPointer, X: 5, Y: 5, Up: true}
	require.NoError(t, env.ui.Step(ctx))
	assert.Equal(t, "second", env.ui.State.Screen)
	assert.Equal(t, []string{"second"}, env.entered)
	img := env.disp.Snapshot()
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, img.RGBAAt(5, 5))
	assert.Equal(t, blue, img.RGBAAt(25, 25))
	assert.Equal(t, 2, env.disp.Flushes())
	assert.Equal(t, uint64(2), env.ui.Clock.Frames())
}

func TestStepHeldKeyAnimates(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.ui.State.Screen = "second"
	ctx := context.Background()
	w := env.ui.Screen().ByName("pulse")

	require.NoError(t, env.ui.Step(ctx))
	assert.Equal(t, image.Pt(10, 10), w.Size)
	assert.False(t, w.Active)

	env.events <- types.InputEvent{Kind: types.InputKindKey, Key: types.KeyZ}
	require.NoError(t, env.ui.Step(ctx))
	assert.True(t, w.Active)
	assert.Equal(t, image.Pt(13, 13), w.Size)
	assert.Equal(t, blue, env.disp.Snapshot().RGBAAt(32, 32))

	env.events <- types.InputEvent{Kind: types.InputKindKey, Key: types.KeyZ, Up: true}
	require.NoError(t, env.ui.Step(ctx))
	assert.False(t, w.Active)
	assert.Equal(t, image.Pt(10, 10), w.Size)
}

func TestStepQuit(t *testing.T) {
	t.Parallel()

	type Case struct {
		name  string
		event types.InputEvent
	}
	cases := []Case{
		{"reserved-key", types.InputEvent{Kind: types.InputKindKey, Key: types.KeyEsc}},
		{"action", types.InputEvent{Kind: types.InputKindKey, Key: types.KeyEnter}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			env := newEnv(t)
			env.events <- c.event
			assert.Equal(t, router.ErrQuit, env.ui.Step(context.Background()))
		})
	}
}

func TestOnEventConsumes(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	var seen []string
	env.ui.OnEvent = func(ctx context.Context, e types.InputEvent) (bool, error) {
		if e.Kind == types.InputKindTrigger {
			seen = append(seen, e.Payload)
			GetState(ctx).Shift = true
			return true, nil
		}
		return false, nil
	}
	env.events <- types.InputEvent{Kind: types.InputKindTrigger, Payload: "ab"}
	env.events <- types.InputEvent{Kind: types.InputKindPointer, X: 99, Y: 79}
	require.NoError(t, env.ui.Step(context.Background()))
	assert.Equal(t, []string{"ab"}, seen)
	assert.True(t, env.ui.State.Shift)
	assert.Equal(t, "main", env.ui.State.Screen)
}

func TestStatusLine(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	env.ui.Status = true
	require.NoError(t, env.ui.Step(context.Background()))
	img := env.disp.Snapshot()
	found := false
	for y := 0; y < 16 && !found; y++ {
		for x := 0; x < 100; x++ {
			if img.RGBAAt(x, y).B > 128 && img.RGBAAt(x, y).R < 128 {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "status text pixels")
}

func TestRunStopsOnQuit(t *testing.T) {
	t.Parallel()

	env := newEnv(t)
	a := alive.NewAlive()
	frames := 0
	env.ui.OnFrame = func(ctx context.Context, now time.Time) error {
		frames++
		if frames == 3 {
			GetState(ctx).Quit = true
		}
		return nil
	}
	require.NoError(t, env.ui.Run(context.Background(), a))
	assert.Equal(t, 3, frames)
	assert.True(t, a.IsStopping() || a.IsFinished())
	a.Wait()
}

func TestGetStatePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { GetState(context.Background()) })
	s := &State{Screen: "x"}
	assert.Equal(t, s, GetState(WithState(context.Background(), s)))
}
