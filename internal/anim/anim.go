// Package anim is the "breathing" pulse of pressed widgets.
// Pure function of wall clock, all active widgets pulse in sync without timers.
package anim

import (
	"image"
	"math"
	"strings"
	"time"

	"github.com/juju/errors"
)

const Period = time.Second

// Phase returns position within current second and direction.
// reverse=true in the second half, ping-pong across the second boundary.
func Phase(now time.Time) (t float64, reverse bool) {
	ms := now.UnixNano() / int64(time.Millisecond) % int64(Period/time.Millisecond)
	if ms < 0 {
		ms += int64(Period / time.Millisecond)
	}
	return float64(ms) / 1000, ms > 500
}

// Effective folds reverse into t, result in [0,1].
func Effective(now time.Time) float64 {
	t, reverse := Phase(now)
	if reverse {
		return 1 - t
	}
	return t
}

// Ease must be monotonic on [0,1] with f(0)=0, f(1)=1.
type Ease func(t float64) float64

func Linear(t float64) float64     { return t }
func Smoothstep(t float64) float64 { return t * t * (3 - 2*t) }
func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}
func InOutSine(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 }

func EaseByName(name string) (Ease, error) {
	switch strings.ToLower(name) {
	case "", "linear":
		return Linear, nil
	case "smoothstep":
		return Smoothstep, nil
	case "easeinoutquad", "inoutquad":
		return InOutQuad, nil
	case "easeinoutsine", "inoutsine":
		return InOutSine, nil
	}
	return nil, errors.NotValidf("ease=%s", name)
}

// Common amplitudes.
const (
	AmplitudeCoarse   = 10
	AmplitudeKeyboard = 100
)

type Animator struct {
	Amplitude int
	Ease      Ease
}

// Delta is round(ease(t_effective) * amplitude), within [0, Amplitude].
func (a Animator) Delta(now time.Time) int {
	ease := a.Ease
	if ease == nil {
		ease = Linear
	}
	e := ease(Effective(now))
	if e < 0 {
		e = 0
	} else if e > 1 {
		e = 1
	}
	return int(math.Round(e * float64(a.Amplitude)))
}

// Size of widget to draw. Inactive widgets are exactly base size.
func (a Animator) Size(base image.Point, active bool, now time.Time) image.Point {
	if !active || a.Amplitude == 0 {
		return base
	}
	d := a.Delta(now)
	return image.Pt(base.X+d, base.Y+d)
}
