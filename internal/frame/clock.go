// Package frame paces the redraw loop at a bounded rate.
package frame

import (
	"sync/atomic"
	"time"

	"github.com/temoto/atomic_clock"
)

const DefaultFPS = 40

// FPS is averaged over this many ticks.
const window = 10

type Clock struct {
	FPS   int
	Now   func() time.Time
	Sleep func(time.Duration)

	last     atomic_clock.Clock
	frames   uint64
	playtime int64 // nanoseconds
	ring     [window]time.Duration
	ringLen  int
	ringPos  int
}

func NewClock(fps int) *Clock {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Clock{FPS: fps, Now: time.Now, Sleep: time.Sleep}
}

func (self *Clock) Interval() time.Duration { return time.Second / time.Duration(self.FPS) }

// Tick blocks until frame interval since previous tick has passed.
// Returns time elapsed since previous tick, zero on first call.
func (self *Clock) Tick() time.Duration {
	now := self.Now()
	var elapsed time.Duration
	if !self.last.IsZero() {
		prev := self.lastTime()
		if d := self.Interval() - now.Sub(prev); d > 0 {
			self.Sleep(d)
			now = self.Now()
		}
		elapsed = now.Sub(prev)
		self.ring[self.ringPos] = elapsed
		self.ringPos = (self.ringPos + 1) % window
		if self.ringLen < window {
			self.ringLen++
		}
		atomic.AddInt64(&self.playtime, int64(elapsed))
	}
	self.last.Set(now.UnixNano())
	atomic.AddUint64(&self.frames, 1)
	return elapsed
}

// Rate is measured frames per second over last ticks.
func (self *Clock) Rate() float64 {
	var sum time.Duration
	for i := 0; i < self.ringLen; i++ {
		sum += self.ring[i]
	}
	if sum <= 0 {
		return 0
	}
	return float64(self.ringLen) / sum.Seconds()
}

func (self *Clock) Frames() uint64 { return atomic.LoadUint64(&self.frames) }

// Playtime is sum of tick intervals, diagnostics only.
func (self *Clock) Playtime() time.Duration { return time.Duration(atomic.LoadInt64(&self.playtime)) }

// LastFlip is safe to read from other goroutines.
func (self *Clock) LastFlip() time.Time {
	if self.last.IsZero() {
		return time.Time{}
	}
	return self.lastTime()
}

// atomic_clock keeps unix nanoseconds, offset from zero clock reads them back.
func (self *Clock) lastTime() time.Time {
	return time.Unix(0, int64(self.last.Sub(&epoch)))
}

var epoch atomic_clock.Clock
