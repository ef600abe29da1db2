// Package busy animates the "working" indicator while main goroutine blocks.
// Ownership: between Start and Stop return, label and spinner widgets and
// the display surface belong to the spinner goroutine.
package busy

import (
	"fmt"
	"image"
	"time"

	"github.com/temoto/alive/v2"
	"github.com/temoto/tapui/internal/assets"
	"github.com/temoto/tapui/internal/render"
	"github.com/temoto/tapui/internal/widget"
	"github.com/temoto/tapui/log2"
)

const (
	DefaultInterval = 150 * time.Millisecond
	LabelIcon       = "working"
	SpinnerFrames   = 5
)

func SpinnerIcon(n int) string { return fmt.Sprintf("work-%d", n) }

type Surface interface {
	Canvas() *image.RGBA
	Flush() error
}

type Config struct {
	Log      *log2.Log
	Screen   *widget.Screen
	Icons    assets.Set
	Renderer *render.Renderer
	Surface  Surface
	Interval time.Duration
}

// Task is a running spinner, Stop joins the goroutine.
type Task struct {
	alive   *alive.Alive
	log     *log2.Log
	frames  int
	stopped bool
}

// Start draws label and spins until Stop.
// Screen without busy roles still returns valid Task that does nothing.
func Start(c Config) *Task {
	t := &Task{alive: alive.NewAlive(), log: c.Log}
	label := c.Screen.ByRole(widget.RoleBusyLabel)
	spin := c.Screen.ByRole(widget.RoleBusySpinner)
	if label == nil || spin == nil || c.Surface == nil {
		c.Log.Debugf("busy screen=%s no spinner widgets", c.Screen.Name)
		t.alive.Stop()
		return t
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if !t.alive.Add(1) {
		panic("code error busy alive.Add on fresh Alive")
	}
	go t.run(c, label, spin)
	return t
}

func (self *Task) run(c Config, label, spin *widget.Widget) {
	defer self.alive.Done()
	canvas := c.Surface.Canvas()
	label.SetBg(LabelIcon, c.Icons.Get(LabelIcon))
	c.Renderer.DrawWidget(canvas, label, false)
	if err := c.Surface.Flush(); err != nil {
		c.Log.Errorf("busy flush err=%v", err)
	}

	tmr := time.NewTicker(c.Interval)
	defer tmr.Stop()
	stopch := self.alive.StopChan()
	for n := 0; ; n = (n + 1) % SpinnerFrames {
		name := SpinnerIcon(n)
		spin.SetBg(name, c.Icons.Get(name))
		c.Renderer.DrawWidget(canvas, spin, false)
		if err := c.Surface.Flush(); err != nil {
			c.Log.Errorf("busy flush err=%v", err)
		}
		self.frames++
		select {
		case <-tmr.C:
		case <-stopch:
			label.SetBg("", nil)
			spin.SetBg("", nil)
			return
		}
	}
}

// Stop signals spinner and blocks until it released widgets and surface.
func (self *Task) Stop() {
	if self.stopped {
		return
	}
	self.stopped = true
	self.alive.Stop()
	self.alive.Wait()
}

// Frames count is valid after Stop.
func (self *Task) Frames() int { return self.frames }

// Run wraps blocking f with spinner.
func Run(c Config, f func() error) error {
	t := Start(c)
	defer t.Stop()
	return f()
}
