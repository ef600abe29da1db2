// Package input fans out events from hardware sources to frame loop subscribers.
package input

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/juju/errors"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/log2"
)

type Source interface {
	Read() (types.InputEvent, error)
	String() string
}

// Drain discards pending events without blocking.
func Drain(ch <-chan types.InputEvent) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

type subscriber struct {
	name string
	ch   chan types.InputEvent
	stop <-chan struct{}
}

func (self *subscriber) stopped() bool {
	select {
	case <-self.stop:
		return true
	default:
		return false
	}
}

type Stats struct {
	Events    uint64
	Unhandled uint64
	// sources finished with EOF
	Closed uint64
	// sources stopped on read error
	Failed uint64
}

type Dispatch struct {
	Log  *log2.Log
	bus  chan types.InputEvent
	stop <-chan struct{}

	mu   sync.Mutex
	subs map[string]*subscriber

	events    uint64
	unhandled uint64
	closed    uint64
	failed    uint64
}

func NewDispatch(log *log2.Log, stop <-chan struct{}) *Dispatch {
	return &Dispatch{
		Log:  log,
		bus:  make(chan types.InputEvent),
		stop: stop,
		subs: make(map[string]*subscriber, 4),
	}
}

// SubscribeChan with buffer lets frame loop drain events once per frame.
// Channel is closed when substop fires and next event arrives.
// Name may be reused after previous subscriber stopped.
func (self *Dispatch) SubscribeChan(name string, buffer int, substop <-chan struct{}) chan types.InputEvent {
	s := &subscriber{name: name, ch: make(chan types.InputEvent, buffer), stop: substop}
	self.mu.Lock()
	defer self.mu.Unlock()
	if old, ok := self.subs[name]; ok {
		if !old.stopped() {
			panic("code error input duplicate subscribe name=" + name)
		}
		self.remove(old)
	}
	self.subs[name] = s
	return s.ch
}

func (self *Dispatch) Stats() Stats {
	return Stats{
		Events:    atomic.LoadUint64(&self.events),
		Unhandled: atomic.LoadUint64(&self.unhandled),
		Closed:    atomic.LoadUint64(&self.closed),
		Failed:    atomic.LoadUint64(&self.failed),
	}
}

// Run starts reading sources and delivers events until dispatch stop.
func (self *Dispatch) Run(sources []Source) {
	for _, source := range sources {
		go self.readSource(source)
	}
	for {
		select {
		case e := <-self.bus:
			self.fanout(e)
		case <-self.stop:
			Drain(self.bus)
			return
		}
	}
}

// Emit blocks until Run takes event or dispatch stops.
func (self *Dispatch) Emit(e types.InputEvent) {
	select {
	case self.bus <- e:
	case <-self.stop:
	}
}

// fanout blocks on slow subscriber, kernel and fifo buffers absorb input meanwhile.
func (self *Dispatch) fanout(e types.InputEvent) {
	atomic.AddUint64(&self.events, 1)
	self.Log.Debugf("input %s", e.String())
	self.mu.Lock()
	defer self.mu.Unlock()
	delivered := false
	for _, s := range self.subs {
		select {
		case s.ch <- e:
			delivered = true
		case <-s.stop:
			self.remove(s)
		case <-self.stop:
			return
		}
	}
	if !delivered {
		atomic.AddUint64(&self.unhandled, 1)
		self.Log.Debugf("input not handled %s", e.String())
	}
}

func (self *Dispatch) remove(s *subscriber) {
	close(s.ch)
	delete(self.subs, s.name)
}

// readSource stops on first error, other sources keep working.
func (self *Dispatch) readSource(source Source) {
	tag := source.String()
	for {
		e, err := source.Read()
		if err != nil {
			if errors.Cause(err) == io.EOF {
				self.Log.Infof("input source=%s closed", tag)
				atomic.AddUint64(&self.closed, 1)
				return
			}
			err = errors.Annotatef(err, "input source=%s", tag)
			self.Log.Error(errors.ErrorStack(err))
			atomic.AddUint64(&self.failed, 1)
			return
		}
		if e.Source == "" {
			e.Source = tag
		}
		self.Emit(e)
	}
}
