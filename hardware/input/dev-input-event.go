package input

import (
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/inputevent-go"
	"github.com/temoto/tapui/internal/types"
)

const DevInputEventTag = "dev-input-event"

// linux/input-event-codes.h
const (
	evSyn    uint16 = 0x00
	evKey    uint16 = 0x01
	evAbs    uint16 = 0x03
	absX     uint16 = 0x00
	absY     uint16 = 0x01
	btnTouch uint16 = 0x14a
)

// Calibration maps raw touch panel axes to screen pixels.
type Calibration struct {
	MinX, MaxX int
	MinY, MaxY int
	SwapXY     bool
	Width      int
	Height     int
}

func (c *Calibration) Map(rawX, rawY int) (int, int) {
	if c.SwapXY {
		rawX, rawY = rawY, rawX
	}
	return scaleAxis(rawX, c.MinX, c.MaxX, c.Width), scaleAxis(rawY, c.MinY, c.MaxY, c.Height)
}

func scaleAxis(v, min, max, size int) int {
	if max == min || size <= 0 {
		return v
	}
	x := (v - min) * (size - 1) / (max - min)
	if x < 0 {
		return 0
	}
	if x >= size {
		return size - 1
	}
	return x
}

// DevInputEventSource reads keyboard keys and single touch from evdev device.
type DevInputEventSource struct {
	f     io.ReadCloser
	tag   string
	touch *Calibration

	rawX, rawY int
	touching   bool
	wasTouch   bool
	pending    []types.InputEvent
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func (self *DevInputEventSource) String() string { return self.tag }

// NewDevInputEventSource opens device. Nil touch calibration ignores touch events.
func NewDevInputEventSource(device string, touch *Calibration) (*DevInputEventSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Annotatef(err, "input device=%s", device)
	}
	return NewDevInputEventReader(f, touch), nil
}

func NewDevInputEventReader(r io.ReadCloser, touch *Calibration) *DevInputEventSource {
	return &DevInputEventSource{f: r, tag: DevInputEventTag, touch: touch}
}

func (self *DevInputEventSource) Close() error { return self.f.Close() }

func (self *DevInputEventSource) Read() (types.InputEvent, error) {
	for len(self.pending) == 0 {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			return types.InputEvent{}, err
		}
		self.handle(ie)
	}
	e := self.pending[0]
	self.pending = self.pending[1:]
	return e, nil
}

func (self *DevInputEventSource) handle(ie inputevent.InputEvent) {
	switch ie.Type {
	case evKey:
		if ie.Code == btnTouch {
			self.touching = ie.Value != int32(inputevent.KeyStateUp)
			return
		}
		self.pending = append(self.pending, types.InputEvent{
			Source: self.tag,
			Kind:   types.InputKindKey,
			Key:    types.InputKey(ie.Code),
			Up:     ie.Value == int32(inputevent.KeyStateUp),
			Repeat: ie.Value == int32(inputevent.KeyStateHold),
		})

	case evAbs:
		switch ie.Code {
		case absX:
			self.rawX = int(ie.Value)
		case absY:
			self.rawY = int(ie.Value)
		}

	case evSyn:
		// touch report is complete only at sync
		if self.touch == nil {
			return
		}
		if self.touching != self.wasTouch {
			x, y := self.touch.Map(self.rawX, self.rawY)
			self.pending = append(self.pending, types.InputEvent{
				Source: self.tag,
				Kind:   types.InputKindPointer,
				X:      x,
				Y:      y,
				Up:     !self.touching,
			})
			self.wasTouch = self.touching
		}
	}
}
