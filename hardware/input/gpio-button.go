package input

import (
	"fmt"
	"io"
	"time"

	"github.com/juju/errors"
	gpio "github.com/temoto/gpio-cdev-go"
	"github.com/temoto/tapui/internal/types"
)

const GPIOButtonTag = "gpio-button"
const gpioConsumer = "tapui"
const gpioWaitTimeout = time.Second

// GPIOButton turns tactile switch on GPIO line into key events.
type GPIOButton struct {
	Name string
	Key  types.InputKey
	Line uint32
	ev   gpio.Eventer
}

var _ Source = new(GPIOButton)

// NewGPIOButton requests both edges. Active low lines are inverted by kernel,
// so rising edge is always press.
func NewGPIOButton(chip gpio.Chiper, name string, line uint32, key types.InputKey, activeLow bool) (*GPIOButton, error) {
	var flag gpio.RequestFlag
	if activeLow {
		flag |= gpio.GPIOHANDLE_REQUEST_ACTIVE_LOW
	}
	ev, err := chip.GetLineEvent(line, flag, gpio.GPIOEVENT_REQUEST_BOTH_EDGES, gpioConsumer)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio button=%s line=%d", name, line)
	}
	return &GPIOButton{Name: name, Key: key, Line: line, ev: ev}, nil
}

func (self *GPIOButton) String() string { return fmt.Sprintf("%s(%s)", GPIOButtonTag, self.Name) }

func (self *GPIOButton) Read() (types.InputEvent, error) {
	for {
		edge, err := self.ev.Wait(gpioWaitTimeout)
		if gpio.IsTimeout(err) {
			continue
		}
		if gpio.IsClosed(err) {
			return types.InputEvent{}, io.EOF
		}
		if err != nil {
			return types.InputEvent{}, errors.Annotatef(err, "gpio button=%s", self.Name)
		}
		return types.InputEvent{
			Source: GPIOButtonTag,
			Kind:   types.InputKindKey,
			Key:    self.Key,
			Up:     edge.ID != gpio.GPIOEVENT_EVENT_RISING_EDGE,
		}, nil
	}
}

func (self *GPIOButton) Close() error { return self.ev.Close() }
