package state

import (
	"math"

	"github.com/juju/errors"
	gpio "github.com/temoto/gpio-cdev-go"
	"github.com/temoto/tapui/hardware/input"
	"github.com/temoto/tapui/helpers"
	"github.com/temoto/tapui/internal/ipc"
	"github.com/temoto/tapui/internal/types"
)

func (g *Global) initInput() error {
	cfg := &g.Config.Input
	sources := make([]input.Source, 0, 4)
	errs := make([]error, 0)

	if cfg.DevInputEvent.Enable {
		src, err := input.NewDevInputEventSource(cfg.DevInputEvent.Device, nil)
		if err != nil {
			errs = append(errs, errors.Annotate(err, "dev_input_event"))
		} else {
			sources = append(sources, src)
		}
	}

	if cfg.Touch.Enable {
		tcfg := cfg.Touch
		size := g.Config.DisplaySize()
		cal := &input.Calibration{
			MinX:   tcfg.MinX,
			MaxX:   tcfg.MaxX,
			MinY:   tcfg.MinY,
			MaxY:   tcfg.MaxY,
			SwapXY: tcfg.SwapXY,
			Width:  size.X,
			Height: size.Y,
		}
		src, err := input.NewDevInputEventSource(tcfg.Device, cal)
		if err != nil {
			errs = append(errs, errors.Annotate(err, "touch"))
		} else {
			sources = append(sources, src)
		}
	}

	for _, bcfg := range cfg.GPIOButtons {
		if bcfg.Line < 0 || int64(bcfg.Line) > math.MaxUint32 {
			errs = append(errs, errors.NotValidf("config: gpio_button=%s line=%d", bcfg.Name, bcfg.Line))
			continue
		}
		chip, err := g.gpioChip(bcfg.Chip)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		btn, err := input.NewGPIOButton(chip, bcfg.Name, uint32(bcfg.Line), types.InputKey(bcfg.Key), bcfg.ActiveLow)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sources = append(sources, btn)
	}

	if cfg.Fifo.Enable {
		path := cfg.Fifo.Path
		if path == "" {
			path = ipc.DefaultFifoPath
		}
		f, err := ipc.OpenFifo(path, g.Log)
		if err != nil {
			errs = append(errs, err)
		} else {
			sources = append(sources, f)
		}
	}

	if err := helpers.FoldErrors(errs); err != nil {
		for _, s := range sources {
			if c, ok := s.(interface{ Close() error }); ok {
				_ = c.Close()
			}
		}
		return err
	}

	g.mu.Lock()
	g.sources = sources
	g.mu.Unlock()
	g.Log.Debugf("input sources=%d", len(sources))
	go g.Input.Run(sources)
	return nil
}

func (g *Global) gpioChip(name string) (gpio.Chiper, error) {
	if name == "" {
		name = "/dev/gpiochip0"
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if chip, ok := g.chips[name]; ok {
		return chip, nil
	}
	open := g.GPIOOpen
	if open == nil {
		open = gpio.Open
	}
	chip, err := open(name, "tapui")
	if err != nil {
		return nil, errors.Annotatef(err, "gpio chip=%s", name)
	}
	if g.chips == nil {
		g.chips = make(map[string]gpio.Chiper)
	}
	g.chips[name] = chip
	return chip, nil
}
