package state

import (
	"image"
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/tapui/helpers"
	"github.com/temoto/tapui/log2"
)

const (
	DefaultWidth       = 1280
	DefaultHeight      = 800
	DefaultPersistRoot = "./tmp-tapui-db"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Display struct { //nolint:maligned
		// empty device means offscreen canvas
		Device     string `hcl:"device"`
		Width      int    `hcl:"width"`
		Height     int    `hcl:"height"`
		FPS        int    `hcl:"fps"`
		Status     bool   `hcl:"status"`
		Background string `hcl:"background"`
	} `hcl:"display"`

	Input struct {
		QuitKey       int `hcl:"quit_key"`
		DevInputEvent struct {
			Enable bool   `hcl:"enable"`
			Device string `hcl:"device"`
		} `hcl:"dev_input_event"`
		Touch struct {
			Enable bool   `hcl:"enable"`
			Device string `hcl:"device"`
			MinX   int    `hcl:"min_x"`
			MaxX   int    `hcl:"max_x"`
			MinY   int    `hcl:"min_y"`
			MaxY   int    `hcl:"max_y"`
			SwapXY bool   `hcl:"swap_xy"`
		} `hcl:"touch"`
		GPIOButtons []GPIOButtonConfig `hcl:"gpio_button"`
		Fifo        struct {
			Enable bool   `hcl:"enable"`
			Path   string `hcl:"path"`
		} `hcl:"fifo"`
	} `hcl:"input"`

	Assets struct {
		IconDir string `hcl:"icon_dir"`
	} `hcl:"assets"`

	Persist struct {
		Root string `hcl:"root"`
	} `hcl:"persist"`

	Camera struct {
		// per storage mode: local, boot partition, external
		StorageDirs []string `hcl:"storage_dirs"`
		Amplitude   int      `hcl:"amplitude"`
		Ease        string   `hcl:"ease"`
		SpinnerMs   int      `hcl:"spinner_ms"`
		// playback QR code links to share_url + photo file name
		ShareURL string `hcl:"share_url"`
	} `hcl:"camera"`

	Keyboard struct {
		// keyset directories live under Dir, each with its own icons and out.txt
		Dir       string         `hcl:"dir"`
		Keysets   []KeysetConfig `hcl:"keyset"`
		Amplitude int            `hcl:"amplitude"`
		Ease      string         `hcl:"ease"`
		// zero means keyboard default, display.fps does not apply
		FPS int `hcl:"fps"`
	} `hcl:"keyboard"`

	Slideshow struct {
		Dir         string `hcl:"dir"`
		IntervalSec int    `hcl:"interval_sec"`
		// x,y,w,h
		Rect []int `hcl:"rect"`
	} `hcl:"slideshow"`

	Log struct {
		Level string `hcl:"level"`
	} `hcl:"log"`

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

type GPIOButtonConfig struct {
	Name      string `hcl:"name,key"`
	Chip      string `hcl:"chip"`
	Line      int    `hcl:"line"`
	Key       int    `hcl:"key"`
	ActiveLow bool   `hcl:"active_low"`
}

type KeysetConfig struct {
	Name    string  `hcl:"name,key"`
	Scale   float64 `hcl:"scale"`
	YOffset float64 `hcl:"y_offset"`
}

// DisplaySize is logical canvas size, defaults apply for zero values.
func (c *Config) DisplaySize() image.Point {
	p := image.Pt(c.Display.Width, c.Display.Height)
	if p.X <= 0 {
		p.X = DefaultWidth
	}
	if p.Y <= 0 {
		p.Y = DefaultHeight
	}
	return p
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
