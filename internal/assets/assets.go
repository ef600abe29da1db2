// Package assets loads named icon bitmaps once and shares them by reference.
package assets

import (
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/juju/errors"
	"github.com/skip2/go-qrcode"
	"github.com/temoto/tapui/helpers"
	"github.com/temoto/tapui/log2"
	"golang.org/x/image/draw"
)

const Ext = ".png"

// Name prefix for generated QR code assets, e.g. "qr:http://10.0.0.2/".
const QRPrefix = "qr:"
const DefaultQRSize = 256

// Asset is immutable after load.
type Asset struct {
	Name  string
	Image *image.RGBA
}

func (a *Asset) Size() image.Point { return a.Image.Bounds().Size() }

func FromImage(name string, img image.Image) *Asset {
	return &Asset{Name: name, Image: ToRGBA(img)}
}

// Set maps icon name to asset, built once per icon set load.
type Set map[string]*Asset

func (s Set) Get(name string) *Asset { return s[name] }

func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Loader struct {
	Log    *log2.Log
	QRSize int

	dir   string
	mu    sync.Mutex
	cache map[string]*Asset
}

func NewLoader(dir string, log *log2.Log) *Loader {
	return &Loader{
		Log:    log,
		QRSize: DefaultQRSize,
		dir:    dir,
		cache:  make(map[string]*Asset),
	}
}

func (self *Loader) Dir() string { return self.dir }

func (self *Loader) Path(name string) string { return filepath.Join(self.dir, name+Ext) }

// Load returns cached asset or reads `<dir>/<name>.png` on first reference.
// Missing file is errors.NotFound.
func (self *Loader) Load(name string) (*Asset, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if a, ok := self.cache[name]; ok {
		return a, nil
	}

	var a *Asset
	var err error
	if strings.HasPrefix(name, QRPrefix) {
		a, err = self.qr(name)
	} else {
		a, err = self.read(name)
	}
	if err != nil {
		return nil, err
	}
	self.cache[name] = a
	self.Log.Debugf("assets loaded name=%s size=%v", name, a.Size())
	return a, nil
}

// LoadSet loads every name, errors are folded into one.
func (self *Loader) LoadSet(names ...string) (Set, error) {
	set := make(Set, len(names))
	errs := make([]error, 0)
	for _, name := range names {
		if name == "" {
			continue
		}
		a, err := self.Load(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		set[name] = a
	}
	return set, helpers.FoldErrors(errs)
}

// LoadDir loads all PNG files of the directory into a Set keyed by base name.
func (self *Loader) LoadDir() (Set, error) {
	entries, err := os.ReadDir(self.dir)
	if err != nil {
		return nil, errors.Annotatef(err, "assets dir=%s", self.dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Ext))
	}
	return self.LoadSet(names...)
}

func (self *Loader) read(name string) (*Asset, error) {
	path := self.Path(name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("asset name=%s path=%s", name, path)
		}
		return nil, errors.Annotatef(err, "asset name=%s", name)
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, errors.Annotatef(err, "asset name=%s path=%s", name, path)
	}
	return &Asset{Name: name, Image: img}, nil
}

func (self *Loader) qr(name string) (*Asset, error) {
	text := strings.TrimPrefix(name, QRPrefix)
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, errors.Annotatef(err, "asset qr text=%s", text)
	}
	return FromImage(name, q.Image(self.QRSize)), nil
}

func Decode(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Annotate(err, "decode")
	}
	return ToRGBA(img), nil
}

func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

// FastScale is cheap nearest neighbor, used while widget animates.
func FastScale(src image.Image, size image.Point) *image.RGBA {
	return scale(draw.NearestNeighbor, src, size)
}

// SmoothScale is expensive, result is meant to be cached.
func SmoothScale(src image.Image, size image.Point) *image.RGBA {
	return scale(draw.CatmullRom, src, size)
}

func scale(s draw.Scaler, src image.Image, size image.Point) *image.RGBA {
	if size.X <= 0 || size.Y <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	dst := image.NewRGBA(image.Rectangle{Max: size})
	s.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return dst
}

// Solid is a plain color asset, handy for tests and placeholder icons.
func Solid(name string, size image.Point, c color.Color) *Asset {
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
	return &Asset{Name: name, Image: img}
}
