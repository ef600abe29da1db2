package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/tapui/log2"
)

func writePNG(t testing.TB, dir, name string, size image.Point, c color.Color) {
	t.Helper()
	a := Solid(name, size, c)
	f, err := os.Create(filepath.Join(dir, name+Ext))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, a.Image))
}

func TestLoaderCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "gear", image.Pt(8, 6), color.RGBA{0xff, 0, 0, 0xff})
	l := NewLoader(dir, log2.NewTest(t, log2.LDebug))

	a1, err := l.Load("gear")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(8, 6), a1.Size())
	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, a1.Image.RGBAAt(3, 3))

	// shared by reference, no second read
	require.NoError(t, os.Remove(filepath.Join(dir, "gear"+Ext)))
	a2, err := l.Load("gear")
	require.NoError(t, err)
	assert.True(t, a1 == a2)
}

func TestLoaderNotFound(t *testing.T) {
	t.Parallel()

	l := NewLoader(t.TempDir(), log2.NewTest(t, log2.LDebug))
	_, err := l.Load("missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), err.Error())

	_, err = l.LoadSet("missing", "absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name=missing")
	assert.Contains(t, err.Error(), "name=absent")
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePNG(t, dir, "play", image.Pt(4, 4), color.White)
	writePNG(t, dir, "done", image.Pt(4, 4), color.Black)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	set, err := NewLoader(dir, log2.NewTest(t, log2.LDebug)).LoadDir()
	require.NoError(t, err)
	assert.Equal(t, []string{"done", "play"}, set.Names())
	assert.True(t, set.Has("play"))
	assert.Nil(t, set.Get("notes"))
}

func TestQR(t *testing.T) {
	t.Parallel()

	l := NewLoader(t.TempDir(), log2.NewTest(t, log2.LDebug))
	l.QRSize = 64
	a, err := l.Load(QRPrefix + "http://10.0.0.2/")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(64, 64), a.Size())
}

func TestScale(t *testing.T) {
	t.Parallel()

	src := Solid("x", image.Pt(10, 10), color.RGBA{0, 0, 0xff, 0xff})
	for _, f := range []func(image.Image, image.Point) *image.RGBA{FastScale, SmoothScale} {
		dst := f(src.Image, image.Pt(23, 7))
		assert.Equal(t, image.Pt(23, 7), dst.Bounds().Size())
		c := dst.RGBAAt(11, 3)
		assert.InDelta(t, 0xff, int(c.B), 2)
		assert.InDelta(t, 0, int(c.R), 2)
	}
	assert.True(t, FastScale(src.Image, image.Pt(0, 5)).Bounds().Empty())
}
