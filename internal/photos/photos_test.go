package photos

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/tapui/helpers"
)

func TestRange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	helpers.TestTouchFiles(t, dir, "IMG_0003.JPG", "IMG_0007.JPG", "IMG_0099.JPG", "notes.txt")
	min, max, ok := Range(dir)
	assert.True(t, ok)
	assert.Equal(t, 3, min)
	assert.Equal(t, 99, max)
}

func TestRangeEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, _, ok := Range(dir)
	assert.False(t, ok)

	_, _, ok = Range(filepath.Join(dir, "missing"))
	assert.False(t, ok)

	helpers.TestTouchFiles(t, dir, "img_0001.jpg", "IMG_1.JPG", "IMG_00012.JPG", "IMG_abcd.JPG")
	_, _, ok = Range(dir)
	assert.False(t, ok)
}

func TestNext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	helpers.TestTouchFiles(t, dir, "IMG_0000.JPG", "IMG_0005.JPG", "IMG_9999.JPG")
	cases := []struct {
		from, dir, expect int
	}{
		{0, 1, 5},
		{5, 1, 9999},
		{9999, 1, 0},
		{0, -1, 9999},
		{5, -1, 0},
		{3, -1, 0},
	}
	for _, c := range cases {
		n, ok := Next(dir, c.from, c.dir)
		assert.True(t, ok)
		assert.Equal(t, c.expect, n, "from=%d dir=%d", c.from, c.dir)
	}

	empty := t.TempDir()
	_, ok := Next(empty, 0, 1)
	assert.False(t, ok)
}

func TestSaveLoadDelete(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "Photos")
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	encode := func(w io.Writer) error { return jpeg.Encode(w, img, nil) }

	n, err := Save(dir, encode)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	n, err = Save(dir, encode)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	loaded, err := Load(dir, 1)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(8, 8), loaded.Bounds().Size())
	gray := color.GrayModel.Convert(loaded.At(4, 4)).(color.Gray)
	assert.InDelta(t, 128, gray.Y, 4)

	require.NoError(t, Delete(dir, 1))
	_, err = Load(dir, 1)
	assert.True(t, errors.IsNotFound(err))
	next, err := NextSaveIndex(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestSaveEncodeError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := Save(dir, func(w io.Writer) error { return errors.New("sensor") })
	require.Error(t, err)
	_, statErr := os.Stat(Path(dir, 0))
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, os.WriteFile(Path(dir, 3), bytes.Repeat([]byte{0}, 10), 0644))
	_, err = Load(dir, 3)
	assert.Error(t, err)
}
