// Package photos indexes IMG_####.JPG files in a storage directory.
package photos

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/juju/errors"
)

const (
	Pattern  = "IMG_[0-9][0-9][0-9][0-9].JPG"
	MaxIndex = 9999
)

func Name(n int) string { return fmt.Sprintf("IMG_%04d.JPG", n) }

func Path(dir string, n int) string { return filepath.Join(dir, Name(n)) }

// Range returns lowest and highest photo index.
// Missing or unreadable directory is the same as empty.
func Range(dir string) (min, max int, ok bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, false
	}
	min, max = MaxIndex, 0
	for _, e := range entries {
		name := e.Name()
		if match, _ := filepath.Match(Pattern, name); !match {
			continue
		}
		i, err := strconv.Atoi(name[4:8])
		if err != nil {
			continue
		}
		if i < min {
			min = i
		}
		if i > max {
			max = i
		}
	}
	if min > max {
		return 0, 0, false
	}
	return min, max, true
}

func Exists(dir string, n int) bool {
	_, err := os.Stat(Path(dir, n))
	return err == nil
}

// Next searches from n in direction (+1 or -1), wrapping over 0..MaxIndex.
// Returns n itself if it is the only photo, false when there are none.
func Next(dir string, n, direction int) (int, bool) {
	if direction == 0 {
		panic("code error photos.Next direction=0")
	}
	if direction > 0 {
		direction = 1
	} else {
		direction = -1
	}
	i := n
	for step := 0; step <= MaxIndex; step++ {
		i += direction
		if i > MaxIndex {
			i = 0
		} else if i < 0 {
			i = MaxIndex
		}
		if Exists(dir, i) {
			return i, true
		}
	}
	return 0, false
}

// NextSaveIndex is one past the highest existing index, 0 in empty directory.
func NextSaveIndex(dir string) (int, error) {
	_, max, ok := Range(dir)
	if !ok {
		return 0, nil
	}
	if max >= MaxIndex {
		return 0, errors.Errorf("photos dir=%s index overflow", dir)
	}
	return max + 1, nil
}

func Load(dir string, n int) (image.Image, error) {
	path := Path(dir, n)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("photo path=%s", path)
		}
		return nil, errors.Annotatef(err, "photo path=%s", path)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	return img, errors.Annotatef(err, "photo path=%s", path)
}

func Delete(dir string, n int) error {
	return errors.Annotate(os.Remove(Path(dir, n)), "photo delete")
}

// Save writes new photo with next free index, encoded by f.
func Save(dir string, f func(w io.Writer) error) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, errors.Annotatef(err, "photos dir=%s", dir)
	}
	n, err := NextSaveIndex(dir)
	if err != nil {
		return 0, err
	}
	path := Path(dir, n)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, errors.Annotatef(err, "photo path=%s", path)
	}
	if err = f(file); err != nil {
		file.Close()
		os.Remove(path)
		return 0, errors.Annotatef(err, "photo path=%s", path)
	}
	return n, errors.Annotatef(file.Close(), "photo path=%s", path)
}
