package layout

import (
	"encoding/csv"
	"image"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/internal/widget"
)

// Layout table file name inside keyset directory.
const TableFile = "out.txt"

type Entry struct {
	X, Y, W, H float64
	Key        types.InputKey
}

// Table is immutable after parse, one entry per widget in screen order.
type Table []Entry

func ParseTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	t := make(Table, 0, 90)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Annotate(err, "layout table")
		}
		var e Entry
		fs := [4]*float64{&e.X, &e.Y, &e.W, &e.H}
		for i, f := range fs {
			if *f, err = strconv.ParseFloat(strings.TrimSpace(rec[i]), 64); err != nil {
				return nil, errors.Annotatef(err, "layout table row=%d field=%d", len(t), i)
			}
		}
		k, err := strconv.ParseUint(strings.TrimSpace(rec[4]), 10, 16)
		if err != nil {
			return nil, errors.Annotatef(err, "layout table row=%d key", len(t))
		}
		e.Key = types.InputKey(k)
		t = append(t, e)
	}
	return t, nil
}

func ReadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "layout table")
	}
	defer f.Close()
	t, err := ParseTable(f)
	return t, errors.Annotatef(err, "path=%s", path)
}

func round(f float64) int { return int(math.Round(f)) }

// Rect of entry i: vertical offset added before scaling, every field rounded.
func (self Table) Rect(i int, scale, yOffset float64) image.Rectangle {
	e := self[i]
	x := round(e.X * scale)
	y := round((e.Y + yOffset) * scale)
	return image.Rect(x, y, x+round(e.W*scale), y+round(e.H*scale))
}

// TableLayout positions widgets from table rows and binds their keys.
type TableLayout struct {
	Table   Table
	Scale   float64
	YOffset float64
}

func (self *TableLayout) Layout(s *widget.Screen) error {
	if err := self.Bind(s); err != nil {
		return err
	}
	for i, w := range s.Widgets {
		w.Rect = self.Table.Rect(i, self.Scale, self.YOffset)
	}
	return nil
}

// Bind assigns table keys without moving widgets, so key routing works
// before the next layout pass.
func (self *TableLayout) Bind(s *widget.Screen) error {
	if len(s.Widgets) > len(self.Table) {
		return errors.NotValidf("layout table rows=%d < widgets=%d screen=%s", len(self.Table), len(s.Widgets), s.Name)
	}
	for i, w := range s.Widgets {
		w.Key = self.Table[i].Key
	}
	return nil
}
