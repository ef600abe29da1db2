// Package layout assigns widget rectangles for the active screen every frame.
package layout

import (
	"image"

	"github.com/temoto/tapui/internal/widget"
)

// Row of equal cells, except first cell and designated wide cells.
// Cell i>0 starts at previous cell left + previous width + spacing.
type Row struct {
	Count  int
	Height int
	Width  int         // normal cell width
	First  int         // width of cell 0, 0 = Width
	Widths map[int]int // cell index -> width override
}

func (r Row) CellWidth(i int) int {
	if w, ok := r.Widths[i]; ok {
		return w
	}
	if i == 0 && r.First != 0 {
		return r.First
	}
	return r.Width
}

// Grid stacks rows, row r+1 starts at top_r + height_r + spacing.
type Grid struct {
	Left    int
	Top     int
	Spacing int
	Rows    []Row
}

func (self *Grid) Len() int {
	n := 0
	for _, r := range self.Rows {
		n += r.Count
	}
	return n
}

// Rects lists cell rectangles in row-major order.
func (self *Grid) Rects() []image.Rectangle {
	rects := make([]image.Rectangle, 0, self.Len())
	top := self.Top
	for _, row := range self.Rows {
		left := self.Left
		for i := 0; i < row.Count; i++ {
			w := row.CellWidth(i)
			rects = append(rects, image.Rect(left, top, left+w, top+row.Height))
			left += w + self.Spacing
		}
		top += row.Height + self.Spacing
	}
	return rects
}

// Layout assigns grid cells to screen widgets in declaration order.
// Widgets beyond grid capacity keep their rectangles.
func (self *Grid) Layout(s *widget.Screen) error {
	rects := self.Rects()
	for i, w := range s.Widgets {
		if i >= len(rects) {
			break
		}
		w.Rect = rects[i]
	}
	return nil
}

// Static keeps rectangles as declared.
type Static struct{}

func (Static) Layout(*widget.Screen) error { return nil }
