// Package field provides the read-only grid view the mesh engine consumes.
//
// A Field is owned by the editing side. The engine borrows it for the
// duration of one generation and never writes to it, so a single Field may be
// read from any number of goroutines while a mesh is being built.
package field

import (
	"errors"
	"fmt"
)

// Field validation errors.
var (
	ErrGridTooSmall = errors.New("grid must be at least 2x2 samples")
	ErrFieldSize    = errors.New("sample array length does not match grid size")
)

// OutsideDistance is the distance reported for samples outside the grid.
const OutsideDistance float32 = -1

// Field is a W x H grid of signed distance samples stored row-major.
// A sample is inside the shape when its distance is >= 0.
type Field struct {
	Cols      int
	Rows      int
	Distances []float32 // [y*Cols+x]
	Heights   []float32 // optional, same layout as Distances
	Culled    []bool    // optional, one flag per cell (same layout)
}

// New creates a field with every sample outside.
func New(cols, rows int) *Field {
	f := &Field{
		Cols:      cols,
		Rows:      rows,
		Distances: make([]float32, cols*rows),
	}
	for i := range f.Distances {
		f.Distances[i] = OutsideDistance
	}
	return f
}

// Validate checks the grid dimensions and the lengths of the sample arrays.
func (f *Field) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil field", ErrGridTooSmall)
	}
	if f.Cols < 2 || f.Rows < 2 {
		return fmt.Errorf("%w: got %dx%d", ErrGridTooSmall, f.Cols, f.Rows)
	}
	n := f.Cols * f.Rows
	if len(f.Distances) != n {
		return fmt.Errorf("%w: distances has %d samples, want %d", ErrFieldSize, len(f.Distances), n)
	}
	if f.Heights != nil && len(f.Heights) != n {
		return fmt.Errorf("%w: heights has %d samples, want %d", ErrFieldSize, len(f.Heights), n)
	}
	if f.Culled != nil && len(f.Culled) != n {
		return fmt.Errorf("%w: culled has %d flags, want %d", ErrFieldSize, len(f.Culled), n)
	}
	return nil
}

// Len returns the number of samples.
func (f *Field) Len() int {
	return f.Cols * f.Rows
}

// Index returns the flat index of sample (x, y).
func (f *Field) Index(x, y int) int {
	return y*f.Cols + x
}

// InBounds reports whether (x, y) is a sample of the grid.
func (f *Field) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Cols && y < f.Rows
}

// Distance returns the distance at (x, y), or OutsideDistance when the
// coordinates are out of range.
func (f *Field) Distance(x, y int) float32 {
	if !f.InBounds(x, y) {
		return OutsideDistance
	}
	return f.Distances[y*f.Cols+x]
}

// Inside reports whether the sample at (x, y) is inside the shape.
func (f *Field) Inside(x, y int) bool {
	return f.Distance(x, y) >= 0
}

// HasHeights reports whether per-sample heights are available.
func (f *Field) HasHeights() bool {
	return f.Heights != nil
}

// HasCulling reports whether a culling mask is available.
func (f *Field) HasCulling() bool {
	return f.Culled != nil
}

// Height returns the height at (x, y), clamping coordinates to the grid.
// Fields without heights report 0.
func (f *Field) Height(x, y int) float32 {
	if f.Heights == nil {
		return 0
	}
	x = clamp(x, 0, f.Cols-1)
	y = clamp(y, 0, f.Rows-1)
	return f.Heights[y*f.Cols+x]
}

// IsCulled reports whether the cell whose bottom-left sample is (x, y) is
// culled. Fields without a culling mask never cull.
func (f *Field) IsCulled(x, y int) bool {
	if f.Culled == nil || !f.InBounds(x, y) {
		return false
	}
	return f.Culled[y*f.Cols+x]
}

// CellCols returns the number of cell columns (Cols-1).
func (f *Field) CellCols() int {
	return f.Cols - 1
}

// CellRows returns the number of cell rows (Rows-1).
func (f *Field) CellRows() int {
	return f.Rows - 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
