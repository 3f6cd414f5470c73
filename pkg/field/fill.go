package field

// Fill sets every distance sample to d.
func (f *Field) Fill(d float32) {
	for i := range f.Distances {
		f.Distances[i] = d
	}
}

// Set sets the distance of sample (x, y). Out-of-range coordinates are ignored.
func (f *Field) Set(x, y int, d float32) {
	if f.InBounds(x, y) {
		f.Distances[y*f.Cols+x] = d
	}
}

// SetHeight sets the height of sample (x, y), allocating the height array on
// first use.
func (f *Field) SetHeight(x, y int, h float32) {
	if !f.InBounds(x, y) {
		return
	}
	if f.Heights == nil {
		f.Heights = make([]float32, f.Len())
	}
	f.Heights[y*f.Cols+x] = h
}

// SetCulled marks the cell at (x, y), allocating the mask on first use.
func (f *Field) SetCulled(x, y int, culled bool) {
	if !f.InBounds(x, y) {
		return
	}
	if f.Culled == nil {
		f.Culled = make([]bool, f.Len())
	}
	f.Culled[y*f.Cols+x] = culled
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := &Field{
		Cols:      f.Cols,
		Rows:      f.Rows,
		Distances: append([]float32(nil), f.Distances...),
	}
	if f.Heights != nil {
		c.Heights = append([]float32(nil), f.Heights...)
	}
	if f.Culled != nil {
		c.Culled = append([]bool(nil), f.Culled...)
	}
	return c
}

// InsideCount returns how many samples are inside the shape.
func (f *Field) InsideCount() int {
	n := 0
	for _, d := range f.Distances {
		if d >= 0 {
			n++
		}
	}
	return n
}
