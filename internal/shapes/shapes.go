// Package shapes samples 2D signed distance functions into fields.
//
// sdfx reports negative distances inside a shape; fields use the opposite
// sign, so samples are negated on the way in.
package shapes

import (
	"fmt"
	"sort"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/Faultbox/midgard-mesh/pkg/field"
)

// Sample evaluates s at every grid sample. Sample (x, y) sits at
// origin + (x, y) * cellSize.
func Sample(s sdf.SDF2, cols, rows int, origin v2.Vec, cellSize float64) *field.Field {
	f := field.New(cols, rows)
	for y := range rows {
		for x := range cols {
			p := v2.Vec{X: origin.X + float64(x)*cellSize, Y: origin.Y + float64(y)*cellSize}
			f.Distances[y*cols+x] = float32(-s.Evaluate(p))
		}
	}
	return f
}

// Fit samples s over its bounding box with a margin of one cell on every
// side, using cols x rows samples.
func Fit(s sdf.SDF2, cols, rows int) *field.Field {
	bb := s.BoundingBox()
	size := bb.Size()
	cell := max(size.X/float64(cols-3), size.Y/float64(rows-3))
	center := bb.Center()
	origin := v2.Vec{
		X: center.X - cell*float64(cols-1)/2,
		Y: center.Y - cell*float64(rows-1)/2,
	}
	return Sample(s, cols, rows, origin, cell)
}

// Ramp fills the field heights with a linear slope along X, quantized to
// steps levels between 0 and top.
func Ramp(f *field.Field, top float32, steps int) {
	f.Heights = make([]float32, f.Len())
	for y := range f.Rows {
		for x := range f.Cols {
			t := float32(x) / float32(f.Cols-1)
			if steps > 1 {
				t = float32(int(t*float32(steps-1)+0.5)) / float32(steps-1)
			}
			f.Heights[y*f.Cols+x] = t * top
		}
	}
}

// builder makes one named demo shape.
type builder func() (sdf.SDF2, error)

var presets = map[string]builder{
	"blob": func() (sdf.SDF2, error) {
		a, err := sdf.Circle2D(4)
		if err != nil {
			return nil, err
		}
		b, err := sdf.Circle2D(3)
		if err != nil {
			return nil, err
		}
		b = sdf.Transform2D(b, sdf.Translate2d(v2.Vec{X: 5, Y: 2}))
		return sdf.Union2D(a, b), nil
	},
	"ring": func() (sdf.SDF2, error) {
		outer, err := sdf.Circle2D(6)
		if err != nil {
			return nil, err
		}
		inner, err := sdf.Circle2D(3)
		if err != nil {
			return nil, err
		}
		return sdf.Difference2D(outer, inner), nil
	},
	"rooms": func() (sdf.SDF2, error) {
		hall := sdf.Box2D(v2.Vec{X: 16, Y: 3}, 0)
		left := sdf.Transform2D(sdf.Box2D(v2.Vec{X: 6, Y: 6}, 0), sdf.Translate2d(v2.Vec{X: -5, Y: 4}))
		right := sdf.Transform2D(sdf.Box2D(v2.Vec{X: 6, Y: 8}, 1), sdf.Translate2d(v2.Vec{X: 5, Y: -3}))
		return sdf.Union2D(hall, left, right), nil
	},
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset builds a named demo shape.
func Preset(name string) (sdf.SDF2, error) {
	b, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown shape %q (have %v)", name, Names())
	}
	return b()
}
