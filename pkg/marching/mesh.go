package marching

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-mesh/pkg/math"
)

// ErrInvalidMesh is returned by Mesh.Validate.
var ErrInvalidMesh = errors.New("invalid mesh")

// Mesh holds the finished buffers of one generation.
type Mesh struct {
	Vertices  []math.Vec3
	Triangles []uint32 // three indices per triangle
	UVs       []math.Vec2
	Normals   []math.Vec3
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Stats summarizes a mesh.
type Stats struct {
	Vertices  int
	Triangles int
	HasUVs    bool
	HasNormal bool
	Bounds    Bounds
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles) / 3
}

// Bounds returns the bounding box of all vertices. An empty mesh has zero
// bounds.
func (m *Mesh) Bounds() Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
	for _, v := range m.Vertices {
		updateBounds(&b, v)
	}
	return b
}

func updateBounds(b *Bounds, p math.Vec3) {
	b.Min.X = math32.Min(b.Min.X, p.X)
	b.Min.Y = math32.Min(b.Min.Y, p.Y)
	b.Min.Z = math32.Min(b.Min.Z, p.Z)
	b.Max.X = math32.Max(b.Max.X, p.X)
	b.Max.Y = math32.Max(b.Max.Y, p.Y)
	b.Max.Z = math32.Max(b.Max.Z, p.Z)
}

// Stats returns counts and bounds.
func (m *Mesh) Stats() Stats {
	return Stats{
		Vertices:  len(m.Vertices),
		Triangles: m.TriangleCount(),
		HasUVs:    m.UVs != nil,
		HasNormal: m.Normals != nil,
		Bounds:    m.Bounds(),
	}
}

// Validate checks the output contract: whole triangles, indices in range,
// attribute arrays matching the vertex count and unit-length normals.
func (m *Mesh) Validate() error {
	if len(m.Triangles)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidMesh, len(m.Triangles))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Triangles {
		if idx >= n {
			return fmt.Errorf("%w: index %d references vertex %d of %d", ErrInvalidMesh, i, idx, n)
		}
	}
	if m.UVs != nil && len(m.UVs) != len(m.Vertices) {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrInvalidMesh, len(m.UVs), len(m.Vertices))
	}
	if m.Normals != nil {
		if len(m.Normals) != len(m.Vertices) {
			return fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidMesh, len(m.Normals), len(m.Vertices))
		}
		for i, nrm := range m.Normals {
			if l := nrm.Length(); math32.Abs(l-1) > 1e-3 {
				return fmt.Errorf("%w: normal %d has length %v", ErrInvalidMesh, i, l)
			}
		}
	}
	return nil
}
