package marching

import (
	"github.com/Faultbox/midgard-mesh/pkg/field"
	"github.com/Faultbox/midgard-mesh/pkg/math"
)

// edgeKind selects which of a sample's two edges a crossing vertex lies on.
type edgeKind uint8

const (
	edgeLeft edgeKind = iota
	edgeBottom
)

// vertexUse records which sample vertices are touched by a cell that emits
// triangles. A nil *vertexUse treats every vertex as used.
type vertexUse struct {
	corner []bool
	left   []bool
	bottom []bool
}

func newVertexUse(n int) *vertexUse {
	return &vertexUse{
		corner: make([]bool, n),
		left:   make([]bool, n),
		bottom: make([]bool, n),
	}
}

// markCorners marks the inside corners of the cell at sample i.
func (u *vertexUse) markCorners(i, cols int, c Config) {
	if c.Has(BottomLeft) {
		u.corner[i] = true
	}
	if c.Has(BottomRight) {
		u.corner[i+1] = true
	}
	if c.Has(TopRight) {
		u.corner[i+cols+1] = true
	}
	if c.Has(TopLeft) {
		u.corner[i+cols] = true
	}
}

// markEdges marks the four edges of the cell at sample i.
func (u *vertexUse) markEdges(i, cols int) {
	u.left[i] = true
	u.bottom[i] = true
	u.left[i+1] = true
	u.bottom[i+cols] = true
}

func (u *vertexUse) cornerUsed(i int) bool { return u == nil || u.corner[i] }
func (u *vertexUse) leftUsed(i int) bool   { return u == nil || u.left[i] }
func (u *vertexUse) bottomUsed(i int) bool { return u == nil || u.bottom[i] }

// slotOwner resolves a slot of cell (x, y) to the sample that owns the vertex.
func slotOwner(x, y int, s Slot) (ox, oy int) {
	switch s {
	case SlotRightCorner, SlotRightLeft:
		return x + 1, y
	case SlotTopCorner, SlotTopBottom:
		return x, y + 1
	case SlotTopRightCorner:
		return x + 1, y + 1
	}
	return x, y
}

// slotEdge returns the edge kind of an edge slot.
func slotEdge(s Slot) edgeKind {
	if s == SlotBottom || s == SlotTopBottom {
		return edgeBottom
	}
	return edgeLeft
}

// edgeFraction returns the crossing fraction of the given edge of (x, y).
func edgeFraction(f *field.Field, x, y int, kind edgeKind, exactness float32) float32 {
	a := f.Distance(x, y)
	if kind == edgeLeft {
		return Fraction(a, f.Distance(x, y+1), exactness)
	}
	return Fraction(a, f.Distance(x+1, y), exactness)
}

// edgeCrossing returns the crossing on an edge of (x, y) in cell units along
// with its fraction along the edge.
func edgeCrossing(f *field.Field, x, y int, kind edgeKind, exactness float32) (math.Vec2, float32) {
	t := edgeFraction(f, x, y, kind, exactness)
	if kind == edgeLeft {
		return math.Vec2{X: float32(x), Y: float32(y) + t}, t
	}
	return math.Vec2{X: float32(x) + t, Y: float32(y)}, t
}

// slotPoint returns the position of slot s of cell (x, y) in cell units.
// Y of the result maps to world Z.
func slotPoint(f *field.Field, x, y int, s Slot, exactness float32) math.Vec2 {
	ox, oy := slotOwner(x, y, s)
	if s.IsEdge() {
		p, _ := edgeCrossing(f, ox, oy, slotEdge(s), exactness)
		return p
	}
	return math.Vec2{X: float32(ox), Y: float32(oy)}
}

// edgeHeight interpolates per-sample heights along an edge.
func edgeHeight(f *field.Field, x, y int, kind edgeKind, t float32) float32 {
	a := f.Height(x, y)
	var b float32
	if kind == edgeLeft {
		b = f.Height(x, y+1)
	} else {
		b = f.Height(x+1, y)
	}
	return a + (b-a)*t
}

// edgeNormals holds the accumulated outward contour normal of every crossing
// vertex, indexed by owning sample.
type edgeNormals struct {
	cols   int
	left   []math.Vec2
	bottom []math.Vec2
}

// buildEdgeNormals sums, for every crossing vertex, the outward normals of the
// contour segments touching it and normalizes the sums. Segments write into
// neighbouring samples, so the pass is sequential.
func buildEdgeNormals(f *field.Field, exactness float32) *edgeNormals {
	n := f.Len()
	e := &edgeNormals{
		cols:   f.Cols,
		left:   make([]math.Vec2, n),
		bottom: make([]math.Vec2, n),
	}

	for y := 0; y < f.Rows-1; y++ {
		for x := 0; x < f.Cols-1; x++ {
			c := Classify(f.Distance(x, y), f.Distance(x+1, y), f.Distance(x+1, y+1), f.Distance(x, y+1))
			for _, seg := range Segments(c) {
				a := slotPoint(f, x, y, seg.From, exactness)
				b := slotPoint(f, x, y, seg.To, exactness)
				normal := b.Sub(a).Perp().Normalize()
				if normal == (math.Vec2{}) {
					// Both ends collapsed onto the shared corner.
					normal = cornerNormal(c)
				}
				e.add(x, y, seg.From, normal)
				e.add(x, y, seg.To, normal)
			}
		}
	}

	for i := range n {
		e.left[i] = e.left[i].Normalize()
		e.bottom[i] = e.bottom[i].Normalize()
	}
	return e
}

func (e *edgeNormals) add(x, y int, s Slot, n math.Vec2) {
	ox, oy := slotOwner(x, y, s)
	i := oy*e.cols + ox
	if slotEdge(s) == edgeLeft {
		e.left[i] = e.left[i].Add(n)
	} else {
		e.bottom[i] = e.bottom[i].Add(n)
	}
}

func (e *edgeNormals) at(i int, kind edgeKind) math.Vec2 {
	if e == nil {
		return math.Vec2{}
	}
	if kind == edgeLeft {
		return e.left[i]
	}
	return e.bottom[i]
}

// cornerNormal is the diagonal pointing away from the inside corners of c.
func cornerNormal(c Config) math.Vec2 {
	var v math.Vec2
	if c.Has(BottomLeft) {
		v = v.Add(math.Vec2{X: 1, Y: 1})
	}
	if c.Has(BottomRight) {
		v = v.Add(math.Vec2{X: -1, Y: 1})
	}
	if c.Has(TopRight) {
		v = v.Add(math.Vec2{X: -1, Y: -1})
	}
	if c.Has(TopLeft) {
		v = v.Add(math.Vec2{X: 1, Y: -1})
	}
	return v.Normalize()
}

// accumulateNormals computes smooth vertex normals for the vertices in
// [vStart, vEnd) from the triangles in [iStart, iEnd). Face normals are
// summed in index order so repeated runs are bit-identical; the final
// normalization runs in parallel. Vertices no triangle touches get fallback.
func accumulateNormals(j *Job, vStart, vEnd, iStart, iEnd int, fallback math.Vec3) {
	buf := j.Buffers()
	normals := buf.Normals[vStart:vEnd]
	for i := range normals {
		normals[i] = math.Vec3{}
	}

	tris := buf.Triangles
	verts := buf.Vertices
	for k := iStart; k+2 < iEnd; k += 3 {
		a, b, c := tris[k], tris[k+1], tris[k+2]
		pa := verts[a]
		face := verts[b].Sub(pa).Cross(verts[c].Sub(pa))
		buf.Normals[a] = buf.Normals[a].Add(face)
		buf.Normals[b] = buf.Normals[b].Add(face)
		buf.Normals[c] = buf.Normals[c].Add(face)
	}

	j.For(len(normals), func(start, end int) {
		for i := start; i < end; i++ {
			n := normals[i].Normalize()
			if n == (math.Vec3{}) {
				n = fallback
			}
			normals[i] = n
		}
	})
}

// broadcastNormal writes one normal to every vertex in [vStart, vEnd).
func broadcastNormal(j *Job, vStart, vEnd int, n math.Vec3) {
	normals := j.Buffers().Normals[vStart:vEnd]
	j.For(len(normals), func(start, end int) {
		for i := start; i < end; i++ {
			normals[i] = n
		}
	})
}
