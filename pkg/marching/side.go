package marching

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mesh/pkg/field"
	"github.com/Faultbox/midgard-mesh/pkg/math"
)

// Wall subdivision limits.
const (
	MinSegments = 2
	MaxSegments = 16
)

type sideKind uint8

const (
	sideSingle sideKind = iota
	sideScaled
	sideSegmented
)

// sideInfo is the Phase 1 record of one sample for walls. Left and Bottom
// hold the first of Segments+1 consecutive ring vertices, top ring first.
type sideInfo struct {
	Config Config
	Left   int32
	Bottom int32
	Tris   IndexSpan
}

// SideMesher generates vertical walls along the contour, from Top down to
// Bottom. Every crossing vertex gets its own column of ring vertices, so
// walls meet the caps at a hard crease.
type SideMesher struct {
	Top          float32
	Bottom       float32
	TopOffset    float32   // outward offset of the top ring
	BottomOffset float32   // outward offset of the bottom ring
	Segments     int       // vertical subdivisions
	Profile      []float32 // extra outward offset per ring, len Segments+1
	UseHeights   bool      // add field heights to the top ring
	HeightScale  float32
	Winding      Winding
	UVScale      float32

	kind       sideKind
	cols, rows int
	infos      []sideInfo
	normals    *edgeNormals
	vStart     int
	vEnd       int
	iStart     int
	iEnd       int
}

var (
	_ CellMesher   = (*SideMesher)(nil)
	_ UVMesher     = (*SideMesher)(nil)
	_ NormalMesher = (*SideMesher)(nil)
	_ InfoUpdater  = (*SideMesher)(nil)
)

// NewSideMesher returns single-quad walls between two heights.
func NewSideMesher(top, bottom float32) *SideMesher {
	return &SideMesher{
		Top:         top,
		Bottom:      bottom,
		Segments:    1,
		HeightScale: 1,
		UVScale:     1,
	}
}

// NewScaledSideMesher returns single-quad walls whose top and bottom edges
// are pushed outward by separate offsets, matching scaled caps.
func NewScaledSideMesher(top, bottom, topOffset, bottomOffset float32) *SideMesher {
	m := NewSideMesher(top, bottom)
	m.TopOffset = topOffset
	m.BottomOffset = bottomOffset
	m.kind = sideScaled
	return m
}

// NewSegmentedSideMesher returns walls split into segments rows. profile, if
// not nil, adds an outward offset per ring and must hold segments+1 values.
func NewSegmentedSideMesher(top, bottom float32, segments int, profile []float32) *SideMesher {
	m := NewSideMesher(top, bottom)
	m.Segments = segments
	m.Profile = profile
	m.kind = sideSegmented
	return m
}

// Validate rejects bad subdivision settings and missing heights.
func (m *SideMesher) Validate(f *field.Field) error {
	if m.kind == sideSegmented {
		if m.Segments < MinSegments || m.Segments > MaxSegments {
			return fmt.Errorf("side mesher: %w: %d not in [%d, %d]", ErrSegmentCount, m.Segments, MinSegments, MaxSegments)
		}
	} else if m.Segments != 1 {
		return fmt.Errorf("side mesher: %w: single-quad walls need 1 segment, got %d", ErrSegmentCount, m.Segments)
	}
	if m.Profile != nil && len(m.Profile) != m.Segments+1 {
		return fmt.Errorf("side mesher: %w: got %d values for %d segments", ErrProfileSize, len(m.Profile), m.Segments)
	}
	if m.UseHeights && !f.HasHeights() {
		return fmt.Errorf("side mesher: %w", ErrMissingHeights)
	}
	return nil
}

func (m *SideMesher) rings() int {
	return m.Segments + 1
}

// GenerateInfo claims a ring column for every crossing vertex and, for each
// interior cell, two triangles per contour segment and wall subdivision.
func (m *SideMesher) GenerateInfo(j *Job) {
	f := j.Field
	m.cols, m.rows = f.Cols, f.Rows
	m.infos = make([]sideInfo, f.Len())
	m.normals = nil

	start := j.Counts()
	m.vStart, m.iStart = start.Vertices, start.Indices

	// Crossings whose every neighbouring cell is culled get no ring column.
	var use *vertexUse
	if f.HasCulling() {
		use = newVertexUse(f.Len())
		for y := range f.CellRows() {
			for x := range f.CellCols() {
				if !f.IsCulled(x, y) {
					use.markEdges(y*m.cols+x, m.cols)
				}
			}
		}
	}

	rings := m.rings()
	for y := range m.rows {
		for x := range m.cols {
			i := y*m.cols + x
			c := Classify(f.Distance(x, y), f.Distance(x+1, y), f.Distance(x+1, y+1), f.Distance(x, y+1))
			info := sideInfo{Config: c, Left: -1, Bottom: -1}
			if y < m.rows-1 && c.EmitsLeft() && use.leftUsed(i) {
				info.Left = j.NextVertices(rings)
			}
			if x < m.cols-1 && c.EmitsBottom() && use.bottomUsed(i) {
				info.Bottom = j.NextVertices(rings)
			}
			if x < m.cols-1 && y < m.rows-1 && !f.IsCulled(x, y) {
				info.Tris = j.Reserve(len(Segments(c)) * m.Segments * 6)
			}
			m.infos[i] = info
		}
	}

	end := j.Counts()
	m.vEnd, m.iEnd = end.Vertices, end.Indices

	j.Log.Debug("side info generated",
		zap.Int("segments", m.Segments),
		zap.Int("vertices", m.vEnd-m.vStart),
		zap.Int("indices", m.iEnd-m.iStart))
}

func (m *SideMesher) hasOffsets() bool {
	if m.TopOffset != 0 || m.BottomOffset != 0 {
		return true
	}
	for _, p := range m.Profile {
		if p != 0 {
			return true
		}
	}
	return false
}

// UpdateInfo accumulates contour normals when any ring is offset.
func (m *SideMesher) UpdateInfo(j *Job) {
	if !m.hasOffsets() {
		return
	}
	m.normals = buildEdgeNormals(j.Field, j.Params.Exactness)
}

// ring returns the height and outward offset of ring r for an edge whose
// field height is h.
func (m *SideMesher) ring(r int, h float32) (float32, float32) {
	t := float32(r) / float32(m.Segments)
	top := m.Top
	if m.UseHeights {
		top += h * m.HeightScale
	}
	y := top + (m.Bottom-top)*t
	off := m.TopOffset + (m.BottomOffset-m.TopOffset)*t
	if m.Profile != nil {
		off += m.Profile[r]
	}
	return y, off
}

// ringPositions writes the ring column of one crossing vertex into out.
func (m *SideMesher) ringPositions(j *Job, x, y int, kind edgeKind, out []math.Vec3) {
	p, t := edgeCrossing(j.Field, x, y, kind, j.Params.Exactness)
	p = p.Scale(j.Params.CellSize)
	n := m.normals.at(y*m.cols+x, kind)

	var h float32
	if m.UseHeights {
		h = edgeHeight(j.Field, x, y, kind, t)
	}
	for r := range out {
		ry, off := m.ring(r, h)
		out[r] = p.Add(n.Scale(off)).XZ(ry)
	}
}

// CalculateVertices places every ring vertex.
func (m *SideMesher) CalculateVertices(j *Job) {
	verts := j.Buffers().Vertices
	rings := m.rings()
	j.ForRows(m.rows, func(y int) {
		for x := range m.cols {
			info := &m.infos[y*m.cols+x]
			if info.Left >= 0 {
				m.ringPositions(j, x, y, edgeLeft, verts[info.Left:int(info.Left)+rings])
			}
			if info.Bottom >= 0 {
				m.ringPositions(j, x, y, edgeBottom, verts[info.Bottom:int(info.Bottom)+rings])
			}
		}
	})
}

// CanGenerateUVs reports true.
func (m *SideMesher) CanGenerateUVs() bool { return true }

// CalculateUVs maps wall vertices with u = x + z and v = y, both scaled.
// u is not arc length, so texture scale stretches on diagonal walls.
func (m *SideMesher) CalculateUVs(j *Job) {
	uvs := j.Buffers().UVs
	rings := m.rings()
	j.ForRows(m.rows, func(y int) {
		column := make([]math.Vec3, rings)
		for x := range m.cols {
			info := &m.infos[y*m.cols+x]
			if info.Left >= 0 {
				m.ringPositions(j, x, y, edgeLeft, column)
				m.writeUVs(uvs[info.Left:int(info.Left)+rings], column)
			}
			if info.Bottom >= 0 {
				m.ringPositions(j, x, y, edgeBottom, column)
				m.writeUVs(uvs[info.Bottom:int(info.Bottom)+rings], column)
			}
		}
	})
}

func (m *SideMesher) writeUVs(out []math.Vec2, column []math.Vec3) {
	for r, p := range column {
		out[r] = math.Vec2{X: (p.X + p.Z) * m.UVScale, Y: p.Y * m.UVScale}
	}
}

// resolveEdge maps an edge slot of the cell at sample i to its ring column.
func (m *SideMesher) resolveEdge(i int, s Slot) int32 {
	switch s {
	case SlotLeft:
		return m.infos[i].Left
	case SlotBottom:
		return m.infos[i].Bottom
	case SlotRightLeft:
		return m.infos[i+1].Left
	case SlotTopBottom:
		return m.infos[i+m.cols].Bottom
	}
	return -1
}

// CalculateIndices writes one quad strip per contour segment.
func (m *SideMesher) CalculateIndices(j *Job) {
	tris := j.Buffers().Triangles
	j.ForRows(m.rows-1, func(y int) {
		for x := 0; x < m.cols-1; x++ {
			i := y*m.cols + x
			info := &m.infos[i]
			if info.Tris.Length == 0 {
				continue
			}
			out := tris[info.Tris.Start:info.Tris.End()]
			k := 0
			for _, seg := range Segments(info.Config) {
				a := uint32(m.resolveEdge(i, seg.From))
				b := uint32(m.resolveEdge(i, seg.To))
				for r := range uint32(m.Segments) {
					at, ab := a+r, a+r+1
					bt, bb := b+r, b+r+1
					if m.Winding == WindingReversed {
						out[k+0], out[k+1], out[k+2] = at, bt, bb
						out[k+3], out[k+4], out[k+5] = at, bb, ab
					} else {
						out[k+0], out[k+1], out[k+2] = at, bb, bt
						out[k+3], out[k+4], out[k+5] = at, ab, bb
					}
					k += 6
				}
			}
		}
	})
}

// CanGenerateNormals reports true.
func (m *SideMesher) CanGenerateNormals() bool { return true }

// CalculateNormals recomputes geometric normals over the wall triangles.
func (m *SideMesher) CalculateNormals(j *Job) {
	accumulateNormals(j, m.vStart, m.vEnd, m.iStart, m.iEnd, math.Up)
}
