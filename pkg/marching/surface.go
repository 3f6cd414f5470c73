package marching

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mesh/pkg/field"
	"github.com/Faultbox/midgard-mesh/pkg/math"
)

// UVMode selects how a mesher maps positions to texture coordinates.
type UVMode uint8

// UV modes.
const (
	UVGrid  UVMode = iota // 0..1 across the whole grid
	UVWorld               // world X/Z times UVScale
)

// String returns the mode name used in configuration files.
func (m UVMode) String() string {
	if m == UVWorld {
		return "world"
	}
	return "grid"
}

// ParseUVMode parses a UV mode name.
func ParseUVMode(s string) (UVMode, error) {
	switch s {
	case "", "grid":
		return UVGrid, nil
	case "world":
		return UVWorld, nil
	}
	return UVGrid, fmt.Errorf("unknown uv mode %q", s)
}

// CellInfo is the Phase 1 record of one sample. Vertex fields hold absolute
// indices into the vertex buffer, or -1 when the vertex is not emitted.
type CellInfo struct {
	Config Config
	Corner int32
	Left   int32
	Bottom int32
	Tris   IndexSpan
	Region int32 // merge region this cell anchors, or -1
}

func newCellInfo(c Config) CellInfo {
	return CellInfo{Config: c, Corner: -1, Left: -1, Bottom: -1, Region: -1}
}

// SurfaceMesher generates a horizontal cap over the inside of the contour.
// It serves as the top of a mesh, or with reversed winding as the bottom.
type SurfaceMesher struct {
	Height       float32          // Y offset of the surface
	Winding      Winding          // WindingReversed for downward-facing surfaces
	UseHeights   bool             // add per-sample field heights to Y
	HeightScale  float32          // multiplier for field heights
	EdgeOffset   float32          // push crossing vertices outward (negative insets)
	UV           UVMode           // UV mapping
	UVScale      float32          // UV multiplier
	Optimization OptimizationMode // rectangle merging of full cells

	cols, rows int
	infos      []CellInfo
	regions    []Region
	normals    *edgeNormals
	vStart     int
	vEnd       int
	iStart     int
	iEnd       int
}

var (
	_ CellMesher   = (*SurfaceMesher)(nil)
	_ UVMesher     = (*SurfaceMesher)(nil)
	_ NormalMesher = (*SurfaceMesher)(nil)
	_ InfoUpdater  = (*SurfaceMesher)(nil)
)

// NewTopMesher returns an upward-facing surface at the given height.
func NewTopMesher(height float32) *SurfaceMesher {
	return &SurfaceMesher{Height: height, HeightScale: 1, UVScale: 1}
}

// NewBottomMesher returns a downward-facing surface at the given height.
func NewBottomMesher(height float32) *SurfaceMesher {
	m := NewTopMesher(height)
	m.Winding = WindingReversed
	return m
}

// NewHeightTopMesher returns a top surface following the field heights.
func NewHeightTopMesher(offset, scale float32) *SurfaceMesher {
	m := NewTopMesher(offset)
	m.UseHeights = true
	m.HeightScale = scale
	return m
}

// NewScaledTopMesher returns a top surface whose contour is pushed outward
// by offset world units (inward when negative).
func NewScaledTopMesher(height, offset float32) *SurfaceMesher {
	m := NewTopMesher(height)
	m.EdgeOffset = offset
	return m
}

// Infos returns the Phase 1 records of the last generation.
func (m *SurfaceMesher) Infos() []CellInfo {
	return m.infos
}

// Regions returns the merge regions of the last generation.
func (m *SurfaceMesher) Regions() []Region {
	return m.regions
}

// Validate rejects height-driven surfaces over fields without heights.
func (m *SurfaceMesher) Validate(f *field.Field) error {
	if m.UseHeights && !f.HasHeights() {
		return fmt.Errorf("surface mesher: %w", ErrMissingHeights)
	}
	return nil
}

// vertexPlan is the outcome of the pre-pass run for merging or culling.
type vertexPlan struct {
	regionOf []int32 // per sample, region covering its cell or -1
	use      *vertexUse
}

// GenerateInfo is Phase 1: it classifies every sample and claims its
// vertex and triangle slots in row-major order.
//
// Interior cells see all four corners and reserve their triangles. The right
// column and top row only emit vertices: their out-of-range corners count as
// outside, edges leaving the grid get no crossing, and their triangles
// belong to the cell to the bottom-left. The top-right sample is handled on
// its own.
func (m *SurfaceMesher) GenerateInfo(j *Job) {
	f := j.Field
	m.cols, m.rows = f.Cols, f.Rows
	m.infos = make([]CellInfo, f.Len())
	m.regions = nil
	m.normals = nil

	start := j.Counts()
	m.vStart, m.iStart = start.Vertices, start.Indices

	var plan *vertexPlan
	if m.Optimization != OptimizeNone || f.HasCulling() {
		plan = m.planVertices(j)
	}

	for y := 0; y < m.rows-1; y++ {
		for x := 0; x < m.cols-1; x++ {
			m.allocInner(j, plan, x, y)
		}
		m.allocBorder(j, plan, m.cols-1, y, true, false)
	}
	for x := 0; x < m.cols-1; x++ {
		m.allocBorder(j, plan, x, m.rows-1, false, true)
	}
	m.allocBorder(j, plan, m.cols-1, m.rows-1, false, false)

	end := j.Counts()
	m.vEnd, m.iEnd = end.Vertices, end.Indices

	j.Log.Debug("surface info generated",
		zap.Stringer("winding", m.Winding),
		zap.Int("vertices", m.vEnd-m.vStart),
		zap.Int("indices", m.iEnd-m.iStart),
		zap.Int("regions", len(m.regions)))
}

func (m *SurfaceMesher) classify(f *field.Field, x, y int) Config {
	return Classify(f.Distance(x, y), f.Distance(x+1, y), f.Distance(x+1, y+1), f.Distance(x, y+1))
}

// emit claims the vertices of sample i in corner, left, bottom order.
func (m *SurfaceMesher) emit(j *Job, plan *vertexPlan, info *CellInfo, i int, hasLeft, hasBottom bool) {
	var use *vertexUse
	if plan != nil {
		use = plan.use
	}
	c := info.Config
	if c.EmitsCorner() && use.cornerUsed(i) {
		info.Corner = j.NextVertex()
	}
	if hasLeft && c.EmitsLeft() && use.leftUsed(i) {
		info.Left = j.NextVertex()
	}
	if hasBottom && c.EmitsBottom() && use.bottomUsed(i) {
		info.Bottom = j.NextVertex()
	}
}

func (m *SurfaceMesher) allocInner(j *Job, plan *vertexPlan, x, y int) {
	f := j.Field
	i := y*m.cols + x
	info := newCellInfo(m.classify(f, x, y))
	m.emit(j, plan, &info, i, true, true)

	switch {
	case f.IsCulled(x, y):
	case plan != nil && plan.regionOf[i] >= 0:
		ri := plan.regionOf[i]
		r := m.regions[ri]
		if r.MinX == x && r.MinY == y {
			info.Tris = j.Reserve(6)
			info.Region = ri
		}
	default:
		info.Tris = j.Reserve(TriIndexCount(info.Config))
	}
	m.infos[i] = info
}

func (m *SurfaceMesher) allocBorder(j *Job, plan *vertexPlan, x, y int, hasLeft, hasBottom bool) {
	i := y*m.cols + x
	info := newCellInfo(m.classify(j.Field, x, y))
	m.emit(j, plan, &info, i, hasLeft, hasBottom)
	m.infos[i] = info
}

// selectRegions runs the rectangle-merge pre-pass over the interior cells.
func (m *SurfaceMesher) selectRegions(j *Job) []Region {
	f := j.Field
	cellCols, cellRows := f.CellCols(), f.CellRows()
	g := &MergeGrid{
		Cols:      cellCols,
		Rows:      cellRows,
		Mergeable: make([]bool, cellCols*cellRows),
	}
	if m.UseHeights {
		g.Keys = make([]float32, cellCols*cellRows)
	}

	for y := range cellRows {
		for x := range cellCols {
			ci := y*cellCols + x
			ok := m.classify(f, x, y) == Full && !f.IsCulled(x, y)
			if ok && m.UseHeights {
				h := f.Height(x, y)
				ok = h == f.Height(x+1, y) && h == f.Height(x+1, y+1) && h == f.Height(x, y+1)
				g.Keys[ci] = h
			}
			g.Mergeable[ci] = ok
		}
	}

	regions, fellBack := SelectRegions(m.Optimization, g)
	if fellBack {
		j.Log.Warn("unknown optimization mode, using greedy rectangles",
			zap.Stringer("mode", m.Optimization))
	}
	j.Log.Debug("merge regions selected",
		zap.Stringer("mode", m.Optimization),
		zap.Int("regions", len(regions)))
	return regions
}

// planVertices picks merge regions and marks the vertices some emitted
// triangle will reference. Corners inside a region are dropped, as are
// vertices whose every neighbouring cell is culled.
func (m *SurfaceMesher) planVertices(j *Job) *vertexPlan {
	f := j.Field
	plan := &vertexPlan{
		regionOf: make([]int32, f.Len()),
		use:      newVertexUse(f.Len()),
	}
	for i := range plan.regionOf {
		plan.regionOf[i] = -1
	}

	if m.Optimization != OptimizeNone {
		m.regions = m.selectRegions(j)
	}
	for ri, r := range m.regions {
		for y := r.MinY; y <= r.MaxY; y++ {
			for x := r.MinX; x <= r.MaxX; x++ {
				plan.regionOf[y*m.cols+x] = int32(ri)
			}
		}
		plan.use.corner[r.MinY*m.cols+r.MinX] = true
		plan.use.corner[r.MinY*m.cols+r.MaxX+1] = true
		plan.use.corner[(r.MaxY+1)*m.cols+r.MaxX+1] = true
		plan.use.corner[(r.MaxY+1)*m.cols+r.MinX] = true
	}

	// Unmerged cells stitch to whatever vertices they touch.
	for y := range f.CellRows() {
		for x := range f.CellCols() {
			i := y*m.cols + x
			if plan.regionOf[i] >= 0 || f.IsCulled(x, y) {
				continue
			}
			plan.use.markCorners(i, m.cols, m.classify(f, x, y))
			plan.use.markEdges(i, m.cols)
		}
	}
	return plan
}

// UpdateInfo accumulates contour normals when crossing vertices are offset.
func (m *SurfaceMesher) UpdateInfo(j *Job) {
	if m.EdgeOffset == 0 {
		return
	}
	m.normals = buildEdgeNormals(j.Field, j.Params.Exactness)
}

func (m *SurfaceMesher) height(f *field.Field, x, y int) float32 {
	if !m.UseHeights {
		return m.Height
	}
	return m.Height + f.Height(x, y)*m.HeightScale
}

func (m *SurfaceMesher) cornerXZ(j *Job, x, y int) math.Vec2 {
	cs := j.Params.CellSize
	return math.Vec2{X: float32(x) * cs, Y: float32(y) * cs}
}

func (m *SurfaceMesher) edgeXZ(j *Job, x, y int, kind edgeKind) (math.Vec2, float32) {
	p, t := edgeCrossing(j.Field, x, y, kind, j.Params.Exactness)
	p = p.Scale(j.Params.CellSize)
	if m.EdgeOffset != 0 {
		p = p.Add(m.normals.at(y*m.cols+x, kind).Scale(m.EdgeOffset))
	}
	return p, t
}

// CalculateVertices places every vertex claimed in Phase 1.
func (m *SurfaceMesher) CalculateVertices(j *Job) {
	f := j.Field
	verts := j.Buffers().Vertices
	j.ForRows(m.rows, func(y int) {
		for x := range m.cols {
			info := &m.infos[y*m.cols+x]
			if info.Corner >= 0 {
				verts[info.Corner] = m.cornerXZ(j, x, y).XZ(m.height(f, x, y))
			}
			if info.Left >= 0 {
				p, t := m.edgeXZ(j, x, y, edgeLeft)
				verts[info.Left] = p.XZ(m.edgeY(f, x, y, edgeLeft, t))
			}
			if info.Bottom >= 0 {
				p, t := m.edgeXZ(j, x, y, edgeBottom)
				verts[info.Bottom] = p.XZ(m.edgeY(f, x, y, edgeBottom, t))
			}
		}
	})
}

func (m *SurfaceMesher) edgeY(f *field.Field, x, y int, kind edgeKind, t float32) float32 {
	if !m.UseHeights {
		return m.Height
	}
	return m.Height + edgeHeight(f, x, y, kind, t)*m.HeightScale
}

// CanGenerateUVs reports true.
func (m *SurfaceMesher) CanGenerateUVs() bool { return true }

// CalculateUVs maps every vertex's X/Z position to a texture coordinate.
func (m *SurfaceMesher) CalculateUVs(j *Job) {
	uvs := j.Buffers().UVs
	j.ForRows(m.rows, func(y int) {
		for x := range m.cols {
			info := &m.infos[y*m.cols+x]
			if info.Corner >= 0 {
				uvs[info.Corner] = m.uv(j, m.cornerXZ(j, x, y))
			}
			if info.Left >= 0 {
				p, _ := m.edgeXZ(j, x, y, edgeLeft)
				uvs[info.Left] = m.uv(j, p)
			}
			if info.Bottom >= 0 {
				p, _ := m.edgeXZ(j, x, y, edgeBottom)
				uvs[info.Bottom] = m.uv(j, p)
			}
		}
	})
}

func (m *SurfaceMesher) uv(j *Job, p math.Vec2) math.Vec2 {
	if m.UV == UVWorld {
		return p.Scale(m.UVScale)
	}
	w := j.Params.CellSize * float32(m.cols-1)
	h := j.Params.CellSize * float32(m.rows-1)
	return math.Vec2{X: p.X / w, Y: p.Y / h}.Scale(m.UVScale)
}

// CalculateIndices writes the triangles of every interior cell into the
// span it reserved, either from the configuration table or, for a merge
// region's anchor cell, as two triangles over the region's corners.
func (m *SurfaceMesher) CalculateIndices(j *Job) {
	tris := j.Buffers().Triangles
	j.ForRows(m.rows-1, func(y int) {
		for x := 0; x < m.cols-1; x++ {
			i := y*m.cols + x
			info := &m.infos[i]
			if info.Tris.Length == 0 {
				continue
			}
			out := tris[info.Tris.Start:info.Tris.End()]
			if info.Region >= 0 {
				m.fillRegion(out, m.regions[info.Region])
				continue
			}
			for k, s := range Triangles(info.Config, m.Winding) {
				out[k] = uint32(m.resolve(i, s))
			}
		}
	})
}

// resolve maps a slot of the cell at sample i to its vertex index.
func (m *SurfaceMesher) resolve(i int, s Slot) int32 {
	switch s {
	case SlotCorner:
		return m.infos[i].Corner
	case SlotLeft:
		return m.infos[i].Left
	case SlotBottom:
		return m.infos[i].Bottom
	case SlotRightCorner:
		return m.infos[i+1].Corner
	case SlotRightLeft:
		return m.infos[i+1].Left
	case SlotTopCorner:
		return m.infos[i+m.cols].Corner
	case SlotTopBottom:
		return m.infos[i+m.cols].Bottom
	case SlotTopRightCorner:
		return m.infos[i+m.cols+1].Corner
	}
	return -1
}

func (m *SurfaceMesher) fillRegion(out []uint32, r Region) {
	var corners [SlotCount]int32
	corners[SlotCorner] = m.infos[r.MinY*m.cols+r.MinX].Corner
	corners[SlotRightCorner] = m.infos[r.MinY*m.cols+r.MaxX+1].Corner
	corners[SlotTopRightCorner] = m.infos[(r.MaxY+1)*m.cols+r.MaxX+1].Corner
	corners[SlotTopCorner] = m.infos[(r.MaxY+1)*m.cols+r.MinX].Corner
	for k, s := range Triangles(Full, m.Winding) {
		out[k] = uint32(corners[s])
	}
}

// CanGenerateNormals reports true.
func (m *SurfaceMesher) CanGenerateNormals() bool { return true }

// CalculateNormals broadcasts the plane normal for flat surfaces and
// recomputes geometric normals for height-driven ones.
func (m *SurfaceMesher) CalculateNormals(j *Job) {
	n := math.Up
	if m.Winding == WindingReversed {
		n = n.Neg()
	}
	if !m.UseHeights {
		broadcastNormal(j, m.vStart, m.vEnd, n)
		return
	}
	accumulateNormals(j, m.vStart, m.vEnd, m.iStart, m.iEnd, n)
}
