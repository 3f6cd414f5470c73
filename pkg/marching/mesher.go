package marching

import "github.com/Faultbox/midgard-mesh/pkg/field"

// CellMesher is one part of the mesh: a top, side or bottom generator, or a
// composition of them.
//
// Validate runs before anything else and rejects unusable settings.
// GenerateInfo is Phase 1: it runs on a single goroutine and claims vertex
// and index slots from the job. CalculateVertices and CalculateIndices are
// Phase 2 and may run concurrently with each other; they write only the
// slots claimed in GenerateInfo.
//
// A mesher keeps per-generation state between the phases and must not be
// used by two generations at once.
type CellMesher interface {
	Validate(f *field.Field) error
	GenerateInfo(j *Job)
	CalculateVertices(j *Job)
	CalculateIndices(j *Job)
}

// UVMesher is implemented by meshers that can fill texture coordinates.
// CalculateUVs may run concurrently with CalculateVertices.
type UVMesher interface {
	CanGenerateUVs() bool
	CalculateUVs(j *Job)
}

// NormalMesher is implemented by meshers that can fill vertex normals.
// CalculateNormals runs after vertices and indices are complete.
type NormalMesher interface {
	CanGenerateNormals() bool
	CalculateNormals(j *Job)
}

// InfoUpdater is implemented by meshers that need a second sequential pass
// over their Phase 1 records before vertices are placed.
type InfoUpdater interface {
	UpdateInfo(j *Job)
}

// CanGenerateUVs reports whether m exposes the UV capability.
func CanGenerateUVs(m CellMesher) bool {
	u, ok := m.(UVMesher)
	return ok && u.CanGenerateUVs()
}

// CanGenerateNormals reports whether m exposes the normal capability.
func CanGenerateNormals(m CellMesher) bool {
	n, ok := m.(NormalMesher)
	return ok && n.CanGenerateNormals()
}

// NullMesher contributes nothing. It stands in for an omitted part.
type NullMesher struct{}

var (
	_ CellMesher   = NullMesher{}
	_ UVMesher     = NullMesher{}
	_ NormalMesher = NullMesher{}
)

func (NullMesher) Validate(*field.Field) error { return nil }
func (NullMesher) GenerateInfo(*Job)            {}
func (NullMesher) CalculateVertices(*Job)       {}
func (NullMesher) CalculateIndices(*Job)        {}
func (NullMesher) CanGenerateUVs() bool         { return true }
func (NullMesher) CalculateUVs(*Job)            {}
func (NullMesher) CanGenerateNormals() bool     { return true }
func (NullMesher) CalculateNormals(*Job)        {}

// FullCellMesher composes a top, a side and a bottom part into one mesher.
// Calls are forwarded to the parts in that order, so their vertices and
// triangles occupy consecutive ranges of the shared buffers. Nil parts
// behave like NullMesher.
type FullCellMesher struct {
	Top    CellMesher
	Side   CellMesher
	Bottom CellMesher
}

var (
	_ CellMesher   = (*FullCellMesher)(nil)
	_ UVMesher     = (*FullCellMesher)(nil)
	_ NormalMesher = (*FullCellMesher)(nil)
	_ InfoUpdater  = (*FullCellMesher)(nil)
)

// NewFullCellMesher composes the given parts.
func NewFullCellMesher(top, side, bottom CellMesher) *FullCellMesher {
	return &FullCellMesher{Top: top, Side: side, Bottom: bottom}
}

func (m *FullCellMesher) parts() [3]CellMesher {
	p := [3]CellMesher{m.Top, m.Side, m.Bottom}
	for i := range p {
		if p[i] == nil {
			p[i] = NullMesher{}
		}
	}
	return p
}

// Validate returns the first part error.
func (m *FullCellMesher) Validate(f *field.Field) error {
	for _, p := range m.parts() {
		if err := p.Validate(f); err != nil {
			return err
		}
	}
	return nil
}

// GenerateInfo runs Phase 1 of every part, threading the shared counters.
func (m *FullCellMesher) GenerateInfo(j *Job) {
	for _, p := range m.parts() {
		p.GenerateInfo(j)
	}
}

// UpdateInfo forwards to the parts that need the extra pass.
func (m *FullCellMesher) UpdateInfo(j *Job) {
	for _, p := range m.parts() {
		if u, ok := p.(InfoUpdater); ok {
			u.UpdateInfo(j)
		}
	}
}

// CalculateVertices fills the vertices of every part.
func (m *FullCellMesher) CalculateVertices(j *Job) {
	for _, p := range m.parts() {
		p.CalculateVertices(j)
	}
}

// CalculateIndices fills the triangles of every part.
func (m *FullCellMesher) CalculateIndices(j *Job) {
	for _, p := range m.parts() {
		p.CalculateIndices(j)
	}
}

// CanGenerateUVs is true only when every part can generate UVs.
func (m *FullCellMesher) CanGenerateUVs() bool {
	for _, p := range m.parts() {
		if !CanGenerateUVs(p) {
			return false
		}
	}
	return true
}

// CalculateUVs fills the UVs of every part.
func (m *FullCellMesher) CalculateUVs(j *Job) {
	for _, p := range m.parts() {
		if u, ok := p.(UVMesher); ok {
			u.CalculateUVs(j)
		}
	}
}

// CanGenerateNormals is true only when every part can generate normals.
func (m *FullCellMesher) CanGenerateNormals() bool {
	for _, p := range m.parts() {
		if !CanGenerateNormals(p) {
			return false
		}
	}
	return true
}

// CalculateNormals fills the normals of every part.
func (m *FullCellMesher) CalculateNormals(j *Job) {
	for _, p := range m.parts() {
		if n, ok := p.(NormalMesher); ok {
			n.CalculateNormals(j)
		}
	}
}
