package marching

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mesh/internal/parallel"
	"github.com/Faultbox/midgard-mesh/pkg/field"
	"github.com/Faultbox/midgard-mesh/pkg/math"
)

// Params holds the settings shared by every part of a mesher.
type Params struct {
	CellSize  float32 // world size of one cell
	Exactness float32 // 1 = exact zero crossing, 0 = edge midpoint
	UVs       bool    // generate texture coordinates
	Normals   bool    // generate vertex normals
}

// DefaultParams returns unit cells with exact crossings, UVs and normals.
func DefaultParams() Params {
	return Params{
		CellSize:  1,
		Exactness: 1,
		UVs:       true,
		Normals:   true,
	}
}

// IndexSpan is a range of the triangle index buffer.
type IndexSpan struct {
	Start  int32
	Length int32
}

// End returns the index one past the span.
func (s IndexSpan) End() int32 {
	return s.Start + s.Length
}

// maxSlots bounds vertex and index totals so every slot fits an int32.
const maxSlots = 1<<31 - 1

// Counter holds the running vertex and index totals of Phase 1.
type Counter struct {
	Vertices int
	Indices  int
}

// Buffers are the output arrays of one generation, sized exactly once from
// the Phase 1 totals.
type Buffers struct {
	Vertices  []math.Vec3
	Triangles []uint32
	UVs       []math.Vec2
	Normals   []math.Vec3
}

// Job carries one generation through both phases. Phase 1 code hands out
// slots through NextVertex and Reserve; Phase 2 code writes into Buffers.
type Job struct {
	Field  *field.Field
	Params Params
	Log    *zap.Logger

	pool    *parallel.WorkerPool
	counter Counter
	buf     Buffers
}

func newJob(f *field.Field, p Params, pool *parallel.WorkerPool, log *zap.Logger) *Job {
	if log == nil {
		log = zap.NewNop()
	}
	return &Job{Field: f, Params: p, Log: log, pool: pool}
}

// NextVertex claims the next vertex slot.
func (j *Job) NextVertex() int32 {
	v := j.counter.Vertices
	j.counter.Vertices++
	return int32(v)
}

// NextVertices claims n consecutive vertex slots and returns the first.
func (j *Job) NextVertices(n int) int32 {
	v := j.counter.Vertices
	j.counter.Vertices += n
	return int32(v)
}

// Reserve claims n consecutive triangle index slots.
func (j *Job) Reserve(n int) IndexSpan {
	s := IndexSpan{Start: int32(j.counter.Indices), Length: int32(n)}
	j.counter.Indices += n
	return s
}

// Counts returns the totals handed out so far.
func (j *Job) Counts() Counter {
	return j.counter
}

// Buffers returns the output arrays. They are nil until Phase 1 finishes.
func (j *Job) Buffers() *Buffers {
	return &j.buf
}

// checkCounts rejects totals whose slots would overflow int32.
func (j *Job) checkCounts() error {
	if j.counter.Vertices > maxSlots || j.counter.Indices > maxSlots {
		return fmt.Errorf("%w: %d vertices, %d indices",
			ErrMeshTooLarge, j.counter.Vertices, j.counter.Indices)
	}
	return nil
}

// allocate sizes the output buffers from the Phase 1 totals.
func (j *Job) allocate(uvs, normals bool) {
	j.buf.Vertices = make([]math.Vec3, j.counter.Vertices)
	j.buf.Triangles = make([]uint32, j.counter.Indices)
	if uvs {
		j.buf.UVs = make([]math.Vec2, j.counter.Vertices)
	}
	if normals {
		j.buf.Normals = make([]math.Vec3, j.counter.Vertices)
	}
}

// ForRows runs fn for every y in [0, rows) on the worker pool.
func (j *Job) ForRows(rows int, fn func(y int)) {
	j.pool.For(rows, 0, func(start, end int) {
		for y := start; y < end; y++ {
			fn(y)
		}
	})
}

// For runs fn over [0, n) split into parallel chunks.
func (j *Job) For(n int, fn func(start, end int)) {
	j.pool.For(n, 0, fn)
}
