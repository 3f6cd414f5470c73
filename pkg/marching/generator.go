package marching

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mesh/internal/parallel"
	"github.com/Faultbox/midgard-mesh/pkg/field"
)

// Generator schedules mesh generation over a fixed worker pool.
// A Generator may run several generations at once as long as each uses its
// own mesher.
type Generator struct {
	pool *parallel.WorkerPool
	log  *zap.Logger
}

// Option configures a Generator.
type Option func(*genOptions)

type genOptions struct {
	workers int
	log     *zap.Logger
}

// WithWorkers sets the worker count. 0 uses GOMAXPROCS, 1 runs every stage
// on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *genOptions) { o.workers = n }
}

// WithLogger sets the logger for phase diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *genOptions) { o.log = l }
}

// NewGenerator starts a generator. Call Close to stop its workers.
func NewGenerator(opts ...Option) *Generator {
	o := genOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}

	g := &Generator{log: o.log}
	if o.workers != 1 {
		g.pool = parallel.NewWorkerPool(o.workers)
	}
	return g
}

// Close stops the worker pool.
func (g *Generator) Close() {
	g.pool.Close()
}

// Workers returns the number of workers.
func (g *Generator) Workers() int {
	return g.pool.Workers()
}

func validateParams(p Params) error {
	if !(p.CellSize > 0) {
		return fmt.Errorf("%w: got %v", ErrCellSize, p.CellSize)
	}
	if !(p.Exactness >= 0 && p.Exactness <= 1) {
		return fmt.Errorf("%w: got %v", ErrExactness, p.Exactness)
	}
	return nil
}

// Generate builds the mesh of f with mesher m.
//
// Setup errors are returned before any work. Phase 1 claims slots
// sequentially and fails only when the totals overflow the int32 slot range.
// After that the run always completes: the buffers are sized once,
// vertices, UVs and indices are filled concurrently, and normals follow
// once the indices are done.
func (g *Generator) Generate(f *field.Field, m CellMesher, p Params) (*Mesh, error) {
	if m == nil {
		return nil, ErrNilMesher
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := validateParams(p); err != nil {
		return nil, err
	}
	if err := m.Validate(f); err != nil {
		return nil, err
	}
	if p.UVs && !CanGenerateUVs(m) {
		return nil, fmt.Errorf("%w: uvs", ErrUnsupported)
	}
	if p.Normals && !CanGenerateNormals(m) {
		return nil, fmt.Errorf("%w: normals", ErrUnsupported)
	}

	began := time.Now()
	j := newJob(f, p, g.pool, g.log)

	m.GenerateInfo(j)
	if err := j.checkCounts(); err != nil {
		return nil, err
	}
	if u, ok := m.(InfoUpdater); ok {
		u.UpdateInfo(j)
	}
	j.allocate(p.UVs, p.Normals)

	counts := j.Counts()
	g.log.Debug("phase 1 complete",
		zap.Int("cols", f.Cols),
		zap.Int("rows", f.Rows),
		zap.Int("vertices", counts.Vertices),
		zap.Int("indices", counts.Indices))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.CalculateVertices(j)
	}()
	go func() {
		defer wg.Done()
		m.CalculateIndices(j)
	}()
	if p.UVs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.(UVMesher).CalculateUVs(j)
		}()
	}
	wg.Wait()

	if p.Normals {
		m.(NormalMesher).CalculateNormals(j)
	}

	buf := j.Buffers()
	mesh := &Mesh{
		Vertices:  buf.Vertices,
		Triangles: buf.Triangles,
		UVs:       buf.UVs,
		Normals:   buf.Normals,
	}

	g.log.Debug("mesh generated",
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Duration("took", time.Since(began)))
	return mesh, nil
}

// Generate builds a mesh on a temporary single-worker generator.
func Generate(f *field.Field, m CellMesher, p Params) (*Mesh, error) {
	g := NewGenerator(WithWorkers(1))
	defer g.Close()
	return g.Generate(f, m, p)
}
