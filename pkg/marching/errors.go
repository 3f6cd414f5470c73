package marching

import (
	"errors"

	"github.com/Faultbox/midgard-mesh/pkg/field"
)

// Configuration errors. They are returned before any generation work starts.
var (
	ErrGridTooSmall   = field.ErrGridTooSmall
	ErrFieldSize      = field.ErrFieldSize
	ErrNilMesher      = errors.New("mesher is nil")
	ErrCellSize       = errors.New("cell size must be positive")
	ErrExactness      = errors.New("edge exactness must be within [0, 1]")
	ErrSegmentCount   = errors.New("wall segment count out of range")
	ErrProfileSize    = errors.New("wall profile length must be segments+1")
	ErrMissingHeights = errors.New("height-driven mesher requires a height array")
	ErrUnsupported    = errors.New("mesher does not support requested output")
	ErrRegionOverlap  = errors.New("merge regions overlap")
	ErrRegionCoverage = errors.New("merge regions do not cover mergeable cells")
	ErrMeshTooLarge   = errors.New("mesh exceeds the 32-bit vertex or index range")
)
