package marching

import (
	"fmt"
	"sort"
	"strings"
)

// OptimizationMode selects how fully-inside cells are merged into rectangles.
type OptimizationMode int

// Optimization modes.
const (
	OptimizeNone            OptimizationMode = iota // one quad per cell
	OptimizeGreedyRect                              // row-major scan, grow right and up
	OptimizeNextLargestRect                         // deepest cells first, grow in all directions
)

// String returns the mode name used in configuration files.
func (m OptimizationMode) String() string {
	switch m {
	case OptimizeNone:
		return "none"
	case OptimizeGreedyRect:
		return "greedy"
	case OptimizeNextLargestRect:
		return "next-largest"
	default:
		return fmt.Sprintf("OptimizationMode(%d)", int(m))
	}
}

// ParseOptimizationMode parses a mode name.
func ParseOptimizationMode(s string) (OptimizationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return OptimizeNone, nil
	case "greedy", "greedy-rect":
		return OptimizeGreedyRect, nil
	case "next-largest", "next-largest-rect", "largest":
		return OptimizeNextLargestRect, nil
	}
	return OptimizeNone, fmt.Errorf("unknown optimization mode %q", s)
}

// Region is a rectangle of merged cells. Bounds are inclusive cell
// coordinates.
type Region struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Width returns the number of cell columns.
func (r Region) Width() int {
	return r.MaxX - r.MinX + 1
}

// Height returns the number of cell rows.
func (r Region) Height() int {
	return r.MaxY - r.MinY + 1
}

// Area returns the number of cells.
func (r Region) Area() int {
	return r.Width() * r.Height()
}

// Contains reports whether cell (x, y) lies inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// MergeGrid describes which cells may be merged. Cells are laid out
// row-major over Cols x Rows. Keys, when set, restrict merging to cells with
// equal keys (the surface height).
type MergeGrid struct {
	Cols      int
	Rows      int
	Mergeable []bool
	Keys      []float32
}

func (g *MergeGrid) sameKey(i, j int) bool {
	return g.Keys == nil || g.Keys[i] == g.Keys[j]
}

// rectSelector carries the checked state while regions are grown.
type rectSelector struct {
	g       *MergeGrid
	checked []bool
}

func newRectSelector(g *MergeGrid) *rectSelector {
	return &rectSelector{g: g, checked: make([]bool, len(g.Mergeable))}
}

// free reports whether cell (x, y) can join a region seeded at seed.
func (s *rectSelector) free(x, y, seed int) bool {
	i := y*s.g.Cols + x
	return s.g.Mergeable[i] && !s.checked[i] && s.g.sameKey(i, seed)
}

func (s *rectSelector) columnFree(x, minY, maxY, seed int) bool {
	if x < 0 || x >= s.g.Cols {
		return false
	}
	for y := minY; y <= maxY; y++ {
		if !s.free(x, y, seed) {
			return false
		}
	}
	return true
}

func (s *rectSelector) rowFree(y, minX, maxX, seed int) bool {
	if y < 0 || y >= s.g.Rows {
		return false
	}
	for x := minX; x <= maxX; x++ {
		if !s.free(x, y, seed) {
			return false
		}
	}
	return true
}

func (s *rectSelector) mark(r Region) {
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			s.checked[y*s.g.Cols+x] = true
		}
	}
}

// GreedyRects scans cells in row-major order. Each unchecked mergeable cell
// seeds a rectangle that alternately grows one column right and one row up
// until neither direction fits.
func GreedyRects(g *MergeGrid) []Region {
	s := newRectSelector(g)
	var regions []Region

	for y := range g.Rows {
		for x := range g.Cols {
			seed := y*g.Cols + x
			if !g.Mergeable[seed] || s.checked[seed] {
				continue
			}

			r := Region{MinX: x, MinY: y, MaxX: x, MaxY: y}
			for {
				grew := false
				if s.columnFree(r.MaxX+1, r.MinY, r.MaxY, seed) {
					r.MaxX++
					grew = true
				}
				if s.rowFree(r.MaxY+1, r.MinX, r.MaxX, seed) {
					r.MaxY++
					grew = true
				}
				if !grew {
					break
				}
			}

			s.mark(r)
			regions = append(regions, r)
		}
	}
	return regions
}

// CellDistances returns, for every mergeable cell, its graph distance to the
// nearest non-mergeable cell or grid border. Cells touching either start at
// 1; the rest are found by breadth-first propagation. Non-mergeable cells
// are 0.
func CellDistances(g *MergeGrid) []int {
	dist := make([]int, len(g.Mergeable))
	queue := make([]int, 0, len(g.Mergeable))

	blocked := func(x, y, from int) bool {
		if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
			return true
		}
		i := y*g.Cols + x
		return !g.Mergeable[i] || !g.sameKey(i, from)
	}

	for y := range g.Rows {
		for x := range g.Cols {
			i := y*g.Cols + x
			if !g.Mergeable[i] {
				continue
			}
			if blocked(x-1, y, i) || blocked(x+1, y, i) || blocked(x, y-1, i) || blocked(x, y+1, i) {
				dist[i] = 1
				queue = append(queue, i)
			}
		}
	}

	offsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for head := 0; head < len(queue); head++ {
		i := queue[head]
		x, y := i%g.Cols, i/g.Cols
		for _, o := range offsets {
			nx, ny := x+o[0], y+o[1]
			if blocked(nx, ny, i) {
				continue
			}
			ni := ny*g.Cols + nx
			if dist[ni] != 0 {
				continue
			}
			dist[ni] = dist[i] + 1
			queue = append(queue, ni)
		}
	}
	return dist
}

// NextLargestRects seeds rectangles at the cells deepest inside mergeable
// areas first. Each seed grows one step left, right, down and up per round
// until no side can extend. Ties are broken by row-major order.
func NextLargestRects(g *MergeGrid) []Region {
	dist := CellDistances(g)

	order := make([]int, 0, len(dist))
	for i, m := range g.Mergeable {
		if m {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		da, db := dist[order[a]], dist[order[b]]
		if da != db {
			return da > db
		}
		return order[a] < order[b]
	})

	s := newRectSelector(g)
	var regions []Region
	for _, seed := range order {
		if s.checked[seed] {
			continue
		}
		x, y := seed%g.Cols, seed/g.Cols
		r := Region{MinX: x, MinY: y, MaxX: x, MaxY: y}
		for {
			grew := false
			if s.columnFree(r.MinX-1, r.MinY, r.MaxY, seed) {
				r.MinX--
				grew = true
			}
			if s.columnFree(r.MaxX+1, r.MinY, r.MaxY, seed) {
				r.MaxX++
				grew = true
			}
			if s.rowFree(r.MinY-1, r.MinX, r.MaxX, seed) {
				r.MinY--
				grew = true
			}
			if s.rowFree(r.MaxY+1, r.MinX, r.MaxX, seed) {
				r.MaxY++
				grew = true
			}
			if !grew {
				break
			}
		}

		s.mark(r)
		regions = append(regions, r)
	}
	return regions
}

// SelectRegions runs the strategy for mode. Unknown modes use GreedyRects;
// the second result reports whether that fallback happened.
func SelectRegions(mode OptimizationMode, g *MergeGrid) ([]Region, bool) {
	switch mode {
	case OptimizeNone:
		return nil, false
	case OptimizeGreedyRect:
		return GreedyRects(g), false
	case OptimizeNextLargestRect:
		return NextLargestRects(g), false
	default:
		return GreedyRects(g), true
	}
}

// VerifyCoverage checks that regions are disjoint, contain only mergeable
// cells of one key each and together cover every mergeable cell.
func VerifyCoverage(g *MergeGrid, regions []Region) error {
	owner := make([]int, len(g.Mergeable))
	for i := range owner {
		owner[i] = -1
	}

	for ri, r := range regions {
		if r.MinX < 0 || r.MinY < 0 || r.MaxX >= g.Cols || r.MaxY >= g.Rows || r.MinX > r.MaxX || r.MinY > r.MaxY {
			return fmt.Errorf("%w: region %d %+v out of bounds", ErrRegionCoverage, ri, r)
		}
		seed := r.MinY*g.Cols + r.MinX
		for y := r.MinY; y <= r.MaxY; y++ {
			for x := r.MinX; x <= r.MaxX; x++ {
				i := y*g.Cols + x
				if !g.Mergeable[i] {
					return fmt.Errorf("%w: region %d includes unmergeable cell (%d,%d)", ErrRegionCoverage, ri, x, y)
				}
				if !g.sameKey(i, seed) {
					return fmt.Errorf("%w: region %d mixes keys at (%d,%d)", ErrRegionCoverage, ri, x, y)
				}
				if owner[i] >= 0 {
					return fmt.Errorf("%w: cell (%d,%d) in regions %d and %d", ErrRegionOverlap, x, y, owner[i], ri)
				}
				owner[i] = ri
			}
		}
	}

	for i, m := range g.Mergeable {
		if m && owner[i] < 0 {
			return fmt.Errorf("%w: cell (%d,%d) not covered", ErrRegionCoverage, i%g.Cols, i/g.Cols)
		}
	}
	return nil
}
