package marching

import "github.com/chewxy/math32"

// Config is the 4-bit inside/outside pattern of a cell's corners.
type Config uint8

// Corner bits. A bit is set when the corner's distance is >= 0.
const (
	BottomLeft Config = 1 << iota
	BottomRight
	TopRight
	TopLeft
)

// Empty and Full are the two configurations without a contour.
const (
	Empty Config = 0
	Full  Config = BottomLeft | BottomRight | TopRight | TopLeft
)

// ConfigCount is the number of distinct configurations.
const ConfigCount = 16

// Classify maps the four corner distances of a cell to its configuration.
func Classify(corner, right, topRight, top float32) Config {
	var c Config
	if corner >= 0 {
		c |= BottomLeft
	}
	if right >= 0 {
		c |= BottomRight
	}
	if topRight >= 0 {
		c |= TopRight
	}
	if top >= 0 {
		c |= TopLeft
	}
	return c
}

// Has reports whether every corner in mask is inside.
func (c Config) Has(mask Config) bool {
	return c&mask == mask
}

// IsDiagonal reports whether exactly two opposite corners are inside.
func (c Config) IsDiagonal() bool {
	return c == BottomLeft|TopRight || c == BottomRight|TopLeft
}

// InsideCount returns the number of inside corners.
func (c Config) InsideCount() int {
	n := 0
	for m := BottomLeft; m <= TopLeft; m <<= 1 {
		if c&m != 0 {
			n++
		}
	}
	return n
}

// HasContour reports whether the zero crossing passes through the cell.
func (c Config) HasContour() bool {
	return c != Empty && c != Full
}

// EmitsCorner reports whether the cell's own corner vertex exists.
func (c Config) EmitsCorner() bool {
	return c&BottomLeft != 0
}

// EmitsLeft reports whether the left edge carries a crossing vertex.
func (c Config) EmitsLeft() bool {
	return (c&BottomLeft != 0) != (c&TopLeft != 0)
}

// EmitsBottom reports whether the bottom edge carries a crossing vertex.
func (c Config) EmitsBottom() bool {
	return (c&BottomLeft != 0) != (c&BottomRight != 0)
}

// Fraction returns where the zero crossing lies on an edge from a to b, as a
// fraction of the edge length measured from a.
//
// exactness blends the exact crossing with the edge midpoint: 1 places the
// vertex on the crossing, 0 always at 0.5. Two zero distances yield 0.5.
func Fraction(a, b, exactness float32) float32 {
	a = math32.Abs(a)
	b = math32.Abs(b)
	sum := a + b
	if sum == 0 {
		return 0.5
	}
	t := a / sum
	if exactness >= 1 {
		return t
	}
	if exactness <= 0 {
		return 0.5
	}
	return 0.5 + (t-0.5)*exactness
}
