package marching

import "fmt"

// Slot names a vertex a cell's triangles may reference. The first three
// belong to the cell itself, the rest to its right, top and top-right
// neighbours.
type Slot uint8

// Vertex slots.
const (
	SlotCorner         Slot = iota // bottom-left corner
	SlotLeft                       // crossing on the left edge
	SlotBottom                     // crossing on the bottom edge
	SlotRightCorner                // bottom-right corner (right cell's corner)
	SlotRightLeft                  // crossing on the right edge (right cell's left)
	SlotTopCorner                  // top-left corner (top cell's corner)
	SlotTopBottom                  // crossing on the top edge (top cell's bottom)
	SlotTopRightCorner             // top-right corner
)

// SlotCount is the number of symbolic vertex slots.
const SlotCount = 8

var slotNames = [SlotCount]string{
	"corner", "left", "bottom", "right.corner", "right.left", "top.corner", "top.bottom", "topright.corner",
}

// String returns the slot name.
func (s Slot) String() string {
	if int(s) < len(slotNames) {
		return slotNames[s]
	}
	return fmt.Sprintf("Slot(%d)", s)
}

// IsEdge reports whether the slot is an edge crossing rather than a corner.
func (s Slot) IsEdge() bool {
	return s == SlotLeft || s == SlotBottom || s == SlotRightLeft || s == SlotTopBottom
}

// Emitted reports whether configuration c produces a vertex for slot s.
func (s Slot) Emitted(c Config) bool {
	switch s {
	case SlotCorner:
		return c.Has(BottomLeft)
	case SlotLeft:
		return c.Has(BottomLeft) != c.Has(TopLeft)
	case SlotBottom:
		return c.Has(BottomLeft) != c.Has(BottomRight)
	case SlotRightCorner:
		return c.Has(BottomRight)
	case SlotRightLeft:
		return c.Has(BottomRight) != c.Has(TopRight)
	case SlotTopCorner:
		return c.Has(TopLeft)
	case SlotTopBottom:
		return c.Has(TopLeft) != c.Has(TopRight)
	case SlotTopRightCorner:
		return c.Has(TopRight)
	}
	return false
}

// Winding selects the triangle orientation.
type Winding uint8

// Windings. WindingNormal faces +Y, WindingReversed faces -Y.
const (
	WindingNormal Winding = iota
	WindingReversed
)

// String returns the winding name.
func (w Winding) String() string {
	if w == WindingReversed {
		return "reversed"
	}
	return "normal"
}

// Segment is a piece of the contour inside one cell, directed so that the
// inside of the shape lies on its right when seen from above.
type Segment struct {
	From, To Slot
}

// polygons lists, for every configuration, the inside region of the cell as
// a convex polygon walked in the order corner, left, top.corner, top.bottom,
// topright.corner, right.left, right.corner, bottom.
var polygons = [ConfigCount][]Slot{
	0:  nil,
	1:  {SlotCorner, SlotLeft, SlotBottom},
	2:  {SlotRightLeft, SlotRightCorner, SlotBottom},
	3:  {SlotCorner, SlotLeft, SlotRightLeft, SlotRightCorner},
	4:  {SlotTopBottom, SlotTopRightCorner, SlotRightLeft},
	5:  {SlotCorner, SlotLeft, SlotTopBottom, SlotTopRightCorner, SlotRightLeft, SlotBottom},
	6:  {SlotTopBottom, SlotTopRightCorner, SlotRightCorner, SlotBottom},
	7:  {SlotCorner, SlotLeft, SlotTopBottom, SlotTopRightCorner, SlotRightCorner},
	8:  {SlotLeft, SlotTopCorner, SlotTopBottom},
	9:  {SlotCorner, SlotTopCorner, SlotTopBottom, SlotBottom},
	10: {SlotLeft, SlotTopCorner, SlotTopBottom, SlotRightLeft, SlotRightCorner, SlotBottom},
	11: {SlotCorner, SlotTopCorner, SlotTopBottom, SlotRightLeft, SlotRightCorner},
	12: {SlotLeft, SlotTopCorner, SlotTopRightCorner, SlotRightLeft},
	13: {SlotCorner, SlotTopCorner, SlotTopRightCorner, SlotRightLeft, SlotBottom},
	14: {SlotLeft, SlotTopCorner, SlotTopRightCorner, SlotRightCorner, SlotBottom},
	15: {SlotCorner, SlotTopCorner, SlotTopRightCorner, SlotRightCorner},
}

// tableEntry is the precomputed triangulation of one configuration.
type tableEntry struct {
	triangles [2][]Slot // indexed by Winding
	segments  []Segment
}

var table [ConfigCount]tableEntry

func init() {
	for c := range ConfigCount {
		poly := polygons[c]
		entry := tableEntry{}
		for i := 1; i+1 < len(poly); i++ {
			entry.triangles[WindingNormal] = append(entry.triangles[WindingNormal], poly[0], poly[i], poly[i+1])
			entry.triangles[WindingReversed] = append(entry.triangles[WindingReversed], poly[0], poly[i+1], poly[i])
		}
		for i, from := range poly {
			to := poly[(i+1)%len(poly)]
			if from.IsEdge() && to.IsEdge() {
				entry.segments = append(entry.segments, Segment{From: from, To: to})
			}
		}
		table[c] = entry
	}
}

// Polygon returns the inside polygon of configuration c.
func Polygon(c Config) []Slot {
	return polygons[c&Full]
}

// Triangles returns the triangle slot list of configuration c, three slots
// per triangle. The returned slice must not be modified.
func Triangles(c Config, w Winding) []Slot {
	return table[c&Full].triangles[w&1]
}

// TriIndexCount returns how many index-buffer slots configuration c needs.
func TriIndexCount(c Config) int {
	return len(table[c&Full].triangles[WindingNormal])
}

// Segments returns the contour segments of configuration c: none for empty
// and full cells, two for the diagonal cases, one otherwise.
func Segments(c Config) []Segment {
	return table[c&Full].segments
}
