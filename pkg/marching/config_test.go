package marching

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name                         string
		corner, right, topRight, top float32
		want                         Config
	}{
		{"all outside", -1, -1, -1, -1, Empty},
		{"all inside", 1, 1, 1, 1, Full},
		{"zero counts as inside", 0, -1, -1, -1, BottomLeft},
		{"bottom right", -1, 0.5, -1, -1, BottomRight},
		{"top right", -1, -1, 2, -1, TopRight},
		{"top left", -1, -1, -1, 3, TopLeft},
		{"diagonal", 1, -1, 1, -1, BottomLeft | TopRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.corner, tt.right, tt.topRight, tt.top)
			if got != tt.want {
				t.Errorf("Classify() = %04b, want %04b", got, tt.want)
			}
		})
	}
}

func TestFraction(t *testing.T) {
	tests := []struct {
		name      string
		a, b      float32
		exactness float32
		want      float32
	}{
		{"symmetric", 1, -1, 1, 0.5},
		{"near a", 1, -3, 1, 0.25},
		{"near b", 3, -1, 1, 0.75},
		{"midpoint blend", 1, -3, 0, 0.5},
		{"half blend", 1, -3, 0.5, 0.375},
		{"both zero", 0, 0, 1, 0.5},
		{"a on crossing", 0, -2, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fraction(tt.a, tt.b, tt.exactness)
			if math32.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Fraction(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.exactness, got, tt.want)
			}
		})
	}
}

func TestConfigEmission(t *testing.T) {
	tests := []struct {
		config              Config
		corner, left, below bool
	}{
		{Empty, false, false, false},
		{Full, true, false, false},
		{BottomLeft, true, true, true},
		{BottomRight, false, false, true},
		{TopLeft, false, true, false},
		{BottomLeft | TopLeft, true, false, true},
	}

	for _, tt := range tests {
		if got := tt.config.EmitsCorner(); got != tt.corner {
			t.Errorf("%04b EmitsCorner() = %v, want %v", tt.config, got, tt.corner)
		}
		if got := tt.config.EmitsLeft(); got != tt.left {
			t.Errorf("%04b EmitsLeft() = %v, want %v", tt.config, got, tt.left)
		}
		if got := tt.config.EmitsBottom(); got != tt.below {
			t.Errorf("%04b EmitsBottom() = %v, want %v", tt.config, got, tt.below)
		}
	}
}

func TestConfigHelpers(t *testing.T) {
	if !(BottomLeft | TopRight).IsDiagonal() || !(BottomRight | TopLeft).IsDiagonal() {
		t.Error("expected diagonal configs")
	}
	if (BottomLeft | BottomRight).IsDiagonal() {
		t.Error("adjacent corners are not diagonal")
	}
	if n := (Full &^ TopLeft).InsideCount(); n != 3 {
		t.Errorf("expected 3 inside corners, got %d", n)
	}
	if Full.HasContour() || Empty.HasContour() || !BottomLeft.HasContour() {
		t.Error("HasContour mismatch")
	}
}
