package field

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	f := New(3, 4)
	if f.Len() != 12 {
		t.Fatalf("expected 12 samples, got %d", f.Len())
	}
	for i, d := range f.Distances {
		if d != OutsideDistance {
			t.Errorf("sample %d: expected %v, got %v", i, OutsideDistance, d)
		}
	}
	if f.HasHeights() || f.HasCulling() {
		t.Error("new field should have no optional arrays")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		field *Field
		want  error
	}{
		{"ok", New(2, 2), nil},
		{"nil", nil, ErrGridTooSmall},
		{"one column", New(1, 5), ErrGridTooSmall},
		{"one row", New(5, 1), ErrGridTooSmall},
		{"short distances", &Field{Cols: 2, Rows: 2, Distances: make([]float32, 3)}, ErrFieldSize},
		{"short heights", &Field{Cols: 2, Rows: 2, Distances: make([]float32, 4), Heights: make([]float32, 2)}, ErrFieldSize},
		{"short culled", &Field{Cols: 2, Rows: 2, Distances: make([]float32, 4), Culled: make([]bool, 1)}, ErrFieldSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.field.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDistanceOutOfRange(t *testing.T) {
	f := New(2, 2)
	f.Fill(1)
	if d := f.Distance(2, 0); d != OutsideDistance {
		t.Errorf("expected outside distance, got %v", d)
	}
	if d := f.Distance(-1, 1); d != OutsideDistance {
		t.Errorf("expected outside distance, got %v", d)
	}
	if !f.Inside(1, 1) {
		t.Error("expected (1,1) inside")
	}
}

func TestHeightsAndCulling(t *testing.T) {
	f := New(3, 3)
	if f.Height(1, 1) != 0 {
		t.Error("field without heights should report 0")
	}
	f.SetHeight(1, 1, 2.5)
	if !f.HasHeights() {
		t.Fatal("SetHeight should allocate heights")
	}
	if f.Height(1, 1) != 2.5 {
		t.Errorf("expected height 2.5, got %v", f.Height(1, 1))
	}
	if f.Height(5, 5) != f.Height(2, 2) {
		t.Error("height lookups should clamp to the grid")
	}

	f.SetCulled(0, 1, true)
	if !f.IsCulled(0, 1) || f.IsCulled(1, 1) {
		t.Error("culling mask not applied")
	}
	if f.IsCulled(9, 9) {
		t.Error("out-of-range cells are never culled")
	}
}

func TestClone(t *testing.T) {
	f := New(2, 2)
	f.SetHeight(0, 0, 1)
	c := f.Clone()
	c.Set(0, 0, 5)
	c.Heights[0] = 9
	if f.Distance(0, 0) == 5 || f.Heights[0] == 9 {
		t.Error("clone shares storage with original")
	}
}

func TestInsideCount(t *testing.T) {
	f := New(3, 3)
	f.Set(1, 1, 0)
	f.Set(2, 2, 0.5)
	if n := f.InsideCount(); n != 2 {
		t.Errorf("expected 2 inside samples, got %d", n)
	}
}
