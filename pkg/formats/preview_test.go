package formats

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/midgard-mesh/pkg/field"
)

func TestRenderPreview(t *testing.T) {
	// Bottom row inside, top row outside: the lower cells are full.
	f := field.New(3, 3)
	for x := range 3 {
		f.Set(x, 0, 1)
		f.Set(x, 1, 1)
	}
	f.SetCulled(1, 0, true)

	img, err := RenderPreview(f, 2)
	if err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("expected 4x4 image, got %v", b)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"full cell at bottom left", 0, 3, PreviewFull},
		{"culled cell", 3, 2, PreviewCulled},
		{"contour cell", 1, 0, PreviewContour},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: pixel (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRenderPreviewDiagonal(t *testing.T) {
	f := field.New(2, 2)
	f.Set(0, 0, 1)
	f.Set(1, 1, 1)

	img, err := RenderPreview(f, 1)
	if err != nil {
		t.Fatalf("RenderPreview failed: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != PreviewDiagonal {
		t.Errorf("expected diagonal color, got %v", got)
	}
}

func TestWritePreviewBMP(t *testing.T) {
	f := field.New(4, 3)
	f.Fill(1)

	var buf bytes.Buffer
	if err := WritePreviewBMP(&buf, f, 3); err != nil {
		t.Fatalf("WritePreviewBMP failed: %v", err)
	}

	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("failed to decode preview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 9 || b.Dy() != 6 {
		t.Errorf("expected 9x6 preview, got %v", b)
	}
	r, g, b, _ := img.At(4, 4).RGBA()
	if uint8(r>>8) != PreviewFull.R || uint8(g>>8) != PreviewFull.G || uint8(b>>8) != PreviewFull.B {
		t.Errorf("expected full color, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestWritePreviewBMPErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePreviewBMP(&buf, field.New(2, 2), 0); !errors.Is(err, ErrPreviewScale) {
		t.Errorf("expected ErrPreviewScale, got %v", err)
	}
	if err := WritePreviewBMP(&buf, field.New(1, 2), 1); !errors.Is(err, field.ErrGridTooSmall) {
		t.Errorf("expected ErrGridTooSmall, got %v", err)
	}
}
