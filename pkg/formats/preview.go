package formats

import (
	"errors"
	"image"
	"image/color"
	"io"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/midgard-mesh/pkg/field"
	"github.com/Faultbox/midgard-mesh/pkg/marching"
)

// ErrPreviewScale is returned for preview scales below 1.
var ErrPreviewScale = errors.New("preview scale must be at least 1")

// Preview colors.
var (
	PreviewEmpty    = color.RGBA{R: 32, G: 32, B: 40, A: 255}
	PreviewFull     = color.RGBA{R: 100, G: 200, B: 100, A: 255}
	PreviewContour  = color.RGBA{R: 220, G: 200, B: 80, A: 255}
	PreviewDiagonal = color.RGBA{R: 220, G: 150, B: 80, A: 255}
	PreviewCulled   = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// previewColor picks the color of one cell.
func previewColor(c marching.Config, culled bool) color.RGBA {
	switch {
	case culled:
		return PreviewCulled
	case c == marching.Empty:
		return PreviewEmpty
	case c == marching.Full:
		return PreviewFull
	case c.IsDiagonal():
		return PreviewDiagonal
	default:
		return PreviewContour
	}
}

// RenderPreview draws every cell of f as a scale x scale block colored by
// its configuration. Row 0 of the field is the bottom of the image.
func RenderPreview(f *field.Field, scale int) (*image.RGBA, error) {
	if scale < 1 {
		return nil, ErrPreviewScale
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	cols, rows := f.CellCols(), f.CellRows()
	img := image.NewRGBA(image.Rect(0, 0, cols*scale, rows*scale))

	for y := range rows {
		for x := range cols {
			c := marching.Classify(f.Distance(x, y), f.Distance(x+1, y), f.Distance(x+1, y+1), f.Distance(x, y+1))
			col := previewColor(c, f.IsCulled(x, y))

			// Flip Y for display (field origin is bottom-left)
			py := (rows - 1 - y) * scale
			for dy := range scale {
				for dx := range scale {
					img.SetRGBA(x*scale+dx, py+dy, col)
				}
			}
		}
	}
	return img, nil
}

// WritePreviewBMP renders f and encodes it as BMP.
func WritePreviewBMP(w io.Writer, f *field.Field, scale int) error {
	img, err := RenderPreview(f, scale)
	if err != nil {
		return err
	}
	return bmp.Encode(w, img)
}
