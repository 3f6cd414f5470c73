package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/midgard-mesh/pkg/field"
)

// Field file errors.
var (
	ErrInvalidFieldMagic       = errors.New("invalid field magic: expected 'MSQF'")
	ErrUnsupportedFieldVersion = errors.New("unsupported field version")
	ErrTruncatedFieldData      = errors.New("truncated field data")
	ErrFieldDimensions         = errors.New("invalid field dimensions")
)

// Field file layout constants.
const (
	fieldMagic      = "MSQF"
	fieldHeaderSize = 4 + 2 + 4 + 4 + 1
	MaxFieldSize    = 8192
)

// Field file flags.
const (
	FieldHasHeights uint8 = 1 << iota
	FieldHasCulling
)

// FieldVersion is the version of a field file.
type FieldVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v FieldVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentFieldVersion is written by WriteField.
var CurrentFieldVersion = FieldVersion{Major: 1, Minor: 0}

// ParseField parses a field file from raw bytes.
//
// Layout, little-endian: magic "MSQF", version as [minor, major], uint32
// columns and rows, a flag byte, then columns*rows float32 distances,
// optional float32 heights and optional one byte per cell culling flags.
func ParseField(data []byte) (*field.Field, error) {
	if len(data) < fieldHeaderSize {
		return nil, ErrTruncatedFieldData
	}
	if string(data[0:4]) != fieldMagic {
		return nil, ErrInvalidFieldMagic
	}

	version := FieldVersion{Major: data[5], Minor: data[4]}
	if version.Major != CurrentFieldVersion.Major {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFieldVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var cols, rows uint32
	if err := binary.Read(r, binary.LittleEndian, &cols); err != nil {
		return nil, fmt.Errorf("%w: reading columns", ErrTruncatedFieldData)
	}
	if err := binary.Read(r, binary.LittleEndian, &rows); err != nil {
		return nil, fmt.Errorf("%w: reading rows", ErrTruncatedFieldData)
	}
	if cols < 2 || rows < 2 || cols > MaxFieldSize || rows > MaxFieldSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrFieldDimensions, cols, rows)
	}

	flags, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: reading flags", ErrTruncatedFieldData)
	}

	n := int(cols) * int(rows)
	if want := fieldPayloadSize(n, flags); len(data)-fieldHeaderSize < want {
		return nil, fmt.Errorf("%w: %dx%d grid needs %d bytes, got %d",
			ErrTruncatedFieldData, cols, rows, want, len(data)-fieldHeaderSize)
	}

	f := &field.Field{
		Cols:      int(cols),
		Rows:      int(rows),
		Distances: make([]float32, n),
	}
	if err := binary.Read(r, binary.LittleEndian, f.Distances); err != nil {
		return nil, fmt.Errorf("%w: reading distances", ErrTruncatedFieldData)
	}

	if flags&FieldHasHeights != 0 {
		f.Heights = make([]float32, n)
		if err := binary.Read(r, binary.LittleEndian, f.Heights); err != nil {
			return nil, fmt.Errorf("%w: reading heights", ErrTruncatedFieldData)
		}
	}

	if flags&FieldHasCulling != 0 {
		mask := make([]byte, n)
		if _, err := io.ReadFull(r, mask); err != nil {
			return nil, fmt.Errorf("%w: reading culling mask", ErrTruncatedFieldData)
		}
		f.Culled = make([]bool, n)
		for i, b := range mask {
			f.Culled[i] = b != 0
		}
	}

	return f, nil
}

// fieldPayloadSize returns the byte size of the sample arrays following the
// header.
func fieldPayloadSize(n int, flags uint8) int {
	size := 4 * n
	if flags&FieldHasHeights != 0 {
		size += 4 * n
	}
	if flags&FieldHasCulling != 0 {
		size += n
	}
	return size
}

// ParseFieldFile parses a field file from disk.
func ParseFieldFile(path string) (*field.Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading field file: %w", err)
	}
	return ParseField(data)
}

// WriteField writes f in the current field file version.
func WriteField(w io.Writer, f *field.Field) error {
	if err := f.Validate(); err != nil {
		return err
	}

	var flags uint8
	if f.HasHeights() {
		flags |= FieldHasHeights
	}
	if f.HasCulling() {
		flags |= FieldHasCulling
	}

	buf := new(bytes.Buffer)
	buf.WriteString(fieldMagic)
	buf.WriteByte(CurrentFieldVersion.Minor)
	buf.WriteByte(CurrentFieldVersion.Major)
	binary.Write(buf, binary.LittleEndian, uint32(f.Cols))
	binary.Write(buf, binary.LittleEndian, uint32(f.Rows))
	buf.WriteByte(flags)
	binary.Write(buf, binary.LittleEndian, f.Distances)
	if f.HasHeights() {
		binary.Write(buf, binary.LittleEndian, f.Heights)
	}
	if f.HasCulling() {
		for _, c := range f.Culled {
			if c {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFieldFile writes f to path.
func WriteFieldFile(path string, f *field.Field) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating field file: %w", err)
	}
	if err := WriteField(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// FieldSummary describes the contents of a field.
type FieldSummary struct {
	Cols, Rows  int
	Inside      int // samples with distance >= 0
	CulledCells int
	MinHeight   float32
	MaxHeight   float32
}

// Summarize counts inside samples and culled cells and finds the height
// range. Fields without heights report a zero range.
func Summarize(f *field.Field) FieldSummary {
	s := FieldSummary{Cols: f.Cols, Rows: f.Rows, Inside: f.InsideCount()}
	for _, c := range f.Culled {
		if c {
			s.CulledCells++
		}
	}
	if len(f.Heights) > 0 {
		s.MinHeight, s.MaxHeight = f.Heights[0], f.Heights[0]
		for _, h := range f.Heights {
			s.MinHeight = min(s.MinHeight, h)
			s.MaxHeight = max(s.MaxHeight, h)
		}
	}
	return s
}
