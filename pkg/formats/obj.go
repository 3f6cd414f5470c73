package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Faultbox/midgard-mesh/pkg/marching"
)

// WriteOBJ writes m as a Wavefront OBJ object. Faces reference UVs and
// normals when the mesh carries them.
func WriteOBJ(w io.Writer, m *marching.Mesh, name string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# marchmesh: %d vertices, %d triangles\n", len(m.Vertices), m.TriangleCount())
	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}

	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", objFloat(v.X), objFloat(v.Y), objFloat(v.Z))
	}
	for _, uv := range m.UVs {
		fmt.Fprintf(bw, "vt %s %s\n", objFloat(uv.X), objFloat(uv.Y))
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", objFloat(n.X), objFloat(n.Y), objFloat(n.Z))
	}

	hasUV, hasNormal := m.UVs != nil, m.Normals != nil
	for k := 0; k+2 < len(m.Triangles); k += 3 {
		bw.WriteString("f")
		for _, idx := range m.Triangles[k : k+3] {
			i := idx + 1 // OBJ indices are 1-based
			switch {
			case hasUV && hasNormal:
				fmt.Fprintf(bw, " %d/%d/%d", i, i, i)
			case hasUV:
				fmt.Fprintf(bw, " %d/%d", i, i)
			case hasNormal:
				fmt.Fprintf(bw, " %d//%d", i, i)
			default:
				fmt.Fprintf(bw, " %d", i)
			}
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// WriteOBJFile writes m to path.
func WriteOBJFile(path string, m *marching.Mesh, name string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating obj file: %w", err)
	}
	if err := WriteOBJ(out, m, name); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func objFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
