package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/chazu/verdure/pkg/scenegraph"
)

// stlTriangle is the 50-byte binary STL record.
type stlTriangle struct {
	Normal   [3]float32
	Vertices [3][3]float32
	_        uint16 // attribute byte count
}

// WriteSTL writes a face-bearing explicit model as binary STL. Models
// without faces (polylines, point sets) are rejected.
func WriteSTL(w io.Writer, model scenegraph.ExplicitModel) error {
	tris, err := Triangles(model)
	if err != nil {
		return fmt.Errorf("stl: %w", err)
	}

	var header [80]byte
	copy(header[:], "verdure mesh")
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("stl: header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(tris))); err != nil {
		return fmt.Errorf("stl: count: %w", err)
	}

	var rec stlTriangle
	for _, tri := range tris {
		n := tri.Normal()
		rec.Normal = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
		for j := 0; j < 3; j++ {
			rec.Vertices[j] = [3]float32{float32(tri[j].X), float32(tri[j].Y), float32(tri[j].Z)}
		}
		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("stl: triangle: %w", err)
		}
	}
	return nil
}

// SaveSTL writes the model as binary STL to the given path.
func SaveSTL(path string, model scenegraph.ExplicitModel) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := WriteSTL(bw, model); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("stl: %w", err)
	}
	return f.Close()
}

// WriteOBJ writes an explicit model as Wavefront OBJ. Face-bearing models
// emit faces; polylines emit line records and point sets emit point
// records.
func WriteOBJ(w io.Writer, model scenegraph.ExplicitModel) error {
	bw := bufio.NewWriter(w)
	if name := model.Name(); name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, p := range model.PointList() {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}

	writeFace := func(face []int) {
		fmt.Fprint(bw, "f")
		for _, ix := range face {
			fmt.Fprintf(bw, " %d", ix+1)
		}
		fmt.Fprintln(bw)
	}

	switch m := model.(type) {
	case *scenegraph.TriangleSet:
		for _, f := range m.Indices {
			writeFace(f[:])
		}
	case *scenegraph.QuadSet:
		for _, f := range m.Indices {
			writeFace(f[:])
		}
	case *scenegraph.FaceSet:
		for _, f := range m.Indices {
			writeFace(f)
		}
	case *scenegraph.Polyline:
		fmt.Fprint(bw, "l")
		for i := range m.Points {
			fmt.Fprintf(bw, " %d", i+1)
		}
		fmt.Fprintln(bw)
	case *scenegraph.PointSet:
		fmt.Fprint(bw, "p")
		for i := range m.Points {
			fmt.Fprintf(bw, " %d", i+1)
		}
		fmt.Fprintln(bw)
	default:
		return fmt.Errorf("obj: unsupported model %T", model)
	}
	return bw.Flush()
}

// SaveOBJ writes the model as OBJ to the given path.
func SaveOBJ(path string, model scenegraph.ExplicitModel) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("obj: %w", err)
	}
	defer f.Close()
	if err := WriteOBJ(f, model); err != nil {
		return err
	}
	return f.Close()
}
