// Package export converts explicit models into flat render buffers and
// writes them to common mesh formats. It is an external consumer of the
// discretizer's output; nothing here feeds back into tessellation.
package export

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"

	"github.com/chazu/verdure/pkg/scenegraph"
)

// MeshData is a flat triangle mesh suitable for rendering or serialization.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z), normals
// has 3 floats per vertex, indices has 3 uint32s per triangle.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
}

// VertexCount returns the number of vertices.
func (m *MeshData) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *MeshData) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Triangles converts a face-bearing explicit model into a triangle soup,
// fan-triangulating quads and polygons. Polylines and point sets carry no
// faces and yield an error.
func Triangles(model scenegraph.ExplicitModel) ([]sdf.Triangle3, error) {
	pts := model.PointList()
	var tris []sdf.Triangle3

	emit := func(face []int) error {
		for _, ix := range face {
			if ix < 0 || ix >= len(pts) {
				return fmt.Errorf("face index %d out of range (%d points)", ix, len(pts))
			}
		}
		for k := 1; k < len(face)-1; k++ {
			tris = append(tris, sdf.Triangle3{pts[face[0]], pts[face[k]], pts[face[k+1]]})
		}
		return nil
	}

	switch m := model.(type) {
	case *scenegraph.TriangleSet:
		for _, f := range m.Indices {
			if err := emit(f[:]); err != nil {
				return nil, err
			}
		}
	case *scenegraph.QuadSet:
		for _, f := range m.Indices {
			if err := emit(f[:]); err != nil {
				return nil, err
			}
		}
	case *scenegraph.FaceSet:
		for _, f := range m.Indices {
			if err := emit(f); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("model %T has no faces to triangulate", model)
	}
	return tris, nil
}

// ToMeshData flattens an explicit model into render buffers with per-face
// normals. Each triangle gets its own three vertices so normals stay flat
// across faces.
func ToMeshData(model scenegraph.ExplicitModel) (*MeshData, error) {
	tris, err := Triangles(model)
	if err != nil {
		return nil, err
	}

	numVerts := len(tris) * 3
	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range tris {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &MeshData{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		PartName: model.Name(),
	}, nil
}
