package scenegraph

import (
	"github.com/deadsy/sdfx/sdf"
)

// Group composes an ordered list of child geometries into one shape.
type Group struct {
	GeometryBase
	Children []Geometry
}

// NewGroup builds a group over the given children.
func NewGroup(children ...Geometry) *Group {
	return &Group{GeometryBase: NewGeometryBase(), Children: children}
}

// IFS instances one base geometry under every composition of its affine
// list up to Depth applications (an iterated function system).
type IFS struct {
	GeometryBase
	Depth      int
	Transforms []sdf.M44
	Geometry   Geometry
}

// NewIFS builds an iterated function system of depth 1 over the given
// affines.
func NewIFS(g Geometry, transforms ...sdf.M44) *IFS {
	return &IFS{GeometryBase: NewGeometryBase(), Depth: 1, Transforms: transforms, Geometry: g}
}

// AllTransforms expands the affine list into the full instance list: every
// Depth-fold product of the base transforms, N^Depth matrices in all.
func (f *IFS) AllTransforms() []sdf.M44 {
	depth := f.Depth
	if depth < 1 {
		depth = 1
	}
	out := append([]sdf.M44(nil), f.Transforms...)
	for d := 1; d < depth; d++ {
		next := make([]sdf.M44, 0, len(out)*len(f.Transforms))
		for _, a := range out {
			for _, b := range f.Transforms {
				next = append(next, a.Mul(b))
			}
		}
		out = next
	}
	return out
}
