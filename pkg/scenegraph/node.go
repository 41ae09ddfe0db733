package scenegraph

import "sync/atomic"

// Geometry is the common interface of every scene-graph node. Each node has
// a stable process-unique id and an optional name. Only named nodes take
// part in discretization caching.
type Geometry interface {
	ID() uint32
	Name() string
	SetName(string)
	IsNamed() bool
}

// idCounter provides process-unique node ids.
var idCounter uint32

func nextID() uint32 {
	return atomic.AddUint32(&idCounter, 1)
}

// GeometryBase carries the identity shared by all nodes. Embed it and call
// NewGeometryBase to obtain a fresh id.
type GeometryBase struct {
	id   uint32
	name string
}

// NewGeometryBase returns a base with a fresh unique id and no name.
func NewGeometryBase() GeometryBase {
	return GeometryBase{id: nextID()}
}

func (b *GeometryBase) ID() uint32       { return b.id }
func (b *GeometryBase) Name() string     { return b.name }
func (b *GeometryBase) SetName(n string) { b.name = n }
func (b *GeometryBase) IsNamed() bool    { return b.name != "" }

// Shape pairs a geometry with an appearance for scene assembly. The
// appearance contributes no geometry.
type Shape struct {
	GeometryBase
	Geometry   Geometry
	Appearance Geometry
}

// NewShape returns a Shape wrapping the given geometry.
func NewShape(g Geometry) *Shape {
	return &Shape{GeometryBase: NewGeometryBase(), Geometry: g}
}

// Symbol is a reusable reference to a pre-tessellated mesh, typically
// loaded from a shape library. Discretization passes the underlying mesh
// through by identity.
type Symbol struct {
	GeometryBase
	Mesh ExplicitModel
}

// NewSymbol wraps an already-explicit mesh for reuse across a scene.
func NewSymbol(mesh ExplicitModel) *Symbol {
	return &Symbol{GeometryBase: NewGeometryBase(), Mesh: mesh}
}

// Scene is an ordered list of root nodes.
type Scene struct {
	Roots []Geometry
}

// Add appends a root node to the scene.
func (s *Scene) Add(g Geometry) {
	s.Roots = append(s.Roots, g)
}
