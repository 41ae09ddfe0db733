package scenegraph

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transformer maps points. Affine transformations wrap an sdf.M44; the
// taper deformation is pointwise.
type Transformer interface {
	Point(v3.Vec) v3.Vec
}

// Matrix is an affine Transformer backed by a 4x4 matrix.
type Matrix struct {
	M sdf.M44
}

func (m Matrix) Point(p v3.Vec) v3.Vec {
	return m.M.MulPosition(p)
}

// Transformed is implemented by every node that wraps a child geometry
// under a transformation.
type Transformed interface {
	Geometry
	Child() Geometry
	Transformation() Transformer
}

// ---------------------------------------------------------------------------
// Affine wrappers
// ---------------------------------------------------------------------------

// Translated moves its child by a fixed offset.
type Translated struct {
	GeometryBase
	Translation v3.Vec
	Geometry    Geometry
}

// NewTranslated wraps g under a translation.
func NewTranslated(translation v3.Vec, g Geometry) *Translated {
	return &Translated{GeometryBase: NewGeometryBase(), Translation: translation, Geometry: g}
}

func (t *Translated) Child() Geometry { return t.Geometry }
func (t *Translated) Transformation() Transformer {
	return Matrix{M: sdf.Translate3d(t.Translation)}
}

// Scaled scales its child about the origin.
type Scaled struct {
	GeometryBase
	Scale    v3.Vec
	Geometry Geometry
}

// NewScaled wraps g under an anisotropic scaling.
func NewScaled(scale v3.Vec, g Geometry) *Scaled {
	return &Scaled{GeometryBase: NewGeometryBase(), Scale: scale, Geometry: g}
}

func (s *Scaled) Child() Geometry { return s.Geometry }
func (s *Scaled) Transformation() Transformer {
	return Matrix{M: sdf.Scale3d(s.Scale)}
}

// AxisRotated rotates its child about an arbitrary axis.
type AxisRotated struct {
	GeometryBase
	Axis     v3.Vec
	Angle    float64 // radians
	Geometry Geometry
}

// NewAxisRotated wraps g under a rotation of angle radians about axis.
func NewAxisRotated(axis v3.Vec, angle float64, g Geometry) *AxisRotated {
	return &AxisRotated{GeometryBase: NewGeometryBase(), Axis: axis, Angle: angle, Geometry: g}
}

func (a *AxisRotated) Child() Geometry { return a.Geometry }
func (a *AxisRotated) Transformation() Transformer {
	return Matrix{M: sdf.Rotate3d(a.Axis, a.Angle)}
}

// EulerRotated rotates its child by azimuth about Z, elevation about Y,
// then roll about X.
type EulerRotated struct {
	GeometryBase
	Azimuth   float64 // radians
	Elevation float64
	Roll      float64
	Geometry  Geometry
}

// NewEulerRotated wraps g under a Z-Y-X Euler rotation, angles in radians.
func NewEulerRotated(azimuth, elevation, roll float64, g Geometry) *EulerRotated {
	return &EulerRotated{
		GeometryBase: NewGeometryBase(),
		Azimuth:      azimuth,
		Elevation:    elevation,
		Roll:         roll,
		Geometry:     g,
	}
}

func (e *EulerRotated) Child() Geometry { return e.Geometry }
func (e *EulerRotated) Transformation() Transformer {
	m := sdf.RotateZ(e.Azimuth).Mul(sdf.RotateY(e.Elevation)).Mul(sdf.RotateX(e.Roll))
	return Matrix{M: m}
}

// Oriented maps the canonical basis onto (Primary, Secondary,
// Primary x Secondary). Primary and Secondary must be orthonormal.
type Oriented struct {
	GeometryBase
	Primary   v3.Vec
	Secondary v3.Vec
	Geometry  Geometry
}

// NewOriented wraps g under a change of basis.
func NewOriented(primary, secondary v3.Vec, g Geometry) *Oriented {
	return &Oriented{GeometryBase: NewGeometryBase(), Primary: primary, Secondary: secondary, Geometry: g}
}

func (o *Oriented) Child() Geometry { return o.Geometry }
func (o *Oriented) Transformation() Transformer {
	return Matrix{M: basisMatrix(o.Primary, o.Secondary, o.Primary.Cross(o.Secondary))}
}

// basisMatrix builds the affine matrix whose columns are the given basis
// vectors.
func basisMatrix(x, y, z v3.Vec) sdf.M44 {
	return sdf.M44{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		0, 0, 0, 1,
	}
}

// ---------------------------------------------------------------------------
// Tapered
// ---------------------------------------------------------------------------

// ZExtenter is implemented by primitives that expose their axial extent,
// which the taper deformation needs as its normalization range.
type ZExtenter interface {
	Geometry
	ZExtent() (zmin, zmax float64)
}

// Tapered scales its child's cross-sections from BaseRadius at the bottom
// of the child's axial extent to TopRadius at the top. Unlike the affine
// wrappers this is a pointwise deformation.
type Tapered struct {
	GeometryBase
	BaseRadius float64
	TopRadius  float64
	Primitive  ZExtenter
}

// NewTapered wraps a primitive under a taper deformation.
func NewTapered(baseRadius, topRadius float64, p ZExtenter) *Tapered {
	return &Tapered{
		GeometryBase: NewGeometryBase(),
		BaseRadius:   baseRadius,
		TopRadius:    topRadius,
		Primitive:    p,
	}
}

func (t *Tapered) Child() Geometry { return t.Primitive }

func (t *Tapered) Transformation() Transformer {
	zmin, zmax := t.Primitive.ZExtent()
	return taper{base: t.BaseRadius, top: t.TopRadius, zmin: zmin, zmax: zmax}
}

type taper struct {
	base, top  float64
	zmin, zmax float64
}

func (t taper) Point(p v3.Vec) v3.Vec {
	f := t.base
	if span := t.zmax - t.zmin; span > 0 {
		u := (p.Z - t.zmin) / span
		f = t.base + (t.top-t.base)*u
	}
	return v3.Vec{X: p.X * f, Y: p.Y * f, Z: p.Z}
}
