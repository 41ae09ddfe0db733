package scenegraph

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Default tessellation resolutions shared by the parametric solids.
const (
	DefaultSlices = 8
	DefaultStacks = 8
)

// Sphere is a ball centered at the origin.
type Sphere struct {
	GeometryBase
	Radius float64
	Slices int
	Stacks int
}

// NewSphere returns a sphere with default resolution.
func NewSphere(radius float64) *Sphere {
	return &Sphere{GeometryBase: NewGeometryBase(), Radius: radius, Slices: DefaultSlices, Stacks: DefaultStacks}
}

func (s *Sphere) ZExtent() (float64, float64) { return -s.Radius, s.Radius }

// Cone has its base disc in the z=0 plane and its apex at z=Height.
type Cone struct {
	GeometryBase
	Radius float64
	Height float64
	Solid  bool
	Slices int
}

// NewCone returns a solid cone with default resolution.
func NewCone(radius, height float64) *Cone {
	return &Cone{GeometryBase: NewGeometryBase(), Radius: radius, Height: height, Solid: true, Slices: DefaultSlices}
}

func (c *Cone) ZExtent() (float64, float64) { return 0, c.Height }

// Cylinder spans z=0 to z=Height.
type Cylinder struct {
	GeometryBase
	Radius float64
	Height float64
	Solid  bool
	Slices int
}

// NewCylinder returns a solid cylinder with default resolution.
func NewCylinder(radius, height float64) *Cylinder {
	return &Cylinder{GeometryBase: NewGeometryBase(), Radius: radius, Height: height, Solid: true, Slices: DefaultSlices}
}

func (c *Cylinder) ZExtent() (float64, float64) { return 0, c.Height }

// Frustum is a truncated cone; the top ring radius is Radius*Taper.
type Frustum struct {
	GeometryBase
	Radius float64
	Height float64
	Taper  float64
	Solid  bool
	Slices int
}

// NewFrustum returns a solid frustum with default resolution.
func NewFrustum(radius, height, taper float64) *Frustum {
	return &Frustum{
		GeometryBase: NewGeometryBase(),
		Radius:       radius,
		Height:       height,
		Taper:        taper,
		Solid:        true,
		Slices:       DefaultSlices,
	}
}

func (f *Frustum) ZExtent() (float64, float64) { return 0, f.Height }

// Paraboloid is a surface of revolution of z = Height*(1-(r/Radius)^Shape),
// apex up, optionally capped at the base.
type Paraboloid struct {
	GeometryBase
	Radius float64
	Height float64
	Shape  float64
	Solid  bool
	Slices int
	Stacks int
}

// NewParaboloid returns a solid paraboloid with default resolution.
func NewParaboloid(radius, height, shape float64) *Paraboloid {
	return &Paraboloid{
		GeometryBase: NewGeometryBase(),
		Radius:       radius,
		Height:       height,
		Shape:        shape,
		Solid:        true,
		Slices:       DefaultSlices,
		Stacks:       DefaultStacks,
	}
}

func (p *Paraboloid) ZExtent() (float64, float64) { return 0, p.Height }

// Box is an axis-aligned cuboid; Size holds the half-extents, so points
// lie at +/-Size per axis.
type Box struct {
	GeometryBase
	Size v3.Vec
}

// NewBox returns a box with the given half-extents.
func NewBox(size v3.Vec) *Box {
	return &Box{GeometryBase: NewGeometryBase(), Size: size}
}

func (b *Box) ZExtent() (float64, float64) { return -b.Size.Z, b.Size.Z }

// Disc is a flat circle in the z=0 plane.
type Disc struct {
	GeometryBase
	Radius float64
	Slices int
}

// NewDisc returns a disc with default resolution.
func NewDisc(radius float64) *Disc {
	return &Disc{GeometryBase: NewGeometryBase(), Radius: radius, Slices: DefaultSlices}
}

// AsymmetricHull is a closed hull with independent radii and peak heights
// in the four axis quadrants. Peripheral height between two quadrant axes
// follows z1*cos^2 + z2*sin^2; the surface falls to the Bottom and Top
// apices with (r/R)^shape profiles.
type AsymmetricHull struct {
	GeometryBase
	NegXRadius float64
	PosXRadius float64
	NegYRadius float64
	PosYRadius float64
	NegXHeight float64
	PosXHeight float64
	NegYHeight float64
	PosYHeight float64
	Bottom     v3.Vec
	Top        v3.Vec
	BottomShape float64
	TopShape    float64
	Slices     int // per quadrant
	Stacks     int // per half
}

// NewAsymmetricHull returns a symmetric instance of the hull; callers
// adjust per-quadrant fields as needed.
func NewAsymmetricHull(radius, height float64) *AsymmetricHull {
	return &AsymmetricHull{
		GeometryBase: NewGeometryBase(),
		NegXRadius:   radius,
		PosXRadius:   radius,
		NegYRadius:   radius,
		PosYRadius:   radius,
		NegXHeight:   height,
		PosXHeight:   height,
		NegYHeight:   height,
		PosYHeight:   height,
		Bottom:       v3.Vec{Z: -height},
		Top:          v3.Vec{Z: 2 * height},
		BottomShape:  2,
		TopShape:     2,
		Slices:       DefaultSlices,
		Stacks:       DefaultStacks,
	}
}

// ElevationGrid is a regular height field over the XY plane.
type ElevationGrid struct {
	GeometryBase
	Heights  [][]float64 // Heights[i][j] = z at (i*XSpacing, j*YSpacing)
	XSpacing float64
	YSpacing float64
	CCW      bool
}

// NewElevationGrid returns a grid over the given height matrix.
func NewElevationGrid(heights [][]float64, xSpacing, ySpacing float64) *ElevationGrid {
	return &ElevationGrid{
		GeometryBase: NewGeometryBase(),
		Heights:      heights,
		XSpacing:     xSpacing,
		YSpacing:     ySpacing,
		CCW:          true,
	}
}

// XDim returns the number of samples along x.
func (e *ElevationGrid) XDim() int { return len(e.Heights) }

// YDim returns the number of samples along y.
func (e *ElevationGrid) YDim() int {
	if len(e.Heights) == 0 {
		return 0
	}
	return len(e.Heights[0])
}

// PointAt returns the grid point at integer coordinates (i, j).
func (e *ElevationGrid) PointAt(i, j int) v3.Vec {
	return v3.Vec{
		X: float64(i) * e.XSpacing,
		Y: float64(j) * e.YSpacing,
		Z: e.Heights[i][j],
	}
}

// Revolution spins a 2D profile (x interpreted as radius, y as elevation)
// around the z axis.
type Revolution struct {
	GeometryBase
	Profile Curve2D
	Slices  int
}

// NewRevolution returns a revolution of the given profile.
func NewRevolution(profile Curve2D) *Revolution {
	return &Revolution{GeometryBase: NewGeometryBase(), Profile: profile, Slices: DefaultSlices}
}

// ExtrudedHull sweeps a horizontal profile between the extremes of a
// vertical profile.
type ExtrudedHull struct {
	GeometryBase
	Horizontal Curve2D
	Vertical   Curve2D
	CCW        bool
}

// NewExtrudedHull returns a hull spanned by the two profiles.
func NewExtrudedHull(horizontal, vertical Curve2D) *ExtrudedHull {
	return &ExtrudedHull{
		GeometryBase: NewGeometryBase(),
		Horizontal:   horizontal,
		Vertical:     vertical,
		CCW:          true,
	}
}

// Swung interpolates keyed 2D profiles around the z axis.
type Swung struct {
	GeometryBase
	Profiles *ProfileInterpolation
	Slices   int
	CCW      bool
}

// NewSwung returns a swung surface over the given profile interpolation.
func NewSwung(profiles *ProfileInterpolation) *Swung {
	return &Swung{GeometryBase: NewGeometryBase(), Profiles: profiles, Slices: DefaultSlices, CCW: true}
}

// Extrusion sweeps a 2D cross-section along a 3D axis curve.
type Extrusion struct {
	GeometryBase
	Axis         Curve
	CrossSection Curve2D
	Profile      *ProfileTransformation // optional per-u section transform
	Solid        bool
	CCW          bool
}

// NewExtrusion returns an extrusion of section along axis.
func NewExtrusion(axis Curve, section Curve2D) *Extrusion {
	return &Extrusion{
		GeometryBase: NewGeometryBase(),
		Axis:         axis,
		CrossSection: section,
		CCW:          true,
	}
}
