package scenegraph

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ProfileInterpolation blends a set of keyed section profiles over an
// angular knot span. Sections are either planar (x interpreted as radius,
// y as elevation) or spatial; exactly one of Sections2D and Sections3D is
// set.
type ProfileInterpolation struct {
	Sections2D []Curve2D
	Sections3D []Curve
	Knots      []float64 // one angle per section
	Strides    int       // samples per interpolated section
}

// NewProfileInterpolation2D keys planar sections at the given angles.
func NewProfileInterpolation2D(sections []Curve2D, knots []float64) *ProfileInterpolation {
	return &ProfileInterpolation{Sections2D: sections, Knots: knots, Strides: DefaultStride}
}

// NewProfileInterpolation3D keys spatial sections at the given angles.
func NewProfileInterpolation3D(sections []Curve, knots []float64) *ProfileInterpolation {
	return &ProfileInterpolation{Sections3D: sections, Knots: knots, Strides: DefaultStride}
}

// Is2D reports whether the sections are planar.
func (p *ProfileInterpolation) Is2D() bool { return p.Sections2D != nil }

// Stride returns the number of samples per interpolated section.
func (p *ProfileInterpolation) Stride() int { return p.Strides }

// KnotCount returns the number of keyed angles.
func (p *ProfileInterpolation) KnotCount() int { return len(p.Knots) }

// UMin returns the first keyed angle.
func (p *ProfileInterpolation) UMin() float64 { return p.Knots[0] }

// UMax returns the last keyed angle.
func (p *ProfileInterpolation) UMax() float64 { return p.Knots[len(p.Knots)-1] }

// segment locates the knot interval containing angle and the local blend
// factor within it.
func (p *ProfileInterpolation) segment(angle float64) (int, float64) {
	k := p.Knots
	if len(k) < 2 || angle <= k[0] {
		return 0, 0
	}
	if angle >= k[len(k)-1] {
		return len(k) - 2, 1
	}
	i := 0
	for i < len(k)-2 && angle >= k[i+1] {
		i++
	}
	span := k[i+1] - k[i]
	if span <= 0 {
		return i, 0
	}
	return i, (angle - k[i]) / span
}

// Section2DAt returns the interpolated planar section sampled at Stride
// points for the given angle.
func (p *ProfileInterpolation) Section2DAt(angle float64) []v2.Vec {
	i, t := p.segment(angle)
	a := p.Sections2D[i]
	b := a
	if i+1 < len(p.Sections2D) {
		b = p.Sections2D[i+1]
	}
	out := make([]v2.Vec, p.Strides)
	for s := 0; s < p.Strides; s++ {
		u := float64(s) / float64(p.Strides-1)
		pa := sampleCurve2D(a, u)
		pb := sampleCurve2D(b, u)
		out[s] = pa.MulScalar(1 - t).Add(pb.MulScalar(t))
	}
	return out
}

// Section3DAt returns the interpolated spatial section for the given angle.
func (p *ProfileInterpolation) Section3DAt(angle float64) []v3.Vec {
	i, t := p.segment(angle)
	a := p.Sections3D[i]
	b := a
	if i+1 < len(p.Sections3D) {
		b = p.Sections3D[i+1]
	}
	out := make([]v3.Vec, p.Strides)
	for s := 0; s < p.Strides; s++ {
		u := float64(s) / float64(p.Strides-1)
		pa := sampleCurve(a, u)
		pb := sampleCurve(b, u)
		out[s] = pa.MulScalar(1 - t).Add(pb.MulScalar(t))
	}
	return out
}

// sampleCurve2D evaluates c at the fraction u of its knot range.
func sampleCurve2D(c Curve2D, u float64) v2.Vec {
	lo, hi := c.FirstKnot(), c.LastKnot()
	return c.PointAt(lo + u*(hi-lo))
}

// sampleCurve evaluates c at the fraction u of its knot range.
func sampleCurve(c Curve, u float64) v3.Vec {
	lo, hi := c.FirstKnot(), c.LastKnot()
	return c.PointAt(lo + u*(hi-lo))
}

// ProfileTransformation describes how an extrusion's cross-section is
// scaled and twisted along the axis. Scale factors and orientation angles
// are keyed uniformly over [UMin, UMax] and interpolated linearly.
type ProfileTransformation struct {
	Scales       []v2.Vec  // per-knot (sx, sy); nil for none
	Orientations []float64 // per-knot twist in radians; nil for none
	KnotMin      float64
	KnotMax      float64
}

// NewProfileTransformation keys scales and twists over [0, 1].
func NewProfileTransformation(scales []v2.Vec, orientations []float64) *ProfileTransformation {
	return &ProfileTransformation{Scales: scales, Orientations: orientations, KnotMin: 0, KnotMax: 1}
}

// UMin returns the first transformation knot.
func (p *ProfileTransformation) UMin() float64 { return p.KnotMin }

// UMax returns the last transformation knot.
func (p *ProfileTransformation) UMax() float64 { return p.KnotMax }

// At returns the planar transform for parameter u.
func (p *ProfileTransformation) At(u float64) func(v2.Vec) v2.Vec {
	t := 0.0
	if span := p.KnotMax - p.KnotMin; span > 0 {
		t = (u - p.KnotMin) / span
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	scale := v2.Vec{X: 1, Y: 1}
	if len(p.Scales) > 0 {
		scale = lerpKeyed(p.Scales, t)
	}
	angle := 0.0
	if len(p.Orientations) > 0 {
		angle = lerpKeyedScalar(p.Orientations, t)
	}
	sin, cos := math.Sin(angle), math.Cos(angle)
	return func(q v2.Vec) v2.Vec {
		q = v2.Vec{X: q.X * scale.X, Y: q.Y * scale.Y}
		return v2.Vec{X: q.X*cos - q.Y*sin, Y: q.X*sin + q.Y*cos}
	}
}

func lerpKeyed(keys []v2.Vec, t float64) v2.Vec {
	if len(keys) == 1 {
		return keys[0]
	}
	f := t * float64(len(keys)-1)
	i := int(f)
	if i >= len(keys)-1 {
		return keys[len(keys)-1]
	}
	a, b := keys[i], keys[i+1]
	w := f - float64(i)
	return a.MulScalar(1 - w).Add(b.MulScalar(w))
}

func lerpKeyedScalar(keys []float64, t float64) float64 {
	if len(keys) == 1 {
		return keys[0]
	}
	f := t * float64(len(keys)-1)
	i := int(f)
	if i >= len(keys)-1 {
		return keys[len(keys)-1]
	}
	w := f - float64(i)
	return keys[i]*(1-w) + keys[i+1]*w
}
