package discretize

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/verdure/pkg/scenegraph"
)

// sampleCurve3 uniformly samples a 3D curve over its knot range into
// stride+1 points; the final sample is taken exactly at the last knot.
func sampleCurve3(c scenegraph.Curve) []v3.Vec {
	start := c.FirstKnot()
	size := c.Stride()
	step := (c.LastKnot() - start) / float64(size)

	points := make([]v3.Vec, size+1)
	for i := 0; i < size; i++ {
		points[i] = c.PointAt(start + float64(i)*step)
	}
	points[size] = c.PointAt(c.LastKnot())
	return points
}

// sampleCurve2 uniformly samples a planar curve, lifting it to z=0.
func sampleCurve2(c scenegraph.Curve2D) []v3.Vec {
	start := c.FirstKnot()
	size := c.Stride()
	step := (c.LastKnot() - start) / float64(size)

	points := make([]v3.Vec, size+1)
	for i := 0; i < size; i++ {
		p := c.PointAt(start + float64(i)*step)
		points[i] = v3.Vec{X: p.X, Y: p.Y}
	}
	p := c.PointAt(c.LastKnot())
	points[size] = v3.Vec{X: p.X, Y: p.Y}
	return points
}

func (d *Discretizer) processBezierCurve(c *scenegraph.BezierCurve) bool {
	if d.cacheHit(c, false) {
		return true
	}
	d.cur = scenegraph.NewPolyline(sampleCurve3(c))
	d.updateCache(c)
	return true
}

func (d *Discretizer) processBezierCurve2D(c *scenegraph.BezierCurve2D) bool {
	if d.cacheHit(c, false) {
		return true
	}
	d.cur = scenegraph.NewPolyline(sampleCurve2(c))
	d.updateCache(c)
	return true
}

func (d *Discretizer) processNurbsCurve(c *scenegraph.NurbsCurve) bool {
	if d.cacheHit(c, false) {
		return true
	}
	d.cur = scenegraph.NewPolyline(sampleCurve3(c))
	d.updateCache(c)
	return true
}

func (d *Discretizer) processNurbsCurve2D(c *scenegraph.NurbsCurve2D) bool {
	if d.cacheHit(c, false) {
		return true
	}
	d.cur = scenegraph.NewPolyline(sampleCurve2(c))
	d.updateCache(c)
	return true
}

// processPolyline2D lifts a planar polyline to z=0.
func (d *Discretizer) processPolyline2D(p *scenegraph.Polyline2D) bool {
	if d.cacheHit(p, false) {
		return true
	}
	points := make([]v3.Vec, len(p.Points))
	for i, q := range p.Points {
		points[i] = v3.Vec{X: q.X, Y: q.Y}
	}
	d.cur = scenegraph.NewPolyline(points)
	d.updateCache(p)
	return true
}

// processPointSet2D lifts a planar point set to z=0.
func (d *Discretizer) processPointSet2D(p *scenegraph.PointSet2D) bool {
	if d.cacheHit(p, false) {
		return true
	}
	points := make([]v3.Vec, len(p.Points))
	for i, q := range p.Points {
		points[i] = v3.Vec{X: q.X, Y: q.Y}
	}
	d.cur = scenegraph.NewPointSet(points)
	d.updateCache(p)
	return true
}

// patchGrid samples a (uStride x vStride) grid from eval over the given
// knot ranges and builds the quad topology. Points are u-major: index =
// iu*vStride + iv.
func patchGrid(uStride, vStride int, uFirst, uLast, vFirst, vLast float64,
	eval func(u, v float64) v3.Vec) ([]v3.Vec, [][4]int) {

	points := make([]v3.Vec, 0, uStride*vStride)
	quads := make([][4]int, 0, (uStride-1)*(vStride-1))

	uSpan := uLast - uFirst
	vSpan := vLast - vFirst
	for iu := 0; iu < uStride; iu++ {
		u := uFirst + uSpan*float64(iu)/float64(uStride-1)
		for iv := 0; iv < vStride; iv++ {
			v := vFirst + vSpan*float64(iv)/float64(vStride-1)
			points = append(points, eval(u, v))
			if iu < uStride-1 && iv < vStride-1 {
				cur := iu*vStride + iv
				quads = append(quads, [4]int{cur, cur + 1, cur + vStride + 1, cur + vStride})
			}
		}
	}
	return points, quads
}

func (d *Discretizer) processBezierPatch(p *scenegraph.BezierPatch) bool {
	if d.cacheHit(p, true) {
		return true
	}

	points, quads := patchGrid(p.UStride, p.VStride, 0, 1, 0, 1, p.PointAt)

	skeleton := scenegraph.NewSegment(v3.Vec{}, v3.Vec{})
	q := scenegraph.NewQuadSet(points, quads, p.CCW, false, skeleton)
	if d.ComputeTexCoord {
		q.SetTexCoordList(gridTexCoord(points, p.UStride, p.VStride))
	}

	d.cur = q
	d.updateCache(p)
	return true
}

func (d *Discretizer) processNurbsPatch(p *scenegraph.NurbsPatch) bool {
	if d.cacheHit(p, true) {
		return true
	}

	points, quads := patchGrid(p.UStride, p.VStride,
		p.FirstUKnot(), p.LastUKnot(), p.FirstVKnot(), p.LastVKnot(), p.PointAt)

	skeleton := scenegraph.NewSegment(v3.Vec{}, v3.Vec{})
	q := scenegraph.NewQuadSet(points, quads, p.CCW, false, skeleton)
	if d.ComputeTexCoord {
		q.SetTexCoordList(gridTexCoord(points, p.UStride, p.VStride))
	}

	d.cur = q
	d.updateCache(p)
	return true
}

// processElevationGrid samples the grid's own points and splits each cell
// into two triangles.
func (d *Discretizer) processElevationGrid(g *scenegraph.ElevationGrid) bool {
	if d.cacheHit(g, true) {
		return true
	}

	xDim, yDim := g.XDim(), g.YDim()
	if xDim < 2 || yDim < 2 {
		d.cur = nil
		return false
	}

	points := make([]v3.Vec, 0, xDim*yDim)
	indices := make([][3]int, 0, (xDim-1)*(yDim-1)*2)

	for j := 0; j < yDim; j++ {
		for i := 0; i < xDim; i++ {
			points = append(points, g.PointAt(i, j))
			if i < xDim-1 && j < yDim-1 {
				cur := j*xDim + i
				indices = append(indices,
					[3]int{cur, cur + 1, cur + xDim},
					[3]int{cur + 1, cur + 1 + xDim, cur + xDim})
			}
		}
	}

	skeleton := scenegraph.NewSegment(v3.Vec{}, v3.Vec{})
	t := scenegraph.NewTriangleSet(points, indices, g.CCW, false, skeleton)
	if d.ComputeTexCoord {
		t.SetTexCoordList(gridTexCoord(points, yDim, xDim))
	}

	d.cur = t
	d.updateCache(g)
	return true
}
