package discretize

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/verdure/pkg/scenegraph"
)

// processRevolution discretizes the planar profile (x as radius, y as
// elevation) and spins it around the z axis. The result closes into a
// solid only when the profile itself is closed.
func (d *Discretizer) processRevolution(r *scenegraph.Revolution) bool {
	if d.cacheHit(r, false) {
		return true
	}
	if r.Profile == nil || !d.Process(r.Profile) || d.cur == nil {
		d.logger.Warn("could not discretize revolution profile", "node", r.Name())
		d.cur = nil
		return false
	}

	curve := d.cur.PointList()
	size := len(curve)
	if size < 2 {
		d.cur = nil
		return false
	}
	slices := r.Slices

	points := make([]v3.Vec, 0, slices*size)
	indices := make([][3]int, 0, slices*2*(size-1))

	angleStep := 2 * math.Pi / float64(slices)
	cur, next := 0, size

	for i := 0; i < slices; i++ {
		x := math.Cos(float64(i) * angleStep)
		y := math.Sin(float64(i) * angleStep)

		rad, z := curve[0].X, curve[0].Y
		points = append(points, v3.Vec{X: x * rad, Y: y * rad, Z: z})

		for j := 1; j < size; j++ {
			rad, z = curve[j].X, curve[j].Y
			points = append(points, v3.Vec{X: x * rad, Y: y * rad, Z: z})

			indices = append(indices,
				[3]int{cur + j, cur + j - 1, next + j - 1},
				[3]int{cur + j, next + j - 1, next + j})
		}

		cur = next
		next = (next + size) % (size * slices)
	}

	closed := curve[0].Sub(curve[size-1]).Length() < epsilon
	skeleton := scenegraph.NewSegment(v3.Vec{}, v3.Vec{Z: 1})
	d.cur = scenegraph.NewTriangleSet(points, indices, true, closed, skeleton)
	d.updateCache(r)
	return true
}

// processSwung emits one interpolated section per slice. The angular
// range comes from the interpolation's knot span, defaulting to a full
// turn when only one section is keyed.
func (d *Discretizer) processSwung(s *scenegraph.Swung) bool {
	if d.cacheHit(s, false) {
		return true
	}
	section := s.Profiles
	if section == nil {
		d.cur = nil
		return false
	}

	sectionSize := section.Stride()
	slices := s.Slices

	points := make([]v3.Vec, 0, slices*sectionSize)
	indices := make([][3]int, 0, slices*2*(sectionSize-1))

	angleMin := section.UMin()
	angleRange := 2 * math.Pi
	if section.KnotCount() > 1 {
		angleRange = section.UMax() - angleMin
	}
	angleStep := angleRange / float64(slices)

	is2D := section.Is2D()
	angle := angleMin
	cur, next := 0, sectionSize

	for i := 0; i < slices; i++ {
		var crv2D []v2.Vec
		var crv3D []v3.Vec
		var cosa, sina float64
		if is2D {
			crv2D = section.Section2DAt(angle)
			cosa, sina = math.Cos(angle), math.Sin(angle)
			points = append(points, v3.Vec{
				X: crv2D[0].X * cosa,
				Y: crv2D[0].X * sina,
				Z: crv2D[0].Y,
			})
		} else {
			crv3D = section.Section3DAt(angle)
			points = append(points, crv3D[0])
		}

		for j := 1; j < sectionSize; j++ {
			if is2D {
				points = append(points, v3.Vec{
					X: crv2D[j].X * cosa,
					Y: crv2D[j].X * sina,
					Z: crv2D[j].Y,
				})
			} else {
				points = append(points, crv3D[j])
			}

			indices = append(indices,
				[3]int{cur + j, cur + j - 1, next + j - 1},
				[3]int{cur + j, next + j - 1, next + j})
		}

		cur = next
		next = (next + sectionSize) % (sectionSize * slices)
		angle += angleStep
	}

	skeleton := scenegraph.NewSegment(v3.Vec{}, v3.Vec{Z: 1})
	d.cur = scenegraph.NewTriangleSet(points, indices, s.CCW, false, skeleton)
	d.updateCache(s)
	return true
}

// substituteNormal builds a stand-in frame normal when the axis normal
// vanishes: the tangent crossed with whichever canonical axis is least
// aligned with it.
func substituteNormal(tg v3.Vec) v3.Vec {
	var u v3.Vec
	ax, ay, az := math.Abs(tg.X), math.Abs(tg.Y), math.Abs(tg.Z)
	if ax < ay {
		if az < ax {
			u = v3.Vec{Z: 1}
		} else {
			u = v3.Vec{X: 1}
		}
	} else {
		if az < ay {
			u = v3.Vec{Z: 1}
		} else {
			u = v3.Vec{Y: 1}
		}
	}
	return tg.Cross(u)
}

// processExtrusion sweeps the cross-section along the axis curve with a
// discrete parallel-transport frame: the first normal comes from the axis,
// subsequent normals from the previous binormal crossed with the new
// velocity. The frame drifts numerically on long axes; a rotation
// minimizing frame would be a drop-in improvement.
func (d *Discretizer) processExtrusion(e *scenegraph.Extrusion) bool {
	if d.cacheHit(e, true) {
		return true
	}
	if e.CrossSection == nil || !d.Process(e.CrossSection) || d.cur == nil {
		d.logger.Warn("could not discretize extrusion cross-section", "node", e.Name())
		d.cur = nil
		return false
	}

	crossPoints := d.cur.PointList()
	closed := false
	if len(crossPoints) > 1 &&
		crossPoints[0].Sub(crossPoints[len(crossPoints)-1]).Length() <= epsilon {
		crossPoints = crossPoints[:len(crossPoints)-1]
		closed = true
	}
	nbPoints := len(crossPoints)
	if nbPoints < 2 {
		d.cur = nil
		return false
	}

	axis := e.Axis
	start := axis.FirstKnot()
	size := axis.Stride()
	step := (axis.LastKnot() - start) / float64(size)

	profile := e.Profile
	var startTransf, stepTransf float64
	if profile != nil {
		startTransf = profile.UMin()
		stepTransf = (profile.UMax() - startTransf) / float64(size)
	}

	points := make([]v3.Vec, 0, (size+1)*nbPoints)
	var tex []v2.Vec
	if d.ComputeTexCoord {
		tex = make([]v2.Vec, 0, (size+1)*nbPoints)
	}
	nQuads := nbPoints - 1
	if closed {
		nQuads = nbPoints
	}
	quads := make([][4]int, 0, size*nQuads)

	normal := axis.NormalAt(start)
	if normal.Length2() < epsilon {
		// The curve is locally straight; fall back to a canonical frame.
		d.logger.Warn("axis normal vanished, substituting canonical frame",
			"node", e.Name())
		normal = substituteNormal(axis.TangentAt(start))
	}

	var oldBinormal v3.Vec
	j := 0
	emitRing := func(u, uTransf float64, last bool) {
		center := axis.PointAt(u)
		velocity := axis.TangentAt(u)
		if j > 0 {
			normal = oldBinormal.Cross(velocity)
			if normal.Length2() < tolerance {
				normal = substituteNormal(velocity)
			}
		}
		velocity = velocity.Normalize()
		normal = normal.Normalize()
		binormal := velocity.Cross(normal).Normalize()
		oldBinormal = binormal

		var transf2D func(v2.Vec) v2.Vec
		if profile != nil {
			transf2D = profile.At(uTransf)
		}

		if closed && !last {
			quads = append(quads, [4]int{j + nbPoints - 1, j, j + nbPoints, j + 2*nbPoints - 1})
		}
		for id, cp := range crossPoints {
			q := v2.Vec{X: cp.X, Y: cp.Y}
			if transf2D != nil {
				q = transf2D(q)
			}
			p := normal.MulScalar(q.X).Add(binormal.MulScalar(q.Y)).Add(center)
			points = append(points, p)
			if tex != nil {
				tex = append(tex, v2.Vec{X: u, Y: float64(id) / float64(nbPoints-1)})
			}
			if !last && (j+1)%nbPoints != 0 {
				quads = append(quads, [4]int{j, j + 1, j + nbPoints + 1, j + nbPoints})
			}
			j++
		}
	}

	u := start
	uTransf := startTransf
	for i := 0; i < size; i++ {
		emitRing(u, uTransf, false)
		u += step
		uTransf += stepTransf
	}
	endTransf := startTransf
	if profile != nil {
		endTransf = profile.UMax()
	}
	emitRing(axis.LastKnot(), endTransf, true)

	skeleton := scenegraph.NewSegment(v3.Vec{}, v3.Vec{})

	var mesh scenegraph.ExplicitModel
	if e.Solid {
		// Triangulate the two end caps and prepend them to the sides.
		faces := make([][]int, 0, 2*(nbPoints-2)+len(quads))
		for _, base := range []int{0, size * nbPoints} {
			for k := 1; k < nbPoints-1; k++ {
				faces = append(faces, []int{base, base + k, base + k + 1})
			}
		}
		for _, q := range quads {
			faces = append(faces, []int{q[0], q[1], q[2], q[3]})
		}
		fs := scenegraph.NewFaceSet(points, faces, e.CCW, true, skeleton)
		fs.SetTexCoordList(tex)
		mesh = fs
	} else {
		qs := scenegraph.NewQuadSet(points, quads, e.CCW, false, skeleton)
		qs.SetTexCoordList(tex)
		mesh = qs
	}

	d.cur = mesh
	d.updateCache(e)
	return true
}

// processExtrudedHull sweeps the horizontal profile between the vertical
// profile's lowest and highest points. The vertical profile splits at its
// y extremes into two chains; each stack parameter picks a pair of points
// along those chains, and the horizontal profile is scaled, rotated and
// translated to span them.
func (d *Discretizer) processExtrudedHull(h *scenegraph.ExtrudedHull) bool {
	if d.cacheHit(h, false) {
		return true
	}
	if h.Horizontal == nil || !d.Process(h.Horizontal) || d.cur == nil {
		d.logger.Warn("could not discretize horizontal profile", "node", h.Name())
		d.cur = nil
		return false
	}
	horizontal := d.cur.PointList()
	if h.Vertical == nil || !d.Process(h.Vertical) || d.cur == nil {
		d.logger.Warn("could not discretize vertical profile", "node", h.Name())
		d.cur = nil
		return false
	}
	vertical := d.cur.PointList()

	hSize, vSize := len(horizontal), len(vertical)
	if hSize < 3 || vSize < 3 {
		d.cur = nil
		return false
	}

	var xMin, xMax, yMin, yMax float64
	xMin, xMax = horizontal[0].X, horizontal[0].X
	yMin, yMax = horizontal[0].Y, horizontal[0].Y
	for _, p := range horizontal[1:] {
		xMin = math.Min(xMin, p.X)
		xMax = math.Max(xMax, p.X)
		yMin = math.Min(yMin, p.Y)
		yMax = math.Max(yMax, p.Y)
	}
	width := math.Abs(xMax - xMin)
	if width < tolerance {
		d.cur = nil
		return false
	}
	xCenter := (xMax + xMin) / 2
	yCenter := (yMax + yMin) / 2

	// Locate the vertical profile's extremes.
	ndxBot, ndxTop := 0, 0
	for i, p := range vertical {
		if p.Y < vertical[ndxBot].Y {
			ndxBot = i
		}
		if p.Y > vertical[ndxTop].Y {
			ndxTop = i
		}
	}

	// Split the profile at the extremes into two chains with their
	// cumulative lengths.
	var ndx1 []int
	var len1 float64
	for i := ndxBot; i != ndxTop; {
		ndx1 = append(ndx1, i)
		next := (i + 1) % vSize
		len1 += vertical[i].Sub(vertical[next]).Length()
		i = next
	}
	ndx1 = append(ndx1, ndxTop)

	var ndx2 []int
	var len2 float64
	for i := ndxBot; i != ndxTop; {
		ndx2 = append(ndx2, i)
		next := i - 1
		if i == 0 {
			next = vSize - 1
		}
		len2 += vertical[i].Sub(vertical[next]).Length()
		i = next
	}
	ndx2 = append(ndx2, ndxTop)

	stacks1 := len(ndx1) - 1
	stacks2 := len(ndx2) - 1
	stacks := stacks1
	if stacks2 > stacks {
		stacks = stacks2
	}
	if stacks < 2 || len1 < tolerance || len2 < tolerance {
		d.cur = nil
		return false
	}

	ring := stacks - 1
	ringBySize := ring * hSize
	bot := ringBySize
	top := bot + 1

	points := make([]v3.Vec, 0, ringBySize+2)
	indices := make([][3]int, 0, ringBySize*2)

	// Bottom fan.
	for i := 0; i < hSize; i++ {
		indices = append(indices, [3]int{i, bot, (i + 1) % hSize})
	}

	dtSeg1 := vertical[ndx1[0]].Sub(vertical[ndx1[1]]).Length() / len1
	dtSeg2 := vertical[ndx2[0]].Sub(vertical[ndx2[1]]).Length() / len2
	dt1, dt2 := dtSeg1, dtSeg2
	i1, i2 := 0, 0
	cur := 0

	for iStacks := 1; iStacks < stacks; iStacks++ {
		t := float64(iStacks) / float64(stacks)

		var p1, p2 v3.Vec
		if stacks1 != stacks {
			for dt1 < t {
				i1++
				dtSeg1 = vertical[ndx1[i1]].Sub(vertical[ndx1[i1+1]]).Length() / len1
				if dtSeg1 > tolerance {
					dt1 += dtSeg1
				}
			}
			alpha1 := (dt1 - t) / dtSeg1
			p1 = vertical[ndx1[i1+1]].MulScalar(1 - alpha1).Add(vertical[ndx1[i1]].MulScalar(alpha1))
		} else {
			i1++
			p1 = vertical[ndx1[i1]]
		}

		if stacks2 != stacks {
			for dt2 < t {
				i2++
				dtSeg2 = vertical[ndx2[i2]].Sub(vertical[ndx2[i2+1]]).Length() / len2
				if dtSeg2 > tolerance {
					dt2 += dtSeg2
				}
			}
			alpha2 := (dt2 - t) / dtSeg2
			p2 = vertical[ndx2[i2+1]].MulScalar(1 - alpha2).Add(vertical[ndx2[i2]].MulScalar(alpha2))
		} else {
			i2++
			p2 = vertical[ndx2[i2]]
		}

		// Map the horizontal profile onto [p1, p2]: rotate to the
		// segment's elevation, scale by |p1p2|/width, translate to the
		// midpoint.
		p12 := p2.Sub(p1)
		if p12.X < epsilon {
			p12 = p12.Neg()
		}
		norm := p12.Length()
		if norm < tolerance {
			d.cur = nil
			return false
		}
		cosA := p12.X / norm
		sinA := p12.Y / norm
		sf := norm / width
		vx := (p1.X + p2.X) / 2
		vy := (p1.Y + p2.Y) / 2

		for hPoint := 0; hPoint < hSize; hPoint++ {
			p := horizontal[hPoint]
			points = append(points, v3.Vec{
				X: cosA*sf*(p.X-xCenter) + vx,
				Y: sf*(p.Y-yCenter) + yCenter,
				Z: sinA*sf*(p.X-xCenter) + vy,
			})

			hNext := (hPoint + 1) % hSize
			if iStacks != stacks-1 {
				indices = append(indices,
					[3]int{cur + hPoint, cur + hNext, cur + hNext + hSize},
					[3]int{cur + hPoint, cur + hNext + hSize, cur + hPoint + hSize})
			} else {
				indices = append(indices, [3]int{cur + hPoint, cur + hNext, top})
			}
		}

		cur += hSize
	}

	points = append(points,
		v3.Vec{X: vertical[ndxBot].X, Y: yCenter, Z: vertical[ndxBot].Y},
		v3.Vec{X: vertical[ndxTop].X, Y: yCenter, Z: vertical[ndxTop].Y})

	skeleton := scenegraph.NewSegment(v3.Vec{}, v3.Vec{})
	d.cur = scenegraph.NewTriangleSet(points, indices, h.CCW, true, skeleton)
	d.updateCache(h)
	return true
}
