package discretize

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/verdure/pkg/scenegraph"
)

// processSphere builds a ring-stack sphere: stacks-1 rings of slices
// points plus dedicated pole vertices. With texture coordinates on, a
// (slices+1)x(stacks+1) UV grid duplicates the azimuth seam and is wired
// through separate texture indices.
func (d *Discretizer) processSphere(s *scenegraph.Sphere) bool {
	if d.cacheHit(s, true) {
		return true
	}

	slices, stacks := s.Slices, s.Stacks
	ringCount := stacks - 1
	bot := slices * ringCount
	top := bot + 1

	points := make([]v3.Vec, top+1)
	indices := make([][3]int, 0, slices*2*ringCount)

	azStep := 2 * math.Pi / float64(slices)
	elStep := math.Pi / float64(stacks)

	cur := 0
	next := ringCount
	pc := 0

	for i := 0; i < slices; i++ {
		az := float64(i) * azStep
		el := -math.Pi/2 + elStep
		cosAz, sinAz := math.Cos(az), math.Sin(az)
		cosEl := math.Cos(el)

		points[pc] = v3.Vec{X: cosAz * cosEl, Y: sinAz * cosEl, Z: math.Sin(el)}.MulScalar(s.Radius)
		pc++

		indices = append(indices,
			[3]int{cur, bot, next},
			[3]int{cur + ringCount - 1, next + ringCount - 1, top})

		for j := 1; j < ringCount; j++ {
			el += elStep
			cosEl = math.Cos(el)
			points[pc] = v3.Vec{X: cosAz * cosEl, Y: sinAz * cosEl, Z: math.Sin(el)}.MulScalar(s.Radius)
			pc++

			indices = append(indices,
				[3]int{cur + j, cur + j - 1, next + j - 1},
				[3]int{cur + j, next + j - 1, next + j})
		}

		cur = next
		next = (next + ringCount) % (ringCount * slices)
	}
	points[pc] = v3.Vec{Z: -s.Radius}
	pc++
	points[pc] = v3.Vec{Z: s.Radius}

	skeleton := scenegraph.NewSegment(points[bot], points[top])
	t := scenegraph.NewTriangleSet(points, indices, true, true, skeleton)

	if d.ComputeTexCoord {
		t.SetTexCoordList(sphereTexCoords(slices, stacks))
		t.TexIndices = sphereTexIndices(slices, stacks)
	}

	d.cur = t
	d.updateCache(s)
	return true
}

// sphereTexCoords lays out ring rows first (v = j/stacks), then the
// bottom (v=0) and top (v=1) rows, each slices+1 wide to duplicate the
// wrap seam.
func sphereTexCoords(slices, stacks int) []v2.Vec {
	ringCount := stacks - 1
	tex := make([]v2.Vec, 0, (slices+1)*(stacks+1))
	for i := 0; i <= slices; i++ {
		u := float64(i) / float64(slices)
		for j := 1; j <= ringCount; j++ {
			tex = append(tex, v2.Vec{X: u, Y: float64(j) / float64(stacks)})
		}
	}
	for i := 0; i <= slices; i++ {
		tex = append(tex, v2.Vec{X: float64(i) / float64(slices)})
	}
	for i := 0; i <= slices; i++ {
		tex = append(tex, v2.Vec{X: float64(i) / float64(slices), Y: 1})
	}
	return tex
}

// sphereTexIndices mirrors the point topology against the seam-duplicated
// texture grid: rings advance without wrapping.
func sphereTexIndices(slices, stacks int) [][3]int {
	ringCount := stacks - 1
	bot := (slices + 1) * ringCount
	top := bot + slices + 1

	idx := make([][3]int, 0, slices*2*ringCount)
	cur := 0
	next := ringCount
	for i := 0; i < slices; i++ {
		idx = append(idx,
			[3]int{cur, bot + i, next},
			[3]int{cur + ringCount - 1, next + ringCount - 1, top + i})
		for j := 1; j < ringCount; j++ {
			idx = append(idx,
				[3]int{cur + j, cur + j - 1, next + j - 1},
				[3]int{cur + j, next + j - 1, next + j})
		}
		cur = next
		next += ringCount
	}
	return idx
}

// processCone builds a fan from the base ring to the apex; solid cones add
// a base center vertex and a bottom fan.
func (d *Discretizer) processCone(c *scenegraph.Cone) bool {
	if d.cacheHit(c, false) {
		return true
	}

	slices := c.Slices
	offset := 0
	if c.Solid {
		offset = 1
	}

	base := slices
	top := slices + offset

	points := make([]v3.Vec, slices+1+offset)
	indices := make([][3]int, 0, slices*(1+offset))

	angleStep := 2 * math.Pi / float64(slices)
	points[top] = v3.Vec{Z: c.Height}

	cur, next := 0, 1
	for i := 0; i < slices; i++ {
		a := float64(i) * angleStep
		points[i] = v3.Vec{X: math.Cos(a) * c.Radius, Y: math.Sin(a) * c.Radius}

		indices = append(indices, [3]int{cur, next, top})
		if c.Solid {
			indices = append(indices, [3]int{cur, base, next})
		}

		cur = next
		next = (next + 1) % slices
	}

	skeleton := scenegraph.NewSegment(v3.Vec{}, v3.Vec{Z: c.Height})
	d.cur = scenegraph.NewTriangleSet(points, indices, true, c.Solid, skeleton)
	d.updateCache(c)
	return true
}

// processCylinder builds two rings joined by side quads. Solid cylinders
// gain center vertices and triangular caps, producing a mixed-arity face
// set; open ones stay a quad set.
func (d *Discretizer) processCylinder(c *scenegraph.Cylinder) bool {
	if d.cacheHit(c, false) {
		return true
	}
	d.cur = ringPairSolid(c.Radius, c.Height, 1, c.Solid, c.Slices)
	d.updateCache(c)
	return true
}

// processFrustum is the cylinder kernel with the top ring scaled by the
// taper factor.
func (d *Discretizer) processFrustum(f *scenegraph.Frustum) bool {
	if d.cacheHit(f, false) {
		return true
	}
	d.cur = ringPairSolid(f.Radius, f.Height, f.Taper, f.Solid, f.Slices)
	d.updateCache(f)
	return true
}

// ringPairSolid builds the shared cylinder/frustum topology: per slice a
// bottom point at z=0 and a top point at z=height with radius scaled by
// taper.
func ringPairSolid(radius, height, taper float64, solid bool, slices int) scenegraph.ExplicitModel {
	offset := 0
	if solid {
		offset = 2
	}
	base := 2 * slices
	top := base + 1

	points := make([]v3.Vec, 2*slices+offset)
	angleStep := 2 * math.Pi / float64(slices)

	if solid {
		points[top] = v3.Vec{Z: height}
	}

	var quads [][4]int
	var faces [][]int
	pc := 0
	cur, next := 0, 2
	for i := 0; i < slices; i++ {
		a := float64(i) * angleStep
		x := math.Cos(a) * radius
		y := math.Sin(a) * radius
		points[pc] = v3.Vec{X: x, Y: y}
		pc++
		points[pc] = v3.Vec{X: x * taper, Y: y * taper, Z: height}
		pc++

		if solid {
			faces = append(faces,
				[]int{cur, next, next + 1, cur + 1},
				[]int{cur + 1, next + 1, top},
				[]int{cur, base, next})
		} else {
			quads = append(quads, [4]int{cur, next, next + 1, cur + 1})
		}

		cur = next
		next = (next + 2) % (2 * slices)
	}

	skeleton := scenegraph.NewSegment(v3.Vec{}, v3.Vec{Z: height})
	if solid {
		return scenegraph.NewFaceSet(points, faces, true, true, skeleton)
	}
	return scenegraph.NewQuadSet(points, quads, true, false, skeleton)
}

// processParaboloid builds rings of shrinking radius following
// z = height*(1-(r/radius)^shape), closed at the apex and optionally
// capped at the base.
func (d *Discretizer) processParaboloid(p *scenegraph.Paraboloid) bool {
	if d.cacheHit(p, false) {
		return true
	}

	slices, stacks := p.Slices, p.Stacks
	stacksBySlices := stacks * slices

	nPoints := stacksBySlices + 1
	nFaces := stacksBySlices*2 - slices
	if p.Solid {
		nPoints++
		nFaces = stacksBySlices * 2
	}

	points := make([]v3.Vec, nPoints)
	indices := make([][3]int, 0, nFaces)

	angleStep := 2 * math.Pi / float64(slices)
	radiusStep := p.Radius / float64(stacks)

	bot := stacksBySlices
	top := stacksBySlices
	if p.Solid {
		top++
	}

	pc := 0
	cur := 0
	next := stacks
	for i := 0; i < slices; i++ {
		angle := float64(i) * angleStep
		cosA, sinA := math.Cos(angle), math.Sin(angle)

		points[pc] = v3.Vec{X: cosA * p.Radius, Y: sinA * p.Radius}
		pc++

		if p.Solid {
			indices = append(indices, [3]int{cur, bot, next})
		}

		r := p.Radius
		for j := 1; j < stacks; j++ {
			r -= radiusStep
			z := p.Height * (1 - math.Pow(r/p.Radius, p.Shape))
			points[pc] = v3.Vec{X: cosA * r, Y: sinA * r, Z: z}
			pc++

			indices = append(indices,
				[3]int{cur + j, cur + j - 1, next + j - 1},
				[3]int{cur + j, next + j - 1, next + j})
		}

		indices = append(indices, [3]int{cur + stacks - 1, next + stacks - 1, top})

		cur = next
		next = (next + stacks) % stacksBySlices
	}

	if p.Solid {
		points[pc] = v3.Vec{}
		pc++
	}
	points[pc] = v3.Vec{Z: p.Height}

	skeleton := scenegraph.NewSegment(points[bot], points[top])
	d.cur = scenegraph.NewTriangleSet(points, indices, true, p.Solid, skeleton)
	d.updateCache(p)
	return true
}

// processBox emits the eight corners and six quads with explicit per-face
// normals. Size holds half-extents.
func (d *Discretizer) processBox(b *scenegraph.Box) bool {
	if d.cacheHit(b, false) {
		return true
	}

	s := b.Size
	points := []v3.Vec{
		{X: s.X, Y: -s.Y, Z: -s.Z},
		{X: -s.X, Y: -s.Y, Z: -s.Z},
		{X: -s.X, Y: s.Y, Z: -s.Z},
		{X: s.X, Y: s.Y, Z: -s.Z},
		{X: s.X, Y: -s.Y, Z: s.Z},
		{X: -s.X, Y: -s.Y, Z: s.Z},
		{X: -s.X, Y: s.Y, Z: s.Z},
		{X: s.X, Y: s.Y, Z: s.Z},
	}
	indices := [][4]int{
		{0, 1, 2, 3},
		{0, 3, 7, 4},
		{1, 0, 4, 5},
		{2, 1, 5, 6},
		{3, 2, 6, 7},
		{4, 7, 6, 5},
	}

	skeleton := scenegraph.NewSegment(v3.Vec{Z: -s.Z}, v3.Vec{Z: s.Z})
	q := scenegraph.NewQuadSet(points, indices, true, true, skeleton)
	q.Normals = []v3.Vec{
		{Z: -1}, {X: 1}, {Y: -1}, {X: -1}, {Y: 1}, {Z: 1},
	}
	q.NormalPerVertex = false

	d.cur = q
	d.updateCache(b)
	return true
}

// processDisc builds a triangle fan in the z=0 plane, with UVs mapping the
// unit circle into [0,1]^2 when requested.
func (d *Discretizer) processDisc(disc *scenegraph.Disc) bool {
	if d.cacheHit(disc, true) {
		return true
	}

	slices := disc.Slices
	points := make([]v3.Vec, slices+1)
	indices := make([][3]int, 0, slices)
	var tex []v2.Vec
	if d.ComputeTexCoord {
		tex = make([]v2.Vec, slices+1)
	}

	cen := slices
	angleStep := 2 * math.Pi / float64(slices)
	cur, next := 0, 1
	for i := 0; i < slices; i++ {
		c := math.Cos(float64(i) * angleStep)
		s := math.Sin(float64(i) * angleStep)
		points[i] = v3.Vec{X: c * disc.Radius, Y: s * disc.Radius}
		if tex != nil {
			tex[i] = v2.Vec{X: c/2 + 0.5, Y: s/2 + 0.5}
		}
		indices = append(indices, [3]int{cur, next, cen})
		cur = next
		next = (next + 1) % slices
	}
	if tex != nil {
		tex[cen] = v2.Vec{X: 0.5, Y: 0.5}
	}

	skeleton := scenegraph.NewSegment(v3.Vec{}, v3.Vec{})
	t := scenegraph.NewTriangleSet(points, indices, true, false, skeleton)
	t.SetTexCoordList(tex)

	d.cur = t
	d.updateCache(disc)
	return true
}

// cylindrical splits a vector into cylindrical coordinates about z.
type cylindrical struct {
	radius, theta, z float64
}

func toCylindrical(v v3.Vec) cylindrical {
	return cylindrical{radius: math.Hypot(v.X, v.Y), theta: math.Atan2(v.Y, v.X), z: v.Z}
}

func (c cylindrical) vec() v3.Vec {
	return v3.Vec{X: c.radius * math.Cos(c.theta), Y: c.radius * math.Sin(c.theta), Z: c.z}
}

// processAsymmetricHull builds the four-quadrant hull. Peripheral height
// between two quadrant axes follows z1*cos^2 + z2*sin^2; per peripheral
// point a lower fan drops to the bottom apex and an upper fan rises to
// the top apex, each with a (r/R)^shape elevation profile.
func (d *Discretizer) processAsymmetricHull(h *scenegraph.AsymmetricHull) bool {
	if d.cacheHit(h, false) {
		return true
	}

	slices, stacks := h.Slices, h.Stacks
	totalSlices := slices * 4
	totalStacks := stacks * 2
	ringCount := totalStacks - 1
	bot := totalSlices * ringCount
	top := bot + 1

	points := make([]v3.Vec, top+1)
	indices := make([][3]int, 0, ringCount*totalSlices*2)

	azStep := 2 * math.Pi / float64(totalSlices)
	az := 0.0

	pc := 0
	cur := 0
	next := ringCount

	for q := 0; q < 4; q++ {
		var r1, r2, z1, z2 float64
		switch q {
		case 0:
			r1, r2 = h.PosXRadius, h.PosYRadius
			z1, z2 = h.PosXHeight, h.PosYHeight
		case 1:
			r1, r2 = h.NegXRadius, h.PosYRadius
			z1, z2 = h.NegXHeight, h.PosYHeight
		case 2:
			r1, r2 = h.NegXRadius, h.NegYRadius
			z1, z2 = h.NegXHeight, h.NegYHeight
		default:
			r1, r2 = h.PosXRadius, h.NegYRadius
			z1, z2 = h.PosXHeight, h.NegYHeight
		}

		for i := 0; i < slices; i++ {
			cosAz, sinAz := math.Cos(az), math.Sin(az)
			peripheral := v3.Vec{
				X: cosAz * r1,
				Y: sinAz * r2,
				Z: z1*cosAz*cosAz + z2*sinAz*sinAz,
			}

			// Lower fan toward the bottom apex.
			indices = append(indices, [3]int{cur, bot, next})

			cylBot := toCylindrical(h.Bottom.Sub(peripheral))
			rStepBot := cylBot.radius / float64(stacks)
			rIter := 0.0
			for j := 0; j < stacks-1; j++ {
				rIter += rStepBot
				pij := cylindrical{
					radius: rIter,
					theta:  cylBot.theta,
					z:      cylBot.z * math.Pow(rIter/cylBot.radius, h.BottomShape),
				}
				points[pc] = h.Bottom.Sub(pij.vec())
				pc++

				indices = append(indices,
					[3]int{cur + j, next + j, next + j + 1},
					[3]int{cur + j, next + j + 1, cur + j + 1})
			}

			points[pc] = peripheral
			pc++

			// Upper fan toward the top apex.
			cylTop := toCylindrical(h.Top.Sub(peripheral))
			rStepTop := cylTop.radius / float64(stacks)
			rIter = cylTop.radius
			for j := 0; j < stacks-1; j++ {
				rIter -= rStepTop
				pij := cylindrical{
					radius: rIter,
					theta:  cylTop.theta,
					z:      cylTop.z * math.Pow(rIter/cylTop.radius, h.TopShape),
				}
				points[pc] = h.Top.Sub(pij.vec())
				pc++

				indices = append(indices,
					[3]int{cur + stacks - 1 + j, next + stacks - 1 + j, next + stacks + j},
					[3]int{cur + stacks - 1 + j, next + stacks + j, cur + stacks + j})
			}

			indices = append(indices, [3]int{cur + ringCount - 1, next + ringCount - 1, top})

			cur = next
			next = (next + ringCount) % bot
			az += azStep
		}
	}

	points[pc] = h.Bottom
	pc++
	points[pc] = h.Top

	skeleton := scenegraph.NewSegment(h.Bottom, h.Top)
	d.cur = scenegraph.NewTriangleSet(points, indices, true, true, skeleton)
	d.updateCache(h)
	return true
}
