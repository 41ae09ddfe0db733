package scenegraph

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// hpoint is a homogeneous control point (x, y, z, w), with coordinates
// premultiplied by the weight.
type hpoint [4]float64

func (a hpoint) add(b hpoint) hpoint {
	return hpoint{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func (a hpoint) sub(b hpoint) hpoint {
	return hpoint{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func (a hpoint) scale(s float64) hpoint {
	return hpoint{a[0] * s, a[1] * s, a[2] * s, a[3] * s}
}

func homogenize3(ctrl []v3.Vec, weights []float64) []hpoint {
	out := make([]hpoint, len(ctrl))
	for i, p := range ctrl {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		out[i] = hpoint{p.X * w, p.Y * w, p.Z * w, w}
	}
	return out
}

func homogenize2(ctrl []v2.Vec, weights []float64) []hpoint {
	out := make([]hpoint, len(ctrl))
	for i, p := range ctrl {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		out[i] = hpoint{p.X * w, p.Y * w, 0, w}
	}
	return out
}

// deCasteljau evaluates a Bezier combination of the control points at u.
func deCasteljau(ctrl []hpoint, u float64) hpoint {
	tmp := append([]hpoint(nil), ctrl...)
	for k := len(tmp) - 1; k > 0; k-- {
		for i := 0; i < k; i++ {
			tmp[i] = tmp[i].scale(1 - u).add(tmp[i+1].scale(u))
		}
	}
	return tmp[0]
}

// bezierDers returns the homogeneous curve value and its first two
// derivatives at u.
func bezierDers(ctrl []hpoint, u float64) (a, a1, a2 hpoint) {
	n := len(ctrl) - 1
	a = deCasteljau(ctrl, u)
	if n >= 1 {
		d1 := make([]hpoint, n)
		for i := 0; i < n; i++ {
			d1[i] = ctrl[i+1].sub(ctrl[i]).scale(float64(n))
		}
		a1 = deCasteljau(d1, u)
		if n >= 2 {
			d2 := make([]hpoint, n-1)
			for i := 0; i < n-1; i++ {
				d2[i] = d1[i+1].sub(d1[i]).scale(float64(n - 1))
			}
			a2 = deCasteljau(d2, u)
		}
	}
	return a, a1, a2
}

// findSpan locates the knot span containing u (The NURBS Book, A2.1).
func findSpan(n, p int, u float64, knots []float64) int {
	if u >= knots[n+1] {
		return n
	}
	if u <= knots[p] {
		return p
	}
	lo, hi := p, n+1
	mid := (lo + hi) / 2
	for u < knots[mid] || u >= knots[mid+1] {
		if u < knots[mid] {
			hi = mid
		} else {
			lo = mid
		}
		mid = (lo + hi) / 2
	}
	return mid
}

// dersBasisFuns computes the nonzero basis functions and their derivatives
// up to the requested order at u (The NURBS Book, A2.3).
func dersBasisFuns(span, p, order int, u float64, knots []float64) [][]float64 {
	ndu := make([][]float64, p+1)
	for i := range ndu {
		ndu[i] = make([]float64, p+1)
	}
	ndu[0][0] = 1
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	for j := 1; j <= p; j++ {
		left[j] = u - knots[span+1-j]
		right[j] = knots[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	ders := make([][]float64, order+1)
	for i := range ders {
		ders[i] = make([]float64, p+1)
	}
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}

	a := [2][]float64{make([]float64, p+1), make([]float64, p+1)}
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= order; k++ {
			d := 0.0
			rk := r - k
			pk := p - k
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			j1 := 1
			if rk < -1 {
				j1 = -rk
			}
			j2 := k - 1
			if r-1 > pk {
				j2 = p - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}
	fac := float64(p)
	for k := 1; k <= order; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= fac
		}
		fac *= float64(p - k)
	}
	return ders
}

// nurbsDers returns the homogeneous curve value and its first two
// derivatives at u for the given knot vector and degree.
func nurbsDers(ctrl []hpoint, knots []float64, p int, u float64) (a, a1, a2 hpoint) {
	n := len(ctrl) - 1
	order := 2
	if p < order {
		order = p
	}
	span := findSpan(n, p, u, knots)
	ders := dersBasisFuns(span, p, order, u, knots)
	var out [3]hpoint
	for k := 0; k <= order; k++ {
		for j := 0; j <= p; j++ {
			out[k] = out[k].add(ctrl[span-p+j].scale(ders[k][j]))
		}
	}
	return out[0], out[1], out[2]
}

// evalRational projects a homogeneous value and its derivatives into
// Euclidean space using the quotient rule.
func evalRational(a, a1, a2 hpoint) (p, d1, d2 v3.Vec) {
	w := a[3]
	if w == 0 {
		w = 1
	}
	p = v3.Vec{X: a[0] / w, Y: a[1] / w, Z: a[2] / w}
	d1 = v3.Vec{
		X: (a1[0] - p.X*a1[3]) / w,
		Y: (a1[1] - p.Y*a1[3]) / w,
		Z: (a1[2] - p.Z*a1[3]) / w,
	}
	d2 = v3.Vec{
		X: (a2[0] - 2*d1.X*a1[3] - p.X*a2[3]) / w,
		Y: (a2[1] - 2*d1.Y*a1[3] - p.Y*a2[3]) / w,
		Z: (a2[2] - 2*d1.Z*a1[3] - p.Z*a2[3]) / w,
	}
	return p, d1, d2
}

// principalNormal returns the component of the second derivative
// orthogonal to the tangent. It is zero where the curve is locally
// straight.
func principalNormal(d1, d2 v3.Vec) v3.Vec {
	l2 := d1.Length2()
	if l2 == 0 {
		return v3.Vec{}
	}
	return d2.Sub(d1.MulScalar(d2.Dot(d1) / l2))
}
