package discretize

import (
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// gridTexCoord synthesizes texture coordinates over a sampled grid of
// gw x gh points laid out as pts[u*gh+v]. Each row and column is
// parameterized by cumulative chord length normalized to its total, so
// the UVs follow the surface's arc length rather than the raw parameter.
func gridTexCoord(pts []v3.Vec, gw, gh int) []v2.Vec {
	tex := make([]v2.Vec, gw*gh)

	for u := 0; u < gw; u++ {
		var total float64
		p1 := pts[u*gh]
		for v := 1; v < gh; v++ {
			p2 := pts[u*gh+v]
			total += p2.Sub(p1).Length()
			p1 = p2
		}
		tex[u*gh] = v2.Vec{}
		var acc float64
		p1 = pts[u*gh]
		for v := 1; v < gh; v++ {
			p2 := pts[u*gh+v]
			acc += p2.Sub(p1).Length()
			p1 = p2
			if total > 0 {
				tex[u*gh+v] = v2.Vec{Y: acc / total}
			}
		}
	}

	for v := 0; v < gh; v++ {
		var total float64
		p1 := pts[v]
		for u := 1; u < gw; u++ {
			p2 := pts[u*gh+v]
			total += p2.Sub(p1).Length()
			p1 = p2
		}
		var acc float64
		p1 = pts[v]
		for u := 1; u < gw; u++ {
			p2 := pts[u*gh+v]
			acc += p2.Sub(p1).Length()
			p1 = p2
			if total > 0 {
				tex[u*gh+v].X = acc / total
			}
		}
	}

	return tex
}
