package walls

import (
	"github.com/Faultbox/roomforge/internal/logger"
	"github.com/Faultbox/roomforge/pkg/math"
)

// Triangulate converts an outline (CCW outer ring, CW holes) into a flat list
// of triangle vertices, three per triangle. Holes are first bridged into the
// outer ring, then the resulting simple polygon is ear-clipped.
func Triangulate(o Outline) []math.Vec2 {
	poly := append([]math.Vec2(nil), o.Outer...)

	// Bridge holes right to left so earlier bridges cannot shadow later ones.
	holes := append([][]math.Vec2(nil), o.Holes...)
	sortHolesByRightmost(holes)
	for _, hole := range holes {
		poly = bridgeHole(poly, hole)
	}

	return earClip(poly)
}

func sortHolesByRightmost(holes [][]math.Vec2) {
	rightmost := func(h []math.Vec2) float32 {
		m := h[0].X
		for _, v := range h[1:] {
			if v.X > m {
				m = v.X
			}
		}
		return m
	}
	for i := 1; i < len(holes); i++ {
		for j := i; j > 0 && rightmost(holes[j]) > rightmost(holes[j-1]); j-- {
			holes[j], holes[j-1] = holes[j-1], holes[j]
		}
	}
}

// bridgeHole splices a hole ring into the polygon via a zero-width channel
// between the hole's rightmost vertex and a visible polygon vertex.
func bridgeHole(poly []math.Vec2, hole []math.Vec2) []math.Vec2 {
	m := rightmostIndex(hole)
	bridgeTo := findBridgeVertex(poly, hole[m])
	if bridgeTo < 0 {
		logger.Warn("no bridge vertex found for hole, dropping hole")
		return poly
	}

	// poly[0..bridgeTo], hole[m..], hole[..m], hole[m] again, poly[bridgeTo..]
	out := make([]math.Vec2, 0, len(poly)+len(hole)+2)
	out = append(out, poly[:bridgeTo+1]...)
	for i := 0; i <= len(hole); i++ {
		out = append(out, hole[(m+i)%len(hole)])
	}
	out = append(out, poly[bridgeTo:]...)
	return out
}

func rightmostIndex(ring []math.Vec2) int {
	best := 0
	for i, v := range ring {
		if v.X > ring[best].X {
			best = i
		}
	}
	return best
}

// findBridgeVertex picks the polygon vertex to connect the hole point to:
// cast a ray toward +X from p, find the nearest crossing edge, then take the
// candidate endpoint of that edge, falling back over all vertices right of p
// if the direct candidate is blocked by a reflex vertex.
func findBridgeVertex(poly []math.Vec2, p math.Vec2) int {
	nearestX := float32(1e30)
	candidate := -1

	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		if (a.Y > p.Y) == (b.Y > p.Y) {
			continue // edge does not straddle the ray
		}
		x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
		if x >= p.X && x < nearestX {
			nearestX = x
			// Prefer the endpoint with the larger X; it faces the hole.
			if a.X > b.X {
				candidate = i
			} else {
				candidate = (i + 1) % len(poly)
			}
		}
	}
	if candidate < 0 {
		return -1
	}

	// If another vertex lies inside the triangle (p, intersection, candidate)
	// the channel would cross geometry; fall back to the closest visible
	// vertex right of p inside that triangle.
	ip := math.Vec2{X: nearestX, Y: p.Y}
	best := candidate
	bestDist := poly[candidate].Distance(p)
	for i, v := range poly {
		if i == candidate || v.X < p.X {
			continue
		}
		if pointInTriangle(v, p, ip, poly[candidate]) {
			d := v.Distance(p)
			if d < bestDist {
				best = i
				bestDist = d
			}
		}
	}
	return best
}

// earClip triangulates a simple CCW polygon. Returns triangle vertices, three
// per triangle. On numeric failure the remaining polygon is fan-filled so the
// wall still renders rather than disappearing.
func earClip(poly []math.Vec2) []math.Vec2 {
	n := len(poly)
	if n < 3 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	tris := make([]math.Vec2, 0, (n-2)*3)
	guard := 0
	for len(idx) > 3 {
		clipped := false
		for i := 0; i < len(idx); i++ {
			prev := poly[idx[(i-1+len(idx))%len(idx)]]
			cur := poly[idx[i]]
			next := poly[idx[(i+1)%len(idx)]]

			if cross2(cur.Sub(prev), next.Sub(cur)) <= 0 {
				continue // reflex or collinear
			}

			ear := true
			for _, j := range idx {
				v := poly[j]
				if v == prev || v == cur || v == next {
					continue
				}
				if pointInTriangle(v, prev, cur, next) {
					ear = false
					break
				}
			}
			if !ear {
				continue
			}

			tris = append(tris, prev, cur, next)
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}

		if !clipped {
			guard++
			if guard > 1 {
				logger.Warn("ear clipping stalled, fan-filling remainder")
				for i := 1; i+1 < len(idx); i++ {
					tris = append(tris, poly[idx[0]], poly[idx[i]], poly[idx[i+1]])
				}
				return tris
			}
		}
	}

	tris = append(tris, poly[idx[0]], poly[idx[1]], poly[idx[2]])
	return tris
}

func cross2(a, b math.Vec2) float32 {
	return a.X*b.Y - a.Y*b.X
}

// pointInTriangle tests strict interior containment. Points exactly on an
// edge do not count: bridge channels duplicate vertices collinear with ear
// edges, and those must not block clipping.
func pointInTriangle(p, a, b, c math.Vec2) bool {
	d1 := cross2(b.Sub(a), p.Sub(a))
	d2 := cross2(c.Sub(b), p.Sub(b))
	d3 := cross2(a.Sub(c), p.Sub(c))

	return (d1 > 0 && d2 > 0 && d3 > 0) || (d1 < 0 && d2 < 0 && d3 < 0)
}
