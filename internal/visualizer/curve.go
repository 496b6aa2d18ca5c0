package visualizer

import "github.com/go-gl/mathgl/mgl64"

// CatmullRom appends a uniform Catmull-Rom spline through pts to dst. The first
// and last points are repeated as phantom controls so the curve starts and
// ends on them. Each span is sampled detail times; the final point is always
// emitted. Fewer than two points produce nothing.
func CatmullRom(dst []mgl64.Vec3, pts []mgl64.Vec3, detail int) []mgl64.Vec3 {
	n := len(pts)
	if n < 2 {
		return dst
	}
	if detail < 1 {
		detail = 1
	}

	for i := 0; i < n-1; i++ {
		p0 := pts[max(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[min(i+2, n-1)]
		for s := range detail {
			dst = append(dst, catmullRomPoint(p0, p1, p2, p3, float64(s)/float64(detail)))
		}
	}
	return append(dst, pts[n-1])
}

func catmullRomPoint(p0, p1, p2, p3 mgl64.Vec3, t float64) mgl64.Vec3 {
	t2 := t * t
	t3 := t2 * t
	a := p1.Mul(2)
	b := p2.Sub(p0).Mul(t)
	c := p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(t2)
	d := p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(t3)
	return a.Add(b).Add(c).Add(d).Mul(0.5)
}
