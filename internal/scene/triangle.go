package scene

import (
	"math"

	"github.com/kdsah/raytracer/pkg/geometry"
)

// epsilon guards the Moller-Trumbore test against near-parallel rays.
const epsilon = 1e-9

// Triangle is a geometry.Primitive over three vertices.
type Triangle struct {
	A, B, C geometry.Vec3
}

// AABB returns the triangle's axis-aligned bounding box.
func (tr Triangle) AABB() geometry.AABB {
	min := tr.A.Min(tr.B).Min(tr.C)
	max := tr.A.Max(tr.B).Max(tr.C)
	return geometry.AABB{Min: min, Max: max}
}

// Intersect reports whether ray hits the triangle at a positive
// parameter.
func (tr Triangle) Intersect(ray geometry.Ray) bool {
	t, ok := tr.hit(ray)
	return ok && t > 0
}

// IntersectHit updates hit if the triangle's intersection with ray is
// closer than hit's current T.
func (tr Triangle) IntersectHit(ray geometry.Ray, hit *geometry.Hit) bool {
	t, ok := tr.hit(ray)
	if !ok || t <= 0 || t >= hit.T {
		return false
	}
	hit.T = t
	hit.Point = ray.At(t)
	hit.Normal = tr.B.Sub(tr.A).Cross(tr.C.Sub(tr.A)).Normalize()
	return true
}

// hit implements the Moller-Trumbore ray/triangle intersection test.
func (tr Triangle) hit(ray geometry.Ray) (float64, bool) {
	edge1 := tr.B.Sub(tr.A)
	edge2 := tr.C.Sub(tr.A)
	pvec := ray.Direction.Cross(edge2)
	det := edge1.Dot(pvec)

	if math.Abs(det) < epsilon {
		return 0, false
	}
	invDet := 1 / det

	tvec := ray.Origin.Sub(tr.A)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(edge1)
	v := ray.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := edge2.Dot(qvec) * invDet
	return t, true
}
