// Package scene provides small geometry.Primitive implementations used
// to exercise the kd-tree builder and traverser: a sphere and a
// triangle, the two shapes the property and scenario tests build scenes
// out of.
package scene

import (
	"math"

	"github.com/kdsah/raytracer/pkg/geometry"
)

// Sphere is a geometry.Primitive centered at Center with radius Radius.
type Sphere struct {
	Center geometry.Vec3
	Radius float64
}

// AABB returns the sphere's axis-aligned bounding box.
func (s Sphere) AABB() geometry.AABB {
	r := geometry.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return geometry.AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Intersect reports whether ray hits the sphere at a positive
// parameter.
func (s Sphere) Intersect(ray geometry.Ray) bool {
	t, ok := s.hit(ray)
	return ok && t > 0
}

// IntersectHit updates hit if the sphere's nearest positive intersection
// with ray is closer than hit's current T.
func (s Sphere) IntersectHit(ray geometry.Ray, hit *geometry.Hit) bool {
	t, ok := s.hit(ray)
	if !ok || t <= 0 || t >= hit.T {
		return false
	}
	point := ray.At(t)
	hit.T = t
	hit.Point = point
	hit.Normal = point.Sub(s.Center).Normalize()
	return true
}

// hit solves the sphere/ray quadratic and returns the nearest positive
// root, if any.
func (s Sphere) hit(ray geometry.Ray) (float64, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)
	t := (-halfB - sqrtD) / a
	if t > 0 {
		return t, true
	}
	t = (-halfB + sqrtD) / a
	if t > 0 {
		return t, true
	}
	return 0, false
}
