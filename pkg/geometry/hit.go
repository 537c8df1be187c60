package geometry

import "math"

// Hit records the closest valid ray intersection found so far. Intersect
// implementations must only overwrite it when the new intersection is
// closer than the one already recorded (spec §6, primitive contract).
type Hit struct {
	T      float64
	Point  Vec3
	Normal Vec3
}

// NewHit returns a Hit with T set to +Inf, ready to accumulate the closest
// intersection.
func NewHit() Hit {
	return Hit{T: math.Inf(1)}
}

// Primitive is the interface the kd-tree stores references to and
// implements itself once built (spec §3, §6).
type Primitive interface {
	// AABB returns a finite bounding box for the primitive.
	AABB() AABB
	// Intersect reports whether ray hits the primitive at all
	// (any-hit mode). Must be deterministic and side-effect free.
	Intersect(ray Ray) bool
	// IntersectHit updates hit if the primitive's intersection with ray
	// is closer than hit's current T, and reports whether it updated
	// hit; an intersection at or beyond hit's current T reports false.
	IntersectHit(ray Ray, hit *Hit) bool
}
