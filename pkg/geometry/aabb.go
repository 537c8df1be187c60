package geometry

import "math"

// AABB is an axis-aligned bounding box, Min <= Max componentwise.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns an AABB with Min at +Inf and Max at -Inf, the identity
// element for Merge.
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
}

// Merge returns the smallest AABB containing both a and b.
func (a AABB) Merge(b AABB) AABB {
	return AABB{Min: a.Min.Min(b.Min), Max: a.Max.Max(b.Max)}
}

// Intersection returns the componentwise-clamped overlap of a and b. The
// result may have Min > Max on some axis if a and b don't overlap there;
// callers that need a validity check should compare against SurfaceArea
// or the individual axis bounds.
func (a AABB) Intersection(b AABB) AABB {
	return AABB{Min: a.Min.Max(b.Min), Max: a.Max.Min(b.Max)}
}

// Split divides a at pos along axis, returning (left, right) such that
// left.Max[axis] = right.Min[axis] = pos. Both halves retain a's bounds
// on the other two axes.
func (a AABB) Split(axis int, pos float64) (left, right AABB) {
	left, right = a, a
	switch axis {
	case 0:
		left.Max.X = pos
		right.Min.X = pos
	case 1:
		left.Max.Y = pos
		right.Min.Y = pos
	default:
		left.Max.Z = pos
		right.Min.Z = pos
	}
	return left, right
}

// SurfaceArea returns the box's total surface area. Degenerate (zero or
// negative extent) boxes return 0.
func (a AABB) SurfaceArea() float64 {
	dx := a.Max.X - a.Min.X
	dy := a.Max.Y - a.Min.Y
	dz := a.Max.Z - a.Min.Z
	if dx < 0 || dy < 0 || dz < 0 {
		return 0
	}
	return 2 * (dx*dy + dy*dz + dz*dx)
}

// IsPlanar reports whether the box has zero extent on the given axis.
func (a AABB) IsPlanar(axis int) bool {
	return a.Min.Get(axis) == a.Max.Get(axis)
}

// RaySlab intersects ray against the box using the slab method, returning
// the entry/exit parameters and whether the interval is non-empty. Per the
// non-finite handling, any non-finite bound or an empty interval yields
// (0, 0, false).
func (a AABB) RaySlab(ray Ray) (tMin, tMax float64, ok bool) {
	tMin, tMax = math.Inf(-1), math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Get(axis)
		dir := ray.Direction.Get(axis)
		lo := a.Min.Get(axis)
		hi := a.Max.Get(axis)

		if dir == 0 {
			if origin < lo || origin > hi {
				return 0, 0, false
			}
			continue
		}

		invDir := 1 / dir
		t1 := (lo - origin) * invDir
		t2 := (hi - origin) * invDir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, 0, false
		}
	}

	if math.IsNaN(tMin) || math.IsNaN(tMax) || math.IsInf(tMin, 0) || math.IsInf(tMax, 0) {
		return 0, 0, false
	}
	return tMin, tMax, true
}
