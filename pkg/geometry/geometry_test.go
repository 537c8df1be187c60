package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	assert.Equal(t, Vec3{5, 7, 9}, a.Add(b))
	assert.Equal(t, Vec3{-3, -3, -3}, a.Sub(b))
	assert.Equal(t, Vec3{2, 4, 6}, a.Scale(2))
	assert.Equal(t, 32.0, a.Dot(b))
	assert.Equal(t, Vec3{-3, 6, -3}, a.Cross(b))
}

func TestVec3_Length_Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	assert.Equal(t, 5.0, v.Length())

	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-12)
}

func TestVec3_Get(t *testing.T) {
	v := Vec3{1, 2, 3}
	assert.Equal(t, 1.0, v.Get(0))
	assert.Equal(t, 2.0, v.Get(1))
	assert.Equal(t, 3.0, v.Get(2))
}

func TestVec3_MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 2, -4}
	assert.Equal(t, Vec3{1, 2, -4}, a.Min(b))
	assert.Equal(t, Vec3{3, 5, -2}, a.Max(b))
}

func TestRay_At(t *testing.T) {
	r := Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{1, 0, 0}}
	assert.Equal(t, Vec3{2, 0, 0}, r.At(2))
}

func TestAABB_Merge(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	b := AABB{Min: Vec3{-1, 0, 0}, Max: Vec3{0.5, 2, 1}}
	m := a.Merge(b)
	assert.Equal(t, Vec3{-1, 0, 0}, m.Min)
	assert.Equal(t, Vec3{1, 2, 1}, m.Max)
}

func TestAABB_Merge_WithEmptyIsIdentity(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	m := EmptyAABB().Merge(a)
	assert.Equal(t, a, m)
}

func TestAABB_Intersection(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{2, 2, 2}}
	b := AABB{Min: Vec3{1, 1, 1}, Max: Vec3{3, 3, 3}}
	i := a.Intersection(b)
	assert.Equal(t, Vec3{1, 1, 1}, i.Min)
	assert.Equal(t, Vec3{2, 2, 2}, i.Max)
}

func TestAABB_Split(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{4, 4, 4}}
	left, right := a.Split(0, 2.5)

	assert.Equal(t, 2.5, left.Max.X)
	assert.Equal(t, 2.5, right.Min.X)
	assert.Equal(t, a.Min, left.Min)
	assert.Equal(t, a.Max, right.Max)
	assert.Equal(t, left.Max.Y, a.Max.Y)
}

func TestAABB_SurfaceArea(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 2, 3}}
	assert.Equal(t, 2.0*(1*2+2*3+3*1), a.SurfaceArea())
}

func TestAABB_SurfaceArea_DegenerateIsZero(t *testing.T) {
	a := AABB{Min: Vec3{1, 0, 0}, Max: Vec3{0, 1, 1}}
	assert.Equal(t, 0.0, a.SurfaceArea())
}

func TestAABB_IsPlanar(t *testing.T) {
	a := AABB{Min: Vec3{0, 5, 0}, Max: Vec3{1, 5, 1}}
	assert.True(t, a.IsPlanar(1))
	assert.False(t, a.IsPlanar(0))
}

func TestAABB_RaySlab_Hit(t *testing.T) {
	box := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	ray := Ray{Origin: Vec3{-5, 0, 0}, Direction: Vec3{1, 0, 0}}

	tMin, tMax, ok := box.RaySlab(ray)
	assert.True(t, ok)
	assert.InDelta(t, 4.0, tMin, 1e-9)
	assert.InDelta(t, 6.0, tMax, 1e-9)
}

func TestAABB_RaySlab_Miss(t *testing.T) {
	box := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	ray := Ray{Origin: Vec3{-5, 5, 0}, Direction: Vec3{1, 0, 0}}

	_, _, ok := box.RaySlab(ray)
	assert.False(t, ok)
}

func TestAABB_RaySlab_ZeroDirectionComponent(t *testing.T) {
	box := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	ray := Ray{Origin: Vec3{0, 0, -5}, Direction: Vec3{0, 0, 1}}

	tMin, tMax, ok := box.RaySlab(ray)
	assert.True(t, ok)
	assert.InDelta(t, 4.0, tMin, 1e-9)
	assert.InDelta(t, 6.0, tMax, 1e-9)
}

func TestAABB_RaySlab_OriginOutsideParallelSlab(t *testing.T) {
	box := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	ray := Ray{Origin: Vec3{0, 5, -5}, Direction: Vec3{0, 0, 1}}

	_, _, ok := box.RaySlab(ray)
	assert.False(t, ok)
}

func TestAABB_RaySlab_NonFiniteDirectionYieldsNoHit(t *testing.T) {
	box := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	ray := Ray{Origin: Vec3{0, 0, 0}, Direction: Vec3{math.NaN(), 0, 0}}

	tMin, tMax, ok := box.RaySlab(ray)
	assert.False(t, ok)
	assert.Equal(t, 0.0, tMin)
	assert.Equal(t, 0.0, tMax)
}

func TestHit_NewHitStartsAtInfinity(t *testing.T) {
	h := NewHit()
	assert.True(t, math.IsInf(h.T, 1))
}
