package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdsah/raytracer/pkg/geometry"
)

func TestSphere_AABB(t *testing.T) {
	s := Sphere{Center: geometry.Vec3{X: 1, Y: 2, Z: 3}, Radius: 2}
	box := s.AABB()
	assert.Equal(t, geometry.Vec3{X: -1, Y: 0, Z: 1}, box.Min)
	assert.Equal(t, geometry.Vec3{X: 3, Y: 4, Z: 5}, box.Max)
}

func TestSphere_Intersect_Hit(t *testing.T) {
	s := Sphere{Center: geometry.Vec3{}, Radius: 1}
	ray := geometry.Ray{Origin: geometry.Vec3{X: 0, Y: 0, Z: -5}, Direction: geometry.Vec3{X: 0, Y: 0, Z: 1}}
	assert.True(t, s.Intersect(ray))

	hit := geometry.NewHit()
	assert.True(t, s.IntersectHit(ray, &hit))
	assert.InDelta(t, 4.0, hit.T, 1e-9)
}

func TestSphere_Intersect_Miss(t *testing.T) {
	s := Sphere{Center: geometry.Vec3{}, Radius: 1}
	ray := geometry.Ray{Origin: geometry.Vec3{X: 0, Y: 5, Z: -5}, Direction: geometry.Vec3{X: 0, Y: 0, Z: 1}}
	assert.False(t, s.Intersect(ray))
}

func TestSphere_IntersectHit_DoesNotOverwriteCloserHit(t *testing.T) {
	s := Sphere{Center: geometry.Vec3{}, Radius: 1}
	ray := geometry.Ray{Origin: geometry.Vec3{X: 0, Y: 0, Z: -5}, Direction: geometry.Vec3{X: 0, Y: 0, Z: 1}}
	hit := geometry.Hit{T: 1}

	assert.False(t, s.IntersectHit(ray, &hit))
	assert.Equal(t, 1.0, hit.T)
}

func TestTriangle_AABB(t *testing.T) {
	tr := Triangle{
		A: geometry.Vec3{X: 0, Y: 0, Z: 0},
		B: geometry.Vec3{X: 1, Y: 0, Z: 0},
		C: geometry.Vec3{X: 0, Y: 1, Z: 0},
	}
	box := tr.AABB()
	assert.Equal(t, geometry.Vec3{X: 0, Y: 0, Z: 0}, box.Min)
	assert.Equal(t, geometry.Vec3{X: 1, Y: 1, Z: 0}, box.Max)
}

func TestTriangle_Intersect_Hit(t *testing.T) {
	tr := Triangle{
		A: geometry.Vec3{X: -1, Y: -1, Z: 0},
		B: geometry.Vec3{X: 1, Y: -1, Z: 0},
		C: geometry.Vec3{X: 0, Y: 1, Z: 0},
	}
	ray := geometry.Ray{Origin: geometry.Vec3{X: 0, Y: 0, Z: -5}, Direction: geometry.Vec3{X: 0, Y: 0, Z: 1}}

	assert.True(t, tr.Intersect(ray))

	hit := geometry.NewHit()
	assert.True(t, tr.IntersectHit(ray, &hit))
	assert.InDelta(t, 5.0, hit.T, 1e-9)
}

func TestTriangle_Intersect_Miss(t *testing.T) {
	tr := Triangle{
		A: geometry.Vec3{X: -1, Y: -1, Z: 0},
		B: geometry.Vec3{X: 1, Y: -1, Z: 0},
		C: geometry.Vec3{X: 0, Y: 1, Z: 0},
	}
	ray := geometry.Ray{Origin: geometry.Vec3{X: 10, Y: 10, Z: -5}, Direction: geometry.Vec3{X: 0, Y: 0, Z: 1}}

	assert.False(t, tr.Intersect(ray))
}
