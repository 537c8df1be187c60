// Package kind selects which acceleration structure a scene loader
// should build. The structures themselves are out of this package's
// scope; it only resolves the configuration name to a typed constant
// (or a typed error for an unknown one).
package kind

import "github.com/kdsah/raytracer/pkg/errors"

// IntersectionStructureKind names the acceleration structure a scene
// should be indexed with.
type IntersectionStructureKind int

const (
	// Default lets the loader pick the structure.
	Default IntersectionStructureKind = iota
	// BVH selects a bounding-volume hierarchy (not implemented by this
	// module; kept as a valid selection for loader compatibility).
	BVH
	// KDTree selects the SAH kd-tree this module builds.
	KDTree
)

func (k IntersectionStructureKind) String() string {
	switch k {
	case BVH:
		return "bvh"
	case KDTree:
		return "kdtree"
	default:
		return "default"
	}
}

// Parse resolves name (case-sensitive, as read from scene
// configuration) to its IntersectionStructureKind. An unrecognized name
// yields a CodeInvalidInput error naming the offending source value.
func Parse(name string) (IntersectionStructureKind, error) {
	switch name {
	case "bvh":
		return BVH, nil
	case "kdtree":
		return KDTree, nil
	case "default", "":
		return Default, nil
	default:
		return Default, errors.New(errors.CodeInvalidInput, "unknown intersection structure kind: "+name)
	}
}
