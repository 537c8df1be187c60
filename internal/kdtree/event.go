// Package kdtree implements the parallel SAH kd-tree builder and
// traverser: the spatial acceleration structure the rest of this toolkit
// indexes primitives with.
package kdtree

import "github.com/kdsah/raytracer/pkg/geometry"

// eventType orders the three kinds of boundary event at equal
// (position, axis): END < PLANAR < START.
type eventType uint8

const (
	eventEnd eventType = iota
	eventPlanar
	eventStart
)

// event is a boundary record of one primitive on one axis, used by the
// O(N log N) sweep in findPlane.
type event struct {
	position float64
	index    uint32
	axis     uint8
	typ      eventType
}

// lessEvent orders events lexicographically by (position, axis, type),
// the order findPlane's single sweep relies on.
func lessEvent(a, b event) bool {
	if a.position != b.position {
		return a.position < b.position
	}
	if a.axis != b.axis {
		return a.axis < b.axis
	}
	return a.typ < b.typ
}

// side resolves tie-breaking for a primitive planar on the split axis at
// the split position.
type side uint8

const (
	sideLeft side = iota
	sideRight
)

// plane is a candidate split position on one axis.
type plane struct {
	axis          uint8
	position      float64
	sideIfInPlane side
}

// sideOfPlane classifies a primitive against a chosen plane during input
// split.
type sideOfPlane uint8

const (
	sideBoth sideOfPlane = iota
	sideLeftOnly
	sideRightOnly
)

// generateEvents appends the boundary events for one primitive's
// (possibly clipped) bounding box to events. A box planar on an axis
// contributes a single PLANAR event there instead of a START/END pair.
func generateEvents(index uint32, box geometry.AABB, events []event) []event {
	for axis := uint8(0); axis < 3; axis++ {
		min := box.Min.Get(int(axis))
		max := box.Max.Get(int(axis))

		if box.IsPlanar(int(axis)) {
			events = append(events, event{position: min, index: index, axis: axis, typ: eventPlanar})
		} else {
			events = append(events, event{position: min, index: index, axis: axis, typ: eventStart})
			events = append(events, event{position: max, index: index, axis: axis, typ: eventEnd})
		}
	}
	return events
}
