package kdtree

import (
	"sort"

	"github.com/kdsah/raytracer/pkg/geometry"
)

// maxEventsPerIntersectable bounds event count per primitive: at most a
// START+END pair on each of 3 axes.
const maxEventsPerIntersectable = 6

// buildInput is the per-recursion-level working set: the primitive
// indices still live at this node, their sorted boundary events clipped
// to aabb, and aabb itself.
type buildInput struct {
	indices []uint32
	events  []event
	aabb    geometry.AABB
}

// classifyIntersectables labels every index in in against pl, using a
// scratch buffer pulled from ctx's side-classification pool. The caller
// owns the returned slice and must release it back to the pool once
// done partitioning.
func classifyIntersectables(ctx *buildContext, in *buildInput, pl plane) []sideOfPlane {
	sides := ctx.acquireSides()

	for _, i := range in.indices {
		sides[i] = sideBoth
	}

	for _, e := range in.events {
		switch {
		case e.typ == eventEnd && e.axis == pl.axis && e.position <= pl.position:
			sides[e.index] = sideLeftOnly
		case e.typ == eventStart && e.axis == pl.axis && e.position >= pl.position:
			sides[e.index] = sideRightOnly
		case e.typ == eventPlanar && e.axis == pl.axis:
			switch {
			case e.position < pl.position || (e.position == pl.position && pl.sideIfInPlane == sideLeft):
				sides[e.index] = sideLeftOnly
			case e.position > pl.position || (e.position == pl.position && pl.sideIfInPlane == sideRight):
				sides[e.index] = sideRightOnly
			}
		}
	}

	return sides
}

// splitBuildInput partitions in by pl into left/right children. The
// exact counts from findPlane size the index slices so no reallocation
// occurs; events are partitioned directly where possible and
// regenerated (then merged back into sorted order) for primitives that
// straddle the plane.
func splitBuildInput(ctx *buildContext, in buildInput, pl plane, nLeft, nPlane, nRight uint32) (left, right buildInput) {
	numLeft := nLeft
	numRight := nRight
	if pl.sideIfInPlane == sideLeft {
		numLeft += nPlane
	} else {
		numRight += nPlane
	}

	leftAABB, rightAABB := in.aabb.Split(int(pl.axis), pl.position)
	left.aabb = leftAABB
	right.aabb = rightAABB
	left.indices = make([]uint32, 0, numLeft)
	right.indices = make([]uint32, 0, numRight)
	left.events = make([]event, 0, uint64(numLeft)*maxEventsPerIntersectable)
	right.events = make([]event, 0, uint64(numRight)*maxEventsPerIntersectable)

	sides := classifyIntersectables(ctx, &in, pl)
	defer ctx.releaseSides(sides)

	for _, e := range in.events {
		switch sides[e.index] {
		case sideLeftOnly:
			left.events = append(left.events, e)
		case sideRightOnly:
			right.events = append(right.events, e)
		}
	}

	leftSorted := len(left.events)
	rightSorted := len(right.events)

	for _, i := range in.indices {
		switch sides[i] {
		case sideBoth:
			box := ctx.primitives[i].AABB()

			left.indices = append(left.indices, i)
			left.events = generateEvents(i, box.Intersection(left.aabb), left.events)

			right.indices = append(right.indices, i)
			right.events = generateEvents(i, box.Intersection(right.aabb), right.events)
		case sideLeftOnly:
			left.indices = append(left.indices, i)
		case sideRightOnly:
			right.indices = append(right.indices, i)
		}
	}

	mergeSortedSuffix(left.events, leftSorted)
	mergeSortedSuffix(right.events, rightSorted)

	return left, right
}

// mergeSortedSuffix sorts events[sorted:] and merges it with the
// already-sorted events[:sorted] through a temporary slice, copying the
// merged result back into events.
func mergeSortedSuffix(events []event, sorted int) {
	tail := events[sorted:]
	sort.Slice(tail, func(i, j int) bool { return lessEvent(tail[i], tail[j]) })

	merged := make([]event, 0, len(events))
	i, j := 0, sorted
	for i < sorted && j < len(events) {
		if lessEvent(events[i], events[j]) {
			merged = append(merged, events[i])
			i++
		} else {
			merged = append(merged, events[j])
			j++
		}
	}
	merged = append(merged, events[i:sorted]...)
	merged = append(merged, events[j:]...)
	copy(events, merged)
}
