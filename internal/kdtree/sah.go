package kdtree

import (
	"math"

	"github.com/kdsah/raytracer/pkg/geometry"
)

// costModel carries the SAH cost weights read from configuration. It is
// threaded explicitly through the sweep rather than read off package
// constants so a build can be tuned per call without a global.
type costModel struct {
	traversalCost    float64
	intersectionCost float64
	emptyBonus       float64
}

// splitCost scores one side of a candidate plane.
func splitCost(cm costModel, probabilityLeft, probabilityRight float64, nLeft, nRight uint32) float64 {
	cost := cm.traversalCost + cm.intersectionCost*(probabilityLeft*float64(nLeft)+probabilityRight*float64(nRight))
	if nLeft == 0 || nRight == 0 {
		cost *= cm.emptyBonus
	}
	return cost
}

// surfaceAreaHeuristic scores pl against box, resolving its
// side-if-in-plane tie-break to whichever hypothesis is cheaper, and
// returns the resulting cost.
func surfaceAreaHeuristic(cm costModel, pl *plane, box geometry.AABB, invSurfaceArea float64, nLeft, nRight, nPlane uint32) float64 {
	left, right := box.Split(int(pl.axis), pl.position)

	probabilityLeft := left.SurfaceArea() * invSurfaceArea
	probabilityRight := right.SurfaceArea() * invSurfaceArea

	costLeft := splitCost(cm, probabilityLeft, probabilityRight, nLeft+nPlane, nRight)
	costRight := splitCost(cm, probabilityLeft, probabilityRight, nLeft, nRight+nPlane)

	if costLeft < costRight {
		pl.sideIfInPlane = sideLeft
		return costLeft
	}
	pl.sideIfInPlane = sideRight
	return costRight
}

// findPlane sweeps input's sorted events once, returning the
// lowest-cost candidate plane and the primitive counts either side of
// it. Complexity is O(len(events)).
func findPlane(cm costModel, in *buildInput) (best plane, nLeftBest, nPlaneBest, nRightBest uint32, costBest float64) {
	costBest = math.Inf(1)
	invSurfaceArea := 1 / in.aabb.SurfaceArea()
	n := uint32(len(in.indices))

	var nLeft, nPlane [3]uint32
	nRight := [3]uint32{n, n, n}

	events := in.events
	i := 0
	for i < len(events) {
		axis := events[i].axis
		position := events[i].position
		cand := plane{axis: axis, position: position}

		start := i
		for i < len(events) && events[i].axis == axis && events[i].position == position && events[i].typ == eventEnd {
			i++
		}
		pEnd := uint32(i - start)

		start = i
		for i < len(events) && events[i].axis == axis && events[i].position == position && events[i].typ == eventPlanar {
			i++
		}
		pPlanar := uint32(i - start)

		start = i
		for i < len(events) && events[i].axis == axis && events[i].position == position && events[i].typ == eventStart {
			i++
		}
		pStart := uint32(i - start)

		nPlane[axis] = pPlanar
		nRight[axis] -= pPlanar + pEnd

		cost := surfaceAreaHeuristic(cm, &cand, in.aabb, invSurfaceArea, nLeft[axis], nRight[axis], nPlane[axis])
		if cost < costBest {
			costBest = cost
			best = cand
			nLeftBest = nLeft[axis]
			nPlaneBest = nPlane[axis]
			nRightBest = nRight[axis]
		}

		nLeft[axis] += pStart + pPlanar
		nPlane[axis] = 0
	}

	return best, nLeftBest, nPlaneBest, nRightBest, costBest
}
