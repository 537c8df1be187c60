package kdtree

import "github.com/kdsah/raytracer/pkg/geometry"

// stackFrame is one entry of the traversal's fixed stack: a node yet to
// be visited and the [tMin, tMax] interval the ray should be clipped to
// while inside it.
type stackFrame struct {
	node int
	tMin float64
	tMax float64
}

// KdTree is the built spatial acceleration structure. It implements
// geometry.Primitive itself, so a tree can be nested inside another
// acceleration structure the same way any leaf primitive can.
type KdTree struct {
	primitives []geometry.Primitive
	indices    []uint32
	nodes      []packedNode
	aabb       geometry.AABB
}

// AABB returns the tree's root bounding box.
func (t *KdTree) AABB() geometry.AABB {
	return t.aabb
}

// Intersect reports whether ray hits any primitive in the tree,
// short-circuiting on the first hit found.
func (t *KdTree) Intersect(ray geometry.Ray) bool {
	return t.intersect(ray, nil)
}

// IntersectHit updates hit with the closest intersection along ray
// across every primitive in the tree and reports whether any
// intersection occurred.
func (t *KdTree) IntersectHit(ray geometry.Ray, hit *geometry.Hit) bool {
	return t.intersect(ray, hit)
}

func (t *KdTree) intersect(ray geometry.Ray, hit *geometry.Hit) bool {
	if len(t.nodes) == 0 {
		return false
	}

	tMin, tMax, ok := t.aabb.RaySlab(ray)
	if !ok {
		return false
	}

	var stack [absoluteMaxDepth]stackFrame
	stackPos := 0

	node := 0
	found := false

	for node >= 0 {
		n := &t.nodes[node]

		if !n.isLeaf() {
			axis := int(n.splitAxis())
			o := ray.Origin.Get(axis)
			d := ray.Direction.Get(axis)
			s := n.splitPosition
			tSplit := (s - o) / d

			var near, far int
			if o < s || (o == s && d <= 0) {
				near, far = node+1, node+int(n.rightOffset())
			} else {
				near, far = node+int(n.rightOffset()), node+1
			}

			switch {
			case tSplit > tMax || tSplit <= 0:
				node = near
			case tSplit < tMin:
				node = far
			default:
				stack[stackPos] = stackFrame{node: far, tMin: tSplit, tMax: tMax}
				stackPos++
				node = near
				tMax = tSplit
			}
			continue
		}

		if t.intersectLeaf(ray, n, hit) {
			found = true
			if hit == nil {
				return true
			}
		}

		if stackPos > 0 {
			stackPos--
			frame := stack[stackPos]
			node = frame.node
			tMin = frame.tMin
			tMax = frame.tMax
		} else {
			node = -1
		}
	}

	return found
}

func (t *KdTree) intersectLeaf(ray geometry.Ray, node *packedNode, hit *geometry.Hit) bool {
	count := node.indexCount()
	offset := node.indexOffset

	if count == 1 {
		return t.intersectOne(ray, offset, hit)
	}

	found := false
	for i := offset; i < offset+count; i++ {
		if t.intersectOne(ray, t.indices[i], hit) {
			found = true
			if hit == nil {
				return true
			}
		}
	}
	return found
}

func (t *KdTree) intersectOne(ray geometry.Ray, index uint32, hit *geometry.Hit) bool {
	p := t.primitives[index]
	if hit == nil {
		return p.Intersect(ray)
	}
	return p.IntersectHit(ray, hit)
}
