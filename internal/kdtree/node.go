package kdtree

import "github.com/kdsah/raytracer/pkg/errors"

// Packed node header layout: bits 0-1 hold the axis (3 means leaf), bits
// 2-31 hold the right-child relative offset (internal) or index count
// (leaf). maxPackedValue is the largest value either field can hold.
const (
	axisBits       = 2
	axisMask       = 0x3
	leafAxis       = 3
	maxPackedValue = 0x3fffffff // 2^30 - 1
)

// packedNode is the runtime, flattened tree node. Logically it is a
// single 32-bit header unioned with an 8-byte real payload, i.e. 12
// bytes (spec: 4 + sizeof(real)); this Go representation keeps the
// union's two interpretations as separate fields rather than reusing
// the same bytes via unsafe, trading the literal 12-byte footprint for
// a representation that doesn't need unsafe.Pointer tricks to stay
// memory-safe.
type packedNode struct {
	header        uint32
	splitPosition float64
	indexOffset   uint32
}

func newSplitPackedNode(axis uint8, position float64) packedNode {
	return packedNode{header: uint32(axis & axisMask), splitPosition: position}
}

func newLeafPackedNode(count, offset uint32) (packedNode, error) {
	if count > maxPackedValue {
		return packedNode{}, errors.Wrap(errors.CodeCapacityExceeded, "leaf index count overflows packed field", nil)
	}
	return packedNode{
		header:      leafAxis | (count << axisBits),
		indexOffset: offset,
	}, nil
}

func (n *packedNode) isLeaf() bool { return n.header&axisMask == leafAxis }

func (n *packedNode) splitAxis() uint8 { return uint8(n.header & axisMask) }

func (n *packedNode) indexCount() uint32 { return n.header >> axisBits }

func (n *packedNode) rightOffset() uint32 { return n.header >> axisBits }

func (n *packedNode) setRightOffset(offset uint32) error {
	if offset > maxPackedValue {
		return errors.Wrap(errors.CodeCapacityExceeded, "right-child offset overflows packed field", nil)
	}
	n.header |= offset << axisBits
	return nil
}

// flatten walks root depth-first, appending packed nodes to nodes and
// leaf index windows (for leaves holding more than one index) to
// indices. It returns the grown slices.
func flatten(nodes []packedNode, indices []uint32, root *buildNode) ([]packedNode, []uint32, error) {
	if root.isLeaf() {
		if len(root.indices) == 1 {
			n, err := newLeafPackedNode(1, root.indices[0])
			if err != nil {
				return nil, nil, err
			}
			return append(nodes, n), indices, nil
		}

		offset := uint32(len(indices))
		n, err := newLeafPackedNode(uint32(len(root.indices)), offset)
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
		indices = append(indices, root.indices...)
		return nodes, indices, nil
	}

	pos := len(nodes)
	nodes = append(nodes, newSplitPackedNode(root.splitAxis, root.position))

	nodes, indices, err := flatten(nodes, indices, root.left)
	if err != nil {
		return nil, nil, err
	}

	if err := nodes[pos].setRightOffset(uint32(len(nodes) - pos)); err != nil {
		return nil, nil, err
	}

	return flatten(nodes, indices, root.right)
}
