package kdtree

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/kdsah/raytracer/pkg/geometry"
	"github.com/kdsah/raytracer/pkg/utils"
)

// diagnostics summarizes a completed build, matching the fields spec'd
// for the once-per-build log entry: structural stats, a leaf population
// histogram (0..8, and one bucket for >8), and memory footprint.
type diagnostics struct {
	nodeCount        int
	indexCount       int
	minDepth         int
	maxDepth         int
	maxDepthLimit    int
	leafHistogram    [10]int
	maxIndicesInLeaf int
}

// computeDiagnostics walks the flattened node array once, iteratively
// (its own small fixed stack, mirroring traversal's), to gather depth
// and leaf-population statistics.
func computeDiagnostics(nodes []packedNode, depthLimit int) diagnostics {
	d := diagnostics{maxDepthLimit: depthLimit, minDepth: absoluteMaxDepth + 1}
	d.nodeCount = len(nodes)

	if len(nodes) == 0 {
		d.minDepth = 0
		return d
	}

	type frame struct {
		node  int
		depth int
	}
	stack := make([]frame, 0, absoluteMaxDepth)
	cur := frame{node: 0, depth: 0}

	for {
		n := &nodes[cur.node]
		if n.isLeaf() {
			if cur.depth < d.minDepth {
				d.minDepth = cur.depth
			}
			if cur.depth > d.maxDepth {
				d.maxDepth = cur.depth
			}

			count := int(n.indexCount())
			bucket := count
			if bucket > 9 {
				bucket = 9
			}
			d.leafHistogram[bucket]++
			if count > d.maxIndicesInLeaf {
				d.maxIndicesInLeaf = count
			}
			if count > 1 {
				d.indexCount += count
			}

			if len(stack) == 0 {
				break
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			continue
		}

		stack = append(stack, frame{node: cur.node + int(n.rightOffset()), depth: cur.depth + 1})
		cur = frame{node: cur.node + 1, depth: cur.depth + 1}
	}

	return d
}

type buildStat struct {
	totalTime  time.Duration
	totalCount int
}

var (
	buildStatsMu sync.Mutex
	buildStats   = map[string]*buildStat{}
)

// diagnosticsKey keys the cumulative-average cache on (primitiveCount,
// root AABB corners), the same key the build statistics aggregator uses.
func diagnosticsKey(primitiveCount int, aabb geometry.AABB) string {
	return fmt.Sprintf("%d|%g|%g|%g|%g|%g|%g", primitiveCount,
		aabb.Min.X, aabb.Min.Y, aabb.Min.Z, aabb.Max.X, aabb.Max.Y, aabb.Max.Z)
}

// log emits the diagnostics for one completed build, including the
// cumulative average build time for builds sharing the same
// (primitiveCount, rootAABB) key.
func (d diagnostics) log(logger utils.Logger, primitiveCount int, aabb geometry.AABB, elapsed time.Duration) {
	if logger == nil {
		return
	}

	key := diagnosticsKey(primitiveCount, aabb)
	buildStatsMu.Lock()
	stat, ok := buildStats[key]
	if !ok {
		stat = &buildStat{}
		buildStats[key] = stat
	}
	stat.totalTime += elapsed
	stat.totalCount++
	avg := stat.totalTime / time.Duration(stat.totalCount)
	count := stat.totalCount
	buildStatsMu.Unlock()

	logger.WithFields(map[string]interface{}{
		"build_time":          elapsed.String(),
		"average_build_time":  avg.String(),
		"builds":              count,
		"primitives":          primitiveCount,
		"nodes":               d.nodeCount,
		"indices":             d.indexCount,
		"min_depth":           d.minDepth,
		"max_depth":           d.maxDepth,
		"max_depth_limit":     d.maxDepthLimit,
		"leaf_histogram":      d.leafHistogram,
		"max_indices_in_leaf": d.maxIndicesInLeaf,
		"primitives_memory":   primitiveCount * int(unsafe.Sizeof(geometry.Primitive(nil))),
		"nodes_memory":        d.nodeCount * int(unsafe.Sizeof(packedNode{})),
		"indices_memory":      d.indexCount * int(unsafe.Sizeof(uint32(0))),
		"aabb_min":            [3]float64{aabb.Min.X, aabb.Min.Y, aabb.Min.Z},
		"aabb_max":            [3]float64{aabb.Max.X, aabb.Max.Y, aabb.Max.Z},
	}).Info("kd-tree build complete")
}
