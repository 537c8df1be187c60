package kdtree

import (
	"sync"

	"github.com/kdsah/raytracer/pkg/collections"
	"github.com/kdsah/raytracer/pkg/concurrency"
	"github.com/kdsah/raytracer/pkg/config"
	"github.com/kdsah/raytracer/pkg/geometry"
	"github.com/kdsah/raytracer/pkg/parallel"
)

// buildContext is the shared, read-mostly state threaded explicitly
// through every recursive create call: the primitive set being indexed,
// the cooperative cancellation flag, the pool used to offload right
// subtrees, the loaded SAH/recursion tuning, and the scratch a worker
// needs while splitting.
//
// Go goroutines have no stable OS-thread identity to key a true
// thread-local on, so scratch here is pool-obtained per call instead of
// pinned to a worker slot; prepareBuildContext still uses a barrier to
// prime that pool with correctly sized buffers before any splitting
// begins, the same rendezvous the design this is modeled on performs.
type buildContext struct {
	primitives  []geometry.Primitive
	cancellable *concurrency.Cancellable
	pool        *parallel.BuildPool

	cfg config.BuildConfig
	cm  costModel

	slabMu sync.Mutex
	slab   *nodeSlab

	sidesPool *collections.SlicePool[sideOfPlane]
}

func newBuildContext(primitives []geometry.Primitive, cancellable *concurrency.Cancellable, pool *parallel.BuildPool, cfg config.BuildConfig) *buildContext {
	return &buildContext{
		primitives:  primitives,
		cancellable: cancellable,
		pool:        pool,
		cfg:         cfg,
		cm: costModel{
			traversalCost:    cfg.TraversalCost,
			intersectionCost: cfg.IntersectionCost,
			emptyBonus:       cfg.EmptyBonus,
		},
		slab:      newNodeSlab(),
		sidesPool: collections.NewSlicePool[sideOfPlane](len(primitives)),
	}
}

// prepareBuildContext primes the side-classification scratch pool with
// buffers already sized for this build, using a barrier so every pool
// worker completes its warm-up allocation before the first split runs.
func prepareBuildContext(ctx *buildContext) {
	workers := ctx.pool.IdleWorkers()
	if workers == 0 {
		workers = 1
	}
	count := len(ctx.primitives)
	barrier := concurrency.NewBarrier(workers)

	for w := 0; w < workers; w++ {
		ctx.pool.Submit(func() {
			buf := ctx.sidesPool.Get()
			*buf = make([]sideOfPlane, count)
			ctx.sidesPool.Put(buf)
			barrier.ArriveAndWait()
		})
	}

	ctx.pool.Wait()
}

// acquireSides obtains a side-classification scratch buffer of exactly
// len(ctx.primitives), reused across recursion levels.
func (ctx *buildContext) acquireSides() []sideOfPlane {
	buf := ctx.sidesPool.Get()
	n := len(ctx.primitives)
	if cap(*buf) < n {
		*buf = make([]sideOfPlane, n)
	} else {
		*buf = (*buf)[:n]
	}
	return *buf
}

func (ctx *buildContext) releaseSides(sides []sideOfPlane) {
	s := sides
	ctx.sidesPool.Put(&s)
}

func (ctx *buildContext) allocNode() *buildNode {
	ctx.slabMu.Lock()
	defer ctx.slabMu.Unlock()
	return ctx.slab.alloc()
}
