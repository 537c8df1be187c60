package kdtree

import (
	"context"
	"math"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kdsah/raytracer/pkg/concurrency"
	"github.com/kdsah/raytracer/pkg/config"
	"github.com/kdsah/raytracer/pkg/errors"
	"github.com/kdsah/raytracer/pkg/geometry"
	"github.com/kdsah/raytracer/pkg/parallel"
	"github.com/kdsah/raytracer/pkg/utils"
)

// absoluteMaxDepth bounds both the recursion depth budget and the fixed
// traversal stack; config.BuildConfig.MaxAbsoluteDepth tunes the budget
// within this ceiling but can never exceed it, since the traversal
// stack below is sized at compile time.
const absoluteMaxDepth = 64

var tracer = otel.Tracer("kdtree")

// maxDepthLimit returns the recursion depth budget for n primitives,
// capped at whichever is smaller: configuredMax (as loaded from
// config.BuildConfig.MaxAbsoluteDepth) or absoluteMaxDepth.
func maxDepthLimit(n int, configuredMax int) int {
	ceiling := configuredMax
	if ceiling <= 0 || ceiling > absoluteMaxDepth {
		ceiling = absoluteMaxDepth
	}
	depth := int(1.3*math.Log2(float64(n)) + 8.0 + 0.5)
	if depth > ceiling {
		return ceiling
	}
	if depth < 0 {
		return 0
	}
	return depth
}

// initialBuildInput computes each primitive's AABB, generates its
// boundary events, merges the root AABB, and sorts every axis's events
// together in one pass.
func initialBuildInput(ctx *buildContext) buildInput {
	n := len(ctx.primitives)
	in := buildInput{
		indices: make([]uint32, n),
		events:  make([]event, 0, n*maxEventsPerIntersectable),
		aabb:    geometry.EmptyAABB(),
	}

	for i := 0; i < n; i++ {
		box := ctx.primitives[i].AABB()
		in.indices[i] = uint32(i)
		in.events = generateEvents(uint32(i), box, in.events)
		in.aabb = in.aabb.Merge(box)
	}

	sort.Slice(in.events, func(i, j int) bool { return lessEvent(in.events[i], in.events[j]) })

	return in
}

// createBuildNode recursively builds the subtree for in, terminating
// early as a leaf if the depth budget is exhausted, the input has
// collapsed to at most one primitive, cancellation has been observed,
// or the SAH says splitting isn't worth it. Large enough right subtrees
// are offloaded to the pool when a worker is idle; the left subtree
// always recurses on the calling goroutine.
func createBuildNode(ctx *buildContext, maxDepth int, in buildInput) *buildNode {
	node := ctx.allocNode()
	count := uint32(len(in.indices))

	createLeaf := maxDepth == 0 || count <= 1 || ctx.cancellable.Cancelled()

	var pl plane
	var nLeft, nPlane, nRight uint32
	if !createLeaf {
		var cost float64
		pl, nLeft, nPlane, nRight, cost = findPlane(ctx.cm, &in)
		createLeaf = cost >= ctx.cfg.IntersectionCost*float64(count)
	}

	if createLeaf {
		node.splitAxis = 3
		node.indices = in.indices
		return node
	}

	left, right := splitBuildInput(ctx, in, pl, nLeft, nPlane, nRight)

	node.splitAxis = pl.axis
	node.position = pl.position

	if int(count) > ctx.cfg.ParallelThreshold && ctx.pool.IdleWorkers() > 0 {
		future := parallel.Async(ctx.pool, func() *buildNode {
			return createBuildNode(ctx, maxDepth-1, right)
		})
		node.left = createBuildNode(ctx, maxDepth-1, left)
		node.right = future.Get()
	} else {
		node.left = createBuildNode(ctx, maxDepth-1, left)
		node.right = createBuildNode(ctx, maxDepth-1, right)
	}

	return node
}

// Build constructs a KdTree over primitives. cancellable, if polled true
// at any point during recursion, causes every not-yet-started subtree to
// terminate immediately as a leaf holding its remaining indices; the
// returned tree is always well-formed either way. pool supplies the
// worker goroutines the right-subtree offload uses. cfg supplies the
// SAH cost weights, the per-subtree offload threshold, and the
// recursion depth budget.
func Build(ctx context.Context, primitives []geometry.Primitive, cancellable *concurrency.Cancellable, pool *parallel.BuildPool, cfg config.BuildConfig, logger utils.Logger) (*KdTree, error) {
	if pool == nil {
		return nil, errors.New(errors.CodeConfigError, "build pool must not be nil")
	}

	_, span := tracer.Start(ctx, "kdtree.build", trace.WithAttributes(
		attribute.Int("kdtree.primitive_count", len(primitives)),
	))
	defer span.End()

	timer := utils.NewTimer("kdtree-build", utils.WithLogger(logger))
	timer.Start("build")

	if len(primitives) == 0 {
		timer.StopPhase("build")
		return &KdTree{aabb: geometry.EmptyAABB()}, nil
	}

	bctx := newBuildContext(primitives, cancellable, pool, cfg)
	prepareBuildContext(bctx)

	in := initialBuildInput(bctx)
	rootAABB := in.aabb
	depth := maxDepthLimit(len(primitives), cfg.MaxAbsoluteDepth)

	root := createBuildNode(bctx, depth, in)

	nodeCount, indexCount := bctx.slab.counts()
	nodes := make([]packedNode, 0, nodeCount)
	indices := make([]uint32, 0, indexCount)

	nodes, indices, err := flatten(nodes, indices, root)
	if err != nil {
		return nil, err
	}

	elapsed := timer.StopPhase("build")

	diag := computeDiagnostics(nodes, depth)
	if !cancellable.Cancelled() {
		diag.log(logger, len(primitives), rootAABB, elapsed)
	}

	return &KdTree{
		primitives: primitives,
		indices:    indices,
		nodes:      nodes,
		aabb:       rootAABB,
	}, nil
}
