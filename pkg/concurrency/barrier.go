package concurrency

import "sync"

// Barrier is a reusable N-party rendezvous. ArriveAndWait blocks until N
// goroutines have arrived, then releases all of them and resets for the
// next generation. The builder uses one exactly once per build, during
// worker warm-up, to ensure every worker has allocated its per-worker
// scratch before any splitting begins (spec §4.2).
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	arrived    int
	generation int
}

// NewBarrier creates a barrier for the given number of parties. Panics if
// parties is not positive.
func NewBarrier(parties int) *Barrier {
	if parties <= 0 {
		panic("concurrency: barrier parties must be positive")
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// ArriveAndWait blocks until all parties have called it, then releases
// every waiter and rolls over to the next generation.
func (b *Barrier) ArriveAndWait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.generation
	b.arrived++

	if b.arrived == b.parties {
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()
		return
	}

	for gen == b.generation {
		b.cond.Wait()
	}
}
