package concurrency

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCancellable_DefaultFalse(t *testing.T) {
	var c Cancellable
	assert.False(t, c.Cancelled())
}

func TestCancellable_CancelAndReset(t *testing.T) {
	var c Cancellable
	c.Cancel()
	assert.True(t, c.Cancelled())

	c.Reset()
	assert.False(t, c.Cancelled())
}

func TestCancellable_ConcurrentAccess(t *testing.T) {
	var c Cancellable
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Cancel()
			_ = c.Cancelled()
		}()
	}
	wg.Wait()
	assert.True(t, c.Cancelled())
}
