package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestDeterministicClock_AdvancesByStep(t *testing.T) {
	c := NewDeterministicClock(epoch, time.Minute)

	assert.Equal(t, epoch, c.Now())
	assert.Equal(t, epoch.Add(time.Minute), c.Now())
	assert.Equal(t, epoch.Add(2*time.Minute), c.Peek())
	assert.Equal(t, epoch.Add(2*time.Minute), c.Peek())
}

func TestDeterministicClock_Set(t *testing.T) {
	c := NewDeterministicClock(epoch, time.Second)
	next := epoch.AddDate(0, 0, 1)

	c.Set(next)

	assert.Equal(t, next, c.Now())
}

func TestDeterministicClock_ConcurrentReadingsAreDistinct(t *testing.T) {
	c := NewDeterministicClock(epoch, time.Second)
	seen := make(map[time.Time]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			now := c.Now()
			mu.Lock()
			seen[now] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
	assert.Equal(t, epoch.Add(50*time.Second), c.Peek())
}
