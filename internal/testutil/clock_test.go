package testutil

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqClock(t *testing.T) {
	clock := NewSeqClock()
	assert.Equal(t, int64(0), clock.Last())

	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())
	assert.Equal(t, int64(2), clock.Last())

	clock.Reset()
	assert.Equal(t, int64(0), clock.Last())
	assert.Equal(t, int64(1), clock.Next(), "first value after reset")
}

func TestSeqClock_Concurrent(t *testing.T) {
	clock := NewSeqClock()
	const workers, calls = 50, 40

	var (
		mu  sync.Mutex
		got []int64
		wg  sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, calls)
			for range calls {
				local = append(local, clock.Next())
			}
			mu.Lock()
			got = append(got, local...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	slices.Sort(got)
	for i, v := range got {
		if v != int64(i+1) {
			t.Fatalf("value %d is %d: duplicate or gap", i, v)
		}
	}
	assert.Equal(t, int64(workers*calls), clock.Last())
}
