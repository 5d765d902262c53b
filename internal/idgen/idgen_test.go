package idgen

import (
	"sort"
	"sync"
	"testing"
)

func TestNextIsStrictlyIncreasing(t *testing.T) {
	g := NewGenerator(1)

	prev := g.Next()
	for i := 0; i < 100; i++ {
		id := g.Next()
		if id <= prev {
			t.Fatalf("expected id > %d, got %d", prev, id)
		}
		prev = id
	}
}

func TestNextStartsAtSeed(t *testing.T) {
	g := NewGenerator(42)
	if id := g.Next(); id != 42 {
		t.Errorf("expected first id 42, got %d", id)
	}
	if id := g.Next(); id != 43 {
		t.Errorf("expected second id 43, got %d", id)
	}
}

func TestNextConcurrentCallsNeverCollide(t *testing.T) {
	const goroutines = 50
	const perGoroutine = 200

	g := NewGenerator(1)
	results := make(chan int64, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				results <- g.Next()
			}
		}()
	}
	wg.Wait()
	close(results)

	ids := make([]int64, 0, goroutines*perGoroutine)
	for id := range results {
		ids = append(ids, id)
	}
	if len(ids) != goroutines*perGoroutine {
		t.Fatalf("expected %d ids, got %d", goroutines*perGoroutine, len(ids))
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			t.Fatalf("duplicate id %d", ids[i])
		}
	}
}
