package striped

import (
	"sync"
	"testing"
)

func TestIndexIsStable(t *testing.T) {
	pool := NewPool(256)
	for _, key := range []int64{1, 2, 1000, -7} {
		first := pool.Index(key)
		for i := 0; i < 10; i++ {
			if got := pool.Index(key); got != first {
				t.Fatalf("unstable stripe index for key %d: got %d want %d", key, got, first)
			}
		}
		if first < 0 || first >= pool.Size() {
			t.Fatalf("stripe index out of range for key %d: %d", key, first)
		}
	}
}

func TestDefaultSize(t *testing.T) {
	pool := NewPool(0)
	if pool.Size() != 256 {
		t.Fatalf("unexpected default pool size: got %d want %d", pool.Size(), 256)
	}
}

func TestLockSerializesSameKey(t *testing.T) {
	pool := NewPool(8)
	const workers = 32
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			pool.Lock(99)
			counter++
			pool.Unlock(99)
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("lost updates under same-key locking: got %d want %d", counter, workers)
	}
}
