// Package striped provides a fixed-size pool of mutexes indexed by a stable
// hash of an actor id. Memory stays bounded no matter how many actors pass
// through, unlike a per-actor lock map that has to be cleared while lock
// holders may still be in flight.
package striped

import "sync"

const defaultSize = 256

// Knuth's 64-bit multiplicative hashing constant.
const hashMultiplier = 0x9E3779B97F4A7C15

type Pool struct {
	stripes []sync.Mutex
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = defaultSize
	}
	return &Pool{stripes: make([]sync.Mutex, size)}
}

// Index returns the stripe assigned to key. The mapping is stable for the
// lifetime of the pool.
func (p *Pool) Index(key int64) int {
	h := uint64(key) * hashMultiplier
	return int(h % uint64(len(p.stripes)))
}

func (p *Pool) Lock(key int64) {
	p.stripes[p.Index(key)].Lock()
}

func (p *Pool) Unlock(key int64) {
	p.stripes[p.Index(key)].Unlock()
}

func (p *Pool) Size() int {
	return len(p.stripes)
}
