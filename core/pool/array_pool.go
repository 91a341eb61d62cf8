package pool

import "sync"

// ArrayPool is a pool of reusable []uint64 slices, used by FRE and the
// graph layer for frontier blocks, visited sets, and candidate buffers
// where the element count is bounded but varies per query. It places no
// limit on how many slices are checked out at once.
type ArrayPool struct {
	pool sync.Pool
}

// NewArrayPool creates an ArrayPool whose slices start at the given
// default capacity.
func NewArrayPool(defaultCap int) *ArrayPool {
	p := &ArrayPool{}
	p.pool.New = func() interface{} {
		s := make([]uint64, 0, defaultCap)
		return &s
	}
	return p
}

// Get returns an empty (len 0) slice with at least some residual
// capacity from a prior checkout.
func (p *ArrayPool) Get() []uint64 {
	s := p.pool.Get().(*[]uint64)
	return (*s)[:0]
}

// Put returns a slice to the pool. The caller must not use s after
// calling Put.
func (p *ArrayPool) Put(s []uint64) {
	s = s[:0]
	p.pool.Put(&s)
}
