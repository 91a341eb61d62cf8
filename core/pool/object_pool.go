package pool

import (
	"sync"
	"sync/atomic"
)

// ObjectPool is a fixed-capacity pool of JSON response objects
// (map[string]interface{}), used by the dispatcher and primitive engine
// to build response envelopes without an allocation per request in the
// common case.
type ObjectPool struct {
	pool      sync.Pool
	inUse     atomic.Int64
	maxInUse  int64
	exhausted atomic.Int64
}

// NewObjectPool creates an ObjectPool. maxInUse bounds how many objects
// may be checked out simultaneously before Get starts allocating outside
// the pool (degrading gracefully instead of blocking — §9 forbids
// blocking on a recoverable resource limit).
func NewObjectPool(maxInUse int64) *ObjectPool {
	p := &ObjectPool{maxInUse: maxInUse}
	p.pool.New = func() interface{} {
		return make(map[string]interface{}, 8)
	}
	return p
}

// Get returns a cleared response object.
func (p *ObjectPool) Get() map[string]interface{} {
	if p.maxInUse > 0 && p.inUse.Load() >= p.maxInUse {
		p.exhausted.Add(1)
		return make(map[string]interface{}, 8)
	}
	p.inUse.Add(1)
	obj := p.pool.Get().(map[string]interface{})
	for k := range obj {
		delete(obj, k)
	}
	return obj
}

// Put returns an object to the pool. Objects obtained via the
// maxInUse-exceeded fallback path are pooled the same way (Put cannot
// tell them apart), and Put decrements inUse regardless.
func (p *ObjectPool) Put(obj map[string]interface{}) {
	p.inUse.Add(-1)
	p.pool.Put(obj)
}

// ExhaustedCount reports how many Get calls fell back to an unpooled
// allocation because maxInUse was reached.
func (p *ObjectPool) ExhaustedCount() int64 {
	return p.exhausted.Load()
}
