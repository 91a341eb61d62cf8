package pool

import (
	"sync/atomic"
	"unsafe"

	"github.com/valyala/bytebufferpool"
)

// vectorAlignment is the byte alignment HNSW storage requires (§4.3,
// §9). A float32 vector of dimension D needs 4*D bytes; the pool
// over-allocates by a full alignment stride and always hands back the
// first 32-byte-aligned offset within the backing array, which is what
// lets an 8-wide SIMD dot-product loop run without an alignment fixup on
// the fast path.
const vectorAlignment = 32

// Vector is a checked-out, 32-byte-aligned float32 slice together with
// the byte buffer backing it, so Put can return the buffer to the pool.
type Vector struct {
	Data []float32
	buf  *bytebufferpool.ByteBuffer
}

// VectorPool hands out 32-byte-aligned float32 slices for embeddings. It
// is backed by bytebufferpool so the underlying byte arenas are recycled
// across checkouts instead of being garbage per request.
type VectorPool struct {
	dimension int
	byteBufs  bytebufferpool.Pool
	checkouts atomic.Int64
	returns   atomic.Int64
}

// NewVectorPool creates a pool that only ever hands out vectors of the
// given dimension. Agrama keeps one VectorPool per configured HNSW
// dimension (§3 allows embeddings of several fixed dimensions to coexist)
// rather than one pool serving mixed sizes.
func NewVectorPool(dimension int) *VectorPool {
	return &VectorPool{dimension: dimension}
}

// Get returns a zeroed, aligned float32 vector of the pool's dimension.
func (p *VectorPool) Get() *Vector {
	p.checkouts.Add(1)

	needed := p.dimension*4 + vectorAlignment
	buf := p.byteBufs.Get()
	if cap(buf.B) < needed {
		buf.B = make([]byte, needed)
	} else {
		buf.B = buf.B[:needed]
		clear(buf.B)
	}

	offset := alignedOffset(buf.B)
	raw := buf.B[offset : offset+p.dimension*4 : offset+p.dimension*4]

	return &Vector{
		Data: unsafe.Slice((*float32)(unsafe.Pointer(&raw[0])), p.dimension),
		buf:  buf,
	}
}

// Put returns a vector obtained from Get. The caller must not use v after
// calling Put.
func (p *VectorPool) Put(v *Vector) {
	if v == nil || v.buf == nil {
		return
	}
	p.returns.Add(1)
	p.byteBufs.Put(v.buf)
	v.Data = nil
	v.buf = nil
}

// Stats reports pool usage for observability/metrics.
func (p *VectorPool) Stats() (checkouts, returns int64) {
	return p.checkouts.Load(), p.returns.Load()
}

// alignedOffset returns the smallest offset into b at which the backing
// array is aligned to vectorAlignment bytes.
func alignedOffset(b []byte) int {
	addr := uintptr(unsafe.Pointer(&b[0]))
	rem := addr % vectorAlignment
	if rem == 0 {
		return 0
	}
	return int(vectorAlignment - rem)
}
