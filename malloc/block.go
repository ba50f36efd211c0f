package malloc

import "encoding/binary"

// Headersize of every block, laid out as three little-endian int64
// fields: payload size, next free block and previous free block.
const Headersize = int64(24)

const (
	offsize = 0
	offnext = 8
	offprev = 16
)

// nilblock terminates the free list.
const nilblock = int64(-1)

// inuse is stored in both links while the block is held by application.
const inuse = int64(-0x0a110c)

func (heap *Heap) header(b int64) []byte {
	return heap.breaker.Bytes(b, Headersize)
}

func (heap *Heap) getfield(b int64, off int) int64 {
	return int64(binary.LittleEndian.Uint64(heap.header(b)[off:]))
}

func (heap *Heap) setfield(b int64, off int, val int64) {
	binary.LittleEndian.PutUint64(heap.header(b)[off:], uint64(val))
}

func (heap *Heap) size(b int64) int64 {
	return heap.getfield(b, offsize)
}

func (heap *Heap) setsize(b, size int64) {
	heap.setfield(b, offsize, size)
}

func (heap *Heap) next(b int64) int64 {
	return heap.getfield(b, offnext)
}

func (heap *Heap) setnext(b, next int64) {
	heap.setfield(b, offnext, next)
}

func (heap *Heap) prev(b int64) int64 {
	return heap.getfield(b, offprev)
}

func (heap *Heap) setprev(b, prev int64) {
	heap.setfield(b, offprev, prev)
}

// blockend is the address just past the block's payload.
func (heap *Heap) blockend(b int64) int64 {
	return b + Headersize + heap.size(b)
}

func (heap *Heap) isinuse(b int64) bool {
	return heap.next(b) == inuse && heap.prev(b) == inuse
}

func (heap *Heap) markinuse(b int64) {
	heap.setnext(b, inuse)
	heap.setprev(b, inuse)
}

func payload(b int64) int64 {
	return b + Headersize
}

func blockof(ptr int64) int64 {
	return ptr - Headersize
}
