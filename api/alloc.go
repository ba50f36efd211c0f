package api

// Mallocer interface for heap allocators managing a break space. Addresses
// returned by Alloc and Calloc are byte offsets into the break space, use
// Bytes to access the payload.
type Mallocer interface {
	// Alloc allocate a chunk of `n` bytes. Returns ErrorOutofMemory if
	// the break space cannot be extended.
	Alloc(n int64) (ptr int64, err error)

	// Calloc allocate a chunk for `count` elements of `size` bytes each,
	// every byte of the chunk is zero.
	Calloc(count, size int64) (ptr int64, err error)

	// Free chunk back to the heap. Returns ErrorInvalidPointer if `ptr`
	// was not handed out by this heap or was already freed.
	Free(ptr int64) error

	// Bytes return the payload of an allocated chunk.
	Bytes(ptr int64) []byte

	// Chunklen return the length of the chunk usable by application.
	Chunklen(ptr int64) int64

	// Info of memory accounting for this heap.
	Info() (capacity, heap, alloc, overhead int64)

	// Release heap and give back all of its memory to the breaker.
	Release()
}
