package api

// Breaker abstracts the program break of a heap. Addresses are byte offsets
// from the start of the break space, the break starts at 0 and can move
// between 0 and Capacity().
type Breaker interface {
	// Brk return the current break.
	Brk() (int64, error)

	// Sbrk extend the break by `n` bytes and return the previous break,
	// which is the start of the newly obtained range. If the break cannot
	// be extended return ErrorOutofMemory.
	Sbrk(n int64) (int64, error)

	// Setbrk retract the break to `addr`, memory above `addr` is given
	// back to the OS.
	Setbrk(addr int64) error

	// Bytes return a view of `n` bytes starting from `addr`. The range
	// must lie below the current break.
	Bytes(addr, n int64) []byte

	// Capacity maximum break.
	Capacity() int64

	// Release all memory managed by this breaker.
	Release()
}
