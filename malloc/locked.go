package malloc

import "sync"

import "github.com/bnclabs/gobrk/api"

// Locked serializes every operation on a heap with a single mutex.
// Free list and break are heap wide, hence a single lock for all
// callers is the only safe way to share a heap.
type Locked struct {
	mu   sync.Mutex
	heap *Heap
}

// NewLocked wraps heap, heap must not be used directly afterwards.
func NewLocked(heap *Heap) *Locked {
	return &Locked{heap: heap}
}

// Alloc implement api.Mallocer{} interface.
func (l *Locked) Alloc(n int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.Alloc(n)
}

// Calloc implement api.Mallocer{} interface.
func (l *Locked) Calloc(count, size int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.Calloc(count, size)
}

// Free implement api.Mallocer{} interface.
func (l *Locked) Free(ptr int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.Free(ptr)
}

// Bytes implement api.Mallocer{} interface. Returned slice is owned by
// the caller till the chunk is freed.
func (l *Locked) Bytes(ptr int64) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.Bytes(ptr)
}

// Chunklen implement api.Mallocer{} interface.
func (l *Locked) Chunklen(ptr int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.Chunklen(ptr)
}

// Info implement api.Mallocer{} interface.
func (l *Locked) Info() (capacity, heap, alloc, overhead int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.Info()
}

// Release implement api.Mallocer{} interface.
func (l *Locked) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.heap.Release()
}

// Validate the heap, refer Heap.Validate.
func (l *Locked) Validate(coalesced bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.Validate(coalesced)
}

// Stats refer Heap.Stats.
func (l *Locked) Stats() map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heap.Stats()
}

var _ api.Mallocer = &Heap{}
var _ api.Mallocer = &Locked{}
