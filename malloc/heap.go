package malloc

import "fmt"
import "math"
import "errors"
import "unsafe"

import "github.com/bnclabs/gobrk/api"
import "github.com/bnclabs/gobrk/brk"
import "github.com/bnclabs/gobrk/lib"
import s "github.com/bnclabs/gosettings"

// Maxalloc largest payload that can be requested from heap.
const Maxalloc = int64(math.MaxInt64 - (2 * Headersize))

// Heap manages a single break space, carving it into blocks.
type Heap struct {
	// statistics
	n_allocs   int64
	n_callocs  int64
	n_frees    int64
	n_splits   int64
	n_merges   int64
	n_sbrks    int64
	n_releases int64
	n_ooms     int64
	n_brkerrs  int64
	n_invalids int64
	h_allocsz  *lib.Sizeclasses
	a_walks    *lib.Average

	name      string
	breaker   api.Breaker
	base      int64 // break when heap was created, first block
	top       int64 // break as moved by this heap
	head      int64 // first free block, nilblock if none
	nfree     int64 // length of free list
	nlive     int64 // blocks held by application
	allocated int64 // payload bytes held by application

	// settings
	allocunit  int64
	mindealloc int64
	setts      s.Settings
	logprefix  string
}

// NewHeap create a new heap on top of `breaker`. If breaker is nil, one
// is created using settings "breaker" and "capacity".
func NewHeap(name string, breaker api.Breaker, setts s.Settings) (*Heap, error) {
	heap := &Heap{
		name:      name,
		head:      nilblock,
		logprefix: fmt.Sprintf("HEAP [%s]", name),
		h_allocsz: &lib.Sizeclasses{},
		a_walks:   &lib.Average{},
	}
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	heap.readsettings(setts)
	heap.setts = setts

	var err error
	if breaker == nil {
		if breaker, err = brk.New(setts); err != nil {
			return nil, err
		}
	}
	if heap.base, err = breaker.Brk(); err != nil {
		return nil, err
	}
	heap.breaker, heap.top = breaker, heap.base
	heap.logsettings()
	infof("%v started ...\n", heap.logprefix)
	return heap, nil
}

//---- operations

// Alloc implement api.Mallocer{} interface.
func (heap *Heap) Alloc(n int64) (int64, error) {
	ptr, err := heap.alloc(n)
	if err != nil {
		return ptr, err
	}
	initblock(heap.breaker.Bytes(ptr, heap.size(blockof(ptr))))
	return ptr, nil
}

// Calloc implement api.Mallocer{} interface. A zero sized request
// allocates a single byte.
func (heap *Heap) Calloc(count, size int64) (int64, error) {
	if count < 0 || size <= 0 {
		return nilblock, fmt.Errorf("calloc(%v,%v): %w", count, size, api.ErrorInvalidSize)
	} else if count > 0 && count > math.MaxInt64/size {
		return nilblock, fmt.Errorf("calloc(%v,%v): %w", count, size, api.ErrorOverflow)
	}
	total := count * size
	if total == 0 {
		total = 1
	}
	ptr, err := heap.alloc(total)
	if err != nil {
		return ptr, err
	}
	heap.n_callocs++
	zeroblock(heap.breaker.Bytes(ptr, heap.size(blockof(ptr))))
	return ptr, nil
}

// Free implement api.Mallocer{} interface. Errors in giving back
// memory to OS are logged and otherwise ignored, the freed block stays
// in the free list.
func (heap *Heap) Free(ptr int64) error {
	b, err := heap.checkptr(ptr)
	if err != nil {
		heap.n_invalids++
		return err
	}
	heap.nlive--
	heap.allocated -= heap.size(b)
	heap.n_frees++

	heap.insert(b)
	heap.release(heap.coalesce())
	return nil
}

// Bytes implement api.Mallocer{} interface.
func (heap *Heap) Bytes(ptr int64) []byte {
	b, err := heap.checkptr(ptr)
	if err != nil {
		panic(err)
	}
	return heap.breaker.Bytes(ptr, heap.size(b))
}

// Chunklen implement api.Mallocer{} interface.
func (heap *Heap) Chunklen(ptr int64) int64 {
	b, err := heap.checkptr(ptr)
	if err != nil {
		panic(err)
	}
	return heap.size(b)
}

// Release implement api.Mallocer{} interface.
func (heap *Heap) Release() {
	if heap.breaker == nil {
		return
	}
	heap.breaker.Release()
	heap.breaker, heap.head = nil, nilblock
	heap.nfree, heap.nlive, heap.allocated = 0, 0, 0
	infof("%v released\n", heap.logprefix)
}

//---- statistics and maintenance

// Info implement api.Mallocer{} interface.
func (heap *Heap) Info() (capacity, heapsz, alloc, overhead int64) {
	overhead = int64(unsafe.Sizeof(*heap))
	if heap.breaker == nil {
		return 0, 0, 0, overhead
	}
	overhead += (heap.nlive + heap.nfree) * Headersize
	return heap.breaker.Capacity(), heap.top - heap.base, heap.allocated, overhead
}

//---- local functions

func (heap *Heap) alloc(n int64) (int64, error) {
	if heap.breaker == nil {
		return nilblock, api.ErrorReleased
	} else if n <= 0 {
		return nilblock, fmt.Errorf("alloc(%v): %w", n, api.ErrorInvalidSize)
	} else if n > Maxalloc {
		heap.n_ooms++
		return nilblock, fmt.Errorf("alloc(%v): %w", n, api.ErrorOutofMemory)
	}

	// first fit, in address order.
	walks := int64(0)
	for b := heap.head; b != nilblock; b = heap.next(b) {
		walks++
		size := heap.size(b)
		if size != n && size < n+Headersize {
			continue
		}
		heap.remove(b)
		if size != n {
			heap.insert(heap.split(b, n))
		}
		heap.a_walks.Add(walks)
		return heap.handout(b), nil
	}
	heap.a_walks.Add(walks)
	return heap.grow(n)
}

// grow the break to allocate `n` bytes, left over is added to the free
// list.
func (heap *Heap) grow(n int64) (int64, error) {
	want := n + Headersize
	if want < heap.allocunit {
		want = heap.allocunit
	}
	b, err := heap.breaker.Sbrk(want)
	if err != nil {
		heap.n_ooms++
		verbosef("%v sbrk(%v): %v\n", heap.logprefix, want, err)
		if errors.Is(err, api.ErrorOutofMemory) {
			return nilblock, err
		}
		return nilblock, fmt.Errorf("sbrk(%v): %v: %w", want, err, api.ErrorOutofMemory)
	}
	heap.n_sbrks++
	heap.top = b + want
	debugf("%v break moved up by %v from %v\n", heap.logprefix, want, b)

	heap.setsize(b, want-Headersize)
	if heap.size(b) >= n+Headersize {
		heap.insert(heap.split(b, n))
	}
	return heap.handout(b), nil
}

func (heap *Heap) handout(b int64) int64 {
	size := heap.size(b)
	heap.markinuse(b)
	heap.nlive++
	heap.allocated += size
	heap.n_allocs++
	heap.h_allocsz.Add(size)
	return payload(b)
}

// release topmost free block `b` back to OS, if it is large enough.
func (heap *Heap) release(b int64) {
	if heap.size(b) < heap.mindealloc {
		return
	}
	top, err := heap.breaker.Brk()
	if err != nil {
		heap.n_brkerrs++
		errorf("%v failed to retrieve break: %v\n", heap.logprefix, err)
		return
	} else if heap.blockend(b) != top {
		return
	}
	heap.remove(b)
	if err := heap.breaker.Setbrk(b); err != nil {
		heap.n_brkerrs++
		errorf("%v failed to move break down to %v: %v\n", heap.logprefix, b, err)
		heap.insert(b)
		return
	}
	heap.n_releases++
	heap.top = b
	debugf("%v break moved down by %v to %v\n", heap.logprefix, top-b, b)
}

// checkptr validates `ptr` as a block held by application, and return
// its header address.
func (heap *Heap) checkptr(ptr int64) (int64, error) {
	if heap.breaker == nil {
		return nilblock, api.ErrorReleased
	}
	b, top := blockof(ptr), heap.top
	if b < heap.base || ptr > top {
		return nilblock, fmt.Errorf("ptr %v outside heap: %w", ptr, api.ErrorInvalidPointer)
	} else if !heap.isinuse(b) {
		return nilblock, fmt.Errorf("ptr %v not in use: %w", ptr, api.ErrorInvalidPointer)
	} else if size := heap.size(b); size <= 0 || ptr+size > top {
		return nilblock, fmt.Errorf("ptr %v bad size %v: %w", ptr, size, api.ErrorInvalidPointer)
	}
	for fb := heap.head; fb != nilblock && fb <= b; fb = heap.next(fb) {
		if b < heap.blockend(fb) {
			fmsg := "ptr %v inside free block %v: %w"
			return nilblock, fmt.Errorf(fmsg, ptr, fb, api.ErrorInvalidPointer)
		}
	}
	return b, nil
}
