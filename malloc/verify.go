package malloc

import "fmt"

import "github.com/bnclabs/gobrk/api"

// Validate the heap. Walks the free list and then every block below
// the break, each walk is bounded by the number of headers that can fit
// below the break, hence a corrupted list cannot hang. If `coalesced`
// is true, byte adjacent free blocks are reported as well, which holds
// true after every Free.
func (heap *Heap) Validate(coalesced bool) error {
	if heap.breaker == nil {
		return api.ErrorReleased
	}
	top, err := heap.breaker.Brk()
	if err != nil {
		return err
	} else if top != heap.top {
		return fmt.Errorf("break at %v, expected %v", top, heap.top)
	}
	limit := (top-heap.base)/Headersize + 1

	// free list
	prev, prevend, n := nilblock, int64(0), int64(0)
	for b := heap.head; b != nilblock; b = heap.next(b) {
		if n++; n > limit {
			return fmt.Errorf("free list longer than %v blocks", limit)
		} else if b < heap.base || b+Headersize > top {
			return fmt.Errorf("free block %v outside break %v", b, top)
		} else if heap.isinuse(b) {
			return fmt.Errorf("block %v in use and free", b)
		} else if x := heap.prev(b); x != prev {
			return fmt.Errorf("free block %v prev %v, expected %v", b, x, prev)
		} else if size := heap.size(b); size < 0 {
			return fmt.Errorf("free block %v negative size %v", b, size)
		} else if end := heap.blockend(b); end > top {
			return fmt.Errorf("free block %v ends %v beyond break %v", b, end, top)
		}
		if prev != nilblock {
			if b <= prev {
				return fmt.Errorf("free block %v not after %v", b, prev)
			} else if b < prevend {
				return fmt.Errorf("free block %v overlaps %v", b, prev)
			} else if coalesced && b == prevend {
				return fmt.Errorf("free block %v adjacent to %v", b, prev)
			}
		}
		prev, prevend = b, heap.blockend(b)
	}
	if n != heap.nfree {
		return fmt.Errorf("free list has %v blocks, expected %v", n, heap.nfree)
	}

	// blocks tile the break space, free ones in free list order.
	fb, nlive, allocated := heap.head, int64(0), int64(0)
	for b := heap.base; b < top; b = heap.blockend(b) {
		if b+Headersize > top {
			return fmt.Errorf("block %v header crosses break %v", b, top)
		} else if size := heap.size(b); size < 0 || heap.blockend(b) > top {
			return fmt.Errorf("block %v size %v crosses break %v", b, size, top)
		}
		if heap.isinuse(b) {
			if b == fb {
				return fmt.Errorf("block %v in use and free", b)
			}
			nlive, allocated = nlive+1, allocated+heap.size(b)
			continue
		} else if b != fb {
			return fmt.Errorf("block %v neither in use nor free", b)
		}
		fb = heap.next(b)
	}
	if fb != nilblock {
		return fmt.Errorf("free block %v not reachable from heap start", fb)
	} else if nlive != heap.nlive {
		return fmt.Errorf("%v blocks in use, expected %v", nlive, heap.nlive)
	} else if allocated != heap.allocated {
		return fmt.Errorf("%v bytes in use, expected %v", allocated, heap.allocated)
	}
	return nil
}

// Freeblocks return address and payload size of every free block,
// in free list order.
func (heap *Heap) Freeblocks() [][2]int64 {
	blocks := make([][2]int64, 0, heap.nfree)
	for b := heap.head; b != nilblock; b = heap.next(b) {
		blocks = append(blocks, [2]int64{b, heap.size(b)})
		if int64(len(blocks)) > heap.nfree {
			panicerr("free list longer than %v blocks", heap.nfree)
		}
	}
	return blocks
}
