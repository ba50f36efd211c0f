package malloc

// insert block `b` into the free list, keeping it sorted by address.
func (heap *Heap) insert(b int64) {
	heap.setnext(b, nilblock)
	heap.setprev(b, nilblock)
	heap.nfree++

	if heap.head == nilblock || b < heap.head {
		if heap.head != nilblock {
			heap.setprev(heap.head, b)
		}
		heap.setnext(b, heap.head)
		heap.head = b
		return
	}
	curr := heap.head
	for next := heap.next(curr); next != nilblock && next < b; {
		curr, next = next, heap.next(next)
	}
	next := heap.next(curr)
	heap.setnext(b, next)
	heap.setprev(b, curr)
	heap.setnext(curr, b)
	if next != nilblock {
		heap.setprev(next, b)
	}
}

// remove block `b` from the free list.
func (heap *Heap) remove(b int64) {
	prev, next := heap.prev(b), heap.next(b)
	if prev == nilblock {
		heap.head = next
	} else {
		heap.setnext(prev, next)
	}
	if next != nilblock {
		heap.setprev(next, prev)
	}
	heap.nfree--
}

// split block `b` after `size` bytes of payload, return the trailing
// block. Trailing block is not linked to the free list.
func (heap *Heap) split(b, size int64) int64 {
	remainder := heap.size(b) - size - Headersize
	if size <= 0 || remainder < 0 {
		panicerr("cannot split block %v of %v bytes at %v", b, heap.size(b), size)
	}
	newb := payload(b) + size
	heap.setsize(newb, remainder)
	heap.setnext(newb, nilblock)
	heap.setprev(newb, nilblock)
	heap.setsize(b, size)
	heap.n_splits++
	return newb
}

// coalesce merges byte adjacent free blocks, walking the entire free
// list, and return the last block in the list.
func (heap *Heap) coalesce() int64 {
	curr := heap.head
	for next := heap.next(curr); next != nilblock; next = heap.next(curr) {
		if heap.blockend(curr) == next {
			heap.setsize(curr, heap.size(curr)+Headersize+heap.size(next))
			heap.remove(next)
			heap.n_merges++
			continue
		}
		curr = next
	}
	return curr
}
