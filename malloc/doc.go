// Package malloc supplies a heap allocator that manages its memory
// directly through a program break, with a limited scope:
//
//  * Types and Functions exported by this package are not thread safe,
//    wrap the heap with Locked when sharing it between goroutines.
//  * Every block carries a fixed header of Headersize bytes, followed
//    by its payload. No alignment is guaranteed beyond the header.
//  * Free blocks are kept in a doubly linked list sorted by address.
//    Allocation picks the first free block, in address order, that
//    can satisfy the request.
//  * When no free block fits, the break is moved up by at least
//    "allocunit" bytes. The left over is kept in the free list.
//  * Freed blocks are merged with their free neighbours. When the
//    topmost free block grows beyond "mindealloc" bytes the break is
//    moved down and the memory is given back to OS.
//  * There is no realloc.
//
// Addresses handed out by the heap are offsets into the break space,
// use Bytes to access the payload.
package malloc
