// Package brk supplies program-break providers for heap allocators.
//
// A breaker manages a contiguous break space, addressed by byte offsets
// starting from zero. The break is moved up with Sbrk and moved down with
// Setbrk, just like brk(2) and sbrk(2), except that several independent
// break spaces can exist within the same process:
//
//   * Memory is backed by a Go byte slice of fixed capacity. Retracted
//     memory is zeroed, it is deterministic and used for testing.
//   * Mmap reserves the entire capacity as inaccessible address space and
//     commits pages as and when the break moves up. Pages above the break
//     are given back to the OS when the break moves down. Available on
//     linux and darwin, other platforms fall back to Memory.
//
// Types exported by this package are not thread safe.
package brk
