//go:build linux || darwin

package brk

import "fmt"

import "golang.org/x/sys/unix"

import "github.com/bnclabs/gobrk/api"

// Mmap breaker reserves the entire break space as inaccessible memory,
// pages are committed and decommitted as the break moves.
type Mmap struct {
	capacity  int64
	pagesize  int64
	brk       int64
	committed int64 // page aligned, always >= brk
	mem       []byte
}

// NewMmap reserve `capacity` bytes of address space, rounded up to
// pagesize.
func NewMmap(capacity int64) (*Mmap, error) {
	pagesize := int64(unix.Getpagesize())
	capacity = roundup(capacity, pagesize)
	prot := unix.PROT_NONE
	flags := unix.MAP_PRIVATE | unix.MAP_ANON | unix.MAP_NORESERVE
	mem, err := unix.Mmap(-1, 0, int(capacity), prot, flags)
	if err != nil {
		return nil, fmt.Errorf("mmap reserve %v bytes: %w", capacity, err)
	}
	infof("brk: reserved %v bytes, pagesize %v\n", capacity, pagesize)
	m := &Mmap{capacity: capacity, pagesize: pagesize, mem: mem}
	return m, nil
}

// Brk implement api.Breaker{} interface.
func (m *Mmap) Brk() (int64, error) {
	if m.mem == nil {
		return 0, api.ErrorReleased
	}
	return m.brk, nil
}

// Sbrk implement api.Breaker{} interface.
func (m *Mmap) Sbrk(n int64) (int64, error) {
	if m.mem == nil {
		return 0, api.ErrorReleased
	} else if n < 0 {
		return 0, fmt.Errorf("sbrk(%v): %w", n, api.ErrorInvalidBreak)
	} else if n > m.capacity-m.brk {
		fmsg := "sbrk(%v) beyond capacity %v: %w"
		return 0, fmt.Errorf(fmsg, n, m.capacity, api.ErrorOutofMemory)
	}
	newbrk := m.brk + n
	if need := roundup(newbrk, m.pagesize); need > m.committed {
		prot := unix.PROT_READ | unix.PROT_WRITE
		if err := unix.Mprotect(m.mem[m.committed:need], prot); err != nil {
			fmsg := "sbrk(%v) commit [%v,%v): %v: %w"
			return 0, fmt.Errorf(fmsg, n, m.committed, need, err, api.ErrorOutofMemory)
		}
		debugf("brk: committed [%v,%v)\n", m.committed, need)
		m.committed = need
	}
	old := m.brk
	m.brk = newbrk
	return old, nil
}

// Setbrk implement api.Breaker{} interface. Whole pages above `addr`
// are given back to the OS.
func (m *Mmap) Setbrk(addr int64) error {
	if m.mem == nil {
		return api.ErrorReleased
	} else if addr < 0 || addr > m.brk {
		return fmt.Errorf("setbrk(%v) above %v: %w", addr, m.brk, api.ErrorInvalidBreak)
	}
	if keep := roundup(addr, m.pagesize); keep < m.committed {
		span := m.mem[keep:m.committed]
		if err := unix.Madvise(span, unix.MADV_DONTNEED); err != nil {
			return fmt.Errorf("setbrk(%v) madvise: %w", addr, err)
		}
		if err := unix.Mprotect(span, unix.PROT_NONE); err != nil {
			return fmt.Errorf("setbrk(%v) decommit: %w", addr, err)
		}
		debugf("brk: decommitted [%v,%v)\n", keep, m.committed)
		m.committed = keep
	}
	m.brk = addr
	return nil
}

// Bytes implement api.Breaker{} interface.
func (m *Mmap) Bytes(addr, n int64) []byte {
	if addr < 0 || n < 0 || addr+n > m.brk {
		panicerr("range [%v,%v) outside break %v", addr, addr+n, m.brk)
	}
	return m.mem[addr : addr+n : addr+n]
}

// Capacity implement api.Breaker{} interface.
func (m *Mmap) Capacity() int64 {
	return m.capacity
}

// Committed return the number of bytes backed by accessible pages.
func (m *Mmap) Committed() int64 {
	return m.committed
}

// Release implement api.Breaker{} interface.
func (m *Mmap) Release() {
	if m.mem == nil {
		return
	}
	if err := unix.Munmap(m.mem); err != nil {
		errorf("brk: munmap %v bytes: %v\n", m.capacity, err)
	}
	m.mem, m.brk, m.committed = nil, 0, 0
}
