package brk

import "fmt"

import "github.com/bnclabs/gobrk/api"

// Memory breaker backed by a Go byte slice of fixed capacity.
type Memory struct {
	capacity int64
	brk      int64
	mem      []byte
}

// NewMemory create a break space of `capacity` bytes.
func NewMemory(capacity int64) *Memory {
	if capacity <= 0 {
		panicerr("invalid capacity %v", capacity)
	}
	return &Memory{capacity: capacity, mem: make([]byte, capacity)}
}

// Brk implement api.Breaker{} interface.
func (m *Memory) Brk() (int64, error) {
	if m.mem == nil {
		return 0, api.ErrorReleased
	}
	return m.brk, nil
}

// Sbrk implement api.Breaker{} interface.
func (m *Memory) Sbrk(n int64) (int64, error) {
	if m.mem == nil {
		return 0, api.ErrorReleased
	} else if n < 0 {
		return 0, fmt.Errorf("sbrk(%v): %w", n, api.ErrorInvalidBreak)
	} else if n > m.capacity-m.brk {
		fmsg := "sbrk(%v) beyond capacity %v: %w"
		return 0, fmt.Errorf(fmsg, n, m.capacity, api.ErrorOutofMemory)
	}
	old := m.brk
	m.brk += n
	return old, nil
}

// Setbrk implement api.Breaker{} interface. Retracted memory is zeroed,
// similar to pages given back to OS.
func (m *Memory) Setbrk(addr int64) error {
	if m.mem == nil {
		return api.ErrorReleased
	} else if addr < 0 || addr > m.brk {
		return fmt.Errorf("setbrk(%v) above %v: %w", addr, m.brk, api.ErrorInvalidBreak)
	}
	clear(m.mem[addr:m.brk])
	m.brk = addr
	return nil
}

// Bytes implement api.Breaker{} interface.
func (m *Memory) Bytes(addr, n int64) []byte {
	if addr < 0 || n < 0 || addr+n > m.brk {
		panicerr("range [%v,%v) outside break %v", addr, addr+n, m.brk)
	}
	return m.mem[addr : addr+n : addr+n]
}

// Capacity implement api.Breaker{} interface.
func (m *Memory) Capacity() int64 {
	return m.capacity
}

// Release implement api.Breaker{} interface.
func (m *Memory) Release() {
	m.mem, m.brk = nil, 0
}
