//go:build !linux && !darwin

package brk

// NewMmap fall back to Memory breaker on platforms without reserved
// address space support.
func NewMmap(capacity int64) (*Memory, error) {
	warnf("brk: mmap breaker not supported, using memory breaker\n")
	return NewMemory(capacity), nil
}
