package brk

import "os"
import "fmt"

import "github.com/bnclabs/gobrk/api"
import s "github.com/bnclabs/gosettings"

// Pagesize of the underlying OS.
func Pagesize() int64 {
	return int64(os.Getpagesize())
}

// New create a breaker as per settings.
//
// "breaker" (string)
//		Either "mmap" or "memory".
//
// "capacity" (int64)
//		Maximum size of the break space.
func New(setts s.Settings) (api.Breaker, error) {
	capacity := setts.Int64("capacity")
	if capacity <= 0 {
		panicerr("invalid capacity %v", capacity)
	}
	switch name := setts.String("breaker"); name {
	case "mmap":
		m, err := NewMmap(capacity)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "memory":
		return NewMemory(capacity), nil
	default:
		panicerr("invalid breaker %q", name)
	}
	return nil, nil
}

// IsBreaker return true if `name` can be passed as "breaker" setting
// to New.
func IsBreaker(name string) bool {
	switch name {
	case "mmap", "memory":
		return true
	}
	return false
}

func roundup(n, pagesize int64) int64 {
	return ((n + pagesize - 1) / pagesize) * pagesize
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
