package malloc

import "testing"

import "github.com/bnclabs/golog"
import s "github.com/bnclabs/gosettings"

import "github.com/bnclabs/gobrk/api"
import "github.com/bnclabs/gobrk/brk"

const testpage = int64(4096)

func init() {
	setts := map[string]interface{}{
		"log.level":      "ignore",
		"log.colorfatal": "red",
		"log.colorerror": "hired",
		"log.colorwarn":  "yellow",
	}
	log.SetLogger(nil, setts)
	LogComponents("all")
}

func testsettings() s.Settings {
	return s.Settings{
		"allocunit":  3 * testpage,
		"mindealloc": testpage,
		"capacity":   int64(1024 * 1024),
		"breaker":    "memory",
	}
}

func newtestheap(t testing.TB, breaker api.Breaker, setts s.Settings) *Heap {
	if breaker == nil {
		breaker = brk.NewMemory(1024 * 1024)
	}
	heap, err := NewHeap("test", breaker, make(s.Settings).Mixin(testsettings(), setts))
	if err != nil {
		t.Fatal(err)
	}
	return heap
}

func testbrk(t testing.TB, heap *Heap) int64 {
	top, err := heap.breaker.Brk()
	if err != nil {
		t.Fatal(err)
	}
	return top
}

func validate(t testing.TB, heap *Heap, coalesced bool) {
	t.Helper()
	if err := heap.Validate(coalesced); err != nil {
		t.Fatal(err)
	}
}

// faultybreaker fails Brk and Setbrk on demand.
type faultybreaker struct {
	*brk.Memory
	failbrk    bool
	failsetbrk bool
}

var errfault = &faulterror{}

type faulterror struct{}

func (f *faulterror) Error() string {
	return "injected fault"
}

func (f *faultybreaker) Brk() (int64, error) {
	if f.failbrk {
		return 0, errfault
	}
	return f.Memory.Brk()
}

func (f *faultybreaker) Setbrk(addr int64) error {
	if f.failsetbrk {
		return errfault
	}
	return f.Memory.Setbrk(addr)
}
