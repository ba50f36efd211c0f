package malloc

import "fmt"

import "github.com/bnclabs/gobrk/brk"
import s "github.com/bnclabs/gosettings"
import "github.com/cloudfoundry/gosigar"

// Maxcapacity maximum size of break space reserved for a heap. Can be used
// as default for setting "capacity".
const Maxcapacity = int64(64 * 1024 * 1024 * 1024)

// Defaultsettings for heap.
//
// "allocunit" (int64, default: 3 * pagesize)
//		Minimum number of bytes to extend the break by, when free list
//		cannot satisfy an allocation. Requests larger than allocunit
//		extend the break by exactly request + Headersize.
//
// "mindealloc" (int64, default: pagesize)
//		Topmost free block should be atleast this large before the break
//		is moved down and memory given back to OS.
//
// "capacity" (int64, default: min(free RAM, Maxcapacity))
//		Maximum size of the break space.
//
// "breaker" (string, default: "mmap")
//		Program break provider, can be "mmap" or "memory".
func Defaultsettings() s.Settings {
	pagesize := brk.Pagesize()
	_, _, free := getsysmem()
	capacity := int64(free)
	if capacity <= 0 || capacity > Maxcapacity {
		capacity = Maxcapacity
	}
	capacity = (capacity / pagesize) * pagesize
	return s.Settings{
		"allocunit":  3 * pagesize,
		"mindealloc": pagesize,
		"capacity":   capacity,
		"breaker":    "mmap",
	}
}

func (heap *Heap) readsettings(setts s.Settings) *Heap {
	heap.allocunit = setts.Int64("allocunit")
	heap.mindealloc = setts.Int64("mindealloc")
	if heap.allocunit <= Headersize {
		panicerr("allocunit %v must exceed header %v", heap.allocunit, Headersize)
	} else if heap.mindealloc < 0 {
		panicerr("invalid mindealloc %v", heap.mindealloc)
	}
	return heap
}

func (heap *Heap) logsettings() {
	fmsg := "%v allocunit:%v mindealloc:%v capacity:%v\n"
	infof(fmsg, heap.logprefix, heap.allocunit, heap.mindealloc,
		heap.breaker.Capacity())
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
