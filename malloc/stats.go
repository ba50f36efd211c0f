package malloc

import "fmt"

import humanize "github.com/dustin/go-humanize"

// Stats return heap statistics and counters.
func (heap *Heap) Stats() map[string]interface{} {
	capacity, heapsz, alloc, overhead := heap.Info()
	freebytes := int64(0)
	for _, fb := range heap.Freeblocks() {
		freebytes += fb[1]
	}
	return map[string]interface{}{
		"n_allocs":       heap.n_allocs,
		"n_callocs":      heap.n_callocs,
		"n_frees":        heap.n_frees,
		"n_splits":       heap.n_splits,
		"n_merges":       heap.n_merges,
		"n_sbrks":        heap.n_sbrks,
		"n_releases":     heap.n_releases,
		"n_ooms":         heap.n_ooms,
		"n_brkerrs":      heap.n_brkerrs,
		"n_invalids":     heap.n_invalids,
		"n_live":         heap.nlive,
		"capacity":       capacity,
		"heap":           heapsz,
		"allocated":      alloc,
		"overhead":       overhead,
		"freelist.count": heap.nfree,
		"freelist.bytes": freebytes,
		"freelist.walks": heap.a_walks.Mean(),
		"h_allocsz":      heap.h_allocsz.Fullstats(),
	}
}

// Log heap statistics, if humanize is true byte counts are printed in
// human readable form.
func (heap *Heap) Log(humanized bool) {
	stats := heap.Stats()
	dohumanize := func(val interface{}) interface{} {
		if humanized {
			return humanize.Bytes(uint64(val.(int64)))
		}
		return val.(int64)
	}
	capacity, heapsz := dohumanize(stats["capacity"]), dohumanize(stats["heap"])
	alloc, overh := dohumanize(stats["allocated"]), dohumanize(stats["overhead"])
	free := dohumanize(stats["freelist.bytes"])
	fmsg := "%v capacity %v heap %v allocated %v overhead %v free %v\n"
	infof(fmsg, heap.logprefix, capacity, heapsz, alloc, overh, free)

	fmsg = "%v allocs:%v callocs:%v frees:%v splits:%v merges:%v\n"
	infof(fmsg, heap.logprefix, stats["n_allocs"], stats["n_callocs"],
		stats["n_frees"], stats["n_splits"], stats["n_merges"])
	fmsg = "%v sbrks:%v releases:%v ooms:%v brkerrs:%v invalids:%v\n"
	infof(fmsg, heap.logprefix, stats["n_sbrks"], stats["n_releases"],
		stats["n_ooms"], stats["n_brkerrs"], stats["n_invalids"])
	infof("%v allocation sizes %v\n", heap.logprefix, heap.h_allocsz.Logstring())
}

// Utilization return the percentage of heap held by application.
func (heap *Heap) Utilization() float64 {
	_, heapsz, alloc, _ := heap.Info()
	if heapsz == 0 {
		return 0
	}
	return (float64(alloc) / float64(heapsz)) * 100
}

func (heap *Heap) String() string {
	_, heapsz, alloc, _ := heap.Info()
	return fmt.Sprintf("%v heap:%v allocated:%v free:%v",
		heap.logprefix, heapsz, alloc, heap.nfree)
}
