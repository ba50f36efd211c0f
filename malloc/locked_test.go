package malloc

import "fmt"
import "sync"
import "testing"
import "math/rand"
import "sync/atomic"

import "github.com/stretchr/testify/require"

import "github.com/bnclabs/gobrk/brk"

type testchunk struct {
	n    byte
	size int64
	ptr  int64
}

func TestLocked(t *testing.T) {
	var awg, fwg sync.WaitGroup
	var nallocated, nfreed int64

	nroutines, repeat := 8, 2000

	heap := newtestheap(t, brk.NewMemory(16*1024*1024), nil)
	mheap := NewLocked(heap)

	chans := make([]chan testchunk, 0, nroutines)
	for n := 0; n < nroutines; n++ {
		chans = append(chans, make(chan testchunk, 100))
	}
	errch := make(chan error, 2*nroutines*repeat)

	allocator := func(n byte, rnd *rand.Rand) {
		defer awg.Done()
		for i := 0; i < repeat; i++ {
			size := rnd.Int63n(512) + 1
			ptr, err := mheap.Alloc(size)
			if err != nil {
				errch <- err
				return
			}
			block := mheap.Bytes(ptr)
			for j := range block {
				block[j] = n
			}
			atomic.AddInt64(&nallocated, 1)
			chans[rnd.Intn(len(chans))] <- testchunk{n: n, size: size, ptr: ptr}
		}
	}
	freer := func(ch chan testchunk) {
		defer fwg.Done()
		for msg := range ch {
			block := mheap.Bytes(msg.ptr)
			if int64(len(block)) < msg.size {
				errch <- fmt.Errorf("expected %v, got %v", msg.size, len(block))
			}
			for _, x := range block {
				if x != msg.n {
					errch <- fmt.Errorf("ptr %v expected %v, got %v", msg.ptr, msg.n, x)
					break
				}
			}
			if err := mheap.Free(msg.ptr); err != nil {
				errch <- err
			}
			atomic.AddInt64(&nfreed, 1)
		}
	}

	awg.Add(nroutines)
	fwg.Add(nroutines)
	for n := 0; n < nroutines; n++ {
		go allocator(byte(n+1), rand.New(rand.NewSource(int64(n))))
		go freer(chans[n])
	}
	awg.Wait()
	for _, ch := range chans {
		close(ch)
	}
	fwg.Wait()
	close(errch)

	for err := range errch {
		t.Error(err)
	}
	require.Equal(t, nallocated, nfreed)
	require.NoError(t, mheap.Validate(true))

	_, heapsz, alloc, _ := mheap.Info()
	require.Equal(t, int64(0), alloc)
	stats := mheap.Stats()
	require.Equal(t, int64(nroutines*repeat), stats["n_allocs"])
	require.Equal(t, int64(nroutines*repeat), stats["n_frees"])
	t.Logf("heap %v after %v allocations", heapsz, nallocated)

	mheap.Release()
	_, err := mheap.Alloc(10)
	require.Error(t, err)
}
