package main

import "os"
import "fmt"
import "time"
import "flag"
import "strings"
import "strconv"
import "math/rand"

import "gopkg.in/yaml.v3"
import "github.com/bnclabs/golog"
import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"

import "github.com/bnclabs/gobrk/brk"
import "github.com/bnclabs/gobrk/lib"
import "github.com/bnclabs/gobrk/malloc"

var options struct {
	settfile string
	breaker  string
	capacity int64
	size     [2]int64 // min-size, max-size
	n        int
	frees    int // percentage of operations that are frees
	calloc   int // percentage of allocations that are callocs
	seed     int64
	loglevel string
	validate bool
}

func argParse() {
	var size string

	flag.StringVar(&options.settfile, "settings", "",
		"yaml file with heap settings")
	flag.StringVar(&options.breaker, "breaker", "",
		"break space, mmap or memory")
	flag.Int64Var(&options.capacity, "capacity", 0,
		"maximum size of break space in bytes")
	flag.StringVar(&size, "size", "",
		"minsize,maxsize - allocate payloads between [minsize,maxsize)")
	flag.IntVar(&options.n, "n", 100000,
		"number of operations")
	flag.IntVar(&options.frees, "frees", 40,
		"percentage of operations that free a live chunk")
	flag.IntVar(&options.calloc, "calloc", 10,
		"percentage of allocations done via calloc")
	flag.Int64Var(&options.seed, "seed", time.Now().UnixNano(),
		"seed for random workload")
	flag.StringVar(&options.loglevel, "log", "warn",
		"log level")
	flag.BoolVar(&options.validate, "validate", false,
		"validate heap after every operation")
	flag.Parse()

	var err error
	if options.size, err = parsesize(size); err != nil {
		fmt.Printf("-size: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}
}

// parsesize parse "minsize,maxsize", maxsize is optional.
func parsesize(arg string) ([2]int64, error) {
	size := [2]int64{1, 4096}
	if arg == "" {
		return size, nil
	}
	parts := strings.Split(arg, ",")
	if len(parts) > 2 {
		return size, fmt.Errorf("expected minsize,maxsize, got %q", arg)
	}
	for i, x := range parts {
		ln, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return size, fmt.Errorf("invalid size %q", x)
		} else if ln <= 0 {
			return size, fmt.Errorf("size %v must be positive", ln)
		}
		size[i] = ln
	}
	if size[1] <= size[0] {
		size[1] = size[0] + 1
	}
	return size, nil
}

func main() {
	argParse()
	log.SetLogger(nil, map[string]interface{}{"log.level": options.loglevel})
	malloc.LogComponents("all")
	brk.LogComponents("all")

	setts, err := heapsettings()
	if err != nil {
		fmt.Printf("settings: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}
	heap, err := malloc.NewHeap("heapsim", nil, setts)
	if err != nil {
		fmt.Printf("heap: %v\n", err)
		os.Exit(1)
	}
	defer heap.Release()

	fmt.Printf("seed %v\n", options.seed)
	now := time.Now()
	ops := simulate(heap, rand.New(rand.NewSource(options.seed)))
	fmt.Printf("Took %v for %v operations\n", time.Since(now), ops)
	printutilization(heap)
}

// heapsettings mixin yaml file, if supplied, and command line over
// default settings.
func heapsettings() (s.Settings, error) {
	setts := malloc.Defaultsettings()
	if options.settfile != "" {
		data, err := os.ReadFile(options.settfile)
		if err != nil {
			return nil, err
		}
		filesetts := map[string]interface{}{}
		if err := yaml.Unmarshal(data, &filesetts); err != nil {
			return nil, err
		}
		for key, value := range filesetts {
			if x, ok := value.(int); ok { // yaml integers decode as int
				value = int64(x)
			}
			filesetts[key] = value
		}
		setts = setts.Mixin(s.Settings(filesetts))
	}
	if options.breaker != "" {
		setts["breaker"] = options.breaker
	}
	if options.capacity > 0 {
		setts["capacity"] = options.capacity
	}
	return setts, checksettings(setts)
}

// checksettings reject user supplied values that brk.New and
// malloc.NewHeap treat as programming errors.
func checksettings(setts s.Settings) error {
	name, ok := setts["breaker"].(string)
	if !ok || !brk.IsBreaker(name) {
		return fmt.Errorf("invalid breaker %v, expected mmap or memory", setts["breaker"])
	}
	for _, key := range []string{"capacity", "allocunit", "mindealloc"} {
		if _, ok := setts[key].(int64); !ok {
			return fmt.Errorf("invalid %v %v, expected integer", key, setts[key])
		}
	}
	if capacity := setts.Int64("capacity"); capacity <= 0 {
		return fmt.Errorf("invalid capacity %v", capacity)
	} else if allocunit := setts.Int64("allocunit"); allocunit <= malloc.Headersize {
		return fmt.Errorf("allocunit %v must exceed %v", allocunit, malloc.Headersize)
	} else if mindealloc := setts.Int64("mindealloc"); mindealloc < 0 {
		return fmt.Errorf("invalid mindealloc %v", mindealloc)
	}
	return nil
}

func simulate(heap *malloc.Heap, rnd *rand.Rand) int {
	live, ops := []int64{}, 0
	for ops = 0; ops < options.n; ops++ {
		if len(live) > 0 && rnd.Intn(100) < options.frees {
			off := rnd.Intn(len(live))
			if err := heap.Free(live[off]); err != nil {
				fmt.Printf("free(%v): %v\n", live[off], err)
				return ops
			}
			live[off] = live[len(live)-1]
			live = live[:len(live)-1]

		} else {
			min, max := options.size[0], options.size[1]
			size := rnd.Int63n(max-min) + min
			var ptr int64
			var err error
			if rnd.Intn(100) < options.calloc {
				ptr, err = heap.Calloc(1, size)
			} else {
				ptr, err = heap.Alloc(size)
			}
			if err != nil {
				fmt.Printf("alloc(%v): %v after %v live chunks\n", size, err, len(live))
				return ops
			}
			live = append(live, ptr)
		}

		if options.validate {
			if err := heap.Validate(true); err != nil {
				fmt.Printf("validate after %v operations: %v\n", ops, err)
				return ops
			}
		}
	}
	return ops
}

func printutilization(heap *malloc.Heap) {
	capacity, heapsz, alloc, overhead := heap.Info()
	fmsg := "capacity: %v heap: %v alloc: %v overhead: %v\n"
	fmt.Printf(fmsg,
		humanize.Bytes(uint64(capacity)), humanize.Bytes(uint64(heapsz)),
		humanize.Bytes(uint64(alloc)), humanize.Bytes(uint64(overhead)))
	fmt.Printf("utilization: %.2f%%\n", heap.Utilization())
	fmt.Println(lib.Prettystats(heap.Stats(), true))
	heap.Log(true)
}
