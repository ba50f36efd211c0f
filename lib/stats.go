package lib

import "fmt"
import "sort"
import "strings"
import "strconv"
import "math/bits"

// Average compute running minimum, maximum and mean of samples.
type Average struct {
	n      int64
	minval int64
	maxval int64
	sum    int64
}

// Add a sample.
func (av *Average) Add(sample int64) {
	if av.n == 0 || sample < av.minval {
		av.minval = sample
	}
	if av.n == 0 || sample > av.maxval {
		av.maxval = sample
	}
	av.n++
	av.sum += sample
}

// Min return minimum value from samples.
func (av *Average) Min() int64 {
	return av.minval
}

// Max return maximum value from samples.
func (av *Average) Max() int64 {
	return av.maxval
}

// Samples return total number of samples.
func (av *Average) Samples() int64 {
	return av.n
}

// Sum return the sum of all samples.
func (av *Average) Sum() int64 {
	return av.sum
}

// Mean return the average value of all samples.
func (av *Average) Mean() int64 {
	if av.n == 0 {
		return 0
	}
	return av.sum / av.n
}

// Stats return a map of samples, min, max and mean.
func (av *Average) Stats() map[string]interface{} {
	return map[string]interface{}{
		"samples": av.Samples(),
		"min":     av.Min(),
		"max":     av.Max(),
		"mean":    av.Mean(),
	}
}

// Sizeclasses histogram of byte sizes, bucketed by powers of two. A
// size falls in the smallest class that is larger than or equal to it.
type Sizeclasses struct {
	Average
	classes [64]int64
}

// Add a size to the histogram, non-positive sizes are counted in
// class 0.
func (sc *Sizeclasses) Add(size int64) {
	sc.Average.Add(size)
	sc.classes[sizeclass(size)]++
}

// Count return number of samples in the class holding `size`.
func (sc *Sizeclasses) Count(size int64) int64 {
	return sc.classes[sizeclass(size)]
}

// Stats return non-empty classes, keyed by class upper bound.
func (sc *Sizeclasses) Stats() map[string]int64 {
	m := make(map[string]int64)
	for class, count := range sc.classes {
		if count > 0 {
			m[classkey(class)] = count
		}
	}
	return m
}

// Fullstats includes samples, min, max and mean along with Stats().
func (sc *Sizeclasses) Fullstats() map[string]interface{} {
	stats := sc.Average.Stats()
	stats["histogram"] = sc.Stats()
	return stats
}

// Logstring return Fullstats as loggable string, classes in ascending
// order.
func (sc *Sizeclasses) Logstring() string {
	hs := []string{}
	for class, count := range sc.classes {
		if count > 0 {
			hs = append(hs, fmt.Sprintf(`"%v": %v`, classkey(class), count))
		}
	}
	ss := []string{}
	for key, value := range sc.Average.Stats() {
		ss = append(ss, fmt.Sprintf(`"%v": %v`, key, value))
	}
	sort.Strings(ss)
	ss = append(ss, fmt.Sprintf(`"histogram": {%v}`, strings.Join(hs, ",")))
	return "{" + strings.Join(ss, ",") + "}"
}

func sizeclass(size int64) int {
	if size <= 1 {
		return 0
	}
	return bits.Len64(uint64(size - 1))
}

func classkey(class int) string {
	return strconv.FormatUint(uint64(1)<<uint(class), 10)
}
