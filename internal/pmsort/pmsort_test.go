package pmsort

import (
	"math/rand"
	"sort"
	"testing"
)

func isSorted(a []int32) bool {
	for i := 1; i < len(a); i++ {
		if a[i-1] > a[i] {
			return false
		}
	}
	return true
}

func multisetEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	ac := append([]int32(nil), a...)
	bc := append([]int32(nil), b...)
	sort.Slice(ac, func(i, j int) bool { return ac[i] < ac[j] })
	sort.Slice(bc, func(i, j int) bool { return bc[i] < bc[j] })
	for i := range ac {
		if ac[i] != bc[i] {
			return false
		}
	}
	return true
}

func randSlice(rng *rand.Rand, n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(rng.Intn(2_000_000) - 1_000_000)
	}
	return out
}

func TestSortSingleElement(t *testing.T) {
	arr := []int32{42}
	Sort(arr, 4)
	if arr[0] != 42 {
		t.Fatal("single-element array mutated")
	}
}

func TestSortVariousSizesAndWorkerCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sizes := []int{2, 3, 7, 16, 17, 100, 1000, 7919}
	workerCounts := []int{1, 2, 3, 4, 5, 16, 1024}

	for _, n := range sizes {
		original := randSlice(rng, n)
		for _, w := range workerCounts {
			arr := append([]int32(nil), original...)
			Sort(arr, w)
			if !isSorted(arr) {
				t.Fatalf("n=%d workers=%d: result not sorted: %v", n, w, arr)
			}
			if !multisetEqual(arr, original) {
				t.Fatalf("n=%d workers=%d: multiset changed", n, w)
			}
		}
	}
}

func TestThreadCountInvarianceMatchesSingleThreaded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	original := randSlice(rng, 5000)

	reference := append([]int32(nil), original...)
	Sort(reference, 1)

	for _, w := range []int{2, 3, 8, 64} {
		arr := append([]int32(nil), original...)
		Sort(arr, w)
		for i := range arr {
			if arr[i] != reference[i] {
				t.Fatalf("workers=%d diverged from single-threaded result at index %d", w, i)
			}
		}
	}
}

func TestWorkersClampedToLength(t *testing.T) {
	arr := []int32{3, 1, 2}
	Sort(arr, 1000)
	if !isSorted(arr) {
		t.Fatalf("expected sorted output with over-clamped worker count: %v", arr)
	}
}

func TestSortEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty array")
		}
	}()
	Sort(nil, 1)
}
