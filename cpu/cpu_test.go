package cpu

import (
	"sync"
	"testing"
)

func TestCompareAndSwap(t *testing.T) {
	var w uint32 = 5
	if CompareAndSwap(&w, 4, 9) {
		t.Fatal("swap with stale expected value succeeded")
	}
	if w != 5 {
		t.Fatalf("failed swap changed word to %d", w)
	}
	if !CompareAndSwap(&w, 5, 9) {
		t.Fatal("swap with current value failed")
	}
	if w != 9 {
		t.Fatalf("word = %d, want 9", w)
	}
}

func TestModifyRetriesAfterInterference(t *testing.T) {
	var w uint32
	interfere := 3
	calls := 0
	SetCASHook(func(addr *uint32) {
		if interfere == 0 {
			return
		}
		interfere--
		Store(addr, Load(addr)+100)
	})
	defer SetCASHook(nil)

	old, n := Update(&w, func(v uint32) uint32 {
		calls++
		return v | 1
	})
	if calls != 4 {
		t.Fatalf("update fn ran %d times, want 4", calls)
	}
	if old != 300 || n != 301 {
		t.Fatalf("Update() = (%d, %d), want (300, 301)", old, n)
	}
	if w != 301 {
		t.Fatalf("word = %d, want 301", w)
	}
}

func TestModifyDeclineLeavesWord(t *testing.T) {
	var w uint32 = 7
	old, n, ok := Modify(&w, func(v uint32) (uint32, bool) { return 0, false })
	if ok || old != 7 || n != 7 || w != 7 {
		t.Fatalf("Modify() = (%d, %d, %v), word %d; want (7, 7, false), word 7", old, n, ok, w)
	}
}

func TestSaturatingCounters(t *testing.T) {
	var w uint32
	for i := 0; i < 5; i++ {
		IncrementSat(&w, 3)
	}
	if w != 3 {
		t.Fatalf("IncrementSat stopped at %d, want 3", w)
	}
	if got := Increment(&w); got != 4 {
		t.Fatalf("Increment() = %d, want 4", got)
	}
	for i := 0; i < 10; i++ {
		DecrementSat(&w, 1)
	}
	if w != 1 {
		t.Fatalf("DecrementSat stopped at %d, want 1", w)
	}
	if got := Decrement(&w); got != 0 {
		t.Fatalf("Decrement() = %d, want 0", got)
	}
}

func TestIncrementConcurrent(t *testing.T) {
	const (
		workers = 8
		perW    = 5000
	)
	var w uint32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perW; j++ {
				Increment(&w)
			}
		}()
	}
	wg.Wait()
	if w != workers*perW {
		t.Fatalf("counter = %d, want %d", w, workers*perW)
	}
}

func TestLeadingZeros(t *testing.T) {
	tcs := []struct {
		x    uint32
		want int
	}{
		{0, 32},
		{1, 31},
		{0x80000000, 0},
		{0x00010000, 15},
		{0x0000ffff, 16},
		{0x00400000, 9},
	}
	for _, tc := range tcs {
		if got := LeadingZeros(tc.x); got != tc.want {
			t.Fatalf("LeadingZeros(%#x) = %d, want %d", tc.x, got, tc.want)
		}
	}
}

func TestLockExcludes(t *testing.T) {
	var inside, max int
	var wg sync.WaitGroup
	var mu sync.Mutex
	wg.Add(4)
	for i := 0; i < 4; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				func() {
					defer Lock().Unlock()
					mu.Lock()
					inside++
					if inside > max {
						max = inside
					}
					mu.Unlock()

					mu.Lock()
					inside--
					mu.Unlock()
				}()
			}
		}()
	}
	wg.Wait()
	if max != 1 {
		t.Fatalf("%d contexts inside the masked section at once", max)
	}
}

func TestLockDoesNotNest(t *testing.T) {
	st := Lock()
	if mask.TryLock() {
		mask.Unlock()
		st.Unlock()
		t.Fatal("masked section entered twice")
	}
	st.Unlock()
	if !mask.TryLock() {
		t.Fatal("mask still held after Unlock")
	}
	mask.Unlock()
}
