package booking

import (
	"sync"
	"testing"
)

func TestPortLocksSamePortIsSameMutex(t *testing.T) {
	locks := newPortLocks()
	if locks.get(1) != locks.get(1) {
		t.Fatal("expected the same mutex for the same port")
	}
	if locks.get(1) == locks.get(2) {
		t.Fatal("expected distinct mutexes for distinct ports")
	}
}

func TestPortLocksMutualExclusion(t *testing.T) {
	locks := newPortLocks()

	const workers = 32
	counter := 0
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			l := locks.get(7)
			l.Lock()
			counter++ // racy without the port lock
			l.Unlock()
		}()
	}
	wg.Wait()
	if counter != workers {
		t.Fatalf("counter = %d, want %d", counter, workers)
	}
}
