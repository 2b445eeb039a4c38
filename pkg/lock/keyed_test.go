package lock

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	k := NewKeyedMutex()
	var counter int64
	var maxObserved int64
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.WithLock("source-1", func() {
				n := atomic.AddInt64(&counter, 1)
				for {
					old := atomic.LoadInt64(&maxObserved)
					if n <= old || atomic.CompareAndSwapInt64(&maxObserved, old, n) {
						break
					}
				}
				atomic.AddInt64(&counter, -1)
			})
		}()
	}
	wg.Wait()

	if maxObserved != 1 {
		t.Fatalf("expected at most one goroutine inside the critical section at a time, observed %d", maxObserved)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	k := NewKeyedMutex()
	k.Lock("a")
	defer k.Unlock("a")

	done := make(chan struct{})
	go func() {
		k.WithLock("b", func() {})
		close(done)
	}()

	<-done
}
