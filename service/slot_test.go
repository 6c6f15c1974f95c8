package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSlotMutualExclusion(t *testing.T) {
	slot := NewSlot(1)

	var inFlight, maxInFlight atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slot.Acquire()
			defer slot.Release()

			cur := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				seen := maxInFlight.Load()
				if cur <= seen || maxInFlight.CompareAndSwap(seen, cur) {
					break
				}
			}
			time.Sleep(time.Millisecond)
		}()
	}
	wg.Wait()

	if got := maxInFlight.Load(); got != 1 {
		t.Errorf("expected at most one concurrent holder, observed %d", got)
	}
}

func TestSlotAcquireBlocksUntilRelease(t *testing.T) {
	slot := NewSlot(1)
	slot.Acquire()

	acquired := make(chan struct{})
	go func() {
		slot.Acquire()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should block while the slot is held")
	case <-time.After(20 * time.Millisecond):
	}

	slot.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("acquire did not proceed after release")
	}
	slot.Release()
}

func TestSlotCapacityFloor(t *testing.T) {
	slot := NewSlot(0)
	slot.Acquire()

	acquired := make(chan struct{})
	go func() {
		slot.Acquire()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("capacity should never drop below one")
	case <-time.After(20 * time.Millisecond):
	}
	slot.Release()
	<-acquired
}
