package workerutil

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestHandleStartStopJoins(t *testing.T) {
	var h Handle
	var ran atomic.Bool

	h.Start()
	Go("test-worker", func() {
		defer h.Done()
		for h.Running() {
			time.Sleep(time.Millisecond)
		}
		ran.Store(true)
	})

	h.Stop() // must block until the goroutine observes Running()==false and returns

	if !ran.Load() {
		t.Fatal("worker goroutine never ran to completion before Stop returned")
	}
}

func TestGoRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	Go("panicky", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panicking goroutine never completed its deferred close")
	}
}
