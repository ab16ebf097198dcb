package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLastCallWins(t *testing.T) {
	d := New(20 * time.Millisecond)

	var mu sync.Mutex
	var got []int
	done := make(chan struct{}, 5)

	for i := 1; i <= 5; i++ {
		i := i
		d.Schedule(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			done <- struct{}{}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced task never ran")
	}
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("expected only the last task to run, got %v", got)
	}
}

func TestFlush(t *testing.T) {
	d := New(time.Hour)
	ran := false
	d.Schedule(func() { ran = true })

	if !d.Flush() {
		t.Fatal("Flush should report a pending task")
	}
	if !ran {
		t.Fatal("Flush should run the task synchronously")
	}
	if d.Flush() {
		t.Fatal("second Flush should find nothing")
	}
}

func TestStop(t *testing.T) {
	d := New(10 * time.Millisecond)
	var runs atomic.Int32
	d.Schedule(func() { runs.Add(1) })

	if !d.Stop() {
		t.Fatal("Stop should report a pending task")
	}
	time.Sleep(40 * time.Millisecond)
	if runs.Load() != 0 {
		t.Fatal("stopped task ran")
	}
	if d.Stop() {
		t.Fatal("nothing left to stop")
	}
}

func TestCallbacksDoNotOverlap(t *testing.T) {
	d := New(time.Millisecond)

	var active, maxActive, runs atomic.Int32
	task := func() {
		n := active.Add(1)
		for {
			m := maxActive.Load()
			if n <= m || maxActive.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		runs.Add(1)
	}

	for i := 0; i < 20; i++ {
		d.Schedule(task)
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	if maxActive.Load() > 1 {
		t.Fatalf("callbacks overlapped: %d at once", maxActive.Load())
	}
	if runs.Load() == 0 {
		t.Fatal("no callback ran")
	}
}

func TestDefaultDelay(t *testing.T) {
	if New(0).Delay() != DefaultDelay {
		t.Fatal("zero delay should use the default")
	}
}
