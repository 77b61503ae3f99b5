package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestScheduleRunsTaskAsynchronously(t *testing.T) {
	d := New(2, zap.NewNop())
	d.Start()
	defer d.Stop()

	var mu sync.Mutex
	ran := false
	done := make(chan struct{})
	d.Schedule("test", func(ctx context.Context) error {
		mu.Lock()
		ran = true
		mu.Unlock()
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run in time")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, ran)
}

func TestScheduleSwallowsTaskErrors(t *testing.T) {
	d := New(1, zap.NewNop())
	d.Start()
	defer d.Stop()

	done := make(chan struct{})
	d.Schedule("failing", func(ctx context.Context) error {
		close(done)
		return assertError{}
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run in time")
	}
}

type assertError struct{}

func (assertError) Error() string { return "boom" }

func TestStopReturnsAfterTasksComplete(t *testing.T) {
	d := New(2, zap.NewNop())
	d.Start()

	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		d.Schedule("bulk", func(ctx context.Context) error {
			wg.Done()
			return nil
		})
	}
	wg.Wait()
	d.Stop()
}
