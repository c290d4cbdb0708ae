package realtime

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-portal/internal/features/feedback"

	"go.uber.org/zap"
)

// slowWriter flags any overlapping WriteMessage calls, which the
// underlying websocket forbids.
type slowWriter struct {
	active  int32
	overlap int32
	writes  int32
	err     error
}

func (w *slowWriter) WriteMessage(messageType int, data []byte) error {
	if atomic.AddInt32(&w.active, 1) > 1 {
		atomic.StoreInt32(&w.overlap, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&w.active, -1)
	atomic.AddInt32(&w.writes, 1)
	return w.err
}

func (w *slowWriter) Close() error { return nil }

func TestPushFeedbackSerializesWrites(t *testing.T) {
	hub := NewHub(zap.NewNop())
	w := &slowWriter{}
	hub.add("user-1", w)

	// Simultaneous feedback submissions to portals of the same owner all
	// push to the same connection.
	const pushes = 10
	var wg sync.WaitGroup
	wg.Add(pushes)
	for i := 0; i < pushes; i++ {
		go func() {
			defer wg.Done()
			hub.PushFeedback("user-1", &feedback.Message{Message: "hi"})
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&w.overlap) != 0 {
		t.Error("concurrent writes reached the connection")
	}
	if got := atomic.LoadInt32(&w.writes); got != pushes {
		t.Errorf("writes = %d, want %d", got, pushes)
	}
}

func TestPushFeedbackDropsDeadConnection(t *testing.T) {
	hub := NewHub(zap.NewNop())
	dead := &slowWriter{err: errors.New("broken pipe")}
	live := &slowWriter{}
	hub.add("user-1", dead)
	hub.add("user-1", live)

	hub.PushFeedback("user-1", &feedback.Message{Message: "hi"})

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if len(hub.conns["user-1"]) != 1 {
		t.Fatalf("expected 1 surviving connection, got %d", len(hub.conns["user-1"]))
	}
	if hub.conns["user-1"][0].w != live {
		t.Error("wrong connection dropped")
	}
}
