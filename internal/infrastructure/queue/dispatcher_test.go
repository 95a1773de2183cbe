package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-api/internal/core/domain"
)

type recordingService struct {
	mu    sync.Mutex
	views []domain.PostView
	done  chan struct{}
}

func (s *recordingService) Process(_ context.Context, v domain.PostView) error {
	s.mu.Lock()
	s.views = append(s.views, v)
	s.mu.Unlock()
	if s.done != nil {
		s.done <- struct{}{}
	}
	return nil
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())

	for _, id := range []string{"a", "65f1c0ffee", "another-post"} {
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("index %d out of range", first)
		}
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("shardIndex(%q) changed: %d then %d", id, first, got)
			}
		}
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_ProcessesInOrderPerPost(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}, 16)}
	d := NewDispatcher(4, svc, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	viewers := []string{"user:1", "user:2", "user:3"}
	for _, v := range viewers {
		d.Record(domain.PostView{PostID: "p1", ViewerID: v})
	}
	for range viewers {
		select {
		case <-svc.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for views")
		}
	}
	cancel()
	d.Wait()

	if len(svc.views) != len(viewers) {
		t.Fatalf("expected %d views, got %d", len(viewers), len(svc.views))
	}
	for i, v := range svc.views {
		if v.ViewerID != viewers[i] {
			t.Fatalf("views out of order: %+v", svc.views)
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, &recordingService{}, zerolog.Nop())

	// Not started: nothing drains the buffer.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.PostView{PostID: "p1"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected buffer to hold %d views, got %d", channelBuffer, got)
	}
}
