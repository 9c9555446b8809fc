package kafka

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
)

// stubConsumerGroup blocks in Consume until the context is cancelled and
// records when the consume loop lets go of it.
type stubConsumerGroup struct {
	released chan struct{}
	errs     chan error

	mu     sync.Mutex
	closed bool
}

func newStubConsumerGroup() *stubConsumerGroup {
	return &stubConsumerGroup{
		released: make(chan struct{}, 1),
		errs:     make(chan error),
	}
}

func (s *stubConsumerGroup) Consume(ctx context.Context, _ []string, _ sarama.ConsumerGroupHandler) error {
	<-ctx.Done()
	select {
	case s.released <- struct{}{}:
	default:
	}
	return ctx.Err()
}

func (s *stubConsumerGroup) Errors() <-chan error { return s.errs }

func (s *stubConsumerGroup) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.errs)
	}
	return nil
}

func (s *stubConsumerGroup) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *stubConsumerGroup) Pause(map[string][]int32)  {}
func (s *stubConsumerGroup) Resume(map[string][]int32) {}
func (s *stubConsumerGroup) PauseAll()                 {}
func (s *stubConsumerGroup) ResumeAll()                {}

func TestConsumerStopsWhenContextCancelled(t *testing.T) {
	stub := newStubConsumerGroup()
	consumer := &Consumer{
		consumer: stub,
		groupID:  "test-group",
		topics:   []string{TopicSongUploaded},
		handlers: make(map[string]SongUploadedHandler),
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := consumer.Start(ctx); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	cancel()
	select {
	case <-stub.released:
	case <-time.After(2 * time.Second):
		t.Fatal("consume loop did not stop after context cancellation")
	}

	if err := consumer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !stub.isClosed() {
		t.Fatal("expected the consumer group to be closed")
	}
}
