package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/domain/models"
)

// RecordingPublisher records every published message.
type RecordingPublisher struct {
	mu   sync.Mutex
	msgs []realtime.Message
}

// Publish implements realtime.Publisher.
func (p *RecordingPublisher) Publish(msg realtime.Message) {
	p.mu.Lock()
	p.msgs = append(p.msgs, msg)
	p.mu.Unlock()
}

// Messages returns a copy of what was published.
func (p *RecordingPublisher) Messages() []realtime.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Message(nil), p.msgs...)
}

// Events returns the published event names in order.
func (p *RecordingPublisher) Events() []string {
	var out []string
	for _, m := range p.Messages() {
		out = append(out, m.Event)
	}
	return out
}

// Count returns how many messages with event were published.
func (p *RecordingPublisher) Count(event string) int {
	n := 0
	for _, m := range p.Messages() {
		if m.Event == event {
			n++
		}
	}
	return n
}

// ErrFakePush is returned by FakeSender for failing endpoints.
var ErrFakePush = errors.New("fake push failure")

// FakeSender is a push.Sender that records calls. Endpoints listed in
// Status answer with that status; 2xx counts as success. A non-zero Delay
// makes every Send wait that long, or until its context is done.
type FakeSender struct {
	Status map[string]int
	Delay  time.Duration

	mu    sync.Mutex
	calls []string
}

// Send implements push.Sender.
func (s *FakeSender) Send(ctx context.Context, _ []byte, sub models.PushSubscription) (int, error) {
	s.mu.Lock()
	s.calls = append(s.calls, sub.Endpoint)
	s.mu.Unlock()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	status, ok := s.Status[sub.Endpoint]
	if !ok {
		return 201, nil
	}
	if status >= 200 && status < 300 {
		return status, nil
	}
	return status, ErrFakePush
}

// Calls returns the endpoints Send was called with.
func (s *FakeSender) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
