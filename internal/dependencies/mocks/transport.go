package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/transport"
)

// SentMessage is one reply captured by MockTransport
type SentMessage struct {
	Text      string
	Recipient string
	GroupID   string
}

// MockTransport is a mock implementation of Transport for testing
type MockTransport struct {
	mu sync.Mutex

	// Inbound feeds messages to the subscriber; close it to end the session
	Inbound chan transport.Message

	// ConnectFailures is how many Connect calls fail before one succeeds
	ConnectFailures int
	connectCalls    int

	// SendErr is returned by every send when set
	SendErr error

	sent   []SentMessage
	closed bool
}

// Ensure MockTransport implements Transport
var _ transport.Transport = (*MockTransport)(nil)

// NewMockTransport creates a MockTransport with a buffered inbound channel
func NewMockTransport() *MockTransport {
	return &MockTransport{Inbound: make(chan transport.Message, 16)}
}

func (t *MockTransport) Name() string {
	return "mock"
}

// Connect fails with ErrTransportUnavailable until ConnectFailures is used up
func (t *MockTransport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.connectCalls++
	if t.connectCalls <= t.ConnectFailures {
		return model.ErrTransportUnavailable
	}
	return ctx.Err()
}

// ConnectCalls returns how many times Connect was called
func (t *MockTransport) ConnectCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connectCalls
}

// Subscribe returns the Inbound channel
func (t *MockTransport) Subscribe(ctx context.Context) (<-chan transport.Message, error) {
	return t.Inbound, nil
}

func (t *MockTransport) SendDirect(_ context.Context, text, recipient string) error {
	return t.record(SentMessage{Text: text, Recipient: recipient})
}

func (t *MockTransport) SendGroup(_ context.Context, text, groupID string) error {
	return t.record(SentMessage{Text: text, GroupID: groupID})
}

func (t *MockTransport) record(m SentMessage) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SendErr != nil {
		return t.SendErr
	}
	t.sent = append(t.sent, m)
	return nil
}

func (t *MockTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Sent returns a copy of all captured replies
func (t *MockTransport) Sent() []SentMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SentMessage, len(t.sent))
	copy(out, t.sent)
	return out
}

// LastSent returns the most recent reply, or the zero value if none
func (t *MockTransport) LastSent() SentMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.sent) == 0 {
		return SentMessage{}
	}
	return t.sent[len(t.sent)-1]
}

// Reset forgets captured replies
func (t *MockTransport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = nil
}

// Closed reports whether Close was called
func (t *MockTransport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
