package transport

import (
	"context"
	"time"
)

// Message is one inbound chat message
type Message struct {
	Timestamp time.Time
	Sender    string
	// GroupID is empty for direct messages
	GroupID     string
	Text        string
	Attachments []string
}

// IsGroup reports whether the message was sent to a group chat
func (m Message) IsGroup() bool {
	return m.GroupID != ""
}

// Transport connects the bot to a messaging service
type Transport interface {
	// Name identifies the transport in logs and the health endpoint
	Name() string

	// Connect reaches the messaging service once. It fails with
	// model.ErrTransportUnavailable when the service is not up yet.
	Connect(ctx context.Context) error

	// Subscribe streams inbound messages until ctx is done or the
	// connection drops, then closes the channel
	Subscribe(ctx context.Context) (<-chan Message, error)

	SendDirect(ctx context.Context, text, recipient string) error
	SendGroup(ctx context.Context, text, groupID string) error

	Close() error
}
