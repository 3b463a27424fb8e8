package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/signalbot/internal/dependencies/clock"
	"github.com/mcoot/signalbot/internal/transport"
)

// GroupPrefix marks an input line as sent to the console group
const GroupPrefix = "group:"

// GroupID is the group id given to lines starting with GroupPrefix
const GroupID = "console"

// Transport reads messages from a line-oriented reader and writes replies
// to a writer. Useful for trying commands locally without a messenger.
type Transport struct {
	in     io.Reader
	out    io.Writer
	sender string
	clock  clock.Clock
	logger *slog.Logger

	mu sync.Mutex
}

// New creates a console Transport where every line comes from sender
func New(in io.Reader, out io.Writer, sender string, clk clock.Clock, logger *slog.Logger) *Transport {
	return &Transport{
		in:     in,
		out:    out,
		sender: sender,
		clock:  clk,
		logger: logger,
	}
}

var _ transport.Transport = (*Transport)(nil)

func (t *Transport) Name() string {
	return "console"
}

func (t *Transport) Connect(ctx context.Context) error {
	t.logger.Info("console transport ready", slog.String("sender", t.sender))
	return ctx.Err()
}

// Subscribe emits one message per input line and closes at EOF
func (t *Transport) Subscribe(ctx context.Context) (<-chan transport.Message, error) {
	out := make(chan transport.Message)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			msg := t.parseLine(scanner.Text(), t.clock.Now())
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			t.logger.Warn("console input failed", slog.String("error", err.Error()))
		}
	}()

	return out, nil
}

func (t *Transport) parseLine(line string, now time.Time) transport.Message {
	msg := transport.Message{
		Timestamp: now,
		Sender:    t.sender,
		Text:      line,
	}
	if rest, ok := strings.CutPrefix(line, GroupPrefix); ok {
		msg.GroupID = GroupID
		msg.Text = strings.TrimLeft(rest, " ")
	}
	return msg
}

func (t *Transport) write(to, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.out, "[%s] %s\n", to, text)
	return err
}

func (t *Transport) SendDirect(_ context.Context, text, recipient string) error {
	return t.write(recipient, text)
}

func (t *Transport) SendGroup(_ context.Context, text, groupID string) error {
	return t.write(GroupPrefix+groupID, text)
}

func (t *Transport) Close() error {
	return nil
}
