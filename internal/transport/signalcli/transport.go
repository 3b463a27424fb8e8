package signalcli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/transport"
)

// Interface is the D-Bus interface exported by signal-cli in daemon mode
const Interface = "org.asamk.Signal"

const (
	BusSystem  = "system"
	BusSession = "session"
)

// Config holds signal-cli D-Bus settings
type Config struct {
	// Bus is "system" or "session"
	Bus        string
	Service    string
	ObjectPath string
}

// DefaultConfig returns the paths signal-cli uses by default
func DefaultConfig() Config {
	return Config{
		Bus:        BusSystem,
		Service:    Interface,
		ObjectPath: "/org/asamk/Signal",
	}
}

// Transport talks to a signal-cli daemon over D-Bus
type Transport struct {
	cfg    Config
	logger *slog.Logger

	mu   sync.Mutex
	conn *dbus.Conn
	obj  dbus.BusObject
}

// New creates a new signal-cli Transport. Call Connect before use.
func New(cfg Config, logger *slog.Logger) *Transport {
	return &Transport{cfg: cfg, logger: logger}
}

var _ transport.Transport = (*Transport)(nil)

func (t *Transport) Name() string {
	return "signal"
}

func (t *Transport) dial(ctx context.Context) (*dbus.Conn, error) {
	switch t.cfg.Bus {
	case BusSession:
		return dbus.ConnectSessionBus(dbus.WithContext(ctx))
	case BusSystem, "":
		return dbus.ConnectSystemBus(dbus.WithContext(ctx))
	default:
		return nil, fmt.Errorf("unknown bus %q", t.cfg.Bus)
	}
}

// Connect opens the bus and asks signal-cli for its version, which fails
// until the daemon has exported its object
func (t *Transport) Connect(ctx context.Context) error {
	conn, err := t.dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrTransportUnavailable, err)
	}

	obj := conn.Object(t.cfg.Service, dbus.ObjectPath(t.cfg.ObjectPath))

	var version string
	if err := obj.CallWithContext(ctx, Interface+".version", 0).Store(&version); err != nil {
		_ = conn.Close()
		return fmt.Errorf("%w: %v", model.ErrTransportUnavailable, err)
	}

	t.mu.Lock()
	t.conn = conn
	t.obj = obj
	t.mu.Unlock()

	t.logger.Info("connected to signal-cli", slog.String("version", version))
	return nil
}

func (t *Transport) connected() (*dbus.Conn, dbus.BusObject, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil, nil, model.ErrTransportClosed
	}
	return t.conn, t.obj, nil
}

// Subscribe listens for MessageReceived signals
func (t *Transport) Subscribe(ctx context.Context) (<-chan transport.Message, error) {
	conn, _, err := t.connected()
	if err != nil {
		return nil, err
	}

	if err := conn.AddMatchSignalContext(ctx,
		dbus.WithMatchObjectPath(dbus.ObjectPath(t.cfg.ObjectPath)),
		dbus.WithMatchInterface(Interface),
		dbus.WithMatchMember("MessageReceived"),
	); err != nil {
		return nil, fmt.Errorf("subscribing to messages: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)

	out := make(chan transport.Message)
	go func() {
		defer close(out)
		defer conn.RemoveSignal(signals)

		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				msg, err := ParseMessageReceived(sig)
				if err != nil {
					t.logger.Debug("ignoring signal", slog.String("name", sig.Name), slog.String("error", err.Error()))
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

var errNotMessage = errors.New("not a MessageReceived signal")

// ParseMessageReceived decodes the signal body
// (timestamp, sender, groupId, message, attachments)
func ParseMessageReceived(sig *dbus.Signal) (transport.Message, error) {
	if sig == nil || sig.Name != Interface+".MessageReceived" {
		return transport.Message{}, errNotMessage
	}
	if len(sig.Body) != 5 {
		return transport.Message{}, fmt.Errorf("%w: body has %d fields", errNotMessage, len(sig.Body))
	}

	timestamp, ok1 := sig.Body[0].(int64)
	sender, ok2 := sig.Body[1].(string)
	group, ok3 := sig.Body[2].([]byte)
	text, ok4 := sig.Body[3].(string)
	attachments, ok5 := sig.Body[4].([]string)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return transport.Message{}, fmt.Errorf("%w: unexpected body types", errNotMessage)
	}

	msg := transport.Message{
		Timestamp:   time.UnixMilli(timestamp),
		Sender:      sender,
		Text:        text,
		Attachments: attachments,
	}
	if len(group) > 0 {
		msg.GroupID = EncodeGroupID(group)
	}
	return msg, nil
}

// EncodeGroupID renders a raw group id the way signal-cli prints it
func EncodeGroupID(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeGroupID reverses EncodeGroupID
func DecodeGroupID(id string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(id)
}

func (t *Transport) SendDirect(ctx context.Context, text, recipient string) error {
	_, obj, err := t.connected()
	if err != nil {
		return err
	}
	return obj.CallWithContext(ctx, Interface+".sendMessage", 0, text, []string{}, recipient).Err
}

func (t *Transport) SendGroup(ctx context.Context, text, groupID string) error {
	_, obj, err := t.connected()
	if err != nil {
		return err
	}
	raw, err := DecodeGroupID(groupID)
	if err != nil {
		return fmt.Errorf("invalid group id %q: %w", groupID, err)
	}
	return obj.CallWithContext(ctx, Interface+".sendGroupMessage", 0, text, []string{}, raw).Err
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	t.obj = nil
	return err
}
