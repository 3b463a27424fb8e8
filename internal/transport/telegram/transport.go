package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mcoot/signalbot/internal/format"
	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/transport"
)

// MaxMessageLength is Telegram's limit on message text
const MaxMessageLength = 4096

// BotAPI abstracts the Telegram bot methods used by the transport
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Dialer creates a BotAPI and returns the bot's username
type Dialer func(token string) (BotAPI, string, error)

// DialBotAPI is the production Dialer
func DialBotAPI(token string) (BotAPI, string, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, "", err
	}
	return api, api.Self.UserName, nil
}

// Config holds Telegram settings
type Config struct {
	Token string
	// PollTimeout is the long-polling timeout in seconds
	PollTimeout int
}

// Transport receives and sends messages through the Telegram Bot API
type Transport struct {
	cfg    Config
	dial   Dialer
	logger *slog.Logger

	mu  sync.Mutex
	api BotAPI
}

// New creates a new Telegram Transport. A nil dial uses DialBotAPI.
func New(cfg Config, dial Dialer, logger *slog.Logger) *Transport {
	if dial == nil {
		dial = DialBotAPI
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 60
	}
	return &Transport{cfg: cfg, dial: dial, logger: logger}
}

var _ transport.Transport = (*Transport)(nil)

func (t *Transport) Name() string {
	return "telegram"
}

func (t *Transport) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	api, username, err := t.dial(t.cfg.Token)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrTransportUnavailable, err)
	}

	t.mu.Lock()
	t.api = api
	t.mu.Unlock()

	t.logger.Info("connected to telegram", slog.String("username", username))
	return nil
}

func (t *Transport) client() (BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.api == nil {
		return nil, model.ErrTransportClosed
	}
	return t.api, nil
}

// Subscribe long-polls for updates and forwards text messages
func (t *Transport) Subscribe(ctx context.Context) (<-chan transport.Message, error) {
	api, err := t.client()
	if err != nil {
		return nil, err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = t.cfg.PollTimeout
	updates := api.GetUpdatesChan(u)

	out := make(chan transport.Message)
	go func() {
		defer close(out)
		defer api.StopReceivingUpdates()

		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				msg, ok := convertUpdate(update)
				if !ok {
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

// convertUpdate maps a Telegram update to a Message. Private chats are
// direct messages; every other chat type is a group.
func convertUpdate(update tgbotapi.Update) (transport.Message, bool) {
	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return transport.Message{}, false
	}

	msg := transport.Message{
		Timestamp: m.Time(),
		Sender:    strconv.FormatInt(m.From.ID, 10),
		Text:      m.Text,
	}
	if !m.Chat.IsPrivate() {
		msg.GroupID = strconv.FormatInt(m.Chat.ID, 10)
	}
	return msg, true
}

func (t *Transport) send(chat, text string) error {
	api, err := t.client()
	if err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", chat, err)
	}
	_, err = api.Send(tgbotapi.NewMessage(chatID, format.Truncate(text, MaxMessageLength)))
	return err
}

func (t *Transport) SendDirect(_ context.Context, text, recipient string) error {
	return t.send(recipient, text)
}

func (t *Transport) SendGroup(_ context.Context, text, groupID string) error {
	return t.send(groupID, text)
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.api = nil
	return nil
}
