package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/services/hoststats"
	"github.com/mcoot/signalbot/internal/services/registry"
	"github.com/mcoot/signalbot/internal/services/shell"
	"github.com/mcoot/signalbot/internal/services/wordle"
)

// Replier sends outbound messages
type Replier interface {
	SendDirect(ctx context.Context, text, recipient string) error
	SendGroup(ctx context.Context, text, groupID string) error
}

// Request is one parsed command invocation
type Request struct {
	// Text is the message with the prefix removed, keyword included
	Text    string
	Sender  model.UserID
	GroupID string
	Admin   bool

	replier Replier
	logger  *slog.Logger
}

// IsGroup reports whether the command came from a group chat
func (r *Request) IsGroup() bool {
	return r.GroupID != ""
}

// Args returns the text after the keyword, trimmed
func (r *Request) Args() string {
	text := strings.TrimLeft(r.Text, " \t\n")
	i := strings.IndexAny(text, " \t\n")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i:])
}

// Fields returns the whitespace-separated tokens after the keyword
func (r *Request) Fields() []string {
	f := strings.Fields(r.Text)
	if len(f) == 0 {
		return nil
	}
	return f[1:]
}

// Reply answers in the chat the command came from
func (r *Request) Reply(ctx context.Context, text string) error {
	var err error
	if r.IsGroup() {
		err = r.replier.SendGroup(ctx, text, r.GroupID)
	} else {
		err = r.replier.SendDirect(ctx, text, string(r.Sender))
	}
	if err != nil {
		r.logger.Warn("sending reply failed",
			slog.String("sender", string(r.Sender)),
			slog.String("group", r.GroupID),
			slog.String("error", err.Error()),
		)
		return &replyError{err: err}
	}
	return nil
}

// replyError marks a failed send, which has already been logged
type replyError struct {
	err error
}

func (e *replyError) Error() string {
	return "sending reply: " + e.err.Error()
}

func (e *replyError) Unwrap() error {
	return e.err
}

// Replyf formats and sends a reply
func (r *Request) Replyf(ctx context.Context, format string, args ...any) error {
	return r.Reply(ctx, fmt.Sprintf(format, args...))
}

// Config holds command settings
type Config struct {
	// RestrictedPath may not appear anywhere in a shell command
	RestrictedPath string
	// FortuneCommand is piped into CowsayCommand for !fortune
	FortuneCommand []string
	CowsayCommand  []string
}

// DefaultConfig returns the stock command settings
func DefaultConfig() Config {
	return Config{
		RestrictedPath: "/signal-data",
		FortuneCommand: []string{"fortune"},
		CowsayCommand:  []string{"cowsay", "-f", "hellokitty"},
	}
}

// Deps are the services commands operate on. HostStats is optional.
type Deps struct {
	Registry  *registry.Service
	Wordle    *wordle.Service
	Shell     *shell.Service
	HostStats *hoststats.Service
	Replier   Replier
}

// Router parses commands and dispatches them by permission tier
type Router struct {
	deps   Deps
	cfg    Config
	logger *slog.Logger

	regular *Table
	admin   *Table
}

// NewRouter creates a Router with both command tiers built
func NewRouter(deps Deps, cfg Config, logger *slog.Logger) *Router {
	r := &Router{deps: deps, cfg: cfg, logger: logger}

	r.regular = NewTable(
		Command{"help", "HALP", r.handleHelp},
		Command{"ping", "Returns pong", r.handlePing},
		Command{"whoami", "Returns registered name", r.handleWhoami},
		Command{"echo", "Echos sent message back", r.handleEcho},
		Command{"register", "Register user", r.handleRegister},
		Command{"fortune", "Want a fortune?", r.handleFortune},
		Command{"wordle", "Play today's Wordle", r.handleWordle},
	)

	adminOnly := []Command{
		{"mkadmin", "*Make user admin", r.handleMkadmin},
		{"sh", "*Shell", r.handleSh},
		{"users", "*List all registered users", r.handleUsers},
		{"msg", "*Message someone", r.handleMsg},
	}
	if deps.HostStats != nil {
		adminOnly = append(adminOnly, Command{"status", "*Host status", r.handleStatus})
	}
	r.admin = r.regular.Extend(adminOnly...)

	return r
}

// Regular returns the commands available to everyone
func (r *Router) Regular() *Table {
	return r.regular
}

// Admin returns the commands available to admins
func (r *Router) Admin() *Table {
	return r.admin
}

// tableFor picks the command tier for a sender
func (r *Router) tableFor(admin bool) *Table {
	if admin {
		return r.admin
	}
	return r.regular
}

// Dispatch handles one inbound message. It never panics and never returns
// an error; failures are logged and reported to the sender.
func (r *Router) Dispatch(ctx context.Context, text string, sender model.UserID, groupID string) {
	if text == "" {
		return
	}

	req := &Request{
		Sender:  sender,
		GroupID: groupID,
		replier: r.deps.Replier,
		logger:  r.logger,
	}

	body, ok := strings.CutPrefix(text, Prefix)
	if !ok {
		if req.IsGroup() {
			r.logger.Debug("ignoring regular message from group", slog.String("group", groupID))
			return
		}
		_ = req.Reply(ctx, MsgGreeting)
		return
	}
	if body == "" {
		return
	}
	if strings.HasPrefix(body, Prefix) {
		r.logger.Debug("ignoring escaped message", slog.String("sender", string(sender)))
		return
	}

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return
	}
	keyword := strings.ToLower(fields[0])

	req.Text = body
	req.Admin = r.deps.Registry.IsAdmin(sender)

	cmd, err := r.tableFor(req.Admin).Resolve(keyword)
	if err != nil {
		r.logger.Debug("rejected command",
			slog.String("sender", string(sender)),
			slog.String("error", err.Error()),
		)
		_ = req.Reply(ctx, MsgUnknownCommand)
		return
	}

	r.logger.Debug("dispatching command",
		slog.String("command", keyword),
		slog.String("sender", string(sender)),
		slog.Bool("admin", req.Admin),
	)
	r.invoke(ctx, cmd, req)
}

// invoke runs a handler, turning errors and panics into a generic reply
func (r *Router) invoke(ctx context.Context, cmd Command, req *Request) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("panic recovered",
				slog.Any("error", p),
				slog.String("stack", string(debug.Stack())),
				slog.String("command", cmd.Name),
				slog.String("sender", string(req.Sender)),
			)
			_ = req.Reply(ctx, MsgInternalError)
		}
	}()

	if err := cmd.Handler(ctx, req); err != nil {
		var replyErr *replyError
		if errors.As(err, &replyErr) {
			return
		}
		r.logger.Error("command failed",
			slog.String("command", cmd.Name),
			slog.String("sender", string(req.Sender)),
			slog.String("error", err.Error()),
		)
		_ = req.Reply(ctx, MsgInternalError)
	}
}
