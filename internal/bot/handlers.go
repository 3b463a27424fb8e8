package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/services/shell"
)

func (r *Router) handleHelp(ctx context.Context, req *Request) error {
	var b strings.Builder
	b.WriteString(MsgHelpHeader)
	for _, c := range r.tableFor(req.Admin).Commands() {
		fmt.Fprintf(&b, "\n  %s%s: %s", Prefix, c.Name, c.Description)
	}
	b.WriteString("\n\n")
	b.WriteString(MsgHelpFooter)
	return req.Reply(ctx, b.String())
}

func (r *Router) handlePing(ctx context.Context, req *Request) error {
	return req.Reply(ctx, MsgPong)
}

func (r *Router) handleWhoami(ctx context.Context, req *Request) error {
	user, err := r.deps.Registry.Lookup(req.Sender)
	if err != nil {
		return req.Reply(ctx, MsgWhoamiUnknown)
	}
	return req.Replyf(ctx, MsgWhoami, user.DisplayName)
}

// handleEcho replies with everything after "echo ", keeping the original spacing
func (r *Router) handleEcho(ctx context.Context, req *Request) error {
	const offset = len("echo ")
	if len(req.Text) <= offset {
		return nil
	}
	return req.Reply(ctx, req.Text[offset:])
}

func (r *Router) handleRegister(ctx context.Context, req *Request) error {
	user, err := r.deps.Registry.Register(ctx, req.Sender, req.Args())
	switch {
	case errors.Is(err, model.ErrAlreadyRegistered):
		return req.Replyf(ctx, MsgAlreadyRegistered, user.DisplayName)
	case errors.Is(err, model.ErrMissingParameter):
		return req.Reply(ctx, MsgRegisterUsage)
	case err != nil:
		return err
	}
	return req.Replyf(ctx, MsgRegistered, user.DisplayName)
}

func (r *Router) handleFortune(ctx context.Context, req *Request) error {
	out, err := r.deps.Shell.Pipe(ctx, r.cfg.FortuneCommand, r.cfg.CowsayCommand)
	if err != nil {
		return req.Reply(ctx, processErrorText(err))
	}
	return req.Reply(ctx, out)
}

func (r *Router) handleMkadmin(ctx context.Context, req *Request) error {
	number := req.Args()
	if number == "" {
		return req.Reply(ctx, MsgMkadminUsage)
	}

	promoted, err := r.deps.Registry.Promote(ctx, model.UserID(number))
	if errors.Is(err, model.ErrUnknownUser) {
		return req.Reply(ctx, MsgNotRegistered)
	}
	if err != nil {
		return err
	}

	if promoted {
		if err := r.deps.Replier.SendDirect(ctx, MsgPromotedNotice, number); err != nil {
			r.logger.Warn("notifying promoted user failed",
				slog.String("user_id", number),
				slog.String("error", err.Error()),
			)
		}
	}
	return req.Reply(ctx, MsgSuccess)
}

func (r *Router) handleSh(ctx context.Context, req *Request) error {
	if r.cfg.RestrictedPath != "" && strings.Contains(req.Text, r.cfg.RestrictedPath) {
		r.logger.Warn("refused restricted shell command", slog.String("sender", string(req.Sender)))
		return req.Reply(ctx, MsgRestricted)
	}

	argv := req.Fields()
	if len(argv) == 0 {
		return req.Reply(ctx, MsgShUsage)
	}

	out, err := r.deps.Shell.Run(ctx, argv)
	if err != nil {
		return req.Reply(ctx, processErrorText(err))
	}
	if out == "" {
		out = MsgNoOutput
	}
	return req.Reply(ctx, out)
}

// processErrorText renders an external process failure for chat
func processErrorText(err error) string {
	var exitErr *shell.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Error()
	}
	return err.Error()
}

func (r *Router) handleUsers(ctx context.Context, req *Request) error {
	users := r.deps.Registry.Users()
	if len(users) == 0 {
		return req.Reply(ctx, MsgNoUsers)
	}

	lines := make([]string, len(users))
	for i, u := range users {
		lines[i] = u.Record()
	}
	return req.Reply(ctx, strings.Join(lines, "\n"))
}

// handleMsg relays text to another number as a direct message. Nothing is
// sent back to the sender on success.
func (r *Router) handleMsg(ctx context.Context, req *Request) error {
	dest, body, err := parseRelay(req.Fields())
	if errors.Is(err, model.ErrUsage) {
		return req.Reply(ctx, MsgMsgUsage)
	}

	name := MsgWordleUnknownName
	if user, err := r.deps.Registry.Lookup(req.Sender); err == nil {
		name = user.DisplayName
	}

	text := fmt.Sprintf(MsgRelay, req.Sender, name, body)
	if err := r.deps.Replier.SendDirect(ctx, text, dest); err != nil {
		return fmt.Errorf("relaying to %s: %w", dest, err)
	}

	r.logger.Info("relayed message",
		slog.String("sender", string(req.Sender)),
		slog.String("recipient", dest),
	)
	return nil
}

// parseRelay splits !msg arguments into the recipient and the words to send
func parseRelay(fields []string) (dest, body string, err error) {
	if len(fields) < 2 {
		return "", "", fmt.Errorf("%w: msg needs a recipient and a message", model.ErrUsage)
	}
	return fields[0], strings.Join(fields[1:], " "), nil
}

func (r *Router) handleStatus(ctx context.Context, req *Request) error {
	report, err := r.deps.HostStats.Report(ctx)
	if err != nil {
		return req.Replyf(ctx, "Could not read host stats: %v", err)
	}
	return req.Reply(ctx, report)
}

func (r *Router) handleWordle(ctx context.Context, req *Request) error {
	args := req.Fields()

	switch {
	case len(args) == 0:
		return r.wordleBoard(ctx, req)
	case args[0] == MsgWordleGuessListArg:
		return r.wordleGuesses(ctx, req)
	default:
		return r.wordleGuess(ctx, req, args[0])
	}
}

func (r *Router) wordleBoard(ctx context.Context, req *Request) error {
	board, err := r.deps.Wordle.RenderBoard(ctx, req.Sender)
	if err != nil {
		return err
	}
	if !req.IsGroup() {
		return req.Reply(ctx, board)
	}

	name := MsgWordleUnknownName
	if user, err := r.deps.Registry.Lookup(req.Sender); err == nil {
		name = user.DisplayName
	}
	return req.Reply(ctx, fmt.Sprintf(MsgWordleHeader, name)+board)
}

func (r *Router) wordleGuesses(ctx context.Context, req *Request) error {
	if req.IsGroup() {
		return req.Reply(ctx, MsgGuessListPrivate)
	}

	views, err := r.deps.Wordle.ListGuesses(ctx, req.Sender)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		return req.Reply(ctx, MsgNoGuesses)
	}

	lines := make([]string, len(views))
	for i, v := range views {
		lines[i] = v.Row.String() + " " + strings.ToUpper(v.Word)
	}
	return req.Reply(ctx, strings.Join(lines, "\n"))
}

func (r *Router) wordleGuess(ctx context.Context, req *Request, word string) error {
	render, err := r.deps.Wordle.SubmitGuess(ctx, req.Sender, word)
	switch {
	case errors.Is(err, model.ErrInvalidLength):
		return req.Reply(ctx, MsgInvalidLength)
	case errors.Is(err, model.ErrNotInWordlist):
		return req.Reply(ctx, MsgNotInWordlist)
	case errors.Is(err, model.ErrPuzzleFinished):
		return req.Reply(ctx, MsgPuzzleFinished)
	case err != nil:
		return err
	}
	return req.Reply(ctx, render)
}
