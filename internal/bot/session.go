package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/services/registry"
	"github.com/mcoot/signalbot/internal/transport"
)

// DefaultRetryInterval is the wait between transport connection attempts
const DefaultRetryInterval = time.Second

// Session binds the router to a transport and runs the message loop
type Session struct {
	transport     transport.Transport
	registry      *registry.Service
	router        *Router
	retryInterval time.Duration
	logger        *slog.Logger

	connected atomic.Bool
}

// NewSession creates a Session. A non-positive retryInterval uses DefaultRetryInterval.
func NewSession(t transport.Transport, reg *registry.Service, router *Router, retryInterval time.Duration, logger *slog.Logger) *Session {
	if retryInterval <= 0 {
		retryInterval = DefaultRetryInterval
	}
	return &Session{
		transport:     t,
		registry:      reg,
		router:        router,
		retryInterval: retryInterval,
		logger:        logger,
	}
}

// Connected reports whether the session is subscribed to the transport
func (s *Session) Connected() bool {
	return s.connected.Load()
}

// TransportName returns the name of the underlying transport
func (s *Session) TransportName() string {
	return s.transport.Name()
}

// Run loads the registry, connects (retrying until the transport is up),
// then handles messages one at a time until ctx is cancelled. It returns
// nil on cancellation and model.ErrTransportClosed if the transport drops.
func (s *Session) Run(ctx context.Context) error {
	if err := s.registry.Load(ctx); err != nil {
		return err
	}

	if err := s.connect(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer func() {
		if err := s.transport.Close(); err != nil {
			s.logger.Warn("closing transport failed", slog.String("error", err.Error()))
		}
	}()

	messages, err := s.transport.Subscribe(ctx)
	if err != nil {
		return err
	}

	s.connected.Store(true)
	defer s.connected.Store(false)

	s.logger.Info("bot session started", slog.String("transport", s.transport.Name()))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("bot session stopping")
			return nil
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return model.ErrTransportClosed
			}
			s.Handle(ctx, msg)
		}
	}
}

// connect retries Connect at a fixed interval while the transport is unavailable
func (s *Session) connect(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		err := s.transport.Connect(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrTransportUnavailable) {
			return err
		}

		s.logger.Info("transport unavailable, waiting",
			slog.String("transport", s.transport.Name()),
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", s.retryInterval),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(s.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Handle processes a single inbound message
func (s *Session) Handle(ctx context.Context, msg transport.Message) {
	if msg.Text == "" {
		return
	}

	attrs := []any{
		slog.String("sender", msg.Sender),
		slog.String("text", msg.Text),
	}
	if msg.IsGroup() {
		attrs = append(attrs, slog.String("group", msg.GroupID))
	}
	s.logger.Info("message received", attrs...)

	s.router.Dispatch(ctx, msg.Text, model.UserID(msg.Sender), msg.GroupID)
}
