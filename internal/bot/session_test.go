package bot

import (
	"context"
	"time"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/services/registry"
	"github.com/mcoot/signalbot/internal/storage/file"
	"github.com/mcoot/signalbot/internal/testutil"
	"github.com/mcoot/signalbot/internal/transport"
)

func (s *BotSuite) newSession() *Session {
	return NewSession(s.transport, s.registry, s.router, time.Millisecond, testutil.NopLogger())
}

func (s *BotSuite) TestSessionHandlesMessagesUntilTransportCloses() {
	s.transport.Inbound <- transport.Message{Sender: string(alice), Text: "!ping"}
	s.transport.Inbound <- transport.Message{Sender: string(alice), Text: ""}
	s.transport.Inbound <- transport.Message{Sender: string(alice), GroupID: group, Text: "!whoami"}
	close(s.transport.Inbound)

	err := s.newSession().Run(s.ctx)
	s.ErrorIs(err, model.ErrTransportClosed)

	sent := s.transport.Sent()
	s.Require().Len(sent, 2)
	s.Equal("Pong!", sent[0].Text)
	s.Equal("You are Alice.", sent[1].Text)
	s.Equal(group, sent[1].GroupID)
	s.True(s.transport.Closed())
}

func (s *BotSuite) TestSessionRetriesUntilTransportAvailable() {
	s.transport.ConnectFailures = 3
	close(s.transport.Inbound)

	_ = s.newSession().Run(s.ctx)
	s.Equal(4, s.transport.ConnectCalls())
}

func (s *BotSuite) TestSessionRetryIsCancellable() {
	s.transport.ConnectFailures = 1 << 30
	session := NewSession(s.transport, s.registry, s.router, time.Hour, testutil.NopLogger())

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	s.Eventually(func() bool {
		return s.transport.ConnectCalls() > 0
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(time.Second):
		s.Fail("session did not stop after cancel")
	}
	s.False(session.Connected())
}

func (s *BotSuite) TestSessionStopsOnCancel() {
	session := s.newSession()
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	s.Eventually(session.Connected, time.Second, time.Millisecond)

	s.transport.Inbound <- transport.Message{Sender: string(alice), Text: "!ping"}
	s.Eventually(func() bool { return len(s.transport.Sent()) == 1 }, time.Second, time.Millisecond)

	cancel()
	s.NoError(<-done)
	s.False(session.Connected())
}

func (s *BotSuite) TestSessionFailsOnBrokenRegistry() {
	store := file.New(file.Config{
		UsersFile:  s.T().TempDir() + "/missing",
		SessionDir: s.T().TempDir(),
	})
	reg := registry.New(store, testutil.NopLogger())
	session := NewSession(s.transport, reg, s.router, time.Millisecond, testutil.NopLogger())

	s.Error(session.Run(s.ctx))
	s.Zero(s.transport.ConnectCalls())
}

func (s *BotSuite) TestSessionReportsTransportName() {
	s.Equal("mock", s.newSession().TransportName())
}
