package bot

import (
	"errors"
	"strings"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/services/wordle"
	"github.com/mcoot/signalbot/internal/services/wordlist"
	"github.com/mcoot/signalbot/internal/testutil"
)

func (s *BotSuite) TestEmptyMessageIgnored() {
	s.Empty(s.send(alice, ""))
}

func (s *BotSuite) TestPlainDirectMessageGetsGreeting() {
	sent := s.send(carol, "hello there")
	s.Require().Len(sent, 1)
	s.Equal(MsgGreeting, sent[0].Text)
	s.Equal(string(carol), sent[0].Recipient)
}

func (s *BotSuite) TestPlainGroupMessageIgnored() {
	s.Empty(s.sendGroup(alice, "hello everyone"))
}

func (s *BotSuite) TestBarePrefixIgnored() {
	s.Empty(s.send(alice, "!"))
}

func (s *BotSuite) TestDoubledPrefixIgnored() {
	s.Empty(s.send(alice, "!!anything"))
	s.Empty(s.send(bob, "!!ping"))
	s.Empty(s.sendGroup(alice, "!!ping"))
}

func (s *BotSuite) TestWhitespaceOnlyCommandIgnored() {
	s.Empty(s.send(alice, "!   "))
}

func (s *BotSuite) TestUnknownCommand() {
	s.Equal(MsgUnknownCommand, s.reply(alice, "!frobnicate"))
}

func (s *BotSuite) TestKeywordIsCaseInsensitive() {
	s.Equal(MsgPong, s.reply(alice, "!PING"))
	s.Equal(MsgPong, s.reply(alice, "!Ping extra words"))
}

func (s *BotSuite) TestGroupRepliesGoToGroup() {
	sent := s.sendGroup(alice, "!ping")
	s.Require().Len(sent, 1)
	s.Equal(group, sent[0].GroupID)
	s.Empty(sent[0].Recipient)
}

func (s *BotSuite) TestAdminCommandsHiddenFromRegularUsers() {
	for _, cmd := range []string{"!mkadmin 1", "!sh ls", "!users", "!msg 1 hi", "!status"} {
		s.Equal(MsgUnknownCommand, s.reply(alice, cmd), cmd)
	}
	s.Empty(s.runner.Calls)
}

func (s *BotSuite) TestAdminTableIsSupersetOfRegular() {
	for _, c := range s.router.Regular().Commands() {
		admin, ok := s.router.Admin().Lookup(c.Name)
		s.True(ok, c.Name)
		s.Equal(c.Description, admin.Description)
	}
	s.Equal(s.router.Regular().Len()+5, s.router.Admin().Len())
}

func (s *BotSuite) TestResolve() {
	cmd, err := s.router.Regular().Resolve("ping")
	s.Require().NoError(err)
	s.Equal("ping", cmd.Name)

	_, err = s.router.Regular().Resolve("mkadmin")
	s.ErrorIs(err, model.ErrUnknownCommand)
	_, err = s.router.Admin().Resolve("mkadmin")
	s.NoError(err)
}

func (s *BotSuite) TestStatusOmittedWithoutHostStats() {
	router := NewRouter(Deps{Registry: s.registry, Replier: s.transport}, DefaultConfig(), testutil.NopLogger())
	_, ok := router.Admin().Lookup("status")
	s.False(ok)
	s.Equal(router.Regular().Len()+4, router.Admin().Len())
}

func (s *BotSuite) TestHelpRegularUser() {
	help := s.reply(alice, "!help")

	s.True(strings.HasPrefix(help, MsgHelpHeader+"\n  !help: HALP\n  !ping: Returns pong\n"))
	s.True(strings.HasSuffix(help, "\n\n"+MsgHelpFooter))
	s.Contains(help, "!wordle: ")
	s.NotContains(help, "!sh")
}

func (s *BotSuite) TestHelpAdminUser() {
	help := s.reply(bob, "!help")

	s.Contains(help, "\n  !mkadmin: *Make user admin")
	s.Contains(help, "\n  !sh: *Shell")
	s.Contains(help, "\n  !users: *List all registered users")
	s.Contains(help, "\n  !msg: *Message someone")
	s.Contains(help, "\n  !status: *Host status")
	s.Less(strings.Index(help, "!fortune"), strings.Index(help, "!mkadmin"))
}

func (s *BotSuite) TestPanicInHandlerRepliesGenerically() {
	s.stats.panic = true

	s.Equal(MsgInternalError, s.reply(bob, "!status"))

	// the next message is handled normally
	s.Equal(MsgPong, s.reply(bob, "!ping"))
}

func (s *BotSuite) TestHandlerErrorRepliesGenerically() {
	empty := wordlist.New(testutil.NopLogger())
	s.router.deps.Wordle = wordle.New(s.storage, empty, s.clock, wordle.DefaultConfig(), testutil.NopLogger())

	s.Equal(MsgInternalError, s.reply(alice, "!wordle"))
}

func (s *BotSuite) TestSendFailureDoesNotPanic() {
	s.transport.SendErr = errors.New("bus gone")
	s.NotPanics(func() {
		s.router.Dispatch(s.ctx, "!ping", alice, "")
	})
}
