package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/services/wordle"
)

// Regular commands

func (s *BotSuite) TestPing() {
	s.Equal("Pong!", s.reply(alice, "!ping"))
}

func (s *BotSuite) TestWhoamiRegistered() {
	s.Equal("You are Alice.", s.reply(alice, "!whoami"))
}

func (s *BotSuite) TestWhoamiUnknown() {
	s.Contains(s.reply(carol, "!whoami"), "!register")
}

func (s *BotSuite) TestEcho() {
	s.Equal("hello  world", s.reply(alice, "!echo hello  world"))
}

func (s *BotSuite) TestEchoWithoutText() {
	s.Empty(s.send(alice, "!echo"))
}

func (s *BotSuite) TestRegister() {
	s.Equal("You are now Carol.", s.reply(carol, "!register Carol"))
	s.Equal("You are Carol.", s.reply(carol, "!whoami"))

	stored, _ := s.storage.LoadUsers(s.ctx)
	s.Require().Len(stored, 3)
	s.Equal("15550000000:Carol:0", stored[2].Record())
}

func (s *BotSuite) TestRegisterKeepsSpacesInName() {
	s.Equal("You are now Carol Smith.", s.reply(carol, "!register   Carol Smith  "))
}

func (s *BotSuite) TestRegisterAlreadyRegistered() {
	s.Equal("You are already registered as Alice.", s.reply(alice, "!register Mallory"))
	s.Equal("You are Alice.", s.reply(alice, "!whoami"))
}

func (s *BotSuite) TestRegisterAlreadyRegisteredWithoutName() {
	s.Equal("You are already registered as Alice.", s.reply(alice, "!register"))
}

func (s *BotSuite) TestRegisterMissingName() {
	s.Equal(MsgRegisterUsage, s.reply(carol, "!register"))
	s.Equal(MsgRegisterUsage, s.reply(carol, "!register    "))
	s.Equal(2, s.registry.Count())
}

func (s *BotSuite) TestFortune() {
	s.runner.Output = []byte(" _____\n< moo >\n")

	s.Equal(" _____\n< moo >\n", s.reply(alice, "!fortune"))
	s.Equal([]string{"fortune", "|", "cowsay", "-f", "hellokitty"}, s.runner.LastCall())
}

func (s *BotSuite) TestFortuneTimeout() {
	s.runner.RunFunc = func(ctx context.Context, argv []string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	s.Contains(s.reply(alice, "!fortune"), "timed out")
}

// Admin commands

func (s *BotSuite) TestMkadmin() {
	sent := s.send(bob, "!mkadmin 15551234567")

	s.Require().Len(sent, 2)
	s.Equal(MsgPromotedNotice, sent[0].Text)
	s.Equal(string(alice), sent[0].Recipient)
	s.Equal(MsgSuccess, sent[1].Text)
	s.Equal(string(bob), sent[1].Recipient)
	s.True(s.registry.IsAdmin(alice))
}

func (s *BotSuite) TestMkadminAlreadyAdmin() {
	sent := s.send(bob, "!mkadmin 15557654321")
	s.Require().Len(sent, 1)
	s.Equal(MsgSuccess, sent[0].Text)
}

func (s *BotSuite) TestMkadminUnregistered() {
	s.Equal("User not registered!", s.reply(bob, "!mkadmin 999"))
}

func (s *BotSuite) TestMkadminMissingNumber() {
	s.Equal(MsgMkadminUsage, s.reply(bob, "!mkadmin"))
}

func (s *BotSuite) TestPromotedUserSeesAdminCommands() {
	s.Equal(MsgUnknownCommand, s.reply(alice, "!users"))
	_ = s.send(bob, "!mkadmin 15551234567")
	s.NotEqual(MsgUnknownCommand, s.reply(alice, "!users"))
}

func (s *BotSuite) TestShRunsCommand() {
	s.runner.Output = []byte("file.txt\n")

	s.Equal("file.txt\n", s.reply(bob, "!sh ls  -la /tmp"))
	s.Equal([]string{"ls", "-la", "/tmp"}, s.runner.LastCall())
}

func (s *BotSuite) TestShRestrictedPath() {
	s.Equal("Restricted command :P", s.reply(bob, "!sh cat /signal-data/users"))
	s.Empty(s.runner.Calls)
}

func (s *BotSuite) TestShMissingCommand() {
	s.Equal(MsgShUsage, s.reply(bob, "!sh"))
}

func (s *BotSuite) TestShNoOutput() {
	s.Equal(MsgNoOutput, s.reply(bob, "!sh true"))
}

func (s *BotSuite) TestShNonZeroExit() {
	s.runner.RunFunc = func(ctx context.Context, argv []string) ([]byte, error) {
		return []byte("ls: cannot access 'nope'\n"), exitError(2)
	}

	s.Equal("[Error code 2]: ls: cannot access 'nope'\n", s.reply(bob, "!sh ls nope"))
}

func (s *BotSuite) TestShTimeout() {
	s.runner.RunFunc = func(ctx context.Context, argv []string) ([]byte, error) {
		<-ctx.Done()
		return nil, errors.New("signal: killed")
	}

	s.Contains(s.reply(bob, "!sh sleep 10"), "timed out")
}

func (s *BotSuite) TestShCommandNotFound() {
	s.runner.Err = model.ErrCommandNotFound

	s.Equal("command not found", s.reply(bob, "!sh nope"))
}

func (s *BotSuite) TestUsers() {
	s.Equal("15551234567:Alice:0\n15557654321:Bob:1", s.reply(bob, "!users"))
}

func (s *BotSuite) TestMsgRelays() {
	sent := s.send(bob, "!msg 15551234567 hello   there")

	s.Require().Len(sent, 1)
	s.Equal(string(alice), sent[0].Recipient)
	s.Empty(sent[0].GroupID)
	s.Equal("Sent on behalf of 15557654321 (Bob):\n"+
		"====================================\n"+
		"hello there", sent[0].Text)
}

func (s *BotSuite) TestMsgFromGroupIsSentDirect() {
	sent := s.sendGroup(bob, "!msg 15551234567 hi")
	s.Require().Len(sent, 1)
	s.Equal(string(alice), sent[0].Recipient)
	s.Empty(sent[0].GroupID)
}

func (s *BotSuite) TestMsgUsage() {
	s.Equal(MsgMsgUsage, s.reply(bob, "!msg"))
	s.Equal(MsgMsgUsage, s.reply(bob, "!msg 15551234567"))
}

func (s *BotSuite) TestParseRelay() {
	dest, body, err := parseRelay([]string{"15551234567", "hello", "there"})
	s.Require().NoError(err)
	s.Equal("15551234567", dest)
	s.Equal("hello there", body)

	_, _, err = parseRelay([]string{"15551234567"})
	s.ErrorIs(err, model.ErrUsage)
	_, _, err = parseRelay(nil)
	s.ErrorIs(err, model.ErrUsage)
}

func (s *BotSuite) TestStatus() {
	s.Contains(s.reply(bob, "!status"), "pi (linux)")
}

// Wordle

func (s *BotSuite) TestWordleBoardDirect() {
	board := s.reply(alice, "!wordle")
	s.True(strings.HasPrefix(board, wordle.Instructions))
	s.True(strings.HasSuffix(board, "Wordle 0 0/6"))
}

func (s *BotSuite) TestWordleBoardGroupHasHeader() {
	sent := s.sendGroup(alice, "!wordle")
	s.Require().Len(sent, 1)
	s.True(strings.HasPrefix(sent[0].Text, "Alice's Wordle:\n"+wordle.Instructions))
}

func (s *BotSuite) TestWordleBoardGroupUnknownUser() {
	sent := s.sendGroup(carol, "!wordle")
	s.Require().Len(sent, 1)
	s.True(strings.HasPrefix(sent[0].Text, "unknown's Wordle:\n"))
}

func (s *BotSuite) TestWordleGuess() {
	s.Equal(wordle.ScoreGuess("crane", "cigar").String(), s.reply(alice, "!wordle CIGAR"))
	s.Equal(wordle.ScoreGuess("crane", "crane").String(), s.reply(alice, "!wordle crane"))
	s.Equal(MsgPuzzleFinished, s.reply(alice, "!wordle slate"))
}

func (s *BotSuite) TestWordleGuessErrors() {
	s.Equal(MsgInvalidLength, s.reply(alice, "!wordle cat"))
	s.Equal(MsgNotInWordlist, s.reply(alice, "!wordle zzzzz"))
}

func (s *BotSuite) TestWordleDuplicateGuess() {
	_ = s.reply(alice, "!wordle cigar")
	s.True(strings.HasPrefix(s.reply(alice, "!wordle cigar"), wordle.DuplicateNotice))

	views, _ := s.wordle.ListGuesses(s.ctx, alice)
	s.Len(views, 1)
}

func (s *BotSuite) TestWordleGuessList() {
	s.Equal(MsgNoGuesses, s.reply(alice, "!wordle -g"))

	_ = s.reply(alice, "!wordle cigar")
	_ = s.reply(alice, "!wordle slate")

	s.Equal(wordle.ScoreGuess("crane", "cigar").String()+" CIGAR\n"+
		wordle.ScoreGuess("crane", "slate").String()+" SLATE",
		s.reply(alice, "!wordle -g"))
}

func (s *BotSuite) TestWordleGuessListRejectedInGroup() {
	_ = s.reply(alice, "!wordle cigar")

	sent := s.sendGroup(alice, "!wordle -g")
	s.Require().Len(sent, 1)
	s.Equal(MsgGuessListPrivate, sent[0].Text)
}
