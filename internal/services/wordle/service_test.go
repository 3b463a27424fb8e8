package wordle

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/signalbot/internal/dependencies/mocks"
	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/services/wordlist"
	"github.com/mcoot/signalbot/internal/storage/memory"
	"github.com/mcoot/signalbot/internal/testutil"
)

const alice = model.UserID("15551234567")

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	words := wordlist.New(testutil.NopLogger())
	s.Require().NoError(words.LoadWords(
		[]string{"crane", "slate", "pious"},
		[]string{"eerie", "cigar", "adieu", "tread", "roate", "later", "sauce"},
	))

	s.service = New(s.storage, words, s.clock, Config{
		Epoch:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Location: time.UTC,
	}, testutil.NopLogger())
}

// Puzzle selection

func (s *ServiceSuite) TestEpochDayIsPuzzleZero() {
	s.Equal(0, s.service.PuzzleIndex())

	answer, err := s.service.AnswerForToday()
	s.Require().NoError(err)
	s.Equal("crane", answer)
}

func (s *ServiceSuite) TestIndexConstantWithinDay() {
	s.clock.Set(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s.Equal(0, s.service.PuzzleIndex())

	s.clock.Set(time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC))
	s.Equal(0, s.service.PuzzleIndex())
}

func (s *ServiceSuite) TestIndexIncrementsEachDay() {
	for day := 0; day < 10; day++ {
		s.Equal(day, s.service.PuzzleIndex())
		s.clock.Advance(24 * time.Hour)
	}
}

func (s *ServiceSuite) TestAnswerWrapsAfterListEnds() {
	s.clock.Advance(3 * 24 * time.Hour)

	answer, err := s.service.AnswerForToday()
	s.Require().NoError(err)
	s.Equal("crane", answer)
}

func (s *ServiceSuite) TestDayFollowsConfiguredTimezone() {
	s.service.cfg.Location = time.FixedZone("AEST", 10*60*60)

	// 20:00 UTC on the epoch is already the next morning in UTC+10
	s.clock.Set(time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC))
	s.Equal(1, s.service.PuzzleIndex())

	answer, _ := s.service.AnswerForToday()
	s.Equal("slate", answer)
}

func (s *ServiceSuite) TestIndexStableAcrossDST() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		s.T().Skip("timezone database unavailable")
	}
	s.service.cfg.Location = loc

	s.clock.Set(time.Date(2024, 3, 9, 12, 0, 0, 0, loc))
	before := s.service.PuzzleIndex()
	s.clock.Set(time.Date(2024, 3, 10, 12, 0, 0, 0, loc))
	s.Equal(before+1, s.service.PuzzleIndex())
}

// Scoring

func (s *ServiceSuite) TestScoreGuessExactMatch() {
	row := ScoreGuess("crane", "crane")
	s.Len(row, model.WordLength)
	s.True(row.Solved())
}

func (s *ServiceSuite) TestScoreGuessMixed() {
	row := ScoreGuess("crane", "cigar")
	s.Equal(model.Row{
		model.TileExact,
		model.TileAbsent,
		model.TileAbsent,
		model.TilePresent,
		model.TilePresent,
	}, row)
}

func (s *ServiceSuite) TestScoreGuessDoesNotLimitDuplicateLetters() {
	// "crane" has a single e, yet both non-final e's in "eerie" are reported present
	row := ScoreGuess("crane", "eerie")
	s.Equal(model.Row{
		model.TilePresent,
		model.TilePresent,
		model.TilePresent,
		model.TileAbsent,
		model.TileExact,
	}, row)
}

func (s *ServiceSuite) TestScoreGuessDeterministic() {
	s.Equal(ScoreGuess("slate", "later"), ScoreGuess("slate", "later"))
}

// Submitting guesses

func (s *ServiceSuite) TestSubmitGuessRecordsWord() {
	render, err := s.service.SubmitGuess(s.ctx, alice, "CIGAR")
	s.Require().NoError(err)
	s.Equal(ScoreGuess("crane", "cigar").String(), render)

	guesses, _ := s.storage.GetGuesses(s.ctx, "2024-01-01", alice)
	s.Equal([]string{"cigar"}, guesses)
}

func (s *ServiceSuite) TestSubmitGuessInvalidLength() {
	_, err := s.service.SubmitGuess(s.ctx, alice, "cat")
	s.ErrorIs(err, model.ErrInvalidLength)

	_, err = s.service.SubmitGuess(s.ctx, alice, "cranes")
	s.ErrorIs(err, model.ErrInvalidLength)
}

func (s *ServiceSuite) TestSubmitGuessNotInWordlist() {
	_, err := s.service.SubmitGuess(s.ctx, alice, "zzzzz")
	s.ErrorIs(err, model.ErrNotInWordlist)

	guesses, _ := s.storage.GetGuesses(s.ctx, "2024-01-01", alice)
	s.Empty(guesses)
}

func (s *ServiceSuite) TestDuplicateGuessNotStoredTwice() {
	_, _ = s.service.SubmitGuess(s.ctx, alice, "cigar")

	render, err := s.service.SubmitGuess(s.ctx, alice, "cigar")
	s.Require().NoError(err)
	s.True(strings.HasPrefix(render, DuplicateNotice+"\n"))
	s.True(strings.HasSuffix(render, ScoreGuess("crane", "cigar").String()))

	guesses, _ := s.storage.GetGuesses(s.ctx, "2024-01-01", alice)
	s.Len(guesses, 1)
}

func (s *ServiceSuite) TestSessionCappedAtSixGuesses() {
	for _, word := range []string{"eerie", "cigar", "adieu", "tread", "roate", "later"} {
		_, err := s.service.SubmitGuess(s.ctx, alice, word)
		s.Require().NoError(err)
	}

	_, err := s.service.SubmitGuess(s.ctx, alice, "sauce")
	s.ErrorIs(err, model.ErrPuzzleFinished)

	guesses, _ := s.storage.GetGuesses(s.ctx, "2024-01-01", alice)
	s.Len(guesses, model.MaxGuesses)
}

func (s *ServiceSuite) TestNoGuessesAfterSolve() {
	render, err := s.service.SubmitGuess(s.ctx, alice, "crane")
	s.Require().NoError(err)
	s.Equal(strings.Repeat(model.TileExact.String(), model.WordLength), render)

	_, err = s.service.SubmitGuess(s.ctx, alice, "slate")
	s.ErrorIs(err, model.ErrPuzzleFinished)
}

func (s *ServiceSuite) TestSessionsArePerUser() {
	_, _ = s.service.SubmitGuess(s.ctx, alice, "cigar")

	views, err := s.service.ListGuesses(s.ctx, "15557654321")
	s.Require().NoError(err)
	s.Empty(views)
}

func (s *ServiceSuite) TestNewDayStartsFreshSession() {
	_, _ = s.service.SubmitGuess(s.ctx, alice, "crane")

	s.clock.Advance(24 * time.Hour)

	render, err := s.service.SubmitGuess(s.ctx, alice, "crane")
	s.Require().NoError(err)
	s.Equal(ScoreGuess("slate", "crane").String(), render)

	guesses, _ := s.storage.GetGuesses(s.ctx, "2024-01-02", alice)
	s.Equal([]string{"crane"}, guesses)
}

// Board rendering

func (s *ServiceSuite) TestRenderEmptyBoard() {
	board, err := s.service.RenderBoard(s.ctx, alice)
	s.Require().NoError(err)

	lines := strings.Split(board, "\n")
	s.Equal(Instructions, lines[0])
	s.Equal("", lines[1])
	for _, line := range lines[2:8] {
		s.Equal(model.EmptyRow().String(), line)
	}
	s.Equal("Wordle 0 0/6", lines[8])
}

func (s *ServiceSuite) TestRenderBoardInProgress() {
	_, _ = s.service.SubmitGuess(s.ctx, alice, "cigar")

	board, err := s.service.RenderBoard(s.ctx, alice)
	s.Require().NoError(err)

	s.True(strings.HasPrefix(board, Instructions))
	s.Contains(board, ScoreGuess("crane", "cigar").String()+"\n")
	s.True(strings.HasSuffix(board, "Wordle 0 1/6"))
}

func (s *ServiceSuite) TestRenderSolvedBoard() {
	_, _ = s.service.SubmitGuess(s.ctx, alice, "cigar")
	_, _ = s.service.SubmitGuess(s.ctx, alice, "crane")

	board, err := s.service.RenderBoard(s.ctx, alice)
	s.Require().NoError(err)

	s.NotContains(board, Instructions)
	lines := strings.Split(board, "\n")
	s.Len(lines, model.MaxGuesses+1)
	s.Equal(ScoreGuess("crane", "cigar").String(), lines[0])
	s.Equal(ScoreGuess("crane", "crane").String(), lines[1])
	s.Equal(model.EmptyRow().String(), lines[2])
	s.Equal("Wordle 0 2/6", lines[6])
}

func (s *ServiceSuite) TestRenderDoesNotMutateSession() {
	_, _ = s.service.SubmitGuess(s.ctx, alice, "cigar")

	_, _ = s.service.RenderBoard(s.ctx, alice)
	_, _ = s.service.ListGuesses(s.ctx, alice)

	guesses, _ := s.storage.GetGuesses(s.ctx, "2024-01-01", alice)
	s.Equal([]string{"cigar"}, guesses)
}

func (s *ServiceSuite) TestListGuesses() {
	_, _ = s.service.SubmitGuess(s.ctx, alice, "cigar")
	_, _ = s.service.SubmitGuess(s.ctx, alice, "slate")

	views, err := s.service.ListGuesses(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal([]model.GuessView{
		{Word: "cigar", Row: ScoreGuess("crane", "cigar")},
		{Word: "slate", Row: ScoreGuess("crane", "slate")},
	}, views)
}

func (s *ServiceSuite) TestWordlistNotLoaded() {
	service := New(s.storage, wordlist.New(testutil.NopLogger()), s.clock, DefaultConfig(), testutil.NopLogger())

	_, err := service.RenderBoard(s.ctx, alice)
	s.ErrorIs(err, model.ErrWordlistNotLoaded)
}
