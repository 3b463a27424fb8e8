package wordle

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mcoot/signalbot/internal/dependencies/clock"
	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/services/wordlist"
	"github.com/mcoot/signalbot/internal/storage"
)

// Instructions is shown above the board while the puzzle is still in play
const Instructions = "Guess today's word with '!wordle [word]'. Use '!wordle -g' to see your guesses."

// DuplicateNotice prefixes the feedback for a word already guessed today
const DuplicateNotice = "You already guessed that word!"

// Config holds puzzle selection settings
type Config struct {
	// Epoch is the calendar day of puzzle 0
	Epoch time.Time
	// Location is the timezone whose calendar decides when the day rolls over
	Location *time.Location
}

// DefaultConfig returns the default epoch in local time
func DefaultConfig() Config {
	return Config{
		Epoch:    time.Date(2021, time.June, 19, 0, 0, 0, 0, time.UTC),
		Location: time.Local,
	}
}

// Service runs the daily word game
type Service struct {
	storage  storage.Storage
	wordlist *wordlist.Service
	clock    clock.Clock
	cfg      Config
	logger   *slog.Logger
}

// New creates a new wordle Service
func New(store storage.Storage, words *wordlist.Service, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Service{
		storage:  store,
		wordlist: words,
		clock:    clk,
		cfg:      cfg,
		logger:   logger,
	}
}

// puzzle is today's puzzle, resolved from a single clock reading
type puzzle struct {
	day    model.Day
	index  int
	answer string
}

func (s *Service) today() (puzzle, error) {
	now := s.clock.Now().In(s.cfg.Location)
	index := daysBetween(s.cfg.Epoch, now)

	answer, err := s.wordlist.Answer(index)
	if err != nil {
		return puzzle{}, err
	}

	return puzzle{
		day:    model.DayOf(now),
		index:  index,
		answer: answer,
	}, nil
}

// daysBetween counts calendar days from the date of `from` to the date of `to`,
// each read in its own location
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start) / (24 * time.Hour))
}

// PuzzleIndex returns the number of days since the epoch, in the configured timezone
func (s *Service) PuzzleIndex() int {
	return daysBetween(s.cfg.Epoch, s.clock.Now().In(s.cfg.Location))
}

// AnswerForToday returns today's answer word
func (s *Service) AnswerForToday() (string, error) {
	p, err := s.today()
	if err != nil {
		return "", err
	}
	return p.answer, nil
}

// ScoreGuess compares a guess to the answer position by position.
// A letter that is not exact is present if it occurs anywhere in the answer,
// without accounting for how many times it occurs.
func ScoreGuess(answer, guess string) model.Row {
	a := []rune(answer)
	g := []rune(guess)

	row := make(model.Row, len(g))
	for i, r := range g {
		switch {
		case i < len(a) && a[i] == r:
			row[i] = model.TileExact
		case slices.Contains(a, r):
			row[i] = model.TilePresent
		default:
			row[i] = model.TileAbsent
		}
	}
	return row
}

func finished(answer string, guesses []string) bool {
	return len(guesses) >= model.MaxGuesses || slices.Contains(guesses, answer)
}

// SubmitGuess scores a guess against today's answer and records it.
// A repeated guess is scored again but not stored a second time.
func (s *Service) SubmitGuess(ctx context.Context, userID model.UserID, word string) (string, error) {
	word = strings.ToLower(strings.TrimSpace(word))

	if utf8.RuneCountInString(word) != model.WordLength {
		return "", model.ErrInvalidLength
	}
	if !s.wordlist.IsValidWord(word) {
		return "", model.ErrNotInWordlist
	}

	p, err := s.today()
	if err != nil {
		return "", err
	}

	guesses, err := s.storage.GetGuesses(ctx, p.day, userID)
	if err != nil {
		return "", fmt.Errorf("loading guesses: %w", err)
	}

	if finished(p.answer, guesses) {
		return "", model.ErrPuzzleFinished
	}

	row := ScoreGuess(p.answer, word)

	if slices.Contains(guesses, word) {
		return DuplicateNotice + "\n" + row.String(), nil
	}

	guesses = append(guesses, word)
	if err := s.storage.SaveGuesses(ctx, p.day, userID, guesses); err != nil {
		return "", fmt.Errorf("saving guesses: %w", err)
	}

	s.logger.Debug("wordle guess recorded",
		slog.String("user_id", string(userID)),
		slog.String("day", string(p.day)),
		slog.Int("guesses", len(guesses)),
		slog.Bool("solved", row.Solved()),
	)

	return row.String(), nil
}

// RenderBoard replays today's guesses as a full board with a status line
func (s *Service) RenderBoard(ctx context.Context, userID model.UserID) (string, error) {
	p, err := s.today()
	if err != nil {
		return "", err
	}

	guesses, err := s.storage.GetGuesses(ctx, p.day, userID)
	if err != nil {
		return "", fmt.Errorf("loading guesses: %w", err)
	}

	var b strings.Builder
	if !finished(p.answer, guesses) {
		b.WriteString(Instructions)
		b.WriteString("\n\n")
	}

	played := 0
	for _, guess := range guesses {
		row := ScoreGuess(p.answer, guess)
		b.WriteString(row.String())
		b.WriteString("\n")
		played++
		if row.Solved() {
			break
		}
	}
	for i := played; i < model.MaxGuesses; i++ {
		b.WriteString(model.EmptyRow().String())
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Wordle %d %d/%d", p.index, played, model.MaxGuesses)
	return b.String(), nil
}

// ListGuesses returns today's guesses paired with their feedback
func (s *Service) ListGuesses(ctx context.Context, userID model.UserID) ([]model.GuessView, error) {
	p, err := s.today()
	if err != nil {
		return nil, err
	}

	guesses, err := s.storage.GetGuesses(ctx, p.day, userID)
	if err != nil {
		return nil, fmt.Errorf("loading guesses: %w", err)
	}

	views := make([]model.GuessView, len(guesses))
	for i, guess := range guesses {
		views[i] = model.GuessView{
			Word: guess,
			Row:  ScoreGuess(p.answer, guess),
		}
	}
	return views, nil
}
