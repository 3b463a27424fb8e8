package wordlist

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mcoot/signalbot/internal/model"
)

// Service holds the Wordle answer list and the set of accepted guesses
type Service struct {
	logger *slog.Logger

	mu      sync.RWMutex
	answers []string
	valid   map[string]struct{}
	loaded  bool
}

// New creates a new wordlist Service
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
		valid:  make(map[string]struct{}),
	}
}

// LoadFromFiles loads the answer list and the extra guess list (one word per line).
// Every answer is also an accepted guess.
func (s *Service) LoadFromFiles(answersPath, guessesPath string) error {
	answers, err := readWords(answersPath)
	if err != nil {
		return fmt.Errorf("reading answers: %w", err)
	}
	guesses, err := readWords(guessesPath)
	if err != nil {
		return fmt.Errorf("reading guesses: %w", err)
	}

	if err := s.LoadWords(answers, guesses); err != nil {
		return err
	}

	s.logger.Info("wordle word lists loaded",
		slog.String("answers_file", answersPath),
		slog.Int("answers", len(answers)),
		slog.String("guesses_file", guessesPath),
		slog.Int("guesses", len(guesses)),
	)
	return nil
}

// LoadWords directly loads word slices (useful for testing)
func (s *Service) LoadWords(answers, guesses []string) error {
	if len(answers) == 0 {
		return fmt.Errorf("%w: answer list is empty", model.ErrWordlistNotLoaded)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.answers = make([]string, len(answers))
	s.valid = make(map[string]struct{}, len(answers)+len(guesses))
	for i, word := range answers {
		// Store lowercase for case-insensitive matching
		w := strings.ToLower(word)
		s.answers[i] = w
		s.valid[w] = struct{}{}
	}
	for _, word := range guesses {
		s.valid[strings.ToLower(word)] = struct{}{}
	}
	s.loaded = true
	return nil
}

func readWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// IsValidWord checks if a word is an accepted guess
func (s *Service) IsValidWord(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}

	_, ok := s.valid[strings.ToLower(word)]
	return ok
}

// Answer returns the answer for a puzzle index. Indexes past the end of the
// list (or before the epoch) wrap around.
func (s *Service) Answer(index int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return "", model.ErrWordlistNotLoaded
	}

	n := len(s.answers)
	return s.answers[((index%n)+n)%n], nil
}

// IsLoaded returns whether the word lists have been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// AnswerCount returns the number of puzzles before the answers repeat
func (s *Service) AnswerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.answers)
}

// WordCount returns the number of accepted guesses
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.valid)
}
