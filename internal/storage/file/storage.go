package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/storage"
)

// Storage keeps the registry and guess sessions in flat files:
// one `id:name:flag` line per user, and one file per user per day
// (one guess per line) under a directory named after the day.
type Storage struct {
	cfg Config
}

// New creates a new file-backed storage instance
func New(cfg Config) *Storage {
	return &Storage{cfg: cfg}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

// LoadUsers reads the registry file. A missing file or any malformed line is an error.
func (s *Storage) LoadUsers(ctx context.Context) ([]*model.User, error) {
	f, err := os.Open(s.cfg.UsersFile)
	if err != nil {
		return nil, fmt.Errorf("open users file: %w", err)
	}
	defer f.Close()

	var users []*model.User
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		user, err := model.ParseUserRecord(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.cfg.UsersFile, lineNo, err)
		}
		users = append(users, user)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	return users, nil
}

// SaveUsers rewrites the registry file in full
func (s *Storage) SaveUsers(ctx context.Context, users []*model.User) error {
	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, u.Record())
	}
	return writeLines(s.cfg.UsersFile, lines)
}

// Guess session operations

func (s *Storage) GetGuesses(ctx context.Context, day model.Day, userID model.UserID) ([]string, error) {
	path, err := s.sessionPath(day, userID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	guesses := []string{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			guesses = append(guesses, line)
		}
	}
	return guesses, nil
}

func (s *Storage) SaveGuesses(ctx context.Context, day model.Day, userID model.UserID, guesses []string) error {
	path, err := s.sessionPath(day, userID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return writeLines(path, guesses)
}

func (s *Storage) sessionPath(day model.Day, userID model.UserID) (string, error) {
	name := string(userID)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid user id %q for session file", name)
	}
	return filepath.Join(s.cfg.SessionDir, string(day), name), nil
}

// writeLines replaces path with the given lines via a temp file and rename
func writeLines(path string, lines []string) error {
	tmpPath := path + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			_ = out.Close()
			_ = os.Remove(tmpPath)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = out.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
