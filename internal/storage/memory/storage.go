package memory

import (
	"context"
	"sync"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users   []*model.User
	guesses map[sessionKey][]string
}

type sessionKey struct {
	day    model.Day
	userID model.UserID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		guesses: make(map[sessionKey][]string),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) LoadUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (s *Storage) SaveUsers(ctx context.Context, users []*model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make([]*model.User, 0, len(users))
	for _, u := range users {
		cp := *u
		s.users = append(s.users, &cp)
	}
	return nil
}

// Guess session operations

func (s *Storage) GetGuesses(ctx context.Context, day model.Day, userID model.UserID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.guesses[sessionKey{day, userID}]...), nil
}

func (s *Storage) SaveGuesses(ctx context.Context, day model.Day, userID model.UserID, guesses []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guesses[sessionKey{day, userID}] = append([]string{}, guesses...)
	return nil
}
