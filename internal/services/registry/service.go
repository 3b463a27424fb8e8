package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/storage"
)

// Service owns the set of registered users. Every mutation rewrites the
// whole registry through storage.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger

	mu    sync.RWMutex
	users []*model.User
	index map[model.UserID]*model.User
}

// New creates a new registry Service. Call Load before use.
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger,
		index:   make(map[model.UserID]*model.User),
	}
}

// Load replaces the in-memory registry with the stored one. When an id
// appears more than once the later record wins and keeps the earlier position.
func (s *Service) Load(ctx context.Context) error {
	stored, err := s.storage.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}

	users := make([]*model.User, 0, len(stored))
	index := make(map[model.UserID]*model.User, len(stored))
	for _, u := range stored {
		if prev, ok := index[u.ID]; ok {
			s.logger.Warn("duplicate user record, keeping the later one",
				slog.String("user_id", string(u.ID)),
				slog.String("previous_name", prev.DisplayName),
				slog.String("name", u.DisplayName),
			)
			*prev = *u
			continue
		}
		users = append(users, u)
		index[u.ID] = u
		s.logger.Debug("loaded user",
			slog.String("user_id", string(u.ID)),
			slog.String("name", u.DisplayName),
			slog.Bool("admin", u.IsAdmin),
		)
	}

	s.mu.Lock()
	s.users = users
	s.index = index
	s.mu.Unlock()

	s.logger.Info("user registry loaded", slog.Int("users", len(users)))
	return nil
}

// persist must be called with s.mu held
func (s *Service) persist(ctx context.Context) error {
	if err := s.storage.SaveUsers(ctx, s.users); err != nil {
		return fmt.Errorf("saving users: %w", err)
	}
	return nil
}

// Register adds a new non-admin user. If the id is taken, the existing
// user is returned alongside ErrAlreadyRegistered.
func (s *Service) Register(ctx context.Context, id model.UserID, name string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.index[id]; ok {
		u := *existing
		return &u, model.ErrAlreadyRegistered
	}
	if name == "" {
		return nil, model.ErrMissingParameter
	}

	user := &model.User{ID: id, DisplayName: name}
	s.users = append(s.users, user)
	s.index[id] = user

	if err := s.persist(ctx); err != nil {
		s.users = s.users[:len(s.users)-1]
		delete(s.index, id)
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", string(id)),
		slog.String("name", name),
	)

	u := *user
	return &u, nil
}

// Promote grants admin rights. It reports whether the flag changed;
// promoting an existing admin is a successful no-op.
func (s *Service) Promote(ctx context.Context, id model.UserID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.index[id]
	if !ok {
		return false, model.ErrUnknownUser
	}
	if user.IsAdmin {
		return false, nil
	}

	user.IsAdmin = true
	if err := s.persist(ctx); err != nil {
		user.IsAdmin = false
		return false, err
	}

	s.logger.Info("user promoted to admin", slog.String("user_id", string(id)))
	return true, nil
}

// IsAdmin reports whether id is a registered admin
func (s *Service) IsAdmin(id model.UserID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.index[id]
	return ok && user.IsAdmin
}

// Lookup returns a copy of the user, or ErrUnknownUser
func (s *Service) Lookup(id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.index[id]
	if !ok {
		return nil, model.ErrUnknownUser
	}
	u := *user
	return &u, nil
}

// Users returns copies of all users in registration order
func (s *Service) Users() []*model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*model.User, len(s.users))
	for i, u := range s.users {
		c := *u
		users[i] = &c
	}
	return users
}

// Count returns the number of registered users
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
