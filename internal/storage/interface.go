package storage

import (
	"context"

	"github.com/mcoot/signalbot/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User registry operations. SaveUsers replaces the whole registry.
	LoadUsers(ctx context.Context) ([]*model.User, error)
	SaveUsers(ctx context.Context, users []*model.User) error

	// Word game operations. A missing session is an empty slice, not an error.
	GetGuesses(ctx context.Context, day model.Day, userID model.UserID) ([]string, error)
	SaveGuesses(ctx context.Context, day model.Day, userID model.UserID, guesses []string) error
}
