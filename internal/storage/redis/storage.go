package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/signalbot/internal/model"
	"github.com/mcoot/signalbot/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Users are kept as a list of `id:name:flag` records so the
// registry has the same shape as the flat file.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

// LoadUsers returns the stored registry. Unlike the file backend an absent
// key is an empty registry, since a fresh Redis has nothing to bootstrap from.
func (s *Storage) LoadUsers(ctx context.Context) ([]*model.User, error) {
	records, err := s.client.LRange(ctx, usersKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, 0, len(records))
	for _, record := range records {
		user, err := model.ParseUserRecord(record)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Storage) SaveUsers(ctx context.Context, users []*model.User) error {
	key := usersKey()

	// Replace the list atomically
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(users) > 0 {
		records := make([]interface{}, len(users))
		for i, u := range users {
			records[i] = u.Record()
		}
		pipe.RPush(ctx, key, records...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Guess session operations

func (s *Storage) GetGuesses(ctx context.Context, day model.Day, userID model.UserID) ([]string, error) {
	guesses, err := s.client.LRange(ctx, guessesKey(day, userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if guesses == nil {
		guesses = []string{}
	}
	return guesses, nil
}

func (s *Storage) SaveGuesses(ctx context.Context, day model.Day, userID model.UserID, guesses []string) error {
	key := guessesKey(day, userID)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(guesses) > 0 {
		values := make([]interface{}, len(guesses))
		for i, g := range guesses {
			values[i] = g
		}
		pipe.RPush(ctx, key, values...)
		if s.cfg.GuessTTL > 0 {
			pipe.Expire(ctx, key, s.cfg.GuessTTL)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}
