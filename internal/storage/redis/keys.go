package redis

import (
	"fmt"

	"github.com/mcoot/signalbot/internal/model"
)

// Key prefix for all bot data
const keyPrefix = "signalbot"

// usersKey returns the Redis key for the LIST of user records, in registration order
func usersKey() string {
	return fmt.Sprintf("%s:users", keyPrefix)
}

// guessesKey returns the Redis key for the LIST of a user's guesses on a day
func guessesKey(day model.Day, userID model.UserID) string {
	return fmt.Sprintf("%s:wordle:%s:%s", keyPrefix, day, userID)
}
