package model

// WordLength is the number of letters in every puzzle word
const WordLength = 5

// MaxGuesses is the number of guesses a user gets per puzzle
const MaxGuesses = 6

// TileState is the feedback for one guessed letter
type TileState int

const (
	TileEmpty TileState = iota
	TileAbsent
	TilePresent
	TileExact
)

// String returns the emoji used when rendering the tile
func (s TileState) String() string {
	switch s {
	case TileExact:
		return "🟩"
	case TilePresent:
		return "🟨"
	case TileAbsent:
		return "⬛"
	default:
		return "⬜"
	}
}

// Row is the scored feedback for a single guess
type Row []TileState

// String renders the row as a line of tile emoji
func (r Row) String() string {
	b := make([]byte, 0, len(r)*4)
	for _, t := range r {
		b = append(b, t.String()...)
	}
	return string(b)
}

// Solved reports whether every tile in the row is exact
func (r Row) Solved() bool {
	if len(r) == 0 {
		return false
	}
	for _, t := range r {
		if t != TileExact {
			return false
		}
	}
	return true
}

// EmptyRow returns a row of unplayed tiles
func EmptyRow() Row {
	return make(Row, WordLength)
}

// GuessView pairs a stored guess with its rendered feedback
type GuessView struct {
	Word string
	Row  Row
}
