package factory

import (
	"time"

	"github.com/mcoot/signalbot/internal/bot"
	"github.com/mcoot/signalbot/internal/dependencies/mocks"
	"github.com/mcoot/signalbot/internal/services/wordle"
	"github.com/mcoot/signalbot/internal/services/wordlist"
	"github.com/mcoot/signalbot/internal/storage/memory"
	"github.com/mcoot/signalbot/internal/testutil"
)

// TestEpoch is puzzle 0 for NewTestApp; the mock clock starts on it
var TestEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// TestAnswers is the answer list loaded by LoadTestWordlist, in puzzle order
var TestAnswers = []string{"crane", "slate", "pious", "lemon", "knoll"}

// TestGuesses are the extra accepted guesses loaded by LoadTestWordlist
var TestGuesses = []string{
	"adieu", "audio", "stare", "roate", "trace", "crate", "react", "caret",
	"cater", "carte", "plait", "spiel", "mound", "eerie", "llama", "lolly",
}

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRunner    *mocks.MockRunner
	MockTransport *mocks.MockTransport
	MockStats     *mocks.MockStatsSource
	MemoryStorage *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(TestEpoch.Add(12 * time.Hour))
	mockRunner := mocks.NewMockRunner()
	mockTransport := mocks.NewMockTransport()
	mockStats := mocks.NewMockStatsSource()
	logger := testutil.NopLogger()

	w := wiring{
		wordle:        wordle.Config{Epoch: TestEpoch, Location: time.UTC},
		commands:      bot.DefaultConfig(),
		execTimeout:   time.Second,
		retryInterval: 10 * time.Millisecond,
	}
	app := newWithDependencies(store, mockClock, mockRunner, mockTransport, wordlist.New(logger), mockStats, w, logger)

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRunner:    mockRunner,
		MockTransport: mockTransport,
		MockStats:     mockStats,
		MemoryStorage: store,
	}
}

// LoadTestWordlist loads a small word list for testing
func (t *TestApp) LoadTestWordlist() error {
	return t.Wordlist.LoadWords(TestAnswers, TestGuesses)
}
