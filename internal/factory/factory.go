package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mcoot/signalbot/internal/bot"
	"github.com/mcoot/signalbot/internal/config"
	"github.com/mcoot/signalbot/internal/dependencies/clock"
	"github.com/mcoot/signalbot/internal/dependencies/cmdexec"
	"github.com/mcoot/signalbot/internal/services/hoststats"
	"github.com/mcoot/signalbot/internal/services/registry"
	"github.com/mcoot/signalbot/internal/services/shell"
	"github.com/mcoot/signalbot/internal/services/wordle"
	"github.com/mcoot/signalbot/internal/services/wordlist"
	"github.com/mcoot/signalbot/internal/storage"
	"github.com/mcoot/signalbot/internal/storage/file"
	"github.com/mcoot/signalbot/internal/storage/memory"
	redisstorage "github.com/mcoot/signalbot/internal/storage/redis"
	"github.com/mcoot/signalbot/internal/transport"
	"github.com/mcoot/signalbot/internal/transport/console"
	"github.com/mcoot/signalbot/internal/transport/signalcli"
	"github.com/mcoot/signalbot/internal/transport/telegram"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Runner    cmdexec.Runner
	Transport transport.Transport

	// Services
	Wordlist  *wordlist.Service
	Registry  *registry.Service
	Wordle    *wordle.Service
	Shell     *shell.Service
	HostStats *hoststats.Service

	Router  *bot.Router
	Session *bot.Session

	closers []func() error
}

// Config holds configuration for the application factory
type Config struct {
	// Settings is the loaded bot configuration (required)
	Settings *config.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Stdin and Stdout back the console transport (optional)
	// If nil, the process's standard streams are used
	Stdin  io.Reader
	Stdout io.Writer
}

// wiring is everything newWithDependencies needs beyond the externals
type wiring struct {
	wordle        wordle.Config
	commands      bot.Config
	execTimeout   time.Duration
	retryInterval time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (app *App, err error) {
	settings := cfg.Settings
	if settings == nil {
		return nil, errors.New("factory: Settings required")
	}

	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	clk := clock.New()

	store, closeStore, err := NewStorage(settings)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		defer func() {
			if err != nil {
				_ = closeStore()
			}
		}()
	}

	t, err := newTransport(cfg, clk, logger)
	if err != nil {
		return nil, err
	}

	words := wordlist.New(logger)
	if err := words.LoadFromFiles(settings.Wordle.AnswersFile, settings.Wordle.GuessesFile); err != nil {
		return nil, err
	}

	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}
	epoch, err := settings.Epoch()
	if err != nil {
		return nil, err
	}

	w := wiring{
		wordle: wordle.Config{Epoch: epoch, Location: loc},
		commands: bot.Config{
			RestrictedPath: settings.Commands.RestrictedPath,
			FortuneCommand: settings.FortuneArgv(),
			CowsayCommand:  settings.CowsayArgv(),
		},
		execTimeout:   settings.Commands.ExecTimeout,
		retryInterval: settings.RetryInterval,
	}

	stats := hoststats.NewGopsutil(settings.DataDir, clk)
	app = newWithDependencies(store, clk, cmdexec.New(), t, words, stats, w, logger)
	if closeStore != nil {
		app.closers = append(app.closers, closeStore)
	}
	return app, nil
}

// NewStorage opens the configured backend. The close func is nil when there is nothing to release.
func NewStorage(settings *config.Config) (storage.Storage, func() error, error) {
	switch settings.Storage.Type {
	case config.StorageFile:
		return file.New(file.Config{
			UsersFile:  settings.UsersFile,
			SessionDir: settings.Wordle.Dir,
		}), nil, nil
	case config.StorageMemory:
		return memory.New(), nil, nil
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = settings.Storage.Redis.URL
		redisCfg.GuessTTL = settings.Storage.Redis.GuessTTL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return redisStore, redisStore.Close, nil
	default:
		return nil, nil, fmt.Errorf("invalid storage type %q", settings.Storage.Type)
	}
}

func newTransport(cfg Config, clk clock.Clock, logger *slog.Logger) (transport.Transport, error) {
	settings := cfg.Settings
	switch settings.Transport {
	case config.TransportSignal:
		return signalcli.New(signalcli.Config{
			Bus:        settings.Signal.Bus,
			Service:    settings.Signal.Service,
			ObjectPath: settings.Signal.ObjectPath,
		}, logger), nil
	case config.TransportTelegram:
		return telegram.New(telegram.Config{
			Token:       settings.Telegram.Token,
			PollTimeout: settings.Telegram.PollTimeout,
		}, nil, logger), nil
	case config.TransportConsole:
		in, out := cfg.Stdin, cfg.Stdout
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		return console.New(in, out, settings.Console.Sender, clk, logger), nil
	default:
		return nil, fmt.Errorf("invalid transport %q", settings.Transport)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	runner cmdexec.Runner,
	t transport.Transport,
	words *wordlist.Service,
	stats hoststats.Source,
	w wiring,
	logger *slog.Logger,
) *App {
	reg := registry.New(store, logger)
	game := wordle.New(store, words, clk, w.wordle, logger)
	sh := shell.New(runner, w.execTimeout, logger)
	host := hoststats.New(stats, clk, logger)

	router := bot.NewRouter(bot.Deps{
		Registry:  reg,
		Wordle:    game,
		Shell:     sh,
		HostStats: host,
		Replier:   t,
	}, w.commands, logger)
	session := bot.NewSession(t, reg, router, w.retryInterval, logger)

	return &App{
		Storage:   store,
		Clock:     clk,
		Runner:    runner,
		Transport: t,
		Wordlist:  words,
		Registry:  reg,
		Wordle:    game,
		Shell:     sh,
		HostStats: host,
		Router:    router,
		Session:   session,
	}
}

// Close releases storage connections. The session closes the transport itself.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
