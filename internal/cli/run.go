package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/signalbot/internal/api"
	"github.com/mcoot/signalbot/internal/config"
	"github.com/mcoot/signalbot/internal/factory"
	"github.com/mcoot/signalbot/internal/logging"
	"github.com/mcoot/signalbot/internal/model"
)

// Run starts the bot and blocks until SIGINT/SIGTERM, ctx is cancelled or the
// transport goes away
func Run(ctx context.Context, settings *config.Config, stdin io.Reader, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The console transport owns stdout
	logOut := stdout
	if settings.Transport == config.TransportConsole {
		logOut = stderr
	}
	level, err := settings.Level()
	if err != nil {
		return err
	}
	logFile := ""
	if settings.LogToFile() {
		logFile = settings.LogFile
	}
	logger, closeLog := logging.Setup(logging.Options{Level: level, File: logFile}, logOut)
	defer func() { _ = closeLog() }()

	logger.Info("starting signal bot",
		slog.String("transport", settings.Transport),
		slog.String("storage", settings.Storage.Type),
		slog.String("data_dir", settings.DataDir),
	)

	app, err := factory.New(factory.Config{
		Settings: settings,
		Logger:   logger,
		Stdin:    stdin,
		Stdout:   stdout,
	})
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("closing storage failed", slog.String("error", err.Error()))
		}
	}()

	if settings.HealthAddr != "" {
		server := api.NewServer(api.NewRouter(api.RouterConfig{
			Logger:   logger,
			Session:  app.Session,
			Registry: app.Registry,
			Wordle:   app.Wordle,
		}), api.DefaultServerConfig(settings.HealthAddr), logger)
		if err := server.Listen(); err != nil {
			return err
		}

		go func() {
			if err := server.Start(); err != nil {
				logger.Error("health server error", slog.String("error", err.Error()))
			}
		}()
		defer func() {
			if err := server.Shutdown(context.Background()); err != nil {
				logger.Error("shutdown error", slog.String("error", err.Error()))
			}
		}()
	}

	err = app.Session.Run(ctx)
	if errors.Is(err, model.ErrTransportClosed) && settings.Transport == config.TransportConsole {
		// end of input
		err = nil
	}
	if err != nil {
		logger.Error("bot session failed", slog.String("error", err.Error()))
		return err
	}

	logger.Info("signal bot stopped")
	return nil
}
