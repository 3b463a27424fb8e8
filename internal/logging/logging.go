package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options controls where and how verbosely the bot logs
type Options struct {
	Level slog.Level
	// File is appended to alongside stdout; empty logs to stdout only
	File string
}

// Setup builds the process logger. The returned close func releases the log file.
func Setup(opts Options, stdout io.Writer) (*slog.Logger, func() error) {
	closeFn := func() error { return nil }
	out := stdout

	var fileErr error
	if opts.File != "" {
		f, err := openLogFile(opts.File)
		if err != nil {
			fileErr = err
		} else {
			out = io.MultiWriter(stdout, f)
			closeFn = f.Close
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: opts.Level,
	})).With(slog.String("app", "signalbot"))

	if fileErr != nil {
		logger.Error("could not open log file, logging to stdout only",
			slog.String("file", opts.File),
			slog.String("error", fileErr.Error()),
		)
	}

	return logger, closeFn
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
