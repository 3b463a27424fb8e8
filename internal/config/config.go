package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mcoot/signalbot/internal/model"
)

// EnvPrefix namespaces every environment variable
const EnvPrefix = "SIGNALBOT"

// Transport names
const (
	TransportSignal   = "signal"
	TransportTelegram = "telegram"
	TransportConsole  = "console"
)

// Storage backend names
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// NoLogFile disables the log file when used as log_file
const NoLogFile = "-"

// Config is the complete bot configuration
type Config struct {
	DataDir       string        `mapstructure:"data_dir"`
	UsersFile     string        `mapstructure:"users_file"`
	LogFile       string        `mapstructure:"log_file"`
	LogLevel      string        `mapstructure:"log_level"`
	Timezone      string        `mapstructure:"timezone"`
	Transport     string        `mapstructure:"transport"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	HealthAddr    string        `mapstructure:"health_addr"`

	Signal struct {
		Bus        string `mapstructure:"bus"`
		Service    string `mapstructure:"service"`
		ObjectPath string `mapstructure:"object_path"`
	} `mapstructure:"signal"`

	Telegram struct {
		Token       string `mapstructure:"token"`
		PollTimeout int    `mapstructure:"poll_timeout"`
	} `mapstructure:"telegram"`

	Console struct {
		Sender string `mapstructure:"sender"`
	} `mapstructure:"console"`

	Storage struct {
		Type  string `mapstructure:"type"`
		Redis struct {
			URL      string        `mapstructure:"url"`
			GuessTTL time.Duration `mapstructure:"guess_ttl"`
		} `mapstructure:"redis"`
	} `mapstructure:"storage"`

	Commands struct {
		ExecTimeout    time.Duration `mapstructure:"exec_timeout"`
		RestrictedPath string        `mapstructure:"restricted_path"`
		Fortune        string        `mapstructure:"fortune"`
		Cowsay         string        `mapstructure:"cowsay"`
	} `mapstructure:"commands"`

	Wordle struct {
		Dir         string `mapstructure:"dir"`
		AnswersFile string `mapstructure:"answers_file"`
		GuessesFile string `mapstructure:"guesses_file"`
		Epoch       string `mapstructure:"epoch"`
	} `mapstructure:"wordle"`
}

// New returns a viper instance with defaults and environment binding set up
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", "/signal-data")
	v.SetDefault("users_file", "")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "debug")
	v.SetDefault("timezone", "Local")
	v.SetDefault("transport", TransportSignal)
	v.SetDefault("retry_interval", time.Second)
	v.SetDefault("health_addr", "")

	v.SetDefault("signal.bus", "system")
	v.SetDefault("signal.service", "org.asamk.Signal")
	v.SetDefault("signal.object_path", "/org/asamk/Signal")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.poll_timeout", 60)

	v.SetDefault("console.sender", "console")

	v.SetDefault("storage.type", StorageFile)
	v.SetDefault("storage.redis.url", "redis://localhost:6379")
	v.SetDefault("storage.redis.guess_ttl", 48*time.Hour)

	v.SetDefault("commands.exec_timeout", 5*time.Second)
	v.SetDefault("commands.restricted_path", "")
	v.SetDefault("commands.fortune", "fortune")
	v.SetDefault("commands.cowsay", "cowsay -f hellokitty")

	v.SetDefault("wordle.dir", "")
	v.SetDefault("wordle.answers_file", "")
	v.SetDefault("wordle.guesses_file", "")
	v.SetDefault("wordle.epoch", "2021-06-19")

	return v
}

// Load reads .env (if present), an optional config file, and the environment.
// An empty configFile looks for signalbot.{yaml,json,toml} in the working directory.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("signalbot")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDerived fills paths that default to locations under the data directory
func (c *Config) applyDerived() {
	if c.UsersFile == "" {
		c.UsersFile = filepath.Join(c.DataDir, "users")
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "signal-bot.log")
	}
	if c.Commands.RestrictedPath == "" {
		c.Commands.RestrictedPath = c.DataDir
	}
	if c.Wordle.Dir == "" {
		c.Wordle.Dir = filepath.Join(c.DataDir, "wordle")
	}
	if c.Wordle.AnswersFile == "" {
		c.Wordle.AnswersFile = filepath.Join(c.Wordle.Dir, "answers.txt")
	}
	if c.Wordle.GuessesFile == "" {
		c.Wordle.GuessesFile = filepath.Join(c.Wordle.Dir, "guesses.txt")
	}
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	var errs []error

	switch c.Transport {
	case TransportSignal, TransportConsole:
	case TransportTelegram:
		if c.Telegram.Token == "" {
			errs = append(errs, errors.New("telegram.token is required for the telegram transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid transport %q: must be signal, telegram or console", c.Transport))
	}

	switch c.Storage.Type {
	case StorageFile, StorageMemory:
	case StorageRedis:
		if c.Storage.Redis.URL == "" {
			errs = append(errs, errors.New("storage.redis.url is required for redis storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid storage.type %q: must be file, redis or memory", c.Storage.Type))
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}
	if _, err := c.Epoch(); err != nil {
		errs = append(errs, fmt.Errorf("invalid wordle.epoch %q: %w", c.Wordle.Epoch, err))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Commands.ExecTimeout <= 0 {
		errs = append(errs, errors.New("commands.exec_timeout must be positive"))
	}
	if c.RetryInterval <= 0 {
		errs = append(errs, errors.New("retry_interval must be positive"))
	}

	return errors.Join(errs...)
}

// Location returns the timezone that decides the Wordle day
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Epoch returns the calendar day of puzzle 0
func (c *Config) Epoch() (time.Time, error) {
	return time.Parse(model.DayLayout, c.Wordle.Epoch)
}

// Level parses log_level
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// FortuneArgv splits commands.fortune into argv
func (c *Config) FortuneArgv() []string {
	return strings.Fields(c.Commands.Fortune)
}

// CowsayArgv splits commands.cowsay into argv
func (c *Config) CowsayArgv() []string {
	return strings.Fields(c.Commands.Cowsay)
}

// LogToFile reports whether a log file is configured
func (c *Config) LogToFile() bool {
	return c.LogFile != "" && c.LogFile != NoLogFile
}
