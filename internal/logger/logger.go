// Package logger configures the process-wide zerolog logger.
package logger

import (
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is read from LOG_DEBUG and LOG_PRETTY_FORMAT
type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"true"`
}

// LoadConfig reads the logger configuration from the environment
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("LOG", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Init installs the global logger. Logs go to stderr so stdout stays
// reserved for answers.
func Init(cfg Config) zerolog.Logger {
	log.Logger = New(os.Stderr, cfg)
	return log.Logger
}

// New builds a logger writing to w
func New(w io.Writer, cfg Config) zerolog.Logger {
	if cfg.PrettyFormat {
		w = zerolog.ConsoleWriter{Out: w}
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	l := zerolog.New(w).Level(level).With().Timestamp()
	if cfg.Debug {
		l = l.Caller()
	}
	return l.Logger()
}
