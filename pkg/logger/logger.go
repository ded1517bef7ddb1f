// Package logger configures the process-wide zerolog logger. Call Init once
// at startup (or blank-import the autoload subpackage); every component then
// logs through the global zerolog/log logger.
package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects the output format and verbosity. The zero value is the
// production setup: JSON lines at info level.
type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"false"`
}

// Init replaces the global logger. Timestamps, caller, and stack context are
// always attached; PrettyFormat switches to the human-readable console
// writer for local runs.
func Init(opts ...Config) {
	var conf Config
	if len(opts) > 0 {
		conf = opts[0]
	}

	log.Logger = zerolog.New(writer(conf)).
		Level(level(conf)).
		With().
		Timestamp().
		Caller().
		Stack().
		Logger()
}

func writer(conf Config) io.Writer {
	if conf.PrettyFormat {
		return zerolog.NewConsoleWriter()
	}
	return os.Stdout
}

func level(conf Config) zerolog.Level {
	if conf.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
