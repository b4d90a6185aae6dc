// Package logsetup configures the global zerolog logger for the binaries.
package logsetup

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Configure sends human-readable logs to stderr, at debug level if debug
// is set and info level otherwise.
func Configure(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("debug-logging-on")
}
