// internal/logger/log.go
package logger

import (
	"io"
	"os"
	"strings"

	"clicktrack/internal/config"

	stdlog "log"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init
//
// Called once at startup. Chooses the output format from Config and
// replaces the global zerolog logger.
//
//  1. Format:
//     - LOG_PRETTY=true: console writer (local development)
//     - LOG_PRETTY=false: JSON lines on stdout
//
//  2. Common fields: every record carries "service" and "instance".
//
//  3. Sampling: with LOG_SAMPLE_N > 1 only 1/N of debug/info records are kept.
//     Warn and error are never sampled.
//
// The configured logger is also returned so callers can hand it to
// components explicitly.
//
//	lg := logger.Init(cfg)
//	tr := tracker.New(cfg, host, tracker.WithLogger(lg))
func Init(cfg config.Config) zerolog.Logger {
	return InitWriter(cfg, os.Stdout)
}

// InitWriter is Init with an explicit destination.
func InitWriter(cfg config.Config, out io.Writer) zerolog.Logger {

	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err == nil && l != zerolog.NoLevel {
		level = l
	}
	zerolog.SetGlobalLevel(level)

	var w io.Writer = out
	if cfg.LogPretty {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
		}
	}

	base := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("instance", cfg.InstanceID).
		Logger()

	lg := base
	if cfg.LogSampleN > 1 {
		lg = base.Sample(&zerolog.LevelSampler{
			DebugSampler: &zerolog.BasicSampler{N: cfg.LogSampleN},
			InfoSampler:  &zerolog.BasicSampler{N: cfg.LogSampleN},
		})
	}

	zlog.Logger = lg

	// stdlib log goes through zerolog as well
	stdlog.SetFlags(0)
	stdlog.SetOutput(zlog.Logger)

	return lg
}
