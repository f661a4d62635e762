// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Environment keys. The browser build maps page globals onto the first three.
const (
	KeyDebug        = "ANALYTICS_DEBUG"
	KeyCaptureEmail = "ANALYTICS_CAPTURE_EMAIL"
	KeyCollectPath  = "ANALYTICS_COLLECT_PATH"

	KeyServiceName = "SERVICE_NAME"
	KeyInstanceID  = "INSTANCE_ID"
	KeyLogLevel    = "LOG_LEVEL"
	KeyLogPretty   = "LOG_PRETTY"
	KeyLogSampleN  = "LOG_SAMPLE_N"
	KeySendTimeout = "SEND_TIMEOUT"

	KeyArchiveRegion  = "ARCHIVE_REGION"
	KeyArchiveBucket  = "ARCHIVE_BUCKET"
	KeyArchivePrefix  = "ARCHIVE_PREFIX"
	KeyArchiveTimeout = "ARCHIVE_TIMEOUT"
)

// DefaultCollectPath is where events are POSTed when no path is configured.
const DefaultCollectPath = "/__analytics_collect"

// Config
//
// Process-wide settings, read once before the tracker initializes.
// Nothing mutates a Config after LoadFrom returns.
type Config struct {

	// ---------------------------
	// Instrumentation
	// ---------------------------

	DebugEnabled     bool   // debug log + panel instead of network delivery
	CaptureFullEmail bool   // keep the local part of mailto addresses
	CollectPath      string // collection endpoint path (or absolute URL)

	// ---------------------------
	// Logging
	// ---------------------------

	ServiceName string
	InstanceID  string // hostname, or a random uuid when unavailable
	LogLevel    string
	LogPretty   bool
	LogSampleN  uint32

	// ---------------------------
	// Delivery
	// ---------------------------

	SendTimeout time.Duration // per-request timeout of the native HTTP sender

	// ---------------------------
	// Debug log archival (CLI only)
	// ---------------------------

	ArchiveRegion  string
	ArchiveBucket  string // empty disables S3 archival
	ArchivePrefix  string
	ArchiveTimeout time.Duration
}

// Lookup returns the raw value for key and whether it was set.
// os.LookupEnv satisfies it.
type Lookup func(key string) (string, bool)

// Load reads Config from the process environment.
// A malformed value terminates the process (fail-fast).
func Load() Config {
	cfg, err := LoadFrom(os.LookupEnv)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return cfg
}

// LoadFrom builds a Config from an arbitrary key lookup.
// Unset keys take their defaults; set-but-malformed keys are errors.
func LoadFrom(lookup Lookup) (Config, error) {
	r := reader{lookup: lookup}

	cfg := Config{
		DebugEnabled:     r.boolean(KeyDebug, false),
		CaptureFullEmail: r.boolean(KeyCaptureEmail, false),
		CollectPath:      r.str(KeyCollectPath, DefaultCollectPath),

		ServiceName: r.str(KeyServiceName, "clicktrack"),
		InstanceID:  r.str(KeyInstanceID, ""),
		LogPretty:   r.boolean(KeyLogPretty, false),
		LogSampleN:  uint32(r.integer(KeyLogSampleN, 0)),

		SendTimeout: r.duration(KeySendTimeout, 5*time.Second),

		ArchiveRegion:  r.str(KeyArchiveRegion, ""),
		ArchiveBucket:  r.str(KeyArchiveBucket, ""),
		ArchivePrefix:  r.str(KeyArchivePrefix, "debuglog"),
		ArchiveTimeout: r.duration(KeyArchiveTimeout, 10*time.Second),
	}

	// debug mode wants the per-event trace, which is a debug-level record
	defLevel := "info"
	if cfg.DebugEnabled {
		defLevel = "debug"
	}
	cfg.LogLevel = r.str(KeyLogLevel, defLevel)

	if cfg.InstanceID == "" {
		cfg.InstanceID = fallbackInstanceID()
	}

	if r.err != nil {
		return Config{}, r.err
	}
	return cfg, nil
}

// reader keeps the first parse error so LoadFrom can stay a flat list.
type reader struct {
	lookup Lookup
	err    error
}

func (r *reader) raw(key string) (string, bool) {
	if r.lookup == nil {
		return "", false
	}
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r *reader) fail(key, v string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s=%q: %w", key, v, err)
	}
}

func (r *reader) str(key, def string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return def
}

func (r *reader) boolean(key string, def bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

func (r *reader) integer(key string, def int) int {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		if err == nil {
			err = fmt.Errorf("must not be negative")
		}
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}

// fallbackInstanceID
//
// Identifies this process in log records.
//   - default: hostname
//   - fallback: random uuid (GOOS=js has no hostname)
func fallbackInstanceID() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return uuid.NewString()
}
