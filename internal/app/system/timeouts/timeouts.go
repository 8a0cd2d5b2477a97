// Package timeouts holds the deadlines handlers put on database and storage
// calls via context.WithTimeout.
//
//   - Ping: health checks
//   - Short: single-document reads and writes
//   - Medium: list and search queries, dashboard counts
//   - Long: schema setup and index reconciliation
//   - Upload: attachment transfer to and from GridFS
package timeouts

import (
	"sync"
	"time"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultUpload = 60 * time.Second
)

var (
	mu     sync.RWMutex
	values = Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Upload: DefaultUpload,
	}
)

// Config holds timeout values. Zero fields are ignored by Configure.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Upload time.Duration
}

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(values)
}

func Ping() time.Duration   { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration  { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration   { return get(func(c Config) time.Duration { return c.Long }) }
func Upload() time.Duration { return get(func(c Config) time.Duration { return c.Upload }) }

// Configure overrides the non-zero fields of cfg. Call it at startup.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&values.Ping, cfg.Ping)
	set(&values.Short, cfg.Short)
	set(&values.Medium, cfg.Medium)
	set(&values.Long, cfg.Long)
	set(&values.Upload, cfg.Upload)
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	values = Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Upload: DefaultUpload,
	}
}

// Current returns the active configuration, for logging at startup.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return values
}
