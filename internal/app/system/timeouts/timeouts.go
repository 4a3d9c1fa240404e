// Package timeouts provides centralized timeout values for handler and
// background operations.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks against the document store
//   - Store: one load or load-mutate-save cycle on the document
//   - Scan: one reminder scan tick
//
// Values are set at startup with Configure from the app config; otherwise
// defaults apply.
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values.
const (
	DefaultPing  = 2 * time.Second
	DefaultStore = 5 * time.Second
	DefaultScan  = 30 * time.Second
)

var mu sync.RWMutex

var (
	ping  = DefaultPing
	store = DefaultStore
	scan  = DefaultScan
)

// Ping returns the health check timeout.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Store returns the timeout for one document load or update.
func Store() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return store
}

// Scan returns the timeout for one reminder scan.
func Scan() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return scan
}

// Config holds timeout values. Zero values keep the current setting.
type Config struct {
	Ping  time.Duration
	Store time.Duration
	Scan  time.Duration
}

// Configure overrides timeouts. Call it during startup.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Store > 0 {
		store = cfg.Store
	}
	if cfg.Scan > 0 {
		scan = cfg.Scan
	}
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	store = DefaultStore
	scan = DefaultScan
}

// Current returns the active configuration, e.g. for startup logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Store: store, Scan: scan}
}

// WithTimeout is context.WithTimeout whose cancel logs a warning when the
// deadline was hit.
//
// Example:
//
//	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Store(), n.log, "prune gone subscriptions")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
