// Package timeouts provides centralized timeout values for handler
// operations.
//
// These timeouts are used with context.WithTimeout for database
// operations in HTTP handlers. Using centralized values ensures
// consistency and makes it easy to adjust timeouts across the
// application.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: simple single-document reads or lookups
//   - Medium: list queries, moderate writes, multi-step reads
//   - Long: exports and operations touching multiple collections
package timeouts

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for health checks and connectivity
// verification.
func Ping() time.Duration { return ping }

// Short returns the timeout for simple operations like
// single-document reads.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and moderate writes.
func Medium() time.Duration { return medium }

// Long returns the timeout for exports and multi-collection reads.
func Long() time.Duration { return long }

// WithTimeout wraps context.WithTimeout and logs a warning when the
// operation runs into the deadline. The returned cancel func must be
// called, typically via defer.
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
