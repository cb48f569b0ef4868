package infra

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ErrAlmacenNoDisponible is surfaced after a transient store failure outlives
// the bounded retry budget. Callers get a definite failure, never a silently
// dropped write.
var ErrAlmacenNoDisponible = errors.New("almacen de datos no disponible")

const (
	retryMaxAttempts = 3
	retryBaseDelay   = 100 * time.Millisecond
)

// Retry runs fn up to retryMaxAttempts times with exponential backoff,
// retrying only transient store errors (connection drops, timeouts).
// Business errors pass through untouched on the first attempt. fn must be
// safe to re-run — transactions qualify because a failed attempt rolled back.
func Retry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < retryMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBaseDelay << (attempt - 1)):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if !esTransitorio(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrAlmacenNoDisponible, err)
}

// esTransitorio reports whether the error looks like a connectivity problem
// worth retrying rather than a definitive business or data failure.
func esTransitorio(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe")
}
