package readiness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrNotReady = errors.New("dependency not ready")

// Signal is a one-shot readiness flag.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

func (s *Signal) Ready() {
	s.once.Do(func() { close(s.ch) })
}

func (s *Signal) Done() <-chan struct{} {
	return s.ch
}

func (s *Signal) IsReady() bool {
	select {
	case <-s.ch:
		return true
	default:
	}
	return false
}

func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrNotReady, ctx.Err())
	}
}

type ProbeFunc func(ctx context.Context) error

// Probe calls fn until it succeeds, up to maxAttempts times with interval
// between attempts. It returns ErrNotReady wrapping the last failure when
// every attempt failed.
func Probe(ctx context.Context, log *zap.SugaredLogger, name string, fn ProbeFunc, maxAttempts int, interval time.Duration) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 1 {
				log.Infow("dependency ready", "dependency", name, "attempt", attempt)
			}
			return nil
		}
		log.Warnw("dependency not ready", "dependency", name, "attempt", attempt, "maxAttempts", maxAttempts, "error", lastErr)
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %w", ErrNotReady, name, ctx.Err())
		case <-time.After(interval):
		}
	}

	return fmt.Errorf("%w: %s after %d attempts: %w", ErrNotReady, name, maxAttempts, lastErr)
}
