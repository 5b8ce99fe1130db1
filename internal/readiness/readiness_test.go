package readiness

import (
	"context"
	"errors"
	"testing"
	"time"

	"reinocalc/internal/logger"

	"github.com/stretchr/testify/require"
)

func TestSignal(t *testing.T) {
	t.Run("wait returns once ready", func(t *testing.T) {
		s := NewSignal()
		require.False(t, s.IsReady())

		go s.Ready()
		require.NoError(t, s.Wait(context.Background()))
		require.True(t, s.IsReady())

		// idempotent
		s.Ready()
	})

	t.Run("wait honours context", func(t *testing.T) {
		s := NewSignal()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := s.Wait(ctx)
		require.ErrorIs(t, err, ErrNotReady)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestProbe(t *testing.T) {
	t.Run("succeeds after retries", func(t *testing.T) {
		attempts := 0
		err := Probe(context.Background(), logger.Nop(), "db", func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("connection refused")
			}
			return nil
		}, 5, time.Millisecond)

		require.NoError(t, err)
		require.Equal(t, 3, attempts)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		attempts := 0
		boom := errors.New("connection refused")
		err := Probe(context.Background(), logger.Nop(), "db", func(ctx context.Context) error {
			attempts++
			return boom
		}, 2, time.Millisecond)

		require.ErrorIs(t, err, ErrNotReady)
		require.ErrorIs(t, err, boom)
		require.Equal(t, 2, attempts)
	})
}
