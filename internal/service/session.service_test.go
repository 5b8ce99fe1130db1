package service

import (
	"testing"
	"time"

	"reinocalc/internal/app"
	"reinocalc/internal/debounce"
	"reinocalc/internal/feetable"
	"reinocalc/internal/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestDeps(t *testing.T) app.Dependencies {
	t.Helper()
	m, err := metrics.New("reino_test")
	require.NoError(t, err)
	return app.Dependencies{
		Fees:    feetable.MustLoad(),
		Metrics: m,
		Clock:   debounce.NewManualClock(),
	}
}

func Test_sessionServiceHandler(t *testing.T) {
	t.Run("create then get", func(t *testing.T) {
		deps := newTestDeps(t)
		svc := NewSessionService(deps, time.Minute)

		calc, err := svc.Create()
		require.NoError(t, err)

		got, err := svc.Get(calc.ID)
		require.NoError(t, err)
		require.Equal(t, calc.ID, got.ID)
		require.Equal(t, 1, svc.Count())
		require.Equal(t, float64(1), testutil.ToFloat64(deps.Metrics.ActiveSessions))
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := NewSessionService(newTestDeps(t), time.Minute)
		_, err := svc.Get(uuid.New())
		require.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("idle sessions are evicted on access", func(t *testing.T) {
		deps := newTestDeps(t)
		svc := NewSessionService(deps, time.Minute).(*sessionServiceHandler)

		calc, err := svc.Create()
		require.NoError(t, err)

		svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

		_, err = svc.Get(calc.ID)
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.Equal(t, 0, svc.Count())
		require.Equal(t, float64(0), testutil.ToFloat64(deps.Metrics.ActiveSessions))
	})

	t.Run("delete closes the session", func(t *testing.T) {
		svc := NewSessionService(newTestDeps(t), time.Minute)
		calc, err := svc.Create()
		require.NoError(t, err)

		svc.Delete(calc.ID)
		svc.Delete(calc.ID)

		_, err = svc.Get(calc.ID)
		require.ErrorIs(t, err, ErrSessionNotFound)
	})
}
