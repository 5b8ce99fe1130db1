package repository

import (
	"testing"
	"time"

	"reinocalc/internal/db/models/postgres/public/model"
	"reinocalc/internal/logger"
	"reinocalc/internal/readiness"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDeferredSubmissionRepository(t *testing.T) {
	t.Run("fails while unresolved", func(t *testing.T) {
		repo := NewDeferredSubmissionRepository(5 * time.Millisecond)

		_, err := repo.Get(nil, uuid.New())
		require.ErrorIs(t, err, readiness.ErrNotReady)
	})

	t.Run("waits for the store", func(t *testing.T) {
		repo := NewDeferredSubmissionRepository(time.Minute)
		go repo.Resolve(NewMemorySubmissionRepository(logger.Nop()))

		stored, err := repo.Add(nil, model.CalculatorSubmission{
			SessionID: uuid.NewString(),
			Patrimony: decimal.NewFromInt(1000),
		})
		require.NoError(t, err)

		<-repo.Ready()
		got, err := repo.Get(nil, stored.SubmissionID)
		require.NoError(t, err)
		require.Equal(t, stored.SessionID, got.SessionID)
	})

	t.Run("first resolution wins", func(t *testing.T) {
		repo := NewDeferredSubmissionRepository(time.Minute)
		first := NewMemorySubmissionRepository(logger.Nop())
		repo.Resolve(first)
		repo.Resolve(NewMemorySubmissionRepository(logger.Nop()))

		stored, err := first.Add(nil, model.CalculatorSubmission{SessionID: "s"})
		require.NoError(t, err)
		_, err = repo.Get(nil, stored.SubmissionID)
		require.NoError(t, err)
	})
}
