package repository

import (
	"testing"

	"reinocalc/internal/db/models/postgres/public/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_memorySubmissionRepository(t *testing.T) {
	t.Run("add assigns id and timestamp", func(t *testing.T) {
		repo := NewMemorySubmissionRepository(nil)

		out, err := repo.Add(nil, model.CalculatorSubmission{
			SessionID:      "sess",
			Patrimony:      decimal.NewFromInt(100000),
			SubmissionType: SubmissionTypeDirect,
		})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, out.SubmissionID)
		require.False(t, out.SubmittedAt.IsZero())

		got, err := repo.Get(nil, out.SubmissionID)
		require.NoError(t, err)
		require.Equal(t, "sess", got.SessionID)
		require.True(t, got.Patrimony.Equal(decimal.NewFromInt(100000)))
	})

	t.Run("typebot session then completion", func(t *testing.T) {
		repo := NewMemorySubmissionRepository(nil)
		out, err := repo.Add(nil, model.CalculatorSubmission{SessionID: "sess", SubmissionType: SubmissionTypeDirect})
		require.NoError(t, err)

		err = repo.SetTypebotSession(nil, out.SubmissionID, "tb-1")
		require.NoError(t, err)

		completed, err := repo.Complete(nil, out.SubmissionID, `{"nome":"Ana"}`)
		require.NoError(t, err)
		require.Equal(t, SubmissionTypeTypebot, completed.SubmissionType)
		require.Equal(t, "tb-1", *completed.TypebotSessionID)
		require.Equal(t, `{"nome":"Ana"}`, *completed.TypebotResults)
		require.NotNil(t, completed.CompletedAt)
	})

	t.Run("unknown submission", func(t *testing.T) {
		repo := NewMemorySubmissionRepository(nil)
		_, err := repo.Get(nil, uuid.New())
		require.ErrorIs(t, err, ErrSubmissionNotFound)

		err = repo.SetTypebotSession(nil, uuid.New(), "x")
		require.ErrorIs(t, err, ErrSubmissionNotFound)

		_, err = repo.Complete(nil, uuid.New(), "{}")
		require.ErrorIs(t, err, ErrSubmissionNotFound)
	})
}
