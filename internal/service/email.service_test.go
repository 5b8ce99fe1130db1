package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"reinocalc/internal/db/models/postgres/public/model"
	"reinocalc/internal/domain"
	mock_repository "reinocalc/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func sampleLead() (model.CalculatorSubmission, domain.Snapshot, domain.FeeComparisonResult) {
	email := "ana@example.com"
	submission := model.CalculatorSubmission{
		SubmissionID: uuid.MustParse("7f1b7a54-2a7e-4b55-9d70-7b0a3f6f1c11"),
		SessionID:    "session-1",
		UserEmail:    &email,
		SubmittedAt:  time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC),
	}
	key := domain.NewAssetKey("Renda Fixa", "CDB")
	snapshot := domain.Snapshot{
		TotalPatrimony: decimal.NewFromInt(2000000),
		SelectedAssets: []domain.AssetKey{key},
		Allocations: []domain.AllocationEntry{
			{Key: key, Value: decimal.NewFromInt(2000000), Percentage: decimal.NewFromInt(100)},
			{Key: domain.NewAssetKey("Outros", "Poupança"), Value: decimal.Zero},
		},
		TotalAllocated:   decimal.NewFromInt(2000000),
		Remaining:        decimal.Zero,
		PercentAllocated: decimal.NewFromInt(100),
	}
	result := domain.FeeComparisonResult{
		TraditionalAnnualCost: decimal.NewFromInt(30000),
		ReinoAnnualCost:       decimal.NewFromInt(20000),
		SavingsAbsolute:       decimal.NewFromInt(10000),
		Reino:                 domain.ReinoCost{BracketLabel: "1M - 3M"},
		Verdict:               "Economia de R$ 10.000,00/ano com Reino Capital",
	}
	return submission, snapshot, result
}

func Test_emailServiceHandler_GenerateLeadNotificationEmail(t *testing.T) {
	t.Run("renders allocations and costs", func(t *testing.T) {
		handler := NewEmailService(nil, nil)
		submission, snapshot, result := sampleLead()

		subject, body, err := handler.GenerateLeadNotificationEmail(submission, snapshot, result)
		require.NoError(t, err)

		require.Equal(t, "Nova simulação: R$ 2.000.000,00 em patrimônio, economia de R$ 10.000,00/ano", subject)
		require.Contains(t, body, "<td>CDB</td>")
		require.Contains(t, body, "R$ 30.000,00")
		require.Contains(t, body, "Honorários Reino (1M - 3M): R$ 20.000,00")
		require.Contains(t, body, "ana@example.com")
		require.NotContains(t, body, "Poupança")
	})

	t.Run("no savings line when traditional is cheaper", func(t *testing.T) {
		handler := NewEmailService(nil, nil)
		submission, snapshot, result := sampleLead()
		result.SavingsAbsolute = decimal.NewFromInt(-500)

		subject, _, err := handler.GenerateLeadNotificationEmail(submission, snapshot, result)
		require.NoError(t, err)
		require.Equal(t, "Nova simulação: R$ 2.000.000,00 em patrimônio", subject)
	})
}

func Test_emailServiceHandler_SendLeadNotification(t *testing.T) {
	t.Run("sends through the repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		emailRepository := mock_repository.NewMockEmailRepository(ctrl)
		handler := NewEmailService(emailRepository, nil)
		submission, snapshot, result := sampleLead()

		emailRepository.EXPECT().
			SendEmail(gomock.Any(), "leads@reino.com.br", gomock.Any(), gomock.Any()).
			Return("msg-1", nil)

		err := handler.SendLeadNotification(context.Background(), "leads@reino.com.br", submission, snapshot, result)
		require.NoError(t, err)
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		emailRepository := mock_repository.NewMockEmailRepository(ctrl)
		handler := NewEmailService(emailRepository, nil)
		submission, snapshot, result := sampleLead()

		emailRepository.EXPECT().
			SendEmail(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("ses down"))

		err := handler.SendLeadNotification(context.Background(), "leads@reino.com.br", submission, snapshot, result)
		require.ErrorContains(t, err, "ses down")
	})
}
