package integration_tests

import (
	"database/sql"
	"os"
	"testing"

	"reinocalc/internal/db/models/postgres/public/model"
	"reinocalc/internal/repository"
	"reinocalc/internal/util"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// needs a reachable postgres described by secrets-test.json
func newTestDb(t *testing.T) *sql.Tx {
	t.Helper()
	secrets, err := util.LoadSecretsFile("secrets-test.json")
	if err != nil || !secrets.Db.IsConfigured() {
		t.Skip("no test database configured")
	}

	db, err := sql.Open("postgres", secrets.Db.ToConnectionStr())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	if err := db.Ping(); err != nil {
		t.Skipf("test database unreachable: %v", err)
	}

	tx, err := db.Begin()
	require.NoError(t, err)
	t.Cleanup(func() { tx.Rollback() })

	migration, err := os.ReadFile("../migrations/000001_calculator_submission.up.sql")
	require.NoError(t, err)
	_, err = tx.Exec(string(migration))
	require.NoError(t, err)

	return tx
}

func Test_submissionRepository_postgres(t *testing.T) {
	tx := newTestDb(t)
	repo := repository.NewSubmissionRepository(nil)

	pageURL := "https://reino.com.br/calculadora"
	in := model.CalculatorSubmission{
		SessionID:             uuid.NewString(),
		Patrimony:             decimal.NewFromInt(500000),
		SelectedAssets:        `["renda fixa:cdb"]`,
		Allocation:            `{"renda fixa:cdb": {"value": 500000}}`,
		TotalAllocated:        decimal.NewFromInt(500000),
		PercentAllocated:      decimal.NewFromInt(100),
		RemainingPatrimony:    decimal.Zero,
		TraditionalAnnualCost: decimal.NewFromInt(6250),
		ReinoAnnualCost:       decimal.NewFromInt(799),
		SavingsAnnual:         decimal.NewFromInt(5451),
		PageURL:               &pageURL,
		SubmissionType:        repository.SubmissionTypeDirect,
	}

	stored, err := repo.Add(tx, in)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, stored.SubmissionID)

	got, err := repo.Get(tx, stored.SubmissionID)
	require.NoError(t, err)
	diff := cmp.Diff(*stored, *got,
		cmpopts.IgnoreFields(model.CalculatorSubmission{}, "SubmittedAt", "SelectedAssets", "Allocation"),
		cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	)
	require.Empty(t, diff)

	require.NoError(t, repo.SetTypebotSession(tx, stored.SubmissionID, "typebot-session"))
	completed, err := repo.Complete(tx, stored.SubmissionID, `{"interesse": "alto"}`)
	require.NoError(t, err)
	require.Equal(t, repository.SubmissionTypeTypebot, completed.SubmissionType)
	require.Equal(t, "typebot-session", *completed.TypebotSessionID)
	require.NotNil(t, completed.CompletedAt)

	_, err = repo.Get(tx, uuid.New())
	require.ErrorIs(t, err, repository.ErrSubmissionNotFound)
	require.ErrorIs(t, repo.SetTypebotSession(tx, uuid.New(), "x"), repository.ErrSubmissionNotFound)
}
