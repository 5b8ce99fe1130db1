package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"reinocalc/internal/db/models/postgres/public/model"
	"reinocalc/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository interface {
	Add(tx *sql.Tx, m model.CalculatorSubmission) (*model.CalculatorSubmission, error)
	Get(tx *sql.Tx, submissionID uuid.UUID) (*model.CalculatorSubmission, error)
	SetTypebotSession(tx *sql.Tx, submissionID uuid.UUID, typebotSessionID string) error
	Complete(tx *sql.Tx, submissionID uuid.UUID, typebotResults string) (*model.CalculatorSubmission, error)
}

type submissionRepositoryHandler struct {
	Db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) SubmissionRepository {
	return submissionRepositoryHandler{
		Db: db,
	}
}

func (h submissionRepositoryHandler) queryable(tx *sql.Tx) qrm.DB {
	if tx != nil {
		return tx
	}
	return h.Db
}

func (h submissionRepositoryHandler) Add(tx *sql.Tx, m model.CalculatorSubmission) (*model.CalculatorSubmission, error) {
	if m.SubmissionID == uuid.Nil {
		m.SubmissionID = uuid.New()
	}
	if m.SubmittedAt.IsZero() {
		m.SubmittedAt = time.Now().UTC()
	}

	t := table.CalculatorSubmission
	query := t.
		INSERT(t.AllColumns).
		MODEL(m).
		RETURNING(t.AllColumns)

	out := model.CalculatorSubmission{}
	err := query.Query(h.queryable(tx), &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert calculator submission: %w", err)
	}

	return &out, nil
}

func (h submissionRepositoryHandler) Get(tx *sql.Tx, submissionID uuid.UUID) (*model.CalculatorSubmission, error) {
	t := table.CalculatorSubmission
	query := t.
		SELECT(t.AllColumns).
		WHERE(t.SubmissionID.EQ(postgres.UUID(submissionID)))

	out := model.CalculatorSubmission{}
	err := query.Query(h.queryable(tx), &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get calculator submission %s: %w", submissionID.String(), err)
	}

	return &out, nil
}

func (h submissionRepositoryHandler) SetTypebotSession(tx *sql.Tx, submissionID uuid.UUID, typebotSessionID string) error {
	t := table.CalculatorSubmission
	m := model.CalculatorSubmission{
		TypebotSessionID: &typebotSessionID,
		SubmissionType:   SubmissionTypeTypebot,
	}
	query := t.
		UPDATE(t.TypebotSessionID, t.SubmissionType).
		MODEL(m).
		WHERE(t.SubmissionID.EQ(postgres.UUID(submissionID)))

	result, err := query.Exec(h.queryable(tx))
	if err != nil {
		return fmt.Errorf("failed to set typebot session on submission: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrSubmissionNotFound
	}

	return nil
}

func (h submissionRepositoryHandler) Complete(tx *sql.Tx, submissionID uuid.UUID, typebotResults string) (*model.CalculatorSubmission, error) {
	now := time.Now().UTC()
	t := table.CalculatorSubmission
	m := model.CalculatorSubmission{
		TypebotResults: &typebotResults,
		SubmissionType: SubmissionTypeTypebot,
		CompletedAt:    &now,
	}
	query := t.
		UPDATE(t.TypebotResults, t.SubmissionType, t.CompletedAt).
		MODEL(m).
		WHERE(t.SubmissionID.EQ(postgres.UUID(submissionID))).
		RETURNING(t.AllColumns)

	out := model.CalculatorSubmission{}
	err := query.Query(h.queryable(tx), &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to complete calculator submission: %w", err)
	}

	return &out, nil
}

const (
	SubmissionTypeDirect  = "direct"
	SubmissionTypeTypebot = "typebot_enhanced"
)

// memorySubmissionRepository keeps submissions for the lifetime of the
// process. It backs the API when the database never becomes reachable.
type memorySubmissionRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.CalculatorSubmission
	log  *zap.SugaredLogger
}

func NewMemorySubmissionRepository(log *zap.SugaredLogger) SubmissionRepository {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &memorySubmissionRepository{
		rows: map[uuid.UUID]model.CalculatorSubmission{},
		log:  log,
	}
}

func (h *memorySubmissionRepository) Add(_ *sql.Tx, m model.CalculatorSubmission) (*model.CalculatorSubmission, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m.SubmissionID == uuid.Nil {
		m.SubmissionID = uuid.New()
	}
	if m.SubmittedAt.IsZero() {
		m.SubmittedAt = time.Now().UTC()
	}
	h.rows[m.SubmissionID] = m
	h.log.Warnw("submission kept in memory only", "submissionID", m.SubmissionID.String(), "sessionID", m.SessionID)

	out := m
	return &out, nil
}

func (h *memorySubmissionRepository) Get(_ *sql.Tx, submissionID uuid.UUID) (*model.CalculatorSubmission, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.rows[submissionID]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	return &m, nil
}

func (h *memorySubmissionRepository) SetTypebotSession(_ *sql.Tx, submissionID uuid.UUID, typebotSessionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.rows[submissionID]
	if !ok {
		return ErrSubmissionNotFound
	}
	m.TypebotSessionID = &typebotSessionID
	m.SubmissionType = SubmissionTypeTypebot
	h.rows[submissionID] = m
	return nil
}

func (h *memorySubmissionRepository) Complete(_ *sql.Tx, submissionID uuid.UUID, typebotResults string) (*model.CalculatorSubmission, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.rows[submissionID]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	now := time.Now().UTC()
	m.TypebotResults = &typebotResults
	m.SubmissionType = SubmissionTypeTypebot
	m.CompletedAt = &now
	h.rows[submissionID] = m

	out := m
	return &out, nil
}
