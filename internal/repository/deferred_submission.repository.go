package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"reinocalc/internal/db/models/postgres/public/model"
	"reinocalc/internal/readiness"

	"github.com/google/uuid"
)

// DeferredSubmissionRepository serves submissions from a store that is only
// known once the database probe finishes. Calls made before that wait up to
// the configured budget and then fail with readiness.ErrNotReady.
type DeferredSubmissionRepository struct {
	ready *readiness.Signal
	wait  time.Duration

	mu    sync.RWMutex
	store SubmissionRepository
}

func NewDeferredSubmissionRepository(wait time.Duration) *DeferredSubmissionRepository {
	return &DeferredSubmissionRepository{
		ready: readiness.NewSignal(),
		wait:  wait,
	}
}

// Resolve sets the backing store. Only the first call has any effect.
func (h *DeferredSubmissionRepository) Resolve(store SubmissionRepository) {
	h.mu.Lock()
	if h.store == nil {
		h.store = store
	}
	h.mu.Unlock()
	h.ready.Ready()
}

func (h *DeferredSubmissionRepository) Ready() <-chan struct{} {
	return h.ready.Done()
}

func (h *DeferredSubmissionRepository) current() (SubmissionRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), h.wait)
	defer cancel()
	if err := h.ready.Wait(ctx); err != nil {
		return nil, fmt.Errorf("submission store: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.store, nil
}

func (h *DeferredSubmissionRepository) Add(tx *sql.Tx, m model.CalculatorSubmission) (*model.CalculatorSubmission, error) {
	store, err := h.current()
	if err != nil {
		return nil, err
	}
	return store.Add(tx, m)
}

func (h *DeferredSubmissionRepository) Get(tx *sql.Tx, submissionID uuid.UUID) (*model.CalculatorSubmission, error) {
	store, err := h.current()
	if err != nil {
		return nil, err
	}
	return store.Get(tx, submissionID)
}

func (h *DeferredSubmissionRepository) SetTypebotSession(tx *sql.Tx, submissionID uuid.UUID, typebotSessionID string) error {
	store, err := h.current()
	if err != nil {
		return err
	}
	return store.SetTypebotSession(tx, submissionID, typebotSessionID)
}

func (h *DeferredSubmissionRepository) Complete(tx *sql.Tx, submissionID uuid.UUID, typebotResults string) (*model.CalculatorSubmission, error) {
	store, err := h.current()
	if err != nil {
		return nil, err
	}
	return store.Complete(tx, submissionID, typebotResults)
}
