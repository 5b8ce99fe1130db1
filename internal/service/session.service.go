package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"reinocalc/internal/app"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultSessionTTL = 30 * time.Minute

var ErrSessionNotFound = errors.New("session not found")

type SessionService interface {
	Create() (*app.Calculator, error)
	Get(id uuid.UUID) (*app.Calculator, error)
	Delete(id uuid.UUID)
	Count() int
}

type sessionServiceHandler struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*app.Calculator

	Deps app.Dependencies
	TTL  time.Duration

	now func() time.Time
	log *zap.SugaredLogger
}

func NewSessionService(deps app.Dependencies, ttl time.Duration) SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &sessionServiceHandler{
		sessions: map[uuid.UUID]*app.Calculator{},
		Deps:     deps,
		TTL:      ttl,
		now:      time.Now,
		log:      log,
	}
}

func (h *sessionServiceHandler) Create() (*app.Calculator, error) {
	calc, err := app.NewCalculator(h.Deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create calculator: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.evictExpired()
	h.sessions[calc.ID] = calc
	h.observe()
	h.log.Infow("session created", "session", calc.ID.String())

	return calc, nil
}

func (h *sessionServiceHandler) Get(id uuid.UUID) (*app.Calculator, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.evictExpired()

	calc, ok := h.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id.String())
	}
	return calc, nil
}

func (h *sessionServiceHandler) Delete(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if calc, ok := h.sessions[id]; ok {
		calc.Close()
		delete(h.sessions, id)
		h.observe()
	}
}

func (h *sessionServiceHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.evictExpired()
	return len(h.sessions)
}

// evictExpired must be called with mu held.
func (h *sessionServiceHandler) evictExpired() {
	cutoff := h.now().Add(-h.TTL)
	evicted := 0
	for id, calc := range h.sessions {
		if calc.LastSeen().Before(cutoff) {
			calc.Close()
			delete(h.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		h.log.Infow("evicted idle sessions", "count", evicted)
		h.observe()
	}
}

func (h *sessionServiceHandler) observe() {
	if h.Deps.Metrics != nil {
		h.Deps.Metrics.ActiveSessions.Set(float64(len(h.sessions)))
	}
}
