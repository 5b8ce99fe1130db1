package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"reinocalc/internal/app"
	"reinocalc/internal/currency"
	"reinocalc/internal/db/models/postgres/public/model"
	"reinocalc/internal/domain"
	"reinocalc/internal/repository"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	MessagePatrimonyRequired = "Patrimônio deve ser maior que zero"
	MessageAssetRequired     = "Pelo menos um ativo deve ser selecionado"

	typebotSource = "webflow_calculator"
)

var ErrInvalidSubmission = errors.New("invalid submission")

// ValidationError lists every failed check; it matches ErrInvalidSubmission.
type ValidationError struct {
	Errors []string
}

func (e ValidationError) Error() string {
	return "Validação falhou: " + strings.Join(e.Errors, ", ")
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidSubmission
}

type OutcomeCounter interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

type SubmissionRequest struct {
	UserAgent string
	PageURL   string
	UserID    *string
	UserEmail *string

	// Contact fields forwarded to the Typebot conversation.
	Name  string
	Email string
	Phone string

	UseTypebot bool
}

type SubmissionResult struct {
	Submission       model.CalculatorSubmission
	Comparison       domain.FeeComparisonResult
	TypebotSessionID *string
}

type SubmissionService interface {
	Validate(snapshot domain.Snapshot) []string
	Submit(ctx context.Context, calc *app.Calculator, req SubmissionRequest) (*SubmissionResult, error)
	CompleteTypebot(ctx context.Context, submissionID uuid.UUID, results json.RawMessage) (*model.CalculatorSubmission, error)
}

type submissionServiceHandler struct {
	SubmissionRepository repository.SubmissionRepository
	TypebotRepository    repository.TypebotRepository
	EmailService         EmailService
	NotifyEmail          string
	Outcomes             OutcomeCounter
	log                  *zap.SugaredLogger
}

// NewSubmissionService wires the submission pipeline. typebotRepository and
// emailService may be nil, in which case those steps are skipped.
func NewSubmissionService(
	submissionRepository repository.SubmissionRepository,
	typebotRepository repository.TypebotRepository,
	emailService EmailService,
	notifyEmail string,
	outcomes OutcomeCounter,
	log *zap.SugaredLogger,
) SubmissionService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &submissionServiceHandler{
		SubmissionRepository: submissionRepository,
		TypebotRepository:    typebotRepository,
		EmailService:         emailService,
		NotifyEmail:          notifyEmail,
		Outcomes:             outcomes,
		log:                  log,
	}
}

func (h *submissionServiceHandler) Validate(snapshot domain.Snapshot) []string {
	errs := []string{}
	if !snapshot.TotalPatrimony.IsPositive() {
		errs = append(errs, MessagePatrimonyRequired)
	}
	if len(snapshot.SelectedAssets) == 0 {
		errs = append(errs, MessageAssetRequired)
	}
	return errs
}

func (h *submissionServiceHandler) Submit(ctx context.Context, calc *app.Calculator, req SubmissionRequest) (*SubmissionResult, error) {
	state := calc.SubmissionState()

	if errs := h.Validate(state.Snapshot); len(errs) > 0 {
		h.observe("invalid")
		return nil, ValidationError{Errors: errs}
	}

	m, err := newSubmissionModel(calc.ID, state, req)
	if err != nil {
		h.observe("failed")
		return nil, err
	}

	stored, err := h.SubmissionRepository.Add(nil, *m)
	if err != nil {
		h.observe("failed")
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}
	h.observe("persisted")

	out := &SubmissionResult{
		Submission: *stored,
		Comparison: state.Comparison,
	}

	if req.UseTypebot && h.TypebotRepository != nil {
		sessionID, err := h.TypebotRepository.StartChat(ctx, typebotVariables(state, req))
		if err != nil {
			// falls back to the direct submission already stored
			h.log.Warnw("typebot handoff failed", "submissionID", stored.SubmissionID.String(), "error", err)
		} else {
			err = h.SubmissionRepository.SetTypebotSession(nil, stored.SubmissionID, sessionID)
			if err != nil {
				h.log.Warnw("failed to record typebot session", "submissionID", stored.SubmissionID.String(), "error", err)
			}
			out.TypebotSessionID = &sessionID
			out.Submission.TypebotSessionID = &sessionID
			out.Submission.SubmissionType = repository.SubmissionTypeTypebot
		}
	}

	if h.EmailService != nil && h.NotifyEmail != "" {
		err = h.EmailService.SendLeadNotification(ctx, h.NotifyEmail, *stored, state.Snapshot, state.Comparison)
		if err != nil {
			h.log.Warnw("lead notification not sent", "submissionID", stored.SubmissionID.String(), "error", err)
		}
	}

	return out, nil
}

func (h *submissionServiceHandler) CompleteTypebot(ctx context.Context, submissionID uuid.UUID, results json.RawMessage) (*model.CalculatorSubmission, error) {
	if len(results) == 0 || !json.Valid(results) {
		return nil, fmt.Errorf("%w: typebot results must be valid json", ErrInvalidSubmission)
	}

	out, err := h.SubmissionRepository.Complete(nil, submissionID, string(results))
	if err != nil {
		return nil, fmt.Errorf("failed to complete submission: %w", err)
	}
	h.observe("completed")

	return out, nil
}

func (h *submissionServiceHandler) observe(outcome string) {
	if h.Outcomes != nil {
		h.Outcomes.WithLabelValues(outcome).Inc()
	}
}

type allocationRecord struct {
	Category   string          `json:"category"`
	Product    string          `json:"product"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
}

func newSubmissionModel(sessionID uuid.UUID, state app.SubmissionState, req SubmissionRequest) (*model.CalculatorSubmission, error) {
	snapshot := state.Snapshot

	selected, err := json.Marshal(snapshot.SelectedAssets)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal selected assets: %w", err)
	}

	allocation := map[string]allocationRecord{}
	for _, e := range snapshot.NonZeroAllocations() {
		allocation[e.Key.Normalized()] = allocationRecord{
			Category:   e.Key.Category,
			Product:    e.Key.Product,
			Value:      e.Value,
			Percentage: e.Percentage,
		}
	}
	allocationBytes, err := json.Marshal(allocation)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal allocation: %w", err)
	}

	m := &model.CalculatorSubmission{
		SubmissionID:          uuid.New(),
		SessionID:             sessionID.String(),
		Patrimony:             snapshot.TotalPatrimony,
		SelectedAssets:        string(selected),
		Allocation:            string(allocationBytes),
		TotalAllocated:        snapshot.TotalAllocated,
		PercentAllocated:      snapshot.PercentAllocated.Round(2),
		RemainingPatrimony:    snapshot.Remaining,
		TraditionalAnnualCost: state.Comparison.TraditionalAnnualCost,
		ReinoAnnualCost:       state.Comparison.ReinoAnnualCost,
		SavingsAnnual:         state.Comparison.SavingsAbsolute,
		UserID:                req.UserID,
		UserEmail:             req.UserEmail,
		SubmissionType:        repository.SubmissionTypeDirect,
	}
	if req.UserAgent != "" {
		m.UserAgent = &req.UserAgent
	}
	if req.PageURL != "" {
		m.PageURL = &req.PageURL
	}

	return m, nil
}

func typebotVariables(state app.SubmissionState, req SubmissionRequest) map[string]string {
	products := []string{}
	for _, k := range state.Snapshot.SelectedAssets {
		products = append(products, k.Product)
	}

	economia := decimal.Zero
	if state.Comparison.SavingsAbsolute.IsPositive() {
		economia = state.Comparison.SavingsAbsolute
	}

	return map[string]string{
		"nome":                req.Name,
		"email":               req.Email,
		"telefone":            req.Phone,
		"patrimonio":          currency.FormatBRL(state.Snapshot.TotalPatrimony),
		"ativos_selecionados": strings.Join(products, ", "),
		"economia_anual":      currency.FormatBRL(economia),
		"source":              typebotSource,
	}
}
