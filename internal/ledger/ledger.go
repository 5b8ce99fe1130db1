package ledger

import (
	"errors"
	"fmt"

	"reinocalc/internal/currency"
	"reinocalc/internal/domain"
	"reinocalc/internal/events"
	"reinocalc/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const module = "ledger"

const MessagePatrimonyNotSet = "Informe o valor do patrimônio primeiro"

var ErrUnknownAsset = errors.New("unknown asset")

var hundred = decimal.NewFromInt(100)

// EligibilityChecker decides whether an asset may hold a non-zero value.
type EligibilityChecker interface {
	IsSelected(key domain.AssetKey) bool
}

type WriteResult struct {
	Entry     domain.AllocationEntry
	Requested decimal.Decimal
	// Clamped is set when the requested value exceeded maxAllowed.
	Clamped         bool
	PatrimonyNotSet bool
	NotSelected     bool
	Message         string
}

type AllocationLedger interface {
	Register(key domain.AssetKey)
	SetEligibility(checker EligibilityChecker)

	SetTotalPatrimony(v decimal.Decimal)
	TotalPatrimony() decimal.Decimal

	SetAllocationValue(key domain.AssetKey, v decimal.Decimal) (*WriteResult, error)
	SetAllocationDisplay(key domain.AssetKey, display string) (*WriteResult, error)
	SetAllocationFromSliderFraction(key domain.AssetKey, fraction decimal.Decimal) (*WriteResult, error)

	GetTotalAllocated() decimal.Decimal
	GetRemaining() decimal.Decimal
	RemainingPercent() decimal.Decimal
	IsOverAllocated() bool
	Status() domain.AllocationStatus

	ResetAll()
	ResetEntry(key domain.AssetKey) error

	Entries() []domain.AllocationEntry
	Entry(key domain.AssetKey) (domain.AllocationEntry, error)
}

type ledgerHandler struct {
	total   decimal.Decimal
	order   []string
	entries map[string]*domain.AllocationEntry

	eligibility EligibilityChecker
	publisher   events.Publisher
	clamps      metrics.Counter
	log         *zap.SugaredLogger
}

func New(publisher events.Publisher, clamps metrics.Counter, log *zap.SugaredLogger) AllocationLedger {
	if clamps == nil {
		clamps = metrics.NopCounter
	}
	return &ledgerHandler{
		total:     decimal.Zero,
		entries:   map[string]*domain.AllocationEntry{},
		publisher: publisher,
		clamps:    clamps,
		log:       log,
	}
}

func (h *ledgerHandler) Register(key domain.AssetKey) {
	k := key.Normalized()
	if _, ok := h.entries[k]; ok {
		return
	}
	h.order = append(h.order, k)
	h.entries[k] = &domain.AllocationEntry{
		Key:        key,
		Value:      decimal.Zero,
		Percentage: decimal.Zero,
		MaxAllowed: h.total,
	}
	h.recompute()
}

func (h *ledgerHandler) SetEligibility(checker EligibilityChecker) {
	h.eligibility = checker
}

// SetTotalPatrimony never shrinks existing allocations; a total below the
// allocated sum leaves the ledger over-allocated until the user fixes it.
func (h *ledgerHandler) SetTotalPatrimony(v decimal.Decimal) {
	if v.IsNegative() {
		v = decimal.Zero
	}
	h.total = v
	h.recompute()

	h.emit(events.PatrimonyChangedData{
		Value:     v,
		Formatted: currency.FormatBRL(v),
	})
	h.emitStatus()
}

func (h *ledgerHandler) TotalPatrimony() decimal.Decimal {
	return h.total
}

func (h *ledgerHandler) SetAllocationDisplay(key domain.AssetKey, display string) (*WriteResult, error) {
	return h.SetAllocationValue(key, currency.Parse(display))
}

func (h *ledgerHandler) SetAllocationValue(key domain.AssetKey, v decimal.Decimal) (*WriteResult, error) {
	entry, ok := h.entries[key.Normalized()]
	if !ok {
		return nil, fmt.Errorf("failed to set allocation for %s: %w", key, ErrUnknownAsset)
	}
	if v.IsNegative() {
		v = decimal.Zero
	}

	result := &WriteResult{Requested: v}
	switch {
	case !h.isEligible(entry.Key):
		result.NotSelected = v.IsPositive()
		v = decimal.Zero
	case v.GreaterThan(h.maxAllowed(entry)):
		limit := h.maxAllowed(entry)
		result.Clamped = true
		result.Message = clampMessage(limit)
		v = limit
	}

	return h.write(entry, v, result), nil
}

// SetAllocationFromSliderFraction sets value = total × fraction, with the
// fraction bounded to [0, 1]. Without a patrimony the entry is zeroed.
func (h *ledgerHandler) SetAllocationFromSliderFraction(key domain.AssetKey, fraction decimal.Decimal) (*WriteResult, error) {
	entry, ok := h.entries[key.Normalized()]
	if !ok {
		return nil, fmt.Errorf("failed to set slider allocation for %s: %w", key, ErrUnknownAsset)
	}

	if !h.total.IsPositive() {
		result := &WriteResult{
			Requested:       decimal.Zero,
			PatrimonyNotSet: true,
			Message:         MessagePatrimonyNotSet,
		}
		return h.write(entry, decimal.Zero, result), nil
	}

	if fraction.IsNegative() {
		fraction = decimal.Zero
	}
	if fraction.GreaterThan(decimal.NewFromInt(1)) {
		fraction = decimal.NewFromInt(1)
	}
	return h.SetAllocationValue(key, h.total.Mul(fraction))
}

func (h *ledgerHandler) write(entry *domain.AllocationEntry, v decimal.Decimal, result *WriteResult) *WriteResult {
	entry.Value = v
	h.recompute()
	result.Entry = *entry

	if result.Clamped {
		h.clamps.Inc()
		h.log.Debugw("allocation clamped", "asset", entry.Key.String(), "requested", result.Requested, "applied", v)
		h.emit(events.AllocationClampedData{
			AssetKey:  entry.Key,
			Requested: result.Requested,
			Applied:   v,
			Message:   result.Message,
		})
	}
	if result.PatrimonyNotSet {
		h.emit(events.PatrimonyNotSetData{
			AssetKey: entry.Key,
			Message:  result.Message,
		})
	}

	h.emitEntry(*entry)
	h.emitStatus()
	return result
}

func (h *ledgerHandler) GetTotalAllocated() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range h.entries {
		sum = sum.Add(e.Value)
	}
	return sum
}

func (h *ledgerHandler) GetRemaining() decimal.Decimal {
	return h.total.Sub(h.GetTotalAllocated())
}

func (h *ledgerHandler) RemainingPercent() decimal.Decimal {
	if !h.total.IsPositive() {
		return decimal.Zero
	}
	return h.GetRemaining().Div(h.total).Mul(hundred)
}

func (h *ledgerHandler) IsOverAllocated() bool {
	return h.GetTotalAllocated().Sub(h.total).GreaterThan(domain.AllocationEpsilon)
}

func (h *ledgerHandler) Status() domain.AllocationStatus {
	total := h.GetTotalAllocated()
	remaining := h.total.Sub(total)
	return domain.AllocationStatus{
		Total:            total,
		MainValue:        h.total,
		Remaining:        remaining,
		IsOverAllocated:  h.IsOverAllocated(),
		IsFullyAllocated: remaining.Abs().LessThan(domain.AllocationEpsilon),
	}
}

func (h *ledgerHandler) ResetAll() {
	for _, e := range h.entries {
		e.Value = decimal.Zero
	}
	h.recompute()
	h.emitStatus()
}

func (h *ledgerHandler) ResetEntry(key domain.AssetKey) error {
	entry, ok := h.entries[key.Normalized()]
	if !ok {
		return fmt.Errorf("failed to reset allocation for %s: %w", key, ErrUnknownAsset)
	}
	h.write(entry, decimal.Zero, &WriteResult{Requested: decimal.Zero})
	return nil
}

func (h *ledgerHandler) Entries() []domain.AllocationEntry {
	out := make([]domain.AllocationEntry, 0, len(h.order))
	for _, k := range h.order {
		out = append(out, *h.entries[k])
	}
	return out
}

func (h *ledgerHandler) Entry(key domain.AssetKey) (domain.AllocationEntry, error) {
	entry, ok := h.entries[key.Normalized()]
	if !ok {
		return domain.AllocationEntry{}, fmt.Errorf("failed to get allocation for %s: %w", key, ErrUnknownAsset)
	}
	return *entry, nil
}

func (h *ledgerHandler) isEligible(key domain.AssetKey) bool {
	if h.eligibility == nil {
		return true
	}
	return h.eligibility.IsSelected(key)
}

// maxAllowed is max(0, total - sum of the other entries).
func (h *ledgerHandler) maxAllowed(entry *domain.AllocationEntry) decimal.Decimal {
	others := h.GetTotalAllocated().Sub(entry.Value)
	return decimal.Max(decimal.Zero, h.total.Sub(others))
}

// recompute refreshes the derived fields of every entry.
func (h *ledgerHandler) recompute() {
	for _, e := range h.entries {
		e.MaxAllowed = h.maxAllowed(e)
		if h.total.IsPositive() {
			e.Percentage = e.Value.Div(h.total).Mul(hundred)
		} else {
			e.Percentage = decimal.Zero
		}
	}
}

func (h *ledgerHandler) emitEntry(e domain.AllocationEntry) {
	h.emit(events.AllocationChangedData{
		AssetKey:   e.Key,
		Value:      e.Value,
		Percentage: e.Percentage,
		MaxAllowed: e.MaxAllowed,
		IsValid:    e.IsValid(),
	})
}

func (h *ledgerHandler) emitStatus() {
	h.emit(events.AllocationStatusData{AllocationStatus: h.Status()})
}

func (h *ledgerHandler) emit(data events.EventData) {
	if h.publisher == nil {
		return
	}
	h.publisher.Emit(module, data)
}

func clampMessage(limit decimal.Decimal) string {
	return "Valor máximo disponível: " + currency.FormatBRL(limit)
}
