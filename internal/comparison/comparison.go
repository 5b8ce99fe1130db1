package comparison

import (
	"fmt"

	"reinocalc/internal/currency"
	"reinocalc/internal/domain"
	"reinocalc/internal/events"
	"reinocalc/internal/feetable"
	"reinocalc/internal/metrics"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const module = "comparison"

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

type FeeSchedule interface {
	Lookup(key domain.AssetKey) (*feetable.TraditionalRate, bool)
	ReinoFee(total decimal.Decimal) domain.ReinoCost
}

type AllocationSource interface {
	Entries() []domain.AllocationEntry
	TotalPatrimony() decimal.Decimal
}

type SelectionSource interface {
	IsSelected(key domain.AssetKey) bool
}

type Counters struct {
	Computed     metrics.Counter
	LookupMisses metrics.Counter
}

type FeeComparison interface {
	ComputeTraditionalCost() domain.TraditionalCost
	ComputeReinoCost(total decimal.Decimal) domain.ReinoCost
	Compare() domain.FeeComparisonResult
	// Last returns the most recent result produced by Recompute, if any.
	Last() *domain.FeeComparisonResult
	Recompute() domain.FeeComparisonResult
	SubscribeTo(bus *events.Bus) (unsubscribe func())
}

type comparisonHandler struct {
	fees       FeeSchedule
	ledger     AllocationSource
	selection  SelectionSource
	publisher  events.Publisher
	counters   Counters
	log        *zap.SugaredLogger
	lastResult *domain.FeeComparisonResult
}

func New(fees FeeSchedule, ledger AllocationSource, selection SelectionSource, publisher events.Publisher, counters Counters, log *zap.SugaredLogger) FeeComparison {
	if counters.Computed == nil {
		counters.Computed = metrics.NopCounter
	}
	if counters.LookupMisses == nil {
		counters.LookupMisses = metrics.NopCounter
	}
	return &comparisonHandler{
		fees:      fees,
		ledger:    ledger,
		selection: selection,
		publisher: publisher,
		counters:  counters,
		log:       log,
	}
}

// ComputeTraditionalCost sums value × average rate over the selected,
// positive entries. Unknown products cost nothing and are reported.
func (h *comparisonHandler) ComputeTraditionalCost() domain.TraditionalCost {
	out := domain.TraditionalCost{
		Annual:    decimal.Zero,
		Min:       decimal.Zero,
		Max:       decimal.Zero,
		Breakdown: []domain.TraditionalBreakdownItem{},
		Misses:    []domain.AssetKey{},
	}

	for _, e := range h.ledger.Entries() {
		if !e.Value.IsPositive() {
			continue
		}
		if h.selection != nil && !h.selection.IsSelected(e.Key) {
			continue
		}

		rate, ok := h.fees.Lookup(e.Key)
		if !ok {
			h.counters.LookupMisses.Inc()
			h.log.Warnw("no traditional fee for asset", "category", e.Key.Category, "product", e.Key.Product)
			out.Misses = append(out.Misses, e.Key)
			continue
		}

		item := domain.TraditionalBreakdownItem{
			Key:         e.Key,
			Value:       e.Value,
			RatePercent: rate.Average,
			AnnualCost:  e.Value.Mul(rate.Average).Div(hundred),
			MinCost:     e.Value.Mul(rate.Min).Div(hundred),
			MaxCost:     e.Value.Mul(rate.Max).Div(hundred),
		}
		out.Breakdown = append(out.Breakdown, item)
		out.Annual = out.Annual.Add(item.AnnualCost)
		out.Min = out.Min.Add(item.MinCost)
		out.Max = out.Max.Add(item.MaxCost)
	}

	return out
}

func (h *comparisonHandler) ComputeReinoCost(total decimal.Decimal) domain.ReinoCost {
	return h.fees.ReinoFee(total)
}

func (h *comparisonHandler) Compare() domain.FeeComparisonResult {
	total := h.ledger.TotalPatrimony()
	traditional := h.ComputeTraditionalCost()
	reino := h.ComputeReinoCost(total)

	savings := traditional.Annual.Sub(reino.AnnualCost)
	savingsPercent := decimal.Zero
	if !traditional.Annual.IsZero() {
		savingsPercent = savings.Div(traditional.Annual).Mul(hundred)
	}

	return domain.FeeComparisonResult{
		TraditionalAnnualCost:  traditional.Annual,
		ReinoAnnualCost:        reino.AnnualCost,
		SavingsAbsolute:        savings,
		SavingsPercent:         savingsPercent,
		IsReinoCheaper:         savings.IsPositive(),
		TotalPatrimony:         total,
		Traditional:            traditional,
		Reino:                  reino,
		TraditionalMonthlyCost: traditional.Annual.Div(twelve),
		Verdict:                Verdict(savings),
	}
}

// Recompute runs Compare, keeps the result for display and notifies
// subscribers.
func (h *comparisonHandler) Recompute() domain.FeeComparisonResult {
	result := h.Compare()
	h.lastResult = &result
	h.counters.Computed.Inc()
	if h.publisher != nil {
		h.publisher.Emit(module, events.ComparisonCalculatedData{Result: result})
	}
	return result
}

func (h *comparisonHandler) Last() *domain.FeeComparisonResult {
	return h.lastResult
}

// SubscribeTo recomputes on every ledger status change (which follows
// every patrimony and allocation write) and on every selection change.
func (h *comparisonHandler) SubscribeTo(bus *events.Bus) func() {
	recompute := func(events.Event) { h.Recompute() }
	unsubscribers := []func(){
		bus.Subscribe(events.AllocationStatusChanged, recompute),
		bus.Subscribe(events.SelectionChanged, recompute),
	}
	return func() {
		for _, u := range unsubscribers {
			u()
		}
	}
}

func Verdict(savings decimal.Decimal) string {
	abs := savings.Abs().Round(2)
	switch {
	case abs.IsZero():
		return "Custos equivalentes"
	case savings.IsPositive():
		return fmt.Sprintf("Economia de %s/ano com Reino Capital", currency.FormatBRL(abs))
	default:
		return fmt.Sprintf("Modelo tradicional %s mais barato", currency.FormatBRL(abs))
	}
}
