package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"reinocalc/internal/broker"
	"reinocalc/internal/calculator"
	"reinocalc/internal/comparison"
	"reinocalc/internal/currency"
	"reinocalc/internal/debounce"
	"reinocalc/internal/domain"
	"reinocalc/internal/events"
	"reinocalc/internal/feetable"
	"reinocalc/internal/ledger"
	"reinocalc/internal/metrics"
	"reinocalc/internal/selection"
	"reinocalc/internal/stepgate"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	module = "calculator"

	DefaultInputWindow      = 300 * time.Millisecond
	DefaultValidationWindow = 100 * time.Millisecond

	sourceUser = "user"
)

var ErrInvalidAllocationRequest = errors.New("allocation request needs exactly one of value, display or fraction")

type Dependencies struct {
	Fees             *feetable.Tables
	Steps            []stepgate.Step
	Metrics          *metrics.Metrics
	Clock            debounce.Clock
	InputWindow      time.Duration
	ValidationWindow time.Duration
	Log              *zap.SugaredLogger
}

// Calculator is one user's session: every component wired once, behind a
// single mutex so each operation runs to completion before the next.
type Calculator struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	closed   bool
	warnings []string

	bus        *events.Bus
	broker     broker.InputBroker
	ledger     ledger.AllocationLedger
	selection  selection.AssetSelection
	comparison comparison.FeeComparison
	steps      stepgate.Controller
	fees       *feetable.Tables

	patrimonyInput *debounce.Debouncer[string]
	validation     *debounce.Debouncer[struct{}]

	log *zap.SugaredLogger
}

func NewCalculator(deps Dependencies) (*Calculator, error) {
	if deps.Fees == nil {
		return nil, fmt.Errorf("fee tables are required")
	}
	if deps.Steps == nil {
		steps, err := stepgate.LoadSteps()
		if err != nil {
			return nil, fmt.Errorf("failed to load steps: %w", err)
		}
		deps.Steps = steps
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	if deps.InputWindow == 0 {
		deps.InputWindow = DefaultInputWindow
	}
	if deps.ValidationWindow == 0 {
		deps.ValidationWindow = DefaultValidationWindow
	}

	id := uuid.New()
	log := deps.Log.With("session", id.String())
	now := time.Now()

	c := &Calculator{
		ID:        id,
		CreatedAt: now,
		lastSeen:  now,
		fees:      deps.Fees,
		log:       log,
	}

	c.bus = events.NewBus(log)
	c.broker = broker.New(log)

	var (
		clamps        metrics.Counter
		comparisonCtr comparison.Counters
		transitions   stepgate.OutcomeCounter
	)
	if deps.Metrics != nil {
		clamps = deps.Metrics.AllocationClamps
		comparisonCtr = comparison.Counters{
			Computed:     deps.Metrics.ComparisonsComputed,
			LookupMisses: deps.Metrics.FeeTableLookupMisses,
		}
		transitions = deps.Metrics.StepTransitions
	}

	c.ledger = ledger.New(c.bus, clamps, log)
	for _, key := range deps.Fees.Catalog() {
		c.ledger.Register(key)
	}
	c.selection = selection.New(c.ledger, c.bus, log)
	c.ledger.SetEligibility(c.selection)

	c.comparison = comparison.New(deps.Fees, c.ledger, c.selection, c.bus, comparisonCtr, log)
	c.comparison.SubscribeTo(c.bus)

	steps, err := stepgate.New(deps.Steps, stepgate.StateSourceFunc(c.gateState), c.bus, transitions, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create step controller: %w", err)
	}
	c.steps = steps

	c.patrimonyInput = debounce.New(deps.InputWindow, deps.Clock, func(display string) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		c.applyPatrimony(display)
	})
	c.validation = debounce.New(deps.ValidationWindow, deps.Clock, func(struct{}) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		c.bus.Emit(module, events.StepValidationChangedData{
			CurrentStep: c.steps.Current(),
			CanProceed:  c.steps.CanProceed(),
			IsLastStep:  c.steps.Current() == len(c.steps.Steps())-1,
		})
	})

	c.wireBroker()
	c.wireNotifications()

	// the first comparison is available before any input
	c.comparison.Recompute()

	return c, nil
}

func (c *Calculator) wireBroker() {
	c.broker.RegisterListener(broker.ConsumerFormatting, broker.Input, func(e broker.InputEvent) error {
		display, _ := currency.MaskInput(e.Value)
		c.broker.SetSilentValue(display)
		return nil
	})
	c.broker.RegisterListener(broker.ConsumerSync, broker.Input, func(e broker.InputEvent) error {
		c.patrimonyInput.Push(e.Value)
		return nil
	})
	commit := func(e broker.InputEvent) error {
		c.patrimonyInput.Take()
		c.applyPatrimony(e.Value)
		return nil
	}
	c.broker.RegisterListener(broker.ConsumerSync, broker.Change, commit)
	c.broker.RegisterListener(broker.ConsumerSync, broker.Blur, commit)
}

func (c *Calculator) wireNotifications() {
	warn := func(e events.Event) {
		switch d := e.Data.(type) {
		case events.AllocationClampedData:
			c.warnings = append(c.warnings, d.Message)
		case events.PatrimonyNotSetData:
			c.warnings = append(c.warnings, d.Message)
		}
	}
	c.bus.Subscribe(events.AllocationClamped, warn)
	c.bus.Subscribe(events.PatrimonyNotSet, warn)

	refresh := func(events.Event) { c.validation.Push(struct{}{}) }
	for _, t := range []events.EventType{
		events.AllocationStatusChanged,
		events.SelectionChanged,
		events.StepChanged,
	} {
		c.bus.Subscribe(t, refresh)
	}
}

// Subscribe exposes the session's notifications to presentation adapters.
func (c *Calculator) Subscribe(t events.EventType, h events.Handler) func() {
	return c.bus.Subscribe(t, h)
}

// begin locks the session, clears per-operation warnings and applies any
// patrimony input still waiting for its debounce window.
func (c *Calculator) begin() func() {
	unlock := c.lock()
	if v, ok := c.patrimonyInput.Take(); ok {
		c.applyPatrimony(v)
	}
	return unlock
}

func (c *Calculator) lock() func() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.warnings = nil
	return c.mu.Unlock
}

func (c *Calculator) applyPatrimony(display string) {
	c.ledger.SetTotalPatrimony(currency.Parse(display))
}

// InputPatrimony mirrors a keystroke on the patrimony field. The raw value
// goes through the input mask and reaches the ledger after the debounce
// window, or at the start of the next operation. It returns the masked
// display value.
func (c *Calculator) InputPatrimony(raw string) string {
	defer c.lock()()
	c.broker.SetValue(raw, sourceUser)
	return c.broker.GetValue()
}

// CommitPatrimony sets the patrimony immediately, as a change event would.
func (c *Calculator) CommitPatrimony(display string) {
	defer c.begin()()
	v := currency.Parse(display)
	c.broker.SetSilentValue(currency.Format(v))
	c.broker.Dispatch(broker.Change, sourceUser)
}

func (c *Calculator) DispatchInputEvent(t broker.EventType) error {
	switch t {
	case broker.Focus, broker.Blur, broker.Change:
	default:
		return fmt.Errorf("unsupported input event %q", t)
	}
	defer c.begin()()
	c.broker.Dispatch(t, sourceUser)
	return nil
}

type AllocationRequest struct {
	Key      domain.AssetKey
	Value    *decimal.Decimal
	Display  *string
	Fraction *decimal.Decimal
}

func (c *Calculator) SetAllocation(req AllocationRequest) (*ledger.WriteResult, error) {
	set := 0
	for _, ok := range []bool{req.Value != nil, req.Display != nil, req.Fraction != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, ErrInvalidAllocationRequest
	}

	defer c.begin()()
	switch {
	case req.Value != nil:
		return c.ledger.SetAllocationValue(req.Key, *req.Value)
	case req.Display != nil:
		return c.ledger.SetAllocationDisplay(req.Key, *req.Display)
	default:
		return c.ledger.SetAllocationFromSliderFraction(req.Key, *req.Fraction)
	}
}

// SetSelected toggles an asset from the catalog. It reports whether the
// selection changed.
func (c *Calculator) SetSelected(key domain.AssetKey, selected bool) (bool, error) {
	defer c.begin()()
	if _, err := c.ledger.Entry(key); err != nil {
		return false, err
	}
	return c.selection.Toggle(key, selected), nil
}

func (c *Calculator) ClearSelection() {
	defer c.begin()()
	c.selection.ClearAll()
}

func (c *Calculator) Next() stepgate.TransitionResult {
	defer c.begin()()
	return c.steps.Next()
}

func (c *Calculator) Previous() stepgate.TransitionResult {
	defer c.begin()()
	return c.steps.Previous()
}

func (c *Calculator) GoTo(index int) (stepgate.TransitionResult, error) {
	defer c.begin()()
	return c.steps.GoTo(index)
}

// Reset returns the session to its initial state.
func (c *Calculator) Reset() {
	defer c.begin()()
	c.broker.SetSilentValue("")
	c.selection.ClearAll()
	c.ledger.ResetAll()
	c.ledger.SetTotalPatrimony(decimal.Zero)
	c.steps.Reset()
	c.bus.Emit(module, events.CalculatorResetData{})
}

func (c *Calculator) Comparison() domain.FeeComparisonResult {
	defer c.begin()()
	if last := c.comparison.Last(); last != nil {
		return *last
	}
	return c.comparison.Recompute()
}

func (c *Calculator) Snapshot() domain.Snapshot {
	defer c.begin()()
	return c.snapshot()
}

func (c *Calculator) snapshot() domain.Snapshot {
	total := c.ledger.TotalPatrimony()
	allocated := c.ledger.GetTotalAllocated()
	percent := decimal.Zero
	if total.IsPositive() {
		percent = allocated.Div(total).Mul(decimal.NewFromInt(100))
	}
	return domain.Snapshot{
		TotalPatrimony:   total,
		SelectedAssets:   c.selection.Selected(),
		Allocations:      c.ledger.Entries(),
		TotalAllocated:   allocated,
		Remaining:        c.ledger.GetRemaining(),
		PercentAllocated: percent,
	}
}

// SubmissionState is what the submission pipeline reads in one turn.
type SubmissionState struct {
	Snapshot   domain.Snapshot
	Comparison domain.FeeComparisonResult
}

func (c *Calculator) SubmissionState() SubmissionState {
	defer c.begin()()
	result := c.comparison.Compare()
	return SubmissionState{
		Snapshot:   c.snapshot(),
		Comparison: result,
	}
}

// View renders the current state. Warnings are the ones raised by the
// most recent operation.
func (c *Calculator) View() (*calculator.ViewModel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.patrimonyInput.Take(); ok {
		c.applyPatrimony(v)
	}

	result := c.comparison.Last()
	if result == nil {
		r := c.comparison.Recompute()
		result = &r
	}

	vm, err := calculator.Build(calculator.Input{
		PatrimonyDisplay: c.broker.GetValue(),
		Patrimony:        c.ledger.TotalPatrimony(),
		Entries:          c.ledger.Entries(),
		Selected:         c.selection.Selected(),
		Status:           c.ledger.Status(),
		RemainingPercent: c.ledger.RemainingPercent(),
		Comparison:       result,
		Steps:            c.steps.Steps(),
		CurrentStep:      c.steps.Current(),
		CanProceed:       c.steps.CanProceed(),
		Warnings:         c.warnings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build view model: %w", err)
	}
	return vm, nil
}

func (c *Calculator) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Close stops pending timers; the calculator must not be used afterwards.
func (c *Calculator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.patrimonyInput.Stop()
	c.validation.Stop()
	c.broker.Destroy()
}

func (c *Calculator) gateState() stepgate.GateState {
	state := stepgate.GateState{
		Patrimony:      c.ledger.TotalPatrimony().InexactFloat64(),
		TotalAllocated: c.ledger.GetTotalAllocated().InexactFloat64(),
		SelectedCount:  c.selection.Count(),
	}
	for _, e := range c.ledger.Entries() {
		if e.Value.IsPositive() && c.selection.IsSelected(e.Key) {
			state.AllocatedCount++
		}
	}
	return state
}
