package stepgate

import (
	"fmt"

	"reinocalc/internal/events"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const module = "stepgate"

type Outcome string

const (
	OutcomeMoved   Outcome = "moved"
	OutcomeBlocked Outcome = "blocked"
	OutcomeSubmit  Outcome = "submit"
	OutcomeNoop    Outcome = "noop"
)

// StateSource supplies the read-only state validators look at.
type StateSource interface {
	GateState() GateState
}

type StateSourceFunc func() GateState

func (f StateSourceFunc) GateState() GateState { return f() }

// OutcomeCounter is satisfied by *prometheus.CounterVec.
type OutcomeCounter interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

type TransitionResult struct {
	Outcome    Outcome `json:"outcome"`
	From       int     `json:"from"`
	To         int     `json:"to"`
	StepName   string  `json:"stepName"`
	Message    string  `json:"message,omitempty"`
	CanProceed bool    `json:"canProceed"`
}

type Controller interface {
	Next() TransitionResult
	Previous() TransitionResult
	GoTo(index int) (TransitionResult, error)
	CanProceed() bool
	Current() int
	CurrentStep() Step
	Steps() []Step
	Reset()
}

type controllerHandler struct {
	steps     []Step
	current   int
	source    StateSource
	publisher events.Publisher
	counter   OutcomeCounter
	log       *zap.SugaredLogger
}

func New(steps []Step, source StateSource, publisher events.Publisher, counter OutcomeCounter, log *zap.SugaredLogger) (Controller, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("step controller needs at least one step")
	}
	s := make([]Step, len(steps))
	copy(s, steps)
	return &controllerHandler{
		steps:     s,
		source:    source,
		publisher: publisher,
		counter:   counter,
		log:       log,
	}, nil
}

func (h *controllerHandler) Next() TransitionResult {
	if h.current == len(h.steps)-1 {
		res := h.result(OutcomeSubmit, h.current, h.current, "")
		h.emit(events.SubmitRequestedData{Step: h.current})
		h.observe(res.Outcome)
		return res
	}

	if !h.stepPasses(h.current) {
		res := h.result(OutcomeBlocked, h.current, h.current, h.steps[h.current].Message)
		h.observe(res.Outcome)
		return res
	}

	return h.move(h.current + 1)
}

func (h *controllerHandler) Previous() TransitionResult {
	if h.current == 0 {
		res := h.result(OutcomeNoop, 0, 0, "")
		h.observe(res.Outcome)
		return res
	}
	return h.move(h.current - 1)
}

// GoTo moves backwards unconditionally. Moving forward requires every step
// from the current one up to the one before index to pass, in order; the
// first failing step's message is returned.
func (h *controllerHandler) GoTo(index int) (TransitionResult, error) {
	if index < 0 || index >= len(h.steps) {
		return TransitionResult{}, fmt.Errorf("step index %d out of range [0, %d)", index, len(h.steps))
	}
	if index == h.current {
		res := h.result(OutcomeNoop, h.current, h.current, "")
		h.observe(res.Outcome)
		return res, nil
	}
	if index < h.current {
		return h.move(index), nil
	}

	for i := h.current; i < index; i++ {
		if !h.stepPasses(i) {
			res := h.result(OutcomeBlocked, h.current, h.current, h.steps[i].Message)
			h.observe(res.Outcome)
			return res, nil
		}
	}
	return h.move(index), nil
}

func (h *controllerHandler) CanProceed() bool {
	return h.stepPasses(h.current)
}

func (h *controllerHandler) Current() int {
	return h.current
}

func (h *controllerHandler) CurrentStep() Step {
	return h.steps[h.current]
}

func (h *controllerHandler) Steps() []Step {
	out := make([]Step, len(h.steps))
	copy(out, h.steps)
	return out
}

func (h *controllerHandler) Reset() {
	if h.current == 0 {
		return
	}
	h.move(0)
}

func (h *controllerHandler) move(to int) TransitionResult {
	from := h.current
	h.current = to
	res := h.result(OutcomeMoved, from, to, "")
	h.emit(events.StepChangedData{
		PreviousStep: from,
		CurrentStep:  to,
		StepName:     h.steps[to].Name,
		CanProceed:   res.CanProceed,
	})
	h.observe(res.Outcome)
	return res
}

func (h *controllerHandler) result(outcome Outcome, from, to int, message string) TransitionResult {
	return TransitionResult{
		Outcome:    outcome,
		From:       from,
		To:         to,
		StepName:   h.steps[to].Name,
		Message:    message,
		CanProceed: h.stepPasses(to),
	}
}

func (h *controllerHandler) stepPasses(i int) bool {
	state := GateState{}
	if h.source != nil {
		state = h.source.GateState()
	}
	ok, err := h.steps[i].validate(state)
	if err != nil {
		h.log.Errorw("step validator failed", "step", h.steps[i].Name, "error", err)
		return false
	}
	return ok
}

func (h *controllerHandler) emit(data events.EventData) {
	if h.publisher != nil {
		h.publisher.Emit(module, data)
	}
}

func (h *controllerHandler) observe(outcome Outcome) {
	if h.counter != nil {
		h.counter.WithLabelValues(string(outcome)).Inc()
	}
}
