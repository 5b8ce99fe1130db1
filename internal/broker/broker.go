package broker

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type EventType string

const (
	Input  EventType = "input"
	Focus  EventType = "focus"
	Blur   EventType = "blur"
	Change EventType = "change"
)

const (
	ConsumerFormatting = "currency-formatting"
	ConsumerMotion     = "motion-animation"
	ConsumerSync       = "patrimony-sync"
)

// DefaultPriority is the order input callbacks run in. Consumers not listed
// run afterwards, in registration order.
var DefaultPriority = []string{ConsumerFormatting, ConsumerMotion, ConsumerSync}

// InputEvent is what a callback receives. Value is read when the callback
// is invoked, so later consumers see rewrites made by earlier ones.
type InputEvent struct {
	Type   EventType
	Source string
	Value  string
}

type Callback func(InputEvent) error

// InputBroker owns the total-patrimony display string and serializes every
// consumer that reacts to it.
type InputBroker interface {
	RegisterListener(consumerID string, eventType EventType, cb Callback)
	UnregisterListener(consumerID string, eventType EventType)
	UnregisterModule(consumerID string)
	SetValue(display, source string)
	SetSilentValue(display string)
	Dispatch(eventType EventType, source string)
	GetValue() string
	Destroy()
}

type registration struct {
	consumerID string
	eventType  EventType
	cb         Callback
}

type queuedEvent struct {
	eventType EventType
	source    string
}

type brokerHandler struct {
	mu            sync.Mutex
	value         string
	registrations []registration
	priority      []string
	queue         []queuedEvent
	dispatching   bool
	destroyed     bool
	log           *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) InputBroker {
	return NewWithPriority(log, DefaultPriority)
}

func NewWithPriority(log *zap.SugaredLogger, priority []string) InputBroker {
	p := make([]string, len(priority))
	copy(p, priority)
	return &brokerHandler{
		priority: p,
		log:      log,
	}
}

// RegisterListener replaces any earlier callback for the same consumer and
// event type. The replacement counts as a new registration for ordering.
func (h *brokerHandler) RegisterListener(consumerID string, eventType EventType, cb Callback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return
	}
	h.removeLocked(func(r registration) bool {
		return r.consumerID == consumerID && r.eventType == eventType
	})
	h.registrations = append(h.registrations, registration{
		consumerID: consumerID,
		eventType:  eventType,
		cb:         cb,
	})
}

func (h *brokerHandler) UnregisterListener(consumerID string, eventType EventType) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(func(r registration) bool {
		return r.consumerID == consumerID && r.eventType == eventType
	})
}

func (h *brokerHandler) UnregisterModule(consumerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(func(r registration) bool {
		return r.consumerID == consumerID
	})
}

func (h *brokerHandler) removeLocked(match func(registration) bool) {
	kept := h.registrations[:0]
	for _, r := range h.registrations {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	h.registrations = kept
}

func (h *brokerHandler) SetValue(display, source string) {
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return
	}
	h.value = display
	h.mu.Unlock()

	h.enqueue(queuedEvent{eventType: Input, source: source})
}

// SetSilentValue rewrites the display string without notifying anyone.
func (h *brokerHandler) SetSilentValue(display string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return
	}
	h.value = display
}

func (h *brokerHandler) Dispatch(eventType EventType, source string) {
	h.enqueue(queuedEvent{eventType: eventType, source: source})
}

func (h *brokerHandler) GetValue() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

func (h *brokerHandler) Destroy() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destroyed = true
	h.registrations = nil
	h.queue = nil
	h.value = ""
}

// enqueue appends to the FIFO queue. Whoever finds the broker idle drains
// it; events raised by callbacks wait for the current dispatch to finish.
func (h *brokerHandler) enqueue(ev queuedEvent) {
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return
	}
	h.queue = append(h.queue, ev)
	if h.dispatching {
		h.mu.Unlock()
		return
	}
	h.dispatching = true
	h.mu.Unlock()

	h.drain()
}

func (h *brokerHandler) drain() {
	for {
		h.mu.Lock()
		if h.destroyed || len(h.queue) == 0 {
			h.dispatching = false
			h.mu.Unlock()
			return
		}
		ev := h.queue[0]
		h.queue = h.queue[1:]
		callbacks := h.orderedLocked(ev.eventType)
		h.mu.Unlock()

		for _, r := range callbacks {
			h.invoke(r, ev)
		}
	}
}

func (h *brokerHandler) orderedLocked(eventType EventType) []registration {
	matching := []registration{}
	for _, r := range h.registrations {
		if r.eventType == eventType {
			matching = append(matching, r)
		}
	}
	if eventType != Input {
		return matching
	}

	out := make([]registration, 0, len(matching))
	prioritized := map[string]bool{}
	for _, id := range h.priority {
		prioritized[id] = true
		for _, r := range matching {
			if r.consumerID == id {
				out = append(out, r)
			}
		}
	}
	for _, r := range matching {
		if !prioritized[r.consumerID] {
			out = append(out, r)
		}
	}
	return out
}

func (h *brokerHandler) invoke(r registration, ev queuedEvent) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Errorw("input listener panicked",
				"consumer", r.consumerID,
				"eventType", ev.eventType,
				"error", fmt.Sprint(rec),
			)
		}
	}()

	err := r.cb(InputEvent{
		Type:   ev.eventType,
		Source: ev.source,
		Value:  h.GetValue(),
	})
	if err != nil {
		h.log.Errorw("input listener failed",
			"consumer", r.consumerID,
			"eventType", ev.eventType,
			"source", ev.source,
			"error", err,
		)
	}
}
