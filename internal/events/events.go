package events

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type EventType string

const (
	PatrimonyChanged        EventType = "PATRIMONY_CHANGED"
	AllocationChanged       EventType = "ALLOCATION_CHANGED"
	AllocationStatusChanged EventType = "ALLOCATION_STATUS_CHANGED"
	AllocationClamped       EventType = "ALLOCATION_CLAMPED"
	PatrimonyNotSet         EventType = "PATRIMONY_NOT_SET"
	SelectionChanged        EventType = "SELECTION_CHANGED"
	ComparisonCalculated    EventType = "COMPARISON_CALCULATED"
	StepChanged             EventType = "STEP_CHANGED"
	StepValidationChanged   EventType = "STEP_VALIDATION_CHANGED"
	SubmitRequested         EventType = "SUBMIT_REQUESTED"
	CalculatorReset         EventType = "CALCULATOR_RESET"
)

// EventData is implemented by every notification payload.
type EventData interface {
	EventType() EventType
}

type Event struct {
	Type      EventType
	Module    string
	Timestamp time.Time
	Data      EventData
}

type Handler func(Event)

// Publisher is the side of the bus that components emit through.
type Publisher interface {
	Emit(module string, data EventData)
}

type subscription struct {
	id      int
	handler Handler
}

// Bus fans notifications out synchronously, in subscription order. A
// panicking handler is logged and does not stop the others.
type Bus struct {
	mu     sync.RWMutex
	subs   map[EventType][]subscription
	nextID int
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewBus(log *zap.SugaredLogger) *Bus {
	return &Bus{
		subs: map[EventType][]subscription{},
		log:  log,
		now:  time.Now,
	}
}

// Subscribe registers h for t and returns a function that removes it.
func (b *Bus) Subscribe(t EventType, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[t] = append(b.subs[t], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[t]
		for i, s := range list {
			if s.id == id {
				b.subs[t] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Emit(module string, data EventData) {
	if data == nil {
		return
	}
	event := Event{
		Type:      data.EventType(),
		Module:    module,
		Timestamp: b.now(),
		Data:      data,
	}

	b.mu.RLock()
	handlers := make([]subscription, len(b.subs[event.Type]))
	copy(handlers, b.subs[event.Type])
	b.mu.RUnlock()

	b.log.Debugw("event emitted", "type", event.Type, "module", module, "subscribers", len(handlers))

	for _, s := range handlers {
		b.deliver(s, event)
	}
}

func (b *Bus) deliver(s subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Errorw("event handler panicked", "type", event.Type, "module", event.Module, "error", fmt.Sprint(r))
		}
	}()
	s.handler(event)
}
