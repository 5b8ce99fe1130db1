package selection

import (
	"errors"

	"reinocalc/internal/domain"
	"reinocalc/internal/events"
	"reinocalc/internal/ledger"

	"go.uber.org/zap"
)

const module = "selection"

// Resetter zeroes an allocation when its asset is deselected.
type Resetter interface {
	ResetEntry(key domain.AssetKey) error
}

type AssetSelection interface {
	Select(key domain.AssetKey) bool
	Deselect(key domain.AssetKey) bool
	Toggle(key domain.AssetKey, checked bool) bool
	IsSelected(key domain.AssetKey) bool
	Selected() []domain.AssetKey
	Count() int
	ClearAll()
}

type selectionHandler struct {
	order    []string
	selected map[string]domain.AssetKey

	resetter  Resetter
	publisher events.Publisher
	log       *zap.SugaredLogger
}

func New(resetter Resetter, publisher events.Publisher, log *zap.SugaredLogger) AssetSelection {
	return &selectionHandler{
		selected:  map[string]domain.AssetKey{},
		resetter:  resetter,
		publisher: publisher,
		log:       log,
	}
}

// Select reports whether the set changed.
func (h *selectionHandler) Select(key domain.AssetKey) bool {
	k := key.Normalized()
	if _, ok := h.selected[k]; ok {
		return false
	}
	h.selected[k] = key
	h.order = append(h.order, k)
	h.notify()
	return true
}

// Deselect removes key and zeroes its allocation. It reports whether the
// set changed.
func (h *selectionHandler) Deselect(key domain.AssetKey) bool {
	if !h.remove(key) {
		return false
	}
	h.notify()
	return true
}

func (h *selectionHandler) Toggle(key domain.AssetKey, checked bool) bool {
	if checked {
		return h.Select(key)
	}
	return h.Deselect(key)
}

func (h *selectionHandler) IsSelected(key domain.AssetKey) bool {
	_, ok := h.selected[key.Normalized()]
	return ok
}

func (h *selectionHandler) Selected() []domain.AssetKey {
	out := make([]domain.AssetKey, 0, len(h.order))
	for _, k := range h.order {
		out = append(out, h.selected[k])
	}
	return out
}

func (h *selectionHandler) Count() int {
	return len(h.order)
}

func (h *selectionHandler) ClearAll() {
	if len(h.order) == 0 {
		return
	}
	for _, key := range h.Selected() {
		h.remove(key)
	}
	h.notify()
}

func (h *selectionHandler) remove(key domain.AssetKey) bool {
	k := key.Normalized()
	if _, ok := h.selected[k]; !ok {
		return false
	}
	delete(h.selected, k)
	for i, o := range h.order {
		if o == k {
			h.order = append(h.order[:i:i], h.order[i+1:]...)
			break
		}
	}

	if h.resetter != nil {
		err := h.resetter.ResetEntry(key)
		if err != nil && !errors.Is(err, ledger.ErrUnknownAsset) {
			h.log.Errorw("failed to reset deselected allocation", "asset", key.String(), "error", err)
		}
	}
	return true
}

func (h *selectionHandler) notify() {
	if h.publisher == nil {
		return
	}
	h.publisher.Emit(module, events.SelectionChangedData{SelectedAssets: h.Selected()})
}
