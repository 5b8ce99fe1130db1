package domain

import "github.com/shopspring/decimal"

// AllocationEpsilon is the tolerance used when comparing money totals.
var AllocationEpsilon = decimal.NewFromFloat(0.01)

type AllocationEntry struct {
	Key        AssetKey        `json:"assetKey"`
	Value      decimal.Decimal `json:"value"`
	Percentage decimal.Decimal `json:"percentage"`
	MaxAllowed decimal.Decimal `json:"maxAllowed"`
}

func (e AllocationEntry) IsValid() bool {
	return e.Value.LessThanOrEqual(e.MaxAllowed)
}

type AllocationStatus struct {
	Total            decimal.Decimal `json:"total"`
	MainValue        decimal.Decimal `json:"mainValue"`
	Remaining        decimal.Decimal `json:"remaining"`
	IsOverAllocated  bool            `json:"isOverAllocated"`
	IsFullyAllocated bool            `json:"isFullyAllocated"`
}

// Snapshot is the read-only view handed to the submission pipeline.
type Snapshot struct {
	TotalPatrimony   decimal.Decimal   `json:"totalPatrimony"`
	SelectedAssets   []AssetKey        `json:"selectedAssets"`
	Allocations      []AllocationEntry `json:"allocations"`
	TotalAllocated   decimal.Decimal   `json:"totalAllocated"`
	Remaining        decimal.Decimal   `json:"remaining"`
	PercentAllocated decimal.Decimal   `json:"percentAllocated"`
}

// NonZeroAllocations returns the entries holding a positive value.
func (s Snapshot) NonZeroAllocations() []AllocationEntry {
	out := []AllocationEntry{}
	for _, e := range s.Allocations {
		if e.Value.IsPositive() {
			out = append(out, e)
		}
	}
	return out
}
