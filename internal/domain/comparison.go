package domain

import "github.com/shopspring/decimal"

type TraditionalBreakdownItem struct {
	Key         AssetKey        `json:"assetKey"`
	Value       decimal.Decimal `json:"value"`
	RatePercent decimal.Decimal `json:"ratePercent"`
	AnnualCost  decimal.Decimal `json:"annualCost"`
	MinCost     decimal.Decimal `json:"minCost"`
	MaxCost     decimal.Decimal `json:"maxCost"`
}

type TraditionalCost struct {
	Annual    decimal.Decimal            `json:"annual"`
	Min       decimal.Decimal            `json:"min"`
	Max       decimal.Decimal            `json:"max"`
	Breakdown []TraditionalBreakdownItem `json:"breakdown"`
	Misses    []AssetKey                 `json:"misses"`
}

type ReinoCost struct {
	Valid        bool             `json:"valid"`
	AnnualCost   decimal.Decimal  `json:"annualCost"`
	MonthlyCost  decimal.Decimal  `json:"monthlyCost"`
	RatePercent  *decimal.Decimal `json:"ratePercent"`
	FixedAmount  *decimal.Decimal `json:"fixedAmount"`
	BracketLabel string           `json:"bracketLabel"`
	Description  string           `json:"description"`
}

type FeeComparisonResult struct {
	TraditionalAnnualCost decimal.Decimal `json:"traditionalAnnualCost"`
	ReinoAnnualCost       decimal.Decimal `json:"reinoAnnualCost"`
	SavingsAbsolute       decimal.Decimal `json:"savingsAbsolute"`
	SavingsPercent        decimal.Decimal `json:"savingsPercent"`
	IsReinoCheaper        bool            `json:"isReinoCheaper"`

	TotalPatrimony         decimal.Decimal `json:"totalPatrimony"`
	Traditional            TraditionalCost `json:"traditional"`
	Reino                  ReinoCost       `json:"reino"`
	TraditionalMonthlyCost decimal.Decimal `json:"traditionalMonthlyCost"`
	Verdict                string          `json:"verdict"`
}
