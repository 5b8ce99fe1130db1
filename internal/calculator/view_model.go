package calculator

import (
	"fmt"

	"reinocalc/internal/currency"
	"reinocalc/internal/domain"
	"reinocalc/internal/stepgate"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type AllocationRow struct {
	Key        domain.AssetKey `json:"assetKey"`
	Selected   bool            `json:"selected"`
	Value      decimal.Decimal `json:"value"`
	Display    string          `json:"display"`
	Percentage string          `json:"percentage"`
	MaxAllowed string          `json:"maxAllowed"`
	// BarWidth is the percentage capped at 100, for the row background bar.
	BarWidth float64 `json:"barWidth"`
	IsValid  bool    `json:"isValid"`
}

type StatusView struct {
	domain.AllocationStatus
	TotalDisplay     string `json:"totalDisplay"`
	RemainingDisplay string `json:"remainingDisplay"`
	RemainingPercent string `json:"remainingPercent"`
}

type ComparisonView struct {
	Result             domain.FeeComparisonResult `json:"result"`
	TraditionalAnnual  string                     `json:"traditionalAnnual"`
	TraditionalMonthly string                     `json:"traditionalMonthly"`
	TraditionalRange   string                     `json:"traditionalRange"`
	ReinoAnnual        string                     `json:"reinoAnnual"`
	ReinoMonthly       string                     `json:"reinoMonthly"`
	ReinoDescription   string                     `json:"reinoDescription"`
	SavingsAbsolute    string                     `json:"savingsAbsolute"`
	SavingsPercent     string                     `json:"savingsPercent"`
	Verdict            string                     `json:"verdict"`
	Charts             []DonutChart               `json:"charts"`
}

type StepSummary struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
	Done   bool   `json:"done"`
}

type StepView struct {
	Current    int           `json:"current"`
	Name       string        `json:"name"`
	CanProceed bool          `json:"canProceed"`
	IsLast     bool          `json:"isLast"`
	Steps      []StepSummary `json:"steps"`
}

type ViewModel struct {
	PatrimonyDisplay string            `json:"patrimonyDisplay"`
	Patrimony        decimal.Decimal   `json:"patrimony"`
	Rows             []AllocationRow   `json:"rows"`
	SelectedAssets   []domain.AssetKey `json:"selectedAssets"`
	Status           StatusView        `json:"status"`
	Comparison       *ComparisonView   `json:"comparison"`
	Step             StepView          `json:"step"`
	Warnings         []string          `json:"warnings"`
}

type Input struct {
	PatrimonyDisplay string
	Patrimony        decimal.Decimal
	Entries          []domain.AllocationEntry
	Selected         []domain.AssetKey
	Status           domain.AllocationStatus
	RemainingPercent decimal.Decimal
	Comparison       *domain.FeeComparisonResult
	Steps            []stepgate.Step
	CurrentStep      int
	CanProceed       bool
	Warnings         []string
}

// Build derives the display state from the engine's current state. Only
// selected assets get a row.
func Build(in Input) (*ViewModel, error) {
	selected := map[string]bool{}
	for _, k := range in.Selected {
		selected[k.Normalized()] = true
	}

	rows := []AllocationRow{}
	for _, e := range in.Entries {
		if !selected[e.Key.Normalized()] {
			continue
		}
		rows = append(rows, AllocationRow{
			Key:        e.Key,
			Selected:   true,
			Value:      e.Value,
			Display:    currency.FormatBRL(e.Value),
			Percentage: currency.FormatPercent(e.Percentage, 1),
			MaxAllowed: currency.FormatBRL(e.MaxAllowed),
			BarWidth:   decimal.Min(e.Percentage, hundred).Round(2).InexactFloat64(),
			IsValid:    e.IsValid(),
		})
	}

	warnings := in.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	vm := &ViewModel{
		PatrimonyDisplay: in.PatrimonyDisplay,
		Patrimony:        in.Patrimony,
		Rows:             rows,
		SelectedAssets:   in.Selected,
		Status: StatusView{
			AllocationStatus: in.Status,
			TotalDisplay:     currency.FormatBRL(in.Status.Total),
			RemainingDisplay: currency.FormatBRL(in.Status.Remaining),
			RemainingPercent: currency.FormatPercent(in.RemainingPercent, 1),
		},
		Step:     buildStepView(in.Steps, in.CurrentStep, in.CanProceed),
		Warnings: warnings,
	}
	if vm.SelectedAssets == nil {
		vm.SelectedAssets = []domain.AssetKey{}
	}

	if in.Comparison != nil {
		cv, err := BuildComparisonView(*in.Comparison)
		if err != nil {
			return nil, fmt.Errorf("failed to build comparison view: %w", err)
		}
		vm.Comparison = cv
	}

	return vm, nil
}

func BuildComparisonView(result domain.FeeComparisonResult) (*ComparisonView, error) {
	charts, err := BuildCostCharts(result)
	if err != nil {
		return nil, err
	}
	return &ComparisonView{
		Result:             result,
		TraditionalAnnual:  currency.FormatBRL(result.TraditionalAnnualCost),
		TraditionalMonthly: currency.FormatBRL(result.TraditionalMonthlyCost),
		TraditionalRange:   currency.FormatBRL(result.Traditional.Min) + " - " + currency.FormatBRL(result.Traditional.Max),
		ReinoAnnual:        currency.FormatBRL(result.ReinoAnnualCost),
		ReinoMonthly:       currency.FormatBRL(result.Reino.MonthlyCost),
		ReinoDescription:   result.Reino.Description,
		SavingsAbsolute:    currency.FormatBRL(result.SavingsAbsolute.Abs()),
		SavingsPercent:     currency.FormatPercent(result.SavingsPercent, 1),
		Verdict:            result.Verdict,
		Charts:             charts,
	}, nil
}

func buildStepView(steps []stepgate.Step, current int, canProceed bool) StepView {
	view := StepView{
		Current:    current,
		CanProceed: canProceed,
		IsLast:     current == len(steps)-1,
		Steps:      []StepSummary{},
	}
	for i, s := range steps {
		if i == current {
			view.Name = s.Name
		}
		view.Steps = append(view.Steps, StepSummary{
			Index:  i,
			Name:   s.Name,
			Title:  s.Title,
			Active: i == current,
			Done:   i < current,
		})
	}
	return view
}
