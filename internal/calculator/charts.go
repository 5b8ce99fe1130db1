package calculator

import (
	"fmt"
	"strings"

	"reinocalc/internal/currency"
	"reinocalc/internal/domain"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

var categoryColors = map[string]string{
	"renda fixa":            "#a2883b",
	"fundo de investimento": "#e3ad0c",
	"renda variável":        "#776a41",
	"internacional":         "#bdaa6f",
	"outros":                "#c0c0c0",
}

const fallbackColor = "#c0c0c0"

func CategoryColor(category string) string {
	c, ok := categoryColors[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return fallbackColor
	}
	return c
}

type ChartSlice struct {
	Label     string          `json:"label"`
	Category  string          `json:"category"`
	Product   string          `json:"product"`
	Color     string          `json:"color"`
	Cost      decimal.Decimal `json:"cost"`
	Formatted string          `json:"formatted"`
	Allocated decimal.Decimal `json:"allocated"`
	// Share is the slice's percentage of the chart total, one decimal place.
	Share float64 `json:"share"`
}

type DonutChart struct {
	Kind           string       `json:"kind"`
	Slices         []ChartSlice `json:"slices"`
	Total          string       `json:"total"`
	LargestShare   float64      `json:"largestShare"`
	Concentration  float64      `json:"concentration"`
	EffectiveCount float64      `json:"effectiveCount"`
}

const (
	ChartTraditional = "tradicional"
	ChartReino       = "reino"
)

// BuildCostCharts splits both annual costs across the allocated products.
// The traditional slice is the product's own cost; the Reino fee is spread
// in proportion to each product's share of the patrimony.
func BuildCostCharts(result domain.FeeComparisonResult) ([]DonutChart, error) {
	traditional := []ChartSlice{}
	reino := []ChartSlice{}

	for _, item := range result.Traditional.Breakdown {
		base := ChartSlice{
			Label:     item.Key.Category + " - " + item.Key.Product,
			Category:  item.Key.Category,
			Product:   item.Key.Product,
			Color:     CategoryColor(item.Key.Category),
			Allocated: item.Value,
		}

		t := base
		t.Cost = item.AnnualCost
		if t.Cost.IsPositive() {
			traditional = append(traditional, t)
		}

		if result.TotalPatrimony.IsPositive() && result.Reino.Valid {
			r := base
			r.Cost = item.Value.Div(result.TotalPatrimony).Mul(result.ReinoAnnualCost)
			if r.Cost.IsPositive() {
				reino = append(reino, r)
			}
		}
	}

	tChart, err := donut(ChartTraditional, traditional)
	if err != nil {
		return nil, fmt.Errorf("failed to build traditional chart: %w", err)
	}
	rChart, err := donut(ChartReino, reino)
	if err != nil {
		return nil, fmt.Errorf("failed to build reino chart: %w", err)
	}
	return []DonutChart{*tChart, *rChart}, nil
}

func donut(kind string, slices []ChartSlice) (*DonutChart, error) {
	total := decimal.Zero
	for _, s := range slices {
		total = total.Add(s.Cost)
	}
	chart := &DonutChart{
		Kind:   kind,
		Slices: slices,
		Total:  currency.FormatBRL(total),
	}
	if len(slices) == 0 || !total.IsPositive() {
		return chart, nil
	}

	shares := make([]float64, 0, len(slices))
	for i := range slices {
		share := slices[i].Cost.Div(total).InexactFloat64()
		shares = append(shares, share)

		rounded, err := stats.Round(share*100, 1)
		if err != nil {
			return nil, err
		}
		slices[i].Share = rounded
		slices[i].Formatted = currency.FormatBRL(slices[i].Cost)
	}

	largest, err := stats.Max(shares)
	if err != nil {
		return nil, err
	}
	chart.LargestShare, err = stats.Round(largest*100, 1)
	if err != nil {
		return nil, err
	}

	hhi, err := herfindahl(shares)
	if err != nil {
		return nil, err
	}
	chart.Concentration, err = stats.Round(hhi, 4)
	if err != nil {
		return nil, err
	}
	if hhi > 0 {
		chart.EffectiveCount, err = stats.Round(1/hhi, 2)
		if err != nil {
			return nil, err
		}
	}
	return chart, nil
}

// herfindahl is the sum of squared shares: 1 for a single slice, 1/n for n
// equal slices.
func herfindahl(shares []float64) (float64, error) {
	squares := make([]float64, len(shares))
	for i, s := range shares {
		squares[i] = s * s
	}
	return stats.Sum(squares)
}
