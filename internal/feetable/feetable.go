package feetable

import (
	_ "embed"
	"fmt"
	"strings"

	"reinocalc/internal/currency"
	"reinocalc/internal/domain"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed fees.yaml
var defaultFees []byte

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

type TraditionalRate struct {
	Key     domain.AssetKey
	Name    string
	Min     decimal.Decimal
	Max     decimal.Decimal
	Average decimal.Decimal
}

type ReinoTier struct {
	Label string
	Min   decimal.Decimal
	// nil on the open-ended top tier
	Max *decimal.Decimal
	// exactly one of Rate and Fixed is set
	Rate  *decimal.Decimal
	Fixed *decimal.Decimal
}

func (t ReinoTier) Contains(total decimal.Decimal) bool {
	if total.LessThan(t.Min) {
		return false
	}
	return t.Max == nil || total.LessThan(*t.Max)
}

type Tables struct {
	traditional []TraditionalRate
	index       map[string]TraditionalRate
	categories  []string
	tiers       []ReinoTier
	samples     []decimal.Decimal
}

type yamlProduct struct {
	Product string  `yaml:"product"`
	Name    string  `yaml:"name"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Average float64 `yaml:"average"`
}

type yamlCategory struct {
	Category string        `yaml:"category"`
	Products []yamlProduct `yaml:"products"`
}

type yamlTier struct {
	Label string   `yaml:"label"`
	Min   float64  `yaml:"min"`
	Max   *float64 `yaml:"max"`
	Rate  *float64 `yaml:"rate"`
	Fixed *float64 `yaml:"fixed"`
}

type yamlFees struct {
	Traditional []yamlCategory `yaml:"traditional"`
	Reino       []yamlTier     `yaml:"reino"`
	Simulation  []float64      `yaml:"simulation"`
}

// Load returns the tables compiled into the binary.
func Load() (*Tables, error) {
	return Parse(defaultFees)
}

// MustLoad panics if the embedded tables are invalid.
func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

func Parse(data []byte) (*Tables, error) {
	raw := yamlFees{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse fee tables: %w", err)
	}

	t := &Tables{
		index: map[string]TraditionalRate{},
	}
	for _, c := range raw.Traditional {
		t.categories = append(t.categories, c.Category)
		for _, p := range c.Products {
			rate := TraditionalRate{
				Key:     domain.NewAssetKey(c.Category, p.Product),
				Name:    p.Name,
				Min:     decimal.NewFromFloat(p.Min),
				Max:     decimal.NewFromFloat(p.Max),
				Average: decimal.NewFromFloat(p.Average),
			}
			if rate.Min.GreaterThan(rate.Max) {
				return nil, fmt.Errorf("invalid traditional rate for %s: min > max", rate.Key)
			}
			if _, ok := t.index[rate.Key.Normalized()]; ok {
				return nil, fmt.Errorf("duplicate traditional rate for %s", rate.Key)
			}
			t.traditional = append(t.traditional, rate)
			t.index[rate.Key.Normalized()] = rate
		}
	}

	for i, rt := range raw.Reino {
		if (rt.Rate == nil) == (rt.Fixed == nil) {
			return nil, fmt.Errorf("reino tier %q must set exactly one of rate and fixed", rt.Label)
		}
		tier := ReinoTier{
			Label: rt.Label,
			Min:   decimal.NewFromFloat(rt.Min),
			Max:   decimalPtr(rt.Max),
			Rate:  decimalPtr(rt.Rate),
			Fixed: decimalPtr(rt.Fixed),
		}
		if tier.Max != nil && !tier.Max.GreaterThan(tier.Min) {
			return nil, fmt.Errorf("reino tier %q has max <= min", rt.Label)
		}
		if i > 0 {
			prev := t.tiers[i-1]
			if prev.Max == nil || !prev.Max.Equal(tier.Min) {
				return nil, fmt.Errorf("reino tier %q does not start where the previous tier ends", rt.Label)
			}
		}
		t.tiers = append(t.tiers, tier)
	}
	if len(t.tiers) == 0 {
		return nil, fmt.Errorf("no reino tiers configured")
	}

	for _, s := range raw.Simulation {
		t.samples = append(t.samples, decimal.NewFromFloat(s))
	}

	return t, nil
}

func decimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

// Lookup resolves a (category, product) pair case- and whitespace-insensitively.
func (t *Tables) Lookup(key domain.AssetKey) (*TraditionalRate, bool) {
	rate, ok := t.index[key.Normalized()]
	if !ok {
		return nil, false
	}
	return &rate, true
}

// Catalog lists every known asset in table order.
func (t *Tables) Catalog() []domain.AssetKey {
	out := make([]domain.AssetKey, 0, len(t.traditional))
	for _, r := range t.traditional {
		out = append(out, r.Key)
	}
	return out
}

func (t *Tables) Rates() []TraditionalRate {
	out := make([]TraditionalRate, len(t.traditional))
	copy(out, t.traditional)
	return out
}

func (t *Tables) Categories() []string {
	out := make([]string, len(t.categories))
	copy(out, t.categories)
	return out
}

func (t *Tables) Products(category string) []string {
	out := []string{}
	for _, r := range t.traditional {
		if strings.EqualFold(r.Key.Category, strings.TrimSpace(category)) {
			out = append(out, r.Key.Product)
		}
	}
	return out
}

func (t *Tables) Tiers() []ReinoTier {
	out := make([]ReinoTier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

// ReinoFee computes the tiered advisory fee for the whole patrimony. A
// non-positive patrimony has no tier and costs nothing.
func (t *Tables) ReinoFee(total decimal.Decimal) domain.ReinoCost {
	if !total.IsPositive() {
		return domain.ReinoCost{
			AnnualCost:  decimal.Zero,
			MonthlyCost: decimal.Zero,
			Description: "Patrimônio inválido",
		}
	}

	for _, tier := range t.tiers {
		if !tier.Contains(total) {
			continue
		}
		out := domain.ReinoCost{
			Valid:        true,
			BracketLabel: tier.Label,
		}
		if tier.Fixed != nil {
			fixed := *tier.Fixed
			out.AnnualCost = fixed
			out.FixedAmount = &fixed
			out.Description = fmt.Sprintf("Faixa %s: %s/ano (valor fixo)", tier.Label, currency.FormatBRL(fixed))
		} else {
			rate := *tier.Rate
			out.AnnualCost = total.Mul(rate).Div(hundred)
			out.RatePercent = &rate
			out.Description = fmt.Sprintf("Faixa %s: %s a.a.", tier.Label, currency.FormatPercent(rate, 2))
		}
		out.MonthlyCost = out.AnnualCost.Div(twelve)
		return out
	}

	return domain.ReinoCost{
		AnnualCost:  decimal.Zero,
		MonthlyCost: decimal.Zero,
		Description: "Faixa não encontrada",
	}
}

type TierSimulation struct {
	Patrimony    decimal.Decimal `csv:"patrimony" json:"patrimony"`
	BracketLabel string          `csv:"bracket" json:"bracketLabel"`
	AnnualCost   decimal.Decimal `csv:"annual_cost" json:"annualCost"`
	MonthlyCost  decimal.Decimal `csv:"monthly_cost" json:"monthlyCost"`
	Description  string          `csv:"description" json:"description"`
}

// Simulate evaluates ReinoFee over the given patrimonies, or over the
// configured sample values when none are given.
func (t *Tables) Simulate(patrimonies ...decimal.Decimal) []TierSimulation {
	if len(patrimonies) == 0 {
		patrimonies = t.samples
	}
	out := make([]TierSimulation, 0, len(patrimonies))
	for _, p := range patrimonies {
		fee := t.ReinoFee(p)
		out = append(out, TierSimulation{
			Patrimony:    p,
			BracketLabel: fee.BracketLabel,
			AnnualCost:   fee.AnnualCost.Round(2),
			MonthlyCost:  fee.MonthlyCost.Round(2),
			Description:  fee.Description,
		})
	}
	return out
}
