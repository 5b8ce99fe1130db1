package api

import (
	"fmt"
	"net/http"

	"reinocalc/internal/currency"
	"reinocalc/internal/feetable"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type traditionalProductResponse struct {
	Product string          `json:"product"`
	Name    string          `json:"name"`
	Min     decimal.Decimal `json:"min"`
	Max     decimal.Decimal `json:"max"`
	Average decimal.Decimal `json:"average"`
}

type traditionalCategoryResponse struct {
	Category string                       `json:"category"`
	Products []traditionalProductResponse `json:"products"`
}

func (m ApiHandler) getTraditionalFees(c *gin.Context) {
	byCategory := map[string][]traditionalProductResponse{}
	for _, r := range m.Fees.Rates() {
		byCategory[r.Key.Category] = append(byCategory[r.Key.Category], traditionalProductResponse{
			Product: r.Key.Product,
			Name:    r.Name,
			Min:     r.Min,
			Max:     r.Max,
			Average: r.Average,
		})
	}

	out := []traditionalCategoryResponse{}
	for _, category := range m.Fees.Categories() {
		out = append(out, traditionalCategoryResponse{
			Category: category,
			Products: byCategory[category],
		})
	}

	c.JSON(200, out)
}

type reinoTierResponse struct {
	Label string           `json:"label"`
	Min   decimal.Decimal  `json:"min"`
	Max   *decimal.Decimal `json:"max"`
	Rate  *decimal.Decimal `json:"rate"`
	Fixed *decimal.Decimal `json:"fixed"`
}

type reinoSimulationResponse struct {
	Tiers       []reinoTierResponse       `json:"tiers"`
	Simulations []feetable.TierSimulation `json:"simulations"`
}

// getReinoSimulation accepts repeated ?patrimony= values, formatted or
// plain; without any it uses the configured examples.
func (m ApiHandler) getReinoSimulation(c *gin.Context) {
	patrimonies := []decimal.Decimal{}
	for _, raw := range c.QueryArray("patrimony") {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			v = currency.Parse(raw)
		}
		if !v.IsPositive() {
			returnErrorJsonCode(fmt.Errorf("invalid patrimony %q", raw), c, http.StatusBadRequest)
			return
		}
		patrimonies = append(patrimonies, v)
	}

	out := reinoSimulationResponse{
		Simulations: m.Fees.Simulate(patrimonies...),
	}
	for _, t := range m.Fees.Tiers() {
		out.Tiers = append(out.Tiers, reinoTierResponse{
			Label: t.Label,
			Min:   t.Min,
			Max:   t.Max,
			Rate:  t.Rate,
			Fixed: t.Fixed,
		})
	}

	c.JSON(200, out)
}
