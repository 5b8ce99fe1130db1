package api

import (
	"net/http"

	"reinocalc/internal/app"
	"reinocalc/internal/calculator"
	"reinocalc/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type setAllocationRequest struct {
	Category string `json:"category"`
	Product  string `json:"product"`
	// exactly one of the three below
	Value    *decimal.Decimal `json:"value"`
	Display  *string          `json:"display"`
	Fraction *decimal.Decimal `json:"fraction"`
}

type writeResultResponse struct {
	AssetKey        domain.AssetKey `json:"assetKey"`
	Requested       decimal.Decimal `json:"requested"`
	Applied         decimal.Decimal `json:"applied"`
	Percentage      decimal.Decimal `json:"percentage"`
	MaxAllowed      decimal.Decimal `json:"maxAllowed"`
	Clamped         bool            `json:"clamped"`
	PatrimonyNotSet bool            `json:"patrimonyNotSet"`
	NotSelected     bool            `json:"notSelected"`
	Message         string          `json:"message,omitempty"`
}

type setAllocationResponse struct {
	SessionID string                `json:"sessionId"`
	Write     writeResultResponse   `json:"write"`
	View      *calculator.ViewModel `json:"view"`
}

func (m ApiHandler) setAllocation(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}

	var requestBody setAllocationRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	result, err := calc.SetAllocation(app.AllocationRequest{
		Key:      domain.NewAssetKey(requestBody.Category, requestBody.Product),
		Value:    requestBody.Value,
		Display:  requestBody.Display,
		Fraction: requestBody.Fraction,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	vm, err := calc.View()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, setAllocationResponse{
		SessionID: calc.ID.String(),
		Write: writeResultResponse{
			AssetKey:        result.Entry.Key,
			Requested:       result.Requested,
			Applied:         result.Entry.Value,
			Percentage:      result.Entry.Percentage,
			MaxAllowed:      result.Entry.MaxAllowed,
			Clamped:         result.Clamped,
			PatrimonyNotSet: result.PatrimonyNotSet,
			NotSelected:     result.NotSelected,
			Message:         result.Message,
		},
		View: vm,
	})
}
