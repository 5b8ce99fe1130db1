package api

import (
	"reinocalc/internal/calculator"

	"github.com/gin-gonic/gin"
)

type comparisonResponse struct {
	SessionID  string                     `json:"sessionId"`
	Comparison *calculator.ComparisonView `json:"comparison"`
}

func (m ApiHandler) getComparison(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}

	view, err := calculator.BuildComparisonView(calc.Comparison())
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, comparisonResponse{
		SessionID:  calc.ID.String(),
		Comparison: view,
	})
}
