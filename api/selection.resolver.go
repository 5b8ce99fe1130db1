package api

import (
	"net/http"

	"reinocalc/internal/domain"

	"github.com/gin-gonic/gin"
)

type setSelectionRequest struct {
	Category string `json:"category"`
	Product  string `json:"product"`
	Selected bool   `json:"selected"`
}

func (m ApiHandler) setSelection(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}

	var requestBody setSelectionRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	_, err := calc.SetSelected(domain.NewAssetKey(requestBody.Category, requestBody.Product), requestBody.Selected)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	respondView(c, calc)
}

func (m ApiHandler) clearSelection(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}
	calc.ClearSelection()
	respondView(c, calc)
}
