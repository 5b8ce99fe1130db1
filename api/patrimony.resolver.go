package api

import (
	"fmt"
	"net/http"

	"reinocalc/internal/broker"

	"github.com/gin-gonic/gin"
)

const (
	patrimonyModeInput  = "input"
	patrimonyModeChange = "change"
)

type setPatrimonyRequest struct {
	Value string `json:"value"`
	// input: raw keystrokes, masked and debounced. change: a formatted
	// value applied immediately.
	Mode string `json:"mode"`
}

type setPatrimonyPendingResponse struct {
	SessionID string `json:"sessionId"`
	Display   string `json:"display"`
	Pending   bool   `json:"pending"`
}

func (m ApiHandler) setPatrimony(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}

	var requestBody setPatrimonyRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	switch requestBody.Mode {
	case patrimonyModeInput:
		display := calc.InputPatrimony(requestBody.Value)
		c.JSON(http.StatusAccepted, setPatrimonyPendingResponse{
			SessionID: calc.ID.String(),
			Display:   display,
			Pending:   true,
		})
	case patrimonyModeChange, "":
		calc.CommitPatrimony(requestBody.Value)
		respondView(c, calc)
	default:
		returnErrorJsonCode(fmt.Errorf("unknown patrimony mode %q", requestBody.Mode), c, http.StatusBadRequest)
	}
}

type inputEventRequest struct {
	Type string `json:"type"`
}

func (m ApiHandler) dispatchInputEvent(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}

	var requestBody inputEventRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	err := calc.DispatchInputEvent(broker.EventType(requestBody.Type))
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}
	respondView(c, calc)
}
