package api

import (
	"errors"
	"net/http"

	"reinocalc/internal/calculator"
	"reinocalc/internal/stepgate"

	"github.com/gin-gonic/gin"
)

var errMissingStepIndex = errors.New("index is required")

type stepResponse struct {
	SessionID  string                    `json:"sessionId"`
	Transition stepgate.TransitionResult `json:"transition"`
	View       *calculator.ViewModel     `json:"view"`
}

func (m ApiHandler) respondTransition(c *gin.Context, sessionID string, transition stepgate.TransitionResult, vm *calculator.ViewModel) {
	// a blocked move is a valid answer; the message tells the user why
	c.JSON(200, stepResponse{
		SessionID:  sessionID,
		Transition: transition,
		View:       vm,
	})
}

func (m ApiHandler) nextStep(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}
	transition := calc.Next()
	vm, err := calc.View()
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	m.respondTransition(c, calc.ID.String(), transition, vm)
}

func (m ApiHandler) previousStep(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}
	transition := calc.Previous()
	vm, err := calc.View()
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	m.respondTransition(c, calc.ID.String(), transition, vm)
}

type goToStepRequest struct {
	Index *int `json:"index"`
}

func (m ApiHandler) goToStep(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}

	var requestBody goToStepRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}
	if requestBody.Index == nil {
		returnErrorJsonCode(errMissingStepIndex, c, http.StatusBadRequest)
		return
	}

	transition, err := calc.GoTo(*requestBody.Index)
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}
	vm, err := calc.View()
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	m.respondTransition(c, calc.ID.String(), transition, vm)
}
