package api

import (
	"net/http"

	"reinocalc/internal/app"
	"reinocalc/internal/calculator"

	"github.com/gin-gonic/gin"
)

type sessionResponse struct {
	SessionID string                `json:"sessionId"`
	View      *calculator.ViewModel `json:"view"`
}

func respondView(c *gin.Context, calc *app.Calculator) {
	vm, err := calc.View()
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	c.JSON(200, sessionResponse{
		SessionID: calc.ID.String(),
		View:      vm,
	})
}

func (m ApiHandler) createSession(c *gin.Context) {
	calc, err := m.SessionService.Create()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	vm, err := calc.View()
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{
		SessionID: calc.ID.String(),
		View:      vm,
	})
}

func (m ApiHandler) getSession(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}
	respondView(c, calc)
}

func (m ApiHandler) deleteSession(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}
	m.SessionService.Delete(calc.ID)
	c.Status(http.StatusNoContent)
}

func (m ApiHandler) resetSession(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}
	calc.Reset()
	respondView(c, calc)
}
