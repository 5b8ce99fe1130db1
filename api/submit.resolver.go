package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"reinocalc/internal/domain"
	"reinocalc/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type submitRequest struct {
	PageURL    string `json:"pageUrl"`
	Name       string `json:"nome"`
	Email      string `json:"email"`
	Phone      string `json:"telefone"`
	UseTypebot *bool  `json:"useTypebot"`
}

type submitResponse struct {
	SubmissionID     string                     `json:"submissionId"`
	SessionID        string                     `json:"sessionId"`
	SubmissionType   string                     `json:"submissionType"`
	TypebotSessionID *string                    `json:"typebotSessionId"`
	Comparison       domain.FeeComparisonResult `json:"comparison"`
}

type validationErrorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors"`
}

func (m ApiHandler) submit(c *gin.Context) {
	calc, ok := m.calculator(c)
	if !ok {
		return
	}
	claims, ok := m.submitter(c)
	if !ok {
		return
	}

	var requestBody submitRequest
	// the body is optional
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&requestBody); err != nil {
			returnErrorJsonCode(err, c, http.StatusBadRequest)
			return
		}
	}

	req := service.SubmissionRequest{
		UserAgent:  c.Request.UserAgent(),
		PageURL:    requestBody.PageURL,
		Name:       requestBody.Name,
		Email:      requestBody.Email,
		Phone:      requestBody.Phone,
		UseTypebot: m.TypebotEnabled,
	}
	if requestBody.UseTypebot != nil {
		req.UseTypebot = m.TypebotEnabled && *requestBody.UseTypebot
	}
	if claims != nil {
		req.UserID = &claims.Subject
		if claims.Email != "" {
			req.UserEmail = &claims.Email
			if req.Email == "" {
				req.Email = claims.Email
			}
		}
	}

	result, err := m.SubmissionService.Submit(c.Request.Context(), calc, req)
	validationErr := service.ValidationError{}
	if errors.As(err, &validationErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, validationErrorResponse{
			Error:  validationErr.Error(),
			Errors: validationErr.Errors,
		})
		return
	} else if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(http.StatusCreated, submitResponse{
		SubmissionID:     result.Submission.SubmissionID.String(),
		SessionID:        calc.ID.String(),
		SubmissionType:   result.Submission.SubmissionType,
		TypebotSessionID: result.TypebotSessionID,
		Comparison:       result.Comparison,
	})
}

type completeTypebotResponse struct {
	SubmissionID   string `json:"submissionId"`
	SubmissionType string `json:"submissionType"`
	CompletedAt    string `json:"completedAt"`
}

func (m ApiHandler) completeTypebot(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid submission id: %w", err), c, http.StatusBadRequest)
		return
	}

	results, err := c.GetRawData()
	if err != nil {
		returnErrorJsonCode(err, c, http.StatusBadRequest)
		return
	}

	out, err := m.SubmissionService.CompleteTypebot(c.Request.Context(), submissionID, json.RawMessage(results))
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	response := completeTypebotResponse{
		SubmissionID:   out.SubmissionID.String(),
		SubmissionType: out.SubmissionType,
	}
	if out.CompletedAt != nil {
		response.CompletedAt = out.CompletedAt.UTC().Format(time.RFC3339)
	}
	c.JSON(200, response)
}
