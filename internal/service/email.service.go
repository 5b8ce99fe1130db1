package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"reinocalc/internal/currency"
	"reinocalc/internal/db/models/postgres/public/model"
	"reinocalc/internal/domain"
	"reinocalc/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EmailService renders and sends the lead notification that goes to the
// advisory team whenever a calculator submission is stored.
type EmailService interface {
	// SendLeadNotification renders the notification for a stored
	// submission and sends it to the given address.
	SendLeadNotification(
		ctx context.Context,
		to string,
		submission model.CalculatorSubmission,
		snapshot domain.Snapshot,
		result domain.FeeComparisonResult,
	) error

	// GenerateLeadNotificationEmail returns the subject and HTML body
	// without sending anything.
	GenerateLeadNotificationEmail(
		submission model.CalculatorSubmission,
		snapshot domain.Snapshot,
		result domain.FeeComparisonResult,
	) (string, string, error)
}

type emailServiceHandler struct {
	EmailRepository repository.EmailRepository
	log             *zap.SugaredLogger
}

func NewEmailService(
	emailRepository repository.EmailRepository,
	log *zap.SugaredLogger,
) EmailService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &emailServiceHandler{
		EmailRepository: emailRepository,
		log:             log,
	}
}

func (h *emailServiceHandler) SendLeadNotification(
	ctx context.Context,
	to string,
	submission model.CalculatorSubmission,
	snapshot domain.Snapshot,
	result domain.FeeComparisonResult,
) error {
	subject, body, err := h.GenerateLeadNotificationEmail(submission, snapshot, result)
	if err != nil {
		return err
	}

	messageID, err := h.EmailRepository.SendEmail(ctx, to, subject, body)
	if err != nil {
		return fmt.Errorf("failed to send lead notification: %w", err)
	}
	h.log.Infow("lead notification sent",
		"submissionID", submission.SubmissionID.String(),
		"messageID", messageID,
	)

	return nil
}

type leadEmailRow struct {
	Category   string
	Product    string
	Value      string
	Percentage string
}

type leadEmailData struct {
	SubmissionID    string
	SessionID       string
	SubmittedAt     string
	Patrimony       string
	TotalAllocated  string
	Remaining       string
	Percent         string
	Rows            []leadEmailRow
	Traditional     string
	Reino           string
	ReinoBracket    string
	Verdict         string
	UserEmail       string
	PageURL         string
	HasSubmitterRef bool
}

var leadEmailTemplate = template.Must(template.New("lead").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<h2>Nova simulação na calculadora Reino</h2>
<p>Patrimônio informado: <strong>{{.Patrimony}}</strong></p>
<table cellpadding="6" style="border-collapse: collapse;">
<tr><th align="left">Categoria</th><th align="left">Produto</th><th align="right">Valor</th><th align="right">%</th></tr>
{{range .Rows}}<tr><td>{{.Category}}</td><td>{{.Product}}</td><td align="right">{{.Value}}</td><td align="right">{{.Percentage}}</td></tr>
{{end}}</table>
<p>Total alocado: {{.TotalAllocated}} ({{.Percent}}), restante: {{.Remaining}}</p>
<p>Custo tradicional estimado: {{.Traditional}} por ano<br>
Honorários Reino ({{.ReinoBracket}}): {{.Reino}} por ano</p>
<p><strong>{{.Verdict}}</strong></p>
{{if .HasSubmitterRef}}<p>Contato: {{.UserEmail}}<br>Página: {{.PageURL}}</p>{{end}}
<p style="color: #999; font-size: 12px;">Submissão {{.SubmissionID}} / sessão {{.SessionID}} em {{.SubmittedAt}}</p>
</body>
</html>`))

func (h *emailServiceHandler) GenerateLeadNotificationEmail(
	submission model.CalculatorSubmission,
	snapshot domain.Snapshot,
	result domain.FeeComparisonResult,
) (string, string, error) {
	data := leadEmailData{
		SubmissionID:   submission.SubmissionID.String(),
		SessionID:      submission.SessionID,
		SubmittedAt:    submission.SubmittedAt.Format("02/01/2006 15:04"),
		Patrimony:      currency.FormatBRL(snapshot.TotalPatrimony),
		TotalAllocated: currency.FormatBRL(snapshot.TotalAllocated),
		Remaining:      currency.FormatBRL(snapshot.Remaining),
		Percent:        currency.FormatPercent(snapshot.PercentAllocated, 1),
		Traditional:    currency.FormatBRL(result.TraditionalAnnualCost),
		Reino:          currency.FormatBRL(result.ReinoAnnualCost),
		ReinoBracket:   result.Reino.BracketLabel,
		Verdict:        result.Verdict,
	}
	if submission.UserEmail != nil {
		data.UserEmail = *submission.UserEmail
		data.HasSubmitterRef = true
	}
	if submission.PageURL != nil {
		data.PageURL = *submission.PageURL
		data.HasSubmitterRef = true
	}
	for _, e := range snapshot.NonZeroAllocations() {
		data.Rows = append(data.Rows, leadEmailRow{
			Category:   e.Key.Category,
			Product:    e.Key.Product,
			Value:      currency.FormatBRL(e.Value),
			Percentage: currency.FormatPercent(e.Percentage, 1),
		})
	}

	buf := &bytes.Buffer{}
	err := leadEmailTemplate.Execute(buf, data)
	if err != nil {
		return "", "", fmt.Errorf("failed to render lead notification: %w", err)
	}

	subject := fmt.Sprintf("Nova simulação: %s em patrimônio", currency.FormatBRL(snapshot.TotalPatrimony.Round(0)))
	if result.SavingsAbsolute.GreaterThan(decimal.Zero) {
		subject += fmt.Sprintf(", economia de %s/ano", currency.FormatBRL(result.SavingsAbsolute))
	}

	return subject, buf.String(), nil
}
