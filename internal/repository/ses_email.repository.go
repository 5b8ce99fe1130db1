package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailRepository sends pre-rendered emails through AWS SES.
// Rendering lives in the service layer.
type EmailRepository interface {
	// SendEmail delivers an HTML body to one recipient and returns the
	// SES message id.
	SendEmail(ctx context.Context, to string, subject string, body string) (string, error)
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type emailRepositoryHandler struct {
	sesClient sesAPI
	fromEmail string
}

// NewEmailRepository creates an SES-backed repository. fromEmail must be a
// verified sender in the region.
func NewEmailRepository(ctx context.Context, region, fromEmail string) (EmailRepository, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &emailRepositoryHandler{
		sesClient: sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
	}, nil
}

func buildSendEmailInput(from, to, subject, body string) *sesv2.SendEmailInput {
	return &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}
}

func (h *emailRepositoryHandler) SendEmail(ctx context.Context, to string, subject string, body string) (string, error) {
	result, err := h.sesClient.SendEmail(ctx, buildSendEmailInput(h.fromEmail, to, subject, body))
	if err != nil {
		return "", fmt.Errorf("failed to send email via SES: %w", err)
	}

	return aws.ToString(result.MessageId), nil
}
