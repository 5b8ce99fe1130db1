package repository

import (
	"context"
	"fmt"

	"reinocalc/pkg/typebot"
)

type TypebotRepository interface {
	StartChat(ctx context.Context, variables map[string]string) (string, error)
}

type typebotRepositoryHandler struct {
	Client typebot.Client
}

func NewTypebotRepository(client typebot.Client) TypebotRepository {
	return typebotRepositoryHandler{
		Client: client,
	}
}

// StartChat opens a Typebot session with the given prefilled variables and
// returns its session id.
func (h typebotRepositoryHandler) StartChat(ctx context.Context, variables map[string]string) (string, error) {
	response, err := h.Client.StartChat(ctx, typebot.StartChatRequest{
		PrefilledVariables: variables,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start typebot chat: %w", err)
	}

	return response.SessionID, nil
}
