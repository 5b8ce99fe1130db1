package typebot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultApiHost  = "https://typebot.io/api/v1"
	DefaultPublicID = "relatorio-reino"
)

type Client struct {
	HttpClient *http.Client
	ApiHost    string
	PublicID   string
}

func NewClient(apiHost, publicID string) Client {
	if apiHost == "" {
		apiHost = DefaultApiHost
	}
	if publicID == "" {
		publicID = DefaultPublicID
	}
	return Client{
		HttpClient: http.DefaultClient,
		ApiHost:    strings.TrimRight(apiHost, "/"),
		PublicID:   publicID,
	}
}

type StartChatRequest struct {
	PrefilledVariables map[string]string `json:"prefilledVariables"`
	IsStreamEnabled    bool              `json:"isStreamEnabled"`
}

type StartChatResponse struct {
	SessionID string `json:"sessionId"`
	ResultID  string `json:"resultId"`
	Typebot   struct {
		ID      string `json:"id"`
		Version string `json:"version"`
	} `json:"typebot"`
}

func (c Client) startChatUrl() string {
	return fmt.Sprintf("%s/typebots/%s/startChat", c.ApiHost, c.PublicID)
}

func (c Client) StartChat(ctx context.Context, req StartChatRequest) (*StartChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal start chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.startChatUrl(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := c.HttpClient
	if client == nil {
		client = http.DefaultClient
	}
	response, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to start typebot chat: %w", err)
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("failed with status code %d: %s", response.StatusCode, string(responseBytes))
	}

	out := StartChatResponse{}
	err = json.Unmarshal(responseBytes, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal start chat response: %w", err)
	}

	return &out, nil
}
