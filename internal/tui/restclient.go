package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"codeberg.org/promptdesk/server/internal/sessions"
)

// manages HTTP requests to the prompts REST API
type APIClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// creates a new REST client. the endpoint and JWT token come from
// PROMPTDESK_API_ENDPOINT and PROMPTDESK_TOKEN.
func NewAPIClient() *APIClient {
	endpoint := os.Getenv("PROMPTDESK_API_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:8080"
	}

	return &APIClient{
		endpoint: endpoint,
		token:    os.Getenv("PROMPTDESK_TOKEN"),
		httpClient: &http.Client{
			Timeout: promptRequestTimeout,
		},
	}
}

// sends a prompt submission to the REST API
func (c *APIClient) SubmitPrompt(ctx context.Context, kind sessions.Kind, input string) (*PromptResponseMsg, error) {
	payload := promptRequest{Input: input}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/prompts/%s", c.endpoint, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp apiErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("%s: %s", errResp.Error, errResp.Message)
		}
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result promptResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	msg := &PromptResponseMsg{
		session: result.Session,
		model:   result.Model,
	}

	if result.Session != nil {
		msg.response = result.Session.Response
	} else {
		msg.response = result.Response
	}

	if !result.Saved {
		msg.saveWarning = "response was not saved to history"
	}

	return msg, nil
}

// returns a tea.Cmd that submits a prompt
func (c *APIClient) SubmitCmd(kind sessions.Kind, input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), promptRequestTimeout)
		defer cancel()

		resp, err := c.SubmitPrompt(ctx, kind, input)
		if err != nil {
			return PromptErrorMsg{err: err}
		}

		return *resp
	}
}

// REST API request/response types

type promptRequest struct {
	Input string `json:"input"`
}

type promptResponse struct {
	Session   *sessions.Session `json:"session,omitempty"`
	Saved     bool              `json:"saved"`
	Response  string            `json:"response,omitempty"`
	SaveError string            `json:"save_error,omitempty"`
	Model     string            `json:"model,omitempty"`
}

type apiErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
