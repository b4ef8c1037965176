package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Titan-M/mailsift/pkg/types"
)

// CategoryBackend assigns a category and priority to an email. A returned
// error means the stage failed and the caller should fall back to heuristics.
type CategoryBackend interface {
	ClassifyEmail(ctx context.Context, subject, body, sender string) (types.Category, types.Priority, error)
}

// BackendClient calls the external classification service over HTTP
type BackendClient struct {
	url        string
	httpClient *http.Client
}

func NewBackendClient(cfg types.ClassifierConfig) *BackendClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BackendClient{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type classifyRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Sender  string `json:"sender"`
}

type classifyResponse struct {
	Category           string  `json:"category"`
	Priority           string  `json:"priority"`
	CategoryConfidence float64 `json:"category_confidence"`
}

// ClassifyEmail posts the normalized fields to the classification backend
// and validates the response against the closed enum sets. Any transport
// failure, non-2xx status, or invalid enum value fails the stage.
func (c *BackendClient) ClassifyEmail(ctx context.Context, subject, body, sender string) (types.Category, types.Priority, error) {
	reqBody, err := json.Marshal(classifyRequest{Subject: subject, Body: body, Sender: sender})
	if err != nil {
		return "", "", fmt.Errorf("marshaling classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/classify", bytes.NewReader(reqBody))
	if err != nil {
		return "", "", fmt.Errorf("creating classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("calling classifier backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("classifier backend returned %d: %s", resp.StatusCode, string(payload))
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("decoding classifier response: %w", err)
	}

	category := types.Category(result.Category)
	priority := types.Priority(result.Priority)
	if !category.Valid() || !priority.Valid() {
		return "", "", fmt.Errorf("invalid classification from backend: category=%q priority=%q", result.Category, result.Priority)
	}

	log.Debug().
		Str("category", result.Category).
		Str("priority", result.Priority).
		Float64("confidence", result.CategoryConfidence).
		Msg("backend classification")

	return category, priority, nil
}

var _ CategoryBackend = (*BackendClient)(nil)
