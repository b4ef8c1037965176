package gmail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Titan-M/mailsift/pkg/types"
)

const DefaultAPIBase = "https://gmail.googleapis.com/gmail/v1"

// Source is the narrow mail-source surface the sync pipeline needs
type Source interface {
	// FetchRecent returns up to maxResults recent messages, newest first,
	// excluding provider-flagged spam and trash.
	FetchRecent(ctx context.Context, creds *types.GmailCredentials, maxResults int) ([]types.RawMessage, error)

	// MarkConsumed removes the UNREAD label from a message. Best-effort;
	// not required for pipeline correctness.
	MarkConsumed(ctx context.Context, creds *types.GmailCredentials, externalID string) error
}

// API call counter for metrics
var apiCallCount int64

// GetAPICallCount returns the current API call count
func GetAPICallCount() int64 {
	return atomic.LoadInt64(&apiCallCount)
}

// Client talks to the Gmail REST API with per-user bearer tokens
type Client struct {
	apiBase     string
	recencyDays int
	httpClient  *http.Client
}

func NewClient(cfg types.GmailConfig) *Client {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	recencyDays := cfg.RecencyDays
	if recencyDays <= 0 {
		recencyDays = 30
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		apiBase:     apiBase,
		recencyDays: recencyDays,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type listResponse struct {
	Messages []struct {
		Id       string `json:"id"`
		ThreadId string `json:"threadId"`
	} `json:"messages"`
	NextPageToken string `json:"nextPageToken"`
}

// FetchRecent lists recent message IDs and resolves each to a full message.
// Any API failure aborts the whole fetch; there is no partial batch.
func (c *Client) FetchRecent(ctx context.Context, creds *types.GmailCredentials, maxResults int) ([]types.RawMessage, error) {
	query := fmt.Sprintf("newer_than:%dd -in:spam -in:trash", c.recencyDays)
	path := fmt.Sprintf("/users/me/messages?maxResults=%d&q=%s", maxResults, url.QueryEscape(query))

	var list listResponse
	if err := c.request(ctx, creds.AccessToken, http.MethodGet, path, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]types.RawMessage, 0, len(list.Messages))
	for _, m := range list.Messages {
		var msg types.RawMessage
		path := fmt.Sprintf("/users/me/messages/%s?format=full", m.Id)
		if err := c.request(ctx, creds.AccessToken, http.MethodGet, path, nil, &msg); err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", m.Id, err)
		}
		messages = append(messages, msg)
	}

	log.Debug().Int("count", len(messages)).Msg("fetched gmail batch")
	return messages, nil
}

// MarkConsumed removes the UNREAD label. Errors are returned but callers
// treat them as advisory.
func (c *Client) MarkConsumed(ctx context.Context, creds *types.GmailCredentials, externalID string) error {
	body := map[string]any{"removeLabelIds": []string{"UNREAD"}}
	path := fmt.Sprintf("/users/me/messages/%s/modify", externalID)
	if err := c.request(ctx, creds.AccessToken, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to mark message %s as read: %w", externalID, err)
	}
	return nil
}

// request makes an authenticated call to the Gmail API
func (c *Client) request(ctx context.Context, token, method, path string, body any, result any) error {
	count := atomic.AddInt64(&apiCallCount, 1)
	log.Debug().Int64("api_calls", count).Str("path", path).Msg("gmail API call")

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gmail API error %d: %s", resp.StatusCode, string(payload))
	}

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

var _ Source = (*Client)(nil)
