package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Titan-M/mailsift/pkg/types"
)

const summarySystemPrompt = `You are an AI assistant that creates concise email summaries.

Generate a detailed 3-4 sentence summary that captures:
- The main purpose of the email
- Key information and important details
- Any action items or deadlines
- Relevant context

Respond with ONLY the summary text, no JSON, no formatting.`

// Summarizer produces a natural-language summary of an email. A returned
// error means the stage failed and the caller should use the deterministic
// fallback summary.
type Summarizer interface {
	Summarize(ctx context.Context, subject, body, sender string) (string, error)
}

// GeminiClient calls a Gemini-style generateContent endpoint
type GeminiClient struct {
	apiBase    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGeminiClient(cfg types.SummarizerConfig) *GeminiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{
		apiBase:    strings.TrimSuffix(cfg.APIBase, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Summarize requests a 3-4 sentence summary of the email. The raw model
// output is normalized through ExtractSummary since models don't reliably
// honor the bare-prose instruction.
func (g *GeminiClient) Summarize(ctx context.Context, subject, body, sender string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nEmail Subject: %s\nEmail From: %s\nEmail Body: %s",
		summarySystemPrompt, subject, sender, body)

	reqBody, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling summarize request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.apiBase, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("creating summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling summarization backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("summarization backend returned %d: %s", resp.StatusCode, string(payload))
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding summarizer response: %w", err)
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("summarizer returned no candidates")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	summary, ok := ExtractSummary(sb.String())
	if !ok {
		return "", fmt.Errorf("summarizer returned no usable text")
	}
	return summary, nil
}

var _ Summarizer = (*GeminiClient)(nil)
