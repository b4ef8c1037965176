package classify

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The summarization backend is asked for bare prose, but generative models
// are not reliable about it: responses show up as bare JSON objects, fenced
// code blocks, JSON embedded in chatter, or plain text. ExtractSummary tries
// those shapes in order and stops at the first one that yields a usable
// summary. It returns false only when nothing usable is present.
func ExtractSummary(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	// (a) the entire response is a bare JSON object
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		if summary, ok := summaryFromJSON(trimmed); ok {
			return summary, true
		}
	}

	// (b) a fenced code block containing JSON
	if block, ok := fencedJSONBlock(trimmed); ok {
		if summary, ok := summaryFromJSON(block); ok {
			return summary, true
		}
	}

	// (c) the first balanced-brace JSON substring anywhere in the text
	if candidate, ok := balancedBraceSubstring(trimmed); ok {
		if summary, ok := summaryFromJSON(candidate); ok {
			return summary, true
		}
	}

	// (d) plain prose, used as-is
	return trimmed, true
}

// summaryFromJSON parses s as a JSON object and returns its non-empty
// "summary" field.
func summaryFromJSON(s string) (string, bool) {
	var payload struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(s), &payload); err != nil {
		return "", false
	}
	summary := strings.TrimSpace(payload.Summary)
	return summary, summary != ""
}

var fencedBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// fencedJSONBlock returns the contents of the first fenced code block that
// looks like a JSON object.
func fencedJSONBlock(text string) (string, bool) {
	m := fencedBlockRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// balancedBraceSubstring scans for the first substring that starts at a '{'
// and ends at its matching '}', tracking quoted strings so braces inside
// string values don't unbalance the count.
func balancedBraceSubstring(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// ignore structural characters inside strings
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
