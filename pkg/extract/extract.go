package extract

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Titan-M/mailsift/pkg/types"
)

const (
	// MaxBodyLength bounds extracted bodies so classification inputs
	// stay cheap for the downstream backends.
	MaxBodyLength = 2000

	DefaultSubject = "No Subject"
	DefaultSender  = "Unknown Sender"
	EmptyBodyText  = "No content available"
)

// Extract normalizes a raw provider message into a bounded plain-text form.
// It is total: any input, including a message with no body and no parts,
// yields a usable NormalizedMessage with a non-empty body.
func Extract(msg *types.RawMessage) types.NormalizedMessage {
	subject := DefaultSubject
	sender := DefaultSender

	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				subject = h.Value
			case "From":
				sender = h.Value
			}
		}
	}

	body := extractBody(msg)
	body = CleanBody(body)

	if body == "" {
		body = strings.TrimSpace(msg.Snippet)
	}
	if body == "" {
		body = EmptyBodyText
	}

	return types.NormalizedMessage{
		Subject:    subject,
		Sender:     sender,
		Body:       body,
		ReceivedAt: parseInternalDate(msg.InternalDate),
	}
}

// extractBody resolves the message's text payload: inline body data when
// present, otherwise the first text part found in the part tree.
func extractBody(msg *types.RawMessage) string {
	if msg.Payload == nil {
		return ""
	}

	if msg.Payload.Body.Data != "" {
		return decodeBodyData(msg.Payload.Body.Data)
	}

	if part := findTextPart(msg.Payload.Parts); part != nil {
		return decodeBodyData(part.Body.Data)
	}

	return ""
}

// findTextPart walks the part tree depth-first, preferring earlier siblings
// and shallower nesting, and returns the first text/plain or text/html part.
func findTextPart(parts []*types.MessagePart) *types.MessagePart {
	for _, part := range parts {
		if part == nil {
			continue
		}
		if part.MimeType == "text/plain" || part.MimeType == "text/html" {
			return part
		}
		if len(part.Parts) > 0 {
			if nested := findTextPart(part.Parts); nested != nil {
				return nested
			}
		}
	}
	return nil
}

// decodeBodyData decodes the base64url-encoded body data from a message part.
// Gmail uses URL-safe base64, often without padding.
func decodeBodyData(data string) string {
	if data == "" {
		return ""
	}

	decoded, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.URLEncoding.DecodeString(data)
		if err != nil {
			padded := data
			switch len(data) % 4 {
			case 2:
				padded += "=="
			case 3:
				padded += "="
			}
			decoded, _ = base64.URLEncoding.DecodeString(padded)
		}
	}

	return string(decoded)
}

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// CleanBody strips markup, collapses whitespace, and truncates to
// MaxBodyLength characters.
func CleanBody(body string) string {
	body = htmlTagRegex.ReplaceAllString(body, "")
	body = whitespaceRegex.ReplaceAllString(body, " ")
	body = strings.TrimSpace(body)
	return truncate(body, MaxBodyLength)
}

// truncate limits s to n characters without splitting a multibyte rune
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// parseInternalDate parses the provider's epoch-millisecond timestamp
func parseInternalDate(internalDate string) time.Time {
	ms, err := strconv.ParseInt(internalDate, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
