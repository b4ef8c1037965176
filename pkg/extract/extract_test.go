package extract

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/Titan-M/mailsift/pkg/types"
)

func TestExtract_InlineBody(t *testing.T) {
	msg := &types.RawMessage{
		Id:           "m1",
		InternalDate: "1700000000000",
		Payload: &types.MessagePart{
			MimeType: "text/plain",
			Headers: []types.MessageHeader{
				{Name: "Subject", Value: "Quarterly report"},
				{Name: "From", Value: "Alice <alice@example.com>"},
			},
			Body: types.MessageBody{Data: "SGVsbG8gV29ybGQh"}, // "Hello World!"
		},
	}

	out := Extract(msg)
	if out.Subject != "Quarterly report" {
		t.Errorf("Expected subject 'Quarterly report', got '%s'", out.Subject)
	}
	if out.Sender != "Alice <alice@example.com>" {
		t.Errorf("Expected sender 'Alice <alice@example.com>', got '%s'", out.Sender)
	}
	if out.Body != "Hello World!" {
		t.Errorf("Expected body 'Hello World!', got '%s'", out.Body)
	}

	want := time.UnixMilli(1700000000000).UTC()
	if !out.ReceivedAt.Equal(want) {
		t.Errorf("Expected receivedAt %v, got %v", want, out.ReceivedAt)
	}
}

func TestExtract_NestedHTMLPart(t *testing.T) {
	// No top-level body; one nested text/html part containing <p>Hello</p>
	msg := &types.RawMessage{
		Id:           "m2",
		InternalDate: "1700000000000",
		Payload: &types.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*types.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*types.MessagePart{
						{
							MimeType: "text/html",
							Body:     types.MessageBody{Data: "PHA-SGVsbG88L3A-"}, // "<p>Hello</p>" URL-safe, no padding
						},
					},
				},
			},
		},
	}

	out := Extract(msg)
	if out.Body != "Hello" {
		t.Errorf("Expected body 'Hello', got '%s'", out.Body)
	}
}

func TestExtract_PrefersEarlierSibling(t *testing.T) {
	msg := &types.RawMessage{
		Id:           "m3",
		InternalDate: "1700000000000",
		Payload: &types.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*types.MessagePart{
				{
					MimeType: "text/plain",
					Body:     types.MessageBody{Data: "UGxhaW4gdGV4dCBib2R5"}, // "Plain text body"
				},
				{
					MimeType: "text/html",
					Body:     types.MessageBody{Data: "PHA-SGVsbG88L3A-"},
				},
			},
		},
	}

	out := Extract(msg)
	if out.Body != "Plain text body" {
		t.Errorf("Expected body 'Plain text body', got '%s'", out.Body)
	}
}

func TestExtract_HeaderDefaults(t *testing.T) {
	msg := &types.RawMessage{
		Id:           "m4",
		InternalDate: "1700000000000",
		Payload: &types.MessagePart{
			MimeType: "text/plain",
			Headers: []types.MessageHeader{
				// lowercase names must not match; lookup is exact
				{Name: "subject", Value: "ignored"},
				{Name: "from", Value: "ignored"},
			},
			Body: types.MessageBody{Data: "SGVsbG8gV29ybGQh"},
		},
	}

	out := Extract(msg)
	if out.Subject != DefaultSubject {
		t.Errorf("Expected default subject, got '%s'", out.Subject)
	}
	if out.Sender != DefaultSender {
		t.Errorf("Expected default sender, got '%s'", out.Sender)
	}
}

func TestExtract_SnippetFallback(t *testing.T) {
	msg := &types.RawMessage{
		Id:           "m5",
		Snippet:      "You have a new login alert",
		InternalDate: "1700000000000",
		Payload:      &types.MessagePart{MimeType: "multipart/mixed"},
	}

	out := Extract(msg)
	if out.Body != "You have a new login alert" {
		t.Errorf("Expected snippet fallback, got '%s'", out.Body)
	}
}

func TestExtract_BodyNeverEmpty(t *testing.T) {
	// No body, no parts, no snippet
	msg := &types.RawMessage{Id: "m6", InternalDate: "0"}

	out := Extract(msg)
	if out.Body != EmptyBodyText {
		t.Errorf("Expected '%s', got '%s'", EmptyBodyText, out.Body)
	}
}

func TestExtract_Truncation(t *testing.T) {
	long := strings.Repeat("a", 5000)
	data := base64.RawURLEncoding.EncodeToString([]byte(long))

	msg := &types.RawMessage{
		Id:           "m7",
		InternalDate: "1700000000000",
		Payload: &types.MessagePart{
			MimeType: "text/plain",
			Body:     types.MessageBody{Data: data},
		},
	}

	out := Extract(msg)
	if len(out.Body) != MaxBodyLength {
		t.Errorf("Expected %d characters, got %d", MaxBodyLength, len(out.Body))
	}
}

func TestCleanBody_StripsAndCollapses(t *testing.T) {
	// "<div>Some  <b>bold</b>\n text</div>"
	decoded := decodeBodyData("PGRpdj5Tb21lICA8Yj5ib2xkPC9iPgogdGV4dDwvZGl2Pg")
	got := CleanBody(decoded)
	if got != "Some bold text" {
		t.Errorf("Expected 'Some bold text', got '%s'", got)
	}
}

func TestDecodeBodyData_MultibyteAndPadding(t *testing.T) {
	// "café" URL-safe without padding
	if got := decodeBodyData("Y2Fmw6k"); got != "café" {
		t.Errorf("Expected 'café', got '%s'", got)
	}
	// Same content with padding
	if got := decodeBodyData("Y2Fmw6k="); got != "café" {
		t.Errorf("Expected 'café' from padded input, got '%s'", got)
	}
}

func TestParseInternalDate_Invalid(t *testing.T) {
	if got := parseInternalDate("not-a-number"); !got.IsZero() {
		t.Errorf("Expected zero time for invalid input, got %v", got)
	}
}
