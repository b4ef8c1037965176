package types

// RawMessage mirrors the Gmail API message resource in full format.
// It is owned by the message source and read-only to the pipeline.
type RawMessage struct {
	Id           string       `json:"id"`
	ThreadId     string       `json:"threadId"`
	LabelIds     []string     `json:"labelIds"`
	Snippet      string       `json:"snippet"`
	InternalDate string       `json:"internalDate"` // epoch milliseconds
	Payload      *MessagePart `json:"payload"`
}

// MessagePart is one node of a (possibly nested) MIME part tree
type MessagePart struct {
	MimeType string          `json:"mimeType"`
	Headers  []MessageHeader `json:"headers"`
	Body     MessageBody     `json:"body"`
	Parts    []*MessagePart  `json:"parts"`
}

type MessageHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MessageBody carries base64url-encoded payload data
type MessageBody struct {
	Data string `json:"data"`
	Size int    `json:"size"`
}
