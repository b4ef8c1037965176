package types

import (
	"time"
)

// Category is the closed set of email categories
type Category string

const (
	CategoryWork       Category = "Work"
	CategoryPersonal   Category = "Personal"
	CategoryFinance    Category = "Finance"
	CategoryTravel     Category = "Travel"
	CategoryShopping   Category = "Shopping"
	CategoryPromotions Category = "Promotions"
	CategorySpam       Category = "Spam"
	CategoryOther      Category = "Other"
)

var validCategories = map[Category]struct{}{
	CategoryWork:       {},
	CategoryPersonal:   {},
	CategoryFinance:    {},
	CategoryTravel:     {},
	CategoryShopping:   {},
	CategoryPromotions: {},
	CategorySpam:       {},
	CategoryOther:      {},
}

// Valid reports whether c is a member of the closed category set
func (c Category) Valid() bool {
	_, ok := validCategories[c]
	return ok
}

func (c Category) String() string {
	return string(c)
}

// Priority is the closed set of email priorities
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

var validPriorities = map[Priority]struct{}{
	PriorityHigh:   {},
	PriorityMedium: {},
	PriorityLow:    {},
}

// Valid reports whether p is a member of the closed priority set
func (p Priority) Valid() bool {
	_, ok := validPriorities[p]
	return ok
}

func (p Priority) String() string {
	return string(p)
}

// ClassificationResult is the output of the classification pipeline.
// Category and Priority always hold a value from their closed sets.
type ClassificationResult struct {
	Category Category `json:"category"`
	Priority Priority `json:"priority"`
	Summary  string   `json:"summary"`
}

// NormalizedMessage is the extracted, bounded form of a raw provider message.
// Body is plain text, never empty, at most MaxBodyLength characters.
type NormalizedMessage struct {
	Subject    string    `json:"subject"`
	Sender     string    `json:"sender"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Email is the durable classified record, created exactly once per
// (user_id, gmail_id) pair and never updated afterwards.
type Email struct {
	Id          uint      `json:"id" db:"id"`
	ExternalId  string    `json:"external_id" db:"external_id"`
	UserId      string    `json:"user_id" db:"user_id"`
	GmailId     string    `json:"gmail_id" db:"gmail_id"`
	Subject     string    `json:"subject" db:"subject"`
	Sender      string    `json:"sender" db:"sender"`
	Body        string    `json:"body" db:"body"`
	Category    Category  `json:"category" db:"category"`
	Priority    Priority  `json:"priority" db:"priority"`
	Summary     string    `json:"summary" db:"summary"`
	ReceivedAt  time.Time `json:"received_at" db:"received_at"`
	ProcessedAt time.Time `json:"processed_at" db:"processed_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// EmailFilter narrows email listings. Zero values mean no filtering.
type EmailFilter struct {
	Category string
	Priority string
	Page     int
	Limit    int
}

// SyncReport summarizes one orchestration run
type SyncReport struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}

// GmailCredentials holds per-user OAuth tokens for the mail source
type GmailCredentials struct {
	UserId       string    `json:"user_id" db:"user_id"`
	AccessToken  string    `json:"access_token" db:"access_token"`
	RefreshToken string    `json:"refresh_token" db:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserProfile tracks per-user sync bookkeeping
type UserProfile struct {
	UserId        string     `json:"user_id" db:"user_id"`
	LastEmailSync *time.Time `json:"last_email_sync" db:"last_email_sync"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
