package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AtfoodRequest is the caller-supplied body of a gateway request.
type AtfoodRequest struct {
	Action      string         `json:"action"`
	UserText    string         `json:"user_text,omitempty"`
	RecipeID    string         `json:"recipe_id,omitempty"`
	CriticTopic string         `json:"critic_topic,omitempty"`
	SessionID   string         `json:"session_id,omitempty"`
	Prefs       map[string]any `json:"prefs,omitempty"`
}

// AtfoodResponse is returned to the caller on success. TotalCost marshals as
// a string-encoded decimal so monetary values stay exact in JSON.
type AtfoodResponse struct {
	Text           string          `json:"text"`
	PromptTokens   int             `json:"prompt_tokens"`
	ResponseTokens int             `json:"response_tokens"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// ConversationRecord is one persisted exchange. Records are append-only;
// created_at is assigned by the store.
type ConversationRecord struct {
	UserID         string
	Action         string
	Prompt         string
	ResponseText   string
	PromptTokens   int
	ResponseTokens int
	TotalCost      decimal.Decimal
}

// AuditRecord is one row of the local audit log. Every exchange attempt is
// recorded, including rejected and failed ones.
type AuditRecord struct {
	Timestamp      time.Time `json:"ts"`
	TraceID        string    `json:"trace_id"`
	ReqID          string    `json:"req_id"`
	Source         string    `json:"source"`
	UserID         string    `json:"user_id"`
	Action         string    `json:"action"`
	Prompt         string    `json:"prompt"`
	ResponseText   string    `json:"response_text"`
	PromptTokens   int       `json:"prompt_tokens"`
	ResponseTokens int       `json:"response_tokens"`
	TotalCost      string    `json:"total_cost"`
	DurationMs     int64     `json:"dur_ms"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
}
