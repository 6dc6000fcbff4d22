package client

// Request is the gateway request sent over NATS.
type Request struct {
	ReqID       string         `json:"req_id"`
	TraceID     string         `json:"trace_id,omitempty"`
	Token       string         `json:"token,omitempty"`
	UserID      string         `json:"user_id,omitempty"`
	ReplyTo     string         `json:"reply_to,omitempty"`
	Action      string         `json:"action"`
	UserText    string         `json:"user_text,omitempty"`
	RecipeID    string         `json:"recipe_id,omitempty"`
	CriticTopic string         `json:"critic_topic,omitempty"`
	SessionID   string         `json:"session_id,omitempty"`
	Prefs       map[string]any `json:"prefs,omitempty"`
}

// Response mirrors the HTTP response body plus correlation and error fields.
type Response struct {
	ReqID          string `json:"req_id"`
	Text           string `json:"text"`
	PromptTokens   int    `json:"prompt_tokens"`
	ResponseTokens int    `json:"response_tokens"`
	TotalCost      string `json:"total_cost"`
	Error          string `json:"error,omitempty"`
}
