package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/commentors-net/AtFoodAI/internal/config"
	"github.com/commentors-net/AtFoodAI/internal/models"
)

// NATSRequest is the wire form of a gateway request over NATS. The embedded
// AtfoodRequest fields sit at the top level of the JSON object.
type NATSRequest struct {
	models.AtfoodRequest
	ReqID   string `json:"req_id"`
	TraceID string `json:"trace_id,omitempty"`
	Token   string `json:"token,omitempty"`
	UserID  string `json:"user_id,omitempty"`
	ReplyTo string `json:"reply_to,omitempty"`
}

// NATSResponse mirrors the HTTP response plus request correlation and a
// flat error string.
type NATSResponse struct {
	ReqID          string `json:"req_id"`
	Text           string `json:"text"`
	PromptTokens   int    `json:"prompt_tokens"`
	ResponseTokens int    `json:"response_tokens"`
	TotalCost      string `json:"total_cost"`
	Error          string `json:"error,omitempty"`
}

// NATSService serves the same pipeline as the HTTP handler over a NATS
// queue-group subscription.
type NATSService struct {
	conn    *nats.Conn
	atfood  *AtfoodService
	subject string
	queue   string
}

func NewNATSService(cfg *config.Config, atfood *AtfoodService) (*NATSService, error) {
	conn, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSService{
		conn:    conn,
		atfood:  atfood,
		subject: cfg.Subject,
		queue:   cfg.QueueGroup,
	}, nil
}

func (s *NATSService) Start(ctx context.Context) error {
	sub, err := s.conn.QueueSubscribe(s.subject, s.queue, func(msg *nats.Msg) {
		s.handleMessage(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	slog.Info("NATS service listening", "subject", s.subject, "queue", s.queue)

	<-ctx.Done()
	return s.conn.Drain()
}

func (s *NATSService) handleMessage(ctx context.Context, msg *nats.Msg) {
	var req NATSRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		slog.Warn("Dropping malformed NATS request", "subject", msg.Subject, "error", err)
		return
	}

	replyTo := req.ReplyTo
	if replyTo == "" {
		replyTo = msg.Reply
	}
	if replyTo == "" {
		slog.Warn("Dropping NATS request with no reply subject", "req_id", req.ReqID)
		return
	}

	// No network address on this transport; the declared user identity is
	// the rate-limit key.
	clientKey := req.UserID
	if clientKey == "" {
		clientKey = "nats"
	}
	userID := req.UserID
	if userID == "" {
		userID = "nats"
	}

	meta := RequestMeta{
		TraceID:   req.TraceID,
		ReqID:     req.ReqID,
		Source:    "nats.atfood",
		ClientKey: clientKey,
		Token:     req.Token,
		UserID:    userID,
	}

	resp := NATSResponse{ReqID: req.ReqID, TotalCost: "0"}
	result, err := s.atfood.Process(ctx, &req.AtfoodRequest, meta)
	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Text = result.Text
		resp.PromptTokens = result.PromptTokens
		resp.ResponseTokens = result.ResponseTokens
		resp.TotalCost = result.TotalCost.String()
	}

	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("Failed to marshal NATS response", "req_id", req.ReqID, "error", err)
		return
	}
	if err := s.conn.Publish(replyTo, data); err != nil {
		slog.Error("Failed to publish NATS response", "req_id", req.ReqID, "reply_to", replyTo, "error", err)
	}
}

func (s *NATSService) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
