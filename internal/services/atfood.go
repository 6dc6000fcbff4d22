package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commentors-net/AtFoodAI/internal/models"
	"github.com/commentors-net/AtFoodAI/internal/pricing"
	"github.com/commentors-net/AtFoodAI/internal/prompts"
	"github.com/commentors-net/AtFoodAI/internal/provider"
	"github.com/commentors-net/AtFoodAI/internal/ratelimit"
	"github.com/commentors-net/AtFoodAI/internal/repository"
)

// Request pipeline errors. All are terminal for the request; nothing is
// retried internally.
var (
	ErrUnauthorized  = errors.New("invalid token")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrUnknownAction = errors.New("unknown action")
	ErrUpstream      = errors.New("model request failed")
	ErrEmptyOutput   = errors.New("empty response from model")
	ErrStorage       = errors.New("failed to save conversation")
)

// Generator produces text from instructions + input.
type Generator interface {
	Generate(ctx context.Context, instructions, input string) (*provider.Result, error)
}

// ConversationAppender persists one exchange record.
type ConversationAppender interface {
	Append(ctx context.Context, rec *models.ConversationRecord) error
}

// RequestMeta carries per-request transport context into the pipeline.
type RequestMeta struct {
	TraceID   string
	ReqID     string
	Source    string
	ClientKey string // rate-limit identity, e.g. remote IP
	Token     string // shared-secret header value, empty when absent
	UserID    string // label for stored records, not authorization
}

// AtfoodService runs the gateway pipeline:
// authenticate, rate-limit, render, generate, cost, persist.
type AtfoodService struct {
	limiter   *ratelimit.Limiter
	generator Generator
	prices    pricing.Table
	convs     ConversationAppender
	repo      repository.Repository
	apiToken  string
}

func NewAtfoodService(limiter *ratelimit.Limiter, generator Generator, prices pricing.Table, convs ConversationAppender, repo repository.Repository, apiToken string) *AtfoodService {
	return &AtfoodService{
		limiter:   limiter,
		generator: generator,
		prices:    prices,
		convs:     convs,
		repo:      repo,
		apiToken:  apiToken,
	}
}

// Process handles one request end to end and audits the outcome. On error
// the returned response is nil and the error maps onto the taxonomy above.
func (s *AtfoodService) Process(ctx context.Context, req *models.AtfoodRequest, meta RequestMeta) (*models.AtfoodResponse, error) {
	start := time.Now()
	resp, prompt, err := s.run(ctx, req, meta)
	duration := time.Since(start)

	rec := &models.AuditRecord{
		Timestamp:  start,
		TraceID:    meta.TraceID,
		ReqID:      meta.ReqID,
		Source:     meta.Source,
		UserID:     meta.UserID,
		Action:     req.Action,
		Prompt:     prompt,
		DurationMs: duration.Milliseconds(),
		Status:     "ok",
		TotalCost:  "0",
	}
	if err != nil {
		rec.Status = auditStatus(err)
		rec.Error = err.Error()
		slog.Warn("Request failed",
			"req_id", meta.ReqID,
			"source", meta.Source,
			"action", req.Action,
			"status", rec.Status,
			"error", err)
	} else {
		rec.ResponseText = resp.Text
		rec.PromptTokens = resp.PromptTokens
		rec.ResponseTokens = resp.ResponseTokens
		rec.TotalCost = resp.TotalCost.StringFixed(6)
		slog.Info("Request completed",
			"req_id", meta.ReqID,
			"source", meta.Source,
			"action", req.Action,
			"prompt_tokens", resp.PromptTokens,
			"response_tokens", resp.ResponseTokens,
			"dur_ms", duration.Milliseconds())
	}
	_ = s.repo.Exchange().LogExchange(ctx, rec)

	return resp, err
}

// run is the pipeline proper; it returns the rendered prompt for auditing
// even when a later stage fails.
func (s *AtfoodService) run(ctx context.Context, req *models.AtfoodRequest, meta RequestMeta) (*models.AtfoodResponse, string, error) {
	// A configured secret is enforced only when the caller supplies a token
	// at all; a missing header passes through. Observed legacy behavior,
	// kept on purpose.
	if s.apiToken != "" && meta.Token != "" && meta.Token != s.apiToken {
		return nil, "", ErrUnauthorized
	}

	if !s.limiter.Allow(meta.ClientKey) {
		return nil, "", ErrRateLimited
	}

	tmpl, ok := prompts.Lookup(req.Action)
	if !ok {
		return nil, "", ErrUnknownAction
	}
	prompt := tmpl(req)
	if len(req.Prefs) > 0 {
		prompt = fmt.Sprintf("%sPrefs: %v\n", prompt, req.Prefs)
	}
	if req.SessionID != "" {
		prompt = fmt.Sprintf("%sSession: %s\n", prompt, req.SessionID)
	}

	result, err := s.generator.Generate(ctx, prompts.BaseInstructions, prompt)
	if err != nil {
		if errors.Is(err, provider.ErrEmptyOutput) {
			return nil, prompt, ErrEmptyOutput
		}
		return nil, prompt, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	totalCost := s.prices.Cost(result.PromptTokens, result.ResponseTokens)

	rec := &models.ConversationRecord{
		UserID:         meta.UserID,
		Action:         req.Action,
		Prompt:         prompt,
		ResponseText:   result.Text,
		PromptTokens:   result.PromptTokens,
		ResponseTokens: result.ResponseTokens,
		TotalCost:      totalCost,
	}
	// The model call already succeeded; a persistence failure still errors
	// the request and leaves no record.
	if err := s.convs.Append(ctx, rec); err != nil {
		return nil, prompt, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return &models.AtfoodResponse{
		Text:           result.Text,
		PromptTokens:   result.PromptTokens,
		ResponseTokens: result.ResponseTokens,
		TotalCost:      totalCost,
	}, prompt, nil
}

// RecentExchanges exposes the audit log for the /logs endpoint.
func (s *AtfoodService) RecentExchanges(ctx context.Context, limit int) ([]*models.AuditRecord, error) {
	return s.repo.Exchange().GetExchanges(ctx, limit)
}

func auditStatus(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUnknownAction):
		return "bad_request"
	case errors.Is(err, ErrEmptyOutput):
		return "empty_output"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	default:
		return "error"
	}
}
