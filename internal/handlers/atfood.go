package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/commentors-net/AtFoodAI/internal/models"
	"github.com/commentors-net/AtFoodAI/internal/services"
)

const (
	tokenHeader = "X-ATFOOD-TOKEN"
	userHeader  = "X-ATFOOD-USER"
)

type AtfoodHandler struct {
	atfoodService *services.AtfoodService
}

func NewAtfoodHandler(atfoodService *services.AtfoodService) *AtfoodHandler {
	return &AtfoodHandler{
		atfoodService: atfoodService,
	}
}

func (h *AtfoodHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/atfood", h.handleAtfood)
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/logs", h.handleLogs)
}

func (h *AtfoodHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *AtfoodHandler) handleAtfood(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var req models.AtfoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Action == "" || len(req.Action) > 64 {
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	clientIP := clientAddr(r)
	userID := resolveUserID(r.Header.Get(userHeader), clientIP)

	traceID := r.Header.Get("X-Trace-ID")
	reqID := ulid.Make().String()
	if traceID == "" {
		traceID = reqID
	}

	meta := services.RequestMeta{
		TraceID:   traceID,
		ReqID:     reqID,
		Source:    "http.atfood",
		ClientKey: clientIP,
		Token:     r.Header.Get(tokenHeader),
		UserID:    userID,
	}

	resp, err := h.atfoodService.Process(r.Context(), &req, meta)
	if err != nil {
		status, msg := statusFor(err)
		http.Error(w, msg, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *AtfoodHandler) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.atfoodService.RecentExchanges(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to get logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

// statusFor maps pipeline errors onto HTTP responses. Every failure is
// terminal; no partial bodies.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, services.ErrUnknownAction):
		return http.StatusBadRequest, "Unknown action"
	case errors.Is(err, services.ErrEmptyOutput):
		return http.StatusBadGateway, "Empty response from model"
	case errors.Is(err, services.ErrUpstream):
		return http.StatusBadGateway, "Model request failed"
	case errors.Is(err, services.ErrStorage):
		return http.StatusInternalServerError, "Failed to save conversation"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

// clientAddr is the direct peer address. X-Forwarded-For is deliberately
// not consulted; the gateway trusts only its own socket.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// resolveUserID picks the stored-record label: explicit header, then the
// client address, then a fixed fallback.
func resolveUserID(header, clientIP string) string {
	if header = strings.TrimSpace(header); header != "" {
		return header
	}
	if clientIP != "" {
		return clientIP
	}
	return "demo-user"
}
