package server

import (
	"log/slog"
	"net/http"

	"github.com/commentors-net/AtFoodAI/internal/handlers"
)

type Server struct {
	httpAddr    string
	handler     *handlers.AtfoodHandler
	corsOrigins []string
}

func NewServer(httpAddr string, handler *handlers.AtfoodHandler, corsOrigins []string) *Server {
	return &Server{
		httpAddr:    httpAddr,
		handler:     handler,
		corsOrigins: corsOrigins,
	}
}

func (s *Server) Start() error {
	mux := http.NewServeMux()
	s.handler.RegisterRoutes(mux)

	slog.Info("HTTP server starting",
		"addr", s.httpAddr,
		"endpoints", []string{"/api/atfood", "/healthz", "/logs"},
		"cors_origins", len(s.corsOrigins))

	return http.ListenAndServe(s.httpAddr, WithCORS(s.corsOrigins, mux))
}

// WithCORS answers preflight and stamps CORS headers for configured
// origins. With no configured origins it is a pass-through.
func WithCORS(origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		return next
	}

	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-ATFOOD-TOKEN, X-ATFOOD-USER")
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
