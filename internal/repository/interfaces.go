package repository

import (
	"context"

	"github.com/commentors-net/AtFoodAI/internal/models"
)

// Repository aggregates the audit repositories.
type Repository interface {
	Exchange() ExchangeRepositoryInterface
	Event() EventRepositoryInterface
}

// ExchangeRepositoryInterface defines exchange audit operations
type ExchangeRepositoryInterface interface {
	LogExchange(ctx context.Context, rec *models.AuditRecord) error
	GetExchanges(ctx context.Context, limit int) ([]*models.AuditRecord, error)
}

// EventRepositoryInterface defines event logging operations
type EventRepositoryInterface interface {
	LogEvent(ctx context.Context, level, code, msg string, meta map[string]interface{}) error
}
