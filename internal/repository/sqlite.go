package repository

import (
	"context"

	"github.com/commentors-net/AtFoodAI/internal/models"
	"github.com/commentors-net/AtFoodAI/internal/store"
)

// SQLiteRepository implements Repository on the local audit database.
type SQLiteRepository struct {
	exchangeRepo ExchangeRepositoryInterface
	eventRepo    EventRepositoryInterface
}

func NewSQLiteRepository(db *store.AuditDB) Repository {
	return &SQLiteRepository{
		exchangeRepo: &SQLiteExchangeRepository{db: db},
		eventRepo:    &SQLiteEventRepository{db: db},
	}
}

func (r *SQLiteRepository) Exchange() ExchangeRepositoryInterface {
	return r.exchangeRepo
}

func (r *SQLiteRepository) Event() EventRepositoryInterface {
	return r.eventRepo
}

// SQLiteExchangeRepository handles exchange audit logging
type SQLiteExchangeRepository struct {
	db *store.AuditDB
}

func (r *SQLiteExchangeRepository) LogExchange(ctx context.Context, rec *models.AuditRecord) error {
	r.db.Exchange(rec)
	return nil
}

func (r *SQLiteExchangeRepository) GetExchanges(ctx context.Context, limit int) ([]*models.AuditRecord, error) {
	return r.db.RecentExchanges(limit)
}

// SQLiteEventRepository handles event logging
type SQLiteEventRepository struct {
	db *store.AuditDB
}

func (r *SQLiteEventRepository) LogEvent(ctx context.Context, level, code, msg string, meta map[string]interface{}) error {
	r.db.Event(level, code, msg, meta)
	return nil
}
