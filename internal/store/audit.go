package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/commentors-net/AtFoodAI/internal/models"
)

// AuditDB is a local append-only log of lifecycle events and every exchange
// attempt, successful or not. It is operational telemetry, separate from the
// durable conversation store.
type AuditDB struct {
	*sql.DB
}

func OpenAudit(path string) (*AuditDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS events(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts REAL,
		level TEXT,
		code TEXT,
		msg TEXT,
		meta TEXT
	)`); err != nil {
		return nil, err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS exchanges(
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts REAL,
		trace_id TEXT,
		req_id TEXT,
		source TEXT,
		user_id TEXT,
		action TEXT,
		prompt TEXT,
		response_text TEXT,
		prompt_tokens INTEGER,
		response_tokens INTEGER,
		total_cost TEXT,
		dur_ms INTEGER,
		status TEXT,
		error TEXT
	)`); err != nil {
		return nil, err
	}

	return &AuditDB{db}, nil
}

// Event records a lifecycle event. Failures are swallowed; audit logging
// never takes down the request path.
func (db *AuditDB) Event(level, code, msg string, meta map[string]interface{}) {
	m := ""
	if meta != nil {
		b, _ := json.Marshal(meta)
		m = string(b)
	}
	_, _ = db.Exec(`INSERT INTO events(ts,level,code,msg,meta) VALUES(?,?,?,?,?)`,
		float64(time.Now().UnixNano())/1e9, level, code, msg, m)
}

// Exchange records one gateway exchange attempt.
func (db *AuditDB) Exchange(rec *models.AuditRecord) {
	_, _ = db.Exec(`INSERT INTO exchanges(
		ts, trace_id, req_id, source, user_id, action, prompt, response_text,
		prompt_tokens, response_tokens, total_cost, dur_ms, status, error)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		float64(rec.Timestamp.UnixNano())/1e9, rec.TraceID, rec.ReqID, rec.Source,
		rec.UserID, rec.Action, rec.Prompt, rec.ResponseText,
		rec.PromptTokens, rec.ResponseTokens, rec.TotalCost,
		rec.DurationMs, rec.Status, rec.Error)
}

// RecentExchanges returns the newest records first.
func (db *AuditDB) RecentExchanges(limit int) ([]*models.AuditRecord, error) {
	rows, err := db.Query(`SELECT ts, trace_id, req_id, source, user_id, action,
		prompt, response_text, prompt_tokens, response_tokens, total_cost,
		dur_ms, status, error
		FROM exchanges ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.AuditRecord
	for rows.Next() {
		var rec models.AuditRecord
		var tsFloat float64
		if err := rows.Scan(
			&tsFloat, &rec.TraceID, &rec.ReqID, &rec.Source, &rec.UserID,
			&rec.Action, &rec.Prompt, &rec.ResponseText, &rec.PromptTokens,
			&rec.ResponseTokens, &rec.TotalCost, &rec.DurationMs,
			&rec.Status, &rec.Error,
		); err == nil {
			rec.Timestamp = time.Unix(0, int64(tsFloat*1e9))
			records = append(records, &rec)
		}
	}
	return records, rows.Err()
}
