package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/commentors-net/AtFoodAI/internal/models"
)

func TestAuditRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.sqlite")

	db, err := OpenAudit(path)
	if err != nil {
		t.Fatalf("OpenAudit: %v", err)
	}
	defer db.Close()

	db.Event("info", "startup", "Server starting", map[string]interface{}{"addr": ":8080"})

	first := &models.AuditRecord{
		Timestamp:      time.Now(),
		TraceID:        "trace-1",
		ReqID:          "req-1",
		Source:         "http.atfood",
		UserID:         "alice",
		Action:         "world_picks",
		Prompt:         "ACTION=world_picks\n",
		ResponseText:   "picks",
		PromptTokens:   10,
		ResponseTokens: 20,
		TotalCost:      "0.000000",
		DurationMs:     42,
		Status:         "ok",
	}
	db.Exchange(first)
	second := *first
	second.ReqID = "req-2"
	second.Status = "rate_limited"
	db.Exchange(&second)

	records, err := db.RecentExchanges(10)
	if err != nil {
		t.Fatalf("RecentExchanges: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Newest first.
	if records[0].ReqID != "req-2" || records[1].ReqID != "req-1" {
		t.Errorf("order = %s, %s; want req-2, req-1", records[0].ReqID, records[1].ReqID)
	}
	if records[1].Action != "world_picks" || records[1].PromptTokens != 10 {
		t.Errorf("record fields not preserved: %+v", records[1])
	}
}

func TestAuditOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.sqlite")

	db, err := OpenAudit(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.Exchange(&models.AuditRecord{Timestamp: time.Now(), ReqID: "req-1", Status: "ok"})
	db.Close()

	// Reopening must keep the existing tables and rows.
	db, err = OpenAudit(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db.Close()

	records, err := db.RecentExchanges(10)
	if err != nil {
		t.Fatalf("RecentExchanges: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records after reopen, want 1", len(records))
	}
}
