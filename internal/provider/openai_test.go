package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient("test-key", "test-model", srv.URL, 5*time.Second)
	return client, srv
}

func TestGeneratePrefersOutputText(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"output_text": "flat answer",
			"output": [{"type": "message", "content": [{"type": "output_text", "text": "ignored"}]}],
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`))
	})
	defer srv.Close()

	res, err := client.Generate(context.Background(), "instructions", "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Text != "flat answer" {
		t.Errorf("text = %q, want flat answer", res.Text)
	}
	if res.PromptTokens != 12 || res.ResponseTokens != 7 {
		t.Errorf("tokens = %d/%d, want 12/7", res.PromptTokens, res.ResponseTokens)
	}
}

func TestGenerateConcatenatesMessageItems(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"output": [
				{"type": "reasoning", "content": [{"type": "output_text", "text": "skip me"}]},
				{"type": "message", "content": [{"type": "output_text", "text": "first "}, {"type": "refusal", "text": "skip"}]},
				{"type": "message", "content": [{"type": "output_text", "text": "second"}]}
			],
			"usage": {"input_tokens": 1, "output_tokens": 2}
		}`))
	})
	defer srv.Close()

	res, err := client.Generate(context.Background(), "i", "p")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Text != "first second" {
		t.Errorf("text = %q, want concatenation in list order", res.Text)
	}
}

func TestGenerateUsageFallbackNames(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"output_text": "hi",
			"usage": {"prompt_tokens": 33, "completion_tokens": 44}
		}`))
	})
	defer srv.Close()

	res, err := client.Generate(context.Background(), "i", "p")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.PromptTokens != 33 || res.ResponseTokens != 44 {
		t.Errorf("tokens = %d/%d, want fallback pair 33/44", res.PromptTokens, res.ResponseTokens)
	}
}

func TestGenerateMissingUsageIsZero(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output_text": "hi"}`))
	})
	defer srv.Close()

	res, err := client.Generate(context.Background(), "i", "p")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.PromptTokens != 0 || res.ResponseTokens != 0 {
		t.Errorf("tokens = %d/%d, want 0/0", res.PromptTokens, res.ResponseTokens)
	}
}

func TestGenerateEmptyOutput(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output_text": "   \n\t ", "usage": {"input_tokens": 5, "output_tokens": 0}}`))
	})
	defer srv.Close()

	_, err := client.Generate(context.Background(), "i", "p")
	if !errors.Is(err, ErrEmptyOutput) {
		t.Errorf("err = %v, want ErrEmptyOutput", err)
	}
}

func TestGenerateAPIError(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exhausted", "type": "rate_limit"}}`))
	})
	defer srv.Close()

	_, err := client.Generate(context.Background(), "i", "p")
	if err == nil {
		t.Fatal("want error on non-200 status")
	}
	if errors.Is(err, ErrEmptyOutput) {
		t.Error("API failure must not be reported as empty output")
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.Generate(ctx, "i", "p"); err == nil {
		t.Error("want error when context is cancelled")
	}
}
