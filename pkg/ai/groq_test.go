package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
)

func modelReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	if err := json.NewEncoder(w).Encode(reply); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func TestGroqExtract_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if r.URL.Path != "/openai/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		messages, ok := payload["messages"].([]any)
		if !ok || len(messages) != 1 {
			t.Fatalf("expected one message, got %v", payload["messages"])
		}
		content := messages[0].(map[string]any)["content"].(string)
		if !strings.Contains(content, "standup transcript") {
			t.Fatalf("prompt missing transcript: %q", content)
		}
		modelReply(t, w, `{"summary": "Standup recap", "action_items": [{"description": "Fix the flaky test", "priority": "high"}]}`)
	}))
	defer ts.Close()

	client := NewGroqClient(config.AIConfig{APIKey: "test-key", BaseURL: ts.URL})

	analysis, err := client.Extract(context.Background(), "standup transcript")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if analysis.Summary != "Standup recap" {
		t.Fatalf("unexpected summary %q", analysis.Summary)
	}
	if len(analysis.ActionItems) != 1 || analysis.ActionItems[0].Description != "Fix the flaky test" {
		t.Fatalf("unexpected items %+v", analysis.ActionItems)
	}
}

func TestGroqExtract_RetriesServerErrors(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		modelReply(t, w, `{"summary": "recovered", "action_items": []}`)
	}))
	defer ts.Close()

	client := NewGroqClient(config.AIConfig{APIKey: "test-key", BaseURL: ts.URL})

	analysis, err := client.Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("extract failed after retries: %v", err)
	}
	if analysis.Summary != "recovered" {
		t.Fatalf("unexpected summary %q", analysis.Summary)
	}
	if calls != 3 {
		t.Fatalf("expected 2 failures then success, got %d calls", calls)
	}
}

func TestGroqExtract_ClientErrorIsPermanent(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewGroqClient(config.AIConfig{APIKey: "bad-key", BaseURL: ts.URL})

	if _, err := client.Extract(context.Background(), "transcript"); err == nil {
		t.Fatal("expected error on 401")
	}
	if calls != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", calls)
	}
}
