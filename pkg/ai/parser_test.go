package ai

import (
	"testing"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

func TestParseAnalysis_PlainJSON(t *testing.T) {
	content := `{"summary": "Shipping Friday", "action_items": [{"description": "Tag the build", "owner": "Alice", "priority": "high"}]}`

	analysis, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if analysis.Summary != "Shipping Friday" {
		t.Fatalf("unexpected summary %q", analysis.Summary)
	}
	if len(analysis.ActionItems) != 1 {
		t.Fatalf("expected 1 item, got %d", len(analysis.ActionItems))
	}
	if analysis.ActionItems[0].Priority != entities.PriorityHigh {
		t.Fatalf("unexpected priority %q", analysis.ActionItems[0].Priority)
	}
}

func TestParseAnalysis_MarkdownFence(t *testing.T) {
	content := "```json\n{\"summary\": \"ok\", \"action_items\": []}\n```"

	analysis, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if analysis.Summary != "ok" {
		t.Fatalf("unexpected summary %q", analysis.Summary)
	}
}

func TestParseAnalysis_LeadingProse(t *testing.T) {
	content := `Sure! Here is the analysis you asked for:
{"summary": "trimmed", "action_items": []}
Let me know if you need anything else.`

	analysis, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if analysis.Summary != "trimmed" {
		t.Fatalf("unexpected summary %q", analysis.Summary)
	}
}

func TestParseAnalysis_DropsBlankItems(t *testing.T) {
	content := `{"summary": "s", "action_items": [{"description": "   "}, {"description": "real work"}]}`

	analysis, err := parseAnalysis(content)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(analysis.ActionItems) != 1 || analysis.ActionItems[0].Description != "real work" {
		t.Fatalf("blank items must be dropped, got %+v", analysis.ActionItems)
	}
}

func TestParseAnalysis_NoJSON(t *testing.T) {
	if _, err := parseAnalysis("I could not process that transcript."); err == nil {
		t.Fatal("expected error when no JSON object is present")
	}
}
