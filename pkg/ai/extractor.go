// Package ai provides transcript analysis through an LLM chat completion
// API, behind a small interface the rest of the codebase depends on.
package ai

import (
	"context"
	"time"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

// Analysis is the structured result of one transcript extraction.
type Analysis struct {
	Summary     string          `json:"summary"`
	ActionItems []ExtractedItem `json:"action_items"`
}

// ExtractedItem is one action item as returned by the model, before entity
// normalization.
type ExtractedItem struct {
	Description string                      `json:"description"`
	Owner       string                      `json:"owner,omitempty"`
	Priority    entities.ActionItemPriority `json:"priority,omitempty"`
	Deadline    *time.Time                  `json:"deadline,omitempty"`
}

// Extractor turns a raw transcript into an Analysis.
type Extractor interface {
	Extract(ctx context.Context, transcript string) (*Analysis, error)
}
