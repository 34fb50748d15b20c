package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// parseAnalysis decodes the model's reply. Models wrap JSON in markdown
// fences or lead with prose often enough that the payload is located by
// brace matching rather than trusted as-is.
func parseAnalysis(content string) (*Analysis, error) {
	payload := extractJSON(content)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	// Items without a description are model noise.
	items := analysis.ActionItems[:0]
	for _, item := range analysis.ActionItems {
		if strings.TrimSpace(item.Description) != "" {
			items = append(items, item)
		}
	}
	analysis.ActionItems = items
	return &analysis, nil
}

// extractJSON returns the outermost JSON object inside content.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if fenced := strings.TrimPrefix(content, "```json"); fenced != content {
		content = strings.TrimSuffix(strings.TrimSpace(fenced), "```")
	} else if fenced := strings.TrimPrefix(content, "```"); fenced != content {
		content = strings.TrimSuffix(strings.TrimSpace(fenced), "```")
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}
