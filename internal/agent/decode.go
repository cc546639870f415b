package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// decodeEntities parses the tool's stdout into entity records. The output
// may be `{"entities":[...]}` or a bare list, optionally wrapped in a
// single fenced code block.
func decodeEntities(output string) ([]rawEntity, error) {
	trimmed := strings.TrimSpace(stripCodeFenceBlock(output))
	if trimmed == "" {
		return nil, errors.New("agent produced no output")
	}

	var wrapped struct {
		Entities []rawEntity `json:"entities"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil && wrapped.Entities != nil {
		return wrapped.Entities, nil
	}

	var bare []rawEntity
	if err := json.Unmarshal([]byte(trimmed), &bare); err == nil {
		return bare, nil
	}

	var probe any
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return nil, fmt.Errorf("agent response was not valid JSON: %w", err)
	}
	return nil, errors.New("agent response missing entities list")
}

// stripCodeFenceBlock unwraps a single ``` fenced block, tolerating a
// "json" language tag.
func stripCodeFenceBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
