package agent

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"muselink/internal/latex"
)

//go:embed agent_prompt.md
var defaultPrompt string

// DefaultPromptName identifies the packaged prompt in agent payloads.
const DefaultPromptName = "agent_prompt.md"

// systemPrompt loads the system prompt, appending the tool schema file
// when one is configured and present. An unreadable prompt or schema file
// is a strategy error so the adapter can fall back.
func systemPrompt(promptPath, toolsPath string) (string, error) {
	prompt := defaultPrompt
	if promptPath != "" {
		data, err := os.ReadFile(promptPath)
		if err != nil {
			return "", fmt.Errorf("read prompt file %s: %w", promptPath, err)
		}
		prompt = string(data)
	}

	tools := ""
	if toolsPath != "" {
		data, err := os.ReadFile(toolsPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return "", fmt.Errorf("read tool schema file %s: %w", toolsPath, err)
			}
		} else {
			tools = string(data)
		}
	}

	if tools == "" {
		return strings.TrimSpace(prompt), nil
	}
	return strings.TrimSpace(prompt + "\n\nTool schema (YAML):\n" + tools), nil
}

// instructionVersion is the prompt file name echoed into the payload so
// agent transcripts identify which instructions produced them.
func instructionVersion(promptPath string) string {
	if promptPath == "" {
		return DefaultPromptName
	}
	return filepath.Base(promptPath)
}

type payloadCandidate struct {
	CandidateID int `json:"candidate_id"`
	latex.MusicEntity
}

// BuildPayload serializes the document and candidates into the JSON
// object handed to the external tool.
func BuildPayload(doc string, candidates []latex.MusicEntity, promptPath string) (string, error) {
	serialized := make([]payloadCandidate, len(candidates))
	for i, c := range candidates {
		serialized[i] = payloadCandidate{CandidateID: i, MusicEntity: c}
	}
	payload, err := json.Marshal(map[string]any{
		"latex":               doc,
		"candidates":          serialized,
		"instruction_version": instructionVersion(promptPath),
	})
	if err != nil {
		return "", fmt.Errorf("encode agent payload: %w", err)
	}
	return string(payload), nil
}
