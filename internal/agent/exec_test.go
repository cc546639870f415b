package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"muselink/internal/services"
)

func fakeRunner(output string, err error) CommandRunner {
	return func(context.Context, string, ...string) (string, error) {
		return output, err
	}
}

func TestExecStrategyEnrich(t *testing.T) {
	strategy := NewExecStrategy("llm", "llm", llmArgs, Options{}).
		WithCommandRunner(fakeRunner(`{"entities":[{"candidate_id":0,"artist":"Artist","year":2020}]}`, nil))

	candidates := sampleCandidates()
	enriched, err := strategy.Enrich(context.Background(), "doc", candidates)
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if len(enriched) != 1 || enriched[0].Artist != "Artist" || enriched[0].Year != 2020 {
		t.Fatalf("unexpected enrichment: %+v", enriched)
	}
}

func TestExecStrategyBareListOutput(t *testing.T) {
	strategy := NewExecStrategy("llm", "llm", llmArgs, Options{}).
		WithCommandRunner(fakeRunner(`[{"candidate_id":1,"artist":"Somebody"}]`, nil))

	enriched, err := strategy.Enrich(context.Background(), "doc", sampleCandidates())
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if len(enriched) != 1 || enriched[0].Artist != "Somebody" {
		t.Fatalf("unexpected enrichment: %+v", enriched)
	}
}

func TestExecStrategyFencedOutput(t *testing.T) {
	output := "```json\n{\"entities\":[{\"candidate_id\":0,\"artist\":\"Fenced\"}]}\n```"
	strategy := NewExecStrategy("llm", "llm", llmArgs, Options{}).
		WithCommandRunner(fakeRunner(output, nil))

	enriched, err := strategy.Enrich(context.Background(), "doc", sampleCandidates())
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if len(enriched) != 1 || enriched[0].Artist != "Fenced" {
		t.Fatalf("unexpected enrichment: %+v", enriched)
	}
}

func TestExecStrategyInvalidJSON(t *testing.T) {
	strategy := NewExecStrategy("llm", "llm", llmArgs, Options{}).
		WithCommandRunner(fakeRunner("I could not parse that document.", nil))

	if _, err := strategy.Enrich(context.Background(), "doc", sampleCandidates()); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}

func TestExecStrategyAllRecordsUnmatched(t *testing.T) {
	strategy := NewExecStrategy("llm", "llm", llmArgs, Options{}).
		WithCommandRunner(fakeRunner(`[{"candidate_id":42,"name":"Invented"}]`, nil))

	_, err := strategy.Enrich(context.Background(), "doc", sampleCandidates())
	if err == nil || !strings.Contains(err.Error(), "no usable entities") {
		t.Fatalf("expected no-usable-entities error, got %v", err)
	}
}

func TestExecStrategyPayloadShape(t *testing.T) {
	var gotArgs []string
	strategy := NewExecStrategy("llm", "llm", llmArgs, Options{Model: "test-model"}).
		WithCommandRunner(func(_ context.Context, _ string, args ...string) (string, error) {
			gotArgs = args
			return `[{"candidate_id":0}]`, nil
		})

	doc := `Artist's \album{Some Album}`
	if _, err := strategy.Enrich(context.Background(), doc, sampleCandidates()); err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if len(gotArgs) != 5 || gotArgs[0] != "-m" || gotArgs[1] != "test-model" || gotArgs[2] != "-s" {
		t.Fatalf("unexpected llm args: %v", gotArgs)
	}

	var payload struct {
		Latex      string `json:"latex"`
		Candidates []struct {
			CandidateID int    `json:"candidate_id"`
			Name        string `json:"name"`
			SourceText  string `json:"source_text"`
		} `json:"candidates"`
		InstructionVersion string `json:"instruction_version"`
	}
	if err := json.Unmarshal([]byte(gotArgs[4]), &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.Latex != doc {
		t.Fatalf("payload latex mismatch: %q", payload.Latex)
	}
	if len(payload.Candidates) != 2 || payload.Candidates[1].CandidateID != 1 {
		t.Fatalf("unexpected candidates: %+v", payload.Candidates)
	}
	if payload.InstructionVersion != DefaultPromptName {
		t.Fatalf("unexpected instruction version %q", payload.InstructionVersion)
	}
}

func TestClaudeArgsShape(t *testing.T) {
	args := claudeArgs("ignored-model", "PROMPT", "PAYLOAD")
	want := []string{"--print", "-p", "PROMPT", "PAYLOAD"}
	if len(args) != len(want) {
		t.Fatalf("unexpected args: %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("arg %d = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestExecStrategyBinaryOverride(t *testing.T) {
	var gotBinary string
	strategy := NewExecStrategy("llm", "llm", llmArgs, Options{Binary: "my-llm"}).
		WithCommandRunner(func(_ context.Context, name string, _ ...string) (string, error) {
			gotBinary = name
			return `[{"candidate_id":0}]`, nil
		})
	if _, err := strategy.Enrich(context.Background(), "doc", sampleCandidates()); err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if gotBinary != "my-llm" {
		t.Fatalf("expected binary override, got %q", gotBinary)
	}
}

func TestExecStrategyMissingBinaryClassified(t *testing.T) {
	strategy := NewExecStrategy("llm", "muselink-test-no-such-binary", llmArgs, Options{})
	_, err := strategy.Enrich(context.Background(), "doc", sampleCandidates())
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external-tool marker, got %v", err)
	}
}
