package agent

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"muselink/internal/latex"
	"muselink/internal/services"
)

const (
	defaultLLMBinary    = "llm"
	defaultLLMModel     = "gpt-4o-mini"
	defaultClaudeBinary = "claude"
)

func init() {
	builtins := map[string]Factory{
		"llm": func(opts Options) (Strategy, error) {
			return NewExecStrategy("llm", defaultLLMBinary, llmArgs, opts), nil
		},
		"claude-code": func(opts Options) (Strategy, error) {
			return NewExecStrategy("claude-code", defaultClaudeBinary, claudeArgs, opts), nil
		},
	}
	for name, factory := range builtins {
		if err := Register(name, factory); err != nil {
			panic(err)
		}
	}
}

func llmArgs(model, systemPrompt, payload string) []string {
	if model == "" {
		model = defaultLLMModel
	}
	return []string{"-m", model, "-s", systemPrompt, payload}
}

func claudeArgs(_, systemPrompt, payload string) []string {
	return []string{"--print", "-p", systemPrompt, payload}
}

// CommandRunner executes an external tool and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) (string, error)

// ExecStrategy enriches candidates by shelling out to an external
// text-generation CLI that prints JSON entities to stdout.
type ExecStrategy struct {
	name      string
	binary    string
	buildArgs func(model, systemPrompt, payload string) []string
	opts      Options
	runner    CommandRunner
}

// NewExecStrategy builds an exec-backed strategy. The options' Binary
// overrides the default executable name.
func NewExecStrategy(name, binary string, buildArgs func(model, systemPrompt, payload string) []string, opts Options) *ExecStrategy {
	if opts.Binary != "" {
		binary = opts.Binary
	}
	return &ExecStrategy{
		name:      name,
		binary:    binary,
		buildArgs: buildArgs,
		opts:      opts,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *ExecStrategy) WithCommandRunner(runner CommandRunner) *ExecStrategy {
	s.runner = runner
	return s
}

// Name returns the registry name of the strategy.
func (s *ExecStrategy) Name() string { return s.name }

// Enrich serializes the candidates, invokes the external tool, and
// reconciles its JSON output against the originals.
func (s *ExecStrategy) Enrich(ctx context.Context, doc string, candidates []latex.MusicEntity) ([]latex.MusicEntity, error) {
	prompt, err := systemPrompt(s.opts.PromptPath, s.opts.ToolsPath)
	if err != nil {
		return nil, err
	}
	payload, err := BuildPayload(doc, candidates, s.opts.PromptPath)
	if err != nil {
		return nil, err
	}

	output, err := s.run(ctx, s.buildArgs(s.opts.Model, prompt, payload)...)
	if err != nil {
		return nil, err
	}

	raw, err := decodeEntities(output)
	if err != nil {
		return nil, err
	}

	merged := mergeEntities(raw, candidates)
	if len(merged) == 0 {
		return nil, errors.New("agent returned no usable entities")
	}
	return merged, nil
}

func (s *ExecStrategy) run(ctx context.Context, args ...string) (string, error) {
	if s.runner != nil {
		return s.runner(ctx, s.binary, args...)
	}
	if _, err := exec.LookPath(s.binary); err != nil {
		return "", services.Wrap(services.ErrExternalTool, s.name, "run", s.binary+" is not available on PATH", err)
	}
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		marker := services.ErrExternalTool
		if ctx.Err() != nil {
			marker = services.ErrTimeout
		}
		return "", services.Wrap(marker, s.name, "run", strings.TrimSpace(stderr.String()), err)
	}
	output := strings.TrimSpace(stdout.String())
	if output == "" {
		return "", services.Wrap(services.ErrExternalTool, s.name, "run", s.binary+" produced no output", nil)
	}
	return output, nil
}
