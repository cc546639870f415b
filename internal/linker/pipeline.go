package linker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"muselink/internal/agent"
	"muselink/internal/config"
	"muselink/internal/latex"
	"muselink/internal/logging"
	"muselink/internal/services"
	"muselink/internal/services/itunes"
	"muselink/internal/services/songlink"
)

// PlatformResolver maps entity metadata to a canonical platform URL.
type PlatformResolver interface {
	Resolve(ctx context.Context, name, artist string, kind latex.Kind, year int) (itunes.Result, error)
}

// SmartLinkResolver maps a platform URL to a cross-platform smart link.
type SmartLinkResolver interface {
	Resolve(ctx context.Context, platformURL string) songlink.Result
}

// Pipeline runs the full detect → enrich → resolve → rewrite flow over a
// document. Entities are resolved one at a time in span order, so log
// output follows document order deterministically.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	platform PlatformResolver
	smart    SmartLinkResolver
}

// Option customizes the pipeline.
type Option func(*Pipeline)

// WithPlatformResolver overrides the catalog search client (for testing).
func WithPlatformResolver(r PlatformResolver) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.platform = r
		}
	}
}

// WithSmartLinkResolver overrides the smart-link client (for testing).
func WithSmartLinkResolver(r SmartLinkResolver) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.smart = r
		}
	}
}

// New constructs a pipeline from configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: logger,
		platform: itunes.NewClient(itunes.Config{
			BaseURL:        cfg.Resolver.SearchBaseURL,
			Country:        cfg.Resolver.Country,
			Limit:          cfg.Resolver.Limit,
			Retries:        cfg.Resolver.Retries,
			BackoffBase:    time.Duration(cfg.Resolver.BackoffMS) * time.Millisecond,
			TimeoutSeconds: cfg.Resolver.TimeoutSeconds,
		}),
		smart: songlink.NewClient(songlink.WithRedirectorPrefix(cfg.Resolver.RedirectorPrefix)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessString runs the normal linking flow over a document and returns
// the rewritten text. A document with nothing to link comes back
// unchanged; only configuration problems surface as errors.
func (p *Pipeline) ProcessString(ctx context.Context, doc string) (string, error) {
	ctx = p.runContext(ctx)
	logger := logging.WithContext(ctx, p.logger)

	candidates := latex.FindCandidates(doc)
	if len(candidates) == 0 {
		logger.Info("no music markers detected")
		return doc, nil
	}
	logger.Info("detected candidates", "count", len(candidates))

	entities := p.enrich(ctx, logger, doc, candidates)
	if err := p.resolve(ctx, logger, entities); err != nil {
		return "", err
	}
	return latex.ApplyLinks(doc, entities), nil
}

// RetryString re-attempts resolution for wrappers that previously
// resolved to the not-found sentinel. Wrappers that fail again are
// unwrapped to bare markers so the normal flow can pick them up later.
func (p *Pipeline) RetryString(ctx context.Context, doc string) (string, error) {
	ctx = p.runContext(ctx)
	logger := logging.WithContext(ctx, p.logger)

	failed := latex.FindFailedLinks(doc)
	if len(failed) == 0 {
		logger.Info("no failed link wrappers detected")
		return doc, nil
	}
	logger.Info("retrying failed links", "count", len(failed))

	entities := p.enrich(ctx, logger, doc, failed)
	if err := p.resolve(ctx, logger, entities); err != nil {
		return "", err
	}
	return latex.SpliceFailedLinks(doc, entities), nil
}

func (p *Pipeline) enrich(ctx context.Context, logger *slog.Logger, doc string, candidates []latex.MusicEntity) []latex.MusicEntity {
	entities, reason := agent.Apply(ctx, doc, candidates, p.cfg.Agent.Name, agent.Options{
		Model:      p.cfg.Agent.Model,
		PromptPath: p.cfg.Agent.PromptPath,
		ToolsPath:  p.cfg.Agent.ToolsPath,
		Binary:     p.cfg.Agent.Binary,
	})
	if reason != "" {
		logger.Warn("agent enrichment failed; falling back to detected candidates", "reason", reason)
	}
	return entities
}

// resolve fills in PlatformURL and SmartLinkURL in place. Per-entity
// failures are logged and skipped; the only returned error is a fatal
// configuration problem from the platform resolver.
func (p *Pipeline) resolve(ctx context.Context, logger *slog.Logger, entities []latex.MusicEntity) error {
	for i := range entities {
		e := &entities[i]
		result, err := p.platform.Resolve(ctx, e.Name, e.Artist, e.Kind, e.Year)
		if err != nil {
			return err
		}
		e.PlatformURL = result.URL
		if result.URL == "" {
			logger.Warn("platform resolution failed", "name", e.Name, "kind", string(e.Kind))
			continue
		}
		logger.Info("platform resolved", "name", e.Name, "url", result.URL, "confidence", result.Confidence)

		smart := p.smart.Resolve(ctx, result.URL)
		if smart.SmartLinkURL == "" {
			logger.Warn("smart link resolution failed", "name", e.Name, "reason", smart.Err)
			continue
		}
		e.SmartLinkURL = smart.SmartLinkURL
		logger.Info("smart link resolved", "name", e.Name, "url", smart.SmartLinkURL)
	}
	return nil
}

// runContext stamps a correlation ID and the agent name so every log
// record from one invocation ties together.
func (p *Pipeline) runContext(ctx context.Context) context.Context {
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	return services.WithAgent(ctx, p.cfg.Agent.Name)
}
