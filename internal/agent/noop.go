package agent

import (
	"context"

	"muselink/internal/latex"
)

func init() {
	if err := Register(NoopName, func(Options) (Strategy, error) {
		return noopStrategy{}, nil
	}); err != nil {
		panic(err)
	}
}

// noopStrategy returns the detector's candidates unchanged.
type noopStrategy struct{}

func (noopStrategy) Name() string { return NoopName }

func (noopStrategy) Enrich(_ context.Context, _ string, candidates []latex.MusicEntity) ([]latex.MusicEntity, error) {
	return candidates, nil
}
