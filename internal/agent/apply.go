package agent

import (
	"context"
	"sort"

	"muselink/internal/latex"
)

// Apply runs the named strategy over the candidates and returns the
// enriched entities plus a fallback reason. Any failure — unknown
// strategy, tool error, unusable output — returns the original candidates
// unchanged with a non-empty reason; enrichment is never fatal.
func Apply(ctx context.Context, doc string, candidates []latex.MusicEntity, name string, opts Options) ([]latex.MusicEntity, string) {
	if name == "" || name == NoopName {
		return candidates, ""
	}

	strategy, err := New(name, opts)
	if err != nil {
		return candidates, err.Error()
	}

	enriched, err := strategy.Enrich(ctx, doc, candidates)
	if err != nil {
		return candidates, err.Error()
	}
	if len(enriched) == 0 {
		return candidates, "agent returned no entities"
	}
	return restoreSpanOrder(enriched), ""
}

// restoreSpanOrder re-sorts enriched entities by StartOffset and drops
// any whose span overlaps a predecessor. Strategies may echo records in
// any order; the rewriter's gap copy requires strictly forward spans.
func restoreSpanOrder(entities []latex.MusicEntity) []latex.MusicEntity {
	sorted := make([]latex.MusicEntity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartOffset < sorted[j].StartOffset
	})

	kept := sorted[:0]
	cursor := 0
	for _, e := range sorted {
		if len(kept) > 0 && e.StartOffset < cursor {
			continue
		}
		kept = append(kept, e)
		cursor = e.EndOffset
	}
	return kept
}
