package agent

import (
	"strconv"
	"strings"

	"muselink/internal/latex"
)

// rawEntity is one record returned by an external tool. Field types are
// deliberately loose: tools emit indices and years as numbers or digit
// strings, and anything unparsable falls back to the candidate's value.
type rawEntity struct {
	CandidateID any    `json:"candidate_id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Kind        string `json:"kind"`
	Year        any    `json:"year"`
	SourceText  string `json:"source_text"`
}

// mergeEntities reconciles tool output against the original candidates.
// Records are matched by candidate index first, then by exact SourceText;
// unmatched records are dropped rather than fabricated into new spans, and
// each candidate merges at most once so the result never outgrows the
// input. Offsets always come from the matched candidate — detection owns
// them.
func mergeEntities(raw []rawEntity, candidates []latex.MusicEntity) []latex.MusicEntity {
	merged := make([]latex.MusicEntity, 0, len(candidates))
	used := make(map[int]bool, len(candidates))

	for _, item := range raw {
		idx, ok := matchCandidate(item, candidates)
		if !ok || used[idx] {
			continue
		}
		used[idx] = true

		entity := candidates[idx]
		if name := strings.TrimSpace(item.Name); name != "" {
			entity.Name = name
		}
		if artist := strings.TrimSpace(item.Artist); artist != "" {
			entity.Artist = artist
		}
		if kind := latex.Kind(strings.TrimSpace(item.Kind)); kind.Valid() {
			entity.Kind = kind
		}
		if year, ok := coerceInt(item.Year); ok {
			entity.Year = year
		}
		if source := item.SourceText; source != "" {
			entity.SourceText = source
		}
		merged = append(merged, entity)
	}
	return merged
}

func matchCandidate(item rawEntity, candidates []latex.MusicEntity) (int, bool) {
	if idx, ok := coerceInt(item.CandidateID); ok && idx >= 0 && idx < len(candidates) {
		return idx, true
	}
	if item.SourceText != "" {
		for i, c := range candidates {
			if c.SourceText == item.SourceText {
				return i, true
			}
		}
	}
	return 0, false
}

// coerceInt accepts JSON numbers and digit strings.
func coerceInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		for _, r := range trimmed {
			if r < '0' || r > '9' {
				return 0, false
			}
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
