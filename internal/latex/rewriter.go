package latex

import (
	"fmt"
	"strings"
)

// WrapLink renders the output hyperlink wrapper for a resolved marker.
func WrapLink(smartLinkURL, sourceText string) string {
	return fmt.Sprintf(`\href{%s}{%s}`, smartLinkURL, sourceText)
}

// ApplyLinks splices link wrappers into the document at the offsets
// recorded on each entity. Entities without a SmartLinkURL are ignored;
// when none carry one the document is returned unchanged. Everything
// outside entity spans is copied verbatim.
//
// Callers must pass entities sorted ascending by StartOffset with
// non-overlapping spans, as produced by FindCandidates. An entity whose
// SourceText already contains a link command is emitted unwrapped so a
// document is never double-linked.
func ApplyLinks(doc string, entities []MusicEntity) string {
	resolved := make([]MusicEntity, 0, len(entities))
	for _, e := range entities {
		if e.SmartLinkURL != "" {
			resolved = append(resolved, e)
		}
	}
	if len(resolved) == 0 {
		return doc
	}

	var out strings.Builder
	cursor := 0
	for _, e := range resolved {
		out.WriteString(doc[cursor:e.StartOffset])
		if alreadyLinked(e.SourceText) {
			out.WriteString(e.SourceText)
		} else {
			out.WriteString(WrapLink(e.SmartLinkURL, e.SourceText))
		}
		cursor = e.EndOffset
	}
	out.WriteString(doc[cursor:])
	return out.String()
}

func alreadyLinked(sourceText string) bool {
	return strings.Contains(sourceText, `\href`) || strings.Contains(sourceText, `\gref`)
}

// SpliceFailedLinks rewrites the wrappers found by FindFailedLinks. A
// wrapper whose entity resolved this round is replaced with a fresh link;
// one that failed again is replaced with the bare inner marker, leaving it
// re-detectable by the normal candidate pass.
func SpliceFailedLinks(doc string, entities []MusicEntity) string {
	if len(entities) == 0 {
		return doc
	}
	var out strings.Builder
	cursor := 0
	for _, e := range entities {
		out.WriteString(doc[cursor:e.StartOffset])
		if e.SmartLinkURL != "" {
			out.WriteString(WrapLink(e.SmartLinkURL, e.SourceText))
		} else {
			out.WriteString(e.SourceText)
		}
		cursor = e.EndOffset
	}
	out.WriteString(doc[cursor:])
	return out.String()
}
