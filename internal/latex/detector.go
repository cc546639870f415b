package latex

import (
	"regexp"
	"sort"
	"strings"
)

// FailedSentinelURL is the redirect target song.link serves when it cannot
// resolve a platform URL. A wrapper pointing here is eligible for retry.
const FailedSentinelURL = "https://song.link/not-found"

var (
	albumPattern = regexp.MustCompile(`\\album\{([^}]*)\}`)
	trackPattern = regexp.MustCompile(`\\song\{([^}]*)\}`)

	// An open link-wrapper argument before a marker: \href{URL}{ or
	// \gref{URL}{ with no close brace between the argument's open brace
	// and the marker. Text other than braces may intervene, so a marker
	// anywhere inside the wrapper argument counts as linked.
	openWrapperPattern = regexp.MustCompile(`\\(?:href|gref)\{[^}]*\}\{[^}]*$`)

	failedLinkPattern = regexp.MustCompile(`\\href\{` + regexp.QuoteMeta(FailedSentinelURL) + `\}\{(\\(album|song)\{([^}]*)\})\}`)
)

// FindCandidates scans a document for \album{...} and \song{...} markers
// and returns one entity per surviving match, sorted ascending by
// StartOffset. Markers with empty titles and markers that are already the
// argument of a link wrapper are skipped.
func FindCandidates(doc string) []MusicEntity {
	var entities []MusicEntity
	entities = appendMarkerMatches(entities, doc, albumPattern, KindAlbum)
	entities = appendMarkerMatches(entities, doc, trackPattern, KindTrack)
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].StartOffset < entities[j].StartOffset
	})
	return entities
}

func appendMarkerMatches(entities []MusicEntity, doc string, pattern *regexp.Regexp, kind Kind) []MusicEntity {
	for _, m := range pattern.FindAllStringSubmatchIndex(doc, -1) {
		start, end := m[0], m[1]
		title := strings.TrimSpace(doc[m[2]:m[3]])
		if title == "" {
			continue
		}
		if insideLinkWrapper(doc, start) {
			continue
		}
		entities = append(entities, MusicEntity{
			Name:        title,
			Artist:      UnknownArtist,
			Kind:        kind,
			SourceText:  doc[start:end],
			StartOffset: start,
			EndOffset:   end,
		})
	}
	return entities
}

// insideLinkWrapper reports whether the text immediately preceding start
// opens a \href or \gref argument, meaning the marker at start is already
// linked.
func insideLinkWrapper(doc string, start int) bool {
	return openWrapperPattern.MatchString(doc[:start])
}

// FindFailedLinks scans for \href wrappers whose URL is the not-found
// sentinel and whose argument is exactly one album or track marker. The
// returned entity spans the entire wrapper while SourceText holds only the
// inner marker, so a later splice replaces the whole wrapper with either a
// fresh link or the bare marker.
func FindFailedLinks(doc string) []MusicEntity {
	var entities []MusicEntity
	for _, m := range failedLinkPattern.FindAllStringSubmatchIndex(doc, -1) {
		inner := doc[m[2]:m[3]]
		kind := Kind(doc[m[4]:m[5]])
		title := strings.TrimSpace(doc[m[6]:m[7]])
		if title == "" {
			continue
		}
		entities = append(entities, MusicEntity{
			Name:        title,
			Artist:      UnknownArtist,
			Kind:        kind,
			SourceText:  inner,
			StartOffset: m[0],
			EndOffset:   m[1],
		})
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].StartOffset < entities[j].StartOffset
	})
	return entities
}
