package latex

import "testing"

func TestApplyLinksWrapsResolvedEntities(t *testing.T) {
	doc := `Artist's \album{Some Album}`
	entities := FindCandidates(doc)
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	entities[0].SmartLinkURL = "https://album.link/example"

	got := ApplyLinks(doc, entities)
	want := `Artist's \href{https://album.link/example}{\album{Some Album}}`
	if got != want {
		t.Fatalf("ApplyLinks = %q, want %q", got, want)
	}
}

func TestApplyLinksRoundTripWithoutResolutions(t *testing.T) {
	doc := `Intro \album{One} middle \song{Two} outro`
	entities := FindCandidates(doc)
	if got := ApplyLinks(doc, entities); got != doc {
		t.Fatalf("unresolved entities must leave the document unchanged:\n got %q\nwant %q", got, doc)
	}
	if got := ApplyLinks(doc, nil); got != doc {
		t.Fatalf("nil entities must leave the document unchanged, got %q", got)
	}
}

func TestApplyLinksPreservesGaps(t *testing.T) {
	doc := `aaa \song{X} bbb \album{Y} ccc`
	entities := FindCandidates(doc)
	entities[0].SmartLinkURL = "https://song.link/x"
	entities[1].SmartLinkURL = "https://album.link/y"

	got := ApplyLinks(doc, entities)
	want := `aaa \href{https://song.link/x}{\song{X}} bbb \href{https://album.link/y}{\album{Y}} ccc`
	if got != want {
		t.Fatalf("ApplyLinks = %q, want %q", got, want)
	}
}

func TestApplyLinksSkipsPartiallyResolved(t *testing.T) {
	doc := `\song{One} and \song{Two}`
	entities := FindCandidates(doc)
	entities[1].SmartLinkURL = "https://song.link/two"

	got := ApplyLinks(doc, entities)
	want := `\song{One} and \href{https://song.link/two}{\song{Two}}`
	if got != want {
		t.Fatalf("ApplyLinks = %q, want %q", got, want)
	}
}

func TestApplyLinksDoubleWrapGuard(t *testing.T) {
	doc := `pre \href{https://song.link/x}{\song{X}} post`
	entity := MusicEntity{
		Name:         "X",
		Kind:         KindTrack,
		SourceText:   `\href{https://song.link/x}{\song{X}}`,
		StartOffset:  4,
		EndOffset:    4 + len(`\href{https://song.link/x}{\song{X}}`),
		SmartLinkURL: "https://song.link/other",
	}
	if got := ApplyLinks(doc, []MusicEntity{entity}); got != doc {
		t.Fatalf("already-linked source text must pass through verbatim, got %q", got)
	}
}

func TestApplyLinksMultibyteGaps(t *testing.T) {
	doc := `héllo \song{Tïtle} wörld`
	entities := FindCandidates(doc)
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	entities[0].SmartLinkURL = "https://song.link/t"

	got := ApplyLinks(doc, entities)
	want := `héllo \href{https://song.link/t}{\song{Tïtle}} wörld`
	if got != want {
		t.Fatalf("ApplyLinks = %q, want %q", got, want)
	}
}

func TestSpliceFailedLinksReplacesWrapper(t *testing.T) {
	doc := `before \href{https://song.link/not-found}{\song{Future Legend}} after`
	entities := FindFailedLinks(doc)
	if len(entities) != 1 {
		t.Fatalf("expected 1 failed link, got %d", len(entities))
	}
	entities[0].SmartLinkURL = "https://song.link/fl"

	got := SpliceFailedLinks(doc, entities)
	want := `before \href{https://song.link/fl}{\song{Future Legend}} after`
	if got != want {
		t.Fatalf("SpliceFailedLinks = %q, want %q", got, want)
	}
}

func TestSpliceFailedLinksUnwrapsStillFailing(t *testing.T) {
	doc := `before \href{https://song.link/not-found}{\album{Ghost Album}} after`
	entities := FindFailedLinks(doc)

	got := SpliceFailedLinks(doc, entities)
	want := `before \album{Ghost Album} after`
	if got != want {
		t.Fatalf("SpliceFailedLinks = %q, want %q", got, want)
	}

	// The bare marker is re-detectable by the normal pass.
	if candidates := FindCandidates(got); len(candidates) != 1 || candidates[0].Name != "Ghost Album" {
		t.Fatalf("unwrapped marker should be detectable again, got %+v", candidates)
	}
}
