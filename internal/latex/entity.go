package latex

// Kind distinguishes the two marker grammars the detector recognizes.
type Kind string

const (
	// KindAlbum marks an \album{...} reference.
	KindAlbum Kind = "album"
	// KindTrack marks a \song{...} reference.
	KindTrack Kind = "track"
)

// Valid reports whether the kind is one of the supported marker kinds.
func (k Kind) Valid() bool {
	return k == KindAlbum || k == KindTrack
}

// UnknownArtist is the sentinel artist value before enrichment runs.
const UnknownArtist = "UNKNOWN"

// MusicEntity is one detected music reference and its resolution state.
//
// StartOffset and EndOffset are a half-open byte range into the original
// document. Detection assigns them once; later stages only fill in the
// content and URL fields. Entities returned by the detector are sorted
// ascending by StartOffset and never overlap, which is what makes the
// sequential splice in ApplyLinks safe.
type MusicEntity struct {
	Name         string `json:"name"`
	Artist       string `json:"artist"`
	Kind         Kind   `json:"kind"`
	Year         int    `json:"year"` // four-digit release year, 0 when unknown
	SourceText   string `json:"source_text"`
	StartOffset  int    `json:"start_offset"`
	EndOffset    int    `json:"end_offset"`
	PlatformURL  string `json:"platform_url,omitempty"`
	SmartLinkURL string `json:"smart_link_url,omitempty"`
}
