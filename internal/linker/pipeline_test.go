package linker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"muselink/internal/agent"
	"muselink/internal/config"
	"muselink/internal/latex"
	"muselink/internal/services/itunes"
	"muselink/internal/services/songlink"
)

type stubPlatform struct {
	resolve func(name, artist string, kind latex.Kind, year int) (itunes.Result, error)
}

func (s stubPlatform) Resolve(_ context.Context, name, artist string, kind latex.Kind, year int) (itunes.Result, error) {
	return s.resolve(name, artist, kind, year)
}

type stubSmart struct {
	resolve func(platformURL string) songlink.Result
}

func (s stubSmart) Resolve(_ context.Context, platformURL string) songlink.Result {
	return s.resolve(platformURL)
}

func alwaysResolving() (stubPlatform, stubSmart) {
	platform := stubPlatform{resolve: func(name, _ string, _ latex.Kind, _ int) (itunes.Result, error) {
		return itunes.Result{Platform: "apple_music", URL: "https://music.apple.com/x/" + name, Confidence: 0.9}, nil
	}}
	smart := stubSmart{resolve: func(platformURL string) songlink.Result {
		return songlink.Result{SmartLinkURL: "https://song.link/" + platformURL}
	}}
	return platform, smart
}

func newTestPipeline(t *testing.T, platform PlatformResolver, smart SmartLinkResolver) *Pipeline {
	t.Helper()
	cfg := config.Default()
	return New(&cfg, nil, WithPlatformResolver(platform), WithSmartLinkResolver(smart))
}

func TestProcessStringEndToEnd(t *testing.T) {
	platform := stubPlatform{resolve: func(name, _ string, _ latex.Kind, _ int) (itunes.Result, error) {
		return itunes.Result{Platform: "apple_music", URL: "platform://" + name, Confidence: 1}, nil
	}}
	smart := stubSmart{resolve: func(platformURL string) songlink.Result {
		return songlink.Result{SmartLinkURL: "https://song.link/" + platformURL}
	}}
	p := newTestPipeline(t, platform, smart)

	doc := `Artist's \album{Some Album} (2020) and \song{Hit Single}.`
	got, err := p.ProcessString(context.Background(), doc)
	if err != nil {
		t.Fatalf("ProcessString failed: %v", err)
	}
	want := `Artist's \href{https://song.link/platform://Some Album}{\album{Some Album}} (2020) and ` +
		`\href{https://song.link/platform://Hit Single}{\song{Hit Single}}.`
	if got != want {
		t.Fatalf("ProcessString =\n%q\nwant\n%q", got, want)
	}
}

func TestProcessStringNoMarkersUnchanged(t *testing.T) {
	platform, smart := alwaysResolving()
	p := newTestPipeline(t, platform, smart)

	doc := "Plain text without any markers."
	got, err := p.ProcessString(context.Background(), doc)
	if err != nil || got != doc {
		t.Fatalf("expected unchanged doc, got %q err %v", got, err)
	}
}

func TestProcessStringZeroResolutionsUnchanged(t *testing.T) {
	platform := stubPlatform{resolve: func(string, string, latex.Kind, int) (itunes.Result, error) {
		return itunes.Result{}, nil
	}}
	smart := stubSmart{resolve: func(string) songlink.Result {
		t.Fatal("smart resolver should not run without a platform URL")
		return songlink.Result{}
	}}
	p := newTestPipeline(t, platform, smart)

	doc := `One \song{Unfindable Song} here.`
	got, err := p.ProcessString(context.Background(), doc)
	if err != nil {
		t.Fatalf("ProcessString failed: %v", err)
	}
	if got != doc {
		t.Fatalf("zero resolutions should leave the document unchanged, got %q", got)
	}
}

func TestProcessStringSmartLinkFailureIsSoft(t *testing.T) {
	platform, _ := alwaysResolving()
	smart := stubSmart{resolve: func(string) songlink.Result {
		return songlink.Result{Err: "redirect target is not-found"}
	}}
	p := newTestPipeline(t, platform, smart)

	doc := `A \album{Lost Album} reference.`
	got, err := p.ProcessString(context.Background(), doc)
	if err != nil {
		t.Fatalf("ProcessString failed: %v", err)
	}
	if got != doc {
		t.Fatalf("smart-link failure should leave the document unchanged, got %q", got)
	}
}

func TestProcessStringAgentFallbackMatchesHeuristic(t *testing.T) {
	platform, smart := alwaysResolving()
	doc := `Artist's \album{Some Album}`

	heuristic := newTestPipeline(t, platform, smart)
	wantOut, err := heuristic.ProcessString(context.Background(), doc)
	if err != nil {
		t.Fatalf("heuristic run failed: %v", err)
	}

	cfg := config.Default()
	cfg.Agent.Name = "missing-agent"
	fallback := New(&cfg, nil, WithPlatformResolver(platform), WithSmartLinkResolver(smart))
	gotOut, err := fallback.ProcessString(context.Background(), doc)
	if err != nil {
		t.Fatalf("fallback run failed: %v", err)
	}
	if gotOut != wantOut {
		t.Fatalf("fallback output diverged:\n got %q\nwant %q", gotOut, wantOut)
	}
}

type reversingStrategy struct{}

func (reversingStrategy) Name() string { return "reversing" }

func (reversingStrategy) Enrich(_ context.Context, _ string, candidates []latex.MusicEntity) ([]latex.MusicEntity, error) {
	reversed := make([]latex.MusicEntity, 0, len(candidates))
	for i := len(candidates) - 1; i >= 0; i-- {
		reversed = append(reversed, candidates[i])
	}
	return reversed, nil
}

func TestProcessStringToleratesReorderedAgentOutput(t *testing.T) {
	if err := agent.Register("reversing", func(agent.Options) (agent.Strategy, error) {
		return reversingStrategy{}, nil
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	platform, smart := alwaysResolving()
	doc := `First \album{Some Album}, then \song{Hit Single}.`

	heuristic := newTestPipeline(t, platform, smart)
	wantOut, err := heuristic.ProcessString(context.Background(), doc)
	if err != nil {
		t.Fatalf("heuristic run failed: %v", err)
	}

	cfg := config.Default()
	cfg.Agent.Name = "reversing"
	reordered := New(&cfg, nil, WithPlatformResolver(platform), WithSmartLinkResolver(smart))
	gotOut, err := reordered.ProcessString(context.Background(), doc)
	if err != nil {
		t.Fatalf("reordered run failed: %v", err)
	}
	if gotOut != wantOut {
		t.Fatalf("reordered output diverged:\n got %q\nwant %q", gotOut, wantOut)
	}
}

func TestProcessStringSkipsLinkedMarkers(t *testing.T) {
	platform, smart := alwaysResolving()
	p := newTestPipeline(t, platform, smart)

	doc := `\href{https://song.link/a}{\song{Linked}} and \song{Bare}`
	got, err := p.ProcessString(context.Background(), doc)
	if err != nil {
		t.Fatalf("ProcessString failed: %v", err)
	}
	want := `\href{https://song.link/a}{\song{Linked}} and \href{https://song.link/https://music.apple.com/x/Bare}{\song{Bare}}`
	if got != want {
		t.Fatalf("ProcessString = %q, want %q", got, want)
	}
}

func TestProcessStringFatalResolverError(t *testing.T) {
	wantErr := errors.New("configuration error: unsupported kind")
	platform := stubPlatform{resolve: func(string, string, latex.Kind, int) (itunes.Result, error) {
		return itunes.Result{}, wantErr
	}}
	smart := stubSmart{resolve: func(string) songlink.Result { return songlink.Result{} }}
	p := newTestPipeline(t, platform, smart)

	if _, err := p.ProcessString(context.Background(), `\song{X}`); !errors.Is(err, wantErr) {
		t.Fatalf("expected fatal resolver error, got %v", err)
	}
}

func TestRetryStringResolvesFailedWrapper(t *testing.T) {
	platform, smart := alwaysResolving()
	p := newTestPipeline(t, platform, smart)

	doc := `pre \href{https://song.link/not-found}{\song{Future Legend}} post`
	got, err := p.RetryString(context.Background(), doc)
	if err != nil {
		t.Fatalf("RetryString failed: %v", err)
	}
	want := `pre \href{https://song.link/https://music.apple.com/x/Future Legend}{\song{Future Legend}} post`
	if got != want {
		t.Fatalf("RetryString = %q, want %q", got, want)
	}
}

func TestRetryStringUnwrapsStillFailing(t *testing.T) {
	platform := stubPlatform{resolve: func(string, string, latex.Kind, int) (itunes.Result, error) {
		return itunes.Result{}, nil
	}}
	smart := stubSmart{resolve: func(string) songlink.Result { return songlink.Result{} }}
	p := newTestPipeline(t, platform, smart)

	doc := `pre \href{https://song.link/not-found}{\album{Ghost Album}} post`
	got, err := p.RetryString(context.Background(), doc)
	if err != nil {
		t.Fatalf("RetryString failed: %v", err)
	}
	want := `pre \album{Ghost Album} post`
	if got != want {
		t.Fatalf("RetryString = %q, want %q", got, want)
	}
}

func TestRetryStringNoWrappersUnchanged(t *testing.T) {
	platform, smart := alwaysResolving()
	p := newTestPipeline(t, platform, smart)

	doc := `Only a bare \song{Marker} here.`
	got, err := p.RetryString(context.Background(), doc)
	if err != nil || got != doc {
		t.Fatalf("expected unchanged doc, got %q err %v", got, err)
	}
}

func TestProcessFileWritesOutput(t *testing.T) {
	platform, smart := alwaysResolving()
	p := newTestPipeline(t, platform, smart)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.tex")
	out := filepath.Join(dir, "out.tex")
	if err := os.WriteFile(in, []byte(`\song{Hit Single}`), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := p.ProcessFile(context.Background(), in, out); err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := `\href{https://song.link/https://music.apple.com/x/Hit Single}{\song{Hit Single}}`
	if string(data) != want {
		t.Fatalf("output = %q, want %q", string(data), want)
	}
}

func TestProcessFileMissingInputIsFatal(t *testing.T) {
	platform, smart := alwaysResolving()
	p := newTestPipeline(t, platform, smart)

	err := p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "absent.tex"), "out.tex")
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestProcessFileInPlace(t *testing.T) {
	platform, smart := alwaysResolving()
	p := newTestPipeline(t, platform, smart)

	path := filepath.Join(t.TempDir(), "doc.tex")
	if err := os.WriteFile(path, []byte(`\album{In Place}`), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := p.ProcessFile(context.Background(), path, path); err != nil {
		t.Fatalf("in-place ProcessFile failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	want := `\href{https://song.link/https://music.apple.com/x/In Place}{\album{In Place}}`
	if string(data) != want {
		t.Fatalf("output = %q, want %q", string(data), want)
	}
	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Fatalf("lock file should be removed, stat err %v", err)
	}
}

func TestRetryFileRoundTrip(t *testing.T) {
	platform, smart := alwaysResolving()
	p := newTestPipeline(t, platform, smart)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.tex")
	out := filepath.Join(dir, "out.tex")
	content := fmt.Sprintf(`intro \href{%s}{\song{Future Legend}} outro`, latex.FailedSentinelURL)
	if err := os.WriteFile(in, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := p.RetryFile(context.Background(), in, out); err != nil {
		t.Fatalf("RetryFile failed: %v", err)
	}
	data, _ := os.ReadFile(out)
	want := `intro \href{https://song.link/https://music.apple.com/x/Future Legend}{\song{Future Legend}} outro`
	if string(data) != want {
		t.Fatalf("output = %q, want %q", string(data), want)
	}
}
