package gtts_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine"
	"github.com/Abhi95081/AI-AudioBook-Generator/pkg/synth/engine/gtts"
)

// recordingServer captures translate_tts requests and serves canned MP3 data
// whose content encodes the request index.
type recordingServer struct {
	mu       sync.Mutex
	requests []*http.Request
	queries  []string
}

func (s *recordingServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r)
		s.queries = append(s.queries, r.URL.Query().Get("q"))
		n := len(s.requests)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte{0xFF, 0xFB, byte(n)})
	}
}

func TestSynthesizeSingleSegment(t *testing.T) {
	t.Parallel()

	srv := &recordingServer{}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	e := gtts.New(gtts.WithBaseURL(ts.URL))
	audio, err := e.Synthesize(context.Background(), "hello world", engine.Options{Language: "de"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if audio.Extension != "mp3" {
		t.Errorf("Extension = %q, want mp3", audio.Extension)
	}
	if len(srv.requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(srv.requests))
	}

	q := srv.requests[0].URL.Query()
	if q.Get("q") != "hello world" {
		t.Errorf("q = %q, want %q", q.Get("q"), "hello world")
	}
	if q.Get("tl") != "de" {
		t.Errorf("tl = %q, want de", q.Get("tl"))
	}
	if q.Get("client") != "tw-ob" {
		t.Errorf("client = %q, want tw-ob", q.Get("client"))
	}
}

func TestSynthesizeSplitsLongText(t *testing.T) {
	t.Parallel()

	srv := &recordingServer{}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	// ~350 characters of short words: must split into at least 2 segments of
	// at most 200 characters each.
	text := strings.TrimSpace(strings.Repeat("lorem ipsum dolor sit amet ", 13))

	e := gtts.New(gtts.WithBaseURL(ts.URL))
	audio, err := e.Synthesize(context.Background(), text, engine.Options{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if len(srv.requests) < 2 {
		t.Fatalf("got %d requests, want at least 2 for %d chars", len(srv.requests), len(text))
	}
	for i, q := range srv.queries {
		if len([]rune(q)) > 200 {
			t.Errorf("segment %d exceeds 200 chars: %d", i, len([]rune(q)))
		}
	}
	if got := strings.Join(srv.queries, ""); got != text {
		t.Errorf("segments do not reassemble the input text:\ngot:  %q\nwant: %q", got, text)
	}

	// Segments are concatenated in order.
	want := []byte{0xFF, 0xFB, 1, 0xFF, 0xFB, 2}
	if !bytes.HasPrefix(audio.Data, want) {
		t.Errorf("Data = %v..., want prefix %v", audio.Data[:min(6, len(audio.Data))], want)
	}
}

func TestSynthesizeServerError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	e := gtts.New(gtts.WithBaseURL(ts.URL))
	if _, err := e.Synthesize(context.Background(), "hello", engine.Options{}); err == nil {
		t.Error("Synthesize: want error for non-200 response")
	}
}

func TestAvailableAlwaysNil(t *testing.T) {
	t.Parallel()

	if err := gtts.New().Available(context.Background()); err != nil {
		t.Errorf("Available = %v, want nil", err)
	}
}
