package testutil

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestClockHelpers(t *testing.T) {
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	if got := NowAt(now)(); !got.Equal(now) {
		t.Fatalf("expected fixed time, got %v", got)
	}
	if MustParseRFC3339(now.Format(time.RFC3339)) != now {
		t.Fatalf("expected parse round trip")
	}
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on invalid RFC3339")
		}
	}()
	MustParseRFC3339("not-a-time")
}

func TestFixtureHelpers(t *testing.T) {
	g := SampleGame("id-1")
	if g.ID != "id-1" || g.Name == "" || len(g.PlayLogs) == 0 {
		t.Fatalf("unexpected game fixture %+v", g)
	}
	if minted := SampleGame(""); minted.ID == "" {
		t.Fatalf("expected a minted id")
	}
	snapshot := SampleSnapshot("id-1", "2024-03-08T12:00:00Z")
	if snapshot.UpdatedAt != "2024-03-08T12:00:00Z" || len(snapshot.Games) != 1 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}
}

func TestBufferLogger(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("hello", "k", "v")
	if buf.Len() == 0 {
		t.Fatalf("expected buffered log output")
	}
}
