package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamelib-service/internal/analytics"
	"gamelib-service/internal/app/library"
	"gamelib-service/internal/domain"
	"gamelib-service/internal/enricher"
	"gamelib-service/internal/store"
)

func testNow() time.Time {
	return time.Date(2024, time.March, 8, 12, 0, 0, 0, time.Local)
}

func newTestHandler(t *testing.T, games ...domain.Game) (*Handler, *library.Service) {
	t.Helper()
	svc := library.NewService(store.NewMemoryStore(), nil, testNow)
	if len(games) > 0 {
		if err := svc.ReplaceLibrary(context.Background(), games); err != nil {
			t.Fatalf("seed library: %v", err)
		}
	}
	h := NewHandler(svc, analytics.DefaultConfig(), nil, nil)
	h.now = testNow
	return h, svc
}

func doRequest(h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	router := NewRouter(h, nil, nil)

	rec := doRequest(router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPost, "/health", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestReadyWithoutStatusFn(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doRequest(NewRouter(h, nil, nil), http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyReflectsEnricherStatus(t *testing.T) {
	h, _ := newTestHandler(t)
	status := enricher.Status{}
	h.statusFn = func() enricher.Status { return status }
	router := NewRouter(h, nil, nil)

	rec := doRequest(router, http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before first success, got %d", rec.Code)
	}

	status.LastSuccess = time.Now()
	rec = doRequest(router, http.MethodGet, "/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after success, got %d", rec.Code)
	}
}

func TestListGamesReturnsSnapshotPayload(t *testing.T) {
	h, _ := newTestHandler(t,
		domain.Game{Name: "Hades", Status: domain.StatusCompleted},
		domain.Game{Name: "Celeste", Status: domain.StatusInProgress},
	)
	rec := doRequest(NewRouter(h, nil, nil), http.MethodGet, "/games", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload domain.LibrarySnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(payload.Games))
	}
	if payload.UpdatedAt == "" {
		t.Fatalf("expected updatedAt stamped")
	}
}

func TestListGamesEmptyLibraryReturnsArray(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doRequest(NewRouter(h, nil, nil), http.MethodGet, "/games", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"games":[]`)) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestCreateGame(t *testing.T) {
	h, _ := newTestHandler(t)
	body := []byte(`{"name":"Hades","status":"IN_PROGRESS","price":24.99}`)

	rec := doRequest(NewRouter(h, nil, nil), http.MethodPost, "/games", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Game
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected minted ID")
	}
	if created.Price != 24.99 {
		t.Fatalf("unexpected game: %+v", created)
	}
}

func TestCreateGameRejectsInvalidPayloads(t *testing.T) {
	h, _ := newTestHandler(t)
	router := NewRouter(h, nil, nil)

	cases := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"name":`},
		{"missing name", `{"status":"IN_PROGRESS"}`},
		{"unknown status", `{"name":"Hades","status":"PAUSED"}`},
		{"bad log date", `{"name":"Hades","status":"IN_PROGRESS","playLogs":[{"id":"l1","date":"2024-02-30","hours":1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/games", []byte(tc.body))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetGame(t *testing.T) {
	h, svc := newTestHandler(t)
	created, err := svc.UpsertGame(context.Background(), domain.Game{Name: "Hades", Status: domain.StatusCompleted})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	router := NewRouter(h, nil, nil)

	rec := doRequest(router, http.MethodGet, "/games/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodGet, "/games/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateGame(t *testing.T) {
	h, svc := newTestHandler(t)
	created, err := svc.UpsertGame(context.Background(), domain.Game{Name: "Hades", Status: domain.StatusInProgress})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	router := NewRouter(h, nil, nil)

	body := []byte(`{"name":"Hades","status":"COMPLETED","rating":9.5}`)
	rec := doRequest(router, http.MethodPut, "/games/"+created.ID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated domain.Game
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.ID != created.ID || updated.Status != domain.StatusCompleted {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	rec = doRequest(router, http.MethodPut, "/games/missing", body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown ID, got %d", rec.Code)
	}
}

func TestDeleteGame(t *testing.T) {
	h, svc := newTestHandler(t)
	created, err := svc.UpsertGame(context.Background(), domain.Game{Name: "Hades", Status: domain.StatusCompleted})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	router := NewRouter(h, nil, nil)

	rec := doRequest(router, http.MethodDelete, "/games/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodDelete, "/games/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", rec.Code)
	}
}

func TestAddPlayLog(t *testing.T) {
	h, svc := newTestHandler(t)
	created, err := svc.UpsertGame(context.Background(), domain.Game{Name: "Hades", Status: domain.StatusInProgress})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	router := NewRouter(h, nil, nil)

	body := []byte(`{"date":"2024-03-07","hours":2.5,"notes":"Elysium run"}`)
	rec := doRequest(router, http.MethodPost, "/games/"+created.ID+"/playlogs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated domain.Game
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(updated.PlayLogs) != 1 || updated.PlayLogs[0].ID == "" {
		t.Fatalf("unexpected play logs: %+v", updated.PlayLogs)
	}

	rec = doRequest(router, http.MethodPost, "/games/"+created.ID+"/playlogs", []byte(`{"date":"03/07/2024","hours":1}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodGet, "/games/"+created.ID+"/playlogs", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET playlogs, got %d", rec.Code)
	}
}

func TestUnknownGameSubpath(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doRequest(NewRouter(h, nil, nil), http.MethodGet, "/games/abc/unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
