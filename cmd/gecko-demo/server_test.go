package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testConfig() *Config {
	cfg := defaultConfig()
	cfg.Server.RequestTimeout = duration(5 * time.Second)
	cfg.Auth.Tokens = map[string]string{"secret-token": "alice"}
	return cfg
}

func TestStore_CRUD(t *testing.T) {
	store := testStore(t)

	note, err := store.Create("first", "body text")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if note.ID == 0 || note.Title != "first" {
		t.Errorf("Unexpected created note: %+v", note)
	}

	got, err := store.Get(note.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Body != "body text" {
		t.Errorf("Expected body to round-trip, got %q", got.Body)
	}

	notes, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(notes) != 1 {
		t.Errorf("Expected 1 note, got %d", len(notes))
	}

	existed, err := store.Delete(note.ID)
	if err != nil || !existed {
		t.Fatalf("Delete failed: existed=%v err=%v", existed, err)
	}
	if _, err := store.Get(note.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected ErrNoRows after delete, got %v", err)
	}
}

func TestServer_NotesAPI(t *testing.T) {
	engine, err := buildEngine(testConfig(), testStore(t))
	if err != nil {
		t.Fatalf("buildEngine failed: %v", err)
	}

	// Create.
	req := httptest.NewRequest("POST", "/api/v1/notes", strings.NewReader(`{"title":"hi","body":"there"}`))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d (%s)", w.Code, w.Body.String())
	}
	var created Note
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Bad create response: %v", err)
	}

	// Fetch by parameterized route.
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/notes/1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	// Missing note.
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/notes/999", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	// Validation.
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/notes", strings.NewReader(`{"body":"no title"}`)))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	// Delete.
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/v1/notes/1", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
}

func TestServer_AdminAuth(t *testing.T) {
	engine, err := buildEngine(testConfig(), testStore(t))
	if err != nil {
		t.Fatalf("buildEngine failed: %v", err)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/admin/whoami", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}

	req := httptest.NewRequest("GET", "/api/v1/admin/whoami", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 with token, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "alice") {
		t.Errorf("Expected subject in response, got %q", w.Body.String())
	}
}

func TestServer_Health(t *testing.T) {
	engine, err := buildEngine(testConfig(), testStore(t))
	if err != nil {
		t.Fatalf("buildEngine failed: %v", err)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("Expected request id header from the middleware stack")
	}
}
