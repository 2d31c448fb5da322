package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/torneoapp/torneo/internal/session"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store, err := session.Open(filepath.Join(t.TempDir(), "sessions.db"), clockwork.NewFakeClock())
	if err != nil {
		t.Fatalf("session.Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, zerolog.Nop()).Handler()
}

const scheduleBody = `{
	"event_name": "Spring Tournament",
	"event_date": "2026-05-17",
	"categories": [
		{"category": "U10", "teams": 5, "fields": 2, "start_time": "09:00",
		 "match_duration": 10, "break_duration": 5, "dedicated_referees": true},
		{"category": "U12", "team_names": ["Lions", "Tigers", "Bears"], "teams": 3,
		 "fields": 1, "start_time": "14:00", "match_duration": 12, "break_duration": 5,
		 "no_referee": true}
	]
}`

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", w.Code)
	}
}

func TestSchedule(t *testing.T) {
	handler := newTestServer(t)
	w := postJSON(t, handler, "/api/schedule", scheduleBody)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/schedule = %d, body %s", w.Code, w.Body)
	}

	var resp struct {
		Schedules []struct {
			Category string `json:"category"`
			Matches  []struct {
				Team1 string `json:"team1"`
				Team2 string `json:"team2"`
			} `json:"matches"`
		} `json:"schedules"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Schedules) != 2 {
		t.Fatalf("got %d schedules, want 2", len(resp.Schedules))
	}
	if resp.Schedules[0].Category != "U10" || len(resp.Schedules[0].Matches) != 10 {
		t.Errorf("U10 schedule = %s with %d matches, want 10",
			resp.Schedules[0].Category, len(resp.Schedules[0].Matches))
	}
	if len(resp.Schedules[1].Matches) != 3 {
		t.Errorf("U12 has %d matches, want 3", len(resp.Schedules[1].Matches))
	}
}

func TestScheduleRejects(t *testing.T) {
	handler := newTestServer(t)
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"malformed JSON", `{"categories": [`, http.StatusBadRequest},
		{"no categories", `{"categories": []}`, http.StatusBadRequest},
		{
			"invalid category",
			`{"categories": [{"category": "U10", "teams": 1, "fields": 1,
			  "start_time": "09:00", "match_duration": 10, "break_duration": 5}]}`,
			http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler, "/api/schedule", tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d; body %s", w.Code, tt.wantCode, w.Body)
			}
		})
	}
}

func TestExportExcel(t *testing.T) {
	handler := newTestServer(t)
	w := postJSON(t, handler, "/api/export/excel", scheduleBody)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/export/excel = %d, body %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "schedule.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	for _, sheet := range []string{"U10", "U12"} {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Errorf("sheet %s missing from exported workbook", sheet)
		}
	}
}

func TestSessionRoundTrip(t *testing.T) {
	handler := newTestServer(t)

	w := postJSON(t, handler, "/api/sessions",
		`{"label": "spring", "params": {"teams": 6, "fields": 2}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api/sessions = %d, body %s", w.Code, w.Body)
	}
	var saved struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if saved.Label != "spring" || saved.ID == "" {
		t.Errorf("saved session = %+v", saved)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/sessions = %d", w.Code)
	}
	var list []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(list) != 1 || list[0].ID != saved.ID {
		t.Errorf("list = %+v, want the saved session", list)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/"+saved.ID, nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /api/sessions/{id} = %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("GET /api/sessions/nope = %d, want 404", w.Code)
	}
}

func TestSessionSaveRejects(t *testing.T) {
	handler := newTestServer(t)
	w := postJSON(t, handler, "/api/sessions", `{"label": "no params"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("POST /api/sessions without params = %d, want 400", w.Code)
	}
}

func TestSessionSaveStorageFailure(t *testing.T) {
	store, err := session.Open(filepath.Join(t.TempDir(), "sessions.db"), clockwork.NewFakeClock())
	if err != nil {
		t.Fatalf("session.Open() error: %v", err)
	}
	handler := New(store, zerolog.Nop()).Handler()
	store.Close()

	w := postJSON(t, handler, "/api/sessions", `{"label": "spring", "params": {"teams": 6}}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("POST /api/sessions on closed store = %d, want 500", w.Code)
	}
}

func TestSessionsUnavailableWithoutStore(t *testing.T) {
	handler := New(nil, zerolog.Nop()).Handler()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /api/sessions = %d, want 503", w.Code)
	}
}
