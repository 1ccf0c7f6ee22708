package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeCreds struct {
	mu      sync.Mutex
	token   string
	cleared bool
}

func (f *fakeCreds) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeCreds) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.cleared = true
	return nil
}

func (f *fakeCreds) wasCleared() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleared
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeCreds) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	creds := &fakeCreds{token: "tok-123"}
	return New(srv.URL, "avenue-mall", 5*time.Second, creds), creds
}

// ============================================================
// Request shaping
// ============================================================

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(FootfallResult{Footfall: 42})
	})

	if _, err := c.Footfall(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestNoTokenNoHeader(t *testing.T) {
	var gotAuth string
	c, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(FootfallResult{})
	})
	creds.token = ""

	if _, err := c.Footfall(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got %q", gotAuth)
	}
}

func TestDefaultsApplied(t *testing.T) {
	var got Query
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(FootfallResult{})
	})

	if _, err := c.Footfall(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if got.SiteID != "avenue-mall" {
		t.Fatalf("expected default site, got %q", got.SiteID)
	}
	if got.FromUTC == 0 || got.ToUTC == 0 {
		t.Fatal("expected default time range to be filled in")
	}
	if got.ToUTC-got.FromUTC != 24*60*60*1000-1 {
		t.Fatalf("expected one-day range, got span %d", got.ToUTC-got.FromUTC)
	}
}

func TestExplicitQueryPassedThrough(t *testing.T) {
	var got Query
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(OccupancyResult{})
	})

	q := &Query{SiteID: "other-site", FromUTC: 1000, ToUTC: 2000}
	if _, err := c.Occupancy(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	if got.SiteID != "other-site" || got.FromUTC != 1000 || got.ToUTC != 2000 {
		t.Fatalf("query rewritten: %+v", got)
	}
}

// ============================================================
// 401 handling
// ============================================================

func TestUnauthorizedClearsCredentials(t *testing.T) {
	c, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	})

	fired := false
	c.OnUnauthorized(func() { fired = true })

	_, err := c.Footfall(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !creds.wasCleared() {
		t.Fatal("credentials not cleared on 401")
	}
	if !fired {
		t.Fatal("unauthorized hook not fired")
	}
	if StatusOf(err) != http.StatusUnauthorized {
		t.Fatalf("expected 401 status, got %d", StatusOf(err))
	}
	if UserMessage(err) != "token expired" {
		t.Fatalf("expected server message, got %q", UserMessage(err))
	}
}

func TestServerErrorKeepsCredentials(t *testing.T) {
	c, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	})

	_, err := c.DwellTime(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if creds.wasCleared() {
		t.Fatal("credentials cleared on non-401")
	}
	if StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", StatusOf(err))
	}
	if UserMessage(err) != "boom" {
		t.Fatalf("expected 'boom', got %q", UserMessage(err))
	}
}

func TestTransportErrorMessage(t *testing.T) {
	creds := &fakeCreds{}
	c := New("http://127.0.0.1:1", "avenue-mall", 200*time.Millisecond, creds)

	_, err := c.Footfall(context.Background(), nil)
	if err == nil {
		t.Fatal("expected connection error")
	}
	if StatusOf(err) != 0 {
		t.Fatalf("transport error should have status 0, got %d", StatusOf(err))
	}
	if UserMessage(err) != "Network error - please check connection" {
		t.Fatalf("unexpected message: %q", UserMessage(err))
	}
}

// ============================================================
// Login
// ============================================================

func TestLogin(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "a@b.com" || req.Password != "secret" {
			t.Errorf("bad login body: %+v", req)
		}
		json.NewEncoder(w).Encode(LoginResult{
			Token: "fresh-token",
			User:  User{ID: "u1", Name: "Ada", Email: "a@b.com"},
		})
	})

	res, err := c.Login(context.Background(), "a@b.com", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if res.Token != "fresh-token" || res.User.Name != "Ada" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

// ============================================================
// Entries
// ============================================================

func TestEntriesDefaults(t *testing.T) {
	var raw map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analytics/entry-exit" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&raw)
		json.NewEncoder(w).Encode(EntriesPage{PageNumber: 1, PageSize: 10})
	})

	page, err := c.Entries(context.Background(), EntriesQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if page.PageNumber != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if raw["siteId"] != "avenue-mall" {
		t.Fatalf("expected default site, got %v", raw["siteId"])
	}
	if raw["page"] != float64(1) || raw["limit"] != float64(10) {
		t.Fatalf("expected page/limit defaults, got page=%v limit=%v", raw["page"], raw["limit"])
	}
	if _, present := raw["search"]; present {
		t.Fatal("empty search must be omitted from the payload")
	}
	if _, present := raw["gender"]; present {
		t.Fatal("empty gender must be omitted from the payload")
	}
}

func TestEntriesFiltersIncluded(t *testing.T) {
	var raw map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		json.NewEncoder(w).Encode(EntriesPage{})
	})

	q := EntriesQuery{Page: 3, Limit: 25, Search: "smith", Gender: "Female"}
	if _, err := c.Entries(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	if raw["search"] != "smith" || raw["gender"] != "Female" {
		t.Fatalf("filters missing: %v", raw)
	}
	if raw["page"] != float64(3) || raw["limit"] != float64(25) {
		t.Fatalf("explicit paging rewritten: %v", raw)
	}
}

// ============================================================
// Simulation
// ============================================================

func TestSimulationEndpoints(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		paths = append(paths, r.URL.Path)
		json.NewEncoder(w).Encode(SimulationStatus{Running: r.URL.Path == "/api/sim/start"})
	})

	start, err := c.StartSimulation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !start.Running {
		t.Fatal("expected running after start")
	}

	stop, err := c.StopSimulation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stop.Running {
		t.Fatal("expected stopped after stop")
	}

	if len(paths) != 2 || paths[0] != "/api/sim/start" || paths[1] != "/api/sim/stop" {
		t.Fatalf("unexpected paths: %v", paths)
	}
}
