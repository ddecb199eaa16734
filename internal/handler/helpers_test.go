package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/finance-tracker/internal/cache"
	"github.com/msomdec/finance-tracker/internal/domain"
	"github.com/msomdec/finance-tracker/internal/handler"
	"github.com/msomdec/finance-tracker/internal/repository/sqlite"
	"github.com/msomdec/finance-tracker/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

const testTokenTTL = time.Hour

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	srv    *httptest.Server
	clock  *testClock
	tokens *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// The token clock follows real time so cookie expiry stays in the future.
	clock := &testClock{t: time.Now()}
	tokens := service.NewTokenService(testJWTSecret, testTokenTTL, clock.Now)
	principals := cache.NewLRU[domain.Principal](16, time.Minute)

	router := handler.NewRouter(handler.Services{
		Auth:         service.NewAuthService(db.Users(), service.NewPasswordHasher(4), tokens),
		Categories:   service.NewCategoryService(db.Categories()),
		Transactions: service.NewTransactionService(db.Transactions(), db.Categories()),
		Budgets:      service.NewBudgetService(db.Budgets(), db.Categories()),
		Summary:      service.NewSummaryService(db.Transactions(), db.Budgets()),
		Resolver:     service.NewPrincipalResolver(tokens, db.Users(), principals),
		DB:           db,
	}, handler.RouterOptions{
		AllowedOrigins: []string{"http://localhost:5173"},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, clock: clock, tokens: tokens}
}

// do sends a JSON request and returns the response with its body read.
// token may be empty.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

// expect fails the test unless the response has the wanted status.
func expect(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected status %d, got %d: %s",
			resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, body)
	}
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return v
}

// registerAndLogin creates an account and returns its bearer token.
func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	resp, body := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":  username,
		"email":     username + "@example.com",
		"password":  "password123",
		"firstName": "Test",
		"lastName":  "User",
	})
	expect(t, resp, body, http.StatusCreated)

	resp, body = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	expect(t, resp, body, http.StatusOK)
	return decode[map[string]any](t, body)["token"].(string)
}

// categoryID looks up one of the principal's categories by name.
func (e *testEnv) categoryID(t *testing.T, token, name string) int64 {
	t.Helper()
	resp, body := e.do(t, http.MethodGet, "/api/categories", token, nil)
	expect(t, resp, body, http.StatusOK)
	for _, c := range decode[[]handler.CategoryDTO](t, body) {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %q not found in %s", name, body)
	return 0
}
