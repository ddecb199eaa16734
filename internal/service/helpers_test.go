package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/finance-tracker/internal/domain"
	"github.com/msomdec/finance-tracker/internal/repository/sqlite"
	"github.com/msomdec/finance-tracker/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

// Use cost 4 for fast tests.
const testBcryptCost = 4

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type testServices struct {
	db           *sqlite.DB
	clock        *testClock
	tokens       *service.TokenService
	auth         *service.AuthService
	categories   *service.CategoryService
	transactions *service.TransactionService
	budgets      *service.BudgetService
	summary      *service.SummaryService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := newTestDB(t)
	clock := newTestClock()
	tokens := service.NewTokenService(testJWTSecret, 24*time.Hour, clock.Now)
	return &testServices{
		db:           db,
		clock:        clock,
		tokens:       tokens,
		auth:         service.NewAuthService(db.Users(), service.NewPasswordHasher(testBcryptCost), tokens),
		categories:   service.NewCategoryService(db.Categories()),
		transactions: service.NewTransactionService(db.Transactions(), db.Categories()),
		budgets:      service.NewBudgetService(db.Budgets(), db.Categories()),
		summary:      service.NewSummaryService(db.Transactions(), db.Budgets()),
	}
}

// registerPrincipal creates a user and returns the principal it acts as.
func (s *testServices) registerPrincipal(t *testing.T, username string) domain.Principal {
	t.Helper()
	user, err := s.auth.Register(context.Background(), service.RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user.Principal()
}

func (s *testServices) createCategory(t *testing.T, p domain.Principal, name string, typ domain.TransactionType) *domain.Category {
	t.Helper()
	c, err := s.categories.Create(context.Background(), p, service.CategoryInput{Name: name, Type: typ})
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }
