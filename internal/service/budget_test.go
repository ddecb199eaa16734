package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/finance-tracker/internal/domain"
	"github.com/msomdec/finance-tracker/internal/service"
)

func TestBudgetService_CreateOrUpdateCollapses(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	p := s.registerPrincipal(t, "alice")
	food := s.createCategory(t, p, "Food", domain.TransactionTypeExpense)

	first, err := s.budgets.CreateOrUpdate(ctx, p, service.BudgetInput{CategoryID: food.ID, Amount: 30000, Month: 5, Year: 2024})
	if err != nil {
		t.Fatalf("first CreateOrUpdate: %v", err)
	}

	before, err := s.budgets.List(ctx, p, nil, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	second, err := s.budgets.CreateOrUpdate(ctx, p, service.BudgetInput{CategoryID: food.ID, Amount: 45000, Month: 5, Year: 2024})
	if err != nil {
		t.Fatalf("second CreateOrUpdate: %v", err)
	}

	after, err := s.budgets.List(ctx, p, nil, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(after) != len(before) {
		t.Fatalf("expected budget count unchanged, got %d then %d", len(before), len(after))
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same budget to be updated, got ids %d and %d", first.ID, second.ID)
	}
	if second.Amount != 45000 {
		t.Fatalf("expected amount 45000, got %d", second.Amount)
	}
}

func TestBudgetService_InvalidInput(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	p := s.registerPrincipal(t, "alice")
	food := s.createCategory(t, p, "Food", domain.TransactionTypeExpense)

	for _, in := range []service.BudgetInput{
		{CategoryID: food.ID, Amount: 0, Month: 1, Year: 2024},
		{CategoryID: food.ID, Amount: 100, Month: 0, Year: 2024},
		{CategoryID: food.ID, Amount: 100, Month: 13, Year: 2024},
		{CategoryID: food.ID, Amount: 100, Month: 1, Year: 2019},
	} {
		_, err := s.budgets.CreateOrUpdate(ctx, p, in)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestBudgetService_ForeignCategory(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := s.registerPrincipal(t, "alice")
	bob := s.registerPrincipal(t, "bob")
	aliceFood := s.createCategory(t, alice, "Food", domain.TransactionTypeExpense)

	_, err := s.budgets.CreateOrUpdate(ctx, bob, service.BudgetInput{CategoryID: aliceFood.ID, Amount: 100, Month: 1, Year: 2024})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestBudgetService_CrossUserIsNotFound(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	alice := s.registerPrincipal(t, "alice")
	bob := s.registerPrincipal(t, "bob")
	food := s.createCategory(t, alice, "Food", domain.TransactionTypeExpense)

	b, err := s.budgets.CreateOrUpdate(ctx, alice, service.BudgetInput{CategoryID: food.ID, Amount: 100, Month: 1, Year: 2024})
	if err != nil {
		t.Fatalf("CreateOrUpdate: %v", err)
	}

	if _, err := s.budgets.Get(ctx, bob, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get: expected ErrNotFound, got %v", err)
	}
	if err := s.budgets.Delete(ctx, bob, b.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
	if err := s.budgets.Delete(ctx, alice, b.ID); err != nil {
		t.Fatalf("owner Delete: %v", err)
	}
}

func TestBudgetService_ListFilters(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	p := s.registerPrincipal(t, "alice")
	food := s.createCategory(t, p, "Food", domain.TransactionTypeExpense)
	bills := s.createCategory(t, p, "Bills", domain.TransactionTypeExpense)

	for _, in := range []service.BudgetInput{
		{CategoryID: food.ID, Amount: 100, Month: 1, Year: 2024},
		{CategoryID: bills.ID, Amount: 100, Month: 1, Year: 2024},
		{CategoryID: food.ID, Amount: 100, Month: 2, Year: 2024},
		{CategoryID: food.ID, Amount: 100, Month: 1, Year: 2025},
	} {
		if _, err := s.budgets.CreateOrUpdate(ctx, p, in); err != nil {
			t.Fatalf("CreateOrUpdate: %v", err)
		}
	}

	tests := []struct {
		name        string
		month, year *int
		want        int
	}{
		{"all", nil, nil, 4},
		{"period", ptr(1), ptr(2024), 2},
		{"month only", ptr(1), nil, 3},
		{"year only", nil, ptr(2024), 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.budgets.List(ctx, p, tc.month, tc.year)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("expected %d budgets, got %d", tc.want, len(got))
			}
		})
	}

	if _, err := s.budgets.List(ctx, p, ptr(13), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for month 13, got %v", err)
	}
}
