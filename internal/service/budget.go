package service

import (
	"context"
	"fmt"

	"github.com/msomdec/finance-tracker/internal/domain"
)

// BudgetService manages monthly per-category budgets.
type BudgetService struct {
	budgets    domain.BudgetRepository
	categories domain.CategoryRepository
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(budgets domain.BudgetRepository, categories domain.CategoryRepository) *BudgetService {
	return &BudgetService{budgets: budgets, categories: categories}
}

type BudgetInput struct {
	CategoryID int64
	Amount     domain.Money
	Month      int
	Year       int
}

// List returns the principal's budgets. month and year narrow the result
// when set.
func (s *BudgetService) List(ctx context.Context, p domain.Principal, month, year *int) ([]domain.Budget, error) {
	if month != nil {
		if err := validateMonth(*month); err != nil {
			return nil, err
		}
	}
	if year != nil {
		if err := validateYear(*year); err != nil {
			return nil, err
		}
	}

	if month != nil && year != nil {
		budgets, err := s.budgets.ListByPeriod(ctx, p.ID, *month, *year)
		if err != nil {
			return nil, fmt.Errorf("list budgets: %w", err)
		}
		return budgets, nil
	}

	all, err := s.budgets.ListByUser(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	if month == nil && year == nil {
		return all, nil
	}
	var filtered []domain.Budget
	for _, b := range all {
		if (month == nil || b.Month == *month) && (year == nil || b.Year == *year) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (s *BudgetService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Budget, error) {
	return loadOwned(ctx, p, id, s.budgets.GetByID)
}

// CreateOrUpdate sets the budget for a category and month. Repeating the
// call for the same period replaces the amount of the existing budget.
func (s *BudgetService) CreateOrUpdate(ctx context.Context, p domain.Principal, in BudgetInput) (*domain.Budget, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if err := validateMonth(in.Month); err != nil {
		return nil, err
	}
	if err := validateYear(in.Year); err != nil {
		return nil, err
	}

	category, err := ownedCategory(ctx, p, s.categories, in.CategoryID)
	if err != nil {
		return nil, err
	}

	return s.budgets.Upsert(ctx, domain.Budget{
		UserID:     p.ID,
		CategoryID: category.ID,
		Amount:     in.Amount,
		Month:      in.Month,
		Year:       in.Year,
	})
}

func (s *BudgetService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if _, err := loadOwned(ctx, p, id, s.budgets.GetByID); err != nil {
		return err
	}
	return s.budgets.Delete(ctx, id)
}

func validateMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", domain.ErrInvalidInput)
	}
	return nil
}

func validateYear(year int) error {
	if year < domain.MinBudgetYear {
		return fmt.Errorf("%w: year must be %d or later", domain.ErrInvalidInput, domain.MinBudgetYear)
	}
	return nil
}
