package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/finance-tracker/internal/domain"
)

const maxCategoryName = 50

// DefaultCategories are created for every new account.
var DefaultCategories = []struct {
	Name string
	Type domain.TransactionType
}{
	{"Food", domain.TransactionTypeExpense},
	{"Transport", domain.TransactionTypeExpense},
	{"Entertainment", domain.TransactionTypeExpense},
	{"Shopping", domain.TransactionTypeExpense},
	{"Bills", domain.TransactionTypeExpense},
	{"Healthcare", domain.TransactionTypeExpense},
	{"Salary", domain.TransactionTypeIncome},
	{"Freelance", domain.TransactionTypeIncome},
	{"Investment", domain.TransactionTypeIncome},
	{"Other Income", domain.TransactionTypeIncome},
}

// CategoryService manages a user's categories.
type CategoryService struct {
	categories domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories domain.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

type CategoryInput struct {
	Name string
	Type domain.TransactionType
}

// CategoryPatch holds the fields to change. Nil fields are left as they are.
type CategoryPatch struct {
	Name *string
	Type *domain.TransactionType
}

// List returns the principal's categories ordered by name, optionally only
// those of one type.
func (s *CategoryService) List(ctx context.Context, p domain.Principal, typ *domain.TransactionType) ([]domain.Category, error) {
	if typ != nil && !typ.Valid() {
		return nil, fmt.Errorf("%w: type must be INCOME or EXPENSE", domain.ErrInvalidInput)
	}
	categories, err := s.categories.ListByUser(ctx, p.ID, typ)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Category, error) {
	return loadOwned(ctx, p, id, s.categories.GetByID)
}

// Create adds a category. Names are unique per user.
func (s *CategoryService) Create(ctx context.Context, p domain.Principal, in CategoryInput) (*domain.Category, error) {
	name, err := validateCategory(in.Name, in.Type)
	if err != nil {
		return nil, err
	}

	exists, err := s.categories.ExistsByNameAndUser(ctx, name, p.ID)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateCategory
	}

	return s.categories.Create(ctx, domain.Category{UserID: p.ID, Name: name, Type: in.Type})
}

// Update applies patch to a category the principal owns.
func (s *CategoryService) Update(ctx context.Context, p domain.Principal, id int64, patch CategoryPatch) (*domain.Category, error) {
	current, err := loadOwned(ctx, p, id, s.categories.GetByID)
	if err != nil {
		return nil, err
	}

	next := *current
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Type != nil {
		next.Type = *patch.Type
	}

	next.Name, err = validateCategory(next.Name, next.Type)
	if err != nil {
		return nil, err
	}

	if next.Name != current.Name {
		exists, err := s.categories.ExistsByNameAndUser(ctx, next.Name, p.ID)
		if err != nil {
			return nil, fmt.Errorf("check category name: %w", err)
		}
		if exists {
			return nil, domain.ErrDuplicateCategory
		}
	}

	return s.categories.Update(ctx, next)
}

// Delete removes a category and its budgets. It fails with
// domain.ErrCategoryInUse while transactions still reference it.
func (s *CategoryService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if _, err := loadOwned(ctx, p, id, s.categories.GetByID); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryInUse) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// SeedDefaults creates any default categories userID does not have yet and
// returns how many were added. Running it again is a no-op.
func (s *CategoryService) SeedDefaults(ctx context.Context, userID int64) (int, error) {
	batch := make([]domain.Category, 0, len(DefaultCategories))
	for _, d := range DefaultCategories {
		batch = append(batch, domain.Category{UserID: userID, Name: d.Name, Type: d.Type})
	}
	n, err := s.categories.CreateMissing(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("seed default categories: %w", err)
	}
	return n, nil
}

func validateCategory(name string, typ domain.TransactionType) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxCategoryName {
		return "", fmt.Errorf("%w: category name must be at most %d characters", domain.ErrInvalidInput, maxCategoryName)
	}
	if !typ.Valid() {
		return "", fmt.Errorf("%w: type must be INCOME or EXPENSE", domain.ErrInvalidInput)
	}
	return name, nil
}
