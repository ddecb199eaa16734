package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/msomdec/finance-tracker/internal/domain"
)

const (
	DefaultPageSize   = 20
	MaxPageSize       = 100
	maxDescriptionLen = 255
)

// TransactionService manages a user's transactions.
type TransactionService struct {
	transactions domain.TransactionRepository
	categories   domain.CategoryRepository
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactions domain.TransactionRepository, categories domain.CategoryRepository) *TransactionService {
	return &TransactionService{transactions: transactions, categories: categories}
}

// TransactionInput describes a new transaction. An empty Type takes the
// category's type.
type TransactionInput struct {
	CategoryID  int64
	Amount      domain.Money
	Description string
	Type        domain.TransactionType
	Date        time.Time
}

// TransactionPatch holds the fields to change. Nil fields are left as they are.
type TransactionPatch struct {
	CategoryID  *int64
	Amount      *domain.Money
	Description *string
	Type        *domain.TransactionType
	Date        *time.Time
}

// TransactionPage is one page of a transaction listing.
type TransactionPage struct {
	Items      []domain.Transaction
	Page       int
	Size       int
	Total      int
	TotalPages int
}

// List returns the principal's transactions matching filter, newest first.
// filter.UserID is ignored. A zero Size means DefaultPageSize and sizes above
// MaxPageSize are capped.
func (s *TransactionService) List(ctx context.Context, p domain.Principal, filter domain.TransactionFilter) (*TransactionPage, error) {
	filter.UserID = p.ID
	if filter.Page < 0 {
		return nil, fmt.Errorf("%w: page must not be negative", domain.ErrInvalidInput)
	}
	switch {
	case filter.Size < 0:
		return nil, fmt.Errorf("%w: size must not be negative", domain.ErrInvalidInput)
	case filter.Size == 0:
		filter.Size = DefaultPageSize
	case filter.Size > MaxPageSize:
		filter.Size = MaxPageSize
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: start date must not be after end date", domain.ErrInvalidInput)
	}
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, fmt.Errorf("%w: type must be INCOME or EXPENSE", domain.ErrInvalidInput)
	}

	items, total, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return &TransactionPage{
		Items:      items,
		Page:       filter.Page,
		Size:       filter.Size,
		Total:      total,
		TotalPages: (total + filter.Size - 1) / filter.Size,
	}, nil
}

func (s *TransactionService) Get(ctx context.Context, p domain.Principal, id int64) (*domain.Transaction, error) {
	return loadOwned(ctx, p, id, s.transactions.GetByID)
}

// Create records a transaction against one of the principal's categories.
func (s *TransactionService) Create(ctx context.Context, p domain.Principal, in TransactionInput) (*domain.Transaction, error) {
	category, err := ownedCategory(ctx, p, s.categories, in.CategoryID)
	if err != nil {
		return nil, err
	}

	tx := domain.Transaction{
		UserID:      p.ID,
		CategoryID:  category.ID,
		Amount:      in.Amount,
		Description: in.Description,
		Type:        in.Type,
		Date:        in.Date,
	}
	if tx.Type == "" {
		tx.Type = category.Type
	}
	if err := normalizeTransaction(&tx); err != nil {
		return nil, err
	}

	return s.transactions.Create(ctx, tx)
}

// Update applies patch to a transaction the principal owns. A new category
// must also belong to the principal.
func (s *TransactionService) Update(ctx context.Context, p domain.Principal, id int64, patch TransactionPatch) (*domain.Transaction, error) {
	current, err := loadOwned(ctx, p, id, s.transactions.GetByID)
	if err != nil {
		return nil, err
	}

	next := *current
	if patch.CategoryID != nil && *patch.CategoryID != current.CategoryID {
		category, err := ownedCategory(ctx, p, s.categories, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		next.CategoryID = category.ID
	}
	if patch.Amount != nil {
		next.Amount = *patch.Amount
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if patch.Date != nil {
		next.Date = *patch.Date
	}
	if err := normalizeTransaction(&next); err != nil {
		return nil, err
	}

	return s.transactions.Update(ctx, next)
}

func (s *TransactionService) Delete(ctx context.Context, p domain.Principal, id int64) error {
	if _, err := loadOwned(ctx, p, id, s.transactions.GetByID); err != nil {
		return err
	}
	return s.transactions.Delete(ctx, id)
}

func normalizeTransaction(tx *domain.Transaction) error {
	if tx.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if !tx.Type.Valid() {
		return fmt.Errorf("%w: type must be INCOME or EXPENSE", domain.ErrInvalidInput)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("%w: transaction date is required", domain.ErrInvalidInput)
	}
	tx.Description = strings.TrimSpace(tx.Description)
	if utf8.RuneCountInString(tx.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be at most %d characters", domain.ErrInvalidInput, maxDescriptionLen)
	}
	y, m, d := tx.Date.Date()
	tx.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return nil
}
