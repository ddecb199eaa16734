package domain

import (
	"context"
	"time"
)

// MinBudgetYear is the earliest year a budget can be planned for.
const MinBudgetYear = 2020

// Budget is a spending limit for one category in one month. At most one
// budget exists per (user, category, month, year).
type Budget struct {
	ID           int64
	UserID       int64
	CategoryID   int64
	CategoryName string
	Amount       Money
	Month        int
	Year         int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (b Budget) OwnerID() int64 { return b.UserID }

type BudgetRepository interface {
	// Upsert inserts the budget or, when one already exists for the same
	// user, category, month and year, replaces its amount.
	Upsert(ctx context.Context, budget Budget) (*Budget, error)
	GetByID(ctx context.Context, id int64) (*Budget, error)
	ListByUser(ctx context.Context, userID int64) ([]Budget, error)
	ListByPeriod(ctx context.Context, userID int64, month, year int) ([]Budget, error)
	Delete(ctx context.Context, id int64) error
}
