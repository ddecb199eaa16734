package domain

import (
	"context"
	"time"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Category groups transactions and budgets. Names are unique per user.
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	Type      TransactionType
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Category) OwnerID() int64 { return c.UserID }

type CategoryRepository interface {
	Create(ctx context.Context, category Category) (*Category, error)
	// CreateMissing inserts the categories whose (user, name) pair does not
	// exist yet and returns how many rows were added.
	CreateMissing(ctx context.Context, categories []Category) (int, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	ListByUser(ctx context.Context, userID int64, typ *TransactionType) ([]Category, error)
	ExistsByNameAndUser(ctx context.Context, name string, userID int64) (bool, error)
	Update(ctx context.Context, category Category) (*Category, error)
	Delete(ctx context.Context, id int64) error
}
