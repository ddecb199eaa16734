package domain

import (
	"context"
	"time"
)

// DateLayout is the wire and storage format of transaction dates.
const DateLayout = "2006-01-02"

type Transaction struct {
	ID           int64
	UserID       int64
	CategoryID   int64
	CategoryName string // Read-side join, ignored on write
	Amount       Money
	Description  string
	Type         TransactionType
	Date         time.Time // Calendar date, UTC midnight
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t Transaction) OwnerID() int64 { return t.UserID }

// TransactionFilter narrows a user's transaction listing. Nil fields are
// not applied. Page is 0-based.
type TransactionFilter struct {
	UserID     int64
	From       *time.Time
	To         *time.Time
	CategoryID *int64
	Type       *TransactionType
	Page       int
	Size       int
}

// CategoryTotal is the sum of a user's transactions in one category.
type CategoryTotal struct {
	CategoryID   int64
	CategoryName string
	Type         TransactionType
	Total        Money
	Count        int
}

type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction) (*Transaction, error)
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	// List returns one page of matching transactions, newest first, and the
	// total number of matches.
	List(ctx context.Context, filter TransactionFilter) ([]Transaction, int, error)
	Update(ctx context.Context, tx Transaction) (*Transaction, error)
	Delete(ctx context.Context, id int64) error
	TotalsByCategory(ctx context.Context, userID int64, from, to time.Time) ([]CategoryTotal, error)
}
