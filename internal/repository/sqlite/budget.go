package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/finance-tracker/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using SQLite.
type BudgetRepository struct {
	db *sql.DB
}

// NewBudgetRepository creates a new SQLite-backed BudgetRepository.
func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db.SqlDB}
}

const budgetSelect = `SELECT b.id, b.user_id, b.category_id, c.name, b.amount_cents, b.month, b.year,
	b.created_at, b.updated_at
	FROM budgets b JOIN categories c ON c.id = b.category_id`

// Upsert relies on the (user_id, category_id, month, year) unique index, so
// concurrent writers for the same period collapse into one row.
func (r *BudgetRepository) Upsert(ctx context.Context, budget domain.Budget) (*domain.Budget, error) {
	now := time.Now().UTC()
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO budgets (user_id, category_id, amount_cents, month, year, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, category_id, month, year)
		 DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = excluded.updated_at
		 RETURNING id`,
		budget.UserID, budget.CategoryID, budget.Amount, budget.Month, budget.Year, now, now,
	).Scan(&id)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, domain.ErrInvalidReference
		}
		return nil, fmt.Errorf("upsert budget: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *BudgetRepository) GetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	b := &domain.Budget{}
	err := r.db.QueryRowContext(ctx, budgetSelect+` WHERE b.id = ?`, id).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.Amount, &b.Month, &b.Year, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get budget by id: %w", err)
	}
	return b, nil
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		budgetSelect+` WHERE b.user_id = ? ORDER BY b.year DESC, b.month DESC, c.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()
	return scanBudgets(rows)
}

func (r *BudgetRepository) ListByPeriod(ctx context.Context, userID int64, month, year int) ([]domain.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		budgetSelect+` WHERE b.user_id = ? AND b.month = ? AND b.year = ? ORDER BY c.name`, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets by period: %w", err)
	}
	defer rows.Close()
	return scanBudgets(rows)
}

func (r *BudgetRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireAffected(result)
}

func scanBudgets(rows *sql.Rows) ([]domain.Budget, error) {
	var budgets []domain.Budget
	for rows.Next() {
		var b domain.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.Amount, &b.Month, &b.Year, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
