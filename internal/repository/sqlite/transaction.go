package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/msomdec/finance-tracker/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using SQLite.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new SQLite-backed TransactionRepository.
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db.SqlDB}
}

const transactionSelect = `SELECT t.id, t.user_id, t.category_id, c.name, t.amount_cents, t.description,
	t.type, t.transaction_date, t.created_at, t.updated_at
	FROM transactions t JOIN categories c ON c.id = t.category_id`

func (r *TransactionRepository) Create(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, amount_cents, description, type, transaction_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.CategoryID, tx.Amount, tx.Description, tx.Type, tx.Date.Format(domain.DateLayout), now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, domain.ErrInvalidReference
		}
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ?`, id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return tx, nil
}

func (r *TransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int, error) {
	where := []string{"t.user_id = ?"}
	args := []any{filter.UserID}
	if filter.From != nil {
		where = append(where, "t.transaction_date >= ?")
		args = append(args, filter.From.Format(domain.DateLayout))
	}
	if filter.To != nil {
		where = append(where, "t.transaction_date <= ?")
		args = append(args, filter.To.Format(domain.DateLayout))
	}
	if filter.CategoryID != nil {
		where = append(where, "t.category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.Type != nil {
		where = append(where, "t.type = ?")
		args = append(args, *filter.Type)
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions t`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		transactionSelect+clause+` ORDER BY t.transaction_date DESC, t.id DESC LIMIT ? OFFSET ?`,
		append(args, filter.Size, filter.Page*filter.Size)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// Update rewrites the mutable fields of a transaction. user_id is never touched.
func (r *TransactionRepository) Update(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET category_id = ?, amount_cents = ?, description = ?, type = ?, transaction_date = ?, updated_at = ?
		 WHERE id = ?`,
		tx.CategoryID, tx.Amount, tx.Description, tx.Type, tx.Date.Format(domain.DateLayout), time.Now().UTC(), tx.ID,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, domain.ErrInvalidReference
		}
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, tx.ID)
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(result)
}

func (r *TransactionRepository) TotalsByCategory(ctx context.Context, userID int64, from, to time.Time) ([]domain.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, t.type, SUM(t.amount_cents), COUNT(*)
		 FROM transactions t JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = ? AND t.transaction_date >= ? AND t.transaction_date <= ?
		 GROUP BY c.id, c.name, t.type
		 ORDER BY c.name, t.type`,
		userID, from.Format(domain.DateLayout), to.Format(domain.DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("sum transactions: %w", err)
	}
	defer rows.Close()

	var totals []domain.CategoryTotal
	for rows.Next() {
		var ct domain.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.Type, &ct.Total, &ct.Count); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var (
		tx   domain.Transaction
		date string
	)
	err := s.Scan(&tx.ID, &tx.UserID, &tx.CategoryID, &tx.CategoryName, &tx.Amount, &tx.Description,
		&tx.Type, &date, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	tx.Date, err = time.Parse(domain.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	return &tx, nil
}
