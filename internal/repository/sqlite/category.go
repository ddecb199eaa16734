package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/finance-tracker/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using SQLite.
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new SQLite-backed CategoryRepository.
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db.SqlDB}
}

const categoryColumns = `id, user_id, name, type, created_at, updated_at`

func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) (*domain.Category, error) {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		category.UserID, category.Name, category.Type, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err, "") {
			return nil, domain.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}

	category.ID = id
	category.CreatedAt = now
	category.UpdatedAt = now
	return &category, nil
}

func (r *CategoryRepository) CreateMissing(ctx context.Context, categories []domain.Category) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO categories (user_id, name, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, name) DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := 0
	for _, c := range categories {
		result, err := stmt.ExecContext(ctx, c.UserID, c.Name, c.Type, now, now)
		if err != nil {
			return 0, fmt.Errorf("insert category %q: %w", c.Name, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	c := &domain.Category{}
	err := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID int64, typ *domain.TransactionType) ([]domain.Category, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if typ == nil {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? ORDER BY name`, userID)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? AND type = ? ORDER BY name`, userID, *typ)
	}
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) ExistsByNameAndUser(ctx context.Context, name string, userID int64) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE user_id = ? AND name = ?)`, userID, name,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}
	return found, nil
}

// Update writes the name and type. The owning user is fixed at creation.
func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) (*domain.Category, error) {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, updated_at = ? WHERE id = ?`,
		category.Name, category.Type, now, category.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err, "") {
			return nil, domain.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, category.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		if isForeignKeyError(err) {
			return domain.ErrCategoryInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
