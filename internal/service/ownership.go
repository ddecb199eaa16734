package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/finance-tracker/internal/domain"
)

type owned interface {
	OwnerID() int64
}

// loadOwned fetches a record and returns it only if p owns it. A missing
// record and someone else's record both yield domain.ErrNotFound, so callers
// cannot probe for ids that belong to other users.
func loadOwned[T owned](ctx context.Context, p domain.Principal, id int64, fetch func(context.Context, int64) (*T, error)) (*T, error) {
	rec, err := fetch(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if (*rec).OwnerID() != p.ID {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// ownedCategory applies the ownership check to a category that another
// record points at. A miss is the caller's bad reference, not a 404.
func ownedCategory(ctx context.Context, p domain.Principal, categories domain.CategoryRepository, id int64) (*domain.Category, error) {
	c, err := loadOwned(ctx, p, id, categories.GetByID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %d does not exist", domain.ErrInvalidReference, id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}
