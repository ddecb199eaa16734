package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msomdec/finance-tracker/internal/cache"
	"github.com/msomdec/finance-tracker/internal/domain"
	"golang.org/x/sync/singleflight"
)

// PrincipalResolver turns a session token into the Principal it was issued
// for. Lookups go through a short-lived cache, and concurrent misses for the
// same username share one database query.
type PrincipalResolver struct {
	tokens *TokenService
	users  domain.UserRepository
	cache  cache.Cache[domain.Principal]
	group  singleflight.Group
}

// NewPrincipalResolver creates a PrincipalResolver. cache may be nil to
// always read from the repository.
func NewPrincipalResolver(tokens *TokenService, users domain.UserRepository, c cache.Cache[domain.Principal]) *PrincipalResolver {
	return &PrincipalResolver{tokens: tokens, users: users, cache: c}
}

// Resolve verifies token and looks up its subject.
func (r *PrincipalResolver) Resolve(ctx context.Context, token string) (domain.Principal, error) {
	username, err := r.tokens.Verify(token)
	if err != nil {
		return domain.Principal{}, err
	}
	return r.Lookup(ctx, username)
}

// Lookup returns the Principal for username, or domain.ErrUserNotFound.
func (r *PrincipalResolver) Lookup(ctx context.Context, username string) (domain.Principal, error) {
	if r.cache != nil {
		p, ok, err := r.cache.Get(ctx, username)
		if err != nil {
			slog.WarnContext(ctx, "principal cache read failed", "error", err)
		} else if ok {
			return p, nil
		}
	}

	// The shared call must not fail because the first caller went away.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(username, func() (any, error) {
		user, err := r.users.GetByUsername(loadCtx, username)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, fmt.Errorf("get user by username: %w", err)
		}
		p := user.Principal()
		if r.cache != nil {
			if err := r.cache.Set(loadCtx, username, p); err != nil {
				slog.WarnContext(loadCtx, "principal cache write failed", "error", err)
			}
		}
		return p, nil
	})
	if err != nil {
		return domain.Principal{}, err
	}
	return v.(domain.Principal), nil
}

// Forget drops username from the cache so the next lookup reads the store.
func (r *PrincipalResolver) Forget(ctx context.Context, username string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, username); err != nil {
		slog.WarnContext(ctx, "principal cache delete failed", "error", err)
	}
}
