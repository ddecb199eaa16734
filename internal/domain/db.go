package domain

import "context"

// Database defines lifecycle operations for the underlying record store.
// The implementation owns its migration files and applies them on Migrate.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
