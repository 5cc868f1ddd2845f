package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// versionedRows is embedded by repositories whose rows carry row_version.
// It loads one row by id and drives WithRetry against it.
type versionedRows[T EntityWithVersion] struct {
	db      DB
	byIDSQL string
	scan    func(pgx.Row) (T, error)
	retries int
}

func newVersionedRows[T EntityWithVersion](db DB, byIDSQL string, scan func(pgx.Row) (T, error)) *versionedRows[T] {
	return &versionedRows[T]{db: db, byIDSQL: byIDSQL, scan: scan, retries: DefaultMaxRetries}
}

func (v *versionedRows[T]) load(ctx context.Context, id string) (T, error) {
	return v.scan(v.db.QueryRow(ctx, v.byIDSQL, id))
}

func (v *versionedRows[T]) fetch(ctx context.Context, id uuid.UUID) (T, error) {
	return v.load(ctx, id.String())
}

// mutate reloads and rewrites the row until write lands on the version it read.
func (v *versionedRows[T]) mutate(
	ctx context.Context,
	id uuid.UUID,
	fn func(T) error,
	write UpdateIfVersionFunc[T],
) error {
	return WithRetry(ctx, v.retries, id.String(), v.load, write, fn)
}
